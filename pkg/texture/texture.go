// Package texture tracks the textures a model references (the TEX1 chunk) and finds
// and decodes texture images on disk.
//
// Materials refer to textures by TEX1 index. The Catalog keeps the name for every
// index so that indices can be rebuilt after materials are edited or merged with
// presets. Images are decoded only to record their dimensions; pixel conversion to
// GX texture formats is out of scope.
package texture

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/ftrvxmtrx/tga"
	"golang.org/x/image/bmp"
)

// SearchExtensions lists the file extensions Find tries, in order.
var SearchExtensions = []string{".png", ".jpg", ".tga", ".bmp"}

// ErrNotFound is returned by Find when no image file matches.
var ErrNotFound = errors.New("texture not found")

// Info describes one catalogued texture.
type Info struct {
	Name   string
	Path   string // empty for textures read from a model
	Format string // decoder used: png, jpeg, tga or bmp
	Width  int
	Height int
}

// String returns a one-line description.
func (i Info) String() string {
	if i.Path == "" {
		return i.Name
	}
	return fmt.Sprintf("%s (%s %dx%d, %s)", i.Name, i.Format, i.Width, i.Height, i.Path)
}

// Catalog is an ordered list of texture names. The position of a name is its TEX1 index.
type Catalog struct {
	textures []Info
	index    map[string]int
}

// NewCatalog returns a catalog holding names in order.
func NewCatalog(names ...string) *Catalog {
	c := &Catalog{index: make(map[string]int, len(names))}
	for _, n := range names {
		c.append(Info{Name: n})
	}
	return c
}

func (c *Catalog) append(info Info) int {
	if c.index == nil {
		c.index = make(map[string]int)
	}
	idx := len(c.textures)
	c.textures = append(c.textures, info)
	if _, ok := c.index[info.Name]; !ok {
		c.index[info.Name] = idx
	}
	return idx
}

// Len returns the number of textures.
func (c *Catalog) Len() int { return len(c.textures) }

// Index returns the first index of name, or -1.
func (c *Catalog) Index(name string) int {
	if idx, ok := c.index[name]; ok {
		return idx
	}
	return -1
}

// Name returns the name at index i.
func (c *Catalog) Name(i int) (string, bool) {
	if i < 0 || i >= len(c.textures) {
		return "", false
	}
	return c.textures[i].Name, true
}

// Info returns the entry at index i.
func (c *Catalog) Info(i int) (Info, bool) {
	if i < 0 || i >= len(c.textures) {
		return Info{}, false
	}
	return c.textures[i], true
}

// Names returns all names in index order.
func (c *Catalog) Names() []string {
	out := make([]string, len(c.textures))
	for i, t := range c.textures {
		out[i] = t.Name
	}
	return out
}

// Add decodes the image at path and appends it under its base name without extension.
// A name that is already catalogued returns its existing index.
func (c *Catalog) Add(path string) (int, error) {
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	if idx := c.Index(name); idx >= 0 {
		return idx, nil
	}
	info, err := Probe(path)
	if err != nil {
		return -1, err
	}
	info.Name = name
	return c.append(info), nil
}

// Find returns the first existing file dir/name+ext for ext in SearchExtensions.
func Find(dir, name string) (string, error) {
	for _, ext := range SearchExtensions {
		path := filepath.Join(dir, name+ext)
		st, err := os.Stat(path)
		if err == nil && !st.IsDir() {
			return path, nil
		}
	}
	return "", fmt.Errorf("%w: %s in %s", ErrNotFound, name, dir)
}

// Probe decodes the image at path and reports its format and dimensions.
func Probe(path string) (Info, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Info{}, fmt.Errorf("failed to read texture: %w", err)
	}
	img, format, err := Decode(data, filepath.Ext(path))
	if err != nil {
		return Info{}, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	b := img.Bounds()
	return Info{Path: path, Format: format, Width: b.Dx(), Height: b.Dy()}, nil
}

// Decode decodes data using the decoder for ext.
func Decode(data []byte, ext string) (image.Image, string, error) {
	r := bytes.NewReader(data)
	switch strings.ToLower(ext) {
	case ".png":
		img, err := png.Decode(r)
		return img, "png", err
	case ".jpg", ".jpeg":
		img, err := jpeg.Decode(r)
		return img, "jpeg", err
	case ".tga":
		img, err := tga.Decode(r)
		return img, "tga", err
	case ".bmp":
		img, err := bmp.Decode(r)
		return img, "bmp", err
	default:
		return nil, "", fmt.Errorf("unsupported image extension %q", ext)
	}
}
