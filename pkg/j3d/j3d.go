// Package j3d indexes the chunks of a J3D model file (.bmd, .bdl) so that single
// chunks can be extracted, decoded and replaced.
package j3d

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goopsie/bmdFileTools/pkg/archive"
	"github.com/goopsie/bmdFileTools/pkg/binio"
	"github.com/goopsie/bmdFileTools/pkg/mat3"
	"github.com/goopsie/bmdFileTools/pkg/nametable"
)

const (
	// HeaderSize is the size of the file header before the first chunk.
	HeaderSize = 32
	// ChunkHeaderSize is the tag and size that start every chunk.
	ChunkHeaderSize = 8

	Magic      = "J3D2"
	Subversion = "SVR3"

	TagMaterials       = "MAT3"
	TagLegacyMaterials = "MAT2"
	TagTextures        = "TEX1"

	// BundleExt marks files stored as compressed bundles.
	BundleExt = ".j3dz"
)

// Header is the 32-byte file header.
type Header struct {
	Magic      [4]byte
	Type       [4]byte // "bmd3", "bdl4", ...
	FileSize   uint32
	ChunkCount uint32
	Subversion [16]byte // "SVR3" then 0xFF fill
}

// Chunk is one top-level chunk. Data holds the whole chunk including its tag and size.
type Chunk struct {
	Tag  string
	Data []byte
}

// File is a parsed J3D file.
type File struct {
	Header Header
	Chunks []Chunk
}

// Type returns the model type, e.g. "bmd3".
func (f *File) Type() string {
	return string(f.Header.Type[:])
}

// ChunkCount returns the number of chunks.
func (f *File) ChunkCount() int {
	return len(f.Chunks)
}

// Chunk returns the first chunk with tag, or nil.
func (f *File) Chunk(tag string) *Chunk {
	for i := range f.Chunks {
		if f.Chunks[i].Tag == tag {
			return &f.Chunks[i]
		}
	}
	return nil
}

// Tags lists the chunk tags in file order.
func (f *File) Tags() []string {
	tags := make([]string, len(f.Chunks))
	for i, c := range f.Chunks {
		tags[i] = c.Tag
	}
	return tags
}

// UnmarshalBinary parses a J3D file.
func (f *File) UnmarshalBinary(data []byte) error {
	if len(data) < HeaderSize {
		return fmt.Errorf("file too short: %d bytes", len(data))
	}
	if err := binary.Read(bytes.NewReader(data[:HeaderSize]), binary.BigEndian, &f.Header); err != nil {
		return fmt.Errorf("read header: %w", err)
	}
	if string(f.Header.Magic[:]) != Magic {
		return fmt.Errorf("invalid magic: expected %q, got %q", Magic, f.Header.Magic[:])
	}

	if limit := (len(data) - HeaderSize) / ChunkHeaderSize; int(f.Header.ChunkCount) > limit {
		return fmt.Errorf("chunk count %d does not fit file of %d bytes", f.Header.ChunkCount, len(data))
	}
	f.Chunks = make([]Chunk, 0, f.Header.ChunkCount)
	off := HeaderSize
	for i := 0; i < int(f.Header.ChunkCount); i++ {
		if off+ChunkHeaderSize > len(data) {
			return fmt.Errorf("chunk %d: header at %d past end of file", i, off)
		}
		tag := string(data[off : off+4])
		size := int(binary.BigEndian.Uint32(data[off+4:]))
		if size < ChunkHeaderSize || off+size > len(data) {
			return fmt.Errorf("chunk %d (%s): size %d at %d does not fit file of %d bytes", i, tag, size, off, len(data))
		}
		f.Chunks = append(f.Chunks, Chunk{Tag: tag, Data: data[off : off+size]})
		off += size
	}
	return nil
}

// MarshalBinary encodes the file, recomputing the size and chunk count.
func (f *File) MarshalBinary() ([]byte, error) {
	h := f.Header
	h.ChunkCount = uint32(len(f.Chunks))
	size := HeaderSize
	for _, c := range f.Chunks {
		size += len(c.Data)
	}
	h.FileSize = uint32(size)

	buf := bytes.NewBuffer(make([]byte, 0, size))
	if err := binary.Write(buf, binary.BigEndian, h); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}
	for _, c := range f.Chunks {
		buf.Write(c.Data)
	}
	f.Header = h
	return buf.Bytes(), nil
}

// NewFile returns an empty file of the given type ("bmd3" or "bdl4").
func NewFile(typ string) *File {
	f := &File{}
	copy(f.Header.Magic[:], Magic)
	copy(f.Header.Type[:], typ)
	copy(f.Header.Subversion[:], Subversion)
	for i := len(Subversion); i < len(f.Header.Subversion); i++ {
		f.Header.Subversion[i] = 0xFF
	}
	return f
}

// materialChunk returns the material chunk and whether it is the legacy MAT2 variant.
func (f *File) materialChunk() (*Chunk, bool) {
	if c := f.Chunk(TagMaterials); c != nil {
		return c, false
	}
	if c := f.Chunk(TagLegacyMaterials); c != nil {
		return c, true
	}
	return nil, false
}

// Materials decodes the material chunk. A MAT2 chunk is read as legacy.
func (f *File) Materials(opts ...mat3.Option) (*mat3.Table, error) {
	c, legacy := f.materialChunk()
	if c == nil {
		return nil, fmt.Errorf("no %s or %s chunk", TagMaterials, TagLegacyMaterials)
	}
	if legacy {
		opts = append(opts, mat3.WithLegacy(true))
	}
	return mat3.Decode(c.Data, opts...)
}

// SetMaterials encodes t into the material chunk, in the variant t.Legacy selects.
// A file without a material chunk gets one appended.
func (f *File) SetMaterials(t *mat3.Table, opts ...mat3.Option) error {
	opts = append(opts, mat3.WithLegacy(t.Legacy))
	data, err := mat3.Encode(t, opts...)
	if err != nil {
		return err
	}
	tag := string(data[:4])

	if c, _ := f.materialChunk(); c != nil {
		c.Tag, c.Data = tag, data
		return nil
	}
	f.Chunks = append(f.Chunks, Chunk{Tag: tag, Data: data})
	return nil
}

// TextureNames reads the name table of the TEX1 chunk.
func (f *File) TextureNames() ([]string, error) {
	c := f.Chunk(TagTextures)
	if c == nil {
		return nil, fmt.Errorf("no %s chunk", TagTextures)
	}
	if len(c.Data) < 0x14 {
		return nil, fmt.Errorf("%s chunk too short", TagTextures)
	}
	off := int64(binary.BigEndian.Uint32(c.Data[0x10:]))
	r := binio.NewReader(bytes.NewReader(c.Data), binary.BigEndian)
	names, err := nametable.Load(r, off)
	if err != nil {
		return nil, fmt.Errorf("read texture names: %w", err)
	}
	return names, nil
}

// Parse decodes a J3D file or a bundle holding one.
func Parse(data []byte) (*File, error) {
	if archive.IsBundle(data) {
		kind, payload, err := archive.Unpack(data)
		if err != nil {
			return nil, fmt.Errorf("read bundle: %w", err)
		}
		if kind != Magic {
			return nil, fmt.Errorf("bundle holds %q, not a J3D file", kind)
		}
		data = payload
	}
	f := &File{}
	if err := f.UnmarshalBinary(data); err != nil {
		return nil, fmt.Errorf("parse j3d: %w", err)
	}
	return f, nil
}

// ReadFile reads and parses a J3D file or bundle.
func ReadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("open model: %w", err)
	}
	return Parse(data)
}

// WriteFile writes f to path, as a bundle when path ends in BundleExt.
func WriteFile(path string, f *File, opts ...archive.WriterOption) error {
	data, err := f.MarshalBinary()
	if err != nil {
		return fmt.Errorf("marshal model: %w", err)
	}
	if strings.EqualFold(filepath.Ext(path), BundleExt) {
		if data, err = archive.Pack(Magic, data, opts...); err != nil {
			return fmt.Errorf("pack model: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write model: %w", err)
	}
	return nil
}
