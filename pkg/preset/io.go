package preset

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goopsie/bmdFileTools/pkg/material"
)

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

// Unmarshal parses a preset document: a list of materials, where null entries stay nil.
func Unmarshal(data []byte, asYAML bool) ([]*material.Material, error) {
	var mats []*material.Material
	var err error
	if asYAML {
		err = yaml.Unmarshal(data, &mats)
	} else {
		err = json.Unmarshal(data, &mats)
	}
	return mats, err
}

// Marshal encodes mats as a preset document.
func Marshal(mats []*material.Material, asYAML bool) ([]byte, error) {
	if asYAML {
		return yaml.Marshal(mats)
	}
	return json.MarshalIndent(mats, "", "  ")
}

// LoadFile reads a preset document, YAML for .yaml/.yml and JSON otherwise.
func LoadFile(path string) ([]*material.Material, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read presets: %w", err)
	}
	mats, err := Unmarshal(data, isYAML(path))
	if err != nil {
		return nil, fmt.Errorf("parse presets %s: %w", path, err)
	}
	return mats, nil
}

// SaveFile writes mats to a single preset document.
func SaveFile(path string, mats []*material.Material) error {
	data, err := Marshal(mats, isYAML(path))
	if err != nil {
		return fmt.Errorf("marshal presets: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write presets: %w", err)
	}
	return nil
}

// SaveDir writes one document per material into dir, each holding a list of one.
// ext selects the format and defaults to .json.
func SaveDir(dir string, mats []*material.Material, ext string) ([]string, error) {
	if ext == "" {
		ext = ".json"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create dir: %w", err)
	}

	paths := make([]string, 0, len(mats))
	seen := map[string]int{}
	for _, m := range mats {
		if m == nil {
			continue
		}
		base := fileName(m.Name)
		if n := seen[base]; n > 0 {
			base = fmt.Sprintf("%s_%d", base, n)
		}
		seen[fileName(m.Name)]++

		path := filepath.Join(dir, base+ext)
		if err := SaveFile(path, []*material.Material{m}); err != nil {
			return nil, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// fileName makes a material name safe to use as a file name.
func fileName(name string) string {
	name = strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return '_'
		}
		return r
	}, name)
	if name == "" {
		return "unnamed"
	}
	return name
}
