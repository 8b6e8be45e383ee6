// Package scene is the narrow view of an imported mesh scene that material
// synthesis needs: per-mesh material names, diffuse texture hints and vertex color
// presence, plus the mesh to material binding that strict preset ordering rewrites.
package scene

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// MeshMaterial is the raw material an importer attached to a mesh.
type MeshMaterial struct {
	Name string `json:"name" yaml:"name"`
	// DiffuseTexture is the diffuse texture file path, empty when the material has none.
	DiffuseTexture string `json:"diffuseTexture,omitempty" yaml:"diffuseTexture,omitempty"`
}

// HasTexture reports whether a diffuse texture is bound.
func (m MeshMaterial) HasTexture() bool {
	return m.DiffuseTexture != ""
}

// TextureName is the diffuse texture file name without directory or extension.
func (m MeshMaterial) TextureName() string {
	if m.DiffuseTexture == "" {
		return ""
	}
	base := filepath.Base(filepath.FromSlash(m.DiffuseTexture))
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Scene is implemented by mesh importers.
type Scene interface {
	MeshCount() int
	MeshMaterial(i int) MeshMaterial
	HasVertexColor0(i int) bool
	SetMeshMaterialIndex(i, idx int)
}

// Mesh is one mesh of a Memory scene.
type Mesh struct {
	Name          string       `json:"name" yaml:"name"`
	Material      MeshMaterial `json:"material" yaml:"material"`
	VertexColor0  bool         `json:"vertexColor0" yaml:"vertexColor0"`
	MaterialIndex int          `json:"materialIndex" yaml:"materialIndex"`
}

// Memory is a Scene held entirely in memory. It doubles as the on-disk scene
// description used by the command line tools.
type Memory struct {
	Meshes []Mesh `json:"meshes" yaml:"meshes"`
}

func (s *Memory) MeshCount() int                  { return len(s.Meshes) }
func (s *Memory) MeshMaterial(i int) MeshMaterial { return s.Meshes[i].Material }
func (s *Memory) HasVertexColor0(i int) bool      { return s.Meshes[i].VertexColor0 }

func (s *Memory) SetMeshMaterialIndex(i, idx int) {
	s.Meshes[i].MaterialIndex = idx
}

// LoadFile reads a scene description. Files ending in .yaml or .yml are YAML,
// anything else is JSON. Meshes start bound to their own index.
func LoadFile(path string) (*Memory, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scene: %w", err)
	}

	s := &Memory{}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, s)
	default:
		err = json.Unmarshal(data, s)
	}
	if err != nil {
		return nil, fmt.Errorf("parse scene %s: %w", path, err)
	}

	for i := range s.Meshes {
		if s.Meshes[i].Material.Name == "" {
			return nil, fmt.Errorf("parse scene %s: mesh %d has no material name", path, i)
		}
		s.Meshes[i].MaterialIndex = i
	}
	return s, nil
}

// SaveFile writes s in the format selected by the extension of path.
func SaveFile(path string, s *Memory) error {
	var (
		data []byte
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(s)
	default:
		data, err = json.MarshalIndent(s, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("marshal scene: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
