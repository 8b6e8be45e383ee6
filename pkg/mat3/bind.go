package mat3

import (
	"errors"

	"github.com/goopsie/bmdFileTools/pkg/material"
	"github.com/goopsie/bmdFileTools/pkg/texture"
)

// TextureLibrary resolves texture names to TEX1 indices and back.
type TextureLibrary interface {
	Index(name string) int
	Name(i int) (string, bool)
}

// TextureStore is a TextureLibrary that can grow from image files.
type TextureStore interface {
	TextureLibrary
	Add(path string) (int, error)
}

const textureField = "textureIndices"

// MapTextureNames sets every named texture slot to the index of its name in lib.
// Names the library does not know leave the slot empty and produce a Diagnostic.
// Slots without a name are left untouched.
func (t *Table) MapTextureNames(lib TextureLibrary) []Diagnostic {
	var diags []Diagnostic
	for _, m := range t.Materials {
		for i, name := range m.TextureNames {
			if name == "" {
				continue
			}
			idx := lib.Index(name)
			if idx < 0 || idx > 0x7FFF {
				m.TextureIndices[i] = material.Slot[int16]{}
				diags = append(diags, Diagnostic{
					Material: m.Name, Field: textureField, Slot: i, Index: idx,
					Message: "texture " + name + " is not loaded",
				})
				continue
			}
			m.TextureIndices[i] = material.Some(int16(idx))
		}
	}
	t.Diagnostics = append(t.Diagnostics, diags...)
	return diags
}

// SetTextureNames fills TextureNames from the indices. An index the library does not
// cover clears the name and produces a Diagnostic.
func (t *Table) SetTextureNames(lib TextureLibrary) []Diagnostic {
	var diags []Diagnostic
	for _, m := range t.Materials {
		for i, s := range m.TextureIndices {
			if !s.Valid {
				m.TextureNames[i] = ""
				continue
			}
			name, ok := lib.Name(int(s.Value))
			if !ok {
				m.TextureNames[i] = ""
				diags = append(diags, Diagnostic{
					Material: m.Name, Field: textureField, Slot: i, Index: int(s.Value),
					Message: "no texture at this index",
				})
				continue
			}
			m.TextureNames[i] = name
		}
	}
	t.Diagnostics = append(t.Diagnostics, diags...)
	return diags
}

// LoadAdditionalTextures adds to store every texture name used by the materials that
// it does not hold yet, looking for dir/name with one of texture.SearchExtensions.
// Names are then mapped to indices with MapTextureNames.
func (t *Table) LoadAdditionalTextures(store TextureStore, dir string) ([]Diagnostic, error) {
	var diags []Diagnostic
	missing := map[string]bool{}
	for _, m := range t.Materials {
		for i, name := range m.TextureNames {
			if name == "" || store.Index(name) >= 0 || missing[name] {
				continue
			}
			path, err := texture.Find(dir, name)
			if errors.Is(err, texture.ErrNotFound) {
				missing[name] = true
				diags = append(diags, Diagnostic{
					Material: m.Name, Field: textureField, Slot: i, Index: -1,
					Message: "texture " + name + " not found in " + dir,
				})
				continue
			}
			if err != nil {
				return nil, err
			}
			if _, err := store.Add(path); err != nil {
				return nil, err
			}
		}
	}
	t.Diagnostics = append(t.Diagnostics, diags...)
	return append(diags, t.MapTextureNames(store)...), nil
}
