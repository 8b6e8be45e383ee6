package preset

import (
	"fmt"
	"strings"

	"github.com/goopsie/bmdFileTools/pkg/logging"
	"github.com/goopsie/bmdFileTools/pkg/mat3"
	"github.com/goopsie/bmdFileTools/pkg/material"
	"github.com/goopsie/bmdFileTools/pkg/scene"
)

// Merger builds a material table for a scene, one material per mesh.
type Merger struct {
	// Presets is searched with Find for every mesh material. Nil disables presets.
	Presets []*material.Material
	// Strict requires a one to one mapping between meshes and presets, and orders
	// the result like Presets.
	Strict bool
	// Textures resolves diffuse texture names. When it is a mat3.TextureStore and
	// TextureDir is set, textures named by presets are loaded from TextureDir.
	Textures   mat3.TextureLibrary
	TextureDir string
	Logger     logging.Logger
}

// Build synthesizes a material per mesh, overlays matching presets and binds
// textures. In strict mode the scene's mesh to material indices are rewritten to the
// sorted order.
func (mg *Merger) Build(sc scene.Scene) (*mat3.Table, error) {
	log := logging.OrNop(mg.Logger)
	n := sc.MeshCount()
	mats := make([]*material.Material, 0, n)
	indices := make([]int, 0, n)
	var diags []mat3.Diagnostic

	for i := 0; i < n; i++ {
		mm := sc.MeshMaterial(i)
		log.Debugf("mesh %d has material %s", i, mm.Name)

		m, idx, d, err := mg.buildOne(mm, sc.HasVertexColor0(i), log)
		diags = append(diags, d...)
		if err != nil {
			return nil, err
		}
		mats = append(mats, m)
		indices = append(indices, idx)
	}

	if mg.Strict {
		sorted, err := mg.sortStrict(sc, mats, indices)
		if err != nil {
			return nil, err
		}
		mats = sorted
		log.Infof("materials sorted by their position in the preset list")
	}

	t := mat3.NewTable(mats)
	t.Diagnostics = diags
	if mg.Textures != nil {
		if store, ok := mg.Textures.(mat3.TextureStore); ok && mg.TextureDir != "" {
			if _, err := t.LoadAdditionalTextures(store, mg.TextureDir); err != nil {
				return nil, fmt.Errorf("load textures: %w", err)
			}
		} else {
			t.MapTextureNames(mg.Textures)
		}
	}

	for _, d := range t.Diagnostics {
		log.Warnf("%s", d)
	}
	return t, nil
}

// buildOne returns the material for one mesh and the index of the preset it matched,
// or -1.
func (mg *Merger) buildOne(mm scene.MeshMaterial, vtxColor0 bool, log logging.Logger) (*material.Material, int, []mat3.Diagnostic, error) {
	name := mm.Name
	if orig, ok := OriginalName(name, mg.Presets); ok {
		log.Infof("material name %s renamed to %s", name, orig)
		name = orig
	}

	m := material.New(name)
	texIndex := -1
	if mm.HasTexture() && mg.Textures != nil {
		texIndex = mg.Textures.Index(mm.TextureName())
	}
	m.SetUpTev(mm.HasTexture(), vtxColor0, texIndex, mm.TextureName())

	match, diags, err := Find(name, mg.Presets, mg.Strict)
	if err != nil {
		return nil, -1, diags, err
	}
	if match == nil {
		if mg.Strict {
			return nil, -1, diags, fmt.Errorf("%w: no preset for material %s", ErrStrict, name)
		}
		if mg.Presets != nil {
			diags = append(diags, mat3.Diagnostic{Material: name, Message: "no preset matched, using default material"})
		}
		m.Readjust()
		return m, -1, diags, nil
	}

	if suffix, ok := DefaultSuffix(match.Preset.Name); ok {
		m.Name = strings.ReplaceAll(m.Name, suffix, "")
	}
	if match.Rename != "" {
		log.Infof("renamed %s to %s", m.Name, match.Rename)
		m.Name = match.Rename
	}
	log.Debugf("applying preset %s to %s", match.Preset.Name, m.Name)
	ApplyPreset(m, match.Preset)
	m.Readjust()
	return m, match.Index, diags, nil
}

// sortStrict places every material at its preset's index and points each mesh at it.
func (mg *Merger) sortStrict(sc scene.Scene, mats []*material.Material, indices []int) ([]*material.Material, error) {
	if len(mats) != len(mg.Presets) {
		return nil, fmt.Errorf("%w: amount of materials doesn't match amount of presets: %d vs %d",
			ErrStrict, len(mats), len(mg.Presets))
	}

	sorted := make([]*material.Material, len(mats))
	for i, idx := range indices {
		if idx < 0 || idx >= len(sorted) {
			return nil, fmt.Errorf("%w: material %s has no preset position", ErrStrict, mats[i].Name)
		}
		if sorted[idx] != nil {
			return nil, fmt.Errorf("%w: materials %s and %s both match preset %d",
				ErrStrict, sorted[idx].Name, mats[i].Name, idx)
		}
		sorted[idx] = mats[i]
	}
	for i, idx := range indices {
		sc.SetMeshMaterialIndex(i, idx)
	}
	return sorted, nil
}
