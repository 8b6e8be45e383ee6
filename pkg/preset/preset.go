// Package preset matches externally authored material presets onto materials
// synthesized from a mesh scene and overlays the preset fields.
//
// Matching walks the preset list in order and stops at the first entry that
// matches by any rule:
//
//   - exact name equality
//   - a "-material" name whose prefix is the preset name (renames to the preset)
//   - a generated "m..." name whose tail, after dropping 2, 3 or 4 characters,
//     equals the sanitized preset name (renames to the preset)
//
// "__MatDefault" and "__MatDefault:suffix" entries are fallbacks used only when no
// entry matched. Strict mode rejects fallbacks and requires every material to match.
package preset

import (
	"errors"
	"fmt"
	"strings"

	"github.com/goopsie/bmdFileTools/pkg/gx"
	"github.com/goopsie/bmdFileTools/pkg/mat3"
	"github.com/goopsie/bmdFileTools/pkg/material"
)

const (
	// DefaultName is the universal fallback preset.
	DefaultName = "__MatDefault"
	// DefaultPrefix starts a fallback preset that applies to names containing
	// "_" followed by the rest of the preset name.
	DefaultPrefix = "__MatDefault:"
	// MaterialSuffix is appended to material names by common exporters.
	MaterialSuffix = "-material"

	generatedPrefix = "m"
)

// ErrStrict is wrapped by every strict-mode failure.
var ErrStrict = errors.New("strict material order")

// Match is the result of a successful Find.
type Match struct {
	Preset *material.Material
	// Index is the preset's position in the list, or -1 for a fallback preset.
	Index int
	// Rename is the name the material takes, empty to keep it.
	Rename string
}

// Sanitize rewrites a preset name the way mesh importers mangle material names.
func Sanitize(name string) string {
	return strings.NewReplacer("(", "_", ")", "_", " ", "_").Replace(name)
}

// tailMatches reports whether name minus its first 2, 3 or 4 characters is s.
func tailMatches(name, s string) bool {
	for _, n := range []int{2, 3, 4} {
		if len(name) > n && name[n:] == s {
			return true
		}
	}
	return false
}

// isDefault reports whether p is one of the fallback presets.
func isDefault(p *material.Material) bool {
	return strings.HasPrefix(p.Name, DefaultName)
}

// DefaultSuffix returns the required name fragment of a "__MatDefault:x" preset,
// which is "_x".
func DefaultSuffix(presetName string) (string, bool) {
	if !strings.HasPrefix(presetName, DefaultPrefix) {
		return "", false
	}
	return "_" + presetName[len(DefaultPrefix):], true
}

// Find looks up the preset for a material called name. A nil Match means no preset
// applies. Nil list entries are skipped with a Diagnostic, or fail in strict mode.
func Find(name string, presets []*material.Material, strict bool) (*Match, []mat3.Diagnostic, error) {
	var (
		diags    []mat3.Diagnostic
		fallback *material.Material
	)
	for i, p := range presets {
		if p == nil {
			if strict {
				return nil, diags, fmt.Errorf("%w: preset entry %d is malformed", ErrStrict, i)
			}
			diags = append(diags, mat3.Diagnostic{
				Material: name,
				Message:  fmt.Sprintf("preset entry %d is malformed and was skipped", i),
			})
			continue
		}

		if p.Name == DefaultName && fallback == nil {
			if strict {
				return nil, diags, fmt.Errorf("%w: %q presets are not allowed", ErrStrict, DefaultName)
			}
			fallback = p
		}
		if suffix, ok := DefaultSuffix(p.Name); ok {
			if strict {
				return nil, diags, fmt.Errorf("%w: %q presets are not allowed", ErrStrict, DefaultPrefix)
			}
			if strings.Contains(name, suffix) {
				fallback = p
			}
		}

		if p.Name == name {
			return &Match{Preset: p, Index: i}, diags, nil
		}
		if strings.HasSuffix(name, MaterialSuffix) && strings.HasPrefix(name, p.Name) {
			return &Match{Preset: p, Index: i, Rename: p.Name}, diags, nil
		}
		if strings.HasPrefix(name, generatedPrefix) && tailMatches(name, Sanitize(p.Name)) {
			return &Match{Preset: p, Index: i, Rename: p.Name}, diags, nil
		}
	}

	if fallback == nil {
		return nil, diags, nil
	}
	return &Match{Preset: fallback, Index: -1}, diags, nil
}

// OriginalName maps an importer-mangled name back to the preset name it was derived
// from. Fallback presets never match.
func OriginalName(name string, presets []*material.Material) (string, bool) {
	stripped, hasSuffix := strings.CutSuffix(name, MaterialSuffix)
	for _, p := range presets {
		if p == nil || isDefault(p) {
			continue
		}
		sanitized := Sanitize(p.Name)
		if strings.HasPrefix(name, generatedPrefix) {
			if tailMatches(name, sanitized) || (hasSuffix && tailMatches(stripped, sanitized)) {
				return p.Name, true
			}
		}
		if hasSuffix && stripped == sanitized {
			return p.Name, true
		}
	}
	return "", false
}

// ApplyPreset overlays p onto dst. Flag, cull mode, z-compare location and dither
// always come from p. Every other field is copied only when p sets it. The derived
// counts are left alone; call Readjust afterwards.
func ApplyPreset(dst, p *material.Material) {
	dst.Flag = p.Flag
	dst.CullMode = p.CullMode
	dst.ZCompLoc = p.ZCompLoc
	dst.Dither = p.Dither

	overlay(&dst.IndTexEntry, p.IndTexEntry)
	overlayAll(dst.MaterialColors[:], p.MaterialColors[:])
	overlayAll(dst.ChannelControls[:], p.ChannelControls[:])
	overlayAll(dst.AmbientColors[:], p.AmbientColors[:])
	overlayAll(dst.LightingColors[:], p.LightingColors[:])
	overlayAll(dst.TexCoord1Gens[:], p.TexCoord1Gens[:])
	overlayAll(dst.PostTexCoordGens[:], p.PostTexCoordGens[:])
	overlayAll(dst.TexMatrix1[:], p.TexMatrix1[:])
	overlayAll(dst.PostTexMatrix[:], p.PostTexMatrix[:])
	if p.TextureNames != ([material.TextureCount]string{}) {
		dst.TextureNames = p.TextureNames
	}
	overlayAll(dst.TevOrders[:], p.TevOrders[:])
	if p.ColorSels != ([material.KonstSelectorCount]gx.KonstColorSel{}) {
		dst.ColorSels = p.ColorSels
	}
	if p.AlphaSels != ([material.KonstSelectorCount]gx.KonstAlphaSel{}) {
		dst.AlphaSels = p.AlphaSels
	}
	overlayAll(dst.TevColors[:], p.TevColors[:])
	overlayAll(dst.KonstColors[:], p.KonstColors[:])
	overlayAll(dst.TevStages[:], p.TevStages[:])
	overlayAll(dst.SwapModes[:], p.SwapModes[:])
	overlayAll(dst.SwapTables[:], p.SwapTables[:])
	overlay(&dst.FogInfo, p.FogInfo)
	overlay(&dst.AlphaCompare, p.AlphaCompare)
	overlay(&dst.BlendMode, p.BlendMode)
	overlay(&dst.ZMode, p.ZMode)
	overlay(&dst.NBTScale, p.NBTScale)
}

func overlay[T comparable](dst *material.Slot[T], src material.Slot[T]) {
	if src.Valid {
		*dst = src
	}
}

// overlayAll replaces the whole array when src has any slot set.
func overlayAll[T comparable](dst, src []material.Slot[T]) {
	if material.AnyValid(src) {
		copy(dst, src)
	}
}
