package mat3

import (
	"fmt"
	"math"

	"github.com/goopsie/bmdFileTools/pkg/material"
)

// dedup returns the structurally distinct materials in first-occurrence order and the
// remap index of every input material.
func dedup(mats []*material.Material) ([]*material.Material, []int) {
	var unique []*material.Material
	remap := make([]int, len(mats))
	for i, m := range mats {
		remap[i] = -1
		for j, u := range unique {
			if material.Equal(m, u) {
				remap[i] = j
				break
			}
		}
		if remap[i] < 0 {
			remap[i] = len(unique)
			unique = append(unique, m)
		}
	}
	return unique, remap
}

func internSlots[T comparable](p *Pool[T], slots []material.Slot[T]) {
	for _, s := range slots {
		if s.Valid {
			p.Intern(s.Value)
		}
	}
}

func internSlot[T comparable](p *Pool[T], s material.Slot[T]) {
	if s.Valid {
		p.Intern(s.Value)
	}
}

// buildPools interns every value referenced by mats, in first-use order.
func buildPools(mats []*material.Material, legacy bool) (*pools, error) {
	p := &pools{}
	for _, m := range mats {
		for _, c := range []uint8{m.ColorChannelControlsCount, m.NumTexGensCount, m.NumTevStagesCount} {
			if c >= countLimit {
				return nil, fmt.Errorf("material %q: count %d does not fit the count pools", m.Name, c)
			}
		}

		p.cull.Intern(m.CullMode)
		p.chanCount.Intern(m.ColorChannelControlsCount)
		p.texGenCount.Intern(m.NumTexGensCount)
		p.tevStageCount.Intern(m.NumTevStagesCount)
		internSlot(&p.zMode, m.ZMode)
		if !legacy {
			p.zCompLoc.Intern(m.ZCompLoc)
			p.dither.Intern(m.Dither)
		}

		internSlots(&p.matColor, m.MaterialColors[:])
		internSlots(&p.chanCtrl, m.ChannelControls[:])
		if !legacy {
			internSlots(&p.ambient, m.AmbientColors[:])
			internSlots(&p.light, m.LightingColors[:])
		}
		internSlots(&p.texGen, m.TexCoord1Gens[:])
		internSlots(&p.postTexGen, m.PostTexCoordGens[:])
		internSlots(&p.texMtx, m.TexMatrix1[:])
		internSlots(&p.postTexMtx, m.PostTexMatrix[:])
		internSlots(&p.texNo, m.TextureIndices[:])
		internSlots(&p.konst, m.KonstColors[:])
		internSlots(&p.tevOrder, m.TevOrders[:])
		internSlots(&p.tevColor, m.TevColors[:])
		internSlots(&p.tevStage, m.TevStages[:])
		internSlots(&p.swapMode, m.SwapModes[:])
		internSlots(&p.swapTable, m.SwapTables[:])
		internSlot(&p.fog, m.FogInfo)
		internSlot(&p.alphaCmp, m.AlphaCompare)
		internSlot(&p.blend, m.BlendMode)
		if !legacy {
			internSlot(&p.nbt, m.NBTScale)
		}
	}

	if !legacy {
		buildIndirect(p, mats)
	}
	return p, nil
}

// indirectFirst moves the records that carry an indirect entry in front of those that
// do not, keeping relative order, and rewrites remap to match. The indirect pool is
// positional with no empty marker, so only a leading run of entries can be stored.
func indirectFirst(unique []*material.Material, remap []int) ([]*material.Material, []int) {
	order := make([]int, 0, len(unique))
	for i, m := range unique {
		if m.IndTexEntry.Valid {
			order = append(order, i)
		}
	}
	for i, m := range unique {
		if !m.IndTexEntry.Valid {
			order = append(order, i)
		}
	}

	moved := make([]int, len(unique))
	sorted := make([]*material.Material, len(unique))
	for to, from := range order {
		moved[from] = to
		sorted[to] = unique[from]
	}
	out := make([]int, len(remap))
	for i, idx := range remap {
		out[i] = moved[idx]
	}
	return sorted, out
}

// buildIndirect writes the indirect entries of the leading records that have one.
// The pool is positional, so it is not interned.
func buildIndirect(p *pools, mats []*material.Material) {
	for _, m := range mats {
		if !m.IndTexEntry.Valid {
			return
		}
		p.indirect.Append(m.IndTexEntry.Value)
	}
}

const (
	// maxByteIndexed is the largest pool an 8-bit record field can index.
	maxByteIndexed = math.MaxUint8 + 1
	// maxShortIndexed is the largest pool or record count a 16-bit field can index.
	maxShortIndexed = math.MaxInt16 + 1
)

// checkIndexRange fails when the record count or a pool needs wider indices than
// the init record and remap fields hold.
func (p *pools) checkIndexRange(records int) error {
	if records > maxShortIndexed {
		return fmt.Errorf("too many distinct materials: %d (limit %d)", records, maxShortIndexed)
	}

	byteIndexed := []struct {
		name string
		n    int
	}{
		{"cullMode", p.cull.Len()},
		{"zMode", p.zMode.Len()},
	}
	for _, f := range byteIndexed {
		if f.n > maxByteIndexed {
			return fmt.Errorf("%s pool has %d entries (limit %d)", f.name, f.n, maxByteIndexed)
		}
	}

	shortIndexed := []struct {
		name string
		n    int
	}{
		{"materialColors", p.matColor.Len()},
		{"channelControls", p.chanCtrl.Len()},
		{"ambientColors", p.ambient.Len()},
		{"lightingColors", p.light.Len()},
		{"texCoord1Gens", p.texGen.Len()},
		{"postTexCoordGens", p.postTexGen.Len()},
		{"texMatrix1", p.texMtx.Len()},
		{"postTexMatrix", p.postTexMtx.Len()},
		{"textureIndices", p.texNo.Len()},
		{"konstColors", p.konst.Len()},
		{"tevOrders", p.tevOrder.Len()},
		{"tevColors", p.tevColor.Len()},
		{"tevStages", p.tevStage.Len()},
		{"swapModes", p.swapMode.Len()},
		{"swapTables", p.swapTable.Len()},
		{"fogInfo", p.fog.Len()},
		{"alphaCompare", p.alphaCmp.Len()},
		{"blendMode", p.blend.Len()},
		{"nbtScale", p.nbt.Len()},
	}
	for _, f := range shortIndexed {
		if f.n > maxShortIndexed {
			return fmt.Errorf("%s pool has %d entries (limit %d)", f.name, f.n, maxShortIndexed)
		}
	}
	return nil
}
