package mat3

import (
	"encoding/binary"
	"fmt"

	"github.com/goopsie/bmdFileTools/pkg/binio"
	"github.com/goopsie/bmdFileTools/pkg/gx"
	"github.com/goopsie/bmdFileTools/pkg/material"
)

const (
	// RecordSize is the size of one init record.
	RecordSize = 332
	// LegacyRecordSize is the MAT2 record size, which has no ambient or light colors.
	LegacyRecordSize = RecordSize - 2*material.AmbientColorCount - 2*material.LightColorCount
)

func recordSize(legacy bool) int {
	if legacy {
		return LegacyRecordSize
	}
	return RecordSize
}

// Policy is what happens when an index field points outside its pool.
type Policy uint8

const (
	// PolicyFault aborts the chunk with an *IndexError.
	PolicyFault Policy = iota
	// PolicySkip leaves the slot empty and records a Diagnostic.
	PolicySkip
	// PolicyEmpty leaves the slot empty silently.
	PolicyEmpty
)

func (p Policy) String() string {
	switch p {
	case PolicyFault:
		return "fault"
	case PolicySkip:
		return "skip"
	case PolicyEmpty:
		return "empty"
	default:
		return fmt.Sprintf("Policy(%d)", uint8(p))
	}
}

// field describes one index field of the init record.
type field struct {
	name   string
	policy Policy
	// sentinel is true for 16-bit fields where -1 means an empty slot.
	sentinel bool
	// negEmpty widens the sentinel to every negative index.
	negEmpty bool
}

var (
	fieldCullMode       = field{name: "cullMode", policy: PolicyFault}
	fieldChanCount      = field{name: "colorChannelCount", policy: PolicyFault}
	fieldTexGenCount    = field{name: "texGenCount", policy: PolicyFault}
	fieldTevStageCount  = field{name: "tevStageCount", policy: PolicyFault}
	fieldZCompLoc       = field{name: "zCompLoc", policy: PolicySkip}
	fieldZMode          = field{name: "zMode", policy: PolicyFault}
	fieldDither         = field{name: "dither", policy: PolicySkip}
	fieldIndirect       = field{name: "indirect", policy: PolicySkip}
	fieldMaterialColors = field{name: "materialColors", policy: PolicySkip, sentinel: true}
	fieldChanCtrls      = field{name: "channelControls", policy: PolicySkip, sentinel: true}
	fieldAmbientColors  = field{name: "ambientColors", policy: PolicySkip, sentinel: true}
	fieldLightColors    = field{name: "lightingColors", policy: PolicySkip, sentinel: true}
	fieldTexGens        = field{name: "texCoord1Gens", policy: PolicySkip, sentinel: true}
	fieldPostTexGens    = field{name: "postTexCoordGens", policy: PolicyFault, sentinel: true}
	fieldTexMatrix1     = field{name: "texMatrix1", policy: PolicyFault, sentinel: true}
	fieldPostTexMatrix  = field{name: "postTexMatrix", policy: PolicySkip, sentinel: true}
	fieldTexNo          = field{name: "textureIndices", policy: PolicyFault, sentinel: true}
	fieldKonstColors    = field{name: "konstColors", policy: PolicySkip, sentinel: true}
	fieldTevOrders      = field{name: "tevOrders", policy: PolicySkip, sentinel: true}
	fieldTevColors      = field{name: "tevColors", policy: PolicySkip, sentinel: true}
	fieldTevStages      = field{name: "tevStages", policy: PolicySkip, sentinel: true}
	fieldSwapModes      = field{name: "swapModes", policy: PolicySkip, sentinel: true}
	fieldSwapTables     = field{name: "swapTables", policy: PolicyEmpty, sentinel: true, negEmpty: true}
	fieldFog            = field{name: "fogInfo", policy: PolicyFault, sentinel: true}
	fieldAlphaCompare   = field{name: "alphaCompare", policy: PolicyFault, sentinel: true}
	fieldBlendMode      = field{name: "blendMode", policy: PolicyFault, sentinel: true}
	fieldNBTScale       = field{name: "nbtScale", policy: PolicyFault, sentinel: true}
)

// fieldCursor walks the bytes of one init record.
type fieldCursor struct {
	b     []byte
	pos   int
	order binary.ByteOrder
}

func (c *fieldCursor) u8() int {
	v := c.b[c.pos]
	c.pos++
	return int(v)
}

func (c *fieldCursor) s16() int {
	v := int16(c.order.Uint16(c.b[c.pos:]))
	c.pos += 2
	return int(v)
}

// recordDecoder resolves init records against the loaded pools.
type recordDecoder struct {
	pools  *pools
	legacy bool
	order  binary.ByteOrder
	diags  []Diagnostic
}

// lookup resolves idx in p according to f. It returns the zero value and false for
// an empty slot, and an error only under PolicyFault.
func lookup[T comparable](d *recordDecoder, p *Pool[T], f field, name string, slot, idx int) (T, bool, error) {
	var zero T
	if f.sentinel && (idx == -1 || (f.negEmpty && idx < 0)) {
		return zero, false, nil
	}
	if v, ok := p.At(idx); ok {
		return v, true, nil
	}
	switch f.policy {
	case PolicyFault:
		return zero, false, &IndexError{Material: name, Field: f.name, Slot: slot, Index: idx, Len: p.Len()}
	case PolicySkip:
		d.diags = append(d.diags, Diagnostic{
			Material: name,
			Field:    f.name,
			Slot:     slot,
			Index:    idx,
			Message:  fmt.Sprintf("out of range (pool has %d entries), slot left empty", p.Len()),
		})
	}
	return zero, false, nil
}

// slots resolves len(dst) consecutive 16-bit indices into dst.
func slots[T comparable](d *recordDecoder, c *fieldCursor, p *Pool[T], f field, name string, dst []material.Slot[T]) error {
	for i := range dst {
		v, ok, err := lookup(d, p, f, name, i, c.s16())
		if err != nil {
			return err
		}
		if ok {
			dst[i] = material.Some(v)
		}
	}
	return nil
}

// single resolves one 16-bit index into dst.
func single[T comparable](d *recordDecoder, c *fieldCursor, p *Pool[T], f field, name string, dst *material.Slot[T]) error {
	v, ok, err := lookup(d, p, f, name, 0, c.s16())
	if err != nil {
		return err
	}
	if ok {
		*dst = material.Some(v)
	}
	return nil
}

// byteField resolves one 8-bit index that has no empty sentinel.
func byteField[T comparable](d *recordDecoder, c *fieldCursor, p *Pool[T], f field, name string) (T, bool, error) {
	return lookup(d, p, f, name, 0, c.u8())
}

// decode builds the physical material at index phys from its init record.
func (d *recordDecoder) decode(rec []byte, phys int, name string) (*material.Material, error) {
	p := d.pools
	c := &fieldCursor{b: rec, order: d.order}
	m := &material.Material{Name: name}
	var err error

	m.Flag = uint8(c.u8())
	if m.CullMode, _, err = byteField(d, c, &p.cull, fieldCullMode, name); err != nil {
		return nil, err
	}
	if m.ColorChannelControlsCount, _, err = byteField(d, c, &p.chanCount, fieldChanCount, name); err != nil {
		return nil, err
	}
	if m.NumTexGensCount, _, err = byteField(d, c, &p.texGenCount, fieldTexGenCount, name); err != nil {
		return nil, err
	}
	if m.NumTevStagesCount, _, err = byteField(d, c, &p.tevStageCount, fieldTevStageCount, name); err != nil {
		return nil, err
	}

	if !d.legacy {
		v, ok, _ := lookup(d, &p.indirect, fieldIndirect, name, 0, phys)
		if ok {
			m.IndTexEntry = material.Some(v)
		}
	}

	if d.legacy {
		c.u8()
	} else if m.ZCompLoc, _, err = byteField(d, c, &p.zCompLoc, fieldZCompLoc, name); err != nil {
		return nil, err
	}

	zm, ok, err := byteField(d, c, &p.zMode, fieldZMode, name)
	if err != nil {
		return nil, err
	}
	if ok {
		m.ZMode = material.Some(zm)
	}

	if d.legacy || !p.present[SectionDitherData] {
		c.u8()
	} else if m.Dither, _, err = byteField(d, c, &p.dither, fieldDither, name); err != nil {
		return nil, err
	}

	if err := slots(d, c, &p.matColor, fieldMaterialColors, name, m.MaterialColors[:]); err != nil {
		return nil, err
	}
	if err := slots(d, c, &p.chanCtrl, fieldChanCtrls, name, m.ChannelControls[:]); err != nil {
		return nil, err
	}
	if !d.legacy {
		if err := slots(d, c, &p.ambient, fieldAmbientColors, name, m.AmbientColors[:]); err != nil {
			return nil, err
		}
		if err := slots(d, c, &p.light, fieldLightColors, name, m.LightingColors[:]); err != nil {
			return nil, err
		}
	}
	if err := slots(d, c, &p.texGen, fieldTexGens, name, m.TexCoord1Gens[:]); err != nil {
		return nil, err
	}
	if err := slots(d, c, &p.postTexGen, fieldPostTexGens, name, m.PostTexCoordGens[:]); err != nil {
		return nil, err
	}
	if err := slots(d, c, &p.texMtx, fieldTexMatrix1, name, m.TexMatrix1[:]); err != nil {
		return nil, err
	}
	if err := slots(d, c, &p.postTexMtx, fieldPostTexMatrix, name, m.PostTexMatrix[:]); err != nil {
		return nil, err
	}
	if err := slots(d, c, &p.texNo, fieldTexNo, name, m.TextureIndices[:]); err != nil {
		return nil, err
	}
	if err := slots(d, c, &p.konst, fieldKonstColors, name, m.KonstColors[:]); err != nil {
		return nil, err
	}

	for i := range m.ColorSels {
		m.ColorSels[i] = gx.KonstColorSel(c.u8())
	}
	for i := range m.AlphaSels {
		m.AlphaSels[i] = gx.KonstAlphaSel(c.u8())
	}

	if err := slots(d, c, &p.tevOrder, fieldTevOrders, name, m.TevOrders[:]); err != nil {
		return nil, err
	}
	if err := slots(d, c, &p.tevColor, fieldTevColors, name, m.TevColors[:]); err != nil {
		return nil, err
	}
	if err := slots(d, c, &p.tevStage, fieldTevStages, name, m.TevStages[:]); err != nil {
		return nil, err
	}
	if err := slots(d, c, &p.swapMode, fieldSwapModes, name, m.SwapModes[:]); err != nil {
		return nil, err
	}
	if err := slots(d, c, &p.swapTable, fieldSwapTables, name, m.SwapTables[:]); err != nil {
		return nil, err
	}

	if err := single(d, c, &p.fog, fieldFog, name, &m.FogInfo); err != nil {
		return nil, err
	}
	if err := single(d, c, &p.alphaCmp, fieldAlphaCompare, name, &m.AlphaCompare); err != nil {
		return nil, err
	}
	if err := single(d, c, &p.blend, fieldBlendMode, name, &m.BlendMode); err != nil {
		return nil, err
	}
	if d.legacy {
		c.s16()
	} else if err := single(d, c, &p.nbt, fieldNBTScale, name, &m.NBTScale); err != nil {
		return nil, err
	}

	return m, nil
}

// recordEncoder derives init records from interned pools.
type recordEncoder struct {
	pools  *pools
	legacy bool
}

func slotIndices[T comparable](buf *binio.Buffer, p *Pool[T], src []material.Slot[T]) {
	for _, s := range src {
		buf.WriteS16(slotIndex(p, s))
	}
}

func slotIndex[T comparable](p *Pool[T], s material.Slot[T]) int16 {
	if !s.Valid {
		return -1
	}
	return int16(p.IndexOf(s.Value))
}

// encode appends the init record of m. Every value m references must already be
// interned.
func (e *recordEncoder) encode(buf *binio.Buffer, m *material.Material) error {
	p := e.pools
	if !m.ZMode.Valid {
		return fmt.Errorf("material %q: zMode is empty", m.Name)
	}

	buf.WriteU8(m.Flag)
	buf.WriteU8(uint8(p.cull.IndexOf(m.CullMode)))
	buf.WriteU8(uint8(p.chanCount.IndexOf(m.ColorChannelControlsCount)))
	buf.WriteU8(uint8(p.texGenCount.IndexOf(m.NumTexGensCount)))
	buf.WriteU8(uint8(p.tevStageCount.IndexOf(m.NumTevStagesCount)))
	if e.legacy {
		buf.WriteU8(0)
	} else {
		buf.WriteU8(uint8(p.zCompLoc.IndexOf(m.ZCompLoc)))
	}
	buf.WriteU8(uint8(p.zMode.IndexOf(m.ZMode.Value)))
	if e.legacy {
		buf.WriteU8(0)
	} else {
		buf.WriteU8(uint8(p.dither.IndexOf(m.Dither)))
	}

	slotIndices(buf, &p.matColor, m.MaterialColors[:])
	slotIndices(buf, &p.chanCtrl, m.ChannelControls[:])
	if !e.legacy {
		slotIndices(buf, &p.ambient, m.AmbientColors[:])
		slotIndices(buf, &p.light, m.LightingColors[:])
	}
	slotIndices(buf, &p.texGen, m.TexCoord1Gens[:])
	slotIndices(buf, &p.postTexGen, m.PostTexCoordGens[:])
	slotIndices(buf, &p.texMtx, m.TexMatrix1[:])
	slotIndices(buf, &p.postTexMtx, m.PostTexMatrix[:])
	slotIndices(buf, &p.texNo, m.TextureIndices[:])
	slotIndices(buf, &p.konst, m.KonstColors[:])
	for _, s := range m.ColorSels {
		buf.WriteU8(uint8(s))
	}
	for _, s := range m.AlphaSels {
		buf.WriteU8(uint8(s))
	}
	slotIndices(buf, &p.tevOrder, m.TevOrders[:])
	slotIndices(buf, &p.tevColor, m.TevColors[:])
	slotIndices(buf, &p.tevStage, m.TevStages[:])
	slotIndices(buf, &p.swapMode, m.SwapModes[:])
	slotIndices(buf, &p.swapTable, m.SwapTables[:])

	buf.WriteS16(slotIndex(&p.fog, m.FogInfo))
	buf.WriteS16(slotIndex(&p.alphaCmp, m.AlphaCompare))
	buf.WriteS16(slotIndex(&p.blend, m.BlendMode))
	if e.legacy {
		buf.WriteS16(-1)
	} else {
		buf.WriteS16(slotIndex(&p.nbt, m.NBTScale))
	}
	return nil
}
