package gx

import (
	"encoding/binary"

	"github.com/go-gl/mathgl/mgl32"
)

const (
	FogSize          = 44
	AlphaCompareSize = 8
	BlendModeSize    = 4
	ZModeSize        = 4
	NBTScaleSize     = 16
)

// Fog holds the per-material fog parameters.
type Fog struct {
	Type            uint8      `json:"type" yaml:"type"`
	Enable          bool       `json:"enable" yaml:"enable"`
	Center          uint16     `json:"center" yaml:"center"`
	StartZ          float32    `json:"startZ" yaml:"startZ"`
	EndZ            float32    `json:"endZ" yaml:"endZ"`
	NearZ           float32    `json:"nearZ" yaml:"nearZ"`
	FarZ            float32    `json:"farZ" yaml:"farZ"`
	Color           Color      `json:"color" yaml:"color"`
	RangeAdjustment [10]uint16 `json:"rangeAdjustment" yaml:"rangeAdjustment"`
}

// DecodeFog reads a Fog from 44 bytes.
func DecodeFog(b []byte, order binary.ByteOrder) Fog {
	f := Fog{
		Type:   b[0],
		Enable: b[1] != 0,
		Center: order.Uint16(b[2:4]),
		StartZ: getF32(b[4:], order),
		EndZ:   getF32(b[8:], order),
		NearZ:  getF32(b[12:], order),
		FarZ:   getF32(b[16:], order),
		Color:  DecodeColor(b[20:24], order),
	}
	for i := range f.RangeAdjustment {
		f.RangeAdjustment[i] = order.Uint16(b[24+i*2:])
	}
	return f
}

// EncodeTo writes the fog block to b.
func (f Fog) EncodeTo(b []byte, order binary.ByteOrder) {
	b[0] = f.Type
	b[1] = boolByte(f.Enable)
	order.PutUint16(b[2:4], f.Center)
	putF32(b[4:], order, f.StartZ)
	putF32(b[8:], order, f.EndZ)
	putF32(b[12:], order, f.NearZ)
	putF32(b[16:], order, f.FarZ)
	f.Color.EncodeTo(b[20:24], order)
	for i, v := range f.RangeAdjustment {
		order.PutUint16(b[24+i*2:], v)
	}
}

// DefaultFog is the disabled fog block written by the GX defaults.
func DefaultFog() Fog {
	return Fog{Center: 320, Color: White}
}

// AlphaCompare is the two-reference alpha test.
type AlphaCompare struct {
	Comp0      CompareType `json:"comp0" yaml:"comp0"`
	Reference0 uint8       `json:"reference0" yaml:"reference0"`
	Operation  uint8       `json:"operation" yaml:"operation"`
	Comp1      CompareType `json:"comp1" yaml:"comp1"`
	Reference1 uint8       `json:"reference1" yaml:"reference1"`
}

// DecodeAlphaCompare reads an AlphaCompare from 8 bytes.
func DecodeAlphaCompare(b []byte, _ binary.ByteOrder) AlphaCompare {
	return AlphaCompare{
		Comp0:      CompareType(b[0]),
		Reference0: b[1],
		Operation:  b[2],
		Comp1:      CompareType(b[3]),
		Reference1: b[4],
	}
}

// EncodeTo writes the alpha test to b.
func (a AlphaCompare) EncodeTo(b []byte, _ binary.ByteOrder) {
	b[0] = uint8(a.Comp0)
	b[1] = a.Reference0
	b[2] = a.Operation
	b[3] = uint8(a.Comp1)
	b[4] = a.Reference1
	fillPad(b[5:8])
}

// BlendMode is the framebuffer blend configuration.
type BlendMode struct {
	Type            uint8 `json:"type" yaml:"type"`
	SourceFact      uint8 `json:"sourceFact" yaml:"sourceFact"`
	DestinationFact uint8 `json:"destinationFact" yaml:"destinationFact"`
	Operation       uint8 `json:"operation" yaml:"operation"`
}

// DecodeBlendMode reads a BlendMode from 4 bytes.
func DecodeBlendMode(b []byte, _ binary.ByteOrder) BlendMode {
	return BlendMode{Type: b[0], SourceFact: b[1], DestinationFact: b[2], Operation: b[3]}
}

// EncodeTo writes the blend mode to b.
func (m BlendMode) EncodeTo(b []byte, _ binary.ByteOrder) {
	b[0], b[1], b[2], b[3] = m.Type, m.SourceFact, m.DestinationFact, m.Operation
}

// ZMode is the depth test configuration.
type ZMode struct {
	Enable       bool        `json:"enable" yaml:"enable"`
	Function     CompareType `json:"function" yaml:"function"`
	UpdateEnable bool        `json:"updateEnable" yaml:"updateEnable"`
}

// DecodeZMode reads a ZMode from 4 bytes.
func DecodeZMode(b []byte, _ binary.ByteOrder) ZMode {
	return ZMode{Enable: b[0] != 0, Function: CompareType(b[1]), UpdateEnable: b[2] != 0}
}

// EncodeTo writes the depth mode to b.
func (z ZMode) EncodeTo(b []byte, _ binary.ByteOrder) {
	b[0], b[1], b[2], b[3] = boolByte(z.Enable), uint8(z.Function), boolByte(z.UpdateEnable), 0xFF
}

// NBTScale is the normal/binormal/tangent scale block.
type NBTScale struct {
	Unknown1 uint8      `json:"unknown1" yaml:"unknown1"`
	Scale    mgl32.Vec3 `json:"scale" yaml:"scale"`
}

// DecodeNBTScale reads an NBTScale from 16 bytes.
func DecodeNBTScale(b []byte, order binary.ByteOrder) NBTScale {
	return NBTScale{
		Unknown1: b[0],
		Scale:    mgl32.Vec3{getF32(b[4:], order), getF32(b[8:], order), getF32(b[12:], order)},
	}
}

// EncodeTo writes the NBT scale block to b.
func (n NBTScale) EncodeTo(b []byte, order binary.ByteOrder) {
	b[0] = n.Unknown1
	fillPad(b[1:4])
	putF32(b[4:], order, n.Scale[0])
	putF32(b[8:], order, n.Scale[1])
	putF32(b[12:], order, n.Scale[2])
}
