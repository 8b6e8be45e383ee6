package gx

import "encoding/binary"

const (
	TevOrderSize         = 4
	TevStageSize         = 20
	TevSwapModeSize      = 4
	TevSwapModeTableSize = 4
)

// TevOrder binds a texture coordinate, texture map and raster channel to a TEV stage.
type TevOrder struct {
	TexCoord  uint8 `json:"texCoord" yaml:"texCoord"`
	TexMap    uint8 `json:"texMap" yaml:"texMap"`
	ChannelID uint8 `json:"channelId" yaml:"channelId"`
}

// DecodeTevOrder reads a TevOrder from 4 bytes.
func DecodeTevOrder(b []byte, _ binary.ByteOrder) TevOrder {
	return TevOrder{TexCoord: b[0], TexMap: b[1], ChannelID: b[2]}
}

// EncodeTo writes the order to b.
func (o TevOrder) EncodeTo(b []byte, _ binary.ByteOrder) {
	b[0], b[1], b[2], b[3] = o.TexCoord, o.TexMap, o.ChannelID, 0xFF
}

// TevStage is one color/alpha combiner stage.
type TevStage struct {
	Unknown0   uint8    `json:"unknown0" yaml:"unknown0"`
	ColorIn    [4]uint8 `json:"colorIn" yaml:"colorIn"`
	ColorOp    uint8    `json:"colorOp" yaml:"colorOp"`
	ColorBias  uint8    `json:"colorBias" yaml:"colorBias"`
	ColorScale uint8    `json:"colorScale" yaml:"colorScale"`
	ColorClamp bool     `json:"colorClamp" yaml:"colorClamp"`
	ColorRegID uint8    `json:"colorRegId" yaml:"colorRegId"`
	AlphaIn    [4]uint8 `json:"alphaIn" yaml:"alphaIn"`
	AlphaOp    uint8    `json:"alphaOp" yaml:"alphaOp"`
	AlphaBias  uint8    `json:"alphaBias" yaml:"alphaBias"`
	AlphaScale uint8    `json:"alphaScale" yaml:"alphaScale"`
	AlphaClamp bool     `json:"alphaClamp" yaml:"alphaClamp"`
	AlphaRegID uint8    `json:"alphaRegId" yaml:"alphaRegId"`
	Unknown1   uint8    `json:"unknown1" yaml:"unknown1"`
}

// DecodeTevStage reads a TevStage from 20 bytes.
func DecodeTevStage(b []byte, _ binary.ByteOrder) TevStage {
	s := TevStage{
		Unknown0:   b[0],
		ColorOp:    b[5],
		ColorBias:  b[6],
		ColorScale: b[7],
		ColorClamp: b[8] != 0,
		ColorRegID: b[9],
		AlphaOp:    b[14],
		AlphaBias:  b[15],
		AlphaScale: b[16],
		AlphaClamp: b[17] != 0,
		AlphaRegID: b[18],
		Unknown1:   b[19],
	}
	copy(s.ColorIn[:], b[1:5])
	copy(s.AlphaIn[:], b[10:14])
	return s
}

// EncodeTo writes the stage to b.
func (s TevStage) EncodeTo(b []byte, _ binary.ByteOrder) {
	b[0] = s.Unknown0
	copy(b[1:5], s.ColorIn[:])
	b[5] = s.ColorOp
	b[6] = s.ColorBias
	b[7] = s.ColorScale
	b[8] = boolByte(s.ColorClamp)
	b[9] = s.ColorRegID
	copy(b[10:14], s.AlphaIn[:])
	b[14] = s.AlphaOp
	b[15] = s.AlphaBias
	b[16] = s.AlphaScale
	b[17] = boolByte(s.AlphaClamp)
	b[18] = s.AlphaRegID
	b[19] = s.Unknown1
}

// TevSwapMode selects swap tables for the raster and texture inputs.
type TevSwapMode struct {
	RasSel uint8 `json:"rasSel" yaml:"rasSel"`
	TexSel uint8 `json:"texSel" yaml:"texSel"`
}

// DecodeTevSwapMode reads a TevSwapMode from 4 bytes.
func DecodeTevSwapMode(b []byte, _ binary.ByteOrder) TevSwapMode {
	return TevSwapMode{RasSel: b[0], TexSel: b[1]}
}

// EncodeTo writes the swap mode to b.
func (m TevSwapMode) EncodeTo(b []byte, _ binary.ByteOrder) {
	b[0], b[1], b[2], b[3] = m.RasSel, m.TexSel, 0xFF, 0xFF
}

// TevSwapModeTable maps output channels to input channels.
type TevSwapModeTable struct {
	R uint8 `json:"r" yaml:"r"`
	G uint8 `json:"g" yaml:"g"`
	B uint8 `json:"b" yaml:"b"`
	A uint8 `json:"a" yaml:"a"`
}

// IdentitySwapTable keeps every channel in place.
var IdentitySwapTable = TevSwapModeTable{R: 0, G: 1, B: 2, A: 3}

// DecodeTevSwapModeTable reads a TevSwapModeTable from 4 bytes.
func DecodeTevSwapModeTable(b []byte, _ binary.ByteOrder) TevSwapModeTable {
	return TevSwapModeTable{R: b[0], G: b[1], B: b[2], A: b[3]}
}

// EncodeTo writes the table to b.
func (t TevSwapModeTable) EncodeTo(b []byte, _ binary.ByteOrder) {
	b[0], b[1], b[2], b[3] = t.R, t.G, t.B, t.A
}
