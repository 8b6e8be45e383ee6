package gx

import (
	"encoding/binary"
	"math"
)

// ChannelControlSize is the binary size of a ChannelControl.
const ChannelControlSize = 8

// ChannelControl configures one lighting channel (color or alpha).
type ChannelControl struct {
	Enable              bool  `json:"enable" yaml:"enable"`
	MaterialSrcColor    uint8 `json:"materialSrcColor" yaml:"materialSrcColor"`
	LitMask             uint8 `json:"litMask" yaml:"litMask"`
	DiffuseFunction     uint8 `json:"diffuseFunction" yaml:"diffuseFunction"`
	AttenuationFunction uint8 `json:"attenuationFunction" yaml:"attenuationFunction"`
	AmbientSrcColor     uint8 `json:"ambientSrcColor" yaml:"ambientSrcColor"`
}

// DecodeChannelControl reads a ChannelControl from 8 bytes.
func DecodeChannelControl(b []byte, _ binary.ByteOrder) ChannelControl {
	return ChannelControl{
		Enable:              b[0] != 0,
		MaterialSrcColor:    b[1],
		LitMask:             b[2],
		DiffuseFunction:     b[3],
		AttenuationFunction: b[4],
		AmbientSrcColor:     b[5],
	}
}

// EncodeTo writes the channel control to b.
func (c ChannelControl) EncodeTo(b []byte, _ binary.ByteOrder) {
	b[0] = boolByte(c.Enable)
	b[1] = c.MaterialSrcColor
	b[2] = c.LitMask
	b[3] = c.DiffuseFunction
	b[4] = c.AttenuationFunction
	b[5] = c.AmbientSrcColor
	b[6], b[7] = 0xFF, 0xFF
}

func boolByte(v bool) uint8 {
	if v {
		return 1
	}
	return 0
}

func getF32(b []byte, order binary.ByteOrder) float32 {
	return math.Float32frombits(order.Uint32(b))
}

func putF32(b []byte, order binary.ByteOrder, v float32) {
	order.PutUint32(b, math.Float32bits(v))
}

func fillPad(b []byte) {
	for i := range b {
		b[i] = 0xFF
	}
}
