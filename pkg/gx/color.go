// Package gx provides the fixed-size GX pipeline records stored in J3D material pools.
//
// Every record type has a Size constant, a DecodeX function that reads one record from
// a byte slice, and an EncodeTo method that writes it back. Padding bytes are ignored on
// decode and written as 0xFF on encode. All types are comparable so pools can intern them
// with ==.
package gx

import (
	"encoding/binary"
	"fmt"
)

// ColorSize is the binary size of an RGBA8 color.
const ColorSize = 4

// Int16ColorSize is the binary size of a signed 16-bit-per-channel TEV color.
const Int16ColorSize = 8

// Color is an RGBA8 color, used for material, ambient, light and konst colors.
type Color struct {
	R uint8 `json:"r" yaml:"r"`
	G uint8 `json:"g" yaml:"g"`
	B uint8 `json:"b" yaml:"b"`
	A uint8 `json:"a" yaml:"a"`
}

// White is the opaque white color.
var White = Color{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}

// DecodeColor reads a Color from 4 bytes.
func DecodeColor(b []byte, _ binary.ByteOrder) Color {
	return Color{R: b[0], G: b[1], B: b[2], A: b[3]}
}

// EncodeTo writes the color to b, which must be at least ColorSize bytes.
func (c Color) EncodeTo(b []byte, _ binary.ByteOrder) {
	b[0], b[1], b[2], b[3] = c.R, c.G, c.B, c.A
}

// Hex returns the color as #RRGGBBAA.
func (c Color) Hex() string {
	return fmt.Sprintf("#%02X%02X%02X%02X", c.R, c.G, c.B, c.A)
}

// String returns a human-readable representation.
func (c Color) String() string {
	return fmt.Sprintf("RGBA(%d, %d, %d, %d)", c.R, c.G, c.B, c.A)
}

// Int16Color is a TEV register color. Channels are signed and may exceed 255.
type Int16Color struct {
	R int16 `json:"r" yaml:"r"`
	G int16 `json:"g" yaml:"g"`
	B int16 `json:"b" yaml:"b"`
	A int16 `json:"a" yaml:"a"`
}

// DecodeInt16Color reads an Int16Color from 8 bytes.
func DecodeInt16Color(b []byte, order binary.ByteOrder) Int16Color {
	return Int16Color{
		R: int16(order.Uint16(b[0:2])),
		G: int16(order.Uint16(b[2:4])),
		B: int16(order.Uint16(b[4:6])),
		A: int16(order.Uint16(b[6:8])),
	}
}

// EncodeTo writes the color to b, which must be at least Int16ColorSize bytes.
func (c Int16Color) EncodeTo(b []byte, order binary.ByteOrder) {
	order.PutUint16(b[0:2], uint16(c.R))
	order.PutUint16(b[2:4], uint16(c.G))
	order.PutUint16(b[4:6], uint16(c.B))
	order.PutUint16(b[6:8], uint16(c.A))
}
