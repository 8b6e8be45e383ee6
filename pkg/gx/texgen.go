package gx

import (
	"encoding/binary"

	"github.com/go-gl/mathgl/mgl32"
)

const (
	// TexCoordGenSize is the binary size of a TexCoordGen.
	TexCoordGenSize = 4
	// TexMatrixSize is the binary size of a TexMatrix.
	TexMatrixSize = 100
)

// TexCoordGen describes how one texture coordinate is generated.
type TexCoordGen struct {
	Type         uint8 `json:"type" yaml:"type"`
	Source       uint8 `json:"source" yaml:"source"`
	TexMatrixSrc uint8 `json:"texMatrixSource" yaml:"texMatrixSource"`
}

// DecodeTexCoordGen reads a TexCoordGen from 4 bytes.
func DecodeTexCoordGen(b []byte, _ binary.ByteOrder) TexCoordGen {
	return TexCoordGen{Type: b[0], Source: b[1], TexMatrixSrc: b[2]}
}

// EncodeTo writes the generator to b.
func (g TexCoordGen) EncodeTo(b []byte, _ binary.ByteOrder) {
	b[0], b[1], b[2], b[3] = g.Type, g.Source, g.TexMatrixSrc, 0xFF
}

// TexMatrix is a texture coordinate transform.
//
// Layout (100 bytes):
//
//	+0x00 projection u8, mapping mode u8, pad u16
//	+0x04 effect translation 3×f32
//	+0x10 scale 2×f32
//	+0x18 rotation s16 (raw, 0x8000 = 180°), pad u16
//	+0x1C translation 2×f32
//	+0x24 projection matrix 4×4 f32, row-major
type TexMatrix struct {
	Projection        uint8      `json:"projection" yaml:"projection"`
	Type              uint8      `json:"type" yaml:"type"`
	EffectTranslation mgl32.Vec3 `json:"effectTranslation" yaml:"effectTranslation"`
	Scale             mgl32.Vec2 `json:"scale" yaml:"scale"`
	Rotation          int16      `json:"rotation" yaml:"rotation"`
	Translation       mgl32.Vec2 `json:"translation" yaml:"translation"`
	ProjectionMatrix  mgl32.Mat4 `json:"projectionMatrix" yaml:"projectionMatrix"`
}

// RotationDegrees converts the raw rotation to degrees.
func (m TexMatrix) RotationDegrees() float32 {
	return float32(m.Rotation) * 180 / 32768
}

// DecodeTexMatrix reads a TexMatrix from 100 bytes.
func DecodeTexMatrix(b []byte, order binary.ByteOrder) TexMatrix {
	m := TexMatrix{
		Projection: b[0x00],
		Type:       b[0x01],
		Rotation:   int16(order.Uint16(b[0x18:0x1A])),
	}
	for i := 0; i < 3; i++ {
		m.EffectTranslation[i] = getF32(b[0x04+i*4:], order)
	}
	for i := 0; i < 2; i++ {
		m.Scale[i] = getF32(b[0x10+i*4:], order)
		m.Translation[i] = getF32(b[0x1C+i*4:], order)
	}
	for row := 0; row < 4; row++ {
		for col := 0; col < 4; col++ {
			m.ProjectionMatrix.Set(row, col, getF32(b[0x24+(row*4+col)*4:], order))
		}
	}
	return m
}

// EncodeTo writes the matrix to b.
func (m TexMatrix) EncodeTo(b []byte, order binary.ByteOrder) {
	b[0x00] = m.Projection
	b[0x01] = m.Type
	fillPad(b[0x02:0x04])
	for i := 0; i < 3; i++ {
		putF32(b[0x04+i*4:], order, m.EffectTranslation[i])
	}
	for i := 0; i < 2; i++ {
		putF32(b[0x10+i*4:], order, m.Scale[i])
		putF32(b[0x1C+i*4:], order, m.Translation[i])
	}
	order.PutUint16(b[0x18:0x1A], uint16(m.Rotation))
	fillPad(b[0x1A:0x1C])
	for row := 0; row < 4; row++ {
		for col := 0; col < 4; col++ {
			putF32(b[0x24+(row*4+col)*4:], order, m.ProjectionMatrix.At(row, col))
		}
	}
}

// IdentityTexMatrix returns a matrix with unit scale and an identity projection.
func IdentityTexMatrix() TexMatrix {
	return TexMatrix{
		Scale:            mgl32.Vec2{1, 1},
		ProjectionMatrix: mgl32.Ident4(),
	}
}
