package gx

import (
	"encoding/binary"

	"github.com/go-gl/mathgl/mgl32"
)

// IndirectTexturingSize is the binary size of one indirect texturing entry.
const IndirectTexturingSize = 312

const (
	indOrderCount  = 4
	indMatrixCount = 3
	indScaleCount  = 4
	indStageCount  = 16

	indOrderSize  = 4
	indMatrixSize = 28
	indScaleSize  = 4
	indStageSize  = 12

	indOrdersAt   = 4
	indMatricesAt = indOrdersAt + indOrderCount*indOrderSize
	indScalesAt   = indMatricesAt + indMatrixCount*indMatrixSize
	indStagesAt   = indScalesAt + indScaleCount*indScaleSize
)

// IndirectTexOrder binds an indirect stage to a coordinate and map.
type IndirectTexOrder struct {
	TexCoord uint8 `json:"texCoord" yaml:"texCoord"`
	TexMap   uint8 `json:"texMap" yaml:"texMap"`
}

// IndirectTexMatrix is a 2x3 offset matrix with a power-of-two exponent.
type IndirectTexMatrix struct {
	Matrix   mgl32.Mat2x3 `json:"matrix" yaml:"matrix"`
	Exponent int8         `json:"exponent" yaml:"exponent"`
}

// IndirectTexScale divides the indirect coordinates.
type IndirectTexScale struct {
	ScaleS uint8 `json:"scaleS" yaml:"scaleS"`
	ScaleT uint8 `json:"scaleT" yaml:"scaleT"`
}

// IndirectTevStage configures the indirect lookup of one TEV stage.
type IndirectTevStage struct {
	TevStage uint8 `json:"tevStage" yaml:"tevStage"`
	Format   uint8 `json:"format" yaml:"format"`
	Bias     uint8 `json:"bias" yaml:"bias"`
	MatrixID uint8 `json:"matrixId" yaml:"matrixId"`
	WrapS    uint8 `json:"wrapS" yaml:"wrapS"`
	WrapT    uint8 `json:"wrapT" yaml:"wrapT"`
	AddPrev  bool  `json:"addPrev" yaml:"addPrev"`
	UTCLod   bool  `json:"utcLod" yaml:"utcLod"`
	AlphaSel uint8 `json:"alphaSel" yaml:"alphaSel"`
}

// IndirectTexturing is the per-material indirect block.
//
// Layout (312 bytes):
//
//	+0x000 enable u8, stage count u8, pad u16
//	+0x004 4 orders (u8 coord, u8 map, pad u16)
//	+0x014 3 matrices (2x3 f32 row-major, s8 exponent, pad 3)
//	+0x068 4 scales (u8 s, u8 t, pad u16)
//	+0x078 16 stages, 12 bytes each
type IndirectTexturing struct {
	Enable     bool                 `json:"enable" yaml:"enable"`
	StageCount uint8                `json:"stageCount" yaml:"stageCount"`
	Orders     [4]IndirectTexOrder  `json:"orders" yaml:"orders"`
	Matrices   [3]IndirectTexMatrix `json:"matrices" yaml:"matrices"`
	Scales     [4]IndirectTexScale  `json:"scales" yaml:"scales"`
	TevStages  [16]IndirectTevStage `json:"tevStages" yaml:"tevStages"`
}

// DefaultIndirectTexturing returns the disabled block written for materials without one.
func DefaultIndirectTexturing() IndirectTexturing {
	var ind IndirectTexturing
	for i := range ind.Orders {
		ind.Orders[i] = IndirectTexOrder{TexCoord: TexCoordNull, TexMap: TexMapNull}
	}
	for i := range ind.Matrices {
		ind.Matrices[i] = IndirectTexMatrix{
			Matrix:   mgl32.Mat2x3{0.5, 0, 0, 0.5, 0, 0},
			Exponent: 1,
		}
	}
	return ind
}

// DecodeIndirectTexturing reads an IndirectTexturing from 312 bytes.
func DecodeIndirectTexturing(b []byte, order binary.ByteOrder) IndirectTexturing {
	ind := IndirectTexturing{Enable: b[0] != 0, StageCount: b[1]}
	for i := range ind.Orders {
		p := b[indOrdersAt+i*indOrderSize:]
		ind.Orders[i] = IndirectTexOrder{TexCoord: p[0], TexMap: p[1]}
	}
	for i := range ind.Matrices {
		p := b[indMatricesAt+i*indMatrixSize:]
		var m mgl32.Mat2x3
		for row := 0; row < 2; row++ {
			for col := 0; col < 3; col++ {
				m.Set(row, col, getF32(p[(row*3+col)*4:], order))
			}
		}
		ind.Matrices[i] = IndirectTexMatrix{Matrix: m, Exponent: int8(p[24])}
	}
	for i := range ind.Scales {
		p := b[indScalesAt+i*indScaleSize:]
		ind.Scales[i] = IndirectTexScale{ScaleS: p[0], ScaleT: p[1]}
	}
	for i := range ind.TevStages {
		p := b[indStagesAt+i*indStageSize:]
		ind.TevStages[i] = IndirectTevStage{
			TevStage: p[0],
			Format:   p[1],
			Bias:     p[2],
			MatrixID: p[3],
			WrapS:    p[4],
			WrapT:    p[5],
			AddPrev:  p[6] != 0,
			UTCLod:   p[7] != 0,
			AlphaSel: p[8],
		}
	}
	return ind
}

// EncodeTo writes the block to b.
func (ind IndirectTexturing) EncodeTo(b []byte, order binary.ByteOrder) {
	b[0] = boolByte(ind.Enable)
	b[1] = ind.StageCount
	fillPad(b[2:4])
	for i, o := range ind.Orders {
		p := b[indOrdersAt+i*indOrderSize:]
		p[0], p[1] = o.TexCoord, o.TexMap
		fillPad(p[2:4])
	}
	for i, m := range ind.Matrices {
		p := b[indMatricesAt+i*indMatrixSize:]
		for row := 0; row < 2; row++ {
			for col := 0; col < 3; col++ {
				putF32(p[(row*3+col)*4:], order, m.Matrix.At(row, col))
			}
		}
		p[24] = uint8(m.Exponent)
		fillPad(p[25:28])
	}
	for i, s := range ind.Scales {
		p := b[indScalesAt+i*indScaleSize:]
		p[0], p[1] = s.ScaleS, s.ScaleT
		fillPad(p[2:4])
	}
	for i, s := range ind.TevStages {
		p := b[indStagesAt+i*indStageSize:]
		p[0] = s.TevStage
		p[1] = s.Format
		p[2] = s.Bias
		p[3] = s.MatrixID
		p[4] = s.WrapS
		p[5] = s.WrapT
		p[6] = boolByte(s.AddPrev)
		p[7] = boolByte(s.UTCLod)
		p[8] = s.AlphaSel
		fillPad(p[9:12])
	}
}
