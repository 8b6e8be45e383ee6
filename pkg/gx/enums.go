package gx

import (
	"encoding/binary"
	"fmt"
)

// CullModeSize is the binary size of a cull mode pool entry.
const CullModeSize = 4

// CullMode selects which faces are culled.
type CullMode uint32

const (
	CullNone  CullMode = 0
	CullFront CullMode = 1
	CullBack  CullMode = 2
	CullAll   CullMode = 3
)

// DecodeCullMode reads a CullMode from 4 bytes.
func DecodeCullMode(b []byte, order binary.ByteOrder) CullMode {
	return CullMode(order.Uint32(b[0:4]))
}

// EncodeTo writes the cull mode to b.
func (c CullMode) EncodeTo(b []byte, order binary.ByteOrder) {
	order.PutUint32(b[0:4], uint32(c))
}

// String returns the GX name of the cull mode.
func (c CullMode) String() string {
	switch c {
	case CullNone:
		return "None"
	case CullFront:
		return "Front"
	case CullBack:
		return "Back"
	case CullAll:
		return "All"
	default:
		return fmt.Sprintf("CullMode(%d)", uint32(c))
	}
}

// CompareType is a GX depth/alpha comparison function.
type CompareType uint8

const (
	CompareNever   CompareType = 0
	CompareLess    CompareType = 1
	CompareEqual   CompareType = 2
	CompareLEqual  CompareType = 3
	CompareGreater CompareType = 4
	CompareNEqual  CompareType = 5
	CompareGEqual  CompareType = 6
	CompareAlways  CompareType = 7
)

// KonstColorSel selects the konst color input of a TEV stage. Stored raw in the init record.
type KonstColorSel uint8

// KonstAlphaSel selects the konst alpha input of a TEV stage. Stored raw in the init record.
type KonstAlphaSel uint8

const (
	KColorSel1  KonstColorSel = 0x00
	KColorSelK0 KonstColorSel = 0x0C

	KAlphaSel1    KonstAlphaSel = 0x00
	KAlphaSelK0_A KonstAlphaSel = 0x1C
)

// Channel sources.
const (
	ColorSrcRegister uint8 = 0
	ColorSrcVertex   uint8 = 1
)

// Attenuation functions as stored by J3D.
const (
	AttenuationSpec uint8 = 0
	AttenuationSpot uint8 = 1
	AttenuationNone uint8 = 2
)

// Texture coordinate generation.
const (
	TexGenMatrix2x4 uint8 = 1
	TexGenSrcTex0   uint8 = 4
	TexMatrixIdent  uint8 = 60
)

// TEV order identifiers.
const (
	TexCoordNull    uint8 = 0xFF
	TexMapNull      uint8 = 0xFF
	ChannelColor0A0 uint8 = 4
	ChannelNull     uint8 = 0xFF
)

// TEV color combiner inputs.
const (
	CCPrev  uint8 = 0
	CCTexC  uint8 = 8
	CCRasC  uint8 = 10
	CCOne   uint8 = 12
	CCKonst uint8 = 14
	CCZero  uint8 = 15
)

// TEV alpha combiner inputs.
const (
	CAPrev  uint8 = 0
	CATexA  uint8 = 4
	CARasA  uint8 = 5
	CAKonst uint8 = 6
	CAZero  uint8 = 7
)

// Blend mode types.
const (
	BlendNone     uint8 = 0
	BlendBlend    uint8 = 1
	BlendLogic    uint8 = 2
	BlendSubtract uint8 = 3
)

// Blend factors.
const (
	BlendFactorZero        uint8 = 0
	BlendFactorOne         uint8 = 1
	BlendFactorSrcAlpha    uint8 = 4
	BlendFactorInvSrcAlpha uint8 = 5
)

// LogicOpCopy is the default logic op.
const LogicOpCopy uint8 = 3
