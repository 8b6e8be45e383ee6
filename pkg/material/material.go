// Package material defines the in-memory J3D material.
//
// A Material is a plain value: every optional field is a Slot and every array has a fixed
// length, so the whole struct is comparable with == and assignment is a deep copy.
// Shared physical records in a chunk are expanded into independent copies this way.
package material

import "github.com/goopsie/bmdFileTools/pkg/gx"

// Slot counts of the fixed-size material arrays.
const (
	MaterialColorCount   = 2
	ChannelControlCount  = 4
	AmbientColorCount    = 2
	LightColorCount      = 8
	TexGenCount          = 8
	PostTexGenCount      = 8
	TexMatrixCount       = 10
	PostTexMatrixCount   = 20
	TextureCount         = 8
	KonstColorCount      = 4
	TevStageCount        = 16
	TevColorCount        = 4
	SwapTableCount       = 16
	SwapModeCount        = 16
	TevOrderCount        = 16
	KonstSelectorCount   = 16
	colorChannelMaxCount = 2
)

type Material struct {
	Name string `json:"name" yaml:"name"`

	Flag                      uint8       `json:"flag" yaml:"flag"`
	CullMode                  gx.CullMode `json:"cullMode" yaml:"cullMode"`
	ColorChannelControlsCount uint8       `json:"colorChannelControlsCount" yaml:"colorChannelControlsCount"`
	NumTexGensCount           uint8       `json:"numTexGensCount" yaml:"numTexGensCount"`
	NumTevStagesCount         uint8       `json:"numTevStagesCount" yaml:"numTevStagesCount"`

	IndTexEntry Slot[gx.IndirectTexturing] `json:"indTexEntry" yaml:"indTexEntry"`
	ZCompLoc    bool                       `json:"zCompLoc" yaml:"zCompLoc"`
	ZMode       Slot[gx.ZMode]             `json:"zMode" yaml:"zMode"`
	Dither      bool                       `json:"dither" yaml:"dither"`

	MaterialColors   [MaterialColorCount]Slot[gx.Color]           `json:"materialColors" yaml:"materialColors"`
	ChannelControls  [ChannelControlCount]Slot[gx.ChannelControl] `json:"channelControls" yaml:"channelControls"`
	AmbientColors    [AmbientColorCount]Slot[gx.Color]            `json:"ambientColors" yaml:"ambientColors"`
	LightingColors   [LightColorCount]Slot[gx.Color]              `json:"lightingColors" yaml:"lightingColors"`
	TexCoord1Gens    [TexGenCount]Slot[gx.TexCoordGen]            `json:"texCoord1Gens" yaml:"texCoord1Gens"`
	PostTexCoordGens [PostTexGenCount]Slot[gx.TexCoordGen]        `json:"postTexCoordGens" yaml:"postTexCoordGens"`
	TexMatrix1       [TexMatrixCount]Slot[gx.TexMatrix]           `json:"texMatrix1" yaml:"texMatrix1"`
	PostTexMatrix    [PostTexMatrixCount]Slot[gx.TexMatrix]       `json:"postTexMatrix" yaml:"postTexMatrix"`
	TextureIndices   [TextureCount]Slot[int16]                    `json:"textureIndices" yaml:"textureIndices"`
	TextureNames     [TextureCount]string                         `json:"textureNames" yaml:"textureNames"`
	KonstColors      [KonstColorCount]Slot[gx.Color]              `json:"konstColors" yaml:"konstColors"`
	ColorSels        [KonstSelectorCount]gx.KonstColorSel         `json:"colorSels" yaml:"colorSels"`
	AlphaSels        [KonstSelectorCount]gx.KonstAlphaSel         `json:"alphaSels" yaml:"alphaSels"`
	TevOrders        [TevOrderCount]Slot[gx.TevOrder]             `json:"tevOrders" yaml:"tevOrders"`
	TevColors        [TevColorCount]Slot[gx.Int16Color]           `json:"tevColors" yaml:"tevColors"`
	TevStages        [TevStageCount]Slot[gx.TevStage]             `json:"tevStages" yaml:"tevStages"`
	SwapModes        [SwapModeCount]Slot[gx.TevSwapMode]          `json:"swapModes" yaml:"swapModes"`
	SwapTables       [SwapTableCount]Slot[gx.TevSwapModeTable]    `json:"swapTables" yaml:"swapTables"`

	FogInfo      Slot[gx.Fog]          `json:"fogInfo" yaml:"fogInfo"`
	AlphaCompare Slot[gx.AlphaCompare] `json:"alphaCompare" yaml:"alphaCompare"`
	BlendMode    Slot[gx.BlendMode]    `json:"blendMode" yaml:"blendMode"`
	NBTScale     Slot[gx.NBTScale]     `json:"nbtScale" yaml:"nbtScale"`
}

// Clone returns an independent copy of m.
func (m *Material) Clone() *Material {
	c := *m
	return &c
}

// Equal reports whether a and b have identical fields, ignoring their names.
// Two materials that are Equal share one physical record when written.
func Equal(a, b *Material) bool {
	x, y := *a, *b
	x.Name, y.Name = "", ""
	return x == y
}

// HasTexture reports whether any texture slot is bound by index or name.
func (m *Material) HasTexture() bool {
	if AnyValid(m.TextureIndices[:]) {
		return true
	}
	for _, n := range m.TextureNames {
		if n != "" {
			return true
		}
	}
	return false
}
