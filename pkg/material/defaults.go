package material

import "github.com/goopsie/bmdFileTools/pkg/gx"

// New returns an untextured opaque material with the standard pixel-engine state.
func New(name string) *Material {
	m := &Material{
		Name:         name,
		Flag:         1,
		CullMode:     gx.CullBack,
		IndTexEntry:  Some(gx.DefaultIndirectTexturing()),
		ZCompLoc:     true,
		ZMode:        Some(gx.ZMode{Enable: true, Function: gx.CompareLEqual, UpdateEnable: true}),
		Dither:       true,
		FogInfo:      Some(gx.DefaultFog()),
		AlphaCompare: Some(gx.AlphaCompare{Comp0: gx.CompareAlways, Comp1: gx.CompareAlways}),
		BlendMode: Some(gx.BlendMode{
			Type:            gx.BlendNone,
			SourceFact:      gx.BlendFactorOne,
			DestinationFact: gx.BlendFactorZero,
			Operation:       gx.LogicOpCopy,
		}),
		NBTScale: Some(gx.NBTScale{}),
	}
	m.MaterialColors[0] = Some(gx.White)
	m.AmbientColors[0] = Some(gx.Color{R: 0x32, G: 0x32, B: 0x32, A: 0x32})
	for i := range m.KonstColors {
		m.KonstColors[i] = Some(gx.White)
	}
	for i := range m.ColorSels {
		m.ColorSels[i] = gx.KColorSel1
		m.AlphaSels[i] = gx.KAlphaSel1
	}
	return m
}

// SetUpTev configures channel 0 and the first TEV stage from scene hints: the raster
// color comes from vertex color 0 when present, otherwise from material color 0, and is
// modulated by texture 0 when a texture is bound.
func (m *Material) SetUpTev(hasTexture, hasVtxColor0 bool, texIndex int, texName string) {
	src := gx.ColorSrcRegister
	if hasVtxColor0 {
		src = gx.ColorSrcVertex
	}
	ctrl := gx.ChannelControl{
		MaterialSrcColor:    src,
		AttenuationFunction: gx.AttenuationNone,
		AmbientSrcColor:     gx.ColorSrcRegister,
	}
	m.ChannelControls[0] = Some(ctrl)
	m.ChannelControls[1] = Some(ctrl)

	stage := gx.TevStage{
		ColorIn:    [4]uint8{gx.CCZero, gx.CCZero, gx.CCZero, gx.CCRasC},
		ColorClamp: true,
		AlphaIn:    [4]uint8{gx.CAZero, gx.CAZero, gx.CAZero, gx.CARasA},
		AlphaClamp: true,
		Unknown1:   0xFF,
	}
	order := gx.TevOrder{TexCoord: gx.TexCoordNull, TexMap: gx.TexMapNull, ChannelID: gx.ChannelColor0A0}

	if hasTexture {
		if texIndex >= 0 {
			m.TextureIndices[0] = Some(int16(texIndex))
		}
		m.TextureNames[0] = texName
		m.TexCoord1Gens[0] = Some(gx.TexCoordGen{
			Type:         gx.TexGenMatrix2x4,
			Source:       gx.TexGenSrcTex0,
			TexMatrixSrc: gx.TexMatrixIdent,
		})
		m.TexMatrix1[0] = Some(gx.IdentityTexMatrix())
		order.TexCoord, order.TexMap = 0, 0
		stage.ColorIn = [4]uint8{gx.CCZero, gx.CCTexC, gx.CCRasC, gx.CCZero}
		stage.AlphaIn = [4]uint8{gx.CAZero, gx.CATexA, gx.CARasA, gx.CAZero}
	}

	m.TevOrders[0] = Some(order)
	m.TevStages[0] = Some(stage)
	m.TevColors[0] = Some(gx.Int16Color{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF})
	m.SwapModes[0] = Some(gx.TevSwapMode{})
	for i := 0; i < 4; i++ {
		m.SwapTables[i] = Some(gx.IdentitySwapTable)
	}
	m.Readjust()
}

// Readjust recomputes the channel, tex-gen and TEV stage counts from the filled slots.
func (m *Material) Readjust() {
	channels := 0
	for i := 0; i < colorChannelMaxCount; i++ {
		if m.ChannelControls[i*2].Valid {
			channels++
		}
	}
	m.ColorChannelControlsCount = uint8(channels)
	m.NumTexGensCount = uint8(CountValid(m.TexCoord1Gens[:]))
	m.NumTevStagesCount = uint8(CountValid(m.TevStages[:]))
}
