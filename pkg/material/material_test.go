package material

import (
	"encoding/json"
	"testing"

	"github.com/goopsie/bmdFileTools/pkg/gx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestEqualIgnoresName(t *testing.T) {
	a := New("a")
	b := New("b")
	assert.True(t, Equal(a, b))
	assert.Equal(t, "a", a.Name, "Equal must not touch the receiver")

	b.BlendMode = Some(gx.BlendMode{Type: gx.BlendBlend, SourceFact: gx.BlendFactorSrcAlpha, DestinationFact: gx.BlendFactorInvSrcAlpha})
	assert.False(t, Equal(a, b))

	c := New("c")
	c.TextureNames[3] = "grass"
	assert.False(t, Equal(a, c), "texture names take part in equality")
}

func TestCloneIsIndependent(t *testing.T) {
	a := New("a")
	a.SetUpTev(true, false, 2, "wood")

	c := a.Clone()
	c.Name = "copy"
	c.TevStages[0].Value.ColorOp = 9
	c.TextureNames[0] = "stone"

	assert.Equal(t, "a", a.Name)
	assert.Equal(t, uint8(0), a.TevStages[0].Value.ColorOp)
	assert.Equal(t, "wood", a.TextureNames[0])
}

func TestSetUpTev(t *testing.T) {
	t.Run("textured", func(t *testing.T) {
		m := New("m")
		m.SetUpTev(true, true, 4, "tex")

		require.True(t, m.TextureIndices[0].Valid)
		assert.Equal(t, int16(4), m.TextureIndices[0].Value)
		assert.Equal(t, "tex", m.TextureNames[0])
		assert.Equal(t, gx.ColorSrcVertex, m.ChannelControls[0].Value.MaterialSrcColor)
		assert.Equal(t, uint8(0), m.TevOrders[0].Value.TexMap)
		assert.Equal(t, uint8(1), m.NumTexGensCount)
		assert.Equal(t, uint8(1), m.NumTevStagesCount)
		assert.Equal(t, uint8(1), m.ColorChannelControlsCount)
	})

	t.Run("untextured", func(t *testing.T) {
		m := New("m")
		m.SetUpTev(false, false, -1, "")

		assert.False(t, m.TextureIndices[0].Valid)
		assert.False(t, m.HasTexture())
		assert.Equal(t, gx.TexMapNull, m.TevOrders[0].Value.TexMap)
		assert.Equal(t, gx.ColorSrcRegister, m.ChannelControls[0].Value.MaterialSrcColor)
		assert.Equal(t, uint8(0), m.NumTexGensCount)
	})

	t.Run("texture not in catalog", func(t *testing.T) {
		m := New("m")
		m.SetUpTev(true, false, -1, "missing")

		assert.False(t, m.TextureIndices[0].Valid)
		assert.True(t, m.HasTexture())
	})
}

func TestReadjust(t *testing.T) {
	m := &Material{}
	m.ChannelControls[0] = Some(gx.ChannelControl{})
	m.ChannelControls[1] = Some(gx.ChannelControl{})
	m.ChannelControls[2] = Some(gx.ChannelControl{})
	m.TexCoord1Gens[0] = Some(gx.TexCoordGen{})
	m.TexCoord1Gens[5] = Some(gx.TexCoordGen{})
	for i := 0; i < 3; i++ {
		m.TevStages[i] = Some(gx.TevStage{})
	}

	m.Readjust()
	assert.Equal(t, uint8(2), m.ColorChannelControlsCount)
	assert.Equal(t, uint8(2), m.NumTexGensCount)
	assert.Equal(t, uint8(3), m.NumTevStagesCount)
}

func TestSlotJSON(t *testing.T) {
	m := New("json")
	m.SetUpTev(true, false, 0, "tex")

	data, err := json.Marshal(m)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"lightingColors":[null,null,null,null,null,null,null,null]`)

	var back Material
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, *m, back)
}

func TestSlotYAML(t *testing.T) {
	m := New("yaml")
	m.SetUpTev(false, true, -1, "")

	data, err := yaml.Marshal(m)
	require.NoError(t, err)

	var back Material
	require.NoError(t, yaml.Unmarshal(data, &back))
	assert.Equal(t, *m, back)
}

func TestSlotPartialDocument(t *testing.T) {
	var m Material
	doc := `{"name":"p","blendMode":{"type":1,"sourceFact":4,"destinationFact":5,"operation":3},"materialColors":[null,{"r":1,"g":2,"b":3,"a":4}]}`
	require.NoError(t, json.Unmarshal([]byte(doc), &m))

	assert.False(t, m.MaterialColors[0].Valid)
	assert.Equal(t, Some(gx.Color{R: 1, G: 2, B: 3, A: 4}), m.MaterialColors[1])
	assert.Equal(t, gx.BlendBlend, m.BlendMode.Value.Type)
	assert.False(t, m.ZMode.Valid)
}

func TestSlotOr(t *testing.T) {
	var s Slot[int16]
	assert.Equal(t, int16(-1), s.Or(-1))
	v, ok := Some[int16](7).Get()
	assert.True(t, ok)
	assert.Equal(t, int16(7), v)
}
