package mat3

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goopsie/bmdFileTools/pkg/binio"
	"github.com/goopsie/bmdFileTools/pkg/gx"
	"github.com/goopsie/bmdFileTools/pkg/logging"
	"github.com/goopsie/bmdFileTools/pkg/material"
)

func sampleMaterials() []*material.Material {
	body := material.New("body")
	body.SetUpTev(true, false, 0, "skin")

	lod := body.Clone()
	lod.Name = "body_lod"

	glass := material.New("glass")
	glass.SetUpTev(false, true, -1, "")
	glass.BlendMode = material.Some(gx.BlendMode{
		Type:            gx.BlendBlend,
		SourceFact:      gx.BlendFactorSrcAlpha,
		DestinationFact: gx.BlendFactorInvSrcAlpha,
		Operation:       gx.LogicOpCopy,
	})
	glass.LightingColors[2] = material.Some(gx.Color{R: 10, G: 20, B: 30, A: 40})

	return []*material.Material{body, lod, glass}
}

// onDisk returns m as it reads back: texture names are not stored in the chunk.
func onDisk(m *material.Material) *material.Material {
	c := m.Clone()
	c.TextureNames = [material.TextureCount]string{}
	return c
}

func slotOffset(data []byte, slot int) int {
	return int(binary.BigEndian.Uint32(data[HeaderSize+4*slot:]))
}

func encodeSample(t *testing.T, opts ...Option) []byte {
	t.Helper()
	data, err := Encode(NewTable(sampleMaterials()), opts...)
	require.NoError(t, err)
	return data
}

func TestRoundTrip(t *testing.T) {
	src := sampleMaterials()
	data, err := Encode(NewTable(src))
	require.NoError(t, err)

	tbl, err := Decode(data)
	require.NoError(t, err)
	require.Len(t, tbl.Materials, len(src))
	assert.False(t, tbl.Legacy)
	assert.Empty(t, tbl.Diagnostics)
	assert.Equal(t, []string{"body", "body_lod", "glass"}, tbl.Names())

	for i, m := range tbl.Materials {
		assert.Equal(t, src[i].Name, m.Name)
		assert.True(t, material.Equal(onDisk(src[i]), m), "material %s differs after round trip", m.Name)
	}

	again, err := tbl.MarshalBinary()
	require.NoError(t, err)
	assert.Equal(t, data, again, "re-encoding a decoded table is not stable")
}

func TestRoundTripLittleEndian(t *testing.T) {
	src := sampleMaterials()
	data, err := Encode(NewTable(src), WithByteOrder(binary.LittleEndian))
	require.NoError(t, err)
	assert.Equal(t, uint32(len(data)), binary.LittleEndian.Uint32(data[4:]))

	tbl, err := Decode(data, WithByteOrder(binary.LittleEndian))
	require.NoError(t, err)
	for i, m := range tbl.Materials {
		assert.True(t, material.Equal(onDisk(src[i]), m))
	}
}

func TestDedupSharesRecords(t *testing.T) {
	tbl := NewTable(sampleMaterials())
	assert.Equal(t, 2, tbl.PhysicalCount())

	data, err := Encode(tbl)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 0, 1}, tbl.RemapIndices)

	matData := slotOffset(data, int(SectionMaterialData))
	idxData := slotOffset(data, int(SectionIndexData))
	assert.Equal(t, 2*RecordSize, idxData-matData)
	for i, want := range []int16{0, 0, 1} {
		assert.Equal(t, want, int16(binary.BigEndian.Uint16(data[idxData+2*i:])))
	}

	got, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 0, 1}, got.RemapIndices)

	// Materials sharing a record are still independent after decoding.
	got.Materials[0].Flag = 4
	got.Materials[0].TevColors[1] = material.Some(gx.Int16Color{R: -5})
	assert.Equal(t, uint8(1), got.Materials[1].Flag)
	assert.False(t, got.Materials[1].TevColors[1].Valid)

	out, err := Encode(got)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2}, got.RemapIndices)
	assert.Greater(t, len(out), 0)
}

func TestHeader(t *testing.T) {
	t.Run("normal", func(t *testing.T) {
		data := encodeSample(t)
		assert.Equal(t, "MAT3", string(data[0:4]))
		assert.Equal(t, uint32(len(data)), binary.BigEndian.Uint32(data[4:]))
		assert.Equal(t, uint16(3), binary.BigEndian.Uint16(data[8:]))
		assert.Equal(t, uint16(0xFFFF), binary.BigEndian.Uint16(data[10:]))
		assert.Equal(t, 132, MaterialDataOffset(false))
		assert.Equal(t, 132, slotOffset(data, 0))
	})
	t.Run("legacy", func(t *testing.T) {
		data := encodeSample(t, WithLegacy(true))
		assert.Equal(t, "MAT2", string(data[0:4]))
		assert.Equal(t, 108, MaterialDataOffset(true))
		assert.Equal(t, 108, slotOffset(data, 0))
		assert.Len(t, Layout(true), 24)
	})
}

func TestAlignment(t *testing.T) {
	data := encodeSample(t)
	assert.Zero(t, len(data)%chunkAlign)

	// The section after the name table starts on an 8-byte boundary.
	assert.Zero(t, slotOffset(data, int(SectionIndirectData))%nameTableAlign)

	for _, s := range []Section{SectionColorChannelCount, SectionTexGenCount, SectionTevStageCount, SectionTexNoData, SectionZCompLoc, SectionDitherData} {
		start := slotOffset(data, int(s))
		end := slotOffset(data, int(s)+1)
		assert.Zero(t, (end-start)%4, "section %s is not padded to 4", s)
	}

	// One distinct channel count, then padding.
	start := slotOffset(data, int(SectionColorChannelCount))
	assert.Equal(t, byte(1), data[start])
	assert.Equal(t, "Thi", string(data[start+1:start+4]))
}

func TestLegacyRoundTrip(t *testing.T) {
	src := sampleMaterials()
	data, err := Encode(NewTable(src), WithLegacy(true))
	require.NoError(t, err)

	matData := slotOffset(data, 0)
	idxData := slotOffset(data, 1)
	assert.Equal(t, 2*LegacyRecordSize, idxData-matData)

	// The MAT2 signature alone selects the legacy layout.
	tbl, err := Decode(data)
	require.NoError(t, err)
	assert.True(t, tbl.Legacy)
	assert.Empty(t, tbl.Diagnostics)

	for i, m := range tbl.Materials {
		want := onDisk(src[i])
		want.IndTexEntry = material.Slot[gx.IndirectTexturing]{}
		want.ZCompLoc = false
		want.Dither = false
		want.NBTScale = material.Slot[gx.NBTScale]{}
		want.AmbientColors = [material.AmbientColorCount]material.Slot[gx.Color]{}
		want.LightingColors = [material.LightColorCount]material.Slot[gx.Color]{}
		assert.True(t, material.Equal(want, m), "material %s differs after legacy round trip", m.Name)
	}

	again, err := tbl.MarshalBinary()
	require.NoError(t, err)
	assert.Equal(t, "MAT2", string(again[0:4]))
}

func TestLastSectionLength(t *testing.T) {
	for _, legacy := range []bool{false, true} {
		data := encodeSample(t, WithLegacy(legacy))
		st, err := ReadSectionTable(binio.NewReader(bytes.NewReader(data), nil), 0, legacy)
		require.NoError(t, err)

		layout := Layout(legacy)
		last := layout[len(layout)-1]
		info := st.Section(last)
		require.True(t, info.Present)
		assert.Equal(t, st.ChunkLength-info.Offset, info.Length, "legacy=%v", legacy)
		if legacy {
			assert.Equal(t, SectionZModeData, last)
		} else {
			assert.Equal(t, SectionNBTScaleData, last)
		}
	}
}

func TestZeroOffsetLengthInference(t *testing.T) {
	data := encodeSample(t)
	chanData := slotOffset(data, int(SectionColorChannelData))
	light := slotOffset(data, int(SectionLightData))
	binary.BigEndian.PutUint32(data[HeaderSize+4*int(SectionAmbientColorData):], 0)

	st, err := ReadSectionTable(binio.NewReader(bytes.NewReader(data), nil), 0, false)
	require.NoError(t, err)
	assert.False(t, st.Section(SectionAmbientColorData).Present)
	assert.Equal(t, int64(light-chanData), st.Section(SectionColorChannelData).Length)

	tbl, err := Decode(data)
	require.NoError(t, err)
	assert.False(t, tbl.Materials[0].AmbientColors[0].Valid)
	require.NotEmpty(t, tbl.Diagnostics)
	assert.Equal(t, "ambientColors", tbl.Diagnostics[0].Field)
	assert.Equal(t, "body", tbl.Diagnostics[0].Material)
}

func TestZeroRunToChunkEnd(t *testing.T) {
	chunkLen := MaterialDataOffset(false) + 8
	data := make([]byte, chunkLen)
	copy(data, "MAT3")
	binary.BigEndian.PutUint32(data[4:], uint32(chunkLen))
	binary.BigEndian.PutUint16(data[10:], 0xFFFF)
	binary.BigEndian.PutUint32(data[HeaderSize:], uint32(MaterialDataOffset(false)))

	st, err := ReadSectionTable(binio.NewReader(bytes.NewReader(data), nil), 0, false)
	require.NoError(t, err)
	info := st.Section(SectionMaterialData)
	assert.True(t, info.Present)
	assert.Equal(t, int64(8), info.Length)
	for s := SectionIndexData; s < SectionCount; s++ {
		assert.False(t, st.Section(s).Present, "section %s", s)
	}

	tbl, err := Decode(data)
	require.NoError(t, err)
	assert.Empty(t, tbl.Materials)
}

func TestSectionTableErrors(t *testing.T) {
	t.Run("signature", func(t *testing.T) {
		data := encodeSample(t)
		copy(data, "MAT4")
		_, err := Decode(data)
		assert.ErrorIs(t, err, ErrSignature)
	})
	t.Run("offset outside chunk", func(t *testing.T) {
		data := encodeSample(t)
		binary.BigEndian.PutUint32(data[HeaderSize+4*int(SectionCullMode):], uint32(len(data)+4))
		_, err := Decode(data)
		assert.ErrorIs(t, err, ErrCorrupt)
	})
	t.Run("negative length", func(t *testing.T) {
		data := encodeSample(t)
		binary.BigEndian.PutUint32(data[HeaderSize+4*int(SectionIndexData):], uint32(MaterialDataOffset(false)-4))
		_, err := Decode(data)
		assert.ErrorIs(t, err, ErrCorrupt)
	})
	t.Run("truncated", func(t *testing.T) {
		data := encodeSample(t)
		_, err := Decode(data[:20])
		assert.Error(t, err)
	})
	t.Run("missing name table", func(t *testing.T) {
		data := encodeSample(t)
		binary.BigEndian.PutUint32(data[HeaderSize+4*int(SectionNameTable):], 0)
		_, err := Decode(data)
		assert.ErrorIs(t, err, ErrMissingSection)
	})
}

func TestIndexPolicies(t *testing.T) {
	rec := MaterialDataOffset(false)

	t.Run("fault", func(t *testing.T) {
		data := encodeSample(t)
		data[rec+1] = 9 // cull mode
		_, err := Decode(data)
		require.Error(t, err)

		var ie *IndexError
		require.True(t, errors.As(err, &ie))
		assert.Equal(t, "cullMode", ie.Field)
		assert.Equal(t, 9, ie.Index)
		assert.ErrorIs(t, err, ErrCorrupt)
	})

	t.Run("skip", func(t *testing.T) {
		data := encodeSample(t)
		binary.BigEndian.PutUint16(data[rec+8:], 0x50) // material color 0

		var logs bytes.Buffer
		tbl, err := Decode(data, WithLogger(logging.NewWriterLogger("mat3", false, io.Discard, &logs)))
		require.NoError(t, err)
		assert.False(t, tbl.Materials[0].MaterialColors[0].Valid)
		assert.False(t, tbl.Materials[1].MaterialColors[0].Valid)
		assert.True(t, tbl.Materials[2].MaterialColors[0].Valid)

		require.Len(t, tbl.Diagnostics, 1)
		d := tbl.Diagnostics[0]
		assert.Equal(t, "body", d.Material)
		assert.Equal(t, "materialColors", d.Field)
		assert.Equal(t, 0x50, d.Index)
		assert.Contains(t, logs.String(), "materialColors")
	})

	t.Run("swap table negative is empty", func(t *testing.T) {
		data := encodeSample(t)
		binary.BigEndian.PutUint16(data[rec+292:], 0xFFFE)
		tbl, err := Decode(data)
		require.NoError(t, err)
		assert.False(t, tbl.Materials[0].SwapTables[0].Valid)
		assert.True(t, tbl.Materials[0].SwapTables[1].Valid)
		assert.Empty(t, tbl.Diagnostics)
	})

	t.Run("post tex gen faults", func(t *testing.T) {
		data := encodeSample(t)
		binary.BigEndian.PutUint16(data[rec+56:], 3)
		_, err := Decode(data)
		var ie *IndexError
		require.True(t, errors.As(err, &ie))
		assert.Equal(t, "postTexCoordGens", ie.Field)
	})
}

func TestDitherSectionAbsent(t *testing.T) {
	data := encodeSample(t)
	binary.BigEndian.PutUint32(data[HeaderSize+4*int(SectionDitherData):], 0)

	tbl, err := Decode(data)
	require.NoError(t, err)
	for _, m := range tbl.Materials {
		assert.False(t, m.Dither)
		assert.True(t, m.ZCompLoc)
	}
	assert.Empty(t, tbl.Diagnostics)
}

func TestPoolFilters(t *testing.T) {
	var counts Pool[uint8]
	loadCounts(&counts, []byte{1, 2, 'T', 'h', 0})
	assert.Equal(t, []uint8{1, 2, 0}, counts.Items())

	var flags Pool[bool]
	loadBools(&flags, []byte{1, 0, 'T', 0})
	assert.Equal(t, []bool{true, false}, flags.Items())

	var colors Pool[gx.Color]
	assert.Equal(t, 0, colors.Intern(gx.White))
	assert.Equal(t, 1, colors.Intern(gx.Color{}))
	assert.Equal(t, 0, colors.Intern(gx.White))
	assert.Equal(t, 2, colors.Len())
	colors.Append(gx.White)
	assert.Equal(t, 3, colors.Len())
	assert.Equal(t, 0, colors.IndexOf(gx.White))
	_, ok := colors.At(3)
	assert.False(t, ok)
}

func TestIndirectPoolIsPositional(t *testing.T) {
	plain := material.New("plain")
	plain.IndTexEntry = material.Slot[gx.IndirectTexturing]{}
	custom := material.New("custom")
	ind := gx.DefaultIndirectTexturing()
	ind.Enable = true
	ind.StageCount = 1
	custom.IndTexEntry = material.Some(ind)
	last := material.New("last")
	last.Flag = 2
	last.IndTexEntry = material.Slot[gx.IndirectTexturing]{}
	src := []*material.Material{plain, custom, last}

	tbl := NewTable(src)
	data, err := Encode(tbl)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 0, 2}, tbl.RemapIndices)

	got, err := Decode(data)
	require.NoError(t, err)
	require.Len(t, got.Materials, 3)
	for i, m := range src {
		assert.True(t, material.Equal(m, got.Materials[i]), "material %d", i)
	}
	assert.Equal(t, ind, got.Materials[1].IndTexEntry.Value)
	for _, d := range got.Diagnostics {
		assert.Equal(t, "indirect", d.Field)
	}

	again, err := got.MarshalBinary()
	require.NoError(t, err)
	assert.Equal(t, data, again)
}

func TestIndirectEntryOrderSurvivesReencode(t *testing.T) {
	a := material.New("a")
	b := material.New("b")
	b.Flag = 3
	b.IndTexEntry = material.Slot[gx.IndirectTexturing]{}
	data, err := Encode(NewTable([]*material.Material{a, b}))
	require.NoError(t, err)

	// Point the first name at the record without an entry.
	remap := slotOffset(data, 1)
	binary.BigEndian.PutUint16(data[remap:], 1)
	binary.BigEndian.PutUint16(data[remap+2:], 0)

	first, err := Decode(data)
	require.NoError(t, err)
	require.False(t, first.Materials[0].IndTexEntry.Valid)
	require.True(t, first.Materials[1].IndTexEntry.Valid)

	reencoded, err := first.MarshalBinary()
	require.NoError(t, err)
	second, err := Decode(reencoded)
	require.NoError(t, err)
	require.Len(t, second.Materials, 2)
	for i := range first.Materials {
		assert.True(t, material.Equal(first.Materials[i], second.Materials[i]), "material %d", i)
		assert.Equal(t, first.Materials[i].IndTexEntry, second.Materials[i].IndTexEntry, "material %d", i)
	}
}

func TestEncodeIndexRange(t *testing.T) {
	t.Run("byte indexed pool", func(t *testing.T) {
		mats := make([]*material.Material, maxByteIndexed+1)
		for i := range mats {
			mats[i] = material.New(fmt.Sprintf("m%d", i))
			mats[i].CullMode = gx.CullMode(i)
		}
		_, err := Encode(NewTable(mats))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cullMode")

		_, err = Encode(NewTable(mats[:maxByteIndexed]))
		assert.NoError(t, err)
	})

	t.Run("short indexed pool", func(t *testing.T) {
		p := &pools{}
		for i := 0; i < maxShortIndexed; i++ {
			p.matColor.Append(gx.Color{R: uint8(i), G: uint8(i >> 8)})
		}
		assert.NoError(t, p.checkIndexRange(1))
		p.matColor.Append(gx.Color{A: 1})
		err := p.checkIndexRange(1)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "materialColors")
	})

	t.Run("record count", func(t *testing.T) {
		p := &pools{}
		assert.NoError(t, p.checkIndexRange(maxShortIndexed))
		assert.Error(t, p.checkIndexRange(maxShortIndexed+1))
	})
}

func TestEncodeErrors(t *testing.T) {
	t.Run("count too large", func(t *testing.T) {
		m := material.New("m")
		m.NumTexGensCount = countLimit
		_, err := Encode(NewTable([]*material.Material{m}))
		assert.Error(t, err)
	})
	t.Run("empty zmode", func(t *testing.T) {
		m := material.New("m")
		m.ZMode = material.Slot[gx.ZMode]{}
		_, err := Encode(NewTable([]*material.Material{m}))
		assert.Error(t, err)
	})
}

func TestEmptyTable(t *testing.T) {
	data, err := Encode(NewTable(nil))
	require.NoError(t, err)
	tbl, err := Decode(data)
	require.NoError(t, err)
	assert.Empty(t, tbl.Materials)
}

func TestReadAtOffset(t *testing.T) {
	chunk := encodeSample(t)
	var file bytes.Buffer
	file.WriteString("J3D2bmd3 header bytes...")
	start := int64(file.Len())
	file.Write(chunk)
	file.WriteString("TEX1")

	rs := bytes.NewReader(file.Bytes())
	tbl, err := Read(rs, start)
	require.NoError(t, err)
	assert.Len(t, tbl.Materials, 3)

	pos, err := rs.Seek(0, io.SeekCurrent)
	require.NoError(t, err)
	assert.Equal(t, start+int64(len(chunk)), pos)
}

func TestWriteTo(t *testing.T) {
	tbl := NewTable(sampleMaterials())
	var out bytes.Buffer
	n, err := tbl.WriteTo(&out)
	require.NoError(t, err)
	assert.Equal(t, int64(out.Len()), n)
	assert.Equal(t, 1, tbl.Find("body_lod"))
	assert.Equal(t, -1, tbl.Find("nope"))
}

func BenchmarkDecode(b *testing.B) {
	mats := sampleMaterials()
	for i := 0; i < 64; i++ {
		m := material.New("extra")
		m.Flag = uint8(i%4 + 1)
		m.MaterialColors[0] = material.Some(gx.Color{R: uint8(i), A: 0xFF})
		mats = append(mats, m)
	}
	data, err := Encode(NewTable(mats))
	if err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := Decode(data); err != nil {
			b.Fatal(err)
		}
	}
}
