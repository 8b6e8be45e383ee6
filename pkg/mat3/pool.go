package mat3

import (
	"encoding/binary"

	"github.com/goopsie/bmdFileTools/pkg/binio"
	"github.com/goopsie/bmdFileTools/pkg/gx"
)

// countLimit is the first byte value rejected by count pools. It is the 'T' that starts
// the padding string, so padding after the real counts is never taken for data.
const countLimit = 84

// Pool is an ordered list of unique values referenced by index from init records.
type Pool[T comparable] struct {
	items []T
	index map[T]int
}

// Append adds v at the end, even if an equal value is already present. Used when
// loading, where the on-disk order defines the index space.
func (p *Pool[T]) Append(v T) {
	if p.index == nil {
		p.index = make(map[T]int)
	}
	if _, ok := p.index[v]; !ok {
		p.index[v] = len(p.items)
	}
	p.items = append(p.items, v)
}

// Intern returns the index of v, appending it first if it is not present.
func (p *Pool[T]) Intern(v T) int {
	if i, ok := p.index[v]; ok {
		return i
	}
	p.Append(v)
	return len(p.items) - 1
}

// At returns the value at i.
func (p *Pool[T]) At(i int) (T, bool) {
	if i < 0 || i >= len(p.items) {
		var zero T
		return zero, false
	}
	return p.items[i], true
}

// IndexOf returns the first index of v, or -1.
func (p *Pool[T]) IndexOf(v T) int {
	if i, ok := p.index[v]; ok {
		return i
	}
	return -1
}

func (p *Pool[T]) Len() int {
	return len(p.items)
}

func (p *Pool[T]) Items() []T {
	return p.items
}

// record is a fixed-size gx value that can encode itself.
type record interface {
	comparable
	EncodeTo(b []byte, order binary.ByteOrder)
}

func loadRecords[T comparable](p *Pool[T], data []byte, size int, order binary.ByteOrder, decode func([]byte, binary.ByteOrder) T) {
	for off := 0; off+size <= len(data); off += size {
		p.Append(decode(data[off:off+size], order))
	}
}

func storeRecords[T record](p *Pool[T], buf *binio.Buffer, size int) {
	for _, v := range p.items {
		v.EncodeTo(buf.Reserve(size), buf.Order())
	}
}

func loadCounts(p *Pool[uint8], data []byte) {
	for _, b := range data {
		if b < countLimit {
			p.Append(b)
		}
	}
}

func storeCounts(p *Pool[uint8], buf *binio.Buffer) {
	buf.Write(p.items)
}

func loadBools(p *Pool[bool], data []byte) {
	for _, b := range data {
		if b > 1 {
			return
		}
		p.Append(b == 1)
	}
}

func storeBools(p *Pool[bool], buf *binio.Buffer) {
	for _, v := range p.items {
		if v {
			buf.WriteU8(1)
		} else {
			buf.WriteU8(0)
		}
	}
}

func loadS16(p *Pool[int16], data []byte, order binary.ByteOrder) {
	for off := 0; off+2 <= len(data); off += 2 {
		p.Append(int16(order.Uint16(data[off:])))
	}
}

func storeS16(p *Pool[int16], buf *binio.Buffer) {
	for _, v := range p.items {
		buf.WriteS16(v)
	}
}

// pools holds every value pool of one chunk.
type pools struct {
	indirect      Pool[gx.IndirectTexturing]
	cull          Pool[gx.CullMode]
	matColor      Pool[gx.Color]
	chanCount     Pool[uint8]
	chanCtrl      Pool[gx.ChannelControl]
	ambient       Pool[gx.Color]
	light         Pool[gx.Color]
	texGenCount   Pool[uint8]
	texGen        Pool[gx.TexCoordGen]
	postTexGen    Pool[gx.TexCoordGen]
	texMtx        Pool[gx.TexMatrix]
	postTexMtx    Pool[gx.TexMatrix]
	texNo         Pool[int16]
	tevOrder      Pool[gx.TevOrder]
	tevColor      Pool[gx.Int16Color]
	konst         Pool[gx.Color]
	tevStageCount Pool[uint8]
	tevStage      Pool[gx.TevStage]
	swapMode      Pool[gx.TevSwapMode]
	swapTable     Pool[gx.TevSwapModeTable]
	fog           Pool[gx.Fog]
	alphaCmp      Pool[gx.AlphaCompare]
	blend         Pool[gx.BlendMode]
	zMode         Pool[gx.ZMode]
	zCompLoc      Pool[bool]
	dither        Pool[bool]
	nbt           Pool[gx.NBTScale]

	present [SectionCount]bool
}

// poolCodec loads and stores the pool behind one section. align is the boundary the
// section is padded to on write, relative to the section start; 0 means none.
type poolCodec struct {
	align int
	load  func(p *pools, data []byte, order binary.ByteOrder)
	store func(p *pools, buf *binio.Buffer)
}

func recordCodec[T record](size int, decode func([]byte, binary.ByteOrder) T, pool func(*pools) *Pool[T]) poolCodec {
	return poolCodec{
		load: func(p *pools, d []byte, o binary.ByteOrder) {
			loadRecords(pool(p), d, size, o, decode)
		},
		store: func(p *pools, b *binio.Buffer) {
			storeRecords(pool(p), b, size)
		},
	}
}

func countCodec(pool func(*pools) *Pool[uint8]) poolCodec {
	return poolCodec{
		align: 4,
		load: func(p *pools, d []byte, _ binary.ByteOrder) {
			loadCounts(pool(p), d)
		},
		store: func(p *pools, b *binio.Buffer) {
			storeCounts(pool(p), b)
		},
	}
}

func boolCodec(pool func(*pools) *Pool[bool]) poolCodec {
	return poolCodec{
		align: 4,
		load: func(p *pools, d []byte, _ binary.ByteOrder) {
			loadBools(pool(p), d)
		},
		store: func(p *pools, b *binio.Buffer) {
			storeBools(pool(p), b)
		},
	}
}

func s16Codec(pool func(*pools) *Pool[int16]) poolCodec {
	return poolCodec{
		align: 4,
		load: func(p *pools, d []byte, o binary.ByteOrder) {
			loadS16(pool(p), d, o)
		},
		store: func(p *pools, b *binio.Buffer) {
			storeS16(pool(p), b)
		},
	}
}

var poolCodecs = newPoolCodecs()

func newPoolCodecs() map[Section]poolCodec {
	c := make(map[Section]poolCodec)
	c[SectionIndirectData] = recordCodec(gx.IndirectTexturingSize, gx.DecodeIndirectTexturing,
		func(p *pools) *Pool[gx.IndirectTexturing] { return &p.indirect })
	c[SectionCullMode] = recordCodec(gx.CullModeSize, gx.DecodeCullMode,
		func(p *pools) *Pool[gx.CullMode] { return &p.cull })
	c[SectionMaterialColor] = recordCodec(gx.ColorSize, gx.DecodeColor,
		func(p *pools) *Pool[gx.Color] { return &p.matColor })
	c[SectionColorChannelCount] = countCodec(func(p *pools) *Pool[uint8] { return &p.chanCount })
	c[SectionColorChannelData] = recordCodec(gx.ChannelControlSize, gx.DecodeChannelControl,
		func(p *pools) *Pool[gx.ChannelControl] { return &p.chanCtrl })
	c[SectionAmbientColorData] = recordCodec(gx.ColorSize, gx.DecodeColor,
		func(p *pools) *Pool[gx.Color] { return &p.ambient })
	c[SectionLightData] = recordCodec(gx.ColorSize, gx.DecodeColor,
		func(p *pools) *Pool[gx.Color] { return &p.light })
	c[SectionTexGenCount] = countCodec(func(p *pools) *Pool[uint8] { return &p.texGenCount })
	c[SectionTexCoordData] = recordCodec(gx.TexCoordGenSize, gx.DecodeTexCoordGen,
		func(p *pools) *Pool[gx.TexCoordGen] { return &p.texGen })
	c[SectionTexCoord2Data] = recordCodec(gx.TexCoordGenSize, gx.DecodeTexCoordGen,
		func(p *pools) *Pool[gx.TexCoordGen] { return &p.postTexGen })
	c[SectionTexMatrixData] = recordCodec(gx.TexMatrixSize, gx.DecodeTexMatrix,
		func(p *pools) *Pool[gx.TexMatrix] { return &p.texMtx })
	c[SectionTexMatrix2Data] = recordCodec(gx.TexMatrixSize, gx.DecodeTexMatrix,
		func(p *pools) *Pool[gx.TexMatrix] { return &p.postTexMtx })
	c[SectionTexNoData] = s16Codec(func(p *pools) *Pool[int16] { return &p.texNo })
	c[SectionTevOrderData] = recordCodec(gx.TevOrderSize, gx.DecodeTevOrder,
		func(p *pools) *Pool[gx.TevOrder] { return &p.tevOrder })
	c[SectionTevColorData] = recordCodec(gx.Int16ColorSize, gx.DecodeInt16Color,
		func(p *pools) *Pool[gx.Int16Color] { return &p.tevColor })
	c[SectionTevKColorData] = recordCodec(gx.ColorSize, gx.DecodeColor,
		func(p *pools) *Pool[gx.Color] { return &p.konst })
	c[SectionTevStageCount] = countCodec(func(p *pools) *Pool[uint8] { return &p.tevStageCount })
	c[SectionTevStageData] = recordCodec(gx.TevStageSize, gx.DecodeTevStage,
		func(p *pools) *Pool[gx.TevStage] { return &p.tevStage })
	c[SectionTevSwapModeData] = recordCodec(gx.TevSwapModeSize, gx.DecodeTevSwapMode,
		func(p *pools) *Pool[gx.TevSwapMode] { return &p.swapMode })
	c[SectionTevSwapModeTable] = recordCodec(gx.TevSwapModeTableSize, gx.DecodeTevSwapModeTable,
		func(p *pools) *Pool[gx.TevSwapModeTable] { return &p.swapTable })
	c[SectionFogData] = recordCodec(gx.FogSize, gx.DecodeFog,
		func(p *pools) *Pool[gx.Fog] { return &p.fog })
	c[SectionAlphaCompareData] = recordCodec(gx.AlphaCompareSize, gx.DecodeAlphaCompare,
		func(p *pools) *Pool[gx.AlphaCompare] { return &p.alphaCmp })
	c[SectionBlendData] = recordCodec(gx.BlendModeSize, gx.DecodeBlendMode,
		func(p *pools) *Pool[gx.BlendMode] { return &p.blend })
	c[SectionZModeData] = recordCodec(gx.ZModeSize, gx.DecodeZMode,
		func(p *pools) *Pool[gx.ZMode] { return &p.zMode })
	c[SectionZCompLoc] = boolCodec(func(p *pools) *Pool[bool] { return &p.zCompLoc })
	c[SectionDitherData] = boolCodec(func(p *pools) *Pool[bool] { return &p.dither })
	c[SectionNBTScaleData] = recordCodec(gx.NBTScaleSize, gx.DecodeNBTScale,
		func(p *pools) *Pool[gx.NBTScale] { return &p.nbt })
	return c
}
