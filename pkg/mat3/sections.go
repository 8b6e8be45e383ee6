package mat3

import (
	"fmt"

	"github.com/goopsie/bmdFileTools/pkg/binio"
)

const (
	// HeaderSize is the size of the fixed chunk header before the offset table.
	HeaderSize = 12

	signature       = "MAT3"
	legacySignature = "MAT2"
)

// Section identifies one sub-block of the chunk, in canonical order.
type Section int

const (
	SectionMaterialData Section = iota
	SectionIndexData
	SectionNameTable
	SectionIndirectData
	SectionCullMode
	SectionMaterialColor
	SectionColorChannelCount
	SectionColorChannelData
	SectionAmbientColorData
	SectionLightData
	SectionTexGenCount
	SectionTexCoordData
	SectionTexCoord2Data
	SectionTexMatrixData
	SectionTexMatrix2Data
	SectionTexNoData
	SectionTevOrderData
	SectionTevColorData
	SectionTevKColorData
	SectionTevStageCount
	SectionTevStageData
	SectionTevSwapModeData
	SectionTevSwapModeTable
	SectionFogData
	SectionAlphaCompareData
	SectionBlendData
	SectionZModeData
	SectionZCompLoc
	SectionDitherData
	SectionNBTScaleData

	SectionCount
)

var sectionNames = [SectionCount]string{
	"MaterialData", "IndexData", "NameTable", "IndirectData", "CullMode",
	"MaterialColor", "ColorChannelCount", "ColorChannelData", "AmbientColorData", "LightData",
	"TexGenCount", "TexCoordData", "TexCoord2Data", "TexMatrixData", "TexMatrix2Data",
	"TexNoData", "TevOrderData", "TevColorData", "TevKColorData", "TevStageCount",
	"TevStageData", "TevSwapModeData", "TevSwapModeTable", "FogData", "AlphaCompareData",
	"BlendData", "ZModeData", "ZCompLoc", "DitherData", "NBTScaleData",
}

func (s Section) String() string {
	if s < 0 || s >= SectionCount {
		return fmt.Sprintf("Section(%d)", int(s))
	}
	return sectionNames[s]
}

// LegacyOmitted reports whether the MAT2 layout has no slot for s.
func (s Section) LegacyOmitted() bool {
	switch s {
	case SectionIndirectData, SectionAmbientColorData, SectionLightData,
		SectionZCompLoc, SectionDitherData, SectionNBTScaleData:
		return true
	}
	return false
}

// Layout returns the sections that have an offset slot, in slot order.
func Layout(legacy bool) []Section {
	out := make([]Section, 0, SectionCount)
	for s := Section(0); s < SectionCount; s++ {
		if legacy && s.LegacyOmitted() {
			continue
		}
		out = append(out, s)
	}
	return out
}

// MaterialDataOffset is where the first init record starts, right after the offset table.
func MaterialDataOffset(legacy bool) int {
	return HeaderSize + 4*len(Layout(legacy))
}

// SectionInfo locates one section relative to the chunk start.
type SectionInfo struct {
	Offset  int64
	Length  int64
	Present bool
}

// SectionTable is the decoded chunk header and offset table.
type SectionTable struct {
	Signature     string
	ChunkLength   int64
	MaterialCount int
	Legacy        bool
	Sections      [SectionCount]SectionInfo
}

// ReadSectionTable decodes the header and offset table of the chunk starting at base.
// Section lengths are not stored; each is inferred from the next non-zero offset in the
// table, and the last slot of the layout runs to the end of the chunk. A MAT2 signature
// forces the legacy layout.
func ReadSectionTable(r *binio.Reader, base int64, legacy bool) (*SectionTable, error) {
	st := &SectionTable{}
	err := r.Preserve(func() error {
		if err := r.SeekTo(base); err != nil {
			return err
		}
		sig, err := r.ReadBytes(4)
		if err != nil {
			return fmt.Errorf("read signature: %w", err)
		}
		st.Signature = string(sig)
		switch st.Signature {
		case signature:
		case legacySignature:
			legacy = true
		default:
			return fmt.Errorf("%w: %q", ErrSignature, st.Signature)
		}
		st.Legacy = legacy

		length, err := r.ReadS32()
		if err != nil {
			return fmt.Errorf("read chunk length: %w", err)
		}
		if length < HeaderSize {
			return fmt.Errorf("%w: chunk length %d", ErrCorrupt, length)
		}
		st.ChunkLength = int64(length)

		count, err := r.ReadU16()
		if err != nil {
			return fmt.Errorf("read material count: %w", err)
		}
		st.MaterialCount = int(count)
		if err := r.Skip(2); err != nil {
			return err
		}

		layout := Layout(legacy)
		for i, s := range layout {
			info, err := st.readSlot(r, base, i == len(layout)-1)
			if err != nil {
				return fmt.Errorf("section %s: %w", s, err)
			}
			st.Sections[s] = info
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return st, nil
}

// readSlot reads one offset and infers the section length. The cursor ends on the
// next slot.
func (st *SectionTable) readSlot(r *binio.Reader, base int64, last bool) (SectionInfo, error) {
	off, err := r.ReadS32()
	if err != nil {
		return SectionInfo{}, fmt.Errorf("read offset: %w", err)
	}
	if off == 0 {
		return SectionInfo{}, nil
	}
	offset := int64(off)
	if offset < 0 || offset > st.ChunkLength {
		return SectionInfo{}, fmt.Errorf("%w: offset %d outside chunk of %d bytes", ErrCorrupt, offset, st.ChunkLength)
	}

	next := st.ChunkLength
	if !last {
		next, err = st.nextOffset(r, base)
		if err != nil {
			return SectionInfo{}, err
		}
	}

	length := next - offset
	if length < 0 {
		return SectionInfo{}, fmt.Errorf("%w: negative length %d (offset %d, next %d)", ErrCorrupt, length, offset, next)
	}
	if next > st.ChunkLength {
		return SectionInfo{}, fmt.Errorf("%w: section ends at %d past chunk of %d bytes", ErrCorrupt, next, st.ChunkLength)
	}
	return SectionInfo{Offset: offset, Length: length, Present: true}, nil
}

// nextOffset peeks past any run of zero words after the current slot and returns the
// first non-zero one. A run that reaches the end of the chunk yields the chunk length.
func (st *SectionTable) nextOffset(r *binio.Reader, base int64) (int64, error) {
	var next int64
	err := r.Preserve(func() error {
		for {
			pos, err := r.Position()
			if err != nil {
				return err
			}
			if pos+4 > base+st.ChunkLength {
				next = st.ChunkLength
				return nil
			}
			w, err := r.ReadS32()
			if err != nil {
				return fmt.Errorf("peek next offset: %w", err)
			}
			if w != 0 {
				next = int64(w)
				return nil
			}
		}
	})
	return next, err
}

// Section returns the location of s.
func (st *SectionTable) Section(s Section) SectionInfo {
	return st.Sections[s]
}
