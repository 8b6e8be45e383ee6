package mat3

import (
	"fmt"
	"io"

	"github.com/goopsie/bmdFileTools/pkg/binio"
	"github.com/goopsie/bmdFileTools/pkg/nametable"
)

const (
	nameTableAlign = 8
	chunkAlign     = 32
)

// Encode serializes t. Physical records, pools and remap indices are recomputed from
// t.Materials; t.RemapIndices is updated to the written remap. Records that carry an
// indirect entry are written first.
//
// MAT2 output uses the compact 24-slot offset table, so material data starts at 108
// rather than 132.
func Encode(t *Table, opts ...Option) ([]byte, error) {
	o := buildOptions(opts)
	legacy := o.legacy

	if len(t.Materials) > 0xFFFF {
		return nil, fmt.Errorf("too many materials: %d", len(t.Materials))
	}
	unique, remap := dedup(t.Materials)
	if !legacy {
		unique, remap = indirectFirst(unique, remap)
	}
	p, err := buildPools(unique, legacy)
	if err != nil {
		return nil, err
	}
	if err := p.checkIndexRange(len(unique)); err != nil {
		return nil, err
	}

	buf := binio.NewBuffer(o.order)
	sig := signature
	if legacy {
		sig = legacySignature
	}
	buf.Write([]byte(sig))
	buf.WriteU32(0)
	buf.WriteU16(uint16(len(remap)))
	buf.WriteU16(0xFFFF)

	layout := Layout(legacy)
	buf.Reserve(4 * len(layout))

	enc := &recordEncoder{pools: p, legacy: legacy}
	for slot, s := range layout {
		start := buf.Len()
		if err := buf.PutU32At(HeaderSize+4*slot, uint32(start)); err != nil {
			return nil, err
		}

		switch s {
		case SectionMaterialData:
			for _, m := range unique {
				if err := enc.encode(buf, m); err != nil {
					return nil, err
				}
			}
		case SectionIndexData:
			for _, idx := range remap {
				buf.WriteS16(int16(idx))
			}
		case SectionNameTable:
			if err := nametable.Write(buf, t.Names()); err != nil {
				return nil, err
			}
			buf.Pad(nameTableAlign)
		default:
			codec := poolCodecs[s]
			codec.store(p, buf)
			buf.PadFrom(start, codec.align)
		}
	}

	buf.Pad(chunkAlign)
	if err := buf.PutU32At(4, uint32(buf.Len())); err != nil {
		return nil, err
	}

	t.RemapIndices = remap
	t.Legacy = legacy
	o.logger.Debugf("encoded %d materials as %d records, %d bytes", len(remap), len(unique), buf.Len())
	return buf.Bytes(), nil
}

// MarshalBinary encodes the table in the variant it was read as.
func (t *Table) MarshalBinary() ([]byte, error) {
	return Encode(t, WithLegacy(t.Legacy))
}

// WriteTo writes the encoded table to w.
func (t *Table) WriteTo(w io.Writer) (int64, error) {
	data, err := t.MarshalBinary()
	if err != nil {
		return 0, err
	}
	n, err := w.Write(data)
	return int64(n), err
}
