package mat3

import (
	"bytes"
	"fmt"
	"io"

	"github.com/goopsie/bmdFileTools/pkg/binio"
	"github.com/goopsie/bmdFileTools/pkg/material"
	"github.com/goopsie/bmdFileTools/pkg/nametable"
)

// Decode reads a chunk that starts at data[0].
func Decode(data []byte, opts ...Option) (*Table, error) {
	return Read(bytes.NewReader(data), 0, opts...)
}

// Read decodes the chunk starting at offset in rs. On success the cursor is left at the
// end of the chunk. Any hard fault aborts the whole chunk.
func Read(rs io.ReadSeeker, offset int64, opts ...Option) (*Table, error) {
	o := buildOptions(opts)
	r := binio.NewReader(rs, o.order)

	st, err := ReadSectionTable(r, offset, o.legacy)
	if err != nil {
		return nil, err
	}

	t, err := readTable(r, offset, st, o)
	if err != nil {
		return nil, err
	}
	for _, d := range t.Diagnostics {
		o.logger.Warnf("%s", d)
	}

	if err := r.SeekTo(offset + st.ChunkLength); err != nil {
		return nil, err
	}
	return t, nil
}

func readTable(r *binio.Reader, base int64, st *SectionTable, o options) (*Table, error) {
	t := &Table{Legacy: st.Legacy}
	count := st.MaterialCount
	if count == 0 {
		return t, nil
	}

	for _, s := range []Section{SectionMaterialData, SectionIndexData, SectionNameTable} {
		if !st.Sections[s].Present {
			return nil, fmt.Errorf("%w: %s", ErrMissingSection, s)
		}
	}

	remap, err := readRemap(r, base+st.Sections[SectionIndexData].Offset, count)
	if err != nil {
		return nil, err
	}

	names, err := nametable.Load(r, base+st.Sections[SectionNameTable].Offset)
	if err != nil {
		return nil, err
	}
	if len(names) < count {
		return nil, fmt.Errorf("%w: %d names for %d materials", ErrCorrupt, len(names), count)
	}

	p, err := loadPools(r, base, st, o)
	if err != nil {
		return nil, err
	}

	highest := 0
	for _, idx := range remap {
		highest = max(highest, idx)
	}

	dec := &recordDecoder{pools: p, legacy: st.Legacy, order: r.Order()}
	physical, err := readRecords(r, dec, base+st.Sections[SectionMaterialData].Offset, highest+1, physicalNames(remap, names))
	if err != nil {
		return nil, err
	}

	t.Materials = make([]*material.Material, count)
	for i, idx := range remap {
		m := physical[idx].Clone()
		m.Name = names[i]
		t.Materials[i] = m
	}
	t.RemapIndices = remap
	t.Diagnostics = dec.diags
	return t, nil
}

func readRemap(r *binio.Reader, pos int64, count int) ([]int, error) {
	data, err := r.ReadBytesAt(pos, count*2)
	if err != nil {
		return nil, fmt.Errorf("read remap indices: %w", err)
	}
	remap := make([]int, count)
	for i := range remap {
		idx := int(int16(r.Order().Uint16(data[i*2:])))
		if idx < 0 {
			return nil, fmt.Errorf("%w: remap index %d of material %d", ErrCorrupt, idx, i)
		}
		remap[i] = idx
	}
	return remap, nil
}

// physicalNames labels each physical record with the first name that uses it.
func physicalNames(remap []int, names []string) map[int]string {
	out := make(map[int]string, len(remap))
	for i, idx := range remap {
		if _, ok := out[idx]; !ok {
			out[idx] = names[i]
		}
	}
	return out
}

func loadPools(r *binio.Reader, base int64, st *SectionTable, o options) (*pools, error) {
	p := &pools{}
	for _, s := range Layout(st.Legacy) {
		info := st.Sections[s]
		codec, ok := poolCodecs[s]
		if !ok || !info.Present {
			continue
		}
		data, err := r.ReadBytesAt(base+info.Offset, int(info.Length))
		if err != nil {
			return nil, fmt.Errorf("read section %s: %w", s, err)
		}
		codec.load(p, data, r.Order())
		p.present[s] = true
	}
	return p, nil
}

// readRecords decodes n init records in physical order, walking forward from pos.
func readRecords(r *binio.Reader, dec *recordDecoder, pos int64, n int, names map[int]string) ([]*material.Material, error) {
	size := recordSize(dec.legacy)
	out := make([]*material.Material, 0, n)
	err := r.Preserve(func() error {
		if err := r.SeekTo(pos); err != nil {
			return err
		}
		for i := 0; i < n; i++ {
			rec, err := r.ReadBytes(size)
			if err != nil {
				return fmt.Errorf("read init record %d: %w", i, err)
			}
			name, ok := names[i]
			if !ok {
				name = fmt.Sprintf("#%d", i)
			}
			m, err := dec.decode(rec, i, name)
			if err != nil {
				return err
			}
			out = append(out, m)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
