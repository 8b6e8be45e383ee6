// Package nametable reads and writes the J3D string table used by the material,
// joint and texture chunks.
//
// Layout, relative to the table start:
//
//	u16 count, u16 0xFFFF
//	count × (u16 hash, u16 string offset)
//	NUL-terminated strings
package nametable

import (
	"bytes"
	"fmt"

	"github.com/goopsie/bmdFileTools/pkg/binio"
)

const (
	headerSize = 4
	entrySize  = 4
	// maxNameLen bounds the scan for a terminator.
	maxNameLen = 0x1000
)

// Hash is the J3D name hash: h = h*3 + b over the bytes of s, truncated to 16 bits.
func Hash(s string) uint16 {
	var h uint16
	for i := 0; i < len(s); i++ {
		h = h*3 + uint16(s[i])
	}
	return h
}

// Load reads the table at the absolute position offset. The cursor is restored afterwards.
func Load(r *binio.Reader, offset int64) ([]string, error) {
	var names []string
	err := r.Preserve(func() error {
		if err := r.SeekTo(offset); err != nil {
			return err
		}
		count, err := r.ReadU16()
		if err != nil {
			return fmt.Errorf("read count: %w", err)
		}
		if err := r.Skip(2); err != nil {
			return err
		}

		names = make([]string, 0, count)
		for i := 0; i < int(count); i++ {
			if _, err := r.ReadU16(); err != nil {
				return fmt.Errorf("read entry %d: %w", i, err)
			}
			off, err := r.ReadU16()
			if err != nil {
				return fmt.Errorf("read entry %d: %w", i, err)
			}
			name, err := readString(r, offset+int64(off))
			if err != nil {
				return fmt.Errorf("read name %d: %w", i, err)
			}
			names = append(names, name)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("name table at %#x: %w", offset, err)
	}
	return names, nil
}

func readString(r *binio.Reader, pos int64) (string, error) {
	var s string
	err := r.Preserve(func() error {
		if err := r.SeekTo(pos); err != nil {
			return err
		}
		var buf bytes.Buffer
		for buf.Len() < maxNameLen {
			c, err := r.ReadU8()
			if err != nil {
				return err
			}
			if c == 0 {
				s = buf.String()
				return nil
			}
			buf.WriteByte(c)
		}
		return fmt.Errorf("unterminated name at %#x", pos)
	})
	return s, err
}

// Write appends the table for names to buf. It does not pad.
func Write(buf *binio.Buffer, names []string) error {
	if len(names) > 0xFFFF {
		return fmt.Errorf("too many names: %d", len(names))
	}
	buf.WriteU16(uint16(len(names)))
	buf.WriteU16(0xFFFF)

	off := headerSize + entrySize*len(names)
	for _, name := range names {
		if off > 0xFFFF {
			return fmt.Errorf("name table exceeds 64 KiB at %q", name)
		}
		buf.WriteU16(Hash(name))
		buf.WriteU16(uint16(off))
		off += len(name) + 1
	}
	for _, name := range names {
		buf.Write([]byte(name))
		buf.WriteU8(0)
	}
	return nil
}
