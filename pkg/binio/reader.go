// Package binio provides the stream cursor and buffer helpers shared by the J3D chunk codecs.
//
// J3D files are big-endian (GameCube/Wii), so both Reader and Buffer default to
// binary.BigEndian when no byte order is given.
package binio

import (
	"encoding/binary"
	"fmt"
	"io"
)

// Reader wraps an io.ReadSeeker with fixed-width integer reads and scoped seeking.
type Reader struct {
	rs    io.ReadSeeker
	order binary.ByteOrder
	buf   [4]byte
}

// NewReader creates a reader over rs. A nil order selects big-endian.
func NewReader(rs io.ReadSeeker, order binary.ByteOrder) *Reader {
	if order == nil {
		order = binary.BigEndian
	}
	return &Reader{rs: rs, order: order}
}

// Order returns the byte order used for multi-byte reads.
func (r *Reader) Order() binary.ByteOrder {
	return r.order
}

// Position returns the absolute cursor position.
func (r *Reader) Position() (int64, error) {
	return r.rs.Seek(0, io.SeekCurrent)
}

// SeekTo moves the cursor to an absolute position.
func (r *Reader) SeekTo(pos int64) error {
	if _, err := r.rs.Seek(pos, io.SeekStart); err != nil {
		return fmt.Errorf("seek to %d: %w", pos, err)
	}
	return nil
}

// Skip advances the cursor by n bytes.
func (r *Reader) Skip(n int64) error {
	if _, err := r.rs.Seek(n, io.SeekCurrent); err != nil {
		return fmt.Errorf("skip %d bytes: %w", n, err)
	}
	return nil
}

// Preserve runs fn and puts the cursor back where it was before fn ran,
// whether or not fn succeeded.
func (r *Reader) Preserve(fn func() error) error {
	pos, err := r.Position()
	if err != nil {
		return fmt.Errorf("save position: %w", err)
	}

	fnErr := fn()

	if _, err := r.rs.Seek(pos, io.SeekStart); err != nil && fnErr == nil {
		return fmt.Errorf("restore position: %w", err)
	}
	return fnErr
}

// ReadBytes reads exactly n bytes.
func (r *Reader) ReadBytes(n int) ([]byte, error) {
	if n < 0 {
		return nil, fmt.Errorf("negative read length %d", n)
	}
	data := make([]byte, n)
	if _, err := io.ReadFull(r.rs, data); err != nil {
		return nil, err
	}
	return data, nil
}

// ReadBytesAt reads n bytes at an absolute position without moving the cursor.
func (r *Reader) ReadBytesAt(pos int64, n int) ([]byte, error) {
	var data []byte
	err := r.Preserve(func() error {
		if err := r.SeekTo(pos); err != nil {
			return err
		}
		var err error
		data, err = r.ReadBytes(n)
		return err
	})
	return data, err
}

// ReadU8 reads one byte.
func (r *Reader) ReadU8() (uint8, error) {
	if _, err := io.ReadFull(r.rs, r.buf[:1]); err != nil {
		return 0, err
	}
	return r.buf[0], nil
}

// ReadU16 reads an unsigned 16-bit integer.
func (r *Reader) ReadU16() (uint16, error) {
	if _, err := io.ReadFull(r.rs, r.buf[:2]); err != nil {
		return 0, err
	}
	return r.order.Uint16(r.buf[:2]), nil
}

// ReadS16 reads a signed 16-bit integer.
func (r *Reader) ReadS16() (int16, error) {
	v, err := r.ReadU16()
	return int16(v), err
}

// ReadU32 reads an unsigned 32-bit integer.
func (r *Reader) ReadU32() (uint32, error) {
	if _, err := io.ReadFull(r.rs, r.buf[:4]); err != nil {
		return 0, err
	}
	return r.order.Uint32(r.buf[:4]), nil
}

// ReadS32 reads a signed 32-bit integer.
func (r *Reader) ReadS32() (int32, error) {
	v, err := r.ReadU32()
	return int32(v), err
}

// PeekS32 reads a signed 32-bit integer without advancing the cursor.
func (r *Reader) PeekS32() (int32, error) {
	var v int32
	err := r.Preserve(func() error {
		var err error
		v, err = r.ReadS32()
		return err
	})
	return v, err
}
