package binio

import (
	"encoding/binary"
	"fmt"
)

// PaddingString is the fill pattern written between aligned blocks of a J3D chunk.
// Its first byte ('T', 0x54 = 84) is what lets readers tell padding from count data.
const PaddingString = "This is padding data to align"

// Buffer is an append-only byte buffer with back-patching, used to assemble a chunk
// before its offsets are known.
type Buffer struct {
	b     []byte
	order binary.ByteOrder
}

// NewBuffer creates an empty buffer. A nil order selects big-endian.
func NewBuffer(order binary.ByteOrder) *Buffer {
	if order == nil {
		order = binary.BigEndian
	}
	return &Buffer{order: order}
}

// Order returns the byte order used for multi-byte writes.
func (w *Buffer) Order() binary.ByteOrder {
	return w.order
}

// Len returns the number of bytes written so far.
func (w *Buffer) Len() int {
	return len(w.b)
}

// Bytes returns the buffer contents.
func (w *Buffer) Bytes() []byte {
	return w.b
}

// Write appends p. It never fails.
func (w *Buffer) Write(p []byte) (int, error) {
	w.b = append(w.b, p...)
	return len(p), nil
}

// Reserve appends n zero bytes and returns them for in-place encoding.
// The returned slice is only valid until the next append.
func (w *Buffer) Reserve(n int) []byte {
	start := len(w.b)
	w.b = append(w.b, make([]byte, n)...)
	return w.b[start:]
}

// WriteU8 appends one byte.
func (w *Buffer) WriteU8(v uint8) {
	w.b = append(w.b, v)
}

// WriteU16 appends an unsigned 16-bit integer.
func (w *Buffer) WriteU16(v uint16) {
	w.order.PutUint16(w.Reserve(2), v)
}

// WriteS16 appends a signed 16-bit integer.
func (w *Buffer) WriteS16(v int16) {
	w.WriteU16(uint16(v))
}

// WriteU32 appends an unsigned 32-bit integer.
func (w *Buffer) WriteU32(v uint32) {
	w.order.PutUint32(w.Reserve(4), v)
}

// WriteS32 appends a signed 32-bit integer.
func (w *Buffer) WriteS32(v int32) {
	w.WriteU32(uint32(v))
}

// PutU32At overwrites four bytes at off.
func (w *Buffer) PutU32At(off int, v uint32) error {
	if off < 0 || off+4 > len(w.b) {
		return fmt.Errorf("patch offset %d out of range (len %d)", off, len(w.b))
	}
	w.order.PutUint32(w.b[off:off+4], v)
	return nil
}

// Pad fills with PaddingString until Len is a multiple of align.
func (w *Buffer) Pad(align int) {
	w.PadFrom(0, align)
}

// PadFrom fills with PaddingString until Len-start is a multiple of align.
func (w *Buffer) PadFrom(start, align int) {
	if align <= 1 {
		return
	}
	rem := (len(w.b) - start) % align
	if rem == 0 {
		return
	}
	for i := 0; i < align-rem; i++ {
		w.b = append(w.b, PaddingString[i%len(PaddingString)])
	}
}
