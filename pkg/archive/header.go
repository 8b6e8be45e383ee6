// Package archive stores J3D files and extracted chunks as zstd compressed bundles.
//
// A bundle is a 24-byte header followed by one zstd frame:
//
//	"J3DZ"  magic
//	[4]byte kind, the J3D file magic or chunk tag of the payload ("J3D2", "MAT3", ...)
//	u64     uncompressed length
//	u64     compressed length
//
// Integers are big-endian like the J3D data they wrap.
package archive

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// Magic identifies a bundle.
var Magic = [4]byte{'J', '3', 'D', 'Z'}

// HeaderSize is the fixed binary size of a bundle header.
const HeaderSize = 24

// Header is the bundle header.
type Header struct {
	Magic            [4]byte
	Kind             [4]byte
	Length           uint64
	CompressedLength uint64
}

// NewHeader creates a header for a payload of the given kind and sizes.
func NewHeader(kind string, uncompressedSize, compressedSize uint64) *Header {
	h := &Header{
		Magic:            Magic,
		Length:           uncompressedSize,
		CompressedLength: compressedSize,
	}
	copy(h.Kind[:], kind)
	return h
}

// KindString returns Kind without trailing NULs.
func (h *Header) KindString() string {
	return string(bytes.TrimRight(h.Kind[:], "\x00"))
}

// Validate checks the header for validity.
func (h *Header) Validate() error {
	if h.Magic != Magic {
		return fmt.Errorf("invalid magic: expected %q, got %q", Magic[:], h.Magic[:])
	}
	if h.KindString() == "" {
		return fmt.Errorf("bundle kind is empty")
	}
	if h.Length == 0 {
		return fmt.Errorf("uncompressed size is zero")
	}
	if h.CompressedLength == 0 {
		return fmt.Errorf("compressed size is zero")
	}
	return nil
}

// MarshalBinary encodes the header.
func (h *Header) MarshalBinary() ([]byte, error) {
	buf := make([]byte, HeaderSize)
	h.EncodeTo(buf)
	return buf, nil
}

// EncodeTo writes the header to buf, which must hold HeaderSize bytes.
func (h *Header) EncodeTo(buf []byte) {
	copy(buf[0:4], h.Magic[:])
	copy(buf[4:8], h.Kind[:])
	binary.BigEndian.PutUint64(buf[8:16], h.Length)
	binary.BigEndian.PutUint64(buf[16:24], h.CompressedLength)
}

// UnmarshalBinary decodes and validates the header.
func (h *Header) UnmarshalBinary(data []byte) error {
	if len(data) < HeaderSize {
		return fmt.Errorf("header data too short: need %d, got %d", HeaderSize, len(data))
	}
	h.DecodeFrom(data)
	return h.Validate()
}

// DecodeFrom reads the header from buf without validating it.
func (h *Header) DecodeFrom(buf []byte) {
	copy(h.Magic[:], buf[0:4])
	copy(h.Kind[:], buf[4:8])
	h.Length = binary.BigEndian.Uint64(buf[8:16])
	h.CompressedLength = binary.BigEndian.Uint64(buf[16:24])
}

// IsBundle reports whether data starts with the bundle magic.
func IsBundle(data []byte) bool {
	return len(data) >= 4 && bytes.Equal(data[:4], Magic[:])
}
