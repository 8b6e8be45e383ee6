package archive

import (
	"fmt"
	"io"

	"github.com/DataDog/zstd"
)

// DefaultCompressionLevel is used when no level is given.
const DefaultCompressionLevel = zstd.DefaultCompression

// Reader decompresses the payload of a bundle.
type Reader struct {
	header    *Header
	zReader   io.ReadCloser
	headerBuf [HeaderSize]byte
}

// NewReader reads and validates the bundle header from r and returns a reader for
// the decompressed payload.
func NewReader(r io.Reader) (*Reader, error) {
	reader := &Reader{header: &Header{}}

	if _, err := io.ReadFull(r, reader.headerBuf[:]); err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	if err := reader.header.UnmarshalBinary(reader.headerBuf[:]); err != nil {
		return nil, fmt.Errorf("parse header: %w", err)
	}

	reader.zReader = zstd.NewReader(io.LimitReader(r, int64(reader.header.CompressedLength)))
	return reader, nil
}

// Header returns the bundle header.
func (r *Reader) Header() *Header {
	return r.header
}

// Read reads decompressed data into p.
func (r *Reader) Read(p []byte) (int, error) {
	return r.zReader.Read(p)
}

// Close releases the decompressor.
func (r *Reader) Close() error {
	return r.zReader.Close()
}

// ReadAll reads a whole bundle from r and returns its kind and payload.
func ReadAll(r io.Reader) (string, []byte, error) {
	reader, err := NewReader(r)
	if err != nil {
		return "", nil, err
	}
	defer reader.Close()

	data := make([]byte, reader.header.Length)
	if _, err := io.ReadFull(reader, data); err != nil {
		return "", nil, fmt.Errorf("read content: %w", err)
	}
	return reader.header.KindString(), data, nil
}

// Unpack decodes an in-memory bundle.
func Unpack(bundle []byte) (string, []byte, error) {
	h := &Header{}
	if err := h.UnmarshalBinary(bundle); err != nil {
		return "", nil, fmt.Errorf("parse header: %w", err)
	}
	end := uint64(HeaderSize) + h.CompressedLength
	if end > uint64(len(bundle)) {
		return "", nil, fmt.Errorf("bundle truncated: need %d bytes, have %d", end, len(bundle))
	}

	data, err := zstd.Decompress(make([]byte, h.Length), bundle[HeaderSize:end])
	if err != nil {
		return "", nil, fmt.Errorf("decompress: %w", err)
	}
	if uint64(len(data)) != h.Length {
		return "", nil, fmt.Errorf("incomplete payload: expected %d bytes, got %d", h.Length, len(data))
	}
	return h.KindString(), data, nil
}
