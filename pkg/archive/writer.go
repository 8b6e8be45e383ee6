package archive

import (
	"fmt"
	"io"

	"github.com/DataDog/zstd"
)

// Writer compresses a payload into a bundle on an io.WriteSeeker. The compressed
// length is patched into the header on Close.
type Writer struct {
	dst     io.WriteSeeker
	start   int64
	zWriter *zstd.Writer
	header  *Header
	level   int
}

// WriterOption configures a Writer, Encode or Pack.
type WriterOption func(*Writer)

// WithCompressionLevel sets the zstd compression level.
func WithCompressionLevel(level int) WriterOption {
	return func(w *Writer) {
		w.level = level
	}
}

func applyOptions(w *Writer, opts []WriterOption) {
	w.level = DefaultCompressionLevel
	for _, opt := range opts {
		opt(w)
	}
}

// NewWriter writes a placeholder header for a payload of kind and size to dst.
func NewWriter(dst io.WriteSeeker, kind string, uncompressedSize uint64, opts ...WriterOption) (*Writer, error) {
	w := &Writer{dst: dst, header: NewHeader(kind, uncompressedSize, 0)}
	applyOptions(w, opts)

	start, err := dst.Seek(0, io.SeekCurrent)
	if err != nil {
		return nil, fmt.Errorf("get position: %w", err)
	}
	w.start = start

	headerBytes, _ := w.header.MarshalBinary()
	if _, err := dst.Write(headerBytes); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}

	w.zWriter = zstd.NewWriterLevel(dst, w.level)
	return w, nil
}

// Write compresses p.
func (w *Writer) Write(p []byte) (int, error) {
	return w.zWriter.Write(p)
}

// Close flushes the compressor and rewrites the header with the compressed size.
func (w *Writer) Close() error {
	if err := w.zWriter.Close(); err != nil {
		return fmt.Errorf("close compressor: %w", err)
	}

	end, err := w.dst.Seek(0, io.SeekCurrent)
	if err != nil {
		return fmt.Errorf("get position: %w", err)
	}
	w.header.CompressedLength = uint64(end - w.start - HeaderSize)

	if _, err := w.dst.Seek(w.start, io.SeekStart); err != nil {
		return fmt.Errorf("seek to header: %w", err)
	}
	headerBytes, _ := w.header.MarshalBinary()
	if _, err := w.dst.Write(headerBytes); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	if _, err := w.dst.Seek(end, io.SeekStart); err != nil {
		return fmt.Errorf("seek to end: %w", err)
	}
	return nil
}

// Encode streams data as a bundle of the given kind to dst.
func Encode(dst io.WriteSeeker, kind string, data []byte, opts ...WriterOption) error {
	w, err := NewWriter(dst, kind, uint64(len(data)), opts...)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write data: %w", err)
	}
	return w.Close()
}

// Pack compresses data into an in-memory bundle.
func Pack(kind string, data []byte, opts ...WriterOption) ([]byte, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("empty payload")
	}
	w := &Writer{}
	applyOptions(w, opts)

	compressed, err := zstd.CompressLevel(nil, data, w.level)
	if err != nil {
		return nil, fmt.Errorf("compress: %w", err)
	}

	out := make([]byte, HeaderSize, HeaderSize+len(compressed))
	NewHeader(kind, uint64(len(data)), uint64(len(compressed))).EncodeTo(out)
	return append(out, compressed...), nil
}
