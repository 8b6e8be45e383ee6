package archive

import (
	"bytes"
	"io"
	"testing"
)

func TestHeader(t *testing.T) {
	t.Run("MarshalUnmarshal", func(t *testing.T) {
		original := NewHeader("MAT3", 1024, 512)

		data, err := original.MarshalBinary()
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		if string(data[:4]) != "J3DZ" || string(data[4:8]) != "MAT3" {
			t.Errorf("unexpected header bytes %q", data[:8])
		}

		decoded := &Header{}
		if err := decoded.UnmarshalBinary(data); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if *decoded != *original {
			t.Errorf("mismatch: got %+v, want %+v", decoded, original)
		}
		if decoded.KindString() != "MAT3" {
			t.Errorf("kind: got %q", decoded.KindString())
		}
	})

	t.Run("InvalidMagic", func(t *testing.T) {
		h := NewHeader("MAT3", 1024, 512)
		h.Magic = [4]byte{'Z', 'S', 'T', 'D'}
		if err := h.Validate(); err == nil {
			t.Error("expected error for invalid magic")
		}
	})

	t.Run("EmptyKind", func(t *testing.T) {
		if err := NewHeader("", 1024, 512).Validate(); err == nil {
			t.Error("expected error for empty kind")
		}
	})

	t.Run("ZeroLength", func(t *testing.T) {
		if err := NewHeader("J3D2", 0, 512).Validate(); err == nil {
			t.Error("expected error for zero length")
		}
	})

	t.Run("Short", func(t *testing.T) {
		if err := (&Header{}).UnmarshalBinary([]byte("J3DZ")); err == nil {
			t.Error("expected error for short header")
		}
	})
}

func TestReadWrite(t *testing.T) {
	original := bytes.Repeat([]byte("MAT3 This is padding data to align"), 64)

	t.Run("EncodeReadAll", func(t *testing.T) {
		var buf bytes.Buffer
		ws := &seekableBuffer{Buffer: &buf}

		if err := Encode(ws, "MAT3", original, WithCompressionLevel(3)); err != nil {
			t.Fatalf("encode: %v", err)
		}

		kind, decoded, err := ReadAll(bytes.NewReader(buf.Bytes()))
		if err != nil {
			t.Fatalf("decode: %v", err)
		}
		if kind != "MAT3" {
			t.Errorf("kind: got %q", kind)
		}
		if !bytes.Equal(decoded, original) {
			t.Error("data mismatch")
		}
	})

	t.Run("EncodeAfterPrefix", func(t *testing.T) {
		var buf bytes.Buffer
		ws := &seekableBuffer{Buffer: &buf}
		ws.Write([]byte("prefix"))

		if err := Encode(ws, "J3D2", original); err != nil {
			t.Fatalf("encode: %v", err)
		}
		_, decoded, err := Unpack(buf.Bytes()[len("prefix"):])
		if err != nil {
			t.Fatalf("unpack: %v", err)
		}
		if !bytes.Equal(decoded, original) {
			t.Error("data mismatch")
		}
	})

	t.Run("PackUnpack", func(t *testing.T) {
		bundle, err := Pack("J3D2", original)
		if err != nil {
			t.Fatalf("pack: %v", err)
		}
		if !IsBundle(bundle) {
			t.Error("expected bundle magic")
		}
		if IsBundle(original) {
			t.Error("raw data detected as bundle")
		}

		kind, decoded, err := Unpack(bundle)
		if err != nil {
			t.Fatalf("unpack: %v", err)
		}
		if kind != "J3D2" || !bytes.Equal(decoded, original) {
			t.Errorf("round trip failed: kind %q", kind)
		}

		// Streaming and in-memory decoding agree.
		_, streamed, err := ReadAll(io.MultiReader(bytes.NewReader(bundle), bytes.NewReader([]byte("trailing"))))
		if err != nil {
			t.Fatalf("read all: %v", err)
		}
		if !bytes.Equal(streamed, original) {
			t.Error("streamed data mismatch")
		}
	})

	t.Run("Truncated", func(t *testing.T) {
		bundle, err := Pack("MAT3", original)
		if err != nil {
			t.Fatalf("pack: %v", err)
		}
		if _, _, err := Unpack(bundle[:len(bundle)-1]); err == nil {
			t.Error("expected error for truncated bundle")
		}
	})

	t.Run("EmptyPayload", func(t *testing.T) {
		if _, err := Pack("MAT3", nil); err == nil {
			t.Error("expected error for empty payload")
		}
	})
}

type seekableBuffer struct {
	*bytes.Buffer
	pos int64
}

func (s *seekableBuffer) Seek(offset int64, whence int) (int64, error) {
	var newPos int64
	switch whence {
	case io.SeekStart:
		newPos = offset
	case io.SeekCurrent:
		newPos = s.pos + offset
	case io.SeekEnd:
		newPos = int64(s.Buffer.Len()) + offset
	}
	s.pos = newPos
	return newPos, nil
}

func (s *seekableBuffer) Write(p []byte) (n int, err error) {
	for int64(s.Buffer.Len()) < s.pos {
		s.Buffer.WriteByte(0)
	}
	if s.pos < int64(s.Buffer.Len()) {
		data := s.Buffer.Bytes()
		n = copy(data[s.pos:], p)
		if n < len(p) {
			m, err := s.Buffer.Write(p[n:])
			n += m
			if err != nil {
				return n, err
			}
		}
	} else {
		n, err = s.Buffer.Write(p)
	}
	s.pos += int64(n)
	return n, err
}
