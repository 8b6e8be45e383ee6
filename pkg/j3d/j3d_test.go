package j3d

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/goopsie/bmdFileTools/pkg/binio"
	"github.com/goopsie/bmdFileTools/pkg/mat3"
	"github.com/goopsie/bmdFileTools/pkg/material"
	"github.com/goopsie/bmdFileTools/pkg/nametable"
)

// rawChunk builds a chunk with a correct size field around body.
func rawChunk(tag string, body []byte) Chunk {
	data := make([]byte, ChunkHeaderSize+len(body))
	copy(data, tag)
	binary.BigEndian.PutUint32(data[4:], uint32(len(data)))
	copy(data[ChunkHeaderSize:], body)
	return Chunk{Tag: tag, Data: data}
}

// texChunk builds a TEX1 chunk holding only a name table.
func texChunk(t *testing.T, names ...string) Chunk {
	t.Helper()
	buf := binio.NewBuffer(binary.BigEndian)
	buf.Write([]byte(TagTextures))
	buf.WriteU32(0)
	buf.WriteU16(uint16(len(names)))
	buf.WriteU16(0xFFFF)
	buf.WriteU32(0x20)
	buf.WriteU32(0x20)
	buf.Pad(0x20)
	if err := nametable.Write(buf, names); err != nil {
		t.Fatalf("write names: %v", err)
	}
	buf.Pad(0x20)
	data := buf.Bytes()
	binary.BigEndian.PutUint32(data[4:], uint32(len(data)))
	return Chunk{Tag: TagTextures, Data: data}
}

func sampleFile(t *testing.T) *File {
	t.Helper()
	f := NewFile("bmd3")
	f.Chunks = append(f.Chunks, rawChunk("INF1", []byte{1, 2, 3, 4}))
	if err := f.SetMaterials(mat3.NewTable([]*material.Material{material.New("body"), material.New("glass")})); err != nil {
		t.Fatalf("set materials: %v", err)
	}
	f.Chunks = append(f.Chunks, texChunk(t, "skin", "sand"))
	return f
}

func TestFile(t *testing.T) {
	t.Run("MarshalUnmarshal", func(t *testing.T) {
		f := sampleFile(t)
		data, err := f.MarshalBinary()
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		if got := binary.BigEndian.Uint32(data[8:]); int(got) != len(data) {
			t.Errorf("FileSize: got %d, want %d", got, len(data))
		}

		decoded := &File{}
		if err := decoded.UnmarshalBinary(data); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if decoded.Type() != "bmd3" {
			t.Errorf("Type: got %q", decoded.Type())
		}
		want := []string{"INF1", TagMaterials, TagTextures}
		if !reflect.DeepEqual(decoded.Tags(), want) {
			t.Errorf("Tags: got %v, want %v", decoded.Tags(), want)
		}
		if !bytes.Equal(decoded.Header.Subversion[:4], []byte(Subversion)) || decoded.Header.Subversion[15] != 0xFF {
			t.Errorf("Subversion: got % x", decoded.Header.Subversion)
		}

		again, err := decoded.MarshalBinary()
		if err != nil {
			t.Fatalf("marshal again: %v", err)
		}
		if !bytes.Equal(data, again) {
			t.Error("re-marshal changed bytes")
		}
	})

	t.Run("Materials", func(t *testing.T) {
		tbl, err := sampleFile(t).Materials()
		if err != nil {
			t.Fatalf("materials: %v", err)
		}
		if !reflect.DeepEqual(tbl.Names(), []string{"body", "glass"}) {
			t.Errorf("names: got %v", tbl.Names())
		}
		if tbl.Legacy {
			t.Error("MAT3 chunk decoded as legacy")
		}
	})

	t.Run("LegacyReplace", func(t *testing.T) {
		f := sampleFile(t)
		tbl, err := f.Materials()
		if err != nil {
			t.Fatalf("materials: %v", err)
		}
		tbl.Legacy = true
		if err := f.SetMaterials(tbl); err != nil {
			t.Fatalf("set materials: %v", err)
		}
		if f.Chunk(TagMaterials) != nil || f.Chunk(TagLegacyMaterials) == nil {
			t.Fatalf("chunk not replaced in place: %v", f.Tags())
		}
		if f.Tags()[1] != TagLegacyMaterials {
			t.Errorf("chunk moved: %v", f.Tags())
		}

		back, err := f.Materials()
		if err != nil {
			t.Fatalf("legacy materials: %v", err)
		}
		if !back.Legacy || len(back.Materials) != 2 {
			t.Errorf("legacy decode: legacy=%v count=%d", back.Legacy, len(back.Materials))
		}
	})

	t.Run("TextureNames", func(t *testing.T) {
		names, err := sampleFile(t).TextureNames()
		if err != nil {
			t.Fatalf("texture names: %v", err)
		}
		if !reflect.DeepEqual(names, []string{"skin", "sand"}) {
			t.Errorf("got %v", names)
		}
	})

	t.Run("MissingChunks", func(t *testing.T) {
		f := NewFile("bdl4")
		if _, err := f.Materials(); err == nil {
			t.Error("expected error without a material chunk")
		}
		if _, err := f.TextureNames(); err == nil {
			t.Error("expected error without a texture chunk")
		}
	})
}

func TestUnmarshalErrors(t *testing.T) {
	good, err := sampleFile(t).MarshalBinary()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	badMagic := append([]byte(nil), good...)
	copy(badMagic, "J3D1")

	badSize := append([]byte(nil), good...)
	binary.BigEndian.PutUint32(badSize[HeaderSize+4:], 0xFFFFFF)

	tests := []struct {
		name string
		data []byte
	}{
		{"short", good[:10]},
		{"magic", badMagic},
		{"chunk size", badSize},
		{"truncated", good[:HeaderSize+4]},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if err := (&File{}).UnmarshalBinary(tc.data); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestReadWriteFile(t *testing.T) {
	dir := t.TempDir()
	f := sampleFile(t)

	for _, name := range []string{"model.bmd", "model.j3dz"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			if err := WriteFile(path, f); err != nil {
				t.Fatalf("write: %v", err)
			}
			raw, err := os.ReadFile(path)
			if err != nil {
				t.Fatalf("read raw: %v", err)
			}
			if bundled := filepath.Ext(name) == BundleExt; bytes.HasPrefix(raw, []byte(Magic)) == bundled {
				t.Errorf("bundled=%v but raw starts with % x", bundled, raw[:4])
			}

			got, err := ReadFile(path)
			if err != nil {
				t.Fatalf("read: %v", err)
			}
			if !reflect.DeepEqual(got.Tags(), f.Tags()) {
				t.Errorf("tags: got %v, want %v", got.Tags(), f.Tags())
			}
		})
	}
}

func TestScan(t *testing.T) {
	dir := t.TempDir()
	data, err := sampleFile(t).MarshalBinary()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	sub := filepath.Join(dir, "stage")
	if err := os.MkdirAll(sub, 0o755); err != nil {
		t.Fatal(err)
	}
	for _, p := range []string{
		filepath.Join(dir, "b.bdl"),
		filepath.Join(sub, "a.BMD"),
		filepath.Join(dir, "notes.txt"),
	} {
		if err := os.WriteFile(p, data, 0o644); err != nil {
			t.Fatal(err)
		}
	}

	files, err := Scan(dir)
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	want := []string{filepath.Join(dir, "b.bdl"), filepath.Join(sub, "a.BMD")}
	if !reflect.DeepEqual(files, want) {
		t.Errorf("got %v, want %v", files, want)
	}

	if err := os.WriteFile(filepath.Join(dir, "tiny.bmd"), []byte("J3D2"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Scan(dir); err == nil {
		t.Error("expected error for truncated model")
	}
}

func TestSurvey(t *testing.T) {
	dir := t.TempDir()
	data, err := sampleFile(t).MarshalBinary()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	bare, err := NewFile("bdl4").MarshalBinary()
	if err != nil {
		t.Fatalf("marshal bare: %v", err)
	}

	var paths []string
	for i := 0; i < 20; i++ {
		p := filepath.Join(dir, fmt.Sprintf("m%02d.bmd", i))
		content := data
		if i == 7 {
			content = bare
		}
		if i == 13 {
			content = []byte("J3D2 but not really a model at all")
		}
		if err := os.WriteFile(p, content, 0o644); err != nil {
			t.Fatal(err)
		}
		paths = append(paths, p)
	}

	i := 0
	for s := range Survey(paths) {
		if s.Path != paths[i] {
			t.Fatalf("summary %d out of order: %s", i, s.Path)
		}
		switch i {
		case 7:
			if s.Err != nil || s.Materials != -1 || s.Type != "bdl4" {
				t.Errorf("bare model: %+v", s)
			}
		case 13:
			if s.Err == nil {
				t.Error("expected error for broken model")
			}
		default:
			if s.Err != nil || s.Materials != 2 || s.Records != 1 || s.Chunks != 3 {
				t.Errorf("model %d: %+v", i, s)
			}
		}
		i++
	}
	if i != len(paths) {
		t.Errorf("got %d summaries, want %d", i, len(paths))
	}
}
