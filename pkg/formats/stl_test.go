package formats

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"math"
	"os"
	"path/filepath"
	"testing"
)

// createTestSTL creates a binary STL buffer by hand, independent of WriteTo.
func createTestSTL(triangles [][12]float32) []byte {
	buf := new(bytes.Buffer)

	header := make([]byte, STLHeaderSize)
	copy(header, "test header")
	buf.Write(header)

	binary.Write(buf, binary.LittleEndian, uint32(len(triangles)))
	for _, tri := range triangles {
		for _, f := range tri {
			binary.Write(buf, binary.LittleEndian, f)
		}
		binary.Write(buf, binary.LittleEndian, uint16(0))
	}

	return buf.Bytes()
}

func TestParseSTL_ValidFile(t *testing.T) {
	data := createTestSTL([][12]float32{
		{0, 0, 1, 0, 0, 0, 1, 0, 0, 0, 1, 0},
		{0, 0, 1, 1, 0, 0, 1, 1, 0, 0, 1, 0},
	})

	s, err := ParseSTL(data)
	if err != nil {
		t.Fatalf("ParseSTL failed: %v", err)
	}

	if len(s.Triangles) != 2 {
		t.Fatalf("expected 2 triangles, got %d", len(s.Triangles))
	}
	if s.Triangles[0].Normal != [3]float32{0, 0, 1} {
		t.Errorf("unexpected normal %v", s.Triangles[0].Normal)
	}
	if s.Triangles[1].Vertices[1] != [3]float32{1, 1, 0} {
		t.Errorf("unexpected vertex %v", s.Triangles[1].Vertices[1])
	}
	if string(s.Header[:11]) != "test header" {
		t.Errorf("unexpected header %q", s.Header[:11])
	}
}

func TestSTLWriteTo_BitExact(t *testing.T) {
	tris := [][12]float32{
		{0, 0, 1, 0, 0, 0, 1, 0, 0, 0, 1, 0},
		{0.5, -0.25, 0.75, 1.5, 2.5, 3.5, -4, 5, 6e-3, 7, 8, 9},
	}
	want := createTestSTL(tris)

	s, err := ParseSTL(want)
	if err != nil {
		t.Fatalf("ParseSTL failed: %v", err)
	}

	var out bytes.Buffer
	n, err := s.WriteTo(&out)
	if err != nil {
		t.Fatalf("WriteTo failed: %v", err)
	}
	if n != int64(len(want)) {
		t.Errorf("WriteTo reported %d bytes, want %d", n, len(want))
	}
	if !bytes.Equal(out.Bytes(), want) {
		t.Error("written STL differs from hand-built encoding")
	}
}

func TestSTLSize(t *testing.T) {
	s := NewSTL("x", make([]Triangle, 3))
	var out bytes.Buffer
	if _, err := s.WriteTo(&out); err != nil {
		t.Fatalf("WriteTo failed: %v", err)
	}
	if out.Len() != 84+3*50 {
		t.Errorf("expected %d bytes, got %d", 84+3*50, out.Len())
	}
}

func TestParseSTL_TruncatedData(t *testing.T) {
	if _, err := ParseSTL([]byte("short")); !errors.Is(err, ErrTruncatedSTLData) {
		t.Errorf("expected ErrTruncatedSTLData, got %v", err)
	}

	data := createTestSTL([][12]float32{{}, {}})
	if _, err := ParseSTL(data[:len(data)-10]); !errors.Is(err, ErrTruncatedSTLData) {
		t.Errorf("expected ErrTruncatedSTLData for short body, got %v", err)
	}
}

func TestParseSTL_CountTooLarge(t *testing.T) {
	data := createTestSTL(nil)
	binary.LittleEndian.PutUint32(data[STLHeaderSize:], math.MaxUint32)
	if _, err := ParseSTL(data); !errors.Is(err, ErrSTLTooLarge) {
		t.Errorf("expected ErrSTLTooLarge, got %v", err)
	}
}

func TestFaceNormal(t *testing.T) {
	tests := []struct {
		name       string
		v0, v1, v2 [3]float32
		want       [3]float32
	}{
		{"ccw from +z", [3]float32{0, 0, 0}, [3]float32{1, 0, 0}, [3]float32{0, 1, 0}, [3]float32{0, 0, 1}},
		{"cw from +z", [3]float32{0, 0, 0}, [3]float32{0, 1, 0}, [3]float32{1, 0, 0}, [3]float32{0, 0, -1}},
		{"scaled", [3]float32{0, 0, 0}, [3]float32{0, 5, 0}, [3]float32{0, 0, 5}, [3]float32{1, 0, 0}},
		{"degenerate", [3]float32{1, 1, 1}, [3]float32{1, 1, 1}, [3]float32{2, 2, 2}, [3]float32{}},
	}

	for _, tc := range tests {
		if got := FaceNormal(tc.v0, tc.v1, tc.v2); got != tc.want {
			t.Errorf("%s: FaceNormal = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestWriteSTLFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mesh.stl")

	s := NewSTL("meshgen", []Triangle{
		NewTriangle([3]float32{0, 0, 0}, [3]float32{1, 0, 0}, [3]float32{0, 1, 0}),
	})
	if err := WriteSTLFile(path, s); err != nil {
		t.Fatalf("WriteSTLFile failed: %v", err)
	}

	got, err := ParseSTLFile(path)
	if err != nil {
		t.Fatalf("ParseSTLFile failed: %v", err)
	}
	if len(got.Triangles) != 1 || got.Triangles[0] != s.Triangles[0] {
		t.Errorf("round trip mismatch: %+v", got.Triangles)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("expected only the final file in dir, got %d entries", len(entries))
	}
}

func TestWriteFileAtomic_FailureLeavesNothing(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mesh.stl")
	if err := os.WriteFile(path, []byte("previous"), 0644); err != nil {
		t.Fatal(err)
	}

	boom := errors.New("boom")
	err := WriteFileAtomic(path, func(w io.Writer) error {
		w.Write([]byte("partial"))
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "previous" {
		t.Errorf("existing file was modified: %q", data)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("temporary file left behind: %d entries", len(entries))
	}
}

func TestWriteSTLFile_MissingDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "mesh.stl")
	if err := WriteSTLFile(path, NewSTL("", nil)); err == nil {
		t.Error("expected error writing into a missing directory")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("no file should exist after a failed write")
	}
}
