package formats

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"

	"go.uber.org/multierr"
)

// STL format errors.
var (
	ErrTruncatedSTLData = errors.New("truncated STL data")
	ErrSTLTooLarge      = errors.New("STL triangle count exceeds limit")
)

const (
	// STLHeaderSize is the size of the free-form binary STL header.
	STLHeaderSize = 80
	// stlTriangleSize is normal + 3 vertices (12 float32) + attribute (uint16).
	stlTriangleSize = 12*4 + 2
	// maxSTLTriangles guards allocation for corrupted counts.
	maxSTLTriangles = 1 << 28
)

// Triangle is a single binary STL facet. Every triangle carries its own
// vertex positions; nothing is shared between facets.
type Triangle struct {
	Normal    [3]float32
	Vertices  [3][3]float32
	Attribute uint16
}

// STL represents a binary STL triangle soup.
type STL struct {
	Header    [STLHeaderSize]byte
	Triangles []Triangle
}

// NewSTL creates an STL with the given header text (truncated to 80 bytes).
func NewSTL(header string, triangles []Triangle) *STL {
	s := &STL{Triangles: triangles}
	copy(s.Header[:], header)
	return s
}

// FaceNormal returns the unit normal of the counter-clockwise triangle
// (v0, v1, v2). Degenerate triangles get a zero normal.
func FaceNormal(v0, v1, v2 [3]float32) [3]float32 {
	ax, ay, az := float64(v1[0]-v0[0]), float64(v1[1]-v0[1]), float64(v1[2]-v0[2])
	bx, by, bz := float64(v2[0]-v0[0]), float64(v2[1]-v0[1]), float64(v2[2]-v0[2])

	nx := ay*bz - az*by
	ny := az*bx - ax*bz
	nz := ax*by - ay*bx
	l := math.Sqrt(nx*nx + ny*ny + nz*nz)
	if l == 0 {
		return [3]float32{}
	}
	return [3]float32{float32(nx / l), float32(ny / l), float32(nz / l)}
}

// NewTriangle builds a facet from three counter-clockwise vertices and
// computes its normal.
func NewTriangle(v0, v1, v2 [3]float32) Triangle {
	return Triangle{
		Normal:   FaceNormal(v0, v1, v2),
		Vertices: [3][3]float32{v0, v1, v2},
	}
}

// ParseSTL parses a binary STL file from raw bytes.
func ParseSTL(data []byte) (*STL, error) {
	if len(data) < STLHeaderSize+4 {
		return nil, ErrTruncatedSTLData
	}

	s := &STL{}
	copy(s.Header[:], data[:STLHeaderSize])

	count := binary.LittleEndian.Uint32(data[STLHeaderSize:])
	if count > maxSTLTriangles {
		return nil, fmt.Errorf("%w: %d", ErrSTLTooLarge, count)
	}

	body := data[STLHeaderSize+4:]
	if len(body) < int(count)*stlTriangleSize {
		return nil, fmt.Errorf("%w: want %d triangles, have %d bytes", ErrTruncatedSTLData, count, len(body))
	}

	r := bytes.NewReader(body)
	s.Triangles = make([]Triangle, count)
	for i := range s.Triangles {
		if err := binary.Read(r, binary.LittleEndian, &s.Triangles[i]); err != nil {
			return nil, fmt.Errorf("%w: reading triangle %d", ErrTruncatedSTLData, i)
		}
	}

	return s, nil
}

// ParseSTLFile parses a binary STL file from disk.
func ParseSTLFile(path string) (*STL, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading STL file: %w", err)
	}
	return ParseSTL(data)
}

// WriteTo writes the binary STL encoding to w.
func (s *STL) WriteTo(w io.Writer) (int64, error) {
	bw := bufio.NewWriter(w)
	var n int64

	if _, err := bw.Write(s.Header[:]); err != nil {
		return n, err
	}
	n += STLHeaderSize

	if err := binary.Write(bw, binary.LittleEndian, uint32(len(s.Triangles))); err != nil {
		return n, err
	}
	n += 4

	var buf [stlTriangleSize]byte
	for i := range s.Triangles {
		encodeTriangle(buf[:], &s.Triangles[i])
		if _, err := bw.Write(buf[:]); err != nil {
			return n, err
		}
		n += stlTriangleSize
	}

	return n, bw.Flush()
}

func encodeTriangle(buf []byte, t *Triangle) {
	off := 0
	put := func(f float32) {
		binary.LittleEndian.PutUint32(buf[off:], math.Float32bits(f))
		off += 4
	}
	for _, c := range t.Normal {
		put(c)
	}
	for _, v := range t.Vertices {
		for _, c := range v {
			put(c)
		}
	}
	binary.LittleEndian.PutUint16(buf[off:], t.Attribute)
}

// WriteSTLFile writes s to path atomically. The data goes to a temporary file
// in the same directory which is synced and renamed over path; on any failure
// the temporary file is removed and path is left untouched.
func WriteSTLFile(path string, s *STL) error {
	return WriteFileAtomic(path, func(w io.Writer) error {
		_, err := s.WriteTo(w)
		return err
	})
}

// WriteFileAtomic streams content produced by write into path via a
// temporary file and rename.
func WriteFileAtomic(path string, write func(w io.Writer) error) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			err = multierr.Append(err, ignoreMissing(os.Remove(tmp.Name())))
		}
	}()

	if err = write(tmp); err != nil {
		return multierr.Append(err, tmp.Close())
	}
	if err = tmp.Sync(); err != nil {
		return multierr.Append(err, tmp.Close())
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

func ignoreMissing(err error) error {
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}
