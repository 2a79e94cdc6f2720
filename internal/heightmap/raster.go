// Package heightmap converts noise fields into 8-bit grayscale rasters and
// persists them as lossless single-channel images.
package heightmap

import (
	"image"
	"image/color"
	"math"

	"github.com/Faultbox/meshgen/internal/noise"
)

// MidValue is the intensity used for every pixel of a constant field.
const MidValue = 128

// Raster is a width x height grid of 8-bit intensities stored row-major.
type Raster struct {
	Width  int
	Height int
	Pix    []uint8
}

// NewRaster allocates a zeroed raster.
func NewRaster(width, height int) *Raster {
	return &Raster{Width: width, Height: height, Pix: make([]uint8, width*height)}
}

// At returns the intensity at column x, row y.
func (r *Raster) At(x, y int) uint8 {
	return r.Pix[y*r.Width+x]
}

// Sample returns the bilinearly interpolated intensity at fractional pixel
// coordinates (u, v), clamped to the raster.
func (r *Raster) Sample(u, v float64) float64 {
	u = clamp(u, 0, float64(r.Width-1))
	v = clamp(v, 0, float64(r.Height-1))

	x0 := int(math.Floor(u))
	y0 := int(math.Floor(v))
	x1 := min(x0+1, r.Width-1)
	y1 := min(y0+1, r.Height-1)
	fx := u - float64(x0)
	fy := v - float64(y0)

	top := float64(r.At(x0, y0))*(1-fx) + float64(r.At(x1, y0))*fx
	bottom := float64(r.At(x0, y1))*(1-fx) + float64(r.At(x1, y1))*fx
	return top*(1-fy) + bottom*fy
}

// Encode maps the field's own [min, max] linearly onto [0, 255].
// A constant field encodes as MidValue everywhere.
func Encode(f *noise.Field) *Raster {
	r := NewRaster(f.Width, f.Height)
	lo, hi := f.MinMax()

	if lo == hi {
		for i := range r.Pix {
			r.Pix[i] = MidValue
		}
		return r
	}

	span := hi - lo
	for i, v := range f.Data {
		r.Pix[i] = uint8(math.Round((v - lo) / span * 255))
	}
	return r
}

// Image returns the raster as an 8-bit grayscale image sharing no memory
// with r.
func (r *Raster) Image() *image.Gray {
	img := image.NewGray(image.Rect(0, 0, r.Width, r.Height))
	for y := range r.Height {
		copy(img.Pix[y*img.Stride:y*img.Stride+r.Width], r.Pix[y*r.Width:(y+1)*r.Width])
	}
	return img
}

// FromImage converts any image into a raster using the standard gray
// conversion; gray images are copied exactly.
func FromImage(img image.Image) *Raster {
	b := img.Bounds()
	r := NewRaster(b.Dx(), b.Dy())

	if g, ok := img.(*image.Gray); ok {
		for y := range r.Height {
			off := (y+b.Min.Y-g.Rect.Min.Y)*g.Stride + (b.Min.X - g.Rect.Min.X)
			copy(r.Pix[y*r.Width:(y+1)*r.Width], g.Pix[off:off+r.Width])
		}
		return r
	}

	for y := range r.Height {
		for x := range r.Width {
			c := color.GrayModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.Gray)
			r.Pix[y*r.Width+x] = c.Y
		}
	}
	return r
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
