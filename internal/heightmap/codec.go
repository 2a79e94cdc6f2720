package heightmap

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"

	"github.com/Faultbox/meshgen/internal/errdefs"
	"github.com/Faultbox/meshgen/pkg/formats"
)

// Format is a lossless image container for rasters.
type Format string

// Supported raster formats.
const (
	PNG  Format = "png"
	TIFF Format = "tiff"
	BMP  Format = "bmp"
)

// FormatFromPath selects the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return PNG, nil
	case ".tif", ".tiff":
		return TIFF, nil
	case ".bmp":
		return BMP, nil
	default:
		return "", fmt.Errorf("raster file %q: unsupported extension: %w", path, errdefs.ErrInvalidParameter)
	}
}

// EncodeImage writes r to w in the given format.
func EncodeImage(w io.Writer, r *Raster, format Format) error {
	img := r.Image()
	switch format {
	case PNG:
		return png.Encode(w, img)
	case TIFF:
		return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	case BMP:
		return bmp.Encode(w, img)
	default:
		return fmt.Errorf("raster format %q: %w", format, errdefs.ErrInvalidParameter)
	}
}

// Write persists r at path; the format follows the extension. The file is
// replaced atomically.
func Write(path string, r *Raster) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	if r.Width <= 0 || r.Height <= 0 {
		return fmt.Errorf("raster %dx%d: %w", r.Width, r.Height, errdefs.ErrInvalidParameter)
	}

	err = formats.WriteFileAtomic(path, func(w io.Writer) error {
		return EncodeImage(w, r, format)
	})
	return errdefs.IO("writing raster "+path, err)
}

// Decode reads a raster written by Write (or any PNG, TIFF or BMP image).
func Decode(path string) (*Raster, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errdefs.IO("opening raster", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, errdefs.IO("decoding raster "+path, err)
	}
	return FromImage(img), nil
}
