// Package imaging computes the per-image signals the scanner consumes: a
// 64-bit perceptual fingerprint for near-duplicate grouping and a Laplacian
// variance sharpness score for blur detection. Both operate on any raster
// format the registered decoders understand (JPEG, PNG, GIF, BMP).
package imaging

import (
	"fmt"
	"image"
	"math/bits"
	"os"

	// Register decoders for the recognized raster formats.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"

	"github.com/corona10/goimagehash"
)

// imageExts are the extensions treated as raster images. Other files never
// enter perceptual or blur analysis.
var imageExts = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".bmp":  true,
	".gif":  true,
}

// IsImageExt reports whether a normalized (lowercase, dotted) extension is a
// recognized raster-image type.
func IsImageExt(ext string) bool {
	return imageExts[ext]
}

// Signals bundles everything derived from one decoded image.
type Signals struct {
	Fingerprint uint64
	Sharpness   float64
}

// Analyze decodes the image at path once and computes both signals. Prefer
// this over separate Fingerprint and Sharpness calls when both are needed.
func Analyze(path string) (Signals, error) {
	img, err := decode(path)
	if err != nil {
		return Signals{}, err
	}

	hash, err := fingerprintOf(img)
	if err != nil {
		return Signals{}, fmt.Errorf("average hash %s: %w", path, err)
	}
	return Signals{Fingerprint: hash, Sharpness: sharpnessOf(img)}, nil
}

// Fingerprint computes the 64-bit average-hash perceptual fingerprint of the
// image at path. The fingerprint is stable across minor re-encoding,
// resizing, and compression differences.
func Fingerprint(path string) (uint64, error) {
	img, err := decode(path)
	if err != nil {
		return 0, err
	}

	hash, err := fingerprintOf(img)
	if err != nil {
		return 0, fmt.Errorf("average hash %s: %w", path, err)
	}
	return hash, nil
}

func fingerprintOf(img image.Image) (uint64, error) {
	hash, err := goimagehash.AverageHash(img)
	if err != nil {
		return 0, err
	}
	return hash.GetHash(), nil
}

// Distance returns the Hamming distance between two perceptual fingerprints.
func Distance(a, b uint64) int {
	return bits.OnesCount64(a ^ b)
}

func decode(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return img, nil
}
