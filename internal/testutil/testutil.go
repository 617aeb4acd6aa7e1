// Package testutil provides test helpers and fixtures for cleanslate tests.
// All file operations use t.TempDir() for safe, isolated testing.
package testutil

import (
	"bytes"
	"crypto/rand"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// TestFixture holds paths to test directories and files
type TestFixture struct {
	T       *testing.T
	RootDir string // Root temp directory (auto-cleaned)

	// Standard test directories
	PhotosDir    string
	DocsDir      string
	DownloadsDir string
}

// NewFixture creates a new test fixture with standard directory structure
func NewFixture(t *testing.T) *TestFixture {
	t.Helper()

	root := t.TempDir()

	f := &TestFixture{
		T:            t,
		RootDir:      root,
		PhotosDir:    filepath.Join(root, "photos"),
		DocsDir:      filepath.Join(root, "docs"),
		DownloadsDir: filepath.Join(root, "downloads"),
	}

	for _, dir := range []string{f.PhotosDir, f.DocsDir, f.DownloadsDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			t.Fatalf("failed to create directory %s: %v", dir, err)
		}
	}

	return f
}

// =============================================================================
// File Creation Helpers
// =============================================================================

// CreateFile creates a file with specified content and returns its path
func (f *TestFixture) CreateFile(relPath string, content []byte) string {
	f.T.Helper()

	fullPath := filepath.Join(f.RootDir, relPath)
	dir := filepath.Dir(fullPath)

	if err := os.MkdirAll(dir, 0755); err != nil {
		f.T.Fatalf("failed to create directory %s: %v", dir, err)
	}

	if err := os.WriteFile(fullPath, content, 0644); err != nil {
		f.T.Fatalf("failed to create file %s: %v", fullPath, err)
	}

	return fullPath
}

// CreateFileWithAge creates a file and sets its modification time to the past
func (f *TestFixture) CreateFileWithAge(relPath string, content []byte, age time.Duration) string {
	f.T.Helper()

	fullPath := f.CreateFile(relPath, content)
	oldTime := time.Now().Add(-age)

	if err := os.Chtimes(fullPath, oldTime, oldTime); err != nil {
		f.T.Fatalf("failed to set file time for %s: %v", fullPath, err)
	}

	return fullPath
}

// CreateFileWithMode creates a file with specific permissions
func (f *TestFixture) CreateFileWithMode(relPath string, content []byte, mode os.FileMode) string {
	f.T.Helper()

	fullPath := f.CreateFile(relPath, content)
	if err := os.Chmod(fullPath, mode); err != nil {
		f.T.Fatalf("failed to chmod file %s: %v", fullPath, err)
	}

	return fullPath
}

// CreateRandomFile creates a file with random content
func (f *TestFixture) CreateRandomFile(relPath string, size int) string {
	f.T.Helper()
	content := make([]byte, size)
	rand.Read(content)
	return f.CreateFile(relPath, content)
}

// CreateDir creates a directory and returns its path
func (f *TestFixture) CreateDir(relPath string) string {
	f.T.Helper()

	fullPath := filepath.Join(f.RootDir, relPath)
	if err := os.MkdirAll(fullPath, 0755); err != nil {
		f.T.Fatalf("failed to create directory %s: %v", fullPath, err)
	}

	return fullPath
}

// CreateSymlink creates a symbolic link
func (f *TestFixture) CreateSymlink(target, linkPath string) string {
	f.T.Helper()

	fullLinkPath := filepath.Join(f.RootDir, linkPath)
	if err := os.MkdirAll(filepath.Dir(fullLinkPath), 0755); err != nil {
		f.T.Fatalf("failed to create directory for %s: %v", fullLinkPath, err)
	}
	if err := os.Symlink(target, fullLinkPath); err != nil {
		f.T.Fatalf("failed to create symlink %s -> %s: %v", fullLinkPath, target, err)
	}

	return fullLinkPath
}

// Path returns the full path for a relative path within the fixture
func (f *TestFixture) Path(relPath string) string {
	return filepath.Join(f.RootDir, relPath)
}

// =============================================================================
// Image Generators
// =============================================================================

// FlatImage produces a uniform gray image. It has zero Laplacian variance
// and a degenerate perceptual fingerprint, making it the canonical "blurry"
// test subject.
func FlatImage(w, h int) image.Image {
	img := image.NewGray(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = 128
	}
	return img
}

// GradientImage produces a smooth horizontal ramp. Low but nonzero
// sharpness, stable perceptual fingerprint.
func GradientImage(w, h int) image.Image {
	img := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetGray(x, y, color.Gray{Y: uint8(x * 255 / w)})
		}
	}
	return img
}

// Checkerboard produces a high-contrast alternating pattern. Maximal
// Laplacian variance for its size.
func Checkerboard(w, h, cell int) image.Image {
	img := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if ((x/cell)+(y/cell))%2 == 0 {
				img.SetGray(x, y, color.Gray{Y: 255})
			}
		}
	}
	return img
}

// EncodePNG encodes an image as PNG bytes
func EncodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("failed to encode png: %v", err)
	}
	return buf.Bytes()
}

// EncodeJPEG encodes an image as JPEG bytes
func EncodeJPEG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90}); err != nil {
		t.Fatalf("failed to encode jpeg: %v", err)
	}
	return buf.Bytes()
}

// CreatePNG writes an image to the fixture as a PNG file
func (f *TestFixture) CreatePNG(relPath string, img image.Image) string {
	f.T.Helper()
	return f.CreateFile(relPath, EncodePNG(f.T, img))
}

// CreateJPEG writes an image to the fixture as a JPEG file
func (f *TestFixture) CreateJPEG(relPath string, img image.Image) string {
	f.T.Helper()
	return f.CreateFile(relPath, EncodeJPEG(f.T, img))
}

// =============================================================================
// Utility Functions
// =============================================================================

// IsRoot returns true if running as root/admin
func IsRoot() bool {
	return os.Geteuid() == 0
}

// SkipIfRoot skips the test if running as root
func SkipIfRoot(t *testing.T) {
	t.Helper()
	if IsRoot() {
		t.Skip("skipping test when running as root")
	}
}
