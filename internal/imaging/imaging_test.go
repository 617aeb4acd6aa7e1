package imaging

import (
	"path/filepath"
	"testing"

	"github.com/localmind/cleanslate/internal/testutil"
)

// =============================================================================
// Extension Tests
// =============================================================================

func TestIsImageExt(t *testing.T) {
	for _, ext := range []string{".png", ".jpg", ".jpeg", ".bmp", ".gif"} {
		if !IsImageExt(ext) {
			t.Errorf("expected %s to be an image extension", ext)
		}
	}
	for _, ext := range []string{".txt", ".pdf", ".JPG", "jpg", ""} {
		if IsImageExt(ext) {
			t.Errorf("expected %q to not match (only normalized extensions)", ext)
		}
	}
}

// =============================================================================
// Distance Tests
// =============================================================================

func TestDistance(t *testing.T) {
	tests := []struct {
		a, b uint64
		want int
	}{
		{0, 0, 0},
		{0xFFFFFFFFFFFFFFFF, 0, 64},
		{0b1011, 0b1001, 1},
		{0b1111, 0b0000, 4},
	}

	for _, tt := range tests {
		if got := Distance(tt.a, tt.b); got != tt.want {
			t.Errorf("Distance(%x, %x) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
	if Distance(42, 99) != Distance(99, 42) {
		t.Error("distance must be symmetric")
	}
}

// =============================================================================
// Fingerprint Tests
// =============================================================================

func TestFingerprintIdenticalImages(t *testing.T) {
	f := testutil.NewFixture(t)
	img := testutil.Checkerboard(64, 64, 16)
	a := f.CreatePNG("photos/a.png", img)
	b := f.CreatePNG("photos/b.png", img)

	ha, err := Fingerprint(a)
	if err != nil {
		t.Fatalf("fingerprint a: %v", err)
	}
	hb, err := Fingerprint(b)
	if err != nil {
		t.Fatalf("fingerprint b: %v", err)
	}
	if Distance(ha, hb) != 0 {
		t.Errorf("identical images have distance %d, want 0", Distance(ha, hb))
	}
}

func TestFingerprintSurvivesReencoding(t *testing.T) {
	f := testutil.NewFixture(t)
	img := testutil.Checkerboard(64, 64, 16)
	asPNG := f.CreatePNG("photos/shot.png", img)
	asJPEG := f.CreateJPEG("photos/shot.jpg", img)

	hp, err := Fingerprint(asPNG)
	if err != nil {
		t.Fatalf("fingerprint png: %v", err)
	}
	hj, err := Fingerprint(asJPEG)
	if err != nil {
		t.Fatalf("fingerprint jpeg: %v", err)
	}
	if d := Distance(hp, hj); d > 5 {
		t.Errorf("re-encoded image drifted %d bits, want <= 5", d)
	}
}

func TestFingerprintDistinguishesContent(t *testing.T) {
	f := testutil.NewFixture(t)
	a := f.CreatePNG("photos/checker.png", testutil.Checkerboard(64, 64, 16))
	b := f.CreatePNG("photos/flat.png", testutil.FlatImage(64, 64))

	ha, err := Fingerprint(a)
	if err != nil {
		t.Fatal(err)
	}
	hb, err := Fingerprint(b)
	if err != nil {
		t.Fatal(err)
	}
	if d := Distance(ha, hb); d <= 5 {
		t.Errorf("unrelated images only %d bits apart", d)
	}
}

func TestFingerprintErrors(t *testing.T) {
	f := testutil.NewFixture(t)
	corrupt := f.CreateFile("photos/broken.png", []byte("not an image"))

	if _, err := Fingerprint(corrupt); err == nil {
		t.Error("expected error for corrupt image")
	}
	if _, err := Fingerprint(filepath.Join(f.RootDir, "missing.png")); err == nil {
		t.Error("expected error for missing file")
	}
}

// =============================================================================
// Analyze Tests
// =============================================================================

func TestAnalyzeMatchesSeparateCalls(t *testing.T) {
	f := testutil.NewFixture(t)
	path := f.CreatePNG("photos/shot.png", testutil.Checkerboard(64, 64, 8))

	sig, err := Analyze(path)
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}

	hash, err := Fingerprint(path)
	if err != nil {
		t.Fatal(err)
	}
	sharp, err := Sharpness(path)
	if err != nil {
		t.Fatal(err)
	}

	if sig.Fingerprint != hash {
		t.Errorf("analyze fingerprint %x, standalone %x", sig.Fingerprint, hash)
	}
	if sig.Sharpness != sharp {
		t.Errorf("analyze sharpness %g, standalone %g", sig.Sharpness, sharp)
	}
}

func TestAnalyzeCorruptImage(t *testing.T) {
	f := testutil.NewFixture(t)
	corrupt := f.CreateFile("photos/broken.png", []byte("not an image"))

	if _, err := Analyze(corrupt); err == nil {
		t.Error("expected error for corrupt image")
	}
}

// =============================================================================
// Sharpness Tests
// =============================================================================

func TestSharpnessFlatImageIsZero(t *testing.T) {
	f := testutil.NewFixture(t)
	path := f.CreatePNG("photos/flat.png", testutil.FlatImage(32, 32))

	got, err := Sharpness(path)
	if err != nil {
		t.Fatalf("sharpness: %v", err)
	}
	if got != 0 {
		t.Errorf("flat image sharpness %g, want 0", got)
	}
}

func TestSharpnessOrdering(t *testing.T) {
	f := testutil.NewFixture(t)
	flat := f.CreatePNG("photos/flat.png", testutil.FlatImage(64, 64))
	gradient := f.CreatePNG("photos/gradient.png", testutil.GradientImage(64, 64))
	checker := f.CreatePNG("photos/checker.png", testutil.Checkerboard(64, 64, 1))

	sFlat, err := Sharpness(flat)
	if err != nil {
		t.Fatal(err)
	}
	sGradient, err := Sharpness(gradient)
	if err != nil {
		t.Fatal(err)
	}
	sChecker, err := Sharpness(checker)
	if err != nil {
		t.Fatal(err)
	}

	if !(sFlat < sChecker) || !(sGradient < sChecker) {
		t.Errorf("ordering violated: flat=%g gradient=%g checker=%g", sFlat, sGradient, sChecker)
	}
	// A 1px checkerboard is the sharpest possible signal and sits far above
	// the conventional blur threshold.
	if sChecker < 100 {
		t.Errorf("checkerboard sharpness %g, want >= 100", sChecker)
	}
}

func TestSharpnessTinyImage(t *testing.T) {
	f := testutil.NewFixture(t)
	path := f.CreatePNG("photos/tiny.png", testutil.Checkerboard(2, 2, 1))

	got, err := Sharpness(path)
	if err != nil {
		t.Fatalf("sharpness: %v", err)
	}
	if got != 0 {
		t.Errorf("image without interior pixels scored %g, want 0", got)
	}
}
