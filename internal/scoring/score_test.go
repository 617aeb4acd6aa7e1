package scoring

import (
	"testing"
	"time"
)

// =============================================================================
// SizeScore Tests
// =============================================================================

func TestSizeScoreEdges(t *testing.T) {
	threshold := int64(50 * 1024 * 1024)

	if got := SizeScore(0, threshold); got != 0 {
		t.Errorf("empty file scored %g, want 0", got)
	}
	if got := SizeScore(threshold, threshold); got != MaxSizeScore {
		t.Errorf("file at threshold scored %g, want %g", got, MaxSizeScore)
	}
	if got := SizeScore(threshold*100, threshold); got != MaxSizeScore {
		t.Errorf("huge file scored %g, want %g", got, MaxSizeScore)
	}
	if got := SizeScore(-1, threshold); got != 0 {
		t.Errorf("negative size scored %g, want 0", got)
	}
}

func TestSizeScoreLinear(t *testing.T) {
	threshold := int64(1000)

	if got := SizeScore(500, threshold); got != 5.0 {
		t.Errorf("half threshold scored %g, want 5.0", got)
	}
	if got := SizeScore(250, threshold); got != 2.5 {
		t.Errorf("quarter threshold scored %g, want 2.5", got)
	}
}

func TestSizeScoreMonotonic(t *testing.T) {
	threshold := int64(1 << 20)
	prev := -1.0
	for _, size := range []int64{0, 1, 1024, 1 << 10, 1 << 15, 1 << 19, 1 << 20, 1 << 25} {
		got := SizeScore(size, threshold)
		if got < prev {
			t.Errorf("score decreased at size %d: %g < %g", size, got, prev)
		}
		prev = got
	}
}

// =============================================================================
// AgeScore Tests
// =============================================================================

func TestAgeScoreEdges(t *testing.T) {
	now := time.Now()

	if got := AgeScore(now, now, 180); got != 0 {
		t.Errorf("just-modified file scored %g, want 0", got)
	}
	if got := AgeScore(now.Add(time.Hour), now, 180); got != 0 {
		t.Errorf("future mtime scored %g, want 0", got)
	}
	if got := AgeScore(now.Add(-180*24*time.Hour), now, 180); got != MaxAgeScore {
		t.Errorf("file at threshold scored %g, want %g", got, MaxAgeScore)
	}
	if got := AgeScore(now.Add(-3650*24*time.Hour), now, 180); got != MaxAgeScore {
		t.Errorf("ancient file scored %g, want %g", got, MaxAgeScore)
	}
}

func TestAgeScoreCountsWholeDays(t *testing.T) {
	now := time.Now()

	// Sub-day ages truncate to zero days and score exactly 0, never an
	// epsilon.
	for _, age := range []time.Duration{time.Second, time.Hour, 23 * time.Hour} {
		if got := AgeScore(now.Add(-age), now, 180); got != 0 {
			t.Errorf("%v-old file scored %g, want exactly 0", age, got)
		}
	}

	// 36 hours is one whole day.
	want := 1.0 / 180.0 * MaxAgeScore
	if got := AgeScore(now.Add(-36*time.Hour), now, 180); got != want {
		t.Errorf("36h-old file scored %g, want %g", got, want)
	}
}

func TestAgeScoreLinear(t *testing.T) {
	now := time.Now()

	if got := AgeScore(now.Add(-90*24*time.Hour), now, 180); got != 5.0 {
		t.Errorf("half threshold scored %g, want 5.0", got)
	}
}

// =============================================================================
// Extension Bias Tests
// =============================================================================

func TestBiasNoHistory(t *testing.T) {
	if got := (Stat{}).Bias(); got != 0 {
		t.Errorf("empty history bias %g, want 0", got)
	}
}

func TestBiasLimits(t *testing.T) {
	if got := (Stat{Deleted: 7}).Bias(); got != MaxExtensionBias {
		t.Errorf("all-deleted bias %g, want %g", got, MaxExtensionBias)
	}
	if got := (Stat{Kept: 7}).Bias(); got != -MaxExtensionBias {
		t.Errorf("all-kept bias %g, want %g", got, -MaxExtensionBias)
	}
	if got := (Stat{Kept: 3, Deleted: 3}).Bias(); got != 0 {
		t.Errorf("balanced history bias %g, want 0", got)
	}
}

func TestBiasDirection(t *testing.T) {
	if got := (Stat{Kept: 1, Deleted: 3}).Bias(); got != 5.0 {
		t.Errorf("(3-1)/4*10 = %g, want 5.0", got)
	}
	if got := (Stat{Kept: 3, Deleted: 1}).Bias(); got != -5.0 {
		t.Errorf("(1-3)/4*10 = %g, want -5.0", got)
	}
}

// =============================================================================
// Engine Tests
// =============================================================================

func TestEngineTotalIsSum(t *testing.T) {
	store := NewMemoryStore()
	for i := 0; i < 4; i++ {
		if err := store.Record("/a/file.log", ActionDelete); err != nil {
			t.Fatal(err)
		}
	}

	engine := NewEngine(store, 1000, 180)
	b := engine.Score(500, time.Now().AddDate(0, 0, -360), ".log")

	if b.SizeScore != 5.0 {
		t.Errorf("size score %g, want 5.0", b.SizeScore)
	}
	if b.AgeScore != MaxAgeScore {
		t.Errorf("age score %g, want %g", b.AgeScore, MaxAgeScore)
	}
	if b.ExtBias != MaxExtensionBias {
		t.Errorf("ext bias %g, want %g", b.ExtBias, MaxExtensionBias)
	}
	if want := b.SizeScore + b.AgeScore + b.ExtBias; b.Total != want {
		t.Errorf("total %g, want %g", b.Total, want)
	}
}

func TestEngineNilStore(t *testing.T) {
	engine := NewEngine(nil, 1000, 180)
	b := engine.Score(100, time.Now(), ".txt")
	if b.ExtBias != 0 {
		t.Errorf("nil store bias %g, want 0", b.ExtBias)
	}
}

func TestEngineStoreErrorDegradesToNeutral(t *testing.T) {
	engine := NewEngine(failingStore{}, 1000, 180)
	b := engine.Score(100, time.Now(), ".txt")
	if b.ExtBias != 0 {
		t.Errorf("failing store bias %g, want 0", b.ExtBias)
	}
}

type failingStore struct{}

func (failingStore) Get(string) (Stat, error)    { return Stat{}, errStoreDown }
func (failingStore) Record(string, Action) error { return errStoreDown }

var errStoreDown = &storeDownError{}

type storeDownError struct{}

func (*storeDownError) Error() string { return "store down" }

// =============================================================================
// ExtensionOf Tests
// =============================================================================

func TestExtensionOf(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/a/b/photo.JPG", ".jpg"},
		{"/a/b/archive.tar.gz", ".gz"},
		{"/a/b/README", ""},
		{"/a/b/.bashrc", ".bashrc"},
	}

	for _, tt := range tests {
		if got := ExtensionOf(tt.path); got != tt.want {
			t.Errorf("ExtensionOf(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}
