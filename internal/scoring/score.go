// Package scoring computes per-file retention scores and owns the persisted
// keep/delete decision history they learn from. Higher scores mark stronger
// deletion candidates.
package scoring

import (
	"path/filepath"
	"strings"
	"time"
)

const (
	// MaxSizeScore is reached at or beyond the large-file threshold.
	MaxSizeScore = 10.0
	// MaxAgeScore is reached at or beyond the old-file threshold.
	MaxAgeScore = 10.0
	// MaxExtensionBias bounds the learned bias to [-10, +10].
	MaxExtensionBias = 10.0
)

// Breakdown holds the three independent score components and their sum.
type Breakdown struct {
	SizeScore float64 `json:"size_score" yaml:"size_score"`
	AgeScore  float64 `json:"age_score" yaml:"age_score"`
	ExtBias   float64 `json:"ext_bias" yaml:"ext_bias"`
	Total     float64 `json:"total" yaml:"total"`
}

// Engine scores files against configured thresholds, consulting a Store for
// learned per-extension bias. The Store is only read during scoring; bias
// lookups are cached for the lifetime of the Engine, which is one scan.
type Engine struct {
	largeFileThreshold int64
	oldFileThreshold   int // days
	store              Store
	now                time.Time
	biasCache          map[string]float64
}

// NewEngine creates a scoring engine for one scan invocation.
func NewEngine(store Store, largeFileThresholdBytes int64, oldFileThresholdDays int) *Engine {
	return &Engine{
		largeFileThreshold: largeFileThresholdBytes,
		oldFileThreshold:   oldFileThresholdDays,
		store:              store,
		now:                time.Now(),
		biasCache:          make(map[string]float64),
	}
}

// Score computes the full breakdown for one file.
func (e *Engine) Score(sizeBytes int64, modTime time.Time, ext string) Breakdown {
	b := Breakdown{
		SizeScore: SizeScore(sizeBytes, e.largeFileThreshold),
		AgeScore:  AgeScore(modTime, e.now, e.oldFileThreshold),
		ExtBias:   e.extensionBias(ext),
	}
	b.Total = b.SizeScore + b.AgeScore + b.ExtBias
	return b
}

func (e *Engine) extensionBias(ext string) float64 {
	if bias, ok := e.biasCache[ext]; ok {
		return bias
	}

	bias := 0.0
	if e.store != nil {
		if stat, err := e.store.Get(ext); err == nil {
			bias = stat.Bias()
		}
		// A store read failure degrades to neutral bias; scoring never
		// fails a scan.
	}
	e.biasCache[ext] = bias
	return bias
}

// SizeScore maps a byte size onto [0, MaxSizeScore]: 0 at zero bytes, linear
// up to the threshold, saturating beyond it. Negative sizes and thresholds
// clamp to 0 rather than inverting the ramp.
func SizeScore(sizeBytes, thresholdBytes int64) float64 {
	if sizeBytes <= 0 || thresholdBytes <= 0 {
		return 0
	}
	if sizeBytes >= thresholdBytes {
		return MaxSizeScore
	}
	return float64(sizeBytes) / float64(thresholdBytes) * MaxSizeScore
}

// AgeScore maps time since last modification onto [0, MaxAgeScore] with the
// same ramp-then-saturate shape as SizeScore. Age counts in whole elapsed
// days, so anything modified within the last 24 hours scores exactly 0, as
// do files with future timestamps.
func AgeScore(modTime, now time.Time, thresholdDays int) float64 {
	if thresholdDays <= 0 {
		return 0
	}
	ageDays := int(now.Sub(modTime).Hours() / 24)
	if ageDays <= 0 {
		return 0
	}
	if ageDays >= thresholdDays {
		return MaxAgeScore
	}
	return float64(ageDays) / float64(thresholdDays) * MaxAgeScore
}

// ExtensionOf extracts and normalizes the extension of a path: lowercase,
// leading dot, empty string for files without one.
func ExtensionOf(path string) string {
	return strings.ToLower(filepath.Ext(path))
}
