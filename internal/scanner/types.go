// Package scanner walks directory trees and runs the analysis passes that
// turn raw files into findings: exact duplicates, near-duplicate images,
// blurry images, and large/old/empty files, each file carrying a retention
// score.
package scanner

import (
	"time"

	"github.com/localmind/cleanslate/internal/scoring"
)

// FileRecord is everything the scan learned about one regular file.
type FileRecord struct {
	Path       string    `json:"path" yaml:"path"`
	Size       int64     `json:"size" yaml:"size"`
	ModTime    time.Time `json:"mod_time" yaml:"mod_time"`
	AccessTime time.Time `json:"access_time" yaml:"access_time"`
	Ext        string    `json:"ext" yaml:"ext"`

	// ContentFingerprint is empty for files that never needed hashing
	// (unique size) or whose hashing failed.
	ContentFingerprint string `json:"content_fingerprint,omitempty" yaml:"content_fingerprint,omitempty"`

	// PerceptualFingerprint is only meaningful when HasPerceptual is set.
	PerceptualFingerprint uint64 `json:"perceptual_fingerprint,omitempty" yaml:"perceptual_fingerprint,omitempty"`
	HasPerceptual         bool   `json:"has_perceptual,omitempty" yaml:"has_perceptual,omitempty"`

	// Sharpness is only meaningful when HasSharpness is set.
	Sharpness    float64 `json:"sharpness,omitempty" yaml:"sharpness,omitempty"`
	HasSharpness bool    `json:"has_sharpness,omitempty" yaml:"has_sharpness,omitempty"`

	Score scoring.Breakdown `json:"score" yaml:"score"`

	// Group memberships, empty when the file is in no group.
	DuplicateGroupID  string `json:"duplicate_group_id,omitempty" yaml:"duplicate_group_id,omitempty"`
	SimilarityGroupID string `json:"similarity_group_id,omitempty" yaml:"similarity_group_id,omitempty"`
}

// DuplicateGroup is a set of files with identical content fingerprints.
type DuplicateGroup struct {
	ID          string   `json:"id" yaml:"id"`
	Fingerprint string   `json:"fingerprint" yaml:"fingerprint"`
	Paths       []string `json:"paths" yaml:"paths"`
	// WastedBytes is the space reclaimable by keeping one copy.
	WastedBytes int64 `json:"wasted_bytes" yaml:"wasted_bytes"`
}

// SimilarityGroup is a set of images within the Hamming-distance threshold
// of the group's seed image.
type SimilarityGroup struct {
	ID       string   `json:"id" yaml:"id"`
	SeedPath string   `json:"seed_path" yaml:"seed_path"`
	Paths    []string `json:"paths" yaml:"paths"`
}

// BlurFinding flags one image whose sharpness fell below the threshold.
type BlurFinding struct {
	Path      string  `json:"path" yaml:"path"`
	Sharpness float64 `json:"sharpness" yaml:"sharpness"`
}

// LargeFinding flags one file at or above the large-file threshold.
type LargeFinding struct {
	Path string `json:"path" yaml:"path"`
	Size int64  `json:"size" yaml:"size"`
}

// OldFinding flags one file unmodified for at least the old-file threshold.
type OldFinding struct {
	Path    string    `json:"path" yaml:"path"`
	ModTime time.Time `json:"mod_time" yaml:"mod_time"`
	AgeDays int       `json:"age_days" yaml:"age_days"`
}

// ScanResult is the complete output of one scan.
type ScanResult struct {
	RootPaths []string  `json:"root_paths" yaml:"root_paths"`
	StartTime time.Time `json:"start_time" yaml:"start_time"`
	Duration  string    `json:"duration" yaml:"duration"`

	TotalFiles int   `json:"total_files" yaml:"total_files"`
	TotalSize  int64 `json:"total_size" yaml:"total_size"`

	Records []FileRecord `json:"records" yaml:"records"`

	DuplicateGroups  []DuplicateGroup  `json:"duplicate_groups" yaml:"duplicate_groups"`
	SimilarityGroups []SimilarityGroup `json:"similarity_groups" yaml:"similarity_groups"`
	BlurryFiles      []BlurFinding     `json:"blurry_files" yaml:"blurry_files"`
	LargeFiles       []LargeFinding    `json:"large_files" yaml:"large_files"`
	OldFiles         []OldFinding      `json:"old_files" yaml:"old_files"`
	EmptyFiles       []string          `json:"empty_files" yaml:"empty_files"`

	// Errors collects per-entry failures that were skipped over. They
	// never abort a scan.
	Errors []string `json:"errors,omitempty" yaml:"errors,omitempty"`

	// Incomplete marks a result cut short by cancellation. Findings cover
	// only the files processed before the cut.
	Incomplete bool `json:"incomplete,omitempty" yaml:"incomplete,omitempty"`
}

// WastedBytes sums the reclaimable space across all duplicate groups.
func (r *ScanResult) WastedBytes() int64 {
	var total int64
	for _, g := range r.DuplicateGroups {
		total += g.WastedBytes
	}
	return total
}
