package config

import "github.com/localmind/cleanslate/pkg/utils"

// Default returns the default configuration. Thresholds follow the shipped
// defaults: 50 MB large-file cutoff, 180-day staleness, similarity distance
// of 5 bits out of 64, and a Laplacian-variance blur floor of 100.
func Default() *Config {
	return &Config{
		RootPaths: []string{},
		ExcludedFolders: []string{
			".git",
			"node_modules",
		},
		ExcludedExtensions: []string{
			".tmp",
			".log",
		},
		LargeFileThresholdBytes: 50 * utils.MB,
		OldFileThresholdDays:    180,
		SimilarityThreshold:     5,
		BlurThreshold:           100.0,
		StrictHash:              false,
		Workers:                 0,
	}
}
