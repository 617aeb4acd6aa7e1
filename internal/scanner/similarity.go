package scanner

import (
	"fmt"
	"sort"

	"github.com/localmind/cleanslate/internal/imaging"
)

// groupSimilar clusters images whose perceptual fingerprints are within
// threshold Hamming bits of a seed image. Each unassigned image in sorted
// path order becomes a seed and absorbs every later unassigned image close
// enough to it; members are compared to the seed only, not to each other.
// Singleton groups are discarded.
func groupSimilar(records []FileRecord, threshold int) []SimilarityGroup {
	type candidate struct {
		idx  int
		hash uint64
	}

	var candidates []candidate
	for i, rec := range records {
		if rec.HasPerceptual {
			candidates = append(candidates, candidate{idx: i, hash: rec.PerceptualFingerprint})
		}
	}
	sort.Slice(candidates, func(a, b int) bool {
		return records[candidates[a].idx].Path < records[candidates[b].idx].Path
	})

	assigned := make([]bool, len(candidates))
	var groups []SimilarityGroup
	for i, seed := range candidates {
		if assigned[i] {
			continue
		}

		paths := []string{records[seed.idx].Path}
		for j := i + 1; j < len(candidates); j++ {
			if assigned[j] {
				continue
			}
			if imaging.Distance(seed.hash, candidates[j].hash) <= threshold {
				assigned[j] = true
				paths = append(paths, records[candidates[j].idx].Path)
			}
		}
		if len(paths) < 2 {
			continue
		}

		groups = append(groups, SimilarityGroup{
			ID:       fmt.Sprintf("sim-%d", len(groups)+1),
			SeedPath: records[seed.idx].Path,
			Paths:    paths,
		})
	}

	byPath := make(map[string]string)
	for _, g := range groups {
		for _, p := range g.Paths {
			byPath[p] = g.ID
		}
	}
	for i := range records {
		records[i].SimilarityGroupID = byPath[records[i].Path]
	}

	return groups
}
