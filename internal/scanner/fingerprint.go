package scanner

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
)

// FingerprintChunkSize is how much of a file's head feeds the partial
// fingerprint. Two same-size files that differ only beyond this prefix
// collide unless strict hashing is enabled.
const FingerprintChunkSize = 4 * 1024 * 1024

// partialFingerprint hashes the first FingerprintChunkSize bytes together
// with the file's decimal size, so same-prefix files of different lengths
// never collide.
func partialFingerprint(path string, size int64) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.CopyN(h, f, FingerprintChunkSize); err != nil && err != io.EOF {
		return "", err
	}
	h.Write([]byte(strconv.FormatInt(size, 10)))
	return hex.EncodeToString(h.Sum(nil)), nil
}

// fullFingerprint hashes the entire file content. Used in strict mode.
func fullFingerprint(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// sizeBuckets maps file sizes to the record indexes sharing them. Only
// buckets with two or more members ever need hashing. Empty files bucket
// like any other size: identical content must always group, and two empty
// files have identical content.
func sizeBuckets(records []FileRecord) map[int64][]int {
	buckets := make(map[int64][]int)
	for i, rec := range records {
		buckets[rec.Size] = append(buckets[rec.Size], i)
	}
	return buckets
}

// groupDuplicates clusters records by content fingerprint and tags each
// member with its group ID. Group order and IDs are deterministic: groups
// are sorted by their lexicographically smallest member path.
func groupDuplicates(records []FileRecord) []DuplicateGroup {
	byFingerprint := make(map[string][]int)
	for i, rec := range records {
		if rec.ContentFingerprint == "" {
			continue
		}
		byFingerprint[rec.ContentFingerprint] = append(byFingerprint[rec.ContentFingerprint], i)
	}

	var groups []DuplicateGroup
	for fp, idxs := range byFingerprint {
		if len(idxs) < 2 {
			continue
		}

		paths := make([]string, len(idxs))
		for j, i := range idxs {
			paths[j] = records[i].Path
		}
		sort.Strings(paths)

		var wasted int64
		for _, i := range idxs[1:] {
			wasted += records[i].Size
		}

		groups = append(groups, DuplicateGroup{
			Fingerprint: fp,
			Paths:       paths,
			WastedBytes: wasted,
		})
	}

	sort.Slice(groups, func(a, b int) bool {
		return groups[a].Paths[0] < groups[b].Paths[0]
	})
	for i := range groups {
		groups[i].ID = fmt.Sprintf("dup-%d", i+1)
	}

	byPath := make(map[string]string)
	for _, g := range groups {
		for _, p := range g.Paths {
			byPath[p] = g.ID
		}
	}
	for i := range records {
		records[i].DuplicateGroupID = byPath[records[i].Path]
	}

	return groups
}
