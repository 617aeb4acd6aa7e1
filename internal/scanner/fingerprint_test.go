package scanner

import (
	"bytes"
	"os"
	"testing"

	"github.com/localmind/cleanslate/internal/testutil"
)

// =============================================================================
// Partial Fingerprint Tests
// =============================================================================

func TestPartialFingerprintIdenticalContent(t *testing.T) {
	f := testutil.NewFixture(t)
	content := []byte("the same bytes in both files")
	a := f.CreateFile("docs/a.txt", content)
	b := f.CreateFile("docs/copy of a.txt", content)

	fpA, err := partialFingerprint(a, int64(len(content)))
	if err != nil {
		t.Fatalf("fingerprint a: %v", err)
	}
	fpB, err := partialFingerprint(b, int64(len(content)))
	if err != nil {
		t.Fatalf("fingerprint b: %v", err)
	}
	if fpA != fpB {
		t.Error("identical content produced different fingerprints")
	}
}

func TestPartialFingerprintOneByteDifference(t *testing.T) {
	f := testutil.NewFixture(t)
	a := f.CreateFile("docs/a.bin", []byte("aaaaaaaaaa"))
	b := f.CreateFile("docs/b.bin", []byte("aaaaaaaaab"))

	fpA, err := partialFingerprint(a, 10)
	if err != nil {
		t.Fatal(err)
	}
	fpB, err := partialFingerprint(b, 10)
	if err != nil {
		t.Fatal(err)
	}
	if fpA == fpB {
		t.Error("files differing in one byte collided")
	}
}

func TestPartialFingerprintSizeFeedsHash(t *testing.T) {
	f := testutil.NewFixture(t)
	// Same prefix, different total length. The declared size must keep the
	// fingerprints apart even though the hashed prefix is identical.
	prefix := bytes.Repeat([]byte("x"), 1024)
	a := f.CreateFile("docs/short.bin", prefix)
	b := f.CreateFile("docs/long.bin", append(append([]byte{}, prefix...), prefix...))

	fpA, err := partialFingerprint(a, 1024)
	if err != nil {
		t.Fatal(err)
	}
	fpB, err := partialFingerprint(b, 2048)
	if err != nil {
		t.Fatal(err)
	}
	if fpA == fpB {
		t.Error("same-prefix files of different sizes collided")
	}
}

func TestPartialFingerprintMissingFile(t *testing.T) {
	if _, err := partialFingerprint("/nonexistent/file.bin", 10); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestFullFingerprintSeesWholeFile(t *testing.T) {
	f := testutil.NewFixture(t)
	a := f.CreateFile("docs/a.bin", []byte("shared prefix AAAA"))
	b := f.CreateFile("docs/b.bin", []byte("shared prefix BBBB"))

	fpA, err := fullFingerprint(a)
	if err != nil {
		t.Fatal(err)
	}
	fpB, err := fullFingerprint(b)
	if err != nil {
		t.Fatal(err)
	}
	if fpA == fpB {
		t.Error("distinct content collided under full hashing")
	}
}

// =============================================================================
// Size Bucket Tests
// =============================================================================

func TestSizeBucketsIncludeEveryFile(t *testing.T) {
	records := []FileRecord{
		{Path: "/a", Size: 0},
		{Path: "/b", Size: 0},
		{Path: "/c", Size: 100},
		{Path: "/d", Size: 100},
		{Path: "/e", Size: 200},
	}

	buckets := sizeBuckets(records)
	if len(buckets[0]) != 2 {
		t.Errorf("expected 2 files in the 0-byte bucket, got %d", len(buckets[0]))
	}
	if len(buckets[100]) != 2 {
		t.Errorf("expected 2 files in the 100-byte bucket, got %d", len(buckets[100]))
	}
	if len(buckets[200]) != 1 {
		t.Errorf("expected 1 file in the 200-byte bucket, got %d", len(buckets[200]))
	}
}

func TestPartialFingerprintEmptyFilesCollide(t *testing.T) {
	f := testutil.NewFixture(t)
	a := f.CreateFile("docs/a.empty", nil)
	b := f.CreateFile("docs/b.empty", nil)

	fpA, err := partialFingerprint(a, 0)
	if err != nil {
		t.Fatal(err)
	}
	fpB, err := partialFingerprint(b, 0)
	if err != nil {
		t.Fatal(err)
	}
	if fpA != fpB {
		t.Error("empty files have identical content and must share a fingerprint")
	}
}

// =============================================================================
// Duplicate Grouping Tests
// =============================================================================

func TestGroupDuplicates(t *testing.T) {
	records := []FileRecord{
		{Path: "/a/one.txt", Size: 100, ContentFingerprint: "fp1"},
		{Path: "/b/two.txt", Size: 100, ContentFingerprint: "fp1"},
		{Path: "/c/three.txt", Size: 100, ContentFingerprint: "fp1"},
		{Path: "/d/unique.txt", Size: 100, ContentFingerprint: "fp2"},
		{Path: "/e/unhashed.txt", Size: 300},
	}

	groups := groupDuplicates(records)
	if len(groups) != 1 {
		t.Fatalf("expected 1 group, got %d", len(groups))
	}

	g := groups[0]
	if g.ID != "dup-1" {
		t.Errorf("group ID %q, want dup-1", g.ID)
	}
	if len(g.Paths) != 3 {
		t.Errorf("group has %d paths, want 3", len(g.Paths))
	}
	if g.WastedBytes != 200 {
		t.Errorf("wasted bytes %d, want 200 (keep one of three copies)", g.WastedBytes)
	}

	for _, rec := range records {
		inGroup := rec.ContentFingerprint == "fp1"
		if inGroup && rec.DuplicateGroupID != "dup-1" {
			t.Errorf("%s missing group tag", rec.Path)
		}
		if !inGroup && rec.DuplicateGroupID != "" {
			t.Errorf("%s wrongly tagged %q", rec.Path, rec.DuplicateGroupID)
		}
	}
}

func TestGroupDuplicatesDeterministicOrder(t *testing.T) {
	make2 := func() []FileRecord {
		return []FileRecord{
			{Path: "/z/1.bin", Size: 10, ContentFingerprint: "zz"},
			{Path: "/z/2.bin", Size: 10, ContentFingerprint: "zz"},
			{Path: "/a/1.bin", Size: 20, ContentFingerprint: "aa"},
			{Path: "/a/2.bin", Size: 20, ContentFingerprint: "aa"},
		}
	}

	first := groupDuplicates(make2())
	second := groupDuplicates(make2())

	if len(first) != 2 || len(second) != 2 {
		t.Fatalf("expected 2 groups, got %d and %d", len(first), len(second))
	}
	for i := range first {
		if first[i].ID != second[i].ID || first[i].Fingerprint != second[i].Fingerprint {
			t.Error("group order not deterministic across runs")
		}
	}
	if first[0].Paths[0] != "/a/1.bin" {
		t.Errorf("groups not ordered by smallest member path: %v", first[0].Paths)
	}
}

// =============================================================================
// Strict Mode Integration
// =============================================================================

func TestStrictHashSplitsPrefixCollisions(t *testing.T) {
	f := testutil.NewFixture(t)

	// Build two files that agree on the first chunk and in size but differ
	// beyond the prefix. Partial hashing groups them; strict must not.
	head := bytes.Repeat([]byte("h"), FingerprintChunkSize)
	a := append(append([]byte{}, head...), 'A')
	b := append(append([]byte{}, head...), 'B')
	pathA := f.CreateFile("docs/a.bin", a)
	pathB := f.CreateFile("docs/b.bin", b)

	infoA, err := os.Stat(pathA)
	if err != nil {
		t.Fatal(err)
	}

	partialA, err := partialFingerprint(pathA, infoA.Size())
	if err != nil {
		t.Fatal(err)
	}
	partialB, err := partialFingerprint(pathB, infoA.Size())
	if err != nil {
		t.Fatal(err)
	}
	if partialA != partialB {
		t.Fatal("expected partial fingerprints to collide for same-size same-prefix files")
	}

	fullA, err := fullFingerprint(pathA)
	if err != nil {
		t.Fatal(err)
	}
	fullB, err := fullFingerprint(pathB)
	if err != nil {
		t.Fatal(err)
	}
	if fullA == fullB {
		t.Error("full fingerprints must differ when content differs past the prefix")
	}
}
