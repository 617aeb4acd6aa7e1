package scanner

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/localmind/cleanslate/internal/config"
	"github.com/localmind/cleanslate/internal/imaging"
	"github.com/localmind/cleanslate/internal/progress"
	"github.com/localmind/cleanslate/internal/scoring"
)

// Scanner runs the full analysis pipeline for one configuration.
type Scanner struct {
	cfg      *config.Config
	store    scoring.Store
	reporter *progress.Reporter
	logger   *slog.Logger
	workers  int
}

// New creates a Scanner. The store may be nil, in which case every file
// scores a neutral extension bias. The logger may be nil.
func New(cfg *config.Config, store scoring.Store, logger *slog.Logger) *Scanner {
	if logger == nil {
		logger = slogDiscard()
	}

	workers := cfg.Workers
	if workers == 0 {
		workers = runtime.NumCPU()
		if workers < 4 {
			workers = 4
		}
		if workers > 16 {
			workers = 16
		}
	}

	return &Scanner{
		cfg:     cfg,
		store:   store,
		logger:  logger,
		workers: workers,
	}
}

// SetProgressReporter attaches a progress reporter to the scanner
func (s *Scanner) SetProgressReporter(r *progress.Reporter) {
	s.reporter = r
}

// Scan walks the configured roots and produces a ScanResult. Cancellation
// via ctx returns the partial result with Incomplete set rather than an
// error; only an invalid configuration fails the call.
func (s *Scanner) Scan(ctx context.Context) (*ScanResult, error) {
	if err := s.cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	start := time.Now()
	result := &ScanResult{
		RootPaths: s.cfg.RootPaths,
		StartTime: start,
	}

	var walked int
	var walkedSize int64
	records, walkErrs := s.walk(ctx, func(rec FileRecord) {
		walked++
		walkedSize += rec.Size
		s.report(progress.Update{
			Phase:       progress.PhaseWalking,
			CurrentPath: rec.Path,
			Processed:   walked,
			TotalSize:   walkedSize,
			StartTime:   start,
		})
	})
	result.Errors = append(result.Errors, walkErrs...)
	result.TotalFiles = len(records)
	result.TotalSize = walkedSize

	processed, analyzeErrs := s.analyze(ctx, records, start)
	result.Errors = append(result.Errors, analyzeErrs...)

	if ctx.Err() != nil {
		result.Incomplete = true
		s.logger.Info("scan cancelled", "processed", processed, "total", len(records))
	}

	engine := scoring.NewEngine(s.store, s.cfg.LargeFileThresholdBytes, s.cfg.OldFileThresholdDays)
	for i := range records {
		records[i].Score = engine.Score(records[i].Size, records[i].ModTime, records[i].Ext)
	}

	result.DuplicateGroups = groupDuplicates(records)
	result.SimilarityGroups = groupSimilar(records, s.cfg.SimilarityThreshold)
	s.collectFindings(records, result)
	result.Records = records

	result.Duration = time.Since(start).Round(time.Millisecond).String()

	phase := progress.PhaseComplete
	if result.Incomplete {
		phase = progress.PhaseCancelled
	}
	s.report(progress.Update{
		Phase:     phase,
		Processed: processed,
		Total:     len(records),
		TotalSize: walkedSize,
		StartTime: start,
	})

	s.logger.Info("scan finished",
		"files", result.TotalFiles,
		"duplicate_groups", len(result.DuplicateGroups),
		"similarity_groups", len(result.SimilarityGroups),
		"blurry", len(result.BlurryFiles),
		"errors", len(result.Errors),
		"incomplete", result.Incomplete,
	)
	return result, nil
}

// analyze runs the per-file I/O passes (content hashing, perceptual
// fingerprinting, sharpness) over a worker pool. Workers own disjoint
// record indexes, so records need no locking; only the shared error list
// does. Returns the number of files processed before any cancellation and
// the per-file failures that were skipped over.
func (s *Scanner) analyze(ctx context.Context, records []FileRecord, start time.Time) (int, []string) {
	buckets := sizeBuckets(records)
	needsHash := make([]bool, len(records))
	for _, idxs := range buckets {
		if len(idxs) < 2 {
			continue
		}
		for _, i := range idxs {
			needsHash[i] = true
		}
	}

	jobs := make(chan int)
	var done int64
	var mu sync.Mutex
	var errs []string

	var wg sync.WaitGroup
	for w := 0; w < s.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				s.analyzeOne(&records[i], needsHash[i], &mu, &errs)
				n := atomic.AddInt64(&done, 1)
				s.report(progress.Update{
					Phase:       progress.PhaseAnalyzing,
					CurrentPath: records[i].Path,
					Processed:   int(n),
					Total:       len(records),
					StartTime:   start,
				})
			}
		}()
	}

feed:
	for i := range records {
		select {
		case <-ctx.Done():
			break feed
		case jobs <- i:
		}
	}
	close(jobs)
	wg.Wait()

	// Stable error order regardless of worker scheduling.
	sort.Strings(errs)
	return int(done), errs
}

func (s *Scanner) analyzeOne(rec *FileRecord, hash bool, mu *sync.Mutex, errs *[]string) {
	fail := func(err error) {
		mu.Lock()
		*errs = append(*errs, fmt.Sprintf("%s: %v", rec.Path, err))
		mu.Unlock()
		s.logger.Debug("analysis failed", "path", rec.Path, "error", err)
	}

	if hash {
		var fp string
		var err error
		if s.cfg.StrictHash {
			fp, err = fullFingerprint(rec.Path)
		} else {
			fp, err = partialFingerprint(rec.Path, rec.Size)
		}
		if err != nil {
			fail(err)
		} else {
			rec.ContentFingerprint = fp
		}
	}

	if imaging.IsImageExt(rec.Ext) {
		// One decode feeds both image signals.
		if sig, err := imaging.Analyze(rec.Path); err != nil {
			fail(err)
		} else {
			rec.PerceptualFingerprint = sig.Fingerprint
			rec.HasPerceptual = true
			rec.Sharpness = sig.Sharpness
			rec.HasSharpness = true
		}
	}
}

// collectFindings derives the threshold-based finding lists from the
// analyzed records.
func (s *Scanner) collectFindings(records []FileRecord, result *ScanResult) {
	now := time.Now()
	for _, rec := range records {
		if rec.Size == 0 {
			result.EmptyFiles = append(result.EmptyFiles, rec.Path)
		}
		if rec.Size >= s.cfg.LargeFileThresholdBytes {
			result.LargeFiles = append(result.LargeFiles, LargeFinding{
				Path: rec.Path,
				Size: rec.Size,
			})
		}
		if ageDays := int(now.Sub(rec.ModTime).Hours() / 24); ageDays >= s.cfg.OldFileThresholdDays {
			result.OldFiles = append(result.OldFiles, OldFinding{
				Path:    rec.Path,
				ModTime: rec.ModTime,
				AgeDays: ageDays,
			})
		}
		if rec.HasSharpness && rec.Sharpness < s.cfg.BlurThreshold {
			result.BlurryFiles = append(result.BlurryFiles, BlurFinding{
				Path:      rec.Path,
				Sharpness: rec.Sharpness,
			})
		}
	}

	sort.Slice(result.LargeFiles, func(a, b int) bool {
		return result.LargeFiles[a].Size > result.LargeFiles[b].Size
	})
	sort.Slice(result.OldFiles, func(a, b int) bool {
		return result.OldFiles[a].AgeDays > result.OldFiles[b].AgeDays
	})
}

func (s *Scanner) report(u progress.Update) {
	if s.reporter != nil {
		s.reporter.Update(u)
	}
}
