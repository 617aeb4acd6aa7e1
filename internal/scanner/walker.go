package scanner

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/localmind/cleanslate/internal/scoring"
)

// walk traverses every configured root and collects FileRecords for the
// regular files that survive the exclusion rules. Per-entry failures are
// logged and appended to errs; they never stop the walk. Cancellation is
// checked per entry and abandons the remaining traversal.
func (s *Scanner) walk(ctx context.Context, onFile func(FileRecord)) (records []FileRecord, errs []string) {
	excludedFolders := s.cfg.FolderSet()
	excludedExts := s.cfg.ExtensionSet()

	for _, root := range s.cfg.RootPaths {
		if ctx.Err() != nil {
			break
		}
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if ctx.Err() != nil {
				return fs.SkipAll
			}
			if err != nil {
				errs = append(errs, fmt.Sprintf("%s: %v", path, err))
				s.logger.Debug("skipping unreadable entry", "path", path, "error", err)
				if d != nil && d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}

			if d.IsDir() {
				if path != root && excludedFolders[strings.ToLower(d.Name())] {
					return filepath.SkipDir
				}
				return nil
			}

			// Symlinks, devices, sockets and the like are not analyzed.
			if !d.Type().IsRegular() {
				return nil
			}

			ext := scoring.ExtensionOf(path)
			if excludedExts[ext] {
				return nil
			}

			info, err := d.Info()
			if err != nil {
				errs = append(errs, fmt.Sprintf("%s: %v", path, err))
				s.logger.Debug("skipping unstatable file", "path", path, "error", err)
				return nil
			}

			rec := FileRecord{
				Path:       path,
				Size:       info.Size(),
				ModTime:    info.ModTime(),
				AccessTime: accessTime(info),
				Ext:        ext,
			}
			records = append(records, rec)
			if onFile != nil {
				onFile(rec)
			}
			return nil
		})
		if err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", root, err))
			s.logger.Warn("walk failed for root", "root", root, "error", err)
		}
	}

	return records, errs
}

// slogDiscard returns a logger that drops everything, for callers that did
// not supply one.
func slogDiscard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
