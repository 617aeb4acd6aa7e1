package scoring

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	_ "modernc.org/sqlite"
)

// SQLiteStore persists decision history in a SQLite database. Two tables:
// ext_stats carries the per-extension counters the bias derives from, and
// actions journals every recorded decision keyed by path.
type SQLiteStore struct {
	db   *sql.DB
	Path string
}

// DefaultStorePath returns the default database location under the XDG data
// home, creating parent directories as needed.
func DefaultStorePath() (string, error) {
	return xdg.DataFile(filepath.Join("cleanslate", "decisions.db"))
}

// OpenStore opens (or creates) the decision store at the given path,
// configures pragmas, and runs migrations.
func OpenStore(path string) (*SQLiteStore, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create store dir: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	s := &SQLiteStore{db: db, Path: path}
	if err := s.configurePragmas(); err != nil {
		db.Close()
		return nil, err
	}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

// OpenMemoryStoreDB opens an in-memory SQLite decision store for testing.
func OpenMemoryStoreDB() (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("open sqlite memory: %w", err)
	}

	s := &SQLiteStore{db: db, Path: ":memory:"}
	if err := s.configurePragmas(); err != nil {
		db.Close()
		return nil, err
	}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) configurePragmas() error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
	}
	for _, p := range pragmas {
		if _, err := s.db.Exec(p); err != nil {
			return fmt.Errorf("pragma %q: %w", p, err)
		}
	}
	return nil
}

// Get implements Store.
func (s *SQLiteStore) Get(ext string) (Stat, error) {
	var stat Stat
	err := s.db.QueryRow(
		`SELECT keeps, deletes FROM ext_stats WHERE ext = ?`, ext,
	).Scan(&stat.Kept, &stat.Deleted)
	if err == sql.ErrNoRows {
		return Stat{}, nil
	}
	if err != nil {
		return Stat{}, fmt.Errorf("get ext stat %q: %w", ext, err)
	}
	return stat, nil
}

// Record implements Store. The action journal and the extension counter are
// updated in one transaction.
func (s *SQLiteStore) Record(path string, action Action) error {
	if err := validateAction(action); err != nil {
		return err
	}

	ext := ExtensionOf(path)
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(
		`INSERT OR REPLACE INTO actions (path, ext, action, ts) VALUES (?, ?, ?, ?)`,
		path, ext, string(action), time.Now().Unix(),
	); err != nil {
		return fmt.Errorf("record action: %w", err)
	}

	keeps, deletes := 0, 0
	if action == ActionDelete {
		deletes = 1
	} else {
		keeps = 1
	}
	if _, err := tx.Exec(
		`INSERT INTO ext_stats (ext, keeps, deletes) VALUES (?, ?, ?)
		 ON CONFLICT(ext) DO UPDATE SET
		   keeps = keeps + excluded.keeps,
		   deletes = deletes + excluded.deletes`,
		ext, keeps, deletes,
	); err != nil {
		return fmt.Errorf("update ext stat: %w", err)
	}

	return tx.Commit()
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
