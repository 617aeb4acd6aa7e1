package scoring

import "fmt"

type migration struct {
	Version     int
	Description string
	SQL         string
}

var migrations = []migration{
	{
		Version:     1,
		Description: "ext_stats: per-extension keep/delete counters",
		SQL: `
CREATE TABLE ext_stats (
    ext      TEXT PRIMARY KEY,
    keeps    INTEGER NOT NULL DEFAULT 0,
    deletes  INTEGER NOT NULL DEFAULT 0
);
`,
	},
	{
		Version:     2,
		Description: "actions: per-path decision journal",
		SQL: `
CREATE TABLE actions (
    path    TEXT PRIMARY KEY,
    ext     TEXT NOT NULL,
    action  TEXT NOT NULL CHECK (action IN ('keep', 'delete')),
    ts      INTEGER NOT NULL
);

CREATE INDEX idx_actions_ext ON actions(ext);
`,
	},
}

func (s *SQLiteStore) migrate() error {
	var version int
	if err := s.db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}

	for _, m := range migrations {
		if m.Version <= version {
			continue
		}
		if _, err := s.db.Exec(m.SQL); err != nil {
			return fmt.Errorf("migration %d (%s): %w", m.Version, m.Description, err)
		}
		if _, err := s.db.Exec(fmt.Sprintf("PRAGMA user_version = %d", m.Version)); err != nil {
			return fmt.Errorf("bump schema version to %d: %w", m.Version, err)
		}
	}
	return nil
}
