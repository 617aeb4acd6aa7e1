package scoring

import "fmt"

// Action is a user verdict on one file.
type Action string

const (
	ActionKeep   Action = "keep"
	ActionDelete Action = "delete"
)

// Valid reports whether the action is one of the two known verdicts.
func (a Action) Valid() bool {
	return a == ActionKeep || a == ActionDelete
}

// Stat is the per-extension decision history. It is the only state that
// survives across scans.
type Stat struct {
	Kept    int64 `json:"kept" yaml:"kept"`
	Deleted int64 `json:"deleted" yaml:"deleted"`
}

// Bias derives the learned bias in [-MaxExtensionBias, +MaxExtensionBias]:
// positive when the extension tends to get deleted, negative when kept,
// exactly 0 with no history.
func (s Stat) Bias() float64 {
	total := s.Kept + s.Deleted
	if total == 0 {
		return 0
	}
	return float64(s.Deleted-s.Kept) / float64(total) * MaxExtensionBias
}

// Store is the persisted decision history. Get is read-only and safe for
// concurrent use during a scan; Record runs outside the scan's critical
// path, when the surrounding application confirms a user decision.
type Store interface {
	// Get returns the history for a normalized extension, zero-valued
	// when no decision has been recorded for it.
	Get(ext string) (Stat, error)
	// Record registers a user decision for a file and bumps the counter
	// of the file's extension.
	Record(path string, action Action) error
}

// validateAction is shared by Store implementations.
func validateAction(action Action) error {
	if !action.Valid() {
		return fmt.Errorf("unknown action %q (want %q or %q)", action, ActionKeep, ActionDelete)
	}
	return nil
}
