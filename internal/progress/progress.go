// Package progress publishes scan progress to subscribers at a bounded
// cadence so a UI thread is never flooded with per-file updates.
package progress

import (
	"fmt"
	"sync"
	"time"

	"github.com/localmind/cleanslate/pkg/utils"
)

// Phase represents the current phase of a scan
type Phase string

const (
	PhaseWalking   Phase = "walking"
	PhaseAnalyzing Phase = "analyzing"
	PhaseComplete  Phase = "complete"
	PhaseCancelled Phase = "cancelled"
)

// Terminal reports whether the phase ends a scan.
func (p Phase) Terminal() bool {
	return p == PhaseComplete || p == PhaseCancelled
}

// Update is one progress snapshot.
type Update struct {
	Phase       Phase
	CurrentPath string
	Processed   int
	Total       int
	TotalSize   int64
	StartTime   time.Time
}

// Percent returns completion in [0, 100]. With an unknown total it reports 0.
func (u Update) Percent() float64 {
	if u.Total <= 0 {
		return 0
	}
	return float64(u.Processed) / float64(u.Total) * 100
}

// DefaultInterval is the minimum spacing between emitted updates.
const DefaultInterval = 200 * time.Millisecond

// Reporter provides thread-safe, rate-limited progress reporting.
type Reporter struct {
	mu        sync.RWMutex
	current   Update
	listeners []chan Update
	interval  time.Duration
	lastEmit  time.Time
}

// NewReporter creates a reporter with the default emission cadence.
func NewReporter() *Reporter {
	return &Reporter{interval: DefaultInterval}
}

// NewReporterWithInterval creates a reporter with a custom cadence. A zero
// interval emits every update; useful in tests.
func NewReporterWithInterval(interval time.Duration) *Reporter {
	return &Reporter{interval: interval}
}

// Subscribe returns a channel that receives progress updates
func (r *Reporter) Subscribe() <-chan Update {
	r.mu.Lock()
	defer r.mu.Unlock()

	ch := make(chan Update, 16)
	r.listeners = append(r.listeners, ch)
	return ch
}

// Unsubscribe closes and removes a listener channel
func (r *Reporter) Unsubscribe(ch <-chan Update) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, listener := range r.listeners {
		if listener == ch {
			close(listener)
			r.listeners = append(r.listeners[:i], r.listeners[i+1:]...)
			return
		}
	}
}

// Update records a snapshot and notifies listeners, subject to the cadence
// limit. Phase transitions and terminal updates always go through.
func (r *Reporter) Update(u Update) {
	r.mu.Lock()

	phaseChanged := u.Phase != r.current.Phase
	r.current = u

	now := time.Now()
	if !phaseChanged && !u.Phase.Terminal() && now.Sub(r.lastEmit) < r.interval {
		r.mu.Unlock()
		return
	}
	r.lastEmit = now

	listeners := make([]chan Update, len(r.listeners))
	copy(listeners, r.listeners)
	r.mu.Unlock()

	// Non-blocking notify; a full listener just misses this snapshot.
	for _, listener := range listeners {
		select {
		case listener <- u:
		default:
		}
	}
}

// Current returns the latest snapshot.
func (r *Reporter) Current() Update {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.current
}

// Format returns a human-readable progress line.
func Format(u Update) string {
	elapsed := time.Since(u.StartTime).Round(time.Second)

	switch u.Phase {
	case PhaseWalking:
		return fmt.Sprintf("Walking... found %d files (%s)", u.Processed, utils.FormatBytes(u.TotalSize))
	case PhaseAnalyzing:
		return fmt.Sprintf("Analyzing... %d/%d files (%.0f%%) [%s]",
			u.Processed, u.Total, u.Percent(), elapsed)
	case PhaseComplete:
		return fmt.Sprintf("Scan complete: %d files (%s) in %s",
			u.Total, utils.FormatBytes(u.TotalSize), elapsed)
	case PhaseCancelled:
		return fmt.Sprintf("Scan cancelled after %d/%d files [%s]", u.Processed, u.Total, elapsed)
	default:
		return "Starting..."
	}
}
