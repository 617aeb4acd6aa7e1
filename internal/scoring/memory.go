package scoring

import "sync"

// MemoryStore is an in-memory Store for tests and for callers that do not
// want persistence. Safe for concurrent use.
type MemoryStore struct {
	mu    sync.RWMutex
	stats map[string]Stat
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{stats: make(map[string]Stat)}
}

// Get implements Store.
func (m *MemoryStore) Get(ext string) (Stat, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.stats[ext], nil
}

// Record implements Store.
func (m *MemoryStore) Record(path string, action Action) error {
	if err := validateAction(action); err != nil {
		return err
	}

	ext := ExtensionOf(path)
	m.mu.Lock()
	defer m.mu.Unlock()

	stat := m.stats[ext]
	if action == ActionDelete {
		stat.Deleted++
	} else {
		stat.Kept++
	}
	m.stats[ext] = stat
	return nil
}
