package store

import (
	"slices"
	"strings"
	"sync"
	"time"
)

// MemoryStore is an in-memory store for tests and one-shot CLI runs.
// Data is lost when the process exits.
type MemoryStore struct {
	mu     sync.RWMutex
	data   map[Kind]map[string]entry // kind -> name -> entry
	closed bool
}

type entry struct {
	data    []byte
	version int
	updated time.Time
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		data: make(map[Kind]map[string]entry),
	}
}

// Put implements Store.
func (m *MemoryStore) Put(kind Kind, name string, data []byte) (int, error) {
	if strings.TrimSpace(name) == "" {
		return 0, ErrInvalidName
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return 0, ErrStoreClosed
	}
	if m.data[kind] == nil {
		m.data[kind] = make(map[string]entry)
	}

	version := m.data[kind][name].version + 1
	m.data[kind][name] = entry{
		data:    slices.Clone(data),
		version: version,
		updated: time.Now().UTC(),
	}
	return version, nil
}

// Get implements Store.
func (m *MemoryStore) Get(kind Kind, name string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, ErrStoreClosed
	}
	e, ok := m.data[kind][name]
	if !ok {
		return nil, ErrNotFound
	}
	return slices.Clone(e.data), nil
}

// List implements Store.
func (m *MemoryStore) List(kind Kind) ([]Info, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, ErrStoreClosed
	}

	infos := make([]Info, 0, len(m.data[kind]))
	for name, e := range m.data[kind] {
		infos = append(infos, Info{
			Kind:    kind,
			Name:    name,
			Version: e.version,
			Updated: e.updated,
			Size:    int64(len(e.data)),
		})
	}
	slices.SortFunc(infos, func(a, b Info) int { return strings.Compare(a.Name, b.Name) })
	return infos, nil
}

// Delete implements Store.
func (m *MemoryStore) Delete(kind Kind, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrStoreClosed
	}
	delete(m.data[kind], name)
	return nil
}

// Close implements Store.
func (m *MemoryStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closed = true
	m.data = nil
	return nil
}

// Len returns the number of stored definitions across all kinds.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	count := 0
	for _, names := range m.data {
		count += len(names)
	}
	return count
}
