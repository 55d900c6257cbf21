package store

import (
	"context"
	"sync"
	"time"

	"github.com/JonMunkholm/datalens/internal/report"
)

// DefaultMemoryCapacity bounds MemoryStore when no capacity is given.
const DefaultMemoryCapacity = 50

// MemoryStore keeps the most recent reports in process memory. Once full,
// saving a new report evicts the oldest one.
type MemoryStore struct {
	capacity int
	now      func() time.Time

	mu    sync.RWMutex
	docs  map[string]*report.Document
	order []Entry // oldest first
}

// NewMemoryStore creates a store holding at most capacity reports.
func NewMemoryStore(capacity int) *MemoryStore {
	if capacity <= 0 {
		capacity = DefaultMemoryCapacity
	}
	return &MemoryStore{
		capacity: capacity,
		now:      time.Now,
		docs:     make(map[string]*report.Document, capacity),
	}
}

// Save stores doc, replacing any report with the same id.
func (m *MemoryStore) Save(_ context.Context, doc *report.Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.docs[doc.ID]; exists {
		m.removeLocked(doc.ID)
	}
	for len(m.order) >= m.capacity {
		oldest := m.order[0]
		m.order = m.order[1:]
		delete(m.docs, oldest.ID)
	}

	m.docs[doc.ID] = doc
	m.order = append(m.order, entryFor(doc, m.now()))
	return nil
}

// Get returns the report for id or ErrReportNotFound.
func (m *MemoryStore) Get(_ context.Context, id string) (*report.Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	doc, ok := m.docs[id]
	if !ok {
		return nil, ErrReportNotFound
	}
	return doc, nil
}

// List returns up to limit entries, newest first. limit <= 0 returns all.
func (m *MemoryStore) List(_ context.Context, limit int) ([]Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	n := len(m.order)
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]Entry, 0, n)
	for i := len(m.order) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, m.order[i])
	}
	return out, nil
}

// Purge drops reports saved before cutoff.
func (m *MemoryStore) Purge(_ context.Context, cutoff time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := 0
	for n < len(m.order) && m.order[n].CreatedAt.Before(cutoff) {
		delete(m.docs, m.order[n].ID)
		n++
	}
	m.order = m.order[n:]
	return int64(n), nil
}

// Len returns the number of stored reports.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.docs)
}

func (m *MemoryStore) removeLocked(id string) {
	delete(m.docs, id)
	for i, e := range m.order {
		if e.ID == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			return
		}
	}
}
