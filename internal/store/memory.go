package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/serroba/shorturls/internal/shortener"
)

// MemoryStore is an in-memory implementation of shortener.Repository.
// A single lock covers links and clicks, so inserts and click recording
// are atomic with respect to each other.
type MemoryStore struct {
	mu     sync.RWMutex
	links  map[shortener.Code]shortener.Link
	ledger *clickLedger
}

// NewMemoryStore creates a new in-memory link store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		links:  make(map[shortener.Code]shortener.Link),
		ledger: newClickLedger(),
	}
}

func (m *MemoryStore) Exists(_ context.Context, code shortener.Code) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, ok := m.links[code]

	return ok, nil
}

func (m *MemoryStore) Insert(_ context.Context, link *shortener.Link) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.links[link.Code]; ok {
		return shortener.ErrConflict
	}

	if err := m.ledger.init(link.Code); err != nil {
		return err
	}

	m.links[link.Code] = *link

	return nil
}

func (m *MemoryStore) GetByCode(_ context.Context, code shortener.Code) (*shortener.Link, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	link, ok := m.links[code]
	if !ok {
		return nil, shortener.ErrNotFound
	}

	return &link, nil
}

func (m *MemoryStore) RecordClick(_ context.Context, code shortener.Code, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.ledger.record(code, at)
}

func (m *MemoryStore) GetLedger(_ context.Context, code shortener.Code) (*shortener.Ledger, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.ledger.get(code)
}

func (m *MemoryStore) List(_ context.Context) ([]shortener.Summary, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]shortener.Summary, 0, len(m.links))
	for code, link := range m.links {
		out = append(out, shortener.Summary{
			Link:       link,
			ClickCount: m.ledger.count(code),
		})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].Code < out[j].Code
		}

		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})

	return out, nil
}

// Ping reports the store as reachable; it lives in process.
func (m *MemoryStore) Ping(_ context.Context) error {
	return nil
}

// Compile-time check.
var _ shortener.Repository = (*MemoryStore)(nil)
