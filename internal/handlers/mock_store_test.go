package handlers_test

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/serroba/shorturls/internal/audit"
	"github.com/serroba/shorturls/internal/shortener"
)

var errMock = errors.New("mock error")

const testURL = "https://example.com"

// mockStore is a test double for shortener.Repository that fails on demand.
type mockStore struct {
	existsErr    error
	insertErr    error
	getByCodeErr error
	listErr      error
}

func (m *mockStore) Exists(_ context.Context, _ shortener.Code) (bool, error) {
	return false, m.existsErr
}

func (m *mockStore) Insert(_ context.Context, _ *shortener.Link) error {
	return m.insertErr
}

func (m *mockStore) GetByCode(_ context.Context, _ shortener.Code) (*shortener.Link, error) {
	if m.getByCodeErr != nil {
		return nil, m.getByCodeErr
	}

	return &shortener.Link{Code: "abc123", OriginalURL: testURL, ExpiresAt: time.Now().Add(time.Hour)}, nil
}

func (m *mockStore) RecordClick(_ context.Context, _ shortener.Code, _ time.Time) error {
	return nil
}

func (m *mockStore) GetLedger(_ context.Context, _ shortener.Code) (*shortener.Ledger, error) {
	return &shortener.Ledger{}, nil
}

func (m *mockStore) List(_ context.Context) ([]shortener.Summary, error) {
	return nil, m.listErr
}

// recordingAuditor keeps audit messages for assertions.
type recordingAuditor struct {
	mu       sync.Mutex
	messages []string
}

func (r *recordingAuditor) Record(_ audit.Level, _, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.messages = append(r.messages, message)
}

func (r *recordingAuditor) recorded() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]string(nil), r.messages...)
}
