package shortener_test

import (
	"context"
	"time"

	"github.com/serroba/shorturls/internal/shortener"
)

// mockStore is a test double for Repository that can be configured to return errors.
type mockStore struct {
	link       *shortener.Link
	existsErr  error
	insertErrs []error
	clickErr   error
	ledgerErr  error
	inserted   []shortener.Code
}

func (m *mockStore) Exists(_ context.Context, _ shortener.Code) (bool, error) {
	return false, m.existsErr
}

func (m *mockStore) Insert(_ context.Context, link *shortener.Link) error {
	m.inserted = append(m.inserted, link.Code)

	if len(m.insertErrs) > 0 {
		err := m.insertErrs[0]
		m.insertErrs = m.insertErrs[1:]

		return err
	}

	return nil
}

func (m *mockStore) GetByCode(_ context.Context, _ shortener.Code) (*shortener.Link, error) {
	if m.link == nil {
		return nil, shortener.ErrNotFound
	}

	link := *m.link

	return &link, nil
}

func (m *mockStore) RecordClick(_ context.Context, _ shortener.Code, _ time.Time) error {
	return m.clickErr
}

func (m *mockStore) GetLedger(_ context.Context, _ shortener.Code) (*shortener.Ledger, error) {
	if m.ledgerErr != nil {
		return nil, m.ledgerErr
	}

	return &shortener.Ledger{}, nil
}

func (m *mockStore) List(_ context.Context) ([]shortener.Summary, error) {
	return nil, nil
}
