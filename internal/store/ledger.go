package store

import (
	"time"

	"github.com/serroba/shorturls/internal/shortener"
)

// clickLedger tracks clicks per code. It is not safe for concurrent use;
// MemoryStore guards it with the same lock as the link table.
type clickLedger struct {
	entries map[shortener.Code][]time.Time
}

func newClickLedger() *clickLedger {
	return &clickLedger{
		entries: make(map[shortener.Code][]time.Time),
	}
}

// init creates an empty entry for code.
func (l *clickLedger) init(code shortener.Code) error {
	if _, ok := l.entries[code]; ok {
		return shortener.ErrConflict
	}

	l.entries[code] = []time.Time{}

	return nil
}

// record appends a click. Timestamps earlier than the last click are
// clamped to it so the history never goes backwards.
func (l *clickLedger) record(code shortener.Code, at time.Time) error {
	clicks, ok := l.entries[code]
	if !ok {
		return shortener.ErrNotFound
	}

	if n := len(clicks); n > 0 && at.Before(clicks[n-1]) {
		at = clicks[n-1]
	}

	l.entries[code] = append(clicks, at)

	return nil
}

// count returns the number of clicks for code, or zero when unknown.
func (l *clickLedger) count(code shortener.Code) int {
	return len(l.entries[code])
}

// get returns a copy of the entry for code.
func (l *clickLedger) get(code shortener.Code) (*shortener.Ledger, error) {
	clicks, ok := l.entries[code]
	if !ok {
		return nil, shortener.ErrNotFound
	}

	out := make([]time.Time, len(clicks))
	copy(out, clicks)

	return &shortener.Ledger{
		ClickCount: len(out),
		Clicks:     out,
	}, nil
}
