package shortener

import (
	"context"
	"time"
)

// Repository is the link store and click ledger behind the service.
//
// Implementations must make Insert atomic: a link and its zeroed ledger
// become visible together, and at most one Insert per code succeeds.
type Repository interface {
	// Exists reports whether a link is stored for code, expired or not.
	Exists(ctx context.Context, code Code) (bool, error)

	// Insert stores link with an empty ledger. Returns ErrConflict if the code is taken.
	Insert(ctx context.Context, link *Link) error

	// GetByCode returns a copy of the link for code or ErrNotFound.
	GetByCode(ctx context.Context, code Code) (*Link, error)

	// RecordClick appends a click at the given time. Returns ErrNotFound if no ledger exists.
	RecordClick(ctx context.Context, code Code, at time.Time) error

	// GetLedger returns a copy of the ledger for code or ErrNotFound.
	GetLedger(ctx context.Context, code Code) (*Ledger, error)

	// List returns every stored link with its click count, ordered by creation time.
	List(ctx context.Context) ([]Summary, error)
}
