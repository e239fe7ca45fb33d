package shortener

import "time"

// Code represents a short URL code.
type Code string

// Link is the immutable record behind a short code.
type Link struct {
	Code        Code
	OriginalURL string
	CreatedAt   time.Time
	ExpiresAt   time.Time
}

// Expired reports whether the link can no longer be used for redirection at now.
// A link is still live at exactly its expiry instant.
func (l *Link) Expired(now time.Time) bool {
	return now.After(l.ExpiresAt)
}

// Ledger holds the click history of a single code.
// ClickCount always equals len(Clicks) and Clicks is in arrival order.
type Ledger struct {
	ClickCount int
	Clicks     []time.Time
}

// Stats is the combined view of a link and its click ledger.
type Stats struct {
	Link
	Ledger
}

// Summary is a link together with its click count, used for listings.
type Summary struct {
	Link
	ClickCount int
}
