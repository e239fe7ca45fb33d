package shortener

import "errors"

var (
	// ErrNotFound is returned when no link exists for a code.
	ErrNotFound = errors.New("short url not found")
	// ErrConflict is returned by a Repository when a code is already taken.
	ErrConflict = errors.New("short code already exists")
	// ErrExpired is returned when redirecting a link past its expiry.
	ErrExpired = errors.New("short url has expired")
	// ErrMissingURL is returned when the url to shorten is empty.
	ErrMissingURL = errors.New("missing url")
	// ErrInvalidValidity is returned for a negative validity.
	ErrInvalidValidity = errors.New("validity must be a positive number of minutes, at most ten years")
	// ErrGenerationExhausted is returned when no free code was found within the attempt cap.
	ErrGenerationExhausted = errors.New("could not allocate a free short code")
)

// IsValidationError reports whether err is caused by bad caller input.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrMissingURL) || errors.Is(err, ErrInvalidValidity)
}
