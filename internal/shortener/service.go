package shortener

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/serroba/shorturls/internal/audit"
)

const (
	// DefaultValidityMinutes is applied when a request carries no validity.
	DefaultValidityMinutes = 30
	// DefaultMaxAttempts caps code generation per request.
	DefaultMaxAttempts = 10
	// MaxValidityMinutes is the longest accepted validity, ten years.
	MaxValidityMinutes = 10 * 365 * 24 * 60
)

// Auditor receives audit events at the service's decision points.
// Implementations must not block.
type Auditor interface {
	Record(level audit.Level, pkg, message string)
}

// ShortenRequest is the input to Shorten.
type ShortenRequest struct {
	URL             string
	ValidityMinutes int
	Code            string
}

// Service creates links, resolves them for redirection and reports their stats.
type Service struct {
	store           Repository
	generateCode    CodeGenerator
	audit           Auditor
	defaultValidity int
	maxAttempts     int
	now             func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithDefaultValidity sets the validity in minutes used when a request has none.
func WithDefaultValidity(minutes int) Option {
	return func(s *Service) {
		if minutes > 0 && minutes <= MaxValidityMinutes {
			s.defaultValidity = minutes
		}
	}
}

// WithMaxAttempts sets how many generated codes are tried before giving up.
func WithMaxAttempts(attempts int) Option {
	return func(s *Service) {
		if attempts > 0 {
			s.maxAttempts = attempts
		}
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// NewService creates a new link service.
func NewService(store Repository, generator CodeGenerator, auditor Auditor, opts ...Option) *Service {
	s := &Service{
		store:           store,
		generateCode:    generator,
		audit:           auditor,
		defaultValidity: DefaultValidityMinutes,
		maxAttempts:     DefaultMaxAttempts,
		now:             time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Shorten stores a new link for req.URL.
//
// A requested code is used when it is free. A taken or malformed one is
// replaced by a generated code instead of failing the request.
func (s *Service) Shorten(ctx context.Context, req ShortenRequest) (*Link, error) {
	url := req.URL
	if strings.TrimSpace(url) == "" {
		s.audit.Record(audit.LevelError, audit.PackageRoute, "Missing URL")

		return nil, ErrMissingURL
	}

	if req.ValidityMinutes < 0 || req.ValidityMinutes > MaxValidityMinutes {
		s.audit.Record(audit.LevelError, audit.PackageRoute,
			fmt.Sprintf("Invalid validity %d for %s", req.ValidityMinutes, url))

		return nil, ErrInvalidValidity
	}

	s.audit.Record(audit.LevelInfo, audit.PackageRoute, "Shortening "+url)

	validity := req.ValidityMinutes
	if validity == 0 {
		validity = s.defaultValidity
		s.audit.Record(audit.LevelWarn, audit.PackageRoute,
			fmt.Sprintf("No validity provided, using default %d mins", validity))
	}

	now := s.now()
	link := &Link{
		OriginalURL: url,
		CreatedAt:   now,
		ExpiresAt:   now.Add(time.Duration(validity) * time.Minute),
	}

	claimed, err := s.claimRequested(ctx, link, req.Code)
	if err != nil {
		return nil, err
	}

	if !claimed {
		if err = s.claimGenerated(ctx, link); err != nil {
			return nil, err
		}
	}

	s.audit.Record(audit.LevelInfo, audit.PackageDB,
		fmt.Sprintf("Stored shortcode %s for %s", link.Code, url))

	return link, nil
}

// claimRequested tries to store link under the caller's code.
// It reports false when generation has to take over.
func (s *Service) claimRequested(ctx context.Context, link *Link, requested string) (bool, error) {
	if requested == "" {
		s.audit.Record(audit.LevelWarn, audit.PackageRoute, "No shortcode provided, generating automatically")

		return false, nil
	}

	if !ValidCode(requested) {
		s.audit.Record(audit.LevelWarn, audit.PackageRoute,
			fmt.Sprintf("Shortcode %q is not usable. Generating new one.", requested))

		return false, nil
	}

	code := Code(requested)

	exists, err := s.store.Exists(ctx, code)
	if err != nil {
		return false, fmt.Errorf("check shortcode: %w", err)
	}

	if !exists {
		link.Code = code

		err = s.store.Insert(ctx, link)
		if err == nil {
			return true, nil
		}

		link.Code = ""

		if !errors.Is(err, ErrConflict) {
			return false, fmt.Errorf("store link: %w", err)
		}
	}

	s.audit.Record(audit.LevelWarn, audit.PackageDB,
		fmt.Sprintf("Shortcode %s already exists. Generating new one.", requested))

	return false, nil
}

// claimGenerated stores link under the first free generated code.
func (s *Service) claimGenerated(ctx context.Context, link *Link) error {
	for range s.maxAttempts {
		code := Code(s.generateCode())

		exists, err := s.store.Exists(ctx, code)
		if err != nil {
			return fmt.Errorf("check shortcode: %w", err)
		}

		if exists {
			continue
		}

		link.Code = code

		err = s.store.Insert(ctx, link)
		if err == nil {
			return nil
		}

		link.Code = ""

		if !errors.Is(err, ErrConflict) {
			return fmt.Errorf("store link: %w", err)
		}
	}

	s.audit.Record(audit.LevelError, audit.PackageDB,
		fmt.Sprintf("No free shortcode after %d attempts", s.maxAttempts))

	return ErrGenerationExhausted
}

// Resolve returns the link for code and records a click.
// Expired links return ErrExpired and are not counted.
func (s *Service) Resolve(ctx context.Context, code Code) (*Link, error) {
	link, err := s.store.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			s.audit.Record(audit.LevelError, audit.PackageRoute,
				fmt.Sprintf("Shortcode %s not found in database", code))
		}

		return nil, err
	}

	now := s.now()
	if link.Expired(now) {
		s.audit.Record(audit.LevelWarn, audit.PackageRoute, fmt.Sprintf("Shortcode %s has expired", code))

		return nil, ErrExpired
	}

	if err = s.store.RecordClick(ctx, code, now); err != nil {
		return nil, fmt.Errorf("record click: %w", err)
	}

	s.audit.Record(audit.LevelInfo, audit.PackageRoute,
		fmt.Sprintf("Redirecting %s to %s", code, link.OriginalURL))

	return link, nil
}

// Stats returns the link and its click history. Expired links are included.
func (s *Service) Stats(ctx context.Context, code Code) (*Stats, error) {
	link, err := s.store.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			s.audit.Record(audit.LevelError, audit.PackageRoute,
				fmt.Sprintf("Stats requested for unknown shortcode: %s", code))
		}

		return nil, err
	}

	ledger, err := s.store.GetLedger(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("load click ledger: %w", err)
	}

	s.audit.Record(audit.LevelInfo, audit.PackageRoute, fmt.Sprintf("Stats served for shortcode: %s", code))

	return &Stats{Link: *link, Ledger: *ledger}, nil
}

// List returns every link with its click count.
func (s *Service) List(ctx context.Context) ([]Summary, error) {
	links, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}

	s.audit.Record(audit.LevelInfo, audit.PackageRoute, "Debug endpoint accessed")

	return links, nil
}
