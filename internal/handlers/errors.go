package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"
	"github.com/serroba/shorturls/internal/audit"
	"github.com/serroba/shorturls/internal/shortener"
	"go.uber.org/zap"
)

// Error messages returned to callers.
const (
	MsgMissingURL      = "Missing URL"
	MsgInvalidValidity = "validity must be a positive number of minutes, at most ten years"
	MsgNotFound        = "Short URL not found"
	MsgExpired         = "Short URL has expired"
	MsgRouteNotFound   = "Route not found"
	MsgCreateFailed    = "failed to create short url"
)

// APIError is the error body of every failed request.
type APIError struct {
	status  int
	Message string `json:"message" doc:"Human readable error message"`
}

func (e *APIError) Error() string {
	return e.Message
}

// GetStatus implements huma.StatusError.
func (e *APIError) GetStatus() int {
	return e.status
}

func init() {
	huma.NewError = newAPIError
}

// newAPIError replaces huma's problem+json errors with {"message": ...}.
// Request validation failures are reported as 400.
func newAPIError(status int, msg string, errs ...error) huma.StatusError {
	if status == http.StatusUnprocessableEntity {
		status = http.StatusBadRequest
	}

	details := make([]string, 0, len(errs))
	for _, err := range errs {
		if err != nil {
			details = append(details, err.Error())
		}
	}

	if len(details) > 0 {
		msg = fmt.Sprintf("%s: %s", msg, strings.Join(details, "; "))
	}

	return &APIError{status: status, Message: msg}
}

// RouteNotFound answers unmatched routes and methods with a 404 and audits them.
func RouteNotFound(auditor shortener.Auditor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		auditor.Record(audit.LevelWarn, audit.PackageRoute,
			fmt.Sprintf("Unknown route: %s %s", r.Method, r.URL.Path))

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(APIError{Message: MsgRouteNotFound})
	}
}

// toAPIError maps domain errors to HTTP errors. Anything unexpected is
// logged and reported as a 500 with fallback as message.
func (h *URLHandler) toAPIError(err error, code, fallback string) error {
	switch {
	case errors.Is(err, shortener.ErrMissingURL):
		return huma.Error400BadRequest(MsgMissingURL)
	case errors.Is(err, shortener.ErrInvalidValidity):
		return huma.Error400BadRequest(MsgInvalidValidity)
	case errors.Is(err, shortener.ErrNotFound):
		return huma.Error404NotFound(MsgNotFound)
	case errors.Is(err, shortener.ErrExpired):
		return huma.Error410Gone(MsgExpired)
	}

	h.logger.Error(fallback, zap.String("code", code), zap.Error(err))

	return huma.Error500InternalServerError(fallback)
}
