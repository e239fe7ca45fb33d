package handlers

import (
	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	_ "github.com/danielgtaylor/huma/v2/formats/cbor" // CBOR format support for huma
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/serroba/shorturls/internal/middleware"
	"github.com/serroba/shorturls/internal/shortener"
	"go.uber.org/zap"
)

// Operational paths live under /_meta so they never shadow a shortcode.
const (
	OpenAPIPath = "/_meta/openapi"
	SchemasPath = "/_meta/schemas"
)

// NewRouter returns a chi router with request ids, access logging, panic
// recovery and the JSON 404 fallback installed.
func NewRouter(logger *zap.Logger, auditor shortener.Auditor) *chi.Mux {
	router := chi.NewMux()
	router.Use(chimw.RequestID, middleware.AccessLog(logger), chimw.Recoverer)

	notFound := RouteNotFound(auditor)
	router.NotFound(notFound)
	router.MethodNotAllowed(notFound)

	return router
}

// NewAPI creates the huma API on top of router.
func NewAPI(router chi.Router, title, version string) huma.API {
	config := huma.DefaultConfig(title, version)
	config.OpenAPIPath = OpenAPIPath
	config.SchemasPath = SchemasPath
	config.DocsPath = ""
	// Drop the $schema link huma adds to every response body.
	config.CreateHooks = nil

	return humachi.New(router, config)
}
