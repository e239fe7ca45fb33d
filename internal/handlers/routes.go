package handlers

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

// RegisterRoutes registers all URL shortener routes.
func RegisterRoutes(api huma.API, urlHandler *URLHandler) {
	huma.Register(api, huma.Operation{
		OperationID:   "create-short-url",
		Method:        http.MethodPost,
		Path:          "/shorturls",
		Summary:       "Create short URL",
		Description:   "Creates a short link. A taken or unusable shortcode is replaced by a generated one.",
		Tags:          []string{"URLs"},
		DefaultStatus: http.StatusCreated,
		Errors:        []int{http.StatusBadRequest, http.StatusInternalServerError},
	}, urlHandler.CreateShortURL)

	huma.Register(api, huma.Operation{
		OperationID: "get-short-url-stats",
		Method:      http.MethodGet,
		Path:        "/shorturls/{shortcode}",
		Summary:     "Get short URL stats",
		Description: "Returns the link and its click history. Expired links are included.",
		Tags:        []string{"URLs"},
		Errors:      []int{http.StatusNotFound},
	}, urlHandler.GetStats)

	huma.Register(api, huma.Operation{
		OperationID: "list-short-urls",
		Method:      http.MethodGet,
		Path:        "/debug/urls",
		Summary:     "List short URLs",
		Description: "Lists every stored link with its click count.",
		Tags:        []string{"Debug"},
	}, urlHandler.ListURLs)

	// Registered last; static routes above take precedence in chi anyway.
	huma.Register(api, huma.Operation{
		OperationID:   "redirect",
		Method:        http.MethodGet,
		Path:          "/{shortcode}",
		Summary:       "Redirect to original URL",
		Description:   "Redirects to the original URL and records a click.",
		Tags:          []string{"URLs"},
		DefaultStatus: http.StatusFound,
		Errors:        []int{http.StatusNotFound, http.StatusGone},
	}, urlHandler.RedirectToURL)
}
