package handlers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/serroba/shorturls/internal/shortener"
	"go.uber.org/zap"
)

// Shortener is the link service the handlers delegate to.
type Shortener interface {
	Shorten(ctx context.Context, req shortener.ShortenRequest) (*shortener.Link, error)
	Resolve(ctx context.Context, code shortener.Code) (*shortener.Link, error)
	Stats(ctx context.Context, code shortener.Code) (*shortener.Stats, error)
	List(ctx context.Context) ([]shortener.Summary, error)
}

// URLHandler handles URL shortening operations.
type URLHandler struct {
	service Shortener
	baseURL string
	logger  *zap.Logger
}

// NewURLHandler creates a new URL handler. Short links are built as baseURL/code.
func NewURLHandler(service Shortener, baseURL string, logger *zap.Logger) *URLHandler {
	return &URLHandler{
		service: service,
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  logger,
	}
}

func (h *URLHandler) CreateShortURL(ctx context.Context, req *CreateShortURLRequest) (*CreateShortURLResponse, error) {
	link, err := h.service.Shorten(ctx, shortener.ShortenRequest{
		URL:             req.Body.URL,
		ValidityMinutes: req.Body.Validity,
		Code:            req.Body.Shortcode,
	})
	if err != nil {
		return nil, h.toAPIError(err, req.Body.Shortcode, MsgCreateFailed)
	}

	shortLink := fmt.Sprintf("%s/%s", h.baseURL, url.PathEscape(string(link.Code)))

	resp := &CreateShortURLResponse{}
	resp.Location = shortLink
	resp.Body.ShortLink = shortLink
	resp.Body.Expiry = formatTime(link.ExpiresAt)

	return resp, nil
}

func (h *URLHandler) RedirectToURL(ctx context.Context, req *RedirectRequest) (*RedirectResponse, error) {
	link, err := h.service.Resolve(ctx, shortener.Code(req.Shortcode))
	if err != nil {
		return nil, h.toAPIError(err, req.Shortcode, "failed to resolve short url")
	}

	return &RedirectResponse{
		Status:   http.StatusFound,
		Location: link.OriginalURL,
	}, nil
}

func (h *URLHandler) GetStats(ctx context.Context, req *StatsRequest) (*StatsResponse, error) {
	stats, err := h.service.Stats(ctx, shortener.Code(req.Shortcode))
	if err != nil {
		return nil, h.toAPIError(err, req.Shortcode, "failed to load stats")
	}

	return newStatsResponse(stats), nil
}

func (h *URLHandler) ListURLs(ctx context.Context, _ *struct{}) (*ListResponse, error) {
	links, err := h.service.List(ctx)
	if err != nil {
		return nil, h.toAPIError(err, "", "failed to list short urls")
	}

	return newListResponse(links), nil
}
