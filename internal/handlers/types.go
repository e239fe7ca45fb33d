package handlers

import (
	"time"

	"github.com/serroba/shorturls/internal/shortener"
)

// TimeFormat is ISO-8601 in UTC with millisecond precision.
const TimeFormat = "2006-01-02T15:04:05.000Z07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(TimeFormat)
}

// CreateShortURLRequest is the request body for creating a short URL.
type CreateShortURLRequest struct {
	Body struct {
		_         struct{} `additionalProperties:"true"                   json:"-"`
		URL       string   `doc:"The URL to shorten"                      example:"https://example.com/very/long/path" json:"url,omitempty"`
		Validity  int      `doc:"Lifetime in minutes, defaults to 30"     example:"30"                                 json:"validity,omitempty"`
		Shortcode string   `doc:"Preferred short code, replaced if taken" example:"abc123"                             json:"shortcode,omitempty"`
	} `required:"false"`
}

// CreateShortURLResponse is the response for a successfully created short URL.
type CreateShortURLResponse struct {
	Location string `doc:"The short link" header:"Location"`
	Body     struct {
		ShortLink string `doc:"The full short link"           example:"http://localhost:3000/abc123" json:"shortLink"`
		Expiry    string `doc:"Expiry time of the short link" example:"2025-01-01T12:30:00.000Z"     json:"expiry"`
	}
}

// RedirectRequest is the request for redirecting a short URL.
type RedirectRequest struct {
	Shortcode string `doc:"The short code" example:"abc123" path:"shortcode"`
}

// RedirectResponse is the redirect to the original URL.
type RedirectResponse struct {
	Status   int
	Location string `doc:"The original URL" header:"Location"`
}

// StatsRequest is the request for the stats of a short URL.
type StatsRequest struct {
	Shortcode string `doc:"The short code" example:"abc123" path:"shortcode"`
}

// Click is a single recorded redirect.
type Click struct {
	Timestamp string `doc:"When the redirect happened" json:"timestamp"`
}

// StatsResponse is the click history of a short URL.
type StatsResponse struct {
	Body struct {
		Shortcode   string  `json:"shortcode"`
		OriginalURL string  `json:"originalUrl"`
		CreatedAt   string  `json:"createdAt"`
		ExpiryTime  string  `json:"expiryTime"`
		ClickCount  int     `json:"clickCount"`
		Clicks      []Click `json:"clicks"`
	}
}

func newStatsResponse(stats *shortener.Stats) *StatsResponse {
	resp := &StatsResponse{}
	resp.Body.Shortcode = string(stats.Code)
	resp.Body.OriginalURL = stats.OriginalURL
	resp.Body.CreatedAt = formatTime(stats.CreatedAt)
	resp.Body.ExpiryTime = formatTime(stats.ExpiresAt)
	resp.Body.ClickCount = stats.ClickCount
	resp.Body.Clicks = make([]Click, 0, len(stats.Clicks))

	for _, at := range stats.Clicks {
		resp.Body.Clicks = append(resp.Body.Clicks, Click{Timestamp: formatTime(at)})
	}

	return resp
}

// LinkView is a stored link in the debug listing.
type LinkView struct {
	Shortcode   string `json:"shortcode"`
	OriginalURL string `json:"originalUrl"`
	CreatedAt   string `json:"createdAt"`
	ExpiryTime  string `json:"expiryTime"`
}

// LinkCount is the click count of a stored link in the debug listing.
type LinkCount struct {
	Shortcode  string `json:"shortcode"`
	ClickCount int    `json:"clickCount"`
	Clicks     int    `json:"clicks"`
}

// ListResponse lists every stored link and its click count.
type ListResponse struct {
	Body struct {
		URLs  []LinkView  `json:"urls"`
		Stats []LinkCount `json:"stats"`
	}
}

func newListResponse(links []shortener.Summary) *ListResponse {
	resp := &ListResponse{}
	resp.Body.URLs = make([]LinkView, 0, len(links))
	resp.Body.Stats = make([]LinkCount, 0, len(links))

	for _, l := range links {
		resp.Body.URLs = append(resp.Body.URLs, LinkView{
			Shortcode:   string(l.Code),
			OriginalURL: l.OriginalURL,
			CreatedAt:   formatTime(l.CreatedAt),
			ExpiryTime:  formatTime(l.ExpiresAt),
		})
		resp.Body.Stats = append(resp.Body.Stats, LinkCount{
			Shortcode:  string(l.Code),
			ClickCount: l.ClickCount,
			Clicks:     l.ClickCount,
		})
	}

	return resp
}
