// Package music looks up mood-matched songs via the external video-search API.
package music

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"carezy/internal/models"

	"github.com/go-resty/resty/v2"
)

const defaultBaseURL = "https://www.googleapis.com/youtube/v3/search"

// ErrNotConfigured is returned when no API key is set.
var ErrNotConfigured = models.NewValidationError("music service is not configured")

// ErrNoResults is returned when the search yields no videos.
var ErrNoResults = models.NewNotFoundError("Video", "mood search")

// Recommendation is a single video suggestion for a mood.
type Recommendation struct {
	Title     string `json:"title"`
	VideoID   string `json:"videoId"`
	Thumbnail string `json:"thumbnail"`
	Hashtags  string `json:"hashtags"`
}

// Recommender finds one song recommendation for a mood. Satisfied by *Client
// and by test fakes.
type Recommender interface {
	Recommend(ctx context.Context, mood string) (*Recommendation, error)
}

// Client calls the video-search endpoint.
type Client struct {
	baseURL string
	apiKey  string
	http    *resty.Client
	log     *slog.Logger
}

// NewClient creates a Client with the default search endpoint.
func NewClient(apiKey string, logger *slog.Logger) *Client {
	return NewClientWithURL(defaultBaseURL, apiKey, logger)
}

// NewClientWithURL creates a Client with a custom base URL (for testing).
func NewClientWithURL(baseURL, apiKey string, logger *slog.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    resty.New().SetTimeout(10 * time.Second),
		log:     logger.With("adapter", "music"),
	}
}

// Configured reports whether an API key is present.
func (c *Client) Configured() bool {
	return c.apiKey != ""
}

type searchResponse struct {
	Items []struct {
		ID struct {
			VideoID string `json:"videoId"`
		} `json:"id"`
		Snippet struct {
			Title       string `json:"title"`
			Description string `json:"description"`
			Thumbnails  struct {
				Medium struct {
					URL string `json:"url"`
				} `json:"medium"`
			} `json:"thumbnails"`
		} `json:"snippet"`
	} `json:"items"`
}

// Recommend searches for "best songs for <mood> mood" and maps the first hit.
func (c *Client) Recommend(ctx context.Context, mood string) (*Recommendation, error) {
	if !c.Configured() {
		return nil, ErrNotConfigured
	}

	var out searchResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"part":       "snippet",
			"type":       "video",
			"q":          fmt.Sprintf("best songs for %s mood", mood),
			"key":        c.apiKey,
			"maxResults": "1",
		}).
		SetResult(&out).
		Get(c.baseURL)
	if err != nil {
		c.log.ErrorContext(ctx, "video search failed", slog.String("mood", mood), slog.String("error", err.Error()))
		return nil, fmt.Errorf("music: request failed: %w", err)
	}
	if resp.IsError() {
		c.log.ErrorContext(ctx, "video search rejected", slog.Int("status", resp.StatusCode()))
		return nil, fmt.Errorf("music: unexpected status %d", resp.StatusCode())
	}

	if len(out.Items) == 0 {
		return nil, ErrNoResults
	}

	item := out.Items[0]
	return &Recommendation{
		Title:     item.Snippet.Title,
		VideoID:   item.ID.VideoID,
		Thumbnail: item.Snippet.Thumbnails.Medium.URL,
		Hashtags:  item.Snippet.Description,
	}, nil
}
