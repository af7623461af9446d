package music

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.Default()
}

func TestClientRecommend(t *testing.T) {
	var gotQuery map[string]string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = map[string]string{
			"q":          r.URL.Query().Get("q"),
			"maxResults": r.URL.Query().Get("maxResults"),
			"type":       r.URL.Query().Get("type"),
			"key":        r.URL.Query().Get("key"),
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"items": []map[string]any{
				{
					"id": map[string]string{"videoId": "abc123"},
					"snippet": map[string]any{
						"title":       "Calm Piano Mix",
						"description": "#calm #piano #relax",
						"thumbnails": map[string]any{
							"medium": map[string]string{"url": "https://img.example/abc123.jpg"},
						},
					},
				},
			},
		})
	}))
	defer srv.Close()

	client := NewClientWithURL(srv.URL, "yt-key", testLogger())

	rec, err := client.Recommend(context.Background(), "calm")
	require.NoError(t, err)
	assert.Equal(t, "Calm Piano Mix", rec.Title)
	assert.Equal(t, "abc123", rec.VideoID)
	assert.Equal(t, "https://img.example/abc123.jpg", rec.Thumbnail)
	assert.Equal(t, "#calm #piano #relax", rec.Hashtags)

	assert.Equal(t, "best songs for calm mood", gotQuery["q"])
	assert.Equal(t, "1", gotQuery["maxResults"])
	assert.Equal(t, "video", gotQuery["type"])
	assert.Equal(t, "yt-key", gotQuery["key"])
}

func TestClientRecommendNoResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"items": []any{}})
	}))
	defer srv.Close()

	client := NewClientWithURL(srv.URL, "yt-key", testLogger())

	_, err := client.Recommend(context.Background(), "nothing")
	assert.ErrorIs(t, err, ErrNoResults)
}

func TestClientRecommendUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	client := NewClientWithURL(srv.URL, "yt-key", testLogger())

	_, err := client.Recommend(context.Background(), "calm")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
}

func TestClientNotConfigured(t *testing.T) {
	client := NewClient("", testLogger())
	assert.False(t, client.Configured())

	_, err := client.Recommend(context.Background(), "calm")
	assert.ErrorIs(t, err, ErrNotConfigured)
}
