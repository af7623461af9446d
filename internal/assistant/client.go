// Package assistant proxies prompts to the external generative-language API.
package assistant

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"carezy/internal/models"

	"github.com/go-resty/resty/v2"
)

const defaultBaseURL = "https://generativelanguage.googleapis.com/v1/models/gemini-1.5-pro:generateContent"

// ErrNotConfigured is returned when no API key is set.
var ErrNotConfigured = models.NewValidationError("AI service is not configured")

// Completer produces a completion for a prompt. Satisfied by *Client and by
// test fakes.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Client calls the generative-language completion endpoint.
type Client struct {
	baseURL string
	apiKey  string
	http    *resty.Client
	log     *slog.Logger
}

// NewClient creates a Client with the default completion endpoint.
func NewClient(apiKey string, logger *slog.Logger) *Client {
	return NewClientWithURL(defaultBaseURL, apiKey, logger)
}

// NewClientWithURL creates a Client with a custom endpoint (for testing).
func NewClientWithURL(baseURL, apiKey string, logger *slog.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    resty.New().SetTimeout(30 * time.Second),
		log:     logger.With("adapter", "assistant"),
	}
}

// Configured reports whether an API key is present.
func (c *Client) Configured() bool {
	return c.apiKey != ""
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Role  string `json:"role"`
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []part `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// Complete sends the prompt as a single user turn and returns the first
// candidate's text. The call is never retried.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	if !c.Configured() {
		return "", ErrNotConfigured
	}

	var out generateResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("key", c.apiKey).
		SetBody(generateRequest{
			Contents: []content{{Role: "user", Parts: []part{{Text: prompt}}}},
		}).
		SetResult(&out).
		Post(c.baseURL)
	if err != nil {
		c.log.ErrorContext(ctx, "completion request failed", slog.String("error", err.Error()))
		return "", fmt.Errorf("assistant: request failed: %w", err)
	}
	if resp.IsError() {
		c.log.ErrorContext(ctx, "completion request rejected", slog.Int("status", resp.StatusCode()))
		return "", fmt.Errorf("assistant: unexpected status %d", resp.StatusCode())
	}

	if len(out.Candidates) == 0 || len(out.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("assistant: response contains no candidates")
	}

	c.log.InfoContext(ctx, "completion received")
	return out.Candidates[0].Content.Parts[0].Text, nil
}
