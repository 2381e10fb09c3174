// Package gemini calls the Gemini generateContent REST API.
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	DefaultModel   = "gemini-1.5-flash-latest"
	DefaultBaseURL = "https://generativelanguage.googleapis.com/v1"
)

// Client talks to one model with one API key. Keys live in the stored
// configuration, so clients are cheap to construct per request.
type Client struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
}

func New(apiKey, model, baseURL string) *Client {
	if strings.TrimSpace(model) == "" {
		model = DefaultModel
	}
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// Model returns the effective model name after defaulting.
func (c *Client) Model() string {
	return c.model
}

// APIError is a non-2xx answer from the Gemini API, carrying the upstream
// message when one could be extracted.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("gemini: status %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("gemini: status %d", e.StatusCode)
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

type errorResponse struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// GenerateText sends a single-turn user prompt and returns the model's
// text output. The result may be empty when the model returned no usable
// candidate parts; callers decide how to surface that.
func (c *Client) GenerateText(ctx context.Context, prompt string) (string, error) {
	payload, err := json.Marshal(generateRequest{
		Contents: []content{{
			Role:  "user",
			Parts: []part{{Text: prompt}},
		}},
	})
	if err != nil {
		return "", err
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent?key=%s",
		c.baseURL, url.PathEscape(c.model), url.QueryEscape(c.apiKey))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var errPayload errorResponse
		if decodeErr := json.NewDecoder(resp.Body).Decode(&errPayload); decodeErr == nil {
			apiErr.Message = errPayload.Error.Message
		}
		return "", apiErr
	}

	var result generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", err
	}
	return extractText(result), nil
}

func extractText(result generateResponse) string {
	if len(result.Candidates) == 0 {
		return ""
	}

	parts := result.Candidates[0].Content.Parts
	texts := make([]string, 0, len(parts))
	for _, p := range parts {
		texts = append(texts, p.Text)
	}
	return strings.TrimSpace(strings.Join(texts, "\n"))
}
