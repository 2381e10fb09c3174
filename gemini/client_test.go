package gemini

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateText(t *testing.T) {
	var gotPath, gotKey string
	var gotBody generateRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.URL.Query().Get("key")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"一行目"},{"text":"二行目"}]}}]}`))
	}))
	defer srv.Close()

	client := New("test-key", "gemini-pro", srv.URL)
	text, err := client.GenerateText(context.Background(), "prompt text")

	require.NoError(t, err)
	assert.Equal(t, "一行目\n二行目", text)
	assert.Equal(t, "/models/gemini-pro:generateContent", gotPath)
	assert.Equal(t, "test-key", gotKey)
	require.Len(t, gotBody.Contents, 1)
	assert.Equal(t, "user", gotBody.Contents[0].Role)
	require.Len(t, gotBody.Contents[0].Parts, 1)
	assert.Equal(t, "prompt text", gotBody.Contents[0].Parts[0].Text)
}

func TestGenerateTextUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":{"code":400,"message":"API key not valid.","status":"INVALID_ARGUMENT"}}`))
	}))
	defer srv.Close()

	client := New("bad-key", "", srv.URL)
	_, err := client.GenerateText(context.Background(), "prompt")

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, "API key not valid.", apiErr.Message)
}

func TestGenerateTextUpstreamErrorWithoutBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte("upstream on fire"))
	}))
	defer srv.Close()

	client := New("key", "", srv.URL)
	_, err := client.GenerateText(context.Background(), "prompt")

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusServiceUnavailable, apiErr.StatusCode)
	assert.Empty(t, apiErr.Message)
	assert.Equal(t, "gemini: status 503", apiErr.Error())
}

func TestGenerateTextEmptyCandidates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"candidates":[]}`))
	}))
	defer srv.Close()

	client := New("key", "", srv.URL)
	text, err := client.GenerateText(context.Background(), "prompt")

	require.NoError(t, err)
	assert.Empty(t, text)
}

func TestNewDefaults(t *testing.T) {
	client := New("key", "", "")
	assert.Equal(t, DefaultModel, client.Model())
	assert.Equal(t, DefaultBaseURL, client.baseURL)

	client = New("key", " ", "https://example.com/v1/")
	assert.Equal(t, DefaultModel, client.Model())
	assert.Equal(t, "https://example.com/v1", client.baseURL)
}
