package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/mclellan/stocktalk/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(srv.URL, 5*time.Second, logging.Nop())
}

func TestProcessQuery_Success(t *testing.T) {
	var gotBody map[string]any
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/process_query", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		data, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(data, &gotBody))

		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{
			"status": "success",
			"explanation": "Top 5 items are A, B, C, D, E",
			"results": [{"item": "A", "sold": 12}],
			"chart_url": "/generated_charts/abc.png",
			"session_id": "srv-1"
		}`)
	})

	resp, err := c.ProcessQuery(context.Background(), QueryRequest{
		Query:     "Show top 5 items",
		UserID:    "local",
		SessionID: "cli-1",
	})
	require.NoError(t, err)

	assert.Equal(t, "Show top 5 items", gotBody["natural_language_query"])
	assert.Equal(t, "local", gotBody["user_id"])
	assert.Equal(t, "cli-1", gotBody["session_id"])

	assert.Equal(t, "success", resp.Status)
	assert.Equal(t, "Top 5 items are A, B, C, D, E", resp.Explanation)
	assert.Equal(t, "srv-1", resp.SessionID)
	assert.Equal(t, "/generated_charts/abc.png", resp.ChartURL)
	assert.JSONEq(t, `[{"item":"A","sold":12}]`, string(resp.Results))
}

func TestProcessQuery_NonSuccessStatus(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	_, err := c.ProcessQuery(context.Background(), QueryRequest{Query: "hi"})
	require.Error(t, err)

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusInternalServerError, statusErr.Code)
	assert.Contains(t, statusErr.Error(), "boom")
}

func TestProcessQuery_MalformedBody(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "not json at all")
	})

	_, err := c.ProcessQuery(context.Background(), QueryRequest{Query: "hi"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse response")
}

func TestProcessQuery_ConnectionRefused(t *testing.T) {
	c := New("http://127.0.0.1:1", time.Second, logging.Nop())

	_, err := c.ProcessQuery(context.Background(), QueryRequest{Query: "hi"})
	require.Error(t, err)
}

func TestHealth(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/health", r.URL.Path)
		io.WriteString(w, `{"status": "ok"}`)
	})

	assert.NoError(t, c.Health(context.Background()))
}

func TestHealth_Down(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unavailable", http.StatusServiceUnavailable)
	})

	err := c.Health(context.Background())
	require.Error(t, err)

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusServiceUnavailable, statusErr.Code)
}

func TestResolveURL(t *testing.T) {
	c := New("http://localhost:8000/", time.Second, logging.Nop())

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"relative with slash", "/generated_charts/a.png", "http://localhost:8000/generated_charts/a.png"},
		{"relative without slash", "generated_charts/a.png", "http://localhost:8000/generated_charts/a.png"},
		{"absolute passthrough", "https://cdn.example.com/a.png", "https://cdn.example.com/a.png"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.ResolveURL(tt.in))
		})
	}
}

func TestNew_Defaults(t *testing.T) {
	c := New("", 0, logging.Nop())
	assert.Equal(t, "http://localhost:8000", c.BaseURL())
}
