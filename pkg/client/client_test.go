package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/mchmarny/escape/pkg/escape"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) (*httptest.Server, *[]string) {
	t.Helper()
	var saved []string
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})
	mux.HandleFunc("GET /score", func(w http.ResponseWriter, r *http.Request) {
		x, errX := strconv.ParseFloat(r.URL.Query().Get("x"), 64)
		y, errY := strconv.ParseFloat(r.URL.Query().Get("y"), 64)
		if errX != nil || errY != nil {
			w.WriteHeader(http.StatusBadRequest)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "bad point"})
			return
		}
		if r.URL.Query().Get("save") == "true" {
			saved = append(saved, r.URL.RawQuery)
		}
		_ = json.NewEncoder(w).Encode(escape.Iterate(x, y))
	})
	s := httptest.NewServer(mux)
	t.Cleanup(s.Close)
	return s, &saved
}

func TestNew_InvalidURL(t *testing.T) {
	for _, u := range []string{"", "127.0.0.1:8080", "ftp://host", "http://"} {
		_, err := New(u)
		assert.Error(t, err, u)
	}
}

func TestClient_Score(t *testing.T) {
	s, saved := newTestServer(t)

	c, err := New(s.URL + "/")
	require.NoError(t, err)

	r, err := c.Score(context.Background(), -0.5, 0.25, false)
	require.NoError(t, err)
	assert.Equal(t, escape.Iterate(-0.5, 0.25), *r)
	assert.Empty(t, *saved)

	_, err = c.Score(context.Background(), 1, 1, true)
	require.NoError(t, err)
	assert.Len(t, *saved, 1)
}

func TestClient_Health(t *testing.T) {
	s, _ := newTestServer(t)

	c, err := New(s.URL)
	require.NoError(t, err)
	assert.NoError(t, c.Health(context.Background()))
}

func TestClient_HealthUnreachable(t *testing.T) {
	s, _ := newTestServer(t)
	c, err := New(s.URL)
	require.NoError(t, err)
	s.Close()

	assert.Error(t, c.Health(context.Background()))
}

func TestClient_ErrorStatus(t *testing.T) {
	s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"error":"boom"}`, http.StatusInternalServerError)
	}))
	defer s.Close()

	c, err := New(s.URL)
	require.NoError(t, err)

	_, err = c.Score(context.Background(), 0, 0, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")
	assert.Error(t, c.Health(context.Background()))
}

func TestClient_Cancelled(t *testing.T) {
	s, _ := newTestServer(t)

	c, err := New(s.URL)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = c.Score(ctx, 0, 0, false)
	assert.ErrorIs(t, err, context.Canceled)
}
