package cli

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientDecodesAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":{"code":"NOT_FOUND","message":"Index not found on timer list."}}`))
	}))
	defer server.Close()

	err := NewClient(server.URL, time.Second).Get(context.Background(), "/api/v1/timers/9", nil)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
	assert.Equal(t, "NOT_FOUND", apiErr.Code)
	assert.Equal(t, "Index not found on timer list. (NOT_FOUND)", err.Error())
}

func TestClientPlainErrorBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	}))
	defer server.Close()

	err := NewClient(server.URL, time.Second).Get(context.Background(), "/", nil)
	assert.EqualError(t, err, "HTTP 502: bad gateway")
}

func TestFetchHealthDegraded(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"status":"degraded","poison_policy":"stop","workers":[{"name":"power","state":"stopped","restarts":0}],"listeners":[]}`))
	}))
	defer server.Close()

	client = NewClient(server.URL, time.Second)
	t.Cleanup(func() { client = nil })

	result, err := fetchHealth(context.Background())
	assert.ErrorIs(t, err, errDegraded)
	assert.Equal(t, "degraded", result.Status)
	require.Len(t, result.Workers, 1)
	assert.Equal(t, "stopped", result.Workers[0].State)
}

func TestConfigValidate(t *testing.T) {
	cfg := &Config{Output: "yaml", Timeout: time.Second}
	assert.Error(t, cfg.Validate())

	cfg.Output = "json"
	assert.NoError(t, cfg.Validate())

	cfg.Timeout = 0
	assert.Error(t, cfg.Validate())
}
