package main

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erazemk/najdeno/internal/blob"
	"github.com/erazemk/najdeno/internal/config"
	"github.com/erazemk/najdeno/internal/db"
	"github.com/erazemk/najdeno/internal/notify"
	"github.com/erazemk/najdeno/internal/store"
)

func TestLevelRouter(t *testing.T) {
	var stdout, stderr bytes.Buffer
	logger := slog.New(newLevelRouter(&stdout, &stderr, slog.LevelInfo)).With("app", "najdeno")

	logger.Debug("hidden")
	logger.Info("hello")
	logger.Warn("careful")
	logger.Error("broken")

	assert.NotContains(t, stdout.String(), "hidden")
	assert.Contains(t, stdout.String(), "hello")
	assert.Contains(t, stdout.String(), "careful")
	assert.Contains(t, stdout.String(), "app=najdeno")
	assert.NotContains(t, stdout.String(), "broken")
	assert.Contains(t, stderr.String(), "broken")
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	t.Chdir(t.TempDir())
	c, err := config.Load()
	require.NoError(t, err)
	return c
}

func TestDefaultBackends(t *testing.T) {
	c := testConfig(t)
	database := db.NewTestDB(t)

	blobs, err := newBlobStore(context.Background(), c, database)
	require.NoError(t, err)
	assert.IsType(t, &blob.DBStore{}, blobs)

	notifier, closeNotifier := newNotifier(c, database)
	defer closeNotifier()
	assert.IsType(t, &notify.LogNotifier{}, notifier)
}

func TestHandlerRoutes(t *testing.T) {
	c := testConfig(t)
	database := db.NewTestDB(t)
	secret, err := store.GetJWTSecret(context.Background(), database)
	require.NoError(t, err)

	blobs, err := newBlobStore(context.Background(), c, database)
	require.NoError(t, err)
	notifier, closeNotifier := newNotifier(c, database)
	defer closeNotifier()

	handler, err := newHandler(newService(database, c, blobs, notifier), c, secret)
	require.NoError(t, err)
	server := httptest.NewServer(handler)
	defer server.Close()

	get := func(path string) (int, string) {
		resp, err := http.Get(server.URL + path)
		require.NoError(t, err)
		defer resp.Body.Close()
		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		return resp.StatusCode, string(body)
	}

	status, body := get("/healthz")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ok", body)

	status, _ = get("/api/lost")
	assert.Equal(t, http.StatusOK, status)

	status, body = get("/lost")
	assert.Equal(t, http.StatusOK, status)
	assert.True(t, strings.Contains(body, "<html"))

	status, _ = get("/static/style.css")
	assert.Equal(t, http.StatusOK, status)

	status, body = get("/metrics")
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, `najdeno_http_requests_total{method="GET",route="/lost",status="200"}`)
}
