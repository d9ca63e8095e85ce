package main

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildPushPayload(t *testing.T) {
	body := buildPushPayload("acme/site", "main", 7)

	var payload struct {
		Ref        string `json:"ref"`
		Repository struct {
			FullName string `json:"full_name"`
			CloneURL string `json:"clone_url"`
		} `json:"repository"`
		HeadCommit struct {
			ID      string `json:"id"`
			Message string `json:"message"`
		} `json:"head_commit"`
	}
	require.NoError(t, json.Unmarshal(body, &payload))

	assert.Equal(t, "refs/heads/main", payload.Ref)
	assert.Equal(t, "acme/site", payload.Repository.FullName)
	assert.Equal(t, "https://github.com/acme/site.git", payload.Repository.CloneURL)
	assert.Len(t, payload.HeadCommit.ID, 40)
	assert.Contains(t, payload.HeadCommit.Message, "7")
}

func TestSign(t *testing.T) {
	body := []byte(`{"ref":"refs/heads/main"}`)
	got := sign("secret", body)

	h := hmac.New(sha256.New, []byte("secret"))
	h.Write(body)
	want := "sha256=" + hex.EncodeToString(h.Sum(nil))

	assert.Equal(t, want, got)
	assert.True(t, strings.HasPrefix(got, "sha256="))
}

func TestPercentile(t *testing.T) {
	durations := []time.Duration{
		5 * time.Millisecond,
		1 * time.Millisecond,
		3 * time.Millisecond,
		2 * time.Millisecond,
		4 * time.Millisecond,
	}

	assert.Equal(t, 1*time.Millisecond, percentile(durations, 0))
	assert.Equal(t, 3*time.Millisecond, percentile(durations, 50))
	assert.Equal(t, 5*time.Millisecond, percentile(durations, 100))
	assert.Equal(t, time.Duration(0), percentile(nil, 50))
}

func TestRunAgainstServer(t *testing.T) {
	var received atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v1/webhooks/github", r.URL.Path)
		require.Equal(t, "push", r.Header.Get("X-GitHub-Event"))
		require.NotEmpty(t, r.Header.Get("X-GitHub-Delivery"))
		require.NotEmpty(t, r.Header.Get("X-Hub-Signature-256"))
		received.Add(1)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"success":true,"message":"deployment job x created"}`))
	}))
	defer server.Close()

	cfg := Config{
		BaseURL:       server.URL,
		WebhookSecret: "secret",
		Repository:    "acme/site",
		Branch:        "main",
		Deliveries:    10,
		Concurrency:   3,
	}

	stats := run(context.Background(), cfg)

	assert.Equal(t, int64(10), received.Load())
	assert.Equal(t, 10, stats.Total)
	assert.Equal(t, 10, stats.Succeeded)
	assert.Zero(t, stats.Failed)
	assert.Len(t, stats.Latencies, 10)
}

func TestRunCountsSkips(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"success":true,"message":"branch \"main\" is not a deployment branch"}`))
	}))
	defer server.Close()

	cfg := Config{
		BaseURL:     server.URL,
		Repository:  "acme/site",
		Branch:      "main",
		Deliveries:  4,
		Concurrency: 2,
	}

	stats := run(context.Background(), cfg)

	assert.Equal(t, 4, stats.Skipped)
	assert.Zero(t, stats.Succeeded)
	assert.Zero(t, stats.Failed)
}

func TestConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "benchmark.json")

	want := &BenchmarkConfig{
		BaseURL:       "https://deploy.example.com",
		WebhookSecret: "secret",
		Repository:    "acme/site",
		Branch:        "production",
	}
	require.NoError(t, SaveConfig(path, want))

	got, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}
