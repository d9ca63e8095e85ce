// Command benchmark fires signed provider webhook deliveries at a running
// API server and reports ingestion latency. Deliveries use unique delivery
// IDs so duplicate suppression does not flatten the run; point it at an
// environment where the target repository maps to no project (or to a
// disposable one) so no real deploys are triggered.
package main

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"sort"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/google/uuid"
)

const (
	defaultBaseURL     = "http://localhost:8080"
	defaultDeliveries  = 100
	defaultConcurrency = 8
	requestTimeout     = 30 * time.Second
)

type Config struct {
	BaseURL       string
	WebhookSecret string
	Repository    string
	Branch        string
	Deliveries    int
	Concurrency   int
	OutputFile    string
	Debug         bool
}

type DeliveryResult struct {
	Duration   time.Duration
	StatusCode int
	Skipped    bool
	Err        error
}

type RunStats struct {
	Total      int
	Succeeded  int
	Skipped    int
	Failed     int
	Elapsed    time.Duration
	Throughput float64
	Latencies  []time.Duration
}

func main() {
	cfg := parseFlags()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Println("\n\nReceived interrupt signal, shutting down...")
		cancel()
	}()

	fmt.Printf("Target: %s\n", cfg.BaseURL)
	fmt.Printf("Repository: %s (branch %s)\n", cfg.Repository, cfg.Branch)
	fmt.Printf("Deliveries: %d, concurrency: %d\n\n", cfg.Deliveries, cfg.Concurrency)

	stats := run(ctx, cfg)

	fmt.Println("\n" + strings.Repeat("=", 80))
	fmt.Println("BENCHMARK RESULTS")
	fmt.Println(strings.Repeat("=", 80))
	printStats(stats)

	if cfg.OutputFile != "" {
		if err := writeMarkdownReport(cfg.OutputFile, cfg, stats); err != nil {
			fmt.Printf("\nWarning: failed to write report: %v\n", err)
		} else {
			fmt.Printf("\nReport written to: %s\n", cfg.OutputFile)
		}
	}

	if stats.Failed > 0 {
		os.Exit(1)
	}
}

func parseFlags() Config {
	fileCfg, _ := LoadConfig(GetDefaultConfigPath())
	if fileCfg == nil {
		fileCfg = &BenchmarkConfig{}
	}
	if fileCfg.BaseURL == "" {
		fileCfg.BaseURL = defaultBaseURL
	}
	if fileCfg.Repository == "" {
		fileCfg.Repository = "benchmark/throwaway"
	}
	if fileCfg.Branch == "" {
		fileCfg.Branch = "main"
	}

	var cfg Config
	flag.StringVar(&cfg.BaseURL, "url", fileCfg.BaseURL, "Base URL of the API server")
	flag.StringVar(&cfg.WebhookSecret, "secret", fileCfg.WebhookSecret, "Provider webhook secret for signing")
	flag.StringVar(&cfg.Repository, "repo", fileCfg.Repository, "Repository full name to put in payloads")
	flag.StringVar(&cfg.Branch, "branch", fileCfg.Branch, "Branch to put in payloads")
	flag.IntVar(&cfg.Deliveries, "n", defaultDeliveries, "Number of deliveries to send")
	flag.IntVar(&cfg.Concurrency, "c", defaultConcurrency, "Number of concurrent senders")
	flag.StringVar(&cfg.OutputFile, "output", "", "Write a markdown report to this file")
	flag.BoolVar(&cfg.Debug, "debug", false, "Print every delivery outcome")
	flag.Parse()

	if cfg.Deliveries < 1 {
		cfg.Deliveries = 1
	}
	if cfg.Concurrency < 1 {
		cfg.Concurrency = 1
	}
	return cfg
}

func run(ctx context.Context, cfg Config) *RunStats {
	client := &http.Client{Timeout: requestTimeout}
	jobs := make(chan int)
	results := make(chan DeliveryResult, cfg.Deliveries)

	var wg sync.WaitGroup
	for w := 0; w < cfg.Concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				result := sendDelivery(ctx, client, cfg, i)
				if cfg.Debug {
					fmt.Printf("delivery %d: status=%d err=%v (%s)\n",
						i, result.StatusCode, result.Err, formatDuration(result.Duration))
				}
				results <- result
			}
		}()
	}

	start := time.Now()
	sent := 0
feed:
	for i := 0; i < cfg.Deliveries; i++ {
		select {
		case <-ctx.Done():
			break feed
		case jobs <- i:
			sent++
		}
	}
	close(jobs)
	wg.Wait()
	close(results)

	stats := &RunStats{Total: sent, Elapsed: time.Since(start)}
	for result := range results {
		switch {
		case result.Err != nil:
			stats.Failed++
		case result.StatusCode != http.StatusOK:
			stats.Failed++
		case result.Skipped:
			stats.Skipped++
			stats.Latencies = append(stats.Latencies, result.Duration)
		default:
			stats.Succeeded++
			stats.Latencies = append(stats.Latencies, result.Duration)
		}
	}
	if stats.Elapsed > 0 {
		stats.Throughput = float64(stats.Total) / stats.Elapsed.Seconds()
	}
	return stats
}

func sendDelivery(ctx context.Context, client *http.Client, cfg Config, i int) DeliveryResult {
	body := buildPushPayload(cfg.Repository, cfg.Branch, i)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		cfg.BaseURL+"/api/v1/webhooks/github", bytes.NewReader(body))
	if err != nil {
		return DeliveryResult{Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-GitHub-Event", "push")
	req.Header.Set("X-GitHub-Delivery", uuid.NewString())
	if cfg.WebhookSecret != "" {
		req.Header.Set("X-Hub-Signature-256", sign(cfg.WebhookSecret, body))
	}

	start := time.Now()
	resp, err := client.Do(req)
	duration := time.Since(start)
	if err != nil {
		return DeliveryResult{Duration: duration, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4*1024))
	return DeliveryResult{
		Duration:   duration,
		StatusCode: resp.StatusCode,
		Skipped:    strings.Contains(string(respBody), `"success":false`) || strings.Contains(string(respBody), "not a deployment branch") || strings.Contains(string(respBody), "no project connected"),
	}
}

func buildPushPayload(repo string, branch string, i int) []byte {
	commit := fmt.Sprintf("%040d", i)
	return []byte(fmt.Sprintf(`{
		"ref": "refs/heads/%s",
		"repository": {"full_name": "%s", "clone_url": "https://github.com/%s.git"},
		"head_commit": {"id": "%s", "message": "benchmark delivery %d"},
		"pusher": {"name": "benchmark", "email": "benchmark@localhost"}
	}`, branch, repo, repo, commit, i))
}

func sign(secret string, body []byte) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write(body)
	return "sha256=" + hex.EncodeToString(h.Sum(nil))
}

func printStats(stats *RunStats) {
	fmt.Printf("Deliveries:  %d\n", stats.Total)
	fmt.Printf("Processed:   %d (%s)\n", stats.Succeeded, percentageString(stats.Succeeded, stats.Total))
	fmt.Printf("Skipped:     %d (%s)\n", stats.Skipped, percentageString(stats.Skipped, stats.Total))
	fmt.Printf("Failed:      %d (%s)\n", stats.Failed, percentageString(stats.Failed, stats.Total))
	fmt.Printf("Elapsed:     %s\n", formatDuration(stats.Elapsed))
	fmt.Printf("Throughput:  %s\n", formatRate(stats.Total, stats.Elapsed))

	if len(stats.Latencies) == 0 {
		return
	}
	fmt.Println("\nLatency:")
	fmt.Printf("  min: %s\n", formatDuration(percentile(stats.Latencies, 0)))
	fmt.Printf("  p50: %s\n", formatDuration(percentile(stats.Latencies, 50)))
	fmt.Printf("  p95: %s\n", formatDuration(percentile(stats.Latencies, 95)))
	fmt.Printf("  p99: %s\n", formatDuration(percentile(stats.Latencies, 99)))
	fmt.Printf("  max: %s\n", formatDuration(percentile(stats.Latencies, 100)))
}

// percentile returns the p-th percentile of the given durations. The slice is
// sorted in place.
func percentile(durations []time.Duration, p int) time.Duration {
	if len(durations) == 0 {
		return 0
	}
	sort.Slice(durations, func(i, j int) bool { return durations[i] < durations[j] })
	if p <= 0 {
		return durations[0]
	}
	if p >= 100 {
		return durations[len(durations)-1]
	}
	idx := (len(durations) - 1) * p / 100
	return durations[idx]
}

func formatDuration(d time.Duration) string {
	switch {
	case d < time.Millisecond:
		return fmt.Sprintf("%dµs", d.Microseconds())
	case d < time.Second:
		return fmt.Sprintf("%dms", d.Milliseconds())
	default:
		return d.Round(10 * time.Millisecond).String()
	}
}

func writeMarkdownReport(path string, cfg Config, stats *RunStats) error {
	var b strings.Builder
	b.WriteString("# Webhook Ingestion Benchmark\n\n")
	b.WriteString(fmt.Sprintf("- Target: `%s`\n", cfg.BaseURL))
	b.WriteString(fmt.Sprintf("- Repository: `%s` (branch `%s`)\n", cfg.Repository, cfg.Branch))
	b.WriteString(fmt.Sprintf("- Concurrency: %d\n", cfg.Concurrency))
	b.WriteString(fmt.Sprintf("- Date: %s\n\n", time.Now().UTC().Format(time.RFC3339)))

	b.WriteString("| Metric | Value |\n|---|---|\n")
	b.WriteString(fmt.Sprintf("| Deliveries | %d |\n", stats.Total))
	b.WriteString(fmt.Sprintf("| Processed | %d |\n", stats.Succeeded))
	b.WriteString(fmt.Sprintf("| Skipped | %d |\n", stats.Skipped))
	b.WriteString(fmt.Sprintf("| Failed | %d |\n", stats.Failed))
	b.WriteString(fmt.Sprintf("| Elapsed | %s |\n", formatDuration(stats.Elapsed)))
	b.WriteString(fmt.Sprintf("| Throughput | %.1f/s |\n", stats.Throughput))
	if len(stats.Latencies) > 0 {
		b.WriteString(fmt.Sprintf("| p50 latency | %s |\n", formatDuration(percentile(stats.Latencies, 50))))
		b.WriteString(fmt.Sprintf("| p95 latency | %s |\n", formatDuration(percentile(stats.Latencies, 95))))
		b.WriteString(fmt.Sprintf("| p99 latency | %s |\n", formatDuration(percentile(stats.Latencies, 99))))
	}

	return os.WriteFile(path, []byte(b.String()), 0644)
}
