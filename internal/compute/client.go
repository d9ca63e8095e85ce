// Package compute is the client for the external compute service that
// executes deployment jobs.
package compute

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/pagemill/deploy-engine/internal/adapter"
	"github.com/pagemill/deploy-engine/internal/config"
	"github.com/pagemill/deploy-engine/internal/domain"
)

// Client submits jobs to the compute service. Submission is synchronous:
// the service accepts the job and reports completion later via callback.
//
//go:generate mockgen -source=client.go -destination=../mocks/compute.go -package=mocks -mock_names=Client=MockComputeClient
type Client interface {
	// SubmitJob submits a job under a pre-minted job ID. The ID travels with
	// the request so the status callback can reference it.
	SubmitJob(ctx context.Context, jobID string, jobType domain.JobType, input domain.JobInput) error
}

type httpClient struct {
	http        adapter.HTTPClient
	baseURL     string
	apiKey      string
	callbackURL string
}

// NewClient creates a compute service client
func NewClient(http adapter.HTTPClient, cfg config.ComputeConfig) Client {
	return &httpClient{
		http:        http,
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:      cfg.APIKey,
		callbackURL: cfg.CallbackURL,
	}
}

// submitRequest is the compute service's job submission payload
type submitRequest struct {
	JobID       string          `json:"job_id"`
	Type        string          `json:"type"`
	Input       domain.JobInput `json:"input"`
	CallbackURL string          `json:"callback_url"`
	SubmittedAt time.Time       `json:"submitted_at"`
}

type submitResponse struct {
	Accepted bool   `json:"accepted"`
	JobID    string `json:"job_id"`
	Message  string `json:"message,omitempty"`
}

func (c *httpClient) SubmitJob(ctx context.Context, jobID string, jobType domain.JobType, input domain.JobInput) error {
	headers := map[string]string{}
	if c.apiKey != "" {
		headers["Authorization"] = "Bearer " + c.apiKey
	}

	req := submitRequest{
		JobID:       jobID,
		Type:        string(jobType),
		Input:       input,
		CallbackURL: c.callbackURL,
		SubmittedAt: time.Now().UTC(),
	}

	var resp submitResponse
	if err := c.http.PostJSON(ctx, c.baseURL+"/v1/jobs", headers, req, &resp); err != nil {
		return fmt.Errorf("failed to submit job %s: %w", jobID, err)
	}
	if !resp.Accepted {
		return fmt.Errorf("compute service rejected job %s: %s", jobID, resp.Message)
	}
	return nil
}
