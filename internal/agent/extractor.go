// Package agent is the client for the AI extraction collaborator that turns
// free-form webhook payloads into structured actions.
package agent

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/pagemill/deploy-engine/internal/adapter"
	"github.com/pagemill/deploy-engine/internal/config"
	"github.com/pagemill/deploy-engine/internal/domain"
)

// Extractor resolves an action from a webhook payload guided by the
// endpoint's natural-language instructions
//
//go:generate mockgen -source=extractor.go -destination=../mocks/agent.go -package=mocks -mock_names=Extractor=MockExtractor
type Extractor interface {
	// ExtractAction asks the agent what the payload wants done. Callers treat
	// errors as action "none"; extraction is advisory, not load-bearing.
	ExtractAction(ctx context.Context, instructions string, payload []byte) (*domain.ExtractedAction, error)
}

type httpExtractor struct {
	http   adapter.HTTPClient
	url    string
	apiKey string
}

// NewExtractor creates an extraction client
func NewExtractor(http adapter.HTTPClient, cfg config.AgentConfig) Extractor {
	return &httpExtractor{
		http:   http,
		url:    cfg.URL,
		apiKey: cfg.APIKey,
	}
}

type extractRequest struct {
	Instructions string          `json:"instructions"`
	Payload      json.RawMessage `json:"payload"`
}

func (e *httpExtractor) ExtractAction(ctx context.Context, instructions string, payload []byte) (*domain.ExtractedAction, error) {
	headers := map[string]string{}
	if e.apiKey != "" {
		headers["Authorization"] = "Bearer " + e.apiKey
	}

	req := extractRequest{
		Instructions: instructions,
		Payload:      json.RawMessage(payload),
	}

	var extracted domain.ExtractedAction
	if err := e.http.PostJSON(ctx, e.url+"/v1/extract", headers, req, &extracted); err != nil {
		return nil, fmt.Errorf("failed to extract action: %w", err)
	}
	return &extracted, nil
}
