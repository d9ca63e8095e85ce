// Package github parses inbound GitHub webhook payloads.
package github

import (
	"fmt"
	"strings"

	"github.com/pagemill/deploy-engine/internal/adapter"
	"github.com/pagemill/deploy-engine/internal/domain"
)

const branchRefPrefix = "refs/heads/"

// Parser decodes GitHub webhook bodies into domain events
type Parser struct {
	json adapter.JSON
}

// NewParser creates a payload parser
func NewParser(json adapter.JSON) *Parser {
	return &Parser{json: json}
}

// ParsePushEvent decodes a push event payload. It validates the fields the
// pipeline depends on; everything else in the payload is ignored.
func (p *Parser) ParsePushEvent(body []byte) (*domain.PushEvent, error) {
	var event domain.PushEvent
	if err := p.json.Unmarshal(body, &event); err != nil {
		return nil, fmt.Errorf("failed to decode push event: %w", err)
	}
	if event.Ref == "" {
		return nil, fmt.Errorf("push event missing ref")
	}
	if event.Repository.FullName == "" {
		return nil, fmt.Errorf("push event missing repository.full_name")
	}
	return &event, nil
}

// BranchFromRef extracts the branch name from a git ref. Refs that are not
// branch refs (tags, notes) return an empty string.
func BranchFromRef(ref string) string {
	branch, ok := strings.CutPrefix(ref, branchRefPrefix)
	if !ok {
		return ""
	}
	return branch
}
