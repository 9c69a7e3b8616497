package extractclient

import (
	"context"
	"fmt"
)

// Provider generates a raw text response for a prompt pair, mirroring the
// teacher's edgar.AIProvider seam. No concrete implementation ships in this
// module; it exists so Client can be exercised by the query command against
// a stub in tests without depending on an actual LLM service.
type Provider interface {
	Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// Client is the ExtractionClient capability of SPEC_FULL.md §9: a single
// Extract operation backed by a Provider and the decode chain in decode.go.
// It is never invoked by internal/graphextract or internal/queue — only by
// the query command.
type Client struct {
	provider Provider
}

// NewClient builds a Client over provider. provider may be nil; Extract
// then always fails, which is the expected state until an LLM service is
// configured (the seam is inert by design, SPEC_FULL.md §12 Decision O3).
func NewClient(provider Provider) *Client {
	return &Client{provider: provider}
}

const extractionSystemPrompt = `You extract company relationships from SEC 6-K filing text.
Respond with a JSON array of objects: {"source": "...", "target": "...", "type": "...", "role": "..."}.
Valid types: WORKS_AT, HAS_EVENT, OWNS, SUBSIDIARY_OF, BELONGS_TO_SECTOR.`

// Extract sends prompt as the user turn against the fixed relationship
// extraction system prompt and decodes the response through the fallback
// chain.
func (c *Client) Extract(ctx context.Context, prompt string) ([]Relationship, error) {
	if c.provider == nil {
		return nil, fmt.Errorf("extractclient: no provider configured")
	}
	raw, err := c.provider.Generate(ctx, extractionSystemPrompt, prompt)
	if err != nil {
		return nil, fmt.Errorf("extractclient: generate: %w", err)
	}
	rels, err := DecodeRelationships(raw)
	if err != nil {
		return nil, fmt.Errorf("extractclient: decode response: %w", err)
	}
	return rels, nil
}
