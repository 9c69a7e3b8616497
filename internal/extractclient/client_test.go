package extractclient

import (
	"context"
	"errors"
	"testing"
)

type stubProvider struct {
	response string
	err      error
}

func (s stubProvider) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	return s.response, s.err
}

func TestClientExtractDecodesProviderResponse(t *testing.T) {
	c := NewClient(stubProvider{response: `[{"source":"Example Corp","target":"Jane Doe","type":"WORKS_AT"}]`})
	rels, err := c.Extract(context.Background(), "who works at Example Corp?")
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if len(rels) != 1 || rels[0].Source != "Example Corp" {
		t.Errorf("rels = %+v", rels)
	}
}

func TestClientExtractPropagatesProviderError(t *testing.T) {
	c := NewClient(stubProvider{err: errors.New("upstream down")})
	if _, err := c.Extract(context.Background(), "prompt"); err == nil {
		t.Error("expected an error when the provider fails")
	}
}

func TestClientExtractNilProviderErrors(t *testing.T) {
	c := NewClient(nil)
	if _, err := c.Extract(context.Background(), "prompt"); err == nil {
		t.Error("expected an error from Extract with no provider configured")
	}
}

func TestDefaultProvisionerAlwaysErrors(t *testing.T) {
	if err := DefaultProvisioner.Ensure(context.Background(), "some-model"); err == nil {
		t.Error("DefaultProvisioner.Ensure should always fail until a real provisioner is wired in")
	}
}
