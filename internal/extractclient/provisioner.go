package extractclient

import (
	"context"
	"fmt"
)

// ModelProvisioner isolates the out-of-scope concern of ensuring an LLM
// model is available before Client.Extract is called. No implementation is
// wired in by default — Ensure always errors until DefaultProvisioner is
// replaced with a real implementation. Provisioning code never leaks into the extractor
// itself (SPEC_FULL.md §9).
type ModelProvisioner interface {
	Ensure(ctx context.Context, modelID string) error
}

type unconfiguredProvisioner struct{}

func (unconfiguredProvisioner) Ensure(ctx context.Context, modelID string) error {
	return fmt.Errorf("extractclient: no model provisioner configured for %q", modelID)
}

// DefaultProvisioner is the inert placeholder used until a real
// provisioner (a subprocess-backed one, matching the teacher's CLI-driven
// model pulls) is wired in by the query command.
var DefaultProvisioner ModelProvisioner = unconfiguredProvisioner{}
