// Package extractclient is the inert AI-assisted extraction seam behind the
// query command. It is never called from the worker's graph-loading path
// (SPEC_FULL.md §12 Decision O3) — the pattern-based internal/graphextract
// engine is the sole producer of graph writes.
package extractclient

import (
	"encoding/json"
	"fmt"

	jsonrepair "github.com/RealAlexandreAI/json-repair"
	hjson "github.com/hjson/hjson-go/v4"
)

// Relationship is the shape an AI-assisted NL query would decode into,
// mirroring the edge types internal/graphextract already produces
// (WORKS_AT, HAS_EVENT, OWNS, SUBSIDIARY_OF, BELONGS_TO_SECTOR).
type Relationship struct {
	Source string `json:"source"`
	Target string `json:"target"`
	Type   string `json:"type"`
	Role   string `json:"role,omitempty"`
}

// decodeStrategy consumes a candidate response body and tries to unmarshal
// it into a []Relationship, or reports failure.
type decodeStrategy func(body string) ([]Relationship, error)

// decodeChain is the ordered fallback sequence: standard JSON first, then
// json-repair, then Hjson, matching pkg/core/utils.SmartParse's three-step
// strategy from the teacher.
var decodeChain = []decodeStrategy{
	decodeStandardJSON,
	decodeRepairedJSON,
	decodeHJSON,
}

// DecodeRelationships runs body through the decoder chain, returning the
// first successful parse.
func DecodeRelationships(body string) ([]Relationship, error) {
	var lastErr error
	for _, strategy := range decodeChain {
		rels, err := strategy(body)
		if err == nil {
			return rels, nil
		}
		lastErr = err
	}
	return nil, fmt.Errorf("all decode strategies failed: %w", lastErr)
}

func decodeStandardJSON(body string) ([]Relationship, error) {
	var rels []Relationship
	if err := json.Unmarshal([]byte(body), &rels); err != nil {
		return nil, fmt.Errorf("standard json decode: %w", err)
	}
	return rels, nil
}

func decodeRepairedJSON(body string) ([]Relationship, error) {
	repaired, err := jsonrepair.RepairJSON(body)
	if err != nil {
		return nil, fmt.Errorf("json repair: %w", err)
	}
	var rels []Relationship
	if err := json.Unmarshal([]byte(repaired), &rels); err != nil {
		return nil, fmt.Errorf("repaired json decode: %w", err)
	}
	return rels, nil
}

func decodeHJSON(body string) ([]Relationship, error) {
	var generic interface{}
	if err := hjson.Unmarshal([]byte(body), &generic); err != nil {
		return nil, fmt.Errorf("hjson decode: %w", err)
	}
	reencoded, err := json.Marshal(generic)
	if err != nil {
		return nil, fmt.Errorf("hjson re-encode: %w", err)
	}
	var rels []Relationship
	if err := json.Unmarshal(reencoded, &rels); err != nil {
		return nil, fmt.Errorf("hjson re-decode: %w", err)
	}
	return rels, nil
}
