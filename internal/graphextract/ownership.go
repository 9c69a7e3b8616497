package graphextract

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/se7ensam/orion-graph/internal/domain"
)

var ownershipPatterns = []struct {
	re       *regexp.Regexp
	classify func(m []string) (parentIdx, childIdx int, relType, ownType string)
}{
	// "X owns/acquired/purchased Y" -> OWNS
	{regexp.MustCompile(namePattern + `\s+(?:owns|acquired|purchased)\s+` + namePattern), func([]string) (int, int, string, string) {
		return 1, 2, "OWNS", ""
	}},
	// "X is subsidiary of Y" -> SUBSIDIARY_OF, sides swapped (Y is parent)
	{regexp.MustCompile(namePattern + `\s+is\s+(?:a\s+)?subsidiary of\s+` + namePattern), func([]string) (int, int, string, string) {
		return 2, 1, "SUBSIDIARY_OF", ""
	}},
	// "X is parent company of Y" -> OWNS
	{regexp.MustCompile(namePattern + `\s+is\s+(?:the\s+)?parent company of\s+` + namePattern), func([]string) (int, int, string, string) {
		return 1, 2, "OWNS", ""
	}},
	// "X is wholly owned subsidiary of Y" -> SUBSIDIARY_OF, "wholly owned"
	{regexp.MustCompile(namePattern + `\s+is\s+(?:a\s+)?wholly[\s-]owned subsidiary of\s+` + namePattern), func([]string) (int, int, string, string) {
		return 2, 1, "SUBSIDIARY_OF", "wholly owned"
	}},
}

var formerCompanyRe = regexp.MustCompile(`(?i)Former Company:\s*` + namePattern)

// ExtractOwnershipMentions scans the filing body for the five ownership
// pattern families of spec §4.4 and returns them relative to the filing's
// own company (role "parent" or "child"), per SPEC_FULL.md §12 Decision O1
// — never resolved to a second Company node.
func ExtractOwnershipMentions(rec *domain.FilingRecord) []domain.OwnershipMention {
	body := rec.Body()
	companyLower := strings.ToLower(strings.TrimSpace(rec.CompanyName))
	var out []domain.OwnershipMention

	for _, p := range ownershipPatterns {
		for _, m := range p.re.FindAllStringSubmatch(body, -1) {
			parentIdx, childIdx, relType, ownType := p.classify(m)
			if parentIdx >= len(m) || childIdx >= len(m) {
				continue
			}
			parent := strings.TrimRight(strings.TrimSpace(m[parentIdx]), ".")
			child := strings.TrimRight(strings.TrimSpace(m[childIdx]), ".")
			if !isValidPersonName(parent) && !looksLikeCompanyName(parent) {
				continue
			}
			if !looksLikeCompanyName(child) {
				continue
			}

			switch {
			case strings.ToLower(parent) == companyLower:
				out = append(out, domain.OwnershipMention{Role: "parent", CounterpartyName: child, RelationshipType: relType, OwnershipType: ownType})
			case strings.ToLower(child) == companyLower:
				out = append(out, domain.OwnershipMention{Role: "child", CounterpartyName: parent, RelationshipType: relType, OwnershipType: ownType})
			}
		}
	}

	if m := formerCompanyRe.FindStringSubmatch(body); m != nil {
		name := strings.TrimRight(strings.TrimSpace(m[1]), ".")
		if looksLikeCompanyName(name) {
			out = append(out, domain.OwnershipMention{
				Role:             "parent",
				CounterpartyName: name,
				RelationshipType: "SUBSIDIARY_OF",
				OwnershipType:    "former company",
			})
		}
	}

	return dedupeMentions(out)
}

func looksLikeCompanyName(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" || len(s) > 80 {
		return false
	}
	return strings.Fields(s) != nil && len(strings.Fields(s)) >= 1
}

func dedupeMentions(in []domain.OwnershipMention) []domain.OwnershipMention {
	seen := make(map[string]bool)
	var out []domain.OwnershipMention
	for _, m := range in {
		key := m.Role + "|" + strings.ToLower(m.CounterpartyName) + "|" + m.RelationshipType + "|" + m.OwnershipType
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, m)
	}
	return out
}

const readOwnershipMentionsCypher = `
MATCH (c:Company {cik: $cik})
RETURN c.ownership_mentions AS mentions
`

const writeOwnershipMentionsCypher = `
MATCH (c:Company {cik: $cik})
SET c.ownership_mentions = $mentions
`

// appendOwnershipMentions reads the company's existing ownership_mentions
// JSON-array property, merges in any new distinct entries, and writes the
// property back — a monotone append, never a relationship or a second
// Company node (SPEC_FULL.md §4.4 Decision O1).
func (b *Builder) appendOwnershipMentions(ctx context.Context, rec *domain.FilingRecord, mentions []domain.OwnershipMention) error {
	records, err := b.store.RunRead(ctx, readOwnershipMentionsCypher, map[string]any{"cik": rec.CIK})
	if err != nil {
		return fmt.Errorf("read existing ownership mentions: %w", err)
	}

	existing := make([]string, 0)
	if len(records) > 0 {
		if v, ok := records[0].Get("mentions"); ok && v != nil {
			if raw, ok := v.(string); ok && raw != "" {
				_ = json.Unmarshal([]byte(raw), &existing)
			}
		}
	}

	seen := make(map[string]bool)
	merged := make([]string, 0, len(existing)+len(mentions))
	for _, e := range existing {
		if !seen[e] {
			seen[e] = true
			merged = append(merged, e)
		}
	}
	for _, m := range mentions {
		encoded, err := json.Marshal(m)
		if err != nil {
			continue
		}
		key := string(encoded)
		if !seen[key] {
			seen[key] = true
			merged = append(merged, key)
		}
	}

	payload, err := json.Marshal(merged)
	if err != nil {
		return fmt.Errorf("marshal ownership mentions: %w", err)
	}

	return b.store.Run(ctx, writeOwnershipMentionsCypher, map[string]any{
		"cik":      rec.CIK,
		"mentions": string(payload),
	})
}
