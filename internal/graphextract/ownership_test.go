package graphextract

import (
	"testing"

	"github.com/se7ensam/orion-graph/internal/domain"
)

func TestLooksLikeCompanyName(t *testing.T) {
	if !looksLikeCompanyName("Example Corp") {
		t.Error("Example Corp should look like a company name")
	}
	if looksLikeCompanyName("") {
		t.Error("empty string should not look like a company name")
	}
	if looksLikeCompanyName(string(make([]byte, 81))) {
		t.Error("an 81-byte string should be rejected as too long")
	}
}

func TestDedupeMentions(t *testing.T) {
	in := []domain.OwnershipMention{
		{Role: "parent", CounterpartyName: "Example Sub", RelationshipType: "OWNS"},
		{Role: "parent", CounterpartyName: "example sub", RelationshipType: "OWNS"},
		{Role: "parent", CounterpartyName: "Other Sub", RelationshipType: "OWNS"},
	}
	out := dedupeMentions(in)
	if len(out) != 2 {
		t.Fatalf("got %d mentions after dedup, want 2: %+v", len(out), out)
	}
}

func TestExtractOwnershipMentionsOwnsAsParent(t *testing.T) {
	rec := &domain.FilingRecord{
		CompanyName: "Example Corp",
		RawText:     "Example Corp owns Subsidiary One outright.",
	}
	mentions := ExtractOwnershipMentions(rec)
	if len(mentions) != 1 {
		t.Fatalf("got %d mentions, want 1: %+v", len(mentions), mentions)
	}
	m := mentions[0]
	if m.Role != "parent" || m.CounterpartyName != "Subsidiary One" || m.RelationshipType != "OWNS" {
		t.Errorf("mention = %+v", m)
	}
}

func TestExtractOwnershipMentionsSubsidiaryAsChild(t *testing.T) {
	rec := &domain.FilingRecord{
		CompanyName: "Example Corp",
		RawText:     "Example Corp is a subsidiary of Parent Holdings.",
	}
	mentions := ExtractOwnershipMentions(rec)
	if len(mentions) != 1 {
		t.Fatalf("got %d mentions, want 1: %+v", len(mentions), mentions)
	}
	m := mentions[0]
	if m.Role != "child" || m.CounterpartyName != "Parent Holdings" || m.RelationshipType != "SUBSIDIARY_OF" {
		t.Errorf("mention = %+v", m)
	}
}

func TestExtractOwnershipMentionsWhollyOwned(t *testing.T) {
	rec := &domain.FilingRecord{
		CompanyName: "Example Corp",
		RawText:     "Example Corp is a wholly owned subsidiary of Global Holdings.",
	}
	mentions := ExtractOwnershipMentions(rec)
	if len(mentions) != 1 {
		t.Fatalf("got %d mentions, want 1: %+v", len(mentions), mentions)
	}
	if mentions[0].OwnershipType != "wholly owned" {
		t.Errorf("OwnershipType = %q, want %q", mentions[0].OwnershipType, "wholly owned")
	}
}

func TestExtractOwnershipMentionsIgnoresUnrelatedParties(t *testing.T) {
	rec := &domain.FilingRecord{
		CompanyName: "Example Corp",
		RawText:     "Third Party Alpha owns Third Party Beta, unrelated to us.",
	}
	mentions := ExtractOwnershipMentions(rec)
	if len(mentions) != 0 {
		t.Errorf("got %d mentions, want 0 when neither party is the filing company: %+v", len(mentions), mentions)
	}
}

func TestExtractOwnershipMentionsFormerCompany(t *testing.T) {
	rec := &domain.FilingRecord{
		CompanyName: "Example Corp",
		RawText:     "Former Company: Legacy Example Inc\n",
	}
	mentions := ExtractOwnershipMentions(rec)
	if len(mentions) != 1 {
		t.Fatalf("got %d mentions, want 1: %+v", len(mentions), mentions)
	}
	if mentions[0].OwnershipType != "former company" {
		t.Errorf("OwnershipType = %q, want %q", mentions[0].OwnershipType, "former company")
	}
}
