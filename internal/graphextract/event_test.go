package graphextract

import (
	"strings"
	"testing"

	"github.com/se7ensam/orion-graph/internal/domain"
)

func rec(accession, filingDate, body string) *domain.FilingRecord {
	return &domain.FilingRecord{
		AccessionNumber: accession,
		FilingDate:      filingDate,
		RawText:         body,
	}
}

func TestExtractEventFinancialResults(t *testing.T) {
	ev := ExtractEvent(rec("0001-09-000001", "2009-10-15", "Our quarterly results for Q3 2009 were strong."))
	if ev.Type != domain.EventFinancialResults {
		t.Fatalf("Type = %q, want Financial Results", ev.Type)
	}
	if ev.Title != "Q3 2009 Results" {
		t.Errorf("Title = %q", ev.Title)
	}
	if ev.ID != domain.EventID("0001-09-000001", domain.EventFinancialResults) {
		t.Errorf("ID = %q", ev.ID)
	}
}

func TestExtractEventMerger(t *testing.T) {
	ev := ExtractEvent(rec("acc1", "2009-01-01", "This describes the merger of Example Corp and Other Corp effective today."))
	if ev.Type != domain.EventMerger {
		t.Fatalf("Type = %q, want Merger", ev.Type)
	}
	if !strings.Contains(ev.Title, "Example Corp") || !strings.Contains(ev.Title, "Other Corp") {
		t.Errorf("Title = %q, want both party names", ev.Title)
	}
}

func TestExtractEventAcquisition(t *testing.T) {
	ev := ExtractEvent(rec("acc2", "2009-01-01", "The company acquired Target Industries for cash."))
	if ev.Type != domain.EventAcquisition {
		t.Fatalf("Type = %q, want Acquisition", ev.Type)
	}
	if !strings.Contains(ev.Title, "Target Industries") {
		t.Errorf("Title = %q, want acquired party name", ev.Title)
	}
}

func TestExtractEventRestructuring(t *testing.T) {
	ev := ExtractEvent(rec("acc3", "2009-01-01", "We are undergoing a corporate restructuring this quarter."))
	if ev.Type != domain.EventRestructuring {
		t.Fatalf("Type = %q, want Restructuring", ev.Type)
	}
}

func TestExtractEventDefaultsToFiling(t *testing.T) {
	ev := ExtractEvent(rec("acc4", "2009-01-01", "Routine administrative notice with no notable content."))
	if ev.Type != domain.EventFiling {
		t.Fatalf("Type = %q, want Filing", ev.Type)
	}
	if ev.Title != "6-K Filing acc4" {
		t.Errorf("Title = %q", ev.Title)
	}
}

func TestExtractEventPriorityOrder(t *testing.T) {
	// Quarterly wording takes priority over merger wording when both appear.
	ev := ExtractEvent(rec("acc5", "2009-01-01", "Our quarterly results mention a prior merger of two subsidiaries."))
	if ev.Type != domain.EventFinancialResults {
		t.Errorf("Type = %q, want Financial Results to win priority over Merger", ev.Type)
	}
}

func TestExtractEventDescriptionTruncation(t *testing.T) {
	body := strings.Repeat("a", 1000)
	ev := ExtractEvent(rec("acc6", "2009-01-01", body))
	if len(ev.Description) != descriptionLength {
		t.Errorf("Description length = %d, want %d", len(ev.Description), descriptionLength)
	}
}
