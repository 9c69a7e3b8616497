package download

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLedgerAppendIfAbsent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.csv")
	l, err := NewLedger(path)
	if err != nil {
		t.Fatalf("NewLedger: %v", err)
	}

	row := Row{CompanyName: "Example Corp", CIK: "0000123456", FilingDate: "2009-10-15", Accession: "0001193125-09-012345"}
	if err := l.AppendIfAbsent(row); err != nil {
		t.Fatalf("AppendIfAbsent: %v", err)
	}
	if err := l.AppendIfAbsent(row); err != nil {
		t.Fatalf("AppendIfAbsent (duplicate): %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read ledger: %v", err)
	}
	lines := splitLines(string(data))
	if len(lines) != 2 { // header + one row, not two
		t.Errorf("got %d lines, want 2 (header + single row, duplicate accession skipped): %v", len(lines), lines)
	}
}

func TestLedgerAppendDistinctAccessions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.csv")
	l, err := NewLedger(path)
	if err != nil {
		t.Fatalf("NewLedger: %v", err)
	}
	if err := l.AppendIfAbsent(Row{Accession: "acc-1"}); err != nil {
		t.Fatalf("AppendIfAbsent acc-1: %v", err)
	}
	if err := l.AppendIfAbsent(Row{Accession: "acc-2"}); err != nil {
		t.Fatalf("AppendIfAbsent acc-2: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read ledger: %v", err)
	}
	lines := splitLines(string(data))
	if len(lines) != 3 { // header + 2 distinct rows
		t.Errorf("got %d lines, want 3: %v", len(lines), lines)
	}
}

func splitLines(s string) []string {
	var out []string
	start := 0
	for i, c := range s {
		if c == '\n' {
			if i > start {
				out = append(out, s[start:i])
			}
			start = i + 1
		}
	}
	if start < len(s) {
		out = append(out, s[start:])
	}
	return out
}
