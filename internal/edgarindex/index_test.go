package edgarindex

import (
	"fmt"
	"path/filepath"
	"strings"
	"testing"
)

// fixedRow builds one company.idx data row at the archive's fixed-column
// offsets: company name [0:62], form type [62:74], CIK [74:86].
func fixedRow(name, formType, cik string) string {
	pad := func(s string, width int) string {
		if len(s) >= width {
			return s[:width]
		}
		return s + strings.Repeat(" ", width-len(s))
	}
	return pad(name, 62) + pad(formType, 12) + pad(cik, 12)
}

func buildIndex(rows ...string) string {
	header := make([]string, 10)
	for i := range header {
		header[i] = fmt.Sprintf("header line %d", i)
	}
	return strings.Join(header, "\n") + "\n" + strings.Join(rows, "\n")
}

func TestParseIndexFiltersTo6K(t *testing.T) {
	idx := buildIndex(
		fixedRow("Example Corp", "6-K", "123456"),
		fixedRow("Other Corp", "10-K", "999999"),
		fixedRow("Dup Filer", "6-K", "123456"),
	)

	filers := ParseIndex(idx)
	if len(filers) != 1 {
		t.Fatalf("got %d filers, want 1 (only the 6-K form should survive)", len(filers))
	}
	f, ok := filers["123456"]
	if !ok {
		t.Fatal("expected filer keyed by CIK 123456")
	}
	if f.CompanyName != "Example Corp" {
		t.Errorf("first occurrence should win on duplicate CIK: got %q", f.CompanyName)
	}
}

func TestParseIndexSkipsShortLines(t *testing.T) {
	idx := buildIndex("too short")
	if filers := ParseIndex(idx); len(filers) != 0 {
		t.Errorf("expected no filers from a malformed row, got %d", len(filers))
	}
}

func TestParseIndexEmptyBeforeHeaderCutoff(t *testing.T) {
	if filers := ParseIndex("line1\nline2"); len(filers) != 0 {
		t.Errorf("fewer than 10 lines should yield zero filers, got %d", len(filers))
	}
}

func TestSaveAndLoadFilerList(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "filers.csv")

	want := []Filer{
		{CompanyName: "Example Corp", CIK: "123456"},
		{CompanyName: "Another Corp", CIK: "654321"},
	}
	if err := SaveFilerList(path, want); err != nil {
		t.Fatalf("SaveFilerList: %v", err)
	}

	got, err := LoadFilerList(path)
	if err != nil {
		t.Fatalf("LoadFilerList: %v", err)
	}
	if len(got) != len(want) {
		t.Fatalf("got %d filers, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("filer %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestLoadFilerListMissingFile(t *testing.T) {
	if _, err := LoadFilerList(filepath.Join(t.TempDir(), "missing.csv")); err == nil {
		t.Error("expected an error loading a missing filer list")
	}
}
