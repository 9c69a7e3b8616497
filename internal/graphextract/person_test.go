package graphextract

import (
	"testing"

	"github.com/se7ensam/orion-graph/internal/domain"
)

func TestIsValidPersonName(t *testing.T) {
	cases := []struct {
		name string
		want bool
	}{
		{"Jane A. Doe", true},
		{"John Smith", true},
		{"united states", false},
		{"Securities And Exchange", false},
		{"Q3 2009", false},
		{"Invoice 123456789", false},
		{"January", false},
		{"lowercase name", false},
		{"X", false},
		{"One Two Three Four Five", false},
	}
	for _, c := range cases {
		if got := isValidPersonName(c.name); got != c.want {
			t.Errorf("isValidPersonName(%q) = %v, want %v", c.name, got, c.want)
		}
	}
}

func TestIsValidTitle(t *testing.T) {
	cases := []struct {
		title string
		want  bool
	}{
		{"Director", true},
		{"Chief Financial Officer", true},
		{"A very long free-text title field", true},
		{"999999", false},
		{"", false},
		{"xyz", false},
	}
	for _, c := range cases {
		if got := isValidTitle(c.title); got != c.want {
			t.Errorf("isValidTitle(%q) = %v, want %v", c.title, got, c.want)
		}
	}
}

func TestExtractPeopleSignatoryAndDirector(t *testing.T) {
	body := `By /s/ Jane A. Doe, Authorised Signatory

John Smith, Director

Contact: Mary Jones, Head of Investor Relations
`
	people := ExtractPeople(body)
	if len(people) != 3 {
		t.Fatalf("got %d people, want 3: %+v", len(people), people)
	}

	byName := make(map[string]domain.Person)
	for _, p := range people {
		byName[p.Name] = p
	}

	sig, ok := byName["Jane A. Doe"]
	if !ok {
		t.Fatal("expected a signatory named Jane A. Doe")
	}
	if sig.Role != domain.RoleSignatory {
		t.Errorf("role = %q, want Signatory", sig.Role)
	}

	dir, ok := byName["John Smith"]
	if !ok {
		t.Fatal("expected a director named John Smith")
	}
	if dir.Role != domain.RoleDirector || dir.Title != "Director" {
		t.Errorf("director = %+v", dir)
	}
}

func TestExtractPeopleDedupesCaseInsensitively(t *testing.T) {
	body := `By /s/ Jane A. Doe, Authorised Signatory
Signed: JANE A. DOE
`
	people := ExtractPeople(body)
	if len(people) != 1 {
		t.Fatalf("got %d people, want 1 after case-insensitive dedup: %+v", len(people), people)
	}
}

func TestExtractPeopleRejectsInvalidNames(t *testing.T) {
	body := "By /s/ Q3 2009, Authorised Signatory\n"
	people := ExtractPeople(body)
	if len(people) != 0 {
		t.Errorf("got %d people, want 0 (name fails digit-run validation): %+v", len(people), people)
	}
}
