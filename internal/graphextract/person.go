package graphextract

import (
	"context"
	"regexp"
	"strings"

	"github.com/se7ensam/orion-graph/internal/domain"
)

// namePattern is a Go name token: 2-4 words on one line, each starting
// uppercase.
const namePattern = `([A-Z][a-zA-Z'.-]+(?:[ \t]+[A-Z][a-zA-Z'.-]+){1,3})`

// personPattern is one entry of the ordered, mutually-overlapping regex
// family from spec §4.4. Each record is tagged with a role and a title
// function; the name is always the first capture group. Ground truth:
// original_source/src/graph_builder.py's _extract_people_from_filing_patterns
// and SPEC_FULL.md §9 ("encode as an ordered slice ... not fused into a
// single mega-regex").
type personPattern struct {
	re    *regexp.Regexp
	role  domain.PersonRole
	title func(match []string) string
}

var personPatterns = []personPattern{
	// Signatory family.
	{regexp.MustCompile(`(?i)By\s*/s/\s*` + namePattern), domain.RoleSignatory, fixedTitle("Authorised Signatory")},
	{regexp.MustCompile(`(?i)Signed:\s*` + namePattern), domain.RoleSignatory, fixedTitle("Authorised Signatory")},
	{regexp.MustCompile(`(?i)Signature:\s*` + namePattern), domain.RoleSignatory, fixedTitle("Authorised Signatory")},
	{regexp.MustCompile(`(?i)Authori[sz]ed Signatory:\s*` + namePattern), domain.RoleSignatory, fixedTitle("Authorised Signatory")},

	// Director family.
	{regexp.MustCompile(namePattern + `,\s*Director\b`), domain.RoleDirector, fixedTitle("Director")},
	{regexp.MustCompile(namePattern + `\s*\(Director\)`), domain.RoleDirector, fixedTitle("Director")},
	{regexp.MustCompile(namePattern + `\s*-\s*Director\b`), domain.RoleDirector, fixedTitle("Director")},
	{regexp.MustCompile(`(?i)Board of Directors:\s*` + namePattern), domain.RoleDirector, fixedTitle("Director")},

	// CEO family.
	{regexp.MustCompile(`(?i)Chief Executive Officer:\s*` + namePattern), domain.RoleCEO, fixedTitle("Chief Executive Officer")},
	{regexp.MustCompile(`(?i)CEO:\s*` + namePattern), domain.RoleCEO, fixedTitle("Chief Executive Officer")},
	{regexp.MustCompile(namePattern + `,\s*Chief Executive\b`), domain.RoleCEO, fixedTitle("Chief Executive")},
	{regexp.MustCompile(`(?i)Chief Executive:\s*` + namePattern), domain.RoleCEO, fixedTitle("Chief Executive")},

	// Officer family: title preserved from the capture.
	{regexp.MustCompile(namePattern + `,\s*((?:Chief|President|Vice|Senior|Executive)[\w\s]{0,40}?Officer)\b`), domain.RoleOfficer, capturedTitle(2)},
	{regexp.MustCompile(namePattern + `\s*\(((?:Chief|President|Vice|Senior|Executive)[\w\s]{0,40}?Officer)\)`), domain.RoleOfficer, capturedTitle(2)},

	// Contact family.
	{regexp.MustCompile(`(?i)Contact:\s*` + namePattern + `,?\s*(.{0,40})`), domain.RoleContact, contactTitle},
	{regexp.MustCompile(`(?i)Communications Director:\s*` + namePattern), domain.RoleContact, fixedTitle("Communications Director")},
	{regexp.MustCompile(namePattern + `,\s*Investor Relations\b`), domain.RoleContact, fixedTitle("Investor Relations")},
}

func fixedTitle(title string) func([]string) string {
	return func(_ []string) string { return title }
}

func capturedTitle(idx int) func([]string) string {
	return func(m []string) string {
		if idx < len(m) {
			return strings.TrimSpace(m[idx])
		}
		return ""
	}
}

func contactTitle(m []string) string {
	if len(m) > 2 {
		if t := strings.TrimSpace(m[2]); t != "" {
			return t
		}
	}
	return "Contact"
}

var digitRunRe = regexp.MustCompile(`\d{3,}`)

var personStopList = map[string]bool{
	"united states": true, "securities and exchange commission": true, "securities and exchange": true,
	"form 6-k": true, "commission file number": true,
	"inc": true, "corp": true, "corporation": true, "company": true, "limited": true, "ltd": true,
	"annual report": true, "press release": true,
}

var monthNames = map[string]bool{
	"january": true, "february": true, "march": true, "april": true, "may": true, "june": true,
	"july": true, "august": true, "september": true, "october": true, "november": true, "december": true,
}

var titleKeywords = []string{
	"director", "officer", "chief", "president", "vice", "senior", "executive",
	"secretary", "manager", "signatory", "relations", "contact",
}

// isValidPersonName applies the token rules from spec §4.4: 2-4 words, each
// starting uppercase and mostly alphabetic (ignoring edge punctuation, so
// initials like "A." pass), no run of 3+ digits, not equal as a whole to a
// stop-list phrase (corporate suffixes, header keywords), and no word that
// is a month name. Currency and unit words are not checked.
func isValidPersonName(name string) bool {
	name = strings.TrimSpace(name)
	if name == "" || digitRunRe.MatchString(name) {
		return false
	}
	words := strings.Fields(name)
	if len(words) < 2 || len(words) > 4 {
		return false
	}
	lower := strings.ToLower(name)
	if personStopList[lower] {
		return false
	}
	for _, w := range words {
		lw := strings.ToLower(strings.Trim(w, ".,'-"))
		if monthNames[lw] {
			return false
		}
		r := []rune(w)
		if len(r) == 0 || !isUpper(r[0]) {
			return false
		}
		letters, total := 0, 0
		for _, c := range strings.Trim(w, ".,'-") {
			total++
			if isLetter(c) {
				letters++
			}
		}
		if total == 0 || float64(letters)/float64(total) < 0.6 {
			return false
		}
	}
	return true
}

// isValidTitle rejects any title containing a run of 3+ digits and requires
// a recognizable title keyword unless the title is long enough (>=10 chars)
// to plausibly be a genuine free-text title (spec §4.4). Unit words are not
// checked.
func isValidTitle(title string) bool {
	title = strings.TrimSpace(title)
	if title == "" {
		return false
	}
	if digitRunRe.MatchString(title) {
		return false
	}
	if len(title) >= 10 {
		return true
	}
	lower := strings.ToLower(title)
	for _, kw := range titleKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

func isUpper(r rune) bool { return r >= 'A' && r <= 'Z' }
func isLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

// ExtractPeople runs the ordered pattern family once over body and returns
// validated, deduplicated people. Duplicate names (case-folded) collapse to
// the first occurrence, per spec §4.4 and the boundary case in §8.
func ExtractPeople(body string) []domain.Person {
	var people []domain.Person
	seen := make(map[string]bool)

	for _, p := range personPatterns {
		for _, m := range p.re.FindAllStringSubmatch(body, -1) {
			if len(m) < 2 {
				continue
			}
			name := strings.TrimSpace(m[1])
			if !isValidPersonName(name) {
				continue
			}
			title := p.title(m)
			if title != "" && !isValidTitle(title) {
				title = string(p.role)
			}

			key := strings.ToLower(name)
			if seen[key] {
				continue
			}
			seen[key] = true
			people = append(people, domain.Person{Name: name, Title: title, Role: p.role})
		}
	}
	return people
}

const personUpsertCypher = `
MERGE (p:Person {id: $id})
SET p.name = $name,
    p.title = $title,
    p.role_type = $role
`

const worksAtCypher = `
MATCH (p:Person {id: $person_id})
MATCH (c:Company {cik: $cik})
MERGE (p)-[r:WORKS_AT]->(c)
SET r.title = $title,
    r.role = $role
`

// upsertPersonAndLink upserts a Person node with a direct-overwrite SET
// (not coalesce) and its WORKS_AT edge. Ground truth: graph_builder.py
// create_person_node / create_works_at_relationship — unlike Company,
// Person properties are not coalesce-merged in the source.
func (b *Builder) upsertPersonAndLink(ctx context.Context, rec *domain.FilingRecord, p domain.Person) error {
	id := domain.PersonID(p.Name, rec.CIK)

	if !b.seenPersons[id] {
		if err := b.store.Run(ctx, personUpsertCypher, map[string]any{
			"id":    id,
			"name":  p.Name,
			"title": p.Title,
			"role":  string(p.Role),
		}); err != nil {
			return err
		}
		b.seenPersons[id] = true
	}

	return b.store.Run(ctx, worksAtCypher, map[string]any{
		"person_id": id,
		"cik":       rec.CIK,
		"title":     p.Title,
		"role":      string(p.Role),
	})
}
