// Package domain holds the in-memory entity and record types shared across
// the pipeline's components (spec §3).
package domain

import "strings"

// NormalizeCIK left-pads cik to the archive's canonical 10-digit form,
// accepting shorter forms and stripping any existing leading zeros first
// (mirrors Python's cik.zfill(10) after a defensive TrimLeft).
func NormalizeCIK(cik string) string {
	trimmed := strings.TrimLeft(strings.TrimSpace(cik), "0")
	if trimmed == "" {
		trimmed = "0"
	}
	if len(trimmed) >= 10 {
		return trimmed[len(trimmed)-10:]
	}
	return strings.Repeat("0", 10-len(trimmed)) + trimmed
}

// PersonRole enumerates the role classifications a Person can carry.
type PersonRole string

const (
	RoleCEO       PersonRole = "CEO"
	RoleDirector  PersonRole = "Director"
	RoleOfficer   PersonRole = "Officer"
	RoleSignatory PersonRole = "Signatory"
	RoleContact   PersonRole = "Contact"
	RoleExecutive PersonRole = "Executive"
)

// EventType enumerates the event classifications extracted from a filing.
type EventType string

const (
	EventFinancialResults EventType = "Financial Results"
	EventMerger           EventType = "Merger"
	EventAcquisition      EventType = "Acquisition"
	EventRestructuring    EventType = "Restructuring"
	EventFiling           EventType = "Filing"
)

// FilingRecord is the normalized, immutable representation of one on-disk
// filing, produced by C3 and consumed by C4.
type FilingRecord struct {
	CIK               string
	CompanyName       string
	FormType          string
	AccessionNumber   string
	FilingDate        string // YYYY-MM-DD
	SICCode           string
	SICDescription    string
	AddressStreet1    string
	AddressCity       string
	AddressState      string
	AddressZip        string
	Phone             string
	SECFileNumber     string
	FiscalYearEnd     string
	Year              string
	RawText           string
	HTMLContent       string
	FilePath          string
}

// Body returns the concatenation used as the extraction corpus (glossary:
// "Filing body").
func (f *FilingRecord) Body() string {
	return f.RawText + "\n" + f.HTMLContent
}

// HasCIK reports whether the record carries a usable CIK (spec §4.3:
// "A missing CIK disqualifies the record from downstream use").
func (f *FilingRecord) HasCIK() bool {
	return strings.TrimSpace(f.CIK) != ""
}

// Person is an extracted individual mentioned in a filing.
type Person struct {
	Name  string
	Title string
	Role  PersonRole
}

// Event is the single classified event extracted per filing.
type Event struct {
	ID          string
	Type        EventType
	Title       string
	Date        string
	FilingID    string
	Description string
}

// Sector is keyed by SIC code.
type Sector struct {
	SICCode     string
	Name        string
	Description string
}

// OwnershipMention is a name-only ownership pair discovered during
// extraction, materialized on the filing company's node rather than
// resolved to a second Company node (SPEC_FULL.md §4.4 Decision O1).
type OwnershipMention struct {
	Role             string // "parent" or "child": this filing's company plays that role
	CounterpartyName string
	RelationshipType string // OWNS | SUBSIDIARY_OF
	OwnershipType    string // e.g. "wholly owned", "former company", ""
}

// LoadStats counts what a single process_filing call wrote.
type LoadStats struct {
	Companies     int
	People        int
	Events        int
	Relationships int
}

// Add accumulates other into s.
func (s *LoadStats) Add(other LoadStats) {
	s.Companies += other.Companies
	s.People += other.People
	s.Events += other.Events
	s.Relationships += other.Relationships
}

// PersonID derives the deterministic node id for a person within a given
// CIK's scope: person_<slug>_<cik>.
func PersonID(name, cik string) string {
	return "person_" + Slugify(name) + "_" + cik
}

// EventID derives the deterministic node id for an event.
func EventID(accession string, t EventType) string {
	return "event_" + accession + "_" + Slugify(string(t))
}

// CompanyID derives the deterministic node id for a company.
func CompanyID(cik string) string {
	return "company_" + cik
}

// SectorID derives the deterministic node id for a sector.
func SectorID(sicCode string) string {
	return "sector_" + sicCode
}

// Slugify lower-cases and replaces runs of non-alphanumeric characters with
// a single underscore, used for deterministic id construction.
func Slugify(s string) string {
	var b strings.Builder
	prevUnderscore := false
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			prevUnderscore = false
			continue
		}
		if !prevUnderscore {
			b.WriteByte('_')
			prevUnderscore = true
		}
	}
	return strings.Trim(b.String(), "_")
}
