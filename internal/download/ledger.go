package download

import (
	"encoding/csv"
	"fmt"
	"os"
	"sync"
)

// Row is one metadata ledger entry (spec §3 "Metadata ledger").
type Row struct {
	CompanyName string
	CIK         string
	FilingDate  string
	Accession   string
	HTMLPath    string
	TextPath    string
	Exhibits    string
}

var ledgerHeader = []string{"company_name", "cik", "filing_date", "accession", "html_path", "text_path", "exhibits"}

// Ledger is the append-only metadata CSV. Unlike the source, which appends
// unconditionally (producing duplicate rows across skip-existing re-runs),
// this implementation writes through only if the accession is absent
// (SPEC_FULL.md §12 Decision O2).
type Ledger struct {
	path string
	mu   sync.Mutex
}

// NewLedger opens (creating if needed) the ledger at path.
func NewLedger(path string) (*Ledger, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		f, err := os.Create(path)
		if err != nil {
			return nil, fmt.Errorf("create ledger: %w", err)
		}
		w := csv.NewWriter(f)
		if err := w.Write(ledgerHeader); err != nil {
			f.Close()
			return nil, fmt.Errorf("write ledger header: %w", err)
		}
		w.Flush()
		f.Close()
	}
	return &Ledger{path: path}, nil
}

// AppendIfAbsent appends row unless an entry for the same accession already
// exists in the ledger.
func (l *Ledger) AppendIfAbsent(row Row) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	existing, err := l.readAccessions()
	if err != nil {
		return fmt.Errorf("scan ledger: %w", err)
	}
	if existing[row.Accession] {
		return nil
	}

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open ledger for append: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()
	return w.Write([]string{row.CompanyName, row.CIK, row.FilingDate, row.Accession, row.HTMLPath, row.TextPath, row.Exhibits})
}

func (l *Ledger) readAccessions() (map[string]bool, error) {
	f, err := os.Open(l.path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	for i, row := range records {
		if i == 0 || len(row) < 4 {
			continue
		}
		seen[row[3]] = true
	}
	return seen, nil
}
