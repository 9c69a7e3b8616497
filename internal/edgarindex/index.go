// Package edgarindex implements C1, the index fetcher: it downloads SEC
// EDGAR's quarterly company.idx files and extracts the filers that have
// submitted a 6-K, keyed by CIK.
package edgarindex

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/se7ensam/orion-graph/internal/ratelimit"
)

// IndexURLTemplate mirrors the archive's full-index layout; ground truth:
// original_source/src/ingestion/legacy/sec_companies.py.
const IndexURLTemplate = "https://www.sec.gov/Archives/edgar/full-index/%d/QTR%d/company.idx"

const targetFormType = "6-K"

// Filer is a company known to have filed at least one 6-K.
type Filer struct {
	CompanyName string
	CIK         string
}

// Fetcher downloads and parses quarterly index files.
type Fetcher struct {
	client    *http.Client
	regulator *ratelimit.RateRegulator
	userAgent string
	cacheDir  string
}

// NewFetcher builds an index fetcher. regulator must be shared with C2's
// downloader so that index and filing requests draw from the same budget.
func NewFetcher(regulator *ratelimit.RateRegulator, userAgent, cacheDir string) *Fetcher {
	return &Fetcher{
		client:    &http.Client{Timeout: 30 * time.Second},
		regulator: regulator,
		userAgent: userAgent,
		cacheDir:  cacheDir,
	}
}

// DownloadQuarter fetches and caches the company.idx for one year/quarter.
// A download failure is returned to the caller, who is expected to log and
// continue with the remaining quarters (spec §4.1 failure semantics apply
// uniformly to every archive fetch, including the index).
func (f *Fetcher) DownloadQuarter(ctx context.Context, year, quarter int) (string, error) {
	url := fmt.Sprintf(IndexURLTemplate, year, quarter)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("build index request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/plain")

	resp, err := f.regulator.Do(ctx, f.client, req)
	if err != nil {
		return "", fmt.Errorf("fetch index %d Q%d: %w", year, quarter, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch index %d Q%d: status %s", year, quarter, resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read index body: %w", err)
	}

	if err := os.MkdirAll(f.cacheDir, 0o755); err != nil {
		return "", fmt.Errorf("create metadata dir: %w", err)
	}
	cachePath := filepath.Join(f.cacheDir, fmt.Sprintf("%d_Q%d_company.idx", year, quarter))
	if err := os.WriteFile(cachePath, body, 0o644); err != nil {
		return "", fmt.Errorf("write index cache: %w", err)
	}

	return string(body), nil
}

// ParseIndex extracts 6-K filers from raw company.idx text using the
// archive's fixed-column layout. The first ten lines are header/separator
// rows and are skipped, matching the original parser byte-for-byte
// (form-type at columns [62:74], company name at [0:62], CIK at [74:86]).
func ParseIndex(idxText string) map[string]Filer {
	filers := make(map[string]Filer)
	lines := strings.Split(idxText, "\n")
	if len(lines) <= 10 {
		return filers
	}

	for _, line := range lines[10:] {
		if len(line) < 86 {
			continue
		}
		formType := strings.TrimSpace(line[62:74])
		if formType != targetFormType {
			continue
		}
		companyName := strings.TrimSpace(line[0:62])
		cik := strings.TrimSpace(line[74:86])
		if cik == "" {
			continue
		}
		if _, exists := filers[cik]; !exists {
			filers[cik] = Filer{CompanyName: companyName, CIK: cik}
		}
	}
	return filers
}

// CollectFilers downloads and parses every quarter across [startYear, endYear]
// inclusive, merging the results by CIK (last quarter seen wins the name,
// matching dict.update semantics in the source).
func (f *Fetcher) CollectFilers(ctx context.Context, startYear, endYear int) ([]Filer, error) {
	all := make(map[string]Filer)
	var firstErr error

	for year := startYear; year <= endYear; year++ {
		for qtr := 1; qtr <= 4; qtr++ {
			text, err := f.DownloadQuarter(ctx, year, qtr)
			if err != nil {
				if firstErr == nil {
					firstErr = err
				}
				continue
			}
			for cik, filer := range ParseIndex(text) {
				all[cik] = filer
			}
		}
	}

	out := make([]Filer, 0, len(all))
	for _, filer := range all {
		out = append(out, filer)
	}
	if len(out) == 0 && firstErr != nil {
		return nil, firstErr
	}
	return out, nil
}

// SaveFilerList writes the collected filers to a CSV cache, mirroring
// fpi_list.csv from the source (header: company_name,cik).
func SaveFilerList(path string, filers []Filer) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create filer list: %w", err)
	}
	defer file.Close()

	w := csv.NewWriter(file)
	defer w.Flush()

	if err := w.Write([]string{"company_name", "cik"}); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, f := range filers {
		if err := w.Write([]string{f.CompanyName, f.CIK}); err != nil {
			return fmt.Errorf("write filer row: %w", err)
		}
	}
	return nil
}

// LoadFilerList reads a previously saved CSV cache back into memory.
func LoadFilerList(path string) ([]Filer, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open filer list: %w", err)
	}
	defer file.Close()

	r := csv.NewReader(file)
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read filer list: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	filers := make([]Filer, 0, len(records)-1)
	for _, row := range records[1:] {
		if len(row) < 2 {
			continue
		}
		filers = append(filers, Filer{CompanyName: row[0], CIK: row[1]})
	}
	return filers, nil
}
