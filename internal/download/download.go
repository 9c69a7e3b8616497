// Package download implements C2, the rate-limited downloader: given a
// filer CIK and accession number it materializes filing.html, the
// accession .txt body, and any EX-99 exhibits under the deterministic
// on-disk layout from spec §3, then appends a metadata ledger row.
package download

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/se7ensam/orion-graph/internal/domain"
	"github.com/se7ensam/orion-graph/internal/ratelimit"
)

const archiveBase = "https://www.sec.gov/Archives/edgar/data"

// Options configures a download run (maps onto the `download` CLI flags).
type Options struct {
	RootDir      string
	SkipExisting bool
	UserAgent    string
	MaxWorkers   int
}

// Downloader fetches and persists filings for a set of CIKs.
type Downloader struct {
	opts        Options
	client      *http.Client
	indexClient *http.Client
	regulator   *ratelimit.RateRegulator
	ledger      *Ledger
}

// NewDownloader builds a downloader sharing regulator with C1's index
// fetcher, per SPEC_FULL.md §4.1.
func NewDownloader(opts Options, regulator *ratelimit.RateRegulator) (*Downloader, error) {
	ledger, err := NewLedger(filepath.Join(opts.RootDir, "fpi_6k_metadata.csv"))
	if err != nil {
		return nil, fmt.Errorf("open ledger: %w", err)
	}
	return &Downloader{
		opts:        opts,
		client:      &http.Client{Timeout: 30 * time.Second},
		indexClient: &http.Client{Timeout: 60 * time.Second},
		regulator:   regulator,
		ledger:      ledger,
	}, nil
}

// Result summarizes one filing download attempt.
type Result struct {
	CIK         string
	Accession   string
	HTMLPath    string
	TextPath    string
	Exhibits    []string
	Skipped     bool
	Err         error
}

// DownloadFiling executes the per-filing procedure of spec §4.1 steps 1-6.
func (d *Downloader) DownloadFiling(ctx context.Context, companyName, cik, accession, filingDate string) Result {
	cik = domain.NormalizeCIK(cik)
	year := filingDate
	if len(year) >= 4 {
		year = year[:4]
	}
	sanitizedCompany := sanitizeFolderName(companyName)
	folder := filepath.Join(d.opts.RootDir, sanitizedCompany, fmt.Sprintf("%s_%s_%s", year, sanitizedCompany, cik), accession)
	htmlPath := filepath.Join(folder, "filing.html")
	textPath := filepath.Join(folder, accession+".txt")

	if d.opts.SkipExisting {
		if fileExists(htmlPath) && fileExists(textPath) {
			d.appendLedgerRow(companyName, cik, filingDate, accession, htmlPath, textPath, nil)
			return Result{CIK: cik, Accession: accession, HTMLPath: htmlPath, TextPath: textPath, Skipped: true}
		}
	}

	if err := os.MkdirAll(folder, 0o755); err != nil {
		return Result{CIK: cik, Accession: accession, Err: fmt.Errorf("create filing dir: %w", err)}
	}

	accNoDash := strings.ReplaceAll(accession, "-", "")
	cikInt, err := strconv.Atoi(strings.TrimLeft(cik, "0"))
	if err != nil {
		cikInt = 0
	}
	indexURL := fmt.Sprintf("%s/%d/%s/%s-index.html", archiveBase, cikInt, accNoDash, accession)

	indexHTML, err := d.fetchText(ctx, d.client, indexURL)
	if err != nil {
		return Result{CIK: cik, Accession: accession, Err: fmt.Errorf("fetch index page: %w", err)}
	}

	rewritten, textFileURL, err := rewriteAndLocateSubmission(indexHTML, indexURL)
	if err != nil {
		return Result{CIK: cik, Accession: accession, Err: fmt.Errorf("parse index page: %w", err)}
	}

	if err := writeAtomic(htmlPath, []byte(rewritten)); err != nil {
		return Result{CIK: cik, Accession: accession, Err: fmt.Errorf("persist index html: %w", err)}
	}

	if textFileURL == "" {
		return Result{CIK: cik, Accession: accession, HTMLPath: htmlPath, Err: fmt.Errorf("complete submission text file link not found")}
	}

	textBody, err := d.fetchText(ctx, d.indexClient, textFileURL)
	if err != nil {
		return Result{CIK: cik, Accession: accession, HTMLPath: htmlPath, Err: fmt.Errorf("fetch submission text: %w", err)}
	}
	if err := writeAtomic(textPath, []byte(textBody)); err != nil {
		return Result{CIK: cik, Accession: accession, HTMLPath: htmlPath, Err: fmt.Errorf("persist submission text: %w", err)}
	}

	exhibits, err := extractExhibits(textBody, folder)
	if err != nil {
		exhibits = nil
	}

	d.appendLedgerRow(companyName, cik, filingDate, accession, htmlPath, textPath, exhibits)

	return Result{CIK: cik, Accession: accession, HTMLPath: htmlPath, TextPath: textPath, Exhibits: exhibits}
}

func (d *Downloader) appendLedgerRow(companyName, cik, filingDate, accession, htmlPath, textPath string, exhibits []string) {
	_ = d.ledger.AppendIfAbsent(Row{
		CompanyName: companyName,
		CIK:         cik,
		FilingDate:  filingDate,
		Accession:   accession,
		HTMLPath:    htmlPath,
		TextPath:    textPath,
		Exhibits:    strings.Join(exhibits, ";"),
	})
}

func (d *Downloader) fetchText(ctx context.Context, client *http.Client, rawURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", d.opts.UserAgent)

	resp, err := d.regulator.Do(ctx, client, req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("status %s", resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// rewriteAndLocateSubmission parses the index page with goquery, rewrites
// root-relative href/src attributes to absolute URLs (so the persisted
// filing.html is self-contained), and locates the "Complete submission
// text file" row's link. Ground truth: filing_downloader.py's BeautifulSoup
// pass, re-expressed with goquery per the teacher's html_sanitizer.go idiom.
func rewriteAndLocateSubmission(htmlContent, baseURL string) (rewritten string, textFileURL string, err error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return "", "", fmt.Errorf("parse base url: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlContent))
	if err != nil {
		return "", "", fmt.Errorf("parse html: %w", err)
	}

	rewriteAttr := func(sel *goquery.Selection, attr string) {
		sel.Each(func(_ int, s *goquery.Selection) {
			v, ok := s.Attr(attr)
			if !ok || !strings.HasPrefix(v, "/") {
				return
			}
			if resolved, err := base.Parse(v); err == nil {
				s.SetAttr(attr, resolved.String())
			}
		})
	}
	rewriteAttr(doc.Find("a"), "href")
	rewriteAttr(doc.Find("img,script"), "src")
	rewriteAttr(doc.Find("link"), "href")

	doc.Find("tr").EachWithBreak(func(_ int, row *goquery.Selection) bool {
		cells := row.Find("td")
		if cells.Length() < 3 {
			return true
		}
		label := strings.TrimSpace(cells.Eq(1).Text())
		if !strings.Contains(strings.ToLower(label), "complete submission text file") {
			return true
		}
		link := cells.Eq(2).Find("a").First()
		href, ok := link.Attr("href")
		if !ok {
			return true
		}
		if resolved, err := base.Parse(href); err == nil {
			textFileURL = resolved.String()
		}
		return false
	})

	out, err := doc.Html()
	if err != nil {
		return "", "", fmt.Errorf("serialize html: %w", err)
	}
	return out, textFileURL, nil
}

var documentBoundary = regexp.MustCompile(`(?s)<DOCUMENT>(.*?)</DOCUMENT>`)
var docTypeRe = regexp.MustCompile(`(?im)^<TYPE>(.+)$`)
var docTextRe = regexp.MustCompile(`(?is)<TEXT>(.*)</TEXT>`)
var tagStripRe = regexp.MustCompile(`(?s)<[^>]+>`)

// extractExhibits splits the submission text on <DOCUMENT> boundaries and
// persists every EX-99* section as plain text, disambiguating same-type
// collisions with a numeric suffix. Ground truth:
// filing_downloader.py's extract_exhibits_all.
func extractExhibits(fullText, folder string) ([]string, error) {
	var exhibits []string
	counts := make(map[string]int)

	for _, match := range documentBoundary.FindAllStringSubmatch(fullText, -1) {
		docBody := match[1]
		typeMatch := docTypeRe.FindStringSubmatch(docBody)
		if typeMatch == nil {
			continue
		}
		docType := strings.TrimSpace(typeMatch[1])
		if !strings.HasPrefix(strings.ToUpper(docType), "EX-99") {
			continue
		}

		textMatch := docTextRe.FindStringSubmatch(docBody)
		if textMatch == nil {
			continue
		}
		plain := strings.TrimSpace(tagStripRe.ReplaceAllString(textMatch[1], "\n"))

		name := docType
		if n := counts[docType]; n > 0 {
			name = fmt.Sprintf("%s_%d", docType, n)
		}
		counts[docType]++

		fileName := sanitizeFolderName(name) + ".txt"
		path := filepath.Join(folder, fileName)
		if err := writeAtomic(path, []byte(plain)); err != nil {
			return exhibits, fmt.Errorf("persist exhibit %s: %w", fileName, err)
		}
		exhibits = append(exhibits, fileName)
	}
	return exhibits, nil
}

// writeAtomic stages content to a temp file and renames into place so no
// partial file is ever left readable (spec §4.1 failure semantics).
func writeAtomic(path string, content []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, content, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

var unsafeFolderChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

func sanitizeFolderName(name string) string {
	cleaned := unsafeFolderChars.ReplaceAllString(strings.TrimSpace(name), "_")
	cleaned = strings.Trim(cleaned, "_")
	if cleaned == "" {
		return "unknown"
	}
	return cleaned
}
