// Package filing implements C3, the filing parser: it turns an on-disk
// filing body into a domain.FilingRecord by line-anchored header extraction
// plus whole-body content extraction.
package filing

import (
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/se7ensam/orion-graph/internal/domain"
)

const headerReadBytes = 10 * 1024

// headerPatterns pairs each label-anchored pattern with the FilingRecord
// field it populates. Ground truth: original_source/services/data_loader/data_loader.py
// parse_filing_header.
var headerPatterns = struct {
	companyName    *regexp.Regexp
	cik            *regexp.Regexp
	sic            *regexp.Regexp
	accession      *regexp.Regexp
	filingDate     *regexp.Regexp
	formType       *regexp.Regexp
	street1        *regexp.Regexp
	city           *regexp.Regexp
	state          *regexp.Regexp
	zip            *regexp.Regexp
	phone          *regexp.Regexp
	secFileNumber  *regexp.Regexp
	fiscalYearEnd  *regexp.Regexp
	periodOfReport *regexp.Regexp
}{
	companyName:    regexp.MustCompile(`(?m)^COMPANY CONFORMED NAME:\s+(.+)$`),
	cik:            regexp.MustCompile(`(?m)^CENTRAL INDEX KEY:\s+(\d+)`),
	sic:            regexp.MustCompile(`(?m)^STANDARD INDUSTRIAL CLASSIFICATION:\s+(.+?)\s*\[(\d+)\]`),
	accession:      regexp.MustCompile(`(?m)^ACCESSION NUMBER:\s+(.+)$`),
	filingDate:     regexp.MustCompile(`(?m)^FILED AS OF DATE:\s+(\d{8})`),
	formType:       regexp.MustCompile(`(?m)^FORM TYPE:\s+(.+)$`),
	street1:        regexp.MustCompile(`(?m)^STREET 1:\s+(.+)$`),
	city:           regexp.MustCompile(`(?m)^CITY:\s+(.+)$`),
	state:          regexp.MustCompile(`(?m)^STATE:\s+(.+)$`),
	zip:            regexp.MustCompile(`(?m)^ZIP:\s+(.+)$`),
	phone:          regexp.MustCompile(`(?m)^BUSINESS PHONE:\s+(.+)$`),
	secFileNumber:  regexp.MustCompile(`(?m)^SEC FILE NUMBER:\s+(.+)$`),
	fiscalYearEnd:  regexp.MustCompile(`(?m)^FISCAL YEAR END:\s+(\d{4})`),
	periodOfReport: regexp.MustCompile(`(?m)^CONFORMED PERIOD OF REPORT:\s+(\d{4})`),
}

var textBlockRe = regexp.MustCompile(`(?is)<TEXT>(.*?)</TEXT>`)

// ParseFile reads path and returns a populated FilingRecord. Decoder errors
// are tolerated (best-effort UTF-8); a record with no CIK is still
// returned so callers can apply spec §4.3's "bail if no CIK" rule.
func ParseFile(path string) (*domain.FilingRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return &domain.FilingRecord{FilePath: path}, err
	}
	text := toValidUTF8(data)

	headerWindow := text
	if len(headerWindow) > headerReadBytes {
		headerWindow = headerWindow[:headerReadBytes]
	}

	rec := &domain.FilingRecord{
		FilePath: path,
		RawText:  text,
	}

	if m := headerPatterns.companyName.FindStringSubmatch(headerWindow); m != nil {
		rec.CompanyName = strings.TrimSpace(m[1])
	}
	if m := headerPatterns.cik.FindStringSubmatch(headerWindow); m != nil {
		rec.CIK = domain.NormalizeCIK(strings.TrimSpace(m[1]))
	}
	if m := headerPatterns.sic.FindStringSubmatch(headerWindow); m != nil {
		rec.SICDescription = strings.TrimSpace(m[1])
		rec.SICCode = strings.TrimSpace(m[2])
	}
	if m := headerPatterns.accession.FindStringSubmatch(headerWindow); m != nil {
		rec.AccessionNumber = strings.TrimSpace(m[1])
	}
	if m := headerPatterns.filingDate.FindStringSubmatch(headerWindow); m != nil {
		rec.FilingDate = formatYYYYMMDD(m[1])
	}
	if m := headerPatterns.formType.FindStringSubmatch(headerWindow); m != nil {
		rec.FormType = strings.TrimSpace(m[1])
	}
	if m := headerPatterns.street1.FindStringSubmatch(headerWindow); m != nil {
		rec.AddressStreet1 = strings.TrimSpace(m[1])
	}
	if m := headerPatterns.city.FindStringSubmatch(headerWindow); m != nil {
		rec.AddressCity = strings.TrimSpace(m[1])
	}
	if m := headerPatterns.state.FindStringSubmatch(headerWindow); m != nil {
		rec.AddressState = strings.TrimSpace(m[1])
	}
	if m := headerPatterns.zip.FindStringSubmatch(headerWindow); m != nil {
		rec.AddressZip = strings.TrimSpace(m[1])
	}
	if m := headerPatterns.phone.FindStringSubmatch(headerWindow); m != nil {
		rec.Phone = strings.TrimSpace(m[1])
	}
	if m := headerPatterns.secFileNumber.FindStringSubmatch(headerWindow); m != nil {
		rec.SECFileNumber = strings.TrimSpace(m[1])
	}
	if m := headerPatterns.fiscalYearEnd.FindStringSubmatch(headerWindow); m != nil {
		rec.FiscalYearEnd = strings.TrimSpace(m[1])
	}

	if m := headerPatterns.periodOfReport.FindStringSubmatch(text); m != nil {
		rec.Year = strings.TrimSpace(m[1])
	} else {
		dirName := filepath.Base(filepath.Dir(path))
		if _, err := strconv.Atoi(dirName); err == nil {
			rec.Year = dirName
		}
	}

	if m := textBlockRe.FindStringSubmatch(text); m != nil {
		rec.HTMLContent = m[1]
	}

	return rec, nil
}

func formatYYYYMMDD(raw string) string {
	if len(raw) != 8 {
		return raw
	}
	return raw[0:4] + "-" + raw[4:6] + "-" + raw[6:8]
}

func toValidUTF8(data []byte) string {
	if utf8.Valid(data) {
		return string(data)
	}
	return strings.ToValidUTF8(string(data), "�")
}

// ListFilings walks root (optionally scoped to a year subdirectory) and
// returns primary filing text files, excluding exhibits (EX-99*) and any
// disambiguated or worker-prefixed file (name containing an underscore).
// Ground truth: original_source/services/data_loader/data_loader.py
// list_filings.
func ListFilings(root string, year string) ([]string, error) {
	searchRoot := root
	if year != "" {
		searchRoot = filepath.Join(root, year)
	}

	var out []string
	err := filepath.Walk(searchRoot, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return filepath.SkipDir
			}
			return err
		}
		if info.IsDir() {
			return nil
		}
		if filepath.Ext(path) != ".txt" {
			return nil
		}
		base := filepath.Base(path)
		if strings.HasPrefix(base, "EX-99") {
			return nil
		}
		if strings.Contains(strings.TrimSuffix(base, ".txt"), "_") {
			return nil
		}
		out = append(out, path)
		return nil
	})
	if err != nil && !os.IsNotExist(err) {
		return nil, err
	}
	return out, nil
}
