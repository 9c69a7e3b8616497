package download

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/se7ensam/orion-graph/internal/ratelimit"
)

const sampleSubmissionsJSON = `{
  "name": "Example Corp",
  "cik": "123456",
  "filings": {
    "recent": {
      "accessionNumber": ["0001193125-09-012345", "0001193125-08-099999", "0001193125-09-000111"],
      "filingDate": ["2009-10-15", "2008-05-01", "2009-01-02"],
      "form": ["6-K", "6-K", "10-K"],
      "primaryDocument": ["a.htm", "b.htm", "c.htm"]
    }
  }
}`

func TestFilterSixKAccessionsFiltersFormAndYearRange(t *testing.T) {
	var parsed submissionsResponse
	if err := json.Unmarshal([]byte(sampleSubmissionsJSON), &parsed); err != nil {
		t.Fatalf("unmarshal fixture: %v", err)
	}

	accessions := filterSixKAccessions(parsed, 2009, 2009)
	if len(accessions) != 1 {
		t.Fatalf("got %d accessions, want 1 (only the 2009 6-K survives the form+year filter): %+v", len(accessions), accessions)
	}
	if accessions[0].Number != "0001193125-09-012345" {
		t.Errorf("got %+v", accessions[0])
	}
}

func TestFilterSixKAccessionsEmptyOutsideRange(t *testing.T) {
	var parsed submissionsResponse
	if err := json.Unmarshal([]byte(sampleSubmissionsJSON), &parsed); err != nil {
		t.Fatalf("unmarshal fixture: %v", err)
	}
	if got := filterSixKAccessions(parsed, 2020, 2021); len(got) != 0 {
		t.Errorf("got %d accessions, want 0 outside the filing date range", len(got))
	}
}

func TestFilterSixKAccessionsOverTestServerResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(sampleSubmissionsJSON))
	}))
	defer server.Close()

	regulator := ratelimit.NewRegulator(1000, time.Millisecond)
	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, server.URL, nil)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}

	resp, err := regulator.Do(context.Background(), server.Client(), req)
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	defer resp.Body.Close()

	var parsed submissionsResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		t.Fatalf("decode: %v", err)
	}
	accessions := filterSixKAccessions(parsed, 2009, 2009)
	if len(accessions) != 1 {
		t.Fatalf("got %d accessions, want 1", len(accessions))
	}
}
