package domain

import "testing"

func TestNormalizeCIK(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"123456", "0000123456"},
		{"0000123456", "0000123456"},
		{"00123456", "0000123456"},
		{"12345678901", "2345678901"},
		{"", "0000000000"},
		{" 42 ", "0000000042"},
	}
	for _, c := range cases {
		if got := NormalizeCIK(c.in); got != c.want {
			t.Errorf("NormalizeCIK(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestSlugify(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"Jane A. Doe", "jane_a_doe"},
		{"Q3 2009 Results", "q3_2009_results"},
		{"  leading/trailing  ", "leading_trailing"},
		{"ALLCAPS", "allcaps"},
	}
	for _, c := range cases {
		if got := Slugify(c.in); got != c.want {
			t.Errorf("Slugify(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestDeterministicIDs(t *testing.T) {
	if got, want := CompanyID("0000123456"), "company_0000123456"; got != want {
		t.Errorf("CompanyID = %q, want %q", got, want)
	}
	if got, want := PersonID("Jane A. Doe", "0000123456"), "person_jane_a_doe_0000123456"; got != want {
		t.Errorf("PersonID = %q, want %q", got, want)
	}
	if got, want := SectorID("6029"), "sector_6029"; got != want {
		t.Errorf("SectorID = %q, want %q", got, want)
	}
	if got, want := EventID("0001-01-000001", EventFinancialResults), "event_0001-01-000001_financial_results"; got != want {
		t.Errorf("EventID = %q, want %q", got, want)
	}
}

func TestLoadStatsAdd(t *testing.T) {
	s := LoadStats{Companies: 1, People: 2}
	s.Add(LoadStats{Companies: 1, Events: 3, Relationships: 4})
	want := LoadStats{Companies: 2, People: 2, Events: 3, Relationships: 4}
	if s != want {
		t.Errorf("Add result = %+v, want %+v", s, want)
	}
}

func TestFilingRecordHasCIK(t *testing.T) {
	f := &FilingRecord{}
	if f.HasCIK() {
		t.Error("empty CIK should report HasCIK() == false")
	}
	f.CIK = "0000123456"
	if !f.HasCIK() {
		t.Error("non-empty CIK should report HasCIK() == true")
	}
}

func TestFilingRecordBody(t *testing.T) {
	f := &FilingRecord{RawText: "raw", HTMLContent: "html"}
	if got, want := f.Body(), "raw\nhtml"; got != want {
		t.Errorf("Body() = %q, want %q", got, want)
	}
}
