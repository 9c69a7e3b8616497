package graphextract

import (
	"context"

	"github.com/se7ensam/orion-graph/internal/domain"
)

// companyUpsertCypher applies the "coalesce non-empty" monotone-enrichment
// policy from spec §4.4: coalesce(NULLIF($value, ''), c.field) only
// overwrites a property when the incoming value is non-empty, on both
// create and match. Ground truth: original_source/src/graph_builder.py
// create_company_node.
const companyUpsertCypher = `
MERGE (c:Company {cik: $cik})
SET c.id = coalesce(NULLIF($id, ''), c.id),
    c.name = coalesce(NULLIF($name, ''), c.name),
    c.form_type = coalesce(NULLIF($form_type, ''), c.form_type),
    c.street1 = coalesce(NULLIF($street1, ''), c.street1),
    c.city = coalesce(NULLIF($city, ''), c.city),
    c.state = coalesce(NULLIF($state, ''), c.state),
    c.zip = coalesce(NULLIF($zip, ''), c.zip),
    c.phone = coalesce(NULLIF($phone, ''), c.phone),
    c.sec_file_number = coalesce(NULLIF($sec_file_number, ''), c.sec_file_number),
    c.fiscal_year_end = coalesce(NULLIF($fiscal_year_end, ''), c.fiscal_year_end)
`

func (b *Builder) upsertCompany(ctx context.Context, rec *domain.FilingRecord) error {
	params := map[string]any{
		"cik":             rec.CIK,
		"id":              domain.CompanyID(rec.CIK),
		"name":            rec.CompanyName,
		"form_type":       rec.FormType,
		"street1":         rec.AddressStreet1,
		"city":            rec.AddressCity,
		"state":           rec.AddressState,
		"zip":             rec.AddressZip,
		"phone":           rec.Phone,
		"sec_file_number": rec.SECFileNumber,
		"fiscal_year_end": rec.FiscalYearEnd,
	}
	if err := b.store.Run(ctx, companyUpsertCypher, params); err != nil {
		return err
	}
	b.seenCIKs[rec.CIK] = true
	return nil
}
