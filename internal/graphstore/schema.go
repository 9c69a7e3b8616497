package graphstore

import "context"

// schemaStatements are idempotent by construction (`IF NOT EXISTS`), so
// setup-db can run any number of times safely (spec §6).
//
// Unlike original_source/src/database/neo4j_connection.py's setup_schema
// (which targets an unrelated generic Employee/Document/Project schema left
// over from a different part of the original system), these constraints
// and indexes target the actual Company/Person/Event/Sector model this
// pipeline writes (spec §3, §6).
var schemaStatements = []string{
	"CREATE CONSTRAINT company_cik IF NOT EXISTS FOR (c:Company) REQUIRE c.cik IS UNIQUE",
	"CREATE CONSTRAINT company_id IF NOT EXISTS FOR (c:Company) REQUIRE c.id IS UNIQUE",
	"CREATE CONSTRAINT person_id IF NOT EXISTS FOR (p:Person) REQUIRE p.id IS UNIQUE",
	"CREATE CONSTRAINT event_id IF NOT EXISTS FOR (e:Event) REQUIRE e.id IS UNIQUE",
	"CREATE CONSTRAINT sector_sic_code IF NOT EXISTS FOR (s:Sector) REQUIRE s.sic_code IS UNIQUE",

	"CREATE INDEX company_name IF NOT EXISTS FOR (c:Company) ON (c.name)",
	"CREATE INDEX sector_code_idx IF NOT EXISTS FOR (s:Sector) ON (s.sic_code)",
	"CREATE INDEX person_role IF NOT EXISTS FOR (p:Person) ON (p.role_type)",
	"CREATE INDEX event_type IF NOT EXISTS FOR (e:Event) ON (e.event_type)",
	"CREATE INDEX event_date IF NOT EXISTS FOR (e:Event) ON (e.date)",
	"CREATE INDEX event_filing_id IF NOT EXISTS FOR (e:Event) ON (e.filing_id)",
}

// SetupSchema creates every constraint and index needed by the upsert
// operations in package graphextract. Safe to call repeatedly.
func (s *Store) SetupSchema(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if err := s.Run(ctx, stmt, nil); err != nil {
			return err
		}
	}
	return nil
}
