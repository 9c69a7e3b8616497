package graphextract

import (
	"context"

	"github.com/se7ensam/orion-graph/internal/domain"
)

const sectorUpsertCypher = `
MERGE (s:Sector {sic_code: $sic_code})
SET s.id = coalesce(NULLIF($id, ''), s.id),
    s.name = coalesce(NULLIF($name, ''), s.name)
`

const belongsToSectorCypher = `
MATCH (c:Company {cik: $cik})
MATCH (s:Sector {sic_code: $sic_code})
MERGE (c)-[:BELONGS_TO_SECTOR]->(s)
`

// upsertSectorAndLink upserts the Sector node and its BELONGS_TO_SECTOR
// edge from the filing's company. Ground truth: graph_builder.py
// create_sector_node / create_company_sector_relationship.
func (b *Builder) upsertSectorAndLink(ctx context.Context, rec *domain.FilingRecord) error {
	if !b.seenSectors[rec.SICCode] {
		params := map[string]any{
			"sic_code": rec.SICCode,
			"id":       domain.SectorID(rec.SICCode),
			"name":     rec.SICDescription,
		}
		if err := b.store.Run(ctx, sectorUpsertCypher, params); err != nil {
			return err
		}
		b.seenSectors[rec.SICCode] = true
	}

	return b.store.Run(ctx, belongsToSectorCypher, map[string]any{
		"cik":      rec.CIK,
		"sic_code": rec.SICCode,
	})
}
