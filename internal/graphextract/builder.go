// Package graphextract implements C4: given a parsed domain.FilingRecord,
// extract Company/Person/Event/Sector entities and their relationships and
// upsert them into the property graph idempotently. Ground truth:
// original_source/src/graph_builder.py.
package graphextract

import (
	"context"
	"fmt"
	"time"

	"github.com/se7ensam/orion-graph/internal/domain"
	"github.com/se7ensam/orion-graph/internal/filing"
	"github.com/se7ensam/orion-graph/internal/graphstore"
	"github.com/se7ensam/orion-graph/internal/logging"
)

// Builder owns one filing-loading session: a graph store handle plus the
// four per-builder dedup caches from spec §4.4. A Builder is not safe for
// concurrent use by multiple goroutines; each worker constructs its own
// (SPEC_FULL.md §9 "thread-local dedup caches").
type Builder struct {
	store *graphstore.Store
	log   *logging.Logger

	seenCIKs    map[string]bool
	seenPersons map[string]bool
	seenEvents  map[string]bool
	seenSectors map[string]bool
}

// NewBuilder creates a Builder bound to store.
func NewBuilder(store *graphstore.Store, log *logging.Logger) *Builder {
	return &Builder{
		store:       store,
		log:         log,
		seenCIKs:    make(map[string]bool),
		seenPersons: make(map[string]bool),
		seenEvents:  make(map[string]bool),
		seenSectors: make(map[string]bool),
	}
}

// AggregateStats is returned by ProcessFilings: per-filing stats summed,
// plus wall-clock timing (spec §4.4 "process_filings(year?, limit?) →
// aggregate stats + timing").
type AggregateStats struct {
	domain.LoadStats
	FilingsProcessed int
	Elapsed          time.Duration
}

// ProcessFiling runs the per-filing procedure from spec §4.4: parse,
// extract, upsert; returns the counts of what was written. Any per-step
// failure is logged and the next step still runs — a filing counts as
// processed the moment step 1 (parse + Company upsert) succeeds.
func (b *Builder) ProcessFiling(ctx context.Context, path string) (domain.LoadStats, error) {
	var stats domain.LoadStats

	rec, err := filing.ParseFile(path)
	if err != nil {
		return stats, fmt.Errorf("parse filing %s: %w", path, err)
	}
	if !rec.HasCIK() {
		return stats, fmt.Errorf("filing %s: %w", path, ErrNoCIK)
	}

	if err := b.upsertCompany(ctx, rec); err != nil {
		return stats, fmt.Errorf("upsert company: %w", err)
	}
	stats.Companies = 1

	if rec.SICCode != "" {
		if err := b.upsertSectorAndLink(ctx, rec); err != nil {
			b.log.Warnf("%s: sector upsert failed: %v", rec.AccessionNumber, err)
		} else {
			stats.Relationships++
		}
	}

	people := ExtractPeople(rec.Body())
	for _, p := range people {
		if err := b.upsertPersonAndLink(ctx, rec, p); err != nil {
			b.log.Warnf("%s: person upsert failed for %q: %v", rec.AccessionNumber, p.Name, err)
			continue
		}
		stats.People++
		stats.Relationships++
	}

	event := ExtractEvent(rec)
	if err := b.upsertEventAndLink(ctx, rec, event); err != nil {
		b.log.Warnf("%s: event upsert failed: %v", rec.AccessionNumber, err)
	} else {
		stats.Events++
		stats.Relationships++
	}

	mentions := ExtractOwnershipMentions(rec)
	if len(mentions) > 0 {
		if err := b.appendOwnershipMentions(ctx, rec, mentions); err != nil {
			b.log.Warnf("%s: ownership mention write failed: %v", rec.AccessionNumber, err)
		}
	}

	return stats, nil
}

// ProcessFilings iterates every filing under root (optionally scoped to
// year, optionally truncated to limit), accumulating stats and timing.
func (b *Builder) ProcessFilings(ctx context.Context, root, year string, limit int) (AggregateStats, error) {
	start := time.Now()
	var agg AggregateStats

	paths, err := filing.ListFilings(root, year)
	if err != nil {
		return agg, fmt.Errorf("list filings: %w", err)
	}
	if limit > 0 && limit < len(paths) {
		paths = paths[:limit]
	}

	for i, path := range paths {
		stats, err := b.ProcessFiling(ctx, path)
		if err != nil {
			b.log.Warnf("skipping %s: %v", path, err)
			continue
		}
		agg.Add(stats)
		agg.FilingsProcessed++

		if (i+1)%10 == 0 {
			b.log.Infof("processed %d/%d filings", i+1, len(paths))
		}
	}

	agg.Elapsed = time.Since(start)
	return agg, nil
}
