package graphextract

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/se7ensam/orion-graph/internal/domain"
)

var (
	quarterRe           = regexp.MustCompile(`(?i)\bQ([1-4])\s*(\d{4})\b`)
	quarterlyWordRe     = regexp.MustCompile(`(?i)\bquarterly\b|\bq[1-4]\b`)
	mergerWordRe        = regexp.MustCompile(`(?i)\bmerger\b|\bcombine\b`)
	mergerPartiesRe     = regexp.MustCompile(`(?i)merger\s+(?:of|between)\s+([A-Z][\w.&,\s]{2,60}?)\s+and\s+([A-Z][\w.&,\s]{2,60}?)[.\n]`)
	acquisitionWordRe   = regexp.MustCompile(`(?i)\bacquisition\b|\bacquired\b`)
	acquiredNameRe      = regexp.MustCompile(`(?i)acquir(?:ed|e)\s+([A-Z][\w.&,\s]{2,60}?)\s+(?:for|on|in)\b`)
	acquisitionDateRe   = regexp.MustCompile(`(\d{4}-\d{2}-\d{2})`)
	restructuringWordRe = regexp.MustCompile(`(?i)\brestructuring\b|\blegal structure\b`)
)

const descriptionLength = 500

// ExtractEvent classifies exactly one event per filing, in the priority
// order of spec §4.4.
func ExtractEvent(rec *domain.FilingRecord) domain.Event {
	body := rec.Body()
	desc := body
	if len(desc) > descriptionLength {
		desc = desc[:descriptionLength]
	}

	base := domain.Event{
		FilingID:    rec.AccessionNumber,
		Date:        rec.FilingDate,
		Description: desc,
	}

	switch {
	case quarterlyWordRe.MatchString(body):
		base.Type = domain.EventFinancialResults
		if m := quarterRe.FindStringSubmatch(body); m != nil {
			base.Title = fmt.Sprintf("Q%s %s Results", m[1], m[2])
		} else {
			base.Title = "Quarterly Results"
		}
	case mergerWordRe.MatchString(body):
		base.Type = domain.EventMerger
		if m := mergerPartiesRe.FindStringSubmatch(body); m != nil {
			base.Title = fmt.Sprintf("Merger of %s and %s", strings.TrimSpace(m[1]), strings.TrimSpace(m[2]))
		} else {
			base.Title = "Merger"
		}
	case acquisitionWordRe.MatchString(body):
		base.Type = domain.EventAcquisition
		title := "Acquisition"
		if m := acquiredNameRe.FindStringSubmatch(body); m != nil {
			title = "Acquisition of " + strings.TrimSpace(m[1])
		}
		if m := acquisitionDateRe.FindStringSubmatch(body); m != nil {
			title += " (" + m[1] + ")"
		}
		base.Title = title
	case restructuringWordRe.MatchString(body):
		base.Type = domain.EventRestructuring
		base.Title = "Restructuring"
	default:
		base.Type = domain.EventFiling
		base.Title = "6-K Filing " + rec.AccessionNumber
	}

	base.ID = domain.EventID(rec.AccessionNumber, base.Type)
	return base
}

const eventUpsertCypher = `
MERGE (e:Event {id: $id})
SET e.event_type = $event_type,
    e.title = coalesce(NULLIF($title, ''), e.title),
    e.date = coalesce(NULLIF($date, ''), e.date),
    e.filing_id = $filing_id,
    e.description = coalesce(NULLIF($description, ''), e.description)
`

const hasEventCypher = `
MATCH (c:Company {cik: $cik})
MATCH (e:Event {id: $event_id})
MERGE (c)-[r:HAS_EVENT]->(e)
SET r.date = $date,
    r.filing_id = $filing_id
`

func (b *Builder) upsertEventAndLink(ctx context.Context, rec *domain.FilingRecord, ev domain.Event) error {
	if !b.seenEvents[ev.ID] {
		if err := b.store.Run(ctx, eventUpsertCypher, map[string]any{
			"id":          ev.ID,
			"event_type":  string(ev.Type),
			"title":       ev.Title,
			"date":        ev.Date,
			"filing_id":   ev.FilingID,
			"description": ev.Description,
		}); err != nil {
			return err
		}
		b.seenEvents[ev.ID] = true
	}

	return b.store.Run(ctx, hasEventCypher, map[string]any{
		"cik":       rec.CIK,
		"event_id":  ev.ID,
		"date":      ev.Date,
		"filing_id": ev.FilingID,
	})
}
