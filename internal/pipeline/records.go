package pipeline

import (
	"strings"

	"electwatch/internal"
	"electwatch/internal/logger"
	"electwatch/internal/taxonomy"
	"electwatch/internal/util"
)

// Builder turns raw cards into annotated unit records in discovery order.
type Builder struct {
	normalizer *NameNormalizer
	taxonomy   *taxonomy.Taxonomy
	log        logger.Logger
}

func NewBuilder(normalizer *NameNormalizer, tax *taxonomy.Taxonomy, log logger.Logger) *Builder {
	return &Builder{normalizer: normalizer, taxonomy: tax, log: log}
}

// BuildRecords keeps in-progress cards up to and including the last-unit
// marker. Serial numbers are left unset; see OrderByCommission.
func (b *Builder) BuildRecords(cards []internal.UnitCard) []internal.UnitRecord {
	out := make([]internal.UnitRecord, 0, len(cards))
	seen := map[string]struct{}{}
	for _, card := range cards {
		if !card.InProgress || strings.TrimSpace(card.RawName) == "" {
			continue
		}

		name := b.normalizer.Normalize(card.RawName)
		if _, dup := seen[name]; dup {
			b.log.Warn("duplicate unit name in scrape", "unit", name, "raw", card.RawName)
		}
		seen[name] = struct{}{}

		record := internal.UnitRecord{
			Commission: b.Classify(name, card.RawName),
			UnitName:   name,
			RawName:    card.RawName,
			Target:     b.taxonomy.Targets.IsTarget(name),
		}
		b.applyValues(&record, card.Values)
		out = append(out, record)

		if b.normalizer.IsLastUnit(name) {
			break
		}
	}
	return out
}

// Classify looks up the canonical name first and retries with the raw card
// title when that only yields the fallback commission.
func (b *Builder) Classify(name, raw string) string {
	table := b.taxonomy.Table
	commission := table.Classify(name)
	if table.IsFallback(commission) {
		commission = table.Classify(util.CleanText(raw))
	}
	return commission
}

func (b *Builder) applyValues(record *internal.UnitRecord, values []internal.LabeledValue) {
	for _, v := range values {
		switch {
		case strings.Contains(v.Label, "투표율"):
			parsed := util.ParseTurnout(v.Value)
			record.TurnoutRate = parsed.Rate
			record.VotedCount = parsed.Voted
			b.logParseFailure(record.UnitName, "turnoutRate", parsed.RateErr)
			b.logParseFailure(record.UnitName, "votedCount", parsed.VotedErr)
		case strings.Contains(v.Label, "총 유권자"):
			record.TotalEligible = b.parseCount(record.UnitName, "totalEligible", v.Value)
		case strings.Contains(v.Label, "투표 성사"), strings.Contains(v.Label, "남은 투표"):
			record.RemainingToClose = b.parseCount(record.UnitName, "remainingToClose", v.Value)
		}
	}
}

func (b *Builder) parseCount(unit, field, value string) *int {
	n, err := util.ParseCount(value)
	if err != nil {
		b.logParseFailure(unit, field, err)
		return nil
	}
	return util.IntPtr(n)
}

func (b *Builder) logParseFailure(unit, field string, err error) {
	if err == nil {
		return
	}
	b.log.Debug("field left unknown", "unit", unit, "field", field, "error", err)
}
