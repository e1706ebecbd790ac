// Package concentration scores how concentrated each asset's traded volume
// is in its largest observations and ranks assets by the resulting
// liquidity health.
package concentration

import (
	"context"
	"log/slog"
	"math"
	"sort"

	"crypto-intel-lab/internal/domain"
)

// topN is the number of largest volume observations summed for the
// concentration share.
const topN = 5

// Scorer computes one ConcentrationRecord per asset.
type Scorer struct {
	logger *slog.Logger
}

// NewScorer creates a concentration scorer.
func NewScorer(logger *slog.Logger) *Scorer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scorer{logger: logger}
}

// Score computes concentration metrics for every asset in the table.
//
// The table must carry {asset, volume}; a missing column is a SchemaError.
// A group without usable volumes yields a record with all numeric fields
// nil and risk Unknown rather than an error. Records are returned in
// lexical asset order; LiquidityRank is a dense rank by liquidity health
// descending across all scored assets, with nil health unranked.
func (s *Scorer) Score(ctx context.Context, table *domain.TimeSeriesTable) ([]domain.ConcentrationRecord, error) {
	missing := table.MissingColumns(domain.ColumnAsset, domain.ColumnVolume)
	if len(missing) > 0 {
		return nil, domain.NewSchemaError("concentration", missing)
	}

	groups := table.GroupByAsset()
	s.logger.DebugContext(ctx, "scoring liquidity concentration",
		"assets", len(groups),
		"rows", table.Len(),
	)

	records := make([]domain.ConcentrationRecord, 0, len(groups))
	for _, group := range groups {
		records = append(records, scoreGroup(group))
	}

	assignDenseRanks(records)
	return records, nil
}

// scoreGroup computes the concentration profile of one asset group.
func scoreGroup(group domain.AssetGroup) domain.ConcentrationRecord {
	var volumes []float64
	for _, o := range group.Observations {
		if math.IsNaN(o.Volume) {
			continue
		}
		volumes = append(volumes, o.Volume)
	}

	record := domain.ConcentrationRecord{
		Asset: group.Asset,
		Risk:  domain.RiskUnknown,
	}
	if len(volumes) == 0 {
		return record
	}

	total := 0.0
	for _, v := range volumes {
		total += v
	}

	sorted := make([]float64, len(volumes))
	copy(sorted, volumes)
	sort.Sort(sort.Reverse(sort.Float64Slice(sorted)))
	if len(sorted) > topN {
		sorted = sorted[:topN]
	}
	top5 := 0.0
	for _, v := range sorted {
		top5 += v
	}

	record.TotalVolume = &total
	record.Top5Volume = &top5

	if total > 0 {
		share := top5 / total
		health := (1 - share) * 100
		record.Top5Share = &share
		record.LiquidityHealth = &health
	}
	record.Risk = domain.ClassifyConcentration(record.Top5Share)

	return record
}

// assignDenseRanks sets LiquidityRank by LiquidityHealth descending. Tied
// healths share a rank and the next distinct value gets the previous rank
// plus 1. Records with nil health keep a nil rank.
func assignDenseRanks(records []domain.ConcentrationRecord) {
	var healths []float64
	for _, r := range records {
		if r.LiquidityHealth != nil {
			healths = append(healths, *r.LiquidityHealth)
		}
	}
	if len(healths) == 0 {
		return
	}

	sort.Sort(sort.Reverse(sort.Float64Slice(healths)))

	rankOf := make(map[float64]int, len(healths))
	rank := 0
	for _, h := range healths {
		if _, seen := rankOf[h]; !seen {
			rank++
			rankOf[h] = rank
		}
	}

	for i := range records {
		if records[i].LiquidityHealth == nil {
			continue
		}
		r := rankOf[*records[i].LiquidityHealth]
		records[i].LiquidityRank = &r
	}
}
