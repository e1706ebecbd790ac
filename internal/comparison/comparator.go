// Package comparison joins KPI and concentration outputs, filters a
// requested asset subset, and produces a weighted, ranked side-by-side
// comparison.
package comparison

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"crypto-intel-lab/internal/domain"
)

// Selection bounds: an explicit request must name at least minAssets and is
// truncated to maxAssets.
const (
	minAssets = 2
	maxAssets = 5
)

// Composite score weights. Each branch sums to 1.0.
const (
	momentumWeight = 0.4

	liquidityWeight     = 0.3
	riskWeight          = 0.3
	liquidityWeightConc = 0.2
	concentrationWeight = 0.1
)

// ErrNoKpiData is returned when the comparator receives no KPI records at
// all.
var ErrNoKpiData = errors.New("comparison: no kpi records")

// SelectionError reports that fewer than the minimum valid assets remained
// after filtering an explicit selection. It carries the assets that were
// available so callers can surface alternatives.
type SelectionError struct {
	Valid     int
	Available []string
}

func (e *SelectionError) Error() string {
	return fmt.Sprintf("comparison: %d valid assets, need at least %d (available: %s)",
		e.Valid, minAssets, strings.Join(e.Available, ", "))
}

// Result is one ranked comparison: rows sorted by weighted score
// descending, plus any advisory warnings raised during selection.
type Result struct {
	Rows     []domain.ComparisonRow
	Warnings []string

	// WithConcentration is true when concentration records were joined and
	// the four-term score branch was used.
	WithConcentration bool
}

// Comparator builds ranked asset comparisons.
type Comparator struct {
	logger *slog.Logger
}

// NewComparator creates a comparator.
func NewComparator(logger *slog.Logger) *Comparator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Comparator{logger: logger}
}

// Compare selects assets from the KPI set, joins concentration records when
// provided, scores, and ranks.
//
// Selection policy: a nil or empty request selects every asset. An explicit
// request must name at least 2 assets; more than 5 are truncated to the
// first 5 with a warning (truncation happens before existence filtering);
// names absent from the data are dropped with a warning. If fewer than 2
// valid assets remain, a SelectionError carrying the available assets is
// returned. Warnings are advisory values, never fatal.
func (c *Comparator) Compare(ctx context.Context, kpis *domain.KpiSet, concentration []domain.ConcentrationRecord, assets []string) (*Result, error) {
	if kpis == nil || len(kpis.Records) == 0 {
		return nil, ErrNoKpiData
	}

	byAsset := make(map[string]domain.KpiRecord, len(kpis.Records))
	available := make([]string, 0, len(kpis.Records))
	for _, r := range kpis.Records {
		byAsset[r.Asset] = r
		available = append(available, r.Asset)
	}

	selected, warnings, err := selectAssets(assets, byAsset, available)
	if err != nil {
		return nil, err
	}
	for _, w := range warnings {
		c.logger.WarnContext(ctx, "comparison selection", "warning", w)
	}

	shareByAsset := make(map[string]*float64, len(concentration))
	for _, r := range concentration {
		shareByAsset[r.Asset] = r.Top5Share
	}
	withConcentration := len(concentration) > 0

	rows := make([]domain.ComparisonRow, 0, len(selected))
	for _, asset := range selected {
		record := byAsset[asset]
		row := domain.ComparisonRow{
			Asset:          asset,
			Momentum:       record.Momentum,
			LiquidityProxy: record.LiquidityProxy,
			VolumeTrend:    record.VolumeTrend,
			DownsideRisk:   record.DownsideRisk,
		}
		if withConcentration {
			row.Top5Share = shareByAsset[asset]
		}
		row.WeightedScore = compositeScore(row, withConcentration)
		rows = append(rows, row)
	}

	// Stable sort keeps input order across equal scores; rank values are
	// dense, so tied scores share a rank.
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].WeightedScore > rows[j].WeightedScore
	})
	assignRanks(rows)

	return &Result{
		Rows:              rows,
		Warnings:          warnings,
		WithConcentration: withConcentration,
	}, nil
}

// selectAssets applies the selection policy and returns the chosen assets
// in KPI record order for the implicit case, or request order for explicit
// requests.
func selectAssets(requested []string, byAsset map[string]domain.KpiRecord, available []string) (selected, warnings []string, err error) {
	if len(requested) == 0 {
		return available, nil, nil
	}

	if len(requested) < minAssets {
		return nil, nil, &SelectionError{Valid: len(requested), Available: available}
	}

	if len(requested) > maxAssets {
		warnings = append(warnings, fmt.Sprintf("more than %d assets requested (%d), comparing the first %d",
			maxAssets, len(requested), maxAssets))
		requested = requested[:maxAssets]
	}

	var invalid []string
	for _, asset := range requested {
		if _, ok := byAsset[asset]; ok {
			selected = append(selected, asset)
		} else {
			invalid = append(invalid, asset)
		}
	}
	if len(invalid) > 0 {
		warnings = append(warnings, fmt.Sprintf("assets not found and skipped: %s", strings.Join(invalid, ", ")))
	}

	if len(selected) < minAssets {
		return nil, warnings, &SelectionError{Valid: len(selected), Available: available}
	}
	return selected, warnings, nil
}

// compositeScore computes the weighted score for one row. Nil and negative
// inputs clamp to 0; negatives cannot occur for well-formed KPIs but the
// clamp is kept.
func compositeScore(row domain.ComparisonRow, withConcentration bool) float64 {
	momentum := clamp(row.Momentum)
	liquidity := clamp(row.LiquidityProxy)
	risk := clamp(row.DownsideRisk)

	if !withConcentration {
		return momentum*momentumWeight + liquidity*liquidityWeight + (100-risk)*riskWeight
	}

	share := clamp(row.Top5Share)
	return momentum*momentumWeight +
		liquidity*liquidityWeightConc +
		(100-risk)*riskWeight +
		(100-share*100)*concentrationWeight
}

// clamp maps nil or negative metric values to 0.
func clamp(v *float64) float64 {
	if v == nil || *v < 0 {
		return 0
	}
	return *v
}

// assignRanks sets dense 1-based ranks over rows already sorted by score
// descending.
func assignRanks(rows []domain.ComparisonRow) {
	rank := 0
	for i := range rows {
		if i == 0 || rows[i].WeightedScore != rows[i-1].WeightedScore {
			rank++
		}
		rows[i].Rank = rank
	}
}
