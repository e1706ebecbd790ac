// Package reporting assembles the three output tables (KPI, concentration,
// comparison) into report artifacts: markdown, CSV, XLSX, and a console
// summary. Engines hand over full-precision records; all presentation
// rounding and formatting happens here and never alters the computed
// values.
package reporting

import (
	"time"

	"crypto-intel-lab/internal/cleaning"
	"crypto-intel-lab/internal/comparison"
	"crypto-intel-lab/internal/domain"
)

// Presentation rounding, in decimal places.
const (
	kpiPlaces    = 4
	volumePlaces = 2
	sharePlaces  = 4
	healthPlaces = 2
)

// Report bundles one pipeline run's outputs.
type Report struct {
	GeneratedAt time.Time

	CleanStats    *cleaning.Stats // nil when the input was already clean
	Kpis          *domain.KpiSet
	Concentration []domain.ConcentrationRecord
	Comparison    *comparison.Result // nil when no comparison was requested
}

// Builder assembles reports with an injectable clock for deterministic
// output.
type Builder struct {
	now func() time.Time
}

// NewBuilder creates a report builder.
func NewBuilder() *Builder {
	return &Builder{now: func() time.Time { return time.Now().UTC() }}
}

// WithClock sets a custom clock function.
func (b *Builder) WithClock(now func() time.Time) *Builder {
	b.now = now
	return b
}

// Build assembles a report.
func (b *Builder) Build(kpis *domain.KpiSet, concentration []domain.ConcentrationRecord, cmp *comparison.Result, stats *cleaning.Stats) *Report {
	return &Report{
		GeneratedAt:   b.now(),
		CleanStats:    stats,
		Kpis:          kpis,
		Concentration: concentration,
		Comparison:    cmp,
	}
}

// KpiDisplayRow is one KPI record with presentation rounding applied.
type KpiDisplayRow struct {
	Asset              string
	Momentum           *float64
	LiquidityProxy     *float64
	VolumeTrend        *float64
	DownsideRisk       *float64
	Momentum1h         *float64
	Momentum24h        *float64
	Momentum7d         *float64
	AvgDownsideRiskPct *float64
	LiquidityScore     *float64
	AvgVolume          *float64
	MarketCapTier      string
}

// KpiRows returns the KPI table rounded for display (4 decimal places).
func (r *Report) KpiRows() []KpiDisplayRow {
	if r.Kpis == nil {
		return nil
	}
	rows := make([]KpiDisplayRow, 0, len(r.Kpis.Records))
	for _, rec := range r.Kpis.Records {
		rows = append(rows, KpiDisplayRow{
			Asset:              rec.Asset,
			Momentum:           domain.RoundPtr(rec.Momentum, kpiPlaces),
			LiquidityProxy:     domain.RoundPtr(rec.LiquidityProxy, kpiPlaces),
			VolumeTrend:        domain.RoundPtr(rec.VolumeTrend, kpiPlaces),
			DownsideRisk:       domain.RoundPtr(rec.DownsideRisk, kpiPlaces),
			Momentum1h:         domain.RoundPtr(rec.Momentum1h, kpiPlaces),
			Momentum24h:        domain.RoundPtr(rec.Momentum24h, kpiPlaces),
			Momentum7d:         domain.RoundPtr(rec.Momentum7d, kpiPlaces),
			AvgDownsideRiskPct: domain.RoundPtr(rec.AvgDownsideRiskPct, kpiPlaces),
			LiquidityScore:     domain.RoundPtr(rec.LiquidityScore, kpiPlaces),
			AvgVolume:          domain.RoundPtr(rec.AvgVolume, kpiPlaces),
			MarketCapTier:      string(rec.MarketCapTier),
		})
	}
	return rows
}

// ConcentrationDisplayRow is one concentration record rounded for display:
// volumes to 2 places, share to 4, health to 2.
type ConcentrationDisplayRow struct {
	Asset           string
	TotalVolume     *float64
	Top5Volume      *float64
	Top5Share       *float64
	LiquidityHealth *float64
	Risk            string
	LiquidityRank   *int
}

// ConcentrationRows returns the concentration table rounded for display.
func (r *Report) ConcentrationRows() []ConcentrationDisplayRow {
	rows := make([]ConcentrationDisplayRow, 0, len(r.Concentration))
	for _, rec := range r.Concentration {
		rows = append(rows, ConcentrationDisplayRow{
			Asset:           rec.Asset,
			TotalVolume:     domain.RoundPtr(rec.TotalVolume, volumePlaces),
			Top5Volume:      domain.RoundPtr(rec.Top5Volume, volumePlaces),
			Top5Share:       domain.RoundPtr(rec.Top5Share, sharePlaces),
			LiquidityHealth: domain.RoundPtr(rec.LiquidityHealth, healthPlaces),
			Risk:            string(rec.Risk),
			LiquidityRank:   rec.LiquidityRank,
		})
	}
	return rows
}

// ComparisonDisplayRow is one comparison row fully formatted for human
// display: percent suffixes, thousands separators, N/A for undefined.
type ComparisonDisplayRow struct {
	Rank           int
	Asset          string
	Momentum       string
	LiquidityProxy string
	VolumeTrend    string
	DownsideRisk   string
	Top5Share      string
	WeightedScore  float64
}

// ComparisonRows returns the formatted comparison table. The underlying
// ranked values live in r.Comparison and are not affected by formatting.
func (r *Report) ComparisonRows() []ComparisonDisplayRow {
	if r.Comparison == nil {
		return nil
	}
	rows := make([]ComparisonDisplayRow, 0, len(r.Comparison.Rows))
	for _, row := range r.Comparison.Rows {
		rows = append(rows, ComparisonDisplayRow{
			Rank:           row.Rank,
			Asset:          row.Asset,
			Momentum:       formatPercent(row.Momentum),
			LiquidityProxy: formatAmount(row.LiquidityProxy),
			VolumeTrend:    formatPercent(row.VolumeTrend),
			DownsideRisk:   formatPercent(row.DownsideRisk),
			Top5Share:      formatShare(row.Top5Share),
			WeightedScore:  domain.Round(row.WeightedScore, kpiPlaces),
		})
	}
	return rows
}
