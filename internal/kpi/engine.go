// Package kpi computes per-asset performance indicators over a validated
// snapshot time-series: multi-window momentum, a rolling liquidity proxy,
// volume trend, downside risk, and market-cap tiering.
package kpi

import (
	"context"
	"log/slog"
	"math"
	"time"

	"golang.org/x/sync/errgroup"

	"crypto-intel-lab/internal/domain"
)

// Timeframe lookback windows for the multi-timeframe momentum variants,
// measured back from a group's latest timestamp.
const (
	Window1h  = time.Hour
	Window24h = 24 * time.Hour
	Window7d  = 7 * 24 * time.Hour
)

// liquidityWindow is the rolling-mean window for the liquidity proxy,
// capped at the group size.
const liquidityWindow = 3

// Engine computes one KpiRecord per asset. It is stateless between calls:
// computing the same table twice yields bit-identical output.
type Engine struct {
	concurrency int
	logger      *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithConcurrency bounds the number of asset groups computed in parallel.
// Groups are independent, so any bound >= 1 yields the same result; output
// order is made deterministic by a final lexical sort regardless.
func WithConcurrency(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.concurrency = n
		}
	}
}

// WithLogger sets the engine logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// NewEngine creates a KPI engine. The default is sequential computation.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		concurrency: 1,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Compute calculates KPIs for every asset in the table.
//
// The table must carry {asset, price, volume}; a missing column is a
// SchemaError and no partial result is returned. timestamp and market_cap
// are optional: without timestamps the multi-timeframe momentum fields stay
// nil, without market_cap every tier is Unknown. Degenerate groups (too few
// observations, zero baseline) yield nil metrics rather than errors so one
// short-lived asset cannot abort the batch.
//
// Records are returned in lexical asset order.
func (e *Engine) Compute(ctx context.Context, table *domain.TimeSeriesTable) (*domain.KpiSet, error) {
	missing := table.MissingColumns(domain.ColumnAsset, domain.ColumnPrice, domain.ColumnVolume)
	if len(missing) > 0 {
		return nil, domain.NewSchemaError("kpi", missing)
	}

	groups := table.GroupByAsset()
	hasTiers := table.HasColumn(domain.ColumnMarketCap)
	hasTimeframes := table.HasColumn(domain.ColumnTimestamp)

	e.logger.DebugContext(ctx, "computing kpis",
		"assets", len(groups),
		"rows", table.Len(),
		"has_market_cap", hasTiers,
		"has_timestamp", hasTimeframes,
	)

	records := make([]domain.KpiRecord, len(groups))

	if e.concurrency > 1 {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(e.concurrency)
		for i, group := range groups {
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				records[i] = computeGroup(group, hasTiers, hasTimeframes)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	} else {
		for i, group := range groups {
			records[i] = computeGroup(group, hasTiers, hasTimeframes)
		}
	}

	return &domain.KpiSet{
		Records:       records,
		HasTiers:      hasTiers,
		HasTimeframes: hasTimeframes,
	}, nil
}

// computeGroup calculates all KPIs for one asset group. Observations are
// already sorted by timestamp ascending by GroupByAsset.
func computeGroup(group domain.AssetGroup, hasMarketCap, hasTimestamps bool) domain.KpiRecord {
	n := len(group.Observations)

	prices := make([]float64, n)
	volumes := make([]float64, n)
	for i, o := range group.Observations {
		prices[i] = o.Price
		volumes[i] = o.Volume
	}

	record := domain.KpiRecord{
		Asset:         group.Asset,
		Momentum:      firstLastPctChange(prices),
		VolumeTrend:   firstLastPctChange(volumes),
		MarketCapTier: domain.TierUnknown,
	}

	record.LiquidityProxy = liquidityProxy(prices, volumes)
	record.DownsideRisk, record.AvgDownsideRiskPct = downsideRisk(prices)

	if n > 0 {
		avgVolume := mean(volumes)
		record.AvgVolume = &avgVolume
		if avgVolume > 0 {
			score := math.Log(avgVolume)
			record.LiquidityScore = &score
		}
	}

	if hasTimestamps && n > 0 {
		latest := group.Observations[n-1].Timestamp
		record.Momentum1h = windowedMomentum(group.Observations, latest, Window1h)
		record.Momentum24h = windowedMomentum(group.Observations, latest, Window24h)
		record.Momentum7d = windowedMomentum(group.Observations, latest, Window7d)
	}

	if hasMarketCap {
		record.MarketCapTier = marketCapTier(group.Observations)
	}

	return record
}

// liquidityProxy computes the mean of a trailing rolling mean of
// price*volume, window min(3, n) with a minimum of 1 period. Nil for an
// empty group.
func liquidityProxy(prices, volumes []float64) *float64 {
	n := len(prices)
	if n == 0 {
		return nil
	}
	notional := make([]float64, n)
	for i := range prices {
		notional[i] = prices[i] * volumes[i]
	}
	window := liquidityWindow
	if n < window {
		window = n
	}
	proxy := mean(rollingMean(notional, window))
	return &proxy
}

// downsideRisk computes the dispersion and mean magnitude of negative
// period returns, both in percent.
//
// Policy: with fewer than 2 observations both metrics are nil (no return
// series exists); with a return series but fewer than 2 negative returns
// the dispersion is 0.0 (sample stddev needs two points), not nil — the
// 0.0-vs-nil asymmetry is intentional and downstream scoring depends on it.
func downsideRisk(prices []float64) (risk, avgMagnitude *float64) {
	if len(prices) < 2 {
		return nil, nil
	}

	neg := negativeSubset(periodReturns(prices))

	r := 0.0
	if len(neg) >= 2 {
		r = sampleStddev(neg) * 100
	}

	a := 0.0
	if len(neg) > 0 {
		a = math.Abs(mean(neg)) * 100
	}

	return &r, &a
}

// windowedMomentum restricts the group to observations within the lookback
// of the latest timestamp and applies the first-vs-last formula. Nil when
// fewer than 2 observations fall inside the window.
func windowedMomentum(observations []domain.Observation, latest time.Time, lookback time.Duration) *float64 {
	cutoff := latest.Add(-lookback)
	var prices []float64
	for _, o := range observations {
		if !o.Timestamp.Before(cutoff) {
			prices = append(prices, o.Price)
		}
	}
	return firstLastPctChange(prices)
}

// marketCapTier classifies the group by its mean market cap. Unknown when
// no observation in the group carries one.
func marketCapTier(observations []domain.Observation) domain.MarketCapTier {
	var caps []float64
	for _, o := range observations {
		if o.MarketCap != nil {
			caps = append(caps, *o.MarketCap)
		}
	}
	if len(caps) == 0 {
		return domain.TierUnknown
	}
	return domain.ClassifyMarketCap(mean(caps))
}
