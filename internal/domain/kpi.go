package domain

// MarketCapTier classifies an asset by its mean market capitalization.
type MarketCapTier string

const (
	TierLargeCap MarketCapTier = "Large Cap"
	TierMidCap   MarketCapTier = "Mid Cap"
	TierSmallCap MarketCapTier = "Small Cap"
	TierUnknown  MarketCapTier = "Unknown"
)

// Market cap tier thresholds in quote currency units.
const (
	LargeCapThreshold = 1e11
	MidCapThreshold   = 1e10
)

// ClassifyMarketCap maps a mean market capitalization onto a tier.
func ClassifyMarketCap(meanMarketCap float64) MarketCapTier {
	switch {
	case meanMarketCap >= LargeCapThreshold:
		return TierLargeCap
	case meanMarketCap >= MidCapThreshold:
		return TierMidCap
	default:
		return TierSmallCap
	}
}

// KpiRecord is one asset's performance indicators. Values are full
// precision; presentation rounding is applied only at the reporting
// boundary. Nil means the metric is undefined for the group (too few
// observations, zero baseline), which downstream scoring treats
// differently from 0.
type KpiRecord struct {
	Asset string

	// Core KPIs.
	Momentum       *float64 // first-vs-last price change, percent
	LiquidityProxy *float64 // smoothed mean of price*volume
	VolumeTrend    *float64 // first-vs-last volume change, percent
	DownsideRisk   *float64 // stddev of negative returns, percent; 0 when none, nil when <2 observations

	// Multi-timeframe momentum, computed against the group's latest
	// timestamp. Nil when fewer than 2 observations fall in the window or
	// the table carries no timestamps.
	Momentum1h  *float64
	Momentum24h *float64
	Momentum7d  *float64

	// Extended indicators.
	AvgDownsideRiskPct *float64 // |mean| of negative returns, percent
	LiquidityScore     *float64 // ln of mean volume, nil when mean volume <= 0
	AvgVolume          *float64

	// MarketCapTier is TierUnknown when the table carries no market_cap
	// column or the group has no market cap values.
	MarketCapTier MarketCapTier
}

// KpiSet is the output of one KPI engine invocation: one record per asset
// in lexical asset order, plus capability tags telling consumers which
// optional column families were actually computed. The tags replace
// per-record column sniffing in formatting code.
type KpiSet struct {
	Records []KpiRecord

	// HasTiers is true when the input table carried market_cap, i.e. the
	// MarketCapTier fields are meaningful rather than uniformly Unknown.
	HasTiers bool

	// HasTimeframes is true when the input table carried timestamps, i.e.
	// the 1h/24h/7d momentum fields were computable.
	HasTimeframes bool
}
