package domain

// ComparisonRow is one selected asset in a ranked multi-asset comparison.
// It joins KPI and (optionally) concentration fields and carries the
// weighted composite score. Rows are transient display material, not
// persisted.
type ComparisonRow struct {
	Asset string

	Momentum       *float64
	LiquidityProxy *float64
	VolumeTrend    *float64
	DownsideRisk   *float64

	// Top5Share is nil when the comparison ran without concentration data.
	Top5Share *float64

	// WeightedScore is the composite score; its weights sum to 1.0 in both
	// the with- and without-concentration branches.
	WeightedScore float64

	// Rank is 1-based and dense by WeightedScore descending: equal scores
	// share a rank.
	Rank int
}
