package reporting

import (
	"fmt"
	"strings"
)

// RenderKpiCSV renders the KPI table as CSV. Values carry display rounding
// (4 decimal places); undefined metrics are empty cells.
func RenderKpiCSV(r *Report) string {
	var sb strings.Builder

	sb.WriteString("asset,momentum,liquidity_proxy,volume_trend,downside_risk,")
	sb.WriteString("momentum_1h,momentum_24h,momentum_7d,")
	sb.WriteString("avg_downside_risk_pct,liquidity_score,avg_volume,market_cap_tier\n")

	for _, row := range r.KpiRows() {
		sb.WriteString(fmt.Sprintf("%s,%s,%s,%s,%s,%s,%s,%s,%s,%s,%s,%s\n",
			row.Asset,
			csvFloat(row.Momentum),
			csvFloat(row.LiquidityProxy),
			csvFloat(row.VolumeTrend),
			csvFloat(row.DownsideRisk),
			csvFloat(row.Momentum1h),
			csvFloat(row.Momentum24h),
			csvFloat(row.Momentum7d),
			csvFloat(row.AvgDownsideRiskPct),
			csvFloat(row.LiquidityScore),
			csvFloat(row.AvgVolume),
			row.MarketCapTier,
		))
	}
	return sb.String()
}

// RenderConcentrationCSV renders the concentration table as CSV.
func RenderConcentrationCSV(r *Report) string {
	var sb strings.Builder

	sb.WriteString("asset,total_volume,top5_volume,top5_share,liquidity_health,concentration_risk,liquidity_rank\n")

	for _, row := range r.ConcentrationRows() {
		sb.WriteString(fmt.Sprintf("%s,%s,%s,%s,%s,%s,%s\n",
			row.Asset,
			csvFloat(row.TotalVolume),
			csvFloat(row.Top5Volume),
			csvFloat(row.Top5Share),
			csvFloat(row.LiquidityHealth),
			row.Risk,
			csvInt(row.LiquidityRank),
		))
	}
	return sb.String()
}

// RenderComparisonCSV renders the ranked comparison as CSV with the
// underlying numeric values (not the human formatting), so the file stays
// machine-consumable.
func RenderComparisonCSV(r *Report) string {
	var sb strings.Builder

	sb.WriteString("rank,asset,momentum,liquidity_proxy,volume_trend,downside_risk,top5_share,weighted_score\n")

	if r.Comparison == nil {
		return sb.String()
	}
	for _, row := range r.Comparison.Rows {
		sb.WriteString(fmt.Sprintf("%d,%s,%s,%s,%s,%s,%s,%.4f\n",
			row.Rank,
			row.Asset,
			csvFloat(row.Momentum),
			csvFloat(row.LiquidityProxy),
			csvFloat(row.VolumeTrend),
			csvFloat(row.DownsideRisk),
			csvFloat(row.Top5Share),
			row.WeightedScore,
		))
	}
	return sb.String()
}
