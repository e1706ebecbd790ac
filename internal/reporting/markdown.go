package reporting

import (
	"fmt"
	"strings"
	"time"
)

// RenderMarkdown renders the full report as a Markdown document.
func RenderMarkdown(r *Report) string {
	var sb strings.Builder

	sb.WriteString("# Crypto Market Intelligence Report\n\n")
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", r.GeneratedAt.Format(time.RFC3339)))

	if r.CleanStats != nil {
		s := r.CleanStats
		sb.WriteString("## Data Cleaning\n\n")
		sb.WriteString("| Metric | Value |\n")
		sb.WriteString("|--------|-------|\n")
		sb.WriteString(fmt.Sprintf("| Rows In | %d |\n", s.RowsIn))
		sb.WriteString(fmt.Sprintf("| Rows Out | %d |\n", s.RowsOut))
		sb.WriteString(fmt.Sprintf("| Dropped Invalid | %d |\n", s.DroppedInvalid))
		sb.WriteString(fmt.Sprintf("| Dropped Negative | %d |\n", s.DroppedNegative))
		sb.WriteString(fmt.Sprintf("| Dropped Duplicates | %d |\n", s.DroppedDuplicates))
		sb.WriteString("\n")
	}

	if r.Kpis != nil {
		sb.WriteString("## Asset KPIs\n\n")
		if r.Kpis.HasTiers {
			sb.WriteString("| Asset | Momentum | Liquidity Proxy | Volume Trend | Downside Risk | Tier |\n")
			sb.WriteString("|-------|----------|-----------------|--------------|---------------|------|\n")
		} else {
			sb.WriteString("| Asset | Momentum | Liquidity Proxy | Volume Trend | Downside Risk |\n")
			sb.WriteString("|-------|----------|-----------------|--------------|---------------|\n")
		}
		for _, row := range r.KpiRows() {
			if r.Kpis.HasTiers {
				sb.WriteString(fmt.Sprintf("| %s | %s | %s | %s | %s | %s |\n",
					row.Asset,
					formatPercent(row.Momentum),
					formatAmount(row.LiquidityProxy),
					formatPercent(row.VolumeTrend),
					formatPercent(row.DownsideRisk),
					row.MarketCapTier,
				))
			} else {
				sb.WriteString(fmt.Sprintf("| %s | %s | %s | %s | %s |\n",
					row.Asset,
					formatPercent(row.Momentum),
					formatAmount(row.LiquidityProxy),
					formatPercent(row.VolumeTrend),
					formatPercent(row.DownsideRisk),
				))
			}
		}
		sb.WriteString("\n")
	}

	if len(r.Concentration) > 0 {
		sb.WriteString("## Liquidity Concentration\n\n")
		sb.WriteString("| Asset | Total Volume | Top-5 Volume | Top-5 Share | Health | Risk | Rank |\n")
		sb.WriteString("|-------|--------------|--------------|-------------|--------|------|------|\n")
		for _, row := range r.ConcentrationRows() {
			rank := notAvailable
			if row.LiquidityRank != nil {
				rank = fmt.Sprintf("%d", *row.LiquidityRank)
			}
			sb.WriteString(fmt.Sprintf("| %s | %s | %s | %s | %s | %s | %s |\n",
				row.Asset,
				formatAmount(row.TotalVolume),
				formatAmount(row.Top5Volume),
				formatShare(row.Top5Share),
				formatAmount(row.LiquidityHealth),
				row.Risk,
				rank,
			))
		}
		sb.WriteString("\n")
	}

	if r.Comparison != nil {
		sb.WriteString("## Asset Comparison\n\n")
		for _, w := range r.Comparison.Warnings {
			sb.WriteString(fmt.Sprintf("> Warning: %s\n", w))
		}
		if len(r.Comparison.Warnings) > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString("| Rank | Asset | Momentum (%) | Liquidity Proxy | Volume Trend (%) | Downside Risk (%) | Top-5 Share | Score |\n")
		sb.WriteString("|------|-------|--------------|-----------------|------------------|-------------------|-------------|-------|\n")
		for _, row := range r.ComparisonRows() {
			sb.WriteString(fmt.Sprintf("| %d | %s | %s | %s | %s | %s | %s | %.4f |\n",
				row.Rank,
				row.Asset,
				row.Momentum,
				row.LiquidityProxy,
				row.VolumeTrend,
				row.DownsideRisk,
				row.Top5Share,
				row.WeightedScore,
			))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}
