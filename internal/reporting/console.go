package reporting

import (
	"fmt"
	"io"
	"text/tabwriter"
)

// RenderText writes a human-readable console summary of the report.
func RenderText(w io.Writer, r *Report) {
	fmt.Fprintln(w, "============================================================")
	fmt.Fprintln(w, "CRYPTO MARKET INTELLIGENCE")
	fmt.Fprintln(w, "============================================================")
	fmt.Fprintln(w)

	if r.CleanStats != nil {
		s := r.CleanStats
		fmt.Fprintf(w, "Cleaning: %d rows in, %d rows out (%d invalid, %d negative, %d duplicates dropped)\n\n",
			s.RowsIn, s.RowsOut, s.DroppedInvalid, s.DroppedNegative, s.DroppedDuplicates)
	}

	if r.Kpis != nil {
		fmt.Fprintf(w, "Asset KPIs (%d assets):\n", len(r.Kpis.Records))
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		if r.Kpis.HasTiers {
			fmt.Fprintln(tw, "ASSET\tMOMENTUM\tLIQUIDITY PROXY\tVOLUME TREND\tDOWNSIDE RISK\tTIER")
		} else {
			fmt.Fprintln(tw, "ASSET\tMOMENTUM\tLIQUIDITY PROXY\tVOLUME TREND\tDOWNSIDE RISK")
		}
		for _, row := range r.KpiRows() {
			if r.Kpis.HasTiers {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
					row.Asset, formatPercent(row.Momentum), formatAmount(row.LiquidityProxy),
					formatPercent(row.VolumeTrend), formatPercent(row.DownsideRisk), row.MarketCapTier)
			} else {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
					row.Asset, formatPercent(row.Momentum), formatAmount(row.LiquidityProxy),
					formatPercent(row.VolumeTrend), formatPercent(row.DownsideRisk))
			}
		}
		tw.Flush()
		fmt.Fprintln(w)
	}

	if len(r.Concentration) > 0 {
		fmt.Fprintf(w, "Liquidity Concentration (%d assets):\n", len(r.Concentration))
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ASSET\tTOP-5 SHARE\tHEALTH\tRISK\tRANK")
		for _, row := range r.ConcentrationRows() {
			rank := notAvailable
			if row.LiquidityRank != nil {
				rank = fmt.Sprintf("%d", *row.LiquidityRank)
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
				row.Asset, formatShare(row.Top5Share), formatAmount(row.LiquidityHealth), row.Risk, rank)
		}
		tw.Flush()
		fmt.Fprintln(w)
	}

	if r.Comparison != nil {
		fmt.Fprintf(w, "Asset Comparison (%d assets):\n", len(r.Comparison.Rows))
		for _, warning := range r.Comparison.Warnings {
			fmt.Fprintf(w, "  Warning: %s\n", warning)
		}
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "RANK\tASSET\tMOMENTUM\tLIQUIDITY PROXY\tVOLUME TREND\tDOWNSIDE RISK\tTOP-5 SHARE\tSCORE")
		for _, row := range r.ComparisonRows() {
			fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\t%.4f\n",
				row.Rank, row.Asset, row.Momentum, row.LiquidityProxy,
				row.VolumeTrend, row.DownsideRisk, row.Top5Share, row.WeightedScore)
		}
		tw.Flush()
		fmt.Fprintln(w)
	}
}
