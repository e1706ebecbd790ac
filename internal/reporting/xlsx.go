package reporting

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// WriteXLSX writes the report as a workbook with one sheet per table.
// Numeric cells carry the display-rounded values; undefined metrics stay
// empty.
func WriteXLSX(path string, r *Report) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := writeKpiSheet(f, r); err != nil {
		return err
	}
	if err := writeConcentrationSheet(f, r); err != nil {
		return err
	}
	if err := writeComparisonSheet(f, r); err != nil {
		return err
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}

func writeKpiSheet(f *excelize.File, r *Report) error {
	const sheet = "KPIs"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	header := []interface{}{
		"asset", "momentum", "liquidity_proxy", "volume_trend", "downside_risk",
		"momentum_1h", "momentum_24h", "momentum_7d",
		"avg_downside_risk_pct", "liquidity_score", "avg_volume", "market_cap_tier",
	}
	if err := writeRow(f, sheet, 1, header); err != nil {
		return err
	}
	for i, row := range r.KpiRows() {
		cells := []interface{}{
			row.Asset,
			cellFloat(row.Momentum), cellFloat(row.LiquidityProxy),
			cellFloat(row.VolumeTrend), cellFloat(row.DownsideRisk),
			cellFloat(row.Momentum1h), cellFloat(row.Momentum24h), cellFloat(row.Momentum7d),
			cellFloat(row.AvgDownsideRiskPct), cellFloat(row.LiquidityScore), cellFloat(row.AvgVolume),
			row.MarketCapTier,
		}
		if err := writeRow(f, sheet, i+2, cells); err != nil {
			return err
		}
	}
	return nil
}

func writeConcentrationSheet(f *excelize.File, r *Report) error {
	const sheet = "Concentration"
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("new sheet %s: %w", sheet, err)
	}

	header := []interface{}{
		"asset", "total_volume", "top5_volume", "top5_share",
		"liquidity_health", "concentration_risk", "liquidity_rank",
	}
	if err := writeRow(f, sheet, 1, header); err != nil {
		return err
	}
	for i, row := range r.ConcentrationRows() {
		cells := []interface{}{
			row.Asset,
			cellFloat(row.TotalVolume), cellFloat(row.Top5Volume), cellFloat(row.Top5Share),
			cellFloat(row.LiquidityHealth), row.Risk, cellInt(row.LiquidityRank),
		}
		if err := writeRow(f, sheet, i+2, cells); err != nil {
			return err
		}
	}
	return nil
}

func writeComparisonSheet(f *excelize.File, r *Report) error {
	const sheet = "Comparison"
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("new sheet %s: %w", sheet, err)
	}

	header := []interface{}{
		"rank", "asset", "momentum", "liquidity_proxy", "volume_trend",
		"downside_risk", "top5_share", "weighted_score",
	}
	if err := writeRow(f, sheet, 1, header); err != nil {
		return err
	}
	if r.Comparison == nil {
		return nil
	}
	for i, row := range r.Comparison.Rows {
		cells := []interface{}{
			row.Rank, row.Asset,
			cellFloat(row.Momentum), cellFloat(row.LiquidityProxy),
			cellFloat(row.VolumeTrend), cellFloat(row.DownsideRisk),
			cellFloat(row.Top5Share), row.WeightedScore,
		}
		if err := writeRow(f, sheet, i+2, cells); err != nil {
			return err
		}
	}
	return nil
}

func writeRow(f *excelize.File, sheet string, rowNum int, cells []interface{}) error {
	for col, value := range cells {
		if value == nil {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(col+1, rowNum)
		if err != nil {
			return fmt.Errorf("cell name: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, value); err != nil {
			return fmt.Errorf("set cell %s!%s: %w", sheet, cell, err)
		}
	}
	return nil
}

func cellFloat(v *float64) interface{} {
	if v == nil {
		return nil
	}
	return *v
}

func cellInt(v *int) interface{} {
	if v == nil {
		return nil
	}
	return *v
}
