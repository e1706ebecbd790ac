// Package main runs the end-to-end analytics pipeline:
// load CSV → clean → KPIs → concentration → comparison → reports.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"crypto-intel-lab/internal/cleaning"
	"crypto-intel-lab/internal/comparison"
	"crypto-intel-lab/internal/concentration"
	"crypto-intel-lab/internal/config"
	"crypto-intel-lab/internal/ingestion"
	"crypto-intel-lab/internal/kpi"
	"crypto-intel-lab/internal/reporting"
)

func main() {
	configPath := flag.String("config", "", "Path to YAML config file (optional)")
	dataPath := flag.String("data", "", "Snapshot CSV path (overrides config)")
	outputDir := flag.String("output-dir", "", "Report output directory (overrides config)")
	assetsFlag := flag.String("assets", "", "Comma-separated assets to compare (overrides config; empty = all)")
	verbose := flag.Bool("verbose", false, "Debug logging")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}
	if *dataPath != "" {
		cfg.Data.CSVPath = *dataPath
	}
	if *outputDir != "" {
		cfg.Output.Dir = *outputDir
	}
	if *assetsFlag != "" {
		cfg.Compare.Assets = splitAssets(*assetsFlag)
	}

	logger := newLogger(cfg.Logging.Level, *verbose)
	ctx := context.Background()

	if err := run(ctx, cfg, logger); err != nil {
		fmt.Fprintf(os.Stderr, "Pipeline error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	// Load
	f, err := os.Open(cfg.Data.CSVPath)
	if err != nil {
		return fmt.Errorf("open data file: %w", err)
	}
	defer f.Close()

	raw, err := ingestion.ReadCSV(f)
	if err != nil {
		return fmt.Errorf("load csv: %w", err)
	}
	logger.Info("loaded snapshot csv", "path", cfg.Data.CSVPath, "rows", raw.Len())

	// Clean
	table, stats, err := cleaning.NewCleaner(logger).Clean(ctx, raw)
	if err != nil {
		return fmt.Errorf("clean: %w", err)
	}

	// KPIs
	engine := kpi.NewEngine(
		kpi.WithConcurrency(cfg.Compute.Concurrency),
		kpi.WithLogger(logger),
	)
	kpis, err := engine.Compute(ctx, table)
	if err != nil {
		return fmt.Errorf("kpi: %w", err)
	}

	// Concentration
	records, err := concentration.NewScorer(logger).Score(ctx, table)
	if err != nil {
		return fmt.Errorf("concentration: %w", err)
	}

	// Comparison
	cmp, err := comparison.NewComparator(logger).Compare(ctx, kpis, records, cfg.Compare.Assets)
	if err != nil {
		return fmt.Errorf("compare: %w", err)
	}

	// Report
	report := reporting.NewBuilder().Build(kpis, records, cmp, stats)
	reporting.RenderText(os.Stdout, report)

	if err := os.MkdirAll(cfg.Output.Dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	for _, format := range cfg.Output.Formats {
		if err := writeArtifact(cfg.Output.Dir, format, report); err != nil {
			return err
		}
	}
	return nil
}

func writeArtifact(dir, format string, report *reporting.Report) error {
	switch format {
	case "markdown":
		path := filepath.Join(dir, "REPORT.md")
		if err := os.WriteFile(path, []byte(reporting.RenderMarkdown(report)), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		fmt.Printf("Wrote %s\n", path)
	case "csv":
		files := map[string]string{
			"kpis.csv":          reporting.RenderKpiCSV(report),
			"concentration.csv": reporting.RenderConcentrationCSV(report),
			"comparison.csv":    reporting.RenderComparisonCSV(report),
		}
		for name, content := range files {
			path := filepath.Join(dir, name)
			if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
				return fmt.Errorf("write %s: %w", path, err)
			}
			fmt.Printf("Wrote %s\n", path)
		}
	case "xlsx":
		path := filepath.Join(dir, "report.xlsx")
		if err := reporting.WriteXLSX(path, report); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		fmt.Printf("Wrote %s\n", path)
	}
	return nil
}

func splitAssets(s string) []string {
	var assets []string
	for _, part := range strings.Split(s, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			assets = append(assets, trimmed)
		}
	}
	return assets
}

func newLogger(level string, verbose bool) *slog.Logger {
	lvl := slog.LevelInfo
	if verbose || level == "debug" {
		lvl = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}
