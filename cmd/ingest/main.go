// Package main fetches market snapshots from CoinGecko and writes them as
// a snapshot CSV consumable by the pipeline.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"crypto-intel-lab/internal/config"
	"crypto-intel-lab/internal/ingestion"
)

func main() {
	configPath := flag.String("config", "", "Path to YAML config file (optional)")
	outPath := flag.String("out", "data/crypto_data.csv", "Output CSV path")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	client := ingestion.NewClient(ingestion.ClientOptions{
		BaseURL:    cfg.CoinGecko.BaseURL,
		VsCurrency: cfg.CoinGecko.VsCurrency,
		PerPage:    cfg.CoinGecko.PerPage,
		Pages:      cfg.CoinGecko.Pages,
		Timeout:    cfg.CoinGecko.Timeout,
		Logger:     logger,
	})

	ctx := context.Background()
	snapshots, err := client.FetchMarkets(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Fetch error: %v\n", err)
		os.Exit(1)
	}

	table := ingestion.SnapshotTable(snapshots, time.Now())

	f, err := os.Create(*outPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Create output: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	if err := ingestion.WriteCSV(f, table); err != nil {
		fmt.Fprintf(os.Stderr, "Write csv: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Wrote %d snapshots to %s\n", table.Len(), *outPath)
}
