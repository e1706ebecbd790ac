// Package cleaning normalizes raw snapshot tables into the validated
// TimeSeriesTable the analytics engines consume: column renaming, type
// coercion, negative-value removal, and de-duplication by (asset,
// timestamp).
package cleaning

import (
	"context"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"time"

	"crypto-intel-lab/internal/domain"
	"crypto-intel-lab/internal/ingestion"
)

// Column aliases accepted from upstream shapes, tried in order. The
// snapshot_time alias is how pre-enriched snapshot rows get their field
// reinterpreted as the observation timestamp.
var columnAliases = map[string][]string{
	domain.ColumnAsset:     {"asset", "symbol"},
	domain.ColumnTimestamp: {"timestamp", "snapshot_time"},
	domain.ColumnPrice:     {"price", "current_price"},
	domain.ColumnVolume:    {"volume", "volume_24h", "total_volume"},
	domain.ColumnMarketCap: {"market_cap"},
}

// Accepted timestamp layouts, tried before a unix-seconds fallback.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Stats summarizes one cleaning run.
type Stats struct {
	RowsIn            int
	RowsOut           int
	DroppedInvalid    int // unparsable or empty required fields
	DroppedNegative   int // negative price, volume, or market cap
	DroppedDuplicates int // same (asset, timestamp) as an earlier row
}

// Cleaner normalizes raw tables.
type Cleaner struct {
	logger *slog.Logger
}

// NewCleaner creates a cleaner.
func NewCleaner(logger *slog.Logger) *Cleaner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Cleaner{logger: logger}
}

// Clean validates and normalizes a raw table into a TimeSeriesTable.
//
// Required logical columns after renaming are {asset, timestamp, price,
// volume}; absence is a SchemaError. Rows with unparsable or negative
// numeric values are dropped, duplicates by (asset, timestamp) keep the
// first occurrence, and the output is sorted by asset then timestamp
// ascending.
func (c *Cleaner) Clean(ctx context.Context, raw *ingestion.RawTable) (*domain.TimeSeriesTable, *Stats, error) {
	resolved := make(map[string]string, len(columnAliases))
	var missing []string
	for _, logical := range []string{domain.ColumnAsset, domain.ColumnTimestamp, domain.ColumnPrice, domain.ColumnVolume} {
		source, ok := resolveAlias(raw, logical)
		if !ok {
			missing = append(missing, logical)
			continue
		}
		resolved[logical] = source
	}
	if len(missing) > 0 {
		return nil, nil, domain.NewSchemaError("clean", missing)
	}
	marketCapSource, hasMarketCap := resolveAlias(raw, domain.ColumnMarketCap)

	stats := &Stats{RowsIn: raw.Len()}
	seen := make(map[dedupKey]bool, raw.Len())
	var observations []domain.Observation

	for _, row := range raw.Rows {
		asset := strings.TrimSpace(row[resolved[domain.ColumnAsset]])
		if asset == "" {
			stats.DroppedInvalid++
			continue
		}

		ts, ok := parseTimestamp(row[resolved[domain.ColumnTimestamp]])
		if !ok {
			stats.DroppedInvalid++
			continue
		}

		price, ok := parseFloat(row[resolved[domain.ColumnPrice]])
		if !ok {
			stats.DroppedInvalid++
			continue
		}
		volume, ok := parseFloat(row[resolved[domain.ColumnVolume]])
		if !ok {
			stats.DroppedInvalid++
			continue
		}
		if price < 0 || volume < 0 {
			stats.DroppedNegative++
			continue
		}

		var marketCap *float64
		if hasMarketCap {
			if v, ok := parseFloat(row[marketCapSource]); ok {
				if v < 0 {
					stats.DroppedNegative++
					continue
				}
				marketCap = &v
			}
		}

		key := dedupKey{asset: asset, timestamp: ts.UnixNano()}
		if seen[key] {
			stats.DroppedDuplicates++
			continue
		}
		seen[key] = true

		observations = append(observations, domain.Observation{
			Asset:     asset,
			Timestamp: ts,
			Price:     price,
			Volume:    volume,
			MarketCap: marketCap,
		})
	}

	sort.SliceStable(observations, func(i, j int) bool {
		if observations[i].Asset != observations[j].Asset {
			return observations[i].Asset < observations[j].Asset
		}
		return observations[i].Timestamp.Before(observations[j].Timestamp)
	})

	stats.RowsOut = len(observations)
	c.logger.InfoContext(ctx, "cleaned snapshot table",
		"rows_in", stats.RowsIn,
		"rows_out", stats.RowsOut,
		"dropped_invalid", stats.DroppedInvalid,
		"dropped_negative", stats.DroppedNegative,
		"dropped_duplicates", stats.DroppedDuplicates,
	)

	columns := []string{domain.ColumnAsset, domain.ColumnTimestamp, domain.ColumnPrice, domain.ColumnVolume}
	if hasMarketCap {
		columns = append(columns, domain.ColumnMarketCap)
	}
	return domain.NewTimeSeriesTable(observations, columns...), stats, nil
}

type dedupKey struct {
	asset     string
	timestamp int64
}

// resolveAlias finds the first source column matching a logical column.
func resolveAlias(raw *ingestion.RawTable, logical string) (string, bool) {
	for _, alias := range columnAliases[logical] {
		if raw.HasColumn(alias) {
			return alias, true
		}
	}
	return "", false
}

func parseFloat(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// parseTimestamp accepts the known layouts, then unix seconds.
func parseTimestamp(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts.UTC(), true
		}
	}
	if secs, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Unix(secs, 0).UTC(), true
	}
	return time.Time{}, false
}
