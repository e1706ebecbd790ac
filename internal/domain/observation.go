package domain

import (
	"sort"
	"time"
)

// Logical column names carried by a TimeSeriesTable. Producers declare which
// columns they populated; consumers validate presence before computing.
const (
	ColumnAsset     = "asset"
	ColumnTimestamp = "timestamp"
	ColumnPrice     = "price"
	ColumnVolume    = "volume"
	ColumnMarketCap = "market_cap"
)

// Observation is one market snapshot for one asset at one instant.
// After cleaning, (Asset, Timestamp) is unique and numeric fields are
// non-negative.
type Observation struct {
	Asset     string
	Timestamp time.Time
	Price     float64
	Volume    float64
	MarketCap *float64 // nil when the source carried no market cap
}

// TimeSeriesTable is an ordered, immutable collection of observations
// together with the set of logical columns its producer populated.
// Stages never mutate a table they received; transformations build new
// tables.
type TimeSeriesTable struct {
	columns      map[string]bool
	observations []Observation
}

// NewTimeSeriesTable builds a table from observations and the logical
// columns the producer populated. The observations slice is copied.
func NewTimeSeriesTable(observations []Observation, columns ...string) *TimeSeriesTable {
	obs := make([]Observation, len(observations))
	copy(obs, observations)

	cols := make(map[string]bool, len(columns))
	for _, c := range columns {
		cols[c] = true
	}

	return &TimeSeriesTable{
		columns:      cols,
		observations: obs,
	}
}

// Len returns the number of observations.
func (t *TimeSeriesTable) Len() int {
	return len(t.observations)
}

// HasColumn reports whether the producer populated the named logical column.
func (t *TimeSeriesTable) HasColumn(name string) bool {
	return t.columns[name]
}

// Columns returns the populated logical columns in sorted order.
func (t *TimeSeriesTable) Columns() []string {
	cols := make([]string, 0, len(t.columns))
	for c := range t.columns {
		cols = append(cols, c)
	}
	sort.Strings(cols)
	return cols
}

// MissingColumns returns the subset of required columns the table does not
// carry, in the order requested.
func (t *TimeSeriesTable) MissingColumns(required ...string) []string {
	var missing []string
	for _, c := range required {
		if !t.columns[c] {
			missing = append(missing, c)
		}
	}
	return missing
}

// Observations returns a copy of the underlying rows.
func (t *TimeSeriesTable) Observations() []Observation {
	obs := make([]Observation, len(t.observations))
	copy(obs, t.observations)
	return obs
}

// AssetGroup holds the observations of one asset, sorted by timestamp
// ascending when the table carries a timestamp column.
type AssetGroup struct {
	Asset        string
	Observations []Observation
}

// GroupByAsset partitions the table by asset. Groups are returned in lexical
// asset order; within a group, observations are stably sorted by timestamp
// ascending when the timestamp column is present, otherwise input order is
// preserved. The sort happens here so per-asset aggregations never depend on
// caller-side ordering.
func (t *TimeSeriesTable) GroupByAsset() []AssetGroup {
	byAsset := make(map[string][]Observation)
	var order []string
	for _, o := range t.observations {
		if _, seen := byAsset[o.Asset]; !seen {
			order = append(order, o.Asset)
		}
		byAsset[o.Asset] = append(byAsset[o.Asset], o)
	}
	sort.Strings(order)

	hasTimestamp := t.columns[ColumnTimestamp]

	groups := make([]AssetGroup, 0, len(order))
	for _, asset := range order {
		obs := byAsset[asset]
		if hasTimestamp {
			sort.SliceStable(obs, func(i, j int) bool {
				return obs[i].Timestamp.Before(obs[j].Timestamp)
			})
		}
		groups = append(groups, AssetGroup{Asset: asset, Observations: obs})
	}
	return groups
}
