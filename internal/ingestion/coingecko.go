package ingestion

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// DefaultBaseURL is the public CoinGecko API root.
const DefaultBaseURL = "https://api.coingecko.com/api/v3"

// MarketSnapshot is one coin row from the CoinGecko /coins/markets
// endpoint. The percent-change fields are pointers because the API omits
// them for thinly traded coins.
type MarketSnapshot struct {
	ID                string   `json:"id"`
	Symbol            string   `json:"symbol"`
	Name              string   `json:"name"`
	CurrentPrice      float64  `json:"current_price"`
	MarketCap         float64  `json:"market_cap"`
	TotalVolume       float64  `json:"total_volume"`
	CirculatingSupply float64  `json:"circulating_supply"`
	PctChange1h       *float64 `json:"price_change_percentage_1h_in_currency"`
	PctChange24h      *float64 `json:"price_change_percentage_24h_in_currency"`
	PctChange7d       *float64 `json:"price_change_percentage_7d_in_currency"`
}

// Client fetches market snapshots from the CoinGecko API.
type Client struct {
	baseURL    string
	vsCurrency string
	perPage    int
	pages      int
	httpClient *http.Client
	logger     *slog.Logger
}

// ClientOptions configures a CoinGecko client. Zero values fall back to
// sensible defaults.
type ClientOptions struct {
	BaseURL    string
	VsCurrency string
	PerPage    int
	Pages      int
	Timeout    time.Duration
	Logger     *slog.Logger
}

// NewClient creates a CoinGecko markets client.
func NewClient(opts ClientOptions) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.VsCurrency == "" {
		opts.VsCurrency = "usd"
	}
	if opts.PerPage <= 0 {
		opts.PerPage = 200
	}
	if opts.Pages <= 0 {
		opts.Pages = 1
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 15 * time.Second
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Client{
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		vsCurrency: opts.VsCurrency,
		perPage:    opts.PerPage,
		pages:      opts.Pages,
		httpClient: &http.Client{Timeout: opts.Timeout},
		logger:     opts.Logger,
	}
}

// FetchMarkets retrieves the configured number of market pages ordered by
// market cap descending.
func (c *Client) FetchMarkets(ctx context.Context) ([]MarketSnapshot, error) {
	var all []MarketSnapshot
	for page := 1; page <= c.pages; page++ {
		snapshots, err := c.fetchPage(ctx, page)
		if err != nil {
			return nil, fmt.Errorf("fetch markets page %d: %w", page, err)
		}
		all = append(all, snapshots...)
		if len(snapshots) < c.perPage {
			break
		}
	}
	c.logger.InfoContext(ctx, "fetched market snapshots", "coins", len(all))
	return all, nil
}

func (c *Client) fetchPage(ctx context.Context, page int) ([]MarketSnapshot, error) {
	u, err := url.Parse(c.baseURL + "/coins/markets")
	if err != nil {
		return nil, fmt.Errorf("parse url: %w", err)
	}

	q := u.Query()
	q.Set("vs_currency", c.vsCurrency)
	q.Set("order", "market_cap_desc")
	q.Set("per_page", strconv.Itoa(c.perPage))
	q.Set("page", strconv.Itoa(page))
	q.Set("sparkline", "false")
	q.Set("price_change_percentage", "1h,24h,7d")
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var snapshots []MarketSnapshot
	if err := json.NewDecoder(resp.Body).Decode(&snapshots); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return snapshots, nil
}

// SnapshotTable converts fetched snapshots into a RawTable, stamping every
// row with takenAt as snapshot_time. The cleaning stage reinterprets
// snapshot_time as the observation timestamp.
func SnapshotTable(snapshots []MarketSnapshot, takenAt time.Time) *RawTable {
	table := &RawTable{
		Columns: []string{
			"name", "symbol", "snapshot_time", "price",
			"percent_change_1h", "percent_change_24h", "percent_change_7d",
			"volume_24h", "market_cap", "circulating_supply",
		},
	}

	ts := takenAt.UTC().Format(time.RFC3339)
	for _, s := range snapshots {
		table.Rows = append(table.Rows, map[string]string{
			"name":               s.Name,
			"symbol":             strings.ToUpper(s.Symbol),
			"snapshot_time":      ts,
			"price":              formatFloat(s.CurrentPrice),
			"percent_change_1h":  formatFloatPtr(s.PctChange1h),
			"percent_change_24h": formatFloatPtr(s.PctChange24h),
			"percent_change_7d":  formatFloatPtr(s.PctChange7d),
			"volume_24h":         formatFloat(s.TotalVolume),
			"market_cap":         formatFloat(s.MarketCap),
			"circulating_supply": formatFloat(s.CirculatingSupply),
		})
	}
	return table
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatFloatPtr(v *float64) string {
	if v == nil {
		return ""
	}
	return formatFloat(*v)
}
