package comparison

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"

	"crypto-intel-lab/internal/domain"
)

func ptr(v float64) *float64 { return &v }

func kpiSet(assets ...string) *domain.KpiSet {
	set := &domain.KpiSet{}
	for i, asset := range assets {
		set.Records = append(set.Records, domain.KpiRecord{
			Asset:          asset,
			Momentum:       ptr(float64(10 * (i + 1))),
			LiquidityProxy: ptr(float64(50)),
			VolumeTrend:    ptr(float64(5)),
			DownsideRisk:   ptr(float64(5)),
			MarketCapTier:  domain.TierUnknown,
		})
	}
	return set
}

func TestWeightsSumToOne(t *testing.T) {
	without := momentumWeight + liquidityWeight + riskWeight
	if math.Abs(without-1.0) > 1e-12 {
		t.Errorf("weights without concentration sum to %v, want 1.0", without)
	}
	with := momentumWeight + liquidityWeightConc + riskWeight + concentrationWeight
	if math.Abs(with-1.0) > 1e-12 {
		t.Errorf("weights with concentration sum to %v, want 1.0", with)
	}
}

func TestCompare_ScoreWithoutConcentration(t *testing.T) {
	set := &domain.KpiSet{Records: []domain.KpiRecord{
		{Asset: "AAA", Momentum: ptr(10), LiquidityProxy: ptr(50), DownsideRisk: ptr(5)},
		{Asset: "BBB", Momentum: ptr(20), LiquidityProxy: ptr(50), DownsideRisk: ptr(5)},
	}}

	result, err := NewComparator(nil).Compare(context.Background(), set, nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.WithConcentration {
		t.Error("expected WithConcentration false")
	}

	// BBB: 20*0.4 + 50*0.3 + 95*0.3 = 51.5 → rank 1
	// AAA: 10*0.4 + 50*0.3 + 95*0.3 = 47.5 → rank 2
	if result.Rows[0].Asset != "BBB" || result.Rows[0].Rank != 1 {
		t.Errorf("expected BBB rank 1 first, got %s rank %d", result.Rows[0].Asset, result.Rows[0].Rank)
	}
	if math.Abs(result.Rows[0].WeightedScore-51.5) > 1e-9 {
		t.Errorf("expected BBB score 51.5, got %v", result.Rows[0].WeightedScore)
	}
	if math.Abs(result.Rows[1].WeightedScore-47.5) > 1e-9 {
		t.Errorf("expected AAA score 47.5, got %v", result.Rows[1].WeightedScore)
	}
}

func TestCompare_ScoreWithConcentration(t *testing.T) {
	set := &domain.KpiSet{Records: []domain.KpiRecord{
		{Asset: "AAA", Momentum: ptr(10), LiquidityProxy: ptr(50), DownsideRisk: ptr(5)},
		{Asset: "BBB", Momentum: ptr(10), LiquidityProxy: ptr(50), DownsideRisk: ptr(5)},
	}}
	concentration := []domain.ConcentrationRecord{
		{Asset: "AAA", Top5Share: ptr(0.875)},
		{Asset: "BBB", Top5Share: ptr(0.25)},
	}

	result, err := NewComparator(nil).Compare(context.Background(), set, concentration, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.WithConcentration {
		t.Error("expected WithConcentration true")
	}

	// AAA: 10*0.4 + 50*0.2 + 95*0.3 + (100-87.5)*0.1 = 4+10+28.5+1.25 = 43.75
	// BBB: 4 + 10 + 28.5 + (100-25)*0.1 = 50.0 → rank 1
	if result.Rows[0].Asset != "BBB" {
		t.Fatalf("expected BBB first, got %s", result.Rows[0].Asset)
	}
	if math.Abs(result.Rows[0].WeightedScore-50.0) > 1e-9 {
		t.Errorf("expected BBB score 50.0, got %v", result.Rows[0].WeightedScore)
	}
	if math.Abs(result.Rows[1].WeightedScore-43.75) > 1e-9 {
		t.Errorf("expected AAA score 43.75, got %v", result.Rows[1].WeightedScore)
	}
}

func TestCompare_ClampsNegativeAndNil(t *testing.T) {
	// A negative downside-risk stand-in must clamp to 0, and nil KPIs score
	// as 0 rather than poisoning the composite.
	set := &domain.KpiSet{Records: []domain.KpiRecord{
		{Asset: "AAA", Momentum: ptr(10), LiquidityProxy: ptr(50), DownsideRisk: ptr(-5)},
		{Asset: "BBB"},
	}}

	result, err := NewComparator(nil).Compare(context.Background(), set, nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// AAA: 10*0.4 + 50*0.3 + (100-0)*0.3 = 49.0 (clamped risk)
	// BBB: 0 + 0 + 100*0.3 = 30.0 (all nil → 0)
	scores := make(map[string]float64)
	for _, row := range result.Rows {
		scores[row.Asset] = row.WeightedScore
	}
	if math.Abs(scores["AAA"]-49.0) > 1e-9 {
		t.Errorf("expected AAA score 49.0 with clamped negative risk, got %v", scores["AAA"])
	}
	if math.Abs(scores["BBB"]-30.0) > 1e-9 {
		t.Errorf("expected BBB score 30.0 with nil KPIs, got %v", scores["BBB"])
	}
}

func TestCompare_DefaultSelectsAll(t *testing.T) {
	set := kpiSet("AAA", "BBB", "CCC", "DDD", "EEE", "FFF", "GGG")

	result, err := NewComparator(nil).Compare(context.Background(), set, nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Rows) != 7 {
		t.Errorf("expected all 7 assets selected by default, got %d", len(result.Rows))
	}
	if len(result.Warnings) != 0 {
		t.Errorf("expected no warnings, got %v", result.Warnings)
	}
}

func TestCompare_TruncationBeforeExistenceFiltering(t *testing.T) {
	// Six names, two nonexistent: truncation to 5 fires first, then the
	// invalid names drop; 3 valid remain, which is still enough.
	set := kpiSet("AAA", "BBB", "CCC", "DDD")
	requested := []string{"AAA", "XXX", "BBB", "YYY", "CCC", "DDD"}

	result, err := NewComparator(nil).Compare(context.Background(), set, nil, requested)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Rows) != 3 {
		t.Errorf("expected 3 rows (DDD truncated away), got %d", len(result.Rows))
	}
	for _, row := range result.Rows {
		if row.Asset == "DDD" {
			t.Error("DDD should have been truncated before filtering")
		}
	}

	if len(result.Warnings) != 2 {
		t.Fatalf("expected truncation and invalid-asset warnings, got %v", result.Warnings)
	}
	if !strings.Contains(result.Warnings[0], "first 5") {
		t.Errorf("expected truncation warning first, got %q", result.Warnings[0])
	}
	if !strings.Contains(result.Warnings[1], "XXX") || !strings.Contains(result.Warnings[1], "YYY") {
		t.Errorf("expected invalid assets named in warning, got %q", result.Warnings[1])
	}
}

func TestCompare_SelectionErrorNamesAvailable(t *testing.T) {
	set := kpiSet("AAA", "BBB")

	_, err := NewComparator(nil).Compare(context.Background(), set, nil, []string{"XXX", "YYY"})
	var selErr *SelectionError
	if !errors.As(err, &selErr) {
		t.Fatalf("expected SelectionError, got %v", err)
	}
	if selErr.Valid != 0 {
		t.Errorf("expected 0 valid, got %d", selErr.Valid)
	}
	if len(selErr.Available) != 2 || selErr.Available[0] != "AAA" {
		t.Errorf("expected available [AAA BBB], got %v", selErr.Available)
	}
	if !strings.Contains(selErr.Error(), "AAA") {
		t.Errorf("expected message to name available assets, got %q", selErr.Error())
	}
}

func TestCompare_TooShortRequest(t *testing.T) {
	set := kpiSet("AAA", "BBB")

	_, err := NewComparator(nil).Compare(context.Background(), set, nil, []string{"AAA"})
	var selErr *SelectionError
	if !errors.As(err, &selErr) {
		t.Fatalf("expected SelectionError for single-asset request, got %v", err)
	}
}

func TestCompare_DenseRankOnTies(t *testing.T) {
	// AAA and BBB share identical KPIs → identical scores → shared rank 1;
	// CCC scores lower → rank 2. Stable sort keeps AAA before BBB.
	set := &domain.KpiSet{Records: []domain.KpiRecord{
		{Asset: "AAA", Momentum: ptr(10), LiquidityProxy: ptr(50), DownsideRisk: ptr(5)},
		{Asset: "BBB", Momentum: ptr(10), LiquidityProxy: ptr(50), DownsideRisk: ptr(5)},
		{Asset: "CCC", Momentum: ptr(1), LiquidityProxy: ptr(10), DownsideRisk: ptr(5)},
	}}

	result, err := NewComparator(nil).Compare(context.Background(), set, nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Rows[0].Asset != "AAA" || result.Rows[1].Asset != "BBB" {
		t.Errorf("expected stable order AAA then BBB, got %s then %s",
			result.Rows[0].Asset, result.Rows[1].Asset)
	}
	if result.Rows[0].Rank != 1 || result.Rows[1].Rank != 1 {
		t.Errorf("expected tied rows to share rank 1, got %d and %d",
			result.Rows[0].Rank, result.Rows[1].Rank)
	}
	if result.Rows[2].Rank != 2 {
		t.Errorf("expected next distinct score rank 2, got %d", result.Rows[2].Rank)
	}
}

func TestCompare_NoKpiData(t *testing.T) {
	_, err := NewComparator(nil).Compare(context.Background(), nil, nil, nil)
	if !errors.Is(err, ErrNoKpiData) {
		t.Fatalf("expected ErrNoKpiData, got %v", err)
	}
	_, err = NewComparator(nil).Compare(context.Background(), &domain.KpiSet{}, nil, nil)
	if !errors.Is(err, ErrNoKpiData) {
		t.Fatalf("expected ErrNoKpiData for empty set, got %v", err)
	}
}
