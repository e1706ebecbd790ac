package domain

// ConcentrationRisk buckets an asset by how much of its volume the top
// contributors account for.
type ConcentrationRisk string

const (
	RiskLow     ConcentrationRisk = "Low"
	RiskMedium  ConcentrationRisk = "Medium"
	RiskHigh    ConcentrationRisk = "High"
	RiskUnknown ConcentrationRisk = "Unknown"
)

// ClassifyConcentration maps a top-5 volume share onto a risk bucket.
// Boundaries are asymmetric on purpose: exactly 0.60 is Medium (strict >
// for High, inclusive >= for the Medium lower bound).
func ClassifyConcentration(top5Share *float64) ConcentrationRisk {
	switch {
	case top5Share == nil:
		return RiskUnknown
	case *top5Share > 0.60:
		return RiskHigh
	case *top5Share >= 0.40:
		return RiskMedium
	default:
		return RiskLow
	}
}

// ConcentrationRecord is one asset's liquidity concentration profile.
// Values are full precision; rounding happens at the reporting boundary.
// All numeric fields are nil when the group had no usable volumes.
type ConcentrationRecord struct {
	Asset           string
	TotalVolume     *float64
	Top5Volume      *float64
	Top5Share       *float64 // in [0,1] when defined
	LiquidityHealth *float64 // (1 - top5_share) * 100, higher is healthier
	Risk            ConcentrationRisk

	// LiquidityRank is a dense rank by LiquidityHealth descending across
	// all assets in the scored table. Nil health stays unranked.
	LiquidityRank *int
}
