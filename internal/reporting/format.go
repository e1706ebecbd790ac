package reporting

import (
	"fmt"
	"strconv"

	"github.com/dustin/go-humanize"
)

// notAvailable marks undefined metrics in human-facing tables.
const notAvailable = "N/A"

// formatPercent renders a percentage metric as "12.34%" or N/A.
func formatPercent(v *float64) string {
	if v == nil {
		return notAvailable
	}
	return fmt.Sprintf("%.2f%%", *v)
}

// formatAmount renders a notional value with thousands separators and two
// decimal places, or N/A.
func formatAmount(v *float64) string {
	if v == nil {
		return notAvailable
	}
	return humanize.CommafWithDigits(*v, 2)
}

// formatShare renders a [0,1] share with four decimal places, or N/A.
func formatShare(v *float64) string {
	if v == nil {
		return notAvailable
	}
	return fmt.Sprintf("%.4f", *v)
}

// csvFloat renders a nullable float for CSV output: empty when nil,
// shortest decimal representation otherwise.
func csvFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

// csvInt renders a nullable int for CSV output.
func csvInt(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}
