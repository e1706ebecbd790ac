package kpi

import "math"

// firstLastPctChange returns the percentage change between the first and
// last value, or nil when fewer than 2 values exist or the baseline is not
// strictly positive. This is deliberately first-vs-last, not a compounded
// return series.
func firstLastPctChange(values []float64) *float64 {
	if len(values) < 2 {
		return nil
	}
	first := values[0]
	if first <= 0 {
		return nil
	}
	last := values[len(values)-1]
	change := (last - first) / first * 100
	return &change
}

// rollingMean computes a trailing rolling mean with the given window and a
// minimum of 1 period: entry i averages values[max(0, i-window+1)..i].
func rollingMean(values []float64, window int) []float64 {
	out := make([]float64, len(values))
	sum := 0.0
	for i, v := range values {
		sum += v
		if i >= window {
			sum -= values[i-window]
		}
		n := i + 1
		if n > window {
			n = window
		}
		out[i] = sum / float64(n)
	}
	return out
}

// mean returns the arithmetic mean. Callers guard against empty input.
func mean(values []float64) float64 {
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// sampleStddev returns the sample standard deviation (Bessel's correction,
// n-1 denominator). Callers guarantee len(values) >= 2.
func sampleStddev(values []float64) float64 {
	m := mean(values)
	sumSq := 0.0
	for _, v := range values {
		diff := v - m
		sumSq += diff * diff
	}
	return math.Sqrt(sumSq / float64(len(values)-1))
}

// periodReturns computes period-over-period fractional price returns.
// Pairs whose baseline price is zero are skipped; the cleaner removes
// negative prices but zero can survive.
func periodReturns(prices []float64) []float64 {
	var returns []float64
	for i := 1; i < len(prices); i++ {
		prev := prices[i-1]
		if prev == 0 {
			continue
		}
		returns = append(returns, (prices[i]-prev)/prev)
	}
	return returns
}

// negativeSubset returns only the strictly negative values.
func negativeSubset(values []float64) []float64 {
	var neg []float64
	for _, v := range values {
		if v < 0 {
			neg = append(neg, v)
		}
	}
	return neg
}
