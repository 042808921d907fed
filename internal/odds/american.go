// Package odds converts win probabilities to American moneyline odds and
// back.
package odds

import (
	"fmt"
	"math"
)

const probEpsilon = 1e-6

// ProbToAmericanOdds maps a win probability to an American line. Probabilities
// at or above 0.5 produce a negative (favorite) line, below 0.5 a positive
// (underdog) line. Input is clipped to (0,1) by epsilon before conversion.
func ProbToAmericanOdds(probability float64) int {
	p := math.Max(probEpsilon, math.Min(1-probEpsilon, probability))
	if p >= 0.5 {
		return int(math.Round(-100 * p / (1 - p)))
	}
	return int(math.Round(100 * (1 - p) / p))
}

// AmericanOddsToProb maps an American line back to an implied probability.
// This is an approximate inverse of ProbToAmericanOdds: the forward rounding
// loses precision and the two branches are not perfectly symmetric, so
// round-tripping is only exact at the p=0.5 boundary. Kept as an independent
// utility with that asymmetry intact.
func AmericanOddsToProb(americanOdds int) float64 {
	if americanOdds < 0 {
		return float64(-americanOdds) / (float64(-americanOdds) + 100)
	}
	return 100 / (float64(americanOdds) + 100)
}

// FormatMoneyline renders an American line with its sign, e.g. "+150", "-120".
func FormatMoneyline(americanOdds int) string {
	return fmt.Sprintf("%+d", americanOdds)
}
