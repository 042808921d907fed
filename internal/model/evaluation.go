package model

import "math"

// lossEpsilon keeps predicted probabilities away from exact 0/1 so the log
// loss never produces infinities.
const lossEpsilon = 1e-15

// ValidationMetrics holds the calibration scores computed on the held-out
// partition.
type ValidationMetrics struct {
	Brier   float64 `json:"brier"`
	LogLoss float64 `json:"log_loss"`
	NumVal  int     `json:"num_val"`
}

// BrierScore is the mean squared error between predicted probabilities and
// binary outcomes; lower is better calibrated.
func BrierScore(y []int, probs []float64) float64 {
	if len(y) == 0 {
		return 0
	}
	sum := 0.0
	for i := range y {
		diff := probs[i] - float64(y[i])
		sum += diff * diff
	}
	return sum / float64(len(y))
}

// LogLoss is the negative mean log-likelihood of the outcomes under the
// predicted probabilities, evaluated with both classes {0,1} explicitly
// represented even when one is absent from the fold.
func LogLoss(y []int, probs []float64) float64 {
	if len(y) == 0 {
		return 0
	}
	sum := 0.0
	for i := range y {
		p := math.Max(lossEpsilon, math.Min(1-lossEpsilon, probs[i]))
		if y[i] == 1 {
			sum += -math.Log(p)
		} else {
			sum += -math.Log(1 - p)
		}
	}
	return sum / float64(len(y))
}
