// Package model fits, persists and scores the home-win logistic pipeline.
package model

import (
	"math"

	"github.com/sirupsen/logrus"
)

// Scaler standardizes features to zero mean and unit variance using
// statistics learned from the training partition only.
type Scaler struct {
	Mean []float64 `json:"mean"`
	Std  []float64 `json:"std"`
}

// FitScaler learns per-feature mean and standard deviation from the rows of
// X. Constant features get a scale of one so standardization is a no-op for
// them rather than a division by zero.
func FitScaler(X [][]float64) *Scaler {
	if len(X) == 0 {
		return &Scaler{}
	}
	cols := len(X[0])
	mean := make([]float64, cols)
	std := make([]float64, cols)

	for j := 0; j < cols; j++ {
		sum := 0.0
		for i := range X {
			sum += X[i][j]
		}
		mean[j] = sum / float64(len(X))
	}
	for j := 0; j < cols; j++ {
		variance := 0.0
		for i := range X {
			diff := X[i][j] - mean[j]
			variance += diff * diff
		}
		variance /= float64(len(X))
		std[j] = math.Sqrt(variance)
		if std[j] == 0 {
			std[j] = 1.0
		}
	}

	return &Scaler{Mean: mean, Std: std}
}

// Transform returns a standardized copy of X; the input is not mutated.
func (s *Scaler) Transform(X [][]float64) [][]float64 {
	out := make([][]float64, len(X))
	for i := range X {
		row := make([]float64, len(X[i]))
		for j := range X[i] {
			row[j] = (X[i][j] - s.Mean[j]) / s.Std[j]
		}
		out[i] = row
	}
	return out
}

// Logistic is a binary logistic regression classifier: probability of the
// positive class is sigmoid(w·x + b).
type Logistic struct {
	Weights   []float64 `json:"weights"`
	Intercept float64   `json:"intercept"`
}

// Fit options; iteration cap is high enough that typical seasons of data
// converge well before it.
const (
	fitMaxIter      = 2000
	fitLearningRate = 0.5
	fitTolerance    = 1e-6
)

// FitLogistic fits the classifier by full-batch gradient descent on the
// log-loss. X must already be standardized. Non-convergence within the
// iteration cap logs a warning and keeps the final iterate; it is never an
// error.
func FitLogistic(X [][]float64, y []int, logger *logrus.Logger) *Logistic {
	cols := 0
	if len(X) > 0 {
		cols = len(X[0])
	}
	clf := &Logistic{Weights: make([]float64, cols)}
	n := float64(len(X))
	if n == 0 {
		return clf
	}

	gradNorm := math.Inf(1)
	for iter := 0; iter < fitMaxIter; iter++ {
		grad := make([]float64, cols)
		gradB := 0.0
		for i := range X {
			p := sigmoid(dot(clf.Weights, X[i]) + clf.Intercept)
			residual := p - float64(y[i])
			for j := range grad {
				grad[j] += residual * X[i][j]
			}
			gradB += residual
		}

		gradB /= n
		gradNorm = gradB * gradB
		for j := range grad {
			grad[j] /= n
			gradNorm += grad[j] * grad[j]
		}
		gradNorm = math.Sqrt(gradNorm)
		if gradNorm < fitTolerance {
			return clf
		}

		for j := range clf.Weights {
			clf.Weights[j] -= fitLearningRate * grad[j]
		}
		clf.Intercept -= fitLearningRate * gradB
	}

	if logger != nil {
		logger.WithField("grad_norm", gradNorm).
			Warn("Logistic fit hit the iteration cap without converging")
	}
	return clf
}

// PredictProba returns the positive-class probability for one standardized
// feature vector.
func (l *Logistic) PredictProba(x []float64) float64 {
	return sigmoid(dot(l.Weights, x) + l.Intercept)
}

// Pipeline fuses the standardization transform and the classifier into one
// persisted object so inference always standardizes with the
// training-partition statistics.
type Pipeline struct {
	FeatureColumns []string  `json:"feature_columns"`
	Scaler         *Scaler   `json:"scaler"`
	Classifier     *Logistic `json:"classifier"`
	RunID          string    `json:"run_id"`
	TrainedAt      string    `json:"trained_at"`
}

// PredictProba scores a raw (unstandardized) feature matrix, row order
// preserved.
func (p *Pipeline) PredictProba(X [][]float64) []float64 {
	scaled := p.Scaler.Transform(X)
	probs := make([]float64, len(scaled))
	for i, row := range scaled {
		probs[i] = p.Classifier.PredictProba(row)
	}
	return probs
}

func sigmoid(z float64) float64 {
	if z > 20 {
		return 1.0
	}
	if z < -20 {
		return 0.0
	}
	return 1.0 / (1.0 + math.Exp(-z))
}

func dot(a, b []float64) float64 {
	var s float64
	for i := range a {
		s += a[i] * b[i]
	}
	return s
}
