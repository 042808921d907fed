package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/diamond-odds/internal/features"
	"github.com/yourusername/diamond-odds/internal/metrics"
)

// Sentinel errors for the trainer and scorer.
var (
	// ErrModelNotFound indicates no model artifact exists at the configured path
	ErrModelNotFound = errors.New("model artifact not found")
	// ErrModelCorrupt indicates the model artifact could not be deserialized
	ErrModelCorrupt = errors.New("model artifact corrupt")
	// ErrDegenerateTraining indicates the training data is unusable (empty or single-class)
	ErrDegenerateTraining = errors.New("degenerate training data")
	// ErrFeatureMismatch indicates the requested feature columns do not match the fitted model
	ErrFeatureMismatch = errors.New("feature columns do not match fitted model")
)

// Config fixes where the pipeline artifact and its metadata sidecar live.
// Passed in explicitly so tests can point at temporary paths.
type Config struct {
	ModelPath string
	MetaPath  string
}

// TrainResult is the immutable output of one training run.
type TrainResult struct {
	RunID     string            `json:"run_id"`
	ModelPath string            `json:"model_path"`
	NumRows   int               `json:"num_rows"`
	Metrics   ValidationMetrics `json:"metrics"`
}

// metaSidecar is the structured-text companion persisted next to the model.
type metaSidecar struct {
	FeatureColumns []string          `json:"feature_columns"`
	Metrics        ValidationMetrics `json:"metrics"`
	RunID          string            `json:"run_id"`
	TrainedAt      string            `json:"trained_at"`
}

// Trainer fits and persists the home-win pipeline.
type Trainer struct {
	cfg    Config
	logger *logrus.Logger
}

// NewTrainer creates a trainer writing to the given paths.
func NewTrainer(cfg Config, logger *logrus.Logger) *Trainer {
	if logger == nil {
		logger = logrus.New()
	}
	return &Trainer{cfg: cfg, logger: logger}
}

// TrainAndSave fits the standardization+classifier pipeline on the labeled
// frame and persists it with its metadata sidecar. Optional feature columns
// absent from the frame are filled with 0.0 before fitting; rows with a null
// in any present feature column or without a label are dropped.
func (t *Trainer) TrainAndSave(frame *features.Frame, featureColumns []string, targetColumn string) (*TrainResult, error) {
	start := time.Now()
	result, err := t.trainAndSave(frame, featureColumns, targetColumn)
	status := "success"
	if err != nil {
		status = "error"
	}
	metrics.RecordTrainingRun(status, time.Since(start).Seconds())
	return result, err
}

func (t *Trainer) trainAndSave(frame *features.Frame, featureColumns []string, targetColumn string) (*TrainResult, error) {
	X, y := designMatrix(frame, featureColumns, true)
	if len(X) == 0 {
		return nil, fmt.Errorf("%w: no labeled rows after dropping nulls", ErrDegenerateTraining)
	}

	classes := map[int]bool{}
	for _, label := range y {
		classes[label] = true
	}
	if len(classes) < 2 {
		return nil, fmt.Errorf("%w: training labels contain a single class", ErrDegenerateTraining)
	}

	trainIdx, valIdx := stratifiedSplit(y, validationFraction)
	XTrain, yTrain := subset(X, y, trainIdx)
	XVal, yVal := subset(X, y, valIdx)

	scaler := FitScaler(XTrain)
	classifier := FitLogistic(scaler.Transform(XTrain), yTrain, t.logger)

	runID := uuid.New().String()
	pipeline := &Pipeline{
		FeatureColumns: append([]string(nil), featureColumns...),
		Scaler:         scaler,
		Classifier:     classifier,
		RunID:          runID,
		TrainedAt:      time.Now().UTC().Format(time.RFC3339),
	}

	valProbs := pipeline.PredictProba(XVal)
	valMetrics := ValidationMetrics{
		Brier:   BrierScore(yVal, valProbs),
		LogLoss: LogLoss(yVal, valProbs),
		NumVal:  len(yVal),
	}

	if err := t.persist(pipeline, valMetrics, runID); err != nil {
		return nil, err
	}

	metrics.RecordValidationMetrics(len(X), valMetrics.Brier, valMetrics.LogLoss)
	t.logger.WithFields(logrus.Fields{
		"run_id":   runID,
		"rows":     len(X),
		"num_val":  valMetrics.NumVal,
		"brier":    valMetrics.Brier,
		"log_loss": valMetrics.LogLoss,
	}).Info("Model trained and saved")

	return &TrainResult{
		RunID:     runID,
		ModelPath: t.cfg.ModelPath,
		NumRows:   len(X),
		Metrics:   valMetrics,
	}, nil
}

func (t *Trainer) persist(pipeline *Pipeline, valMetrics ValidationMetrics, runID string) error {
	if err := os.MkdirAll(filepath.Dir(t.cfg.ModelPath), 0o755); err != nil {
		return fmt.Errorf("failed to create model directory: %w", err)
	}

	data, err := json.MarshalIndent(pipeline, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal pipeline: %w", err)
	}
	if err := os.WriteFile(t.cfg.ModelPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write model artifact: %w", err)
	}

	meta := metaSidecar{
		FeatureColumns: pipeline.FeatureColumns,
		Metrics:        valMetrics,
		RunID:          runID,
		TrainedAt:      pipeline.TrainedAt,
	}
	metaData, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal metadata: %w", err)
	}
	if err := os.WriteFile(t.cfg.MetaPath, metaData, 0o644); err != nil {
		return fmt.Errorf("failed to write metadata sidecar: %w", err)
	}
	return nil
}

// Load deserializes the fitted pipeline from the configured path. Absence or
// corruption is fatal to any predict operation; there is no implicit retrain.
func Load(cfg Config) (*Pipeline, error) {
	data, err := os.ReadFile(cfg.ModelPath)
	if err != nil {
		metrics.ModelLoadErrorsTotal.Inc()
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrModelNotFound, cfg.ModelPath)
		}
		return nil, fmt.Errorf("failed to read model artifact: %w", err)
	}

	pipeline := &Pipeline{}
	if err := json.Unmarshal(data, pipeline); err != nil {
		metrics.ModelLoadErrorsTotal.Inc()
		return nil, fmt.Errorf("%w: %v", ErrModelCorrupt, err)
	}
	if pipeline.Scaler == nil || pipeline.Classifier == nil || len(pipeline.FeatureColumns) == 0 {
		metrics.ModelLoadErrorsTotal.Inc()
		return nil, fmt.Errorf("%w: missing pipeline stages", ErrModelCorrupt)
	}
	return pipeline, nil
}

// PredictProba scores every row of the frame with the fitted pipeline,
// returning home-win probabilities in row order. Missing feature columns are
// filled with 0.0, mirroring the training-time policy; the input frame is not
// mutated.
func PredictProba(pipeline *Pipeline, frame *features.Frame, featureColumns []string) ([]float64, error) {
	if len(featureColumns) != len(pipeline.FeatureColumns) {
		return nil, fmt.Errorf("%w: got %d columns, model fit on %d",
			ErrFeatureMismatch, len(featureColumns), len(pipeline.FeatureColumns))
	}
	for i, col := range featureColumns {
		if pipeline.FeatureColumns[i] != col {
			return nil, fmt.Errorf("%w: column %d is %q, model fit on %q",
				ErrFeatureMismatch, i, col, pipeline.FeatureColumns[i])
		}
	}

	X, _ := designMatrix(frame, featureColumns, false)
	probs := pipeline.PredictProba(X)
	metrics.GamesScoredTotal.Add(float64(len(probs)))
	return probs, nil
}

// designMatrix assembles the numeric matrix for the requested columns.
// Columns the frame does not materialize are filled with 0.0 for every row.
// With forTraining set, rows without a label or with a null in a present
// column are dropped; otherwise nulls score as 0.0 and every row survives.
func designMatrix(frame *features.Frame, featureColumns []string, forTraining bool) ([][]float64, []int) {
	present := make(map[string]bool, len(featureColumns))
	for _, col := range featureColumns {
		present[col] = frame.ColumnPresent(col)
	}

	var X [][]float64
	var y []int
rows:
	for _, row := range frame.Rows {
		if forTraining && row.HomeWon == nil {
			continue
		}
		vec := make([]float64, len(featureColumns))
		for j, col := range featureColumns {
			if !present[col] {
				vec[j] = 0.0
				continue
			}
			val, null, known := row.Feature(col)
			if !known {
				vec[j] = 0.0
				continue
			}
			if null {
				if forTraining {
					continue rows
				}
				val = 0.0
			}
			vec[j] = val
		}
		X = append(X, vec)
		if forTraining {
			y = append(y, *row.HomeWon)
		}
	}
	return X, y
}

func subset(X [][]float64, y []int, idx []int) ([][]float64, []int) {
	outX := make([][]float64, 0, len(idx))
	outY := make([]int, 0, len(idx))
	for _, i := range idx {
		outX = append(outX, X[i])
		outY = append(outY, y[i])
	}
	return outX, outY
}
