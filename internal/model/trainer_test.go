package model

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/diamond-odds/internal/features"
)

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return logger
}

func tempConfig(t *testing.T) Config {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "models")
	return Config{
		ModelPath: filepath.Join(dir, "mlb_home_win_model.json"),
		MetaPath:  filepath.Join(dir, "mlb_home_win_model.meta.json"),
	}
}

func labeled(v int) *int { return &v }

// skewedFrame builds a synthetic 4-team, 20-game season where team A is
// roughly 10 runs per game better than everyone else and wins every game.
func skewedFrame() *features.Frame {
	teams := map[string]features.TeamAggregate{
		"AAA": {WinPct: 0.9, RunDiffPerGame: 10.0},
		"BBB": {WinPct: 0.45, RunDiffPerGame: -2.0},
		"CCC": {WinPct: 0.40, RunDiffPerGame: -3.0},
		"DDD": {WinPct: 0.35, RunDiffPerGame: -5.0},
	}
	matchups := []struct {
		home, away string
	}{
		{"AAA", "BBB"}, {"AAA", "CCC"}, {"AAA", "DDD"}, {"BBB", "AAA"},
		{"CCC", "AAA"}, {"DDD", "AAA"}, {"BBB", "CCC"}, {"CCC", "BBB"},
		{"BBB", "DDD"}, {"DDD", "BBB"}, {"CCC", "DDD"}, {"DDD", "CCC"},
		{"AAA", "BBB"}, {"AAA", "CCC"}, {"AAA", "DDD"}, {"BBB", "AAA"},
		{"CCC", "AAA"}, {"DDD", "AAA"}, {"BBB", "CCC"}, {"CCC", "DDD"},
	}

	frame := &features.Frame{}
	for i, m := range matchups {
		home := teams[m.home]
		away := teams[m.away]
		label := 0
		if m.home == "AAA" {
			label = 1
		} else if m.away != "AAA" && home.WinPct > away.WinPct {
			label = 1
		}
		frame.Rows = append(frame.Rows, features.GameFeatureRow{
			GameID:             fmt.Sprintf("g%d", i),
			Season:             2024,
			Date:               time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, i),
			HomeTeam:           m.home,
			AwayTeam:           m.away,
			HomeWinPct:         home.WinPct,
			AwayWinPct:         away.WinPct,
			WinPctDiff:         home.WinPct - away.WinPct,
			HomeRunDiffPerGame: home.RunDiffPerGame,
			AwayRunDiffPerGame: away.RunDiffPerGame,
			RunDiffGap:         home.RunDiffPerGame - away.RunDiffPerGame,
			HomeWon:            labeled(label),
		})
	}
	return frame
}

func featureCols() []string {
	return []string{
		features.ColHomeWinPct,
		features.ColAwayWinPct,
		features.ColWinPctDiff,
		features.ColHomeRunDiffPerGame,
		features.ColAwayRunDiffPerGame,
		features.ColRunDiffGap,
		features.ColTempC,
		features.ColPrecipProb,
		features.ColWindspeed,
	}
}

func TestTrainAndSaveEndToEnd(t *testing.T) {
	cfg := tempConfig(t)
	trainer := NewTrainer(cfg, quietLogger())

	result, err := trainer.TrainAndSave(skewedFrame(), featureCols(), "home_won")
	if err != nil {
		t.Fatalf("expected training to succeed, got %v", err)
	}
	if result.NumRows != 20 {
		t.Errorf("expected 20 rows used, got %d", result.NumRows)
	}
	if result.Metrics.NumVal == 0 {
		t.Error("expected a non-empty validation fold")
	}
	if result.Metrics.LogLoss < 0 {
		t.Errorf("log loss must be non-negative, got %v", result.Metrics.LogLoss)
	}

	// Artifacts exist and load back.
	if _, err := os.Stat(cfg.ModelPath); err != nil {
		t.Fatalf("model artifact missing: %v", err)
	}
	if _, err := os.Stat(cfg.MetaPath); err != nil {
		t.Fatalf("metadata sidecar missing: %v", err)
	}

	pipeline, err := Load(cfg)
	if err != nil {
		t.Fatalf("expected model to load, got %v", err)
	}

	// A held-out game with the dominant team at home must score above 0.5.
	holdout := &features.Frame{Rows: []features.GameFeatureRow{{
		GameID:             "holdout",
		Season:             2024,
		HomeTeam:           "AAA",
		AwayTeam:           "DDD",
		HomeWinPct:         0.9,
		AwayWinPct:         0.35,
		WinPctDiff:         0.55,
		HomeRunDiffPerGame: 10.0,
		AwayRunDiffPerGame: -5.0,
		RunDiffGap:         15.0,
	}}}
	probs, err := PredictProba(pipeline, holdout, featureCols())
	if err != nil {
		t.Fatalf("expected prediction to succeed, got %v", err)
	}
	if len(probs) != 1 {
		t.Fatalf("expected 1 probability, got %d", len(probs))
	}
	if probs[0] <= 0.5 {
		t.Errorf("dominant team at home should score above 0.5, got %v", probs[0])
	}
}

func TestTrainAndSaveDeterministic(t *testing.T) {
	first, err := NewTrainer(tempConfig(t), quietLogger()).TrainAndSave(skewedFrame(), featureCols(), "home_won")
	if err != nil {
		t.Fatalf("first run failed: %v", err)
	}
	second, err := NewTrainer(tempConfig(t), quietLogger()).TrainAndSave(skewedFrame(), featureCols(), "home_won")
	if err != nil {
		t.Fatalf("second run failed: %v", err)
	}
	if first.Metrics != second.Metrics {
		t.Fatalf("identical frames and seed must give identical metrics: %+v vs %+v", first.Metrics, second.Metrics)
	}
}

func TestTrainAndSaveEmptyFrame(t *testing.T) {
	trainer := NewTrainer(tempConfig(t), quietLogger())
	_, err := trainer.TrainAndSave(&features.Frame{}, featureCols(), "home_won")
	if !errors.Is(err, ErrDegenerateTraining) {
		t.Fatalf("empty frame should fail fast with ErrDegenerateTraining, got %v", err)
	}
}

func TestTrainAndSaveSingleClass(t *testing.T) {
	frame := skewedFrame()
	for i := range frame.Rows {
		frame.Rows[i].HomeWon = labeled(1)
	}
	trainer := NewTrainer(tempConfig(t), quietLogger())
	_, err := trainer.TrainAndSave(frame, featureCols(), "home_won")
	if !errors.Is(err, ErrDegenerateTraining) {
		t.Fatalf("single-class labels should fail fast, got %v", err)
	}
}

func TestLoadMissingModel(t *testing.T) {
	_, err := Load(tempConfig(t))
	if !errors.Is(err, ErrModelNotFound) {
		t.Fatalf("expected ErrModelNotFound, got %v", err)
	}
}

func TestLoadCorruptModel(t *testing.T) {
	cfg := tempConfig(t)
	if err := os.MkdirAll(filepath.Dir(cfg.ModelPath), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(cfg.ModelPath, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := Load(cfg)
	if !errors.Is(err, ErrModelCorrupt) {
		t.Fatalf("expected ErrModelCorrupt, got %v", err)
	}
}

func TestPredictProbaMissingColumnEquivalence(t *testing.T) {
	cfg := tempConfig(t)
	trainer := NewTrainer(cfg, quietLogger())
	if _, err := trainer.TrainAndSave(skewedFrame(), featureCols(), "home_won"); err != nil {
		t.Fatalf("training failed: %v", err)
	}
	pipeline, err := Load(cfg)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	base := features.GameFeatureRow{
		GameID: "g", HomeTeam: "AAA", AwayTeam: "BBB",
		HomeWinPct: 0.9, AwayWinPct: 0.45, WinPctDiff: 0.45,
		HomeRunDiffPerGame: 10, AwayRunDiffPerGame: -2, RunDiffGap: 12,
	}

	absent := &features.Frame{Rows: []features.GameFeatureRow{base}}

	zero := 0.0
	explicit := base
	explicit.TempC = &zero
	explicit.PrecipProb = &zero
	explicit.Windspeed = &zero
	zeroed := &features.Frame{Rows: []features.GameFeatureRow{explicit}}

	probsAbsent, err := PredictProba(pipeline, absent, featureCols())
	if err != nil {
		t.Fatalf("absent-column predict failed: %v", err)
	}
	probsZeroed, err := PredictProba(pipeline, zeroed, featureCols())
	if err != nil {
		t.Fatalf("zeroed-column predict failed: %v", err)
	}
	if probsAbsent[0] != probsZeroed[0] {
		t.Fatalf("absent optional columns must score like explicit zeros: %v vs %v", probsAbsent[0], probsZeroed[0])
	}
}

func TestPredictProbaFeatureMismatch(t *testing.T) {
	cfg := tempConfig(t)
	trainer := NewTrainer(cfg, quietLogger())
	if _, err := trainer.TrainAndSave(skewedFrame(), featureCols(), "home_won"); err != nil {
		t.Fatalf("training failed: %v", err)
	}
	pipeline, err := Load(cfg)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	_, err = PredictProba(pipeline, &features.Frame{}, []string{"home_win_pct"})
	if !errors.Is(err, ErrFeatureMismatch) {
		t.Fatalf("expected ErrFeatureMismatch, got %v", err)
	}
}

func TestTrainOverwritesPreviousArtifacts(t *testing.T) {
	cfg := tempConfig(t)
	trainer := NewTrainer(cfg, quietLogger())

	first, err := trainer.TrainAndSave(skewedFrame(), featureCols(), "home_won")
	if err != nil {
		t.Fatalf("first training failed: %v", err)
	}
	second, err := trainer.TrainAndSave(skewedFrame(), featureCols(), "home_won")
	if err != nil {
		t.Fatalf("retraining failed: %v", err)
	}
	if first.RunID == second.RunID {
		t.Error("each training run should carry its own run id")
	}

	pipeline, err := Load(cfg)
	if err != nil {
		t.Fatalf("load after retrain failed: %v", err)
	}
	if pipeline.RunID != second.RunID {
		t.Errorf("artifact should hold the latest run, got %s want %s", pipeline.RunID, second.RunID)
	}
}
