// Package main provides the entry point for the model training CLI tool.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/diamond-odds/internal/config"
	"github.com/yourusername/diamond-odds/internal/features"
	"github.com/yourusername/diamond-odds/internal/logger"
	"github.com/yourusername/diamond-odds/internal/metrics"
	"github.com/yourusername/diamond-odds/internal/model"
	"github.com/yourusername/diamond-odds/internal/sportsdata"
)

func main() {
	var (
		configPath = flag.String("config", "config/config.yaml", "Path to config file")
		seasons    = flag.String("seasons", "", "Comma-separated seasons to include, e.g. 2021,2022,2023,2024")
		modelDir   = flag.String("model-dir", "", "Override model output directory")
	)
	flag.Parse()

	cfg := loadConfigWithSecrets(*configPath)
	log := logger.NewLogger(cfg.App.LogLevel)
	metrics.InitRegistry()
	maybeServeMetrics(cfg, log)
	ctx := context.Background()

	if *modelDir != "" {
		cfg.Model.Dir = *modelDir
	}
	trainSeasons := resolveSeasons(*seasons, cfg.Model.Seasons, log)

	log.WithField("seasons", trainSeasons).Info("Building training data")

	client := sportsdata.NewClient(&cfg.SportsData, log)
	builder := features.NewBuilder(client, log)
	frame, err := builder.BuildTrainingFrame(ctx, trainSeasons)
	if err != nil {
		log.Fatalf("Failed to build training frame: %v", err)
	}

	trainer := model.NewTrainer(model.Config{
		ModelPath: cfg.Model.ModelPath(),
		MetaPath:  cfg.Model.MetaPath(),
	}, log)
	result, err := trainer.TrainAndSave(frame, cfg.Model.FeatureColumns, cfg.Model.TargetColumn)
	if err != nil {
		log.Fatalf("Training failed: %v", err)
	}

	logger.WithRun(log, result.RunID).WithFields(logrus.Fields{
		"model_path": result.ModelPath,
		"rows":       result.NumRows,
		"brier":      result.Metrics.Brier,
		"log_loss":   result.Metrics.LogLoss,
		"num_val":    result.Metrics.NumVal,
	}).Info("Saved model")
}

func resolveSeasons(flagValue string, configured []int, log *logrus.Logger) []int {
	if flagValue == "" {
		if len(configured) > 0 {
			return configured
		}
		return []int{2021, 2022, 2023, 2024}
	}
	var out []int
	for _, part := range strings.Split(flagValue, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		season, err := strconv.Atoi(part)
		if err != nil {
			log.Fatalf("Invalid season %q: %v", part, err)
		}
		out = append(out, season)
	}
	if len(out) == 0 {
		log.Fatalf("No seasons parsed from %q", flagValue)
	}
	return out
}

func maybeServeMetrics(cfg *config.Config, log *logrus.Logger) {
	if !cfg.Metrics.Enabled {
		return
	}
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Metrics.Port)
		mux := http.NewServeMux()
		mux.Handle("/metrics", metrics.Handler())
		if err := http.ListenAndServe(addr, mux); err != nil {
			log.WithError(err).Warn("Metrics server stopped")
		}
	}()
}

func loadConfigWithSecrets(path string) *config.Config {
	bootstrap := logrus.New()
	cfg, err := config.LoadWithDefaults(path)
	if err != nil {
		bootstrap.Fatalf("Failed to load config: %v", err)
	}
	if os.Getenv("AWS_SECRETS_ENABLED") == "true" {
		region := os.Getenv("AWS_REGION")
		secretName := os.Getenv("AWS_SECRET_NAME")
		if region == "" || secretName == "" {
			bootstrap.Fatalf("AWS_REGION and AWS_SECRET_NAME environment variables must be set when AWS_SECRETS_ENABLED is true")
		}
		if err := config.LoadSecretsFromAWS(cfg, region, secretName); err != nil {
			bootstrap.Fatalf("Failed to load secrets: %v", err)
		}
	}
	if err := config.Validate(cfg); err != nil {
		bootstrap.Fatalf("Invalid configuration: %v", err)
	}
	return cfg
}
