// Package main provides the entry point for the daily odds prediction CLI tool.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/diamond-odds/internal/config"
	"github.com/yourusername/diamond-odds/internal/display"
	"github.com/yourusername/diamond-odds/internal/features"
	"github.com/yourusername/diamond-odds/internal/logger"
	"github.com/yourusername/diamond-odds/internal/metrics"
	"github.com/yourusername/diamond-odds/internal/model"
	"github.com/yourusername/diamond-odds/internal/sportsdata"
	"github.com/yourusername/diamond-odds/internal/weather"
)

func main() {
	var (
		configPath = flag.String("config", "config/config.yaml", "Path to config file")
		dateStr    = flag.String("date", "", "Date to predict (YYYY-MM-DD, default today)")
		modelDir   = flag.String("model-dir", "", "Override model directory")
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
	date := resolveDate(*dateStr, log)

	pipeline, err := model.Load(model.Config{
		ModelPath: cfg.Model.ModelPath(),
		MetaPath:  cfg.Model.MetaPath(),
	})
	if err != nil {
		if errors.Is(err, model.ErrModelNotFound) {
			log.Fatalf("No trained model at %s; run the train tool first", cfg.Model.ModelPath())
		}
		log.Fatalf("Failed to load model: %v", err)
	}

	client := sportsdata.NewClient(&cfg.SportsData, log)
	builder := features.NewBuilder(client, log)
	frame, err := builder.BuildPredictionFrameForDate(ctx, date)
	if err != nil {
		log.Fatalf("Failed to build prediction frame: %v", err)
	}
	if len(frame.Rows) == 0 {
		log.WithField("date", date.Format("2006-01-02")).Info("No games scheduled")
		return
	}

	games, err := client.GetGamesByDate(ctx, date)
	if err != nil {
		log.Fatalf("Failed to fetch schedule for weather enrichment: %v", err)
	}
	stadiums, err := client.GetStadiums(ctx)
	if err != nil {
		log.Fatalf("Failed to fetch stadiums: %v", err)
	}
	weatherClient := weather.NewClient(&cfg.Weather, log)
	if err := weather.EnrichFrame(ctx, weatherClient, frame, games, stadiums, log); err != nil {
		log.Fatalf("Weather enrichment failed: %v", err)
	}

	probs, err := model.PredictProba(pipeline, frame, cfg.Model.FeatureColumns)
	if err != nil {
		log.Fatalf("Scoring failed: %v", err)
	}

	predictions := make([]display.GamePrediction, len(frame.Rows))
	for i, row := range frame.Rows {
		predictions[i] = display.GamePrediction{
			HomeTeam:    row.HomeTeam,
			AwayTeam:    row.AwayTeam,
			HomeWinProb: probs[i],
		}
	}
	if err := display.RenderOddsTable(os.Stdout, date, predictions); err != nil {
		log.Fatalf("Failed to render table: %v", err)
	}
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

func resolveDate(flagValue string, log *logrus.Logger) time.Time {
	if flagValue == "" {
		now := time.Now()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	}
	date, err := time.Parse("2006-01-02", flagValue)
	if err != nil {
		log.Fatalf("Invalid date %q: %v", flagValue, err)
	}
	return date
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
