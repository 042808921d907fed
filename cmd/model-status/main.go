package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/yourusername/diamond-odds/internal/config"
	"github.com/yourusername/diamond-odds/internal/model"
)

// Build information - set via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var (
	configFile string
	modelDir   string
	cfg        *config.Config
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "./config/config.yaml", "Path to configuration file")
	rootCmd.PersistentFlags().StringVar(&modelDir, "model-dir", "", "Override model directory")
}

var rootCmd = &cobra.Command{
	Use:   "model-status",
	Short: "Inspect the trained home-win model",
	Long:  `Displays the persisted model's feature columns, validation metrics and training metadata.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.LoadWithDefaults(configFile)
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		if modelDir != "" {
			cfg.Model.Dir = modelDir
		}
		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		displayStatus()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

// modelMeta mirrors the sidecar written at training time.
type modelMeta struct {
	FeatureColumns []string `json:"feature_columns"`
	Metrics        struct {
		Brier   float64 `json:"brier"`
		LogLoss float64 `json:"log_loss"`
		NumVal  int     `json:"num_val"`
	} `json:"metrics"`
	RunID     string `json:"run_id"`
	TrainedAt string `json:"trained_at"`
}

func displayStatus() {
	fmt.Println("\n╔════════════════════════════════════════════════════════════════╗")
	fmt.Println("║                  Home Win Model Status                         ║")
	fmt.Println("╚════════════════════════════════════════════════════════════════╝")
	fmt.Println()

	fmt.Print("Model Artifact: ")
	_, err := model.Load(model.Config{
		ModelPath: cfg.Model.ModelPath(),
		MetaPath:  cfg.Model.MetaPath(),
	})
	switch {
	case errors.Is(err, model.ErrModelNotFound):
		fmt.Println("❌ NOT TRAINED")
		fmt.Printf("   No model at %s; run the train tool first.\n\n", cfg.Model.ModelPath())
		return
	case errors.Is(err, model.ErrModelCorrupt):
		fmt.Println("❌ CORRUPT")
		fmt.Printf("   Error: %v\n\n", err)
		return
	case err != nil:
		fmt.Println("❌ UNREADABLE")
		fmt.Printf("   Error: %v\n\n", err)
		return
	}
	fmt.Println("✓ LOADABLE")

	meta, err := readMeta(cfg.Model.MetaPath())
	if err != nil {
		fmt.Printf("\nMetadata sidecar unreadable: %v\n\n", err)
		return
	}

	fmt.Printf("\nTraining Run:\n")
	fmt.Printf("  Run ID: %s\n", meta.RunID)
	fmt.Printf("  Trained At: %s\n", meta.TrainedAt)

	fmt.Printf("\nValidation Metrics:\n")
	fmt.Printf("  Brier Score: %.4f\n", meta.Metrics.Brier)
	fmt.Printf("  Log Loss: %.4f\n", meta.Metrics.LogLoss)
	fmt.Printf("  Validation Rows: %d\n", meta.Metrics.NumVal)

	fmt.Printf("\nFeature Columns (%d):\n", len(meta.FeatureColumns))
	for _, col := range meta.FeatureColumns {
		fmt.Printf("  - %s\n", col)
	}

	fmt.Printf("\nConfiguration:\n")
	fmt.Printf("  Model Path: %s\n", cfg.Model.ModelPath())
	fmt.Printf("  Meta Path: %s\n", cfg.Model.MetaPath())
	fmt.Printf("  Target Column: %s\n", cfg.Model.TargetColumn)
	fmt.Println()
}

func readMeta(path string) (*modelMeta, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	meta := &modelMeta{}
	if err := json.Unmarshal(data, meta); err != nil {
		return nil, err
	}
	return meta, nil
}
