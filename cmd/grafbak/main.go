package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/grafbak/grafbak/client"
	"github.com/grafbak/grafbak/internal/config"
	"github.com/grafbak/grafbak/internal/export"
)

// Build-time variables set via ldflags.
var (
	commit    = ""
	buildDate = ""
)

var (
	flagURL           string
	flagKey           string
	flagSaveFolder    string
	flagExportSharing bool
	flagForce         bool
)

func versionString() string {
	if commit != "" && buildDate != "" {
		return fmt.Sprintf("grafbak version %s (commit: %s, built: %s)", config.Version, commit, buildDate)
	}
	return fmt.Sprintf("grafbak version %s", config.Version)
}

type configFile struct {
	// Flat format
	GrafanaURL string `yaml:"grafana_url"`
	APIKey     string `yaml:"api_key"`
	// Profile format
	Profiles      map[string]configProfile `yaml:"profiles"`
	ActiveProfile string                   `yaml:"active_profile"`
}

type configProfile struct {
	GrafanaURL string `yaml:"grafana_url"`
	APIKey     string `yaml:"api_key"`
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "grafbak",
		Short:   "Export Grafana dashboards to JSON files, preserving the folder structure",
		Version: versionString(),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd)
		},
		SilenceUsage: true,
	}
	rootCmd.SetVersionTemplate("{{.Version}}\n")

	rootCmd.PersistentFlags().StringVar(&flagURL, "grafana_url", "", "Grafana instance URL (env: GRAFANA_URL)")
	rootCmd.PersistentFlags().StringVar(&flagKey, "api_key", "", "Grafana API key (env: GRAFANA_API_KEY)")
	rootCmd.Flags().StringVar(&flagSaveFolder, "save_folder", config.DefaultSaveFolder, "Folder to save exported dashboards")
	rootCmd.Flags().BoolVar(&flagExportSharing, "export_sharing", true, "Annotate dashboards for external sharing (__inputs/__requires)")
	rootCmd.Flags().BoolVar(&flagForce, "force", false, "Write into the save folder even if it is not empty")

	rootCmd.AddCommand(newDoctorCmd())

	return rootCmd
}

func runExport(cmd *cobra.Command) error {
	resolveConfig()

	cfg := &config.Config{
		GrafanaURL:    flagURL,
		APIKey:        config.Secret(flagKey),
		SaveFolder:    flagSaveFolder,
		ExportSharing: flagExportSharing,
		Force:         flagForce,
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := config.CheckDestination(cfg.SaveFolder, cfg.Force); err != nil {
		return err
	}

	log := newLogger()
	runID := uuid.New().String()
	log.WithFields(logrus.Fields{
		"run_id":      runID,
		"grafana_url": cfg.GrafanaURL,
		"save_folder": cfg.SaveFolder,
	}).Info("starting export")

	api := client.New(cfg.GrafanaURL, client.WithAPIKey(cfg.APIKey.Value()))
	sum, err := export.NewRunner(api, log, cfg).Run(cmd.Context())
	if err != nil {
		return err
	}

	log.WithFields(logrus.Fields{
		"run_id":              runID,
		"folders_created":     sum.FoldersCreated,
		"dashboards_exported": sum.DashboardsExported,
		"hits_dropped":        sum.HitsDropped,
	}).Info("export complete")

	return nil
}

func newLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stderr)
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	return log
}

func resolveConfig() {
	// Flag takes precedence, then env, then config file.
	if flagURL == "" {
		flagURL = os.Getenv("GRAFANA_URL")
	}
	if flagKey == "" {
		flagKey = os.Getenv("GRAFANA_API_KEY")
	}

	// Try config file for any remaining defaults.
	home, err := os.UserHomeDir()
	if err != nil {
		return
	}
	cfgPath := filepath.Join(home, ".grafbak", "config.yaml")
	data, err := os.ReadFile(cfgPath)
	if err != nil {
		return
	}
	var cfg configFile
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return
	}
	// Resolve from profiles if available, fall back to flat format.
	resolvedURL := cfg.GrafanaURL
	resolvedKey := cfg.APIKey
	if cfg.Profiles != nil {
		profileName := cfg.ActiveProfile
		if profileName == "" {
			profileName = "default"
		}
		if p, ok := cfg.Profiles[profileName]; ok {
			if p.GrafanaURL != "" {
				resolvedURL = p.GrafanaURL
			}
			if p.APIKey != "" {
				resolvedKey = p.APIKey
			}
		}
	}
	if flagURL == "" && resolvedURL != "" {
		flagURL = resolvedURL
	}
	if flagKey == "" && resolvedKey != "" {
		flagKey = resolvedKey
	}
}
