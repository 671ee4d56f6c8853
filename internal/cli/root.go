// internal/cli/root.go
// Package cli wires the subline commands: rendering token-level information
// metrics as text-aligned SVG sparklines, analyzing batches, and the
// interactive demo.
package subline

import (
	"fmt"
	"os"

	"github.com/mwiater/subline/internal/appconfig"
	"github.com/mwiater/subline/internal/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile       string
	currentConfig *appconfig.Config
	appVersion    = "dev"
	appCommit     = "none"
	appDate       = "unknown"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "subline",
	Short: "subline — token-level surprisal and entropy as text-aligned sparklines",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := appconfig.Load(cfgFile)
		if err != nil {
			// Commands that only need render defaults still work
			// without a config file; commands that reach the
			// predictor check for themselves.
			cfg = appconfig.Config{}
		}

		if !cmd.Flags().Changed("debug") {
			cfg.Debug = cfg.Debug || viper.GetBool("debug")
		} else {
			cfg.Debug = viper.GetBool("debug")
		}
		if v := viper.GetString("logFile"); v != "" {
			cfg.LogFile = v
		}
		if v := viper.GetString("outputDir"); v != "" {
			cfg.OutputDir = v
		}
		if v := viper.GetString("predictorUrl"); v != "" {
			cfg.Predictor.URL = v
		}
		if v := viper.GetInt("charsPerLine"); v > 0 {
			cfg.Render.CharsPerLine = v
		}
		if v := viper.GetStringSlice("metrics"); len(v) > 0 {
			cfg.Render.Metrics = v
		}
		currentConfig = &cfg

		if err := logging.Init(currentConfig.LogFilePath()); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", appVersion, appCommit, appDate)

	defer logging.Close()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", appconfig.DefaultConfigPath, "config file (e.g., config/config.json)")

	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging of predictor traffic")
	rootCmd.PersistentFlags().String("logFile", "", "path to the log file")
	rootCmd.PersistentFlags().String("outputDir", "", "directory for rendered SVG documents")
	rootCmd.PersistentFlags().String("predictorUrl", "", "override the predictor endpoint URL")
	rootCmd.PersistentFlags().Int("charsPerLine", 0, "maximum characters per rendered line (0 = config/default)")
	rootCmd.PersistentFlags().StringSlice("metrics", nil, "metrics to draw: surprisal, entropy, s2")

	_ = viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	_ = viper.BindPFlag("logFile", rootCmd.PersistentFlags().Lookup("logFile"))
	_ = viper.BindPFlag("outputDir", rootCmd.PersistentFlags().Lookup("outputDir"))
	_ = viper.BindPFlag("predictorUrl", rootCmd.PersistentFlags().Lookup("predictorUrl"))
	_ = viper.BindPFlag("charsPerLine", rootCmd.PersistentFlags().Lookup("charsPerLine"))
	_ = viper.BindPFlag("metrics", rootCmd.PersistentFlags().Lookup("metrics"))
}

// GetConfig returns the loaded application configuration for other packages.
func GetConfig() *appconfig.Config {
	return currentConfig
}

// SetVersionInfo allows the main package to inject build-time variables.
func SetVersionInfo(version, commit, date string) {
	appVersion = version
	appCommit = commit
	appDate = date
}

// requirePredictor fails when no predictor endpoint is configured.
func requirePredictor(cfg *appconfig.Config) error {
	if cfg == nil || cfg.Predictor.URL == "" {
		return fmt.Errorf("no predictor endpoint configured (set predictor.url in %s or pass --predictorUrl)", appconfig.DefaultConfigPath)
	}
	return nil
}
