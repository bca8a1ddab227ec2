package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/philipparndt/scaleruler/internal/app"
	"github.com/philipparndt/scaleruler/internal/config"
	"github.com/philipparndt/scaleruler/version"
	"github.com/spf13/cobra"
)

var (
	configPath   string
	settingsFile string
	logLevel     string
	noWatch      bool
)

var rootCmd = &cobra.Command{
	Use:   "scaleruler [image]",
	Short: "Measure real-world distances on scaled drawings",
	Long: `ScaleRuler opens a floor plan or other scaled drawing, lets you calibrate it
by drawing a line of known length, and then measures further lines in feet and inches.
Calibrations and measurements are remembered per image.`,
	Args:         cobra.MaximumNArgs(1),
	Version:      version.GetFullVersion(),
	SilenceUsage: true,
	RunE:         runGUI,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configPath, "config", config.DefaultPath(), "configuration file")
	flags.StringVar(&settingsFile, "settings", "", "settings file holding calibrations and measurements")
	flags.StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	flags.BoolVar(&noWatch, "no-watch", false, "do not reload the image when it changes on disk")
}

// loadConfig reads the configuration file and applies command-line overrides
func loadConfig(cmd *cobra.Command) (*config.Config, *slog.Logger, error) {
	cfg, loadErr := config.Load(configPath)

	flags := cmd.Flags()
	if flags.Changed("settings") {
		cfg.SettingsFile = settingsFile
	}
	if flags.Changed("log-level") {
		if _, err := config.ParseLevel(logLevel); err != nil {
			return nil, nil, err
		}
		cfg.LogLevel = logLevel
	}
	if noWatch {
		cfg.WatchImage = false
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	logger := NewLogger(cfg.Level())
	if loadErr != nil {
		logger.Warn("using default configuration", "error", loadErr)
	}
	return cfg, logger, nil
}

func runGUI(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	var initialPath string
	if len(args) == 1 {
		initialPath = args[0]
	}

	logger.Debug("starting", "version", version.GetVersion(), "settings", cfg.SettingsFile)
	return app.Run(cfg, logger, initialPath)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
