package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/philipparndt/scaleruler/pkg/settings"
	"github.com/philipparndt/scaleruler/pkg/units"
	"github.com/spf13/cobra"
)

var infoCmd = &cobra.Command{
	Use:   "info [image]",
	Short: "Display the stored calibration and measurements of an image",
	Args:  cobra.ExactArgs(1),
	RunE:  runInfo,
}

var forgetCmd = &cobra.Command{
	Use:   "forget [image]",
	Short: "Remove the stored calibration and measurements of an image",
	Args:  cobra.ExactArgs(1),
	RunE:  runForget,
}

func init() {
	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(forgetCmd)
}

// openSettings returns the settings store, its accessor and the absolute image path
func openSettings(cmd *cobra.Command, image string) (*settings.PropertiesStore, *settings.Settings, string, error) {
	cfg, logger, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, "", err
	}
	path, err := filepath.Abs(image)
	if err != nil {
		return nil, nil, "", fmt.Errorf("failed to resolve %s: %w", image, err)
	}
	store := settings.NewPropertiesStore(cfg.SettingsFile)
	return store, settings.New(store, logger), path, nil
}

func runInfo(cmd *cobra.Command, args []string) error {
	store, st, path, err := openSettings(cmd, args[0])
	if err != nil {
		return err
	}
	printInfo(cmd.OutOrStdout(), st, store.Path(), path)
	return nil
}

func printInfo(w io.Writer, st *settings.Settings, settingsFile, path string) {
	fmt.Fprintln(w, "ScaleRuler Image Information")
	fmt.Fprintln(w, "============================")
	fmt.Fprintf(w, "Settings: %s\n", settingsFile)
	fmt.Fprintf(w, "File: %s\n", path)
	if info, err := os.Stat(path); err == nil {
		fmt.Fprintf(w, "Size: %s\n", humanize.Bytes(uint64(info.Size())))
	} else {
		fmt.Fprintln(w, "Size: file not found")
	}

	ratio, calibrated := st.Scale(path)
	if calibrated {
		fmt.Fprintf(w, "Calibration: %g inches per pixel\n", ratio)
	} else {
		fmt.Fprintln(w, "Calibration: none")
	}

	segments := st.Measurements(path)
	fmt.Fprintf(w, "\nMeasurements: %d\n", len(segments))
	total := 0.0
	for i, seg := range segments {
		inches := seg.Length() * ratio
		total += inches
		fmt.Fprintf(w, "  %d. %.1f px  %s\n", i+1, seg.Length(), units.FormatFeetInches(inches))
	}
	fmt.Fprintf(w, "Total: %s\n", units.FormatFeetInches(total))
}

func runForget(cmd *cobra.Command, args []string) error {
	_, st, path, err := openSettings(cmd, args[0])
	if err != nil {
		return err
	}
	st.Forget(path)
	fmt.Fprintf(cmd.OutOrStdout(), "Forgot calibration and measurements of %s\n", path)
	return nil
}
