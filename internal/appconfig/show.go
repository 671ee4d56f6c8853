// internal/appconfig/show.go
package appconfig

import (
	"fmt"
	"io"
	"strings"
)

// ShowConfig prints the current configuration summary.
func ShowConfig(out io.Writer, file string, cfg *Config, fallback Config) {
	if file == "" {
		fmt.Fprintln(out, "No config file loaded (using defaults).")
	} else {
		fmt.Fprintf(out, "Config file: %s\n\n", file)
	}

	if cfg == nil {
		cfg = &fallback
	}

	fmt.Fprintln(out, "Current configuration:")
	fmt.Fprintf(out, "  Debug:            %v\n", cfg.Debug)
	fmt.Fprintf(out, "  Log File:         %s\n", cfg.LogFilePath())
	fmt.Fprintf(out, "  Output Dir:       %s\n", cfg.OutputDirPath())
	fmt.Fprintf(out, "  Predictor URL:    %s\n", cfg.Predictor.URL)
	fmt.Fprintf(out, "  Request Timeout:  %s\n", cfg.RequestTimeout())
	fmt.Fprintf(out, "  Chars Per Line:   %d\n", cfg.Render.CharsPerLineOrDefault())
	fmt.Fprintf(out, "  Char Width:       %g\n", cfg.Render.CharWidthOrDefault())
	fmt.Fprintf(out, "  Sparkline Height: %g\n", cfg.Render.SparklineHeightOrDefault())
	fmt.Fprintf(out, "  Margin:           %g\n", cfg.Render.MarginOrDefault())
	fmt.Fprintf(out, "  Wide Tolerance:   %g\n", cfg.Render.WideToleranceOrDefault())
	fmt.Fprintf(out, "  Metrics:          %s\n", strings.Join(cfg.Render.MetricsOrDefault(), ", "))
}
