// internal/appconfig/appconfig.go
// Package appconfig manages loading and interpreting application configuration.
package appconfig

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/xeipuuv/gojsonschema"
)

const (
	// DefaultConfigPath is the default path to the application's configuration file.
	DefaultConfigPath = "config/config.json"
	// defaultRequestTimeout is the default timeout for predictor HTTP requests.
	defaultRequestTimeout = 600 * time.Second
	// defaultCharsPerLine is the fallback per-line character budget.
	defaultCharsPerLine = 80
	// defaultCharWidth is the width of one character cell in SVG units.
	defaultCharWidth = 8.4
	// defaultSparklineHeight is the height of the curve band under each text line.
	defaultSparklineHeight = 20.0
	// defaultMargin is the whitespace around each rendered document.
	defaultMargin = 10.0
	// defaultWideTolerance is the relative tolerance for treating a token
	// as wider than one character cell.
	defaultWideTolerance = 0.05
)

// Config represents the top-level application configuration.
type Config struct {
	Predictor  PredictorConfig `json:"predictor"`
	Render     RenderConfig    `json:"render"`
	Debug      bool            `json:"debug"`
	LogFile    string          `json:"logFile,omitempty"`
	OutputDir  string          `json:"outputDir,omitempty"`
	ConfigPath string          `json:"-"`
}

// PredictorConfig describes the external scoring backend.
type PredictorConfig struct {
	URL            string `json:"url"`
	TimeoutSeconds int    `json:"timeout,omitempty"`
}

// RenderConfig holds the sparkline rendering parameters.
type RenderConfig struct {
	CharsPerLine    int      `json:"charsPerLine,omitempty"`
	CharWidth       float64  `json:"charWidth,omitempty"`
	SparklineHeight float64  `json:"sparklineHeight,omitempty"`
	Margin          float64  `json:"margin,omitempty"`
	WideTolerance   float64  `json:"wideTolerance,omitempty"`
	Metrics         []string `json:"metrics,omitempty"`
}

// configSchema validates the raw configuration document before decoding.
var configSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"predictor": map[string]any{
			"type":     "object",
			"required": []string{"url"},
			"properties": map[string]any{
				"url":     map[string]any{"type": "string", "minLength": 1},
				"timeout": map[string]any{"type": "integer", "minimum": 0},
			},
		},
		"render": map[string]any{
			"type": "object",
			"properties": map[string]any{
				"charsPerLine":    map[string]any{"type": "integer", "minimum": 1},
				"charWidth":       map[string]any{"type": "number", "exclusiveMinimum": 0},
				"sparklineHeight": map[string]any{"type": "number", "exclusiveMinimum": 0},
				"margin":          map[string]any{"type": "number", "minimum": 0},
				"wideTolerance":   map[string]any{"type": "number", "minimum": 0},
				"metrics": map[string]any{
					"type": "array",
					"items": map[string]any{
						"type": "string",
						"enum": []string{"surprisal", "entropy", "s2"},
					},
				},
			},
		},
		"debug":     map[string]any{"type": "boolean"},
		"logFile":   map[string]any{"type": "string"},
		"outputDir": map[string]any{"type": "string"},
	},
	"required": []string{"predictor"},
}

// RequestTimeout returns the timeout duration for predictor HTTP requests,
// falling back to the default if not specified.
func (c Config) RequestTimeout() time.Duration {
	if c.Predictor.TimeoutSeconds <= 0 {
		return defaultRequestTimeout
	}
	return time.Duration(c.Predictor.TimeoutSeconds) * time.Second
}

// LogFilePath returns the path to the application log file, applying a default if not set.
func (c Config) LogFilePath() string {
	if path := c.LogFile; strings.TrimSpace(path) != "" {
		return path
	}
	return "subline.log"
}

// OutputDirPath returns the directory rendered documents are written to.
func (c Config) OutputDirPath() string {
	if dir := strings.TrimSpace(c.OutputDir); dir != "" {
		return dir
	}
	return "renders"
}

// CharsPerLineOrDefault returns the configured per-line character budget or the default.
func (r RenderConfig) CharsPerLineOrDefault() int {
	if r.CharsPerLine <= 0 {
		return defaultCharsPerLine
	}
	return r.CharsPerLine
}

// CharWidthOrDefault returns the configured character-cell width or the default.
func (r RenderConfig) CharWidthOrDefault() float64 {
	if r.CharWidth <= 0 {
		return defaultCharWidth
	}
	return r.CharWidth
}

// SparklineHeightOrDefault returns the configured curve band height or the default.
func (r RenderConfig) SparklineHeightOrDefault() float64 {
	if r.SparklineHeight <= 0 {
		return defaultSparklineHeight
	}
	return r.SparklineHeight
}

// MarginOrDefault returns the configured document margin or the default.
func (r RenderConfig) MarginOrDefault() float64 {
	if r.Margin <= 0 {
		return defaultMargin
	}
	return r.Margin
}

// WideToleranceOrDefault returns the configured wide-token tolerance or the default.
func (r RenderConfig) WideToleranceOrDefault() float64 {
	if r.WideTolerance <= 0 {
		return defaultWideTolerance
	}
	return r.WideTolerance
}

// MetricsOrDefault returns the configured metric list or ("s2").
func (r RenderConfig) MetricsOrDefault() []string {
	if len(r.Metrics) == 0 {
		return []string{"s2"}
	}
	return r.Metrics
}

// Load reads the application configuration from the specified path.
func Load(path string) (Config, error) {
	if path == "" {
		path = DefaultConfigPath
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("no configuration file found at %q", path)
		}
		return Config{}, fmt.Errorf("could not read config file %q: %w", path, err)
	}

	config, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("config file %q: %w", path, err)
	}
	config.ConfigPath = path
	return config, nil
}

// Parse validates raw configuration JSON against the schema and decodes it.
func Parse(data []byte) (Config, error) {
	schemaLoader := gojsonschema.NewGoLoader(configSchema)
	documentLoader := gojsonschema.NewBytesLoader(data)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return Config{}, fmt.Errorf("validate config: %w", err)
	}
	if !result.Valid() {
		descs := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			descs = append(descs, desc.String())
		}
		return Config{}, fmt.Errorf("invalid configuration: %s", strings.Join(descs, "; "))
	}

	var config Config
	if err := json.Unmarshal(data, &config); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	return config, nil
}
