// internal/cli/render.go
package subline

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/mwiater/subline/internal/metrics"
	"github.com/mwiater/subline/internal/predictors/sparkd"
	"github.com/mwiater/subline/internal/sparkline"
	"github.com/mwiater/subline/internal/util"
	"github.com/spf13/cobra"
)

type renderOptions struct {
	inputPath string
}

var renderOpts renderOptions

// renderCmd scores texts against the predictor and writes one SVG sparkline
// document per sequence.
var renderCmd = &cobra.Command{
	Use:   "render [texts...]",
	Short: "Render token metrics as SVG sparklines",
	Long: `Score one or more texts with the configured predictor, compute per-token
surprisal and entropy, and write one text-aligned sparkline SVG per input
sequence to the output directory.

Texts are taken from the arguments, or one per line from --input.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		if err := requirePredictor(cfg); err != nil {
			return err
		}

		texts := args
		if renderOpts.inputPath != "" {
			fromFile, err := readTexts(renderOpts.inputPath)
			if err != nil {
				return err
			}
			texts = append(texts, fromFile...)
		}

		provider := sparkd.New(cfg)
		m, err := metrics.Calc(cmd.Context(), texts, provider)
		if err != nil {
			return err
		}

		docs, err := sparkline.VisualizeBatch(m, sparkline.Options{
			CharsPerLine:    cfg.Render.CharsPerLineOrDefault(),
			Metrics:         cfg.Render.MetricsOrDefault(),
			CharWidth:       cfg.Render.CharWidthOrDefault(),
			SparklineHeight: cfg.Render.SparklineHeightOrDefault(),
			WideTolerance:   cfg.Render.WideToleranceOrDefault(),
			Margin:          cfg.Render.MarginOrDefault(),
		})
		if err != nil {
			return err
		}

		if len(docs) == 0 {
			cmd.Println("Nothing to render.")
			return nil
		}

		outDir := cfg.OutputDirPath()
		if err := os.MkdirAll(outDir, 0o755); err != nil {
			return fmt.Errorf("unable to create output directory %s: %w", outDir, err)
		}

		for i, doc := range docs {
			path := filepath.Join(outDir, fmt.Sprintf("sequence-%03d.svg", i))
			if err := util.WriteFile(path, []byte(doc)); err != nil {
				return fmt.Errorf("unable to write %s: %w", path, err)
			}
			color.Green("Wrote %s (%d tokens)", path, m.SequenceLength[i])
		}
		return nil
	},
}

func init() {
	renderCmd.Flags().StringVar(&renderOpts.inputPath, "input", "", "file with one text per line")
	rootCmd.AddCommand(renderCmd)
}

// readTexts reads one text per non-empty line.
func readTexts(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("unable to read input file %s: %w", path, err)
	}
	defer file.Close()

	var texts []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		if line := scanner.Text(); line != "" {
			texts = append(texts, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("unable to read input file %s: %w", path, err)
	}
	return texts, nil
}
