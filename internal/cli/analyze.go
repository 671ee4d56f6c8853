// internal/cli/analyze.go
package subline

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/k0kubun/pp"
	"github.com/mwiater/subline/internal/metrics"
	"github.com/mwiater/subline/internal/predictors/sparkd"
	"github.com/mwiater/subline/internal/util"
	"github.com/spf13/cobra"
)

type analyzeOptions struct {
	inputPath string
	dump      bool
}

var analyzeOpts analyzeOptions

var (
	analyzeTitleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	analyzeHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("14"))
	analyzeCellStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
)

// analyzeCmd scores texts and prints per-sequence summary statistics without
// rendering anything.
var analyzeCmd = &cobra.Command{
	Use:   "analyze [texts...]",
	Short: "Print per-sequence entropy and perplexity statistics",
	Long: `Score one or more texts with the configured predictor and print a table of
per-sequence statistics: token count, mean entropy, and perplexity.

Use --dump to pretty-print the full metric arrays for debugging.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		if err := requirePredictor(cfg); err != nil {
			return err
		}

		texts := args
		if analyzeOpts.inputPath != "" {
			fromFile, err := readTexts(analyzeOpts.inputPath)
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

		if m.SequenceCount() == 0 {
			cmd.Println("Nothing to analyze.")
			return nil
		}

		cmd.Println(analyzeTitleStyle.Render(fmt.Sprintf("Batch of %d sequence(s), vocabulary size %d", m.SequenceCount(), m.VocabSize)))
		cmd.Println(formatSummaryTable(m))

		if analyzeOpts.dump {
			pp.Println(m)
		}
		return nil
	},
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeOpts.inputPath, "input", "", "file with one text per line")
	analyzeCmd.Flags().BoolVar(&analyzeOpts.dump, "dump", false, "pretty-print the full metric arrays")
	rootCmd.AddCommand(analyzeCmd)
}

// formatSummaryTable renders one row per sequence with a token preview.
func formatSummaryTable(m *metrics.TokenMetrics) string {
	var b strings.Builder

	row := func(style lipgloss.Style, cols ...string) {
		rendered := make([]string, len(cols))
		for i, col := range cols {
			rendered[i] = style.Render(col)
		}
		b.WriteString("  " + strings.Join(rendered, "  ") + "\n")
	}

	row(analyzeHeaderStyle,
		pad("#", 4), pad("Tokens", 7), pad("Entropy", 9), pad("Perplexity", 11), "Text")
	for i := 0; i < m.SequenceCount(); i++ {
		row(analyzeCellStyle,
			pad(fmt.Sprintf("%d", i), 4),
			pad(fmt.Sprintf("%d", m.SequenceLength[i]), 7),
			pad(formatStat(m.SequenceEntropy[i]), 9),
			pad(formatStat(m.SequencePerplexity[i]), 11),
			util.TruncateRunes(strings.Join(m.Tokens[i], ""), 48))
	}
	return strings.TrimRight(b.String(), "\n")
}

func pad(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

func formatStat(v float64) string {
	if math.IsNaN(v) {
		return "n/a"
	}
	return fmt.Sprintf("%.3f", v)
}
