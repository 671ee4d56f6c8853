// internal/cli/demo.go
package subline

import (
	"github.com/mwiater/subline/internal/predictors/sparkd"
	"github.com/mwiater/subline/internal/tui"
	"github.com/spf13/cobra"
)

// demoCmd launches the interactive terminal demo.
var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Interactively score texts and view terminal sparklines",
	Long: `Launch an interactive session: type a text, score it against the configured
predictor, and see per-token entropy and surprisal as terminal sparklines.
Previously scored texts are served from memory.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		if err := requirePredictor(cfg); err != nil {
			return err
		}
		return tui.StartDemo(cmd.Context(), sparkd.New(cfg))
	},
}

func init() {
	rootCmd.AddCommand(demoCmd)
}
