// internal/cli/show_config.go
package subline

import (
	"github.com/mwiater/subline/internal/appconfig"
	"github.com/spf13/cobra"
)

// showConfigCmd prints the effective configuration after flag overrides.
var showConfigCmd = &cobra.Command{
	Use:   "show-config",
	Short: "Print the effective configuration",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := GetConfig()
		file := ""
		if cfg != nil {
			file = cfg.ConfigPath
		}
		appconfig.ShowConfig(cmd.OutOrStdout(), file, cfg, appconfig.Config{})
	},
}

func init() {
	rootCmd.AddCommand(showConfigCmd)
}
