package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// toolsCmd reports which external tools were found
var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "Show which external tools are installed",
	Long: `Probe every external tool the converter can drive and print where it was
found. Configured paths (config set <tool>_path) are tried before the built-in
candidate locations.`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		handler, err := NewAppHandler(cmd)
		if err != nil {
			return err
		}

		ctx, cancel := handler.timeoutContext()
		defer cancel()

		statuses := handler.engine.Tools.Statuses(ctx)
		if jsonOutput {
			return printJSON(statuses)
		}

		fmt.Println("🛠️  External Tools")
		fmt.Println("==================")
		for _, status := range statuses {
			if status.Available {
				fmt.Printf("  ✅ %-12s %s\n", status.Name, status.Path)
			} else {
				fmt.Printf("  ❌ %-12s not found\n", status.Name)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(toolsCmd)
}
