package cmd

import (
	"fmt"
	"strings"

	"github.com/nodewee/file-converter/pkg/formats"

	"github.com/spf13/cobra"
)

var formatsTarget string

// formatsCmd lists conversion targets for an input format
var formatsCmd = &cobra.Command{
	Use:   "formats <from>",
	Short: "List the formats a file type can be converted to",
	Long: `List the target formats offered for an input extension. Office and e-book
targets only appear when LibreOffice or Pandoc is installed.

With --to, check a single pair instead. A pair is supported when a converter
exists for it and every external tool it needs is installed.

Examples:
  file-converter formats png               # Image targets
  file-converter formats docx              # Depends on installed tools
  file-converter formats mp3 --to flac     # Check one pair
  file-converter formats md --json`,
	Args:          cobra.ExactArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		handler, err := NewAppHandler(cmd)
		if err != nil {
			return err
		}

		ctx, cancel := handler.timeoutContext()
		defer cancel()

		from := formats.Normalize(args[0])
		caps := handler.engine.Capabilities

		if formatsTarget != "" {
			supported := caps.IsPairSupported(ctx, from, formatsTarget)
			if jsonOutput {
				return printJSON(map[string]interface{}{
					"from":      from,
					"to":        formats.Normalize(formatsTarget),
					"supported": supported,
				})
			}
			if supported {
				fmt.Printf("✅ %s → %s is supported\n", from, formats.Normalize(formatsTarget))
			} else {
				fmt.Printf("❌ %s → %s is not supported\n", from, formats.Normalize(formatsTarget))
			}
			return nil
		}

		targets := caps.ListSupportedTargets(ctx, from)
		if jsonOutput {
			return printJSON(map[string]interface{}{
				"from":     from,
				"category": formats.CategoryOf(from),
				"targets":  targets,
			})
		}

		if len(targets) == 0 {
			fmt.Printf("❓ No known conversions for '%s'\n", from)
			return nil
		}
		fmt.Printf("📋 %s (%s) can be converted to:\n", from, formats.CategoryOf(from))
		fmt.Printf("  %s\n", strings.Join(targets, ", "))
		return nil
	},
}

func init() {
	formatsCmd.Flags().StringVar(&formatsTarget, "to", "", "Check a single target format")
	rootCmd.AddCommand(formatsCmd)
}
