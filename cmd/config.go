package cmd

import (
	"fmt"

	"github.com/nodewee/file-converter/pkg/config"

	"github.com/spf13/cobra"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage persistent settings",
	Long: `Manage settings stored in a JSON file in your user configuration directory
(~/.file-converter/config.json, or $FILE_CONVERTER_HOME/config.json).

Environment variables and command line flags override the file for one run.

Available commands:
  list  - List all settings
  get   - Get a specific setting
  set   - Set a specific setting

Examples:
  file-converter config list
  file-converter config get ffmpeg_path
  file-converter config set ffmpeg_path /opt/ffmpeg/bin/ffmpeg
  file-converter config set default_quality 90
  file-converter config set html_to_markdown markdown`,
}

// listConfig lists every persisted setting
func listConfig() error {
	fmt.Println("🛠️  Configuration")
	fmt.Println("=================")

	configPath, err := config.GetConfigFilePath()
	if err != nil {
		return err
	}
	fmt.Printf("📁 Config file: %s\n\n", configPath)

	for _, key := range config.ListConfigKeys() {
		value, err := config.GetConfigValue(key)
		if err != nil {
			return err
		}
		fmt.Printf("  %-18s = %s\n", key, getDisplayValue(value))
	}

	fmt.Println("\n💡 Tip: Use 'file-converter config set <key> <value>' to change a setting")
	fmt.Println("💡 Note: overwrite, log level, verbose and timeout are runtime-only")
	return nil
}

// getDisplayValue returns a display-friendly value for empty strings
func getDisplayValue(value interface{}) string {
	if s, ok := value.(string); ok && s == "" {
		return "(not set)"
	}
	return fmt.Sprint(value)
}

// configListCmd represents the 'config list' command
var configListCmd = &cobra.Command{
	Use:           "list",
	Short:         "List all settings",
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return listConfig()
	},
}

// configGetCmd represents the 'config get' command
var configGetCmd = &cobra.Command{
	Use:           "get <key>",
	Short:         "Get a specific setting",
	Args:          cobra.ExactArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		value, err := config.GetConfigValue(args[0])
		if err != nil {
			return err
		}
		fmt.Printf("📝 %s = %s\n", args[0], getDisplayValue(value))
		return nil
	},
}

// configSetCmd represents the 'config set' command
var configSetCmd = &cobra.Command{
	Use:           "set <key> <value>",
	Short:         "Set a specific setting",
	Args:          cobra.ExactArgs(2),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.SetConfigValue(args[0], args[1]); err != nil {
			return err
		}
		fmt.Printf("✅ Successfully set %s = %s\n", args[0], args[1])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)

	configCmd.AddCommand(configListCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
}
