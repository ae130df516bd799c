package cmd

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/spf13/cobra"
)

// Version information variables - set by main.go
var (
	version   = "dev"
	gitCommit = "none"
	buildTime = "unknown"
)

// SetVersionInfo sets the version information from main.go
func SetVersionInfo(v, commit, builtAt string) {
	version = v
	gitCommit = commit
	buildTime = builtAt
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		showVersionInfo()
	},
}

// showVersionInfo prints build and runtime details
func showVersionInfo() {
	fmt.Printf("🔄 File Converter\n")
	fmt.Printf("=================\n\n")

	fmt.Printf("🔖 Version Information:\n")
	fmt.Printf("  Version:     %s\n", version)
	fmt.Printf("  Git Commit:  %s\n", gitCommit)
	fmt.Printf("  Build Time:  %s\n", buildTime)
	fmt.Printf("\n")

	fmt.Printf("⚙️ Runtime Information:\n")
	fmt.Printf("  Go Version:  %s\n", runtime.Version())
	fmt.Printf("  OS/Arch:     %s/%s\n", runtime.GOOS, runtime.GOARCH)

	if version == "dev" || strings.Contains(version, "+") {
		fmt.Printf("\n🔧 This is a development build\n")
	}
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
