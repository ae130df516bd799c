package cmd

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
)

var withChecksum bool

// infoCmd prints basic facts about a media file
var infoCmd = &cobra.Command{
	Use:   "info <file>",
	Short: "Show size, type, dimensions and duration of a file",
	Long: `Inspect a file without converting it. Image dimensions are read from the
header, audio and video duration comes from FFmpeg when it is installed.

Examples:
  file-converter info photo.jpg
  file-converter info movie.mkv --json
  file-converter info archive.pdf --checksum`,
	Args:          cobra.ExactArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		handler, err := NewAppHandler(cmd)
		if err != nil {
			return err
		}

		path, err := filepath.Abs(args[0])
		if err != nil {
			return err
		}

		ctx, cancel := handler.timeoutContext()
		defer cancel()

		info, err := handler.engine.Prober.MediaInfo(ctx, path, withChecksum)
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(info)
		}

		fmt.Printf("📄 %s\n", info.Name)
		fmt.Printf("  Size:      %s\n", formatBytes(info.Size))
		fmt.Printf("  Type:      %s (%s)\n", info.Extension, info.Category)
		if info.MimeType != "" {
			fmt.Printf("  MIME:      %s\n", info.MimeType)
		}
		if info.Width != nil && info.Height != nil {
			fmt.Printf("  Size (px): %d x %d\n", *info.Width, *info.Height)
		}
		if info.Duration != nil {
			fmt.Printf("  Duration:  %s\n", time.Duration(*info.Duration*float64(time.Second)).Round(10*time.Millisecond))
		}
		if info.MD5Hash != "" {
			fmt.Printf("  MD5:       %s\n", info.MD5Hash)
		}
		return nil
	},
}

func init() {
	infoCmd.Flags().BoolVar(&withChecksum, "checksum", false, "Also compute the MD5 checksum")
	rootCmd.AddCommand(infoCmd)
}
