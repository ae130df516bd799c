package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/nodewee/file-converter/pkg/config"
	"github.com/nodewee/file-converter/pkg/constants"
	"github.com/nodewee/file-converter/pkg/core"
	"github.com/nodewee/file-converter/pkg/logger"
	"github.com/nodewee/file-converter/pkg/types"
	"github.com/nodewee/file-converter/pkg/utils"

	"github.com/spf13/cobra"
)

var (
	targetFormat     string
	quality          int
	outputDir        string
	overwrite        bool
	bitrate          string
	page             int
	preserveMetadata bool
	jsonOutput       bool
	verbose          bool
	showVersion      bool
)

// errConversionFailed is returned after a failed result has been printed
var errConversionFailed = errors.New("conversion failed")

// AppHandler holds what every command needs: merged configuration, a
// logger and the conversion engine
type AppHandler struct {
	config *config.Config
	logger *logger.Logger
	engine *core.Engine
}

// NewAppHandler loads configuration, applies command line overrides and
// builds the engine
func NewAppHandler(cmd *cobra.Command) (*AppHandler, error) {
	h := &AppHandler{}

	h.config = config.LoadConfigWithEnvOverrides()
	h.applyCommandLineOverrides(cmd)

	if err := h.config.Validate(); err != nil {
		return nil, err
	}

	h.logger = logger.NewLogger(h.config.LogLevel, h.config.EnableVerbose)

	engine, err := core.NewEngine(h.config, nil, h.logger)
	if err != nil {
		return nil, err
	}
	h.engine = engine
	return h, nil
}

// applyCommandLineOverrides applies flags on top of file and environment settings
func (h *AppHandler) applyCommandLineOverrides(cmd *cobra.Command) {
	flags := cmd.Flags()
	if flags.Changed("output-dir") {
		h.config.OutputDir = outputDir
	}
	if flags.Changed("overwrite") {
		h.config.Overwrite = overwrite
	}
	if verbose {
		h.config.EnableVerbose = true
	}
}

// timeoutContext returns a context bounded by the configured timeout
func (h *AppHandler) timeoutContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), h.config.Timeout())
}

// ConvertFile converts one input file according to the flags
func (h *AppHandler) ConvertFile(cmd *cobra.Command, inputFile string) error {
	req, err := h.buildRequest(cmd, inputFile)
	if err != nil {
		return err
	}

	ctx, cancel := h.timeoutContext()
	defer cancel()

	h.logger.Progress("🔄", "Converting %s to %s", filepath.Base(inputFile), req.OutputFormat)
	result := h.engine.Router.Convert(ctx, req)

	if jsonOutput {
		if err := printJSON(result); err != nil {
			return err
		}
	} else {
		h.displayResult(result)
	}

	if !result.Success {
		return errConversionFailed
	}
	return nil
}

// buildRequest turns flags and configuration into a conversion request
func (h *AppHandler) buildRequest(cmd *cobra.Command, inputFile string) (*types.ConversionRequest, error) {
	absPath, err := filepath.Abs(inputFile)
	if err != nil {
		return nil, utils.NewReadError(err)
	}

	req := &types.ConversionRequest{
		InputPath:        absPath,
		OutputFormat:     targetFormat,
		Quality:          h.config.DefaultQuality,
		Overwrite:        h.config.Overwrite,
		Bitrate:          bitrate,
		PreserveMetadata: preserveMetadata,
	}

	// out-of-range values are clamped by the router, not rejected
	if cmd.Flags().Changed("quality") {
		req.Quality = quality
	}
	if cmd.Flags().Changed("page") {
		p := page
		req.Page = &p
	}

	if h.config.OutputDir != "" {
		dir, err := utils.ExpandPath(h.config.OutputDir)
		if err != nil {
			return nil, utils.NewInvalidPathError()
		}
		req.OutputDir = dir
	}
	return req, nil
}

// displayResult prints a human-readable summary of a conversion
func (h *AppHandler) displayResult(result *types.ConversionResult) {
	if !result.Success {
		fmt.Fprintf(os.Stderr, "❌ %s\n", result.Error)
		return
	}

	fmt.Printf("✅ Converted successfully\n")
	fmt.Printf("📁 Output: %s\n", result.OutputPath)
	if result.OriginalSize != nil && result.NewSize != nil {
		fmt.Printf("📊 Size: %s → %s\n", formatBytes(*result.OriginalSize), formatBytes(*result.NewSize))
	}
}

// formatBytes renders a byte count with a binary unit
func formatBytes(n uint64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := uint64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}

// printJSON writes v to stdout as indented JSON
func printJSON(v interface{}) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "file-converter [input_file]",
	Short: "Convert images, documents, audio and video between formats",
	Long: `Convert a single file to another format. Images, plain text, Markdown, HTML
and RTF are converted in-process; PDF rasterizing, office documents, e-books,
audio and video are handed to external tools when they are installed.

External tools:
- FFmpeg: audio and video transcoding, last-resort PDF rendering
- LibreOffice: docx, doc, odt and office-to-PDF conversion
- Pandoc: EPUB input and output
- ImageMagick / Poppler (pdftoppm): PDF to image

Tools are detected on every run; use 'file-converter tools' to see what was found
and 'file-converter config set <tool>_path <path>' to point at a specific binary.

Output files are written next to the input (or into --output-dir) and never
overwrite an existing file unless --overwrite is given: name_1.ext, name_2.ext
and so on are used instead.

Examples:
  file-converter photo.heic --to jpg                 # HEIC to JPEG at the default quality
  file-converter photo.png --to webp -q 60           # Quality is clamped to 1..100
  file-converter notes.md --to pdf -o ./out          # Write into another directory
  file-converter report.docx --to pdf                # Requires LibreOffice
  file-converter slides.pdf --to png --page 2        # Render the third page
  file-converter talk.mkv --to mp3 --bitrate 320k    # Extract the audio track
  file-converter song.flac --to mp3 --json           # Machine-readable result`,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if showVersion {
			fmt.Printf("file-converter %s\n", version)
			return nil
		}

		if len(args) == 0 {
			return cmd.Help()
		}
		if targetFormat == "" {
			return utils.NewValidationError("--to is required", nil)
		}

		handler, err := NewAppHandler(cmd)
		if err != nil {
			return err
		}
		return handler.ConvertFile(cmd, args[0])
	},
}

// Execute runs the command tree and exits non-zero on failure
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		reportError(err)
		os.Exit(1)
	}
}

// reportError prints err unless its result was already printed
func reportError(err error) {
	if errors.Is(err, errConversionFailed) {
		return
	}
	if errorType := utils.GetErrorType(err); errorType != "" {
		fmt.Fprintf(os.Stderr, "Error (%s): %v\n", errorType, err)
		return
	}
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
}

func init() {
	rootCmd.Flags().StringVarP(&targetFormat, "to", "t", "",
		"Target format extension (jpg, png, pdf, md, mp3, ...)")
	rootCmd.Flags().IntVarP(&quality, "quality", "q", constants.DefaultQuality,
		"Quality 1-100 for lossy image, video and PDF rendering (config default_quality when unset)")
	rootCmd.Flags().StringVarP(&outputDir, "output-dir", "o", "",
		"Directory for the output file (default: next to the input)")
	rootCmd.Flags().BoolVar(&overwrite, "overwrite", false,
		"Replace an existing output file instead of picking a new name")
	rootCmd.Flags().StringVar(&bitrate, "bitrate", "",
		"Audio bitrate for FFmpeg, e.g. 192k")
	rootCmd.Flags().IntVar(&page, "page", 0,
		"Zero-based page to render when converting a PDF to an image")
	rootCmd.Flags().BoolVar(&preserveMetadata, "preserve-metadata", false,
		"Accepted for compatibility; no converter copies metadata")
	rootCmd.Flags().BoolVarP(&showVersion, "version", "V", false,
		"Show version information")

	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false,
		"Print results as JSON on stdout")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"Enable verbose output to show progress information")
}
