package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/nodewee/file-converter/pkg/constants"
	"github.com/nodewee/file-converter/pkg/types"
)

// Default values and constants
const (
	DefaultLogLevel       = "info"
	DefaultTimeoutMinutes = 30
	DefaultEnableVerbose  = false
	DefaultOverwrite      = false
	DefaultHTMLToMarkdown = constants.HTMLMarkdownText
)

// Config holds application configuration
type Config struct {
	// External tool paths; empty means search the platform candidates
	FFmpegPath      string `json:"ffmpeg_path"`
	LibreOfficePath string `json:"libreoffice_path"`
	PandocPath      string `json:"pandoc_path"`
	ImageMagickPath string `json:"imagemagick_path"`
	PdftoppmPath    string `json:"pdftoppm_path"`
	// ToolsFile names a YAML document with extra tool candidates
	ToolsFile string `json:"tools_file"`

	DefaultQuality int    `json:"default_quality"`
	OutputDir      string `json:"output_dir"`
	HTMLToMarkdown string `json:"html_to_markdown"`

	// Runtime settings (not persisted to file)
	Overwrite      bool   `json:"-"`
	TimeoutMinutes int    `json:"-"`
	LogLevel       string `json:"-"`
	EnableVerbose  bool   `json:"-"`
}

// NewDefaultConfig returns the built-in defaults without touching the filesystem
func NewDefaultConfig() *Config {
	return &Config{
		DefaultQuality: constants.DefaultQuality,
		HTMLToMarkdown: DefaultHTMLToMarkdown,
		Overwrite:      DefaultOverwrite,
		TimeoutMinutes: DefaultTimeoutMinutes,
		LogLevel:       DefaultLogLevel,
		EnableVerbose:  DefaultEnableVerbose,
	}
}

// DefaultConfig returns the configuration from file, or defaults when it cannot be read
func DefaultConfig() *Config {
	config, err := LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Failed to load config file, using defaults: %v\n", err)
		return NewDefaultConfig()
	}
	return config
}

// LoadConfigWithEnvOverrides loads config from file, then a .env file in the
// working directory, then the process environment
func LoadConfigWithEnvOverrides() *Config {
	config := DefaultConfig()

	// A missing .env is normal; real environment variables win over it
	_ = godotenv.Load()

	config.ApplyEnv(os.Getenv)
	return config
}

// ApplyEnv overrides fields from environment variables looked up with getenv
func (c *Config) ApplyEnv(getenv func(string) string) {
	if value := getenv("FFMPEG_PATH"); value != "" {
		c.FFmpegPath = value
	}
	if value := getenv("LIBREOFFICE_PATH"); value != "" {
		c.LibreOfficePath = value
	}
	if value := getenv("PANDOC_PATH"); value != "" {
		c.PandocPath = value
	}
	if value := getenv("IMAGEMAGICK_PATH"); value != "" {
		c.ImageMagickPath = value
	}
	if value := getenv("PDFTOPPM_PATH"); value != "" {
		c.PdftoppmPath = value
	}
	if value := getenv("FILE_CONVERTER_TOOLS_FILE"); value != "" {
		c.ToolsFile = value
	}

	if value := getenv("FILE_CONVERTER_QUALITY"); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			c.DefaultQuality = intVal
		}
	}
	if value := getenv("FILE_CONVERTER_OUTPUT_DIR"); value != "" {
		c.OutputDir = value
	}
	if value := getenv("FILE_CONVERTER_OVERWRITE"); value != "" {
		c.Overwrite = parseBool(value)
	}
	if value := getenv("FILE_CONVERTER_HTML_MARKDOWN"); value != "" {
		c.HTMLToMarkdown = value
	}
	if value := getenv("FILE_CONVERTER_TIMEOUT_MINUTES"); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			c.TimeoutMinutes = intVal
		}
	}
	if value := getenv("FILE_CONVERTER_LOG_LEVEL"); value != "" {
		c.LogLevel = value
	}
	if value := getenv("FILE_CONVERTER_VERBOSE"); value != "" {
		c.EnableVerbose = parseBool(value)
	}
}

func parseBool(value string) bool {
	value = strings.ToLower(value)
	return value == "true" || value == "1" || value == "yes"
}

// ToolPath returns the configured override for a tool, or ""
func (c *Config) ToolPath(tool types.ToolName) string {
	switch tool {
	case types.ToolFFmpeg:
		return c.FFmpegPath
	case types.ToolLibreOffice:
		return c.LibreOfficePath
	case types.ToolPandoc:
		return c.PandocPath
	case types.ToolImageMagick:
		return c.ImageMagickPath
	case types.ToolPdftoppm:
		return c.PdftoppmPath
	default:
		return ""
	}
}

// Timeout returns the per-run deadline
func (c *Config) Timeout() time.Duration {
	if c.TimeoutMinutes < 1 {
		return constants.DefaultTimeoutDuration
	}
	return time.Duration(c.TimeoutMinutes) * time.Minute
}

// Validate validates the configuration
func (c *Config) Validate() error {
	validator := NewConfigValidator()
	return validator.Validate(c)
}

// String returns a string representation of the configuration
func (c *Config) String() string {
	return fmt.Sprintf("Config{Quality: %d, OutputDir: %q, LogLevel: %s, Verbose: %v}",
		c.DefaultQuality, c.OutputDir, c.LogLevel, c.EnableVerbose)
}
