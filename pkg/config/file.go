package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"github.com/nodewee/file-converter/pkg/constants"
	"github.com/nodewee/file-converter/pkg/utils"
)

const (
	ConfigFileName = "config.json"
	AppDirName     = ".file-converter"
	// HomeEnvVar relocates the configuration directory
	HomeEnvVar = "FILE_CONVERTER_HOME"
)

// ConfigFile represents the JSON configuration file structure
type ConfigFile struct {
	FFmpegPath      string `json:"ffmpeg_path"`
	LibreOfficePath string `json:"libreoffice_path"`
	PandocPath      string `json:"pandoc_path"`
	ImageMagickPath string `json:"imagemagick_path"`
	PdftoppmPath    string `json:"pdftoppm_path"`
	ToolsFile       string `json:"tools_file"`
	DefaultQuality  int    `json:"default_quality,omitempty"`
	OutputDir       string `json:"output_dir"`
	HTMLToMarkdown  string `json:"html_to_markdown,omitempty"`
}

// GetConfigDir returns the user configuration directory (~/.file-converter)
func GetConfigDir() (string, error) {
	if dir := os.Getenv(HomeEnvVar); dir != "" {
		return dir, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	return filepath.Join(homeDir, AppDirName), nil
}

// GetConfigFilePath returns the full path to the configuration file
func GetConfigFilePath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(configDir, ConfigFileName), nil
}

// LoadConfig loads configuration from file; a missing file yields defaults
func LoadConfig() (*Config, error) {
	configPath, err := GetConfigFilePath()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(configPath)
	if errors.Is(err, fs.ErrNotExist) {
		return NewDefaultConfig(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var configFile ConfigFile
	if err := json.Unmarshal(data, &configFile); err != nil {
		return nil, utils.NewValidationError("failed to parse config file "+configPath, err)
	}

	return configFileToConfig(&configFile), nil
}

// SaveConfig saves the persisted part of a configuration
func SaveConfig(config *Config) error {
	configPath, err := GetConfigFilePath()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(configPath), constants.DefaultDirPermission); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(configToConfigFile(config), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, constants.DefaultFilePermission); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

func configFileToConfig(cf *ConfigFile) *Config {
	config := NewDefaultConfig()
	config.FFmpegPath = cf.FFmpegPath
	config.LibreOfficePath = cf.LibreOfficePath
	config.PandocPath = cf.PandocPath
	config.ImageMagickPath = cf.ImageMagickPath
	config.PdftoppmPath = cf.PdftoppmPath
	config.ToolsFile = cf.ToolsFile
	config.OutputDir = cf.OutputDir
	if cf.DefaultQuality != 0 {
		config.DefaultQuality = cf.DefaultQuality
	}
	if cf.HTMLToMarkdown != "" {
		config.HTMLToMarkdown = cf.HTMLToMarkdown
	}
	return config
}

func configToConfigFile(c *Config) *ConfigFile {
	return &ConfigFile{
		FFmpegPath:      c.FFmpegPath,
		LibreOfficePath: c.LibreOfficePath,
		PandocPath:      c.PandocPath,
		ImageMagickPath: c.ImageMagickPath,
		PdftoppmPath:    c.PdftoppmPath,
		ToolsFile:       c.ToolsFile,
		DefaultQuality:  c.DefaultQuality,
		OutputDir:       c.OutputDir,
		HTMLToMarkdown:  c.HTMLToMarkdown,
	}
}

// field returns a pointer to the string field behind key
func (c *Config) field(key string) (*string, bool) {
	switch key {
	case "ffmpeg_path":
		return &c.FFmpegPath, true
	case "libreoffice_path":
		return &c.LibreOfficePath, true
	case "pandoc_path":
		return &c.PandocPath, true
	case "imagemagick_path":
		return &c.ImageMagickPath, true
	case "pdftoppm_path":
		return &c.PdftoppmPath, true
	case "tools_file":
		return &c.ToolsFile, true
	case "output_dir":
		return &c.OutputDir, true
	case "html_to_markdown":
		return &c.HTMLToMarkdown, true
	default:
		return nil, false
	}
}

// GetConfigValue gets a specific configuration value by key
func GetConfigValue(key string) (interface{}, error) {
	config, err := LoadConfig()
	if err != nil {
		return nil, err
	}

	if key == "default_quality" {
		return config.DefaultQuality, nil
	}
	if ptr, ok := config.field(key); ok {
		return *ptr, nil
	}
	return nil, utils.NewValidationError(fmt.Sprintf("unknown config key: %s", key), nil)
}

// SetConfigValue validates and persists a single configuration value
func SetConfigValue(key, value string) error {
	config, err := LoadConfig()
	if err != nil {
		return err
	}

	if key == "default_quality" {
		quality, err := strconv.Atoi(value)
		if err != nil {
			return utils.NewValidationError("default_quality must be an integer", err)
		}
		config.DefaultQuality = quality
	} else if ptr, ok := config.field(key); ok {
		*ptr = value
	} else {
		return utils.NewValidationError(fmt.Sprintf("unknown config key: %s", key), nil)
	}

	if err := config.Validate(); err != nil {
		return err
	}

	return SaveConfig(config)
}

// ListConfigKeys returns all available configuration keys
func ListConfigKeys() []string {
	return []string{
		"ffmpeg_path",
		"libreoffice_path",
		"pandoc_path",
		"imagemagick_path",
		"pdftoppm_path",
		"tools_file",
		"default_quality",
		"output_dir",
		"html_to_markdown",
	}
}
