package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nodewee/file-converter/pkg/types"
	"github.com/nodewee/file-converter/pkg/utils"
)

func TestLoadConfigMissingFileGivesDefaults(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(HomeEnvVar, dir)

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.DefaultQuality != 85 || cfg.HTMLToMarkdown != "text" {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if _, err := os.Stat(filepath.Join(dir, ConfigFileName)); !os.IsNotExist(err) {
		t.Error("loading must not create the config file")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestSetAndGetConfigValue(t *testing.T) {
	t.Setenv(HomeEnvVar, t.TempDir())

	if err := SetConfigValue("ffmpeg_path", "/opt/ffmpeg/bin/ffmpeg"); err != nil {
		t.Fatalf("SetConfigValue() error = %v", err)
	}
	if err := SetConfigValue("default_quality", "60"); err != nil {
		t.Fatalf("SetConfigValue() error = %v", err)
	}

	got, err := GetConfigValue("ffmpeg_path")
	if err != nil || got != "/opt/ffmpeg/bin/ffmpeg" {
		t.Errorf("ffmpeg_path = %v, %v", got, err)
	}
	got, err = GetConfigValue("default_quality")
	if err != nil || got != 60 {
		t.Errorf("default_quality = %v, %v", got, err)
	}

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.ToolPath(types.ToolFFmpeg) != "/opt/ffmpeg/bin/ffmpeg" {
		t.Errorf("ToolPath(ffmpeg) = %q", cfg.ToolPath(types.ToolFFmpeg))
	}
}

func TestSetConfigValueRejectsInvalid(t *testing.T) {
	t.Setenv(HomeEnvVar, t.TempDir())

	tests := []struct {
		key, value string
	}{
		{"default_quality", "abc"},
		{"default_quality", "0"},
		{"default_quality", "101"},
		{"html_to_markdown", "rich"},
		{"no_such_key", "x"},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			err := SetConfigValue(tt.key, tt.value)
			if !utils.IsErrorType(err, utils.ErrorTypeValidation) {
				t.Errorf("error = %v, want validation", err)
			}
		})
	}
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"PANDOC_PATH":                    "/usr/local/bin/pandoc",
		"FILE_CONVERTER_QUALITY":         "42",
		"FILE_CONVERTER_OVERWRITE":       "yes",
		"FILE_CONVERTER_HTML_MARKDOWN":   "markdown",
		"FILE_CONVERTER_TIMEOUT_MINUTES": "5",
		"FILE_CONVERTER_VERBOSE":         "1",
	}
	cfg := NewDefaultConfig()
	cfg.ApplyEnv(func(k string) string { return env[k] })

	if cfg.PandocPath != "/usr/local/bin/pandoc" || cfg.DefaultQuality != 42 {
		t.Errorf("unexpected config: %+v", cfg)
	}
	if !cfg.Overwrite || !cfg.EnableVerbose || cfg.HTMLToMarkdown != "markdown" {
		t.Errorf("unexpected flags: %+v", cfg)
	}
	if cfg.Timeout().Minutes() != 5 {
		t.Errorf("Timeout() = %v", cfg.Timeout())
	}
}

func TestValidateCollectsAllProblems(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.DefaultQuality = 500
	cfg.LogLevel = "chatty"
	cfg.TimeoutMinutes = 0

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation error")
	}
	for _, want := range []string{"quality", "log level", "timeout"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q does not mention %q", err, want)
		}
	}
}
