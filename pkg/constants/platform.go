package constants

import (
	_ "embed"
	"fmt"
	"os"
	"runtime"

	"gopkg.in/yaml.v3"
)

// Platform-specific constants
var (
	// Current operating system
	CurrentOS = runtime.GOOS

	// Platform-specific executable extensions
	ExecutableExt = getExecutableExtension()
)

//go:embed tools.yaml
var defaultToolsYAML []byte

// ToolSpec describes how to find one external tool on the current platform
type ToolSpec struct {
	// ProbeFlag is passed when checking that a candidate can be spawned
	ProbeFlag string
	// AcceptExisting treats a candidate path that exists on disk as found
	AcceptExisting bool
	Candidates     []string
}

// PlatformConfig holds tool discovery data resolved for one OS
type PlatformConfig struct {
	Tools map[string]ToolSpec
}

// Spec returns the discovery data for a tool, or an empty spec
func (p *PlatformConfig) Spec(tool string) ToolSpec {
	if p == nil || p.Tools == nil {
		return ToolSpec{}
	}
	return p.Tools[tool]
}

type toolEntry struct {
	Probe          string              `yaml:"probe"`
	AcceptExisting bool                `yaml:"accept_existing"`
	Candidates     map[string][]string `yaml:"candidates"`
}

// GetPlatformConfig returns the built-in tool discovery data for this OS
func GetPlatformConfig() *PlatformConfig {
	cfg, err := ParsePlatformConfig(defaultToolsYAML, CurrentOS)
	if err != nil {
		// The embedded document is part of the binary
		panic(fmt.Sprintf("invalid embedded tools.yaml: %v", err))
	}
	return cfg
}

// LoadPlatformConfig returns the built-in data with candidates from an
// optional user YAML file tried first
func LoadPlatformConfig(userFile string) (*PlatformConfig, error) {
	cfg := GetPlatformConfig()
	if userFile == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(userFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read tools file %s: %w", userFile, err)
	}

	user, err := ParsePlatformConfig(data, CurrentOS)
	if err != nil {
		return nil, fmt.Errorf("failed to parse tools file %s: %w", userFile, err)
	}

	for name, spec := range user.Tools {
		base := cfg.Tools[name]
		if spec.ProbeFlag != "" {
			base.ProbeFlag = spec.ProbeFlag
		}
		base.AcceptExisting = base.AcceptExisting || spec.AcceptExisting
		base.Candidates = append(append([]string{}, spec.Candidates...), base.Candidates...)
		cfg.Tools[name] = base
	}
	return cfg, nil
}

// ParsePlatformConfig decodes a tools document and picks the candidate list for goos
func ParsePlatformConfig(data []byte, goos string) (*PlatformConfig, error) {
	var entries map[string]toolEntry
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, err
	}

	cfg := &PlatformConfig{Tools: make(map[string]ToolSpec, len(entries))}
	for name, entry := range entries {
		candidates, ok := entry.Candidates[goos]
		if !ok {
			candidates = entry.Candidates["default"]
		}
		cfg.Tools[name] = ToolSpec{
			ProbeFlag:      entry.Probe,
			AcceptExisting: entry.AcceptExisting,
			Candidates:     candidates,
		}
	}
	return cfg, nil
}

// getExecutableExtension returns the executable file extension for the current platform
func getExecutableExtension() string {
	if IsWindows() {
		return ".exe"
	}
	return ""
}

// IsWindows returns true if running on Windows
func IsWindows() bool {
	return CurrentOS == "windows"
}
