package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/nodewee/file-converter/pkg/constants"
)

// ExpandPath expands environment variables and the user home directory in path
func ExpandPath(path string) (string, error) {
	expanded := os.ExpandEnv(path)

	if strings.HasPrefix(expanded, "~") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get user home directory: %w", err)
		}

		if expanded == "~" {
			expanded = homeDir
		} else if strings.HasPrefix(expanded, "~/") || strings.HasPrefix(expanded, `~\`) {
			expanded = filepath.Join(homeDir, expanded[2:])
		}
	}

	return filepath.Clean(expanded), nil
}

// EnsureDir creates a directory if it doesn't exist
func EnsureDir(dirPath string) error {
	return os.MkdirAll(dirPath, constants.DefaultDirPermission)
}

// FileStem returns the file name of path without its final extension
func FileStem(path string) string {
	base := filepath.Base(path)
	if base == "." || base == string(filepath.Separator) {
		return ""
	}
	if stem := strings.TrimSuffix(base, filepath.Ext(base)); stem != "" {
		return stem
	}
	// dotfiles such as ".bashrc" are all stem
	return base
}
