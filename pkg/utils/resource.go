package utils

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"

	"github.com/nodewee/file-converter/pkg/constants"
	"github.com/nodewee/file-converter/pkg/logger"
)

// ResourceManager tracks the scratch directories of one conversion and removes them on Cleanup
type ResourceManager struct {
	tempDirs []string
	mu       sync.Mutex
	logger   *logger.Logger
	baseDir  string
}

// NewResourceManager 创建以 baseDir 为根的资源管理器
func NewResourceManager(baseDir string, log *logger.Logger) *ResourceManager {
	if baseDir == "" {
		baseDir = os.TempDir()
	}
	if log == nil {
		log = logger.Discard()
	}

	return &ResourceManager{
		logger:  log,
		baseDir: baseDir,
	}
}

// CreateTempDir 在根目录下创建唯一命名的临时目录
func (rm *ResourceManager) CreateTempDir(prefix string) (string, error) {
	rm.mu.Lock()
	defer rm.mu.Unlock()

	tempDir := filepath.Join(rm.baseDir, constants.ScratchDirPrefix+prefix+"-"+uuid.NewString())
	if err := os.MkdirAll(tempDir, constants.DefaultDirPermission); err != nil {
		return "", fmt.Errorf("failed to create temporary directory: %w", err)
	}

	rm.tempDirs = append(rm.tempDirs, tempDir)
	rm.logger.Debug("Created temporary directory: %s", tempDir)
	return tempDir, nil
}

// Cleanup 删除所有已记录的临时目录
func (rm *ResourceManager) Cleanup() error {
	rm.mu.Lock()
	defer rm.mu.Unlock()

	var errs []error
	for _, dir := range rm.tempDirs {
		if err := os.RemoveAll(dir); err != nil && !os.IsNotExist(err) {
			errs = append(errs, fmt.Errorf("failed to remove temp dir %s: %w", dir, err))
			rm.logger.Warn("Failed to remove temporary directory: %s, error: %v", dir, err)
		} else {
			rm.logger.Debug("Removed temporary directory: %s", dir)
		}
	}
	rm.tempDirs = rm.tempDirs[:0]

	return errors.Join(errs...)
}
