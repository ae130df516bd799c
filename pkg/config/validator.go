package config

import (
	"fmt"
	"strings"

	"github.com/nodewee/file-converter/pkg/constants"
	"github.com/nodewee/file-converter/pkg/utils"
)

// ConfigValidator 配置验证器
type ConfigValidator struct{}

// NewConfigValidator 创建配置验证器
func NewConfigValidator() *ConfigValidator {
	return &ConfigValidator{}
}

// Validate 验证配置，所有问题合并为一个验证错误
func (v *ConfigValidator) Validate(c *Config) error {
	var errors []string

	// 验证默认质量
	if err := v.validateQuality(c.DefaultQuality); err != nil {
		errors = append(errors, err.Error())
	}
	if err := v.validateHTMLToMarkdown(c.HTMLToMarkdown); err != nil {
		errors = append(errors, err.Error())
	}
	if c.TimeoutMinutes < 1 {
		errors = append(errors, "timeout must be at least 1 minute")
	}
	// 验证日志级别
	if err := v.validateLogLevel(c.LogLevel); err != nil {
		errors = append(errors, err.Error())
	}

	if len(errors) > 0 {
		return utils.NewValidationError("configuration validation failed: "+strings.Join(errors, "; "), nil)
	}

	return nil
}

func (v *ConfigValidator) validateQuality(quality int) error {
	if quality < constants.MinQuality || quality > constants.MaxQuality {
		return fmt.Errorf("quality must be between %d and %d, got %d", constants.MinQuality, constants.MaxQuality, quality)
	}
	return nil
}

func (v *ConfigValidator) validateHTMLToMarkdown(mode string) error {
	switch mode {
	case constants.HTMLMarkdownText, constants.HTMLMarkdownMarkdown:
		return nil
	default:
		return fmt.Errorf("invalid html_to_markdown mode: %s", mode)
	}
}

func (v *ConfigValidator) validateLogLevel(level string) error {
	validLevels := []string{"debug", "info", "warn", "error"}

	for _, valid := range validLevels {
		if strings.ToLower(level) == valid {
			return nil
		}
	}

	return fmt.Errorf("invalid log level: %s", level)
}
