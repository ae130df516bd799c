package core

import (
	"github.com/nodewee/file-converter/pkg/config"
	"github.com/nodewee/file-converter/pkg/constants"
	"github.com/nodewee/file-converter/pkg/interfaces"
	"github.com/nodewee/file-converter/pkg/logger"
	"github.com/nodewee/file-converter/pkg/providers"
	"github.com/nodewee/file-converter/pkg/tools"
	"github.com/nodewee/file-converter/pkg/types"
	"github.com/nodewee/file-converter/pkg/utils"
)

// Engine bundles the conversion router with the capability and media
// queries, all sharing one tool locator
type Engine struct {
	Router       *Router
	Capabilities *Capabilities
	Prober       *MediaProber
	Tools        interfaces.ToolInventory
	Factory      interfaces.ConverterFactory
}

// NewEngine wires an engine from configuration. runner may be nil to run
// real processes.
func NewEngine(cfg *config.Config, runner tools.Runner, log *logger.Logger) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = logger.Discard()
	}
	if runner == nil {
		runner = tools.NewExecRunner()
	}

	platform := constants.GetPlatformConfig()
	if cfg.ToolsFile != "" {
		toolsFile, err := utils.ExpandPath(cfg.ToolsFile)
		if err != nil {
			return nil, utils.NewValidationError("invalid tools_file", err)
		}
		platform, err = constants.LoadPlatformConfig(toolsFile)
		if err != nil {
			return nil, utils.NewValidationError("failed to load tools_file: "+err.Error(), err)
		}
		log.Debug("Loaded tool candidates from %s", toolsFile)
	}

	overrides := func(tool types.ToolName) string {
		path := cfg.ToolPath(tool)
		if path == "" {
			return ""
		}
		if expanded, err := utils.ExpandPath(path); err == nil {
			return expanded
		}
		return path
	}

	locator := tools.NewLocator(runner, platform, overrides, log)
	factory := NewConverterFactory(locator, cfg.HTMLToMarkdown, log)

	log.Debug("Engine initialized with %s", cfg)

	return &Engine{
		Router:       NewRouter(factory, log),
		Capabilities: NewCapabilities(locator),
		Prober:       NewMediaProber(providers.NewMediaConverter(locator, log), log),
		Tools:        locator,
		Factory:      factory,
	}, nil
}
