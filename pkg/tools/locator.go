package tools

import (
	"context"
	"os"

	"github.com/nodewee/file-converter/pkg/constants"
	"github.com/nodewee/file-converter/pkg/logger"
	"github.com/nodewee/file-converter/pkg/types"
)

// Handle is a located tool ready to be invoked
type Handle struct {
	Tool   types.ToolName
	Path   string
	runner Runner
}

// Invoke runs the tool with args
func (h *Handle) Invoke(ctx context.Context, args ...string) (*Output, error) {
	return h.runner.Run(ctx, h.Path, args...)
}

// Locator finds tools by probing candidates in order. Nothing is cached:
// every call re-probes, so a tool installed mid-session is picked up.
type Locator struct {
	runner    Runner
	platform  *constants.PlatformConfig
	overrides func(types.ToolName) string
	logger    *logger.Logger
	statFn    func(string) bool
}

// NewLocator creates a locator. overrides may be nil; a non-empty override
// path is probed before the platform candidates.
func NewLocator(runner Runner, platform *constants.PlatformConfig, overrides func(types.ToolName) string, log *logger.Logger) *Locator {
	if platform == nil {
		platform = constants.GetPlatformConfig()
	}
	if overrides == nil {
		overrides = func(types.ToolName) string { return "" }
	}
	if log == nil {
		log = logger.Discard()
	}
	return &Locator{
		runner:    runner,
		platform:  platform,
		overrides: overrides,
		logger:    log,
		statFn:    pathExists,
	}
}

func pathExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Runner returns the runner handles are bound to
func (l *Locator) Runner() Runner {
	return l.runner
}

// Candidates returns the ordered list Locate would try for tool
func (l *Locator) Candidates(tool types.ToolName) []string {
	spec := l.platform.Spec(string(tool))
	var candidates []string
	if override := l.overrides(tool); override != "" {
		candidates = append(candidates, override)
	}
	return append(candidates, spec.Candidates...)
}

// Locate returns the first candidate that can be spawned with the tool's
// probe flag; its exit status is not checked. Tools marked accept-existing
// are also found when the candidate path exists on disk.
func (l *Locator) Locate(ctx context.Context, tool types.ToolName) (*Handle, bool) {
	spec := l.platform.Spec(string(tool))

	for _, candidate := range l.Candidates(tool) {
		var args []string
		if spec.ProbeFlag != "" {
			args = []string{spec.ProbeFlag}
		}

		if _, err := l.runner.Run(ctx, candidate, args...); err == nil {
			l.logger.Debug("Located %s at %s", tool, candidate)
			return &Handle{Tool: tool, Path: candidate, runner: l.runner}, true
		}

		if spec.AcceptExisting && l.statFn(candidate) {
			l.logger.Debug("Located %s at %s (exists)", tool, candidate)
			return &Handle{Tool: tool, Path: candidate, runner: l.runner}, true
		}
	}

	l.logger.Debug("%s not found", tool)
	return nil, false
}

// Availability snapshots the three tools that gate capability queries
func (l *Locator) Availability(ctx context.Context) types.ToolAvailability {
	_, ffmpeg := l.Locate(ctx, types.ToolFFmpeg)
	_, libreoffice := l.Locate(ctx, types.ToolLibreOffice)
	_, pandoc := l.Locate(ctx, types.ToolPandoc)
	return types.ToolAvailability{
		FFmpeg:      ffmpeg,
		LibreOffice: libreoffice,
		Pandoc:      pandoc,
	}
}

// Statuses reports discovery for every known tool
func (l *Locator) Statuses(ctx context.Context) []types.ToolStatus {
	statuses := make([]types.ToolStatus, 0, len(types.AllTools))
	for _, tool := range types.AllTools {
		status := types.ToolStatus{Name: tool}
		if handle, ok := l.Locate(ctx, tool); ok {
			status.Available = true
			status.Path = handle.Path
		}
		statuses = append(statuses, status)
	}
	return statuses
}
