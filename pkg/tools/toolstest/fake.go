// Package toolstest provides a scripted Runner for tests.
package toolstest

import (
	"context"
	"fmt"
	"os"
	"slices"
	"sync"

	"github.com/nodewee/file-converter/pkg/constants"
	"github.com/nodewee/file-converter/pkg/tools"
)

// BarePlatform lists each tool under its bare command name only, so
// nothing installed on the host can be picked up
func BarePlatform() *constants.PlatformConfig {
	return &constants.PlatformConfig{Tools: map[string]constants.ToolSpec{
		"ffmpeg":      {ProbeFlag: "-version", Candidates: []string{"ffmpeg"}},
		"libreoffice": {ProbeFlag: "--version", Candidates: []string{"soffice"}},
		"pandoc":      {ProbeFlag: "--version", Candidates: []string{"pandoc"}},
		"imagemagick": {ProbeFlag: "-version", Candidates: []string{"magick", "gm"}},
		"pdftoppm":    {ProbeFlag: "-v", Candidates: []string{"pdftoppm"}},
	}}
}

// Behavior decides what a fake program does with its arguments
type Behavior func(args []string) (*tools.Output, error)

// Call records one invocation
type Call struct {
	Name string
	Args []string
}

// FakeRunner runs installed behaviors instead of processes. Programs that
// were not installed fail to start, like a missing binary.
type FakeRunner struct {
	mu       sync.Mutex
	programs map[string]Behavior
	calls    []Call
}

// NewFakeRunner creates an empty fake
func NewFakeRunner() *FakeRunner {
	return &FakeRunner{programs: make(map[string]Behavior)}
}

// Install makes name startable; a nil behavior exits 0 with no output
func (f *FakeRunner) Install(name string, behavior Behavior) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.programs[name] = behavior
}

// Run implements tools.Runner
func (f *FakeRunner) Run(ctx context.Context, name string, args ...string) (*tools.Output, error) {
	f.mu.Lock()
	f.calls = append(f.calls, Call{Name: name, Args: slices.Clone(args)})
	behavior, ok := f.programs[name]
	f.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("exec: %q: executable file not found in $PATH", name)
	}
	if behavior == nil {
		return &tools.Output{}, nil
	}
	return behavior(args)
}

// Calls returns every recorded invocation
func (f *FakeRunner) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.calls)
}

// CallsTo returns invocations of name, probes excluded when skipProbe is set
func (f *FakeRunner) CallsTo(name string, skipProbe bool) []Call {
	var out []Call
	for _, call := range f.Calls() {
		if call.Name != name {
			continue
		}
		if skipProbe && len(call.Args) <= 1 {
			continue
		}
		out = append(out, call)
	}
	return out
}

// Exit returns a behavior that exits with code and stderr
func Exit(code int, stderr string) Behavior {
	return func([]string) (*tools.Output, error) {
		return &tools.Output{ExitCode: code, Stderr: []byte(stderr)}, nil
	}
}

// WriteFile returns a behavior that writes content to the path chosen by
// pathFn and exits 0. Probe invocations (one argument or none) write nothing.
func WriteFile(pathFn func(args []string) string, content []byte) Behavior {
	return func(args []string) (*tools.Output, error) {
		if len(args) <= 1 {
			return &tools.Output{}, nil
		}
		if err := os.WriteFile(pathFn(args), content, 0644); err != nil {
			return nil, err
		}
		return &tools.Output{}, nil
	}
}

// LastArg picks the final argument, where most tools take their output path
func LastArg(args []string) string {
	return args[len(args)-1]
}

// ArgAfter picks the argument following flag
func ArgAfter(flag string) func(args []string) string {
	return func(args []string) string {
		for i := 0; i < len(args)-1; i++ {
			if args[i] == flag {
				return args[i+1]
			}
		}
		return ""
	}
}
