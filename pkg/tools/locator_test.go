package tools_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/nodewee/file-converter/pkg/constants"
	"github.com/nodewee/file-converter/pkg/tools"
	"github.com/nodewee/file-converter/pkg/tools/toolstest"
	"github.com/nodewee/file-converter/pkg/types"
)

func platform(specs map[string]constants.ToolSpec) *constants.PlatformConfig {
	return &constants.PlatformConfig{Tools: specs}
}

func TestLocateReturnsFirstSpawnableCandidate(t *testing.T) {
	runner := toolstest.NewFakeRunner()
	runner.Install("ffmpeg-b", toolstest.Exit(1, "probe exit status is ignored"))
	runner.Install("ffmpeg-c", nil)

	loc := tools.NewLocator(runner, platform(map[string]constants.ToolSpec{
		"ffmpeg": {ProbeFlag: "-version", Candidates: []string{"ffmpeg-a", "ffmpeg-b", "ffmpeg-c"}},
	}), nil, nil)

	handle, ok := loc.Locate(context.Background(), types.ToolFFmpeg)
	if !ok {
		t.Fatal("ffmpeg not located")
	}
	if handle.Path != "ffmpeg-b" {
		t.Errorf("Path = %q, want ffmpeg-b", handle.Path)
	}

	calls := runner.Calls()
	if len(calls) != 2 || calls[0].Name != "ffmpeg-a" || calls[1].Args[0] != "-version" {
		t.Errorf("unexpected probe sequence %+v", calls)
	}
}

func TestLocateNone(t *testing.T) {
	loc := tools.NewLocator(toolstest.NewFakeRunner(), platform(map[string]constants.ToolSpec{
		"pandoc": {ProbeFlag: "--version", Candidates: []string{"pandoc"}},
	}), nil, nil)

	if _, ok := loc.Locate(context.Background(), types.ToolPandoc); ok {
		t.Error("pandoc should not be found")
	}
}

func TestLocateOverrideComesFirst(t *testing.T) {
	runner := toolstest.NewFakeRunner()
	runner.Install("/custom/pandoc", nil)
	runner.Install("pandoc", nil)

	overrides := func(tool types.ToolName) string {
		if tool == types.ToolPandoc {
			return "/custom/pandoc"
		}
		return ""
	}
	loc := tools.NewLocator(runner, platform(map[string]constants.ToolSpec{
		"pandoc": {ProbeFlag: "--version", Candidates: []string{"pandoc"}},
	}), overrides, nil)

	handle, ok := loc.Locate(context.Background(), types.ToolPandoc)
	if !ok || handle.Path != "/custom/pandoc" {
		t.Errorf("Locate() = %+v, %v", handle, ok)
	}
}

func TestLocateAcceptsExistingPathWhenAllowed(t *testing.T) {
	soffice := filepath.Join(t.TempDir(), "soffice")
	if err := os.WriteFile(soffice, nil, 0755); err != nil {
		t.Fatal(err)
	}

	specs := map[string]constants.ToolSpec{
		"libreoffice": {ProbeFlag: "--version", AcceptExisting: true, Candidates: []string{soffice}},
		"ffmpeg":      {ProbeFlag: "-version", Candidates: []string{soffice}},
	}
	loc := tools.NewLocator(toolstest.NewFakeRunner(), platform(specs), nil, nil)

	if _, ok := loc.Locate(context.Background(), types.ToolLibreOffice); !ok {
		t.Error("existing soffice path should be accepted")
	}
	if _, ok := loc.Locate(context.Background(), types.ToolFFmpeg); ok {
		t.Error("ffmpeg requires a successful spawn")
	}
}

func TestLocateIsNotCached(t *testing.T) {
	runner := toolstest.NewFakeRunner()
	loc := tools.NewLocator(runner, platform(map[string]constants.ToolSpec{
		"ffmpeg": {ProbeFlag: "-version", Candidates: []string{"ffmpeg"}},
	}), nil, nil)
	ctx := context.Background()

	if loc.Availability(ctx).FFmpeg {
		t.Fatal("ffmpeg should be missing at first")
	}
	runner.Install("ffmpeg", nil)
	if !loc.Availability(ctx).FFmpeg {
		t.Error("newly installed ffmpeg not seen")
	}
}

func TestStatusesCoverAllTools(t *testing.T) {
	runner := toolstest.NewFakeRunner()
	runner.Install("pdftoppm", nil)
	loc := tools.NewLocator(runner, platform(map[string]constants.ToolSpec{
		"pdftoppm": {ProbeFlag: "-v", Candidates: []string{"pdftoppm"}},
	}), nil, nil)

	statuses := loc.Statuses(context.Background())
	if len(statuses) != len(types.AllTools) {
		t.Fatalf("len = %d", len(statuses))
	}
	for _, s := range statuses {
		want := s.Name == types.ToolPdftoppm
		if s.Available != want {
			t.Errorf("%s available = %v", s.Name, s.Available)
		}
	}
}

func TestHandleInvoke(t *testing.T) {
	runner := toolstest.NewFakeRunner()
	runner.Install("ffmpeg", toolstest.Exit(1, "boom"))
	loc := tools.NewLocator(runner, platform(map[string]constants.ToolSpec{
		"ffmpeg": {ProbeFlag: "-version", Candidates: []string{"ffmpeg"}},
	}), nil, nil)

	handle, ok := loc.Locate(context.Background(), types.ToolFFmpeg)
	if !ok {
		t.Fatal("not located")
	}
	out, err := handle.Invoke(context.Background(), "-i", "a.wav", "b.mp3")
	if err != nil {
		t.Fatalf("Invoke() error = %v", err)
	}
	if out.Success() || string(out.Stderr) != "boom" {
		t.Errorf("unexpected output %+v", out)
	}
}
