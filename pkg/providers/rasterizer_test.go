package providers

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/nodewee/file-converter/pkg/tools"
	"github.com/nodewee/file-converter/pkg/tools/toolstest"
	"github.com/nodewee/file-converter/pkg/types"
	"github.com/nodewee/file-converter/pkg/utils"
)

func newRasterizer(runner *toolstest.FakeRunner) *PdfRasterizer {
	finder := testLocator(runner)
	images := NewImageConverter(nil)
	return NewPdfRasterizer(finder, images, NewMediaConverter(finder, nil), nil, nil)
}

func intPtr(n int) *int { return &n }

func TestDensity(t *testing.T) {
	tests := map[int]int{100: 300, 90: 300, 89: 200, 70: 200, 69: 150, 1: 150}
	for quality, want := range tests {
		if got := density(quality); got != want {
			t.Errorf("density(%d) = %d, want %d", quality, got, want)
		}
	}
}

func TestRasterizerSupports(t *testing.T) {
	r := newRasterizer(toolstest.NewFakeRunner())
	tests := []struct {
		pair types.FormatPair
		want bool
	}{
		{types.FormatPair{InputExt: "pdf", OutputExt: "png", InputCategory: types.CategoryDocument, OutputCategory: types.CategoryImage}, true},
		{types.FormatPair{InputExt: "pdf", OutputExt: "webp", InputCategory: types.CategoryDocument, OutputCategory: types.CategoryImage}, true},
		{types.FormatPair{InputExt: "pdf", OutputExt: "psd", InputCategory: types.CategoryDocument, OutputCategory: types.CategoryImage}, false},
		{types.FormatPair{InputExt: "docx", OutputExt: "png", InputCategory: types.CategoryDocument, OutputCategory: types.CategoryImage}, false},
	}
	for _, tt := range tests {
		if got := r.Supports(tt.pair); got != tt.want {
			t.Errorf("Supports(%s->%s) = %v, want %v", tt.pair.InputExt, tt.pair.OutputExt, got, tt.want)
		}
	}
}

func TestRasterizeWithGraphicsMagick(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, filepath.Join(dir, "doc.pdf"), []byte("%PDF-1.4"))
	out := reserveOutput(t, in, "png")
	rendered := pngBytes(t, 4, 4)

	runner := toolstest.NewFakeRunner()
	runner.Install("gm", toolstest.WriteFile(toolstest.LastArg, rendered))
	runner.Install("pdftoppm", nil)

	if err := newRasterizer(runner).Rasterize(context.Background(), in, out, "png", 95, intPtr(0)); err != nil {
		t.Fatalf("Rasterize() error = %v", err)
	}
	if !bytes.Equal(readFile(t, out), rendered) {
		t.Error("output does not hold the rendered page")
	}

	calls := runner.CallsTo("gm", true)
	want := []string{"convert", "-density", "300", in + "[0]", "-quality", "95", out}
	if len(calls) != 1 || !slices.Equal(calls[0].Args, want) {
		t.Errorf("gm calls = %+v, want args %v", calls, want)
	}
	if len(runner.CallsTo("pdftoppm", true)) != 0 {
		t.Error("pdftoppm should not run after a successful render")
	}
}

func TestRasterizeFallsBackToPdftoppm(t *testing.T) {
	tests := []struct {
		name     string
		format   string
		page     *int
		magick   toolstest.Behavior
		written  func(args []string) string
		wantArgs []string
		check    func(t *testing.T, data []byte, rendered []byte)
	}{
		{
			name:    "single file png",
			format:  "png",
			written: func(args []string) string { return toolstest.LastArg(args) + ".png" },
			wantArgs: []string{"-png", "-singlefile", "-r", "200"},
			check: func(t *testing.T, data, rendered []byte) {
				if !bytes.Equal(data, rendered) {
					t.Error("png output was not moved verbatim")
				}
			},
		},
		{
			name:     "page range after magick failure",
			format:   "png",
			page:     intPtr(2),
			magick:   toolstest.Exit(1, "no delegate for PDF"),
			written:  func(args []string) string { return toolstest.LastArg(args) + "-3.png" },
			wantArgs: []string{"-png", "-f", "3", "-l", "3", "-r", "200"},
			check: func(t *testing.T, data, rendered []byte) {
				if !bytes.Equal(data, rendered) {
					t.Error("png output was not moved verbatim")
				}
			},
		},
		{
			name:     "jpeg",
			format:   "jpg",
			written:  func(args []string) string { return toolstest.LastArg(args) + ".jpg" },
			wantArgs: []string{"-jpeg", "-singlefile", "-r", "200"},
			check: func(t *testing.T, data, rendered []byte) {
				if !bytes.Equal(data, rendered) {
					t.Error("jpg output was not moved verbatim")
				}
			},
		},
		{
			name:     "re-encoded target",
			format:   "webp",
			written:  func(args []string) string { return toolstest.LastArg(args) + ".png" },
			wantArgs: []string{"-png", "-singlefile", "-r", "200"},
			check: func(t *testing.T, data, _ []byte) {
				if !bytes.HasPrefix(data, []byte("RIFF")) {
					t.Errorf("not re-encoded to webp: %q", data[:min(len(data), 4)])
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			in := writeFile(t, filepath.Join(dir, "doc.pdf"), []byte("%PDF-1.4"))
			out := reserveOutput(t, in, tt.format)
			rendered := pngBytes(t, 4, 4)

			runner := toolstest.NewFakeRunner()
			if tt.magick != nil {
				runner.Install("magick", tt.magick)
			}
			runner.Install("pdftoppm", toolstest.WriteFile(tt.written, rendered))

			if err := newRasterizer(runner).Rasterize(context.Background(), in, out, tt.format, 80, tt.page); err != nil {
				t.Fatalf("Rasterize() error = %v", err)
			}
			tt.check(t, readFile(t, out), rendered)

			calls := runner.CallsTo("pdftoppm", true)
			if len(calls) != 1 {
				t.Fatalf("pdftoppm calls = %+v", calls)
			}
			args := calls[0].Args
			if !slices.Equal(args[:len(tt.wantArgs)], tt.wantArgs) || args[len(tt.wantArgs)] != in {
				t.Errorf("pdftoppm args = %v", args)
			}

			names := dirNames(t, dir)
			slices.Sort(names)
			want := []string{"doc.pdf", filepath.Base(out)}
			slices.Sort(want)
			if !slices.Equal(names, want) {
				t.Errorf("directory = %v, want %v", names, want)
			}
		})
	}
}

func TestRasterizeFallsBackToFFmpeg(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, filepath.Join(dir, "doc.pdf"), []byte("%PDF-1.4"))
	out := reserveOutput(t, in, "png")

	runner := toolstest.NewFakeRunner()
	runner.Install("pdftoppm", toolstest.Exit(99, "Syntax Error"))
	runner.Install("ffmpeg", toolstest.WriteFile(toolstest.LastArg, []byte("frame")))

	if err := newRasterizer(runner).Rasterize(context.Background(), in, out, "png", 85, nil); err != nil {
		t.Fatalf("Rasterize() error = %v", err)
	}
	if string(readFile(t, out)) != "frame" {
		t.Error("ffmpeg output missing")
	}
}

func TestRasterizeNoRenderer(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, filepath.Join(dir, "doc.pdf"), []byte("%PDF-1.4"))

	err := newRasterizer(toolstest.NewFakeRunner()).Rasterize(context.Background(), in, filepath.Join(dir, "doc.png"), "png", 85, nil)
	if !utils.IsErrorType(err, utils.ErrorTypePdf) {
		t.Fatalf("error = %v, want pdf error", err)
	}
	if err.Error() != "PDF generation failed: "+noRendererMessage {
		t.Errorf("message = %q", err.Error())
	}

	err = newRasterizer(toolstest.NewFakeRunner()).Rasterize(context.Background(), in, filepath.Join(dir, "doc.png"), "png", 85, intPtr(-1))
	if !utils.IsErrorType(err, utils.ErrorTypePdf) {
		t.Errorf("negative page: error = %v", err)
	}
}

// multiPageMagick behaves like ImageMagick on a two-page PDF: an input
// without a [N] selector yields stem-0.png and stem-1.png instead of out
func multiPageMagick(content []byte) toolstest.Behavior {
	return func(args []string) (*tools.Output, error) {
		if len(args) <= 1 {
			return &tools.Output{}, nil
		}
		out := toolstest.LastArg(args)
		source := args[len(args)-4]
		if strings.HasSuffix(source, "]") {
			return &tools.Output{}, os.WriteFile(out, content, 0644)
		}
		stem := strings.TrimSuffix(out, filepath.Ext(out))
		for i := 0; i < 2; i++ {
			if err := os.WriteFile(fmt.Sprintf("%s-%d.png", stem, i), content, 0644); err != nil {
				return nil, err
			}
		}
		return &tools.Output{}, nil
	}
}

func TestRasterizeWithoutPageRendersFirstPage(t *testing.T) {
	tests := []struct {
		name      string
		overwrite bool
	}{
		{"reserved output", false},
		{"overwrite of a stale file", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			in := writeFile(t, filepath.Join(dir, "doc.pdf"), []byte("%PDF-1.4"))
			out := filepath.Join(dir, "doc.png")
			if tt.overwrite {
				writeFile(t, out, []byte("stale render"))
			} else {
				out = reserveOutput(t, in, "png")
			}
			rendered := pngBytes(t, 4, 4)

			runner := toolstest.NewFakeRunner()
			runner.Install("magick", multiPageMagick(rendered))

			if err := newRasterizer(runner).Rasterize(context.Background(), in, out, "png", 85, nil); err != nil {
				t.Fatalf("Rasterize() error = %v", err)
			}
			if !bytes.Equal(readFile(t, out), rendered) {
				t.Error("output does not hold the first page")
			}

			calls := runner.CallsTo("magick", true)
			if len(calls) != 1 || !slices.Contains(calls[0].Args, in+"[0]") {
				t.Errorf("magick calls = %+v, want source %s[0]", calls, in)
			}

			names := dirNames(t, dir)
			slices.Sort(names)
			if !slices.Equal(names, []string{"doc.pdf", "doc.png"}) {
				t.Errorf("directory = %v", names)
			}
		})
	}
}

func TestRasterizeIgnoresStaleOutput(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, filepath.Join(dir, "doc.pdf"), []byte("%PDF-1.4"))
	out := writeFile(t, filepath.Join(dir, "doc.png"), []byte("stale render"))

	// exits 0 without writing anything
	runner := toolstest.NewFakeRunner()
	runner.Install("magick", nil)

	err := newRasterizer(runner).Rasterize(context.Background(), in, out, "png", 85, nil)
	if !utils.IsErrorType(err, utils.ErrorTypePdf) {
		t.Fatalf("error = %v, want pdf error", err)
	}
	if data := readFile(t, out); bytes.Equal(data, []byte("stale render")) {
		t.Error("stale content reported as a fresh render")
	}
}
