package providers

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"testing"

	"github.com/nodewee/file-converter/pkg/tools"
	"github.com/nodewee/file-converter/pkg/tools/toolstest"
	"github.com/nodewee/file-converter/pkg/utils"
)

// testLocator resolves every tool by its bare name through runner
func testLocator(runner tools.Runner) *tools.Locator {
	return tools.NewLocator(runner, toolstest.BarePlatform(), nil, nil)
}

func writeFile(t *testing.T, path string, content []byte) string {
	t.Helper()
	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func readFile(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return data
}

// pngBytes encodes a small opaque test image
func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.NRGBA{R: uint8(x * 40), G: uint8(y * 40), B: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

// reserveOutput resolves an output the way the router does
func reserveOutput(t *testing.T, input, format string) string {
	t.Helper()
	out, err := utils.ResolveOutputPath(input, format, "", false)
	if err != nil {
		t.Fatalf("ResolveOutputPath() error = %v", err)
	}
	return out.Path
}

// dirNames lists the entries of dir
func dirNames(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}
