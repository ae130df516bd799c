package providers

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/nodewee/file-converter/pkg/constants"
	"github.com/nodewee/file-converter/pkg/formats"
	"github.com/nodewee/file-converter/pkg/tools/toolstest"
	"github.com/nodewee/file-converter/pkg/types"
	"github.com/nodewee/file-converter/pkg/utils"
)

func documentJob(input, output string) *types.ConversionJob {
	in, out := formats.ExtensionOf(input), formats.ExtensionOf(output)
	return &types.ConversionJob{
		FormatPair: types.FormatPair{
			InputExt:       in,
			OutputExt:      out,
			InputCategory:  formats.CategoryOf(in),
			OutputCategory: formats.CategoryOf(out),
		},
		InputPath:  input,
		OutputPath: output,
		Quality:    constants.DefaultQuality,
	}
}

func newDocumentConverter(runner *toolstest.FakeRunner, htmlMode string) *DocumentConverter {
	return NewDocumentConverter(NewOfficeConverter(testLocator(runner), nil, nil), htmlMode, nil)
}

func TestDocumentBackend(t *testing.T) {
	tests := []struct {
		in, out  string
		wantTool types.ToolName
		wantOK   bool
	}{
		{"txt", "pdf", "", true},
		{"markdown", "htm", "", true},
		{"rtf", "md", "", true},
		{"html", "rtf", "", true},
		{"txt", "txt", "", false},
		{"docx", "pdf", types.ToolLibreOffice, true},
		{"txt", "odt", types.ToolLibreOffice, true},
		{"md", "epub", types.ToolPandoc, true},
		{"epub", "txt", types.ToolPandoc, true},
		{"pdf", "txt", "", false},
		{"tex", "html", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.in+"->"+tt.out, func(t *testing.T) {
			tool, ok := DocumentBackend(tt.in, tt.out)
			if tool != tt.wantTool || ok != tt.wantOK {
				t.Errorf("DocumentBackend() = (%q, %v), want (%q, %v)", tool, ok, tt.wantTool, tt.wantOK)
			}
		})
	}
}

func TestDocumentConvertInProcess(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		content  string
		output   string
		htmlMode string
		contains []string
		excludes []string
	}{
		{
			name:     "txt to html",
			input:    "notes.txt",
			content:  "a < b & c",
			output:   "notes.html",
			contains: []string{"<title>notes</title>", "<pre>a &lt; b &amp; c</pre>"},
		},
		{
			name:     "txt to md copies",
			input:    "notes.txt",
			content:  "plain *text*",
			output:   "notes.md",
			contains: []string{"plain *text*"},
		},
		{
			name:     "md to html",
			input:    "readme.md",
			content:  "# Title\n\nSome **bold** text",
			output:   "readme.html",
			contains: []string{"<h1>Title</h1>", "<strong>bold</strong>", "<style>"},
		},
		{
			name:     "md to txt",
			input:    "readme.markdown",
			content:  "# Title\n\nSome **bold** text",
			output:   "readme.txt",
			contains: []string{"Title", "Some bold text"},
			excludes: []string{"**", "<strong>"},
		},
		{
			name:     "html to txt",
			input:    "page.htm",
			content:  "<html><body><h2>Head</h2><p>Body</p><script>x()</script></body></html>",
			output:   "page.txt",
			contains: []string{"Head", "Body"},
			excludes: []string{"x()", "<p>"},
		},
		{
			name:     "html to md flattens by default",
			input:    "page.html",
			content:  "<h2>Head</h2><p><strong>Body</strong></p>",
			output:   "page.md",
			contains: []string{"Head", "Body"},
			excludes: []string{"##", "**"},
		},
		{
			name:     "html to md in markdown mode",
			input:    "page.html",
			content:  "<h2>Head</h2><p><strong>Body</strong></p>",
			output:   "page.md",
			htmlMode: constants.HTMLMarkdownMarkdown,
			contains: []string{"## Head", "**Body**"},
		},
		{
			name:     "rtf to txt",
			input:    "letter.rtf",
			content:  `{\rtf1\ansi{\fonttbl{\f0 Arial;}}\f0 Dear reader,\par caf\'e9}`,
			output:   "letter.txt",
			contains: []string{"Dear reader,\ncafé"},
			excludes: []string{"Arial", `\par`},
		},
		{
			name:     "txt to rtf",
			input:    "notes.txt",
			content:  "one\ntwo",
			output:   "notes.rtf",
			contains: []string{`{\rtf1\ansi\deff0`, `one\par`, `two\par`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			input := writeFile(t, filepath.Join(dir, tt.input), []byte(tt.content))
			output := filepath.Join(dir, "out", tt.output)
			if err := os.MkdirAll(filepath.Dir(output), 0755); err != nil {
				t.Fatal(err)
			}

			conv := newDocumentConverter(toolstest.NewFakeRunner(), tt.htmlMode)
			if err := conv.Convert(context.Background(), documentJob(input, output)); err != nil {
				t.Fatalf("Convert() error = %v", err)
			}

			got := string(readFile(t, output))
			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("output missing %q:\n%s", want, got)
				}
			}
			for _, unwanted := range tt.excludes {
				if strings.Contains(got, unwanted) {
					t.Errorf("output contains %q:\n%s", unwanted, got)
				}
			}
		})
	}
}

func TestDocumentConvertToPDF(t *testing.T) {
	dir := t.TempDir()
	for _, input := range []string{"a.txt", "b.md", "c.html", "d.rtf"} {
		t.Run(input, func(t *testing.T) {
			in := writeFile(t, filepath.Join(dir, input), []byte(strings.Repeat("line of text\n", 200)))
			out := filepath.Join(dir, input+".pdf")

			conv := newDocumentConverter(toolstest.NewFakeRunner(), "")
			if err := conv.Convert(context.Background(), documentJob(in, out)); err != nil {
				t.Fatalf("Convert() error = %v", err)
			}
			if data := readFile(t, out); !bytes.HasPrefix(data, []byte("%PDF-")) {
				t.Errorf("not a PDF: %q", data[:min(len(data), 16)])
			}
		})
	}
}

func TestDocumentConvertUnsupported(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, filepath.Join(dir, "a.pdf"), []byte("%PDF-1.4"))

	err := newDocumentConverter(toolstest.NewFakeRunner(), "").
		Convert(context.Background(), documentJob(in, filepath.Join(dir, "a.txt")))
	if !utils.IsErrorType(err, utils.ErrorTypeUnsupportedFormat) {
		t.Fatalf("error = %v, want unsupported format", err)
	}
	if !strings.Contains(err.Error(), "Cannot convert pdf to txt") {
		t.Errorf("message = %q", err.Error())
	}
}

func TestDocumentConvertWithLibreOffice(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, filepath.Join(dir, "report.docx"), []byte("fake docx"))
	// an unrelated sibling with the name LibreOffice would produce
	writeFile(t, filepath.Join(dir, "report.pdf"), []byte("keep me"))
	out := reserveOutput(t, in, "pdf")

	runner := toolstest.NewFakeRunner()
	runner.Install("soffice", toolstest.WriteFile(func(args []string) string {
		return filepath.Join(toolstest.ArgAfter("--outdir")(args), "report.pdf")
	}, []byte("%PDF-converted")))

	if err := newDocumentConverter(runner, "").Convert(context.Background(), documentJob(in, out)); err != nil {
		t.Fatalf("Convert() error = %v", err)
	}

	if got := string(readFile(t, out)); got != "%PDF-converted" {
		t.Errorf("output = %q", got)
	}
	if got := string(readFile(t, filepath.Join(dir, "report.pdf"))); got != "keep me" {
		t.Errorf("sibling overwritten: %q", got)
	}

	calls := runner.CallsTo("soffice", true)
	if len(calls) != 1 {
		t.Fatalf("soffice calls = %+v", calls)
	}
	args := calls[0].Args
	if args[0] != "--headless" || args[1] != "--convert-to" || args[2] != "pdf" || toolstest.LastArg(args) != in {
		t.Errorf("args = %v", args)
	}

	names := dirNames(t, dir)
	slices.Sort(names)
	want := []string{"report.docx", "report.pdf", filepath.Base(out)}
	slices.Sort(want)
	if !slices.Equal(names, want) {
		t.Errorf("directory = %v, want %v (scratch not removed?)", names, want)
	}
}

func TestDocumentConvertLibreOfficeFailures(t *testing.T) {
	tests := []struct {
		name     string
		behavior toolstest.Behavior
		install  bool
		wantType utils.ErrorType
	}{
		{"missing", nil, false, utils.ErrorTypeLibreOfficeNotFound},
		{"non-zero exit", toolstest.Exit(1, "source file could not be loaded"), true, utils.ErrorTypeDocument},
		{"no output", nil, true, utils.ErrorTypeDocument},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			in := writeFile(t, filepath.Join(dir, "a.odt"), []byte("odt"))
			runner := toolstest.NewFakeRunner()
			if tt.install {
				runner.Install("soffice", tt.behavior)
			}

			err := newDocumentConverter(runner, "").
				Convert(context.Background(), documentJob(in, filepath.Join(dir, "a.txt")))
			if !utils.IsErrorType(err, tt.wantType) {
				t.Errorf("error = %v, want %s", err, tt.wantType)
			}
		})
	}
}

func TestDocumentConvertWithPandoc(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, filepath.Join(dir, "book.md"), []byte("# Chapter"))
	out := filepath.Join(dir, "book.epub")

	runner := toolstest.NewFakeRunner()
	runner.Install("pandoc", toolstest.WriteFile(toolstest.ArgAfter("-o"), []byte("epub")))

	if err := newDocumentConverter(runner, "").Convert(context.Background(), documentJob(in, out)); err != nil {
		t.Fatalf("Convert() error = %v", err)
	}
	if got := string(readFile(t, out)); got != "epub" {
		t.Errorf("output = %q", got)
	}

	args := runner.CallsTo("pandoc", true)[0].Args
	if !slices.Contains(args, "--epub-cover-image="+os.DevNull) || toolstest.LastArg(args) != in {
		t.Errorf("args = %v", args)
	}

	runner = toolstest.NewFakeRunner()
	err := newDocumentConverter(runner, "").Convert(context.Background(), documentJob(in, out))
	if !utils.IsErrorType(err, utils.ErrorTypePandocNotFound) {
		t.Errorf("error = %v, want pandoc not found", err)
	}
}
