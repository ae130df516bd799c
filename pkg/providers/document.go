package providers

import (
	"context"
	"fmt"
	"os"

	"github.com/nodewee/file-converter/pkg/constants"
	"github.com/nodewee/file-converter/pkg/formats"
	"github.com/nodewee/file-converter/pkg/logger"
	"github.com/nodewee/file-converter/pkg/types"
	"github.com/nodewee/file-converter/pkg/utils"
)

// in-process document pairs, after synonym folding
var textPairs = map[string]map[string]bool{
	"txt":  {"pdf": true, "html": true, "md": true, "rtf": true},
	"md":   {"pdf": true, "html": true, "txt": true, "rtf": true},
	"html": {"pdf": true, "txt": true, "md": true, "rtf": true},
	"rtf":  {"pdf": true, "html": true, "txt": true, "md": true},
}

// foldDocumentExt folds the markdown and htm spellings
func foldDocumentExt(ext string) string {
	switch ext = formats.Normalize(ext); ext {
	case "markdown":
		return "md"
	case "htm":
		return "html"
	default:
		return ext
	}
}

// DocumentBackend reports which tool a document pair needs. An empty tool
// with ok set means the pair is converted in-process.
func DocumentBackend(in, out string) (tool types.ToolName, ok bool) {
	in, out = foldDocumentExt(in), foldDocumentExt(out)
	switch {
	case textPairs[in][out]:
		return "", true
	case formats.IsOfficeFormat(in) || formats.IsOfficeFormat(out):
		return types.ToolLibreOffice, true
	case in == "epub" || out == "epub":
		return types.ToolPandoc, true
	default:
		return "", false
	}
}

// DocumentConverter converts among text, Markdown, HTML and RTF in-process
// and hands office and e-book formats to external tools
type DocumentConverter struct {
	office   *OfficeConverter
	htmlMode string
	logger   *logger.Logger
}

// NewDocumentConverter creates a document converter. htmlMode selects how
// HTML becomes Markdown: flattened text or a real Markdown conversion.
func NewDocumentConverter(office *OfficeConverter, htmlMode string, log *logger.Logger) *DocumentConverter {
	if log == nil {
		log = logger.Discard()
	}
	if htmlMode == "" {
		htmlMode = constants.HTMLMarkdownText
	}
	return &DocumentConverter{office: office, htmlMode: htmlMode, logger: log}
}

// Name returns the name of the converter
func (c *DocumentConverter) Name() string {
	return "document"
}

// Supports claims every pair with a document on either side; pairs
// without a route fail in Convert
func (c *DocumentConverter) Supports(pair types.FormatPair) bool {
	return pair.InputCategory == types.CategoryDocument || pair.OutputCategory == types.CategoryDocument
}

// Convert dispatches on the (input, output) extension pair
func (c *DocumentConverter) Convert(ctx context.Context, job *types.ConversionJob) error {
	tool, ok := DocumentBackend(job.InputExt, job.OutputExt)
	if !ok {
		return utils.NewUnsupportedFormatError(fmt.Sprintf("Cannot convert %s to %s", job.InputExt, job.OutputExt))
	}

	switch tool {
	case types.ToolLibreOffice:
		return c.office.ConvertWithLibreOffice(ctx, job.InputPath, job.OutputPath, job.OutputExt)
	case types.ToolPandoc:
		return c.office.ConvertWithPandoc(ctx, job.InputPath, job.OutputPath, job.OutputExt)
	}

	in, out := foldDocumentExt(job.InputExt), foldDocumentExt(job.OutputExt)
	title := utils.FileStem(job.InputPath)
	c.logger.Debug("Converting %s to %s in-process", in, out)

	source, err := ReadText(job.InputPath)
	if err != nil {
		return err
	}

	if in == "md" && out == "html" {
		page, err := MarkdownPage(source, title)
		if err != nil {
			return utils.NewDocumentError(err.Error(), err)
		}
		return writeString(job.OutputPath, page)
	}
	if in == "html" && out == "md" && c.htmlMode == constants.HTMLMarkdownMarkdown {
		md, err := HTMLToMarkdown(source)
		if err != nil {
			return utils.NewDocumentError(err.Error(), err)
		}
		return writeString(job.OutputPath, md)
	}

	text, err := plainText(in, source)
	if err != nil {
		return err
	}

	switch out {
	case "pdf":
		return WriteTextPDF(text, title, job.OutputPath)
	case "html":
		return writeString(job.OutputPath, TextPage(text, title))
	case "rtf":
		return writeString(job.OutputPath, TextToRTF(text))
	default:
		return writeString(job.OutputPath, text)
	}
}

// plainText normalises a source document to plain text
func plainText(in, source string) (string, error) {
	switch in {
	case "md":
		rendered, err := RenderMarkdown(source)
		if err != nil {
			return "", utils.NewDocumentError(err.Error(), err)
		}
		source = rendered
		fallthrough
	case "html":
		text, err := HTMLToText(source)
		if err != nil {
			return "", utils.NewDocumentError(err.Error(), err)
		}
		return text, nil
	case "rtf":
		return ExtractRTFText(source), nil
	default:
		return source, nil
	}
}

func writeString(path, content string) error {
	if err := os.WriteFile(path, []byte(content), constants.DefaultFilePermission); err != nil {
		return utils.NewWriteError(err)
	}
	return nil
}
