package providers

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/nodewee/file-converter/pkg/formats"
	"github.com/nodewee/file-converter/pkg/interfaces"
	"github.com/nodewee/file-converter/pkg/logger"
	"github.com/nodewee/file-converter/pkg/types"
	"github.com/nodewee/file-converter/pkg/utils"
)

// LibreOffice --convert-to filter names by target extension
var libreOfficeFilters = map[string]string{
	"pdf":  "pdf",
	"docx": "docx",
	"doc":  "doc",
	"odt":  "odt",
	"txt":  "txt",
	"html": "html",
	"htm":  "html",
	"rtf":  "rtf",
}

// LibreOfficeCanWrite reports whether LibreOffice has an export filter for ext
func LibreOfficeCanWrite(ext string) bool {
	_, ok := libreOfficeFilters[formats.Normalize(ext)]
	return ok
}

// OfficeConverter delegates office and e-book formats to LibreOffice and Pandoc
type OfficeConverter struct {
	tools   interfaces.ToolFinder
	scratch interfaces.ScratchFactory
	logger  *logger.Logger
}

// NewOfficeConverter creates an office converter
func NewOfficeConverter(finder interfaces.ToolFinder, scratch interfaces.ScratchFactory, log *logger.Logger) *OfficeConverter {
	if log == nil {
		log = logger.Discard()
	}
	if scratch == nil {
		scratch = defaultScratch(log)
	}
	return &OfficeConverter{tools: finder, scratch: scratch, logger: log}
}

// ConvertWithLibreOffice runs a headless LibreOffice batch conversion in a
// private scratch directory next to outputPath and moves the result there
func (o *OfficeConverter) ConvertWithLibreOffice(ctx context.Context, inputPath, outputPath, outputExt string) error {
	filter, ok := libreOfficeFilters[formats.Normalize(outputExt)]
	if !ok {
		return utils.NewUnsupportedFormatError(outputExt)
	}

	soffice, ok := o.tools.Locate(ctx, types.ToolLibreOffice)
	if !ok {
		return utils.NewLibreOfficeNotFoundError()
	}

	scratch := o.scratch(filepath.Dir(outputPath))
	defer func() {
		if err := scratch.Cleanup(); err != nil {
			o.logger.Warn("Failed to clean LibreOffice scratch space: %v", err)
		}
	}()

	outDir, err := scratch.CreateTempDir("office")
	if err != nil {
		return utils.NewWriteError(err)
	}

	o.logger.Progress("📄", "Converting %s with LibreOffice (%s)", filepath.Base(inputPath), filter)
	out, err := soffice.Invoke(ctx, "--headless", "--convert-to", filter, "--outdir", outDir, inputPath)
	if err != nil {
		return utils.NewDocumentError(err.Error(), err)
	}
	if !out.Success() {
		return utils.NewDocumentError(strings.TrimSpace(string(out.Stderr)), nil)
	}

	produced := filepath.Join(outDir, utils.FileStem(inputPath)+"."+formats.CanonicalExtension(outputExt))
	if _, err := os.Stat(produced); err != nil {
		return utils.NewDocumentError("LibreOffice produced no output", err)
	}
	if err := utils.MoveFile(produced, outputPath); err != nil {
		return utils.NewWriteError(err)
	}
	return nil
}

// ConvertWithPandoc runs Pandoc, writing straight to outputPath
func (o *OfficeConverter) ConvertWithPandoc(ctx context.Context, inputPath, outputPath, outputExt string) error {
	pandoc, ok := o.tools.Locate(ctx, types.ToolPandoc)
	if !ok {
		return utils.NewPandocNotFoundError()
	}

	args := []string{"-o", outputPath}
	switch formats.Normalize(outputExt) {
	case "pdf":
		args = append(args, "--pdf-engine=pdflatex")
	case "epub":
		args = append(args, "--epub-cover-image="+os.DevNull)
	}
	args = append(args, inputPath)

	o.logger.Progress("📚", "Converting %s with Pandoc", filepath.Base(inputPath))
	out, err := pandoc.Invoke(ctx, args...)
	if err != nil {
		return utils.NewDocumentError(err.Error(), err)
	}
	if !out.Success() {
		return utils.NewDocumentError(strings.TrimSpace(string(out.Stderr)), nil)
	}
	return nil
}
