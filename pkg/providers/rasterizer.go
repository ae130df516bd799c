package providers

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/nodewee/file-converter/pkg/constants"
	"github.com/nodewee/file-converter/pkg/formats"
	"github.com/nodewee/file-converter/pkg/interfaces"
	"github.com/nodewee/file-converter/pkg/logger"
	"github.com/nodewee/file-converter/pkg/types"
	"github.com/nodewee/file-converter/pkg/utils"
)

const noRendererMessage = "No PDF renderer available. Install ImageMagick, Poppler, or Ghostscript."

var (
	errNotFound = errors.New("not found")
	errNoOutput = errors.New("no output written")
)

// PdfRasterizer renders a PDF page to an image, trying ImageMagick,
// then pdftoppm, then FFmpeg. The first renderer that succeeds wins.
type PdfRasterizer struct {
	tools   interfaces.ToolFinder
	images  *ImageConverter
	media   *MediaConverter
	scratch interfaces.ScratchFactory
	logger  *logger.Logger
}

// NewPdfRasterizer creates a rasterizer
func NewPdfRasterizer(finder interfaces.ToolFinder, images *ImageConverter, media *MediaConverter, scratch interfaces.ScratchFactory, log *logger.Logger) *PdfRasterizer {
	if log == nil {
		log = logger.Discard()
	}
	if scratch == nil {
		scratch = defaultScratch(log)
	}
	return &PdfRasterizer{tools: finder, images: images, media: media, scratch: scratch, logger: log}
}

func defaultScratch(log *logger.Logger) interfaces.ScratchFactory {
	return func(baseDir string) interfaces.ScratchSpace {
		return utils.NewResourceManager(baseDir, log)
	}
}

// Name returns the name of the converter
func (r *PdfRasterizer) Name() string {
	return "pdf-raster"
}

// Supports accepts pdf inputs with an encodable image target
func (r *PdfRasterizer) Supports(pair types.FormatPair) bool {
	if formats.Normalize(pair.InputExt) != "pdf" || pair.OutputCategory != types.CategoryImage {
		return false
	}
	_, ok := formats.ImageEncoding(pair.OutputExt)
	return ok
}

// Convert rasterizes the requested page, or the first page when none is set
func (r *PdfRasterizer) Convert(ctx context.Context, job *types.ConversionJob) error {
	return r.Rasterize(ctx, job.InputPath, job.OutputPath, job.OutputExt, job.Quality, job.Page)
}

// Rasterize writes one page of inputPath to outputPath. page is zero-based.
func (r *PdfRasterizer) Rasterize(ctx context.Context, inputPath, outputPath, format string, quality int, page *int) error {
	if page != nil && *page < 0 {
		return utils.NewPdfError(fmt.Sprintf("invalid page %d", *page), nil)
	}

	err := r.withImageMagick(ctx, inputPath, outputPath, quality, page)
	if err == nil {
		return nil
	}
	r.logger.Debug("ImageMagick: %v", err)
	if ctx.Err() != nil {
		return ctx.Err()
	}

	err = r.withPdftoppm(ctx, inputPath, outputPath, format, quality, page)
	if err == nil {
		return nil
	}
	r.logger.Debug("pdftoppm: %v", err)
	if ctx.Err() != nil {
		return ctx.Err()
	}

	if r.media != nil {
		err = r.media.Transcode(ctx, inputPath, outputPath, format, quality, "")
		if err == nil {
			return nil
		}
		r.logger.Debug("FFmpeg: %v", err)
	}

	return utils.NewPdfError(noRendererMessage, nil)
}

// density maps quality to a rendering resolution in DPI
func density(quality int) int {
	switch {
	case quality >= 90:
		return constants.HighDensity
	case quality >= 70:
		return constants.MediumDensity
	default:
		return constants.LowDensity
	}
}

func (r *PdfRasterizer) withImageMagick(ctx context.Context, inputPath, outputPath string, quality int, page *int) error {
	magick, ok := r.tools.Locate(ctx, types.ToolImageMagick)
	if !ok {
		return errNotFound
	}

	// without a selector ImageMagick writes stem-N files for every page
	index := 0
	if page != nil {
		index = *page
	}
	source := fmt.Sprintf("%s[%d]", inputPath, index)

	// an overwrite destination may hold stale content that would pass the size check
	if err := os.Truncate(outputPath, 0); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return utils.NewWriteError(err)
	}

	var args []string
	if strings.TrimSuffix(filepath.Base(magick.Path), constants.ExecutableExt) == "gm" {
		args = append(args, "convert")
	}
	args = append(args,
		"-density", strconv.Itoa(density(quality)),
		source,
		"-quality", strconv.Itoa(quality),
		outputPath,
	)

	r.logger.Progress("🖼️", "Rendering %s with %s", filepath.Base(inputPath), filepath.Base(magick.Path))
	out, err := magick.Invoke(ctx, args...)
	if err != nil {
		return err
	}
	if !out.Success() {
		return fmt.Errorf("exit %d: %s", out.ExitCode, strings.TrimSpace(string(out.Stderr)))
	}
	// the destination is empty until a renderer writes to it
	if size, err := utils.FileSize(outputPath); err != nil || size == 0 {
		return errNoOutput
	}
	return nil
}

func (r *PdfRasterizer) withPdftoppm(ctx context.Context, inputPath, outputPath, format string, quality int, page *int) error {
	pdftoppm, ok := r.tools.Locate(ctx, types.ToolPdftoppm)
	if !ok {
		return errNotFound
	}

	native := "png"
	if formats.CanonicalExtension(format) == "jpg" {
		native = "jpg"
	}

	scratch := r.scratch(filepath.Dir(outputPath))
	defer func() {
		if err := scratch.Cleanup(); err != nil {
			r.logger.Warn("Failed to clean rasterizer scratch space: %v", err)
		}
	}()
	dir, err := scratch.CreateTempDir("raster")
	if err != nil {
		return err
	}
	prefix := filepath.Join(dir, utils.FileStem(outputPath))

	args := []string{"-png"}
	if native == "jpg" {
		args = []string{"-jpeg"}
	}
	if page != nil {
		n := strconv.Itoa(*page + 1)
		args = append(args, "-f", n, "-l", n)
	} else {
		args = append(args, "-singlefile")
	}
	args = append(args, "-r", strconv.Itoa(density(quality)), inputPath, prefix)

	r.logger.Progress("🖼️", "Rendering %s with pdftoppm", filepath.Base(inputPath))
	out, err := pdftoppm.Invoke(ctx, args...)
	if err != nil {
		return err
	}
	if !out.Success() {
		return fmt.Errorf("exit %d: %s", out.ExitCode, strings.TrimSpace(string(out.Stderr)))
	}

	produced, err := findRendered(prefix, native)
	if err != nil {
		return err
	}

	if formats.CanonicalExtension(format) == native {
		if err := utils.MoveFile(produced, outputPath); err != nil {
			return utils.NewWriteError(err)
		}
		return nil
	}

	img, err := r.images.Load(produced, 0)
	if err != nil {
		return err
	}
	return r.images.Save(img, outputPath, format, quality)
}

// findRendered locates pdftoppm's output: prefix.ext for -singlefile,
// prefix-N.ext (N possibly zero padded) for a page range
func findRendered(prefix, ext string) (string, error) {
	exact := prefix + "." + ext
	if utils.FileExists(exact) {
		return exact, nil
	}
	matches, err := filepath.Glob(globEscape(prefix) + "-*." + ext)
	if err != nil {
		return "", err
	}
	if len(matches) == 0 {
		return "", errNoOutput
	}
	return matches[0], nil
}

// globEscape quotes the glob metacharacters in a literal path
func globEscape(path string) string {
	replacer := strings.NewReplacer(`*`, `\*`, `?`, `\?`, `[`, `\[`)
	if constants.IsWindows() {
		// backslash is the separator on Windows and cannot escape
		replacer = strings.NewReplacer(`*`, `[*]`, `?`, `[?]`, `[`, `[[]`)
	}
	return replacer.Replace(path)
}
