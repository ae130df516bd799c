package providers

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"

	"github.com/HugoSmits86/nativewebp"
	"github.com/disintegration/imaging"
	"github.com/gabriel-vasile/mimetype"
	"github.com/gen2brain/avif"
	_ "github.com/gen2brain/heic"
	ico "github.com/sergeymakinen/go-ico"
	_ "golang.org/x/image/webp"

	"github.com/nodewee/file-converter/pkg/constants"
	"github.com/nodewee/file-converter/pkg/formats"
	"github.com/nodewee/file-converter/pkg/logger"
	"github.com/nodewee/file-converter/pkg/types"
	"github.com/nodewee/file-converter/pkg/utils"
)

// avifSpeed trades encoder time for size; 0 is slowest, 10 fastest
const avifSpeed = 8

// ImageConverter decodes raster and SVG images and re-encodes them
type ImageConverter struct {
	logger *logger.Logger
}

// NewImageConverter creates an image converter
func NewImageConverter(log *logger.Logger) *ImageConverter {
	if log == nil {
		log = logger.Discard()
	}
	return &ImageConverter{logger: log}
}

// Name returns the name of the converter
func (c *ImageConverter) Name() string {
	return "image"
}

// Supports accepts image inputs with an encodable image target
func (c *ImageConverter) Supports(pair types.FormatPair) bool {
	if pair.InputCategory != types.CategoryImage || pair.OutputCategory != types.CategoryImage {
		return false
	}
	_, ok := formats.ImageEncoding(pair.OutputExt)
	return ok
}

// Convert decodes job.InputPath and writes it in the target format
func (c *ImageConverter) Convert(ctx context.Context, job *types.ConversionJob) error {
	img, err := c.Load(job.InputPath, 0)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return c.Save(img, job.OutputPath, job.OutputExt, job.Quality)
}

// Load reads an image from path. SVG is rasterized, at width pixels wide
// when width > 0; raster formats are recognised by content and EXIF
// orientation is applied.
func (c *ImageConverter) Load(path string, width int) (image.Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, utils.NewReadError(err)
	}

	mtype := mimetype.Detect(data)
	c.logger.Debug("Loading %s (%s)", path, mtype.String())

	if formats.ExtensionOf(path) == "svg" || utils.IsSVGContent(data) {
		img, err := RenderSVG(data, width)
		if err != nil {
			return nil, utils.NewSvgError(err)
		}
		return img, nil
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, utils.NewDecodeError(err)
	}
	return img, nil
}

// Save encodes img to path. WebP output is always lossless and ignores quality.
func (c *ImageConverter) Save(img image.Image, path, format string, quality int) error {
	encoding, ok := formats.ImageEncoding(format)
	if !ok {
		return utils.NewUnsupportedFormatError(format)
	}

	f, err := os.Create(path)
	if err != nil {
		return utils.NewWriteError(err)
	}

	if err := encodeImage(f, img, encoding, quality); err != nil {
		f.Close()
		return utils.NewEncodeError(err)
	}
	if err := f.Close(); err != nil {
		return utils.NewWriteError(err)
	}

	c.logger.Debug("Encoded %s as %s (quality %d)", path, encoding, quality)
	return nil
}

func encodeImage(w io.Writer, img image.Image, encoding string, quality int) error {
	switch encoding {
	case "jpg":
		return imaging.Encode(w, flattenOnWhite(img), imaging.JPEG, imaging.JPEGQuality(quality))
	case "png":
		return imaging.Encode(w, img, imaging.PNG, imaging.PNGCompressionLevel(pngCompression(quality)))
	case "webp":
		return nativewebp.Encode(w, img, nil)
	case "ico":
		return ico.Encode(w, imaging.Resize(img, constants.IconSize, constants.IconSize, imaging.Lanczos))
	case "gif":
		return imaging.Encode(w, img, imaging.GIF)
	case "bmp":
		return imaging.Encode(w, img, imaging.BMP)
	case "tiff":
		return imaging.Encode(w, img, imaging.TIFF)
	case "avif":
		return avif.Encode(w, img, avif.Options{Quality: quality, QualityAlpha: quality, Speed: avifSpeed})
	default:
		return utils.NewUnsupportedFormatError(encoding)
	}
}

// pngCompression maps quality to zlib effort: high quality favours speed
func pngCompression(quality int) png.CompressionLevel {
	switch {
	case quality >= 90:
		return png.BestSpeed
	case quality >= 70:
		return png.DefaultCompression
	default:
		return png.BestCompression
	}
}

// flattenOnWhite drops alpha by compositing over an opaque white canvas
func flattenOnWhite(img image.Image) *image.NRGBA {
	bounds := img.Bounds()
	canvas := imaging.New(bounds.Dx(), bounds.Dy(), color.White)
	return imaging.Overlay(canvas, img, image.Pt(0, 0), 1.0)
}

// ImagePDFConverter embeds an image as a single full-page PDF
type ImagePDFConverter struct {
	images *ImageConverter
}

// NewImagePDFConverter creates an image-to-PDF converter
func NewImagePDFConverter(images *ImageConverter) *ImagePDFConverter {
	return &ImagePDFConverter{images: images}
}

// Name returns the name of the converter
func (c *ImagePDFConverter) Name() string {
	return "image-pdf"
}

// Supports accepts image inputs with a pdf target
func (c *ImagePDFConverter) Supports(pair types.FormatPair) bool {
	return pair.InputCategory == types.CategoryImage && pair.OutputExt == "pdf"
}

// Convert loads the image and writes the PDF
func (c *ImagePDFConverter) Convert(ctx context.Context, job *types.ConversionJob) error {
	img, err := c.images.Load(job.InputPath, 0)
	if err != nil {
		return err
	}
	return WriteImagePDF(img, job.OutputPath)
}
