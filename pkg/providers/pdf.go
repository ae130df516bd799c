package providers

import (
	"bytes"
	"image"
	"image/jpeg"
	"strings"

	"github.com/go-pdf/fpdf"

	"github.com/nodewee/file-converter/pkg/constants"
	"github.com/nodewee/file-converter/pkg/utils"
)

const (
	mmPerInch   = 25.4
	embedJPEGQ  = 95
	embeddedImg = "page"
)

// WriteTextPDF lays text out on A4 pages in 10pt Courier. Lines longer
// than 90 characters are cut, not wrapped.
func WriteTextPDF(text, title, path string) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(title, true)
	pdf.SetMargins(constants.TextPDFLeftMargin, constants.TextPDFTopMargin, constants.TextPDFLeftMargin)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetFont("Courier", "", constants.TextPDFFontSize)
	translate := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.AddPage()
	y := constants.TextPDFTopMargin
	for _, line := range splitLines(text) {
		if y > constants.TextPDFPageBottom {
			pdf.AddPage()
			y = constants.TextPDFTopMargin
		}
		pdf.Text(constants.TextPDFLeftMargin, y, translate(truncateRunes(line, constants.TextPDFMaxLineRunes)))
		y += constants.TextPDFLineHeight
	}

	if err := pdf.OutputFileAndClose(path); err != nil {
		return utils.NewPdfError(err.Error(), err)
	}
	return nil
}

// WriteImagePDF writes a one-page PDF sized to the image at 96 DPI with the
// image, JPEG compressed, covering the whole page
func WriteImagePDF(img image.Image, path string) error {
	bounds := img.Bounds()
	wMM := float64(bounds.Dx()) / constants.ImagePDFDPI * mmPerInch
	hMM := float64(bounds.Dy()) / constants.ImagePDFDPI * mmPerInch

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, flattenOnWhite(img), &jpeg.Options{Quality: embedJPEGQ}); err != nil {
		return utils.NewPdfError(err.Error(), err)
	}

	// fpdf swaps the custom size for "L", so the page is always declared portrait
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: wMM, Ht: hMM},
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()

	opts := fpdf.ImageOptions{ImageType: "JPG"}
	pdf.RegisterImageOptionsReader(embeddedImg, opts, &buf)
	pdf.ImageOptions(embeddedImg, 0, 0, wMM, hMM, false, opts, 0, "")

	if err := pdf.OutputFileAndClose(path); err != nil {
		return utils.NewPdfError(err.Error(), err)
	}
	return nil
}

func splitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.TrimSuffix(text, "\n")
	return strings.Split(text, "\n")
}

func truncateRunes(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
