package providers

import (
	"bytes"
	"errors"
	"image"
	"math"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
)

// RenderSVG rasterizes an SVG document at its intrinsic size, or scaled to
// width pixels wide keeping the aspect ratio when width > 0
func RenderSVG(data []byte, width int) (image.Image, error) {
	icon, err := oksvg.ReadIconStream(bytes.NewReader(data), oksvg.WarnErrorMode)
	if err != nil {
		return nil, err
	}

	w := int(math.Ceil(icon.ViewBox.W))
	h := int(math.Ceil(icon.ViewBox.H))
	if w <= 0 || h <= 0 {
		return nil, errors.New("document has no width or height")
	}
	if width > 0 {
		h = int(math.Round(float64(h) * float64(width) / float64(w)))
		w = width
		if h < 1 {
			h = 1
		}
	}

	icon.SetTarget(0, 0, float64(w), float64(h))
	canvas := image.NewRGBA(image.Rect(0, 0, w, h))
	scanner := rasterx.NewScannerGV(w, h, canvas, canvas.Bounds())
	icon.Draw(rasterx.NewDasher(w, h, scanner), 1.0)

	return canvas, nil
}

// SVGSize reports the intrinsic pixel size of an SVG document
func SVGSize(data []byte) (int, int, error) {
	icon, err := oksvg.ReadIconStream(bytes.NewReader(data), oksvg.IgnoreErrorMode)
	if err != nil {
		return 0, 0, err
	}
	return int(math.Ceil(icon.ViewBox.W)), int(math.Ceil(icon.ViewBox.H)), nil
}
