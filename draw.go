package mdcite

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/kweiss/go-mdcite/internal/fileutil"
)

// boxAnnotator abstracts drawing the bounding box onto a screenshot.
type boxAnnotator interface {
	// Annotate draws box (and an optional score label) onto the image at
	// imagePath and writes the result to outputPath. An empty outputPath
	// writes to a generated temporary path. Returns the written path.
	Annotate(imagePath string, box Box, outputPath string, score *float64) (string, error)
}

// Compile-time interface check
var _ boxAnnotator = (*pngAnnotator)(nil)

// Rectangle drawing defaults.
const (
	borderWidth  = 3
	labelPadding = 2
)

// boxColor is the rectangle and label color (crimson).
var boxColor = color.RGBA{R: 220, G: 20, B: 60, A: 255}

// labelTextColor is the score text color.
var labelTextColor = color.RGBA{R: 255, G: 255, B: 255, A: 255}

// pngAnnotator draws bounding boxes onto PNG screenshots.
type pngAnnotator struct{}

// Annotate decodes the PNG at imagePath, draws the rectangle outline and
// optional score label, and encodes the result to outputPath.
func (a *pngAnnotator) Annotate(imagePath string, box Box, outputPath string, score *float64) (string, error) {
	if !box.Valid() {
		return "", fmt.Errorf("%w: %dx%d", ErrInvalidBox, box.Width(), box.Height())
	}

	src, err := decodePNG(imagePath)
	if err != nil {
		return "", err
	}

	bounds := src.Bounds()
	canvas := image.NewRGBA(bounds)
	draw.Draw(canvas, bounds, src, bounds.Min, draw.Src)

	rect := clampRect(image.Rect(box.Left, box.Top, box.Right, box.Bottom), bounds)
	drawRectOutline(canvas, rect, borderWidth, boxColor)

	if score != nil {
		drawScoreLabel(canvas, rect, *score)
	}

	if outputPath == "" {
		outputPath, err = fileutil.TempPath("png")
		if err != nil {
			return "", err
		}
	}

	if err := encodePNG(canvas, outputPath); err != nil {
		return "", err
	}
	return outputPath, nil
}

// decodePNG reads and decodes a PNG file.
func decodePNG(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening screenshot: %w", err)
	}
	defer f.Close()

	img, err := png.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrImageDecode, err)
	}
	return img, nil
}

// encodePNG writes img to path as PNG.
func encodePNG(img image.Image, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating output image: %w", err)
	}

	if err := png.Encode(f, img); err != nil {
		_ = f.Close()
		return fmt.Errorf("%w: %v", ErrImageEncode, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("%w: %v", ErrImageEncode, err)
	}
	return nil
}

// clampRect intersects r with bounds, keeping at least a 1x1 rectangle so a
// box that grazes the image edge still draws.
func clampRect(r, bounds image.Rectangle) image.Rectangle {
	r = r.Intersect(bounds)
	if r.Empty() {
		r = image.Rect(bounds.Min.X, bounds.Min.Y, bounds.Min.X+1, bounds.Min.Y+1)
	}
	return r
}

// drawRectOutline draws a rectangle border of the given width inside r.
func drawRectOutline(canvas *image.RGBA, r image.Rectangle, width int, c color.Color) {
	for i := 0; i < width; i++ {
		inner := r.Inset(i)
		if inner.Empty() {
			return
		}
		for x := inner.Min.X; x < inner.Max.X; x++ {
			canvas.Set(x, inner.Min.Y, c)
			canvas.Set(x, inner.Max.Y-1, c)
		}
		for y := inner.Min.Y; y < inner.Max.Y; y++ {
			canvas.Set(inner.Min.X, y, c)
			canvas.Set(inner.Max.X-1, y, c)
		}
	}
}

// drawScoreLabel draws the score as a filled tab anchored to the box's top
// left corner, above the box when there is room and inside it otherwise.
func drawScoreLabel(canvas *image.RGBA, box image.Rectangle, score float64) {
	text := fmt.Sprintf("%.2f", score)
	face := basicfont.Face7x13

	textWidth := font.MeasureString(face, text).Ceil()
	labelW := textWidth + 2*labelPadding
	labelH := face.Metrics().Height.Ceil() + 2*labelPadding

	labelMin := image.Pt(box.Min.X, box.Min.Y-labelH)
	if labelMin.Y < canvas.Bounds().Min.Y {
		labelMin.Y = box.Min.Y
	}

	label := clampRect(image.Rect(labelMin.X, labelMin.Y, labelMin.X+labelW, labelMin.Y+labelH), canvas.Bounds())
	draw.Draw(canvas, label, &image.Uniform{C: boxColor}, image.Point{}, draw.Src)

	d := font.Drawer{
		Dst:  canvas,
		Src:  &image.Uniform{C: labelTextColor},
		Face: face,
		Dot: fixed.Point26_6{
			X: fixed.I(label.Min.X + labelPadding),
			Y: fixed.I(label.Min.Y + labelPadding + face.Metrics().Ascent.Ceil()),
		},
	}
	d.DrawString(text)
}
