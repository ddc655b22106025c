package render

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"

	"slidecast/internal/deck"
)

// Renderer draws slide and presenter frames at a fixed target resolution.
type Renderer struct {
	res         deck.Resolution
	titleOffset float64
}

// New constructs a renderer for the given resolution. titleOffset is the
// vertical position of the slide title as a fraction of canvas height.
func New(res deck.Resolution, titleOffset float64) *Renderer {
	if titleOffset <= 0 || titleOffset >= 1 {
		titleOffset = 0.12
	}
	return &Renderer{res: res, titleOffset: titleOffset}
}

// Resolution returns the configured frame size.
func (r *Renderer) Resolution() deck.Resolution {
	return r.res
}

func (r *Renderer) newCanvas(bg color.RGBA) *image.RGBA {
	canvas := image.NewRGBA(image.Rect(0, 0, r.res.Width, r.res.Height))
	fillRect(canvas, canvas.Bounds(), bg)
	return canvas
}

func writePNG(img image.Image, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create frame file: %w", err)
	}
	defer file.Close()
	if err := png.Encode(file, img); err != nil {
		return fmt.Errorf("encode frame: %w", err)
	}
	return nil
}

func fillRect(dst *image.RGBA, rect image.Rectangle, col color.RGBA) {
	rect = rect.Intersect(dst.Bounds())
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			dst.SetRGBA(x, y, col)
		}
	}
}

func rectSpan(x0, y0, x1, y1 int) image.Rectangle {
	return image.Rect(x0, y0, x1, y1)
}

func fillCircle(dst *image.RGBA, cx, cy, radius int, col color.RGBA) {
	bounds := image.Rect(cx-radius, cy-radius, cx+radius+1, cy+radius+1).Intersect(dst.Bounds())
	rr := radius * radius
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			dx, dy := x-cx, y-cy
			if dx*dx+dy*dy <= rr {
				dst.SetRGBA(x, y, col)
			}
		}
	}
}
