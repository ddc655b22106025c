package render

import (
	"image/color"
	"unicode/utf8"

	"slidecast/internal/deck"
)

var (
	slideBackground = color.RGBA{R: 0xF7, G: 0xF7, B: 0xF4, A: 0xFF}
	slideTitleColor = color.RGBA{R: 0x20, G: 0x29, B: 0x39, A: 0xFF}
	slideBodyColor  = color.RGBA{R: 0x3A, G: 0x3F, B: 0x4B, A: 0xFF}
	dividerColor    = color.RGBA{R: 0x9A, G: 0xA5, B: 0xB1, A: 0xFF}
)

// Slide renders one content item onto a canvas at the target resolution:
// title centered at the configured vertical offset, a divider line, then the
// body word-wrapped into left-aligned lines below the divider. The PNG is
// written to path.
func (r *Renderer) Slide(item deck.Item, path string) error {
	canvas := r.newCanvas(slideBackground)

	width := r.res.Width
	height := r.res.Height
	margin := width / 12

	titleScale := max(2, height/240)
	bodyScale := max(1, height/360)

	titleY := int(float64(height) * r.titleOffset)
	title := item.Title
	for textWidth(title, titleScale) > width-2*margin && utf8.RuneCountInString(title) > 1 {
		title = trimLastRune(title)
	}
	titleW := textWidth(title, titleScale)
	drawText(canvas, title, (width-titleW)/2, titleY, titleScale, slideTitleColor)

	dividerY := titleY + lineHeight(titleScale) + height/48
	fillRect(canvas, rectSpan(margin, dividerY, width-margin, dividerY+max(1, height/360)), dividerColor)

	bodyTop := dividerY + height/24
	lines := wrapWords(item.Body, width-2*margin, bodyScale)
	y := bodyTop
	for _, line := range lines {
		if y+lineHeight(bodyScale) > height-margin/2 {
			break
		}
		drawText(canvas, line, margin, y, bodyScale, slideBodyColor)
		y += lineHeight(bodyScale)
	}

	return writePNG(canvas, path)
}
