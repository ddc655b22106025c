package render

import (
	"image"
	"image/color"
	"strings"
	"unicode/utf8"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

var face = basicfont.Face7x13

// glyph metrics of the base face, in pixels.
const (
	glyphWidth  = 7
	glyphHeight = 13
	glyphAscent = 11
)

// textWidth returns the rendered width of text at the given integer scale.
func textWidth(text string, scale int) int {
	return font.MeasureString(face, text).Ceil() * scale
}

// lineHeight returns the rendered line height at the given integer scale,
// including a small leading gap.
func lineHeight(scale int) int {
	return (glyphHeight + 3) * scale
}

// drawText renders text at (x, y) (top-left of the text box) with the base
// bitmap face scaled up by an integer factor. Returns the drawn width.
func drawText(dst *image.RGBA, text string, x, y, scale int, col color.RGBA) int {
	if text == "" || scale < 1 {
		return 0
	}

	baseWidth := font.MeasureString(face, text).Ceil()
	if baseWidth <= 0 {
		return 0
	}
	base := image.NewRGBA(image.Rect(0, 0, baseWidth, glyphHeight))
	drawer := font.Drawer{
		Dst:  base,
		Src:  image.NewUniform(col),
		Face: face,
		Dot:  fixed.P(0, glyphAscent),
	}
	drawer.DrawString(text)

	target := image.Rect(x, y, x+baseWidth*scale, y+glyphHeight*scale)
	xdraw.NearestNeighbor.Scale(dst, target, base, base.Bounds(), xdraw.Over, nil)
	return baseWidth * scale
}

// wrapWords splits text into lines that fit maxWidth at the given scale.
// A single word that never fits is hard-truncated rather than dropped so a
// pathological input degrades cosmetically instead of failing the slide.
func wrapWords(text string, maxWidth, scale int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	var lines []string
	var current string
	for _, word := range words {
		for textWidth(word, scale) > maxWidth && utf8.RuneCountInString(word) > 1 {
			word = trimLastRune(word)
		}
		candidate := word
		if current != "" {
			candidate = current + " " + word
		}
		if textWidth(candidate, scale) <= maxWidth {
			current = candidate
			continue
		}
		if current != "" {
			lines = append(lines, current)
		}
		current = word
	}
	if current != "" {
		lines = append(lines, current)
	}
	return lines
}

// trimLastRune drops the final rune so truncation never splits a UTF-8
// sequence mid-byte.
func trimLastRune(s string) string {
	_, size := utf8.DecodeLastRuneInString(s)
	return s[:len(s)-size]
}
