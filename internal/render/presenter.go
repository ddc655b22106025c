package render

import (
	"image/color"

	"slidecast/internal/deck"
)

// palette fixes the presenter look for one style.
type palette struct {
	background  color.RGBA
	skin        color.RGBA
	hair        color.RGBA
	clothing    color.RGBA
	mouthCurved bool
}

func paletteFor(style deck.Style) palette {
	switch style {
	case deck.StyleFriendly:
		return palette{
			background:  color.RGBA{R: 0xFF, G: 0xF3, B: 0xE0, A: 0xFF},
			skin:        color.RGBA{R: 0xF1, G: 0xC2, B: 0x9A, A: 0xFF},
			hair:        color.RGBA{R: 0x8D, G: 0x5A, B: 0x2B, A: 0xFF},
			clothing:    color.RGBA{R: 0xE8, G: 0x6A, B: 0x5C, A: 0xFF},
			mouthCurved: true,
		}
	case deck.StyleTeacher:
		return palette{
			background:  color.RGBA{R: 0xE8, G: 0xF0, B: 0xE8, A: 0xFF},
			skin:        color.RGBA{R: 0xD9, G: 0xA8, B: 0x7C, A: 0xFF},
			hair:        color.RGBA{R: 0x4A, G: 0x43, B: 0x3B, A: 0xFF},
			clothing:    color.RGBA{R: 0x3E, G: 0x6B, B: 0x4F, A: 0xFF},
			mouthCurved: true,
		}
	default: // professional
		return palette{
			background:  color.RGBA{R: 0xE9, G: 0xED, B: 0xF2, A: 0xFF},
			skin:        color.RGBA{R: 0xE5, G: 0xB8, B: 0x90, A: 0xFF},
			hair:        color.RGBA{R: 0x2B, G: 0x26, B: 0x22, A: 0xFF},
			clothing:    color.RGBA{R: 0x2F, G: 0x3D, B: 0x55, A: 0xFF},
			mouthCurved: false,
		}
	}
}

// Presenter renders the deterministic presenter frame for a style. The frame
// is a pure function of (style, resolution); only the PNG write touches I/O.
func (r *Renderer) Presenter(style deck.Style, path string) error {
	p := paletteFor(style)
	canvas := r.newCanvas(p.background)

	width := r.res.Width
	height := r.res.Height
	cx := width / 2
	headRadius := height / 6
	headCY := height/2 - headRadius/2

	// torso: rounded shoulders plus a block down to the bottom edge
	torsoTop := headCY + headRadius + height/40
	fillCircle(canvas, cx, torsoTop+headRadius, headRadius*2, p.clothing)
	fillRect(canvas, rectSpan(cx-headRadius*2, torsoTop+headRadius, cx+headRadius*2, height), p.clothing)

	// head with hair cap
	fillCircle(canvas, cx, headCY, headRadius, p.skin)
	fillCircle(canvas, cx, headCY-headRadius/3, headRadius, p.hair)
	fillCircle(canvas, cx, headCY+headRadius/8, headRadius-headRadius/8, p.skin)

	// eyes
	eyeColor := color.RGBA{R: 0x1A, G: 0x1A, B: 0x1A, A: 0xFF}
	eyeRadius := max(2, headRadius/10)
	eyeY := headCY
	fillCircle(canvas, cx-headRadius/3, eyeY, eyeRadius, eyeColor)
	fillCircle(canvas, cx+headRadius/3, eyeY, eyeRadius, eyeColor)

	// mouth: straight bar or upward curve depending on style
	mouthY := headCY + headRadius/2
	mouthHalf := headRadius / 3
	thickness := max(2, headRadius/14)
	if p.mouthCurved {
		for dx := -mouthHalf; dx <= mouthHalf; dx++ {
			dy := (dx * dx) / max(1, mouthHalf*2)
			fillRect(canvas, rectSpan(cx+dx, mouthY+dy, cx+dx+1, mouthY+dy+thickness), eyeColor)
		}
	} else {
		fillRect(canvas, rectSpan(cx-mouthHalf, mouthY, cx+mouthHalf, mouthY+thickness), eyeColor)
	}

	return writePNG(canvas, path)
}
