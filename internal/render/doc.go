// Package render draws slide frames and the deterministic presenter frame
// used as the video intro. Rendering is pure pixel work on image.RGBA; fonts
// come from the bitmap face in golang.org/x/image/font/basicfont scaled to
// the target resolution.
package render
