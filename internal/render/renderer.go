package render

import (
	"strings"

	"github.com/muesli/termenv"
)

// Renderer converts an RGBA raster into a terminal string.
// It supports two modes:
//   - Color (half-block): "▀" with fg = top pixel and bg = bottom pixel, two
//     pixel rows per terminal row.
//   - ASCII (no color): one brightness character per pixel.
type Renderer struct {
	seqs *colorSeqs
	sb   strings.Builder
}

// NewRenderer creates a renderer for the current terminal's color profile,
// honoring NO_COLOR and CLICOLOR_FORCE.
func NewRenderer() *Renderer {
	return NewRendererWithProfile(termenv.EnvColorProfile())
}

// NewRendererWithProfile creates a renderer for a fixed color profile.
func NewRendererWithProfile(p termenv.Profile) *Renderer {
	return &Renderer{seqs: newColorSeqs(p)}
}

// Color reports whether the renderer packs two pixel rows per cell.
func (r *Renderer) Color() bool {
	return r.seqs.profile != termenv.Ascii
}

// PixelSize returns the raster size that fills cols x rows terminal cells
// without scaling.
func (r *Renderer) PixelSize(cols, rows int) (width, height int) {
	if cols <= 0 || rows <= 0 {
		return 0, 0
	}
	if r.Color() {
		return cols, rows * 2
	}
	return cols, rows
}

// RenderCanvas renders c into outW x outH terminal cells.
func (r *Renderer) RenderCanvas(c *Canvas, outW, outH int) string {
	return r.Render(c.Pixels(), c.Width(), c.Height(), outW, outH)
}

// Render converts an RGBA frame buffer (4 bytes per pixel, alpha ignored)
// into a terminal string. Pixels are picked nearest-neighbor when the frame
// and the cell grid differ in size.
func (r *Renderer) Render(frame []byte, frameW, frameH, outW, outH int) string {
	if frameW <= 0 || frameH <= 0 || outW <= 0 || outH <= 0 || len(frame) < frameW*frameH*4 {
		return ""
	}

	r.sb.Reset()
	r.sb.Grow(outW * outH * 24)

	if r.Color() {
		r.renderHalfBlock(frame, frameW, frameH, outW, outH)
	} else {
		r.renderASCII(frame, frameW, frameH, outW, outH)
	}
	return r.sb.String()
}

func (r *Renderer) renderHalfBlock(frame []byte, frameW, frameH, outW, outH int) {
	pixelRows := outH * 2
	var lastFg, lastBg string

	for row := 0; row < outH; row++ {
		topY := (row * 2) * frameH / pixelRows
		botY := (row*2 + 1) * frameH / pixelRows

		for col := 0; col < outW; col++ {
			srcX := col * frameW / outW
			tr, tg, tb := samplePixel(frame, frameW, srcX, topY)
			br, bg, bb := samplePixel(frame, frameW, srcX, botY)

			fg := r.seqs.seq(tr, tg, tb, false)
			bgc := r.seqs.seq(br, bg, bb, true)
			if fg != lastFg {
				r.sb.WriteString(fg)
				lastFg = fg
			}
			if bgc != lastBg {
				r.sb.WriteString(bgc)
				lastBg = bgc
			}
			r.sb.WriteString("▀")
		}

		r.sb.WriteString(ansiReset)
		lastFg, lastBg = "", ""
		if row < outH-1 {
			r.sb.WriteByte('\n')
		}
	}
}

func (r *Renderer) renderASCII(frame []byte, frameW, frameH, outW, outH int) {
	for row := 0; row < outH; row++ {
		srcY := row * frameH / outH
		for col := 0; col < outW; col++ {
			srcX := col * frameW / outW
			pr, pg, pb := samplePixel(frame, frameW, srcX, srcY)
			r.sb.WriteByte(brightnessChar(luminance(pr, pg, pb)))
		}
		if row < outH-1 {
			r.sb.WriteByte('\n')
		}
	}
}

func samplePixel(frame []byte, stride, x, y int) (uint8, uint8, uint8) {
	off := (y*stride + x) * 4
	if off < 0 || off+2 >= len(frame) {
		return 0, 0, 0
	}
	return frame[off], frame[off+1], frame[off+2]
}
