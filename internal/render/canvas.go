// Package render rasterizes visualizer frames and prints them to a terminal.
package render

import (
	"image"
	"image/color"

	"github.com/fogleman/gg"

	"github.com/olivier-w/climpviz/internal/visualizer"
)

// Canvas is an RGBA raster that one visualizer frame is drawn into. Shapes
// are antialiased by gg; the background is opaque, so every pixel is too.
type Canvas struct {
	im     *image.RGBA
	dc     *gg.Context
	frames int
}

var _ visualizer.Canvas = (*Canvas)(nil)

// NewCanvas returns an empty canvas. Its size is set by each Begin call.
func NewCanvas() *Canvas {
	return &Canvas{}
}

// Begin resizes the raster to width x height and clears it to bg.
func (c *Canvas) Begin(width, height int, bg color.RGBA) {
	width, height = max(width, 0), max(height, 0)
	if width == 0 || height == 0 {
		c.im, c.dc = nil, nil
		return
	}
	if c.im == nil || c.im.Rect.Dx() != width || c.im.Rect.Dy() != height {
		c.im = image.NewRGBA(image.Rect(0, 0, width, height))
		c.dc = gg.NewContextForRGBA(c.im)
		c.dc.SetLineWidth(1)
	}
	c.dc.SetRGB255(int(bg.R), int(bg.G), int(bg.B))
	c.dc.Clear()
}

// FillRect fills r. Edges on whole pixel coordinates are sharp.
func (c *Canvas) FillRect(r visualizer.Rect, col color.RGBA) {
	if c.dc == nil || r.W <= 0 || r.H <= 0 {
		return
	}
	c.dc.SetRGB255(int(col.R), int(col.G), int(col.B))
	c.dc.DrawRectangle(r.X, r.Y, r.W, r.H)
	c.dc.Fill()
}

// FillCircle fills d.
func (c *Canvas) FillCircle(d visualizer.Disc, col color.RGBA) {
	if c.dc == nil || d.R <= 0 {
		return
	}
	c.dc.SetRGB255(int(col.R), int(col.G), int(col.B))
	c.dc.DrawCircle(d.X, d.Y, d.R)
	c.dc.Fill()
}

// Line strokes a one pixel wide segment.
func (c *Canvas) Line(s visualizer.Segment, col color.RGBA) {
	if c.dc == nil {
		return
	}
	c.dc.SetRGB255(int(col.R), int(col.G), int(col.B))
	c.dc.DrawLine(s.X1, s.Y1, s.X2, s.Y2)
	c.dc.Stroke()
}

// End marks the frame as complete.
func (c *Canvas) End() {
	c.frames++
}

// At returns the pixel at x, y, or transparent black outside the raster.
func (c *Canvas) At(x, y int) color.RGBA {
	if c.im == nil || !(image.Point{X: x, Y: y}).In(c.im.Rect) {
		return color.RGBA{}
	}
	return c.im.RGBAAt(x, y)
}

// Pixels returns the raw RGBA data, 4 bytes per pixel with no row padding.
// It is overwritten by the next Begin.
func (c *Canvas) Pixels() []byte {
	if c.im == nil {
		return nil
	}
	return c.im.Pix
}

func (c *Canvas) Width() int {
	if c.im == nil {
		return 0
	}
	return c.im.Rect.Dx()
}

func (c *Canvas) Height() int {
	if c.im == nil {
		return 0
	}
	return c.im.Rect.Dy()
}

// Frames returns how many frames have been completed.
func (c *Canvas) Frames() int { return c.frames }
