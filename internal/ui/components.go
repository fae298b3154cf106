package ui

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/harmonica"
)

const gaugeCells = 10

// volumeGauge eases the displayed volume towards the real one with a spring,
// so wheel steps slide instead of jumping.
type volumeGauge struct {
	spring harmonica.Spring
	pos    float64
	vel    float64
}

func newVolumeGauge(tick time.Duration, volume float64) volumeGauge {
	fps := max(int(time.Second/max(tick, time.Millisecond)), 1)
	return volumeGauge{
		spring: harmonica.NewSpring(harmonica.FPS(fps), 8.0, 1.0),
		pos:    volume,
	}
}

func (g *volumeGauge) update(target float64) {
	g.pos, g.vel = g.spring.Update(g.pos, g.vel, target)
}

// render draws the gauge at its animated position and labels it with the
// real volume.
func (g volumeGauge) render(volume float64) string {
	filled := int(math.Round(min(max(g.pos, 0), 1) * gaugeCells))
	bar := strings.Repeat("▮", filled) + strings.Repeat("▯", gaugeCells-filled)
	return fmt.Sprintf("vol %s %3d%%", gaugeStyle.Render(bar), int(math.Round(volume*100)))
}
