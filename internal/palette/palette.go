// Package palette maps spectrogram bin indices to trace colors.
package palette

import (
	"image/color"
	"math"
	"sort"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// ReferenceBins is the bin count the band tables are written for (a
// 2048-point transform). Other bin counts are rescaled onto it.
const ReferenceBins = 1025

// Default is used when no palette or an unknown one is requested.
const Default = "rainbow"

// Func returns the color of a bin.
type Func func(bin int) color.RGBA

var (
	white = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	black = color.RGBA{A: 255}

	transBlue = rgb(91, 206, 250)
	transPink = rgb(245, 169, 184)

	enbyYellow = rgb(255, 244, 48)
	enbyPurple = rgb(156, 89, 209)

	panBlue   = rgb(33, 177, 255)
	panYellow = rgb(255, 216, 0)
	panPink   = rgb(255, 33, 140)
)

// band is a run of bins [.., upTo) sharing a color.
type band struct {
	upTo int
	c    color.RGBA
}

var palettes = map[string]func(int) color.RGBA{
	"rainbow": rainbow,
	"white":   func(int) color.RGBA { return white },
	"trans": bands(
		band{205, transBlue},
		band{410, transPink},
		band{615, white},
		band{820, transPink},
		band{ReferenceBins, transBlue},
	),
	"enby": bands(
		band{256, enbyYellow},
		band{512, white},
		band{768, enbyPurple},
		band{ReferenceBins, black},
	),
	"pan": bands(
		band{342, panBlue},
		band{683, panYellow},
		band{ReferenceBins, panPink},
	),
}

// Names returns the known palette names, sorted.
func Names() []string {
	names := make([]string, 0, len(palettes))
	for name := range palettes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Known reports whether name (case-insensitive) is a palette.
func Known(name string) bool {
	_, ok := palettes[strings.ToLower(strings.TrimSpace(name))]
	return ok
}

// Lookup returns the palette called name for a spectrogram with the given
// bin count. Unknown names fall back to Default.
func Lookup(name string, bins int) Func {
	fn, ok := palettes[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		fn = palettes[Default]
	}
	if bins <= 1 || bins == ReferenceBins {
		return fn
	}
	return func(bin int) color.RGBA {
		return fn(bin * (ReferenceBins - 1) / (bins - 1))
	}
}

// rainbow sweeps the hue wheel once across the bins at half brightness.
func rainbow(bin int) color.RGBA {
	hue := math.Mod(360*float64(bin)/float64(ReferenceBins-1), 360)
	r, g, b := colorful.Hsv(hue, 1, 0.5).RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}
}

func bands(bs ...band) func(int) color.RGBA {
	return func(bin int) color.RGBA {
		for _, b := range bs {
			if bin < b.upTo {
				return b.c
			}
		}
		return bs[len(bs)-1].c
	}
}

func rgb(r, g, b uint8) color.RGBA {
	return color.RGBA{R: r, G: g, B: b, A: 255}
}
