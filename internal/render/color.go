package render

import (
	"image/color"

	"github.com/muesli/termenv"
)

// Brightness ramp used when colors are disabled, darkest first.
const asciiRamp = " .:-=+*#%@"

const ansiReset = termenv.CSI + termenv.ResetSeq + "m"

// maxCachedSeqs bounds the escape cache; a frame rarely holds more than the
// palette's colors plus a handful of fills.
const maxCachedSeqs = 4096

// colorSeqs converts RGB values to escape sequences for one color profile.
type colorSeqs struct {
	profile termenv.Profile
	cache   map[uint32]string
}

func newColorSeqs(p termenv.Profile) *colorSeqs {
	return &colorSeqs{profile: p, cache: make(map[uint32]string)}
}

// seq returns the foreground (or background) escape for r, g, b, or "" when
// the profile has no colors.
func (s *colorSeqs) seq(r, g, b uint8, bg bool) string {
	key := uint32(r)<<16 | uint32(g)<<8 | uint32(b)
	if bg {
		key |= 1 << 24
	}
	if v, ok := s.cache[key]; ok {
		return v
	}

	var out string
	if c := s.profile.FromColor(color.RGBA{R: r, G: g, B: b, A: 255}); c != nil {
		if body := c.Sequence(bg); body != "" {
			out = termenv.CSI + body + "m"
		}
	}

	if len(s.cache) >= maxCachedSeqs {
		clear(s.cache)
	}
	s.cache[key] = out
	return out
}

// brightnessChar maps a 0-255 luminance to an ASCII character.
func brightnessChar(lum uint8) byte {
	idx := int(lum) * (len(asciiRamp) - 1) / 255
	return asciiRamp[idx]
}

// luminance computes perceived brightness (ITU-R BT.601).
func luminance(r, g, b uint8) uint8 {
	return uint8((299*int(r) + 587*int(g) + 114*int(b)) / 1000)
}
