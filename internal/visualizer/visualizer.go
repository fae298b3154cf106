// Package visualizer draws a track in sync with its playback: a shape that
// reacts to loudness, the current spectrum as a trace, and a progress bar.
package visualizer

import (
	"image/color"
	"time"
)

// Canvas receives the drawing calls for one frame, bracketed by Begin and
// End.
type Canvas interface {
	Begin(width, height int, background color.RGBA)
	FillRect(r Rect, c color.RGBA)
	FillCircle(d Disc, c color.RGBA)
	Line(s Segment, c color.RGBA)
	End()
}

// Playback is the audio clock and transport the session follows.
type Playback interface {
	Position() time.Duration
	Duration() time.Duration
	Playing() bool
	Complete() bool
	TogglePause()
	Volume() float64
	SetVolume(v float64)
}

// PointerButton identifies a pressed pointer button.
type PointerButton uint8

const (
	PointerLeft PointerButton = iota
	PointerMiddle
	PointerRight
)

// Key is a key action the session understands.
type Key uint8

const (
	KeyPlayPause Key = iota
)

// EventHandler is what a window or terminal loop drives. OnTick draws a frame
// and reports false once the session is over.
type EventHandler interface {
	OnTick(c Canvas, width, height int) bool
	OnPointer(b PointerButton)
	OnScroll(units float64)
	OnKey(k Key)
}
