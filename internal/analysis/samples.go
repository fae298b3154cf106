// Package analysis turns decoded audio into the buffers the visualizer reads
// while the track plays: a magnitude spectrogram, a smoothed loudness
// envelope, and the mapping from a playback position into both.
package analysis

import (
	"math"
	"time"
)

// SampleBuffer is a mono track at a fixed sample rate. Samples are in [-1, 1].
type SampleBuffer struct {
	Samples []float64
	Rate    int
}

// Len returns the number of samples.
func (b SampleBuffer) Len() int { return len(b.Samples) }

// Duration returns the playing time of the buffer.
func (b SampleBuffer) Duration() time.Duration {
	if b.Rate <= 0 {
		return 0
	}
	return time.Duration(float64(len(b.Samples)) / float64(b.Rate) * float64(time.Second))
}

// Peak returns the largest absolute sample value.
func (b SampleBuffer) Peak() float64 {
	peak := 0.0
	for _, s := range b.Samples {
		if a := math.Abs(s); a > peak {
			peak = a
		}
	}
	return peak
}
