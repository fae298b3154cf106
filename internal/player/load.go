package player

import (
	"encoding/binary"
	"fmt"
	"os"
	"time"

	"github.com/olivier-w/climpviz/internal/analysis"
)

// LoadError reports a track that could not be opened or decoded.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("loading %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// Track is a decoded audio file: the 16-bit interleaved PCM used for
// playback and the mono samples used for analysis.
type Track struct {
	Path     string
	Rate     int
	Channels int

	// PCM is signed 16-bit little-endian, channels interleaved.
	PCM []byte

	Buffer analysis.SampleBuffer
}

// Duration returns the playing time of the track.
func (t *Track) Duration() time.Duration {
	return t.Buffer.Duration()
}

// Load decodes the whole file at path. The format is chosen by extension.
func Load(path string) (*Track, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	defer f.Close()

	p, err := decodeFile(f)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	if p.frames() == 0 {
		return nil, &LoadError{Path: path, Err: fmt.Errorf("no audio samples")}
	}
	return newTrack(path, p), nil
}

func newTrack(path string, p pcm) *Track {
	n := p.frames()
	raw := make([]byte, n*p.channels*2)
	mono := make([]float64, n)
	for i := 0; i < n; i++ {
		var sum int
		for ch := 0; ch < p.channels; ch++ {
			s := p.samples[i*p.channels+ch]
			binary.LittleEndian.PutUint16(raw[(i*p.channels+ch)*2:], uint16(s))
			sum += int(s)
		}
		mono[i] = float64(sum) / float64(p.channels) / 32768
	}

	return &Track{
		Path:     path,
		Rate:     p.rate,
		Channels: p.channels,
		PCM:      raw,
		Buffer:   analysis.SampleBuffer{Samples: mono, Rate: p.rate},
	}
}
