package analysis

import (
	"math"
	"math/cmplx"
	"runtime"
	"sync"

	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/dsp/window"
)

const (
	// DefaultFPS is the analysis frame rate target: one window spans
	// 1/60 s of audio.
	DefaultFPS = 60

	// TopDB is the dynamic range kept below the reference level.
	TopDB = 80.0

	minFFTSize = 2048
	amin       = 1e-5
)

// Spectrogram holds the short-time magnitude spectrum of a track, frame-major,
// alongside its decibel form. It is read-only once Analyze returns.
type Spectrogram struct {
	rate   int
	win    int
	hop    int
	nfft   int
	bins   int
	frames int
	ref    float64

	mag []float32
	db  []float32
}

// Analyze computes the spectrogram of buf. Each window covers rate/fps
// samples and consecutive frames are a quarter window apart. Frames are
// centered on multiples of the hop length, so frame t describes the audio
// around sample t*Hop().
//
// Decibels are relative to the loudest bin of the whole track and floored
// at -TopDB, so every value lies in [-TopDB, 0].
//
// Frames are transformed in parallel, but every frame is computed the same
// way regardless of which worker handles it, so the output is reproducible.
func Analyze(buf SampleBuffer, fps float64) (*Spectrogram, error) {
	if buf.Rate <= 0 {
		return nil, analysisErrorf("analyze", "sample rate %d must be positive", buf.Rate)
	}
	if !(fps > 0) || math.IsInf(fps, 0) {
		return nil, analysisErrorf("analyze", "frame rate %v must be positive", fps)
	}

	win := int(float64(buf.Rate) / fps)
	if win < 1 {
		return nil, analysisErrorf("analyze", "frame rate %v exceeds sample rate %d", fps, buf.Rate)
	}
	if len(buf.Samples) < win {
		return nil, analysisErrorf("analyze", "%d samples is shorter than one %d-sample window", len(buf.Samples), win)
	}

	hop := max(1, win/4)
	nfft := fftSize(win)
	s := &Spectrogram{
		rate:   buf.Rate,
		win:    win,
		hop:    hop,
		nfft:   nfft,
		bins:   nfft/2 + 1,
		frames: 1 + len(buf.Samples)/hop,
	}
	s.mag = make([]float32, s.frames*s.bins)
	s.db = make([]float32, s.frames*s.bins)

	taper := centeredWindow(win, nfft)

	workers := min(runtime.GOMAXPROCS(0), s.frames)
	var wg sync.WaitGroup
	for w := range workers {
		lo := w * s.frames / workers
		hi := (w + 1) * s.frames / workers
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.transform(buf.Samples, taper, lo, hi)
		}()
	}
	wg.Wait()

	peak := 0.0
	for _, m := range s.mag {
		if float64(m) > peak {
			peak = float64(m)
		}
	}
	// A silent track is measured against unit magnitude so it sits on the
	// floor instead of at 0 dB.
	s.ref = peak
	if s.ref < amin {
		s.ref = 1
	}

	for i, m := range s.mag {
		db := 20 * math.Log10(math.Max(float64(m), amin)/s.ref)
		if db < -TopDB {
			db = -TopDB
		}
		s.db[i] = float32(db)
	}

	return s, nil
}

// transform fills frames [lo, hi). Each call owns its FFT plan and scratch
// buffers, so workers never share state.
func (s *Spectrogram) transform(samples, taper []float64, lo, hi int) {
	plan := fourier.NewFFT(s.nfft)
	frame := make([]float64, s.nfft)
	coeffs := make([]complex128, s.bins)

	for t := lo; t < hi; t++ {
		start := t*s.hop - s.nfft/2
		for i := range frame {
			j := start + i
			if j < 0 || j >= len(samples) {
				frame[i] = 0
				continue
			}
			frame[i] = samples[j] * taper[i]
		}

		coeffs = plan.Coefficients(coeffs, frame)
		row := s.mag[t*s.bins : (t+1)*s.bins]
		for k, c := range coeffs {
			row[k] = float32(cmplx.Abs(c))
		}
	}
}

// fftSize returns the transform length for a window: the next power of two,
// never below 2048 so short windows still resolve 1025 bins.
func fftSize(win int) int {
	n := minFFTSize
	for n < win {
		n <<= 1
	}
	return n
}

// centeredWindow returns an nfft-long taper with a periodic Hann window of
// length win in the middle and zeros around it.
func centeredWindow(win, nfft int) []float64 {
	hann := make([]float64, win+1)
	for i := range hann {
		hann[i] = 1
	}
	hann = window.Hann(hann)

	taper := make([]float64, nfft)
	off := (nfft - win) / 2
	copy(taper[off:], hann[:win])
	return taper
}

// SampleRate returns the rate of the analyzed samples.
func (s *Spectrogram) SampleRate() int { return s.rate }

// WindowLength returns the number of samples covered by the analysis window.
func (s *Spectrogram) WindowLength() int { return s.win }

// Hop returns the sample offset between consecutive frames.
func (s *Spectrogram) Hop() int { return s.hop }

// FFTSize returns the transform length.
func (s *Spectrogram) FFTSize() int { return s.nfft }

// Bins returns the number of frequency bins per frame.
func (s *Spectrogram) Bins() int { return s.bins }

// Frames returns the number of analysis frames.
func (s *Spectrogram) Frames() int { return s.frames }

// Reference returns the magnitude that maps to 0 dB.
func (s *Spectrogram) Reference() float64 { return s.ref }

// Magnitude returns the linear magnitudes of frame t. The slice aliases the
// spectrogram and must not be modified.
func (s *Spectrogram) Magnitude(t int) []float32 {
	return s.mag[t*s.bins : (t+1)*s.bins]
}

// Decibels returns the decibel magnitudes of frame t. The slice aliases the
// spectrogram and must not be modified.
func (s *Spectrogram) Decibels(t int) []float32 {
	return s.db[t*s.bins : (t+1)*s.bins]
}
