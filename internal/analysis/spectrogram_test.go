package analysis

import (
	"errors"
	"math"
	"testing"
)

func sine(freq, amp float64, rate, n int) SampleBuffer {
	s := make([]float64, n)
	for i := range s {
		s[i] = amp * math.Sin(2*math.Pi*freq*float64(i)/float64(rate))
	}
	return SampleBuffer{Samples: s, Rate: rate}
}

func TestAnalyzeRejectsDegenerateInput(t *testing.T) {
	cases := []struct {
		name string
		buf  SampleBuffer
		fps  float64
	}{
		{"zero rate", SampleBuffer{Samples: make([]float64, 4096), Rate: 0}, 60},
		{"negative rate", SampleBuffer{Samples: make([]float64, 4096), Rate: -1}, 60},
		{"zero fps", SampleBuffer{Samples: make([]float64, 4096), Rate: 6000}, 0},
		{"shorter than window", SampleBuffer{Samples: make([]float64, 99), Rate: 6000}, 60},
	}
	for _, tc := range cases {
		_, err := Analyze(tc.buf, tc.fps)
		var ae *AnalysisError
		if !errors.As(err, &ae) {
			t.Fatalf("%s: expected *AnalysisError, got %v", tc.name, err)
		}
	}
}

func TestAnalyzeGeometry(t *testing.T) {
	buf := sine(440, 0.5, 6000, 6000)
	spec, err := Analyze(buf, 60)
	if err != nil {
		t.Fatalf("Analyze returned error: %v", err)
	}

	if got := spec.WindowLength(); got != 100 {
		t.Fatalf("expected window length 100, got %d", got)
	}
	if got := spec.Hop(); got != 25 {
		t.Fatalf("expected hop 25, got %d", got)
	}
	if got := spec.Bins(); got != 1025 {
		t.Fatalf("expected 1025 bins, got %d", got)
	}
	if got := spec.Frames(); got != 1+6000/25 {
		t.Fatalf("expected %d frames, got %d", 1+6000/25, got)
	}

	covered := spec.Frames() * spec.Hop()
	if d := covered - buf.Len(); d < 0 || d > spec.Hop() {
		t.Fatalf("expected frames*hop within one hop of %d samples, got %d", buf.Len(), covered)
	}
}

func TestAnalyzeLargeWindowGrowsFFT(t *testing.T) {
	buf := SampleBuffer{Samples: make([]float64, 4000), Rate: 192000}
	spec, err := Analyze(buf, 60)
	if err != nil {
		t.Fatalf("Analyze returned error: %v", err)
	}
	if spec.FFTSize() != 4096 {
		t.Fatalf("expected 4096-point transform for a 3200-sample window, got %d", spec.FFTSize())
	}
	if spec.Bins() != 2049 {
		t.Fatalf("expected 2049 bins, got %d", spec.Bins())
	}
}

func TestAnalyzePeakBinMatchesTone(t *testing.T) {
	// 8192 Hz over 2048 points puts 1000 Hz exactly on bin 250.
	spec, err := Analyze(sine(1000, 0.5, 8192, 8192), 64)
	if err != nil {
		t.Fatalf("Analyze returned error: %v", err)
	}

	mags := spec.Magnitude(spec.Frames() / 2)
	best := 0
	for k, m := range mags {
		if m > mags[best] {
			best = k
		}
	}
	if best != 250 {
		t.Fatalf("expected peak at bin 250, got %d", best)
	}

	top := float32(-TopDB)
	for f := range spec.Frames() {
		for _, db := range spec.Decibels(f) {
			if db < -TopDB || db > 0 {
				t.Fatalf("expected decibels in [-%v, 0], got %v", TopDB, db)
			}
			top = max(top, db)
		}
	}
	if top != 0 {
		t.Fatalf("expected loudest bin at 0 dB, got %v", top)
	}
}

func TestAnalyzeSilenceSitsOnFloor(t *testing.T) {
	spec, err := Analyze(SampleBuffer{Samples: make([]float64, 2000), Rate: 6000}, 60)
	if err != nil {
		t.Fatalf("Analyze returned error: %v", err)
	}
	if spec.Reference() != 1 {
		t.Fatalf("expected unit reference for silence, got %v", spec.Reference())
	}
	for _, db := range spec.Decibels(0) {
		if db != -TopDB {
			t.Fatalf("expected silence at -%v dB, got %v", TopDB, db)
		}
	}
}

func TestAnalyzeIsDeterministic(t *testing.T) {
	buf := sine(330, 0.7, 11025, 30000)
	for i := range buf.Samples {
		buf.Samples[i] += 0.1 * math.Sin(float64(i)*0.37)
	}

	a, err := Analyze(buf, 60)
	if err != nil {
		t.Fatalf("Analyze returned error: %v", err)
	}
	b, err := Analyze(buf, 60)
	if err != nil {
		t.Fatalf("Analyze returned error: %v", err)
	}

	if a.Frames() != b.Frames() || a.Reference() != b.Reference() {
		t.Fatalf("expected identical geometry, got %d/%v and %d/%v", a.Frames(), a.Reference(), b.Frames(), b.Reference())
	}
	for f := range a.Frames() {
		ma, mb := a.Magnitude(f), b.Magnitude(f)
		da, db := a.Decibels(f), b.Decibels(f)
		for k := range ma {
			if ma[k] != mb[k] || da[k] != db[k] {
				t.Fatalf("frame %d bin %d differs between runs", f, k)
			}
		}
	}
}
