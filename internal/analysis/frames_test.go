package analysis

import (
	"errors"
	"testing"
	"time"
)

func TestMapStaysInBoundsAndNeverGoesBack(t *testing.T) {
	m := FrameMapper{rate: 1000, hop: 10, samples: 1000, frames: 101}

	prev := Indices{}
	for pos := time.Duration(0); pos <= 3*time.Second; pos += 700 * time.Microsecond {
		idx, err := m.Map(pos)
		if err != nil {
			t.Fatalf("Map(%v) returned error: %v", pos, err)
		}
		if idx.Sample < 0 || idx.Sample > 999 {
			t.Fatalf("expected sample in [0, 999] at %v, got %d", pos, idx.Sample)
		}
		if idx.Frame < 0 || idx.Frame > 99 {
			t.Fatalf("expected frame in [0, 99] at %v, got %d", pos, idx.Frame)
		}
		if idx.Fraction < 0 || idx.Fraction > 1 {
			t.Fatalf("expected fraction in [0, 1] at %v, got %v", pos, idx.Fraction)
		}
		if idx.Sample < prev.Sample || idx.Frame < prev.Frame {
			t.Fatalf("expected non-decreasing indices at %v, got %+v after %+v", pos, idx, prev)
		}
		prev = idx
	}
}

func TestMapFloorsSamplesAndDividesByHop(t *testing.T) {
	m := FrameMapper{rate: 1000, hop: 10, samples: 1000, frames: 101}

	idx, err := m.Map(123900 * time.Microsecond)
	if err != nil {
		t.Fatalf("Map returned error: %v", err)
	}
	if idx.Sample != 123 {
		t.Fatalf("expected sample 123, got %d", idx.Sample)
	}
	if idx.Frame != 12 {
		t.Fatalf("expected frame 12, got %d", idx.Frame)
	}
	if idx.Fraction < 0.29 || idx.Fraction > 0.31 {
		t.Fatalf("expected fraction 0.3, got %v", idx.Fraction)
	}
}

func TestMapReservesLookaheadFrame(t *testing.T) {
	m := FrameMapper{rate: 1000, hop: 10, samples: 1000, frames: 101}

	idx, err := m.Map(time.Hour)
	if err != nil {
		t.Fatalf("Map returned error: %v", err)
	}
	if idx.Sample != 999 {
		t.Fatalf("expected last sample, got %d", idx.Sample)
	}
	if idx.Frame != 99 {
		t.Fatalf("expected frame 99 so frame+1 stays valid, got %d", idx.Frame)
	}
	if idx.Fraction < 0.89 || idx.Fraction > 0.91 {
		t.Fatalf("expected fraction 0.9, got %v", idx.Fraction)
	}

	short := FrameMapper{rate: 1000, hop: 10, samples: 1000, frames: 50}
	idx, err = short.Map(time.Hour)
	if err != nil {
		t.Fatalf("Map returned error: %v", err)
	}
	if idx.Frame != 48 || idx.Fraction != 1 {
		t.Fatalf("expected frame 48 with fraction clamped to 1, got %+v", idx)
	}
}

func TestMapNegativePositionClampsAndReports(t *testing.T) {
	m := FrameMapper{rate: 1000, hop: 10, samples: 1000, frames: 101}

	idx, err := m.Map(-time.Second)
	var oor *OutOfRangeError
	if !errors.As(err, &oor) {
		t.Fatalf("expected *OutOfRangeError, got %v", err)
	}
	if idx != (Indices{}) {
		t.Fatalf("expected zero indices, got %+v", idx)
	}
}

func TestMapSingleFrame(t *testing.T) {
	m := FrameMapper{rate: 1000, hop: 400, samples: 300, frames: 1}

	idx, err := m.Map(200 * time.Millisecond)
	if err != nil {
		t.Fatalf("Map returned error: %v", err)
	}
	if idx.Frame != 0 || idx.Fraction != 0 {
		t.Fatalf("expected frame 0 with no lookahead, got %+v", idx)
	}
}

func TestNewFrameMapperSharesAnalyzerHop(t *testing.T) {
	buf := sine(440, 0.5, 22050, 22050)
	spec, err := Analyze(buf, 60)
	if err != nil {
		t.Fatalf("Analyze returned error: %v", err)
	}
	m := NewFrameMapper(buf, spec)
	if m.Hop() != spec.Hop() {
		t.Fatalf("expected hop %d, got %d", spec.Hop(), m.Hop())
	}

	idx, err := m.Map(buf.Duration())
	if err != nil {
		t.Fatalf("Map returned error: %v", err)
	}
	if idx.Frame+1 >= spec.Frames() {
		t.Fatalf("expected lookahead frame below %d, got %d", spec.Frames(), idx.Frame+1)
	}
}
