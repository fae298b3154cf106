package visualizer

import (
	"math/rand/v2"
	"testing"
)

func newTestMachine() *StateMachine {
	return NewStateMachine(DefaultShapeThreshold, DefaultColorThreshold, rand.New(rand.NewPCG(1, 2)))
}

func TestStepTogglesShapeOnceForSustainedLevel(t *testing.T) {
	m := newTestMachine()
	m.Step(0.2, true)

	toggles := 0
	for range 50 {
		if m.Step(0.6, true).Shape {
			toggles++
		}
	}
	if toggles != 1 {
		t.Fatalf("expected exactly one toggle, got %d", toggles)
	}
	if m.State().Shape != Rectangle {
		t.Fatalf("expected rectangle after one toggle, got %v", m.State().Shape)
	}
}

func TestStepRetriggersAfterFallingBelow(t *testing.T) {
	m := newTestMachine()
	levels := []float64{0.1, 0.7, 0.8, 0.5, 0.9, 0.3, 0.6}
	toggles := 0
	for _, l := range levels {
		if m.Step(l, true).Shape {
			toggles++
		}
	}
	// Rising edges: 0.1->0.7, 0.5->0.9, 0.3->0.6. 0.5 itself is not above.
	if toggles != 3 {
		t.Fatalf("expected 3 toggles, got %d", toggles)
	}
	if m.State().Shape != Rectangle {
		t.Fatalf("expected rectangle after an odd number of toggles, got %v", m.State().Shape)
	}
}

func TestStepRecolorsOnceAboveColorThreshold(t *testing.T) {
	m := newTestMachine()
	start := m.State()

	recolors := 0
	for range 20 {
		if m.Step(0.95, true).Color {
			recolors++
		}
	}
	if recolors != 1 {
		t.Fatalf("expected one recolor, got %d", recolors)
	}
	st := m.State()
	if st.ShapeColor == start.ShapeColor && st.AccentColor == start.AccentColor {
		t.Fatal("expected colors to change")
	}
	if st.ShapeColor.A != 255 || st.AccentColor.A != 255 {
		t.Fatalf("expected opaque colors, got %v and %v", st.ShapeColor, st.AccentColor)
	}
}

func TestStepIgnoresOnsetsWhilePaused(t *testing.T) {
	m := newTestMachine()
	m.Step(0.1, true)

	if tr := m.Step(0.95, false); tr.Shape || tr.Color {
		t.Fatalf("expected no triggers while paused, got %+v", tr)
	}
	if tr := m.Step(0.95, true); tr.Shape || tr.Color {
		t.Fatalf("expected no triggers when resuming above threshold, got %+v", tr)
	}
	if m.State() != NewVisualState() {
		t.Fatalf("expected initial state, got %+v", m.State())
	}
}

func TestRandomShapeChoosesBothShapes(t *testing.T) {
	m := newTestMachine()
	seen := map[Shape]bool{}
	for range 64 {
		m.RandomShape()
		seen[m.State().Shape] = true
	}
	if !seen[Circle] || !seen[Rectangle] {
		t.Fatalf("expected both shapes over 64 draws, got %v", seen)
	}
}

func TestInitialState(t *testing.T) {
	st := NewVisualState()
	if st.Shape != Circle {
		t.Fatalf("expected circle, got %v", st.Shape)
	}
	if st.ShapeColor.G != 255 || st.AccentColor.R != 255 {
		t.Fatalf("expected lime and red defaults, got %v and %v", st.ShapeColor, st.AccentColor)
	}
}
