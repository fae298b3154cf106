package visualizer

import (
	"image/color"
	"math/rand/v2"
)

const (
	DefaultShapeThreshold = 0.5
	DefaultColorThreshold = 0.875
)

// Shape is the reactive shape drawn in the middle of the frame.
type Shape uint8

const (
	Circle Shape = iota
	Rectangle
)

func (s Shape) String() string {
	if s == Rectangle {
		return "rectangle"
	}
	return "circle"
}

// Toggle returns the other shape.
func (s Shape) Toggle() Shape {
	if s == Rectangle {
		return Circle
	}
	return Rectangle
}

// VisualState is the part of a frame that reacts to the music. ShapeColor
// fills the rectangle and AccentColor fills the circle.
type VisualState struct {
	Shape       Shape
	ShapeColor  color.RGBA
	AccentColor color.RGBA
}

// NewVisualState returns the starting state: a red circle, lime rectangle.
func NewVisualState() VisualState {
	return VisualState{
		Shape:       Circle,
		ShapeColor:  color.RGBA{G: 255, A: 255},
		AccentColor: color.RGBA{R: 255, A: 255},
	}
}

// Triggers reports what a Step changed.
type Triggers struct {
	Shape bool
	Color bool
}

// StateMachine drives VisualState from the envelope. Each threshold fires
// once when the level crosses it going up; staying above it does nothing
// until the level has dropped back to or below the threshold.
type StateMachine struct {
	state          VisualState
	shapeThreshold float64
	colorThreshold float64
	last           float64
	rng            *rand.Rand
}

// NewStateMachine returns a machine in the initial state.
func NewStateMachine(shapeThreshold, colorThreshold float64, rng *rand.Rand) *StateMachine {
	return &StateMachine{
		state:          NewVisualState(),
		shapeThreshold: shapeThreshold,
		colorThreshold: colorThreshold,
		rng:            rng,
	}
}

// State returns the current state.
func (m *StateMachine) State() VisualState { return m.state }

// Step feeds the envelope level for this tick. Nothing fires while paused,
// but the level is still tracked so resuming in a loud passage is not
// mistaken for a new onset.
func (m *StateMachine) Step(level float64, playing bool) Triggers {
	var t Triggers
	if playing {
		t.Shape = m.last <= m.shapeThreshold && level > m.shapeThreshold
		t.Color = m.last <= m.colorThreshold && level > m.colorThreshold
	}
	m.last = level

	if t.Shape {
		m.state.Shape = m.state.Shape.Toggle()
	}
	if t.Color {
		m.Recolor()
	}
	return t
}

// Recolor draws new shape and accent colors uniformly from the RGB cube.
func (m *StateMachine) Recolor() {
	m.state.ShapeColor = m.randomColor()
	m.state.AccentColor = m.randomColor()
}

// RandomShape picks either shape with equal probability.
func (m *StateMachine) RandomShape() {
	m.state.Shape = Shape(m.rng.IntN(2))
}

func (m *StateMachine) randomColor() color.RGBA {
	return color.RGBA{
		R: uint8(m.rng.IntN(256)),
		G: uint8(m.rng.IntN(256)),
		B: uint8(m.rng.IntN(256)),
		A: 255,
	}
}
