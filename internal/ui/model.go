// Package ui runs a visualizer session inside a Bubbletea program.
package ui

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/olivier-w/climpviz/internal/player"
	"github.com/olivier-w/climpviz/internal/render"
	"github.com/olivier-w/climpviz/internal/util"
	"github.com/olivier-w/climpviz/internal/visualizer"
)

// statusLines is the height of the text below the visualization.
const statusLines = 2

// Playback is the player as the UI drives it.
type Playback interface {
	visualizer.Playback
	Close()
}

var _ Playback = (*player.Player)(nil)

// Model is the Bubbletea model for the visualizer TUI.
type Model struct {
	session  *visualizer.Session
	player   Playback
	metadata player.Metadata
	canvas   *render.Canvas
	renderer *render.Renderer
	tick     time.Duration

	keys  keyMap
	help  help.Model
	gauge volumeGauge

	frame    string
	elapsed  time.Duration
	duration time.Duration
	paused   bool
	width    int
	height   int
	quitting bool
}

// New creates a Model rendering s while p plays. tick is the redraw interval.
func New(s *visualizer.Session, p Playback, meta player.Metadata, r *render.Renderer, tick time.Duration) Model {
	return Model{
		session:  s,
		player:   p,
		metadata: meta,
		canvas:   render.NewCanvas(),
		renderer: r,
		tick:     tick,
		keys:     defaultKeyMap(),
		help:     help.New(),
		gauge:    newVolumeGauge(tick, p.Volume()),
		duration: p.Duration(),
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(tickCmd(m.tick), tea.SetWindowTitle(windowTitle(m.metadata.String(), false)))
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m.quit("user")
		case key.Matches(msg, m.keys.Pause):
			m.session.OnKey(visualizer.KeyPlayPause)
			m.paused = !m.player.Playing()
			return m, tea.SetWindowTitle(windowTitle(m.metadata.String(), m.paused))
		}
		return m, nil

	case tea.MouseMsg:
		m.handleMouse(msg)
		return m, nil

	case tickMsg:
		cols, rows := m.visualSize()
		w, h := m.renderer.PixelSize(cols, rows)
		if !m.session.OnTick(m.canvas, w, h) {
			m.elapsed = m.duration
			return m.quit("complete")
		}
		if w > 0 && h > 0 {
			m.frame = m.renderer.RenderCanvas(m.canvas, cols, rows)
		}
		m.elapsed = m.player.Position()
		m.paused = !m.player.Playing()
		m.gauge.update(m.player.Volume())
		return m, tickCmd(m.tick)

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		slog.Debug("window resized", "cols", msg.Width, "rows", msg.Height)
		return m, nil
	}

	return m, nil
}

func (m *Model) handleMouse(msg tea.MouseMsg) {
	if msg.Action != tea.MouseActionPress {
		return
	}
	switch msg.Button {
	case tea.MouseButtonLeft:
		m.session.OnPointer(visualizer.PointerLeft)
	case tea.MouseButtonMiddle:
		m.session.OnPointer(visualizer.PointerMiddle)
	case tea.MouseButtonRight:
		m.session.OnPointer(visualizer.PointerRight)
	case tea.MouseButtonWheelUp:
		m.session.OnScroll(1)
	case tea.MouseButtonWheelDown:
		m.session.OnScroll(-1)
	}
}

func (m Model) quit(reason string) (tea.Model, tea.Cmd) {
	slog.Info("closing", "reason", reason, "position", m.player.Position())
	m.quitting = true
	m.session.Close()
	m.player.Close()
	return m, tea.Sequence(tea.SetWindowTitle(""), tea.Quit)
}

// visualSize returns the cells left for the visualization.
func (m Model) visualSize() (cols, rows int) {
	return m.width, max(m.height-statusLines, 0)
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	if m.frame != "" {
		b.WriteString(m.frame)
		b.WriteByte('\n')
	}
	b.WriteString(m.statusLine())
	b.WriteByte('\n')
	b.WriteString(m.help.ShortHelpView(m.keys.ShortHelp()))
	return b.String()
}

func (m Model) statusLine() string {
	icon := "▶"
	if m.paused {
		icon = "❚❚"
	}
	left := fmt.Sprintf("%s %s  %s",
		statusStyle.Render(icon),
		titleStyle.Render(m.metadata.String()),
		timeStyle.Render(util.FormatDuration(m.elapsed)+" / "+util.FormatDuration(m.duration)),
	)
	right := m.gauge.render(m.player.Volume())

	gap := max(m.width-lipgloss.Width(left)-lipgloss.Width(right)-1, 2)
	return left + strings.Repeat(" ", gap) + right
}

func windowTitle(title string, paused bool) string {
	if paused {
		return "⏸ " + title + " - climpviz"
	}
	return "▶ " + title + " - climpviz"
}
