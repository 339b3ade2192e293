// Package live is the interactive terminal front end: it paces a session
// against the wall clock and renders the trajectory plan view, a yaw-rate
// trace and the latest telemetry.
package live

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/vehlab/internal/session"
)

const (
	canvasWidth     = 48
	canvasHeight    = 18
	historyCapacity = 600
	trailCapacity   = 2000
)

var (
	canvasStyle = lipgloss.NewStyle().Padding(1, 2)
	statsStyle  = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("240")).Padding(1, 2).Width(46)
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(12)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true)
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
)

type TickMsg time.Time

// Model is the bubbletea state for one live session.
type Model struct {
	sess       *session.Session
	modelID    string
	scenarioID string
	speed      float64

	canvas  *Canvas
	trail   []Point
	yawHist []float64
	last    session.Tick
	errMsg  string
}

func NewModel(sess *session.Session, modelID, scenarioID string) Model {
	return Model{
		sess:       sess,
		modelID:    modelID,
		scenarioID: scenarioID,
		speed:      1,
		canvas:     NewCanvas(canvasWidth, canvasHeight),
		trail:      make([]Point, 0, trailCapacity),
		yawHist:    make([]float64, 0, historyCapacity),
	}
}

func (m Model) Init() tea.Cmd {
	return m.tickCmd()
}

func (m Model) tickCmd() tea.Cmd {
	return tea.Tick(m.sess.SimInterval(), func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			if m.sess.Status() == session.StatusRunning {
				m.sess.Pause()
			} else {
				m.sess.Resume()
			}
		case "r":
			if tick, err := m.sess.Reset(); err == nil {
				m.last = tick
				m.trail = m.trail[:0]
				m.yawHist = m.yawHist[:0]
				m.errMsg = ""
			}
		case "+", "=":
			m.setSpeed(m.speed * 2)
		case "-", "_":
			m.setSpeed(m.speed / 2)
		}
	case TickMsg:
		tick, err := m.sess.Tick()
		if err != nil {
			m.errMsg = err.Error()
			return m, nil
		}
		m.last = tick

		if m.sess.Status() == session.StatusRunning {
			m.trail = append(m.trail, Point{X: tick.Telemetry.X, Y: tick.Telemetry.Y})
			if len(m.trail) > trailCapacity {
				m.trail = m.trail[1:]
			}
			m.yawHist = append(m.yawHist, tick.Telemetry.YawRate)
			if len(m.yawHist) > historyCapacity {
				m.yawHist = m.yawHist[1:]
			}
		}
		return m, m.tickCmd()
	}
	return m, nil
}

func (m *Model) setSpeed(mult float64) {
	if mult < 0.125 {
		mult = 0.125
	}
	if mult > 16 {
		mult = 16
	}
	if err := m.sess.SetSpeed(mult); err == nil {
		m.speed = mult
	}
}

func (m Model) View() string {
	m.canvas.PlotTrajectory(m.trail)
	canvasView := canvasStyle.Render(m.canvas.String())

	var s strings.Builder
	s.WriteString(headerStyle.Render(strings.ToUpper(m.modelID)+" / "+m.scenarioID) + "\n")

	status := "RUNNING"
	if m.sess.Status() == session.StatusPaused {
		status = "PAUSED"
	}
	s.WriteString(fmt.Sprintf("%s  %gx\n\n", status, m.speed))

	if len(m.yawHist) > 1 {
		chart := asciigraph.Plot(m.yawHist,
			asciigraph.Height(5), asciigraph.Width(32),
			asciigraph.Caption("yaw rate (rad/s)"))
		s.WriteString(graphStyle.Render(chart) + "\n\n")
	}

	tel := m.last.Telemetry
	s.WriteString(labelStyle.Render("Time") + valueStyle.Render(fmt.Sprintf("%.2fs", m.last.T)) + "\n")
	s.WriteString(labelStyle.Render("Yaw rate") + valueStyle.Render(fmt.Sprintf("%.4f rad/s", tel.YawRate)) + "\n")
	s.WriteString(labelStyle.Render("Lat accel") + valueStyle.Render(fmt.Sprintf("%.3f g", tel.LatAccel/9.81)) + "\n")
	s.WriteString(labelStyle.Render("Sideslip") + valueStyle.Render(fmt.Sprintf("%.4f rad", tel.Sideslip)) + "\n")
	s.WriteString(labelStyle.Render("Heading") + valueStyle.Render(fmt.Sprintf("%.3f rad", tel.Heading)) + "\n")

	if tel.Notes["limitFront"] == 1 || tel.Notes["limitRear"] == 1 {
		s.WriteString("\n" + warnStyle.Render("FRICTION LIMITED") + "\n")
	}
	if m.errMsg != "" {
		s.WriteString("\n" + warnStyle.Render(m.errMsg) + "\n")
	}

	s.WriteString(helpStyle.Render("\nSP:Pause R:Reset +/-:Speed Q:Quit"))

	statsView := statsStyle.Render(s.String())
	return lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsView)
}
