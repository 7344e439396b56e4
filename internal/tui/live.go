// Package tui renders a live terminal view of a propagation run.
package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
)

const historyCapacity = 240

var (
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(16)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
	errStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true)
)

// StepMsg reports one committed propagation step.
type StepMsg struct {
	Step          int
	Z             float64
	PeakIntensity float64
	PeakDensity   float64
	Radius        float64
}

// DoneMsg reports run completion.
type DoneMsg struct {
	Err error
}

// Model is the bubbletea model for the live view.
type Model struct {
	totalSteps int
	step       int
	z          float64
	peakI      float64
	peakD      float64
	radius     float64
	history    []float64
	start      time.Time
	done       bool
	err        error
}

// NewModel builds a live view for a run of totalSteps.
func NewModel(totalSteps int) Model {
	return Model{
		totalSteps: totalSteps,
		history:    make([]float64, 0, historyCapacity),
		start:      time.Now(),
	}
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case StepMsg:
		m.step = msg.Step
		m.z = msg.Z
		m.peakI = msg.PeakIntensity
		m.peakD = msg.PeakDensity
		m.radius = msg.Radius
		if len(m.history) == historyCapacity {
			m.history = m.history[1:]
		}
		m.history = append(m.history, msg.PeakIntensity)
		return m, nil

	case DoneMsg:
		m.done = true
		m.err = msg.Err
		return m, tea.Quit

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(headerStyle.Render("filament propagation"))
	b.WriteString("\n")

	row := func(label, value string) {
		b.WriteString(labelStyle.Render(label))
		b.WriteString(valueStyle.Render(value))
		b.WriteString("\n")
	}

	row("step", fmt.Sprintf("%d / %d", m.step, m.totalSteps))
	row("z", fmt.Sprintf("%.4g m", m.z))
	row("peak intensity", fmt.Sprintf("%.4g", m.peakI))
	row("peak density", fmt.Sprintf("%.4g", m.peakD))
	row("beam radius", fmt.Sprintf("%.4g m", m.radius))
	row("elapsed", time.Since(m.start).Round(time.Millisecond).String())

	if len(m.history) > 1 {
		graph := asciigraph.Plot(m.history,
			asciigraph.Height(8),
			asciigraph.Width(70),
			asciigraph.Caption("on-axis peak intensity"),
		)
		b.WriteString(graphStyle.Render(graph))
		b.WriteString("\n")
	}

	if m.err != nil {
		b.WriteString(errStyle.Render("run aborted: " + m.err.Error()))
		b.WriteString("\n")
	}

	b.WriteString(helpStyle.Render("q: quit"))
	b.WriteString("\n")

	return b.String()
}
