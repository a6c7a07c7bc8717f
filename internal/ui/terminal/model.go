// Package terminal renders a breathing session in a terminal.
package terminal

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"syncbreath/internal/core/model"
	"syncbreath/internal/ui/animation"
)

const barWidth = 40

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#78C8BE"))
	quoteStyle = lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("245"))
	phaseStyle = lipgloss.NewStyle().Bold(true).Width(barWidth).Align(lipgloss.Center)
	barStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#78C8BE"))
	helpStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// Controller is the part of the session the renderer drives.
type Controller interface {
	animation.Source
	Toggle()
}

// CompletedMsg tells the model the session reached its length.
type CompletedMsg struct {
	Cycles uint64
}

type frameMsg time.Time

// Model is a bubbletea model showing one session.
type Model struct {
	controller Controller
	mode       model.Mode
	animation  animation.Config
	renderer   *animation.Engine
	interval   time.Duration
	frame      animation.Frame
	completed  bool
	cycles     uint64
}

// New creates a model for mode.
func New(controller Controller, mode model.Mode) Model {
	config := animation.DefaultConfig()
	return Model{
		controller: controller,
		mode:       mode,
		animation:  config,
		renderer:   animation.New(config, nil),
		interval:   config.FrameInterval,
	}
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.interval, func(at time.Time) tea.Msg {
		return frameMsg(at)
	})
}

// Init starts the frame loop.
func (m Model) Init() tea.Cmd {
	return m.tick()
}

// Update handles keys, frames and completion.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case " ", "space", "p":
			m.controller.Toggle()
			m.completed = false
		}
		return m, nil
	case frameMsg:
		m.frame = m.renderer.FrameFor(m.controller.Snapshot())
		return m, m.tick()
	case CompletedMsg:
		m.completed = true
		m.cycles = msg.Cycles
		return m, nil
	}
	return m, nil
}

// View renders the session.
func (m Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(m.mode.Title))
	b.WriteString("\n")
	b.WriteString(quoteStyle.Render(m.mode.Description))
	b.WriteString("\n\n")

	label := m.frame.Label
	if !m.frame.Running {
		label = "Paused"
	}
	if m.completed {
		label = fmt.Sprintf("Session complete, %d cycles", m.cycles)
	}
	b.WriteString(phaseStyle.Render(label))
	b.WriteString("\n")
	b.WriteString(barStyle.Render(Bar(m.frame.Scale, m.animation, barWidth)))
	b.WriteString("\n")

	remaining := ""
	if m.frame.Running && m.frame.Remaining > 0 {
		remaining = fmt.Sprintf("%ds", int((m.frame.Remaining+time.Second-1)/time.Second))
	}
	b.WriteString(fmt.Sprintf("%-*s cycle %d\n\n", barWidth-10, remaining, m.frame.Cycle+1))
	b.WriteString(helpStyle.Render("space: start/pause • q: quit"))
	return b.String()
}

// Bar draws a centred bar whose length follows the circle scale.
func Bar(scale float64, config animation.Config, width int) string {
	span := config.MaxScale - config.MinScale
	fraction := 0.0
	if span > 0 {
		fraction = (scale - config.MinScale) / span
	}
	if fraction < 0 {
		fraction = 0
	}
	if fraction > 1 {
		fraction = 1
	}
	filled := 2 + int(fraction*float64(width-2)+0.5)
	if filled > width {
		filled = width
	}
	pad := (width - filled) / 2
	return strings.Repeat(" ", pad) + strings.Repeat("█", filled) + strings.Repeat(" ", width-filled-pad)
}
