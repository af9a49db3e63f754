package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Status is the reassembly snapshot the status view renders. It is
// the same payload the non-TUI renderer receives.
type Status struct {
	SessionID  string `json:"session_id"`
	State      string `json:"state"`
	Media      string `json:"media"`
	Have       int    `json:"have"`
	Total      int    `json:"total"`
	Missing    []int  `json:"missing"`
	Accepted   int    `json:"accepted"`
	Duplicates int    `json:"duplicates"`
	Rejected   int    `json:"rejected"`
}

// StatusModel is a Bubble Tea model for the session status view.
type StatusModel struct {
	status   Status
	bar      progress.Model
	width    int
	quitting bool
}

// NewStatusModel creates a new status model.
func NewStatusModel(status Status) StatusModel {
	bar := progress.New(progress.WithDefaultGradient())
	return StatusModel{status: status, bar: bar}
}

// Init implements tea.Model.
func (m StatusModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m StatusModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.bar.Width = msg.Width - 8
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, keys.Quit) {
			m.quitting = true
			return m, tea.Quit
		}
	}

	return m, nil
}

// View implements tea.Model.
func (m StatusModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(TitleStyle.Render("Reassembly Session"))
	b.WriteString("\n\n")

	b.WriteString(renderField("Session", m.status.SessionID))
	b.WriteString(renderStyledField("State", m.status.State, StateStyle(m.status.State)))
	b.WriteString(renderField("Media", m.status.Media))
	b.WriteString("\n")

	if m.status.Total > 0 {
		b.WriteString(m.bar.ViewAs(float64(m.status.Have) / float64(m.status.Total)))
		b.WriteString("\n")
		b.WriteString(LabelStyle.Render("Volumes"))
		b.WriteString(ValueStyle.Render(fmt.Sprintf("%d / %d", m.status.Have, m.status.Total)))
		b.WriteString("\n")
	}

	if len(m.status.Missing) > 0 {
		b.WriteString(renderStyledField("Missing", joinInts(m.status.Missing), WarningStyle))
	}
	b.WriteString("\n")

	boxes := []string{
		m.renderStatBox("Accepted", m.status.Accepted, successColor),
		m.renderStatBox("Duplicates", m.status.Duplicates, highlightColor),
		m.renderStatBox("Rejected", m.status.Rejected, errorColor),
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, boxes...))

	help := HelpStyle.Render("Press q or Ctrl+C to quit")
	return b.String() + "\n" + help
}

func (m StatusModel) renderStatBox(label string, value int, color lipgloss.Color) string {
	boxStyle := StatBoxStyle.BorderForeground(color)

	valueStr := StatValueStyle.Foreground(color).Render(fmt.Sprintf("%d", value))
	labelStr := StatLabelStyle.Render(label)

	content := lipgloss.JoinVertical(lipgloss.Center, valueStr, labelStr)

	return boxStyle.Render(content)
}

func renderField(label, value string) string {
	return renderStyledField(label, value, ValueStyle)
}

func renderStyledField(label, value string, style lipgloss.Style) string {
	return LabelStyle.Render(label) + style.Render(value) + "\n"
}

func joinInts(vals []int) string {
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = fmt.Sprintf("%d", v)
	}
	return strings.Join(parts, ", ")
}

// keyMap defines key bindings.
type keyMap struct {
	Quit key.Binding
}

var keys = keyMap{
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

// RunStatusTUI runs the session status TUI.
func RunStatusTUI(status Status) error {
	model := NewStatusModel(status)
	p := tea.NewProgram(model, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// RenderStatusStatic renders the status view without full TUI (for
// non-interactive fallback).
func RenderStatusStatic(status Status) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Session:  %s\n", status.SessionID))
	b.WriteString(fmt.Sprintf("State:    %s\n", status.State))
	b.WriteString(fmt.Sprintf("Media:    %s\n", status.Media))
	if status.Total > 0 {
		b.WriteString(fmt.Sprintf("Volumes:  %d / %d\n", status.Have, status.Total))
	}
	if len(status.Missing) > 0 {
		b.WriteString(fmt.Sprintf("Missing:  %s\n", joinInts(status.Missing)))
	}
	return b.String()
}
