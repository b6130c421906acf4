package tui

import (
	"github.com/charmbracelet/lipgloss"

	"ThreadChat/internal/session"
)

var (
	titleStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	threadStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	userStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	assistantStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	timeStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	noticeStyle    = lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("8"))
	helpStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	dialogStyle    = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("11")).
			Padding(0, 1)

	statusStyles = map[session.Phase]lipgloss.Style{
		session.PhaseIdle:    lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		session.PhaseSending: lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
		session.PhaseError:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9")),
	}
)

func renderStatus(s session.Status) string {
	style, ok := statusStyles[s.Phase]
	if !ok {
		style = lipgloss.NewStyle()
	}
	return style.Render("● " + s.Label)
}
