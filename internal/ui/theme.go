package ui

import "github.com/charmbracelet/lipgloss"

// styles groups the lipgloss styles the views render with.
type styles struct {
	Header     lipgloss.Style
	Selected   lipgloss.Style
	IssueKey   lipgloss.Style
	Status     lipgloss.Style
	Dim        lipgloss.Style
	TimerLine  lipgloss.Style
	Flash      lipgloss.Style
	FlashError lipgloss.Style
	Offline    lipgloss.Style
}

func defaultStyles() styles {
	return styles{
		Header: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")),
		Selected: lipgloss.NewStyle().
			Foreground(lipgloss.Color("229")).
			Background(lipgloss.Color("57")),
		IssueKey: lipgloss.NewStyle().
			Foreground(lipgloss.Color("81")),
		Status: lipgloss.NewStyle().
			Foreground(lipgloss.Color("114")),
		Dim: lipgloss.NewStyle().
			Foreground(lipgloss.Color("243")),
		TimerLine: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("214")),
		Flash: lipgloss.NewStyle().
			Foreground(lipgloss.Color("114")),
		FlashError: lipgloss.NewStyle().
			Foreground(lipgloss.Color("203")),
		Offline: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("203")),
	}
}
