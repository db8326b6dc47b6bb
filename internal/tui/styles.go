package tui

import "github.com/charmbracelet/lipgloss"

const (
	defaultListWidth  = 72
	defaultListHeight = 20
)

type rowStyles struct {
	normal   lipgloss.Style
	selected lipgloss.Style
	title    lipgloss.Style
	author   lipgloss.Style
	price    lipgloss.Style
	genre    lipgloss.Style
	cover    lipgloss.Style
	noCover  lipgloss.Style
}

func newRowStyles() rowStyles {
	asciiBorder := lipgloss.Border{
		Top:         "-",
		Bottom:      "-",
		Left:        "|",
		Right:       "|",
		TopLeft:     "+",
		TopRight:    "+",
		BottomLeft:  "+",
		BottomRight: "+",
	}

	container := lipgloss.NewStyle().
		Border(asciiBorder).
		BorderForeground(lipgloss.Color("62")).
		Padding(0, 1).
		Foreground(lipgloss.Color("252"))

	return rowStyles{
		normal: container,
		selected: container.Copy().
			BorderForeground(lipgloss.Color("214")).
			Foreground(lipgloss.Color("230")).
			Background(lipgloss.Color("237")),
		title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("254")),
		author: lipgloss.NewStyle().
			Foreground(lipgloss.Color("248")),
		price: lipgloss.NewStyle().
			Foreground(lipgloss.Color("178")),
		genre: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("110")),
		cover: lipgloss.NewStyle().
			Foreground(lipgloss.Color("247")).
			Faint(true),
		noCover: lipgloss.NewStyle().
			Foreground(lipgloss.Color("161")).
			Faint(true),
	}
}

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("214")).
			MarginBottom(1)

	filterStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("110"))

	statusStyle = lipgloss.NewStyle().
			MarginTop(1).
			Foreground(lipgloss.Color("178"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("161"))

	confirmStyle = lipgloss.NewStyle().
			MarginTop(1).
			Padding(0, 2).
			Background(lipgloss.Color("161")).
			Foreground(lipgloss.Color("230")).
			Bold(true)

	formStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(1, 2)

	labelStyle = lipgloss.NewStyle().
			Width(13).
			Foreground(lipgloss.Color("247"))

	focusedLabelStyle = labelStyle.Copy().
				Foreground(lipgloss.Color("214")).
				Bold(true)

	helpStyle = lipgloss.NewStyle().
			MarginTop(1).
			Foreground(lipgloss.Color("244"))
)
