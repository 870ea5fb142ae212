package main

import "github.com/charmbracelet/lipgloss"

const accentColor = "#7D56F4"

var (
	headingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(accentColor)).
			Bold(true)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888"))
)

// heading renders a title underlined with box-drawing rules.
func heading(title string) string {
	rule := make([]rune, len([]rune(title)))
	for i := range rule {
		rule[i] = '─'
	}
	return headingStyle.Render(title) + "\n" + string(rule)
}
