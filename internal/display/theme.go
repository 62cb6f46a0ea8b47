package display

import "github.com/charmbracelet/lipgloss"

// Theme styles the parts of a report. The zero value prints plain text.
type Theme struct {
	Color bool

	Label    lipgloss.Style
	Message  lipgloss.Style
	Solution lipgloss.Style
	Error    lipgloss.Style
	Dim      lipgloss.Style
}

// ColorTheme is the palette used on color-capable terminals.
func ColorTheme() Theme {
	return Theme{
		Color:    true,
		Label:    lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		Message:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		Solution: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42")),
		Error:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196")),
		Dim:      lipgloss.NewStyle().Foreground(lipgloss.Color("242")),
	}
}

func (t Theme) label(s string) string    { return t.apply(t.Label, s) }
func (t Theme) message(s string) string  { return t.apply(t.Message, s) }
func (t Theme) solution(s string) string { return t.apply(t.Solution, s) }
func (t Theme) err(s string) string      { return t.apply(t.Error, s) }
func (t Theme) dim(s string) string      { return t.apply(t.Dim, s) }

func (t Theme) apply(style lipgloss.Style, s string) string {
	if !t.Color {
		return s
	}
	return style.Render(s)
}
