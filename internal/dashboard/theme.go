package dashboard

import "github.com/charmbracelet/lipgloss"

// Theme is the color palette used by the terminal views
type Theme struct {
	Title    lipgloss.Color
	Muted    lipgloss.Color
	Border   lipgloss.Color
	Normal   lipgloss.Color
	Warning  lipgloss.Color
	Critical lipgloss.Color
	PowerOn  lipgloss.Color
	PowerOff lipgloss.Color
	NormalFg lipgloss.Color
}

// DefaultTheme targets dark terminals
var DefaultTheme = Theme{
	Title:    lipgloss.Color("39"),
	Muted:    lipgloss.Color("245"),
	Border:   lipgloss.Color("240"),
	Normal:   lipgloss.Color("42"),
	Warning:  lipgloss.Color("214"),
	Critical: lipgloss.Color("196"),
	PowerOn:  lipgloss.Color("42"),
	PowerOff: lipgloss.Color("245"),
	NormalFg: lipgloss.Color("252"),
}
