package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/addcalc/internal/ui"
)

// Style variables for the dashboard, rebuilt from the ui theme by
// initTUIStyles.
var (
	panelStyle     lipgloss.Style
	titleStyle     lipgloss.Style
	dimStyle       lipgloss.Style
	selectedStyle  lipgloss.Style
	runningStyle   lipgloss.Style
	doneStyle      lipgloss.Style
	errorStyle     lipgloss.Style
	awaitingStyle  lipgloss.Style
	footerKeyStyle lipgloss.Style
)

func init() {
	initTUIStyles()
}

// initTUIStyles rebuilds all styles from the current ui theme.
// Called at package init and again from Run after InitTheme has been
// invoked.
func initTUIStyles() {
	plain := ui.GetCurrentTheme().Name == ui.NoColorTheme.Name
	color := func(c string) lipgloss.TerminalColor {
		if plain {
			return lipgloss.NoColor{}
		}
		return lipgloss.Color(c)
	}

	panelStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(color("240")).
		Padding(0, 1)

	titleStyle = ui.TitleStyle()

	dimStyle = lipgloss.NewStyle().Foreground(color("245"))

	selectedStyle = lipgloss.NewStyle().Foreground(color("39")).Bold(!plain)

	runningStyle = lipgloss.NewStyle().Foreground(color("220"))

	doneStyle = lipgloss.NewStyle().Foreground(color("82"))

	errorStyle = lipgloss.NewStyle().Foreground(color("196")).Bold(!plain)

	awaitingStyle = lipgloss.NewStyle().Foreground(color("141"))

	footerKeyStyle = lipgloss.NewStyle().Foreground(color("39")).Bold(!plain)
}
