// Package ui provides the visual styling of the MyFarm terminal storefront.
package ui

import (
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	Leaf   = lipgloss.Color("#4CAF50")
	Soil   = lipgloss.Color("#6D4C41")
	Wheat  = lipgloss.Color("#F5DEB3")
	Cream  = lipgloss.Color("#FFFDF6")
	Night  = lipgloss.Color("#1B1F1A")
	Stone  = lipgloss.Color("#9E9E9E")
	Ash    = lipgloss.Color("#3A3F38")
	Danger = lipgloss.Color("#E53935")
	Amber  = lipgloss.Color("#FFB300")
	Sky    = lipgloss.Color("#29B6F6")
)

// Theme holds the current color scheme.
type Theme struct {
	Background lipgloss.Color
	Foreground lipgloss.Color
	Primary    lipgloss.Color
	Accent     lipgloss.Color
	Muted      lipgloss.Color
	Border     lipgloss.Color
	IsDark     bool
}

func LightTheme() Theme {
	return Theme{
		Background: Cream,
		Foreground: Night,
		Primary:    Leaf,
		Accent:     Soil,
		Muted:      Stone,
		Border:     Wheat,
	}
}

func DarkTheme() Theme {
	return Theme{
		Background: Night,
		Foreground: Cream,
		Primary:    Leaf,
		Accent:     Wheat,
		Muted:      Stone,
		Border:     Ash,
		IsDark:     true,
	}
}

// DetectTheme picks the dark theme when MYFARM_DARK_MODE=1.
func DetectTheme() Theme {
	if os.Getenv("MYFARM_DARK_MODE") == "1" {
		return DarkTheme()
	}
	return LightTheme()
}

// Styles holds all the styled components.
type Styles struct {
	Theme Theme

	Header lipgloss.Style
	Footer lipgloss.Style
	Title  lipgloss.Style
	Body   lipgloss.Style
	Muted  lipgloss.Style
	Label  lipgloss.Style

	Success lipgloss.Style
	Error   lipgloss.Style
	Warning lipgloss.Style
	Info    lipgloss.Style

	Cell        lipgloss.Style
	CellFocused lipgloss.Style
	CellLocked  lipgloss.Style

	Card         lipgloss.Style
	CardSelected lipgloss.Style

	Button         lipgloss.Style
	ButtonDisabled lipgloss.Style
	Spinner        lipgloss.Style
}

func NewStyles(theme Theme) Styles {
	cell := lipgloss.NewStyle().
		Width(3).
		Align(lipgloss.Center).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Foreground(theme.Foreground)

	card := lipgloss.NewStyle().
		Width(24).
		Padding(0, 1).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border)

	button := lipgloss.NewStyle().
		Padding(0, 2).
		Background(theme.Primary).
		Foreground(lipgloss.Color("#ffffff")).
		Bold(true)

	return Styles{
		Theme: theme,

		Header: lipgloss.NewStyle().
			Background(theme.Primary).
			Foreground(lipgloss.Color("#ffffff")).
			Padding(0, 2).
			Bold(true),
		Footer: lipgloss.NewStyle().
			Foreground(theme.Muted).
			Padding(0, 2),
		Title: lipgloss.NewStyle().
			Foreground(theme.Primary).
			Bold(true).
			MarginBottom(1),
		Body:  lipgloss.NewStyle().Foreground(theme.Foreground),
		Muted: lipgloss.NewStyle().Foreground(theme.Muted),
		Label: lipgloss.NewStyle().Foreground(theme.Accent).Bold(true),

		Success: lipgloss.NewStyle().Foreground(Leaf).Bold(true),
		Error:   lipgloss.NewStyle().Foreground(Danger).Bold(true),
		Warning: lipgloss.NewStyle().Foreground(Amber).Bold(true),
		Info:    lipgloss.NewStyle().Foreground(Sky),

		Cell:        cell,
		CellFocused: cell.BorderForeground(theme.Primary).Bold(true),
		CellLocked:  cell.BorderForeground(theme.Muted).Foreground(theme.Muted),

		Card:         card,
		CardSelected: card.BorderForeground(theme.Primary).BorderStyle(lipgloss.ThickBorder()),

		Button:         button,
		ButtonDisabled: button.Background(theme.Muted),
		Spinner:        lipgloss.NewStyle().Foreground(theme.Primary),
	}
}

// DefaultStyles returns styles for the detected theme.
func DefaultStyles() Styles {
	return NewStyles(DetectTheme())
}

// RenderDivider returns a horizontal divider.
func (s Styles) RenderDivider(width int) string {
	if width <= 0 {
		width = 40
	}
	return s.Muted.Render(strings.Repeat("─", width))
}

// RenderButton renders label as enabled or disabled.
func (s Styles) RenderButton(label string, enabled bool) string {
	if !enabled {
		return s.ButtonDisabled.Render(label)
	}
	return s.Button.Render(label)
}
