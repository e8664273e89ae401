// Package ui provides the visual styling and the stateless building blocks
// (preview cards, author badges, buttons, status lines) of the feed browser.
package ui

import (
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Palette. The greens come from the web client's buttons and preview cards.
var (
	// Light Mode Colors (Default)
	LightBackground = lipgloss.Color("#ffffff")
	LightForeground = lipgloss.Color("#1b2a1e")
	LightPrimary    = lipgloss.Color("#2e7d32") // Deep green
	LightAccent     = lipgloss.Color("#57ed70") // rgb(87, 237, 112)
	LightCard       = lipgloss.Color("#f2ffe7") // rgb(242, 255, 231)
	LightMuted      = lipgloss.Color("#7b8a7e")
	LightBorder     = lipgloss.Color("#cfe8c4")

	// Dark Mode Colors
	DarkBackground = lipgloss.Color("#101a12")
	DarkForeground = lipgloss.Color("#eef5ee")
	DarkPrimary    = lipgloss.Color("#57ed70") // Flipped
	DarkAccent     = lipgloss.Color("#90ee90") // lightgreen
	DarkCard       = lipgloss.Color("#1b2a1e")
	DarkMuted      = lipgloss.Color("#8fa592")
	DarkBorder     = lipgloss.Color("#2f4a33")

	// Semantic Colors (same in both modes)
	Destructive = lipgloss.Color("#e53935")
	Warning     = lipgloss.Color("#FFC107")
)

// Theme holds the current color scheme
type Theme struct {
	Background lipgloss.Color
	Foreground lipgloss.Color
	Primary    lipgloss.Color
	Accent     lipgloss.Color
	Card       lipgloss.Color
	Muted      lipgloss.Color
	Border     lipgloss.Color
	IsDark     bool
}

// LightTheme returns the light mode theme
func LightTheme() Theme {
	return Theme{
		Background: LightBackground,
		Foreground: LightForeground,
		Primary:    LightPrimary,
		Accent:     LightAccent,
		Card:       LightCard,
		Muted:      LightMuted,
		Border:     LightBorder,
	}
}

// DarkTheme returns the dark mode theme
func DarkTheme() Theme {
	return Theme{
		Background: DarkBackground,
		Foreground: DarkForeground,
		Primary:    DarkPrimary,
		Accent:     DarkAccent,
		Card:       DarkCard,
		Muted:      DarkMuted,
		Border:     DarkBorder,
		IsDark:     true,
	}
}

// DetectTheme guesses from COLORFGBG, then FEED_DARK_MODE, else light.
func DetectTheme() Theme {
	// Format is usually "foreground;background"
	if parts := strings.Split(os.Getenv("COLORFGBG"), ";"); len(parts) == 2 {
		if bgIdx, err := strconv.Atoi(parts[1]); err == nil {
			// 0-6 and 8 (dark grey) are dark backgrounds
			if (bgIdx >= 0 && bgIdx <= 6) || bgIdx == 8 {
				return DarkTheme()
			}
		}
	}

	if os.Getenv("FEED_DARK_MODE") == "1" {
		return DarkTheme()
	}
	return LightTheme()
}

// ThemeFor resolves a configured theme name ("light", "dark", anything else
// means auto-detect).
func ThemeFor(name string) Theme {
	switch name {
	case "light":
		return LightTheme()
	case "dark":
		return DarkTheme()
	default:
		return DetectTheme()
	}
}

// Styles holds all the styled components
type Styles struct {
	Theme Theme

	// Layout
	Header  lipgloss.Style
	Footer  lipgloss.Style
	Content lipgloss.Style

	// Text
	Title lipgloss.Style
	Body  lipgloss.Style
	Muted lipgloss.Style
	Bold  lipgloss.Style

	// Feed
	Card         lipgloss.Style
	SelectedCard lipgloss.Style
	Author       lipgloss.Style
	Avatar       lipgloss.Style
	Button       lipgloss.Style
	PageNumber   lipgloss.Style

	// Status
	Error   lipgloss.Style
	Warning lipgloss.Style
	Spinner lipgloss.Style
}

// NewStyles creates a new Styles instance with the given theme
func NewStyles(theme Theme) Styles {
	card := lipgloss.NewStyle().
		Background(theme.Card).
		Foreground(theme.Foreground).
		Padding(0, 1).
		MarginBottom(1).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border)

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

		Content: lipgloss.NewStyle().
			Padding(1, 2),

		Title: lipgloss.NewStyle().
			Foreground(theme.Primary).
			Bold(true),

		Body: lipgloss.NewStyle().
			Foreground(theme.Foreground),

		Muted: lipgloss.NewStyle().
			Foreground(theme.Muted),

		Bold: lipgloss.NewStyle().
			Foreground(theme.Foreground).
			Bold(true),

		Card: card,

		SelectedCard: card.
			BorderStyle(lipgloss.ThickBorder()).
			BorderForeground(theme.Accent),

		Author: lipgloss.NewStyle().
			Foreground(theme.Primary).
			Bold(true),

		Avatar: lipgloss.NewStyle().
			Foreground(theme.Muted).
			Italic(true),

		Button: lipgloss.NewStyle().
			Background(theme.Accent).
			Foreground(lipgloss.Color("#000000")).
			Padding(0, 1),

		PageNumber: lipgloss.NewStyle().
			Foreground(theme.Primary).
			Bold(true).
			Padding(0, 2),

		Error: lipgloss.NewStyle().
			Foreground(Destructive).
			Bold(true),

		Warning: lipgloss.NewStyle().
			Foreground(Warning).
			Bold(true),

		Spinner: lipgloss.NewStyle().
			Foreground(theme.Accent),
	}
}

// DefaultStyles returns styles for the detected theme
func DefaultStyles() Styles {
	return NewStyles(DetectTheme())
}

// RenderDivider returns a horizontal divider
func (s Styles) RenderDivider(width int) string {
	if width < 1 {
		width = 1
	}
	return s.Muted.Render(strings.Repeat("─", width))
}
