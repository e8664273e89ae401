// Package ui layout constants for consistent spacing and dimensions
package ui

// Layout constants for viewport and panel sizing
const (
	// Control areas
	HeaderHeight = 2 // title bar + page nav
	FooterHeight = 2 // divider + help line

	// Content widths
	MinCardWidth    = 20
	MinContentWidth = 40

	// Responsive breakpoints
	CompactModeWidth = 60
)

// LayoutConfig provides computed layout dimensions based on terminal size
type LayoutConfig struct {
	TerminalWidth  int
	TerminalHeight int
	IsCompact      bool
}

// NewLayoutConfig creates a layout configuration for the given terminal size
func NewLayoutConfig(width, height int) LayoutConfig {
	return LayoutConfig{
		TerminalWidth:  width,
		TerminalHeight: height,
		IsCompact:      width < CompactModeWidth,
	}
}

// ContentWidth returns the usable content width, never below MinContentWidth.
func (l LayoutConfig) ContentWidth() int {
	return max(l.TerminalWidth-4, MinContentWidth)
}

// ContentHeight returns the rows left for the body between header and footer.
func (l LayoutConfig) ContentHeight() int {
	return max(l.TerminalHeight-HeaderHeight-FooterHeight, 1)
}
