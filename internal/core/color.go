package core

// Color represents a foreground color for a screen cell.
// The TUI layer maps each value to an ANSI 256-color style.
type Color uint8

// Predefined colors used by the board and chart renderers.
const (
	ColorDefault Color = iota
	ColorRed
	ColorGreen
	ColorYellow
	ColorBrightGreen
	ColorBrightWhite
	ColorGray
)
