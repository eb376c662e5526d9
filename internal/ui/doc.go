// Package ui provides theme and color support for terminal output: ANSI
// escape codes for inline coloring and lipgloss styles for titles. Colors
// are disabled by -no-color or the NO_COLOR environment variable.
package ui
