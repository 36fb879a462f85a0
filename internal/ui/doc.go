// Package ui provides terminal color themes shared by the CLI summary output
// and the TUI dashboard, including NO_COLOR handling.
package ui
