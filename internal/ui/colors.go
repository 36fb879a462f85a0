package ui

// Color accessor functions return the escape code for the corresponding
// category of the active theme. Presentation code calls these instead of
// hard-coding ANSI sequences so the no-color theme works everywhere.

// ColorGreen returns the success color of the active theme.
func ColorGreen() string { return GetCurrentTheme().Success }

// ColorRed returns the error color of the active theme.
func ColorRed() string { return GetCurrentTheme().Error }

// ColorYellow returns the warning color of the active theme.
func ColorYellow() string { return GetCurrentTheme().Warning }

// ColorBlue returns the primary color of the active theme.
func ColorBlue() string { return GetCurrentTheme().Primary }

// ColorCyan returns the info color of the active theme.
func ColorCyan() string { return GetCurrentTheme().Info }

// ColorGrey returns the secondary color of the active theme.
func ColorGrey() string { return GetCurrentTheme().Secondary }

// ColorBold returns the bold escape code of the active theme.
func ColorBold() string { return GetCurrentTheme().Bold }

// ColorUnderline returns the underline escape code of the active theme.
func ColorUnderline() string { return GetCurrentTheme().Underline }

// ColorReset returns the reset escape code of the active theme.
func ColorReset() string { return GetCurrentTheme().Reset }
