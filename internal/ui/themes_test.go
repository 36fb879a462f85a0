package ui

import (
	"testing"
)

// TestSetTheme verifies theme selection by name.
func TestSetTheme(t *testing.T) {
	defer SetCurrentTheme(DarkTheme)

	tests := []struct {
		name     string
		wantName string
	}{
		{"dark", "dark"},
		{"light", "light"},
		{"none", "none"},
		{"bogus", "dark"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			SetTheme(tt.name)
			if got := GetCurrentTheme().Name; got != tt.wantName {
				t.Errorf("SetTheme(%q) activated %q, want %q", tt.name, got, tt.wantName)
			}
		})
	}
}

// TestInitTheme_NoColorFlag verifies the flag wins over everything.
func TestInitTheme_NoColorFlag(t *testing.T) {
	defer SetCurrentTheme(DarkTheme)

	InitTheme(true)
	theme := GetCurrentTheme()
	if theme.Name != "none" {
		t.Errorf("InitTheme(true) should disable colors, got theme %q", theme.Name)
	}
	if theme.Success != "" || theme.Reset != "" {
		t.Error("no-color theme should have empty escape codes")
	}
}

// TestInitTheme_NoColorEnv verifies NO_COLOR handling.
func TestInitTheme_NoColorEnv(t *testing.T) {
	defer SetCurrentTheme(DarkTheme)

	t.Setenv("NO_COLOR", "1")
	InitTheme(false)
	if GetCurrentTheme().Name != "none" {
		t.Errorf("NO_COLOR env should disable colors, got %q", GetCurrentTheme().Name)
	}
}

// TestGetCurrentTUITheme verifies the TUI palette follows the CLI theme.
func TestGetCurrentTUITheme(t *testing.T) {
	defer SetCurrentTheme(DarkTheme)

	SetTheme("none")
	if GetCurrentTUITheme() != NoColorTUITheme {
		t.Error("none theme should map to NoColorTUITheme")
	}

	SetTheme("dark")
	if GetCurrentTUITheme() != DarkTUITheme {
		t.Error("dark theme should map to DarkTUITheme")
	}
}

// TestColorAccessors verifies accessors track the active theme.
func TestColorAccessors(t *testing.T) {
	defer SetCurrentTheme(DarkTheme)

	SetTheme("dark")
	if ColorGreen() != DarkTheme.Success {
		t.Error("ColorGreen should return the dark theme success code")
	}

	SetTheme("none")
	if ColorGreen() != "" || ColorReset() != "" {
		t.Error("color accessors should be empty under the no-color theme")
	}
}
