package style

import (
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// ThemeMode is the configured colour scheme.
type ThemeMode string

const (
	ThemeModeAuto  ThemeMode = "auto"
	ThemeModeDark  ThemeMode = "dark"
	ThemeModeLight ThemeMode = "light"
)

func init() {
	if !ShouldUseColor() {
		lipgloss.SetColorProfile(termenv.Ascii)
	} else {
		lipgloss.SetColorProfile(termenv.ANSI256)
	}
}

// InitTheme applies the theme from $SELECTION_THEME or, failing that, the
// configured value. Unknown values mean auto.
func InitTheme(configTheme string) ThemeMode {
	mode := ResolveThemeMode(configTheme)
	if ShouldUseColor() {
		switch mode {
		case ThemeModeDark:
			lipgloss.SetHasDarkBackground(true)
		case ThemeModeLight:
			lipgloss.SetHasDarkBackground(false)
		default:
			lipgloss.SetHasDarkBackground(termenv.HasDarkBackground())
		}
	}
	return mode
}

// ResolveThemeMode picks the theme, environment first.
func ResolveThemeMode(configTheme string) ThemeMode {
	for _, v := range []string{os.Getenv("SELECTION_THEME"), configTheme} {
		switch ThemeMode(strings.ToLower(v)) {
		case ThemeModeDark:
			return ThemeModeDark
		case ThemeModeLight:
			return ThemeModeLight
		case ThemeModeAuto:
			return ThemeModeAuto
		}
	}
	return ThemeModeAuto
}

// IsTerminal returns true if stdout is connected to a terminal (TTY).
func IsTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// ShouldUseColor determines if ANSI color codes should be used.
// Respects NO_COLOR (https://no-color.org/), CLICOLOR, and CLICOLOR_FORCE conventions.
func ShouldUseColor() bool {
	if _, exists := os.LookupEnv("NO_COLOR"); exists {
		return false
	}
	if os.Getenv("CLICOLOR") == "0" {
		return false
	}
	if _, exists := os.LookupEnv("CLICOLOR_FORCE"); exists {
		return true
	}
	return IsTerminal()
}
