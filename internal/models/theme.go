package models

import (
	"fmt"

	"github.com/desertthunder/kedoo/internal/shared"
)

// Theme is the persisted UI theme preference.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"

	// DefaultTheme applies when no preference has been stored.
	DefaultTheme = ThemeDark
)

// ParseTheme validates a user supplied theme name.
func ParseTheme(s string) (Theme, error) {
	switch t := Theme(s); t {
	case ThemeLight, ThemeDark:
		return t, nil
	default:
		return "", fmt.Errorf("%w: theme must be %q or %q, got %q", shared.ErrValidation, ThemeLight, ThemeDark, s)
	}
}

// Toggle returns the other theme.
func (t Theme) Toggle() Theme {
	if t == ThemeLight {
		return ThemeDark
	}
	return ThemeLight
}

func (t Theme) String() string { return string(t) }
