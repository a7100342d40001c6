package tui

import "github.com/Veraticus/thirteenf/internal/tui/themes"

// Config holds TUI configuration.
type Config struct {
	Theme           themes.Theme
	Width           int
	Height          int
	ShowLineNumbers bool
	MouseSupport    bool
}

// Option is a functional option for configuring the TUI.
type Option func(*Config)

// defaultConfig returns the default configuration.
func defaultConfig() Config {
	return Config{
		Theme:           themes.Default,
		Width:           80,
		Height:          24,
		ShowLineNumbers: true,
		MouseSupport:    true,
	}
}

// WithTheme sets the color theme.
func WithTheme(theme themes.Theme) Option {
	return func(c *Config) {
		c.Theme = theme
	}
}

// WithSize sets the initial size used before the terminal reports one.
func WithSize(width, height int) Option {
	return func(c *Config) {
		c.Width = width
		c.Height = height
	}
}

// WithLineNumbers controls the line number gutter.
func WithLineNumbers(show bool) Option {
	return func(c *Config) {
		c.ShowLineNumbers = show
	}
}

// WithMouse enables wheel scrolling.
func WithMouse(enabled bool) Option {
	return func(c *Config) {
		c.MouseSupport = enabled
	}
}
