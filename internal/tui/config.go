package tui

import (
	"time"

	"github.com/Veraticus/merchant-ops/internal/service"
	"github.com/Veraticus/merchant-ops/internal/tui/themes"
	"github.com/Veraticus/merchant-ops/internal/tui/viewmodel"
)

// DefaultLoadMoreDelay is the simulated latency of fetching the next page.
const DefaultLoadMoreDelay = time.Second

// Config holds TUI configuration.
type Config struct {
	Theme         themes.Theme
	Repository    service.MerchantRepository
	DetailOptions []viewmodel.DetailOption
	LoadMoreDelay time.Duration
	Width         int
	Height        int
	AltScreen     bool
}

// Option is a functional option for configuring the TUI.
type Option func(*Config)

func defaultConfig() Config {
	return Config{
		Theme:         themes.Default,
		LoadMoreDelay: DefaultLoadMoreDelay,
		Width:         100,
		Height:        30,
		AltScreen:     true,
	}
}

// WithRepository sets the merchant repository the console edits.
func WithRepository(repo service.MerchantRepository) Option {
	return func(c *Config) {
		c.Repository = repo
	}
}

// WithTheme sets the visual theme.
func WithTheme(theme themes.Theme) Option {
	return func(c *Config) {
		c.Theme = theme
	}
}

// WithSize sets the initial terminal size. Zero values keep the default.
func WithSize(width, height int) Option {
	return func(c *Config) {
		if width > 0 {
			c.Width = width
		}
		if height > 0 {
			c.Height = height
		}
	}
}

// WithLoadMoreDelay sets the simulated latency of loading the next page.
func WithLoadMoreDelay(d time.Duration) Option {
	return func(c *Config) {
		c.LoadMoreDelay = max(d, 0)
	}
}

// WithDetailOptions passes options to every detail panel the console opens.
func WithDetailOptions(opts ...viewmodel.DetailOption) Option {
	return func(c *Config) {
		c.DetailOptions = append(c.DetailOptions, opts...)
	}
}

// WithAltScreen controls whether the program takes over the full terminal.
func WithAltScreen(enabled bool) Option {
	return func(c *Config) {
		c.AltScreen = enabled
	}
}
