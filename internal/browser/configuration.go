package browser

import (
	"strings"
	"time"
)

const (
	defaultViewportWidthConstant     = 1920
	defaultViewportHeightConstant    = 1080
	defaultNavigationTimeoutConstant = 45 * time.Second
	defaultReadyTimeoutConstant      = 10 * time.Second
	defaultSettleDelayConstant       = 5 * time.Second
)

// Configuration describes how Chrome is launched and how long page loads may take.
type Configuration struct {
	Headless          bool          `mapstructure:"headless"`
	NoSandbox         bool          `mapstructure:"no_sandbox"`
	BinaryPath        string        `mapstructure:"binary_path"`
	UserAgent         string        `mapstructure:"user_agent"`
	ViewportWidth     int           `mapstructure:"viewport_width"`
	ViewportHeight    int           `mapstructure:"viewport_height"`
	NavigationTimeout time.Duration `mapstructure:"navigation_timeout"`
	ReadyTimeout      time.Duration `mapstructure:"ready_timeout"`
	SettleDelay       time.Duration `mapstructure:"settle_delay"`
	ExtraFlags        []string      `mapstructure:"extra_flags"`
}

// DefaultConfiguration returns headless settings with a 1920x1080 viewport.
func DefaultConfiguration() Configuration {
	return Configuration{
		Headless:          true,
		ViewportWidth:     defaultViewportWidthConstant,
		ViewportHeight:    defaultViewportHeightConstant,
		NavigationTimeout: defaultNavigationTimeoutConstant,
		ReadyTimeout:      defaultReadyTimeoutConstant,
		SettleDelay:       defaultSettleDelayConstant,
	}
}

// Sanitize trims textual settings and replaces non-positive sizes and durations with defaults.
func (configuration Configuration) Sanitize() Configuration {
	defaults := DefaultConfiguration()
	sanitized := configuration

	sanitized.BinaryPath = strings.TrimSpace(configuration.BinaryPath)
	sanitized.UserAgent = strings.TrimSpace(configuration.UserAgent)
	if sanitized.ViewportWidth <= 0 {
		sanitized.ViewportWidth = defaults.ViewportWidth
	}
	if sanitized.ViewportHeight <= 0 {
		sanitized.ViewportHeight = defaults.ViewportHeight
	}
	if sanitized.NavigationTimeout <= 0 {
		sanitized.NavigationTimeout = defaults.NavigationTimeout
	}
	if sanitized.ReadyTimeout <= 0 {
		sanitized.ReadyTimeout = defaults.ReadyTimeout
	}
	if sanitized.SettleDelay < 0 {
		sanitized.SettleDelay = defaults.SettleDelay
	}

	sanitizedFlags := make([]string, 0, len(configuration.ExtraFlags))
	for _, rawFlag := range configuration.ExtraFlags {
		trimmedFlag := strings.TrimLeft(strings.TrimSpace(rawFlag), "-")
		if len(trimmedFlag) == 0 {
			continue
		}
		sanitizedFlags = append(sanitizedFlags, trimmedFlag)
	}
	sanitized.ExtraFlags = sanitizedFlags

	return sanitized
}
