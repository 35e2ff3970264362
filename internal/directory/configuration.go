package directory

import (
	"strings"
	"time"

	"github.com/impacteval/harvest/internal/projects"
)

const (
	// DefaultDirectoryURL is the public project directory scraped by default.
	DefaultDirectoryURL = "https://carboncopy.news/projects"

	defaultTableTimeoutConstant  = 20 * time.Second
	defaultDetailTimeoutConstant = 10 * time.Second
	defaultNextTimeoutConstant   = 10 * time.Second
	defaultPageDelayConstant     = 2 * time.Second
)

// Configuration stores settings for the directory scrape.
type Configuration struct {
	URL           string        `mapstructure:"url"`
	Output        string        `mapstructure:"output"`
	TableTimeout  time.Duration `mapstructure:"table_timeout"`
	DetailTimeout time.Duration `mapstructure:"detail_timeout"`
	NextTimeout   time.Duration `mapstructure:"next_timeout"`
	PageDelay     time.Duration `mapstructure:"page_delay"`
}

// DefaultConfiguration targets the public directory and writes resources/carboncopy_projects.csv.
func DefaultConfiguration() Configuration {
	return Configuration{
		URL:           DefaultDirectoryURL,
		Output:        projects.DefaultDirectoryExportPath,
		TableTimeout:  defaultTableTimeoutConstant,
		DetailTimeout: defaultDetailTimeoutConstant,
		NextTimeout:   defaultNextTimeoutConstant,
		PageDelay:     defaultPageDelayConstant,
	}
}

// Sanitize trims values and replaces unset ones with defaults.
func (configuration Configuration) Sanitize() Configuration {
	defaults := DefaultConfiguration()
	sanitized := Configuration{
		URL:           strings.TrimSpace(configuration.URL),
		Output:        projects.SanitizePath(configuration.Output, defaults.Output),
		TableTimeout:  configuration.TableTimeout,
		DetailTimeout: configuration.DetailTimeout,
		NextTimeout:   configuration.NextTimeout,
		PageDelay:     configuration.PageDelay,
	}
	if len(sanitized.URL) == 0 {
		sanitized.URL = defaults.URL
	}
	if sanitized.TableTimeout <= 0 {
		sanitized.TableTimeout = defaults.TableTimeout
	}
	if sanitized.DetailTimeout <= 0 {
		sanitized.DetailTimeout = defaults.DetailTimeout
	}
	if sanitized.NextTimeout <= 0 {
		sanitized.NextTimeout = defaults.NextTimeout
	}
	if sanitized.PageDelay < 0 {
		sanitized.PageDelay = defaults.PageDelay
	}
	return sanitized
}
