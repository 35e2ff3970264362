package batch

import (
	"context"

	"github.com/impacteval/harvest/internal/browser"
	"github.com/impacteval/harvest/internal/projects"
)

// VisitSettings control how long a website visit waits.
type VisitSettings struct {
	Launcher     browser.Launcher
	Timing       browser.Configuration
	BeforeScroll func(executionContext context.Context, session browser.Session) error
}

// Visit loads the record's website in its own browser session and hands the settled page to inspect.
func Visit(executionContext context.Context, settings VisitSettings, record projects.Record, inspect func(session browser.Session) error) error {
	return browser.WithSession(executionContext, settings.Launcher, func(session browser.Session) error {
		loadError := browser.LoadPage(executionContext, session, browser.PageLoad{
			URL:          record.Website,
			ReadyTimeout: settings.Timing.ReadyTimeout,
			SettleDelay:  settings.Timing.SettleDelay,
			BeforeScroll: settings.BeforeScroll,
		})
		if loadError != nil {
			return loadError
		}
		return inspect(session)
	})
}
