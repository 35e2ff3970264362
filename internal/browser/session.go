package browser

import (
	"context"
	"errors"
	"fmt"
	"time"
)

const (
	readySelectorConstant               = "body"
	pageNotReadyErrorTemplateConstant   = "page %s did not render %s within %s"
	sessionAcquireErrorTemplateConstant = "unable to start browser session: %w"
	sessionReleaseErrorTemplateConstant = "unable to release browser session: %w"
	sessionPanicTemplateConstant        = "browser session work panicked: %v"
)

// ErrLauncherMissing indicates WithSession was called without a launcher.
var ErrLauncherMissing = errors.New("browser launcher not configured")

// Session is one browser page owned by a single unit of work.
type Session interface {
	// Navigate loads the URL and waits for the load event.
	Navigate(executionContext context.Context, targetURL string) error
	// WaitElement waits for a CSS selector; found is false when the timeout elapses first.
	WaitElement(executionContext context.Context, selector string, timeout time.Duration) (found bool, err error)
	ScrollToBottom(executionContext context.Context) error
	// Settle pauses for the delay or until the context ends.
	Settle(executionContext context.Context, delay time.Duration) error
	HTML(executionContext context.Context) (string, error)
	Title(executionContext context.Context) (string, error)
	ScrollHeight(executionContext context.Context) (int, error)
	SetViewport(executionContext context.Context, width int, height int) error
	FullPageScreenshot(executionContext context.Context) ([]byte, error)
	// ElementAttribute reads an attribute of the first element matching the selector.
	ElementAttribute(executionContext context.Context, selector string, attribute string, timeout time.Duration) (value string, found bool, err error)
	// ClickNext clicks the element matching the XPath; clicked is false when it is missing or disabled.
	ClickNext(executionContext context.Context, xpath string, timeout time.Duration) (clicked bool, err error)
	// OpenTab opens another page in the same browser. Closing the tab leaves the browser running.
	OpenTab(executionContext context.Context) (Session, error)
	Close() error
}

// Launcher hands out sessions.
type Launcher interface {
	Acquire(executionContext context.Context) (Session, error)
}

// WithSession acquires a session, runs work, and releases the session on every exit path.
func WithSession(executionContext context.Context, launcher Launcher, work func(Session) error) (workError error) {
	if launcher == nil {
		return ErrLauncherMissing
	}

	session, acquireError := launcher.Acquire(executionContext)
	if acquireError != nil {
		return fmt.Errorf(sessionAcquireErrorTemplateConstant, acquireError)
	}

	defer func() {
		if recovered := recover(); recovered != nil {
			workError = fmt.Errorf(sessionPanicTemplateConstant, recovered)
		}
		if closeError := session.Close(); closeError != nil {
			workError = errors.Join(workError, fmt.Errorf(sessionReleaseErrorTemplateConstant, closeError))
		}
	}()

	return work(session)
}

// PageLoad describes the standard open-wait-scroll-settle sequence used by crawling steps.
type PageLoad struct {
	URL          string
	ReadyTimeout time.Duration
	SettleDelay  time.Duration
	// BeforeScroll runs after the page body appeared and before scrolling.
	BeforeScroll func(executionContext context.Context, session Session) error
}

// LoadPage navigates, waits for the body, scrolls to the bottom, and waits for late content.
func LoadPage(executionContext context.Context, session Session, pageLoad PageLoad) error {
	if navigationError := session.Navigate(executionContext, pageLoad.URL); navigationError != nil {
		return navigationError
	}

	bodyFound, waitError := session.WaitElement(executionContext, readySelectorConstant, pageLoad.ReadyTimeout)
	if waitError != nil {
		return waitError
	}
	if !bodyFound {
		return fmt.Errorf(pageNotReadyErrorTemplateConstant, pageLoad.URL, readySelectorConstant, pageLoad.ReadyTimeout)
	}

	if pageLoad.BeforeScroll != nil {
		if hookError := pageLoad.BeforeScroll(executionContext, session); hookError != nil {
			return hookError
		}
	}

	if scrollError := session.ScrollToBottom(executionContext); scrollError != nil {
		return scrollError
	}

	return session.Settle(executionContext, pageLoad.SettleDelay)
}

// Sleep waits for the delay or returns the context error when the context ends first.
func Sleep(executionContext context.Context, delay time.Duration) error {
	if delay <= 0 {
		return executionContext.Err()
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-executionContext.Done():
		return executionContext.Err()
	case <-timer.C:
		return nil
	}
}
