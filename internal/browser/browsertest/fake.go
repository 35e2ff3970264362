// Package browsertest provides in-memory browser sessions for tests.
package browsertest

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/impacteval/harvest/internal/browser"
)

// ErrUnknownPage is returned when navigating to a URL without a registered page.
var ErrUnknownPage = errors.New("unknown page")

// Page is the canned content served for one URL.
type Page struct {
	HTML             string
	Title            string
	ScrollHeight     int
	Screenshot       []byte
	MissingSelectors []string
	Attributes       map[string]string
	NextURL          string
	NavigationError  error
}

// Launcher serves registered pages and counts session lifecycles.
type Launcher struct {
	mutex        sync.Mutex
	pages        map[string]Page
	acquireError error
	acquired     int
	closed       int
	viewports    map[string][2]int
	visited      []string
}

// NewLauncher constructs a launcher serving the provided pages keyed by URL.
func NewLauncher(pages map[string]Page) *Launcher {
	copiedPages := make(map[string]Page, len(pages))
	for pageURL, page := range pages {
		copiedPages[pageURL] = page
	}
	return &Launcher{pages: copiedPages, viewports: make(map[string][2]int)}
}

// FailAcquire makes every subsequent Acquire call return the error.
func (launcher *Launcher) FailAcquire(acquireError error) {
	launcher.mutex.Lock()
	defer launcher.mutex.Unlock()
	launcher.acquireError = acquireError
}

// Acquire implements browser.Launcher.
func (launcher *Launcher) Acquire(executionContext context.Context) (browser.Session, error) {
	launcher.mutex.Lock()
	defer launcher.mutex.Unlock()
	if launcher.acquireError != nil {
		return nil, launcher.acquireError
	}
	launcher.acquired++
	return &Session{launcher: launcher, ownsBrowser: true}, nil
}

// Acquired returns how many sessions were handed out.
func (launcher *Launcher) Acquired() int {
	launcher.mutex.Lock()
	defer launcher.mutex.Unlock()
	return launcher.acquired
}

// Closed returns how many acquired sessions were closed.
func (launcher *Launcher) Closed() int {
	launcher.mutex.Lock()
	defer launcher.mutex.Unlock()
	return launcher.closed
}

// Viewport returns the last viewport set while the URL was loaded.
func (launcher *Launcher) Viewport(pageURL string) ([2]int, bool) {
	launcher.mutex.Lock()
	defer launcher.mutex.Unlock()
	viewport, found := launcher.viewports[pageURL]
	return viewport, found
}

// Visited returns every URL navigated to, in order.
func (launcher *Launcher) Visited() []string {
	launcher.mutex.Lock()
	defer launcher.mutex.Unlock()
	return append([]string(nil), launcher.visited...)
}

func (launcher *Launcher) page(pageURL string) (Page, bool) {
	launcher.mutex.Lock()
	defer launcher.mutex.Unlock()
	page, found := launcher.pages[pageURL]
	return page, found
}

// Session is an in-memory browser.Session.
type Session struct {
	launcher    *Launcher
	currentURL  string
	ownsBrowser bool
	closed      bool
}

func (session *Session) current() (Page, error) {
	page, found := session.launcher.page(session.currentURL)
	if !found {
		return Page{}, fmt.Errorf("%w: %s", ErrUnknownPage, session.currentURL)
	}
	return page, nil
}

// Navigate implements browser.Session.
func (session *Session) Navigate(executionContext context.Context, targetURL string) error {
	if contextError := executionContext.Err(); contextError != nil {
		return contextError
	}
	session.launcher.mutex.Lock()
	session.launcher.visited = append(session.launcher.visited, targetURL)
	session.launcher.mutex.Unlock()

	page, found := session.launcher.page(targetURL)
	if !found {
		return fmt.Errorf("%w: %s", ErrUnknownPage, targetURL)
	}
	if page.NavigationError != nil {
		return page.NavigationError
	}
	session.currentURL = targetURL
	return nil
}

// WaitElement implements browser.Session; selectors listed in MissingSelectors are never found.
func (session *Session) WaitElement(executionContext context.Context, selector string, timeout time.Duration) (bool, error) {
	page, pageError := session.current()
	if pageError != nil {
		return false, pageError
	}
	for _, missingSelector := range page.MissingSelectors {
		if missingSelector == selector {
			return false, nil
		}
	}
	return true, nil
}

// ScrollToBottom implements browser.Session.
func (session *Session) ScrollToBottom(executionContext context.Context) error {
	_, pageError := session.current()
	return pageError
}

// Settle implements browser.Session without sleeping.
func (session *Session) Settle(executionContext context.Context, delay time.Duration) error {
	return executionContext.Err()
}

// HTML implements browser.Session.
func (session *Session) HTML(executionContext context.Context) (string, error) {
	page, pageError := session.current()
	return page.HTML, pageError
}

// Title implements browser.Session.
func (session *Session) Title(executionContext context.Context) (string, error) {
	page, pageError := session.current()
	return page.Title, pageError
}

// ScrollHeight implements browser.Session.
func (session *Session) ScrollHeight(executionContext context.Context) (int, error) {
	page, pageError := session.current()
	return page.ScrollHeight, pageError
}

// SetViewport implements browser.Session and records the size per URL.
func (session *Session) SetViewport(executionContext context.Context, width int, height int) error {
	session.launcher.mutex.Lock()
	defer session.launcher.mutex.Unlock()
	session.launcher.viewports[session.currentURL] = [2]int{width, height}
	return nil
}

// FullPageScreenshot implements browser.Session.
func (session *Session) FullPageScreenshot(executionContext context.Context) ([]byte, error) {
	page, pageError := session.current()
	return page.Screenshot, pageError
}

// ElementAttribute implements browser.Session using the Attributes map keyed by selector.
func (session *Session) ElementAttribute(executionContext context.Context, selector string, attribute string, timeout time.Duration) (string, bool, error) {
	page, pageError := session.current()
	if pageError != nil {
		return "", false, pageError
	}
	attributeValue, found := page.Attributes[selector]
	return attributeValue, found, nil
}

// ClickNext implements browser.Session by moving to NextURL when one is set.
func (session *Session) ClickNext(executionContext context.Context, xpath string, timeout time.Duration) (bool, error) {
	page, pageError := session.current()
	if pageError != nil {
		return false, pageError
	}
	if len(page.NextURL) == 0 {
		return false, nil
	}
	return true, session.Navigate(executionContext, page.NextURL)
}

// OpenTab implements browser.Session.
func (session *Session) OpenTab(executionContext context.Context) (browser.Session, error) {
	return &Session{launcher: session.launcher}, nil
}

// Close implements browser.Session.
func (session *Session) Close() error {
	if session.closed {
		return nil
	}
	session.closed = true
	if session.ownsBrowser {
		session.launcher.mutex.Lock()
		session.launcher.closed++
		session.launcher.mutex.Unlock()
	}
	return nil
}
