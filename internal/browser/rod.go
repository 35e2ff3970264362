package browser

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/launcher/flags"
	"github.com/go-rod/rod/lib/proto"
	"go.uber.org/zap"
)

const (
	scrollToBottomScriptConstant        = "() => window.scrollTo(0, document.documentElement.scrollHeight)"
	scrollHeightScriptConstant          = "() => document.documentElement.scrollHeight"
	disabledAttributeConstant           = "disabled"
	flagValueSeparatorConstant          = "="
	browserLaunchErrorTemplateConstant  = "launch chrome: %w"
	browserConnectErrorTemplateConstant = "connect to chrome: %w"
	pageCreateErrorTemplateConstant     = "create page: %w"
	userAgentErrorTemplateConstant      = "set user agent: %w"
	viewportErrorTemplateConstant       = "set viewport: %w"
	navigationErrorTemplateConstant     = "navigate to %s: %w"
	scriptErrorTemplateConstant         = "evaluate page script: %w"
	clickErrorTemplateConstant          = "click %s: %w"
	browserLaunchedMessageConstant      = "browser launched"
	browserCloseFailedMessageConstant   = "browser close failed"
	controlURLLogFieldConstant          = "control_url"
	deviceScaleFactorConstant           = 1.0
)

// RodLauncher starts a dedicated headless Chrome for every acquired session.
type RodLauncher struct {
	configuration Configuration
	logger        *zap.Logger
}

// NewRodLauncher constructs a launcher from sanitized configuration.
func NewRodLauncher(configuration Configuration, logger *zap.Logger) *RodLauncher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RodLauncher{configuration: configuration.Sanitize(), logger: logger}
}

// Acquire launches Chrome, connects to it, and opens a configured page.
func (rodLauncher *RodLauncher) Acquire(executionContext context.Context) (Session, error) {
	chromeLauncher := launcher.New().Context(executionContext).Headless(rodLauncher.configuration.Headless)
	if len(rodLauncher.configuration.BinaryPath) > 0 {
		chromeLauncher = chromeLauncher.Bin(rodLauncher.configuration.BinaryPath)
	}
	if rodLauncher.configuration.NoSandbox {
		chromeLauncher = chromeLauncher.NoSandbox(true)
	}
	for _, rawFlag := range rodLauncher.configuration.ExtraFlags {
		flagName, flagValue, hasValue := strings.Cut(rawFlag, flagValueSeparatorConstant)
		if hasValue {
			chromeLauncher = chromeLauncher.Set(flags.Flag(flagName), flagValue)
			continue
		}
		chromeLauncher = chromeLauncher.Set(flags.Flag(flagName))
	}

	controlURL, launchError := chromeLauncher.Launch()
	if launchError != nil {
		chromeLauncher.Kill()
		return nil, fmt.Errorf(browserLaunchErrorTemplateConstant, launchError)
	}

	chromeBrowser := rod.New().ControlURL(controlURL).Context(executionContext)
	if connectError := chromeBrowser.Connect(); connectError != nil {
		chromeLauncher.Kill()
		chromeLauncher.Cleanup()
		return nil, fmt.Errorf(browserConnectErrorTemplateConstant, connectError)
	}

	rodLauncher.logger.Debug(browserLaunchedMessageConstant, zap.String(controlURLLogFieldConstant, controlURL))

	session := &rodSession{
		browser:        chromeBrowser,
		chromeLauncher: chromeLauncher,
		configuration:  rodLauncher.configuration,
		logger:         rodLauncher.logger,
		ownsBrowser:    true,
	}

	page, pageError := session.newPage()
	if pageError != nil {
		session.releaseBrowser()
		return nil, pageError
	}
	session.page = page

	return session, nil
}

type rodSession struct {
	browser        *rod.Browser
	page           *rod.Page
	chromeLauncher *launcher.Launcher
	configuration  Configuration
	logger         *zap.Logger
	ownsBrowser    bool
}

func (session *rodSession) newPage() (*rod.Page, error) {
	page, pageError := session.browser.Page(proto.TargetCreateTarget{})
	if pageError != nil {
		return nil, fmt.Errorf(pageCreateErrorTemplateConstant, pageError)
	}

	if len(session.configuration.UserAgent) > 0 {
		userAgentError := page.SetUserAgent(&proto.NetworkSetUserAgentOverride{UserAgent: session.configuration.UserAgent})
		if userAgentError != nil {
			_ = page.Close()
			return nil, fmt.Errorf(userAgentErrorTemplateConstant, userAgentError)
		}
	}

	viewportError := proto.EmulationSetDeviceMetricsOverride{
		Width:             session.configuration.ViewportWidth,
		Height:            session.configuration.ViewportHeight,
		DeviceScaleFactor: deviceScaleFactorConstant,
	}.Call(page)
	if viewportError != nil {
		_ = page.Close()
		return nil, fmt.Errorf(viewportErrorTemplateConstant, viewportError)
	}

	return page, nil
}

func (session *rodSession) Navigate(executionContext context.Context, targetURL string) error {
	timedPage := session.page.Context(executionContext).Timeout(session.configuration.NavigationTimeout)
	defer timedPage.CancelTimeout()
	if navigationError := timedPage.Navigate(targetURL); navigationError != nil {
		return fmt.Errorf(navigationErrorTemplateConstant, targetURL, navigationError)
	}
	if loadError := timedPage.WaitLoad(); loadError != nil {
		return fmt.Errorf(navigationErrorTemplateConstant, targetURL, loadError)
	}
	return nil
}

func (session *rodSession) WaitElement(executionContext context.Context, selector string, timeout time.Duration) (bool, error) {
	timedPage := session.page.Context(executionContext).Timeout(timeout)
	defer timedPage.CancelTimeout()
	_, elementError := timedPage.Element(selector)
	return elementLookupResult(executionContext, elementError)
}

func (session *rodSession) ScrollToBottom(executionContext context.Context) error {
	if _, evalError := session.page.Context(executionContext).Eval(scrollToBottomScriptConstant); evalError != nil {
		return fmt.Errorf(scriptErrorTemplateConstant, evalError)
	}
	return nil
}

func (session *rodSession) Settle(executionContext context.Context, delay time.Duration) error {
	return Sleep(executionContext, delay)
}

func (session *rodSession) HTML(executionContext context.Context) (string, error) {
	return session.page.Context(executionContext).HTML()
}

func (session *rodSession) Title(executionContext context.Context) (string, error) {
	pageInfo, infoError := session.page.Context(executionContext).Info()
	if infoError != nil {
		return "", infoError
	}
	return pageInfo.Title, nil
}

func (session *rodSession) ScrollHeight(executionContext context.Context) (int, error) {
	result, evalError := session.page.Context(executionContext).Eval(scrollHeightScriptConstant)
	if evalError != nil {
		return 0, fmt.Errorf(scriptErrorTemplateConstant, evalError)
	}
	return result.Value.Int(), nil
}

func (session *rodSession) SetViewport(executionContext context.Context, width int, height int) error {
	viewportError := proto.EmulationSetDeviceMetricsOverride{
		Width:             width,
		Height:            height,
		DeviceScaleFactor: deviceScaleFactorConstant,
	}.Call(session.page.Context(executionContext))
	if viewportError != nil {
		return fmt.Errorf(viewportErrorTemplateConstant, viewportError)
	}
	return nil
}

func (session *rodSession) FullPageScreenshot(executionContext context.Context) ([]byte, error) {
	return session.page.Context(executionContext).Screenshot(true, nil)
}

func (session *rodSession) ElementAttribute(executionContext context.Context, selector string, attribute string, timeout time.Duration) (string, bool, error) {
	timedPage := session.page.Context(executionContext).Timeout(timeout)
	defer timedPage.CancelTimeout()
	element, elementError := timedPage.Element(selector)
	found, lookupError := elementLookupResult(executionContext, elementError)
	if !found || lookupError != nil {
		return "", false, lookupError
	}
	attributeValue, attributeError := element.Context(executionContext).Attribute(attribute)
	if attributeError != nil {
		return "", false, attributeError
	}
	if attributeValue == nil {
		return "", false, nil
	}
	return *attributeValue, true, nil
}

func (session *rodSession) ClickNext(executionContext context.Context, xpath string, timeout time.Duration) (bool, error) {
	timedPage := session.page.Context(executionContext).Timeout(timeout)
	defer timedPage.CancelTimeout()
	element, elementError := timedPage.ElementX(xpath)
	found, lookupError := elementLookupResult(executionContext, elementError)
	if !found || lookupError != nil {
		return false, lookupError
	}

	boundElement := element.Context(executionContext)
	disabledValue, attributeError := boundElement.Attribute(disabledAttributeConstant)
	if attributeError != nil {
		return false, attributeError
	}
	if disabledValue != nil {
		return false, nil
	}

	if clickError := boundElement.Click(proto.InputMouseButtonLeft, 1); clickError != nil {
		return false, fmt.Errorf(clickErrorTemplateConstant, xpath, clickError)
	}
	return true, nil
}

func (session *rodSession) OpenTab(executionContext context.Context) (Session, error) {
	if contextError := executionContext.Err(); contextError != nil {
		return nil, contextError
	}
	tab := &rodSession{
		browser:       session.browser,
		configuration: session.configuration,
		logger:        session.logger,
	}
	page, pageError := tab.newPage()
	if pageError != nil {
		return nil, pageError
	}
	tab.page = page
	return tab, nil
}

func (session *rodSession) Close() error {
	var closeError error
	if session.page != nil {
		closeError = session.page.Close()
		session.page = nil
	}
	if session.ownsBrowser {
		if releaseError := session.releaseBrowser(); releaseError != nil {
			closeError = errors.Join(closeError, releaseError)
		}
	}
	return closeError
}

func (session *rodSession) releaseBrowser() error {
	session.ownsBrowser = false
	closeError := session.browser.Close()
	if closeError != nil {
		session.logger.Debug(browserCloseFailedMessageConstant, zap.Error(closeError))
	}
	if session.chromeLauncher != nil {
		session.chromeLauncher.Kill()
		session.chromeLauncher.Cleanup()
	}
	return closeError
}

// elementLookupResult converts a timed element lookup into a found flag.
//
// A lookup that ran out of its own timeout is "not found"; cancellation of the
// caller's context is an error.
func elementLookupResult(executionContext context.Context, elementError error) (bool, error) {
	if elementError == nil {
		return true, nil
	}
	if contextError := executionContext.Err(); contextError != nil {
		return false, contextError
	}
	var notFoundError *rod.ElementNotFoundError
	if errors.Is(elementError, context.DeadlineExceeded) || errors.As(elementError, &notFoundError) {
		return false, nil
	}
	return false, elementError
}
