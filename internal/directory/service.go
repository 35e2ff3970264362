package directory

import (
	"context"
	"fmt"
	"io"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/impacteval/harvest/internal/browser"
	"github.com/impacteval/harvest/internal/extract"
	"github.com/impacteval/harvest/internal/projects"
	"github.com/impacteval/harvest/internal/ui"
)

const (
	tableSelectorConstant           = "table"
	nextButtonXPathConstant         = "//button[@aria-label='Next']"
	progressDescriptionConstant     = "directory"
	pageSourceErrorTemplateConstant = "read page source: %w"
	navigationErrorTemplateConstant = "open directory %s: %w"
	detailErrorTemplateConstant     = "read detail page %s: %w"
	totalProjectsMessageConstant    = "directory announces project count"
	unknownTotalMessageConstant     = "directory project count not found"
	tableMissingMessageConstant     = "timed out waiting for the directory table"
	pageParsedMessageConstant       = "parsed directory page"
	rowFailedMessageConstant        = "skipping directory row"
	websiteMissingMessageConstant   = "could not find website for project"
	lastPageMessageConstant         = "reached the last directory page"
	paginationFailedMessageConstant = "pagination stopped"
	scrapeCompletedMessageConstant  = "directory scrape finished"
	totalLogFieldConstant           = "total"
	pageLogFieldConstant            = "page"
	rowsLogFieldConstant            = "rows"
	projectLogFieldConstant         = "project"
	linkLogFieldConstant            = "link"
	listingsLogFieldConstant        = "listings"
	outputPathLogFieldConstant      = "path"
	firstPageNumberConstant         = 1
)

// Result summarizes a directory scrape.
type Result struct {
	AnnouncedTotal    int
	AnnouncedTotalSet bool
	Listings          []projects.DirectoryListing
	Pages             int
}

// Dependencies are the collaborators of a directory scrape.
type Dependencies struct {
	Launcher       browser.Launcher
	Logger         *zap.Logger
	ProgressWriter io.Writer
}

// Service walks the paginated directory in a single browser session.
type Service struct {
	dependencies Dependencies
}

// NewService constructs a directory scrape service.
func NewService(dependencies Dependencies) *Service {
	if dependencies.Logger == nil {
		dependencies.Logger = zap.NewNop()
	}
	return &Service{dependencies: dependencies}
}

// Run scrapes every directory page and writes the listings to options.Output.
//
// A page whose table never renders or a missing next button ends the scrape;
// the listings gathered so far are still written.
func (service *Service) Run(executionContext context.Context, options Configuration) (Result, error) {
	var result Result
	scrapeError := browser.WithSession(executionContext, service.dependencies.Launcher, func(session browser.Session) error {
		var sessionError error
		result, sessionError = service.scrape(executionContext, session, options)
		return sessionError
	})
	if scrapeError != nil {
		return result, scrapeError
	}

	if writeError := projects.WriteDirectoryExport(options.Output, result.Listings); writeError != nil {
		return result, writeError
	}

	service.dependencies.Logger.Info(
		scrapeCompletedMessageConstant,
		zap.Int(listingsLogFieldConstant, len(result.Listings)),
		zap.Int(pageLogFieldConstant, result.Pages),
		zap.String(outputPathLogFieldConstant, options.Output),
	)
	return result, nil
}

func (service *Service) scrape(executionContext context.Context, session browser.Session, options Configuration) (Result, error) {
	logger := service.dependencies.Logger
	if navigationError := session.Navigate(executionContext, options.URL); navigationError != nil {
		return Result{}, fmt.Errorf(navigationErrorTemplateConstant, options.URL, navigationError)
	}

	var result Result
	landingDocument, landingError := service.currentDocument(executionContext, session, options.URL)
	if landingError != nil {
		return Result{}, landingError
	}
	result.AnnouncedTotal, result.AnnouncedTotalSet = TotalProjects(landingDocument)
	if result.AnnouncedTotalSet {
		logger.Info(totalProjectsMessageConstant, zap.Int(totalLogFieldConstant, result.AnnouncedTotal))
	} else {
		logger.Warn(unknownTotalMessageConstant)
	}

	progress := ui.NewProgress(service.dependencies.ProgressWriter, result.AnnouncedTotal, progressDescriptionConstant)
	defer progress.Finish()

	for pageNumber := firstPageNumberConstant; ; pageNumber++ {
		if contextError := executionContext.Err(); contextError != nil {
			return result, contextError
		}

		tableFound, waitError := session.WaitElement(executionContext, tableSelectorConstant, options.TableTimeout)
		if waitError != nil {
			return result, waitError
		}
		if !tableFound {
			logger.Warn(tableMissingMessageConstant, zap.Int(pageLogFieldConstant, pageNumber))
			return result, nil
		}
		result.Pages = pageNumber

		if scrollError := session.ScrollToBottom(executionContext); scrollError != nil {
			return result, scrollError
		}
		if settleError := session.Settle(executionContext, options.PageDelay); settleError != nil {
			return result, settleError
		}

		pageDocument, documentError := service.currentDocument(executionContext, session, options.URL)
		if documentError != nil {
			return result, documentError
		}
		listingRows, rowErrors := parseListingRows(pageDocument)
		for _, rowError := range rowErrors {
			logger.Warn(rowFailedMessageConstant, zap.Int(pageLogFieldConstant, pageNumber), zap.Error(rowError))
		}
		logger.Debug(pageParsedMessageConstant, zap.Int(pageLogFieldConstant, pageNumber), zap.Int(rowsLogFieldConstant, len(listingRows)))

		for _, row := range listingRows {
			listing, detailError := service.resolveListing(executionContext, session, options, row)
			if detailError != nil {
				logger.Warn(rowFailedMessageConstant, zap.String(projectLogFieldConstant, row.Name), zap.String(linkLogFieldConstant, row.Link), zap.Error(detailError))
				continue
			}
			result.Listings = append(result.Listings, listing)
			progress.Advance()
		}

		clicked, clickError := session.ClickNext(executionContext, nextButtonXPathConstant, options.NextTimeout)
		if clickError != nil {
			logger.Warn(paginationFailedMessageConstant, zap.Int(pageLogFieldConstant, pageNumber), zap.Error(clickError))
			return result, nil
		}
		if !clicked {
			logger.Info(lastPageMessageConstant, zap.Int(pageLogFieldConstant, pageNumber))
			return result, nil
		}
		if settleError := session.Settle(executionContext, options.PageDelay); settleError != nil {
			return result, settleError
		}
	}
}

// resolveListing opens the project link in a separate tab and reads the website behind the globe icon.
func (service *Service) resolveListing(executionContext context.Context, session browser.Session, options Configuration, row listingRow) (listing projects.DirectoryListing, resolveError error) {
	listing = projects.DirectoryListing{
		Image:       row.Image,
		Name:        row.Name,
		Link:        row.Link,
		Description: row.Description,
	}

	detailTab, tabError := session.OpenTab(executionContext)
	if tabError != nil {
		return listing, fmt.Errorf(detailErrorTemplateConstant, row.Link, tabError)
	}
	defer func() {
		if closeError := detailTab.Close(); closeError != nil && resolveError == nil {
			resolveError = fmt.Errorf(detailErrorTemplateConstant, row.Link, closeError)
		}
	}()

	if navigationError := detailTab.Navigate(executionContext, row.Link); navigationError != nil {
		return listing, fmt.Errorf(detailErrorTemplateConstant, row.Link, navigationError)
	}

	iconFound, waitError := detailTab.WaitElement(executionContext, websiteIconSelectorConstant, options.DetailTimeout)
	if waitError != nil {
		return listing, fmt.Errorf(detailErrorTemplateConstant, row.Link, waitError)
	}
	if !iconFound {
		service.dependencies.Logger.Warn(websiteMissingMessageConstant, zap.String(projectLogFieldConstant, row.Name))
		return listing, nil
	}

	detailDocument, documentError := service.currentDocument(executionContext, detailTab, row.Link)
	if documentError != nil {
		return listing, fmt.Errorf(detailErrorTemplateConstant, row.Link, documentError)
	}
	website, websiteFound := websiteFromDetail(detailDocument)
	if !websiteFound {
		service.dependencies.Logger.Warn(websiteMissingMessageConstant, zap.String(projectLogFieldConstant, row.Name))
		return listing, nil
	}
	listing.Website = website
	return listing, nil
}

func (service *Service) currentDocument(executionContext context.Context, session browser.Session, baseURL string) (*goquery.Document, error) {
	pageSource, sourceError := session.HTML(executionContext)
	if sourceError != nil {
		return nil, fmt.Errorf(pageSourceErrorTemplateConstant, sourceError)
	}
	return extract.ParseDocument(pageSource, baseURL)
}
