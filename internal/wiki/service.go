package wiki

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/impacteval/harvest/internal/batch"
	"github.com/impacteval/harvest/internal/browser"
	"github.com/impacteval/harvest/internal/outcome"
	"github.com/impacteval/harvest/internal/projects"
	"github.com/impacteval/harvest/internal/ui"
)

const (
	summaryFileExtensionConstant = ".txt"
	pageFileExtensionConstant    = ".wiki"
	progressDescriptionConstant  = "wiki"
	editRejectedErrorTemplate    = "wiki rejected %s: %s"
	editUnexpectedErrorTemplate  = "unexpected wiki response for %s: %s"
	publisherMissingMessage      = "wiki publisher not configured"
	publishStartedMessage        = "publishing wiki pages"
	pagePublishedMessage         = "published wiki page"
	projectCountLogFieldConstant = "projects"
	dryRunLogFieldConstant       = "dry_run"
	titleLogFieldConstant        = "title"
)

var errPublisherMissing = errors.New(publisherMissingMessage)

// Publisher submits article edits.
type Publisher interface {
	Edit(executionContext context.Context, request EditRequest) (EditResult, error)
}

// Options configure one publish run.
type Options struct {
	InputPath          string
	SummariesDirectory string
	PagesDirectory     string
	EditSummary        string
	RequestDelay       time.Duration
	DryRun             bool
}

// Dependencies are the collaborators of a publish run.
type Dependencies struct {
	Publisher      Publisher
	Logger         *zap.Logger
	Observer       ui.UnitEventObserver
	ProgressWriter io.Writer
}

// Service turns saved summaries into wiki articles one project at a time.
type Service struct {
	dependencies Dependencies
}

// NewService constructs a publish service.
func NewService(dependencies Dependencies) *Service {
	if dependencies.Logger == nil {
		dependencies.Logger = zap.NewNop()
	}
	return &Service{dependencies: dependencies}
}

// Run writes a local page for every project with a summary and, unless DryRun is set, publishes it.
//
// A failing page is reported and the batch continues.
func (service *Service) Run(executionContext context.Context, options Options) (*outcome.Tally, error) {
	if !options.DryRun && service.dependencies.Publisher == nil {
		return nil, errPublisherMissing
	}
	records, loadError := batch.LoadNamed(options.InputPath)
	if loadError != nil {
		return nil, loadError
	}

	service.dependencies.Logger.Info(
		publishStartedMessage,
		zap.Int(projectCountLogFieldConstant, len(records)),
		zap.Bool(dryRunLogFieldConstant, options.DryRun),
	)

	reporter := ui.NewBatchReporter(service.dependencies.ProgressWriter, len(records), progressDescriptionConstant, service.dependencies.Observer)
	for _, record := range records {
		if contextError := executionContext.Err(); contextError != nil {
			return reporter.Finish(), contextError
		}

		event, published := service.publish(executionContext, options, record)
		reporter.Report(event)

		if published {
			if sleepError := browser.Sleep(executionContext, options.RequestDelay); sleepError != nil {
				return reporter.Finish(), sleepError
			}
		}
	}
	return reporter.Finish(), nil
}

// publish handles one record; published reports whether a remote edit was attempted.
func (service *Service) publish(executionContext context.Context, options Options, record projects.Record) (ui.UnitEvent, bool) {
	summaryPath := batch.OutputPath(options.SummariesDirectory, record.Name, summaryFileExtensionConstant)
	summary, readError := os.ReadFile(summaryPath)
	if readError != nil {
		return ui.UnitEvent{Project: record.Name, Website: record.Website, Outcome: outcome.Skipped}, false
	}

	pageContent := BuildPageContent(record.Name, string(summary), record.Website)
	pagePath, writeError := batch.WriteOutput(options.PagesDirectory, record.Name, pageFileExtensionConstant, []byte(pageContent))
	if writeError != nil {
		return batch.Failed(record, writeError), false
	}
	if options.DryRun {
		return batch.Written(record, pagePath), false
	}

	title := ArticleTitle(record.Name)
	result, editError := service.dependencies.Publisher.Edit(executionContext, EditRequest{
		Title:   title,
		Text:    pageContent,
		Summary: options.EditSummary,
	})
	if editError != nil {
		return batch.Failed(record, editError), true
	}

	switch result.Status {
	case EditSucceeded:
		service.dependencies.Logger.Debug(pagePublishedMessage, zap.String(titleLogFieldConstant, title))
		return batch.Written(record, title), true
	case EditRejected:
		return batch.Failed(record, fmt.Errorf(editRejectedErrorTemplate, title, result.Detail)), true
	default:
		return batch.Failed(record, fmt.Errorf(editUnexpectedErrorTemplate, title, result.Detail)), true
	}
}
