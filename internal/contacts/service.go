package contacts

import (
	"context"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/impacteval/harvest/internal/batch"
	"github.com/impacteval/harvest/internal/browser"
	"github.com/impacteval/harvest/internal/extract"
	"github.com/impacteval/harvest/internal/outcome"
	"github.com/impacteval/harvest/internal/projects"
	"github.com/impacteval/harvest/internal/ui"
)

const (
	progressDescriptionConstant        = "contacts"
	pageSourceErrorTemplateConstant    = "read page source: %w"
	failedRowWriteErrorMessageConstant = "unable to append contact row"
	contactsStartedMessageConstant     = "collecting contacts"
	projectCountLogFieldConstant       = "projects"
	workerCountLogFieldConstant        = "workers"
	outputPathLogFieldConstant         = "path"
	projectLogFieldConstant            = "project"
)

// Options configure one contacts run.
type Options struct {
	InputPath  string
	OutputPath string
	Workers    int
	Timing     browser.Configuration
}

// Dependencies are the collaborators of a contacts run.
type Dependencies struct {
	Launcher       browser.Launcher
	Logger         *zap.Logger
	Observer       ui.UnitEventObserver
	ProgressWriter io.Writer
}

// Service visits project websites and appends their contact details to a CSV file.
type Service struct {
	dependencies Dependencies
}

// NewService constructs a contacts service.
func NewService(dependencies Dependencies) *Service {
	if dependencies.Logger == nil {
		dependencies.Logger = zap.NewNop()
	}
	return &Service{dependencies: dependencies}
}

// Run collects contacts for every actionable row.
func (service *Service) Run(executionContext context.Context, options Options) (*outcome.Tally, error) {
	records, loadError := batch.LoadActionable(options.InputPath)
	if loadError != nil {
		return nil, loadError
	}

	sink, sinkError := OpenCSVSink(options.OutputPath)
	if sinkError != nil {
		return nil, sinkError
	}

	service.dependencies.Logger.Info(
		contactsStartedMessageConstant,
		zap.Int(projectCountLogFieldConstant, len(records)),
		zap.Int(workerCountLogFieldConstant, options.Workers),
		zap.String(outputPathLogFieldConstant, sink.Path()),
	)

	job := batch.Job{
		Records:        records,
		Workers:        options.Workers,
		Description:    progressDescriptionConstant,
		ProgressWriter: service.dependencies.ProgressWriter,
		Observer:       service.dependencies.Observer,
	}
	visitSettings := batch.VisitSettings{Launcher: service.dependencies.Launcher, Timing: options.Timing}

	return batch.Run(executionContext, job, func(unitContext context.Context, record projects.Record) ui.UnitEvent {
		row, collectError := service.collect(unitContext, visitSettings, record)
		if appendError := sink.Append(row); appendError != nil {
			service.dependencies.Logger.Warn(failedRowWriteErrorMessageConstant, zap.String(projectLogFieldConstant, record.Name), zap.Error(appendError))
			if collectError == nil {
				collectError = appendError
			}
		}
		if collectError != nil {
			return batch.Failed(record, collectError)
		}
		return batch.Written(record, sink.Path())
	})
}

// collect always returns a row carrying the project name; a failed visit leaves Emails and Socials empty.
func (service *Service) collect(executionContext context.Context, visitSettings batch.VisitSettings, record projects.Record) (Row, error) {
	row := Row{ProjectName: record.Name}
	visitError := batch.Visit(executionContext, visitSettings, record, func(session browser.Session) error {
		pageSource, sourceError := session.HTML(executionContext)
		if sourceError != nil {
			return fmt.Errorf(pageSourceErrorTemplateConstant, sourceError)
		}
		document, parseError := extract.ParseDocument(pageSource, record.Website)
		if parseError != nil {
			return parseError
		}
		row.Emails = extract.Emails(pageSource)
		row.Socials = extract.SocialLinks(document)
		return nil
	})
	if visitError != nil {
		return Row{ProjectName: record.Name}, visitError
	}
	return row, nil
}
