package info

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
	infoFileExtensionConstant       = ".txt"
	progressDescriptionConstant     = "info"
	pageSourceErrorTemplateConstant = "read page source: %w"
	pageTitleErrorTemplateConstant  = "read page title: %w"
	infoStartedMessageConstant      = "exporting project information"
	projectCountLogFieldConstant    = "projects"
	outputDirectoryLogFieldConstant = "path"
)

// Options configure one info run.
type Options struct {
	InputPath       string
	OutputDirectory string
	Workers         int
	Timing          browser.Configuration
}

// Dependencies are the collaborators of an info run.
type Dependencies struct {
	Launcher       browser.Launcher
	Logger         *zap.Logger
	Observer       ui.UnitEventObserver
	ProgressWriter io.Writer
}

// Service writes a text dump of every actionable project website.
type Service struct {
	dependencies Dependencies
}

// NewService constructs an info service.
func NewService(dependencies Dependencies) *Service {
	if dependencies.Logger == nil {
		dependencies.Logger = zap.NewNop()
	}
	return &Service{dependencies: dependencies}
}

// Run exports information for every actionable row.
func (service *Service) Run(executionContext context.Context, options Options) (*outcome.Tally, error) {
	records, loadError := batch.LoadActionable(options.InputPath)
	if loadError != nil {
		return nil, loadError
	}

	service.dependencies.Logger.Info(
		infoStartedMessageConstant,
		zap.Int(projectCountLogFieldConstant, len(records)),
		zap.String(outputDirectoryLogFieldConstant, options.OutputDirectory),
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
		var infoText string
		visitError := batch.Visit(unitContext, visitSettings, record, func(session browser.Session) error {
			var buildError error
			infoText, buildError = buildInfo(unitContext, session, record)
			return buildError
		})
		if visitError != nil {
			return batch.Failed(record, visitError)
		}

		outputPath, writeError := batch.WriteOutput(options.OutputDirectory, record.Name, infoFileExtensionConstant, []byte(infoText))
		if writeError != nil {
			return batch.Failed(record, writeError)
		}
		return batch.Written(record, outputPath)
	})
}

func buildInfo(executionContext context.Context, session browser.Session, record projects.Record) (string, error) {
	pageSource, sourceError := session.HTML(executionContext)
	if sourceError != nil {
		return "", fmt.Errorf(pageSourceErrorTemplateConstant, sourceError)
	}
	pageTitle, titleError := session.Title(executionContext)
	if titleError != nil {
		return "", fmt.Errorf(pageTitleErrorTemplateConstant, titleError)
	}
	document, parseError := extract.ParseDocument(pageSource, record.Website)
	if parseError != nil {
		return "", parseError
	}
	return extract.ProjectInfo(record.Name, record.Website, document, pageTitle), nil
}
