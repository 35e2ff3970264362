package screenshots

import (
	"context"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/impacteval/harvest/internal/batch"
	"github.com/impacteval/harvest/internal/browser"
	"github.com/impacteval/harvest/internal/outcome"
	"github.com/impacteval/harvest/internal/projects"
	"github.com/impacteval/harvest/internal/ui"
)

const (
	screenshotFileExtensionConstant = ".png"
	progressDescriptionConstant     = "screenshots"
	captureWidthConstant            = 1920
	scrollHeightErrorTemplate       = "measure page height: %w"
	captureErrorTemplateConstant    = "capture screenshot: %w"
	screenshotsStartedMessage       = "capturing screenshots"
	projectCountLogFieldConstant    = "projects"
	outputDirectoryLogFieldConstant = "path"
)

// Options configure one screenshots run.
type Options struct {
	InputPath       string
	OutputDirectory string
	Workers         int
	Timing          browser.Configuration
}

// Dependencies are the collaborators of a screenshots run.
type Dependencies struct {
	Launcher       browser.Launcher
	Logger         *zap.Logger
	Observer       ui.UnitEventObserver
	ProgressWriter io.Writer
}

// Service captures every actionable project website.
type Service struct {
	dependencies Dependencies
}

// NewService constructs a screenshots service.
func NewService(dependencies Dependencies) *Service {
	if dependencies.Logger == nil {
		dependencies.Logger = zap.NewNop()
	}
	return &Service{dependencies: dependencies}
}

// Run captures a screenshot for every actionable row.
func (service *Service) Run(executionContext context.Context, options Options) (*outcome.Tally, error) {
	records, loadError := batch.LoadActionable(options.InputPath)
	if loadError != nil {
		return nil, loadError
	}

	service.dependencies.Logger.Info(
		screenshotsStartedMessage,
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
	visitSettings := batch.VisitSettings{
		Launcher:     service.dependencies.Launcher,
		Timing:       options.Timing,
		BeforeScroll: fitViewportToDocument,
	}

	return batch.Run(executionContext, job, func(unitContext context.Context, record projects.Record) ui.UnitEvent {
		var imageData []byte
		visitError := batch.Visit(unitContext, visitSettings, record, func(session browser.Session) error {
			var captureError error
			imageData, captureError = session.FullPageScreenshot(unitContext)
			if captureError != nil {
				return fmt.Errorf(captureErrorTemplateConstant, captureError)
			}
			return nil
		})
		if visitError != nil {
			return batch.Failed(record, visitError)
		}

		outputPath, writeError := batch.WriteOutput(options.OutputDirectory, record.Name, screenshotFileExtensionConstant, imageData)
		if writeError != nil {
			return batch.Failed(record, writeError)
		}
		return batch.Written(record, outputPath)
	})
}

// fitViewportToDocument resizes the window to the full document height so lazy content renders.
func fitViewportToDocument(executionContext context.Context, session browser.Session) error {
	scrollHeight, heightError := session.ScrollHeight(executionContext)
	if heightError != nil {
		return fmt.Errorf(scrollHeightErrorTemplate, heightError)
	}
	return session.SetViewport(executionContext, captureWidthConstant, scrollHeight)
}
