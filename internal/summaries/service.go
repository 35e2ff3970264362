package summaries

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/impacteval/harvest/internal/batch"
	"github.com/impacteval/harvest/internal/outcome"
	"github.com/impacteval/harvest/internal/projects"
	"github.com/impacteval/harvest/internal/ui"
)

const (
	infoFileExtensionConstant     = ".txt"
	summaryFileExtensionConstant  = ".txt"
	progressDescriptionConstant   = "summaries"
	infoReadFailedMessageConstant = "project information unavailable"
	modelFailedErrorTemplate      = "summary request failed: %w"
	summariesStartedMessage       = "generating summaries"
	projectLogFieldConstant       = "project"
	pathLogFieldConstant          = "path"
	modelLogFieldConstant         = "model"
	projectCountLogFieldConstant  = "projects"
	modelMissingMessageConstant   = "summary model not configured"
)

var errModelMissing = errors.New(modelMissingMessageConstant)

// Options configure one summarize run.
type Options struct {
	InputPath       string
	InfoDirectory   string
	OutputDirectory string
	Workers         int
	ModelName       string
}

// Dependencies are the collaborators of a summarize run.
type Dependencies struct {
	Model          Model
	Logger         *zap.Logger
	Observer       ui.UnitEventObserver
	ProgressWriter io.Writer
}

// Service writes one summary per project with saved information.
type Service struct {
	dependencies Dependencies
}

// NewService constructs a summaries service.
func NewService(dependencies Dependencies) *Service {
	if dependencies.Logger == nil {
		dependencies.Logger = zap.NewNop()
	}
	return &Service{dependencies: dependencies}
}

// Run summarizes every named row.
func (service *Service) Run(executionContext context.Context, options Options) (*outcome.Tally, error) {
	if service.dependencies.Model == nil {
		return nil, errModelMissing
	}
	records, loadError := batch.LoadNamed(options.InputPath)
	if loadError != nil {
		return nil, loadError
	}

	service.dependencies.Logger.Info(
		summariesStartedMessage,
		zap.Int(projectCountLogFieldConstant, len(records)),
		zap.String(modelLogFieldConstant, options.ModelName),
	)

	job := batch.Job{
		Records:        records,
		Workers:        options.Workers,
		Description:    progressDescriptionConstant,
		ProgressWriter: service.dependencies.ProgressWriter,
		Observer:       service.dependencies.Observer,
	}

	return batch.Run(executionContext, job, func(unitContext context.Context, record projects.Record) ui.UnitEvent {
		summary, summaryError := service.summarize(unitContext, options, record)
		switch summary {
		case NoInfoSentinel:
			return ui.UnitEvent{Project: record.Name, Website: record.Website, Outcome: outcome.NoInfo}
		case ErrorSentinel:
			return batch.Failed(record, summaryError)
		}

		outputPath, writeError := batch.WriteOutput(options.OutputDirectory, record.Name, summaryFileExtensionConstant, []byte(summary))
		if writeError != nil {
			return batch.Failed(record, writeError)
		}
		return batch.Written(record, outputPath)
	})
}

// summarize returns the trimmed model reply or a sentinel; the error explains an ERROR sentinel.
func (service *Service) summarize(executionContext context.Context, options Options, record projects.Record) (string, error) {
	infoPath := batch.OutputPath(options.InfoDirectory, record.Name, infoFileExtensionConstant)
	projectInfo, readError := os.ReadFile(infoPath)
	if readError != nil {
		service.dependencies.Logger.Debug(infoReadFailedMessageConstant, zap.String(projectLogFieldConstant, record.Name), zap.String(pathLogFieldConstant, infoPath), zap.Error(readError))
		return NoInfoSentinel, nil
	}
	return GenerateSummary(executionContext, service.dependencies.Model, options.ModelName, string(projectInfo))
}

// GenerateSummary asks the model for a summary of projectInfo.
//
// A model failure yields ErrorSentinel together with the cause.
func GenerateSummary(executionContext context.Context, model Model, modelName string, projectInfo string) (string, error) {
	reply, completionError := model.Complete(executionContext, ChatRequest{
		Model:         modelName,
		SystemMessage: SystemMessage,
		UserMessage:   BuildPrompt(projectInfo),
	})
	if completionError != nil {
		return ErrorSentinel, fmt.Errorf(modelFailedErrorTemplate, completionError)
	}
	return strings.TrimSpace(reply), nil
}
