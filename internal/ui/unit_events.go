package ui

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/impacteval/harvest/internal/outcome"
)

const (
	unitWrittenMessageTemplateConstant     = "Completed %s"
	unitWrittenPathMessageTemplateConstant = "Completed %s -> %s"
	unitNoInfoMessageTemplateConstant      = "No usable information for %s"
	unitFailedMessageTemplateConstant      = "%s failed: %s"
	unitSkippedMessageTemplateConstant     = "Skipped %s"
	unitLabelWebsiteTemplateConstant       = "%s (%s)"
	unknownFailureMessageConstant          = "unknown error"
	unitStructuredMessageConstant          = "unit finished"
	projectLogFieldConstant                = "project"
	websiteLogFieldConstant                = "website"
	pathLogFieldConstant                   = "path"
	outcomeLogFieldConstant                = "outcome"
)

// UnitEvent describes how one project's unit of work ended.
type UnitEvent struct {
	Project string
	Website string
	Path    string
	Outcome outcome.Outcome
	Failure error
}

// UnitEventObserver receives unit completion notifications.
type UnitEventObserver interface {
	UnitFinished(event UnitEvent)
}

// UnitEventFormatter builds human-readable messages for unit events.
type UnitEventFormatter struct{}

// BuildMessage formats the message describing a finished unit.
func (formatter UnitEventFormatter) BuildMessage(event UnitEvent) string {
	label := formatter.formatLabel(event)
	switch event.Outcome {
	case outcome.Written:
		trimmedPath := strings.TrimSpace(event.Path)
		if len(trimmedPath) == 0 {
			return fmt.Sprintf(unitWrittenMessageTemplateConstant, label)
		}
		return fmt.Sprintf(unitWrittenPathMessageTemplateConstant, label, trimmedPath)
	case outcome.NoInfo:
		return fmt.Sprintf(unitNoInfoMessageTemplateConstant, label)
	case outcome.Failed:
		failureMessage := unknownFailureMessageConstant
		if event.Failure != nil {
			failureMessage = event.Failure.Error()
		}
		return fmt.Sprintf(unitFailedMessageTemplateConstant, label, failureMessage)
	default:
		return fmt.Sprintf(unitSkippedMessageTemplateConstant, label)
	}
}

func (formatter UnitEventFormatter) formatLabel(event UnitEvent) string {
	trimmedWebsite := strings.TrimSpace(event.Website)
	if len(trimmedWebsite) == 0 {
		return event.Project
	}
	return fmt.Sprintf(unitLabelWebsiteTemplateConstant, event.Project, trimmedWebsite)
}

// ConsoleUnitEventLogger renders unit events as readable sentences through a console-encoded logger.
type ConsoleUnitEventLogger struct {
	logger    *zap.Logger
	formatter UnitEventFormatter
}

// NewConsoleUnitEventLogger constructs a console event logger backed by the provided zap logger.
func NewConsoleUnitEventLogger(logger *zap.Logger) *ConsoleUnitEventLogger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ConsoleUnitEventLogger{logger: logger, formatter: UnitEventFormatter{}}
}

// UnitFinished implements UnitEventObserver.
func (eventLogger *ConsoleUnitEventLogger) UnitFinished(event UnitEvent) {
	if eventLogger == nil {
		return
	}
	if event.Outcome == outcome.Failed {
		eventLogger.logger.Warn(eventLogger.formatter.BuildMessage(event))
		return
	}
	eventLogger.logger.Info(eventLogger.formatter.BuildMessage(event))
}

// StructuredUnitEventLogger emits unit events as structured log entries.
type StructuredUnitEventLogger struct {
	logger *zap.Logger
}

// NewStructuredUnitEventLogger constructs a structured event logger backed by the provided zap logger.
func NewStructuredUnitEventLogger(logger *zap.Logger) *StructuredUnitEventLogger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StructuredUnitEventLogger{logger: logger}
}

// UnitFinished implements UnitEventObserver.
func (eventLogger *StructuredUnitEventLogger) UnitFinished(event UnitEvent) {
	if eventLogger == nil {
		return
	}
	fields := []zap.Field{
		zap.String(projectLogFieldConstant, event.Project),
		zap.String(websiteLogFieldConstant, event.Website),
		zap.String(outcomeLogFieldConstant, string(event.Outcome)),
	}
	if len(event.Path) > 0 {
		fields = append(fields, zap.String(pathLogFieldConstant, event.Path))
	}
	if event.Outcome == outcome.Failed {
		fields = append(fields, zap.Error(event.Failure))
		eventLogger.logger.Warn(unitStructuredMessageConstant, fields...)
		return
	}
	eventLogger.logger.Info(unitStructuredMessageConstant, fields...)
}

// NewUnitEventObserver selects the console or structured observer.
func NewUnitEventObserver(logger *zap.Logger, humanReadable bool) UnitEventObserver {
	if humanReadable {
		return NewConsoleUnitEventLogger(logger)
	}
	return NewStructuredUnitEventLogger(logger)
}
