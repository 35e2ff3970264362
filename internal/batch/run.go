package batch

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/impacteval/harvest/internal/outcome"
	"github.com/impacteval/harvest/internal/projects"
	"github.com/impacteval/harvest/internal/ui"
	"github.com/impacteval/harvest/internal/workerpool"
)

const inputReadErrorTemplateConstant = "unable to load project list %s: %w"

// Job describes one fan-out over project records.
type Job struct {
	Records        []projects.Record
	Workers        int
	Description    string
	ProgressWriter io.Writer
	Observer       ui.UnitEventObserver
}

// UnitWork processes one record and reports how it ended.
type UnitWork func(executionContext context.Context, record projects.Record) ui.UnitEvent

// Run processes every record through the worker pool and returns the outcome tally.
//
// The tally is returned even when the context was cancelled so callers can
// report partial progress.
func Run(executionContext context.Context, job Job, work UnitWork) (*outcome.Tally, error) {
	reporter := ui.NewBatchReporter(job.ProgressWriter, len(job.Records), job.Description, job.Observer)
	poolError := workerpool.Run(executionContext, job.Records, job.Workers, func(unitContext context.Context, record projects.Record) ui.UnitEvent {
		return work(unitContext, record)
	}, reporter.Report)
	return reporter.Finish(), poolError
}

// LoadActionable reads the canonical list and keeps rows with a name and a website.
func LoadActionable(inputPath string) ([]projects.Record, error) {
	records, readError := projects.ReadCanonical(inputPath)
	if readError != nil {
		return nil, fmt.Errorf(inputReadErrorTemplateConstant, inputPath, readError)
	}
	return projects.ActionableRows(records), nil
}

// LoadNamed reads the canonical list and keeps rows with a non-blank name.
func LoadNamed(inputPath string) ([]projects.Record, error) {
	records, readError := projects.ReadCanonical(inputPath)
	if readError != nil {
		return nil, fmt.Errorf(inputReadErrorTemplateConstant, inputPath, readError)
	}
	namedRecords := make([]projects.Record, 0, len(records))
	for _, record := range records {
		if len(strings.TrimSpace(record.Name)) == 0 {
			continue
		}
		namedRecords = append(namedRecords, record)
	}
	return namedRecords, nil
}

// Failed builds the event for a unit that ended with an error.
func Failed(record projects.Record, failure error) ui.UnitEvent {
	return ui.UnitEvent{Project: record.Name, Website: record.Website, Outcome: outcome.Failed, Failure: failure}
}

// Written builds the event for a unit that produced the output at path.
func Written(record projects.Record, path string) ui.UnitEvent {
	return ui.UnitEvent{Project: record.Name, Website: record.Website, Path: path, Outcome: outcome.Written}
}
