package ui

import (
	"io"

	"github.com/impacteval/harvest/internal/outcome"
)

// BatchReporter tallies unit outcomes, forwards events to an observer, and advances a progress bar.
//
// Report is meant to be called from a single sink goroutine.
type BatchReporter struct {
	progress Progress
	observer UnitEventObserver
	tally    *outcome.Tally
}

// NewBatchReporter constructs a reporter for a batch of total units.
func NewBatchReporter(progressWriter io.Writer, total int, description string, observer UnitEventObserver) *BatchReporter {
	return &BatchReporter{
		progress: NewProgress(progressWriter, total, description),
		observer: observer,
		tally:    &outcome.Tally{},
	}
}

// Report records one finished unit.
func (reporter *BatchReporter) Report(event UnitEvent) {
	reporter.tally.Record(event.Outcome)
	if reporter.observer != nil {
		reporter.observer.UnitFinished(event)
	}
	reporter.progress.Advance()
}

// Finish completes the progress bar and returns the tally.
func (reporter *BatchReporter) Finish() *outcome.Tally {
	reporter.progress.Finish()
	return reporter.tally
}
