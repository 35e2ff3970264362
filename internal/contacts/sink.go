package contacts

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/gofrs/flock"
)

const (
	projectNameColumnConstant       = "Project Name"
	emailColumnConstant             = "Email"
	socialsColumnConstant           = "Socials"
	valueSeparatorConstant          = "; "
	lockFileSuffixConstant          = ".lock"
	outputDirectoryPermissions      = 0o755
	outputFilePermissions           = 0o644
	sinkPathRequiredMessageConstant = "contact output path must be provided"
	sinkLockErrorTemplateConstant   = "unable to lock %s: %w"
	sinkOpenErrorTemplateConstant   = "unable to open %s: %w"
	sinkWriteErrorTemplateConstant  = "unable to write %s: %w"
	sinkDirectoryErrorTemplate      = "unable to create directory for %s: %w"
)

// Header lists the contact CSV columns.
var Header = []string{projectNameColumnConstant, emailColumnConstant, socialsColumnConstant}

// Row is one project's contact details.
type Row struct {
	ProjectName string
	Emails      []string
	Socials     []string
}

// CSVRecord renders the row with "; "-joined emails and socials.
func (row Row) CSVRecord() []string {
	return []string{
		row.ProjectName,
		strings.Join(row.Emails, valueSeparatorConstant),
		strings.Join(row.Socials, valueSeparatorConstant),
	}
}

// CSVSink appends contact rows to a CSV file guarded by an advisory lock file.
// It is safe for concurrent use.
type CSVSink struct {
	path string
	// flock.Flock does not exclude goroutines sharing it; the mutex does.
	mutex    sync.Mutex
	fileLock *flock.Flock
}

// OpenCSVSink prepares the output file, writing the header only when the file does not exist yet.
func OpenCSVSink(outputPath string) (*CSVSink, error) {
	trimmedPath := strings.TrimSpace(outputPath)
	if len(trimmedPath) == 0 {
		return nil, errors.New(sinkPathRequiredMessageConstant)
	}
	if directoryError := os.MkdirAll(filepath.Dir(trimmedPath), outputDirectoryPermissions); directoryError != nil {
		return nil, fmt.Errorf(sinkDirectoryErrorTemplate, trimmedPath, directoryError)
	}

	sink := &CSVSink{path: trimmedPath, fileLock: flock.New(trimmedPath + lockFileSuffixConstant)}
	writeError := sink.withLock(func() error {
		_, statError := os.Stat(trimmedPath)
		if statError == nil {
			return nil
		}
		if !errors.Is(statError, fs.ErrNotExist) {
			return statError
		}
		return sink.appendRecords([][]string{Header})
	})
	if writeError != nil {
		return nil, writeError
	}
	return sink, nil
}

// Path returns the output file path.
func (sink *CSVSink) Path() string {
	return sink.path
}

// Append writes one row under the file lock.
func (sink *CSVSink) Append(row Row) error {
	return sink.withLock(func() error {
		return sink.appendRecords([][]string{row.CSVRecord()})
	})
}

func (sink *CSVSink) withLock(action func() error) error {
	sink.mutex.Lock()
	defer sink.mutex.Unlock()
	if lockError := sink.fileLock.Lock(); lockError != nil {
		return fmt.Errorf(sinkLockErrorTemplateConstant, sink.path, lockError)
	}
	defer func() {
		_ = sink.fileLock.Unlock()
	}()
	return action()
}

func (sink *CSVSink) appendRecords(records [][]string) error {
	fileHandle, openError := os.OpenFile(sink.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, outputFilePermissions)
	if openError != nil {
		return fmt.Errorf(sinkOpenErrorTemplateConstant, sink.path, openError)
	}

	csvWriter := csv.NewWriter(fileHandle)
	writeError := csvWriter.WriteAll(records)
	closeError := fileHandle.Close()
	if writeError != nil {
		return fmt.Errorf(sinkWriteErrorTemplateConstant, sink.path, writeError)
	}
	if closeError != nil {
		return fmt.Errorf(sinkWriteErrorTemplateConstant, sink.path, closeError)
	}
	return nil
}
