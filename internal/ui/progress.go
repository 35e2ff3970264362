package ui

import (
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"
)

// Progress tracks how many units of a batch have finished.
type Progress interface {
	Advance()
	Finish()
}

type terminalProgress struct {
	bar *progressbar.ProgressBar
}

func (progress *terminalProgress) Advance() {
	_ = progress.bar.Add(1)
}

func (progress *terminalProgress) Finish() {
	_ = progress.bar.Finish()
}

type silentProgress struct{}

func (silentProgress) Advance() {}

func (silentProgress) Finish() {}

// NewProgress renders a progress bar on interactive terminals and stays silent elsewhere.
func NewProgress(writer io.Writer, total int, description string) Progress {
	if total <= 0 || !IsTerminal(writer) {
		return silentProgress{}
	}
	bar := progressbar.NewOptions(total,
		progressbar.OptionSetWriter(writer),
		progressbar.OptionSetDescription(description),
		progressbar.OptionShowCount(),
		progressbar.OptionSetPredictTime(true),
		progressbar.OptionClearOnFinish(),
	)
	return &terminalProgress{bar: bar}
}

// IsTerminal reports whether the writer is an interactive terminal.
func IsTerminal(writer io.Writer) bool {
	file, isFile := writer.(*os.File)
	if !isFile {
		return false
	}
	fileDescriptor := file.Fd()
	return isatty.IsTerminal(fileDescriptor) || isatty.IsCygwinTerminal(fileDescriptor)
}
