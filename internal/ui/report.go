package ui

import (
	"fmt"
	"io"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/impacteval/harvest/internal/outcome"
)

const (
	reportOutcomeHeaderConstant = "Outcome"
	reportCountHeaderConstant   = "Units"
	reportTotalLabelConstant    = "total"
	reportLineTemplateConstant  = "%s\n"
)

// RenderRunReport renders the outcome counts of a batch as a table.
func RenderRunReport(title string, tally *outcome.Tally) string {
	tableWriter := table.NewWriter()
	tableWriter.SetStyle(table.StyleRounded)
	if len(title) > 0 {
		tableWriter.SetTitle(title)
	}
	tableWriter.AppendHeader(table.Row{reportOutcomeHeaderConstant, reportCountHeaderConstant})

	total := 0
	for _, unitOutcome := range outcome.Ordered {
		count := 0
		if tally != nil {
			count = tally.Count(unitOutcome)
		}
		total += count
		tableWriter.AppendRow(table.Row{string(unitOutcome), strconv.Itoa(count)})
	}
	tableWriter.AppendFooter(table.Row{reportTotalLabelConstant, strconv.Itoa(total)})

	tableWriter.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignLeft, AlignHeader: text.AlignLeft},
		{Number: 2, Align: text.AlignRight, AlignHeader: text.AlignLeft, AlignFooter: text.AlignRight},
	})

	return tableWriter.Render()
}

// WriteRunReport writes the rendered report followed by a newline.
func WriteRunReport(writer io.Writer, title string, tally *outcome.Tally) error {
	if writer == nil {
		return nil
	}
	_, writeError := fmt.Fprintf(writer, reportLineTemplateConstant, RenderRunReport(title, tally))
	return writeError
}
