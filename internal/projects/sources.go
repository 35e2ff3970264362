package projects

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

const (
	directoryImageColumnConstant          = "Project image"
	directoryNameColumnConstant           = "Project name"
	directoryLinkColumnConstant           = "Project link"
	directoryDescriptionColumnConstant    = "Description"
	directoryWebsiteColumnConstant        = "Website"
	partnerNameColumnConstant             = "Project name"
	partnerDescriptionColumnConstant      = "DESCRIPTION SHORT = VALUE PROPOSITION IN A TWEET"
	partnerWebsiteColumnConstant          = "Website"
	canonicalNameColumnConstant           = "Name"
	canonicalDescriptionColumnConstant    = "Description"
	canonicalWebsiteColumnConstant        = "Website"
	byteOrderMarkConstant                 = "\uFEFF"
	outputDirectoryPermissionsConstant    = 0o755
	csvOpenErrorTemplateConstant          = "unable to open %s: %w"
	csvParseErrorTemplateConstant         = "unable to parse %s: %w"
	csvCreateErrorTemplateConstant        = "unable to create %s: %w"
	csvWriteErrorTemplateConstant         = "unable to write %s: %w"
	csvDirectoryErrorTemplateConstant     = "unable to create directory for %s: %w"
	csvEmptyInputErrorMessageConstant     = "csv input has no header row"
	csvPathRequiredErrorMessageConstant   = "csv path must be provided"
	csvHeaderOnlyRecordCountConstant      = 1
	csvFirstDataRowIndexConstant          = 1
	csvFieldsPerRecordUnconstrainedMarker = -1
)

// ErrMissingHeader indicates a CSV file without a header row.
var ErrMissingHeader = errors.New(csvEmptyInputErrorMessageConstant)

// missingValueTokens lists the cell values treated as absent in partner-style exports.
var missingValueTokens = map[string]struct{}{
	"":         {},
	"#N/A":     {},
	"#N/A N/A": {},
	"#NA":      {},
	"-1.#IND":  {},
	"-1.#QNAN": {},
	"-NaN":     {},
	"-nan":     {},
	"1.#IND":   {},
	"1.#QNAN":  {},
	"<NA>":     {},
	"N/A":      {},
	"NA":       {},
	"NULL":     {},
	"NaN":      {},
	"None":     {},
	"n/a":      {},
	"nan":      {},
	"null":     {},
}

// DirectoryExportHeader lists the columns written by the directory scrape.
var DirectoryExportHeader = []string{
	directoryImageColumnConstant,
	directoryNameColumnConstant,
	directoryLinkColumnConstant,
	directoryDescriptionColumnConstant,
	directoryWebsiteColumnConstant,
}

// CanonicalHeader lists the columns of the merged project list.
var CanonicalHeader = []string{
	canonicalNameColumnConstant,
	canonicalDescriptionColumnConstant,
	canonicalWebsiteColumnConstant,
}

// headerRow resolves cell values by column name, tolerating ragged rows and absent columns.
type headerRow struct {
	columnPositions map[string]int
	cells           []string
	treatTokensAsNA bool
}

func (row headerRow) value(columnName string) string {
	columnPosition, exists := row.columnPositions[columnName]
	if !exists || columnPosition >= len(row.cells) {
		return ""
	}
	cellValue := row.cells[columnPosition]
	if row.treatTokensAsNA && IsMissingValue(cellValue) {
		return ""
	}
	return cellValue
}

// IsMissingValue reports whether a partner-export cell denotes an absent value.
func IsMissingValue(cellValue string) bool {
	_, missing := missingValueTokens[cellValue]
	return missing
}

// ReadDirectoryExport loads the directory scrape output; empty cells stay empty strings.
func ReadDirectoryExport(filePath string) ([]Record, error) {
	return readRecords(filePath, false, func(row headerRow) Record {
		return Record{
			Name:        row.value(directoryNameColumnConstant),
			Description: row.value(directoryDescriptionColumnConstant),
			Website:     row.value(directoryWebsiteColumnConstant),
		}
	})
}

// ReadPartnerExport loads the partner export, treating empty cells and NA tokens as absent.
func ReadPartnerExport(filePath string) ([]Record, error) {
	return readRecords(filePath, true, func(row headerRow) Record {
		return Record{
			Name:        row.value(partnerNameColumnConstant),
			Description: row.value(partnerDescriptionColumnConstant),
			Website:     row.value(partnerWebsiteColumnConstant),
		}
	})
}

// ReadCanonical loads a merged project list produced by WriteCanonical.
func ReadCanonical(filePath string) ([]Record, error) {
	return readRecords(filePath, true, func(row headerRow) Record {
		return Record{
			Name:        row.value(canonicalNameColumnConstant),
			Description: row.value(canonicalDescriptionColumnConstant),
			Website:     row.value(canonicalWebsiteColumnConstant),
		}
	})
}

// WriteCanonical writes the merged project list with a Name,Description,Website header.
func WriteCanonical(filePath string, records []Record) error {
	rows := make([][]string, 0, len(records))
	for _, record := range records {
		rows = append(rows, []string{record.Name, record.Description, record.Website})
	}
	return writeRows(filePath, CanonicalHeader, rows)
}

// WriteDirectoryExport writes scraped directory listings.
func WriteDirectoryExport(filePath string, listings []DirectoryListing) error {
	rows := make([][]string, 0, len(listings))
	for _, listing := range listings {
		rows = append(rows, []string{listing.Image, listing.Name, listing.Link, listing.Description, listing.Website})
	}
	return writeRows(filePath, DirectoryExportHeader, rows)
}

func readRecords(filePath string, treatTokensAsNA bool, mapRow func(headerRow) Record) ([]Record, error) {
	trimmedPath := strings.TrimSpace(filePath)
	if len(trimmedPath) == 0 {
		return nil, errors.New(csvPathRequiredErrorMessageConstant)
	}

	fileHandle, openError := os.Open(trimmedPath)
	if openError != nil {
		return nil, fmt.Errorf(csvOpenErrorTemplateConstant, trimmedPath, openError)
	}
	defer fileHandle.Close()

	rawRows, parseError := parseRows(fileHandle)
	if parseError != nil {
		return nil, fmt.Errorf(csvParseErrorTemplateConstant, trimmedPath, parseError)
	}

	columnPositions := make(map[string]int, len(rawRows[0]))
	for columnPosition, columnName := range rawRows[0] {
		if _, exists := columnPositions[columnName]; exists {
			continue
		}
		columnPositions[columnName] = columnPosition
	}

	records := make([]Record, 0, len(rawRows)-csvHeaderOnlyRecordCountConstant)
	for _, cells := range rawRows[csvFirstDataRowIndexConstant:] {
		records = append(records, mapRow(headerRow{
			columnPositions: columnPositions,
			cells:           cells,
			treatTokensAsNA: treatTokensAsNA,
		}))
	}

	return records, nil
}

func parseRows(reader io.Reader) ([][]string, error) {
	bufferedReader := bufio.NewReader(reader)
	if leadingBytes, peekError := bufferedReader.Peek(len(byteOrderMarkConstant)); peekError == nil && bytes.Equal(leadingBytes, []byte(byteOrderMarkConstant)) {
		if _, discardError := bufferedReader.Discard(len(byteOrderMarkConstant)); discardError != nil {
			return nil, discardError
		}
	}

	csvReader := csv.NewReader(bufferedReader)
	csvReader.FieldsPerRecord = csvFieldsPerRecordUnconstrainedMarker

	rawRows, readError := csvReader.ReadAll()
	if readError != nil {
		return nil, readError
	}
	if len(rawRows) == 0 {
		return nil, ErrMissingHeader
	}

	return rawRows, nil
}

func writeRows(filePath string, header []string, rows [][]string) error {
	trimmedPath := strings.TrimSpace(filePath)
	if len(trimmedPath) == 0 {
		return errors.New(csvPathRequiredErrorMessageConstant)
	}

	if directoryError := os.MkdirAll(filepath.Dir(trimmedPath), outputDirectoryPermissionsConstant); directoryError != nil {
		return fmt.Errorf(csvDirectoryErrorTemplateConstant, trimmedPath, directoryError)
	}

	fileHandle, createError := os.Create(trimmedPath)
	if createError != nil {
		return fmt.Errorf(csvCreateErrorTemplateConstant, trimmedPath, createError)
	}

	csvWriter := csv.NewWriter(fileHandle)
	writeError := csvWriter.Write(header)
	if writeError == nil {
		writeError = csvWriter.WriteAll(rows)
	}
	closeError := fileHandle.Close()

	if writeError != nil {
		return fmt.Errorf(csvWriteErrorTemplateConstant, trimmedPath, writeError)
	}
	if closeError != nil {
		return fmt.Errorf(csvWriteErrorTemplateConstant, trimmedPath, closeError)
	}

	return nil
}
