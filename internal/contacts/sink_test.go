package contacts_test

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/impacteval/harvest/internal/contacts"
)

func readContactRows(testInstance *testing.T, filePath string) [][]string {
	testInstance.Helper()
	fileHandle, openError := os.Open(filePath)
	require.NoError(testInstance, openError)
	defer fileHandle.Close()
	rows, readError := csv.NewReader(fileHandle).ReadAll()
	require.NoError(testInstance, readError)
	return rows
}

func TestCSVSinkWritesHeaderOnlyForNewFiles(testInstance *testing.T) {
	outputPath := filepath.Join(testInstance.TempDir(), "nested", "contact_info.csv")

	firstSink, firstOpenError := contacts.OpenCSVSink(outputPath)
	require.NoError(testInstance, firstOpenError)
	require.NoError(testInstance, firstSink.Append(contacts.Row{
		ProjectName: "Alpha, Inc.",
		Emails:      []string{"a@alpha.org", "b@alpha.org"},
		Socials:     []string{"https://twitter.com/alpha"},
	}))

	secondSink, secondOpenError := contacts.OpenCSVSink(outputPath)
	require.NoError(testInstance, secondOpenError)
	require.NoError(testInstance, secondSink.Append(contacts.Row{ProjectName: "Beta"}))

	require.Equal(testInstance, [][]string{
		{"Project Name", "Email", "Socials"},
		{"Alpha, Inc.", "a@alpha.org; b@alpha.org", "https://twitter.com/alpha"},
		{"Beta", "", ""},
	}, readContactRows(testInstance, outputPath))
}

func TestOpenCSVSinkRequiresPath(testInstance *testing.T) {
	_, openError := contacts.OpenCSVSink("  ")
	require.Error(testInstance, openError)
}

func TestCSVSinkConcurrentAppendsKeepRowsIntact(testInstance *testing.T) {
	const (
		goroutineCount    = 5
		rowsPerGoroutine  = 40
		expectedRowLength = 3
	)

	outputPath := filepath.Join(testInstance.TempDir(), "contact_info.csv")
	sink, openError := contacts.OpenCSVSink(outputPath)
	require.NoError(testInstance, openError)

	var waitGroup sync.WaitGroup
	for goroutineIndex := 0; goroutineIndex < goroutineCount; goroutineIndex++ {
		waitGroup.Add(1)
		go func(workerIndex int) {
			defer waitGroup.Done()
			for rowIndex := 0; rowIndex < rowsPerGoroutine; rowIndex++ {
				appendError := sink.Append(contacts.Row{
					ProjectName: fmt.Sprintf("Project %d-%d", workerIndex, rowIndex),
					Emails:      []string{strings.Repeat("x", 512) + "@example.org"},
					Socials:     []string{"https://twitter.com/example"},
				})
				require.NoError(testInstance, appendError)
			}
		}(goroutineIndex)
	}
	waitGroup.Wait()

	rows := readContactRows(testInstance, outputPath)
	require.Len(testInstance, rows, goroutineCount*rowsPerGoroutine+1)
	require.Equal(testInstance, contacts.Header, rows[0])
	seenNames := make(map[string]struct{}, len(rows)-1)
	for _, row := range rows[1:] {
		require.Len(testInstance, row, expectedRowLength)
		seenNames[row[0]] = struct{}{}
	}
	require.Len(testInstance, seenNames, goroutineCount*rowsPerGoroutine)
}
