package batch_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/impacteval/harvest/internal/batch"
	"github.com/impacteval/harvest/internal/browser"
	"github.com/impacteval/harvest/internal/browser/browsertest"
	"github.com/impacteval/harvest/internal/outcome"
	"github.com/impacteval/harvest/internal/projects"
	"github.com/impacteval/harvest/internal/ui"
)

const batchSubtestNameTemplateConstant = "%d_%s"

func writeCanonical(testInstance *testing.T, records []projects.Record) string {
	testInstance.Helper()
	inputPath := filepath.Join(testInstance.TempDir(), "mixed_data.csv")
	require.NoError(testInstance, projects.WriteCanonical(inputPath, records))
	return inputPath
}

func TestLoadFilters(testInstance *testing.T) {
	inputPath := writeCanonical(testInstance, []projects.Record{
		{Name: "Alpha", Website: "https://alpha.org"},
		{Name: "Beta"},
		{Name: " ", Website: "https://blank.org"},
		{Name: "NA", Website: "https://na.org"},
	})

	testCases := []struct {
		name          string
		load          func(string) ([]projects.Record, error)
		expectedNames []string
	}{
		{name: "actionable", load: batch.LoadActionable, expectedNames: []string{"Alpha"}},
		{name: "named", load: batch.LoadNamed, expectedNames: []string{"Alpha", "Beta"}},
	}

	for testCaseIndex, testCase := range testCases {
		testInstance.Run(fmt.Sprintf(batchSubtestNameTemplateConstant, testCaseIndex, testCase.name), func(testInstance *testing.T) {
			records, loadError := testCase.load(inputPath)
			require.NoError(testInstance, loadError)
			names := make([]string, 0, len(records))
			for _, record := range records {
				names = append(names, record.Name)
			}
			require.Equal(testInstance, testCase.expectedNames, names)
		})
	}
}

func TestLoadReportsMissingInput(testInstance *testing.T) {
	_, loadError := batch.LoadActionable(filepath.Join(testInstance.TempDir(), "absent.csv"))
	require.Error(testInstance, loadError)
}

func TestRunTalliesEveryRecord(testInstance *testing.T) {
	records := []projects.Record{{Name: "Alpha"}, {Name: "Beta"}, {Name: "Gamma"}}
	tally, runError := batch.Run(context.Background(), batch.Job{Records: records, Workers: 2, ProgressWriter: io.Discard}, func(_ context.Context, record projects.Record) ui.UnitEvent {
		if record.Name == "Beta" {
			return batch.Failed(record, errors.New("boom"))
		}
		return batch.Written(record, "")
	})
	require.NoError(testInstance, runError)
	require.Equal(testInstance, 2, tally.Count(outcome.Written))
	require.Equal(testInstance, 1, tally.Count(outcome.Failed))
}

func TestVisitReleasesSession(testInstance *testing.T) {
	launcher := browsertest.NewLauncher(map[string]browsertest.Page{
		"https://alpha.org": {HTML: "<html><body>alpha</body></html>"},
	})
	settings := batch.VisitSettings{Launcher: launcher, Timing: browser.DefaultConfiguration()}

	var pageSource string
	visitError := batch.Visit(context.Background(), settings, projects.Record{Name: "Alpha", Website: "https://alpha.org"}, func(session browser.Session) error {
		var htmlError error
		pageSource, htmlError = session.HTML(context.Background())
		return htmlError
	})
	require.NoError(testInstance, visitError)
	require.Contains(testInstance, pageSource, "alpha")

	missingError := batch.Visit(context.Background(), settings, projects.Record{Name: "Beta", Website: "https://beta.org"}, func(browser.Session) error {
		return nil
	})
	require.ErrorIs(testInstance, missingError, browsertest.ErrUnknownPage)
	require.Equal(testInstance, 2, launcher.Closed())
}

func TestWriteOutputUsesFileStem(testInstance *testing.T) {
	outputDirectory := filepath.Join(testInstance.TempDir(), "info")
	outputPath, writeError := batch.WriteOutput(outputDirectory, "Alpha Beta/Gamma", ".txt", []byte("content"))
	require.NoError(testInstance, writeError)
	require.Equal(testInstance, filepath.Join(outputDirectory, "Alpha_Beta_Gamma.txt"), outputPath)
	content, readError := os.ReadFile(outputPath)
	require.NoError(testInstance, readError)
	require.Equal(testInstance, "content", string(content))
}

func TestRuntimeDefaults(testInstance *testing.T) {
	runtime := batch.Runtime{}
	require.NotNil(testInstance, runtime.Logger(context.Background()))
	require.NotNil(testInstance, runtime.Observer(runtime.Logger(context.Background())))
	require.Equal(testInstance, browser.DefaultConfiguration().Sanitize(), runtime.BrowserConfiguration())
	require.NotNil(testInstance, runtime.Progress())
}
