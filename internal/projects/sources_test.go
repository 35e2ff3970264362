package projects_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/impacteval/harvest/internal/projects"
)

const (
	directoryExportFixtureConstant = "\uFEFFProject image,Project name,Project link,Description,Website\n" +
		"https://img.example/a.png,Alpha,https://dir.example/alpha,\"Clean water, everywhere\",https://alpha.example\n" +
		"https://img.example/b.png,Beta,https://dir.example/beta,,\n" +
		"https://img.example/c.png,NA,https://dir.example/c,None,https://c.example\n"
	partnerExportFixtureConstant = "Project name,Country,DESCRIPTION SHORT = VALUE PROPOSITION IN A TWEET,Website\n" +
		"Gamma,Kenya,Solar microgrids,https://gamma.example\n" +
		"Delta,Peru,N/A,NaN\n" +
		"Epsilon,Chile\n" +
		"#N/A,India,Anonymous,https://anon.example\n"
	malformedFixtureConstant = "Name,Description,Website\nAlpha,\"unterminated,https://alpha.example\n"
)

func writeFixture(testInstance *testing.T, fileName string, content string) string {
	testInstance.Helper()
	fixturePath := filepath.Join(testInstance.TempDir(), fileName)
	require.NoError(testInstance, os.WriteFile(fixturePath, []byte(content), 0o600))
	return fixturePath
}

func TestReadDirectoryExportKeepsEmptyCellsAsStrings(testInstance *testing.T) {
	fixturePath := writeFixture(testInstance, "carboncopy_projects.csv", directoryExportFixtureConstant)

	records, readError := projects.ReadDirectoryExport(fixturePath)
	require.NoError(testInstance, readError)

	expectedRecords := []projects.Record{
		{Name: "Alpha", Description: "Clean water, everywhere", Website: "https://alpha.example"},
		{Name: "Beta", Description: "", Website: ""},
		{Name: "NA", Description: "None", Website: "https://c.example"},
	}
	if difference := cmp.Diff(expectedRecords, records); len(difference) > 0 {
		testInstance.Fatalf("unexpected directory records (-want +got):\n%s", difference)
	}
}

func TestReadPartnerExportTreatsMissingTokensAsAbsent(testInstance *testing.T) {
	fixturePath := writeFixture(testInstance, "PositiveBlockchain_data.csv", partnerExportFixtureConstant)

	records, readError := projects.ReadPartnerExport(fixturePath)
	require.NoError(testInstance, readError)

	expectedRecords := []projects.Record{
		{Name: "Gamma", Description: "Solar microgrids", Website: "https://gamma.example"},
		{Name: "Delta", Description: "", Website: ""},
		{Name: "Epsilon", Description: "", Website: ""},
		{Name: "", Description: "Anonymous", Website: "https://anon.example"},
	}
	if difference := cmp.Diff(expectedRecords, records); len(difference) > 0 {
		testInstance.Fatalf("unexpected partner records (-want +got):\n%s", difference)
	}
}

func TestReadErrors(testInstance *testing.T) {
	_, missingError := projects.ReadCanonical(filepath.Join(testInstance.TempDir(), "absent.csv"))
	require.Error(testInstance, missingError)

	malformedPath := writeFixture(testInstance, "malformed.csv", malformedFixtureConstant)
	_, malformedError := projects.ReadCanonical(malformedPath)
	require.Error(testInstance, malformedError)

	emptyPath := writeFixture(testInstance, "empty.csv", "")
	_, emptyError := projects.ReadCanonical(emptyPath)
	require.ErrorIs(testInstance, emptyError, projects.ErrMissingHeader)

	_, blankPathError := projects.ReadCanonical("  ")
	require.Error(testInstance, blankPathError)
}

func TestWriteCanonicalProducesQuotedCSV(testInstance *testing.T) {
	outputPath := filepath.Join(testInstance.TempDir(), "resources", "mixed_data.csv")
	records := []projects.Record{
		{Name: "Alpha", Description: "Water, sanitation", Website: "https://alpha.example"},
		{Name: "Quote \"Co\"", Description: "", Website: "https://quote.example"},
	}

	require.NoError(testInstance, projects.WriteCanonical(outputPath, records))

	content, readError := os.ReadFile(outputPath)
	require.NoError(testInstance, readError)
	require.Equal(testInstance,
		"Name,Description,Website\n"+
			"Alpha,\"Water, sanitation\",https://alpha.example\n"+
			"\"Quote \"\"Co\"\"\",,https://quote.example\n",
		string(content))

	reloadedRecords, reloadError := projects.ReadCanonical(outputPath)
	require.NoError(testInstance, reloadError)
	if difference := cmp.Diff(records, reloadedRecords); len(difference) > 0 {
		testInstance.Fatalf("unexpected reloaded records (-want +got):\n%s", difference)
	}
}

func TestWriteDirectoryExportHeader(testInstance *testing.T) {
	outputPath := filepath.Join(testInstance.TempDir(), "carboncopy_projects.csv")
	listings := []projects.DirectoryListing{
		{Image: "https://img.example/a.png", Name: "Alpha", Link: "https://dir.example/alpha", Description: "Water", Website: "https://alpha.example"},
	}

	require.NoError(testInstance, projects.WriteDirectoryExport(outputPath, listings))

	records, readError := projects.ReadDirectoryExport(outputPath)
	require.NoError(testInstance, readError)
	require.Equal(testInstance, []projects.Record{{Name: "Alpha", Description: "Water", Website: "https://alpha.example"}}, records)
}
