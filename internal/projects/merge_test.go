package projects_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/impacteval/harvest/internal/projects"
)

const mergeSubtestNameTemplateConstant = "%d_%s"

func TestMerge(testInstance *testing.T) {
	testCases := []struct {
		name             string
		primaryRecords   []projects.Record
		secondaryRecords []projects.Record
		expectedRecords  []projects.Record
	}{
		{
			name:           "primary_wins_on_case_insensitive_website",
			primaryRecords: []projects.Record{{Name: "A", Description: "d1", Website: "http://x.org"}},
			secondaryRecords: []projects.Record{
				{Name: "A2", Description: "d2", Website: "http://X.ORG"},
				{Name: "B", Description: "d3", Website: "http://y.org"},
			},
			expectedRecords: []projects.Record{
				{Name: "A", Description: "d1", Website: "http://x.org"},
				{Name: "B", Description: "d3", Website: "http://y.org"},
			},
		},
		{
			name: "records_without_website_are_dropped",
			primaryRecords: []projects.Record{
				{Name: "NoSite", Description: "d0"},
				{Name: "C", Description: "d1", Website: "https://c.example"},
			},
			secondaryRecords: []projects.Record{
				{Name: "AlsoNoSite", Description: "d2", Website: ""},
			},
			expectedRecords: []projects.Record{
				{Name: "C", Description: "d1", Website: "https://c.example"},
			},
		},
		{
			name: "repeated_primary_key_keeps_position_and_takes_later_value",
			primaryRecords: []projects.Record{
				{Name: "First", Description: "early", Website: "https://dup.example"},
				{Name: "Other", Description: "middle", Website: "https://other.example"},
				{Name: "Second", Description: "late", Website: "HTTPS://DUP.example"},
			},
			expectedRecords: []projects.Record{
				{Name: "Second", Description: "late", Website: "HTTPS://DUP.example"},
				{Name: "Other", Description: "middle", Website: "https://other.example"},
			},
		},
		{
			name: "secondary_order_is_preserved_after_primary",
			primaryRecords: []projects.Record{
				{Name: "P", Description: "p", Website: "https://p.example"},
			},
			secondaryRecords: []projects.Record{
				{Name: "S2", Description: "s2", Website: "https://s2.example"},
				{Name: "S1", Description: "s1", Website: "https://s1.example"},
			},
			expectedRecords: []projects.Record{
				{Name: "P", Description: "p", Website: "https://p.example"},
				{Name: "S2", Description: "s2", Website: "https://s2.example"},
				{Name: "S1", Description: "s1", Website: "https://s1.example"},
			},
		},
		{
			name:            "both_sources_empty",
			expectedRecords: []projects.Record{},
		},
	}

	for testCaseIndex, testCase := range testCases {
		testInstance.Run(fmt.Sprintf(mergeSubtestNameTemplateConstant, testCaseIndex, testCase.name), func(testInstance *testing.T) {
			mergedRecords := projects.Merge(testCase.primaryRecords, testCase.secondaryRecords)
			if difference := cmp.Diff(testCase.expectedRecords, mergedRecords); len(difference) > 0 {
				testInstance.Fatalf("unexpected merge result (-want +got):\n%s", difference)
			}
		})
	}
}

func TestMergeProperties(testInstance *testing.T) {
	primaryRecords := []projects.Record{
		{Name: "Alpha", Description: "a", Website: "https://alpha.example"},
		{Name: "Beta", Description: "b", Website: "https://beta.example"},
		{Name: "Gamma", Description: "g", Website: ""},
		{Name: "Alpha Again", Description: "a2", Website: "https://ALPHA.example"},
	}
	secondaryRecords := []projects.Record{
		{Name: "Beta Partner", Description: "bp", Website: "https://Beta.Example"},
		{Name: "Delta", Description: "d", Website: "https://delta.example"},
		{Name: "Delta Twin", Description: "dt", Website: "https://DELTA.example"},
		{Name: "Epsilon", Description: "e", Website: ""},
	}

	mergedRecords := projects.Merge(primaryRecords, secondaryRecords)

	seenWebsites := make(map[string]struct{}, len(mergedRecords))
	for _, record := range mergedRecords {
		websiteKey := strings.ToLower(record.Website)
		require.NotEmpty(testInstance, websiteKey)
		_, duplicate := seenWebsites[websiteKey]
		require.False(testInstance, duplicate, "duplicate website %s", websiteKey)
		seenWebsites[websiteKey] = struct{}{}
	}

	for _, record := range mergedRecords {
		if strings.EqualFold(record.Website, "https://beta.example") {
			require.Equal(testInstance, "Beta", record.Name)
		}
	}

	primaryValid := 0
	for _, record := range primaryRecords {
		if record.HasWebsite() {
			primaryValid++
		}
	}
	secondaryValidAndNew := 0
	for _, record := range secondaryRecords {
		if record.HasWebsite() && !strings.EqualFold(record.Website, "https://beta.example") {
			secondaryValidAndNew++
		}
	}
	require.LessOrEqual(testInstance, len(mergedRecords), primaryValid+secondaryValidAndNew)

	remerged := projects.Merge(mergedRecords, nil)
	if difference := cmp.Diff(mergedRecords, remerged); len(difference) > 0 {
		testInstance.Fatalf("merge is not idempotent (-first +second):\n%s", difference)
	}
}

func TestDeduplicateDegenerateKeys(testInstance *testing.T) {
	testCases := []struct {
		name            string
		records         []projects.Record
		expectedRecords []projects.Record
	}{
		{
			name: "records_without_name_or_website_collapse",
			records: []projects.Record{
				{Description: "first anonymous"},
				{Description: "second anonymous"},
			},
			expectedRecords: []projects.Record{
				{Description: "first anonymous"},
			},
		},
		{
			name: "name_fallback_collides_with_website_key",
			records: []projects.Record{
				{Name: "Website Holder", Description: "w", Website: "C"},
				{Name: "c", Description: "name only"},
			},
			expectedRecords: []projects.Record{
				{Name: "Website Holder", Description: "w", Website: "C"},
			},
		},
		{
			name: "name_fallback_is_case_insensitive",
			records: []projects.Record{
				{Name: "Solar", Description: "one"},
				{Name: "SOLAR", Description: "two"},
				{Name: "Wind", Description: "three"},
			},
			expectedRecords: []projects.Record{
				{Name: "Solar", Description: "one"},
				{Name: "Wind", Description: "three"},
			},
		},
	}

	for testCaseIndex, testCase := range testCases {
		testInstance.Run(fmt.Sprintf(mergeSubtestNameTemplateConstant, testCaseIndex, testCase.name), func(testInstance *testing.T) {
			dedupedRecords := projects.Deduplicate(testCase.records)
			if difference := cmp.Diff(testCase.expectedRecords, dedupedRecords); len(difference) > 0 {
				testInstance.Fatalf("unexpected dedup result (-want +got):\n%s", difference)
			}
		})
	}
}
