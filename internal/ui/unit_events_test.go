package ui_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/impacteval/harvest/internal/outcome"
	"github.com/impacteval/harvest/internal/ui"
)

const (
	unitEventsSubtestNameTemplateConstant = "%d_%s"
	testProjectNameConstant               = "Solar Commons"
	testProjectWebsiteConstant            = "https://solar.example"
	testProjectLabelConstant              = testProjectNameConstant + " (" + testProjectWebsiteConstant + ")"
	testOutputPathConstant                = "info/Solar_Commons.txt"
	testFailureReasonConstant             = "navigation timed out"
)

func TestConsoleUnitEventLoggerEmitsMessages(testInstance *testing.T) {
	testCases := []struct {
		name            string
		event           ui.UnitEvent
		expectedLevel   zapcore.Level
		expectedMessage string
	}{
		{
			name:            "written_with_path",
			event:           ui.UnitEvent{Project: testProjectNameConstant, Website: testProjectWebsiteConstant, Path: testOutputPathConstant, Outcome: outcome.Written},
			expectedLevel:   zapcore.InfoLevel,
			expectedMessage: "Completed " + testProjectLabelConstant + " -> " + testOutputPathConstant,
		},
		{
			name:            "written_without_website",
			event:           ui.UnitEvent{Project: testProjectNameConstant, Outcome: outcome.Written},
			expectedLevel:   zapcore.InfoLevel,
			expectedMessage: "Completed " + testProjectNameConstant,
		},
		{
			name:            "no_info",
			event:           ui.UnitEvent{Project: testProjectNameConstant, Outcome: outcome.NoInfo},
			expectedLevel:   zapcore.InfoLevel,
			expectedMessage: "No usable information for " + testProjectNameConstant,
		},
		{
			name:            "failed",
			event:           ui.UnitEvent{Project: testProjectNameConstant, Website: testProjectWebsiteConstant, Outcome: outcome.Failed, Failure: errors.New(testFailureReasonConstant)},
			expectedLevel:   zapcore.WarnLevel,
			expectedMessage: testProjectLabelConstant + " failed: " + testFailureReasonConstant,
		},
		{
			name:            "failed_without_error",
			event:           ui.UnitEvent{Project: testProjectNameConstant, Outcome: outcome.Failed},
			expectedLevel:   zapcore.WarnLevel,
			expectedMessage: testProjectNameConstant + " failed: unknown error",
		},
		{
			name:            "skipped",
			event:           ui.UnitEvent{Project: testProjectNameConstant, Outcome: outcome.Skipped},
			expectedLevel:   zapcore.InfoLevel,
			expectedMessage: "Skipped " + testProjectNameConstant,
		},
	}

	for testCaseIndex, testCase := range testCases {
		testInstance.Run(fmt.Sprintf(unitEventsSubtestNameTemplateConstant, testCaseIndex, testCase.name), func(testInstance *testing.T) {
			observedCore, observedLogs := observer.New(zapcore.DebugLevel)
			eventLogger := ui.NewConsoleUnitEventLogger(zap.New(observedCore))

			eventLogger.UnitFinished(testCase.event)

			entries := observedLogs.All()
			require.Len(testInstance, entries, 1)
			require.Equal(testInstance, testCase.expectedLevel, entries[0].Level)
			require.Equal(testInstance, testCase.expectedMessage, entries[0].Message)
		})
	}
}

func TestStructuredUnitEventLoggerAttachesFields(testInstance *testing.T) {
	observedCore, observedLogs := observer.New(zapcore.DebugLevel)
	observerInstance := ui.NewUnitEventObserver(zap.New(observedCore), false)

	observerInstance.UnitFinished(ui.UnitEvent{
		Project: testProjectNameConstant,
		Website: testProjectWebsiteConstant,
		Path:    testOutputPathConstant,
		Outcome: outcome.Written,
	})

	entries := observedLogs.All()
	require.Len(testInstance, entries, 1)
	contextMap := entries[0].ContextMap()
	require.Equal(testInstance, testProjectNameConstant, contextMap["project"])
	require.Equal(testInstance, testProjectWebsiteConstant, contextMap["website"])
	require.Equal(testInstance, testOutputPathConstant, contextMap["path"])
	require.Equal(testInstance, string(outcome.Written), contextMap["outcome"])
}
