package ui_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/versionings/internal/ui"
)

const (
	testProjectTitleConstant          = "Widget"
	testVersionConstant               = "1.0.1"
	testBranchConstant                = "version/patch/1.0.1/fix-login"
	testTagConstant                   = "1.0.1--fix-login"
	testSemanticVersionConstant       = "patch"
	testPullRequestURLConstant        = "https://github.com/org/repo/compare/master...version/patch/1.0.1/fix-login?expand=1"
	testGreenEscapeConstant           = "\x1b[32m"
	testYellowEscapeConstant          = "\x1b[33m"
	testRedEscapeConstant             = "\x1b[31m"
	testResetEscapeConstant           = "\x1b[0m"
	testRemoteMismatchMessageConstant = "Remote repository URL does not match git.url."
)

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("closed pipe")
}

func TestStatusReporterSummaries(testInstance *testing.T) {
	testCases := []struct {
		name           string
		summary        ui.VersionSummary
		expectedOutput string
	}{
		{
			name: "local_update",
			summary: ui.VersionSummary{
				ProjectTitle:    testProjectTitleConstant,
				Version:         testVersionConstant,
				Branch:          testBranchConstant,
				Tag:             testTagConstant,
				SemanticVersion: testSemanticVersionConstant,
				PullRequestURL:  testPullRequestURLConstant,
			},
			expectedOutput: "Widget version updated locally.\n" +
				"Version: 1.0.1\n" +
				"Branch: version/patch/1.0.1/fix-login\n" +
				"Tag: 1.0.1--fix-login\n" +
				"Semantic version: patch\n",
		},
		{
			name: "remote_update",
			summary: ui.VersionSummary{
				ProjectTitle:    testProjectTitleConstant,
				Version:         testVersionConstant,
				Branch:          testBranchConstant,
				Tag:             testTagConstant,
				SemanticVersion: testSemanticVersionConstant,
				PullRequestURL:  testPullRequestURLConstant,
				Pushed:          true,
			},
			expectedOutput: "Widget version updated remotely.\n" +
				"Version: 1.0.1\n" +
				"Branch: version/patch/1.0.1/fix-login\n" +
				"Tag: 1.0.1--fix-login\n" +
				"Semantic version: patch\n" +
				"Pull request URL: " + testPullRequestURLConstant + "\n",
		},
		{
			name: "default_title",
			summary: ui.VersionSummary{
				Version:         testVersionConstant,
				Branch:          testBranchConstant,
				Tag:             testTagConstant,
				SemanticVersion: testSemanticVersionConstant,
			},
			expectedOutput: "Project version updated locally.\n" +
				"Version: 1.0.1\n" +
				"Branch: version/patch/1.0.1/fix-login\n" +
				"Tag: 1.0.1--fix-login\n" +
				"Semantic version: patch\n",
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			outputBuffer := &bytes.Buffer{}
			reporter := ui.NewStatusReporter(outputBuffer, false)

			require.NoError(testInstance, reporter.ReportSummary(testCase.summary))
			require.Equal(testInstance, testCase.expectedOutput, outputBuffer.String())
		})
	}
}

func TestStatusReporterColorsLinesByTone(testInstance *testing.T) {
	testCases := []struct {
		name           string
		tone           ui.Tone
		colorEnabled   bool
		expectedOutput string
	}{
		{
			name:           "warning_colored",
			tone:           ui.ToneWarning,
			colorEnabled:   true,
			expectedOutput: testYellowEscapeConstant + testRemoteMismatchMessageConstant + testResetEscapeConstant + "\n",
		},
		{
			name:           "failure_colored",
			tone:           ui.ToneFailure,
			colorEnabled:   true,
			expectedOutput: testRedEscapeConstant + testRemoteMismatchMessageConstant + testResetEscapeConstant + "\n",
		},
		{
			name:           "neutral_never_colored",
			tone:           ui.ToneNeutral,
			colorEnabled:   true,
			expectedOutput: testRemoteMismatchMessageConstant + "\n",
		},
		{
			name:           "failure_plain",
			tone:           ui.ToneFailure,
			colorEnabled:   false,
			expectedOutput: testRemoteMismatchMessageConstant + "\n",
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			outputBuffer := &bytes.Buffer{}
			reporter := ui.NewStatusReporter(outputBuffer, testCase.colorEnabled)

			require.NoError(testInstance, reporter.ReportLine(testCase.tone, testRemoteMismatchMessageConstant))
			require.Equal(testInstance, testCase.expectedOutput, outputBuffer.String())
		})
	}
}

func TestStatusReporterColorsSummaryValues(testInstance *testing.T) {
	outputBuffer := &bytes.Buffer{}
	reporter := ui.NewStatusReporter(outputBuffer, true)

	require.NoError(testInstance, reporter.ReportSummary(ui.VersionSummary{Version: testVersionConstant}))
	require.Contains(testInstance, outputBuffer.String(), "Version: "+testGreenEscapeConstant+testVersionConstant+testResetEscapeConstant)
}

func TestStatusReporterPropagatesWriteErrors(testInstance *testing.T) {
	reporter := ui.NewStatusReporter(failingWriter{}, false)

	writeError := reporter.ReportLine(ui.ToneFailure, testRemoteMismatchMessageConstant)
	require.Error(testInstance, writeError)
	require.ErrorContains(testInstance, writeError, "closed pipe")
}
