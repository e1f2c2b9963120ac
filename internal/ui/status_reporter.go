package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/temirov/versionings/internal/utils"
)

const (
	updatedHeadlineTemplateConstant     = "%s version updated %s."
	updatedLocallyLabelConstant         = "locally"
	updatedRemotelyLabelConstant        = "remotely"
	versionLineTemplateConstant         = "Version: %s"
	branchLineTemplateConstant          = "Branch: %s"
	tagLineTemplateConstant             = "Tag: %s"
	semanticVersionLineTemplateConstant = "Semantic version: %s"
	pullRequestLineTemplateConstant     = "Pull request URL: %s"
	defaultProjectTitleConstant         = "Project"
	statusLineTerminatorConstant        = "\n"
	statusWriteErrorTemplateConstant    = "write status line: %w"
)

// Tone selects the color of a status line.
type Tone int

// Supported tones.
const (
	ToneNeutral Tone = iota
	ToneSuccess
	ToneWarning
	ToneFailure
)

// VersionSummary describes a finished version bump.
type VersionSummary struct {
	ProjectTitle    string
	Version         string
	Branch          string
	Tag             string
	SemanticVersion string
	PullRequestURL  string
	Pushed          bool
}

// StatusReporter prints colored status lines for terminal users.
type StatusReporter struct {
	output  io.Writer
	palette map[Tone]*color.Color
}

// NewStatusReporter writes to output, coloring lines only when colorEnabled is set.
func NewStatusReporter(output io.Writer, colorEnabled bool) *StatusReporter {
	if output == nil {
		output = io.Discard
	}

	palette := map[Tone]*color.Color{
		ToneSuccess: color.New(color.FgGreen),
		ToneWarning: color.New(color.FgYellow),
		ToneFailure: color.New(color.FgRed),
	}
	for _, toneColor := range palette {
		if colorEnabled {
			toneColor.EnableColor()
		} else {
			toneColor.DisableColor()
		}
	}

	return &StatusReporter{output: utils.NewFlushingWriter(output), palette: palette}
}

// ReportLine prints a single message in the requested tone.
func (reporter *StatusReporter) ReportLine(tone Tone, message string) error {
	return reporter.writeLine(reporter.paint(tone, message))
}

// ReportSummary prints the multi-line success report for a version bump.
func (reporter *StatusReporter) ReportSummary(summary VersionSummary) error {
	projectTitle := strings.TrimSpace(summary.ProjectTitle)
	if len(projectTitle) == 0 {
		projectTitle = defaultProjectTitleConstant
	}
	updateLocation := updatedLocallyLabelConstant
	if summary.Pushed {
		updateLocation = updatedRemotelyLabelConstant
	}

	lines := []string{
		fmt.Sprintf(updatedHeadlineTemplateConstant, projectTitle, reporter.paint(ToneSuccess, updateLocation)),
		fmt.Sprintf(versionLineTemplateConstant, reporter.paint(ToneSuccess, summary.Version)),
		fmt.Sprintf(branchLineTemplateConstant, reporter.paint(ToneSuccess, summary.Branch)),
		fmt.Sprintf(tagLineTemplateConstant, reporter.paint(ToneSuccess, summary.Tag)),
		fmt.Sprintf(semanticVersionLineTemplateConstant, reporter.paint(ToneSuccess, summary.SemanticVersion)),
	}
	if summary.Pushed && len(strings.TrimSpace(summary.PullRequestURL)) > 0 {
		lines = append(lines, fmt.Sprintf(pullRequestLineTemplateConstant, reporter.paint(ToneSuccess, summary.PullRequestURL)))
	}

	for _, line := range lines {
		if writeError := reporter.writeLine(line); writeError != nil {
			return writeError
		}
	}
	return nil
}

func (reporter *StatusReporter) paint(tone Tone, text string) string {
	toneColor, exists := reporter.palette[tone]
	if !exists {
		return text
	}
	return toneColor.Sprint(text)
}

func (reporter *StatusReporter) writeLine(line string) error {
	if _, writeError := io.WriteString(reporter.output, line+statusLineTerminatorConstant); writeError != nil {
		return fmt.Errorf(statusWriteErrorTemplateConstant, writeError)
	}
	return nil
}
