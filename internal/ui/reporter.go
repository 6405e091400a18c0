package ui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/temirov/svnmodules/internal/utils"
)

// Severity classifies a console line.
type Severity int

// Supported severities in increasing order of importance.
const (
	SeverityDebug Severity = iota
	SeverityInfo
	SeveritySuccess
	SeverityWarning
	SeverityError
)

const (
	// ApplicationTagConstant prefixes every console line.
	ApplicationTagConstant = "svn-modules"

	linePrefixTemplateConstant    = "[%s][%s] "
	lineSeparatorConstant         = "\n"
	noColorEnvironmentKeyConstant = "NO_COLOR"
	debugTagConstant              = "D"
	infoTagConstant               = "I"
	successTagConstant            = "S"
	warningTagConstant            = "W"
	errorTagConstant              = "E"
	debugColorConstant            = "7"
	infoColorConstant             = "8"
	successColorConstant          = "2"
	warningColorConstant          = "5"
	errorColorConstant            = "1"
)

// Tag returns the single-letter marker printed for the severity.
func (severity Severity) Tag() string {
	switch severity {
	case SeverityDebug:
		return debugTagConstant
	case SeveritySuccess:
		return successTagConstant
	case SeverityWarning:
		return warningTagConstant
	case SeverityError:
		return errorTagConstant
	default:
		return infoTagConstant
	}
}

func (severity Severity) color() lipgloss.Color {
	switch severity {
	case SeverityDebug:
		return lipgloss.Color(debugColorConstant)
	case SeveritySuccess:
		return lipgloss.Color(successColorConstant)
	case SeverityWarning:
		return lipgloss.Color(warningColorConstant)
	case SeverityError:
		return lipgloss.Color(errorColorConstant)
	default:
		return lipgloss.Color(infoColorConstant)
	}
}

// ReporterOptions configure a SeverityReporter.
type ReporterOptions struct {
	DebugEnabled bool
	// ColorProfile overrides terminal detection when set.
	ColorProfile *termenv.Profile
}

// SeverityReporter prints "[svn-modules][X] message" lines, colored when the destination is a terminal.
type SeverityReporter struct {
	writer       io.Writer
	renderer     *lipgloss.Renderer
	debugEnabled bool
}

// NewSeverityReporter constructs a reporter writing to destination, which defaults to stdout.
func NewSeverityReporter(destination io.Writer, options ReporterOptions) *SeverityReporter {
	if destination == nil {
		destination = os.Stdout
	}

	renderer := lipgloss.NewRenderer(destination)
	switch {
	case options.ColorProfile != nil:
		renderer.SetColorProfile(*options.ColorProfile)
	case len(os.Getenv(noColorEnvironmentKeyConstant)) > 0:
		renderer.SetColorProfile(termenv.Ascii)
	}

	return &SeverityReporter{
		writer:       utils.NewFlushingWriter(destination),
		renderer:     renderer,
		debugEnabled: options.DebugEnabled,
	}
}

// DebugEnabled reports whether debug lines are printed.
func (reporter *SeverityReporter) DebugEnabled() bool {
	return reporter != nil && reporter.debugEnabled
}

// Debug prints a debug line when debug output is enabled.
func (reporter *SeverityReporter) Debug(format string, arguments ...any) {
	reporter.Report(SeverityDebug, fmt.Sprintf(format, arguments...))
}

// Info prints an informational line.
func (reporter *SeverityReporter) Info(format string, arguments ...any) {
	reporter.Report(SeverityInfo, fmt.Sprintf(format, arguments...))
}

// Success prints a success line.
func (reporter *SeverityReporter) Success(format string, arguments ...any) {
	reporter.Report(SeveritySuccess, fmt.Sprintf(format, arguments...))
}

// Warning prints a warning line.
func (reporter *SeverityReporter) Warning(format string, arguments ...any) {
	reporter.Report(SeverityWarning, fmt.Sprintf(format, arguments...))
}

// Error prints an error line.
func (reporter *SeverityReporter) Error(format string, arguments ...any) {
	reporter.Report(SeverityError, fmt.Sprintf(format, arguments...))
}

// Report prints message with the severity prefix on each of its lines.
func (reporter *SeverityReporter) Report(severity Severity, message string) {
	if reporter == nil || reporter.writer == nil {
		return
	}
	if severity == SeverityDebug && !reporter.debugEnabled {
		return
	}

	style := reporter.renderer.NewStyle().Foreground(severity.color())
	prefix := fmt.Sprintf(linePrefixTemplateConstant, ApplicationTagConstant, severity.Tag())

	var builder strings.Builder
	for _, line := range strings.Split(strings.TrimRight(message, lineSeparatorConstant), lineSeparatorConstant) {
		builder.WriteString(style.Render(prefix + line))
		builder.WriteString(lineSeparatorConstant)
	}
	_, _ = io.WriteString(reporter.writer, builder.String())
}
