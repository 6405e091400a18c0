package ui

import (
	"github.com/temirov/svnmodules/internal/execshell"
)

type debugReporter interface {
	Debug(format string, arguments ...any)
}

const debugMessageTemplateConstant = "%s"

// ConsoleCommandEventLogger echoes svn and npm invocations as debug console lines.
// Failures are reported by the caller with more context, so they are echoed at debug level too.
type ConsoleCommandEventLogger struct {
	reporter  debugReporter
	formatter execshell.CommandMessageFormatter
}

// NewConsoleCommandEventLogger constructs an event logger printing through reporter.
func NewConsoleCommandEventLogger(reporter debugReporter) *ConsoleCommandEventLogger {
	return &ConsoleCommandEventLogger{reporter: reporter, formatter: execshell.CommandMessageFormatter{}}
}

// CommandStarted implements execshell.CommandEventObserver.
func (eventLogger *ConsoleCommandEventLogger) CommandStarted(command execshell.ShellCommand) {
	eventLogger.debug(eventLogger.formatter.BuildStartedMessage(command))
}

// CommandCompleted implements execshell.CommandEventObserver.
func (eventLogger *ConsoleCommandEventLogger) CommandCompleted(command execshell.ShellCommand, result execshell.ExecutionResult) {
	if result.ExitCode == 0 {
		eventLogger.debug(eventLogger.formatter.BuildSuccessMessage(command))
		return
	}
	eventLogger.debug(eventLogger.formatter.BuildFailureMessage(command, result))
}

// CommandExecutionFailed implements execshell.CommandEventObserver.
func (eventLogger *ConsoleCommandEventLogger) CommandExecutionFailed(command execshell.ShellCommand, failure error) {
	eventLogger.debug(eventLogger.formatter.BuildExecutionFailureMessage(command, failure))
}

func (eventLogger *ConsoleCommandEventLogger) debug(message string) {
	if eventLogger == nil || eventLogger.reporter == nil {
		return
	}
	eventLogger.reporter.Debug(debugMessageTemplateConstant, message)
}
