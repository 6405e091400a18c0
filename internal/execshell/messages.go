package execshell

import (
	"fmt"
	"strings"
)

type messageStage int

const (
	messageStageStart messageStage = iota
	messageStageSuccess
	messageStageFailure
	messageStageExecutionFailure
)

const (
	genericStartTemplateConstant            = "Running %s"
	genericSuccessTemplateConstant          = "Completed %s"
	genericFailureTemplateConstant          = "%s failed with exit code %d%s"
	genericExecutionFailureTemplateConstant = "%s failed: %s"
	commandLabelTemplateConstant            = "%s%s"
	workingDirectorySuffixTemplateConstant  = " (in %s)"
	commandArgumentsJoinSeparatorConstant   = " "
	standardErrorSuffixTemplateConstant     = ": %s"
	unknownFailureMessageConstant           = "unknown error"
	emptyStringConstant                     = ""
	defaultWorkingDirectoryLabelConstant    = "current directory"
	fallbackUnknownValueLabelConstant       = "unknown"
	flagPrefixConstant                      = "-"
)

const (
	svnExportSubcommandNameConstant    = "export"
	svnRevisionFlagConstant            = "--revision"
	svnExportMinimumArgumentCount      = 3
	npmInstallSubcommandNameConstant   = "install"
	npmUninstallSubcommandNameConstant = "uninstall"
)

const (
	svnExportStartTemplateConstant               = "Exporting %s into %s"
	svnExportAtRevisionStartTemplateConstant     = "Exporting %s at revision %s into %s"
	svnExportSuccessTemplateConstant             = "Exported %s into %s"
	svnExportFailureTemplateConstant             = "Failed to export %s into %s (exit code %d%s)"
	svnExportExecutionFailureTemplateConstant    = "Unable to export %s into %s: %s"
	npmInstallStartTemplateConstant              = "Installing %s in %s"
	npmInstallSuccessTemplateConstant            = "Installed %s in %s"
	npmInstallFailureTemplateConstant            = "Failed to install %s in %s (exit code %d%s)"
	npmInstallExecutionFailureTemplateConstant   = "Unable to install %s in %s: %s"
	npmUninstallStartTemplateConstant            = "Uninstalling %s from %s"
	npmUninstallSuccessTemplateConstant          = "Uninstalled %s from %s"
	npmUninstallFailureTemplateConstant          = "Failed to uninstall %s from %s (exit code %d%s)"
	npmUninstallExecutionFailureTemplateConstant = "Unable to uninstall %s from %s: %s"
)

// CommandMessageFormatter builds human-readable messages for command lifecycle events.
type CommandMessageFormatter struct{}

// BuildStartedMessage formats the message describing a command about to run.
func (formatter CommandMessageFormatter) BuildStartedMessage(command ShellCommand) string {
	return formatter.buildMessage(command, ExecutionResult{}, nil, messageStageStart)
}

// BuildSuccessMessage formats the message describing a completed command with a zero exit code.
func (formatter CommandMessageFormatter) BuildSuccessMessage(command ShellCommand) string {
	return formatter.buildMessage(command, ExecutionResult{}, nil, messageStageSuccess)
}

// BuildFailureMessage formats the message describing a command that returned a non-zero exit code.
func (formatter CommandMessageFormatter) BuildFailureMessage(command ShellCommand, result ExecutionResult) string {
	return formatter.buildMessage(command, result, nil, messageStageFailure)
}

// BuildExecutionFailureMessage formats the message describing an unexpected execution failure.
func (formatter CommandMessageFormatter) BuildExecutionFailureMessage(command ShellCommand, failure error) string {
	return formatter.buildMessage(command, ExecutionResult{}, failure, messageStageExecutionFailure)
}

func (formatter CommandMessageFormatter) buildMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	switch command.Name {
	case CommandSubversion:
		return formatter.describeSubversionMessage(command, result, failure, stage)
	case CommandNPM:
		return formatter.describeNPMMessage(command, result, failure, stage)
	default:
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) describeSubversionMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	arguments := command.Details.Arguments
	if len(arguments) < svnExportMinimumArgumentCount || strings.TrimSpace(arguments[0]) != svnExportSubcommandNameConstant {
		return formatter.buildGenericMessage(command, result, failure, stage)
	}

	repositoryURL := formatter.ensureValue(arguments[len(arguments)-2])
	destination := formatter.ensureValue(arguments[len(arguments)-1])
	revision := strings.TrimSpace(findFlagValue(arguments, svnRevisionFlagConstant))

	switch stage {
	case messageStageStart:
		if len(revision) > 0 {
			return fmt.Sprintf(svnExportAtRevisionStartTemplateConstant, repositoryURL, revision, destination)
		}
		return fmt.Sprintf(svnExportStartTemplateConstant, repositoryURL, destination)
	case messageStageSuccess:
		return fmt.Sprintf(svnExportSuccessTemplateConstant, repositoryURL, destination)
	case messageStageFailure:
		return fmt.Sprintf(svnExportFailureTemplateConstant, repositoryURL, destination, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	case messageStageExecutionFailure:
		return fmt.Sprintf(svnExportExecutionFailureTemplateConstant, repositoryURL, destination, formatter.describeFailure(failure))
	default:
		return emptyStringConstant
	}
}

func (formatter CommandMessageFormatter) describeNPMMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	arguments := command.Details.Arguments
	if len(arguments) == 0 {
		return formatter.buildGenericMessage(command, result, failure, stage)
	}

	target := formatter.ensureValue(formatter.extractLastNonFlagArgument(arguments[1:]))
	workingDirectory := formatter.describeWorkingDirectory(command)

	var startTemplate, successTemplate, failureTemplate, executionFailureTemplate string
	switch strings.TrimSpace(arguments[0]) {
	case npmInstallSubcommandNameConstant:
		startTemplate = npmInstallStartTemplateConstant
		successTemplate = npmInstallSuccessTemplateConstant
		failureTemplate = npmInstallFailureTemplateConstant
		executionFailureTemplate = npmInstallExecutionFailureTemplateConstant
	case npmUninstallSubcommandNameConstant:
		startTemplate = npmUninstallStartTemplateConstant
		successTemplate = npmUninstallSuccessTemplateConstant
		failureTemplate = npmUninstallFailureTemplateConstant
		executionFailureTemplate = npmUninstallExecutionFailureTemplateConstant
	default:
		return formatter.buildGenericMessage(command, result, failure, stage)
	}

	switch stage {
	case messageStageStart:
		return fmt.Sprintf(startTemplate, target, workingDirectory)
	case messageStageSuccess:
		return fmt.Sprintf(successTemplate, target, workingDirectory)
	case messageStageFailure:
		return fmt.Sprintf(failureTemplate, target, workingDirectory, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	case messageStageExecutionFailure:
		return fmt.Sprintf(executionFailureTemplate, target, workingDirectory, formatter.describeFailure(failure))
	default:
		return emptyStringConstant
	}
}

func (formatter CommandMessageFormatter) buildGenericMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	commandLabel := formatter.formatCommandLabel(command)
	switch stage {
	case messageStageStart:
		return fmt.Sprintf(genericStartTemplateConstant, commandLabel)
	case messageStageSuccess:
		return fmt.Sprintf(genericSuccessTemplateConstant, commandLabel)
	case messageStageFailure:
		return fmt.Sprintf(genericFailureTemplateConstant, commandLabel, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	case messageStageExecutionFailure:
		return fmt.Sprintf(genericExecutionFailureTemplateConstant, commandLabel, formatter.describeFailure(failure))
	default:
		return emptyStringConstant
	}
}

func (formatter CommandMessageFormatter) formatCommandLabel(command ShellCommand) string {
	commandLabel := string(command.Name)
	if len(command.Details.Arguments) > 0 {
		commandLabel = fmt.Sprintf("%s %s", commandLabel, strings.Join(command.Details.Arguments, commandArgumentsJoinSeparatorConstant))
	}
	workingDirectorySuffix := formatter.formatWorkingDirectorySuffix(command)
	return fmt.Sprintf(commandLabelTemplateConstant, commandLabel, workingDirectorySuffix)
}

func (formatter CommandMessageFormatter) formatWorkingDirectorySuffix(command ShellCommand) string {
	trimmedWorkingDirectory := strings.TrimSpace(command.Details.WorkingDirectory)
	if len(trimmedWorkingDirectory) == 0 {
		return emptyStringConstant
	}
	return fmt.Sprintf(workingDirectorySuffixTemplateConstant, trimmedWorkingDirectory)
}

func (formatter CommandMessageFormatter) formatStandardErrorSuffix(standardError string) string {
	trimmedStandardError := strings.TrimSpace(standardError)
	if len(trimmedStandardError) == 0 {
		return emptyStringConstant
	}
	return fmt.Sprintf(standardErrorSuffixTemplateConstant, trimmedStandardError)
}

func (formatter CommandMessageFormatter) describeWorkingDirectory(command ShellCommand) string {
	trimmedWorkingDirectory := strings.TrimSpace(command.Details.WorkingDirectory)
	if len(trimmedWorkingDirectory) == 0 {
		return defaultWorkingDirectoryLabelConstant
	}
	return trimmedWorkingDirectory
}

func (formatter CommandMessageFormatter) describeFailure(failure error) string {
	if failure == nil {
		return unknownFailureMessageConstant
	}
	return failure.Error()
}

func (formatter CommandMessageFormatter) ensureValue(value string) string {
	trimmed := strings.TrimSpace(value)
	if len(trimmed) == 0 {
		return fallbackUnknownValueLabelConstant
	}
	return trimmed
}

func (formatter CommandMessageFormatter) extractLastNonFlagArgument(arguments []string) string {
	for argumentIndex := len(arguments) - 1; argumentIndex >= 0; argumentIndex-- {
		trimmedArgument := strings.TrimSpace(arguments[argumentIndex])
		if len(trimmedArgument) == 0 || strings.HasPrefix(trimmedArgument, flagPrefixConstant) {
			continue
		}
		return trimmedArgument
	}
	return emptyStringConstant
}

func findFlagValue(arguments []string, flag string) string {
	for argumentIndex := 0; argumentIndex < len(arguments)-1; argumentIndex++ {
		if strings.TrimSpace(arguments[argumentIndex]) == flag {
			return arguments[argumentIndex+1]
		}
	}
	return emptyStringConstant
}
