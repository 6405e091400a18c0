package execshell

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
)

const (
	environmentAssignmentSeparatorConstant = "="
	environmentAssignmentTemplateConstant  = "%s%s%s"
)

// OSCommandRunner executes commands using the operating system facilities.
type OSCommandRunner struct {
	executableOverrides  map[CommandName]string
	standardOutputMirror io.Writer
	standardErrorMirror  io.Writer
}

// NewOSCommandRunner constructs a runner backed by os/exec that mirrors output to the process console.
func NewOSCommandRunner() *OSCommandRunner {
	return &OSCommandRunner{
		executableOverrides:  map[CommandName]string{},
		standardOutputMirror: os.Stdout,
		standardErrorMirror:  os.Stderr,
	}
}

// WithExecutable returns a copy of the runner that launches executablePath whenever commandName is requested.
func (runner *OSCommandRunner) WithExecutable(commandName CommandName, executablePath string) *OSCommandRunner {
	duplicated := runner.duplicate()
	trimmedExecutablePath := strings.TrimSpace(executablePath)
	if len(trimmedExecutablePath) == 0 {
		delete(duplicated.executableOverrides, commandName)
		return duplicated
	}
	duplicated.executableOverrides[commandName] = trimmedExecutablePath
	return duplicated
}

// WithOutputMirrors returns a copy of the runner that mirrors output of commands requesting it to the given writers.
func (runner *OSCommandRunner) WithOutputMirrors(standardOutput io.Writer, standardError io.Writer) *OSCommandRunner {
	duplicated := runner.duplicate()
	duplicated.standardOutputMirror = standardOutput
	duplicated.standardErrorMirror = standardError
	return duplicated
}

// Run executes the supplied command using os/exec.
func (runner *OSCommandRunner) Run(executionContext context.Context, command ShellCommand) (ExecutionResult, error) {
	commandArguments := append([]string{}, command.Details.Arguments...)
	executable := exec.CommandContext(executionContext, runner.resolveExecutable(command.Name), commandArguments...)

	if len(command.Details.WorkingDirectory) > 0 {
		executable.Dir = command.Details.WorkingDirectory
	}

	if len(command.Details.EnvironmentVariables) > 0 {
		mergedEnvironment := append([]string{}, os.Environ()...)
		for environmentKey, environmentValue := range command.Details.EnvironmentVariables {
			mergedEnvironment = append(mergedEnvironment, fmt.Sprintf(environmentAssignmentTemplateConstant, environmentKey, environmentAssignmentSeparatorConstant, environmentValue))
		}
		executable.Env = mergedEnvironment
	}

	var standardOutputBuffer bytes.Buffer
	var standardErrorBuffer bytes.Buffer
	executable.Stdout = runner.outputWriter(&standardOutputBuffer, runner.standardOutputMirror, command.Details.MirrorOutput)
	executable.Stderr = runner.outputWriter(&standardErrorBuffer, runner.standardErrorMirror, command.Details.MirrorOutput)

	if len(command.Details.StandardInput) > 0 {
		executable.Stdin = bytes.NewReader(command.Details.StandardInput)
	}

	runError := executable.Run()
	if runError != nil {
		exitError := &exec.ExitError{}
		if errors.As(runError, &exitError) {
			return ExecutionResult{
				StandardOutput: standardOutputBuffer.String(),
				StandardError:  standardErrorBuffer.String(),
				ExitCode:       exitError.ExitCode(),
			}, nil
		}
		return ExecutionResult{}, runError
	}

	return ExecutionResult{
		StandardOutput: standardOutputBuffer.String(),
		StandardError:  standardErrorBuffer.String(),
		ExitCode:       0,
	}, nil
}

func (runner *OSCommandRunner) resolveExecutable(commandName CommandName) string {
	if override, overrideExists := runner.executableOverrides[commandName]; overrideExists {
		return override
	}
	return string(commandName)
}

func (runner *OSCommandRunner) outputWriter(buffer *bytes.Buffer, mirror io.Writer, mirrorRequested bool) io.Writer {
	if !mirrorRequested || mirror == nil {
		return buffer
	}
	return io.MultiWriter(buffer, mirror)
}

func (runner *OSCommandRunner) duplicate() *OSCommandRunner {
	duplicatedOverrides := make(map[CommandName]string, len(runner.executableOverrides))
	for commandName, executablePath := range runner.executableOverrides {
		duplicatedOverrides[commandName] = executablePath
	}
	return &OSCommandRunner{
		executableOverrides:  duplicatedOverrides,
		standardOutputMirror: runner.standardOutputMirror,
		standardErrorMirror:  runner.standardErrorMirror,
	}
}
