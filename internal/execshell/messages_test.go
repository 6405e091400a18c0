package execshell

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuildStartedMessageForExportIncludesRevision(t *testing.T) {
	formatter := CommandMessageFormatter{}
	command := ShellCommand{
		Name: CommandSubversion,
		Details: CommandDetails{
			Arguments:        []string{"export", "--force", "--non-interactive", "--revision", "42", "svn://host/b", "b"},
			WorkingDirectory: "/workspace/project/svn_modules",
		},
	}

	require.Equal(t, "Exporting svn://host/b at revision 42 into b", formatter.BuildStartedMessage(command))
	require.Equal(t, "Exported svn://host/b into b", formatter.BuildSuccessMessage(command))
}

func TestBuildFailureMessageForExportIncludesStandardError(t *testing.T) {
	formatter := CommandMessageFormatter{}
	command := ShellCommand{
		Name: CommandSubversion,
		Details: CommandDetails{
			Arguments: []string{"export", "--force", "svn://host/a", "a"},
		},
	}

	message := formatter.BuildFailureMessage(command, ExecutionResult{ExitCode: 1, StandardError: "svn: E170001: Authentication failed\n"})

	require.Equal(t, "Failed to export svn://host/a into a (exit code 1: svn: E170001: Authentication failed)", message)
}

func TestBuildMessagesForNPMCommands(t *testing.T) {
	formatter := CommandMessageFormatter{}
	installCommand := ShellCommand{
		Name: CommandNPM,
		Details: CommandDetails{
			Arguments:        []string{"install", "--no-save", "/workspace/project/svn_modules/a.tgz"},
			WorkingDirectory: "/workspace/project",
		},
	}
	uninstallCommand := ShellCommand{
		Name: CommandNPM,
		Details: CommandDetails{
			Arguments: []string{"uninstall", "--no-save", "a"},
		},
	}

	require.Equal(t, "Installing /workspace/project/svn_modules/a.tgz in /workspace/project", formatter.BuildStartedMessage(installCommand))
	require.Equal(t, "Uninstalled a from current directory", formatter.BuildSuccessMessage(uninstallCommand))
	require.Equal(t, "Unable to uninstall a from current directory: boom", formatter.BuildExecutionFailureMessage(uninstallCommand, errors.New("boom")))
}

func TestBuildMessageFallsBackToGenericDescription(t *testing.T) {
	formatter := CommandMessageFormatter{}
	command := ShellCommand{
		Name:    CommandSubversion,
		Details: CommandDetails{Arguments: []string{"--version"}, WorkingDirectory: "/tmp"},
	}

	require.Equal(t, "Running svn --version (in /tmp)", formatter.BuildStartedMessage(command))
	require.Equal(t, "svn --version (in /tmp) failed: unknown error", formatter.BuildExecutionFailureMessage(command, nil))
}
