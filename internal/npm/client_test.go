package npm_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/svnmodules/internal/execshell"
	"github.com/temirov/svnmodules/internal/npm"
)

const testProjectRootConstant = "/workspace/project"

type recordingExecutor struct {
	executionError  error
	recordedDetails []execshell.CommandDetails
}

func (executor *recordingExecutor) ExecuteNPM(_ context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error) {
	executor.recordedDetails = append(executor.recordedDetails, details)
	return execshell.ExecutionResult{}, executor.executionError
}

func TestClientCommands(testInstance *testing.T) {
	testCases := []struct {
		name              string
		invoke            func(client *npm.Client) error
		mirrorOutput      bool
		expectedArguments []string
	}{
		{
			name: "install_archive",
			invoke: func(client *npm.Client) error {
				return client.Install(context.Background(), testProjectRootConstant+"/svn_modules/a.tgz", testProjectRootConstant)
			},
			mirrorOutput:      true,
			expectedArguments: []string{"install", "--no-save", testProjectRootConstant + "/svn_modules/a.tgz"},
		},
		{
			name: "uninstall_by_name",
			invoke: func(client *npm.Client) error {
				return client.Uninstall(context.Background(), "@corp/widgets", testProjectRootConstant)
			},
			expectedArguments: []string{"uninstall", "--no-save", "@corp/widgets"},
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			executor := &recordingExecutor{}
			client, creationError := npm.NewClient(executor, npm.ClientOptions{MirrorOutput: testCase.mirrorOutput})
			require.NoError(testInstance, creationError)

			require.NoError(testInstance, testCase.invoke(client))
			require.Len(testInstance, executor.recordedDetails, 1)
			require.Equal(testInstance, testCase.expectedArguments, executor.recordedDetails[0].Arguments)
			require.Equal(testInstance, testProjectRootConstant, executor.recordedDetails[0].WorkingDirectory)
			require.Equal(testInstance, testCase.mirrorOutput, executor.recordedDetails[0].MirrorOutput)
		})
	}
}

func TestClientFailuresWrapSentinels(testInstance *testing.T) {
	commandFailure := execshell.CommandFailedError{
		Command: execshell.ShellCommand{Name: execshell.CommandNPM},
		Result: execshell.ExecutionResult{
			ExitCode:       1,
			StandardOutput: "npm notice",
			StandardError:  "npm ERR! code ENOENT\n",
		},
	}
	client, creationError := npm.NewClient(&recordingExecutor{executionError: commandFailure}, npm.ClientOptions{})
	require.NoError(testInstance, creationError)

	installError := client.Install(context.Background(), "/tmp/a.tgz", testProjectRootConstant)
	require.ErrorIs(testInstance, installError, npm.ErrInstallFailed)
	require.False(testInstance, errors.Is(installError, npm.ErrUninstallFailed))
	require.Equal(testInstance, "npm ERR! code ENOENT\nnpm notice", npm.DiagnosticOutput(installError))

	uninstallError := client.Uninstall(context.Background(), "a", testProjectRootConstant)
	require.ErrorIs(testInstance, uninstallError, npm.ErrUninstallFailed)
	require.Contains(testInstance, uninstallError.Error(), "npm uninstall failed for a")

	require.Empty(testInstance, npm.DiagnosticOutput(errors.New("plain")))
}

func TestNewClientRequiresExecutor(testInstance *testing.T) {
	_, creationError := npm.NewClient(nil, npm.ClientOptions{})
	require.ErrorIs(testInstance, creationError, npm.ErrExecutorNotConfigured)
}
