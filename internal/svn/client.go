package svn

import (
	"context"
	"errors"
	"strings"

	"github.com/temirov/svnmodules/internal/credentials"
	"github.com/temirov/svnmodules/internal/execshell"
)

const (
	exportSubcommandConstant       = "export"
	forceFlagConstant              = "--force"
	nonInteractiveFlagConstant     = "--non-interactive"
	usernameFlagConstant           = "--username"
	passwordFromStdinFlagConstant  = "--password-from-stdin"
	noAuthCacheFlagConstant        = "--no-auth-cache"
	revisionFlagConstant           = "--revision"
	pegRevisionSeparatorConstant   = "@"
	executorNotConfiguredConstant  = "svn executor not configured"
	passwordLineTerminatorConstant = "\n"
	messagesLocaleVariableConstant = "LC_MESSAGES"
	messagesLocaleValueConstant    = "C"
)

// ErrExecutorNotConfigured indicates NewClient received a nil executor.
var ErrExecutorNotConfigured = errors.New(executorNotConfiguredConstant)

// Executor runs the svn command line client.
type Executor interface {
	ExecuteSubversion(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// ExportRequest describes one dependency export.
type ExportRequest struct {
	RepositoryURL string
	// Revision is empty for HEAD.
	Revision string
	// DestinationRoot is the cache directory; the export is written to DestinationRoot/DestinationName.
	DestinationRoot string
	DestinationName string
	Credentials     credentials.Credentials
}

// Client exports repositories with the svn command line client.
type Client struct {
	executor Executor
}

// NewClient constructs a Client.
func NewClient(executor Executor) (*Client, error) {
	if executor == nil {
		return nil, ErrExecutorNotConfigured
	}
	return &Client{executor: executor}, nil
}

// Export runs "svn export" for the request. Any failure is an *ExportError matching ErrFetchFailed.
// svn messages are requested untranslated so failures classify the same under every locale.
func (client *Client) Export(executionContext context.Context, request ExportRequest) error {
	details := execshell.CommandDetails{
		Arguments:            BuildExportArguments(request),
		WorkingDirectory:     request.DestinationRoot,
		EnvironmentVariables: map[string]string{messagesLocaleVariableConstant: messagesLocaleValueConstant},
	}
	if !request.Credentials.Anonymous() {
		details.StandardInput = []byte(request.Credentials.Password + passwordLineTerminatorConstant)
	}

	_, executionError := client.executor.ExecuteSubversion(executionContext, details)
	if executionError == nil {
		return nil
	}

	return newExportError(request, executionError)
}

// BuildExportArguments returns the svn arguments for request. The password is never part of the arguments.
func BuildExportArguments(request ExportRequest) []string {
	arguments := []string{exportSubcommandConstant, forceFlagConstant, nonInteractiveFlagConstant}
	if !request.Credentials.Anonymous() {
		arguments = append(arguments,
			usernameFlagConstant, strings.TrimSpace(request.Credentials.Username),
			passwordFromStdinFlagConstant,
			noAuthCacheFlagConstant,
		)
	}
	if revision := strings.TrimSpace(request.Revision); len(revision) > 0 {
		arguments = append(arguments, revisionFlagConstant, revision)
	}
	return append(arguments, request.RepositoryURL, escapePegRevision(request.DestinationName))
}

// escapePegRevision appends "@" to paths containing one, such as scoped package names, so svn does not read a peg revision.
func escapePegRevision(destinationPath string) string {
	if strings.Contains(destinationPath, pegRevisionSeparatorConstant) {
		return destinationPath + pegRevisionSeparatorConstant
	}
	return destinationPath
}

func newExportError(request ExportRequest, executionError error) *ExportError {
	exportError := &ExportError{
		Kind:          FailureKindUnknown,
		RepositoryURL: request.RepositoryURL,
		Revision:      request.Revision,
		Cause:         executionError,
	}

	var failedError execshell.CommandFailedError
	var startError execshell.CommandExecutionError
	switch {
	case errors.As(executionError, &failedError):
		exportError.RawOutput = strings.TrimSpace(failedError.Result.StandardError)
		exportError.Kind = ClassifyOutput(exportError.RawOutput)
	case errors.As(executionError, &startError):
		if !errors.Is(executionError, context.Canceled) && !errors.Is(executionError, context.DeadlineExceeded) {
			exportError.Kind = FailureKindToolUnavailable
		}
	}

	exportError.Hints = hintsForFailure(exportError.Kind, request.RepositoryURL, !request.Credentials.Anonymous())
	return exportError
}
