// Package npm installs and uninstalls packages with the npm command line client without touching package.json.
package npm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/temirov/svnmodules/internal/execshell"
)

const (
	installSubcommandConstant         = "install"
	uninstallSubcommandConstant       = "uninstall"
	noSaveFlagConstant                = "--no-save"
	installFailedMessageConstant      = "npm install failed"
	uninstallFailedMessageConstant    = "npm uninstall failed"
	executorNotConfiguredConstant     = "npm executor not configured"
	commandFailureTemplateConstant    = "%w for %s: %w"
	diagnosticOutputSeparatorConstant = "\n"
)

var (
	// ErrInstallFailed matches every failed install.
	ErrInstallFailed = errors.New(installFailedMessageConstant)
	// ErrUninstallFailed matches every failed uninstall.
	ErrUninstallFailed = errors.New(uninstallFailedMessageConstant)
	// ErrExecutorNotConfigured indicates NewClient received a nil executor.
	ErrExecutorNotConfigured = errors.New(executorNotConfiguredConstant)
)

// Executor runs the npm command line client.
type Executor interface {
	ExecuteNPM(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// ClientOptions configures how npm output is surfaced.
type ClientOptions struct {
	// MirrorOutput streams npm output to the console while it is also captured for diagnostics.
	MirrorOutput bool
}

// Client drives npm install and uninstall from the project root.
type Client struct {
	executor Executor
	options  ClientOptions
}

// NewClient constructs a Client.
func NewClient(executor Executor, options ClientOptions) (*Client, error) {
	if executor == nil {
		return nil, ErrExecutorNotConfigured
	}
	return &Client{executor: executor, options: options}, nil
}

// Install runs "npm install --no-save <artifactPath>" in projectRoot.
func (client *Client) Install(executionContext context.Context, artifactPath string, projectRoot string) error {
	return client.run(executionContext, installSubcommandConstant, artifactPath, projectRoot, ErrInstallFailed)
}

// Uninstall runs "npm uninstall --no-save <packageName>" in projectRoot.
func (client *Client) Uninstall(executionContext context.Context, packageName string, projectRoot string) error {
	return client.run(executionContext, uninstallSubcommandConstant, packageName, projectRoot, ErrUninstallFailed)
}

func (client *Client) run(executionContext context.Context, subcommand string, target string, projectRoot string, sentinel error) error {
	_, executionError := client.executor.ExecuteNPM(executionContext, execshell.CommandDetails{
		Arguments:        []string{subcommand, noSaveFlagConstant, target},
		WorkingDirectory: projectRoot,
		MirrorOutput:     client.options.MirrorOutput,
	})
	if executionError != nil {
		return fmt.Errorf(commandFailureTemplateConstant, sentinel, target, executionError)
	}
	return nil
}

// DiagnosticOutput returns the captured output of a failed npm run, or an empty string when none was captured.
func DiagnosticOutput(failure error) string {
	var failedError execshell.CommandFailedError
	if !errors.As(failure, &failedError) {
		return ""
	}
	var parts []string
	for _, stream := range []string{failedError.Result.StandardError, failedError.Result.StandardOutput} {
		if trimmed := strings.TrimSpace(stream); len(trimmed) > 0 {
			parts = append(parts, trimmed)
		}
	}
	return strings.Join(parts, diagnosticOutputSeparatorConstant)
}
