package modules

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/svnmodules/internal/archive"
	"github.com/temirov/svnmodules/internal/credentials"
	"github.com/temirov/svnmodules/internal/execshell"
	"github.com/temirov/svnmodules/internal/filesystem"
	"github.com/temirov/svnmodules/internal/manifest"
	"github.com/temirov/svnmodules/internal/npm"
	"github.com/temirov/svnmodules/internal/svn"
	"github.com/temirov/svnmodules/internal/ui"
	"github.com/temirov/svnmodules/internal/utils"
	"github.com/temirov/svnmodules/internal/utils/flags"
)

const (
	installCommandUseConstant                = "install [names...]"
	installCommandShortDescriptionConstant   = "Install SVN dependencies declared in package.json"
	installCommandLongDescriptionConstant    = "install exports each SVN dependency declared in package.json, packages it as a tarball and installs it with npm without saving it to package.json. Names restrict the run to those dependencies."
	uninstallCommandUseConstant              = "uninstall [names...]"
	uninstallCommandShortDescriptionConstant = "Uninstall SVN dependencies declared in package.json"
	uninstallCommandLongDescriptionConstant  = "uninstall removes each SVN dependency declared in package.json with npm and clears its cached copy. Names restrict the run to those dependencies."
	usernameFlagNameConstant                 = "username"
	usernameFlagDescriptionConstant          = "SVN username; anonymous access when empty"
	passwordSourceFlagNameConstant           = "password-source"
	passwordSourceFlagDescriptionConstant    = "SVN password source (env:NAME or file:/path)"
	promptFlagNameConstant                   = "prompt"
	promptFlagDescriptionConstant            = "Ask for missing SVN credentials when stdin is a terminal"
	archiveFlagNameConstant                  = "archive"
	archiveFlagDescriptionConstant           = "Install from a tarball of the export instead of the export directory"
	retainCacheFlagNameConstant              = "retain-cache"
	retainCacheFlagDescriptionConstant       = "Keep the svn_modules directory after the run"
	showOutputFlagNameConstant               = "show-output"
	showOutputFlagDescriptionConstant        = "Mirror npm output to the console"
	passwordSourceParseErrorTemplateConstant = "invalid password source: %w"
	executorCreationErrorTemplateConstant    = "unable to create command executor: %w"
	configurationFileDebugTemplateConstant   = "Using configuration %s"
)

// LoggerProvider supplies a zap logger instance.
type LoggerProvider func() *zap.Logger

// ConfigurationProvider returns the current modules configuration.
type ConfigurationProvider func() Configuration

// ReporterProvider creates the console reporter writing to output.
type ReporterProvider func(output io.Writer, logger *zap.Logger) Reporter

// ReportedError marks a failure that was already printed to the console.
type ReportedError struct {
	Cause error
}

func (reportedError ReportedError) Error() string {
	return reportedError.Cause.Error()
}

// Unwrap exposes the reported failure.
func (reportedError ReportedError) Unwrap() error {
	return reportedError.Cause
}

// IsReported reports whether err was already printed to the console.
func IsReported(err error) bool {
	var reportedError ReportedError
	return errors.As(err, &reportedError)
}

// CommandBuilder assembles the install and uninstall commands.
type CommandBuilder struct {
	LoggerProvider        LoggerProvider
	ConfigurationProvider ConfigurationProvider
	ReporterProvider      ReporterProvider
	// CommandRunner replaces the os/exec runner, so svn and npm never start.
	CommandRunner     execshell.CommandRunner
	FileSystem        filesystem.FileSystem
	Prompter          credentials.Prompter
	EnvironmentLookup credentials.EnvironmentLookup
	FileReader        credentials.FileReader
	ContextAccessor   utils.CommandContextAccessor
}

type installFlagValues struct {
	username       string
	passwordSource string
	prompt         bool
	archive        bool
	retainCache    bool
	showOutput     bool
}

type uninstallFlagValues struct {
	retainCache bool
	showOutput  bool
}

// BuildInstall constructs the install command.
func (builder *CommandBuilder) BuildInstall() (*cobra.Command, error) {
	defaults := DefaultConfiguration()
	flagValues := &installFlagValues{}

	command := &cobra.Command{
		Use:   installCommandUseConstant,
		Short: installCommandShortDescriptionConstant,
		Long:  installCommandLongDescriptionConstant,
		RunE: func(command *cobra.Command, arguments []string) error {
			return builder.runInstall(command, arguments, flagValues)
		},
	}

	command.Flags().StringVar(&flagValues.username, usernameFlagNameConstant, "", usernameFlagDescriptionConstant)
	command.Flags().StringVar(&flagValues.passwordSource, passwordSourceFlagNameConstant, "", passwordSourceFlagDescriptionConstant)
	flags.AddToggleFlag(command.Flags(), &flagValues.prompt, promptFlagNameConstant, "", defaults.Subversion.Prompt, promptFlagDescriptionConstant)
	flags.AddToggleFlag(command.Flags(), &flagValues.archive, archiveFlagNameConstant, "", defaults.Packaging.Archive, archiveFlagDescriptionConstant)
	flags.AddToggleFlag(command.Flags(), &flagValues.retainCache, retainCacheFlagNameConstant, "", defaults.Cache.Retain, retainCacheFlagDescriptionConstant)
	flags.AddToggleFlag(command.Flags(), &flagValues.showOutput, showOutputFlagNameConstant, "", defaults.NPM.ShowOutput, showOutputFlagDescriptionConstant)

	return command, nil
}

// BuildUninstall constructs the uninstall command.
func (builder *CommandBuilder) BuildUninstall() (*cobra.Command, error) {
	defaults := DefaultConfiguration()
	flagValues := &uninstallFlagValues{}

	command := &cobra.Command{
		Use:   uninstallCommandUseConstant,
		Short: uninstallCommandShortDescriptionConstant,
		Long:  uninstallCommandLongDescriptionConstant,
		RunE: func(command *cobra.Command, arguments []string) error {
			return builder.runUninstall(command, arguments, flagValues)
		},
	}

	flags.AddToggleFlag(command.Flags(), &flagValues.retainCache, retainCacheFlagNameConstant, "", defaults.Cache.Retain, retainCacheFlagDescriptionConstant)
	flags.AddToggleFlag(command.Flags(), &flagValues.showOutput, showOutputFlagNameConstant, "", defaults.NPM.ShowOutput, showOutputFlagDescriptionConstant)

	return command, nil
}

func (builder *CommandBuilder) runInstall(command *cobra.Command, arguments []string, flagValues *installFlagValues) error {
	configuration := builder.resolveConfiguration()

	if command.Flags().Changed(usernameFlagNameConstant) {
		configuration.Subversion.Username = strings.TrimSpace(flagValues.username)
	}
	if command.Flags().Changed(passwordSourceFlagNameConstant) {
		configuration.Subversion.PasswordSource = strings.TrimSpace(flagValues.passwordSource)
	}
	if command.Flags().Changed(promptFlagNameConstant) {
		configuration.Subversion.Prompt = flagValues.prompt
	}
	if command.Flags().Changed(archiveFlagNameConstant) {
		configuration.Packaging.Archive = flagValues.archive
	}
	if command.Flags().Changed(retainCacheFlagNameConstant) {
		configuration.Cache.Retain = flagValues.retainCache
	}
	if command.Flags().Changed(showOutputFlagNameConstant) {
		configuration.NPM.ShowOutput = flagValues.showOutput
	}

	passwordSource, passwordSourceError := credentials.ParsePasswordSource(configuration.Subversion.PasswordSource)
	if passwordSourceError != nil {
		return fmt.Errorf(passwordSourceParseErrorTemplateConstant, passwordSourceError)
	}

	service, serviceError := builder.resolveService(command, configuration)
	if serviceError != nil {
		return serviceError
	}

	options := builder.buildOptions(command, arguments, configuration)
	options.CredentialResolver = credentials.NewResolver(
		credentials.Options{
			Username:       configuration.Subversion.Username,
			PasswordSource: passwordSource,
			Prompt:         configuration.Subversion.Prompt,
		},
		credentials.ResolverDependencies{
			EnvironmentLookup: builder.EnvironmentLookup,
			FileReader:        builder.FileReader,
			Prompter:          builder.resolvePrompter(command),
		},
	)

	outcome, installError := service.Install(command.Context(), options)
	return builder.finish(outcome, installError)
}

func (builder *CommandBuilder) runUninstall(command *cobra.Command, arguments []string, flagValues *uninstallFlagValues) error {
	configuration := builder.resolveConfiguration()

	if command.Flags().Changed(retainCacheFlagNameConstant) {
		configuration.Cache.Retain = flagValues.retainCache
	}
	if command.Flags().Changed(showOutputFlagNameConstant) {
		configuration.NPM.ShowOutput = flagValues.showOutput
	}

	service, serviceError := builder.resolveService(command, configuration)
	if serviceError != nil {
		return serviceError
	}

	outcome, uninstallError := service.Uninstall(command.Context(), builder.buildOptions(command, arguments, configuration))
	return builder.finish(outcome, uninstallError)
}

func (builder *CommandBuilder) buildOptions(command *cobra.Command, arguments []string, configuration Configuration) Options {
	startDirectory, _ := builder.ContextAccessor.ProjectDirectory(command.Context())
	return Options{
		StartDirectory:            startDirectory,
		ManifestFileName:          configuration.Manifest.FileName,
		Names:                     arguments,
		CacheDirectoryName:        configuration.Cache.DirectoryName,
		RetainCache:               configuration.Cache.Retain,
		Archive:                   configuration.Packaging.Archive,
		PackageManagerOutputShown: configuration.NPM.ShowOutput,
	}
}

// finish converts the run result into the command error: fatal errors and failed dependencies are already on the console.
func (builder *CommandBuilder) finish(outcome Outcome, runError error) error {
	if runError != nil {
		return ReportedError{Cause: runError}
	}
	if outcomeError := outcome.Err(); outcomeError != nil {
		return ReportedError{Cause: outcomeError}
	}
	return nil
}

func (builder *CommandBuilder) resolveService(command *cobra.Command, configuration Configuration) (*Service, error) {
	logger := builder.resolveLogger()
	reporter := builder.resolveReporter(command.OutOrStdout(), logger)
	fileSystem := builder.resolveFileSystem()
	if configurationFilePath, found := builder.ContextAccessor.ConfigurationFilePath(command.Context()); found && len(configurationFilePath) > 0 {
		reporter.Debug(configurationFileDebugTemplateConstant, configurationFilePath)
	}

	shellExecutor, executorError := execshell.NewShellExecutor(logger, builder.resolveCommandRunner(command, configuration))
	if executorError != nil {
		return nil, fmt.Errorf(executorCreationErrorTemplateConstant, executorError)
	}
	observedExecutor := shellExecutor.WithEventObserver(ui.NewConsoleCommandEventLogger(reporter))

	subversionClient, subversionError := svn.NewClient(observedExecutor)
	if subversionError != nil {
		return nil, subversionError
	}
	npmClient, npmError := npm.NewClient(observedExecutor, npm.ClientOptions{MirrorOutput: configuration.NPM.ShowOutput})
	if npmError != nil {
		return nil, npmError
	}
	packager, packagerError := archive.NewPackager(fileSystem)
	if packagerError != nil {
		return nil, packagerError
	}

	service, serviceError := NewService(ServiceDependencies{
		Logger:         logger,
		Locator:        manifest.NewLocator(fileSystem),
		Reader:         manifest.NewReader(fileSystem, manifest.ReaderOptions{DependenciesField: configuration.Manifest.DependenciesField, LegacyDependenciesField: configuration.Manifest.LegacyDependenciesFields}),
		Exporter:       subversionClient,
		Packager:       packager,
		PackageManager: npmClient,
		FileSystem:     fileSystem,
		Reporter:       reporter,
	})
	if serviceError != nil {
		return nil, serviceError
	}

	return service, nil
}

func (builder *CommandBuilder) resolveLogger() *zap.Logger {
	if builder.LoggerProvider == nil {
		return zap.NewNop()
	}

	logger := builder.LoggerProvider()
	if logger == nil {
		return zap.NewNop()
	}

	return logger
}

func (builder *CommandBuilder) resolveConfiguration() Configuration {
	configuration := DefaultConfiguration()
	if builder.ConfigurationProvider != nil {
		configuration = builder.ConfigurationProvider()
	}
	return configuration.Sanitize()
}

func (builder *CommandBuilder) resolveReporter(output io.Writer, logger *zap.Logger) Reporter {
	if builder.ReporterProvider != nil {
		if reporter := builder.ReporterProvider(output, logger); reporter != nil {
			return reporter
		}
	}
	return ui.NewSeverityReporter(output, ui.ReporterOptions{DebugEnabled: logger.Core().Enabled(zap.DebugLevel)})
}

func (builder *CommandBuilder) resolveFileSystem() filesystem.FileSystem {
	if builder.FileSystem != nil {
		return builder.FileSystem
	}
	return filesystem.OSFileSystem{}
}

func (builder *CommandBuilder) resolveCommandRunner(command *cobra.Command, configuration Configuration) execshell.CommandRunner {
	if builder.CommandRunner != nil {
		return builder.CommandRunner
	}
	return execshell.NewOSCommandRunner().
		WithExecutable(execshell.CommandSubversion, configuration.Subversion.Executable).
		WithExecutable(execshell.CommandNPM, configuration.NPM.Executable).
		WithOutputMirrors(utils.NewFlushingWriter(command.OutOrStdout()), utils.NewFlushingWriter(command.ErrOrStderr()))
}

func (builder *CommandBuilder) resolvePrompter(command *cobra.Command) credentials.Prompter {
	if builder.Prompter != nil {
		return builder.Prompter
	}
	return credentials.NewTerminalPrompter(os.Stdin, command.ErrOrStderr())
}
