package modules

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/temirov/svnmodules/internal/cache"
	"github.com/temirov/svnmodules/internal/credentials"
	"github.com/temirov/svnmodules/internal/manifest"
	"github.com/temirov/svnmodules/internal/npm"
	"github.com/temirov/svnmodules/internal/svn"
)

const (
	manifestNotFoundReportTemplateConstant     = "Unable to find %s"
	manifestUnreadableReportTemplateConstant   = "Unable to read or parse %s"
	noDependenciesWarningTemplateConstant      = "%s does not contain SVN dependencies"
	unknownDependencyWarningTemplateConstant   = "%s does not contain SVN dependency '%s'"
	nothingSelectedWarningConstant             = "No SVN dependencies to process"
	credentialsFailureReportConstant           = "Unable to resolve SVN credentials"
	fetchingReportTemplateConstant             = "Fetching %s..."
	fetchFailedReportTemplateConstant          = "Unable to fetch %s"
	authenticationFailedReportTemplateConstant = "SVN rejected the credentials for %s"
	packagingReportTemplateConstant            = "Packaging %s..."
	packagingFailedReportTemplateConstant      = "Unable to package %s"
	installingReportTemplateConstant           = "Installing %s..."
	installFailedReportTemplateConstant        = "Unable to install %s"
	installedReportTemplateConstant            = "Installed %s successfully"
	allInstalledReportConstant                 = "All SVN dependencies were installed successfully"
	someInstallsFailedReportTemplateConstant   = "One or more SVN dependencies failed to install (%d succeeded, %d failed)"
	uninstallingReportTemplateConstant         = "Uninstalling %s..."
	uninstallFailedReportTemplateConstant      = "Unable to uninstall %s"
	uninstalledReportTemplateConstant          = "Uninstalled %s successfully"
	allUninstalledReportConstant               = "All SVN dependencies were uninstalled successfully"
	someUninstallsFailedReportTemplateConstant = "One or more SVN dependencies failed to uninstall (%d succeeded, %d failed)"
	invalidDependencyReportTemplateConstant    = "Invalid SVN dependency %s"
	cacheEntryCleanupWarningTemplateConstant   = "Unable to clear cached copy of %s: %v"
	cacheCleanupWarningTemplateConstant        = "Unable to delete local cache: %v"
	cacheRetainedDebugTemplateConstant         = "Keeping local cache %s"
	manifestFoundDebugTemplateConstant         = "Using %s"
	hintReportTemplateConstant                 = "Hint: %s"
	plainReportTemplateConstant                = "%s"
	credentialsResolutionErrorTemplateConstant = "unable to resolve SVN credentials: %w"
	cacheCreationErrorTemplateConstant         = "unable to prepare local cache: %w"
	serviceDependencyMissingTemplateConstant   = "%w: %s"
	serviceDependencyMissingMessageConstant    = "modules service dependency not configured"
	runStartedLogMessageConstant               = "svn-modules run started"
	runCompletedLogMessageConstant             = "svn-modules run completed"
	dependencyFailedLogMessageConstant         = "dependency failed"
	logFieldOperationConstant                  = "operation"
	logFieldManifestPathConstant               = "manifest_path"
	logFieldDependencyCountConstant            = "dependency_count"
	logFieldDependencyNameConstant             = "dependency"
	logFieldSucceededCountConstant             = "succeeded"
	logFieldFailedCountConstant                = "failed"
	operationInstallConstant                   = "install"
	operationUninstallConstant                 = "uninstall"
	locatorDependencyNameConstant              = "locator"
	readerDependencyNameConstant               = "reader"
	exporterDependencyNameConstant             = "exporter"
	packagerDependencyNameConstant             = "packager"
	packageManagerDependencyNameConstant       = "package manager"
	fileSystemDependencyNameConstant           = "filesystem"
	reporterDependencyNameConstant             = "reporter"
)

// ErrServiceDependencyMissing indicates NewService received an incomplete ServiceDependencies.
var ErrServiceDependencyMissing = errors.New(serviceDependencyMissingMessageConstant)

// ManifestLocator finds the manifest by walking up from a start directory.
type ManifestLocator interface {
	Locate(targetName string, startDirectory string) (string, error)
}

// ManifestReader loads the SVN dependency mapping from a manifest.
type ManifestReader interface {
	Read(manifestPath string) (manifest.Manifest, error)
}

// SubversionExporter fetches a dependency from its repository.
type SubversionExporter interface {
	Export(executionContext context.Context, request svn.ExportRequest) error
}

// ArchivePackager turns an exported directory into an installable tarball.
type ArchivePackager interface {
	Package(sourceDirectory string, archivePath string) error
}

// PackageManager installs and uninstalls packages in the project.
type PackageManager interface {
	Install(executionContext context.Context, artifactPath string, projectRoot string) error
	Uninstall(executionContext context.Context, packageName string, projectRoot string) error
}

// CredentialResolver supplies SVN credentials for an install run.
type CredentialResolver interface {
	Resolve(resolutionContext context.Context) (credentials.Credentials, error)
}

// Reporter prints severity-tagged console lines.
type Reporter interface {
	Debug(format string, arguments ...any)
	Info(format string, arguments ...any)
	Success(format string, arguments ...any)
	Warning(format string, arguments ...any)
	Error(format string, arguments ...any)
}

// ServiceDependencies wires the collaborators used by Service.
type ServiceDependencies struct {
	Logger         *zap.Logger
	Locator        ManifestLocator
	Reader         ManifestReader
	Exporter       SubversionExporter
	Packager       ArchivePackager
	PackageManager PackageManager
	FileSystem     cache.FileSystem
	Reporter       Reporter
}

// Options configure a single install or uninstall run.
type Options struct {
	// StartDirectory is where the manifest search begins; empty means the working directory.
	StartDirectory   string
	ManifestFileName string
	Names            []string
	// CredentialResolver is consulted once, only when an install has something to fetch. Nil means anonymous.
	CredentialResolver CredentialResolver
	CacheDirectoryName string
	RetainCache        bool
	Archive            bool
	// PackageManagerOutputShown suppresses repeating npm diagnostics that were already mirrored to the console.
	PackageManagerOutputShown bool
}

// Service orchestrates install and uninstall runs.
type Service struct {
	logger         *zap.Logger
	locator        ManifestLocator
	reader         ManifestReader
	exporter       SubversionExporter
	packager       ArchivePackager
	packageManager PackageManager
	fileSystem     cache.FileSystem
	reporter       Reporter
}

type runPlan struct {
	manifest     manifest.Manifest
	selected     map[string]string
	orderedNames []string
	cache        *cache.Directory
}

// NewService validates dependencies and constructs a Service. A nil Logger falls back to a no-op logger.
func NewService(dependencies ServiceDependencies) (*Service, error) {
	requiredDependencies := []struct {
		name    string
		missing bool
	}{
		{name: locatorDependencyNameConstant, missing: dependencies.Locator == nil},
		{name: readerDependencyNameConstant, missing: dependencies.Reader == nil},
		{name: exporterDependencyNameConstant, missing: dependencies.Exporter == nil},
		{name: packagerDependencyNameConstant, missing: dependencies.Packager == nil},
		{name: packageManagerDependencyNameConstant, missing: dependencies.PackageManager == nil},
		{name: fileSystemDependencyNameConstant, missing: dependencies.FileSystem == nil},
		{name: reporterDependencyNameConstant, missing: dependencies.Reporter == nil},
	}
	for _, requiredDependency := range requiredDependencies {
		if requiredDependency.missing {
			return nil, fmt.Errorf(serviceDependencyMissingTemplateConstant, ErrServiceDependencyMissing, requiredDependency.name)
		}
	}

	logger := dependencies.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Service{
		logger:         logger,
		locator:        dependencies.Locator,
		reader:         dependencies.Reader,
		exporter:       dependencies.Exporter,
		packager:       dependencies.Packager,
		packageManager: dependencies.PackageManager,
		fileSystem:     dependencies.FileSystem,
		reporter:       dependencies.Reporter,
	}, nil
}

// Install fetches, packages and installs the selected dependencies.
// The returned error is non-nil only for fatal conditions; per-dependency failures are in the Outcome.
func (service *Service) Install(executionContext context.Context, options Options) (Outcome, error) {
	plan, proceed, planError := service.plan(operationInstallConstant, options)
	if planError != nil || !proceed {
		return Outcome{}, planError
	}

	resolvedCredentials, credentialsError := service.resolveCredentials(executionContext, options.CredentialResolver)
	if credentialsError != nil {
		service.reporter.Error(credentialsFailureReportConstant)
		service.reporter.Error(plainReportTemplateConstant, credentialsError.Error())
		return Outcome{}, fmt.Errorf(credentialsResolutionErrorTemplateConstant, credentialsError)
	}

	outcome := Outcome{}
	for _, dependencyName := range plan.orderedNames {
		if contextError := executionContext.Err(); contextError != nil {
			service.clearCache(plan.cache, options.RetainCache)
			return outcome, contextError
		}

		installError := service.installDependency(executionContext, plan, dependencyName, resolvedCredentials, options)
		if installError != nil {
			service.logger.Warn(dependencyFailedLogMessageConstant, zap.String(logFieldDependencyNameConstant, dependencyName), zap.Error(installError))
			outcome.recordFailure(dependencyName, installError)
			continue
		}
		outcome.recordSuccess(dependencyName)
		service.reporter.Success(installedReportTemplateConstant, dependencyName)
	}

	service.clearCache(plan.cache, options.RetainCache)
	service.summarize(operationInstallConstant, outcome)
	return outcome, nil
}

// Uninstall removes the selected dependencies from the project and clears their cache entries.
func (service *Service) Uninstall(executionContext context.Context, options Options) (Outcome, error) {
	plan, proceed, planError := service.plan(operationUninstallConstant, options)
	if planError != nil || !proceed {
		return Outcome{}, planError
	}

	outcome := Outcome{}
	for _, dependencyName := range plan.orderedNames {
		if contextError := executionContext.Err(); contextError != nil {
			service.clearCache(plan.cache, options.RetainCache)
			return outcome, contextError
		}

		uninstallError := service.uninstallDependency(executionContext, plan, dependencyName, options)
		if uninstallError != nil {
			service.logger.Warn(dependencyFailedLogMessageConstant, zap.String(logFieldDependencyNameConstant, dependencyName), zap.Error(uninstallError))
			outcome.recordFailure(dependencyName, uninstallError)
			continue
		}
		outcome.recordSuccess(dependencyName)
		service.reporter.Success(uninstalledReportTemplateConstant, dependencyName)
	}

	service.clearCache(plan.cache, options.RetainCache)
	service.summarize(operationUninstallConstant, outcome)
	return outcome, nil
}

// plan locates and reads the manifest and narrows it to the requested names.
// proceed is false when there is nothing to process, which is not an error.
func (service *Service) plan(operation string, options Options) (runPlan, bool, error) {
	manifestFileName := strings.TrimSpace(options.ManifestFileName)
	if len(manifestFileName) == 0 {
		manifestFileName = manifest.DefaultManifestFileNameConstant
	}

	manifestPath, locateError := service.locator.Locate(manifestFileName, options.StartDirectory)
	if locateError != nil {
		service.reporter.Error(manifestNotFoundReportTemplateConstant, manifestFileName)
		return runPlan{}, false, locateError
	}
	service.reporter.Debug(manifestFoundDebugTemplateConstant, manifestPath)

	loadedManifest, readError := service.reader.Read(manifestPath)
	if readError != nil {
		service.reporter.Error(manifestUnreadableReportTemplateConstant, manifestFileName)
		service.reporter.Debug(plainReportTemplateConstant, readError.Error())
		return runPlan{}, false, readError
	}

	service.logger.Info(
		runStartedLogMessageConstant,
		zap.String(logFieldOperationConstant, operation),
		zap.String(logFieldManifestPathConstant, manifestPath),
		zap.Int(logFieldDependencyCountConstant, len(loadedManifest.Dependencies)),
	)

	if len(loadedManifest.Dependencies) == 0 {
		service.reporter.Warning(noDependenciesWarningTemplateConstant, manifestFileName)
		return runPlan{}, false, nil
	}

	filterResult := manifest.Filter(loadedManifest.Dependencies, options.Names)
	for _, unknownName := range filterResult.Unknown {
		service.reporter.Warning(unknownDependencyWarningTemplateConstant, manifestFileName, unknownName)
	}
	if len(filterResult.Selected) == 0 {
		service.reporter.Warning(nothingSelectedWarningConstant)
		return runPlan{}, false, nil
	}

	cacheDirectory, cacheError := cache.NewDirectory(service.fileSystem, loadedManifest.ProjectRoot(), options.CacheDirectoryName)
	if cacheError != nil {
		return runPlan{}, false, fmt.Errorf(cacheCreationErrorTemplateConstant, cacheError)
	}

	return runPlan{
		manifest:     loadedManifest,
		selected:     filterResult.Selected,
		orderedNames: manifest.SortedNames(filterResult.Selected),
		cache:        cacheDirectory,
	}, true, nil
}

func (service *Service) resolveCredentials(executionContext context.Context, resolver CredentialResolver) (credentials.Credentials, error) {
	if resolver == nil {
		return credentials.Credentials{}, nil
	}
	return resolver.Resolve(executionContext)
}

func (service *Service) installDependency(executionContext context.Context, plan runPlan, dependencyName string, resolvedCredentials credentials.Credentials, options Options) error {
	dependency, parseError := manifest.ParseDependency(dependencyName, plan.selected[dependencyName])
	if parseError != nil {
		service.reporter.Error(invalidDependencyReportTemplateConstant, dependencyName)
		service.reporter.Error(plainReportTemplateConstant, parseError.Error())
		return parseError
	}

	if ensureError := plan.cache.Ensure(dependency.Name); ensureError != nil {
		service.reporter.Error(fetchFailedReportTemplateConstant, dependency.Name)
		service.reporter.Error(plainReportTemplateConstant, ensureError.Error())
		return ensureError
	}
	if clearError := plan.cache.ClearEntry(dependency.Name); clearError != nil {
		service.reporter.Warning(cacheEntryCleanupWarningTemplateConstant, dependency.Name, clearError)
	}

	service.reporter.Info(fetchingReportTemplateConstant, dependency.Name)
	exportError := service.exporter.Export(executionContext, svn.ExportRequest{
		RepositoryURL:   dependency.RepositoryURL,
		Revision:        dependency.Revision,
		DestinationRoot: plan.cache.Root(),
		DestinationName: dependency.Name,
		Credentials:     resolvedCredentials,
	})
	if exportError != nil {
		service.reportExportFailure(dependency, exportError)
		return exportError
	}

	artifactPath := plan.cache.EntryPath(dependency.Name)
	if options.Archive {
		service.reporter.Debug(packagingReportTemplateConstant, dependency.Name)
		archivePath := plan.cache.ArchivePath(dependency.Name)
		if packageError := service.packager.Package(artifactPath, archivePath); packageError != nil {
			service.reporter.Error(packagingFailedReportTemplateConstant, dependency.Name)
			service.reporter.Error(plainReportTemplateConstant, packageError.Error())
			return packageError
		}
		artifactPath = archivePath
	}

	service.reporter.Info(installingReportTemplateConstant, dependency.Name)
	if installError := service.packageManager.Install(executionContext, artifactPath, plan.manifest.ProjectRoot()); installError != nil {
		service.reporter.Error(installFailedReportTemplateConstant, dependency.Name)
		service.reportPackageManagerDiagnostics(installError, options)
		return installError
	}

	return nil
}

func (service *Service) uninstallDependency(executionContext context.Context, plan runPlan, dependencyName string, options Options) error {
	if validationError := manifest.ValidateDependencyName(dependencyName); validationError != nil {
		service.reporter.Error(invalidDependencyReportTemplateConstant, dependencyName)
		service.reporter.Error(plainReportTemplateConstant, validationError.Error())
		return validationError
	}

	service.reporter.Info(uninstallingReportTemplateConstant, dependencyName)
	uninstallError := service.packageManager.Uninstall(executionContext, dependencyName, plan.manifest.ProjectRoot())
	if uninstallError != nil {
		service.reporter.Error(uninstallFailedReportTemplateConstant, dependencyName)
		service.reportPackageManagerDiagnostics(uninstallError, options)
	}

	if clearError := plan.cache.ClearEntry(dependencyName); clearError != nil {
		service.reporter.Warning(cacheEntryCleanupWarningTemplateConstant, dependencyName, clearError)
	}

	return uninstallError
}

func (service *Service) reportExportFailure(dependency manifest.Dependency, exportError error) {
	service.reporter.Error(fetchFailedReportTemplateConstant, dependency.Name)

	var typedExportError *svn.ExportError
	if !errors.As(exportError, &typedExportError) {
		service.reporter.Error(plainReportTemplateConstant, exportError.Error())
		return
	}

	if errors.Is(exportError, svn.ErrAuthenticationFailed) {
		service.reporter.Error(authenticationFailedReportTemplateConstant, dependency.RepositoryURL)
	}

	rawOutput := strings.TrimSpace(typedExportError.RawOutput)
	if len(rawOutput) == 0 {
		rawOutput = typedExportError.Detail()
	}
	service.reporter.Error(plainReportTemplateConstant, rawOutput)

	for _, hint := range typedExportError.Hints {
		service.reporter.Info(hintReportTemplateConstant, hint)
	}
}

func (service *Service) reportPackageManagerDiagnostics(failure error, options Options) {
	diagnosticOutput := npm.DiagnosticOutput(failure)
	// Mirrored output already reached the console.
	if options.PackageManagerOutputShown && len(diagnosticOutput) > 0 {
		service.reporter.Debug(plainReportTemplateConstant, failure.Error())
		return
	}
	if len(diagnosticOutput) == 0 {
		diagnosticOutput = failure.Error()
	}
	service.reporter.Error(plainReportTemplateConstant, diagnosticOutput)
}

func (service *Service) clearCache(cacheDirectory *cache.Directory, retain bool) {
	if cacheDirectory == nil {
		return
	}
	if retain {
		service.reporter.Debug(cacheRetainedDebugTemplateConstant, cacheDirectory.Root())
		return
	}
	if removeError := cacheDirectory.Remove(); removeError != nil {
		service.reporter.Warning(cacheCleanupWarningTemplateConstant, removeError)
	}
}

func (service *Service) summarize(operation string, outcome Outcome) {
	service.logger.Info(
		runCompletedLogMessageConstant,
		zap.String(logFieldOperationConstant, operation),
		zap.Int(logFieldSucceededCountConstant, len(outcome.Succeeded)),
		zap.Int(logFieldFailedCountConstant, len(outcome.Failed)),
	)

	allSucceededMessage, someFailedTemplate := allInstalledReportConstant, someInstallsFailedReportTemplateConstant
	if operation == operationUninstallConstant {
		allSucceededMessage, someFailedTemplate = allUninstalledReportConstant, someUninstallsFailedReportTemplateConstant
	}

	switch {
	case len(outcome.Failed) > 0:
		service.reporter.Warning(someFailedTemplate, len(outcome.Succeeded), len(outcome.Failed))
	case len(outcome.Succeeded) > 0:
		service.reporter.Success(plainReportTemplateConstant, allSucceededMessage)
	}
}
