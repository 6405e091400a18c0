package modules

import (
	"strings"

	"github.com/temirov/svnmodules/internal/cache"
	"github.com/temirov/svnmodules/internal/manifest"
)

const (
	defaultSubversionExecutableConstant = "svn"
	defaultNPMExecutableConstant        = "npm"

	manifestFileNameKeyConstant          = "manifest.file_name"
	manifestDependenciesFieldKeyConstant = "manifest.dependencies_field"
	manifestLegacyFieldsKeyConstant      = "manifest.legacy_dependencies_fields"
	cacheDirectoryNameKeyConstant        = "cache.directory_name"
	cacheRetainKeyConstant               = "cache.retain"
	subversionExecutableKeyConstant      = "svn.executable"
	subversionUsernameKeyConstant        = "svn.username"
	subversionPasswordSourceKeyConstant  = "svn.password_source"
	subversionPromptKeyConstant          = "svn.prompt"
	npmExecutableKeyConstant             = "npm.executable"
	npmShowOutputKeyConstant             = "npm.show_output"
	packagingArchiveKeyConstant          = "packaging.archive"
	configurationKeySeparatorConstant    = "."
)

// Configuration aggregates the settings shared by the install and uninstall commands.
type Configuration struct {
	Manifest   ManifestConfiguration   `mapstructure:"manifest"`
	Cache      CacheConfiguration      `mapstructure:"cache"`
	Subversion SubversionConfiguration `mapstructure:"svn"`
	NPM        NPMConfiguration        `mapstructure:"npm"`
	Packaging  PackagingConfiguration  `mapstructure:"packaging"`
}

// ManifestConfiguration names the manifest file and its dependency fields.
type ManifestConfiguration struct {
	FileName                 string   `mapstructure:"file_name"`
	DependenciesField        string   `mapstructure:"dependencies_field"`
	LegacyDependenciesFields []string `mapstructure:"legacy_dependencies_fields"`
}

// CacheConfiguration controls the local export cache.
type CacheConfiguration struct {
	DirectoryName string `mapstructure:"directory_name"`
	Retain        bool   `mapstructure:"retain"`
}

// SubversionConfiguration stores svn executable and credential settings.
type SubversionConfiguration struct {
	Executable     string `mapstructure:"executable"`
	Username       string `mapstructure:"username"`
	PasswordSource string `mapstructure:"password_source"`
	Prompt         bool   `mapstructure:"prompt"`
}

// NPMConfiguration stores npm executable settings.
type NPMConfiguration struct {
	Executable string `mapstructure:"executable"`
	ShowOutput bool   `mapstructure:"show_output"`
}

// PackagingConfiguration controls whether exports are installed from a tarball.
type PackagingConfiguration struct {
	Archive bool `mapstructure:"archive"`
}

// DefaultConfiguration supplies baseline values.
func DefaultConfiguration() Configuration {
	return Configuration{
		Manifest: ManifestConfiguration{
			FileName:                 manifest.DefaultManifestFileNameConstant,
			DependenciesField:        manifest.DefaultDependenciesFieldConstant,
			LegacyDependenciesFields: []string{manifest.LegacyDependenciesFieldConstant},
		},
		Cache: CacheConfiguration{
			DirectoryName: cache.DefaultDirectoryNameConstant,
		},
		Subversion: SubversionConfiguration{
			Executable: defaultSubversionExecutableConstant,
			Prompt:     true,
		},
		NPM: NPMConfiguration{
			Executable: defaultNPMExecutableConstant,
			ShowOutput: true,
		},
		Packaging: PackagingConfiguration{
			Archive: true,
		},
	}
}

// DefaultConfigurationValues flattens DefaultConfiguration into viper keys under prefix.
func DefaultConfigurationValues(prefix string) map[string]any {
	defaults := DefaultConfiguration()
	values := map[string]any{
		manifestFileNameKeyConstant:          defaults.Manifest.FileName,
		manifestDependenciesFieldKeyConstant: defaults.Manifest.DependenciesField,
		manifestLegacyFieldsKeyConstant:      defaults.Manifest.LegacyDependenciesFields,
		cacheDirectoryNameKeyConstant:        defaults.Cache.DirectoryName,
		cacheRetainKeyConstant:               defaults.Cache.Retain,
		subversionExecutableKeyConstant:      defaults.Subversion.Executable,
		subversionUsernameKeyConstant:        defaults.Subversion.Username,
		subversionPasswordSourceKeyConstant:  defaults.Subversion.PasswordSource,
		subversionPromptKeyConstant:          defaults.Subversion.Prompt,
		npmExecutableKeyConstant:             defaults.NPM.Executable,
		npmShowOutputKeyConstant:             defaults.NPM.ShowOutput,
		packagingArchiveKeyConstant:          defaults.Packaging.Archive,
	}

	trimmedPrefix := strings.TrimSpace(prefix)
	if len(trimmedPrefix) == 0 {
		return values
	}

	prefixedValues := make(map[string]any, len(values))
	for key, value := range values {
		prefixedValues[trimmedPrefix+configurationKeySeparatorConstant+key] = value
	}
	return prefixedValues
}

// Sanitize trims configured values and restores defaults for the ones that must not be empty.
func (configuration Configuration) Sanitize() Configuration {
	defaults := DefaultConfiguration()
	sanitized := configuration

	sanitized.Manifest.FileName = valueOrDefault(configuration.Manifest.FileName, defaults.Manifest.FileName)
	sanitized.Manifest.DependenciesField = valueOrDefault(configuration.Manifest.DependenciesField, defaults.Manifest.DependenciesField)
	sanitized.Manifest.LegacyDependenciesFields = sanitizeFieldNames(configuration.Manifest.LegacyDependenciesFields)
	sanitized.Cache.DirectoryName = valueOrDefault(configuration.Cache.DirectoryName, defaults.Cache.DirectoryName)
	sanitized.Subversion.Executable = valueOrDefault(configuration.Subversion.Executable, defaults.Subversion.Executable)
	sanitized.Subversion.Username = strings.TrimSpace(configuration.Subversion.Username)
	sanitized.Subversion.PasswordSource = strings.TrimSpace(configuration.Subversion.PasswordSource)
	sanitized.NPM.Executable = valueOrDefault(configuration.NPM.Executable, defaults.NPM.Executable)

	return sanitized
}

func valueOrDefault(value string, defaultValue string) string {
	trimmedValue := strings.TrimSpace(value)
	if len(trimmedValue) == 0 {
		return defaultValue
	}
	return trimmedValue
}

// sanitizeFieldNames keeps an explicitly empty list empty so legacy lookups can be switched off.
func sanitizeFieldNames(rawFieldNames []string) []string {
	sanitizedFieldNames := make([]string, 0, len(rawFieldNames))
	for _, fieldName := range rawFieldNames {
		trimmedFieldName := strings.TrimSpace(fieldName)
		if len(trimmedFieldName) == 0 {
			continue
		}
		sanitizedFieldNames = append(sanitizedFieldNames, trimmedFieldName)
	}
	return sanitizedFieldNames
}
