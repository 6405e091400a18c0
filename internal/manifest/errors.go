package manifest

import "errors"

const (
	manifestNotFoundMessageConstant      = "unable to find manifest"
	manifestUnreadableMessageConstant    = "unable to read or parse manifest"
	missingRepositoryURLMessageConstant  = "dependency does not declare a repository URL"
	invalidDependencyNameMessageConstant = "dependency name cannot be used as a cache entry"
)

var (
	// ErrManifestNotFound indicates no manifest exists in the start directory or any ancestor.
	ErrManifestNotFound = errors.New(manifestNotFoundMessageConstant)
	// ErrManifestUnreadable indicates the manifest could not be read or decoded.
	ErrManifestUnreadable = errors.New(manifestUnreadableMessageConstant)
	// ErrMissingRepositoryURL indicates a dependency specifier without a URL.
	ErrMissingRepositoryURL = errors.New(missingRepositoryURLMessageConstant)
	// ErrInvalidDependencyName indicates a dependency name that would escape the cache directory.
	ErrInvalidDependencyName = errors.New(invalidDependencyNameMessageConstant)
)
