// Package cache manages the svn_modules directory that holds exports and tarballs during a run.
package cache

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
)

const (
	// DefaultDirectoryNameConstant is the cache directory created under the project root.
	DefaultDirectoryNameConstant = "svn_modules"
	// ArchiveExtensionConstant is appended to a dependency name to form its tarball path.
	ArchiveExtensionConstant = ".tgz"

	directoryPermissionsConstant           = fs.FileMode(0o755)
	ensureFailureTemplateConstant          = "unable to create cache directory %s: %w"
	clearFailureTemplateConstant           = "unable to clear cache entry %s: %w"
	removeFailureTemplateConstant          = "unable to delete local cache %s: %w"
	fileSystemNotConfiguredMessageConstant = "cache filesystem not configured"
)

// ErrFileSystemNotConfigured indicates NewDirectory received a nil filesystem.
var ErrFileSystemNotConfigured = errors.New(fileSystemNotConfiguredMessageConstant)

// FileSystem exposes the filesystem operations used by Directory.
type FileSystem interface {
	MkdirAll(path string, permissions fs.FileMode) error
	RemoveAll(path string) error
}

// Directory is the local cache rooted at <project root>/<directory name>.
type Directory struct {
	fileSystem FileSystem
	root       string
}

// NewDirectory constructs the cache for projectRoot. An empty directoryName selects svn_modules.
func NewDirectory(fileSystem FileSystem, projectRoot string, directoryName string) (*Directory, error) {
	if fileSystem == nil {
		return nil, ErrFileSystemNotConfigured
	}
	trimmedDirectoryName := strings.TrimSpace(directoryName)
	if len(trimmedDirectoryName) == 0 {
		trimmedDirectoryName = DefaultDirectoryNameConstant
	}
	return &Directory{fileSystem: fileSystem, root: filepath.Join(projectRoot, trimmedDirectoryName)}, nil
}

// Root returns the cache directory path.
func (directory *Directory) Root() string {
	return directory.root
}

// EntryPath returns the export directory for a dependency.
func (directory *Directory) EntryPath(dependencyName string) string {
	return filepath.Join(directory.root, filepath.FromSlash(dependencyName))
}

// ArchivePath returns the tarball path for a dependency.
func (directory *Directory) ArchivePath(dependencyName string) string {
	return directory.EntryPath(dependencyName) + ArchiveExtensionConstant
}

// Ensure creates the cache directory, and the scope directory for scoped names, when missing.
func (directory *Directory) Ensure(dependencyName string) error {
	targetDirectory := filepath.Dir(directory.EntryPath(dependencyName))
	if makeError := directory.fileSystem.MkdirAll(targetDirectory, directoryPermissionsConstant); makeError != nil {
		return fmt.Errorf(ensureFailureTemplateConstant, targetDirectory, makeError)
	}
	return nil
}

// ClearEntry deletes the export directory and tarball of a dependency. Missing entries are not an error.
func (directory *Directory) ClearEntry(dependencyName string) error {
	var clearErrors []error
	for _, entryPath := range []string{directory.EntryPath(dependencyName), directory.ArchivePath(dependencyName)} {
		if removeError := directory.fileSystem.RemoveAll(entryPath); removeError != nil {
			clearErrors = append(clearErrors, fmt.Errorf(clearFailureTemplateConstant, entryPath, removeError))
		}
	}
	return errors.Join(clearErrors...)
}

// Remove deletes the whole cache directory. A missing directory is not an error.
func (directory *Directory) Remove() error {
	if removeError := directory.fileSystem.RemoveAll(directory.root); removeError != nil {
		return fmt.Errorf(removeFailureTemplateConstant, directory.root, removeError)
	}
	return nil
}
