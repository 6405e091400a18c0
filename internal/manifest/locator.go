package manifest

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
)

const (
	// DefaultManifestFileNameConstant is the manifest searched for when no name is configured.
	DefaultManifestFileNameConstant  = "package.json"
	manifestNotFoundTemplateConstant = "%w: %s not found in %s or any parent directory"
	startDirectoryTemplateConstant   = "unable to resolve start directory %s: %w"
)

// LocatorFileSystem exposes the filesystem operations used by Locator.
type LocatorFileSystem interface {
	Stat(path string) (fs.FileInfo, error)
	Abs(path string) (string, error)
	Getwd() (string, error)
}

// Locator finds a named file by walking from a start directory towards the filesystem root.
type Locator struct {
	fileSystem LocatorFileSystem
}

// NewLocator constructs a Locator over the provided filesystem.
func NewLocator(fileSystem LocatorFileSystem) *Locator {
	return &Locator{fileSystem: fileSystem}
}

// Locate returns the absolute path of the closest targetName at or above startDirectory.
// An empty startDirectory means the current working directory. Stat failures on a candidate are treated as absence.
func (locator *Locator) Locate(targetName string, startDirectory string) (string, error) {
	if len(strings.TrimSpace(targetName)) == 0 {
		targetName = DefaultManifestFileNameConstant
	}

	currentDirectory, resolveError := locator.resolveStartDirectory(startDirectory)
	if resolveError != nil {
		return "", resolveError
	}
	searchedFrom := currentDirectory

	for {
		candidatePath := filepath.Join(currentDirectory, targetName)
		if _, statError := locator.fileSystem.Stat(candidatePath); statError == nil {
			return candidatePath, nil
		}

		if isFilesystemRoot(currentDirectory) {
			return "", fmt.Errorf(manifestNotFoundTemplateConstant, ErrManifestNotFound, targetName, searchedFrom)
		}
		currentDirectory = filepath.Dir(currentDirectory)
	}
}

func (locator *Locator) resolveStartDirectory(startDirectory string) (string, error) {
	trimmedStartDirectory := strings.TrimSpace(startDirectory)
	if len(trimmedStartDirectory) == 0 {
		workingDirectory, workingDirectoryError := locator.fileSystem.Getwd()
		if workingDirectoryError != nil {
			return "", fmt.Errorf(startDirectoryTemplateConstant, trimmedStartDirectory, workingDirectoryError)
		}
		trimmedStartDirectory = workingDirectory
	}

	absoluteDirectory, absoluteError := locator.fileSystem.Abs(trimmedStartDirectory)
	if absoluteError != nil {
		return "", fmt.Errorf(startDirectoryTemplateConstant, trimmedStartDirectory, absoluteError)
	}
	return filepath.Clean(absoluteDirectory), nil
}

// isFilesystemRoot reports whether directory is "/" or a volume root such as "C:\".
func isFilesystemRoot(directory string) bool {
	return filepath.Dir(directory) == directory
}
