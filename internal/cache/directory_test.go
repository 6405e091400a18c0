package cache_test

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/svnmodules/internal/cache"
	"github.com/temirov/svnmodules/internal/filesystem"
)

const (
	testPlainDependencyNameConstant  = "alpha"
	testScopedDependencyNameConstant = "@corp/widgets"
	testCustomDirectoryNameConstant  = "vendor_svn"
)

type failingFileSystem struct {
	failure error
}

func (fileSystem failingFileSystem) MkdirAll(string, fs.FileMode) error {
	return fileSystem.failure
}

func (fileSystem failingFileSystem) RemoveAll(string) error {
	return fileSystem.failure
}

func TestNewDirectoryRequiresFileSystem(testInstance *testing.T) {
	directory, creationError := cache.NewDirectory(nil, testInstance.TempDir(), "")
	require.ErrorIs(testInstance, creationError, cache.ErrFileSystemNotConfigured)
	require.Nil(testInstance, directory)
}

func TestDirectoryPaths(testInstance *testing.T) {
	projectRoot := testInstance.TempDir()

	testCases := []struct {
		name                string
		directoryName       string
		dependencyName      string
		expectedEntryPath   string
		expectedArchivePath string
	}{
		{
			name:                "default_plain",
			dependencyName:      testPlainDependencyNameConstant,
			expectedEntryPath:   filepath.Join(projectRoot, "svn_modules", "alpha"),
			expectedArchivePath: filepath.Join(projectRoot, "svn_modules", "alpha.tgz"),
		},
		{
			name:                "default_scoped",
			dependencyName:      testScopedDependencyNameConstant,
			expectedEntryPath:   filepath.Join(projectRoot, "svn_modules", "@corp", "widgets"),
			expectedArchivePath: filepath.Join(projectRoot, "svn_modules", "@corp", "widgets.tgz"),
		},
		{
			name:                "custom_directory",
			directoryName:       testCustomDirectoryNameConstant,
			dependencyName:      testPlainDependencyNameConstant,
			expectedEntryPath:   filepath.Join(projectRoot, testCustomDirectoryNameConstant, "alpha"),
			expectedArchivePath: filepath.Join(projectRoot, testCustomDirectoryNameConstant, "alpha.tgz"),
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			directory, creationError := cache.NewDirectory(filesystem.OSFileSystem{}, projectRoot, testCase.directoryName)
			require.NoError(testInstance, creationError)
			require.Equal(testInstance, testCase.expectedEntryPath, directory.EntryPath(testCase.dependencyName))
			require.Equal(testInstance, testCase.expectedArchivePath, directory.ArchivePath(testCase.dependencyName))
		})
	}
}

func TestDirectoryEnsureCreatesScopeDirectory(testInstance *testing.T) {
	projectRoot := testInstance.TempDir()
	directory, creationError := cache.NewDirectory(filesystem.OSFileSystem{}, projectRoot, "")
	require.NoError(testInstance, creationError)

	require.NoError(testInstance, directory.Ensure(testScopedDependencyNameConstant))

	scopeInfo, statError := os.Stat(filepath.Join(projectRoot, "svn_modules", "@corp"))
	require.NoError(testInstance, statError)
	require.True(testInstance, scopeInfo.IsDir())
	require.NoDirExists(testInstance, directory.EntryPath(testScopedDependencyNameConstant))
}

func TestDirectoryClearEntryRemovesExportAndArchive(testInstance *testing.T) {
	projectRoot := testInstance.TempDir()
	directory, creationError := cache.NewDirectory(filesystem.OSFileSystem{}, projectRoot, "")
	require.NoError(testInstance, creationError)

	entryPath := directory.EntryPath(testPlainDependencyNameConstant)
	require.NoError(testInstance, os.MkdirAll(entryPath, 0o755))
	require.NoError(testInstance, os.WriteFile(filepath.Join(entryPath, "index.js"), []byte("module.exports = 1\n"), 0o644))
	require.NoError(testInstance, os.WriteFile(directory.ArchivePath(testPlainDependencyNameConstant), []byte("stale"), 0o644))

	require.NoError(testInstance, directory.ClearEntry(testPlainDependencyNameConstant))
	require.NoDirExists(testInstance, entryPath)
	require.NoFileExists(testInstance, directory.ArchivePath(testPlainDependencyNameConstant))

	require.NoError(testInstance, directory.ClearEntry(testPlainDependencyNameConstant))
}

func TestDirectoryRemoveIsIdempotent(testInstance *testing.T) {
	projectRoot := testInstance.TempDir()
	directory, creationError := cache.NewDirectory(filesystem.OSFileSystem{}, projectRoot, "")
	require.NoError(testInstance, creationError)

	require.NoError(testInstance, directory.Ensure(testPlainDependencyNameConstant))
	require.DirExists(testInstance, directory.Root())

	require.NoError(testInstance, directory.Remove())
	require.NoDirExists(testInstance, directory.Root())
	require.NoError(testInstance, directory.Remove())
}

func TestDirectoryWrapsFileSystemFailures(testInstance *testing.T) {
	failure := errors.New("permission denied")
	directory, creationError := cache.NewDirectory(failingFileSystem{failure: failure}, "/project", "")
	require.NoError(testInstance, creationError)

	ensureError := directory.Ensure(testPlainDependencyNameConstant)
	require.ErrorIs(testInstance, ensureError, failure)
	require.Contains(testInstance, ensureError.Error(), "unable to create cache directory")

	clearError := directory.ClearEntry(testPlainDependencyNameConstant)
	require.ErrorIs(testInstance, clearError, failure)
	require.Contains(testInstance, clearError.Error(), "alpha.tgz")

	removeError := directory.Remove()
	require.ErrorIs(testInstance, removeError, failure)
	require.Contains(testInstance, removeError.Error(), "unable to delete local cache /project/svn_modules")
}
