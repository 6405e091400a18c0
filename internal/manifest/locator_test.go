package manifest_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/svnmodules/internal/filesystem"
	"github.com/temirov/svnmodules/internal/manifest"
)

const (
	testManifestFileNameConstant = "package.json"
	testManifestContentConstant  = `{"name":"fixture"}`
)

func TestLocatorLocate(testInstance *testing.T) {
	testCases := []struct {
		name              string
		manifestDirectory func(projectDirectory string) string
		startDirectory    func(projectDirectory string) string
		expectNotFound    bool
	}{
		{
			name:              "manifest_in_start_directory",
			manifestDirectory: func(projectDirectory string) string { return projectDirectory },
			startDirectory:    func(projectDirectory string) string { return projectDirectory },
		},
		{
			name:              "manifest_in_ancestor",
			manifestDirectory: func(projectDirectory string) string { return projectDirectory },
			startDirectory:    func(projectDirectory string) string { return filepath.Join(projectDirectory, "src", "lib") },
		},
		{
			name:              "closest_manifest_wins",
			manifestDirectory: func(projectDirectory string) string { return filepath.Join(projectDirectory, "src") },
			startDirectory:    func(projectDirectory string) string { return filepath.Join(projectDirectory, "src", "lib") },
		},
		{
			name:              "relative_start_directory",
			manifestDirectory: func(projectDirectory string) string { return projectDirectory },
			startDirectory: func(projectDirectory string) string {
				workingDirectory, _ := os.Getwd()
				relativePath, _ := filepath.Rel(workingDirectory, filepath.Join(projectDirectory, "src"))
				return relativePath
			},
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			projectDirectory := testInstance.TempDir()
			require.NoError(testInstance, os.MkdirAll(filepath.Join(projectDirectory, "src", "lib"), 0o755))

			expectedPath := filepath.Join(testCase.manifestDirectory(projectDirectory), testManifestFileNameConstant)
			require.NoError(testInstance, os.WriteFile(filepath.Join(projectDirectory, testManifestFileNameConstant), []byte(testManifestContentConstant), 0o600))
			require.NoError(testInstance, os.WriteFile(expectedPath, []byte(testManifestContentConstant), 0o600))

			locator := manifest.NewLocator(filesystem.OSFileSystem{})
			locatedPath, locateError := locator.Locate(testManifestFileNameConstant, testCase.startDirectory(projectDirectory))
			require.NoError(testInstance, locateError)

			expectedResolved, _ := filepath.EvalSymlinks(expectedPath)
			locatedResolved, _ := filepath.EvalSymlinks(locatedPath)
			require.Equal(testInstance, expectedResolved, locatedResolved)
			require.True(testInstance, filepath.IsAbs(locatedPath))
		})
	}
}

func TestLocatorReportsNotFoundAtFilesystemRoot(testInstance *testing.T) {
	startDirectory := testInstance.TempDir()

	locator := manifest.NewLocator(filesystem.OSFileSystem{})
	_, locateError := locator.Locate("svn-modules-locator-test-marker-that-does-not-exist.json", startDirectory)
	require.ErrorIs(testInstance, locateError, manifest.ErrManifestNotFound)
}

func TestLocatorUsesWorkingDirectoryByDefault(testInstance *testing.T) {
	projectDirectory := testInstance.TempDir()
	require.NoError(testInstance, os.WriteFile(filepath.Join(projectDirectory, testManifestFileNameConstant), []byte(testManifestContentConstant), 0o600))
	testInstance.Chdir(projectDirectory)

	locator := manifest.NewLocator(filesystem.OSFileSystem{})
	locatedPath, locateError := locator.Locate("", "")
	require.NoError(testInstance, locateError)
	require.Equal(testInstance, testManifestFileNameConstant, filepath.Base(locatedPath))
}
