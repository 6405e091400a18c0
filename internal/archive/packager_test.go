package archive_test

import (
	"archive/tar"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/require"

	"github.com/temirov/svnmodules/internal/archive"
	"github.com/temirov/svnmodules/internal/filesystem"
)

type failingOpenFileSystem struct {
	filesystem.OSFileSystem
}

func (failingOpenFileSystem) Open(string) (io.ReadCloser, error) {
	return nil, fs.ErrPermission
}

type archivedEntry struct {
	typeFlag   byte
	mode       int64
	linkTarget string
	contents   string
}

func readArchive(testInstance *testing.T, archivePath string) map[string]archivedEntry {
	testInstance.Helper()

	archiveFile, openError := os.Open(archivePath)
	require.NoError(testInstance, openError)
	defer archiveFile.Close()

	gzipReader, gzipError := gzip.NewReader(archiveFile)
	require.NoError(testInstance, gzipError)
	defer gzipReader.Close()

	entries := map[string]archivedEntry{}
	tarReader := tar.NewReader(gzipReader)
	for {
		header, nextError := tarReader.Next()
		if errors.Is(nextError, io.EOF) {
			break
		}
		require.NoError(testInstance, nextError)

		contents, readError := io.ReadAll(tarReader)
		require.NoError(testInstance, readError)
		entries[header.Name] = archivedEntry{
			typeFlag:   header.Typeflag,
			mode:       header.Mode,
			linkTarget: header.Linkname,
			contents:   string(contents),
		}
	}
	return entries
}

func TestPackagerWritesPackagePrefixedTarball(testInstance *testing.T) {
	cacheDirectory := testInstance.TempDir()
	sourceDirectory := filepath.Join(cacheDirectory, "widgets")
	require.NoError(testInstance, os.MkdirAll(filepath.Join(sourceDirectory, "lib"), 0o755))
	require.NoError(testInstance, os.WriteFile(filepath.Join(sourceDirectory, "package.json"), []byte(`{"name":"widgets","version":"1.0.0"}`), 0o644))
	require.NoError(testInstance, os.WriteFile(filepath.Join(sourceDirectory, "lib", "cli.js"), []byte("#!/usr/bin/env node\n"), 0o755))
	if runtime.GOOS != "windows" {
		require.NoError(testInstance, os.Symlink("lib/cli.js", filepath.Join(sourceDirectory, "cli.js")))
	}

	packager, creationError := archive.NewPackager(filesystem.OSFileSystem{})
	require.NoError(testInstance, creationError)

	archivePath := filepath.Join(cacheDirectory, "widgets.tgz")
	require.NoError(testInstance, packager.Package(sourceDirectory, archivePath))

	entries := readArchive(testInstance, archivePath)

	require.Contains(testInstance, entries, "package/lib/")
	require.Equal(testInstance, byte(tar.TypeDir), entries["package/lib/"].typeFlag)
	require.Equal(testInstance, `{"name":"widgets","version":"1.0.0"}`, entries["package/package.json"].contents)
	require.Equal(testInstance, "#!/usr/bin/env node\n", entries["package/lib/cli.js"].contents)
	if runtime.GOOS != "windows" {
		require.Equal(testInstance, int64(0o755), entries["package/lib/cli.js"].mode&0o777)
		require.Equal(testInstance, byte(tar.TypeSymlink), entries["package/cli.js"].typeFlag)
		require.Equal(testInstance, "lib/cli.js", entries["package/cli.js"].linkTarget)
	}
	for entryName := range entries {
		require.Regexp(testInstance, `^package/`, entryName)
	}
}

func TestPackagerFailures(testInstance *testing.T) {
	testCases := []struct {
		name       string
		fileSystem archive.FileSystem
		prepare    func(testInstance *testing.T, sourceDirectory string)
	}{
		{
			name:       "missing_source",
			fileSystem: filesystem.OSFileSystem{},
			prepare:    func(*testing.T, string) {},
		},
		{
			name:       "source_is_file",
			fileSystem: filesystem.OSFileSystem{},
			prepare: func(testInstance *testing.T, sourceDirectory string) {
				require.NoError(testInstance, os.WriteFile(sourceDirectory, []byte("x"), 0o644))
			},
		},
		{
			name:       "unreadable_entry_removes_partial_archive",
			fileSystem: failingOpenFileSystem{},
			prepare: func(testInstance *testing.T, sourceDirectory string) {
				require.NoError(testInstance, os.MkdirAll(sourceDirectory, 0o755))
				require.NoError(testInstance, os.WriteFile(filepath.Join(sourceDirectory, "index.js"), []byte("x"), 0o644))
			},
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			cacheDirectory := testInstance.TempDir()
			sourceDirectory := filepath.Join(cacheDirectory, "a")
			testCase.prepare(testInstance, sourceDirectory)

			packager, creationError := archive.NewPackager(testCase.fileSystem)
			require.NoError(testInstance, creationError)

			archivePath := filepath.Join(cacheDirectory, "a.tgz")
			packageError := packager.Package(sourceDirectory, archivePath)
			require.ErrorIs(testInstance, packageError, archive.ErrPackagingFailed)

			_, statError := os.Stat(archivePath)
			require.ErrorIs(testInstance, statError, fs.ErrNotExist)
		})
	}
}

func TestNewPackagerRequiresFileSystem(testInstance *testing.T) {
	_, creationError := archive.NewPackager(nil)
	require.ErrorIs(testInstance, creationError, archive.ErrFileSystemNotConfigured)
}
