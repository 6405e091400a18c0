// Package archive packages exported dependencies as gzip-compressed tarballs that npm installs from a local path.
package archive

import (
	"archive/tar"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path"
	"path/filepath"

	"github.com/klauspost/compress/gzip"
)

const (
	// PackagePrefixConstant is the top-level directory npm expects inside package tarballs.
	PackagePrefixConstant = "package"

	packagingFailedMessageConstant         = "unable to package dependency"
	packagingFailureTemplateConstant       = "%w: %s: %v"
	sourceNotDirectoryMessageConstant      = "not a directory"
	directoryEntrySuffixConstant           = "/"
	currentDirectoryRelativeConstant       = "."
	fileSystemNotConfiguredMessageConstant = "archive filesystem not configured"
)

var (
	// ErrPackagingFailed indicates the tarball could not be produced.
	ErrPackagingFailed = errors.New(packagingFailedMessageConstant)
	// ErrFileSystemNotConfigured indicates NewPackager received a nil filesystem.
	ErrFileSystemNotConfigured = errors.New(fileSystemNotConfiguredMessageConstant)
)

// FileSystem exposes the filesystem operations used by Packager.
type FileSystem interface {
	Stat(path string) (fs.FileInfo, error)
	Create(path string) (io.WriteCloser, error)
	Open(path string) (io.ReadCloser, error)
	Remove(path string) error
	Readlink(path string) (string, error)
	WalkDir(root string, walkFunction fs.WalkDirFunc) error
}

// Packager writes tarballs of exported directories.
type Packager struct {
	fileSystem FileSystem
}

// NewPackager constructs a Packager.
func NewPackager(fileSystem FileSystem) (*Packager, error) {
	if fileSystem == nil {
		return nil, ErrFileSystemNotConfigured
	}
	return &Packager{fileSystem: fileSystem}, nil
}

// Package writes sourceDirectory to archivePath with every entry under the "package/" prefix.
// Regular files, directories and symbolic links keep their modes. A partially written archive is removed on failure.
func (packager *Packager) Package(sourceDirectory string, archivePath string) (packageError error) {
	sourceInfo, statError := packager.fileSystem.Stat(sourceDirectory)
	if statError != nil {
		return fmt.Errorf(packagingFailureTemplateConstant, ErrPackagingFailed, sourceDirectory, statError)
	}
	if !sourceInfo.IsDir() {
		return fmt.Errorf(packagingFailureTemplateConstant, ErrPackagingFailed, sourceDirectory, sourceNotDirectoryMessageConstant)
	}

	archiveFile, createError := packager.fileSystem.Create(archivePath)
	if createError != nil {
		return fmt.Errorf(packagingFailureTemplateConstant, ErrPackagingFailed, archivePath, createError)
	}
	defer func() {
		if packageError != nil {
			_ = packager.fileSystem.Remove(archivePath)
		}
	}()

	gzipWriter := gzip.NewWriter(archiveFile)
	tarWriter := tar.NewWriter(gzipWriter)

	walkError := packager.fileSystem.WalkDir(sourceDirectory, func(entryPath string, entry fs.DirEntry, walkError error) error {
		if walkError != nil {
			return walkError
		}
		return packager.writeEntry(tarWriter, sourceDirectory, entryPath, entry)
	})

	closeError := errors.Join(tarWriter.Close(), gzipWriter.Close(), archiveFile.Close())
	if failure := errors.Join(walkError, closeError); failure != nil {
		return fmt.Errorf(packagingFailureTemplateConstant, ErrPackagingFailed, sourceDirectory, failure)
	}
	return nil
}

func (packager *Packager) writeEntry(tarWriter *tar.Writer, sourceDirectory string, entryPath string, entry fs.DirEntry) error {
	relativePath, relativeError := filepath.Rel(sourceDirectory, entryPath)
	if relativeError != nil {
		return relativeError
	}
	if relativePath == currentDirectoryRelativeConstant {
		return nil
	}

	entryInfo, infoError := entry.Info()
	if infoError != nil {
		return infoError
	}

	linkTarget := ""
	if entryInfo.Mode()&fs.ModeSymlink != 0 {
		resolvedTarget, readlinkError := packager.fileSystem.Readlink(entryPath)
		if readlinkError != nil {
			return readlinkError
		}
		linkTarget = resolvedTarget
	}

	header, headerError := tar.FileInfoHeader(entryInfo, linkTarget)
	if headerError != nil {
		return headerError
	}
	header.Name = path.Join(PackagePrefixConstant, filepath.ToSlash(relativePath))
	if entryInfo.IsDir() {
		header.Name += directoryEntrySuffixConstant
	}
	header.Uid, header.Gid = 0, 0
	header.Uname, header.Gname = "", ""

	if writeError := tarWriter.WriteHeader(header); writeError != nil {
		return writeError
	}
	if !entryInfo.Mode().IsRegular() {
		return nil
	}

	sourceFile, openError := packager.fileSystem.Open(entryPath)
	if openError != nil {
		return openError
	}
	_, copyError := io.Copy(tarWriter, sourceFile)
	return errors.Join(copyError, sourceFile.Close())
}
