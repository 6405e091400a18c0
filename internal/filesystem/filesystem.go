// Package filesystem abstracts the filesystem primitives used by manifest discovery, the local cache and archive packaging.
package filesystem

import (
	"io"
	"io/fs"
)

// FileSystem exposes the filesystem operations required by svn-modules services.
type FileSystem interface {
	Stat(path string) (fs.FileInfo, error)
	Abs(path string) (string, error)
	Getwd() (string, error)
	MkdirAll(path string, permissions fs.FileMode) error
	ReadFile(path string) ([]byte, error)
	RemoveAll(path string) error
	Remove(path string) error
	Create(path string) (io.WriteCloser, error)
	Open(path string) (io.ReadCloser, error)
	Readlink(path string) (string, error)
	WalkDir(root string, walkFunction fs.WalkDirFunc) error
}
