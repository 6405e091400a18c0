// Package svn exports Subversion repositories into the local module cache.
//
// Client.Export drives "svn export" through the shared shell executor in
// non-interactive mode. Passwords travel over the child's standard input and
// are never cached by the svn client. Failures are returned as *ExportError,
// classified so callers can tell rejected credentials apart from missing
// repositories and unreachable servers.
package svn
