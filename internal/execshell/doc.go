// Package execshell provides structured helpers for invoking external tools.
//
// ShellExecutor wraps a CommandRunner with zap logging and lifecycle
// notifications, OSCommandRunner launches processes through os/exec, and the
// svn and npm clients use both to run their commands in a testable manner.
package execshell
