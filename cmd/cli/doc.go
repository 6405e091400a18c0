// Package cli constructs the svn-modules command-line interface, wiring the
// Cobra command hierarchy, the layered configuration loader and structured
// logging around the install and uninstall commands.
package cli
