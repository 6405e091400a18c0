// Package credentials resolves the Subversion username and password for an install run.
//
// Values come from flags and configuration first, then from a password source
// (env:NAME, file:/path or a bare environment variable name), and finally from
// an interactive terminal prompt when one is available and allowed.
package credentials
