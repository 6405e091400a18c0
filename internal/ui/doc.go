// Package ui renders the console lines users see while dependencies are processed.
//
// Every line carries the "[svn-modules][X]" prefix, where X marks the severity.
// Diagnostic telemetry continues to flow through zap on stderr.
package ui
