// Package flags provides yes/no toggle flags and choice usage formatting for Cobra commands.
package flags
