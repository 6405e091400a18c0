// Package utils exposes reusable helpers consumed by the svn-modules commands.
//
// It houses the Viper-backed ConfigurationLoader, the zap LoggerFactory, the
// command context accessor shared between the root command and its
// subcommands, and a flushing writer for console output.
package utils
