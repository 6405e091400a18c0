package svn

import (
	"errors"
	"fmt"
	"strings"
)

const (
	fetchFailedMessageConstant          = "svn export failed"
	authenticationFailedMessageConstant = "svn server rejected the supplied credentials"
	exportErrorTemplateConstant         = "svn export of %s failed (%s): %s"
	exportErrorFallbackDetailConstant   = "no diagnostic output"
	failureKindUnknownLabelConstant     = "unknown error"
	failureKindAuthLabelConstant        = "authentication failed"
	failureKindNotFoundLabelConstant    = "repository not found"
	failureKindNetworkLabelConstant     = "network error"
	failureKindToolLabelConstant        = "svn client unavailable"
	svnWarningLinePrefixConstant        = "svn: warning:"
)

var (
	// ErrFetchFailed matches every export failure.
	ErrFetchFailed = errors.New(fetchFailedMessageConstant)
	// ErrAuthenticationFailed matches export failures caused by rejected or missing credentials.
	ErrAuthenticationFailed = errors.New(authenticationFailedMessageConstant)
)

// FailureKind classifies why an export failed.
type FailureKind int

// Failure kinds.
const (
	FailureKindUnknown FailureKind = iota
	FailureKindAuthentication
	FailureKindRepositoryNotFound
	FailureKindNetwork
	// FailureKindToolUnavailable means the svn executable could not be started.
	FailureKindToolUnavailable
)

func (kind FailureKind) String() string {
	switch kind {
	case FailureKindAuthentication:
		return failureKindAuthLabelConstant
	case FailureKindRepositoryNotFound:
		return failureKindNotFoundLabelConstant
	case FailureKindNetwork:
		return failureKindNetworkLabelConstant
	case FailureKindToolUnavailable:
		return failureKindToolLabelConstant
	default:
		return failureKindUnknownLabelConstant
	}
}

// ExportError describes a failed export with the svn diagnostic output and suggestions for the user.
type ExportError struct {
	Kind          FailureKind
	RepositoryURL string
	Revision      string
	RawOutput     string
	Hints         []string
	Cause         error
}

func (exportError *ExportError) Error() string {
	return fmt.Sprintf(exportErrorTemplateConstant, exportError.RepositoryURL, exportError.Kind, exportError.Detail())
}

// Detail returns the most specific svn error line, skipping warnings.
func (exportError *ExportError) Detail() string {
	lines := strings.Split(exportError.RawOutput, "\n")
	for lineIndex := len(lines) - 1; lineIndex >= 0; lineIndex-- {
		trimmedLine := strings.TrimSpace(lines[lineIndex])
		if len(trimmedLine) == 0 || strings.HasPrefix(trimmedLine, svnWarningLinePrefixConstant) {
			continue
		}
		return trimmedLine
	}
	if exportError.Cause != nil {
		return exportError.Cause.Error()
	}
	return exportErrorFallbackDetailConstant
}

// Is reports ErrFetchFailed for all export errors and ErrAuthenticationFailed for credential rejections.
func (exportError *ExportError) Is(target error) bool {
	switch target {
	case ErrFetchFailed:
		return true
	case ErrAuthenticationFailed:
		return exportError.Kind == FailureKindAuthentication
	default:
		return false
	}
}

// Unwrap exposes the underlying command failure.
func (exportError *ExportError) Unwrap() error {
	return exportError.Cause
}

var (
	authenticationMarkers = []string{
		"e170001",
		"e215004",
		"authentication failed",
		"authorization failed",
		"no more credentials",
		"could not authenticate",
		"username/password",
	}
	repositoryNotFoundMarkers = []string{
		"e160013",
		"e170000",
		"e180001",
		"e195012",
		"path not found",
		"doesn't exist",
		"does not exist",
		"unable to find repository",
	}
	networkMarkers = []string{
		"e670002",
		"e670008",
		"e731001",
		"e000110",
		"e000111",
		"e000113",
		"e120108",
		"e120171",
		"connection refused",
		"timed out",
		"no route to host",
		"name or service not known",
		"could not resolve",
		"network is unreachable",
	}
)

// ClassifyOutput maps svn diagnostic output to a FailureKind.
// Specific causes are checked before the generic "unable to connect" wrapper svn prints for most remote failures.
func ClassifyOutput(rawOutput string) FailureKind {
	lowered := strings.ToLower(rawOutput)
	switch {
	case containsAny(lowered, authenticationMarkers):
		return FailureKindAuthentication
	case containsAny(lowered, repositoryNotFoundMarkers):
		return FailureKindRepositoryNotFound
	case containsAny(lowered, networkMarkers):
		return FailureKindNetwork
	default:
		return FailureKindUnknown
	}
}

func containsAny(haystack string, needles []string) bool {
	for _, needle := range needles {
		if strings.Contains(haystack, needle) {
			return true
		}
	}
	return false
}

func hintsForFailure(kind FailureKind, repositoryURL string, credentialsSupplied bool) []string {
	switch kind {
	case FailureKindAuthentication:
		if !credentialsSupplied {
			return []string{
				"Supply a username with --username or SVNMODULES_MODULES_SVN_USERNAME",
				"Supply a password with --password-source env:NAME or file:/path",
			}
		}
		return []string{
			"Verify the username and password for " + repositoryURL,
			"Check that the account has read access to the repository path",
		}
	case FailureKindRepositoryNotFound:
		return []string{
			"Verify the repository URL and revision in package.json",
			"Run `svn info " + repositoryURL + "` to confirm the path exists",
		}
	case FailureKindNetwork:
		return []string{
			"Check that the SVN server host is reachable from this machine",
		}
	case FailureKindToolUnavailable:
		return []string{
			"Install the Subversion command-line client or set modules.svn.executable",
		}
	default:
		return nil
	}
}
