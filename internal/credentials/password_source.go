package credentials

import (
	"errors"
	"fmt"
	"os"
	"strings"

	pathutils "github.com/temirov/svnmodules/internal/utils/path"
)

const (
	passwordSourceSeparatorConstant            = ":"
	environmentPasswordSourceTypeValueConstant = "env"
	filePasswordSourceTypeValueConstant        = "file"
	environmentNameMissingErrorMessageConstant = "environment variable name must be provided"
	filePathMissingErrorMessageConstant        = "password file path must be provided"
	environmentPasswordMissingTemplateConstant = "environment variable %s is not set"
	fileReadErrorTemplateConstant              = "unable to read password file %s: %w"
	filePasswordEmptyErrorTemplateConstant     = "password file %s is empty"
	unsupportedPasswordSourceTemplateConstant  = "unsupported password source type %q"
	lineTerminatorCharactersConstant           = "\r\n"
)

// PasswordSourceType enumerates the supported password retrieval mechanisms.
type PasswordSourceType string

// Password source types.
const (
	PasswordSourceTypeEnvironment PasswordSourceType = PasswordSourceType(environmentPasswordSourceTypeValueConstant)
	PasswordSourceTypeFile        PasswordSourceType = PasswordSourceType(filePasswordSourceTypeValueConstant)
)

// PasswordSource specifies where a password is read from.
type PasswordSource struct {
	Type      PasswordSourceType
	Reference string
}

// EnvironmentLookup obtains an environment variable value.
type EnvironmentLookup func(key string) (string, bool)

// FileReader reads the contents of a file path.
type FileReader func(path string) ([]byte, error)

// ParsePasswordSource interprets "env:NAME", "file:/path" or a bare environment variable name.
// An empty value yields a zero PasswordSource and no error.
func ParsePasswordSource(sourceValue string) (PasswordSource, error) {
	trimmedValue := strings.TrimSpace(sourceValue)
	if len(trimmedValue) == 0 {
		return PasswordSource{}, nil
	}

	components := strings.SplitN(trimmedValue, passwordSourceSeparatorConstant, 2)
	if len(components) == 1 {
		return PasswordSource{Type: PasswordSourceTypeEnvironment, Reference: trimmedValue}, nil
	}

	reference := strings.TrimSpace(components[1])
	switch PasswordSourceType(strings.ToLower(strings.TrimSpace(components[0]))) {
	case PasswordSourceTypeEnvironment:
		if len(reference) == 0 {
			return PasswordSource{}, errors.New(environmentNameMissingErrorMessageConstant)
		}
		return PasswordSource{Type: PasswordSourceTypeEnvironment, Reference: reference}, nil
	case PasswordSourceTypeFile:
		if len(reference) == 0 {
			return PasswordSource{}, errors.New(filePathMissingErrorMessageConstant)
		}
		return PasswordSource{Type: PasswordSourceTypeFile, Reference: reference}, nil
	default:
		return PasswordSource{}, fmt.Errorf(unsupportedPasswordSourceTemplateConstant, components[0])
	}
}

// IsZero reports whether no source is configured.
func (source PasswordSource) IsZero() bool {
	return len(source.Type) == 0
}

type passwordReader struct {
	environmentLookup EnvironmentLookup
	fileReader        FileReader
	homeExpander      *pathutils.HomeExpander
}

func newPasswordReader(environmentLookup EnvironmentLookup, fileReader FileReader) passwordReader {
	if environmentLookup == nil {
		environmentLookup = os.LookupEnv
	}
	if fileReader == nil {
		fileReader = os.ReadFile
	}
	return passwordReader{
		environmentLookup: environmentLookup,
		fileReader:        fileReader,
		homeExpander:      pathutils.NewHomeExpander(),
	}
}

// read returns the password verbatim apart from trailing line terminators.
func (reader passwordReader) read(source PasswordSource) (string, error) {
	switch source.Type {
	case PasswordSourceTypeEnvironment:
		value, found := reader.environmentLookup(source.Reference)
		if !found || len(value) == 0 {
			return "", fmt.Errorf(environmentPasswordMissingTemplateConstant, source.Reference)
		}
		return strings.TrimRight(value, lineTerminatorCharactersConstant), nil
	case PasswordSourceTypeFile:
		passwordFilePath := reader.homeExpander.Expand(source.Reference)
		contents, readError := reader.fileReader(passwordFilePath)
		if readError != nil {
			return "", fmt.Errorf(fileReadErrorTemplateConstant, passwordFilePath, readError)
		}
		password := strings.TrimRight(string(contents), lineTerminatorCharactersConstant)
		if len(password) == 0 {
			return "", fmt.Errorf(filePasswordEmptyErrorTemplateConstant, passwordFilePath)
		}
		return password, nil
	default:
		return "", fmt.Errorf(unsupportedPasswordSourceTemplateConstant, source.Type)
	}
}
