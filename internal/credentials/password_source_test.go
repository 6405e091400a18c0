package credentials_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/svnmodules/internal/credentials"
)

func TestParsePasswordSource(testInstance *testing.T) {
	testCases := []struct {
		name           string
		value          string
		expectedSource credentials.PasswordSource
		expectError    bool
	}{
		{name: "empty", value: "  ", expectedSource: credentials.PasswordSource{}},
		{name: "bare_environment_name", value: "SVN_PASSWORD", expectedSource: credentials.PasswordSource{Type: credentials.PasswordSourceTypeEnvironment, Reference: "SVN_PASSWORD"}},
		{name: "explicit_environment", value: "ENV: SVN_PASSWORD", expectedSource: credentials.PasswordSource{Type: credentials.PasswordSourceTypeEnvironment, Reference: "SVN_PASSWORD"}},
		{name: "file", value: "file:~/.svn-password", expectedSource: credentials.PasswordSource{Type: credentials.PasswordSourceTypeFile, Reference: "~/.svn-password"}},
		{name: "missing_environment_name", value: "env:", expectError: true},
		{name: "missing_file_path", value: "file: ", expectError: true},
		{name: "unsupported_type", value: "vault:secret/svn", expectError: true},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			source, parseError := credentials.ParsePasswordSource(testCase.value)
			if testCase.expectError {
				require.Error(testInstance, parseError)
				return
			}
			require.NoError(testInstance, parseError)
			require.Equal(testInstance, testCase.expectedSource, source)
		})
	}
}
