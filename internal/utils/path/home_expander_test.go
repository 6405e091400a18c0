package pathutils_test

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	pathutils "github.com/temirov/svnmodules/internal/utils/path"
)

func TestHomeExpanderExpand(testInstance *testing.T) {
	homeDirectory := filepath.Join(string(filepath.Separator), "home", "builder")
	expander := pathutils.NewHomeExpanderWithProvider(func() (string, error) {
		return homeDirectory, nil
	})

	testCases := []struct {
		name         string
		candidate    string
		expectedPath string
	}{
		{name: "tilde_only", candidate: "~", expectedPath: homeDirectory},
		{name: "tilde_slash", candidate: "~/.svn-password", expectedPath: filepath.Join(homeDirectory, ".svn-password")},
		{name: "absolute_unchanged", candidate: "/etc/svn/password", expectedPath: "/etc/svn/password"},
		{name: "other_user_unchanged", candidate: "~other/password", expectedPath: "~other/password"},
		{name: "empty_unchanged", candidate: "", expectedPath: ""},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			require.Equal(testInstance, testCase.expectedPath, expander.Expand(testCase.candidate))
		})
	}
}

func TestHomeExpanderLeavesPathWhenHomeUnavailable(testInstance *testing.T) {
	expander := pathutils.NewHomeExpanderWithProvider(func() (string, error) {
		return "", errors.New("no home")
	})
	require.Equal(testInstance, "~/.svn-password", expander.Expand("~/.svn-password"))
}
