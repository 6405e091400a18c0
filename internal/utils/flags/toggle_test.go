package flags

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

func TestAddToggleFlagParsesValues(t *testing.T) {
	testCases := []struct {
		name            string
		arguments       []string
		expectedValue   bool
		expectedChanged bool
	}{
		{name: "DefaultTrue", arguments: []string{}, expectedValue: true, expectedChanged: false},
		{name: "ImplicitTrue", arguments: []string{"--archive"}, expectedValue: true, expectedChanged: true},
		{name: "ExplicitNo", arguments: []string{"--archive", "no"}, expectedValue: false, expectedChanged: true},
		{name: "ExplicitOffUppercase", arguments: []string{"--archive", "OFF"}, expectedValue: false, expectedChanged: true},
		{name: "AssignedFalse", arguments: []string{"--archive=false"}, expectedValue: false, expectedChanged: true},
		{name: "PositionalNotConsumed", arguments: []string{"--archive", "left-pad"}, expectedValue: true, expectedChanged: true},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			rootCommand := &cobra.Command{Use: "svn-modules"}
			installCommand := &cobra.Command{Use: "install", RunE: func(*cobra.Command, []string) error { return nil }}
			rootCommand.AddCommand(installCommand)

			var archiveEnabled bool
			AddToggleFlag(installCommand.Flags(), &archiveEnabled, "archive", "", true, "Package exports as tarballs")

			normalizedArguments := NormalizeToggleArguments(rootCommand, testCase.arguments)
			parseError := installCommand.ParseFlags(normalizedArguments)
			require.NoError(t, parseError)

			require.Equal(t, testCase.expectedValue, archiveEnabled)

			flag := installCommand.Flags().Lookup("archive")
			require.NotNil(t, flag)
			require.Equal(t, testCase.expectedChanged, flag.Changed)
		})
	}
}

func TestAddToggleFlagRejectsInvalidValues(t *testing.T) {
	command := &cobra.Command{}

	var toggleValue bool
	AddToggleFlag(command.Flags(), &toggleValue, "prompt", "", false, "Prompt for credentials")

	parseError := command.ParseFlags([]string{"--prompt=maybe"})
	require.Error(t, parseError)
	require.False(t, toggleValue)
}

func TestNormalizeToggleArgumentsHandlesShorthandAndTerminator(t *testing.T) {
	command := &cobra.Command{}

	var toggleValue bool
	AddToggleFlag(command.Flags(), &toggleValue, "retain-cache", "r", false, "Keep svn_modules")

	normalizedArguments := NormalizeToggleArguments(command, []string{"-r", "yes", "--", "--retain-cache", "no"})
	require.Equal(t, []string{"-r=yes", "--", "--retain-cache", "no"}, normalizedArguments)

	parseError := command.ParseFlags(normalizedArguments[:1])
	require.NoError(t, parseError)
	require.True(t, toggleValue)
	require.Equal(t, "`<yes|NO>` Keep svn_modules", command.Flags().Lookup("retain-cache").Usage)
}
