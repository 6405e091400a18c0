package modules

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOutcomeErr(testInstance *testing.T) {
	outcome := Outcome{}
	require.NoError(testInstance, outcome.Err())

	outcome.recordSuccess("alpha")
	require.NoError(testInstance, outcome.Err())

	fetchFailure := errors.New("svn export failed")
	outcome.recordFailure("beta", fetchFailure)

	outcomeError := outcome.Err()
	require.ErrorIs(testInstance, outcomeError, ErrDependenciesFailed)
	require.ErrorIs(testInstance, outcomeError, fetchFailure)
	require.Contains(testInstance, outcomeError.Error(), "one or more SVN dependencies failed: 1 of 2")
	require.Equal(testInstance, 2, outcome.Processed())
	require.Equal(testInstance, []string{"beta"}, outcome.FailedNames())
}
