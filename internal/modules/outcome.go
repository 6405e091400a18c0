package modules

import (
	"errors"
	"fmt"
)

const (
	dependenciesFailedMessageConstant  = "one or more SVN dependencies failed"
	dependenciesFailedTemplateConstant = "%w: %d of %d"
)

// ErrDependenciesFailed indicates at least one dependency could not be processed.
var ErrDependenciesFailed = errors.New(dependenciesFailedMessageConstant)

// DependencyFailure pairs a dependency name with the error that stopped it.
type DependencyFailure struct {
	Name  string
	Cause error
}

// Outcome accumulates the per-dependency results of one run in processing order.
type Outcome struct {
	Succeeded []string
	Failed    []DependencyFailure
}

func (outcome *Outcome) recordSuccess(dependencyName string) {
	outcome.Succeeded = append(outcome.Succeeded, dependencyName)
}

func (outcome *Outcome) recordFailure(dependencyName string, cause error) {
	outcome.Failed = append(outcome.Failed, DependencyFailure{Name: dependencyName, Cause: cause})
}

// Processed reports how many dependencies were attempted.
func (outcome Outcome) Processed() int {
	return len(outcome.Succeeded) + len(outcome.Failed)
}

// FailedNames lists the names of the failed dependencies.
func (outcome Outcome) FailedNames() []string {
	failedNames := make([]string, 0, len(outcome.Failed))
	for _, failure := range outcome.Failed {
		failedNames = append(failedNames, failure.Name)
	}
	return failedNames
}

// Err returns ErrDependenciesFailed, joined with every failure cause, when any dependency failed.
func (outcome Outcome) Err() error {
	if len(outcome.Failed) == 0 {
		return nil
	}
	causes := []error{fmt.Errorf(dependenciesFailedTemplateConstant, ErrDependenciesFailed, len(outcome.Failed), outcome.Processed())}
	for _, failure := range outcome.Failed {
		causes = append(causes, failure.Cause)
	}
	return errors.Join(causes...)
}
