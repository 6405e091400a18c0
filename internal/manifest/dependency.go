package manifest

import (
	"fmt"
	"path"
	"sort"
	"strings"
)

const (
	revisionSeparatorConstant         = "#"
	scopePrefixConstant               = "@"
	namePathSeparatorConstant         = "/"
	backslashConstant                 = `\`
	currentDirectoryNameConstant      = "."
	parentDirectoryNameConstant       = ".."
	missingRepositoryTemplateConstant = "%w: %q has specifier %q"
	invalidNameTemplateConstant       = "%w: %q"
)

// Dependency is a parsed SVN dependency declaration.
type Dependency struct {
	Name          string
	RepositoryURL string
	// Revision is empty for HEAD.
	Revision string
}

// ParseDependency splits specifier into repository URL and revision at the last "#" and validates name.
func ParseDependency(name string, specifier string) (Dependency, error) {
	if validationError := ValidateDependencyName(name); validationError != nil {
		return Dependency{}, validationError
	}

	repositoryURL := strings.TrimSpace(specifier)
	revision := ""
	if separatorIndex := strings.LastIndex(repositoryURL, revisionSeparatorConstant); separatorIndex >= 0 {
		revision = strings.TrimSpace(repositoryURL[separatorIndex+1:])
		repositoryURL = strings.TrimSpace(repositoryURL[:separatorIndex])
	}

	if len(repositoryURL) == 0 {
		return Dependency{}, fmt.Errorf(missingRepositoryTemplateConstant, ErrMissingRepositoryURL, name, specifier)
	}

	return Dependency{Name: name, RepositoryURL: repositoryURL, Revision: revision}, nil
}

// ValidateDependencyName rejects names that cannot be used as a directory inside the cache.
// Scoped names of the form @scope/name are accepted.
func ValidateDependencyName(name string) error {
	invalid := fmt.Errorf(invalidNameTemplateConstant, ErrInvalidDependencyName, name)

	if len(strings.TrimSpace(name)) == 0 || name != strings.TrimSpace(name) {
		return invalid
	}
	if strings.Contains(name, backslashConstant) || strings.HasPrefix(name, namePathSeparatorConstant) {
		return invalid
	}

	segments := strings.Split(name, namePathSeparatorConstant)
	switch len(segments) {
	case 1:
	case 2:
		if !strings.HasPrefix(segments[0], scopePrefixConstant) || len(segments[0]) == len(scopePrefixConstant) {
			return invalid
		}
	default:
		return invalid
	}

	for _, segment := range segments {
		if len(segment) == 0 || segment == currentDirectoryNameConstant || segment == parentDirectoryNameConstant {
			return invalid
		}
	}
	if path.Clean(name) != name {
		return invalid
	}
	return nil
}

// SortedNames returns the keys of dependencies in ascending order.
func SortedNames(dependencies map[string]string) []string {
	names := make([]string, 0, len(dependencies))
	for name := range dependencies {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
