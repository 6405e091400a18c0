package manifest

// FilterResult is the dependency set selected for processing plus the requested names that were not declared.
type FilterResult struct {
	Selected map[string]string
	Unknown  []string
}

// Filter narrows declared to the requested names. An empty request selects every declared dependency.
// Unknown names are reported once each, in request order, and never cause an error.
func Filter(declared map[string]string, requested []string) FilterResult {
	result := FilterResult{Selected: map[string]string{}}
	seenUnknown := map[string]struct{}{}

	for _, requestedName := range requested {
		if _, isDeclared := declared[requestedName]; isDeclared {
			result.Selected[requestedName] = declared[requestedName]
			continue
		}
		if _, alreadyReported := seenUnknown[requestedName]; alreadyReported {
			continue
		}
		seenUnknown[requestedName] = struct{}{}
		result.Unknown = append(result.Unknown, requestedName)
	}

	if len(requested) == 0 {
		for name, specifier := range declared {
			result.Selected[name] = specifier
		}
	}

	return result
}
