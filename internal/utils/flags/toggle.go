package flags

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const (
	toggleTrueCanonicalValue               = "true"
	toggleFalseCanonicalValue              = "false"
	toggleValueTypeConstant                = "bool"
	toggleParseErrorTemplate               = "invalid toggle value %q (expected yes or no)"
	toggleArgumentTruePlaceholderConstant  = "<YES|no>"
	toggleArgumentFalsePlaceholderConstant = "<yes|NO>"
	toggleUsageEmptyTemplateConstant       = "`%s`"
	toggleUsageFullTemplateConstant        = "`%s` %s"
	longFlagPrefixConstant                 = "--"
	shortFlagPrefixConstant                = "-"
	flagValueAssignmentConstant            = "="
	argumentTerminatorConstant             = "--"
)

var toggleLiterals = map[string]bool{
	"true":  true,
	"yes":   true,
	"on":    true,
	"1":     true,
	"t":     true,
	"y":     true,
	"false": false,
	"no":    false,
	"off":   false,
	"0":     false,
	"f":     false,
	"n":     false,
}

// AddToggleFlag registers a boolean flag that accepts yes/no style values and may be given bare.
func AddToggleFlag(flagSet *pflag.FlagSet, target *bool, name string, shorthand string, defaultValue bool, usage string) {
	if flagSet == nil || len(name) == 0 {
		return
	}

	flag := flagSet.VarPF(newToggleFlagValue(defaultValue, target), name, shorthand, formatToggleUsage(usage, defaultValue))
	flag.NoOptDefVal = toggleTrueCanonicalValue
}

// NormalizeToggleArguments rewrites "--flag value" into "--flag=value" for every toggle registered anywhere in the command tree rooted at rootCommand.
// Bare toggles keep meaning true; the rewrite only applies when the next argument is a recognized toggle literal.
func NormalizeToggleArguments(rootCommand *cobra.Command, arguments []string) []string {
	if len(arguments) == 0 {
		return nil
	}

	toggleNames, toggleShorthands := collectToggleFlags(rootCommand)

	normalized := make([]string, 0, len(arguments))
	for argumentIndex := 0; argumentIndex < len(arguments); argumentIndex++ {
		currentArgument := arguments[argumentIndex]
		if currentArgument == argumentTerminatorConstant {
			normalized = append(normalized, arguments[argumentIndex:]...)
			break
		}

		if isBareToggle(currentArgument, toggleNames, toggleShorthands) && argumentIndex+1 < len(arguments) && isToggleLiteral(arguments[argumentIndex+1]) {
			normalized = append(normalized, currentArgument+flagValueAssignmentConstant+arguments[argumentIndex+1])
			argumentIndex++
			continue
		}

		normalized = append(normalized, currentArgument)
	}

	return normalized
}

type toggleFlagValue struct {
	target *bool
}

func newToggleFlagValue(defaultValue bool, target *bool) *toggleFlagValue {
	if target == nil {
		target = new(bool)
	}
	*target = defaultValue
	return &toggleFlagValue{target: target}
}

func (value *toggleFlagValue) Set(rawValue string) error {
	parsedValue, parseError := parseToggleValue(rawValue)
	if parseError != nil {
		return parseError
	}
	*value.target = parsedValue
	return nil
}

func (value *toggleFlagValue) String() string {
	if value == nil || value.target == nil || !*value.target {
		return toggleFalseCanonicalValue
	}
	return toggleTrueCanonicalValue
}

func (value *toggleFlagValue) Type() string {
	return toggleValueTypeConstant
}

func parseToggleValue(rawValue string) (bool, error) {
	normalizedValue := strings.ToLower(strings.TrimSpace(rawValue))
	if len(normalizedValue) == 0 {
		return true, nil
	}
	parsedValue, recognized := toggleLiterals[normalizedValue]
	if !recognized {
		return false, fmt.Errorf(toggleParseErrorTemplate, rawValue)
	}
	return parsedValue, nil
}

func isToggleLiteral(candidate string) bool {
	_, recognized := toggleLiterals[strings.ToLower(strings.TrimSpace(candidate))]
	return recognized
}

func formatToggleUsage(description string, defaultValue bool) string {
	placeholder := toggleArgumentFalsePlaceholderConstant
	if defaultValue {
		placeholder = toggleArgumentTruePlaceholderConstant
	}
	trimmedDescription := strings.TrimSpace(description)
	if len(trimmedDescription) == 0 {
		return fmt.Sprintf(toggleUsageEmptyTemplateConstant, placeholder)
	}
	return fmt.Sprintf(toggleUsageFullTemplateConstant, placeholder, trimmedDescription)
}

func collectToggleFlags(rootCommand *cobra.Command) (map[string]struct{}, map[string]struct{}) {
	toggleNames := map[string]struct{}{}
	toggleShorthands := map[string]struct{}{}
	if rootCommand == nil {
		return toggleNames, toggleShorthands
	}

	register := func(flag *pflag.Flag) {
		if _, isToggle := flag.Value.(*toggleFlagValue); !isToggle {
			return
		}
		toggleNames[flag.Name] = struct{}{}
		if len(flag.Shorthand) > 0 {
			toggleShorthands[flag.Shorthand] = struct{}{}
		}
	}

	pendingCommands := []*cobra.Command{rootCommand}
	for len(pendingCommands) > 0 {
		currentCommand := pendingCommands[0]
		pendingCommands = pendingCommands[1:]
		currentCommand.Flags().VisitAll(register)
		currentCommand.PersistentFlags().VisitAll(register)
		pendingCommands = append(pendingCommands, currentCommand.Commands()...)
	}

	return toggleNames, toggleShorthands
}

func isBareToggle(argument string, toggleNames map[string]struct{}, toggleShorthands map[string]struct{}) bool {
	if strings.Contains(argument, flagValueAssignmentConstant) {
		return false
	}
	if strings.HasPrefix(argument, longFlagPrefixConstant) {
		_, isToggle := toggleNames[strings.TrimPrefix(argument, longFlagPrefixConstant)]
		return isToggle
	}
	if strings.HasPrefix(argument, shortFlagPrefixConstant) {
		_, isToggle := toggleShorthands[strings.TrimPrefix(argument, shortFlagPrefixConstant)]
		return isToggle
	}
	return false
}
