package credentials

import (
	"context"
	"fmt"
	"strings"
)

const (
	passwordSourceErrorTemplateConstant = "unable to resolve SVN password: %w"
	usernamePromptErrorTemplateConstant = "unable to prompt for SVN username: %w"
	passwordPromptErrorTemplateConstant = "unable to prompt for SVN password: %w"
)

// Options carries the configured credential inputs.
type Options struct {
	Username       string
	PasswordSource PasswordSource
	// Prompt allows asking on the terminal for values that were not configured.
	Prompt bool
}

// ResolverDependencies overrides the process environment, file access and terminal used by Resolver.
type ResolverDependencies struct {
	EnvironmentLookup EnvironmentLookup
	FileReader        FileReader
	Prompter          Prompter
}

// Resolver produces credentials from configuration, password sources and an optional prompt.
type Resolver struct {
	options  Options
	reader   passwordReader
	prompter Prompter
}

// NewResolver constructs a Resolver. A nil Prompter disables prompting.
func NewResolver(options Options, dependencies ResolverDependencies) *Resolver {
	return &Resolver{
		options:  options,
		reader:   newPasswordReader(dependencies.EnvironmentLookup, dependencies.FileReader),
		prompter: dependencies.Prompter,
	}
}

// Resolve returns the credentials for this run. Without a username and without an interactive prompt the result is anonymous.
func (resolver *Resolver) Resolve(resolutionContext context.Context) (Credentials, error) {
	if contextError := resolutionContext.Err(); contextError != nil {
		return Credentials{}, contextError
	}

	resolved := Credentials{Username: strings.TrimSpace(resolver.options.Username)}

	if !resolver.options.PasswordSource.IsZero() {
		password, passwordError := resolver.reader.read(resolver.options.PasswordSource)
		if passwordError != nil {
			return Credentials{}, fmt.Errorf(passwordSourceErrorTemplateConstant, passwordError)
		}
		resolved.Password = password
	}

	if !resolver.canPrompt() {
		return resolved, nil
	}

	if resolved.Anonymous() {
		username, usernameError := resolver.prompter.PromptUsername()
		if usernameError != nil {
			return Credentials{}, fmt.Errorf(usernamePromptErrorTemplateConstant, usernameError)
		}
		resolved.Username = username
	}

	if !resolved.Anonymous() && len(resolved.Password) == 0 {
		password, passwordError := resolver.prompter.PromptPassword(resolved.Username)
		if passwordError != nil {
			return Credentials{}, fmt.Errorf(passwordPromptErrorTemplateConstant, passwordError)
		}
		resolved.Password = password
	}

	return resolved, nil
}

func (resolver *Resolver) canPrompt() bool {
	return resolver.options.Prompt && resolver.prompter != nil && resolver.prompter.Interactive()
}
