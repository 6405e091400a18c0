package credentials

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

const (
	usernamePromptConstant          = "SVN username: "
	passwordPromptTemplateConstant  = "SVN password for %s: "
	promptReadErrorTemplateConstant = "unable to read %s: %w"
	promptUsernameSubjectConstant   = "username"
	promptPasswordSubjectConstant   = "password"
	passwordEchoTerminatorConstant  = "\n"
)

// Prompter asks the user for credentials.
type Prompter interface {
	Interactive() bool
	PromptUsername() (string, error)
	PromptPassword(username string) (string, error)
}

// TerminalPrompter prompts on a terminal and reads the password without echo.
type TerminalPrompter struct {
	input        *os.File
	output       io.Writer
	lineReader   *bufio.Reader
	isTerminal   func(fileDescriptor int) bool
	readPassword func(fileDescriptor int) ([]byte, error)
}

// NewTerminalPrompter constructs a prompter reading from input and writing prompts to output.
func NewTerminalPrompter(input *os.File, output io.Writer) *TerminalPrompter {
	if input == nil {
		input = os.Stdin
	}
	if output == nil {
		output = os.Stderr
	}
	return &TerminalPrompter{
		input:        input,
		output:       output,
		lineReader:   bufio.NewReader(input),
		isTerminal:   term.IsTerminal,
		readPassword: term.ReadPassword,
	}
}

// Interactive reports whether the input is attached to a terminal.
func (prompter *TerminalPrompter) Interactive() bool {
	return prompter.isTerminal(int(prompter.input.Fd()))
}

// PromptUsername reads one line from the terminal.
func (prompter *TerminalPrompter) PromptUsername() (string, error) {
	if _, writeError := io.WriteString(prompter.output, usernamePromptConstant); writeError != nil {
		return "", writeError
	}
	response, readError := prompter.lineReader.ReadString('\n')
	if readError != nil && !errors.Is(readError, io.EOF) {
		return "", fmt.Errorf(promptReadErrorTemplateConstant, promptUsernameSubjectConstant, readError)
	}
	return strings.TrimSpace(response), nil
}

// PromptPassword reads a password with terminal echo disabled.
func (prompter *TerminalPrompter) PromptPassword(username string) (string, error) {
	if _, writeError := fmt.Fprintf(prompter.output, passwordPromptTemplateConstant, username); writeError != nil {
		return "", writeError
	}
	passwordBytes, readError := prompter.readPassword(int(prompter.input.Fd()))
	_, _ = io.WriteString(prompter.output, passwordEchoTerminatorConstant)
	if readError != nil {
		return "", fmt.Errorf(promptReadErrorTemplateConstant, promptPasswordSubjectConstant, readError)
	}
	return string(passwordBytes), nil
}
