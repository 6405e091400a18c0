package main

import (
	"fmt"
	"os"

	"github.com/temirov/svnmodules/cmd/cli"
	"github.com/temirov/svnmodules/internal/modules"
)

const (
	exitErrorTemplateConstant = "%v\n"
	failureExitCodeConstant   = 1
)

// main executes the svn-modules command-line application.
func main() {
	os.Exit(run())
}

func run() int {
	executionError := cli.Execute()
	if executionError == nil {
		return 0
	}
	if !modules.IsReported(executionError) {
		fmt.Fprintf(os.Stderr, exitErrorTemplateConstant, executionError)
	}
	return failureExitCodeConstant
}
