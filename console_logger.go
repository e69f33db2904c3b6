package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"

	"github.com/todoapi/contract-tests/framework"
)

var (
	failMarker = color.New(color.FgRed, color.Bold).Sprint("FAILED")
	skipMarker = color.New(color.FgYellow).Sprint("SKIPPED")
)

// ConsoleTestLogger prints each test's progress to standard output as the
// suite runs.
type ConsoleTestLogger struct {
	DebugOutputOnFailure bool
	DebugOutputOnSuccess bool
}

func (c *ConsoleTestLogger) TestStarted(id framework.TestID) {
	fmt.Printf("[%s]\n", id)
}

func (c *ConsoleTestLogger) TestError(id framework.TestID, err error) {
	for _, line := range strings.Split(err.Error(), "\n") {
		fmt.Printf("  %s\n", line)
	}
}

func (c *ConsoleTestLogger) TestFinished(id framework.TestID, failed bool, debugOutput framework.CapturedOutput) {
	if failed {
		fmt.Printf("  %s: %s\n", failMarker, id)
	}
	if len(debugOutput) > 0 &&
		((failed && c.DebugOutputOnFailure) || (!failed && c.DebugOutputOnSuccess)) {
		debugOutput.Dump(os.Stdout, "    DEBUG ")
	}
}

func (c *ConsoleTestLogger) TestSkipped(id framework.TestID, reason string) {
	if reason == "" {
		fmt.Printf("  %s: %s\n", skipMarker, id)
	} else {
		fmt.Printf("  %s: %s (%s)\n", skipMarker, id, reason)
	}
}
