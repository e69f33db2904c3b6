package framework

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

// TestID identifies a test as the path of nested scope names leading to it,
// for example "todos/POST creates with minimal payload".
type TestID struct {
	Path []string
}

func (t TestID) String() string {
	return strings.Join(t.Path, "/")
}

// Plus returns the TestID of a child scope. The path slice is copied so
// sibling subtests cannot clobber each other's IDs.
func (t TestID) Plus(name string) TestID {
	path := make([]string, 0, len(t.Path)+1)
	path = append(path, t.Path...)
	return TestID{Path: append(path, name)}
}

// Results accumulates the outcome of every test that ran.
type Results struct {
	Tests    []TestResult
	Failures []TestResult
}

type TestResult struct {
	TestID  TestID
	Errors  []error
	Skipped bool
}

func (r Results) OK() bool {
	return len(r.Failures) == 0
}

func (r Results) SkipCount() int {
	n := 0
	for _, t := range r.Tests {
		if t.Skipped {
			n++
		}
	}
	return n
}

var (
	passedColor  = color.New(color.FgGreen)
	failedColor  = color.New(color.FgRed, color.Bold)
	skippedColor = color.New(color.FgYellow)
)

// PrintResults writes the end-of-run summary: counts, and the ID and errors
// of each failed test.
func PrintResults(w io.Writer, results Results) {
	skipped := results.SkipCount()
	if results.OK() {
		passedColor.Fprintf(w, "All tests passed") //nolint:errcheck
		fmt.Fprintf(w, " (%d tests", len(results.Tests)-skipped)
		if skipped > 0 {
			fmt.Fprint(w, ", ")
			skippedColor.Fprintf(w, "%d skipped", skipped) //nolint:errcheck
		}
		fmt.Fprintln(w, ")")
		return
	}

	failedColor.Fprintf(w, "FAILED") //nolint:errcheck
	fmt.Fprintf(w, ": %d of %d tests", len(results.Failures), len(results.Tests)-skipped)
	if skipped > 0 {
		fmt.Fprint(w, " (")
		skippedColor.Fprintf(w, "%d skipped", skipped) //nolint:errcheck
		fmt.Fprint(w, ")")
	}
	fmt.Fprintln(w)
	for _, f := range results.Failures {
		fmt.Fprintf(w, "  %s\n", f.TestID)
		for _, err := range f.Errors {
			for _, line := range strings.Split(err.Error(), "\n") {
				fmt.Fprintf(w, "    %s\n", line)
			}
		}
	}
}
