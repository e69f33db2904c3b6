package framework

import (
	"bytes"
	"errors"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
)

func init() {
	color.NoColor = true // keep assertions independent of terminal detection
}

func TestPrintResultsAllPassed(t *testing.T) {
	results := Results{
		Tests: []TestResult{
			{TestID: testID("todos", "a")},
			{TestID: testID("todos", "b")},
			{TestID: testID("todos", "c"), Skipped: true},
		},
	}

	var buf bytes.Buffer
	PrintResults(&buf, results)

	out := buf.String()
	assert.Contains(t, out, "All tests passed")
	assert.Contains(t, out, "2 tests")
	assert.Contains(t, out, "1 skipped")
}

func TestPrintResultsWithFailures(t *testing.T) {
	failed := TestResult{
		TestID: testID("todos", "item", "PUT replaces fields"),
		Errors: []error{errors.New("got 500, want one of [200]")},
	}
	results := Results{
		Tests:    []TestResult{{TestID: testID("todos", "a")}, failed},
		Failures: []TestResult{failed},
	}

	var buf bytes.Buffer
	PrintResults(&buf, results)

	out := buf.String()
	assert.Contains(t, out, "FAILED: 1 of 2 tests")
	assert.Contains(t, out, "todos/item/PUT replaces fields")
	assert.Contains(t, out, "got 500, want one of [200]")
	assert.False(t, results.OK())
}

func TestTestIDPlusCopiesPath(t *testing.T) {
	parent := testID("todos")
	a := parent.Plus("a")
	b := parent.Plus("b")

	assert.Equal(t, "todos/a", a.String())
	assert.Equal(t, "todos/b", b.String())
}
