package framework

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingTestLogger struct {
	started  []string
	finished []string
	skipped  map[string]string
	errors   []error
}

func newRecordingTestLogger() *recordingTestLogger {
	return &recordingTestLogger{skipped: make(map[string]string)}
}

func (l *recordingTestLogger) TestStarted(id TestID) { l.started = append(l.started, id.String()) }
func (l *recordingTestLogger) TestError(id TestID, err error) {
	l.errors = append(l.errors, err)
}
func (l *recordingTestLogger) TestFinished(id TestID, failed bool, debugOutput CapturedOutput) {
	l.finished = append(l.finished, id.String())
}
func (l *recordingTestLogger) TestSkipped(id TestID, reason string) {
	l.skipped[id.String()] = reason
}

func TestRunCollectsPassingAndFailingResults(t *testing.T) {
	results := Run(nil, nil, func(c *Context) {
		c.Run("passes", func(c *Context) {})
		c.Run("fails", func(c *Context) {
			c.Errorf("something went wrong: %d", 42)
		})
	})

	require.Len(t, results.Tests, 2)
	require.Len(t, results.Failures, 1)
	assert.False(t, results.OK())

	failure := results.Failures[0]
	assert.Equal(t, "fails", failure.TestID.String())
	require.Len(t, failure.Errors, 1)
	assert.Contains(t, failure.Errors[0].Error(), "something went wrong: 42")
}

func TestFailNowStopsTestImmediately(t *testing.T) {
	reached := false
	results := Run(nil, nil, func(c *Context) {
		c.Run("stops", func(c *Context) {
			c.Errorf("first failure")
			c.FailNow()
			reached = true
		})
	})

	assert.False(t, reached, "code after FailNow should not run")
	require.Len(t, results.Failures, 1)
}

func TestFailNowWithoutErrorReportsPlaceholderMessage(t *testing.T) {
	results := Run(nil, nil, func(c *Context) {
		c.Run("silent failure", func(c *Context) {
			c.FailNow()
		})
	})

	require.Len(t, results.Failures, 1)
	require.Len(t, results.Failures[0].Errors, 1)
	assert.Contains(t, results.Failures[0].Errors[0].Error(), "no failure message")
}

func TestSkippedTestIsRecordedButNotFailed(t *testing.T) {
	logger := newRecordingTestLogger()
	results := Run(nil, logger, func(c *Context) {
		c.Run("skipped", func(c *Context) {
			c.SkipWithReason("service variance")
			c.Errorf("should not be reached")
		})
	})

	assert.True(t, results.OK())
	require.Len(t, results.Tests, 1)
	assert.True(t, results.Tests[0].Skipped)
	assert.Equal(t, 1, results.SkipCount())
	assert.Equal(t, "service variance", logger.skipped["skipped"])
}

func TestUnexpectedPanicBecomesFailure(t *testing.T) {
	results := Run(nil, nil, func(c *Context) {
		c.Run("panics", func(c *Context) {
			panic("boom")
		})
	})

	require.Len(t, results.Failures, 1)
	require.Len(t, results.Failures[0].Errors, 1)
	assert.Contains(t, results.Failures[0].Errors[0].Error(), "unexpected panic")
	assert.Contains(t, results.Failures[0].Errors[0].Error(), "boom")
}

func TestSubtestIDsAreNestedPaths(t *testing.T) {
	logger := newRecordingTestLogger()
	Run(nil, logger, func(c *Context) {
		c.Run("outer", func(c *Context) {
			c.Run("inner", func(c *Context) {})
		})
	})

	assert.Contains(t, logger.started, "outer")
	assert.Contains(t, logger.started, "outer/inner")
}

func TestFilterExcludesTests(t *testing.T) {
	var ran []string
	filter := func(id TestID) bool { return id.String() != "excluded" }
	results := Run(filter, nil, func(c *Context) {
		c.Run("included", func(c *Context) { ran = append(ran, "included") })
		c.Run("excluded", func(c *Context) { ran = append(ran, "excluded") })
	})

	assert.Equal(t, []string{"included"}, ran)
	require.Len(t, results.Tests, 1)
}

func TestFailureInOneSubtestDoesNotStopSiblings(t *testing.T) {
	var ran []string
	results := Run(nil, nil, func(c *Context) {
		c.Run("group", func(c *Context) {
			c.Run("first", func(c *Context) {
				ran = append(ran, "first")
				c.FailNow()
			})
			c.Run("second", func(c *Context) { ran = append(ran, "second") })
		})
	})

	assert.Equal(t, []string{"first", "second"}, ran)
	require.Len(t, results.Failures, 1)
	assert.Equal(t, "group/first", results.Failures[0].TestID.String())
}

func TestDebugOutputIsCapturedPerTest(t *testing.T) {
	logger := newRecordingTestLogger()
	var captured CapturedOutput
	l := &capturingFinishLogger{recordingTestLogger: logger, captured: &captured}
	Run(nil, l, func(c *Context) {
		c.Run("logs", func(c *Context) {
			c.Debug("request sent to %s", "/todos")
		})
	})

	require.Len(t, captured, 1)
	assert.Equal(t, "request sent to /todos", captured[0].Message)
}

type capturingFinishLogger struct {
	*recordingTestLogger
	captured *CapturedOutput
}

func (l *capturingFinishLogger) TestFinished(id TestID, failed bool, debugOutput CapturedOutput) {
	*l.captured = debugOutput
	l.recordingTestLogger.TestFinished(id, failed, debugOutput)
}

func TestReformatErrorStripsErrorTraceLines(t *testing.T) {
	err := errors.New("\n\tError Trace:\tcontext.go:55\n\tError:      \tNot equal\n\n\tTest:       \ttodos")
	reformatted := reformatError(err)
	assert.NotContains(t, reformatted.Error(), "Error Trace:")
	assert.Contains(t, reformatted.Error(), "Not equal")
}
