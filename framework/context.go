package framework

import (
	"errors"
	"fmt"
	"runtime/debug"
	"strings"
)

type environment struct {
	results    Results
	testLogger TestLogger
	filter     Filter
}

// Context tracks the state of a single test or subtest while it is running.
// Test failures and skips are implemented as panics so that a failed
// assertion immediately unwinds out of the test function; the panic is
// recovered here and turned into a result.
type Context struct {
	env         *environment
	id          TestID
	debugLogger CapturingLogger
	failed      bool
	skipped     bool
	skipReason  string
	errors      []error
}

// Run executes a top-level test scope. The action normally just registers
// subtests with Context.Run; the return value accumulates the results of
// every subtest that ran.
func Run(
	filter Filter,
	testLogger TestLogger,
	action func(*Context),
) Results {
	if testLogger == nil {
		testLogger = nullTestLogger{}
	}
	env := &environment{
		filter:     filter,
		testLogger: testLogger,
	}
	c := &Context{env: env}
	c.run(action)
	return env.results
}

func (c *Context) run(action func(*Context)) {
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(*Context); ok {
				// Deliberate exit via FailNow or Skip.
				if !c.skipped && len(c.errors) == 0 {
					c.addError(errors.New("test failed with no failure message"))
				}
			} else {
				c.failed = true
				c.addError(fmt.Errorf("unexpected panic in test: %+v\n%s", r, string(debug.Stack())))
			}
		}
		result := TestResult{TestID: c.id, Errors: c.errors, Skipped: c.skipped}
		// The root scope only registers subtests; don't count it as a test
		// unless something actually went wrong in it.
		if len(c.id.Path) > 0 || c.failed {
			c.env.results.Tests = append(c.env.results.Tests, result)
		}
		if c.failed {
			c.env.results.Failures = append(c.env.results.Failures, result)
		}
	}()

	action(c)
}

func (c *Context) ID() TestID {
	return c.id
}

// Run executes a subtest within this context, honoring the run filter. It is
// the equivalent of testing.T's Run method.
func (c *Context) Run(name string, action func(*Context)) {
	id := c.id.Plus(name)

	if c.env.filter != nil && !c.env.filter(id) {
		return
	}
	c.env.testLogger.TestStarted(id)
	c1 := &Context{
		id:  id,
		env: c.env,
	}
	c1.run(action)
	if c1.skipped {
		c.env.testLogger.TestSkipped(id, c1.skipReason)
	} else {
		c.env.testLogger.TestFinished(id, c1.failed, c1.debugLogger.Output())
	}
}

// Errorf records a test failure without stopping the test. Assertions from
// the testify assert package end up here.
func (c *Context) Errorf(format string, args ...interface{}) {
	c.failed = true
	c.addError(fmt.Errorf(format, args...))
}

// FailNow stops the test immediately. Assertions from the testify require
// package call this after Errorf.
func (c *Context) FailNow() {
	c.failed = true
	panic(c)
}

// Skip stops the test immediately without marking it failed.
func (c *Context) Skip() {
	c.skipped = true
	panic(c)
}

func (c *Context) SkipWithReason(reason string) {
	c.skipReason = reason
	c.Skip()
}

// Debug writes to the test's captured debug output.
func (c *Context) Debug(message string, args ...interface{}) {
	c.debugLogger.Printf(message, args...)
}

// DebugLogger returns a Logger that writes to the test's captured debug output.
func (c *Context) DebugLogger() Logger {
	return &c.debugLogger
}

func (c *Context) addError(err error) {
	c.errors = append(c.errors, err)
	c.env.testLogger.TestError(c.id, reformatError(err))
}

// reformatError trims the noisier parts of testify failure output (the
// error trace and surrounding blank lines) so the console report stays
// readable.
func reformatError(err error) error {
	lines := strings.Split(err.Error(), "\n")
	var out []string
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "Error Trace:") {
			continue
		}
		out = append(out, trimmed)
	}
	if len(out) == 0 {
		return err
	}
	return errors.New(strings.Join(out, "\n"))
}
