// Package apitests contains the Todo API contract tests themselves and their
// supporting API. Harness infrastructure that is not specific to the Todo
// domain, such as test scoping and result collection, is in the lower-level
// framework package; the HTTP client lives in the rest package.
package apitests

import (
	"github.com/todoapi/contract-tests/framework"
	"github.com/todoapi/contract-tests/rest"
)

// RunTestSuite runs the full contract-test suite against the service the
// client points at and returns the accumulated results.
func RunTestSuite(
	client *rest.Client,
	filter framework.Filter,
	testLogger framework.TestLogger,
) framework.Results {
	return framework.Run(filter, testLogger, func(c *framework.Context) {
		t := &T{context: c, client: client}

		t.Run("todos", DoTodoTests)
		t.Run("categories", DoCategoryTests)
		t.Run("projects", DoProjectTests)
		t.Run("interoperability", DoInteropTests)
	})
}
