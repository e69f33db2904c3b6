// Package framework contains the low-level test harness infrastructure: the
// test context tree, result accumulation, regex-based test filtering, and
// logging. Nothing in this package knows anything about the Todo API; that
// knowledge lives in the apitests package.
package framework
