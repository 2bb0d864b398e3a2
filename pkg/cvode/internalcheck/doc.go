// Package internalcheck contains repository policy tests that inspect the
// library source with go/ast and go/types. They are tests, not production
// code, and enforce two rules: the library never prints to stdout, and no
// cgo or unsafe type leaks into the exported pkg/cvode API.
package internalcheck
