// Package bindings provides the CGO bindings to the SUNDIALS CVODES library.
// This package should ONLY be imported by the pkg/cvode package.
// All CGO complexity is isolated here.
//
// The package compiles in two modes. With cgo enabled (and libsundials_cvodes
// installed) the real bindings in bindings.go are built. Without cgo, or on
// Windows, the stubs in bindings_stub.go are built instead and every
// constructor reports ErrNotBuilt.
package bindings
