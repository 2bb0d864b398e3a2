package cvode

import "github.com/odelab/cvode-go/internal/bindings"

// Version is populated at build time via ldflags. In development it defaults
// to v0.0.0-dev.
var Version = "v0.0.0-dev"

// Built reports whether the native SUNDIALS bindings are compiled into this
// binary. When false, every constructor returns ErrNotBuilt.
func Built() bool { return bindings.Built() }
