//go:build !cgo || windows

package bindings

// Stub implementations for non-CGO builds or Windows. These allow the
// package to compile but every constructor reports ErrNotBuilt.

// Built reports whether the native bindings are compiled in.
func Built() bool { return false }

// Handle is a placeholder in stub builds; no value is ever constructed.
type Handle struct{}

func Create(Config, RhsFunc) (*Handle, error) {
	return nil, ErrNotBuilt
}

func CreateSens(Config, RhsFunc, SensRhsFunc) (*Handle, error) {
	return nil, ErrNotBuilt
}

func (h *Handle) Step(float64, int) (float64, int) { return 0, FlagMemNull }

func (h *Handle) GetSens() int { return FlagMemNull }

func (h *Handle) Y() []float64 { return nil }

func (h *Handle) Sens() [][]float64 { return nil }

func (h *Handle) ReInit(float64, []float64) int { return FlagMemNull }

func (h *Handle) SensReInit([][]float64) int { return FlagMemNull }

func (h *Handle) LastPanic() any { return nil }

func (h *Handle) Destroy() {}
