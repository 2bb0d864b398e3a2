package cvode

import (
	"fmt"
	"runtime"

	"github.com/odelab/cvode-go/internal/bindings"
)

// SensSolver integrates a system of ordinary differential equations together
// with its forward sensitivity (variational) systems. Sensitivity integration
// is activated once at construction; the native integrator then advances the
// variational systems in lock step with the primary system on every Step.
type SensSolver struct {
	h     *bindings.Handle
	ny    int
	ns    int
	t     float64
	state solverState
}

// NewSens constructs a sensitivity-enabled solver. ys0 holds the initial
// sensitivity of the state with respect to each parameter, parameter-major:
// ys0[i] has the same length as y0. Its row count fixes the parameter count
// for the lifetime of the solver. All inputs are copied.
func NewSens(method Method, f Rhs, fs SensRhs, t0 float64, y0 []float64, ys0 [][]float64,
	rtol float64, atol AbsTolerance, sensAtol SensAbsTolerance, opts ...Option) (*SensSolver, error) {
	cfg, err := baseConfig(method, f, t0, y0, rtol, atol, opts)
	if err != nil {
		return nil, err
	}
	if fs == nil {
		return nil, fmt.Errorf("%w: nil sensitivity right-hand side", ErrInit)
	}
	if len(ys0) == 0 {
		return nil, fmt.Errorf("%w: need at least one sensitivity parameter", ErrDimensionMismatch)
	}
	cfg.YS0 = make([][]float64, len(ys0))
	for i, row := range ys0 {
		if len(row) != len(y0) {
			return nil, fmt.Errorf("%w: sensitivity row %d has length %d, want %d", ErrDimensionMismatch, i, len(row), len(y0))
		}
		cfg.YS0[i] = append([]float64(nil), row...)
	}
	if err := sensAtol.validate(len(y0), len(ys0)); err != nil {
		return nil, err
	}
	cfg.SensAbsTol = sensAtol.scalars
	cfg.SensAbsTolVec = sensAtol.vecs

	h, err := bindings.CreateSens(cfg, wrapRhs(f), wrapSensRhs(fs))
	if err != nil {
		return nil, remapInit(err)
	}
	s := &SensSolver{h: h, ny: len(y0), ns: len(ys0), t: t0}
	runtime.SetFinalizer(s, func(s *SensSolver) { _ = s.Close() })
	return s, nil
}

func wrapSensRhs(fs SensRhs) bindings.SensRhsFunc {
	return func(t float64, y, ydot []float64, ys, ysDot [][]float64) int {
		return int(fs(t, y, ydot, ys, ysDot))
	}
}

// Step advances the primary and variational systems toward tout and returns
// the time reached, the state view, and the parameter-major sensitivity
// views. All returned slices are borrowed from solver-owned buffers and are
// valid only until the next mutating call.
func (s *SensSolver) Step(tout float64, kind StepKind) (float64, []float64, [][]float64, error) {
	if err := s.stepReady(); err != nil {
		return 0, nil, nil, err
	}
	tret, flag := s.h.Step(tout, int(kind))
	if flag < 0 {
		s.state = stateFailed
		return 0, nil, nil, stepError("CVode", flag)
	}
	if flag := s.h.GetSens(); flag < 0 {
		s.state = stateFailed
		return 0, nil, nil, stepError("CVodeGetSens", flag)
	}
	s.t = tret
	return tret, s.h.Y(), s.h.Sens(), nil
}

func (s *SensSolver) stepReady() error {
	switch {
	case s == nil || s.state == stateClosed:
		return ErrSolverClosed
	case s.state == stateFailed:
		return fmt.Errorf("%w: reinitialize before stepping again", ErrSolverFailed)
	}
	return nil
}

// Reinitialize resets the primary state and every sensitivity vector without
// reallocating native resources. It clears the failed state.
func (s *SensSolver) Reinitialize(t0 float64, y0 []float64, ys0 [][]float64) error {
	if s == nil || s.state == stateClosed {
		return ErrSolverClosed
	}
	if len(y0) != s.ny {
		return fmt.Errorf("%w: got %d state components, want %d", ErrDimensionMismatch, len(y0), s.ny)
	}
	if len(ys0) != s.ns {
		return fmt.Errorf("%w: got %d sensitivity rows, want %d", ErrDimensionMismatch, len(ys0), s.ns)
	}
	for i, row := range ys0 {
		if len(row) != s.ny {
			return fmt.Errorf("%w: sensitivity row %d has length %d, want %d", ErrDimensionMismatch, i, len(row), s.ny)
		}
	}
	if flag := s.h.ReInit(t0, y0); flag < 0 {
		return fmt.Errorf("%w: CVodeReInit returned %d", ErrInit, flag)
	}
	if flag := s.h.SensReInit(ys0); flag < 0 {
		return fmt.Errorf("%w: CVodeSensReInit returned %d", ErrInit, flag)
	}
	s.t = t0
	s.state = stateReady
	return nil
}

// Time returns the internal integration time reached by the last successful
// Step (or the initial time before any step).
func (s *SensSolver) Time() float64 { return s.t }

// LastPanic returns the payload of the most recent callback panic recovered
// at the native boundary, or nil.
func (s *SensSolver) LastPanic() any {
	if s == nil || s.h == nil {
		return nil
	}
	return s.h.LastPanic()
}

// Close releases the native context and owned vectors. Idempotent.
func (s *SensSolver) Close() error {
	if s == nil || s.state == stateClosed {
		return nil
	}
	runtime.SetFinalizer(s, nil)
	s.h.Destroy()
	s.state = stateClosed
	return nil
}
