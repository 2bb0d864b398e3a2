package cvode

import (
	"fmt"
	"runtime"

	"github.com/odelab/cvode-go/internal/bindings"
)

type solverState int

const (
	stateReady solverState = iota
	stateFailed
	stateClosed
)

// Solver integrates a system of ordinary differential equations. It owns the
// native integrator context and the native state vector; both are torn down
// together by Close (or, as a backstop, by a finalizer).
type Solver struct {
	h     *bindings.Handle
	ny    int
	t     float64
	state solverState
}

// New constructs a solver for dy/dt = f(t, y) with initial condition y0 at
// time t0. y0 fixes the state dimension for the lifetime of the solver; it is
// copied, not retained. rtol and atol must be strictly positive.
func New(method Method, f Rhs, t0 float64, y0 []float64, rtol float64, atol AbsTolerance, opts ...Option) (*Solver, error) {
	cfg, err := baseConfig(method, f, t0, y0, rtol, atol, opts)
	if err != nil {
		return nil, err
	}
	h, err := bindings.Create(cfg, wrapRhs(f))
	if err != nil {
		return nil, remapInit(err)
	}
	s := &Solver{h: h, ny: len(y0), t: t0}
	runtime.SetFinalizer(s, func(s *Solver) { _ = s.Close() })
	return s, nil
}

func baseConfig(method Method, f Rhs, t0 float64, y0 []float64, rtol float64, atol AbsTolerance, opts []Option) (bindings.Config, error) {
	if f == nil {
		return bindings.Config{}, fmt.Errorf("%w: nil right-hand side", ErrInit)
	}
	if method != Adams && method != BDF {
		return bindings.Config{}, fmt.Errorf("%w: unknown method %d", ErrInit, method)
	}
	if len(y0) == 0 {
		return bindings.Config{}, fmt.Errorf("%w: state dimension must be positive", ErrDimensionMismatch)
	}
	if rtol <= 0 {
		return bindings.Config{}, fmt.Errorf("%w: relative tolerance %v must be positive", ErrInvalidTolerance, rtol)
	}
	if err := atol.validate(len(y0)); err != nil {
		return bindings.Config{}, err
	}
	set := applyOptions(opts)
	return bindings.Config{
		Method:    int(method),
		T0:        t0,
		Y0:        append([]float64(nil), y0...),
		RelTol:    rtol,
		AbsTol:    atol.scalar,
		AbsTolVec: atol.vec,
		InitStep:  set.initStep,
		MaxSteps:  set.maxSteps,
	}, nil
}

func wrapRhs(f Rhs) bindings.RhsFunc {
	return func(t float64, y, ydot []float64) int {
		return int(f(t, y, ydot))
	}
}

// Step advances the integration toward tout. With Normal it returns exactly
// tout; with OneStep it returns the time the single internal step reached.
// The returned slice is a borrowed view of the solver-owned state vector,
// valid only until the next mutating call.
//
// On an unrecoverable failure the solver enters the failed state and every
// further Step fails fast with ErrSolverFailed, without touching the native
// context, until Reinitialize succeeds.
func (s *Solver) Step(tout float64, kind StepKind) (float64, []float64, error) {
	if err := s.stepReady(); err != nil {
		return 0, nil, err
	}
	tret, flag := s.h.Step(tout, int(kind))
	if flag < 0 {
		s.state = stateFailed
		return 0, nil, stepError("CVode", flag)
	}
	s.t = tret
	return tret, s.h.Y(), nil
}

func (s *Solver) stepReady() error {
	switch {
	case s == nil || s.state == stateClosed:
		return ErrSolverClosed
	case s.state == stateFailed:
		return fmt.Errorf("%w: reinitialize before stepping again", ErrSolverFailed)
	}
	return nil
}

// Reinitialize resets the solver to a new initial condition without
// reallocating native resources or re-registering callbacks. It clears the
// failed state.
func (s *Solver) Reinitialize(t0 float64, y0 []float64) error {
	if s == nil || s.state == stateClosed {
		return ErrSolverClosed
	}
	if len(y0) != s.ny {
		return fmt.Errorf("%w: got %d state components, want %d", ErrDimensionMismatch, len(y0), s.ny)
	}
	if flag := s.h.ReInit(t0, y0); flag < 0 {
		return fmt.Errorf("%w: CVodeReInit returned %d", ErrInit, flag)
	}
	s.t = t0
	s.state = stateReady
	return nil
}

// Time returns the internal integration time reached by the last successful
// Step (or the initial time before any step).
func (s *Solver) Time() float64 { return s.t }

// LastPanic returns the payload of the most recent right-hand-side panic
// recovered at the native boundary, or nil. It complements the generic
// ErrUnrecoverableRhs a panicking callback produces.
func (s *Solver) LastPanic() any {
	if s == nil || s.h == nil {
		return nil
	}
	return s.h.LastPanic()
}

// Close releases the native context and owned vectors. Idempotent; the
// solver is unusable afterwards.
func (s *Solver) Close() error {
	if s == nil || s.state == stateClosed {
		return nil
	}
	runtime.SetFinalizer(s, nil)
	s.h.Destroy()
	s.state = stateClosed
	return nil
}
