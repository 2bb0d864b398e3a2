package cvode

import (
	"errors"
	"fmt"

	"github.com/odelab/cvode-go/internal/bindings"
)

var (
	// ErrNotBuilt indicates the binary was built without the native SUNDIALS
	// bindings (no cgo, or an unsupported platform).
	ErrNotBuilt = bindings.ErrNotBuilt

	// ErrInit covers every construction or reinitialization failure: native
	// allocation, callback registration, or configuration rejected by the
	// integrator. No partially constructed solver ever escapes.
	ErrInit = errors.New("cvode: solver initialization failed")

	// ErrInvalidTolerance reports a non-positive or wrongly shaped tolerance.
	ErrInvalidTolerance = errors.New("cvode: invalid tolerance")

	// ErrDimensionMismatch reports state or sensitivity inputs whose lengths
	// disagree with the dimensions fixed at construction.
	ErrDimensionMismatch = errors.New("cvode: dimension mismatch")

	// ErrSolverClosed reports use of a solver after Close.
	ErrSolverClosed = errors.New("cvode: solver is closed")

	// ErrSolverFailed reports a Step on a solver left in the failed state by
	// an earlier unrecoverable error. Reinitialize restores it.
	ErrSolverFailed = errors.New("cvode: solver is in failed state")
)

// Step failures, each mapped from the corresponding native status code.
var (
	// ErrUnrecoverableRhs: a right-hand-side callback reported an
	// unrecoverable failure or panicked.
	ErrUnrecoverableRhs = errors.New("cvode: right-hand side reported unrecoverable failure")

	// ErrRepeatedRhsFailures: recoverable right-hand-side failures persisted
	// beyond the integrator's retry budget.
	ErrRepeatedRhsFailures = errors.New("cvode: repeated recoverable right-hand side failures")

	// ErrTooMuchWork: the internal step limit was reached before tout.
	ErrTooMuchWork = errors.New("cvode: too many internal steps before reaching requested time")

	// ErrTooMuchAccuracy: the requested tolerances are too tight for machine
	// precision.
	ErrTooMuchAccuracy = errors.New("cvode: requested accuracy not achievable")

	// ErrStepFailure: repeated error-test failures or a step size underflow.
	ErrStepFailure = errors.New("cvode: repeated error test failures or step size underflow")

	// ErrConvergenceFailure: the nonlinear solver failed to converge
	// repeatedly or with the minimum step size.
	ErrConvergenceFailure = errors.New("cvode: nonlinear solver convergence failure")

	// ErrTooClose: the requested output time is too close to the initial
	// time to take a meaningful step.
	ErrTooClose = errors.New("cvode: requested time too close to initial time")

	// ErrNative is the fallback for native failure codes with no dedicated
	// variant; the wrapping message carries the flag.
	ErrNative = errors.New("cvode: native solver failure")
)

// remapInit converts bindings-layer errors from construction paths into the
// public taxonomy.
func remapInit(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, bindings.ErrNotBuilt) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrInit, err)
}

// stepError maps a negative native step flag to a named error. Callers never
// see the raw integer alone.
func stepError(op string, flag int) error {
	var base error
	switch flag {
	case bindings.FlagRhsFuncFail, bindings.FlagFirstRhsErr, bindings.FlagUnrecRhsErr,
		bindings.FlagSensRhsFail, bindings.FlagFirstSensErr, bindings.FlagUnrecSensErr:
		base = ErrUnrecoverableRhs
	case bindings.FlagReptdRhsErr, bindings.FlagReptdSensErr:
		base = ErrRepeatedRhsFailures
	case bindings.FlagTooMuchWork:
		base = ErrTooMuchWork
	case bindings.FlagTooMuchAcc:
		base = ErrTooMuchAccuracy
	case bindings.FlagErrFailure:
		base = ErrStepFailure
	case bindings.FlagConvFailure:
		base = ErrConvergenceFailure
	case bindings.FlagTooClose:
		base = ErrTooClose
	default:
		base = ErrNative
	}
	return fmt.Errorf("%w: %s returned %d", base, op, flag)
}
