package cvode

// RhsResult is the outcome a right-hand-side callback reports to the
// integrator. The zero value is success; use Recoverable or Unrecoverable to
// signal failures.
type RhsResult int

// RhsOK reports a successful derivative evaluation.
const RhsOK RhsResult = 0

// Recoverable asks the integrator to retry the current step with a smaller
// step size. code identifies the condition and must be non-zero.
func Recoverable(code uint8) RhsResult { return RhsResult(int(code)) }

// Unrecoverable aborts the integration immediately. code identifies the
// condition and must be non-zero.
func Unrecoverable(code uint8) RhsResult { return RhsResult(-int(code)) }

// Rhs computes the derivative of the state: ydot = f(t, y). The integrator
// may call it many times per requested step, at times of its choosing. The
// function must not retain y or ydot past the call and must not depend on
// mutable global state. Model parameters are captured by the closure.
//
// A panic inside an Rhs is recovered at the native boundary and converted to
// ErrUnrecoverableRhs; it never unwinds into the native stepping loop.
type Rhs func(t float64, y, ydot []float64) RhsResult

// SensRhs computes the derivatives of the sensitivity vectors. ys and ysDot
// are parameter-major: ys[i] is the sensitivity of the state with respect to
// parameter i and has the state's length. The same retention, determinism,
// and panic rules as Rhs apply.
type SensRhs func(t float64, y, ydot []float64, ys, ysDot [][]float64) RhsResult
