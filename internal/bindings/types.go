package bindings

import (
	"errors"
	"fmt"
)

// ErrNotBuilt is returned by every constructor when the native bindings are
// unavailable, either because the binary was built without cgo or because the
// target platform is unsupported.
var ErrNotBuilt = errors.New("native sundials bindings not built (requires cgo and libsundials_cvodes)")

// CallError reports a native CVODES call that returned a failure status.
// The pkg/cvode layer remaps it to a named public error.
type CallError struct {
	Func string
	Flag int
}

func (e *CallError) Error() string {
	if e.Flag == 0 {
		return fmt.Sprintf("%s returned NULL", e.Func)
	}
	return fmt.Sprintf("%s failed with flag %d", e.Func, e.Flag)
}

// Linear multistep method selectors, matching CV_ADAMS and CV_BDF.
const (
	MethodAdams = 1
	MethodBDF   = 2
)

// Step request modes, matching CV_NORMAL and CV_ONE_STEP.
const (
	StepNormal  = 1
	StepOneStep = 2
)

// CVODES return flags surfaced to pkg/cvode. Values are fixed by the
// cvodes.h header and must not be reordered.
const (
	FlagSuccess     = 0
	FlagTStopReturn = 1
	FlagRootReturn  = 2

	FlagTooMuchWork = -1
	FlagTooMuchAcc  = -2
	FlagErrFailure  = -3
	FlagConvFailure = -4
	FlagLInitFail   = -5
	FlagLSetupFail  = -6
	FlagLSolveFail  = -7
	FlagRhsFuncFail = -8
	FlagFirstRhsErr = -9
	FlagReptdRhsErr = -10
	FlagUnrecRhsErr = -11
	FlagMemFail     = -20
	FlagMemNull     = -21
	FlagIllInput    = -22
	FlagTooClose    = -27

	FlagNoSens       = -40
	FlagSensRhsFail  = -41
	FlagFirstSensErr = -42
	FlagReptdSensErr = -43
	FlagUnrecSensErr = -44
)

// Config carries everything needed to create a native solver context. The
// pkg/cvode layer validates all fields before handing the struct down; the
// bindings trust them.
type Config struct {
	Method int
	T0     float64
	Y0     []float64

	RelTol    float64
	AbsTol    float64   // scalar tolerance, used when AbsTolVec is nil
	AbsTolVec []float64 // per-component tolerance, length len(Y0)

	InitStep float64 // initial step size hint, 0 leaves the CVODES default
	MaxSteps int64   // max internal steps per call, 0 leaves the default

	// Sensitivity configuration; empty YS0 means no sensitivity analysis.
	YS0           [][]float64 // parameter-major, each row length len(Y0)
	SensAbsTol    []float64   // per-parameter scalar tolerances
	SensAbsTolVec [][]float64 // per-parameter vector tolerances
}
