package cvode

import "github.com/odelab/cvode-go/internal/bindings"

// Method selects the linear multistep scheme used by the native integrator.
// The choice is the caller's responsibility: Adams for smooth, non-stiff
// systems, BDF for stiff systems.
type Method int

const (
	Adams Method = bindings.MethodAdams
	BDF   Method = bindings.MethodBDF
)

func (m Method) String() string {
	switch m {
	case Adams:
		return "adams"
	case BDF:
		return "bdf"
	default:
		return "unknown"
	}
}

// StepKind selects how a Step request is interpreted. Normal integrates up to
// the requested time and interpolates exactly to it; OneStep advances by one
// internal adaptive step, possibly past the requested time.
type StepKind int

const (
	Normal  StepKind = bindings.StepNormal
	OneStep StepKind = bindings.StepOneStep
)
