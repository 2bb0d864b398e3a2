package cvode

import "fmt"

// AbsTolerance is the absolute tolerance for the primary system: either a
// single scalar applied to every state component, or one value per component.
type AbsTolerance struct {
	scalar float64
	vec    []float64
}

// ScalarAbsTolerance applies atol to every state component.
func ScalarAbsTolerance(atol float64) AbsTolerance {
	return AbsTolerance{scalar: atol}
}

// VectorAbsTolerance applies atol[i] to state component i. The slice is
// copied; its length must equal the state dimension passed to New.
func VectorAbsTolerance(atol []float64) AbsTolerance {
	return AbsTolerance{vec: append([]float64(nil), atol...)}
}

func (a AbsTolerance) validate(ny int) error {
	if a.vec == nil {
		if a.scalar <= 0 {
			return fmt.Errorf("%w: absolute tolerance %v must be positive", ErrInvalidTolerance, a.scalar)
		}
		return nil
	}
	if len(a.vec) != ny {
		return fmt.Errorf("%w: absolute tolerance vector has length %d, want %d", ErrInvalidTolerance, len(a.vec), ny)
	}
	for i, v := range a.vec {
		if v <= 0 {
			return fmt.Errorf("%w: absolute tolerance component %d is %v, must be positive", ErrInvalidTolerance, i, v)
		}
	}
	return nil
}

// SensAbsTolerance is the absolute tolerance for the sensitivity systems:
// one scalar per parameter, or one vector per parameter.
type SensAbsTolerance struct {
	scalars []float64
	vecs    [][]float64
}

// ScalarSensAbsTolerance applies atol[i] to every component of sensitivity
// vector i. The slice is copied; its length must equal the parameter count.
func ScalarSensAbsTolerance(atol []float64) SensAbsTolerance {
	return SensAbsTolerance{scalars: append([]float64(nil), atol...)}
}

// VectorSensAbsTolerance applies atol[i][j] to component j of sensitivity
// vector i. Rows are copied; the shape must be parameter count by state
// dimension.
func VectorSensAbsTolerance(atol [][]float64) SensAbsTolerance {
	vecs := make([][]float64, len(atol))
	for i, row := range atol {
		vecs[i] = append([]float64(nil), row...)
	}
	return SensAbsTolerance{vecs: vecs}
}

func (a SensAbsTolerance) validate(ny, ns int) error {
	if a.vecs == nil {
		if len(a.scalars) != ns {
			return fmt.Errorf("%w: sensitivity tolerance has %d entries, want %d", ErrInvalidTolerance, len(a.scalars), ns)
		}
		for i, v := range a.scalars {
			if v <= 0 {
				return fmt.Errorf("%w: sensitivity tolerance for parameter %d is %v, must be positive", ErrInvalidTolerance, i, v)
			}
		}
		return nil
	}
	if len(a.vecs) != ns {
		return fmt.Errorf("%w: sensitivity tolerance has %d rows, want %d", ErrInvalidTolerance, len(a.vecs), ns)
	}
	for i, row := range a.vecs {
		if len(row) != ny {
			return fmt.Errorf("%w: sensitivity tolerance row %d has length %d, want %d", ErrInvalidTolerance, i, len(row), ny)
		}
		for j, v := range row {
			if v <= 0 {
				return fmt.Errorf("%w: sensitivity tolerance [%d][%d] is %v, must be positive", ErrInvalidTolerance, i, j, v)
			}
		}
	}
	return nil
}
