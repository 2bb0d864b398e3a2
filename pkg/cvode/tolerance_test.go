package cvode_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/odelab/cvode-go/pkg/cvode"
)

func noopRhs(t float64, y, ydot []float64) cvode.RhsResult {
	for i := range ydot {
		ydot[i] = 0
	}
	return cvode.RhsOK
}

func noopSensRhs(t float64, y, ydot []float64, ys, ysDot [][]float64) cvode.RhsResult {
	for i := range ysDot {
		for j := range ysDot[i] {
			ysDot[i][j] = 0
		}
	}
	return cvode.RhsOK
}

// Input validation runs before any native call, so these tests hold with and
// without the native bindings.

func TestNewRejectsBadTolerances(t *testing.T) {
	y0 := []float64{0, 1}

	_, err := cvode.New(cvode.Adams, noopRhs, 0, y0, -1e-4, cvode.ScalarAbsTolerance(1e-4))
	require.ErrorIs(t, err, cvode.ErrInvalidTolerance)

	_, err = cvode.New(cvode.Adams, noopRhs, 0, y0, 0, cvode.ScalarAbsTolerance(1e-4))
	require.ErrorIs(t, err, cvode.ErrInvalidTolerance)

	_, err = cvode.New(cvode.Adams, noopRhs, 0, y0, 1e-4, cvode.ScalarAbsTolerance(0))
	require.ErrorIs(t, err, cvode.ErrInvalidTolerance)

	_, err = cvode.New(cvode.Adams, noopRhs, 0, y0, 1e-4, cvode.ScalarAbsTolerance(-3))
	require.ErrorIs(t, err, cvode.ErrInvalidTolerance)

	_, err = cvode.New(cvode.Adams, noopRhs, 0, y0, 1e-4, cvode.VectorAbsTolerance([]float64{1e-4, 0}))
	require.ErrorIs(t, err, cvode.ErrInvalidTolerance)

	_, err = cvode.New(cvode.Adams, noopRhs, 0, y0, 1e-4, cvode.VectorAbsTolerance([]float64{1e-4}))
	require.ErrorIs(t, err, cvode.ErrInvalidTolerance)
}

func TestNewRejectsBadArguments(t *testing.T) {
	_, err := cvode.New(cvode.Adams, nil, 0, []float64{1}, 1e-4, cvode.ScalarAbsTolerance(1e-4))
	require.ErrorIs(t, err, cvode.ErrInit)

	_, err = cvode.New(cvode.Adams, noopRhs, 0, nil, 1e-4, cvode.ScalarAbsTolerance(1e-4))
	require.ErrorIs(t, err, cvode.ErrDimensionMismatch)

	_, err = cvode.New(cvode.Method(99), noopRhs, 0, []float64{1}, 1e-4, cvode.ScalarAbsTolerance(1e-4))
	require.ErrorIs(t, err, cvode.ErrInit)
}

func TestNewSensRejectsBadShapes(t *testing.T) {
	y0 := []float64{0, 1}
	ys0 := [][]float64{{1, 0}, {0, 1}, {0, 0}}
	atol := cvode.ScalarAbsTolerance(1e-4)

	_, err := cvode.NewSens(cvode.Adams, noopRhs, nil, 0, y0, ys0, 1e-4, atol,
		cvode.ScalarSensAbsTolerance([]float64{1e-4, 1e-4, 1e-4}))
	require.ErrorIs(t, err, cvode.ErrInit)

	_, err = cvode.NewSens(cvode.Adams, noopRhs, noopSensRhs, 0, y0, nil, 1e-4, atol,
		cvode.ScalarSensAbsTolerance([]float64{1e-4}))
	require.ErrorIs(t, err, cvode.ErrDimensionMismatch)

	_, err = cvode.NewSens(cvode.Adams, noopRhs, noopSensRhs, 0, y0, [][]float64{{1, 0, 0}}, 1e-4, atol,
		cvode.ScalarSensAbsTolerance([]float64{1e-4}))
	require.ErrorIs(t, err, cvode.ErrDimensionMismatch)

	// One scalar tolerance per parameter, not per state component.
	_, err = cvode.NewSens(cvode.Adams, noopRhs, noopSensRhs, 0, y0, ys0, 1e-4, atol,
		cvode.ScalarSensAbsTolerance([]float64{1e-4, 1e-4}))
	require.ErrorIs(t, err, cvode.ErrInvalidTolerance)

	_, err = cvode.NewSens(cvode.Adams, noopRhs, noopSensRhs, 0, y0, ys0, 1e-4, atol,
		cvode.ScalarSensAbsTolerance([]float64{1e-4, -1e-4, 1e-4}))
	require.ErrorIs(t, err, cvode.ErrInvalidTolerance)

	_, err = cvode.NewSens(cvode.Adams, noopRhs, noopSensRhs, 0, y0, ys0, 1e-4, atol,
		cvode.VectorSensAbsTolerance([][]float64{{1e-4, 1e-4}, {1e-4, 1e-4}, {1e-4, 0}}))
	require.ErrorIs(t, err, cvode.ErrInvalidTolerance)

	_, err = cvode.NewSens(cvode.Adams, noopRhs, noopSensRhs, 0, y0, ys0, 1e-4, atol,
		cvode.VectorSensAbsTolerance([][]float64{{1e-4}, {1e-4}, {1e-4}}))
	require.ErrorIs(t, err, cvode.ErrInvalidTolerance)
}
