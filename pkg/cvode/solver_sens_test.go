//go:build cgo && !windows

package cvode_test

import (
	"math"
	"testing"

	"github.com/odelab/cvode-go/pkg/cvode"
)

// oscillatorSens returns the sensitivity right-hand side of x'' = -k x for
// the three parameters (x0, v0, k), parameter-major. The Jacobian part
// J·ys_i is the same for every parameter; only k contributes an explicit
// df/dp term.
func oscillatorSens(k float64) cvode.SensRhs {
	return func(t float64, y, ydot []float64, ys, ysDot [][]float64) cvode.RhsResult {
		for i := range ys {
			ysDot[i][0] = ys[i][1]
			ysDot[i][1] = -k * ys[i][0]
		}
		ysDot[2][1] -= y[0]
		return cvode.RhsOK
	}
}

func newSensOscillator(t *testing.T, k float64) *cvode.SensSolver {
	t.Helper()
	ys0 := [][]float64{{1, 0}, {0, 1}, {0, 0}}
	s, err := cvode.NewSens(cvode.Adams, oscillator(k), oscillatorSens(k), 0,
		[]float64{1, 0}, ys0, 1e-8, cvode.ScalarAbsTolerance(1e-8),
		cvode.ScalarSensAbsTolerance([]float64{1e-8, 1e-8, 1e-8}))
	if err != nil {
		t.Fatalf("NewSens: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSensitivityMatchesAnalytic(t *testing.T) {
	const k = 2.25
	w := math.Sqrt(k)
	s := newSensOscillator(t, k)

	// With x0=1, v0=0: x(t) = cos(wt), and differentiating with respect to
	// each parameter gives the rows checked below.
	for tout := 0.5; tout <= 4; tout += 0.5 {
		tret, _, ys, err := s.Step(tout, cvode.Normal)
		if err != nil {
			t.Fatalf("Step(%v): %v", tout, err)
		}
		wt := w * tret
		checks := []struct {
			name string
			got  float64
			want float64
		}{
			{"dx/dx0", ys[0][0], math.Cos(wt)},
			{"dv/dx0", ys[0][1], -w * math.Sin(wt)},
			{"dx/dv0", ys[1][0], math.Sin(wt) / w},
			{"dv/dv0", ys[1][1], math.Cos(wt)},
			{"dx/dk", ys[2][0], -tret * math.Sin(wt) / (2 * w)},
		}
		for _, c := range checks {
			if math.Abs(c.got-c.want) > 1e-5 {
				t.Fatalf("t=%v %s: got %v, want %v", tret, c.name, c.got, c.want)
			}
		}
	}
}

func TestSensitivityShapeIsParameterMajor(t *testing.T) {
	s := newSensOscillator(t, 1)
	_, y, ys, err := s.Step(0.5, cvode.Normal)
	if err != nil {
		t.Fatalf("Step: %v", err)
	}
	if len(ys) != 3 {
		t.Fatalf("got %d sensitivity vectors, want one per parameter (3)", len(ys))
	}
	for i, row := range ys {
		if len(row) != len(y) {
			t.Fatalf("sensitivity vector %d has length %d, want state dimension %d", i, len(row), len(y))
		}
	}
}

func TestSensitivityViewsOverwrittenByNextStep(t *testing.T) {
	s := newSensOscillator(t, 1)

	_, _, ys, err := s.Step(0.5, cvode.Normal)
	if err != nil {
		t.Fatalf("Step: %v", err)
	}
	snapshot := append([]float64(nil), ys[0]...)

	_, _, ys, err = s.Step(1.5, cvode.Normal)
	if err != nil {
		t.Fatalf("Step: %v", err)
	}
	if ys[0][0] == snapshot[0] && ys[0][1] == snapshot[1] {
		t.Fatalf("sensitivity view unchanged across steps: %v", snapshot)
	}
}

func TestSensReinitializeRestoresReady(t *testing.T) {
	s := newSensOscillator(t, 1)

	_, _, ys, err := s.Step(1, cvode.Normal)
	if err != nil {
		t.Fatalf("Step: %v", err)
	}
	first := ys[0][0]

	ys0 := [][]float64{{1, 0}, {0, 1}, {0, 0}}
	if err := s.Reinitialize(0, []float64{1, 0}, ys0); err != nil {
		t.Fatalf("Reinitialize: %v", err)
	}
	_, _, ys, err = s.Step(1, cvode.Normal)
	if err != nil {
		t.Fatalf("Step after Reinitialize: %v", err)
	}
	if math.Abs(ys[0][0]-first) > 1e-8 {
		t.Fatalf("restarted sensitivity diverged: %v vs %v", ys[0][0], first)
	}
}
