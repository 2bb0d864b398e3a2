package bindings

import "sync"

// RhsFunc is the typed right-hand-side callback as seen by the trampoline
// layer. The return value follows the CVODES convention: 0 for success, a
// positive value for a recoverable failure (retry with a smaller step), a
// negative value for an unrecoverable failure.
type RhsFunc func(t float64, y, ydot []float64) int

// SensRhsFunc is the sensitivity right-hand-side callback. ys and ysDot are
// parameter-major: ys[i] is the sensitivity of the state with respect to
// parameter i and has length len(y).
type SensRhsFunc func(t float64, y, ydot []float64, ys, ysDot [][]float64) int

// rhsPanicCode is returned to the native stepping loop when a user callback
// panics. Any negative value aborts the integration.
const rhsPanicCode = -1

// session holds the Go-side state for one native solver context. Native code
// never sees a Go pointer; it carries an opaque registry handle as user_data
// and the trampolines look the session up here.
type session struct {
	ny      int
	ns      int
	rhs     RhsFunc
	sensRhs SensRhsFunc

	// Preallocated view slices reused by the sensitivity trampoline so the
	// step path does not allocate.
	ysViews    [][]float64
	ysDotViews [][]float64

	panicValue any
}

type handle uintptr

var (
	mu   sync.Mutex
	next handle = 1
	reg         = map[handle]*session{}
)

func put(s *session) handle {
	mu.Lock()
	h := next
	next++
	reg[h] = s
	mu.Unlock()
	return h
}

func get(h handle) (*session, bool) {
	mu.Lock()
	s, ok := reg[h]
	mu.Unlock()
	return s, ok
}

func del(h handle) {
	mu.Lock()
	delete(reg, h)
	mu.Unlock()
}

// callRhs invokes the user right-hand side. A panic must never unwind into
// the native stepping loop; it is converted to an unrecoverable return code
// and the payload is recorded on the session.
func callRhs(s *session, t float64, y, ydot []float64) (rc int) {
	defer func() {
		if r := recover(); r != nil {
			s.panicValue = r
			rc = rhsPanicCode
		}
	}()
	return s.rhs(t, y, ydot)
}

// callSensRhs is the sensitivity analogue of callRhs.
func callSensRhs(s *session, t float64, y, ydot []float64, ys, ysDot [][]float64) (rc int) {
	defer func() {
		if r := recover(); r != nil {
			s.panicValue = r
			rc = rhsPanicCode
		}
	}()
	return s.sensRhs(t, y, ydot, ys, ysDot)
}
