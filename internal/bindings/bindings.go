//go:build cgo && !windows

package bindings

/*
#cgo CFLAGS: -I/usr/local/include
#cgo LDFLAGS: -L/usr/local/lib -L/usr/local/lib64 -lsundials_cvodes -lsundials_nvecserial -lm
#cgo darwin CFLAGS: -I/opt/homebrew/include
#cgo darwin LDFLAGS: -L/opt/homebrew/lib

#include <stdlib.h>
#include <cvodes/cvodes.h>
#include <nvector/nvector_serial.h>
#include <sunmatrix/sunmatrix_dense.h>
#include <sunlinsol/sunlinsol_dense.h>

extern int cvodegoRhs(realtype t, N_Vector y, N_Vector ydot, void *user_data);
extern int cvodegoSensRhs(int ns, realtype t, N_Vector y, N_Vector ydot,
                          N_Vector *ys, N_Vector *ysdot, void *user_data,
                          N_Vector tmp1, N_Vector tmp2);

// Go cannot take the address of an exported Go function, so the CVodeInit and
// CVodeSensInit calls that need a C function pointer go through these helpers.
static int cvodego_init(void *mem, realtype t0, N_Vector y0) {
	return CVodeInit(mem, cvodegoRhs, t0, y0);
}

static int cvodego_sens_init(void *mem, int ns, N_Vector *ys0) {
	return CVodeSensInit(mem, ns, CV_STAGGERED, cvodegoSensRhs, ys0);
}
*/
import "C"

import (
	"unsafe"
)

// Built reports whether the native bindings are compiled in.
func Built() bool { return true }

// Handle owns one native CVODES context together with every native vector,
// matrix, and linear solver allocated for it. The whole group is torn down
// together, exactly once, by Destroy.
type Handle struct {
	mem       unsafe.Pointer
	y         C.N_Vector
	atolVec   C.N_Vector
	sunMatrix C.SUNMatrix
	linSolver C.SUNLinearSolver

	// Sensitivity state: initial-value vectors registered with the solver and
	// a separate output array filled by CVodeGetSens after every step.
	ys      *C.N_Vector
	sensOut *C.N_Vector

	ny int
	ns int

	hid  handle
	sess *session

	// Cached []float64 views over the native vector payloads. The underlying
	// pointers are stable for serial N_Vectors, so the views are created once
	// and reused on every step.
	yView       []float64
	ysInitViews [][]float64
	sensViews   [][]float64

	destroyed bool
}

func nvecData(v C.N_Vector, n int) []float64 {
	return unsafe.Slice((*float64)(unsafe.Pointer(C.N_VGetArrayPointer(v))), n)
}

func newNVector(n int, from []float64) (C.N_Vector, error) {
	v := C.N_VNew_Serial(C.sunindextype(n))
	if v == nil {
		return nil, &CallError{Func: "N_VNew_Serial"}
	}
	if from != nil {
		copy(nvecData(v, n), from)
	}
	return v, nil
}

// Create allocates a native solver context for the primary system only.
func Create(cfg Config, rhs RhsFunc) (*Handle, error) {
	return create(cfg, rhs, nil)
}

// CreateSens allocates a native solver context with forward sensitivity
// analysis activated. cfg.YS0 must be non-empty.
func CreateSens(cfg Config, rhs RhsFunc, sensRhs SensRhsFunc) (*Handle, error) {
	return create(cfg, rhs, sensRhs)
}

func create(cfg Config, rhs RhsFunc, sensRhs SensRhsFunc) (*Handle, error) {
	ny := len(cfg.Y0)
	ns := len(cfg.YS0)
	sess := &session{ny: ny, ns: ns, rhs: rhs, sensRhs: sensRhs}
	if ns > 0 {
		sess.ysViews = make([][]float64, ns)
		sess.ysDotViews = make([][]float64, ns)
	}
	h := &Handle{ny: ny, ns: ns, hid: put(sess), sess: sess}
	if err := h.init(cfg); err != nil {
		h.Destroy()
		return nil, err
	}
	return h, nil
}

func (h *Handle) init(cfg Config) error {
	var err error
	if h.y, err = newNVector(h.ny, cfg.Y0); err != nil {
		return err
	}
	h.yView = nvecData(h.y, h.ny)

	h.mem = unsafe.Pointer(C.CVodeCreate(C.int(cfg.Method)))
	if h.mem == nil {
		return &CallError{Func: "CVodeCreate"}
	}
	if flag := C.cvodego_init(h.mem, C.realtype(cfg.T0), h.y); flag != FlagSuccess {
		return &CallError{Func: "CVodeInit", Flag: int(flag)}
	}
	if flag := C.CVodeSetUserData(h.mem, unsafe.Pointer(uintptr(h.hid))); flag != FlagSuccess {
		return &CallError{Func: "CVodeSetUserData", Flag: int(flag)}
	}

	if cfg.AbsTolVec != nil {
		if h.atolVec, err = newNVector(h.ny, cfg.AbsTolVec); err != nil {
			return err
		}
		if flag := C.CVodeSVtolerances(h.mem, C.realtype(cfg.RelTol), h.atolVec); flag != FlagSuccess {
			return &CallError{Func: "CVodeSVtolerances", Flag: int(flag)}
		}
	} else {
		if flag := C.CVodeSStolerances(h.mem, C.realtype(cfg.RelTol), C.realtype(cfg.AbsTol)); flag != FlagSuccess {
			return &CallError{Func: "CVodeSStolerances", Flag: int(flag)}
		}
	}

	h.sunMatrix = C.SUNDenseMatrix(C.sunindextype(h.ny), C.sunindextype(h.ny))
	if h.sunMatrix == nil {
		return &CallError{Func: "SUNDenseMatrix"}
	}
	h.linSolver = C.SUNLinSol_Dense(h.y, h.sunMatrix)
	if h.linSolver == nil {
		return &CallError{Func: "SUNLinSol_Dense"}
	}
	if flag := C.CVodeSetLinearSolver(h.mem, h.linSolver, h.sunMatrix); flag != FlagSuccess {
		return &CallError{Func: "CVodeSetLinearSolver", Flag: int(flag)}
	}

	if cfg.InitStep != 0 {
		if flag := C.CVodeSetInitStep(h.mem, C.realtype(cfg.InitStep)); flag != FlagSuccess {
			return &CallError{Func: "CVodeSetInitStep", Flag: int(flag)}
		}
	}
	if cfg.MaxSteps > 0 {
		if flag := C.CVodeSetMaxNumSteps(h.mem, C.long(cfg.MaxSteps)); flag != FlagSuccess {
			return &CallError{Func: "CVodeSetMaxNumSteps", Flag: int(flag)}
		}
	}

	if h.ns > 0 {
		return h.initSens(cfg)
	}
	return nil
}

func (h *Handle) initSens(cfg Config) error {
	h.ys = C.N_VCloneVectorArray(C.int(h.ns), h.y)
	if h.ys == nil {
		return &CallError{Func: "N_VCloneVectorArray"}
	}
	h.sensOut = C.N_VCloneVectorArray(C.int(h.ns), h.y)
	if h.sensOut == nil {
		return &CallError{Func: "N_VCloneVectorArray"}
	}
	ysArr := unsafe.Slice(h.ys, h.ns)
	outArr := unsafe.Slice(h.sensOut, h.ns)
	h.ysInitViews = make([][]float64, h.ns)
	h.sensViews = make([][]float64, h.ns)
	for i := 0; i < h.ns; i++ {
		h.ysInitViews[i] = nvecData(ysArr[i], h.ny)
		copy(h.ysInitViews[i], cfg.YS0[i])
		h.sensViews[i] = nvecData(outArr[i], h.ny)
	}

	if flag := C.cvodego_sens_init(h.mem, C.int(h.ns), h.ys); flag != FlagSuccess {
		return &CallError{Func: "CVodeSensInit", Flag: int(flag)}
	}
	if cfg.SensAbsTolVec != nil {
		// Per-parameter vector tolerances need their own native array; it is
		// only read during this call, so a temporary is fine.
		tols := C.N_VCloneVectorArray(C.int(h.ns), h.y)
		if tols == nil {
			return &CallError{Func: "N_VCloneVectorArray"}
		}
		defer C.N_VDestroyVectorArray(tols, C.int(h.ns))
		tmp := unsafe.Slice(tols, h.ns)
		for i := 0; i < h.ns; i++ {
			copy(nvecData(tmp[i], h.ny), cfg.SensAbsTolVec[i])
		}
		if flag := C.CVodeSensSVtolerances(h.mem, C.realtype(cfg.RelTol), tols); flag != FlagSuccess {
			return &CallError{Func: "CVodeSensSVtolerances", Flag: int(flag)}
		}
	} else {
		if flag := C.CVodeSensSStolerances(h.mem, C.realtype(cfg.RelTol), (*C.realtype)(unsafe.Pointer(&cfg.SensAbsTol[0]))); flag != FlagSuccess {
			return &CallError{Func: "CVodeSensSStolerances", Flag: int(flag)}
		}
	}
	return nil
}

// Step advances the integration toward tout and returns the time actually
// reached along with the raw CVode flag. The state vector is mutated in
// place; read it through Y.
func (h *Handle) Step(tout float64, kind int) (float64, int) {
	var tret C.realtype
	flag := C.CVode(h.mem, C.realtype(tout), h.y, &tret, C.int(kind))
	return float64(tret), int(flag)
}

// GetSens loads the sensitivity vectors for the current internal time into
// the output buffers exposed by Sens.
func (h *Handle) GetSens() int {
	var tret C.realtype
	return int(C.CVodeGetSens(h.mem, &tret, h.sensOut))
}

// Y returns the borrowed view of the native state vector. It is overwritten
// in place by every Step and ReInit call.
func (h *Handle) Y() []float64 { return h.yView }

// Sens returns the borrowed, parameter-major views of the sensitivity output
// vectors. Overwritten by every GetSens call.
func (h *Handle) Sens() [][]float64 { return h.sensViews }

// ReInit resets the solver to a new initial condition without reallocating
// any native resources.
func (h *Handle) ReInit(t0 float64, y0 []float64) int {
	copy(h.yView, y0)
	return int(C.CVodeReInit(h.mem, C.realtype(t0), h.y))
}

// SensReInit resets the sensitivity initial values. Must follow a successful
// ReInit on a context created by CreateSens.
func (h *Handle) SensReInit(ys0 [][]float64) int {
	for i := range h.ysInitViews {
		copy(h.ysInitViews[i], ys0[i])
	}
	return int(C.CVodeSensReInit(h.mem, C.CV_STAGGERED, h.ys))
}

// LastPanic returns the payload of the most recent panic recovered in a
// trampoline, or nil.
func (h *Handle) LastPanic() any { return h.sess.panicValue }

// Destroy frees the native context and every owned vector, then drops the
// session registry entry. Safe on partially constructed handles; idempotent.
func (h *Handle) Destroy() {
	if h == nil || h.destroyed {
		return
	}
	h.destroyed = true
	if h.mem != nil {
		C.CVodeFree(&h.mem)
	}
	if h.linSolver != nil {
		C.SUNLinSolFree(h.linSolver)
	}
	if h.sunMatrix != nil {
		C.SUNMatDestroy(h.sunMatrix)
	}
	if h.ys != nil {
		C.N_VDestroyVectorArray(h.ys, C.int(h.ns))
	}
	if h.sensOut != nil {
		C.N_VDestroyVectorArray(h.sensOut, C.int(h.ns))
	}
	if h.atolVec != nil {
		C.N_VDestroy(h.atolVec)
	}
	if h.y != nil {
		C.N_VDestroy(h.y)
	}
	del(h.hid)
}

//export cvodegoRhs
func cvodegoRhs(t C.realtype, y C.N_Vector, ydot C.N_Vector, userData unsafe.Pointer) C.int {
	s, ok := get(handle(uintptr(userData)))
	if !ok {
		return C.int(rhsPanicCode)
	}
	yv := nvecData(y, s.ny)
	yd := nvecData(ydot, s.ny)
	return C.int(callRhs(s, float64(t), yv, yd))
}

//export cvodegoSensRhs
func cvodegoSensRhs(ns C.int, t C.realtype, y C.N_Vector, ydot C.N_Vector,
	ys *C.N_Vector, ysdot *C.N_Vector, userData unsafe.Pointer,
	tmp1 C.N_Vector, tmp2 C.N_Vector) C.int {
	s, ok := get(handle(uintptr(userData)))
	if !ok {
		return C.int(rhsPanicCode)
	}
	yv := nvecData(y, s.ny)
	yd := nvecData(ydot, s.ny)
	ysArr := unsafe.Slice(ys, s.ns)
	ysdArr := unsafe.Slice(ysdot, s.ns)
	for i := 0; i < s.ns; i++ {
		s.ysViews[i] = nvecData(ysArr[i], s.ny)
		s.ysDotViews[i] = nvecData(ysdArr[i], s.ny)
	}
	return C.int(callSensRhs(s, float64(t), yv, yd, s.ysViews, s.ysDotViews))
}
