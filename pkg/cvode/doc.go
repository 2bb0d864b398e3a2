// Package cvode provides a typed, memory-safe wrapper around the SUNDIALS
// CVODES multistep ODE integrator, including forward sensitivity analysis.
//
// Callers supply a right-hand-side function (and optionally a sensitivity
// right-hand-side function) and obtain a Solver or SensSolver that advances a
// fixed-dimension state vector step by step. All cgo complexity lives in
// internal/bindings; nothing in this package's exported API mentions native
// types.
//
// Slices returned by Step are borrowed views of solver-owned buffers and are
// valid only until the next Step, Reinitialize, or Close call on the same
// solver. A solver has exactly one logical owner; concurrent use requires
// external synchronization.
package cvode
