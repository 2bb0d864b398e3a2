// Package logging provides a minimal logging facade for the cvode-go
// command-line tooling and examples.
//
// The Logger interface wraps a subset of log/slog so applications can supply
// their own implementation. The solver packages themselves never log;
// presentation and diagnostics live outside the integration boundary.
package logging
