package cvode

// Option adjusts optional solver settings at construction time.
type Option func(*settings)

type settings struct {
	initStep float64
	maxSteps int64
}

// WithInitialStep hints the size of the first internal step. Zero leaves the
// integrator's own heuristic in place.
func WithInitialStep(h float64) Option {
	return func(s *settings) { s.initStep = h }
}

// WithMaxSteps bounds the number of internal steps the integrator may take
// per Step call before giving up with ErrTooMuchWork. Zero keeps the native
// default.
func WithMaxSteps(n int64) Option {
	return func(s *settings) { s.maxSteps = n }
}

func applyOptions(opts []Option) settings {
	var s settings
	for _, opt := range opts {
		opt(&s)
	}
	return s
}
