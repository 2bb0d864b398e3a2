// Package config loads and saves YAML scenario files for the cvode-go CLI.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultSpringConstant = 1.0
	DefaultX0             = 1.0
	DefaultRelTol         = 1e-6
	DefaultAbsTol         = 1e-6
	DefaultDuration       = 10.0
	DefaultInterval       = 0.1
)

// Scenario describes one harmonic-oscillator integration run.
type Scenario struct {
	Method         string  `yaml:"method"`
	SpringConstant float64 `yaml:"spring_constant"`
	X0             float64 `yaml:"x0"`
	V0             float64 `yaml:"v0"`
	RelTol         float64 `yaml:"rtol"`
	AbsTol         float64 `yaml:"atol"`
	Duration       float64 `yaml:"duration"`
	Interval       float64 `yaml:"interval"`
}

func Default() *Scenario {
	return &Scenario{
		Method:         "adams",
		SpringConstant: DefaultSpringConstant,
		X0:             DefaultX0,
		RelTol:         DefaultRelTol,
		AbsTol:         DefaultAbsTol,
		Duration:       DefaultDuration,
		Interval:       DefaultInterval,
	}
}

// Load reads path and overlays it on the defaults, so partial files work.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	sc := Default()
	if err := yaml.Unmarshal(data, sc); err != nil {
		return nil, err
	}
	return sc, nil
}

func Save(path string, sc *Scenario) error {
	data, err := yaml.Marshal(sc)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (s *Scenario) Validate() error {
	if s.Method != "adams" && s.Method != "bdf" {
		return fmt.Errorf("unknown method %q (want adams or bdf)", s.Method)
	}
	if s.SpringConstant <= 0 {
		return fmt.Errorf("spring_constant must be positive, got %v", s.SpringConstant)
	}
	if s.RelTol <= 0 || s.AbsTol <= 0 {
		return fmt.Errorf("tolerances must be positive, got rtol=%v atol=%v", s.RelTol, s.AbsTol)
	}
	if s.Duration <= 0 {
		return fmt.Errorf("duration must be positive, got %v", s.Duration)
	}
	if s.Interval <= 0 || s.Interval > s.Duration {
		return fmt.Errorf("interval must be in (0, duration], got %v", s.Interval)
	}
	return nil
}

// InitState returns the initial state vector (x, v).
func (s *Scenario) InitState() []float64 {
	return []float64{s.X0, s.V0}
}
