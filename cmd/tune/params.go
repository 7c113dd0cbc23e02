package main

import (
	"math"

	"github.com/pthm-cable/ocean/config"
)

// ParamSpec defines a single tunable parameter.
type ParamSpec struct {
	Name    string  // Human-readable name
	Path    string  // Config path for logging
	Min     float64 // Lower bound
	Max     float64 // Upper bound
	Default float64 // Default value
}

// ParamVector holds the set of all tunable parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the standard set of tunable parameters.
func NewParamVector() *ParamVector {
	return &ParamVector{
		Specs: []ParamSpec{
			{Name: "obstacles", Path: "population.obstacles", Min: 0, Max: 400, Default: 75},
			{Name: "predators", Path: "population.predators", Min: 1, Max: 400, Default: 20},
			{Name: "prey", Path: "population.prey", Min: 1, Max: 800, Default: 150},
			{Name: "reproduce_period", Path: "timers.reproduce_period", Min: 2, Max: 20, Default: 6},
			{Name: "feed_period", Path: "timers.feed_period", Min: 2, Max: 20, Default: 6},
		},
	}
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// DefaultVector returns the default parameter values as a slice.
func (pv *ParamVector) DefaultVector() []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v[i] = spec.Default
	}
	return v
}

// Normalize converts raw parameter values to [0,1] range.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	normalized := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		normalized[i] = (raw[i] - spec.Min) / (spec.Max - spec.Min)
	}
	return normalized
}

// Denormalize converts [0,1] values back to raw parameter values.
func (pv *ParamVector) Denormalize(normalized []float64) []float64 {
	raw := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		raw[i] = spec.Min + normalized[i]*(spec.Max-spec.Min)
	}
	return raw
}

// Clamp ensures all values are within bounds and rounds them to whole numbers,
// since every tunable is a count or a period.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	clamped := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		clamped[i] = math.Round(max(spec.Min, min(v[i], spec.Max)))
	}
	return clamped
}

// ApplyToConfig applies parameter values to a Config struct.
// Order must match Specs order.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) {
	clamped := pv.Clamp(values)

	cfg.Population.Obstacles = int(clamped[0])
	cfg.Population.Predators = int(clamped[1])
	cfg.Population.Prey = int(clamped[2])
	cfg.Timers.ReproducePeriod = int(clamped[3])
	cfg.Timers.FeedPeriod = int(clamped[4])
}

// ExtractFromConfig extracts current parameter values from a Config struct.
func (pv *ParamVector) ExtractFromConfig(cfg *config.Config) []float64 {
	return []float64{
		float64(cfg.Population.Obstacles),
		float64(cfg.Population.Predators),
		float64(cfg.Population.Prey),
		float64(cfg.Timers.ReproducePeriod),
		float64(cfg.Timers.FeedPeriod),
	}
}
