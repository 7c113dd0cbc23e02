package telemetry

import (
	"log/slog"
	"math"

	"gonum.org/v1/gonum/stat"
)

// Series records population counts after every iteration of a run.
type Series struct {
	Predators []float64
	Prey      []float64
}

// Add appends one observation.
func (s *Series) Add(predators, prey int) {
	s.Predators = append(s.Predators, float64(predators))
	s.Prey = append(s.Prey, float64(prey))
}

// Len returns the number of observations.
func (s *Series) Len() int {
	return len(s.Prey)
}

// Summary describes population dynamics over a whole run.
type Summary struct {
	Iterations int    `csv:"iterations"`
	StopReason string `csv:"stop_reason"`
	Births     int    `csv:"births"`
	Deaths     int    `csv:"deaths"`

	PredMean float64 `csv:"pred_mean"`
	PredStd  float64 `csv:"pred_std"`
	PredPeak int     `csv:"pred_peak"`
	PreyMean float64 `csv:"prey_mean"`
	PreyStd  float64 `csv:"prey_std"`
	PreyPeak int     `csv:"prey_peak"`

	// Pearson correlation between the two series; 0 when either is constant.
	Correlation float64 `csv:"correlation"`
}

// Summarize computes run-level statistics from a series.
func Summarize(s *Series) Summary {
	var sum Summary
	if s.Len() == 0 {
		return sum
	}

	sum.PredMean, sum.PredStd = stat.MeanStdDev(s.Predators, nil)
	sum.PreyMean, sum.PreyStd = stat.MeanStdDev(s.Prey, nil)
	sum.PredPeak = int(peak(s.Predators))
	sum.PreyPeak = int(peak(s.Prey))

	if s.Len() > 1 && sum.PredStd > 0 && sum.PreyStd > 0 {
		sum.Correlation = stat.Correlation(s.Predators, s.Prey, nil)
	}
	// A single observation has an undefined sample deviation.
	if math.IsNaN(sum.PredStd) {
		sum.PredStd = 0
	}
	if math.IsNaN(sum.PreyStd) {
		sum.PreyStd = 0
	}

	return sum
}

func peak(x []float64) float64 {
	var m float64
	for _, v := range x {
		m = max(m, v)
	}
	return m
}

// LogValue implements slog.LogValuer for structured logging.
func (s Summary) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("iterations", s.Iterations),
		slog.String("stop_reason", s.StopReason),
		slog.Int("births", s.Births),
		slog.Int("deaths", s.Deaths),
		slog.Float64("pred_mean", s.PredMean),
		slog.Float64("pred_std", s.PredStd),
		slog.Int("pred_peak", s.PredPeak),
		slog.Float64("prey_mean", s.PreyMean),
		slog.Float64("prey_std", s.PreyStd),
		slog.Int("prey_peak", s.PreyPeak),
		slog.Float64("correlation", s.Correlation),
	)
}
