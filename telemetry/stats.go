package telemetry

import "log/slog"

// WindowStats holds aggregated statistics for an iteration window.
type WindowStats struct {
	WindowStart int `csv:"-"`
	WindowEnd   int `csv:"window_end"`

	// Population counts at window end
	Obstacles int `csv:"obstacles"`
	Predators int `csv:"predators"`
	Prey      int `csv:"prey"`

	// Events during window
	PreyBirths  int `csv:"prey_births"`
	PredBirths  int `csv:"pred_births"`
	PreyEaten   int `csv:"prey_eaten"`
	PredStarved int `csv:"pred_starved"`

	// Occupancy of the non-obstacle slots
	PreyDensity float64 `csv:"prey_density"`
	PredDensity float64 `csv:"pred_density"`

	PredPreyRatio    float64 `csv:"pred_prey_ratio"`
	KillsPerPredator float64 `csv:"kills_per_predator"`

	Drift bool `csv:"drift"`
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_start", s.WindowStart),
		slog.Int("window_end", s.WindowEnd),
		slog.Int("obstacles", s.Obstacles),
		slog.Int("predators", s.Predators),
		slog.Int("prey", s.Prey),
		slog.Int("prey_births", s.PreyBirths),
		slog.Int("pred_births", s.PredBirths),
		slog.Int("prey_eaten", s.PreyEaten),
		slog.Int("pred_starved", s.PredStarved),
		slog.Float64("prey_density", s.PreyDensity),
		slog.Float64("pred_density", s.PredDensity),
		slog.Float64("pred_prey_ratio", s.PredPreyRatio),
		slog.Float64("kills_per_predator", s.KillsPerPredator),
		slog.Bool("drift", s.Drift),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"window_end", s.WindowEnd,
		"predators", s.Predators,
		"prey", s.Prey,
		"prey_births", s.PreyBirths,
		"pred_births", s.PredBirths,
		"prey_eaten", s.PreyEaten,
		"pred_starved", s.PredStarved,
		"pred_prey_ratio", s.PredPreyRatio,
	)
}
