package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/pthm-cable/ocean/config"
	"github.com/pthm-cable/ocean/telemetry"
)

func TestParamVectorRoundTrip(t *testing.T) {
	pv := NewParamVector()
	def := pv.DefaultVector()

	got := pv.Denormalize(pv.Normalize(def))
	for i := range def {
		if d := got[i] - def[i]; d > 1e-9 || d < -1e-9 {
			t.Errorf("%s: got %v, want %v", pv.Specs[i].Name, got[i], def[i])
		}
	}
}

func TestClampRoundsAndBounds(t *testing.T) {
	pv := NewParamVector()
	got := pv.Clamp([]float64{-5, 20.4, 10000, 6.6, 1})
	want := []float64{0, 20, 800, 7, 2}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("%s: got %v, want %v", pv.Specs[i].Name, got[i], want[i])
		}
	}
}

func TestApplyAndExtract(t *testing.T) {
	cfg, err := config.Defaults()
	if err != nil {
		t.Fatal(err)
	}
	pv := NewParamVector()

	if got := pv.ExtractFromConfig(cfg); len(got) != pv.Dim() {
		t.Fatalf("extracted %d values, want %d", len(got), pv.Dim())
	}
	for i, v := range pv.ExtractFromConfig(cfg) {
		if v != pv.Specs[i].Default {
			t.Errorf("%s: config default %v, spec default %v", pv.Specs[i].Name, v, pv.Specs[i].Default)
		}
	}

	pv.ApplyToConfig(cfg, []float64{10, 30, 200, 8, 4})
	if cfg.Population.Obstacles != 10 || cfg.Population.Predators != 30 || cfg.Population.Prey != 200 {
		t.Errorf("population = %+v", cfg.Population)
	}
	if cfg.Timers.ReproducePeriod != 8 || cfg.Timers.FeedPeriod != 4 {
		t.Errorf("timers = %+v", cfg.Timers)
	}
}

func TestComputeQuality(t *testing.T) {
	steady := make([]telemetry.WindowStats, 10)
	for i := range steady {
		steady[i] = telemetry.WindowStats{Predators: 20, Prey: 150}
	}

	tests := []struct {
		name    string
		windows []telemetry.WindowStats
		want    float64
	}{
		{"too few windows", steady[:3], 0},
		{"steady at target ratio", steady, 1},
		{"predators gone", []telemetry.WindowStats{{}, {}, {}, {Prey: 100}, {Prey: 100}}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := computeQuality(tt.windows)
			if d := got - tt.want; d > 1e-9 || d < -1e-9 {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFitnessPrefersSurvival(t *testing.T) {
	short := computeFitness(&runResult{survival: 10})
	long := computeFitness(&runResult{survival: 500})
	if long >= short {
		t.Errorf("fitness(500) = %v, fitness(10) = %v; longer survival should be lower", long, short)
	}
}

func TestEvaluateDefaults(t *testing.T) {
	cfg, err := config.Defaults()
	if err != nil {
		t.Fatal(err)
	}
	pv := NewParamVector()
	fe := NewFitnessEvaluator(pv, 50, []int64{1, 2}, cfg)

	fitness := fe.Evaluate(pv.DefaultVector())
	if fitness >= 0 {
		t.Errorf("fitness = %v, want negative", fitness)
	}
	if s := fe.LastSurvival(); s <= 0 || s > 50 {
		t.Errorf("LastSurvival = %v, want in (0, 50]", s)
	}
	if cfg.Population.Predators != 20 {
		t.Error("evaluation modified the base config")
	}
}

func TestEvalLogHeaderOnce(t *testing.T) {
	var buf bytes.Buffer
	l := &evalLog{w: &buf}
	for i := 1; i <= 3; i++ {
		if err := l.write(newEvalRecord(i, -100, 100, 0.5, []float64{75, 20, 150, 6, 6})); err != nil {
			t.Fatal(err)
		}
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("got %d lines, want header + 3 rows:\n%s", len(lines), buf.String())
	}
	if !strings.HasPrefix(lines[0], "eval,fitness,survival") {
		t.Errorf("header = %q", lines[0])
	}
	if strings.Count(buf.String(), "eval,") != 1 {
		t.Error("header written more than once")
	}
}

func TestNewMethod(t *testing.T) {
	for _, name := range []string{"cmaes", "neldermead"} {
		if _, err := newMethod(name, 5, 0); err != nil {
			t.Errorf("newMethod(%q): %v", name, err)
		}
	}
	if _, err := newMethod("annealing", 5, 0); err == nil {
		t.Error("expected error for unknown method")
	}
}
