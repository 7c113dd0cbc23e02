package telemetry

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pthm-cable/ocean/components"
	"github.com/pthm-cable/ocean/config"
)

func TestNewOutputManagerDisabled(t *testing.T) {
	om, err := NewOutputManager("")
	if err != nil || om != nil {
		t.Fatalf("NewOutputManager(\"\") = %v, %v; want nil, nil", om, err)
	}
	// Nil manager methods are no-ops.
	if err := om.WriteTelemetry(WindowStats{}); err != nil {
		t.Errorf("nil WriteTelemetry error: %v", err)
	}
	if err := om.Close(); err != nil {
		t.Errorf("nil Close error: %v", err)
	}
	if om.Dir() != "" {
		t.Errorf("nil Dir = %q", om.Dir())
	}
}

func TestOutputManagerWritesCSV(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "run")
	om, err := NewOutputManager(dir)
	if err != nil {
		t.Fatalf("NewOutputManager error: %v", err)
	}

	rows := []WindowStats{
		{WindowEnd: 10, Obstacles: 75, Predators: 20, Prey: 150, PreyBirths: 7},
		{WindowEnd: 20, Obstacles: 75, Predators: 18, Prey: 160, Drift: true},
	}
	for _, r := range rows {
		if err := om.WriteTelemetry(r); err != nil {
			t.Fatalf("WriteTelemetry error: %v", err)
		}
	}
	if err := om.WriteBookmark(Bookmark{Type: BookmarkPreyCrash, Iteration: 20, Description: "crash"}); err != nil {
		t.Fatalf("WriteBookmark error: %v", err)
	}
	if err := om.WriteSummary(Summary{Iterations: 20, StopReason: "budget_exhausted"}); err != nil {
		t.Fatalf("WriteSummary error: %v", err)
	}
	for _, batch := range [][]Event{
		{NewBirthEvent(1, components.KindPrey)},
		nil,
		{NewDeathEvent(2, components.KindPrey, components.CauseEaten), NewBirthEvent(2, components.KindPredator)},
	} {
		if err := om.WriteEvents(batch); err != nil {
			t.Fatalf("WriteEvents error: %v", err)
		}
	}
	cfg, err := config.Defaults()
	if err != nil {
		t.Fatal(err)
	}
	if err := om.WriteConfig(cfg); err != nil {
		t.Fatalf("WriteConfig error: %v", err)
	}
	if err := om.Close(); err != nil {
		t.Fatalf("Close error: %v", err)
	}

	f, err := os.Open(filepath.Join(dir, "telemetry.csv"))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	got, err := ReadTelemetry(f)
	if err != nil {
		t.Fatalf("ReadTelemetry error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("read %d rows, want 2", len(got))
	}
	if got[0].Prey != 150 || got[0].PreyBirths != 7 || got[1].Predators != 18 || !got[1].Drift {
		t.Errorf("rows = %+v", got)
	}

	data, err := os.ReadFile(filepath.Join(dir, "telemetry.csv"))
	if err != nil {
		t.Fatal(err)
	}
	if n := strings.Count(string(data), "window_end"); n != 1 {
		t.Errorf("header written %d times, want 1", n)
	}

	events, err := os.ReadFile(filepath.Join(dir, "events.csv"))
	if err != nil {
		t.Fatal(err)
	}
	wantEvents := "iteration,type,kind,cause\n" +
		"1,birth,Prey,\n" +
		"2,death,Prey,eaten\n" +
		"2,birth,Predator,\n"
	if string(events) != wantEvents {
		t.Errorf("events.csv =\n%s\nwant\n%s", events, wantEvents)
	}

	for _, name := range []string{"bookmarks.csv", "summary.csv", "perf.csv", "config.yaml"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("missing %s: %v", name, err)
		}
	}
}
