package renderer

import (
	"bytes"
	"errors"
	"math/rand"
	"strings"
	"testing"

	"github.com/pthm-cable/ocean/components"
	"github.com/pthm-cable/ocean/config"
	"github.com/pthm-cable/ocean/ocean"
)

func smallOcean() *ocean.Ocean {
	p := ocean.Params{Rows: 2, Cols: 3, ReproducePeriod: 6, FeedPeriod: 6}
	o := ocean.New(p, rand.New(rand.NewSource(1)))
	o.Place(components.NewObstacle(components.Coord(0, 0)))
	o.Place(components.NewPrey(components.Coord(1, 0), 6))
	o.Place(components.NewPredator(components.Coord(2, 1), 6, 6))
	return o
}

func TestCapture(t *testing.T) {
	f := Capture(smallOcean(), -1, DefaultMarkers())

	if f.Iteration != 0 {
		t.Errorf("Iteration = %d, want 0 for the seeded state", f.Iteration)
	}
	if f.Obstacles != 1 || f.Predators != 1 || f.Prey != 1 {
		t.Errorf("counts = %d/%d/%d, want 1/1/1", f.Obstacles, f.Predators, f.Prey)
	}
	want := []string{"#f-", "--S"}
	if len(f.Rows) != len(want) {
		t.Fatalf("rows = %q, want %q", f.Rows, want)
	}
	for i := range want {
		if f.Rows[i] != want[i] {
			t.Errorf("row %d = %q, want %q", i, f.Rows[i], want[i])
		}
	}
	if f.Cols() != 3 {
		t.Errorf("Cols = %d, want 3", f.Cols())
	}
}

func TestTextFrameLayout(t *testing.T) {
	var buf bytes.Buffer
	r := NewText(&buf, DefaultMarkers())

	if err := r.WriteFrame(Capture(smallOcean(), 4, DefaultMarkers())); err != nil {
		t.Fatalf("WriteFrame error: %v", err)
	}

	want := "\nIteration number: 5 Obstacles: 1 Predators: 1 Prey: 1\n" +
		"***\n" +
		"#f-\n" +
		"--S\n" +
		"***\n"
	if got := buf.String(); got != want {
		t.Errorf("frame =\n%q\nwant\n%q", got, want)
	}
}

func TestTextEnd(t *testing.T) {
	var buf bytes.Buffer
	r := NewText(&buf, DefaultMarkers())
	if err := r.WriteEnd(); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "End of Simulation") {
		t.Errorf("trailer = %q", buf.String())
	}
}

func TestMarkersFromConfig(t *testing.T) {
	cfg, err := config.Defaults()
	if err != nil {
		t.Fatal(err)
	}
	cfg.Markers.Prey = "o"
	cfg.Markers.Border = ""

	m := MarkersFromConfig(cfg)
	if m.Prey != 'o' {
		t.Errorf("Prey marker = %q, want 'o'", m.Prey)
	}
	if m.Border != '*' {
		t.Errorf("Border marker = %q, want default '*'", m.Border)
	}
	if m.For(components.KindPredator) != 'S' {
		t.Errorf("Predator marker = %q, want 'S'", m.For(components.KindPredator))
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestTextWriteError(t *testing.T) {
	r := NewText(failingWriter{}, DefaultMarkers())
	if err := r.WriteFrame(Capture(smallOcean(), -1, DefaultMarkers())); err == nil {
		t.Error("expected write error")
	}
}

func TestRunWithoutPredatorsRendersInitialFrameOnly(t *testing.T) {
	o := ocean.NewSeeded(ocean.DefaultParams(), rand.New(rand.NewSource(1)), 75, 0, 150)
	var buf bytes.Buffer
	r := NewText(&buf, DefaultMarkers())
	obs := ocean.ObserverFunc(func(o *ocean.Ocean, iteration int) error {
		return r.WriteFrame(Capture(o, iteration, DefaultMarkers()))
	})

	if _, err := o.Run(1000, obs); err != nil {
		t.Fatalf("Run error: %v", err)
	}

	out := buf.String()
	if n := strings.Count(out, "Iteration number:"); n != 1 {
		t.Errorf("rendered %d frames, want 1", n)
	}
	if !strings.Contains(out, "Iteration number: 0 Obstacles: 75 Predators: 0 Prey: 150") {
		t.Errorf("missing initial stats line in %q", out[:80])
	}
	// Stats line, border, 25 rows, border.
	lines := strings.Split(strings.TrimPrefix(out, "\n"), "\n")
	if len(lines) != 1+1+25+1+1 {
		t.Errorf("got %d lines, want 29 (incl. trailing empty)", len(lines))
	}
	if lines[1] != strings.Repeat("*", 70) {
		t.Errorf("border = %q", lines[1])
	}
}
