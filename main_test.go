package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/pthm-cable/ocean/config"
	"github.com/pthm-cable/ocean/game"
	"github.com/pthm-cable/ocean/prompt"
)

func TestPlayInteractiveOrder(t *testing.T) {
	cfg, err := config.Defaults()
	if err != nil {
		t.Fatalf("Defaults: %v", err)
	}

	var out bytes.Buffer
	g, err := game.NewGameWithOptions(cfg, game.Options{Seed: 5, Frames: &out})
	if err != nil {
		t.Fatalf("NewGameWithOptions: %v", err)
	}
	defer g.Unload()

	p := prompt.New(strings.NewReader("10\n2\n5\n3\n"), &out)
	res, err := play(g, cfg, p, cfg.Run.Iterations)
	if err != nil {
		t.Fatalf("play: %v", err)
	}
	if res.Budget != 3 {
		t.Errorf("budget = %d, want 3", res.Budget)
	}

	s := out.String()
	prey := strings.Index(s, "Number of prey accepted = 5")
	seeded := strings.Index(s, "Iteration number: 0 Obstacles: 10 Predators: 2 Prey: 5")
	iters := strings.Index(s, "Enter number of iterations")
	first := strings.Index(s, "Iteration number: 1 ")
	if prey < 0 || seeded < 0 || iters < 0 {
		t.Fatalf("missing prompt or seeded frame in %q", s)
	}
	if !(prey < seeded && seeded < iters) {
		t.Errorf("want prey answer, seeded frame, iterations prompt in order; got %d, %d, %d", prey, seeded, iters)
	}
	if first >= 0 && first < iters {
		t.Error("sweep frame written before the iterations prompt")
	}
	if n := strings.Count(s, "Iteration number: 0 "); n != 1 {
		t.Errorf("seeded frame written %d times", n)
	}
}

func TestPlayNonInteractive(t *testing.T) {
	cfg, err := config.Defaults()
	if err != nil {
		t.Fatalf("Defaults: %v", err)
	}

	var out bytes.Buffer
	g, err := game.NewGameWithOptions(cfg, game.Options{Seed: 5, Frames: &out})
	if err != nil {
		t.Fatalf("NewGameWithOptions: %v", err)
	}
	defer g.Unload()

	res, err := play(g, cfg, nil, 5000)
	if err != nil {
		t.Fatalf("play: %v", err)
	}
	if res.Budget != cfg.Run.MaxIterations {
		t.Errorf("budget = %d, want %d", res.Budget, cfg.Run.MaxIterations)
	}
	if strings.Contains(out.String(), "Enter number") {
		t.Error("non-interactive run prompted")
	}
}
