// Package prompt reads run parameters interactively.
package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pthm-cable/ocean/config"
)

// ErrNotInteger is returned when an answer is not a whole number.
var ErrNotInteger = errors.New("not an integer")

// Prompter asks questions on out and reads answers from in, one per line.
type Prompter struct {
	in  *bufio.Reader
	out io.Writer
}

// New creates a prompter.
func New(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: bufio.NewReader(in), out: out}
}

// ReadInt prints text (formatted with def) and parses the answer.
// A blank answer, or end of input, selects def.
func (p *Prompter) ReadInt(text string, def int) (int, error) {
	fmt.Fprintf(p.out, text, def)

	line, err := p.in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return 0, fmt.Errorf("reading answer: %w", err)
	}

	s := strings.TrimSpace(line)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrNotInteger, s)
	}
	return n, nil
}

// Population asks for obstacle, predator and prey counts, clamping each to
// the capacity the earlier answers leave free.
func (p *Prompter) Population(capacity int, defaults config.PopulationConfig) (config.PopulationConfig, error) {
	var pop config.PopulationConfig
	var err error

	pop.Obstacles, err = p.ReadInt("\nEnter number of obstacles (default = %d): ", defaults.Obstacles)
	if err != nil {
		return pop, fmt.Errorf("obstacles: %w", err)
	}
	pop.Obstacles = clamp(pop.Obstacles, capacity)
	fmt.Fprintf(p.out, "Number of obstacles accepted = %d\n", pop.Obstacles)

	pop.Predators, err = p.ReadInt("\nEnter number of predators (default = %d): ", defaults.Predators)
	if err != nil {
		return pop, fmt.Errorf("predators: %w", err)
	}
	pop.Predators = clamp(pop.Predators, capacity-pop.Obstacles)
	fmt.Fprintf(p.out, "Number of predators accepted = %d\n", pop.Predators)

	pop.Prey, err = p.ReadInt("\n\nEnter number of prey (default = %d): ", defaults.Prey)
	if err != nil {
		return pop, fmt.Errorf("prey: %w", err)
	}
	pop.Prey = clamp(pop.Prey, capacity-pop.Obstacles-pop.Predators)
	fmt.Fprintf(p.out, "Number of prey accepted = %d\n", pop.Prey)

	return pop, nil
}

// Iterations asks for the iteration budget and clamps it to maxIterations.
func (p *Prompter) Iterations(def, maxIterations int) (int, error) {
	n, err := p.ReadInt("\nEnter number of iterations (default and max = %d): ", def)
	if err != nil {
		return 0, fmt.Errorf("iterations: %w", err)
	}
	n = clamp(n, maxIterations)
	fmt.Fprintf(p.out, "Number of iterations accepted = %d\nbegin run...\n\n", n)
	return n, nil
}

func clamp(n, limit int) int {
	return max(0, min(n, limit))
}
