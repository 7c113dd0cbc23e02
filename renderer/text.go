package renderer

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Text writes frames as plain text: a stats line, a border rule, the grid
// rows and a closing border rule.
type Text struct {
	w       *bufio.Writer
	markers Markers
}

// NewText creates a text renderer writing to w.
func NewText(w io.Writer, m Markers) *Text {
	return &Text{w: bufio.NewWriter(w), markers: m}
}

// WriteFrame writes a single frame and flushes it.
func (t *Text) WriteFrame(f Frame) error {
	border := strings.Repeat(string(t.markers.Border), f.Cols())

	fmt.Fprintf(t.w, "\nIteration number: %d Obstacles: %d Predators: %d Prey: %d\n",
		f.Iteration, f.Obstacles, f.Predators, f.Prey)
	t.w.WriteString(border)
	t.w.WriteByte('\n')
	for _, row := range f.Rows {
		t.w.WriteString(row)
		t.w.WriteByte('\n')
	}
	t.w.WriteString(border)
	t.w.WriteByte('\n')

	if err := t.w.Flush(); err != nil {
		return fmt.Errorf("writing frame %d: %w", f.Iteration, err)
	}
	return nil
}

// WriteEnd writes the end-of-run trailer.
func (t *Text) WriteEnd() error {
	t.w.WriteString("\nEnd of Simulation\n")
	if err := t.w.Flush(); err != nil {
		return fmt.Errorf("writing trailer: %w", err)
	}
	return nil
}
