// Package report prints a computed week as "<Weekday>: <name1, name2>" lines.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/tartampluch/go-assistant/internal/engine"
)

// Writer prints weeks to Out.
type Writer struct {
	Out io.Writer

	// Label styles the weekday label. The zero style prints plain text.
	Label lipgloss.Style

	// DayName translates a label. When nil the English weekday name is used.
	DayName func(engine.Day) string
}

// NewTerminalWriter returns a Writer that renders labels in bold when out is
// a terminal. Non-terminal outputs (pipes, files) stay plain.
func NewTerminalWriter(out io.Writer) *Writer {
	r := lipgloss.NewRenderer(out)
	return &Writer{
		Out:   out,
		Label: r.NewStyle().Bold(true),
	}
}

// Write prints one line per day, in the order of the week.
func (w *Writer) Write(week engine.Week) error {
	for _, day := range week {
		name := day.Weekday.String()
		if w.DayName != nil {
			name = w.DayName(day)
		}
		label := w.Label.Render(name + ":")
		if _, err := fmt.Fprintf(w.Out, "%s %s\n", label, strings.Join(day.Names, ", ")); err != nil {
			return err
		}
	}
	return nil
}
