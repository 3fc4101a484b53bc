// Package report writes the per-URL result lines to the primary output.
package report

import (
	"fmt"
	"io"
	"strconv"
	"sync"

	"github.com/fatih/color"

	"github.com/JakeFAU/fff/internal/scan"
)

// Printer writes one line per reported URL. Lines from concurrent tasks are
// serialized so they never interleave mid-line.
type Printer struct {
	mu       sync.Mutex
	w        io.Writer
	colorize bool
}

// NewPrinter returns a Printer writing to w.
func NewPrinter(w io.Writer, colorize bool) *Printer {
	return &Printer{w: w, colorize: colorize}
}

// Report implements scan.Reporter.
func (p *Printer) Report(rawURL string, status int, outcome scan.Outcome) {
	line := rawURL + " " + FormatStatus(status, outcome, p.colorize) + "\n"
	p.mu.Lock()
	defer p.mu.Unlock()
	_, _ = io.WriteString(p.w, line)
}

// FormatStatus renders the status column: "Saved (<code>)" for persisted
// responses, otherwise the bare code colored by class.
func FormatStatus(status int, outcome scan.Outcome, colorize bool) string {
	if outcome == scan.OutcomeSaved {
		return paint(color.New(color.FgGreen), colorize, fmt.Sprintf("Saved (%d)", status))
	}
	return paint(statusColor(status), colorize, strconv.Itoa(status))
}

func statusColor(status int) *color.Color {
	switch {
	case status >= 200 && status < 300:
		return color.New(color.FgGreen)
	case status >= 300 && status < 400:
		return color.New(color.FgCyan)
	case status >= 400 && status < 500:
		return color.New(color.FgYellow)
	case status >= 500 && status < 600:
		return color.New(color.FgRed)
	default:
		return color.New(color.Reset)
	}
}

func paint(c *color.Color, colorize bool, s string) string {
	if !colorize {
		return s
	}
	c.EnableColor()
	return c.Sprint(s)
}
