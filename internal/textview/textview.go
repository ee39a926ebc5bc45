// Package textview prints a board as plain coloured text, for one-shot use
// outside the terminal UI.
package textview

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"

	"aura-radar/internal/dashboard"
)

const (
	headerColor = "#8BE9FD"
	mutedColor  = "#6272A4"
)

type Writer struct {
	out io.Writer

	header lipgloss.Style
	muted  lipgloss.Style

	alert     *color.Color
	log       *color.Color
	integrity *color.Color
	ok        *color.Color
	warn      *color.Color
	failed    *color.Color
}

// New returns a writer for out. With noColor every style renders as plain text.
func New(out io.Writer, noColor bool) *Writer {
	r := lipgloss.NewRenderer(out)

	w := &Writer{
		out:       out,
		header:    r.NewStyle().Bold(true).Foreground(lipgloss.Color(headerColor)),
		muted:     r.NewStyle().Foreground(lipgloss.Color(mutedColor)),
		alert:     color.New(color.FgRed, color.Bold),
		log:       color.New(color.FgWhite),
		integrity: color.New(color.FgYellow),
		ok:        color.New(color.FgGreen, color.Bold),
		warn:      color.New(color.FgYellow, color.Bold),
		failed:    color.New(color.FgRed, color.Bold),
	}

	if noColor {
		w.header = lipgloss.NewStyle().Bold(false)
		w.muted = lipgloss.NewStyle()
		for _, c := range []*color.Color{w.alert, w.log, w.integrity, w.ok, w.warn, w.failed} {
			c.DisableColor()
		}
	}
	return w
}

// Board prints the status line followed by every list region.
func (w *Writer) Board(b *dashboard.Board) error {
	if err := w.Status(b.Status.Current()); err != nil {
		return err
	}
	for _, tab := range dashboard.AllTabs() {
		region := regionFor(b, tab)
		if err := w.Region(tab.String(), region); err != nil {
			return err
		}
	}
	return nil
}

func (w *Writer) Status(s dashboard.Status) error {
	c := w.ok
	switch s.State {
	case dashboard.StatusLearning:
		c = w.warn
	case dashboard.StatusError:
		c = w.failed
	case dashboard.StatusPending:
		c = w.log
	}
	_, err := fmt.Fprintf(w.out, "%s %s\n", w.header.Render("Status:"), c.Sprint(s.Text))
	return err
}

func (w *Writer) Region(title string, r *dashboard.Region) error {
	if _, err := fmt.Fprintf(w.out, "\n%s %s\n", w.header.Render(title), w.muted.Render(fmt.Sprintf("(%d)", r.Len()))); err != nil {
		return err
	}

	entries := r.Entries()
	if len(entries) == 0 {
		_, err := fmt.Fprintln(w.out, w.muted.Render("  (empty)"))
		return err
	}

	for _, e := range entries {
		if _, err := fmt.Fprintln(w.out, w.styleFor(e).Sprint(e.Title)); err != nil {
			return err
		}
		for _, line := range e.Details {
			if _, err := fmt.Fprintln(w.out, w.muted.Render(line)); err != nil {
				return err
			}
		}
	}
	return nil
}

func (w *Writer) styleFor(e dashboard.Entry) *color.Color {
	switch e.Kind {
	case dashboard.KindAlert, dashboard.KindBlocked:
		return w.alert
	case dashboard.KindIntegrity:
		return w.integrity
	}
	return w.log
}

func regionFor(b *dashboard.Board, tab dashboard.Tab) *dashboard.Region {
	switch tab {
	case dashboard.TabLogs:
		return b.Logs
	case dashboard.TabBlocked:
		return b.Blocked
	case dashboard.TabIntegrity:
		return b.Integrity
	}
	return b.Alerts
}
