package tui

import (
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"

	"aura-radar/internal/dashboard"
	"aura-radar/internal/globe"
	"aura-radar/internal/risk"
	"aura-radar/internal/trace"
)

// arcSteps is how many points of each arc are projected.
const arcSteps = 30

const commandGuide = "1-4:Tab  Tab/S-Tab:Cycle  Space:Pause  F:Scan  T:Theme  Q:Quit"

// draw repaints the whole screen from the board and trace layer.
func (t *TUI) draw(now time.Time) {
	t.screen.Clear()

	if t.width < minWidth || t.height < minHeight {
		t.drawText(0, 0, fmt.Sprintf("Terminal too small (%dx%d, need %dx%d)", t.width, t.height, minWidth, minHeight),
			tcell.StyleDefault.Foreground(t.theme.StatusError))
		t.screen.Show()
		return
	}

	t.renderStatus(now)
	t.renderGlobe(now)
	t.renderPanel()
	t.renderCommandGuide()
	t.screen.Show()
}

func (t *TUI) drawText(x, y int, text string, style tcell.Style) {
	if y < 0 || y >= t.height || x >= t.width {
		return
	}
	for i, r := range []rune(text) {
		if x+i < 0 {
			continue
		}
		if x+i >= t.width {
			break
		}
		t.screen.SetContent(x+i, y, r, nil, style)
	}
}

func (t *TUI) renderStatus(now time.Time) {
	status := t.board.Status.Current()

	indicator := "[+]"
	stateStyle := tcell.StyleDefault.Foreground(t.theme.StatusOk).Bold(true)
	switch status.State {
	case dashboard.StatusLearning:
		stateStyle = tcell.StyleDefault.Foreground(t.theme.StatusWarn).Bold(true)
	case dashboard.StatusError:
		indicator = "[-]"
		stateStyle = tcell.StyleDefault.Foreground(t.theme.StatusError).Bold(true)
	case dashboard.StatusPending:
		indicator = "[?]"
		stateStyle = tcell.StyleDefault.Foreground(t.theme.Dim)
	}

	header := tcell.StyleDefault.Foreground(t.theme.Header).Bold(true)
	t.drawText(0, 0, "AURA RADAR", header)
	t.drawText(11, 0, indicator, stateStyle)
	t.drawText(15, 0, status.Text, stateStyle)

	right := fmt.Sprintf("arcs:%d", t.layer.Len())
	if t.paused {
		right = "paused  " + right
	}
	t.drawText(t.width-len([]rune(right))-1, 0, right, tcell.StyleDefault.Foreground(t.theme.Dim))

	if msg := t.board.FlashText(flashTTL); msg != "" {
		x := 15 + len([]rune(status.Text)) + 3
		t.drawText(x, 0, "| "+msg, tcell.StyleDefault.Foreground(t.theme.Text))
	}
}

// globeTop is the first screen row of the globe area.
const globeTop = 1

func (t *TUI) renderGlobe(now time.Time) {
	cells := t.globe.Render(t.rotation)
	land := tcell.StyleDefault.Foreground(t.theme.Globe)

	for y := 0; y < len(cells); y++ {
		for x := 0; x < len(cells[y]) && x < t.width; x++ {
			if ch := cells[y][x]; ch != ' ' {
				t.screen.SetContent(x, globeTop+y, ch, nil, land)
			}
		}
	}

	for _, tr := range t.layer.Active() {
		t.renderArc(tr, now)
	}

	if x, y, ok := t.globe.Project(t.opts.Origin.Lat, t.opts.Origin.Lon, t.rotation); ok {
		t.screen.SetContent(x, globeTop+y, '◉', nil, tcell.StyleDefault.Foreground(t.theme.Origin).Bold(true))
	}
}

// renderArc draws one trace, fading as it ages. Newer parts of the trail are
// brighter than the origin end.
func (t *TUI) renderArc(tr trace.Trace, now time.Time) {
	fade := 1 - tr.Progress(now)
	if fade <= 0 {
		return
	}

	color := t.theme.Trace
	if tr.Severity == risk.HighRisk {
		color = t.theme.Alert
	}
	style := tcell.StyleDefault.Foreground(color)

	path := globe.ArcPath(
		globe.Point{Lat: tr.Origin.Lat, Lon: tr.Origin.Lon},
		globe.Point{Lat: tr.Destination.Lat, Lon: tr.Destination.Lon},
		t.opts.ArcStyle, arcSteps)

	for i, p := range path {
		segment := float64(i) / float64(len(path)-1)
		if !trailVisible(segment, fade) {
			continue
		}
		x, y, ok := t.globe.Project(p.Lat, p.Lon, t.rotation)
		if !ok {
			continue
		}
		t.screen.SetContent(x, globeTop+y, '·', nil, style)
	}

	if x, y, ok := t.globe.Project(tr.Destination.Lat, tr.Destination.Lon, t.rotation); ok {
		t.screen.SetContent(x, globeTop+y, '*', nil, style.Bold(true))
	}
}

// trailVisible reports whether the trail point at segment (0 at the origin,
// 1 at the head) is still drawn. The trail shrinks toward the head as fade
// drops from 1 to 0.
func trailVisible(segment, fade float64) bool {
	return segment >= 1-fade
}

func (t *TUI) panelX() int {
	return t.globe.Width + 3
}

func (t *TUI) renderPanel() {
	separatorX := t.globe.Width + 1
	sep := tcell.StyleDefault.Foreground(t.theme.Separator)
	for y := globeTop; y < t.height-1; y++ {
		t.screen.SetContent(separatorX, y, '|', nil, sep)
	}

	startX := t.panelX()
	width := t.width - startX
	if width <= 0 {
		return
	}

	// Tab bar
	x := startX
	for _, tab := range dashboard.AllTabs() {
		label := fmt.Sprintf(" %d:%s ", int(tab)+1, tab)
		style := tcell.StyleDefault.Foreground(t.theme.Header)
		if t.board.Tabs.IsActive(tab) {
			style = style.Reverse(true).Bold(true)
		}
		t.drawText(x, globeTop, label, style)
		x += len(label) + 1
	}

	region := t.board.ActiveRegion()
	count := fmt.Sprintf("%d", region.Len())
	if region.Cap() > 0 {
		count = fmt.Sprintf("%d/%d", region.Len(), region.Cap())
	}
	t.drawText(startX, globeTop+1, truncateString(fmt.Sprintf("%s (%s)", t.board.Tabs.Active(), count), width),
		tcell.StyleDefault.Foreground(t.theme.Dim))

	y := globeTop + 2
	bottom := t.height - 1
	entries := region.Entries()
	if len(entries) == 0 {
		t.drawText(startX, y, "(empty)", tcell.StyleDefault.Foreground(t.theme.Dim))
		return
	}

	detail := tcell.StyleDefault.Foreground(t.theme.Dim)
	for _, e := range entries {
		if y >= bottom {
			break
		}
		t.drawText(startX, y, truncateString(e.Title, width), t.entryStyle(e))
		y++
		for _, line := range e.Details {
			if y >= bottom {
				break
			}
			t.drawText(startX, y, truncateString(line, width), detail)
			y++
		}
	}
}

func (t *TUI) entryStyle(e dashboard.Entry) tcell.Style {
	switch e.Kind {
	case dashboard.KindAlert, dashboard.KindBlocked:
		return tcell.StyleDefault.Foreground(t.theme.Alert).Bold(true)
	case dashboard.KindIntegrity:
		return tcell.StyleDefault.Foreground(t.theme.StatusWarn)
	}
	return tcell.StyleDefault.Foreground(t.theme.Text)
}

func (t *TUI) renderCommandGuide() {
	text := truncateString(commandGuide, t.width)
	x := (t.width - len([]rune(text))) / 2
	if x < 0 {
		x = 0
	}
	t.drawText(x, t.height-1, text, tcell.StyleDefault.Foreground(t.theme.Header).Bold(true))
}

func truncateString(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-3]) + "..."
}
