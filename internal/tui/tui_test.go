package tui

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aura-radar/internal/api"
	"aura-radar/internal/dashboard"
	"aura-radar/internal/risk"
	"aura-radar/internal/runloop"
	"aura-radar/internal/trace"
)

var start = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

type harness struct {
	screen tcell.SimulationScreen
	board  *dashboard.Board
	layer  *trace.Layer
	ui     *TUI
	now    time.Time
}

func newHarness(t *testing.T, w, h int) *harness {
	t.Helper()

	screen := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, screen.Init())
	screen.SetSize(w, h)
	t.Cleanup(screen.Fini)

	hs := &harness{
		screen: screen,
		board:  dashboard.NewBoard(dashboard.DefaultOptions()),
		layer:  trace.NewLayer(),
		now:    start,
	}
	hs.board.SetClock(func() time.Time { return hs.now })
	hs.ui = New(screen, runloop.Immediate{}, hs.board, hs.layer, Options{
		Origin: trace.Point{Lat: 39.0997, Lon: -94.5786},
		Now:    func() time.Time { return hs.now },
	}, zerolog.Nop())
	return hs
}

func (hs *harness) row(y int) string {
	w, _ := hs.screen.Size()
	var sb strings.Builder
	for x := 0; x < w; x++ {
		r, _, _, _ := hs.screen.GetContent(x, y)
		if r == 0 {
			r = ' '
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

func (hs *harness) text() string {
	_, h := hs.screen.Size()
	rows := make([]string, h)
	for y := range rows {
		rows[y] = hs.row(y)
	}
	return strings.Join(rows, "\n")
}

func (hs *harness) key(k tcell.Key, r rune) {
	hs.ui.handleEvent(tcell.NewEventKey(k, r, tcell.ModNone))
}

func TestDrawShowsStatusAndActiveRegion(t *testing.T) {
	hs := newHarness(t, 140, 40)

	hs.board.SetStatus(api.Result[api.StatusSnapshot]{Value: api.StatusSnapshot{Mode: api.ModeLearning, TimeRemaining: 42}})
	hs.board.AddConnection(api.ConnectionRecord{ExternalIP: "203.0.113.9", Country: "NL", Score: 0.91}, risk.HighRisk)
	hs.board.AddConnection(api.ConnectionRecord{ExternalIP: "198.51.100.7", Score: 0.12}, risk.LowRisk)

	hs.ui.draw(hs.now)

	assert.Contains(t, hs.row(0), "42s remaining")
	assert.Contains(t, hs.row(0), "[+]")

	screen := hs.text()
	assert.Contains(t, screen, "203.0.113.9")
	assert.NotContains(t, screen, "198.51.100.7", "logs tab is not active")
	assert.Contains(t, screen, "Alerts (1/40)")
}

func TestStatusErrorIndicator(t *testing.T) {
	hs := newHarness(t, 140, 40)
	hs.board.SetStatus(api.Result[api.StatusSnapshot]{Err: assert.AnError})

	hs.ui.draw(hs.now)

	assert.Contains(t, hs.row(0), "[-]")
	assert.Contains(t, hs.row(0), "Error")
}

func TestTabKeys(t *testing.T) {
	hs := newHarness(t, 140, 40)
	hs.board.ReplaceBlocked([]string{"10.9.8.7"})

	hs.key(tcell.KeyRune, '3')
	assert.Equal(t, dashboard.TabBlocked, hs.board.Tabs.Active())
	assert.Contains(t, hs.text(), "10.9.8.7")

	hs.key(tcell.KeyTab, 0)
	assert.Equal(t, dashboard.TabIntegrity, hs.board.Tabs.Active())

	hs.key(tcell.KeyTab, 0)
	assert.Equal(t, dashboard.TabAlerts, hs.board.Tabs.Active())

	hs.key(tcell.KeyBacktab, 0)
	assert.Equal(t, dashboard.TabIntegrity, hs.board.Tabs.Active())

	hs.key(tcell.KeyRune, '9')
	assert.Equal(t, dashboard.TabIntegrity, hs.board.Tabs.Active())
}

func TestPauseStopsRotation(t *testing.T) {
	hs := newHarness(t, 140, 40)

	hs.ui.frame()
	before := hs.ui.rotation
	hs.now = hs.now.Add(time.Second)
	hs.ui.frame()
	assert.NotEqual(t, before, hs.ui.rotation)

	hs.key(tcell.KeyRune, ' ')
	require.True(t, hs.ui.Paused())

	paused := hs.ui.rotation
	hs.now = hs.now.Add(time.Second)
	hs.ui.frame()
	assert.Equal(t, paused, hs.ui.rotation)
	assert.Contains(t, hs.row(0), "paused")
}

func TestQuitKeys(t *testing.T) {
	for name, ev := range map[string]*tcell.EventKey{
		"q":      tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone),
		"x":      tcell.NewEventKey(tcell.KeyRune, 'x', tcell.ModNone),
		"escape": tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone),
		"ctrl-c": tcell.NewEventKey(tcell.KeyCtrlC, 0, tcell.ModNone),
	} {
		t.Run(name, func(t *testing.T) {
			hs := newHarness(t, 140, 40)
			hs.ui.handleEvent(ev)
			select {
			case <-hs.ui.quit:
			default:
				t.Fatal("quit not signalled")
			}
		})
	}
}

func TestForceScanKey(t *testing.T) {
	hs := newHarness(t, 140, 40)
	called := make(chan struct{}, 1)
	hs.ui.opts.ForceScan = func(ctx context.Context) error {
		called <- struct{}{}
		return nil
	}

	hs.key(tcell.KeyRune, 'f')

	select {
	case <-called:
	case <-time.After(time.Second):
		t.Fatal("force scan not started")
	}
	assert.Contains(t, hs.row(0), "Integrity scan requested")
}

func TestThemeCycle(t *testing.T) {
	hs := newHarness(t, 140, 40)
	require.Equal(t, "default", hs.ui.Theme().Name)

	hs.key(tcell.KeyRune, 't')
	assert.Equal(t, "mono", hs.ui.Theme().Name)
	hs.key(tcell.KeyRune, 't')
	assert.Equal(t, "amber", hs.ui.Theme().Name)
	hs.key(tcell.KeyRune, 't')
	assert.Equal(t, "default", hs.ui.Theme().Name)
}

func TestThemeByName(t *testing.T) {
	th, err := ThemeByName("amber")
	require.NoError(t, err)
	assert.Equal(t, "amber", th.Name)

	_, err = ThemeByName("rainbow")
	assert.Error(t, err)
}

func TestArcsDrawnWithSeverityColor(t *testing.T) {
	hs := newHarness(t, 140, 40)
	animator := trace.NewAnimator(hs.layer, runloop.Immediate{}, trace.Options{
		AfterFunc: func(time.Duration, func()) {},
		Now:       func() time.Time { return hs.now },
	})
	// Near the origin so the whole arc faces the viewer.
	animator.Draw(hs.ui.opts.Origin, trace.Point{Lat: 30, Lon: -80}, risk.HighRisk)

	hs.ui.draw(hs.now)

	found := false
	w, h := hs.screen.Size()
	for y := 0; y < h && !found; y++ {
		for x := 0; x < w; x++ {
			r, _, style, _ := hs.screen.GetContent(x, y)
			if r == '*' {
				fg, _, _ := style.Decompose()
				assert.Equal(t, hs.ui.Theme().Alert, fg)
				found = true
				break
			}
		}
	}
	assert.True(t, found, "arc head drawn")
	assert.Contains(t, hs.row(0), "arcs:1")
}

func TestResizeTooSmall(t *testing.T) {
	hs := newHarness(t, 140, 40)
	hs.screen.SetSize(40, 10)
	hs.ui.handleEvent(tcell.NewEventResize(40, 10))

	assert.Contains(t, hs.row(0), "Terminal too small")
}

func TestTrailFadesThroughLifetime(t *testing.T) {
	assert.True(t, trailVisible(0, 1), "fresh trace shows the origin end")
	assert.True(t, trailVisible(0.5, 0.6))
	assert.False(t, trailVisible(0.2, 0.6))
	assert.True(t, trailVisible(0.95, 0.1), "near the end the head segment remains")
	assert.False(t, trailVisible(0.5, 0.1))
}

func TestTruncateString(t *testing.T) {
	assert.Equal(t, "abc", truncateString("abc", 5))
	assert.Equal(t, "ab...", truncateString("abcdefgh", 5))
	assert.Equal(t, "ab", truncateString("abcdefgh", 2))
}
