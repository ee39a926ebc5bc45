// Package tui draws the radar on a terminal: the rotating globe with its
// connection arcs on the left, the tabbed event panel on the right.
//
// Everything except the event pump runs on the run loop. Key presses and
// frame ticks are posted there, so the board and trace layer are read
// without locks.
package tui

import (
	"context"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rs/zerolog"

	"aura-radar/internal/dashboard"
	"aura-radar/internal/globe"
	"aura-radar/internal/runloop"
	"aura-radar/internal/trace"
)

const (
	minWidth  = 60
	minHeight = 20

	// flashTTL is how long a notice stays on the status line.
	flashTTL = 4 * time.Second
)

type Options struct {
	Theme          *Theme
	RotationPeriod time.Duration
	RefreshRate    time.Duration
	AspectRatio    float64
	ArcStyle       globe.ArcStyle
	Origin         trace.Point

	// ForceScan is called off the run loop when the user presses f.
	ForceScan func(ctx context.Context) error

	Now func() time.Time
}

type TUI struct {
	screen tcell.Screen
	poster runloop.Poster
	board  *dashboard.Board
	layer  *trace.Layer
	opts   Options
	log    zerolog.Logger

	theme  *Theme
	width  int
	height int
	globe  *globe.Globe

	rotation  float64
	paused    bool
	lastFrame time.Time

	ctx      context.Context
	quit     chan struct{}
	quitOnce sync.Once
}

// Open initialises the real terminal.
func Open() (tcell.Screen, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := screen.Init(); err != nil {
		return nil, err
	}
	return screen, nil
}

// New wraps an initialised screen. The caller keeps ownership of the screen
// and calls Fini on it.
func New(screen tcell.Screen, poster runloop.Poster, board *dashboard.Board, layer *trace.Layer, opts Options, log zerolog.Logger) *TUI {
	if opts.Theme == nil {
		opts.Theme = themes["default"]
	}
	if opts.RotationPeriod <= 0 {
		opts.RotationPeriod = 30 * time.Second
	}
	if opts.RefreshRate <= 0 {
		opts.RefreshRate = 100 * time.Millisecond
	}
	if opts.AspectRatio <= 0 {
		opts.AspectRatio = 2.0
	}
	if opts.ArcStyle == "" {
		opts.ArcStyle = globe.ArcCurved
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	t := &TUI{
		screen:   screen,
		poster:   poster,
		board:    board,
		layer:    layer,
		opts:     opts,
		log:      log.With().Str("component", "tui").Logger(),
		theme:    opts.Theme,
		rotation: opts.Origin.Lon,
		ctx:      context.Background(),
		quit:     make(chan struct{}),
	}

	screen.SetStyle(tcell.StyleDefault.Background(t.theme.Background).Foreground(t.theme.Text))
	screen.Clear()
	t.resize()
	return t
}

// Run pumps terminal events and frame ticks onto the run loop until the user
// quits or ctx is canceled.
func (t *TUI) Run(ctx context.Context) error {
	t.ctx = ctx

	events := make(chan tcell.Event, 16)
	stop := make(chan struct{})
	defer close(stop)
	go t.screen.ChannelEvents(events, stop)

	ticker := time.NewTicker(t.opts.RefreshRate)
	defer ticker.Stop()

	t.poster.Post(t.frame)

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-t.quit:
			return nil
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if !t.poster.Post(func() { t.handleEvent(ev) }) {
				return nil
			}
		case <-ticker.C:
			if !t.poster.Post(t.frame) {
				return nil
			}
		}
	}
}

// Quit makes Run return.
func (t *TUI) Quit() {
	t.quitOnce.Do(func() { close(t.quit) })
}

func (t *TUI) handleEvent(ev tcell.Event) {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		t.handleKey(ev)
	case *tcell.EventResize:
		t.resize()
		t.screen.Sync()
		t.draw(t.opts.Now())
	}
}

func (t *TUI) handleKey(ev *tcell.EventKey) {
	switch ev.Key() {
	case tcell.KeyCtrlC, tcell.KeyEscape:
		t.Quit()
		return
	case tcell.KeyTab:
		t.board.Tabs.Next()
	case tcell.KeyBacktab:
		t.board.Tabs.Prev()
	case tcell.KeyRune:
		switch r := ev.Rune(); r {
		case 'q', 'Q', 'x', 'X':
			t.Quit()
			return
		case '1', '2', '3', '4':
			t.board.Tabs.Activate(dashboard.Tab(r - '1'))
		case ' ':
			t.paused = !t.paused
		case 't', 'T':
			t.theme = nextTheme(t.theme)
			t.screen.SetStyle(tcell.StyleDefault.Background(t.theme.Background).Foreground(t.theme.Text))
		case 'f', 'F':
			t.forceScan()
		}
	}
	t.draw(t.opts.Now())
}

func (t *TUI) forceScan() {
	if t.opts.ForceScan == nil {
		return
	}
	t.board.Flash("Integrity scan requested...")
	ctx := t.ctx
	go func() {
		if err := t.opts.ForceScan(ctx); err != nil {
			t.log.Warn().Err(err).Msg("Forced integrity scan failed")
		}
	}()
}

// frame advances the rotation and redraws.
func (t *TUI) frame() {
	now := t.opts.Now()
	if !t.lastFrame.IsZero() && !t.paused {
		dt := now.Sub(t.lastFrame)
		t.rotation = globe.NormalizeLon(t.rotation + 360*float64(dt)/float64(t.opts.RotationPeriod))
	}
	t.lastFrame = now
	t.draw(now)
}

func (t *TUI) resize() {
	t.width, t.height = t.screen.Size()

	// Dynamic panel width: 50% of terminal, minimum 45, maximum 80
	panelWidth := t.width / 2
	if panelWidth < 45 {
		panelWidth = 45
	}
	if panelWidth > 80 {
		panelWidth = 80
	}

	globeWidth := t.width - panelWidth - 3
	if globeWidth < 10 {
		globeWidth = 10
	}

	t.globe = globe.New(globeWidth, t.height-2, t.opts.AspectRatio)
}

// Paused reports whether rotation is stopped.
func (t *TUI) Paused() bool { return t.paused }

// Theme returns the active theme.
func (t *TUI) Theme() *Theme { return t.theme }
