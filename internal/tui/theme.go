package tui

import (
	"fmt"
	"sort"

	"github.com/gdamore/tcell/v2"
)

type Theme struct {
	Name        string
	Background  tcell.Color
	Text        tcell.Color
	Dim         tcell.Color
	Globe       tcell.Color
	Origin      tcell.Color
	Alert       tcell.Color // high-risk arcs and entries
	Trace       tcell.Color // low-risk arcs
	Header      tcell.Color
	Separator   tcell.Color
	StatusOk    tcell.Color
	StatusWarn  tcell.Color
	StatusError tcell.Color
}

var themes = map[string]*Theme{
	"default": {
		Name:        "default",
		Background:  tcell.ColorBlack,
		Text:        tcell.ColorWhite,
		Dim:         tcell.ColorGray,
		Globe:       tcell.ColorGreen,
		Origin:      tcell.ColorAqua,
		Alert:       tcell.ColorRed,
		Trace:       tcell.NewRGBColor(255, 150, 0),
		Header:      tcell.ColorYellow,
		Separator:   tcell.ColorGray,
		StatusOk:    tcell.ColorGreen,
		StatusWarn:  tcell.ColorYellow,
		StatusError: tcell.ColorRed,
	},
	"amber": {
		Name:        "amber",
		Background:  tcell.ColorBlack,
		Text:        tcell.NewRGBColor(255, 176, 0),
		Dim:         tcell.NewRGBColor(150, 100, 0),
		Globe:       tcell.NewRGBColor(255, 176, 0),
		Origin:      tcell.NewRGBColor(255, 220, 120),
		Alert:       tcell.NewRGBColor(255, 80, 0),
		Trace:       tcell.NewRGBColor(255, 200, 80),
		Header:      tcell.NewRGBColor(255, 200, 0),
		Separator:   tcell.NewRGBColor(150, 100, 0),
		StatusOk:    tcell.NewRGBColor(255, 176, 0),
		StatusWarn:  tcell.NewRGBColor(255, 200, 80),
		StatusError: tcell.NewRGBColor(255, 80, 0),
	},
	"mono": {
		Name:        "mono",
		Background:  tcell.ColorBlack,
		Text:        tcell.ColorWhite,
		Dim:         tcell.ColorGray,
		Globe:       tcell.ColorWhite,
		Origin:      tcell.ColorWhite,
		Alert:       tcell.ColorWhite,
		Trace:       tcell.ColorGray,
		Header:      tcell.ColorWhite,
		Separator:   tcell.ColorGray,
		StatusOk:    tcell.ColorWhite,
		StatusWarn:  tcell.ColorWhite,
		StatusError: tcell.ColorWhite,
	},
}

// ThemeByName returns the named theme.
func ThemeByName(name string) (*Theme, error) {
	t, ok := themes[name]
	if !ok {
		return nil, fmt.Errorf("unknown theme %q (available: %v)", name, ThemeNames())
	}
	return t, nil
}

func ThemeNames() []string {
	names := make([]string, 0, len(themes))
	for name := range themes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// nextTheme cycles through the themes in name order.
func nextTheme(current *Theme) *Theme {
	names := ThemeNames()
	for i, name := range names {
		if name == current.Name {
			return themes[names[(i+1)%len(names)]]
		}
	}
	return themes[names[0]]
}
