package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/InTheBottle/SeasonalWeatherSKSE/internal/engine"
)

type palette struct {
	Background lipgloss.Color
	Surface    lipgloss.Color
	Text       lipgloss.Color
	Muted      lipgloss.Color
	Accent     lipgloss.Color
	AccentAlt  lipgloss.Color
	Border     lipgloss.Color
	Success    lipgloss.Color
	Warning    lipgloss.Color
}

// themeAuto follows the season the engine currently applies.
const themeAuto = "auto"

// One palette per season, keyed by the season's string value.
var palettes = map[string]palette{
	string(engine.SeasonSpring): {
		Background: lipgloss.Color("#1b2419"),
		Surface:    lipgloss.Color("#2a3826"),
		Text:       lipgloss.Color("#e4f0d8"),
		Muted:      lipgloss.Color("#9fb393"),
		Accent:     lipgloss.Color("#a6e36e"),
		AccentAlt:  lipgloss.Color("#f5a3c7"),
		Border:     lipgloss.Color("#4b6344"),
		Success:    lipgloss.Color("#7fd1a8"),
		Warning:    lipgloss.Color("#f2d479"),
	},
	string(engine.SeasonSummer): {
		Background: lipgloss.Color("#262014"),
		Surface:    lipgloss.Color("#3a311d"),
		Text:       lipgloss.Color("#f7ecd0"),
		Muted:      lipgloss.Color("#bba77e"),
		Accent:     lipgloss.Color("#ffc845"),
		AccentAlt:  lipgloss.Color("#5fc7e8"),
		Border:     lipgloss.Color("#6b5a35"),
		Success:    lipgloss.Color("#9bd66b"),
		Warning:    lipgloss.Color("#ff8a4c"),
	},
	string(engine.SeasonFall): {
		Background: lipgloss.Color("#261a14"),
		Surface:    lipgloss.Color("#3b2a20"),
		Text:       lipgloss.Color("#f0dfcf"),
		Muted:      lipgloss.Color("#b39a86"),
		Accent:     lipgloss.Color("#e8833a"),
		AccentAlt:  lipgloss.Color("#c9a227"),
		Border:     lipgloss.Color("#6a4a38"),
		Success:    lipgloss.Color("#a8b85c"),
		Warning:    lipgloss.Color("#e05a47"),
	},
	string(engine.SeasonWinter): {
		Background: lipgloss.Color("#141c26"),
		Surface:    lipgloss.Color("#222e3d"),
		Text:       lipgloss.Color("#e6eef7"),
		Muted:      lipgloss.Color("#8fa3b8"),
		Accent:     lipgloss.Color("#8cc8ff"),
		AccentAlt:  lipgloss.Color("#b9a6f2"),
		Border:     lipgloss.Color("#3f526a"),
		Success:    lipgloss.Color("#7ad1c4"),
		Warning:    lipgloss.Color("#f2c46d"),
	},
}

func paletteFor(name string) palette {
	if p, ok := palettes[name]; ok {
		return p
	}
	return palettes[string(engine.SeasonWinter)]
}

// themeNames lists auto first, then the seasons in calendar order.
func themeNames() []string {
	names := []string{themeAuto}
	for _, s := range engine.AllSeasons {
		names = append(names, string(s))
	}
	return names
}

func nextThemeName(current string, step int) string {
	names := themeNames()
	idx := 0
	for i, name := range names {
		if name == current {
			idx = i
			break
		}
	}
	idx = ((idx+step)%len(names) + len(names)) % len(names)
	return names[idx]
}

// stylesFor resolves a theme name; auto uses the palette of season.
func stylesFor(theme string, season engine.Season) styles {
	if theme == themeAuto {
		theme = string(season)
	}
	return newStyles(paletteFor(theme))
}

type styles struct {
	title    lipgloss.Style
	label    lipgloss.Style
	value    lipgloss.Style
	muted    lipgloss.Style
	accent   lipgloss.Style
	warning  lipgloss.Style
	success  lipgloss.Style
	selected lipgloss.Style
	bar      lipgloss.Style
	box      lipgloss.Style
	classes  map[engine.WeatherClass]lipgloss.Style
}

func newStyles(p palette) styles {
	return styles{
		title:    lipgloss.NewStyle().Bold(true).Foreground(p.Accent),
		label:    lipgloss.NewStyle().Foreground(p.Muted),
		value:    lipgloss.NewStyle().Foreground(p.Text),
		muted:    lipgloss.NewStyle().Foreground(p.Muted),
		accent:   lipgloss.NewStyle().Foreground(p.AccentAlt),
		warning:  lipgloss.NewStyle().Foreground(p.Warning),
		success:  lipgloss.NewStyle().Foreground(p.Success),
		selected: lipgloss.NewStyle().Bold(true).Foreground(p.Background).Background(p.Accent),
		bar:      lipgloss.NewStyle().Bold(true).Foreground(p.Text).Background(p.Surface),
		box:      lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(p.Border).Padding(0, 1),
		classes: map[engine.WeatherClass]lipgloss.Style{
			engine.ClassPleasant: lipgloss.NewStyle().Foreground(p.Warning),
			engine.ClassCloudy:   lipgloss.NewStyle().Foreground(p.Muted),
			engine.ClassRainy:    lipgloss.NewStyle().Foreground(p.AccentAlt),
			engine.ClassSnow:     lipgloss.NewStyle().Bold(true).Foreground(p.Text),
		},
	}
}

func (s styles) class(c engine.WeatherClass) lipgloss.Style {
	if st, ok := s.classes[c]; ok {
		return st
	}
	return s.muted
}
