package ui

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/InTheBottle/SeasonalWeatherSKSE/internal/app"
	"github.com/InTheBottle/SeasonalWeatherSKSE/internal/config"
	"github.com/InTheBottle/SeasonalWeatherSKSE/internal/engine"
)

const (
	viewStatus   = "status"
	viewSettings = "settings"
	viewRegions  = "regions"
	viewDebug    = "debug"
	viewHelp     = "help"
)

var primaryViews = []string{viewStatus, viewSettings, viewRegions, viewDebug}

const (
	inputNone             = ""
	inputAddWorldspace    = "add_worldspace"
	inputRemoveWorldspace = "remove_worldspace"
)

const refreshInterval = time.Second

type refreshMsg time.Time

type model struct {
	app     *app.App
	version string

	view   string
	width  int
	height int
	theme  string
	styles styles
	flash  string

	// settings
	cursor int
	fields []field

	// worldspace text entry
	inputMode string
	input     string

	// region browser
	regionCursor int
	regionDetail bool
	managedOnly  bool

	// help is rendered once per width
	helpRendered string
	helpWidth    int
}

func newModel(a *app.App, version string) model {
	m := model{
		app:     a,
		version: version,
		view:    viewStatus,
		theme:   themeAuto,
		fields:  settingsFields(),
	}
	m.styles = stylesFor(m.theme, a.Weather.CurrentSeason())
	return m
}

func refreshTick() tea.Cmd {
	return tea.Tick(refreshInterval, func(t time.Time) tea.Msg { return refreshMsg(t) })
}

// tea.Model implementation ---------------------------------------------------
func (m model) Init() tea.Cmd { return refreshTick() }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case refreshMsg:
		return m, refreshTick()
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.view == viewHelp {
			m.prepareHelp()
		}
		return m, nil
	case tea.KeyMsg:
		k := msg.String()
		if k == "ctrl+c" {
			return m, tea.Quit
		}
		if m.inputMode != inputNone {
			m.handleInput(msg)
			return m, nil
		}
		switch k {
		case "q":
			return m, tea.Quit
		case "tab":
			m.cycleView(1)
			return m, nil
		case "shift+tab":
			m.cycleView(-1)
			return m, nil
		case "?":
			if m.view == viewHelp {
				m.view = viewStatus
			} else {
				m.view = viewHelp
				m.prepareHelp()
			}
			return m, nil
		case "esc":
			if m.view == viewRegions && m.regionDetail {
				m.regionDetail = false
			} else {
				m.view = viewStatus
			}
			return m, nil
		case "t":
			m.theme = nextThemeName(m.theme, 1)
			m.styles = stylesFor(m.theme, m.app.Weather.CurrentSeason())
			m.flash = "theme: " + m.theme
			return m, nil
		case "o":
			m.cycleOverride()
			return m, nil
		case "r":
			m.app.Reapply()
			m.flash = "weights re-applied: " + m.app.Weather.StatusString()
			return m, nil
		case "S":
			if err := m.app.SaveConfig(); err != nil {
				m.flash = "save failed: " + err.Error()
			} else {
				m.flash = "saved " + m.app.Config.Path()
			}
			return m, nil
		case "L":
			if err := m.app.ReloadConfig(); err != nil {
				m.flash = "load failed: " + err.Error()
			} else {
				m.flash = "loaded " + m.app.Config.Path()
			}
			return m, nil
		case "R":
			m.app.ResetConfig()
			m.flash = "settings reset to defaults (not saved)"
			return m, nil
		}
		switch m.view {
		case viewStatus:
			m.handleSimKey(k)
		case viewSettings:
			m.handleSettingsKey(k)
		case viewRegions:
			m.handleRegionsKey(k)
		}
	}
	return m, nil
}

func (m model) View() string {
	if m.theme == themeAuto {
		m.styles = stylesFor(m.theme, m.app.Weather.CurrentSeason())
	}
	var body string
	switch m.view {
	case viewSettings:
		body = m.renderSettings()
	case viewRegions:
		body = m.renderRegions()
	case viewDebug:
		body = m.renderDebug()
	case viewHelp:
		body = m.renderHelp()
	default:
		body = m.renderStatus()
	}
	box := m.styles.box
	if m.width > 4 {
		box = box.Width(m.width - 2)
	}
	return lipgloss.JoinVertical(lipgloss.Left, m.renderTopBar(), box.Render(body), m.renderBottomBar())
}

func (m *model) cycleView(step int) {
	cur := 0
	for i, v := range primaryViews {
		if v == m.view {
			cur = i
			break
		}
	}
	cur = (cur + step + len(primaryViews)) % len(primaryViews)
	m.view = primaryViews[cur]
}

// cycleOverride steps Auto, Spring, Summer, Fall, Winter and back to Auto.
func (m *model) cycleOverride() {
	w := m.app.Weather
	next := engine.SeasonSpring
	if w.HasOverride() {
		seasons := engine.ListSeasons()
		next = ""
		for i, s := range seasons {
			if s == w.Override() && i+1 < len(seasons) {
				next = seasons[i+1]
			}
		}
	}
	m.app.SetOverride(next)
	if next == "" {
		m.flash = "season override: Auto"
	} else {
		m.flash = "season override: " + next.Label()
	}
}

// Simulation controls ---------------------------------------------------------
func (m *model) handleSimKey(k string) {
	switch k {
	case "h":
		m.app.Wait(1)
		m.flash = "waited 1 hour"
	case "d":
		m.app.Wait(24)
		m.flash = "waited 1 day"
	case "m":
		m.app.SkipMonths(1)
		m.flash = "skipped to " + m.app.World.Date().String()
	case "g":
		m.travelNextWorldspace()
	case "n":
		m.travelNextRegion()
	case "i":
		p := m.app.World.Player()
		if err := m.app.Travel(p.Worldspace, p.Region, !p.Interior); err != nil {
			m.flash = err.Error()
			return
		}
		if p.Interior {
			m.flash = "stepped outside"
		} else {
			m.flash = "entered an interior"
		}
	}
}

func (m *model) travelNextWorldspace() {
	spaces := m.app.World.Worldspaces()
	if len(spaces) == 0 {
		return
	}
	cur := m.app.World.Player().Worldspace
	next := spaces[0]
	for i, ws := range spaces {
		if ws == cur {
			next = spaces[(i+1)%len(spaces)]
			break
		}
	}
	region := ""
	if regions := m.app.World.RegionsIn(next); len(regions) > 0 {
		region = regions[0]
	}
	if err := m.app.Travel(next, region, false); err != nil {
		m.flash = err.Error()
		return
	}
	m.flash = "travelled to " + next
}

func (m *model) travelNextRegion() {
	p := m.app.World.Player()
	regions := m.app.World.RegionsIn(p.Worldspace)
	if len(regions) == 0 {
		m.flash = "no regions in " + p.Worldspace
		return
	}
	next := regions[0]
	for i, r := range regions {
		if r == p.Region {
			next = regions[(i+1)%len(regions)]
			break
		}
	}
	if err := m.app.Travel(p.Worldspace, next, p.Interior); err != nil {
		m.flash = err.Error()
		return
	}
	m.flash = "moved to " + next
}

// Settings ---------------------------------------------------------------------

// field is one editable settings row. adjust receives -1 or +1; toggles ignore it.
type field struct {
	label  string
	get    func(c config.Config) string
	adjust func(c *config.Config, dir int)
}

func boolField(label string, ptr func(c *config.Config) *bool) field {
	return field{
		label:  label,
		get:    func(c config.Config) string { return onOff(*ptr(&c)) },
		adjust: func(c *config.Config, _ int) { p := ptr(c); *p = !*p },
	}
}

func monthField(label string, ptr func(c *config.Config) *int) field {
	return field{
		label: label,
		get: func(c config.Config) string {
			v := *ptr(&c)
			return fmt.Sprintf("%2d %s", v, engine.MonthName(v))
		},
		adjust: func(c *config.Config, dir int) {
			p := ptr(c)
			*p = ((*p+dir)%12 + 12) % 12
		},
	}
}

func multiplierField(s engine.Season, class engine.WeatherClass) field {
	ptr := func(mult *engine.Multipliers) *float64 {
		switch class {
		case engine.ClassPleasant:
			return &mult.Pleasant
		case engine.ClassCloudy:
			return &mult.Cloudy
		case engine.ClassRainy:
			return &mult.Rainy
		default:
			return &mult.Snow
		}
	}
	return field{
		label: s.Label() + " " + class.Label(),
		get: func(c config.Config) string {
			mult := c.MultipliersFor(s)
			return fmt.Sprintf("%.2f", *ptr(&mult))
		},
		adjust: func(c *config.Config, dir int) {
			mult := c.MultipliersFor(s)
			p := ptr(&mult)
			*p = math.Max(0, math.Round((*p+0.1*float64(dir))*100)/100)
			if c.Multipliers == nil {
				c.Multipliers = engine.SeasonMultipliers{}
			}
			c.Multipliers[s] = mult
		},
	}
}

func settingsFields() []field {
	fields := []field{
		boolField("Enabled", func(c *config.Config) *bool { return &c.Enabled }),
		boolField("Notifications", func(c *config.Config) *bool { return &c.Notifications }),
		boolField("Debug logging", func(c *config.Config) *bool { return &c.Debug }),
		{
			label: "Injected base chance",
			get:   func(c config.Config) string { return fmt.Sprintf("%d", c.InjectedBaseChance) },
			adjust: func(c *config.Config, dir int) {
				if (dir < 0 && c.InjectedBaseChance == 0) || (dir > 0 && c.InjectedBaseChance == math.MaxUint32) {
					return
				}
				c.InjectedBaseChance = uint32(int64(c.InjectedBaseChance) + int64(dir))
			},
		},
		monthField("Spring start", func(c *config.Config) *int { return &c.Months.SpringStart }),
		monthField("Spring end", func(c *config.Config) *int { return &c.Months.SpringEnd }),
		monthField("Summer start", func(c *config.Config) *int { return &c.Months.SummerStart }),
		monthField("Summer end", func(c *config.Config) *int { return &c.Months.SummerEnd }),
		monthField("Fall start", func(c *config.Config) *int { return &c.Months.FallStart }),
		monthField("Fall end", func(c *config.Config) *int { return &c.Months.FallEnd }),
	}
	for _, s := range engine.AllSeasons {
		for _, class := range []engine.WeatherClass{engine.ClassPleasant, engine.ClassCloudy, engine.ClassRainy, engine.ClassSnow} {
			fields = append(fields, multiplierField(s, class))
		}
	}
	return fields
}

func (m *model) handleSettingsKey(k string) {
	switch k {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.fields)-1 {
			m.cursor++
		}
	case "left", "h", "-":
		m.adjustField(-1)
	case "right", "l", "+", "=", "enter", " ":
		m.adjustField(1)
	case "w":
		m.inputMode, m.input = inputAddWorldspace, ""
	case "x":
		m.inputMode, m.input = inputRemoveWorldspace, ""
	}
}

func (m *model) adjustField(dir int) {
	f := m.fields[m.cursor]
	m.app.UpdateConfig(func(c *config.Config) { f.adjust(c, dir) })
	m.flash = f.label + ": " + f.get(m.app.Config.Get())
}

// handleInput edits the worldspace prompt; enter commits, esc cancels.
func (m *model) handleInput(msg tea.KeyMsg) {
	switch msg.Type {
	case tea.KeyEsc:
		m.inputMode, m.input = inputNone, ""
		m.flash = "cancelled"
	case tea.KeyEnter:
		m.commitInput()
	case tea.KeyBackspace:
		if len(m.input) > 0 {
			m.input = m.input[:len(m.input)-1]
		}
	case tea.KeyRunes:
		m.input += string(msg.Runes)
	}
}

func (m *model) commitInput() {
	name := strings.TrimSpace(m.input)
	if name == "" {
		m.inputMode = inputNone
		return
	}
	switch m.inputMode {
	case inputAddWorldspace:
		known := m.app.World.Worldspaces()
		if !contains(known, name) {
			if suggestion, ok := config.SuggestWorldspace(name, known); ok && suggestion != name {
				m.input = suggestion
				m.flash = fmt.Sprintf("unknown worldspace %q; did you mean %s? enter to add it", name, suggestion)
				return
			}
		}
		var added bool
		m.app.UpdateConfig(func(c *config.Config) { added = c.EnableWorldspace(name) })
		switch {
		case !added:
			m.flash = name + " is already enabled"
		case !contains(known, name):
			m.flash = "enabled " + name + " (not in the game data)"
		default:
			m.flash = "enabled " + name
		}
	case inputRemoveWorldspace:
		enabled := m.app.Config.Get().Worldspaces
		if !contains(enabled, name) {
			if suggestion, ok := config.SuggestWorldspace(name, enabled); ok {
				name = suggestion
			}
		}
		var removed bool
		m.app.UpdateConfig(func(c *config.Config) { removed = c.DisableWorldspace(name) })
		if removed {
			m.flash = "disabled " + name
		} else {
			m.flash = name + " is not enabled"
		}
	}
	m.inputMode, m.input = inputNone, ""
}

// Region browser ---------------------------------------------------------------
func (m *model) visibleRegions() []app.RegionView {
	all := m.app.Regions("")
	if !m.managedOnly {
		return all
	}
	out := all[:0]
	for _, r := range all {
		if r.Managed {
			out = append(out, r)
		}
	}
	return out
}

func (m *model) handleRegionsKey(k string) {
	n := len(m.visibleRegions())
	switch k {
	case "up", "k":
		if m.regionCursor > 0 {
			m.regionCursor--
		}
	case "down", "j":
		if m.regionCursor < n-1 {
			m.regionCursor++
		}
	case "home":
		m.regionCursor = 0
	case "end":
		m.regionCursor = n - 1
	case "enter":
		m.regionDetail = !m.regionDetail
	case "f":
		m.managedOnly = !m.managedOnly
		m.regionCursor = 0
		m.regionDetail = false
	}
	if m.regionCursor < 0 {
		m.regionCursor = 0
	}
}

func onOff(v bool) string {
	if v {
		return "On"
	}
	return "Off"
}

func contains(list []string, v string) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}
