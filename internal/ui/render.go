package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/InTheBottle/SeasonalWeatherSKSE/internal/engine"
	"github.com/InTheBottle/SeasonalWeatherSKSE/internal/util"
)

const helpMarkdown = `# Seasonal Weather

Rewrites region weather chances by season. Every weather is classified as *pleasant*,
*cloudy*, *rainy* or *snow*; the season's multiplier for that class scales the authored chance.
Unclassified (quest) weather keeps its chance. Only regions of enabled worldspaces change;
disabling the framework restores every authored chance.

## Keys

| Key | Action |
| --- | --- |
| Tab / Shift+Tab | cycle Status, Settings, Regions, Debug |
| ? | this help |
| o | season override: Auto, Spring, Summer, Fall, Winter |
| r | re-apply weights now |
| S / L / R | save, reload or reset the INI |
| t | cycle theme: auto follows the applied season |
| q | quit |

## Status view

| Key | Action |
| --- | --- |
| h / d / m | wait an hour, a day, skip a month |
| g | travel to the next worldspace |
| n | move to the next region |
| i | enter or leave an interior |

## Settings view

| Key | Action |
| --- | --- |
| j / k | select a setting |
| h / l, - / + | adjust; Enter toggles |
| w / x | enable or disable a worldspace by name |

## Regions view

| Key | Action |
| --- | --- |
| j / k | select a region |
| Enter | show its weather table |
| f | only managed regions |
`

// Layout rendering -----------------------------------------------------------
func (m *model) renderTopBar() string {
	st := m.app.Weather.Snapshot()
	left := strings.Join([]string{
		"SEASONAL WEATHER",
		strings.ToUpper(m.view),
		m.app.World.Date().String(),
	}, " • ")
	right := st.Season.Label()
	if st.HasOverride {
		right += " (override)"
	}
	w := m.width
	if w <= 0 {
		w = 100
	}
	gap := w - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}
	return m.styles.bar.Render(" " + left + strings.Repeat(" ", gap) + right + " ")
}

func (m *model) renderBottomBar() string {
	var keys string
	switch m.view {
	case viewStatus:
		keys = "[h/d/m] wait hour/day/month  [g] worldspace  [n] region  [i] interior"
	case viewSettings:
		keys = "[j/k] select  [h/l] adjust  [w] add worldspace  [x] remove worldspace"
	case viewRegions:
		keys = "[j/k] select  [Enter] table  [f] managed only"
	default:
		keys = "[Esc] back"
	}
	keys += "  [o] override  [r] re-apply  [S/L/R] save/load/reset  [t] theme  [?] help  [q] quit"
	line := m.flash
	if m.inputMode != inputNone {
		prompt := "Enable worldspace> "
		if m.inputMode == inputRemoveWorldspace {
			prompt = "Disable worldspace> "
		}
		line = prompt + m.input + "_"
		if m.flash != "" {
			line += "  " + m.flash
		}
	}
	w := m.width
	if w <= 0 {
		w = 100
	}
	if len(line) > w && w > 10 {
		line = line[:w-3] + "..."
	}
	return m.styles.muted.Render(keys) + "\n" + m.styles.accent.Render(line)
}

func (m *model) row(label, value string) string {
	return m.styles.label.Render(fmt.Sprintf("%-14s", label)) + " " + m.styles.value.Render(value) + "\n"
}

func (m *model) renderStatus() string {
	st := m.app.Weather.Snapshot()
	cfg := m.app.Config.Get()
	var b strings.Builder

	summary := m.styles.success
	if st.State != engine.StateActive {
		summary = m.styles.warning
	}
	b.WriteString(m.styles.title.Render("STATUS") + "  " + summary.Render(st.Summary) + "\n\n")

	date := m.app.World.Date()
	b.WriteString(m.row("Date", date.String()))
	season := cfg.SeasonForMonth(date.Month).Label()
	override := "Auto"
	if st.HasOverride {
		override = st.Override.Label()
	}
	b.WriteString(m.row("Season", fmt.Sprintf("%s by calendar, override %s, applied %s", season, override, st.Season.Label())))

	p := m.app.World.Player()
	where := p.Worldspace
	if where == "" {
		where = "(no worldspace)"
	}
	if p.Region != "" {
		where += " / " + p.Region
	}
	if p.Interior {
		where += " (interior)"
	}
	b.WriteString(m.row("Player", where))

	sky := m.app.World.CurrentWeather()
	if sky == "" {
		sky = "(none)"
	}
	class := m.app.World.CurrentWeatherClass()
	b.WriteString(m.styles.label.Render(fmt.Sprintf("%-14s", "Weather")) + " " +
		m.styles.class(class).Render(sky+" ("+class.Label()+")") + "\n")
	b.WriteString(m.row("Applies", fmt.Sprintf("%d (last pass wrote %d chances)", st.ApplyCount, st.LastWrites)))

	b.WriteString("\n" + m.styles.title.Render("NOTIFICATIONS") + "\n")
	notes := m.app.World.Notifications()
	if len(notes) == 0 {
		b.WriteString(m.styles.muted.Render("(none)") + "\n")
	}
	if len(notes) > 5 {
		notes = notes[len(notes)-5:]
	}
	for _, n := range notes {
		b.WriteString("- " + n + "\n")
	}

	if warnings := m.app.Warnings(); len(warnings) > 0 {
		b.WriteString("\n" + m.styles.title.Render("WARNINGS") + "\n")
		for _, w := range warnings {
			b.WriteString(m.styles.warning.Render("! "+w) + "\n")
		}
	}
	return b.String()
}

func (m *model) renderSettings() string {
	cfg := m.app.Config.Get()
	var b strings.Builder
	b.WriteString(m.styles.title.Render("SETTINGS") + "  " + m.styles.muted.Render(m.app.Config.Path()) + "\n\n")
	for i, f := range m.fields {
		if i == 4 {
			b.WriteString("\n" + m.styles.muted.Render("Season months (0 = Morning Star)") + "\n")
		}
		if i == 10 {
			b.WriteString("\n" + m.styles.muted.Render("Multipliers") + "\n")
		}
		line := fmt.Sprintf("%-22s %s", f.label, f.get(cfg))
		if i == m.cursor {
			b.WriteString(m.styles.selected.Render("> "+line) + "\n")
		} else {
			b.WriteString("  " + m.styles.value.Render(line) + "\n")
		}
	}
	b.WriteString("\n" + m.styles.muted.Render("Worldspaces") + "\n")
	if len(cfg.Worldspaces) == 0 {
		b.WriteString(m.styles.warning.Render("  (none enabled)") + "\n")
	}
	for _, ws := range cfg.Worldspaces {
		b.WriteString("  " + ws + "\n")
	}
	return b.String()
}

func (m *model) renderRegions() string {
	regions := m.visibleRegions()
	var b strings.Builder
	title := "REGIONS"
	if m.managedOnly {
		title += " (managed)"
	}
	b.WriteString(m.styles.title.Render(title) + "\n\n")
	if len(regions) == 0 {
		b.WriteString(m.styles.muted.Render("(no regions catalogued)") + "\n")
		return b.String()
	}
	cursor := m.regionCursor
	if cursor >= len(regions) {
		cursor = len(regions) - 1
	}
	if m.regionDetail {
		r := regions[cursor]
		b.WriteString(m.row("Region", r.EditorID+" ["+r.FormID+"]"))
		b.WriteString(m.row("Worldspace", r.Worldspace))
		b.WriteString(m.row("Managed", onOff(r.Managed)))
		b.WriteString("\n" + m.styles.label.Render(fmt.Sprintf("  %-24s %-9s %6s %7s %6s", "Weather", "Class", "Base", "Current", "Scale")) + "\n")
		for _, e := range r.Entries {
			scale := "-"
			if e.Scale != 0 {
				scale = fmt.Sprintf("%.2f", e.Scale)
			}
			mark := " "
			if e.Injected {
				mark = "+"
			}
			line := fmt.Sprintf("%s %-24s %-9s %6d %7d %6s", mark, e.Weather, e.Class.Label(), e.Base, e.Current, scale)
			b.WriteString(m.styles.class(e.Class).Render(line) + "\n")
		}
		b.WriteString("\n" + m.styles.muted.Render("+ injected at load") + "\n")
		return b.String()
	}

	// keep the cursor in a window that fits the terminal
	window := m.height - 8
	if window < 5 {
		window = 20
	}
	start := 0
	if cursor >= window {
		start = cursor - window + 1
	}
	end := start + window
	if end > len(regions) {
		end = len(regions)
	}
	for i := start; i < end; i++ {
		r := regions[i]
		managed := "unmanaged"
		if r.Managed {
			managed = "managed"
		}
		ws := r.Worldspace
		if ws == "" {
			ws = "-"
		}
		line := fmt.Sprintf("%-24s [%s] %-20s %-9s %d entries", r.EditorID, r.FormID, ws, managed, len(r.Entries))
		if r.Injected > 0 {
			line += fmt.Sprintf(" (%d injected)", r.Injected)
		}
		if i == cursor {
			b.WriteString(m.styles.selected.Render("> "+line) + "\n")
		} else {
			b.WriteString("  " + line + "\n")
		}
	}
	return b.String()
}

func (m *model) renderDebug() string {
	s := m.app.Summary()
	var b strings.Builder
	b.WriteString(m.styles.title.Render("DEBUG") + "  " + m.styles.muted.Render("version "+m.version) + "\n\n")
	b.WriteString(m.row("Data source", s.Source))
	b.WriteString(m.row("Config", m.app.Config.Path()))
	b.WriteString(m.row("Log level", util.LevelVar.Level().String()))
	b.WriteString(m.row("Regions", fmt.Sprintf("%d catalogued, %d unique weathers, %d injected entries", s.Regions, s.Weathers, s.Injected)))
	var classes []string
	for _, c := range engine.AllWeatherClasses {
		classes = append(classes, fmt.Sprintf("%s %d", c.Label(), s.Classes[c]))
	}
	b.WriteString(m.row("Classes", strings.Join(classes, ", ")))
	b.WriteString(m.row("Worldspaces", strings.Join(s.Worldspaces, ", ")))
	b.WriteString(m.row("Hook updates", fmt.Sprintf("%d (dropped signals %d)", m.app.Hooks.Updates(), m.app.Hooks.Dropped())))
	b.WriteString(m.row("Table writes", fmt.Sprintf("%d total", m.app.World.TableWrites())))
	b.WriteString(m.row("Sky resets", fmt.Sprintf("%d", m.app.World.SkyResets())))
	return b.String()
}

func (m *model) helpWrap() int {
	if m.width-6 < 40 {
		return 80
	}
	return m.width - 6
}

// prepareHelp renders the help markdown for the current width.
func (m *model) prepareHelp() {
	width := m.helpWrap()
	if m.helpRendered != "" && m.helpWidth == width {
		return
	}
	renderer, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(width))
	if err != nil {
		m.helpRendered, m.helpWidth = helpMarkdown, width
		return
	}
	out, err := renderer.Render(helpMarkdown)
	if err != nil {
		out = helpMarkdown
	}
	m.helpRendered, m.helpWidth = out, width
}

func (m *model) renderHelp() string {
	if m.helpRendered == "" || m.helpWidth != m.helpWrap() {
		m.prepareHelp()
	}
	return m.helpRendered
}
