package ui

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/InTheBottle/SeasonalWeatherSKSE/internal/app"
	"github.com/InTheBottle/SeasonalWeatherSKSE/internal/config"
	"github.com/InTheBottle/SeasonalWeatherSKSE/internal/engine"
	"github.com/InTheBottle/SeasonalWeatherSKSE/internal/util"
)

func testModel(t *testing.T) model {
	t.Helper()
	ds, source, err := app.LoadDataset(context.Background(), util.Config{})
	if err != nil {
		t.Fatalf("dataset: %v", err)
	}
	cfg := config.NewManager(filepath.Join(t.TempDir(), config.FileName), nil)
	a, err := app.New(cfg, ds, 1, nil)
	if err != nil {
		t.Fatalf("app: %v", err)
	}
	a.Source = source
	if err := a.Load(); err != nil {
		t.Fatalf("load: %v", err)
	}
	return newModel(a, "test")
}

func press(m model, keys ...string) model {
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		case "tab":
			msg = tea.KeyMsg{Type: tea.KeyTab}
		case "backspace":
			msg = tea.KeyMsg{Type: tea.KeyBackspace}
		case "up":
			msg = tea.KeyMsg{Type: tea.KeyUp}
		case "down":
			msg = tea.KeyMsg{Type: tea.KeyDown}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		next, _ := m.Update(msg)
		m = next.(model)
	}
	return m
}

func typeText(m model, text string) model {
	for _, r := range text {
		m = press(m, string(r))
	}
	return m
}

func TestTabCyclesPrimaryViews(t *testing.T) {
	m := testModel(t)
	want := []string{viewSettings, viewRegions, viewDebug, viewStatus}
	for _, v := range want {
		m = press(m, "tab")
		if m.view != v {
			t.Fatalf("expected %s, got %s", v, m.view)
		}
	}
	m = press(m, "?")
	if m.view != viewHelp || m.helpRendered == "" || m.View() == "" {
		t.Fatalf("expected rendered help")
	}
	m = press(m, "esc")
	if m.view != viewStatus {
		t.Fatalf("esc should return to status, got %s", m.view)
	}
}

func TestStatusViewShowsActiveSeason(t *testing.T) {
	m := testModel(t)
	out := m.View()
	for _, want := range []string{"Active - Summer | Tamriel", "WhiterunRegion", "Last Seed"} {
		if !strings.Contains(out, want) {
			t.Fatalf("status view missing %q:\n%s", want, out)
		}
	}
}

func TestSettingsToggleEnabled(t *testing.T) {
	m := testModel(t)
	m = press(m, "tab", "enter")
	if m.app.Config.Get().Enabled {
		t.Fatalf("expected framework disabled")
	}
	if m.app.Weather.State() != engine.StateDisabled {
		t.Fatalf("expected engine disabled, got %s", m.app.Weather.State())
	}
	m = press(m, "enter")
	if !m.app.Weather.IsActive() {
		t.Fatalf("expected engine active again")
	}
}

func TestSettingsAdjustMonthAndMultiplier(t *testing.T) {
	m := testModel(t)
	m = press(m, "tab")
	for i := 0; i < 4; i++ {
		m = press(m, "j")
	}
	m = press(m, "h")
	if got := m.app.Config.Get().Months.SpringStart; got != 1 {
		t.Fatalf("expected spring start 1, got %d", got)
	}
	for m.cursor < len(m.fields)-1 {
		m = press(m, "down")
	}
	m = press(m, "l", "l")
	if got := m.app.Config.Get().MultipliersFor(engine.SeasonWinter).Snow; got != 2.7 {
		t.Fatalf("expected winter snow 2.7, got %v", got)
	}
	// Multipliers never go negative.
	for i := 0; i < 40; i++ {
		m = press(m, "-")
	}
	if got := m.app.Config.Get().MultipliersFor(engine.SeasonWinter).Snow; got != 0 {
		t.Fatalf("expected clamp at 0, got %v", got)
	}
}

func TestAddWorldspaceSuggestsKnownName(t *testing.T) {
	m := testModel(t)
	m = press(m, "tab", "w")
	m = typeText(m, "sovngard")
	m = press(m, "enter")
	if m.inputMode != inputAddWorldspace || m.input != "Sovngarde" {
		t.Fatalf("expected the prompt to hold the suggestion, got %q %q", m.inputMode, m.input)
	}
	if !strings.Contains(m.flash, "did you mean Sovngarde") {
		t.Fatalf("unexpected flash %q", m.flash)
	}
	m = press(m, "enter")
	if !m.app.Config.Get().IsWorldspaceEnabled("Sovngarde") {
		t.Fatalf("expected Sovngarde enabled")
	}
	m = press(m, "x")
	m = typeText(m, "Sovngarde")
	m = press(m, "enter")
	if m.app.Config.Get().IsWorldspaceEnabled("Sovngarde") {
		t.Fatalf("expected Sovngarde disabled")
	}
}

func TestInputEscapeCancels(t *testing.T) {
	m := testModel(t)
	m = press(m, "tab", "w")
	m = typeText(m, "Tamr")
	m = press(m, "backspace", "esc")
	if m.inputMode != inputNone || m.input != "" {
		t.Fatalf("expected prompt closed")
	}
	// Keys reach the view again once the prompt is closed.
	m = press(m, "j")
	if m.cursor != 1 {
		t.Fatalf("expected cursor 1, got %d", m.cursor)
	}
}

func TestOverrideCycle(t *testing.T) {
	m := testModel(t)
	for _, want := range engine.AllSeasons {
		m = press(m, "o")
		if !m.app.Weather.HasOverride() || m.app.Weather.Override() != want {
			t.Fatalf("expected override %s", want)
		}
		if m.app.Weather.CurrentSeason() != want {
			t.Fatalf("override %s not applied, season %s", want, m.app.Weather.CurrentSeason())
		}
	}
	m = press(m, "o")
	if m.app.Weather.HasOverride() {
		t.Fatalf("expected Auto after Winter")
	}
}

func TestSimulationControls(t *testing.T) {
	m := testModel(t)
	before := m.app.World.Date()
	m = press(m, "h")
	if m.app.World.Date().Hour != before.Hour+1 {
		t.Fatalf("expected one hour later, got %v", m.app.World.Date())
	}
	m = press(m, "m")
	if m.app.World.Date().Month != before.Month+1 {
		t.Fatalf("expected next month")
	}
	m = press(m, "i")
	if !m.app.World.Player().Interior {
		t.Fatalf("expected interior")
	}
	m = press(m, "i", "g")
	if p := m.app.World.Player(); p.Worldspace == "Tamriel" || p.Interior {
		t.Fatalf("expected travel to another exterior worldspace, got %+v", p)
	}
}

func TestRegionBrowser(t *testing.T) {
	m := testModel(t)
	m = press(m, "tab", "tab")
	if !strings.Contains(m.View(), "SovngardeRegion") {
		t.Fatalf("expected every region listed")
	}
	m = press(m, "f")
	if strings.Contains(m.View(), "SovngardeRegion") {
		t.Fatalf("managed filter should hide Sovngarde")
	}
	m = press(m, "enter")
	if !m.regionDetail || !strings.Contains(m.View(), "Current") {
		t.Fatalf("expected the weather table")
	}
	m = press(m, "esc")
	if m.regionDetail || m.view != viewRegions {
		t.Fatalf("esc should close the table first")
	}
}

func TestThemeCycle(t *testing.T) {
	m := testModel(t)
	if m.theme != themeAuto {
		t.Fatalf("expected the auto theme first, got %q", m.theme)
	}
	m = press(m, "t")
	if m.theme != string(engine.SeasonSpring) {
		t.Fatalf("expected spring after auto, got %q", m.theme)
	}
	for i := 0; i < 4; i++ {
		m = press(m, "t")
	}
	if m.theme != themeAuto {
		t.Fatalf("theme cycle should wrap to auto, got %q", m.theme)
	}
}

func TestAutoThemeFollowsSeason(t *testing.T) {
	summer := stylesFor(themeAuto, engine.SeasonSummer)
	winter := stylesFor(themeAuto, engine.SeasonWinter)
	if summer.title.GetForeground() == winter.title.GetForeground() {
		t.Fatalf("auto theme should change with the season")
	}
	if stylesFor(themeAuto, "").title.GetForeground() != winter.title.GetForeground() {
		t.Fatalf("no season yet should fall back to winter")
	}
}
