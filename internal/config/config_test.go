package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/InTheBottle/SeasonalWeatherSKSE/internal/engine"
)

func TestLoadMissingFileWritesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", FileName)
	m := NewManager(path, nil)
	if err := m.Load(); err != nil {
		t.Fatalf("load: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("expected defaults to be written: %v", err)
	}
	for _, want := range []string{"[General]", "[SeasonMonths]", "[Worldspaces]", "[Transitions]", "[WinterMultipliers]", "sEnabledWorldspaces"} {
		if !strings.Contains(string(data), want) {
			t.Fatalf("expected %q in written file:\n%s", want, data)
		}
	}
	if !m.Get().IsWorldspaceEnabled(WorldspaceTamriel) {
		t.Fatalf("expected Tamriel managed by default")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	m := NewManager(path, nil)
	m.Update(func(c *Config) {
		c.Debug = true
		c.Notifications = false
		c.InjectedBaseChance = 0
		c.Months.FallEnd = 9
		c.EnableWorldspace("Falskaar")
		c.DisableWorldspace(WorldspaceSolstheim)
		w := c.Multipliers[engine.SeasonWinter]
		w.Snow = 3.25
		c.Multipliers[engine.SeasonWinter] = w
	})
	if err := m.Save(); err != nil {
		t.Fatalf("save: %v", err)
	}

	other := NewManager(path, nil)
	if err := other.Load(); err != nil {
		t.Fatalf("load: %v", err)
	}
	got := other.Get()
	if !got.Debug || got.Notifications || got.InjectedBaseChance != 0 || got.Months.FallEnd != 9 {
		t.Fatalf("general/months did not round trip: %+v", got)
	}
	if got.Multipliers.Get(engine.SeasonWinter).Snow != 3.25 {
		t.Fatalf("expected winter snow 3.25, got %v", got.Multipliers.Get(engine.SeasonWinter).Snow)
	}
	if strings.Join(got.Worldspaces, ",") != "Falskaar,Tamriel" {
		t.Fatalf("unexpected worldspaces %v", got.Worldspaces)
	}
}

func TestMalformedValuesKeepPrevious(t *testing.T) {
	src := `
[General]
bEnabled = maybe
bDebugMode = yes
iInjectedBaseChance = -4

[SeasonMonths]
iSpringStart = three
iSpringEnd = 3

[SpringMultipliers]
fRainy = lots
fSnow = 0.25

[Bogus]
x = 1
`
	got, bad, err := Parse(Default(), []byte(src))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if !got.Enabled || !got.Debug {
		t.Fatalf("expected enabled kept and debug parsed, got %+v", got)
	}
	if got.InjectedBaseChance != DefaultInjectedBaseChance {
		t.Fatalf("expected injected base kept, got %d", got.InjectedBaseChance)
	}
	if got.Months.SpringStart != 2 || got.Months.SpringEnd != 3 {
		t.Fatalf("unexpected spring range %+v", got.Months)
	}
	spring := got.Multipliers.Get(engine.SeasonSpring)
	if spring.Rainy != 1.5 || spring.Snow != 0.25 {
		t.Fatalf("unexpected spring multipliers %+v", spring)
	}
	if len(bad) != 4 {
		t.Fatalf("expected 4 malformed keys, got %v", bad)
	}
}

func TestInjectedBaseChanceOutOfRange(t *testing.T) {
	for _, raw := range []string{"4294967296", "-1", "99999999999"} {
		got, bad, err := Parse(Default(), []byte("[General]\niInjectedBaseChance = "+raw+"\n"))
		if err != nil {
			t.Fatalf("parse %s: %v", raw, err)
		}
		if got.InjectedBaseChance != DefaultInjectedBaseChance {
			t.Fatalf("%s: expected the default kept, got %d", raw, got.InjectedBaseChance)
		}
		if len(bad) != 1 || bad[0] != "General.iInjectedBaseChance" {
			t.Fatalf("%s: expected the key reported as malformed, got %v", raw, bad)
		}
	}
	got, _, _ := Parse(Default(), []byte("[General]\niInjectedBaseChance = 4294967295\n"))
	if got.InjectedBaseChance != 4294967295 {
		t.Fatalf("expected the 32-bit maximum accepted, got %d", got.InjectedBaseChance)
	}
}

func TestLegacyWorldspaceToggles(t *testing.T) {
	src := `
[Worldspaces]
sEnabledWorldspaces = Falskaar, Tamriel ,,Falskaar
bEnableSolstheim = true
bEnableTamriel = false
`
	got, _, err := Parse(Default(), []byte(src))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if strings.Join(got.Worldspaces, ",") != "DLC2SolstheimWorld,Falskaar" {
		t.Fatalf("unexpected worldspaces %v", got.Worldspaces)
	}
}

func TestTransitionsSectionIgnored(t *testing.T) {
	src := "[Transitions]\nbSmoothTransitions = true\nfTransitionSpeed = 2.0\n"
	got, bad, err := Parse(Default(), []byte(src))
	if err != nil || len(bad) != 0 {
		t.Fatalf("unexpected parse result: %v %v", bad, err)
	}
	def := Default()
	if got.Enabled != def.Enabled || got.Months != def.Months {
		t.Fatalf("transitions section changed settings: %+v", got)
	}
}

func TestGetReturnsCopy(t *testing.T) {
	m := NewManager(filepath.Join(t.TempDir(), FileName), nil)
	c := m.Get()
	c.Worldspaces[0] = "Mutated"
	c.Multipliers[engine.SeasonSummer] = engine.Multipliers{}
	again := m.Get()
	if again.Worldspaces[0] == "Mutated" || again.Multipliers.Get(engine.SeasonSummer).Pleasant != 1.5 {
		t.Fatalf("Get leaked internal state")
	}
}

func TestResetToDefaults(t *testing.T) {
	m := NewManager(filepath.Join(t.TempDir(), FileName), nil)
	m.Update(func(c *Config) { c.Enabled = false; c.Worldspaces = nil })
	m.ResetToDefaults()
	got := m.Get()
	if !got.Enabled || len(got.Worldspaces) != 2 {
		t.Fatalf("expected defaults, got %+v", got)
	}
}

func TestValidateWarnings(t *testing.T) {
	if w := Default().Validate(); len(w) != 0 {
		t.Fatalf("expected defaults to validate cleanly, got %v", w)
	}
	c := Default()
	c.Months.SummerStart = 4
	c.Months.FallStart = 12
	c.Months.FallEnd = 11
	c.Multipliers[engine.SeasonFall] = engine.Multipliers{Pleasant: -1, Cloudy: 1, Rainy: 1, Snow: 1}
	w := c.Validate()
	joined := strings.Join(w, "\n")
	for _, want := range []string{"Spring (2-4) overlaps Summer (4-7); Spring wins", "Fall month 12", "Fall starts after it ends", "negative"} {
		if !strings.Contains(joined, want) {
			t.Fatalf("expected warning containing %q, got:\n%s", want, joined)
		}
	}
	if c.SeasonForMonth(4) != engine.SeasonSpring {
		t.Fatalf("validation must not change precedence")
	}
}

func TestSuggestWorldspace(t *testing.T) {
	known := []string{"Tamriel", "DLC2SolstheimWorld", "Sovngarde"}
	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{"tamriel", "Tamriel", true},
		{"Tamrial", "Tamriel", true},
		{"DLC2SolstheimWrld", "DLC2SolstheimWorld", true},
		{"Falskaar", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, ok := SuggestWorldspace(tc.in, known)
		if got != tc.want || ok != tc.ok {
			t.Fatalf("SuggestWorldspace(%q): expected %q/%v, got %q/%v", tc.in, tc.want, tc.ok, got, ok)
		}
	}
	unknown := Config{Worldspaces: []string{"Tamrial", "Tamriel"}}.UnknownWorldspaces(known)
	if len(unknown) != 1 || unknown["Tamrial"] != "Tamriel" {
		t.Fatalf("unexpected unknown worldspaces %v", unknown)
	}
}
