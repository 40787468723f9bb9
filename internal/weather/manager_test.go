package weather

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/InTheBottle/SeasonalWeatherSKSE/internal/catalog"
	"github.com/InTheBottle/SeasonalWeatherSKSE/internal/config"
	"github.com/InTheBottle/SeasonalWeatherSKSE/internal/engine"
	"github.com/InTheBottle/SeasonalWeatherSKSE/internal/engine/enginetest"
)

var (
	sunny  = &enginetest.Weather{ID: 0x10, Name: "SkyrimClear", Flag: engine.FlagPleasant}
	cloudy = &enginetest.Weather{ID: 0x11, Name: "SkyrimCloudy", Flag: engine.FlagCloudy}
	rain   = &enginetest.Weather{ID: 0x12, Name: "SkyrimRain", Flag: engine.FlagRainy}
	snow   = &enginetest.Weather{ID: 0x13, Name: "SkyrimSnow", Flag: engine.FlagSnow}

	tamriel   = &enginetest.World{ID: 0x3C, Name: "Tamriel"}
	solstheim = &enginetest.World{ID: 0x4D, Name: "DLC2SolstheimWorld"}
	sovngarde = &enginetest.World{ID: 0x5E, Name: "Sovngarde"}
)

type fixture struct {
	cfg     *config.Manager
	scanner *catalog.Scanner
	rt      *enginetest.Runtime
	mgr     *Manager

	whiterun, pale, raven, hall, orphan *enginetest.Region
}

func row(w *enginetest.Weather, chance uint32) enginetest.Row {
	return enginetest.Row{W: w, Chance: chance}
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		whiterun: enginetest.NewRegion(1, "WhiterunRegion", tamriel, row(sunny, 60), row(cloudy, 20), row(rain, 20)),
		pale:     enginetest.NewRegion(2, "PaleRegion", tamriel, row(snow, 100), row(cloudy, 40)),
		raven:    enginetest.NewRegion(3, "RavenRockRegion", solstheim, row(snow, 50), row(sunny, 50)),
		hall:     enginetest.NewRegion(4, "SovngardeRegion", sovngarde, row(sunny, 100), row(rain, 10)),
		orphan:   enginetest.NewRegion(5, "Orphan", nil, row(rain, 30)),
	}
	f.cfg = config.NewManager(filepath.Join(t.TempDir(), config.FileName), nil)
	f.scanner = catalog.NewScanner(&enginetest.Source{List: []engine.Region{
		f.whiterun, f.pale, f.raven, f.hall, f.orphan,
	}}, nil)
	if err := f.scanner.Scan(); err != nil {
		t.Fatalf("scan: %v", err)
	}
	f.scanner.InjectMissingWeathers(f.cfg.Get().IsWorldspaceEnabled)
	f.rt = &enginetest.Runtime{Player: tamriel, Month: 0}
	f.mgr = NewManager(f.cfg, f.scanner, f.rt, nil)
	return f
}

func (f *fixture) regions() []*enginetest.Region {
	return []*enginetest.Region{f.whiterun, f.pale, f.raven, f.hall, f.orphan}
}

func (f *fixture) writes() int {
	n := 0
	for _, r := range f.regions() {
		n += r.Tbl.Writes
	}
	return n
}

func TestUpdateTwiceWritesNothingNew(t *testing.T) {
	f := newFixture(t)
	f.mgr.Update()
	first := f.writes()
	if first == 0 {
		t.Fatalf("expected the first update to rewrite tables")
	}
	resets := f.rt.Resets
	f.mgr.Update()
	f.mgr.Update()
	if f.writes() != first {
		t.Fatalf("expected no additional writes, got %d -> %d", first, f.writes())
	}
	if f.rt.Resets != resets {
		t.Fatalf("expected no weather reselection on a no-op update")
	}
	if f.mgr.ApplyCount() != 1 {
		t.Fatalf("expected one apply pass, got %d", f.mgr.ApplyCount())
	}
}

func TestWinterSnowMultiplier(t *testing.T) {
	f := newFixture(t)
	f.mgr.Update()
	if got := f.pale.Tbl.Slots[0].C; got != 250 {
		t.Fatalf("expected 100 * 2.5 = 250, got %d", got)
	}
	want := []uint32{18, 20, 16, 25}
	got := f.whiterun.Tbl.Chances()
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected whiterun winter weights %v, got %v", want, got)
		}
	}
}

func TestAdjustedChance(t *testing.T) {
	winter := engine.DefaultSeasonMultipliers().Get(engine.SeasonWinter)
	summer := engine.DefaultSeasonMultipliers().Get(engine.SeasonSummer)
	cases := []struct {
		name  string
		entry catalog.Entry
		mult  engine.Multipliers
		base  uint32
		want  uint32
	}{
		{"snow in winter", catalog.Entry{BaseChance: 100, Class: engine.ClassSnow}, winter, 10, 250},
		{"global scale", catalog.Entry{BaseChance: 40, Class: engine.ClassPleasant, Scale: enginetest.Global(0.5)}, summer, 10, 30},
		{"snow in summer", catalog.Entry{BaseChance: 80, Class: engine.ClassSnow}, summer, 10, 0},
		{"unknown keeps weight", catalog.Entry{BaseChance: 33, Class: engine.ClassUnknown}, winter, 10, 33},
		{"injected uses synthetic base", catalog.Entry{Class: engine.ClassSnow, Injected: true}, winter, 10, 25},
		{"injected inert with zero base", catalog.Entry{Class: engine.ClassSnow, Injected: true}, winter, 0, 0},
		{"authored zero stays zero", catalog.Entry{Class: engine.ClassSnow}, winter, 10, 0},
		{"negative multiplier clamps", catalog.Entry{BaseChance: 50, Class: engine.ClassRainy}, engine.Multipliers{Rainy: -2}, 10, 0},
		{"two decimal multiplier", catalog.Entry{BaseChance: 100, Class: engine.ClassCloudy}, engine.Multipliers{Cloudy: 0.29}, 10, 29},
	}
	for _, tc := range cases {
		if got := AdjustedChance(tc.entry, tc.mult, tc.base); got != tc.want {
			t.Fatalf("%s: expected %d, got %d", tc.name, tc.want, got)
		}
	}
}

func TestRestoreAfterRepeatedApplies(t *testing.T) {
	f := newFixture(t)
	for i := 0; i < 3; i++ {
		for _, s := range engine.AllSeasons {
			f.mgr.ApplySeasonToRegions(s)
		}
	}
	f.mgr.RestoreBaseChances()

	for _, info := range f.scanner.Regions() {
		live := info.Table
		for i, e := range info.Entries {
			got := live.Slot(i).Chance()
			if i < info.OriginalCount && got != e.BaseChance {
				t.Fatalf("%s[%d]: expected base %d, got %d", info.EditorID, i, e.BaseChance, got)
			}
			if i >= info.OriginalCount && got != 0 {
				t.Fatalf("%s[%d]: expected injected entry zeroed, got %d", info.EditorID, i, got)
			}
		}
	}
}

func TestUnmanagedRegionsNeverWritten(t *testing.T) {
	f := newFixture(t)
	f.mgr.Update()
	for _, s := range engine.AllSeasons {
		f.mgr.SetSeasonOverride(s)
		f.mgr.Update()
	}
	f.mgr.ClearSeasonOverride()
	f.mgr.Update()
	for r, size := range map[*enginetest.Region]int{f.hall: 2, f.orphan: 1} {
		if r.Tbl.Writes != 0 {
			t.Fatalf("%s was written %d times", r.Name, r.Tbl.Writes)
		}
		if r.Tbl.Len() != size {
			t.Fatalf("%s table changed size to %d", r.Name, r.Tbl.Len())
		}
	}
	if f.hall.Tbl.Chances()[0] != 100 || f.orphan.Tbl.Chances()[0] != 30 {
		t.Fatalf("unmanaged weights changed")
	}
}

func TestUnmanagedTableEditedElsewhereIsLeftAlone(t *testing.T) {
	f := newFixture(t)
	f.mgr.Update()
	f.hall.Tbl.Slots[0].C = 77
	f.orphan.Tbl.Slots[0].C = 5
	f.mgr.ForceRefresh()
	f.mgr.Update()
	f.mgr.ApplySeasonToRegions(engine.SeasonWinter)
	if got := f.hall.Tbl.Chances()[0]; got != 77 {
		t.Fatalf("expected the outside edit to survive, got %d", got)
	}
	if got := f.orphan.Tbl.Chances()[0]; got != 5 {
		t.Fatalf("expected the outside edit to survive, got %d", got)
	}
	if f.hall.Tbl.Writes != 0 || f.orphan.Tbl.Writes != 0 {
		t.Fatalf("unmanaged tables written: %d, %d", f.hall.Tbl.Writes, f.orphan.Tbl.Writes)
	}
}

func TestRegionDroppedFromManagedSetIsRestored(t *testing.T) {
	f := newFixture(t)
	f.mgr.Update()
	if f.raven.Tbl.Chances()[0] == 50 {
		t.Fatalf("expected solstheim to be seasonal while managed")
	}
	f.cfg.Update(func(c *config.Config) { c.DisableWorldspace(config.WorldspaceSolstheim) })
	f.mgr.ForceRefresh()
	f.mgr.Update()
	got := f.raven.Tbl.Chances()
	if got[0] != 50 || got[1] != 50 {
		t.Fatalf("expected solstheim back at base, got %v", got)
	}

	// Once restored, the region is no longer ours: later applies leave it alone.
	f.raven.Tbl.Slots[0].C = 9
	f.mgr.ForceRefresh()
	f.mgr.Update()
	if got := f.raven.Tbl.Chances()[0]; got != 9 {
		t.Fatalf("released region was written again: %d", got)
	}
}

func TestOverrideWinsOverCalendar(t *testing.T) {
	f := newFixture(t)
	f.rt.SetMonth(6)
	if f.mgr.EffectiveSeason() != engine.SeasonSummer {
		t.Fatalf("expected summer from the calendar")
	}
	f.mgr.SetSeasonOverride(engine.SeasonWinter)
	if f.mgr.EffectiveSeason() != engine.SeasonWinter {
		t.Fatalf("expected override to win")
	}
	f.mgr.Update()
	if f.mgr.CurrentSeason() != engine.SeasonWinter || f.pale.Tbl.Slots[0].C != 250 {
		t.Fatalf("expected winter weights under override, season=%s snow=%d", f.mgr.CurrentSeason(), f.pale.Tbl.Slots[0].C)
	}
	f.mgr.ClearSeasonOverride()
	f.mgr.Update()
	if f.mgr.CurrentSeason() != engine.SeasonSummer {
		t.Fatalf("expected calendar season after clearing, got %s", f.mgr.CurrentSeason())
	}
}

func TestOverrideChangeForcesNextUpdate(t *testing.T) {
	f := newFixture(t)
	f.mgr.Update()

	// Same season as the calendar: only the forced refresh can cause this apply.
	f.whiterun.Tbl.Slots[0].C = 999
	f.mgr.SetSeasonOverride(engine.SeasonWinter)
	f.mgr.Update()
	if f.mgr.ApplyCount() != 2 {
		t.Fatalf("expected re-apply after setting an override, got %d passes", f.mgr.ApplyCount())
	}
	if f.whiterun.Tbl.Slots[0].C != 18 {
		t.Fatalf("expected the drifted entry rewritten, got %d", f.whiterun.Tbl.Slots[0].C)
	}

	f.mgr.ClearSeasonOverride()
	f.mgr.Update()
	if f.mgr.ApplyCount() != 3 {
		t.Fatalf("expected re-apply after clearing the override, got %d passes", f.mgr.ApplyCount())
	}
	f.mgr.Update()
	if f.mgr.ApplyCount() != 3 {
		t.Fatalf("expected the forced refresh to be consumed")
	}
}

func TestForceRefreshReapplies(t *testing.T) {
	f := newFixture(t)
	f.mgr.Update()
	resets := f.rt.Resets
	f.mgr.ForceRefresh()
	f.mgr.Update()
	if f.mgr.ApplyCount() != 2 || f.rt.Resets != resets+1 {
		t.Fatalf("expected a forced apply with a weather reset, passes=%d resets=%d", f.mgr.ApplyCount(), f.rt.Resets)
	}
}

func TestDisableRestoresAndStops(t *testing.T) {
	f := newFixture(t)
	f.mgr.Update()
	f.cfg.Update(func(c *config.Config) { c.Enabled = false })
	f.mgr.Update()
	if f.mgr.State() != engine.StateDisabled || f.mgr.IsActive() {
		t.Fatalf("expected disabled state, got %s", f.mgr.State())
	}
	if got := f.pale.Tbl.Chances(); got[0] != 100 || got[1] != 40 || got[2] != 0 {
		t.Fatalf("expected base chances back, got %v", got)
	}
	before := f.writes()
	f.mgr.Update()
	if f.writes() != before {
		t.Fatalf("expected no writes while disabled")
	}
	if f.mgr.StatusString() != "Disabled" {
		t.Fatalf("unexpected status %q", f.mgr.StatusString())
	}

	f.cfg.Update(func(c *config.Config) { c.Enabled = true })
	f.mgr.Update()
	if f.pale.Tbl.Slots[0].C != 250 {
		t.Fatalf("expected weights re-applied after enabling")
	}
}

func TestActiveOnlyInManagedExterior(t *testing.T) {
	f := newFixture(t)
	f.mgr.Update()
	if !f.mgr.IsActive() {
		t.Fatalf("expected active in Tamriel")
	}
	if got := f.mgr.StatusString(); got != "Active - Winter | Tamriel" {
		t.Fatalf("unexpected status %q", got)
	}

	f.rt.MoveTo(sovngarde)
	f.mgr.Update()
	if f.mgr.State() != engine.StateInactive {
		t.Fatalf("expected inactive in an unmanaged worldspace")
	}

	f.rt.MoveTo(nil)
	f.mgr.Update()
	if f.mgr.IsActive() || f.mgr.CurrentWorldSpace() != nil {
		t.Fatalf("expected inactive with no worldspace")
	}
	if !strings.HasPrefix(f.mgr.StatusString(), "Inactive") {
		t.Fatalf("unexpected status %q", f.mgr.StatusString())
	}
	if f.mgr.ApplyCount() != 1 {
		t.Fatalf("moving between worldspaces must not re-apply, got %d passes", f.mgr.ApplyCount())
	}
}

func TestSeasonChangeNotifies(t *testing.T) {
	f := newFixture(t)
	f.mgr.Update()
	if len(f.rt.Notifications()) != 0 {
		t.Fatalf("the first apply is not a season change")
	}
	f.rt.SetMonth(3)
	f.mgr.Update()
	notes := f.rt.Notifications()
	if len(notes) != 1 || !strings.Contains(notes[0], "Spring") {
		t.Fatalf("expected one spring notification, got %v", notes)
	}
	st := f.mgr.Snapshot()
	if st.Season != engine.SeasonSpring || st.MonthName != "Rain's Hand" || st.ApplyCount != 2 {
		t.Fatalf("unexpected snapshot %+v", st)
	}

	f.cfg.Update(func(c *config.Config) { c.Notifications = false })
	f.rt.SetMonth(6)
	f.mgr.Update()
	if len(f.rt.Notifications()) != 1 {
		t.Fatalf("expected notifications suppressed")
	}
}

func TestMissingHostDegradesToNoop(t *testing.T) {
	f := newFixture(t)
	f.rt.NoCalendar = true
	f.rt.NoSky = true
	f.rt.Month = 6
	if f.mgr.EffectiveSeason() != engine.SeasonWinter {
		t.Fatalf("expected month 0 (winter) without a calendar")
	}
	f.mgr.Update()
	if f.mgr.CurrentSeason() != engine.SeasonWinter {
		t.Fatalf("unexpected season %s", f.mgr.CurrentSeason())
	}

	bare := NewManager(f.cfg, nil, nil, nil)
	bare.Update()
	bare.RestoreBaseChances()
	if bare.State() != engine.StateInactive {
		t.Fatalf("expected inactive with no host, got %s", bare.State())
	}
}

func TestInvalidOverrideIgnored(t *testing.T) {
	f := newFixture(t)
	f.mgr.SetSeasonOverride(engine.Season("monsoon"))
	if f.mgr.HasOverride() {
		t.Fatalf("expected unknown season to be rejected")
	}
}
