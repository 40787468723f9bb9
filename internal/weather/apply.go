package weather

import (
	"math"

	"github.com/InTheBottle/SeasonalWeatherSKSE/internal/catalog"
	"github.com/InTheBottle/SeasonalWeatherSKSE/internal/config"
	"github.com/InTheBottle/SeasonalWeatherSKSE/internal/engine"
)

// AdjustedChance computes the weight an entry should carry for a season. It always starts
// from the scanned base, never from the live value, so repeated applies cannot drift.
// Injected entries have no base of their own and use injectedBase instead.
func AdjustedChance(e catalog.Entry, mult engine.Multipliers, injectedBase uint32) uint32 {
	base := float64(e.BaseChance)
	if e.BaseChance == 0 && e.Injected {
		base = float64(injectedBase)
	}
	adjusted := base * mult.For(e.Class)
	if e.Scale != nil {
		adjusted *= e.Scale.Value()
	}
	if adjusted <= 0 || math.IsNaN(adjusted) {
		return 0
	}
	// Two-decimal multipliers are not exact in binary; 100 * 0.29 must land on 29.
	adjusted += 1e-6
	if adjusted >= math.MaxUint32 {
		return math.MaxUint32
	}
	return uint32(adjusted)
}

// ApplySeasonToRegions writes the season's weights into every managed region now,
// regardless of what Update last applied.
func (m *Manager) ApplySeasonToRegions(season engine.Season) {
	cfg := m.settings.Get()
	m.mu.Lock()
	defer m.mu.Unlock()
	m.applyLocked(cfg, season)
}

func (m *Manager) applyLocked(cfg config.Config, season engine.Season) {
	if m.catalog == nil {
		return
	}
	mult := cfg.MultipliersFor(season)
	regions, writes := 0, 0

	m.catalog.ForEach(func(info *catalog.RegionInfo) {
		if info.Table == nil {
			return
		}
		if !cfg.IsWorldspaceEnabled(info.WorldSpaceID()) {
			// A region that left the managed set goes back to its base once; others are
			// never touched.
			if m.owned[info] {
				writes += restoreRegion(info)
				delete(m.owned, info)
			}
			return
		}
		m.owned[info] = true
		for i := 0; i < len(info.Entries) && i < info.Table.Len(); i++ {
			slot := info.Table.Slot(i)
			if slot == nil {
				break
			}
			e := info.Entries[i]
			chance := AdjustedChance(e, mult, cfg.InjectedBaseChance)
			if slot.Chance() != chance {
				slot.SetChance(chance)
				writes++
			}
			if chance > 0 {
				m.log.Debug("apply entry",
					"region", info.EditorID,
					"weather", weatherName(e.Weather),
					"class", e.Class,
					"base", e.BaseChance,
					"chance", chance)
			}
		}
		regions++
	})

	m.applyCount++
	m.lastWrites = writes
	m.log.Info("applied season weights", "season", season, "regions", regions, "writes", writes)
	m.resetSky()
}

// RestoreBaseChances returns every catalogued table to its scanned weights and zeroes
// injected entries. The next Update re-applies if the engine is still enabled.
func (m *Manager) RestoreBaseChances() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.restoreLocked()
	m.applied = false
}

func (m *Manager) restoreLocked() {
	if m.catalog == nil {
		return
	}
	zeroed := m.catalog.RemoveInjectedWeathers()
	writes := 0
	m.catalog.ForEach(func(info *catalog.RegionInfo) {
		writes += restoreRegion(info)
	})
	clear(m.owned)
	m.lastWrites = zeroed + writes
	m.log.Info("restored base chances", "writes", writes, "injected_zeroed", zeroed)
	m.resetSky()
}

func restoreRegion(info *catalog.RegionInfo) int {
	if info.Table == nil {
		return 0
	}
	writes := 0
	for i := 0; i < len(info.Entries) && i < info.Table.Len(); i++ {
		slot := info.Table.Slot(i)
		if slot == nil {
			break
		}
		if base := info.Entries[i].BaseChance; slot.Chance() != base {
			slot.SetChance(base)
			writes++
		}
	}
	return writes
}

func (m *Manager) resetSky() {
	if m.host == nil {
		m.noteAvailability("sky", false)
		return
	}
	m.noteAvailability("sky", m.host.ResetWeather())
}

func weatherName(w engine.WeatherForm) string {
	if w == nil {
		return "none"
	}
	return engine.DisplayName("Weather", w.FormID(), w.EditorID())
}
