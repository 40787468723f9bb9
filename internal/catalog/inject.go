package catalog

import (
	"github.com/InTheBottle/SeasonalWeatherSKSE/internal/engine"
)

// InjectMissingWeathers appends, at weight 0, every weather seen anywhere in a managed
// world-space to each of that world-space's regions that lacks it. Unknown-class weathers
// (scripted or quest weather) are never injected. Returns the number of entries added.
func (s *Scanner) InjectMissingWeathers(managed func(worldspace string) bool) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	if managed == nil {
		return 0
	}

	// Phase 1: per world-space pools, first-seen order, deduplicated by form ID.
	pools := map[string][]engine.WeatherForm{}
	pooled := map[string]map[engine.FormID]bool{}
	for _, info := range s.regions {
		ws := info.WorldSpaceID()
		if ws == "" || !managed(ws) {
			continue
		}
		if pooled[ws] == nil {
			pooled[ws] = map[engine.FormID]bool{}
		}
		for _, e := range info.Entries {
			if e.Weather == nil || pooled[ws][e.Weather.FormID()] {
				continue
			}
			pooled[ws][e.Weather.FormID()] = true
			pools[ws] = append(pools[ws], e.Weather)
		}
	}

	// Phase 2: append what each managed region is missing.
	total := 0
	skipped := map[engine.FormID]bool{}
	for _, info := range s.regions {
		ws := info.WorldSpaceID()
		if ws == "" || !managed(ws) || info.Table == nil {
			continue
		}
		if info.OriginalCount == 0 {
			info.OriginalCount = len(info.Entries)
		}
		for _, w := range pools[ws] {
			if info.hasWeather(w.FormID()) {
				continue
			}
			class := engine.Classify(w)
			if class == engine.ClassUnknown {
				if !skipped[w.FormID()] {
					skipped[w.FormID()] = true
					s.log.Info("weather injection: skipping unclassified weather",
						"weather", engine.DisplayName("Weather", w.FormID(), w.EditorID()),
						"worldspace", ws)
				}
				continue
			}
			info.Table.Append(w, 0, nil)
			info.Entries = append(info.Entries, Entry{Weather: w, Class: class, Injected: true})
			info.HasInjected = true
			info.InjectedCount++
			total++
		}
	}

	s.log.Info("weather injection: complete", "injected", total, "worldspaces", len(pools))
	return total
}

// RemoveInjectedWeathers zeroes every injected entry. Entries are never unlinked from the
// host list; a zero weight is never picked.
func (s *Scanner) RemoveInjectedWeathers() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	zeroed := 0
	for _, info := range s.regions {
		if !info.HasInjected || info.Table == nil {
			continue
		}
		for i := info.OriginalCount; i < info.Table.Len(); i++ {
			slot := info.Table.Slot(i)
			if slot == nil || slot.Chance() == 0 {
				continue
			}
			slot.SetChance(0)
			zeroed++
		}
	}
	if zeroed > 0 {
		s.log.Info("weather injection: zeroed injected entries", "entries", zeroed)
	}
	return zeroed
}
