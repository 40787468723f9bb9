// Package catalog snapshots every region weather table at data-load time and owns the
// injection of missing weathers into managed regions.
package catalog

import (
	"log/slog"
	"sync"

	"github.com/InTheBottle/SeasonalWeatherSKSE/internal/engine"
)

// Entry is one snapshot row of a region weather table.
type Entry struct {
	Weather    engine.WeatherForm
	BaseChance uint32 // authored chance; the restore point
	Scale      engine.GlobalValue
	Class      engine.WeatherClass
	Injected   bool
}

// RegionInfo is the catalog record of one region with a weather table.
// Table indices below OriginalCount line up with Entries; the rest are injections.
type RegionInfo struct {
	Region          engine.Region
	Table           engine.WeatherTable
	WorldSpace      engine.WorldSpace
	EditorID        string
	Entries         []Entry
	TotalBaseChance uint32
	OriginalCount   int
	HasInjected     bool
	InjectedCount   int
}

// WorldSpaceID returns the world-space editor ID or "" when the region has none.
func (r *RegionInfo) WorldSpaceID() string {
	if r.WorldSpace == nil {
		return ""
	}
	return r.WorldSpace.EditorID()
}

func (r *RegionInfo) hasWeather(id engine.FormID) bool {
	for _, e := range r.Entries {
		if e.Weather != nil && e.Weather.FormID() == id {
			return true
		}
	}
	return false
}

// Scanner builds and guards the region catalog.
type Scanner struct {
	source engine.DataSource
	log    *slog.Logger

	mu       sync.RWMutex
	regions  []*RegionInfo
	weathers []engine.WeatherForm
}

func NewScanner(source engine.DataSource, log *slog.Logger) *Scanner {
	if log == nil {
		log = slog.Default()
	}
	return &Scanner{source: source, log: log}
}

// Regions returns the current catalog. The slice is a copy; the records are shared.
func (s *Scanner) Regions() []*RegionInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]*RegionInfo(nil), s.regions...)
}

// ForEach calls fn for every region while holding the read lock.
func (s *Scanner) ForEach(fn func(info *RegionInfo)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, info := range s.regions {
		fn(info)
	}
}

// Lookup finds a region by form ID.
func (s *Scanner) Lookup(id engine.FormID) (*RegionInfo, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, info := range s.regions {
		if info.Region != nil && info.Region.FormID() == id {
			return info, true
		}
	}
	return nil, false
}

func (s *Scanner) RegionCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.regions)
}

func (s *Scanner) UniqueWeatherCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.weathers)
}

// ClassCounts tallies the unique weathers by class.
func (s *Scanner) ClassCounts() map[engine.WeatherClass]int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[engine.WeatherClass]int, len(engine.AllWeatherClasses))
	for _, w := range s.weathers {
		out[engine.Classify(w)]++
	}
	return out
}

// WorldSpaceIDs lists the distinct world-space editor IDs present in the catalog.
func (s *Scanner) WorldSpaceIDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	seen := map[string]bool{}
	var out []string
	for _, info := range s.regions {
		id := info.WorldSpaceID()
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
