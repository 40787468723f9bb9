package app

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/InTheBottle/SeasonalWeatherSKSE/internal/catalog"
	"github.com/InTheBottle/SeasonalWeatherSKSE/internal/engine"
)

// EntryView is one row of a region table: the snapshot next to the live chance.
type EntryView struct {
	Weather  string              `json:"weather"`
	Class    engine.WeatherClass `json:"class"`
	Base     uint32              `json:"base_chance"`
	Current  uint32              `json:"current_chance"`
	Scale    float64             `json:"scale,omitempty"`
	Injected bool                `json:"injected"`
}

type RegionView struct {
	FormID     string      `json:"form_id"`
	EditorID   string      `json:"editor_id"`
	Worldspace string      `json:"worldspace,omitempty"`
	Managed    bool        `json:"managed"`
	Injected   int         `json:"injected"`
	Entries    []EntryView `json:"entries"`
}

// Summary describes the catalog after a scan.
type Summary struct {
	Source      string                      `json:"source"`
	Regions     int                         `json:"regions"`
	Weathers    int                         `json:"unique_weathers"`
	Injected    int                         `json:"injected"`
	Classes     map[engine.WeatherClass]int `json:"classes"`
	Worldspaces []string                    `json:"worldspaces"`
}

func (a *App) Summary() Summary {
	s := Summary{
		Source:      a.Source,
		Regions:     a.Catalog.RegionCount(),
		Weathers:    a.Catalog.UniqueWeatherCount(),
		Classes:     a.Catalog.ClassCounts(),
		Worldspaces: a.Catalog.WorldSpaceIDs(),
	}
	a.Catalog.ForEach(func(info *catalog.RegionInfo) {
		s.Injected += info.InjectedCount
	})
	return s
}

// Regions lists every catalogued region, optionally limited to one world-space.
func (a *App) Regions(worldspace string) []RegionView {
	cfg := a.Config.Get()
	var out []RegionView
	a.Catalog.ForEach(func(info *catalog.RegionInfo) {
		if worldspace != "" && !strings.EqualFold(info.WorldSpaceID(), worldspace) {
			return
		}
		out = append(out, regionView(info, cfg.IsWorldspaceEnabled(info.WorldSpaceID())))
	})
	return out
}

// FindRegion looks a region up by hex form ID ("000C5F5B", "0xC5F5B") or editor ID.
func (a *App) FindRegion(key string) (RegionView, bool) {
	key = strings.TrimSpace(key)
	cfg := a.Config.Get()
	if id, err := strconv.ParseUint(strings.TrimPrefix(strings.ToLower(key), "0x"), 16, 32); err == nil {
		if info, ok := a.Catalog.Lookup(engine.FormID(id)); ok {
			return regionView(info, cfg.IsWorldspaceEnabled(info.WorldSpaceID())), true
		}
	}
	var found RegionView
	ok := false
	a.Catalog.ForEach(func(info *catalog.RegionInfo) {
		if !ok && strings.EqualFold(info.EditorID, key) {
			found, ok = regionView(info, cfg.IsWorldspaceEnabled(info.WorldSpaceID())), true
		}
	})
	return found, ok
}

func regionView(info *catalog.RegionInfo, managed bool) RegionView {
	v := RegionView{
		EditorID:   info.EditorID,
		Worldspace: info.WorldSpaceID(),
		Managed:    managed,
		Injected:   info.InjectedCount,
	}
	if info.Region != nil {
		v.FormID = fmt.Sprintf("%08X", uint32(info.Region.FormID()))
	}
	for i, e := range info.Entries {
		ev := EntryView{
			Class:    e.Class,
			Base:     e.BaseChance,
			Injected: e.Injected,
		}
		if e.Weather != nil {
			ev.Weather = engine.DisplayName("Weather", e.Weather.FormID(), e.Weather.EditorID())
		}
		if e.Scale != nil {
			ev.Scale = e.Scale.Value()
		}
		if info.Table != nil && i < info.Table.Len() {
			if slot := info.Table.Slot(i); slot != nil {
				ev.Current = slot.Chance()
			}
		}
		v.Entries = append(v.Entries, ev)
	}
	return v
}
