package catalog

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/InTheBottle/SeasonalWeatherSKSE/internal/engine"
)

// Scan rebuilds the catalog from the data source. The previous catalog is dropped as soon as
// the scan starts; on error the catalog is left empty.
func (s *Scanner) Scan() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.regions = nil
	s.weathers = nil

	if s.source == nil {
		s.log.Error("region scan: no data source")
		return engine.ErrHostUnavailable
	}
	regions, err := s.source.Regions()
	if err != nil {
		s.log.Error("region scan: data source unavailable", "err", err)
		return errors.Wrap(err, "scan regions")
	}
	s.log.Info("region scan: scanning region records", "count", len(regions))

	seen := map[engine.FormID]bool{}
	for _, region := range regions {
		if region == nil {
			continue
		}
		table, ok := region.WeatherTable()
		if !ok || table == nil {
			continue
		}
		info := &RegionInfo{
			Region:     region,
			Table:      table,
			WorldSpace: region.WorldSpace(),
			EditorID:   engine.DisplayName("Region", region.FormID(), region.EditorID()),
		}
		gap := false
		for i := 0; i < table.Len(); i++ {
			slot := table.Slot(i)
			if slot == nil {
				gap = true
				break
			}
			w := slot.Weather()
			info.Entries = append(info.Entries, Entry{
				Weather:    w,
				BaseChance: slot.Chance(),
				Scale:      slot.Scale(),
				Class:      engine.Classify(w),
			})
			info.TotalBaseChance += slot.Chance()
		}
		// Entries must stay index-aligned with the live table.
		if gap {
			s.log.Warn("region scan: table has empty slots, skipping region", "region", info.EditorID)
			continue
		}
		if len(info.Entries) == 0 {
			continue
		}
		for _, e := range info.Entries {
			if e.Weather != nil && !seen[e.Weather.FormID()] {
				seen[e.Weather.FormID()] = true
				s.weathers = append(s.weathers, e.Weather)
			}
		}
		info.OriginalCount = len(info.Entries)
		s.log.Debug("region scan: region",
			"region", info.EditorID,
			"form_id", fmt.Sprintf("%08X", uint32(region.FormID())),
			"entries", len(info.Entries),
			"worldspace", worldSpaceLabel(info.WorldSpace))
		s.regions = append(s.regions, info)
	}

	counts := map[engine.WeatherClass]int{}
	for _, w := range s.weathers {
		counts[engine.Classify(w)]++
	}
	s.log.Info("region scan: complete",
		"regions", len(s.regions),
		"unique_weathers", len(s.weathers),
		"pleasant", counts[engine.ClassPleasant],
		"cloudy", counts[engine.ClassCloudy],
		"rainy", counts[engine.ClassRainy],
		"snow", counts[engine.ClassSnow],
		"unknown", counts[engine.ClassUnknown])
	return nil
}

func worldSpaceLabel(ws engine.WorldSpace) string {
	if ws == nil {
		return "none"
	}
	return ws.EditorID()
}
