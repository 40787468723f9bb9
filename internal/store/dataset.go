package store

import (
	"github.com/pkg/errors"

	"github.com/InTheBottle/SeasonalWeatherSKSE/internal/engine"
)

// Dataset is the game data the host simulation is built from: the records a plugin
// load order would produce plus the starting calendar and player position.
type Dataset struct {
	Name        string             `yaml:"name"`
	Calendar    CalendarStart      `yaml:"calendar"`
	Player      PlayerStart        `yaml:"player"`
	Worldspaces []WorldspaceRecord `yaml:"worldspaces"`
	Weathers    []WeatherRecord    `yaml:"weathers"`
	Globals     []GlobalRecord     `yaml:"globals,omitempty"`
	Regions     []RegionRecord     `yaml:"regions"`
}

type CalendarStart struct {
	Year  int     `yaml:"year"`
	Month int     `yaml:"month"` // 0 = Morning Star
	Day   int     `yaml:"day"`   // 1-based
	Hour  float64 `yaml:"hour"`
}

type PlayerStart struct {
	Worldspace string `yaml:"worldspace"`
	Region     string `yaml:"region,omitempty"`
	Interior   bool   `yaml:"interior,omitempty"`
}

type WorldspaceRecord struct {
	FormID   engine.FormID `yaml:"form_id"`
	EditorID string        `yaml:"editor_id"`
}

type WeatherRecord struct {
	FormID   engine.FormID `yaml:"form_id"`
	EditorID string        `yaml:"editor_id"`
	Flags    []string      `yaml:"flags,omitempty"`
}

type GlobalRecord struct {
	FormID   engine.FormID `yaml:"form_id"`
	EditorID string        `yaml:"editor_id"`
	Value    float64       `yaml:"value"`
}

// RegionRecord references world-spaces, weathers and globals by editor ID.
type RegionRecord struct {
	FormID     engine.FormID   `yaml:"form_id"`
	EditorID   string          `yaml:"editor_id,omitempty"`
	Worldspace string          `yaml:"worldspace,omitempty"`
	NoWeather  bool            `yaml:"no_weather_data,omitempty"`
	Weathers   []RegionWeather `yaml:"weathers,omitempty"`
}

type RegionWeather struct {
	Weather string `yaml:"weather"`
	Chance  uint32 `yaml:"chance"`
	Global  string `yaml:"global,omitempty"`
}

// Validate checks that form IDs are unique and every reference resolves.
func (d Dataset) Validate() error {
	ids := map[engine.FormID]string{}
	claim := func(id engine.FormID, what string) error {
		if id == 0 {
			return errors.Errorf("%s has no form id", what)
		}
		if prev, ok := ids[id]; ok {
			return errors.Errorf("form id %08X used by both %s and %s", uint32(id), prev, what)
		}
		ids[id] = what
		return nil
	}

	worldspaces := map[string]bool{}
	for _, ws := range d.Worldspaces {
		if err := claim(ws.FormID, "worldspace "+ws.EditorID); err != nil {
			return err
		}
		worldspaces[ws.EditorID] = true
	}
	weathers := map[string]bool{}
	for _, w := range d.Weathers {
		if err := claim(w.FormID, "weather "+w.EditorID); err != nil {
			return err
		}
		if w.EditorID == "" {
			return errors.Errorf("weather %08X has no editor id", uint32(w.FormID))
		}
		weathers[w.EditorID] = true
	}
	globals := map[string]bool{}
	for _, g := range d.Globals {
		if err := claim(g.FormID, "global "+g.EditorID); err != nil {
			return err
		}
		globals[g.EditorID] = true
	}
	regions := map[string]bool{}
	for _, r := range d.Regions {
		name := engine.DisplayName("Region", r.FormID, r.EditorID)
		if err := claim(r.FormID, "region "+name); err != nil {
			return err
		}
		regions[r.EditorID] = true
		if r.Worldspace != "" && !worldspaces[r.Worldspace] {
			return errors.Errorf("region %s: unknown worldspace %q", name, r.Worldspace)
		}
		for _, rw := range r.Weathers {
			if !weathers[rw.Weather] {
				return errors.Errorf("region %s: unknown weather %q", name, rw.Weather)
			}
			if rw.Global != "" && !globals[rw.Global] {
				return errors.Errorf("region %s: unknown global %q", name, rw.Global)
			}
		}
	}

	if d.Player.Worldspace != "" && !worldspaces[d.Player.Worldspace] {
		return errors.Errorf("player: unknown worldspace %q", d.Player.Worldspace)
	}
	if d.Player.Region != "" && !regions[d.Player.Region] {
		return errors.Errorf("player: unknown region %q", d.Player.Region)
	}
	if d.Calendar.Month < 0 || d.Calendar.Month > 11 {
		return errors.Errorf("calendar: month %d outside 0..11", d.Calendar.Month)
	}
	return nil
}
