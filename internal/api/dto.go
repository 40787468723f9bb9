package api

import (
	"fmt"

	"github.com/InTheBottle/SeasonalWeatherSKSE/internal/config"
	"github.com/InTheBottle/SeasonalWeatherSKSE/internal/engine"
)

type monthsView struct {
	SpringStart int `json:"spring_start"`
	SpringEnd   int `json:"spring_end"`
	SummerStart int `json:"summer_start"`
	SummerEnd   int `json:"summer_end"`
	FallStart   int `json:"fall_start"`
	FallEnd     int `json:"fall_end"`
}

type multipliersView struct {
	Pleasant float64 `json:"pleasant"`
	Cloudy   float64 `json:"cloudy"`
	Rainy    float64 `json:"rainy"`
	Snow     float64 `json:"snow"`
}

type configView struct {
	Path               string                            `json:"path"`
	Enabled            bool                              `json:"enabled"`
	Notifications      bool                              `json:"notifications"`
	Debug              bool                              `json:"debug"`
	InjectedBaseChance uint32                            `json:"injected_base_chance"`
	Months             monthsView                        `json:"months"`
	Multipliers        map[engine.Season]multipliersView `json:"multipliers"`
	Worldspaces        []string                          `json:"worldspaces"`
	Warnings           []string                          `json:"warnings"`
}

func newConfigView(c config.Config, path string, warnings []string) configView {
	v := configView{
		Path:               path,
		Enabled:            c.Enabled,
		Notifications:      c.Notifications,
		Debug:              c.Debug,
		InjectedBaseChance: c.InjectedBaseChance,
		Months:             monthsView(c.Months),
		Multipliers:        map[engine.Season]multipliersView{},
		Worldspaces:        append([]string{}, c.Worldspaces...),
		Warnings:           append([]string{}, warnings...),
	}
	for _, s := range engine.AllSeasons {
		v.Multipliers[s] = multipliersView(c.MultipliersFor(s))
	}
	return v
}

// multipliersPatch sets only the classes present in the body.
type multipliersPatch struct {
	Pleasant *float64 `json:"pleasant"`
	Cloudy   *float64 `json:"cloudy"`
	Rainy    *float64 `json:"rainy"`
	Snow     *float64 `json:"snow"`
}

func (p multipliersPatch) values() []*float64 {
	return []*float64{p.Pleasant, p.Cloudy, p.Rainy, p.Snow}
}

func (p multipliersPatch) mergeInto(m engine.Multipliers) engine.Multipliers {
	for _, f := range []struct {
		src *float64
		dst *float64
	}{{p.Pleasant, &m.Pleasant}, {p.Cloudy, &m.Cloudy}, {p.Rainy, &m.Rainy}, {p.Snow, &m.Snow}} {
		if f.src != nil {
			*f.dst = *f.src
		}
	}
	return m
}

// configPatch is the PUT /config body. Absent fields keep their value, down to single
// classes inside a season's multipliers.
type configPatch struct {
	Enabled            *bool                       `json:"enabled"`
	Notifications      *bool                       `json:"notifications"`
	Debug              *bool                       `json:"debug"`
	InjectedBaseChance *uint32                     `json:"injected_base_chance"`
	Months             *monthsView                 `json:"months"`
	Multipliers        map[string]multipliersPatch `json:"multipliers"`
	Worldspaces        *[]string                   `json:"worldspaces"`
}

func (p *configPatch) validate() error {
	if p.Months != nil {
		for _, v := range []int{p.Months.SpringStart, p.Months.SpringEnd, p.Months.SummerStart,
			p.Months.SummerEnd, p.Months.FallStart, p.Months.FallEnd} {
			if v < 0 || v > 11 {
				return fmt.Errorf("month %d out of range 0-11", v)
			}
		}
	}
	for name, m := range p.Multipliers {
		if _, ok := engine.ParseSeason(name); !ok {
			return fmt.Errorf("unknown season %q", name)
		}
		for _, v := range m.values() {
			if v != nil && *v < 0 {
				return fmt.Errorf("negative multiplier for %s", name)
			}
		}
	}
	return nil
}

func (p *configPatch) apply(c *config.Config) {
	if p.Enabled != nil {
		c.Enabled = *p.Enabled
	}
	if p.Notifications != nil {
		c.Notifications = *p.Notifications
	}
	if p.Debug != nil {
		c.Debug = *p.Debug
	}
	if p.InjectedBaseChance != nil {
		c.InjectedBaseChance = *p.InjectedBaseChance
	}
	if p.Months != nil {
		c.Months = engine.SeasonRanges(*p.Months)
	}
	if len(p.Multipliers) > 0 && c.Multipliers == nil {
		c.Multipliers = engine.SeasonMultipliers{}
	}
	for name, m := range p.Multipliers {
		s, _ := engine.ParseSeason(name)
		c.Multipliers[s] = m.mergeInto(c.MultipliersFor(s))
	}
	if p.Worldspaces != nil {
		c.Worldspaces = append([]string(nil), (*p.Worldspaces)...)
	}
}
