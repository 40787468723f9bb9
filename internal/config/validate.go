package config

import (
	"fmt"
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/InTheBottle/SeasonalWeatherSKSE/internal/engine"
)

type monthRange struct {
	season     engine.Season
	start, end int
}

func (c Config) ranges() []monthRange {
	return []monthRange{
		{engine.SeasonSpring, c.Months.SpringStart, c.Months.SpringEnd},
		{engine.SeasonSummer, c.Months.SummerStart, c.Months.SummerEnd},
		{engine.SeasonFall, c.Months.FallStart, c.Months.FallEnd},
	}
}

// Validate reports settings that load fine but probably do not do what the user meant.
// Nothing is corrected: overlapping ranges still resolve Spring, then Summer, then Fall.
func (c Config) Validate() []string {
	var warnings []string
	rs := c.ranges()
	for _, r := range rs {
		for _, m := range []int{r.start, r.end} {
			if m < 0 || m > 11 {
				warnings = append(warnings, fmt.Sprintf("%s month %d is outside 0..11", r.season.Label(), m))
			}
		}
		if r.start > r.end {
			warnings = append(warnings, fmt.Sprintf("%s starts after it ends (%d > %d); the season never matches",
				r.season.Label(), r.start, r.end))
		}
	}
	for i := 0; i < len(rs); i++ {
		for j := i + 1; j < len(rs); j++ {
			a, b := rs[i], rs[j]
			if a.start > a.end || b.start > b.end {
				continue
			}
			if a.start <= b.end && b.start <= a.end {
				warnings = append(warnings, fmt.Sprintf("%s (%d-%d) overlaps %s (%d-%d); %s wins",
					a.season.Label(), a.start, a.end, b.season.Label(), b.start, b.end, a.season.Label()))
			}
		}
	}
	for _, s := range engine.AllSeasons {
		m := c.Multipliers.Get(s)
		for _, cls := range []engine.WeatherClass{engine.ClassPleasant, engine.ClassCloudy, engine.ClassRainy, engine.ClassSnow} {
			if m.For(cls) < 0 {
				warnings = append(warnings, fmt.Sprintf("%s %s multiplier %.2f is negative; weights clamp to 0",
					s.Label(), cls.Label(), m.For(cls)))
			}
		}
	}
	if len(c.Worldspaces) == 0 {
		warnings = append(warnings, "no worldspaces enabled; the framework will never activate")
	}
	return warnings
}

// SuggestWorldspace finds the known editor ID closest to name. A case-only difference always
// matches; otherwise the edit distance must stay within a third of the name's length.
func SuggestWorldspace(name string, known []string) (string, bool) {
	needle := strings.ToLower(strings.TrimSpace(name))
	if needle == "" {
		return "", false
	}
	best, bestDist := "", -1
	for _, k := range known {
		d := levenshtein.ComputeDistance(needle, strings.ToLower(k))
		if bestDist < 0 || d < bestDist {
			best, bestDist = k, d
		}
	}
	if bestDist < 0 {
		return "", false
	}
	limit := len(needle) / 3
	if limit < 2 {
		limit = 2
	}
	if bestDist > limit {
		return "", false
	}
	return best, true
}

// UnknownWorldspaces lists enabled world-spaces missing from known, each with its suggestion.
func (c Config) UnknownWorldspaces(known []string) map[string]string {
	set := make(map[string]bool, len(known))
	for _, k := range known {
		set[k] = true
	}
	out := map[string]string{}
	for _, ws := range c.Worldspaces {
		if set[ws] {
			continue
		}
		suggestion, _ := SuggestWorldspace(ws, known)
		out[ws] = suggestion
	}
	return out
}
