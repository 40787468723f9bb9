package engine

import "strings"

// WeatherFlag mirrors the static classification bits on a weather record.
type WeatherFlag uint8

const (
	FlagPleasant WeatherFlag = 1 << iota
	FlagCloudy
	FlagRainy
	FlagSnow
	FlagPermAurora
	FlagAuroraFollowsSun
)

func (f WeatherFlag) Has(bit WeatherFlag) bool { return f&bit != 0 }

// ParseWeatherFlags reads a list like ["rainy", "cloudy"]. Unrecognised names are ignored.
func ParseWeatherFlags(names []string) WeatherFlag {
	var f WeatherFlag
	for _, n := range names {
		switch strings.ToLower(strings.TrimSpace(n)) {
		case "pleasant":
			f |= FlagPleasant
		case "cloudy":
			f |= FlagCloudy
		case "rainy", "rain":
			f |= FlagRainy
		case "snow", "snowy":
			f |= FlagSnow
		case "perm_aurora":
			f |= FlagPermAurora
		case "aurora_follows_sun":
			f |= FlagAuroraFollowsSun
		}
	}
	return f
}

// Names is the inverse of ParseWeatherFlags.
func (f WeatherFlag) Names() []string {
	var out []string
	for _, p := range []struct {
		bit  WeatherFlag
		name string
	}{
		{FlagPleasant, "pleasant"},
		{FlagCloudy, "cloudy"},
		{FlagRainy, "rainy"},
		{FlagSnow, "snow"},
		{FlagPermAurora, "perm_aurora"},
		{FlagAuroraFollowsSun, "aurora_follows_sun"},
	} {
		if f.Has(p.bit) {
			out = append(out, p.name)
		}
	}
	return out
}

// Classify maps a weather record to its visual class. Snow wins over Rainy, Rainy over
// Cloudy, Cloudy over Pleasant; a record with none of those bits (or nil) is Unknown.
func Classify(w WeatherForm) WeatherClass {
	if w == nil {
		return ClassUnknown
	}
	return ClassifyFlags(w.Flags())
}

func ClassifyFlags(f WeatherFlag) WeatherClass {
	switch {
	case f.Has(FlagSnow):
		return ClassSnow
	case f.Has(FlagRainy):
		return ClassRainy
	case f.Has(FlagCloudy):
		return ClassCloudy
	case f.Has(FlagPleasant):
		return ClassPleasant
	default:
		return ClassUnknown
	}
}
