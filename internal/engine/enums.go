package engine

import "strings"

// String backed enums so configuration, logs and the HTTP surface share one spelling.

type Season string
type WeatherClass string
type EngineState string

const (
	SeasonSpring Season = "spring"
	SeasonSummer Season = "summer"
	SeasonFall   Season = "fall"
	SeasonWinter Season = "winter"
)

var AllSeasons = []Season{SeasonSpring, SeasonSummer, SeasonFall, SeasonWinter}

const (
	ClassPleasant WeatherClass = "pleasant"
	ClassCloudy   WeatherClass = "cloudy"
	ClassRainy    WeatherClass = "rainy"
	ClassSnow     WeatherClass = "snow"
	ClassUnknown  WeatherClass = "unknown"
)

var AllWeatherClasses = []WeatherClass{ClassPleasant, ClassCloudy, ClassRainy, ClassSnow, ClassUnknown}

const (
	StateDisabled EngineState = "disabled"
	StateInactive EngineState = "inactive"
	StateActive   EngineState = "active"
)

var AllEngineStates = []EngineState{StateDisabled, StateInactive, StateActive}

// Generic helpers
func contains[T ~string](list []T, v T) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}

func (s Season) Validate() bool       { return contains(AllSeasons, s) }
func (c WeatherClass) Validate() bool { return contains(AllWeatherClasses, c) }
func (e EngineState) Validate() bool  { return contains(AllEngineStates, e) }

func ListSeasons() []Season { return append([]Season{}, AllSeasons...) }

// Label returns the capitalised display name ("Spring").
func (s Season) Label() string {
	switch s {
	case SeasonSpring:
		return "Spring"
	case SeasonSummer:
		return "Summer"
	case SeasonFall:
		return "Fall"
	case SeasonWinter:
		return "Winter"
	default:
		return "Unknown"
	}
}

func (c WeatherClass) Label() string {
	switch c {
	case ClassPleasant:
		return "Pleasant"
	case ClassCloudy:
		return "Cloudy"
	case ClassRainy:
		return "Rainy"
	case ClassSnow:
		return "Snow"
	default:
		return "Unknown"
	}
}

// ParseSeason accepts the enum spelling or the label, case-insensitively. "autumn" maps to fall.
func ParseSeason(raw string) (Season, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "spring":
		return SeasonSpring, true
	case "summer":
		return SeasonSummer, true
	case "fall", "autumn":
		return SeasonFall, true
	case "winter":
		return SeasonWinter, true
	}
	return "", false
}

var monthNames = [12]string{
	"Morning Star", "Sun's Dawn", "First Seed", "Rain's Hand", "Second Seed", "Midyear",
	"Sun's Height", "Last Seed", "Hearthfire", "Frostfall", "Sun's Dusk", "Evening Star",
}

// MonthName maps a 0-based calendar month to its in-game name.
func MonthName(month int) string {
	if month < 0 || month >= len(monthNames) {
		return "Unknown"
	}
	return monthNames[month]
}
