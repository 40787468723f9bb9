package engine

// SeasonRanges holds inclusive 0-based month ranges. Winter is whatever none of them cover.
type SeasonRanges struct {
	SpringStart int
	SpringEnd   int
	SummerStart int
	SummerEnd   int
	FallStart   int
	FallEnd     int
}

// DefaultSeasonRanges: First Seed..Second Seed, Midyear..Last Seed, Hearthfire..Sun's Dusk.
func DefaultSeasonRanges() SeasonRanges {
	return SeasonRanges{SpringStart: 2, SpringEnd: 4, SummerStart: 5, SummerEnd: 7, FallStart: 8, FallEnd: 10}
}

// SeasonForMonth checks Spring, then Summer, then Fall; first match wins.
func (r SeasonRanges) SeasonForMonth(month int) Season {
	if month >= r.SpringStart && month <= r.SpringEnd {
		return SeasonSpring
	}
	if month >= r.SummerStart && month <= r.SummerEnd {
		return SeasonSummer
	}
	if month >= r.FallStart && month <= r.FallEnd {
		return SeasonFall
	}
	return SeasonWinter
}

// Multipliers scale base chances per weather class for one season.
type Multipliers struct {
	Pleasant float64
	Cloudy   float64
	Rainy    float64
	Snow     float64
}

// For returns the multiplier for a class. Unknown weather keeps its authored weight.
func (m Multipliers) For(c WeatherClass) float64 {
	switch c {
	case ClassPleasant:
		return m.Pleasant
	case ClassCloudy:
		return m.Cloudy
	case ClassRainy:
		return m.Rainy
	case ClassSnow:
		return m.Snow
	default:
		return 1
	}
}

// SeasonMultipliers is the full per-season multiplier table.
type SeasonMultipliers map[Season]Multipliers

func DefaultSeasonMultipliers() SeasonMultipliers {
	return SeasonMultipliers{
		SeasonSpring: {Pleasant: 1.2, Cloudy: 1.0, Rainy: 1.5, Snow: 0.1},
		SeasonSummer: {Pleasant: 1.5, Cloudy: 0.8, Rainy: 0.5, Snow: 0.0},
		SeasonFall:   {Pleasant: 0.8, Cloudy: 1.3, Rainy: 1.2, Snow: 0.5},
		SeasonWinter: {Pleasant: 0.3, Cloudy: 1.0, Rainy: 0.8, Snow: 2.5},
	}
}

// Get falls back to winter for an unrecognised season, like the calendar policy does.
func (sm SeasonMultipliers) Get(s Season) Multipliers {
	if m, ok := sm[s]; ok {
		return m
	}
	return sm[SeasonWinter]
}

func (sm SeasonMultipliers) Clone() SeasonMultipliers {
	out := make(SeasonMultipliers, len(sm))
	for k, v := range sm {
		out[k] = v
	}
	return out
}
