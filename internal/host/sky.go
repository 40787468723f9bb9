package host

import (
	"github.com/InTheBottle/SeasonalWeatherSKSE/internal/engine"
)

// Sky holds the weather currently playing and re-rolls it from a region table on reset.
type Sky struct {
	stream  *Stream
	current engine.WeatherForm
	resets  int
}

func newSky(stream *Stream) *Sky {
	return &Sky{stream: stream}
}

// pick does a weighted roll over the table. Zero-weight entries are never chosen; an
// all-zero table keeps the current weather.
func (s *Sky) pick(list *WeatherList) engine.WeatherForm {
	s.resets++
	if list == nil {
		return s.current
	}
	weights := list.weights()
	var total uint64
	for _, w := range weights {
		total += uint64(w.chance)
	}
	if total == 0 {
		return s.current
	}
	roll := s.stream.Uint64n(total)
	var cumulative uint64
	for _, w := range weights {
		if w.chance == 0 {
			continue
		}
		cumulative += uint64(w.chance)
		if roll < cumulative {
			s.current = w.weather
			return s.current
		}
	}
	return s.current
}
