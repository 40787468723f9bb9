package host

import (
	"sync"

	"github.com/InTheBottle/SeasonalWeatherSKSE/internal/engine"
)

// Weather is a loaded weather record.
type Weather struct {
	id       engine.FormID
	editorID string
	flags    engine.WeatherFlag
}

func (w *Weather) FormID() engine.FormID     { return w.id }
func (w *Weather) EditorID() string          { return w.editorID }
func (w *Weather) Flags() engine.WeatherFlag { return w.flags }

type Worldspace struct {
	id       engine.FormID
	editorID string
}

func (w *Worldspace) FormID() engine.FormID { return w.id }
func (w *Worldspace) EditorID() string      { return w.editorID }

type Global struct {
	id       engine.FormID
	editorID string
	value    float64
}

func (g *Global) Value() float64 { return g.value }

type Region struct {
	id       engine.FormID
	editorID string
	ws       *Worldspace
	list     *WeatherList
}

func (r *Region) FormID() engine.FormID { return r.id }
func (r *Region) EditorID() string      { return r.editorID }

func (r *Region) WorldSpace() engine.WorldSpace {
	if r.ws == nil {
		return nil
	}
	return r.ws
}

func (r *Region) WeatherTable() (engine.WeatherTable, bool) {
	if r.list == nil {
		return nil, false
	}
	return r.list, true
}

// WeatherList is a region's live weather table. It counts chance writes so callers can
// check that an update really left the table alone.
type WeatherList struct {
	mu      sync.Mutex
	entries []*weatherEntry
	writes  int
}

type weatherEntry struct {
	list    *WeatherList
	weather engine.WeatherForm
	chance  uint32
	global  engine.GlobalValue
}

func (l *WeatherList) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

func (l *WeatherList) Slot(i int) engine.WeatherSlot {
	l.mu.Lock()
	defer l.mu.Unlock()
	if i < 0 || i >= len(l.entries) {
		return nil
	}
	return l.entries[i]
}

func (l *WeatherList) Append(w engine.WeatherForm, chance uint32, scale engine.GlobalValue) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, &weatherEntry{list: l, weather: w, chance: chance, global: scale})
}

func (l *WeatherList) Writes() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.writes
}

type weighted struct {
	weather engine.WeatherForm
	chance  uint32
}

func (l *WeatherList) weights() []weighted {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]weighted, len(l.entries))
	for i, e := range l.entries {
		out[i] = weighted{weather: e.weather, chance: e.chance}
	}
	return out
}

func (e *weatherEntry) Weather() engine.WeatherForm { return e.weather }
func (e *weatherEntry) Scale() engine.GlobalValue   { return e.global }

func (e *weatherEntry) Chance() uint32 {
	e.list.mu.Lock()
	defer e.list.mu.Unlock()
	return e.chance
}

func (e *weatherEntry) SetChance(chance uint32) {
	e.list.mu.Lock()
	defer e.list.mu.Unlock()
	e.chance = chance
	e.list.writes++
}
