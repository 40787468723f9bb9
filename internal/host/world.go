// Package host is an in-process stand-in for the game: it owns the loaded records, the live
// region weather tables, the calendar, the player position and the sky.
package host

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/pkg/errors"

	"github.com/InTheBottle/SeasonalWeatherSKSE/internal/engine"
	"github.com/InTheBottle/SeasonalWeatherSKSE/internal/store"
)

const maxNotifications = 32

// Player is where the player stands.
type Player struct {
	Worldspace string `json:"worldspace,omitempty"`
	Region     string `json:"region,omitempty"`
	Interior   bool   `json:"interior"`
}

// World implements engine.DataSource and engine.Runtime over a dataset.
type World struct {
	log *slog.Logger

	mu          sync.Mutex
	name        string
	loaded      bool
	worldspaces map[string]*Worldspace
	regions     []*Region
	byName      map[string]*Region
	calendar    *Calendar
	playerWS    *Worldspace
	playerReg   *Region
	interior    bool
	sky         *Sky
	notes       []string
}

// New builds a world from ds. The sky's weather rolls are deterministic per seed.
func New(ds store.Dataset, seed int64, log *slog.Logger) (*World, error) {
	if log == nil {
		log = slog.Default()
	}
	if err := ds.Validate(); err != nil {
		return nil, errors.Wrap(err, "build world")
	}
	w := &World{
		log:         log,
		name:        ds.Name,
		loaded:      true,
		worldspaces: map[string]*Worldspace{},
		byName:      map[string]*Region{},
		calendar:    NewCalendar(ds.Calendar),
		sky:         newSky(NewStream(seed, "world:"+ds.Name).Fork("sky")),
	}
	for _, rec := range ds.Worldspaces {
		w.worldspaces[rec.EditorID] = &Worldspace{id: rec.FormID, editorID: rec.EditorID}
	}
	weathers := map[string]*Weather{}
	for _, rec := range ds.Weathers {
		weathers[rec.EditorID] = &Weather{id: rec.FormID, editorID: rec.EditorID, flags: engine.ParseWeatherFlags(rec.Flags)}
	}
	globals := map[string]*Global{}
	for _, rec := range ds.Globals {
		globals[rec.EditorID] = &Global{id: rec.FormID, editorID: rec.EditorID, value: rec.Value}
	}
	for _, rec := range ds.Regions {
		r := &Region{id: rec.FormID, editorID: rec.EditorID, ws: w.worldspaces[rec.Worldspace]}
		if !rec.NoWeather {
			r.list = &WeatherList{}
			for _, rw := range rec.Weathers {
				var scale engine.GlobalValue
				if g, ok := globals[rw.Global]; ok {
					scale = g
				}
				r.list.Append(weathers[rw.Weather], rw.Chance, scale)
			}
		}
		w.regions = append(w.regions, r)
		if rec.EditorID != "" {
			w.byName[rec.EditorID] = r
		}
	}
	w.playerWS = w.worldspaces[ds.Player.Worldspace]
	w.playerReg = w.byName[ds.Player.Region]
	w.interior = ds.Player.Interior
	w.sky.pick(w.currentList())
	return w, nil
}

// Regions implements engine.DataSource.
func (w *World) Regions() ([]engine.Region, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.loaded {
		return nil, engine.ErrHostUnavailable
	}
	out := make([]engine.Region, len(w.regions))
	for i, r := range w.regions {
		out[i] = r
	}
	return out, nil
}

// SetLoaded simulates the game before (false) or after (true) its data has loaded.
func (w *World) SetLoaded(loaded bool) {
	w.mu.Lock()
	w.loaded = loaded
	w.mu.Unlock()
}

func (w *World) PlayerWorldSpace() (engine.WorldSpace, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.playerWS == nil || w.interior {
		return nil, false
	}
	return w.playerWS, true
}

func (w *World) CurrentMonth() (int, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.calendar.Month(), true
}

// ResetWeather re-rolls the sky from the table of the region the player stands in.
func (w *World) ResetWeather() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	before := w.sky.current
	after := w.sky.pick(w.currentList())
	if after != before {
		w.log.Debug("sky: weather changed", "weather", weatherLabel(after))
	}
	return true
}

func (w *World) Notify(msg string) {
	w.mu.Lock()
	w.notes = append(w.notes, msg)
	if len(w.notes) > maxNotifications {
		w.notes = w.notes[len(w.notes)-maxNotifications:]
	}
	w.mu.Unlock()
	w.log.Info("notification", "message", msg)
}

func (w *World) currentList() *WeatherList {
	if w.interior || w.playerReg == nil {
		return nil
	}
	return w.playerReg.list
}

// MoveTo places the player. region may be empty; when given it must lie in worldspace.
// An empty worldspace means no world-space at all (e.g. a detached interior).
func (w *World) MoveTo(worldspace, region string, interior bool) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	var ws *Worldspace
	if worldspace != "" {
		var ok bool
		if ws, ok = w.worldspaces[worldspace]; !ok {
			return fmt.Errorf("unknown worldspace %q", worldspace)
		}
	}
	var reg *Region
	if region != "" {
		var ok bool
		if reg, ok = w.byName[region]; !ok {
			return fmt.Errorf("unknown region %q", region)
		}
		if reg.ws != ws {
			return fmt.Errorf("region %s is not in worldspace %q", region, worldspace)
		}
	}
	w.playerWS, w.playerReg, w.interior = ws, reg, interior
	w.log.Info("player moved", "worldspace", worldspace, "region", region, "interior", interior)
	return nil
}

// Advance moves game time forward by hours and reports whether the month changed.
func (w *World) Advance(hours float64) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	before := w.calendar.Month()
	w.calendar.Advance(hours)
	return w.calendar.Month() != before
}

func (w *World) AdvanceMonths(n int) {
	w.mu.Lock()
	w.calendar.AdvanceMonths(n)
	w.mu.Unlock()
}

func (w *World) Date() Date {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.calendar.Date()
}

func (w *World) Player() Player {
	w.mu.Lock()
	defer w.mu.Unlock()
	p := Player{Interior: w.interior}
	if w.playerWS != nil {
		p.Worldspace = w.playerWS.editorID
	}
	if w.playerReg != nil {
		p.Region = w.playerReg.editorID
	}
	return p
}

// CurrentWeather is the editor ID of the weather playing now, or "" before any roll.
func (w *World) CurrentWeather() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.sky.current == nil {
		return ""
	}
	return weatherLabel(w.sky.current)
}

// CurrentWeatherClass classifies the weather playing now.
func (w *World) CurrentWeatherClass() engine.WeatherClass {
	w.mu.Lock()
	defer w.mu.Unlock()
	return engine.Classify(w.sky.current)
}

func (w *World) SkyResets() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.sky.resets
}

// Notifications returns the queued messages, oldest first.
func (w *World) Notifications() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]string(nil), w.notes...)
}

// TableWrites sums chance writes over every live table.
func (w *World) TableWrites() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	n := 0
	for _, r := range w.regions {
		if r.list != nil {
			n += r.list.Writes()
		}
	}
	return n
}

func (w *World) Worldspaces() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]string, 0, len(w.worldspaces))
	for id := range w.worldspaces {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// RegionsIn lists the named regions of a world-space that own a weather table.
func (w *World) RegionsIn(worldspace string) []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	var out []string
	for _, r := range w.regions {
		if r.ws == nil || r.ws.editorID != worldspace || r.list == nil || r.editorID == "" {
			continue
		}
		out = append(out, r.editorID)
	}
	return out
}

func weatherLabel(wf engine.WeatherForm) string {
	if wf == nil {
		return ""
	}
	return engine.DisplayName("Weather", wf.FormID(), wf.EditorID())
}
