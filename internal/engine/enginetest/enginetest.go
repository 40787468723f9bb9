// Package enginetest provides in-memory host doubles for tests of packages built on engine.
package enginetest

import (
	"sync"

	"github.com/InTheBottle/SeasonalWeatherSKSE/internal/engine"
)

type Weather struct {
	ID   engine.FormID
	Name string
	Flag engine.WeatherFlag
}

func (w *Weather) FormID() engine.FormID     { return w.ID }
func (w *Weather) EditorID() string          { return w.Name }
func (w *Weather) Flags() engine.WeatherFlag { return w.Flag }

type World struct {
	ID   engine.FormID
	Name string
}

func (w *World) FormID() engine.FormID { return w.ID }
func (w *World) EditorID() string      { return w.Name }

type Global float64

func (g Global) Value() float64 { return float64(g) }

// Table counts every SetChance call on its slots in Writes.
type Table struct {
	Slots  []*Slot
	Writes int
}

func (t *Table) Len() int { return len(t.Slots) }

func (t *Table) Slot(i int) engine.WeatherSlot {
	if i < 0 || i >= len(t.Slots) {
		return nil
	}
	return t.Slots[i]
}

func (t *Table) Append(w engine.WeatherForm, chance uint32, scale engine.GlobalValue) {
	t.Slots = append(t.Slots, &Slot{table: t, W: w, C: chance, G: scale})
}

func (t *Table) Chances() []uint32 {
	out := make([]uint32, len(t.Slots))
	for i, s := range t.Slots {
		out[i] = s.C
	}
	return out
}

type Slot struct {
	table *Table
	W     engine.WeatherForm
	C     uint32
	G     engine.GlobalValue
}

func (s *Slot) Weather() engine.WeatherForm { return s.W }
func (s *Slot) Chance() uint32              { return s.C }
func (s *Slot) Scale() engine.GlobalValue   { return s.G }

func (s *Slot) SetChance(c uint32) {
	if s.table != nil {
		s.table.Writes++
	}
	s.C = c
}

type Region struct {
	ID   engine.FormID
	Name string
	WS   engine.WorldSpace
	Tbl  *Table
}

func (r *Region) FormID() engine.FormID         { return r.ID }
func (r *Region) EditorID() string              { return r.Name }
func (r *Region) WorldSpace() engine.WorldSpace { return r.WS }

func (r *Region) WeatherTable() (engine.WeatherTable, bool) {
	if r.Tbl == nil {
		return nil, false
	}
	return r.Tbl, true
}

type Row struct {
	W      engine.WeatherForm
	Chance uint32
	Scale  engine.GlobalValue
}

// NewRegion builds a region whose table holds rows in order. A nil ws leaves the region
// without a world-space.
func NewRegion(id engine.FormID, name string, ws *World, rows ...Row) *Region {
	t := &Table{}
	for _, r := range rows {
		t.Append(r.W, r.Chance, r.Scale)
	}
	r := &Region{ID: id, Name: name, Tbl: t}
	if ws != nil {
		r.WS = ws
	}
	return r
}

type Source struct {
	List []engine.Region
	Err  error
}

func (s *Source) Regions() ([]engine.Region, error) { return s.List, s.Err }

// Runtime is a scriptable engine.Runtime. A nil Player means no player or an interior cell.
type Runtime struct {
	mu         sync.Mutex
	Player     *World
	Month      int
	NoCalendar bool
	NoSky      bool
	Resets     int
	Notes      []string
}

func (r *Runtime) PlayerWorldSpace() (engine.WorldSpace, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Player == nil {
		return nil, false
	}
	return r.Player, true
}

func (r *Runtime) CurrentMonth() (int, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.NoCalendar {
		return 0, false
	}
	return r.Month, true
}

func (r *Runtime) ResetWeather() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.NoSky {
		return false
	}
	r.Resets++
	return true
}

func (r *Runtime) Notify(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Notes = append(r.Notes, msg)
}

func (r *Runtime) SetMonth(m int) {
	r.mu.Lock()
	r.Month = m
	r.mu.Unlock()
}

func (r *Runtime) MoveTo(ws *World) {
	r.mu.Lock()
	r.Player = ws
	r.mu.Unlock()
}

func (r *Runtime) Notifications() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.Notes...)
}
