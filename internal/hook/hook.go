// Package hook turns host events into weight-engine updates. Every event is a signal on one
// channel; a single goroutine drains it, so the engine sees at most one Update per burst.
package hook

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/InTheBottle/SeasonalWeatherSKSE/internal/config"
)

type Kind int

const (
	SignalTick Kind = iota
	SignalMenuClosed
	SignalCellAttached
	SignalGameLoaded
	SignalReapply
)

func (k Kind) String() string {
	switch k {
	case SignalTick:
		return "tick"
	case SignalMenuClosed:
		return "menu_closed"
	case SignalCellAttached:
		return "cell_attached"
	case SignalGameLoaded:
		return "game_loaded"
	case SignalReapply:
		return "reapply"
	default:
		return "unknown"
	}
}

// Menus whose closing can move game time forward.
const (
	MenuSleepWait = "Sleep/Wait Menu"
	MenuMap       = "MapMenu"
)

type Signal struct {
	Kind Kind
	Menu string // set for SignalMenuClosed
}

func Tick() Signal                  { return Signal{Kind: SignalTick} }
func MenuClosed(name string) Signal { return Signal{Kind: SignalMenuClosed, Menu: name} }
func CellAttached() Signal          { return Signal{Kind: SignalCellAttached} }
func GameLoaded() Signal            { return Signal{Kind: SignalGameLoaded} }
func Reapply() Signal               { return Signal{Kind: SignalReapply} }

// forces reports whether the signal must bypass the engine's no-change shortcut.
func (s Signal) forces() bool {
	switch s.Kind {
	case SignalReapply, SignalGameLoaded:
		return true
	case SignalMenuClosed:
		return s.Menu == MenuSleepWait || s.Menu == MenuMap
	}
	return false
}

// Engine is the part of the weight engine the dispatcher drives.
type Engine interface {
	Update()
	ForceRefresh()
}

type Settings interface {
	Get() config.Config
}

type Dispatcher struct {
	engine   Engine
	settings Settings
	log      *slog.Logger
	ch       chan Signal

	updates atomic.Int64
	dropped atomic.Int64
}

func NewDispatcher(engine Engine, settings Settings, log *slog.Logger, buffer int) *Dispatcher {
	if log == nil {
		log = slog.Default()
	}
	if buffer < 1 {
		buffer = 64
	}
	return &Dispatcher{engine: engine, settings: settings, log: log, ch: make(chan Signal, buffer)}
}

// Send queues a signal without blocking. When the queue is full the signal is dropped: an
// update is already pending, and a forcing signal still sets the engine's refresh flag.
func (d *Dispatcher) Send(sig Signal) bool {
	select {
	case d.ch <- sig:
		return true
	default:
		if sig.forces() {
			d.engine.ForceRefresh()
		}
		d.dropped.Add(1)
		return false
	}
}

// Run drains signals until ctx is done.
func (d *Dispatcher) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case sig := <-d.ch:
			batch := []Signal{sig}
		drain:
			for {
				select {
				case next := <-d.ch:
					batch = append(batch, next)
				default:
					break drain
				}
			}
			d.handle(batch)
		}
	}
}

// Updates is the number of engine updates issued so far.
func (d *Dispatcher) Updates() int64 { return d.updates.Load() }

func (d *Dispatcher) Dropped() int64 { return d.dropped.Load() }

func (d *Dispatcher) handle(batch []Signal) {
	cfg := d.settings.Get()
	update := false
	for _, sig := range batch {
		switch sig.Kind {
		case SignalMenuClosed, SignalCellAttached:
			// While disabled only ticks reach the engine; they are enough to restore.
			if !cfg.Enabled {
				continue
			}
			if sig.Kind == SignalMenuClosed && !sig.forces() {
				continue
			}
		}
		if sig.forces() {
			d.engine.ForceRefresh()
			d.log.Debug("hook: refresh requested", "signal", sig.Kind.String(), "menu", sig.Menu)
		}
		update = true
	}
	if !update {
		return
	}
	d.engine.Update()
	d.updates.Add(1)
}

// Ticker sends a tick every interval until ctx is done.
func Ticker(ctx context.Context, interval time.Duration, d *Dispatcher) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			d.Send(Tick())
		}
	}
}
