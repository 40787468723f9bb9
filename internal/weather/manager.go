// Package weather is the weight engine: it tracks the effective season and rewrites the
// live region weather tables of managed world-spaces when it changes.
package weather

import (
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/InTheBottle/SeasonalWeatherSKSE/internal/catalog"
	"github.com/InTheBottle/SeasonalWeatherSKSE/internal/config"
	"github.com/InTheBottle/SeasonalWeatherSKSE/internal/engine"
)

// Settings supplies configuration snapshots. *config.Manager satisfies it.
type Settings interface {
	Get() config.Config
}

// Manager owns the engine state. Lock order is Manager, then the catalog.
type Manager struct {
	settings Settings
	catalog  *catalog.Scanner
	host     engine.Runtime
	log      *slog.Logger

	forceRefresh atomic.Bool

	mu          sync.Mutex
	state       engine.EngineState
	season      engine.Season
	override    engine.Season
	hasOverride bool
	applied     bool
	worldSpace  engine.WorldSpace
	month       int
	applyCount  int
	lastWrites  int
	missing     map[string]bool

	// owned holds the regions a managed apply has written since the last restore.
	owned map[*catalog.RegionInfo]bool
}

func NewManager(settings Settings, scanner *catalog.Scanner, host engine.Runtime, log *slog.Logger) *Manager {
	if log == nil {
		log = slog.Default()
	}
	return &Manager{
		settings: settings,
		catalog:  scanner,
		host:     host,
		log:      log,
		state:    engine.StateInactive,
		season:   engine.SeasonWinter,
		override: engine.SeasonWinter,
		missing:  map[string]bool{},
		owned:    map[*catalog.RegionInfo]bool{},
	}
}

// Update re-evaluates the season and re-applies weights when needed. Safe to call at any
// frequency: with nothing changed it returns without touching a table.
func (m *Manager) Update() {
	m.mu.Lock()
	defer m.mu.Unlock()

	cfg := m.settings.Get()
	if !cfg.Enabled {
		if m.applied {
			m.restoreLocked()
			m.applied = false
		}
		m.state = engine.StateDisabled
		return
	}

	m.worldSpace = m.playerWorldSpace()
	if m.worldSpace != nil && cfg.IsWorldspaceEnabled(m.worldSpace.EditorID()) {
		m.state = engine.StateActive
	} else {
		m.state = engine.StateInactive
	}

	effective := m.effectiveSeasonLocked(cfg)
	changed := effective != m.season
	if m.applied && !changed && !m.forceRefresh.Load() {
		return
	}

	if changed && m.applied {
		m.log.Info("season changed", "from", m.season, "to", effective)
		if cfg.Notifications && m.host != nil {
			m.host.Notify("Seasonal Weather: " + effective.Label() + " has arrived")
		}
	}

	m.season = effective
	m.applyLocked(cfg, effective)
	m.applied = true
	m.forceRefresh.Store(false)
}

// ForceRefresh makes the next Update re-apply even if the season did not change. Lock-free.
func (m *Manager) ForceRefresh() {
	m.forceRefresh.Store(true)
}

func (m *Manager) SetSeasonOverride(s engine.Season) {
	if !s.Validate() {
		m.log.Warn("ignoring unknown season override", "season", s)
		return
	}
	m.mu.Lock()
	m.override = s
	m.hasOverride = true
	m.forceRefresh.Store(true)
	m.mu.Unlock()
	m.log.Info("season override set", "season", s)
}

func (m *Manager) ClearSeasonOverride() {
	m.mu.Lock()
	m.hasOverride = false
	m.forceRefresh.Store(true)
	m.mu.Unlock()
	m.log.Info("season override cleared")
}

// EffectiveSeason is the override when set, else the season of the current calendar month.
func (m *Manager) EffectiveSeason() engine.Season {
	cfg := m.settings.Get()
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.effectiveSeasonLocked(cfg)
}

func (m *Manager) effectiveSeasonLocked(cfg config.Config) engine.Season {
	m.month = m.currentMonth()
	if m.hasOverride {
		return m.override
	}
	return cfg.SeasonForMonth(m.month)
}

// currentMonth reads the host calendar. Without one the month is 0, which falls in winter
// under the default ranges.
func (m *Manager) currentMonth() int {
	if m.host == nil {
		m.noteAvailability("calendar", false)
		return 0
	}
	month, ok := m.host.CurrentMonth()
	m.noteAvailability("calendar", ok)
	if !ok {
		return 0
	}
	return month
}

func (m *Manager) playerWorldSpace() engine.WorldSpace {
	if m.host == nil {
		m.noteAvailability("runtime", false)
		return nil
	}
	ws, ok := m.host.PlayerWorldSpace()
	if !ok {
		return nil
	}
	return ws
}

// noteAvailability logs a host capability going away or coming back, once per transition.
func (m *Manager) noteAvailability(name string, ok bool) {
	if ok == !m.missing[name] {
		return
	}
	m.missing[name] = !ok
	if ok {
		m.log.Info("host capability available again", "capability", name)
	} else {
		m.log.Warn("host capability unavailable", "capability", name)
	}
}
