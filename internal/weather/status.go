package weather

import (
	"fmt"

	"github.com/InTheBottle/SeasonalWeatherSKSE/internal/engine"
)

// Status is a point-in-time copy of the engine state for the settings surfaces.
type Status struct {
	State       engine.EngineState `json:"state"`
	Season      engine.Season      `json:"season"`
	Override    engine.Season      `json:"override,omitempty"`
	HasOverride bool               `json:"has_override"`
	WorldSpace  string             `json:"worldspace,omitempty"`
	Month       int                `json:"month"`
	MonthName   string             `json:"month_name"`
	Applied     bool               `json:"applied"`
	ApplyCount  int                `json:"apply_count"`
	LastWrites  int                `json:"last_writes"`
	Summary     string             `json:"summary"`
}

func (m *Manager) Snapshot() Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	st := Status{
		State:       m.state,
		Season:      m.season,
		HasOverride: m.hasOverride,
		Month:       m.month,
		MonthName:   engine.MonthName(m.month),
		Applied:     m.applied,
		ApplyCount:  m.applyCount,
		LastWrites:  m.lastWrites,
		Summary:     m.statusStringLocked(),
	}
	if m.hasOverride {
		st.Override = m.override
	}
	if m.worldSpace != nil {
		st.WorldSpace = m.worldSpace.EditorID()
	}
	return st
}

func (m *Manager) State() engine.EngineState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// CurrentSeason is the season last applied, not necessarily the calendar season right now.
func (m *Manager) CurrentSeason() engine.Season {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.season
}

func (m *Manager) Override() engine.Season {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.override
}

func (m *Manager) HasOverride() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.hasOverride
}

func (m *Manager) IsActive() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state == engine.StateActive
}

func (m *Manager) CurrentWorldSpace() engine.WorldSpace {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.worldSpace
}

// ApplyCount is the number of apply passes since start.
func (m *Manager) ApplyCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.applyCount
}

func (m *Manager) StatusString() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.statusStringLocked()
}

func (m *Manager) statusStringLocked() string {
	switch m.state {
	case engine.StateDisabled:
		return "Disabled"
	case engine.StateActive:
	default:
		return "Inactive (not in a managed exterior worldspace)"
	}
	s := fmt.Sprintf("Active - %s", m.season.Label())
	if m.hasOverride {
		s += " (Override)"
	}
	if m.worldSpace != nil && m.worldSpace.EditorID() != "" {
		s += " | " + m.worldSpace.EditorID()
	}
	return s
}
