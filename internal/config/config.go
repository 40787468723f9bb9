// Package config holds the user-editable framework settings and their INI round trip.
package config

import (
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/InTheBottle/SeasonalWeatherSKSE/internal/engine"
)

const (
	FileName = "SeasonalWeatherFramework.ini"

	// DefaultInjectedBaseChance is the synthetic base weight an injected entry gets before
	// its season multiplier is applied. Zero keeps injected entries inert.
	DefaultInjectedBaseChance uint32 = 10

	WorldspaceTamriel   = "Tamriel"
	WorldspaceSolstheim = "DLC2SolstheimWorld"
)

// Config is one snapshot of the framework settings. Values handed out by Manager are copies.
type Config struct {
	Enabled            bool
	Notifications      bool
	Debug              bool
	InjectedBaseChance uint32
	Months             engine.SeasonRanges
	Multipliers        engine.SeasonMultipliers
	// Worldspaces is kept sorted and free of duplicates.
	Worldspaces []string
}

func Default() Config {
	return Config{
		Enabled:            true,
		Notifications:      true,
		InjectedBaseChance: DefaultInjectedBaseChance,
		Months:             engine.DefaultSeasonRanges(),
		Multipliers:        engine.DefaultSeasonMultipliers(),
		Worldspaces:        []string{WorldspaceSolstheim, WorldspaceTamriel},
	}
}

func (c Config) Clone() Config {
	out := c
	out.Multipliers = c.Multipliers.Clone()
	out.Worldspaces = append([]string(nil), c.Worldspaces...)
	return out
}

// IsWorldspaceEnabled matches editor IDs exactly, as the host reports them.
func (c Config) IsWorldspaceEnabled(editorID string) bool {
	if editorID == "" {
		return false
	}
	i := sort.SearchStrings(c.Worldspaces, editorID)
	return i < len(c.Worldspaces) && c.Worldspaces[i] == editorID
}

// EnableWorldspace adds a world-space; returns false if it was already managed or blank.
func (c *Config) EnableWorldspace(editorID string) bool {
	editorID = strings.TrimSpace(editorID)
	if editorID == "" || c.IsWorldspaceEnabled(editorID) {
		return false
	}
	c.Worldspaces = append(c.Worldspaces, editorID)
	sort.Strings(c.Worldspaces)
	return true
}

func (c *Config) DisableWorldspace(editorID string) bool {
	for i, ws := range c.Worldspaces {
		if ws == editorID {
			c.Worldspaces = append(c.Worldspaces[:i:i], c.Worldspaces[i+1:]...)
			return true
		}
	}
	return false
}

func (c *Config) setWorldspaces(list []string) {
	c.Worldspaces = nil
	for _, ws := range list {
		c.EnableWorldspace(ws)
	}
}

func (c Config) SeasonForMonth(month int) engine.Season {
	return c.Months.SeasonForMonth(month)
}

func (c Config) MultipliersFor(s engine.Season) engine.Multipliers {
	return c.Multipliers.Get(s)
}

// Manager guards the live configuration and its file.
type Manager struct {
	path string
	log  *slog.Logger

	mu  sync.RWMutex
	cfg Config
}

func NewManager(path string, log *slog.Logger) *Manager {
	if log == nil {
		log = slog.Default()
	}
	if path == "" {
		path = FileName
	}
	return &Manager{path: path, log: log, cfg: Default()}
}

func (m *Manager) Path() string { return m.path }

// Get returns a copy of the current configuration.
func (m *Manager) Get() Config {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.cfg.Clone()
}

// Update applies fn to the live configuration. The change is not saved.
func (m *Manager) Update(fn func(c *Config)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	fn(&m.cfg)
	m.cfg.setWorldspaces(append([]string(nil), m.cfg.Worldspaces...))
}

// ResetToDefaults replaces the live configuration with the built-in defaults. Not saved.
func (m *Manager) ResetToDefaults() {
	m.mu.Lock()
	m.cfg = Default()
	m.mu.Unlock()
	m.log.Info("config reset to defaults")
}
