package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/ini.v1"

	"github.com/InTheBottle/SeasonalWeatherSKSE/internal/engine"
)

const (
	sectionGeneral     = "General"
	sectionMonths      = "SeasonMonths"
	sectionWorldspaces = "Worldspaces"
	sectionTransitions = "Transitions"
)

func multiplierSection(s engine.Season) string {
	return s.Label() + "Multipliers"
}

// Load reads the configuration file over the current values. A missing file is a first run:
// defaults are kept and written out. Malformed values keep whatever was there before.
func (m *Manager) Load() error {
	if _, err := os.Stat(m.path); errors.Is(err, os.ErrNotExist) {
		m.log.Info("config file not found, writing defaults", "path", m.path)
		return m.Save()
	}
	f, err := ini.LoadSources(ini.LoadOptions{
		Loose:                   true,
		IgnoreInlineComment:     true,
		SkipUnrecognizableLines: true,
	}, m.path)
	if err != nil {
		m.log.Warn("failed to read config file", "path", m.path, "err", err)
		return errors.Wrapf(err, "read config %s", m.path)
	}

	m.mu.Lock()
	bad := apply(&m.cfg, f)
	m.mu.Unlock()

	for _, key := range bad {
		m.log.Warn("config: malformed value, keeping previous", "key", key)
	}
	m.log.Info("config loaded", "path", m.path)
	return nil
}

// Parse reads INI text into a copy of base. Returned keys are the ones whose values were malformed.
func Parse(base Config, data []byte) (Config, []string, error) {
	f, err := ini.LoadSources(ini.LoadOptions{IgnoreInlineComment: true, SkipUnrecognizableLines: true}, data)
	if err != nil {
		return base, nil, errors.Wrap(err, "parse config")
	}
	out := base.Clone()
	bad := apply(&out, f)
	return out, bad, nil
}

func apply(c *Config, f *ini.File) []string {
	var bad []string
	readBool := func(sec *ini.Section, key string, dst *bool) {
		if !sec.HasKey(key) {
			return
		}
		v, err := sec.Key(key).Bool()
		if err != nil {
			bad = append(bad, sec.Name()+"."+key)
			return
		}
		*dst = v
	}
	readInt := func(sec *ini.Section, key string, dst *int) {
		if !sec.HasKey(key) {
			return
		}
		v, err := sec.Key(key).Int()
		if err != nil {
			bad = append(bad, sec.Name()+"."+key)
			return
		}
		*dst = v
	}
	readFloat := func(sec *ini.Section, key string, dst *float64) {
		if !sec.HasKey(key) {
			return
		}
		v, err := sec.Key(key).Float64()
		if err != nil {
			bad = append(bad, sec.Name()+"."+key)
			return
		}
		*dst = v
	}

	if sec, err := f.GetSection(sectionGeneral); err == nil {
		readBool(sec, "bEnabled", &c.Enabled)
		readBool(sec, "bEnableNotifications", &c.Notifications)
		readBool(sec, "bDebugMode", &c.Debug)
		if sec.HasKey("iInjectedBaseChance") {
			v, err := strconv.ParseUint(strings.TrimSpace(sec.Key("iInjectedBaseChance").String()), 10, 32)
			if err != nil {
				bad = append(bad, sectionGeneral+".iInjectedBaseChance")
			} else {
				c.InjectedBaseChance = uint32(v)
			}
		}
	}

	if sec, err := f.GetSection(sectionMonths); err == nil {
		readInt(sec, "iSpringStart", &c.Months.SpringStart)
		readInt(sec, "iSpringEnd", &c.Months.SpringEnd)
		readInt(sec, "iSummerStart", &c.Months.SummerStart)
		readInt(sec, "iSummerEnd", &c.Months.SummerEnd)
		readInt(sec, "iFallStart", &c.Months.FallStart)
		readInt(sec, "iFallEnd", &c.Months.FallEnd)
	}

	if sec, err := f.GetSection(sectionWorldspaces); err == nil {
		if sec.HasKey("sEnabledWorldspaces") {
			c.setWorldspaces(splitCSV(sec.Key("sEnabledWorldspaces").String()))
		}
		legacy := []struct{ key, ws string }{
			{"bEnableTamriel", WorldspaceTamriel},
			{"bEnableSolstheim", WorldspaceSolstheim},
		}
		for _, l := range legacy {
			if !sec.HasKey(l.key) {
				continue
			}
			on := true
			readBool(sec, l.key, &on)
			if on {
				c.EnableWorldspace(l.ws)
			} else {
				c.DisableWorldspace(l.ws)
			}
		}
	}

	if c.Multipliers == nil {
		c.Multipliers = engine.DefaultSeasonMultipliers()
	}
	for _, season := range engine.AllSeasons {
		sec, err := f.GetSection(multiplierSection(season))
		if err != nil {
			continue
		}
		mult := c.Multipliers.Get(season)
		readFloat(sec, "fPleasant", &mult.Pleasant)
		readFloat(sec, "fCloudy", &mult.Cloudy)
		readFloat(sec, "fRainy", &mult.Rainy)
		readFloat(sec, "fSnow", &mult.Snow)
		c.Multipliers[season] = mult
	}
	return bad
}

// Save writes the current configuration. The file is replaced atomically.
func (m *Manager) Save() error {
	snapshot := m.Get()
	f := Encode(snapshot)

	dir := filepath.Dir(m.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		m.log.Error("failed to create config directory", "dir", dir, "err", err)
		return errors.Wrap(err, "create config dir")
	}
	tmp, err := os.CreateTemp(dir, ".swf-*.ini")
	if err != nil {
		m.log.Error("failed to write config file", "path", m.path, "err", err)
		return errors.Wrap(err, "create temp config")
	}
	defer os.Remove(tmp.Name())
	if _, err := f.WriteTo(tmp); err != nil {
		tmp.Close()
		m.log.Error("failed to write config file", "path", m.path, "err", err)
		return errors.Wrap(err, "write config")
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(err, "close temp config")
	}
	if err := os.Rename(tmp.Name(), m.path); err != nil {
		m.log.Error("failed to replace config file", "path", m.path, "err", err)
		return errors.Wrapf(err, "replace %s", m.path)
	}
	m.log.Info("config saved", "path", m.path)
	return nil
}

// Encode renders c in the on-disk layout, comments included.
func Encode(c Config) *ini.File {
	f := ini.Empty()

	general, _ := f.NewSection(sectionGeneral)
	general.Comment = "# Seasonal Weather Framework - Configuration\n# Modifies region weather probabilities based on the current in-game season."
	addKey(general, "bEnabled", strconv.FormatBool(c.Enabled), "Master toggle for the framework")
	addKey(general, "bEnableNotifications", strconv.FormatBool(c.Notifications), "Show HUD notification when season changes")
	addKey(general, "bDebugMode", strconv.FormatBool(c.Debug), "Enable debug logging")
	addKey(general, "iInjectedBaseChance", strconv.FormatUint(uint64(c.InjectedBaseChance), 10),
		"Base weight given to injected weathers before the season multiplier (0 keeps them inert)")

	months, _ := f.NewSection(sectionMonths)
	months.Comment = "# Month indices (0 = Morning Star ... 11 = Evening Star)"
	addKey(months, "iSpringStart", strconv.Itoa(c.Months.SpringStart), "")
	addKey(months, "iSpringEnd", strconv.Itoa(c.Months.SpringEnd), "")
	addKey(months, "iSummerStart", strconv.Itoa(c.Months.SummerStart), "")
	addKey(months, "iSummerEnd", strconv.Itoa(c.Months.SummerEnd), "")
	addKey(months, "iFallStart", strconv.Itoa(c.Months.FallStart), "")
	addKey(months, "iFallEnd", strconv.Itoa(c.Months.FallEnd), "")

	ws, _ := f.NewSection(sectionWorldspaces)
	ws.Comment = "# Comma-separated list of worldspace EditorIDs to apply seasonal weather to.\n# Add any modded worldspace EditorID here (e.g. Tamriel,DLC2SolstheimWorld,Falskaar)."
	addKey(ws, "sEnabledWorldspaces", strings.Join(c.Worldspaces, ","), "")

	tr, _ := f.NewSection(sectionTransitions)
	tr.Comment = "# Weather transitions are left to the game; this section is kept for older files."

	for _, season := range engine.AllSeasons {
		mult := c.Multipliers.Get(season)
		sec, _ := f.NewSection(multiplierSection(season))
		sec.Comment = "# Multipliers applied to base region weather chances for this season.\n# Values > 1.0 increase probability, < 1.0 decrease, 0.0 removes entirely."
		addKey(sec, "fPleasant", formatFloat(mult.Pleasant), "")
		addKey(sec, "fCloudy", formatFloat(mult.Cloudy), "")
		addKey(sec, "fRainy", formatFloat(mult.Rainy), "")
		addKey(sec, "fSnow", formatFloat(mult.Snow), "")
	}
	return f
}

func addKey(sec *ini.Section, name, value, comment string) {
	k, _ := sec.NewKey(name, value)
	if comment != "" {
		k.Comment = "# " + comment
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func splitCSV(raw string) []string {
	var out []string
	for _, tok := range strings.Split(raw, ",") {
		if tok = strings.TrimSpace(tok); tok != "" {
			out = append(out, tok)
		}
	}
	return out
}
