// Package app wires the host world, the region catalog, the weight engine and the hook
// dispatcher into one value the TUI, the HTTP API and the CLI share.
package app

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"github.com/pkg/errors"

	"github.com/InTheBottle/SeasonalWeatherSKSE/internal/catalog"
	"github.com/InTheBottle/SeasonalWeatherSKSE/internal/config"
	"github.com/InTheBottle/SeasonalWeatherSKSE/internal/engine"
	"github.com/InTheBottle/SeasonalWeatherSKSE/internal/hook"
	"github.com/InTheBottle/SeasonalWeatherSKSE/internal/host"
	"github.com/InTheBottle/SeasonalWeatherSKSE/internal/store"
	"github.com/InTheBottle/SeasonalWeatherSKSE/internal/util"
	"github.com/InTheBottle/SeasonalWeatherSKSE/internal/weather"
)

// DefaultTick is how often the ticker nudges the engine.
const DefaultTick = 5 * time.Second

type App struct {
	Log     *slog.Logger
	Config  *config.Manager
	World   *host.World
	Catalog *catalog.Scanner
	Weather *weather.Manager
	Hooks   *hook.Dispatcher

	// Source names where the game data came from ("postgres", a file path, "embedded").
	Source string
}

// New builds the services over ds. Nothing is scanned until Load.
func New(cfg *config.Manager, ds store.Dataset, seed int64, log *slog.Logger) (*App, error) {
	if log == nil {
		log = slog.Default()
	}
	world, err := host.New(ds, seed, log.With("component", "host"))
	if err != nil {
		return nil, err
	}
	scanner := catalog.NewScanner(world, log.With("component", "catalog"))
	mgr := weather.NewManager(cfg, scanner, world, log.With("component", "weather"))
	return &App{
		Log:     log,
		Config:  cfg,
		World:   world,
		Catalog: scanner,
		Weather: mgr,
		Hooks:   hook.NewDispatcher(mgr, cfg, log.With("component", "hook"), 0),
	}, nil
}

// Load is the data-loaded sequence: scan every region, inject missing weathers into the
// world-spaces managed right now and apply the first season.
func (a *App) Load() error {
	if err := a.Catalog.Scan(); err != nil {
		return errors.Wrap(err, "load game data")
	}
	a.Catalog.InjectMissingWeathers(a.Config.Get().IsWorldspaceEnabled)
	a.Reapply()
	return nil
}

// Start runs the dispatcher and the ticker until ctx is done and announces the loaded game.
func (a *App) Start(ctx context.Context, tick time.Duration) {
	if tick <= 0 {
		tick = DefaultTick
	}
	go func() {
		if err := a.Hooks.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			a.Log.Error("hook dispatcher stopped", "err", err)
		}
	}()
	go hook.Ticker(ctx, tick, a.Hooks)
	a.Hooks.Send(hook.GameLoaded())
}

// Reapply forces a full re-apply now.
func (a *App) Reapply() {
	a.Weather.ForceRefresh()
	a.Weather.Update()
}

// UpdateConfig edits the live configuration and re-applies.
func (a *App) UpdateConfig(fn func(c *config.Config)) {
	a.Config.Update(fn)
	a.afterConfigChange()
}

// ReloadConfig re-reads the INI from disk.
func (a *App) ReloadConfig() error {
	if err := a.Config.Load(); err != nil {
		return err
	}
	a.afterConfigChange()
	return nil
}

func (a *App) SaveConfig() error { return a.Config.Save() }

func (a *App) ResetConfig() {
	a.Config.ResetToDefaults()
	a.afterConfigChange()
}

func (a *App) afterConfigChange() {
	util.SetDebug(a.Config.Get().Debug)
	a.Reapply()
}

// SetOverride pins the season; an empty season returns to the calendar.
func (a *App) SetOverride(s engine.Season) {
	if s == "" {
		a.Weather.ClearSeasonOverride()
	} else {
		a.Weather.SetSeasonOverride(s)
	}
	a.Weather.Update()
}

// Wait advances game time like the sleep/wait menu does.
func (a *App) Wait(hours float64) {
	a.World.Advance(hours)
	a.Hooks.Send(hook.MenuClosed(hook.MenuSleepWait))
}

// SkipMonths jumps the calendar by n months.
func (a *App) SkipMonths(n int) {
	a.World.AdvanceMonths(n)
	a.Hooks.Send(hook.MenuClosed(hook.MenuSleepWait))
}

// Travel moves the player and reports the cell change.
func (a *App) Travel(worldspace, region string, interior bool) error {
	if err := a.World.MoveTo(worldspace, region, interior); err != nil {
		return err
	}
	a.Hooks.Send(hook.CellAttached())
	return nil
}

// Warnings lists configuration problems, including world-spaces the game data lacks.
func (a *App) Warnings() []string {
	cfg := a.Config.Get()
	warnings := cfg.Validate()
	unknown := cfg.UnknownWorldspaces(a.World.Worldspaces())
	names := make([]string, 0, len(unknown))
	for name := range unknown {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		suggestion := unknown[name]
		msg := "worldspace " + name + " is not in the game data"
		if suggestion != "" {
			msg += "; did you mean " + suggestion + "?"
		}
		warnings = append(warnings, msg)
	}
	return warnings
}
