package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"github.com/InTheBottle/SeasonalWeatherSKSE/internal/api"
	"github.com/InTheBottle/SeasonalWeatherSKSE/internal/app"
	"github.com/InTheBottle/SeasonalWeatherSKSE/internal/config"
	"github.com/InTheBottle/SeasonalWeatherSKSE/internal/engine"
	"github.com/InTheBottle/SeasonalWeatherSKSE/internal/store"
	"github.com/InTheBottle/SeasonalWeatherSKSE/internal/ui"
	"github.com/InTheBottle/SeasonalWeatherSKSE/internal/util"
)

var version = "1.0.0"

func main() {
	env := util.LoadEnv()

	flag.StringVar(&env.ConfigPath, "config", env.ConfigPath, "Path to "+config.FileName)
	flag.StringVar(&env.FixturePath, "data", env.FixturePath, "Game data fixture (YAML); embedded default if empty")
	flag.StringVar(&env.DSN, "dsn", env.DSN, "PostgreSQL DSN for game data; wins over -data")
	flag.StringVar(&env.HTTPAddr, "http", env.HTTPAddr, "Serve the HTTP API on this address (e.g. :8080)")
	flag.StringVar(&env.LogPath, "log", env.LogPath, "Log file, or - for stderr")
	flag.Int64Var(&env.Seed, "seed", env.Seed, "Seed for the simulated sky")
	flag.BoolVar(&env.Headless, "headless", false, "Run without the TUI until interrupted")
	tick := flag.Duration("tick", app.DefaultTick, "Engine tick interval")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "seasonweather [flags] [run | scan | validate | version | migrate up|down|version | import <fixture.yaml>]\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	args := flag.Args()
	cmd := "run"
	if len(args) > 0 {
		cmd = args[0]
	}

	switch cmd {
	case "version":
		fmt.Println("seasonweather", version)
	case "migrate":
		if len(args) < 2 {
			log.Fatal("migrate requires up, down or version")
		}
		runMigrate(env, args[1])
	case "import":
		if len(args) < 2 {
			log.Fatal("import requires a fixture path")
		}
		runImport(env, args[1])
	case "scan":
		a := boot(context.Background(), env)
		printSummary(a)
	case "validate":
		a := boot(context.Background(), env)
		warnings := a.Warnings()
		if len(warnings) == 0 {
			fmt.Println("configuration OK")
			return
		}
		for _, w := range warnings {
			fmt.Println("warning:", w)
		}
		os.Exit(1)
	case "run":
		if err := run(env, *tick); err != nil {
			log.Fatal(err)
		}
	default:
		flag.Usage()
		os.Exit(2)
	}
}

// boot loads configuration and game data and runs the data-loaded sequence. Logs go to
// stderr for the one-shot commands.
func boot(ctx context.Context, env util.Config) *app.App {
	logger, _, err := util.NewLogger("-", false)
	if err != nil {
		log.Fatal(err)
	}
	a, err := newApp(ctx, env, logger)
	if err != nil {
		log.Fatal(err)
	}
	return a
}

func newApp(ctx context.Context, env util.Config, logger *slog.Logger) (*app.App, error) {
	cfg := config.NewManager(env.ConfigPath, logger.With("component", "config"))
	if err := cfg.Load(); err != nil {
		return nil, err
	}
	util.SetDebug(cfg.Get().Debug)

	loadCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	ds, source, err := app.LoadDataset(loadCtx, env)
	if err != nil {
		return nil, err
	}
	a, err := app.New(cfg, ds, env.Seed, logger)
	if err != nil {
		return nil, err
	}
	a.Source = source
	if err := a.Load(); err != nil {
		return nil, err
	}
	logger.Info("seasonal weather loaded", "version", version, "source", source, "status", a.Weather.StatusString())
	return a, nil
}

func run(env util.Config, tick time.Duration) error {
	logPath := env.LogPath
	if env.Headless && logPath == "" {
		logPath = "-"
	}
	logger, sink, err := util.NewLogger(logPath, false)
	if err != nil {
		return err
	}
	defer sink.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, env, logger)
	if err != nil {
		return err
	}
	a.Start(ctx, tick)

	if env.HTTPAddr != "" {
		server := api.NewServer(a, version, sink)
		go func() {
			logger.Info("http api listening", "addr", env.HTTPAddr)
			if err := server.Listen(env.HTTPAddr); err != nil {
				logger.Error("http api stopped", "err", err)
			}
		}()
		defer func() {
			if err := server.ShutdownWithTimeout(5 * time.Second); err != nil {
				logger.Error("http api shutdown", "err", err)
			}
		}()
	}

	if env.Headless {
		fmt.Fprintf(os.Stderr, "seasonweather %s running headless: %s\n", version, a.Weather.StatusString())
		<-ctx.Done()
		logger.Info("shutting down")
		return nil
	}
	return ui.Run(ctx, a, version)
}

func printSummary(a *app.App) {
	s := a.Summary()
	fmt.Printf("source:          %s\n", s.Source)
	fmt.Printf("regions:         %d\n", s.Regions)
	fmt.Printf("unique weathers: %d\n", s.Weathers)
	fmt.Printf("injected:        %d\n", s.Injected)
	for _, c := range engine.AllWeatherClasses {
		fmt.Printf("  %-9s %d\n", c.Label(), s.Classes[c])
	}
	counts := map[string]int{}
	for _, r := range a.Regions("") {
		ws := r.Worldspace
		if ws == "" {
			ws = "(none)"
		}
		counts[ws]++
	}
	names := make([]string, 0, len(counts))
	for ws := range counts {
		names = append(names, ws)
	}
	sort.Strings(names)
	cfg := a.Config.Get()
	for _, ws := range names {
		managed := ""
		if cfg.IsWorldspaceEnabled(ws) {
			managed = " (managed)"
		}
		fmt.Printf("worldspace %s: %d regions%s\n", ws, counts[ws], managed)
	}
	fmt.Println("status:", a.Weather.StatusString())
}

func runMigrate(env util.Config, action string) {
	if env.DSN == "" {
		log.Fatal("migrate needs -dsn or DATABASE_URL")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	migrator, err := store.NewMigrator(env.DSN)
	if err != nil {
		log.Fatal(err)
	}
	switch action {
	case "up":
		if err := migrator.Up(ctx); err != nil && err != store.ErrNoChange {
			log.Fatal(err)
		}
		fmt.Println("Migrations applied")
	case "down":
		if err := migrator.Down(ctx); err != nil && err != store.ErrNoChange {
			log.Fatal(err)
		}
		fmt.Println("Migrations rolled back")
	case "version":
		v, dirty, err := migrator.Version()
		if err != nil {
			log.Fatal(err)
		}
		fmt.Printf("schema version %d (dirty: %v)\n", v, dirty)
	default:
		log.Fatal("unknown migrate action; use up|down|version")
	}
}

// runImport loads a fixture into Postgres, replacing whatever game data is stored.
func runImport(env util.Config, path string) {
	if env.DSN == "" {
		log.Fatal("import needs -dsn or DATABASE_URL")
	}
	ds, err := store.LoadFixture(path)
	if err != nil {
		log.Fatal(err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	// Ensure migrations are present and applied before writing
	migrator, err := store.NewMigrator(env.DSN)
	if err != nil {
		log.Fatalf("migrations init failed: %v", err)
	}
	if err := migrator.Up(ctx); err != nil && err != store.ErrNoChange {
		log.Fatalf("migrations failed: %v", err)
	}

	db, err := store.Open(ctx, env)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()
	if err := store.NewGameDataRepo(db).Import(ctx, ds); err != nil {
		log.Fatal(err)
	}
	fmt.Printf("Imported %q: %d worldspaces, %d weathers, %d regions\n",
		ds.Name, len(ds.Worldspaces), len(ds.Weathers), len(ds.Regions))
}
