package store

import (
	"context"
	"database/sql"
	errs "errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/InTheBottle/SeasonalWeatherSKSE/internal/engine"
	"github.com/InTheBottle/SeasonalWeatherSKSE/internal/util"
)

var ErrNoChange = errs.New("no change")

// DB wraps gorm.DB for the repositories.
type DB struct {
	gorm *gorm.DB
	sql  *sql.DB
}

func (d *DB) Close() error { return d.sql.Close() }

// Open connects to the game-data database.
func Open(ctx context.Context, cfg util.Config) (*DB, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("missing DSN")
	}
	// Postgres-only
	gdb, err := gorm.Open(postgres.Open(cfg.DSN), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		return nil, wrap(err, "open database")
	}
	sdb, err := gdb.DB()
	if err != nil {
		return nil, err
	}
	sdb.SetConnMaxLifetime(30 * time.Minute)
	sdb.SetMaxOpenConns(10)
	sdb.SetMaxIdleConns(5)
	if err := sdb.PingContext(ctx); err != nil {
		return nil, wrap(err, "ping database")
	}
	return &DB{gorm: gdb, sql: sdb}, nil
}

// WithTx executes fn within a database transaction.
func (d *DB) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return d.gorm.WithContext(ctx).Transaction(fn)
}

// GameDataRepo reads and replaces the stored dataset.
type GameDataRepo struct{ db *DB }

func NewGameDataRepo(db *DB) *GameDataRepo { return &GameDataRepo{db: db} }

type recordRow struct {
	FormID   int64
	EditorID string
}

type weatherRow struct {
	FormID   int64
	EditorID string
	Flags    string
}

type globalRow struct {
	FormID   int64
	EditorID string
	Value    float64
}

type regionRow struct {
	ID            uuid.UUID
	FormID        int64
	EditorID      string
	Worldspace    string
	NoWeatherData bool
}

type regionWeatherRow struct {
	RegionID uuid.UUID
	Weather  string
	Chance   int64
	Global   string
}

type gameStateRow struct {
	Name             string
	Year             int
	Month            int
	Day              int
	Hour             float64
	PlayerWorldspace string
	PlayerRegion     string
	PlayerInterior   bool
}

// Load reads the whole dataset. Table order in each region follows the stored index.
func (r *GameDataRepo) Load(ctx context.Context) (Dataset, error) {
	db := r.db.gorm.WithContext(ctx)
	var ds Dataset

	var state []gameStateRow
	if err := db.Raw(`SELECT name, year, month, day, hour, player_worldspace, player_region, player_interior FROM game_state LIMIT 1`).Scan(&state).Error; err != nil {
		return Dataset{}, wrap(err, "load game state")
	}
	if len(state) == 1 {
		s := state[0]
		ds.Name = s.Name
		ds.Calendar = CalendarStart{Year: s.Year, Month: s.Month, Day: s.Day, Hour: s.Hour}
		ds.Player = PlayerStart{Worldspace: s.PlayerWorldspace, Region: s.PlayerRegion, Interior: s.PlayerInterior}
	}

	var worldspaces []recordRow
	if err := db.Raw(`SELECT form_id, editor_id FROM worldspaces ORDER BY form_id`).Scan(&worldspaces).Error; err != nil {
		return Dataset{}, wrap(err, "load worldspaces")
	}
	for _, w := range worldspaces {
		id, err := formID(w.FormID, w.EditorID)
		if err != nil {
			return Dataset{}, err
		}
		ds.Worldspaces = append(ds.Worldspaces, WorldspaceRecord{FormID: id, EditorID: w.EditorID})
	}

	var weathers []weatherRow
	if err := db.Raw(`SELECT form_id, editor_id, array_to_string(flags, ',') AS flags FROM weathers ORDER BY form_id`).Scan(&weathers).Error; err != nil {
		return Dataset{}, wrap(err, "load weathers")
	}
	for _, w := range weathers {
		id, err := formID(w.FormID, w.EditorID)
		if err != nil {
			return Dataset{}, err
		}
		rec := WeatherRecord{FormID: id, EditorID: w.EditorID}
		if w.Flags != "" {
			rec.Flags = strings.Split(w.Flags, ",")
		}
		ds.Weathers = append(ds.Weathers, rec)
	}

	var globals []globalRow
	if err := db.Raw(`SELECT form_id, editor_id, value FROM globals ORDER BY form_id`).Scan(&globals).Error; err != nil {
		return Dataset{}, wrap(err, "load globals")
	}
	for _, g := range globals {
		id, err := formID(g.FormID, g.EditorID)
		if err != nil {
			return Dataset{}, err
		}
		ds.Globals = append(ds.Globals, GlobalRecord{FormID: id, EditorID: g.EditorID, Value: g.Value})
	}

	var regions []regionRow
	if err := db.Raw(`SELECT r.id, r.form_id, r.editor_id, COALESCE(w.editor_id, '') AS worldspace, r.no_weather_data
		FROM regions r LEFT JOIN worldspaces w ON w.id = r.worldspace_id ORDER BY r.form_id`).Scan(&regions).Error; err != nil {
		return Dataset{}, wrap(err, "load regions")
	}
	var entries []regionWeatherRow
	if err := db.Raw(`SELECT rw.region_id, we.editor_id AS weather, rw.chance, COALESCE(g.editor_id, '') AS global
		FROM region_weathers rw
		JOIN weathers we ON we.id = rw.weather_id
		LEFT JOIN globals g ON g.id = rw.global_id
		ORDER BY rw.region_id, rw.idx`).Scan(&entries).Error; err != nil {
		return Dataset{}, wrap(err, "load region weathers")
	}
	byRegion := map[uuid.UUID][]RegionWeather{}
	for _, e := range entries {
		chance, err := uint32Column(e.Chance)
		if err != nil {
			return Dataset{}, errors.Wrapf(err, "chance of %s in region %s", e.Weather, e.RegionID)
		}
		byRegion[e.RegionID] = append(byRegion[e.RegionID], RegionWeather{Weather: e.Weather, Chance: chance, Global: e.Global})
	}
	for _, rr := range regions {
		id, err := formID(rr.FormID, rr.EditorID)
		if err != nil {
			return Dataset{}, err
		}
		ds.Regions = append(ds.Regions, RegionRecord{
			FormID:     id,
			EditorID:   rr.EditorID,
			Worldspace: rr.Worldspace,
			NoWeather:  rr.NoWeatherData,
			Weathers:   byRegion[rr.ID],
		})
	}

	if err := ds.Validate(); err != nil {
		return Dataset{}, wrap(err, "stored dataset")
	}
	return ds, nil
}

// Import replaces the stored dataset with ds in one transaction.
func (r *GameDataRepo) Import(ctx context.Context, ds Dataset) error {
	if err := ds.Validate(); err != nil {
		return err
	}
	return r.db.WithTx(ctx, func(tx *gorm.DB) error {
		for _, table := range []string{"region_weathers", "regions", "globals", "weathers", "worldspaces", "game_state"} {
			if err := tx.Exec("DELETE FROM " + table).Error; err != nil {
				return wrap(err, "clear "+table)
			}
		}

		if err := tx.Exec(`INSERT INTO game_state(id, name, year, month, day, hour, player_worldspace, player_region, player_interior) VALUES (?,?,?,?,?,?,?,?,?)`,
			uuid.New(), ds.Name, ds.Calendar.Year, ds.Calendar.Month, ds.Calendar.Day, ds.Calendar.Hour,
			ds.Player.Worldspace, ds.Player.Region, ds.Player.Interior).Error; err != nil {
			return wrap(err, "insert game state")
		}

		worldspaces := map[string]uuid.UUID{}
		for _, w := range ds.Worldspaces {
			id := uuid.New()
			if err := tx.Exec(`INSERT INTO worldspaces(id, form_id, editor_id) VALUES (?,?,?)`, id, int64(w.FormID), w.EditorID).Error; err != nil {
				return wrap(err, "insert worldspace "+w.EditorID)
			}
			worldspaces[w.EditorID] = id
		}
		weathers := map[string]uuid.UUID{}
		for _, w := range ds.Weathers {
			id := uuid.New()
			if err := tx.Exec(`INSERT INTO weathers(id, form_id, editor_id, flags) VALUES (?,?,?,string_to_array(?, ','))`,
				id, int64(w.FormID), w.EditorID, strings.Join(w.Flags, ",")).Error; err != nil {
				return wrap(err, "insert weather "+w.EditorID)
			}
			weathers[w.EditorID] = id
		}
		globals := map[string]uuid.UUID{}
		for _, g := range ds.Globals {
			id := uuid.New()
			if err := tx.Exec(`INSERT INTO globals(id, form_id, editor_id, value) VALUES (?,?,?,?)`, id, int64(g.FormID), g.EditorID, g.Value).Error; err != nil {
				return wrap(err, "insert global "+g.EditorID)
			}
			globals[g.EditorID] = id
		}
		for _, rr := range ds.Regions {
			id := uuid.New()
			if err := tx.Exec(`INSERT INTO regions(id, form_id, editor_id, worldspace_id, no_weather_data) VALUES (?,?,?,?,?)`,
				id, int64(rr.FormID), rr.EditorID, nullableID(worldspaces, rr.Worldspace), rr.NoWeather).Error; err != nil {
				return wrap(err, "insert region "+rr.EditorID)
			}
			for i, rw := range rr.Weathers {
				if err := tx.Exec(`INSERT INTO region_weathers(id, region_id, idx, weather_id, chance, global_id) VALUES (?,?,?,?,?,?)`,
					uuid.New(), id, i, weathers[rw.Weather], int64(rw.Chance), nullableID(globals, rw.Global)).Error; err != nil {
					return wrap(err, "insert region weather")
				}
			}
		}
		return nil
	})
}

// uint32Column narrows a BIGINT column, rejecting values a 32-bit field cannot hold.
func uint32Column(v int64) (uint32, error) {
	if v < 0 || v > math.MaxUint32 {
		return 0, fmt.Errorf("value %d out of range 0-%d", v, uint32(math.MaxUint32))
	}
	return uint32(v), nil
}

func formID(v int64, editorID string) (engine.FormID, error) {
	id, err := uint32Column(v)
	if err != nil {
		return 0, errors.Wrapf(err, "form id of %s", editorID)
	}
	return engine.FormID(id), nil
}

func nullableID(ids map[string]uuid.UUID, key string) *uuid.UUID {
	if key == "" {
		return nil
	}
	id, ok := ids[key]
	if !ok {
		return nil
	}
	return &id
}

// Helper error wrap
func wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return errors.Wrap(err, msg)
}
