package app

import (
	"context"

	"github.com/InTheBottle/SeasonalWeatherSKSE/internal/store"
	"github.com/InTheBottle/SeasonalWeatherSKSE/internal/util"
)

const SourceEmbedded = "embedded"

// LoadDataset picks the game data: the database when a DSN is set, else the fixture file,
// else the embedded default. It returns the dataset and a label for its source.
func LoadDataset(ctx context.Context, env util.Config) (store.Dataset, string, error) {
	switch {
	case env.DSN != "":
		db, err := store.Open(ctx, env)
		if err != nil {
			return store.Dataset{}, "", err
		}
		defer db.Close()
		ds, err := store.NewGameDataRepo(db).Load(ctx)
		return ds, "postgres", err
	case env.FixturePath != "":
		ds, err := store.LoadFixture(env.FixturePath)
		return ds, env.FixturePath, err
	default:
		ds, err := store.DefaultFixture()
		return ds, SourceEmbedded, err
	}
}
