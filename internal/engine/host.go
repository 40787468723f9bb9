package engine

import (
	"errors"
	"fmt"
)

// ErrHostUnavailable is returned by a DataSource whose backing game data is not loaded yet.
var ErrHostUnavailable = errors.New("host data not available")

// FormID identifies a game-data record.
type FormID uint32

// WeatherForm is a host-owned weather definition. Immutable from our side.
type WeatherForm interface {
	FormID() FormID
	EditorID() string
	Flags() WeatherFlag
}

// WorldSpace is a large open level containing regions.
type WorldSpace interface {
	FormID() FormID
	EditorID() string
}

// GlobalValue is a host global used as a multiplicative scale on a table entry.
type GlobalValue interface {
	Value() float64
}

// WeatherSlot is one live entry of a region weather table.
type WeatherSlot interface {
	Weather() WeatherForm
	Chance() uint32
	SetChance(chance uint32)
	Scale() GlobalValue
}

// WeatherTable is the narrow read/write capability over a region's live weather list.
// Entries are only ever appended; indices are stable for the lifetime of the table.
type WeatherTable interface {
	Len() int
	Slot(i int) WeatherSlot
	Append(w WeatherForm, chance uint32, scale GlobalValue)
}

// Region partitions a world-space and may own a weather table.
type Region interface {
	FormID() FormID
	EditorID() string
	WorldSpace() WorldSpace
	WeatherTable() (WeatherTable, bool)
}

// DataSource enumerates the loaded region records.
type DataSource interface {
	Regions() ([]Region, error)
}

// Runtime exposes the live host state the weight engine reads each update.
type Runtime interface {
	// PlayerWorldSpace reports false when there is no player, the player is in an
	// interior cell, or the cell has no world-space.
	PlayerWorldSpace() (WorldSpace, bool)
	CurrentMonth() (int, bool)
	// ResetWeather discards the already-selected weather so the next pick reads the table.
	ResetWeather() bool
	Notify(msg string)
}

// DisplayName mirrors how the host names records without an editor ID.
func DisplayName(kind string, id FormID, editorID string) string {
	if editorID != "" {
		return editorID
	}
	return fmt.Sprintf("%s [%08X]", kind, uint32(id))
}
