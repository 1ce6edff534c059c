package model

import (
	"fmt"
	"math"
	"strings"
)

// NoSeriesLimit is the ceiling of a category without limitation.
const NoSeriesLimit = math.MaxInt

type GPCategory struct {
	Name        string `json:"name" yaml:"name"`
	MaxSeries   int    `json:"max_series" yaml:"maxSeries"`
	Description string `json:"description" yaml:"description"`
}

type RaceType string

const (
	RaceQualifying RaceType = "Qualifying"
	RaceOpening    RaceType = "Opening"
	RaceFinal      RaceType = "Final"
)

//nolint:gochecknoglobals // fixed set
var RaceTypes = []RaceType{RaceQualifying, RaceOpening, RaceFinal}

// ParseRaceType matches s case insensitive against RaceTypes.
func ParseRaceType(s string) (RaceType, error) {
	for _, rt := range RaceTypes {
		if strings.EqualFold(string(rt), strings.TrimSpace(s)) {
			return rt, nil
		}
	}
	return "", fmt.Errorf("race type %q: %w", s, ErrNotFound)
}

type GPRace struct {
	Track     string     `json:"track"`
	LapCount  int        `json:"lap_count"`
	LoadoutID *LoadoutID `json:"loadout_id"`
}

type GPEvent struct {
	ID          string                `json:"id"`
	Name        string                `json:"name"`
	Category    string                `json:"category"`
	Description string                `json:"description"`
	Date        string                `json:"date"`
	CreatedAt   Timestamp             `json:"created_at"`
	Races       map[RaceType][]GPRace `json:"races"`
}
