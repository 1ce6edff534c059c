package model

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yml
var defaultsYAML []byte

type defaultsFile struct {
	Series []struct {
		Series        int    `yaml:"series"`
		TrackStats    string `yaml:"trackStats"`
		RecommendedTS string `yaml:"recommendedTS"`
	} `yaml:"series"`
	Rotating     map[string]string `yaml:"rotating"`
	GPCategories []GPCategory      `yaml:"gpCategories"`
	GPEvent      struct {
		ID          string `yaml:"id"`
		Name        string `yaml:"name"`
		Category    string `yaml:"category"`
		Description string `yaml:"description"`
		Date        string `yaml:"date"`
		Races       map[RaceType][]struct {
			Track    string `yaml:"track"`
			LapCount int    `yaml:"lapCount"`
		} `yaml:"races"`
	} `yaml:"gpEvent"`
}

// Defaults holds the built-in reference data.
type Defaults struct {
	Series       []Series
	Rotating     RotatingOverrides
	GPCategories []GPCategory
	// GPEvent is the event created when none exists yet
	GPEvent GPEvent
}

// LoadDefaults parses the embedded reference data. Each call returns fresh
// copies, callers may modify them.
func LoadDefaults() (*Defaults, error) {
	var raw defaultsFile
	if err := yaml.Unmarshal(defaultsYAML, &raw); err != nil {
		return nil, fmt.Errorf("parse defaults: %w", err)
	}
	ret := &Defaults{
		Series:       make([]Series, 0, len(raw.Series)),
		Rotating:     RotatingOverrides{},
		GPCategories: raw.GPCategories,
	}
	for _, s := range raw.Series {
		ret.Series = append(ret.Series, Series{
			Series:        s.Series,
			TrackStats:    s.TrackStats,
			RecommendedTS: s.RecommendedTS,
		})
	}
	for k, v := range raw.Rotating {
		ret.Rotating[k] = v
	}
	ret.GPEvent = GPEvent{
		ID:          raw.GPEvent.ID,
		Name:        raw.GPEvent.Name,
		Category:    raw.GPEvent.Category,
		Description: raw.GPEvent.Description,
		Date:        raw.GPEvent.Date,
		Races:       make(map[RaceType][]GPRace, len(raw.GPEvent.Races)),
	}
	for rt, races := range raw.GPEvent.Races {
		for _, r := range races {
			ret.GPEvent.Races[rt] = append(ret.GPEvent.Races[rt], GPRace{Track: r.Track, LapCount: r.LapCount})
		}
	}
	for i := range ret.GPCategories {
		if ret.GPCategories[i].MaxSeries == 0 {
			ret.GPCategories[i].MaxSeries = NoSeriesLimit
		}
	}
	return ret, nil
}

// MustLoadDefaults panics if the embedded data is broken.
func MustLoadDefaults() *Defaults {
	d, err := LoadDefaults()
	if err != nil {
		panic(err)
	}
	return d
}
