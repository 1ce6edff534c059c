package model

import (
	"encoding/json"
	"math"
)

// DriverLevelStats is one sampled level of a driver raw table.
type DriverLevelStats struct {
	Level int `json:"level"`
	DriverStats
	TotalValue int `json:"total_value"`
}

// UnmarshalJSON keeps level and total next to the promoted DriverStats decoder.
func (s *DriverLevelStats) UnmarshalJSON(data []byte) error {
	if err := json.Unmarshal(data, &s.DriverStats); err != nil {
		return err
	}
	var rest struct {
		Level      int `json:"level"`
		TotalValue int `json:"total_value"`
	}
	if err := json.Unmarshal(data, &rest); err != nil {
		return err
	}
	s.Level = rest.Level
	s.TotalValue = rest.TotalValue
	return nil
}

// Lerp interpolates towards upper. Attributes are rounded half to even,
// the game keeps driver stats integral.
func (s DriverLevelStats) Lerp(upper DriverLevelStats, level int, factor float64) DriverLevelStats {
	lerp := func(a, b int) int {
		return int(math.RoundToEven(float64(a) + factor*float64(b-a)))
	}
	stats := DriverStats{
		Overtaking: lerp(s.Overtaking, upper.Overtaking),
		Defending:  lerp(s.Defending, upper.Defending),
		Qualifying: lerp(s.Qualifying, upper.Qualifying),
		RaceStart:  lerp(s.RaceStart, upper.RaceStart),
		TyreMgmt:   lerp(s.TyreMgmt, upper.TyreMgmt),
	}
	return DriverLevelStats{Level: level, DriverStats: stats, TotalValue: stats.Total()}
}

// ComponentLevelStats is one sampled level of a component raw table.
// TotalValue follows the raw sheet and includes pit time.
type ComponentLevelStats struct {
	Level int `json:"level"`
	CarStats
	TotalValue float64 `json:"total_value"`
}

func (s *ComponentLevelStats) UnmarshalJSON(data []byte) error {
	if err := json.Unmarshal(data, &s.CarStats); err != nil {
		return err
	}
	var rest struct {
		Level      int     `json:"level"`
		TotalValue float64 `json:"total_value"`
	}
	if err := json.Unmarshal(data, &rest); err != nil {
		return err
	}
	s.Level = rest.Level
	s.TotalValue = rest.TotalValue
	return nil
}

func (s ComponentLevelStats) Lerp(upper ComponentLevelStats, level int, factor float64) ComponentLevelStats {
	lerp := func(a, b float64) float64 {
		return a + factor*(b-a)
	}
	stats := CarStats{
		Speed:      lerp(s.Speed, upper.Speed),
		Cornering:  lerp(s.Cornering, upper.Cornering),
		PowerUnit:  lerp(s.PowerUnit, upper.PowerUnit),
		Qualifying: lerp(s.Qualifying, upper.Qualifying),
		PitTime:    lerp(s.PitTime, upper.PitTime),
	}
	return ComponentLevelStats{Level: level, CarStats: stats, TotalValue: RawComponentTotal(stats)}
}

// RawComponentTotal is the raw sheet total of a component level.
func RawComponentTotal(s CarStats) float64 {
	return s.Value() + s.PitTime
}

type DriverLevels struct {
	Name   string                   `json:"name"`
	Rarity Rarity                   `json:"rarity"`
	Series int                      `json:"series"`
	Levels map[int]DriverLevelStats `json:"levels"`
}

type ComponentLevels struct {
	Name   string                      `json:"name"`
	Type   ComponentType               `json:"type,omitempty"`
	Rarity Rarity                      `json:"rarity,omitempty"`
	Series int                         `json:"series"`
	Levels map[int]ComponentLevelStats `json:"levels"`
}

// DriverLevelKey builds the raw table key of a driver, e.g. "Hamilton_Epic"
func DriverLevelKey(name string, rarity Rarity) string {
	return name + "_" + string(rarity)
}

// DriverLevelsDocument is keyed by DriverLevelKey.
type DriverLevelsDocument map[string]DriverLevels

// ComponentLevelsDocument is keyed by component name.
type ComponentLevelsDocument map[string]ComponentLevels
