package model

import (
	"encoding/json"
	"fmt"
	"strings"
)

type ComponentType string

const (
	Brakes     ComponentType = "brakes"
	Gearbox    ComponentType = "gearbox"
	RearWing   ComponentType = "rear_wing"
	FrontWing  ComponentType = "front_wing"
	Suspension ComponentType = "suspension"
	Engine     ComponentType = "engine"
)

// ComponentTypes lists the six car slots in display order.
//
//nolint:gochecknoglobals // fixed set
var ComponentTypes = []ComponentType{Brakes, Gearbox, RearWing, FrontWing, Suspension, Engine}

func (t ComponentType) Valid() bool {
	for _, ct := range ComponentTypes {
		if ct == t {
			return true
		}
	}
	return false
}

//nolint:gochecknoglobals // fixed replacer
var typeSeparators = strings.NewReplacer(" ", "_", "-", "_")

// ParseComponentType accepts "Rear Wing", "rear-wing" and "rear_wing".
func ParseComponentType(s string) (ComponentType, error) {
	ct := ComponentType(typeSeparators.Replace(strings.ToLower(strings.TrimSpace(s))))
	if !ct.Valid() {
		return "", fmt.Errorf("component type %q: %w", s, ErrNotFound)
	}
	return ct, nil
}

// CarStats holds component attributes. PitTime is a time penalty in seconds,
// lower is better.
type CarStats struct {
	Speed      float64 `json:"speed"`
	Cornering  float64 `json:"cornering"`
	PowerUnit  float64 `json:"power_unit"`
	Qualifying float64 `json:"qualifying"`
	PitTime    float64 `json:"pit_time"`
}

// Value sums the attributes that count as value, pit time excluded.
func (s CarStats) Value() float64 {
	return s.Speed + s.Cornering + s.PowerUnit + s.Qualifying
}

func (s CarStats) Add(o CarStats) CarStats {
	return CarStats{
		Speed:      s.Speed + o.Speed,
		Cornering:  s.Cornering + o.Cornering,
		PowerUnit:  s.PowerUnit + o.PowerUnit,
		Qualifying: s.Qualifying + o.Qualifying,
		PitTime:    s.PitTime + o.PitTime,
	}
}

// Get returns the value of a car attribute, false if attr is not a car attribute
func (s CarStats) Get(attr Attribute) (float64, bool) {
	switch attr {
	case AttrSpeed:
		return s.Speed, true
	case AttrCornering:
		return s.Cornering, true
	case AttrPowerUnit:
		return s.PowerUnit, true
	case AttrQualifying:
		return s.Qualifying, true
	case AttrPitTime:
		return s.PitTime, true
	}
	return 0, false
}

// carStatsJSON accepts both key conventions found in older documents.
//
//nolint:tagliatelle // legacy documents
type carStatsJSON struct {
	Speed          float64  `json:"speed"`
	Cornering      float64  `json:"cornering"`
	Qualifying     float64  `json:"qualifying"`
	PowerUnit      *float64 `json:"power_unit"`
	PowerUnitCamel *float64 `json:"powerUnit"`
	PitTime        *float64 `json:"pit_time"`
	PitTimeCamel   *float64 `json:"pitTime"`
}

func (s *CarStats) UnmarshalJSON(data []byte) error {
	var raw carStatsJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*s = CarStats{
		Speed:      raw.Speed,
		Cornering:  raw.Cornering,
		PowerUnit:  firstOf(raw.PowerUnit, raw.PowerUnitCamel),
		Qualifying: raw.Qualifying,
		PitTime:    firstOf(raw.PitTime, raw.PitTimeCamel),
	}
	return nil
}

type Component struct {
	Item
	Type       ComponentType `json:"type"`
	Stats      CarStats      `json:"stats"`
	TotalValue float64       `json:"totalValue"`
}

func NewComponent(item Item, ct ComponentType, stats CarStats) Component {
	return Component{Item: item, Type: ct, Stats: stats, TotalValue: stats.Value()}
}
