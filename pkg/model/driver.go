package model

import "encoding/json"

type DriverStats struct {
	Overtaking int `json:"overtaking"`
	Defending  int `json:"defending"`
	Qualifying int `json:"qualifying"`
	RaceStart  int `json:"race_start"`
	TyreMgmt   int `json:"tyre_mgmt"`
}

func (s DriverStats) Total() int {
	return s.Overtaking + s.Defending + s.Qualifying + s.RaceStart + s.TyreMgmt
}

func (s DriverStats) Add(o DriverStats) DriverStats {
	return DriverStats{
		Overtaking: s.Overtaking + o.Overtaking,
		Defending:  s.Defending + o.Defending,
		Qualifying: s.Qualifying + o.Qualifying,
		RaceStart:  s.RaceStart + o.RaceStart,
		TyreMgmt:   s.TyreMgmt + o.TyreMgmt,
	}
}

// Get returns the value of a driver attribute, false if attr is not a driver attribute
func (s DriverStats) Get(attr Attribute) (int, bool) {
	switch attr {
	case AttrOvertaking:
		return s.Overtaking, true
	case AttrDefending:
		return s.Defending, true
	case AttrQualifying:
		return s.Qualifying, true
	case AttrRaceStart:
		return s.RaceStart, true
	case AttrTyreMgmt:
		return s.TyreMgmt, true
	}
	return 0, false
}

// driverStatsJSON accepts both key conventions found in older documents.
//
//nolint:tagliatelle // legacy documents
type driverStatsJSON struct {
	Overtaking     int  `json:"overtaking"`
	Defending      int  `json:"defending"`
	Qualifying     int  `json:"qualifying"`
	RaceStart      *int `json:"race_start"`
	RaceStartCamel *int `json:"raceStart"`
	TyreMgmt       *int `json:"tyre_mgmt"`
	TyreMgmtCamel  *int `json:"tyreMgmt"`
}

func (s *DriverStats) UnmarshalJSON(data []byte) error {
	var raw driverStatsJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*s = DriverStats{
		Overtaking: raw.Overtaking,
		Defending:  raw.Defending,
		Qualifying: raw.Qualifying,
		RaceStart:  firstOf(raw.RaceStart, raw.RaceStartCamel),
		TyreMgmt:   firstOf(raw.TyreMgmt, raw.TyreMgmtCamel),
	}
	return nil
}

func firstOf[T int | float64](vals ...*T) T {
	for _, v := range vals {
		if v != nil {
			return *v
		}
	}
	return 0
}

type Driver struct {
	Item
	Stats        DriverStats `json:"stats"`
	TotalValue   int         `json:"totalValue"`
	LegacyPoints int         `json:"legacyPoints,omitempty"`
}

func NewDriver(item Item, stats DriverStats) Driver {
	return Driver{Item: item, Stats: stats, TotalValue: stats.Total()}
}
