package model

import (
	"bytes"
	"encoding/json"
	"strings"
)

// The document envelopes below mirror the json files of the data directory.

type DriversDocument struct {
	Drivers []Driver `json:"drivers"`
}

// ComponentsDocument is stored per component type under the type name,
// e.g. {"brakes": [...]}.
type ComponentsDocument map[ComponentType][]Component

type LoadoutsDocument struct {
	Loadouts []Loadout `json:"loadouts"`
}

type TracksDocument struct {
	Tracks []Track `json:"tracks"`
}

type BoostsDocument struct {
	Boosts []Boost `json:"boosts"`
}

type GPEventsDocument struct {
	Events []GPEvent `json:"events"`
}

// UnmarshalJSON also accepts a bare list of events and lower case race keys
// ("qualifying") as written by older versions.
func (d *GPEventsDocument) UnmarshalJSON(data []byte) error {
	var events []GPEvent
	if trimmed := bytes.TrimSpace(data); len(trimmed) > 0 && trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &events); err != nil {
			return err
		}
	} else {
		var doc struct {
			Events []GPEvent `json:"events"`
		}
		if err := json.Unmarshal(data, &doc); err != nil {
			return err
		}
		events = doc.Events
	}
	for i := range events {
		events[i].Races = normalizeRaces(events[i].Races)
	}
	d.Events = events
	return nil
}

func normalizeRaces(races map[RaceType][]GPRace) map[RaceType][]GPRace {
	if races == nil {
		return nil
	}
	ret := make(map[RaceType][]GPRace, len(races))
	for k, v := range races {
		key := k
		for _, rt := range RaceTypes {
			if strings.EqualFold(string(k), string(rt)) {
				key = rt
			}
		}
		if _, exists := ret[key]; exists && key != k {
			continue
		}
		ret[key] = v
	}
	return ret
}
