package model

import (
	"encoding/json"
	"strconv"
)

// LoadoutID is a stable identifier. IDs are never reassigned.
// Older documents used positional integers, those load as their decimal string.
type LoadoutID string

func (id *LoadoutID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*id = LoadoutID(s)
		return nil
	}
	var n int64
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*id = LoadoutID(strconv.FormatInt(n, 10))
	return nil
}

// DriverSlot is empty when Name is empty.
type DriverSlot struct {
	Name   string      `json:"name"`
	Rarity Rarity      `json:"rarity"`
	Level  int         `json:"level"`
	Roles  []string    `json:"roles,omitempty"`
	Stats  DriverStats `json:"stats"`
}

func (s DriverSlot) Empty() bool {
	return s.Name == ""
}

// ComponentSlot is empty when Name is empty.
type ComponentSlot struct {
	Name   string   `json:"name"`
	Rarity Rarity   `json:"rarity,omitempty"`
	Level  int      `json:"level"`
	Stats  CarStats `json:"stats"`
}

func (s ComponentSlot) Empty() bool {
	return s.Name == ""
}

type CarTotals struct {
	CarStats
	TotalCarValue float64 `json:"total_car_value"`
}

// UnmarshalJSON keeps the total next to the promoted CarStats decoder.
func (c *CarTotals) UnmarshalJSON(data []byte) error {
	if err := json.Unmarshal(data, &c.CarStats); err != nil {
		return err
	}
	var total struct {
		TotalCarValue float64 `json:"total_car_value"`
	}
	if err := json.Unmarshal(data, &total); err != nil {
		return err
	}
	c.TotalCarValue = total.TotalCarValue
	return nil
}

type DriverTotals struct {
	DriverStats
	TotalDriverValue int `json:"total_driver_value"`
}

// UnmarshalJSON is needed since the embedded DriverStats brings its own
// unmarshaller which would otherwise swallow the total.
func (d *DriverTotals) UnmarshalJSON(data []byte) error {
	if err := json.Unmarshal(data, &d.DriverStats); err != nil {
		return err
	}
	var total struct {
		TotalDriverValue int `json:"total_driver_value"`
	}
	if err := json.Unmarshal(data, &total); err != nil {
		return err
	}
	d.TotalDriverValue = total.TotalDriverValue
	return nil
}

type Calculations struct {
	CarStats    CarTotals    `json:"car_stats"`
	DriverStats DriverTotals `json:"driver_stats"`
	TotalValue  float64      `json:"total_value"`
}

type Loadout struct {
	ID          LoadoutID                       `json:"id"`
	Title       string                          `json:"title"`
	Drivers     [2]DriverSlot                   `json:"drivers"`
	Components  map[ComponentType]ComponentSlot `json:"components"`
	Calc        Calculations                    `json:"calculations"`
	Description string                          `json:"description"`
	CreatedAt   Timestamp                       `json:"created_at"`
	UpdatedAt   Timestamp                       `json:"updated_at"`
}

// NewLoadout returns a loadout with all slots present and empty.
func NewLoadout(id LoadoutID, title string) *Loadout {
	now := Now()
	l := &Loadout{
		ID:         id,
		Title:      title,
		Components: make(map[ComponentType]ComponentSlot, len(ComponentTypes)),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	for _, ct := range ComponentTypes {
		l.Components[ct] = ComponentSlot{}
	}
	return l
}
