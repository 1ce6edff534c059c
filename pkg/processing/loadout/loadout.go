// Package loadout aggregates the stats of the drivers and components of a loadout.
package loadout

import (
	"github.com/mpapenbr/clash-manager-go/pkg/model"
)

// TotalValueFormula states which stats make up the total value of a loadout.
// Pit time is a penalty and never counts as value.
// Qualifying exists on components and drivers, each side may be switched off.
type TotalValueFormula struct {
	CarQualifying    bool
	DriverQualifying bool
}

// DefaultFormula counts component qualifying and driver qualifying independently.
// This matches the totals shown in game.
//
//nolint:gochecknoglobals // named constant value
var DefaultFormula = TotalValueFormula{CarQualifying: true, DriverQualifying: true}

// Total computes the total value of the summed car and driver stats.
func (f TotalValueFormula) Total(car model.CarStats, driver model.DriverStats) float64 {
	total := car.Value() + float64(driver.Total())
	if !f.CarQualifying {
		total -= car.Qualifying
	}
	if !f.DriverQualifying {
		total -= float64(driver.Qualifying)
	}
	return total
}

// Aggregate sums the slots using DefaultFormula. Empty slots contribute nothing.
func Aggregate(
	drivers [2]model.DriverSlot,
	components map[model.ComponentType]model.ComponentSlot,
) model.Calculations {
	return DefaultFormula.Aggregate(drivers, components)
}

func (f TotalValueFormula) Aggregate(
	drivers [2]model.DriverSlot,
	components map[model.ComponentType]model.ComponentSlot,
) model.Calculations {
	car := model.CarStats{}
	for _, ct := range model.ComponentTypes {
		if slot, ok := components[ct]; ok && !slot.Empty() {
			car = car.Add(slot.Stats)
		}
	}
	driver := model.DriverStats{}
	for i := range drivers {
		if !drivers[i].Empty() {
			driver = driver.Add(drivers[i].Stats)
		}
	}
	return model.Calculations{
		CarStats:    model.CarTotals{CarStats: car, TotalCarValue: car.Value()},
		DriverStats: model.DriverTotals{DriverStats: driver, TotalDriverValue: driver.Total()},
		TotalValue:  f.Total(car, driver),
	}
}

// Recalculate refreshes the calculations of l from its slots.
func Recalculate(l *model.Loadout) {
	l.Calc = Aggregate(l.Drivers, l.Components)
}
