//nolint:funlen // ok for tests
package loadout

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"

	"github.com/mpapenbr/clash-manager-go/pkg/model"
)

func comp(name string, speed, cornering, pu, quali, pit float64) model.ComponentSlot {
	return model.ComponentSlot{
		Name:  name,
		Level: 5,
		Stats: model.CarStats{Speed: speed, Cornering: cornering, PowerUnit: pu, Qualifying: quali, PitTime: pit},
	}
}

func fullCar() map[model.ComponentType]model.ComponentSlot {
	return map[model.ComponentType]model.ComponentSlot{
		model.Brakes:     comp("The Stabiliser", 10, 5, 5, 2, 2),
		model.Gearbox:    comp("The Dynamo", 5, 10, 5, 3, 2),
		model.RearWing:   comp("The Flow 1K", 10, 5, 5, 5, 2),
		model.FrontWing:  comp("The Sabre", 10, 10, 5, 5, 2),
		model.Suspension: comp("The Curver", 5, 5, 5, 3, 2),
		model.Engine:     comp("The Behemoth", 10, 5, 5, 2, 2),
	}
}

func TestAggregate(t *testing.T) {
	driverA := model.DriverSlot{
		Name: "Hamilton", Rarity: model.RarityEpic, Level: 3,
		Stats: model.DriverStats{Overtaking: 10, Defending: 8, Qualifying: 6, RaceStart: 4, TyreMgmt: 2},
	}
	driverB := model.DriverSlot{
		Name: "Alonso", Rarity: model.RarityRare, Level: 6,
		Stats: model.DriverStats{Overtaking: 1, Defending: 2, Qualifying: 3, RaceStart: 4, TyreMgmt: 5},
	}
	tests := []struct {
		name       string
		drivers    [2]model.DriverSlot
		components map[model.ComponentType]model.ComponentSlot
		want       model.Calculations
	}{
		{
			name: "all empty",
			want: model.Calculations{},
		},
		{
			name:       "only components",
			components: fullCar(),
			want: model.Calculations{
				CarStats: model.CarTotals{
					CarStats: model.CarStats{
						Speed: 50, Cornering: 40, PowerUnit: 30, Qualifying: 20, PitTime: 12,
					},
					TotalCarValue: 140,
				},
				TotalValue: 140,
			},
		},
		{
			name:    "one driver and one component",
			drivers: [2]model.DriverSlot{{}, driverA},
			components: map[model.ComponentType]model.ComponentSlot{
				model.Engine: comp("The Behemoth", 10, 5, 5, 2, 2),
				model.Brakes: {},
			},
			want: model.Calculations{
				CarStats: model.CarTotals{
					CarStats:      model.CarStats{Speed: 10, Cornering: 5, PowerUnit: 5, Qualifying: 2, PitTime: 2},
					TotalCarValue: 22,
				},
				DriverStats: model.DriverTotals{
					DriverStats:      driverA.Stats,
					TotalDriverValue: 30,
				},
				TotalValue: 52,
			},
		},
		{
			name:    "both drivers",
			drivers: [2]model.DriverSlot{driverA, driverB},
			want: model.Calculations{
				DriverStats: model.DriverTotals{
					DriverStats: model.DriverStats{
						Overtaking: 11, Defending: 10, Qualifying: 9, RaceStart: 8, TyreMgmt: 7,
					},
					TotalDriverValue: 45,
				},
				TotalValue: 45,
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Aggregate(tt.drivers, tt.components)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Aggregate() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestTotalValueFormula(t *testing.T) {
	car := model.CarStats{Speed: 50, Cornering: 40, PowerUnit: 30, Qualifying: 20, PitTime: 12}
	driver := model.DriverStats{Overtaking: 5, Defending: 5, Qualifying: 10, RaceStart: 5, TyreMgmt: 5}
	tests := []struct {
		name    string
		formula TotalValueFormula
		want    float64
	}{
		{"default counts both qualifying", DefaultFormula, 170},
		{"car qualifying only", TotalValueFormula{CarQualifying: true}, 160},
		{"driver qualifying only", TotalValueFormula{DriverQualifying: true}, 150},
		{"no qualifying", TotalValueFormula{}, 140},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, tt.formula.Total(car, driver), 1e-9)
		})
	}
}

func TestRecalculate(t *testing.T) {
	l := model.NewLoadout("a", "test")
	for ct, slot := range fullCar() {
		l.Components[ct] = slot
	}
	Recalculate(l)
	assert.InDelta(t, 20.0, l.Calc.CarStats.Qualifying, 1e-9)
	assert.InDelta(t, 12.0, l.Calc.CarStats.PitTime, 1e-9)
	assert.InDelta(t, 140.0, l.Calc.TotalValue, 1e-9)
}
