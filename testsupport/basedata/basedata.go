// Package basedata provides a small consistent set of reference documents
// for tests.
package basedata

import (
	"context"
	"time"

	"github.com/mpapenbr/clash-manager-go/pkg/model"
	"github.com/mpapenbr/clash-manager-go/pkg/store"
)

func TestTime() model.Timestamp {
	t, _ := time.Parse(time.RFC3339, "2025-04-28T11:10:12Z")
	return model.Timestamp{Time: t}
}

func SampleDrivers() *model.DriversDocument {
	return &model.DriversDocument{Drivers: []model.Driver{
		model.NewDriver(model.NewItem("Gasly", model.RarityCommon, 8, 2),
			model.DriverStats{Overtaking: 20, Defending: 18, Qualifying: 15, RaceStart: 12, TyreMgmt: 10}),
		model.NewDriver(model.NewItem("Piastri", model.RarityRare, 5, 7),
			model.DriverStats{Overtaking: 30, Defending: 25, Qualifying: 28, RaceStart: 22, TyreMgmt: 20}),
		model.NewDriver(model.NewItem("Piastri", model.RarityEpic, 0, 9),
			model.DriverStats{Overtaking: 40, Defending: 35, Qualifying: 38, RaceStart: 30, TyreMgmt: 28}),
		model.NewDriver(model.NewItem("Hamilton", model.RarityLegendary, 3, 10),
			model.DriverStats{Overtaking: 50, Defending: 45, Qualifying: 48, RaceStart: 40, TyreMgmt: 42}),
	}}
}

// SampleComponents returns two components per type, series 1 and series 8.
func SampleComponents() map[model.ComponentType]*model.ComponentsDocument {
	ret := map[model.ComponentType]*model.ComponentsDocument{}
	for i, ct := range model.ComponentTypes {
		base := float64(i + 1)
		low := model.NewComponent(model.NewItem(string(ct)+" basic", model.RarityCommon, 6, 1), ct,
			model.CarStats{Speed: base, Cornering: base, PowerUnit: base, Qualifying: 1, PitTime: 1.0})
		high := model.NewComponent(model.NewItem(string(ct)+" pro", model.RarityEpic, 3, 8), ct,
			model.CarStats{Speed: base * 3, Cornering: base * 2, PowerUnit: base * 2, Qualifying: 2, PitTime: 0.5})
		ret[ct] = &model.ComponentsDocument{ct: {low, high}}
	}
	return ret
}

func SampleDriverLevels() *model.DriverLevelsDocument {
	return &model.DriverLevelsDocument{
		model.DriverLevelKey("Gasly", model.RarityCommon): {
			Name: "Gasly", Rarity: model.RarityCommon, Series: 2,
			Levels: map[int]model.DriverLevelStats{
				1: driverLevel(1, model.DriverStats{Overtaking: 10, Defending: 10, Qualifying: 8, RaceStart: 6, TyreMgmt: 4}),
				9: driverLevel(9, model.DriverStats{Overtaking: 22, Defending: 20, Qualifying: 16, RaceStart: 14, TyreMgmt: 12}),
			},
		},
	}
}

func driverLevel(level int, s model.DriverStats) model.DriverLevelStats {
	return model.DriverLevelStats{Level: level, DriverStats: s, TotalValue: s.Total()}
}

func SampleComponentLevels() *model.ComponentLevelsDocument {
	ct := model.Brakes
	name := string(ct) + " basic"
	lvl := func(level int, s model.CarStats) model.ComponentLevelStats {
		return model.ComponentLevelStats{Level: level, CarStats: s, TotalValue: model.RawComponentTotal(s)}
	}
	return &model.ComponentLevelsDocument{
		name: {
			Name: name, Type: ct, Rarity: model.RarityCommon, Series: 1,
			Levels: map[int]model.ComponentLevelStats{
				5: lvl(5, model.CarStats{Speed: 10, Cornering: 4, PowerUnit: 4, Qualifying: 2, PitTime: 0.9}),
				9: lvl(9, model.CarStats{Speed: 20, Cornering: 8, PowerUnit: 8, Qualifying: 4, PitTime: 0.7}),
			},
		},
	}
}

func SampleTracks() *model.TracksDocument {
	return &model.TracksDocument{Tracks: []model.Track{
		{
			Name: "Monza", PrimaryAttribute: "Power Unit", Focus: "Speed",
			Boosts: []model.Boost{
				{Name: "Slipstream", Stats: map[string]float64{"power_unit": 12, "speed": 8}},
				{Name: "Overdrive", Stats: map[string]float64{"power_unit": 15, "speed": 2}},
			},
		},
	}}
}

func SampleBoosts() *model.BoostsDocument {
	return &model.BoostsDocument{Boosts: []model.Boost{
		{Name: "Slipstream", TrackGroups: []string{"Monza, Spa, Baku"}},
	}}
}

// SampleSeriesSetups holds speed and cornering recommendations for series 4.
func SampleSeriesSetups() *model.SeriesSetupsDocument {
	return &model.SeriesSetupsDocument{SeriesSetups: []model.SeriesSetup{
		{
			Series: 4,
			Setups: map[model.Attribute][]model.SetupEntry{
				model.AttrSpeed: {
					{Component: "brakes basic", Value: 6},
					{Component: "engine pro", Value: 18},
				},
				model.AttrCornering: {
					{Component: "suspension pro", Value: 10},
				},
			},
		},
	}}
}

// Populate saves all sample documents into s.
func Populate(ctx context.Context, s store.Store) error {
	if err := store.Put(ctx, s, store.KeyDrivers, SampleDrivers()); err != nil {
		return err
	}
	for ct, doc := range SampleComponents() {
		if err := store.Put(ctx, s, store.ComponentKey(ct), doc); err != nil {
			return err
		}
	}
	if err := store.Put(ctx, s, store.KeyDriverLevels, SampleDriverLevels()); err != nil {
		return err
	}
	if err := store.Put(ctx, s, store.KeyComponentLevels, SampleComponentLevels()); err != nil {
		return err
	}
	if err := store.Put(ctx, s, store.KeyTracks, SampleTracks()); err != nil {
		return err
	}
	if err := store.Put(ctx, s, store.KeySeriesSetups, SampleSeriesSetups()); err != nil {
		return err
	}
	return store.Put(ctx, s, store.KeyBoosts, SampleBoosts())
}
