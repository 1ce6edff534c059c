// Package catalog provides the reference data the processing packages work on.
// A Catalog is an immutable snapshot of the store; use a Provider to obtain
// and refresh it.
package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/samber/lo"

	"github.com/mpapenbr/clash-manager-go/pkg/model"
	"github.com/mpapenbr/clash-manager-go/pkg/processing/interpolate"
	"github.com/mpapenbr/clash-manager-go/pkg/store"
)

type Catalog struct {
	Drivers         []model.Driver
	Components      map[model.ComponentType][]model.Component
	Series          []model.Series
	Rotating        model.RotatingOverrides
	GPCategories    []model.GPCategory
	DriverLevels    model.DriverLevelsDocument
	ComponentLevels model.ComponentLevelsDocument
	Tracks          []model.Track
	Boosts          []model.Boost
	Setups          model.SeriesSetupsDocument
}

// Load reads all reference documents of s.
// Missing documents yield empty collections, series and rotating overrides
// fall back to the built-in defaults.
func Load(ctx context.Context, s store.Store) (*Catalog, error) {
	defaults, err := model.LoadDefaults()
	if err != nil {
		return nil, err
	}
	ret := &Catalog{
		Components:   make(map[model.ComponentType][]model.Component, len(model.ComponentTypes)),
		GPCategories: defaults.GPCategories,
	}

	drivers, err := store.GetOr(ctx, s, store.KeyDrivers,
		func() *model.DriversDocument { return &model.DriversDocument{} })
	if err != nil {
		return nil, err
	}
	ret.Drivers = drivers.Drivers

	for _, ct := range model.ComponentTypes {
		doc, err := store.GetOr(ctx, s, store.ComponentKey(ct),
			func() *model.ComponentsDocument { return &model.ComponentsDocument{} })
		if err != nil {
			return nil, err
		}
		items := (*doc)[ct]
		for i := range items {
			items[i].Type = ct
		}
		ret.Components[ct] = items
	}

	series, err := store.GetOr(ctx, s, store.KeySeries,
		func() *model.SeriesDocument { return &model.SeriesDocument{} })
	if err != nil {
		return nil, err
	}
	ret.Series = series.SeriesData
	if len(ret.Series) == 0 {
		ret.Series = defaults.Series
	}

	rotating, err := store.GetOr(ctx, s, store.KeyRotatingOverrides,
		func() *model.RotatingOverrides { return &model.RotatingOverrides{} })
	if err != nil {
		return nil, err
	}
	ret.Rotating = defaults.Rotating
	for k, v := range *rotating {
		ret.Rotating[k] = v
	}

	driverLevels, err := store.GetOr(ctx, s, store.KeyDriverLevels,
		func() *model.DriverLevelsDocument { return &model.DriverLevelsDocument{} })
	if err != nil {
		return nil, err
	}
	ret.DriverLevels = *driverLevels

	componentLevels, err := store.GetOr(ctx, s, store.KeyComponentLevels,
		func() *model.ComponentLevelsDocument { return &model.ComponentLevelsDocument{} })
	if err != nil {
		return nil, err
	}
	ret.ComponentLevels = *componentLevels

	tracks, err := store.GetOr(ctx, s, store.KeyTracks,
		func() *model.TracksDocument { return &model.TracksDocument{} })
	if err != nil {
		return nil, err
	}
	ret.Tracks = tracks.Tracks

	boosts, err := store.GetOr(ctx, s, store.KeyBoosts,
		func() *model.BoostsDocument { return &model.BoostsDocument{} })
	if err != nil {
		return nil, err
	}
	ret.Boosts = boosts.Boosts

	setups, err := store.GetOr(ctx, s, store.KeySeriesSetups,
		func() *model.SeriesSetupsDocument { return &model.SeriesSetupsDocument{} })
	if err != nil {
		return nil, err
	}
	ret.Setups = *setups

	return ret, nil
}

// Driver returns the driver with name and rarity.
func (c *Catalog) Driver(name string, rarity model.Rarity) (*model.Driver, error) {
	for i := range c.Drivers {
		if c.Drivers[i].Name == name && c.Drivers[i].Rarity == rarity {
			return &c.Drivers[i], nil
		}
	}
	return nil, fmt.Errorf("driver %s (%s): %w", name, rarity, model.ErrNotFound)
}

// Component returns the component of type ct named name.
func (c *Catalog) Component(ct model.ComponentType, name string) (*model.Component, error) {
	items := c.Components[ct]
	for i := range items {
		if items[i].Name == name {
			return &items[i], nil
		}
	}
	return nil, fmt.Errorf("%s %s: %w", ct, name, model.ErrNotFound)
}

// DriverSeries returns the series a driver was introduced in.
// Without rarity the name alone is used. Several matches with differing
// series are reported as ErrAmbiguousReference.
func (c *Catalog) DriverSeries(name string, rarity model.Rarity) (int, error) {
	if rarity != "" {
		d, err := c.Driver(name, rarity)
		if err != nil {
			return 0, err
		}
		return d.Series, nil
	}
	matches := lo.Filter(c.Drivers, func(d model.Driver, _ int) bool { return d.Name == name })
	if len(matches) == 0 {
		return 0, fmt.Errorf("driver %s: %w", name, model.ErrNotFound)
	}
	series := lo.Uniq(lo.Map(matches, func(d model.Driver, _ int) int { return d.Series }))
	if len(series) > 1 {
		return 0, fmt.Errorf("driver %s matches series %v: %w", name, series, model.ErrAmbiguousReference)
	}
	return series[0], nil
}

func (c *Catalog) ComponentSeries(ct model.ComponentType, name string) (int, error) {
	comp, err := c.Component(ct, name)
	if err != nil {
		return 0, err
	}
	return comp.Series, nil
}

// DriverStatsAt returns the stats of a driver at level, interpolated from the
// raw level table.
func (c *Catalog) DriverStatsAt(name string, rarity model.Rarity, level int) (model.DriverStats, error) {
	levels, ok := c.DriverLevels[model.DriverLevelKey(name, rarity)]
	if !ok {
		return model.DriverStats{}, fmt.Errorf("levels of driver %s (%s): %w",
			name, rarity, model.ErrNotFound)
	}
	s, err := interpolate.Driver(&levels, level)
	if err != nil {
		return model.DriverStats{}, err
	}
	return s.DriverStats, nil
}

// ComponentStatsAt returns the stats of a component at level, interpolated
// from the raw level table.
func (c *Catalog) ComponentStatsAt(name string, level int) (model.CarStats, error) {
	levels, ok := c.ComponentLevels[name]
	if !ok {
		return model.CarStats{}, fmt.Errorf("levels of component %s: %w", name, model.ErrNotFound)
	}
	s, err := interpolate.Component(&levels, level)
	if err != nil {
		return model.CarStats{}, err
	}
	return s.CarStats, nil
}

// SeriesByNumber returns the definition of series n.
func (c *Catalog) SeriesByNumber(n int) (model.Series, error) {
	s, ok := lo.Find(c.Series, func(s model.Series) bool { return s.Series == n })
	if !ok {
		return model.Series{}, fmt.Errorf("series %d: %w", n, model.ErrNotFound)
	}
	return s, nil
}

func (c *Catalog) Track(name string) (*model.Track, error) {
	for i := range c.Tracks {
		if strings.EqualFold(c.Tracks[i].Name, name) {
			return &c.Tracks[i], nil
		}
	}
	return nil, fmt.Errorf("track %s: %w", name, model.ErrNotFound)
}
