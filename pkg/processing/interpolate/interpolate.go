// Package interpolate derives the stats of an item for any level from the
// sparse raw level tables.
package interpolate

import (
	"fmt"
	"slices"

	"github.com/samber/lo"

	"github.com/mpapenbr/clash-manager-go/pkg/model"
)

// Lerper is implemented by level stat bundles.
// Lerp returns the bundle for level, factor in (0,1) measured from the receiver
// towards upper. Totals must be recomputed from the interpolated stats.
type Lerper[S any] interface {
	Lerp(upper S, level int, factor float64) S
}

// GetStats returns the stats for level.
// An exact sample is returned unchanged. Between two samples the stats are
// interpolated linearly. Outside the sampled range the nearest sample is
// returned unchanged, there is no extrapolation.
func GetStats[S Lerper[S]](table map[int]S, level int) (S, error) {
	var zero S
	if len(table) == 0 {
		return zero, fmt.Errorf("level table: %w", model.ErrNotFound)
	}
	if s, ok := table[level]; ok {
		return s, nil
	}
	lower, upper, hasLower, hasUpper := neighbours(table, level)
	switch {
	case hasLower && hasUpper:
		factor := float64(level-lower) / float64(upper-lower)
		return table[lower].Lerp(table[upper], level, factor), nil
	case hasLower:
		return table[lower], nil
	default:
		return table[upper], nil
	}
}

// neighbours finds the closest sampled levels below and above level
func neighbours[S any](table map[int]S, level int) (lower, upper int, hasLower, hasUpper bool) {
	levels := lo.Keys(table)
	slices.Sort(levels)
	for _, l := range levels {
		if l < level {
			lower, hasLower = l, true
		} else if l > level {
			upper, hasUpper = l, true
			break
		}
	}
	return lower, upper, hasLower, hasUpper
}

// Driver returns the interpolated driver stats for level.
func Driver(levels *model.DriverLevels, level int) (model.DriverLevelStats, error) {
	if levels == nil {
		return model.DriverLevelStats{}, fmt.Errorf("driver levels: %w", model.ErrNotFound)
	}
	s, err := GetStats(levels.Levels, level)
	if err != nil {
		return s, fmt.Errorf("driver %s (%s): %w", levels.Name, levels.Rarity, err)
	}
	return s, nil
}

// Component returns the interpolated component stats for level.
func Component(levels *model.ComponentLevels, level int) (model.ComponentLevelStats, error) {
	if levels == nil {
		return model.ComponentLevelStats{}, fmt.Errorf("component levels: %w", model.ErrNotFound)
	}
	s, err := GetStats(levels.Levels, level)
	if err != nil {
		return s, fmt.Errorf("component %s: %w", levels.Name, err)
	}
	return s, nil
}
