// Package track derives track groups and boost recommendations.
package track

import (
	"cmp"
	"slices"
	"strings"

	"github.com/samber/lo"

	"github.com/mpapenbr/clash-manager-go/pkg/model"
)

// TrackGroups returns the distinct track groups of all boosts that mention
// the track, in order of first appearance.
func TrackGroups(trackName string, boosts []model.Boost) []string {
	if trackName == "" {
		return nil
	}
	var ret []string
	for _, b := range boosts {
		for _, g := range b.TrackGroups {
			if strings.Contains(g, trackName) {
				ret = append(ret, g)
			}
		}
	}
	return lo.Uniq(ret)
}

// BoostValue is a recommended boost with its values for the track attributes.
type BoostValue struct {
	Boost        model.Boost
	PrimaryValue float64
	FocusValue   float64
}

// RankBoosts orders the recommended boosts of t by the value of the primary
// attribute, then by the focus value, both descending. Ties keep the order of t.
func RankBoosts(t *model.Track) []BoostValue {
	ret := lo.Map(t.Boosts, func(b model.Boost, _ int) BoostValue {
		return BoostValue{
			Boost:        b,
			PrimaryValue: b.Stat(t.PrimaryAttribute),
			FocusValue:   b.Stat(t.Focus),
		}
	})
	slices.SortStableFunc(ret, func(a, b BoostValue) int {
		return cmp.Or(
			cmp.Compare(b.PrimaryValue, a.PrimaryValue),
			cmp.Compare(b.FocusValue, a.FocusValue),
		)
	})
	return ret
}
