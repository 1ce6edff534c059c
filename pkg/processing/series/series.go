// Package series scores loadouts against the requirements of the series catalog.
package series

import (
	"cmp"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/samber/lo"

	"github.com/mpapenbr/clash-manager-go/pkg/model"
)

const (
	// DefaultMinTS and DefaultMaxTS replace missing or unparsable range bounds.
	DefaultMinTS = 0
	DefaultMaxTS = 9999
	// PitTimeReference is the pit time (seconds) that scores zero.
	PitTimeReference = 5.0

	carWeight      = 2.0
	pitTimeWeight  = 20.0
	valueWeight    = 0.1
	underTSPenalty = 0.5
	overTSPenalty  = 0.2
)

// Range is the recommended total value of a series, both bounds inclusive.
type Range struct {
	Min int
	Max int
}

func (r Range) Contains(v float64) bool {
	return v >= float64(r.Min) && v <= float64(r.Max)
}

// ParseRange parses "min - max". "min+" is open ended.
// On error the returned range carries the defaults for every bound that
// could not be parsed, so callers may continue with it.
func ParseRange(s string) (Range, error) {
	ret := Range{Min: DefaultMinTS, Max: DefaultMaxTS}
	s = strings.TrimSpace(s)
	if open, ok := strings.CutSuffix(s, "+"); ok {
		v, err := parseBound(open)
		if err != nil {
			return ret, fmt.Errorf("%w: %q", model.ErrMalformedRange, s)
		}
		ret.Min = v
		return ret, nil
	}
	lower, upper, found := strings.Cut(s, "-")
	var errs []string
	if v, err := parseBound(lower); err == nil {
		ret.Min = v
	} else {
		errs = append(errs, "min")
	}
	if !found {
		errs = append(errs, "max")
	} else if v, err := parseBound(upper); err == nil {
		ret.Max = v
	} else {
		errs = append(errs, "max")
	}
	if len(errs) > 0 {
		return ret, fmt.Errorf("%w: %q (%s)", model.ErrMalformedRange, s, strings.Join(errs, ","))
	}
	return ret, nil
}

func parseBound(s string) (int, error) {
	return strconv.Atoi(strings.ReplaceAll(strings.TrimSpace(s), ",", ""))
}

// ResolveFocus returns the label and attribute a series focuses on.
// A rotating series takes the label from rotating. Labels that cannot be
// mapped fall back to speed and report false.
func ResolveFocus(s model.Series, rotating model.RotatingOverrides) (string, model.Attribute, bool) {
	label := s.TrackStats
	if s.IsRotating() {
		if v, ok := rotating.For(s.Series); ok {
			label = v
		}
	}
	if attr, ok := model.AttributeFromLabel(label); ok {
		return label, attr, true
	}
	return label, model.AttrSpeed, false
}

// Score rates the calculations of a loadout for series s with focus attribute.
//
// Car attributes count twice, pit time scores against PitTimeReference,
// driver attributes count once. Qualifying is both a car and a driver
// attribute and scores on both sides. A tenth of the total value is added and
// a total outside the recommended range is penalized.
func Score(calc model.Calculations, s model.Series, focus model.Attribute) float64 {
	rng, _ := ParseRange(s.RecommendedTS)
	return score(calc, rng, focus)
}

func score(calc model.Calculations, rng Range, focus model.Attribute) float64 {
	ret := 0.0
	switch {
	case focus == model.AttrPitTime:
		ret += (PitTimeReference - calc.CarStats.PitTime) * pitTimeWeight
	case focus.IsCarStat():
		v, _ := calc.CarStats.Get(focus)
		ret += v * carWeight
	}
	if v, ok := calc.DriverStats.Get(focus); ok {
		ret += float64(v)
	}
	total := calc.TotalValue
	ret += total * valueWeight
	switch {
	case total < float64(rng.Min):
		ret -= (float64(rng.Min) - total) * underTSPenalty
	case total > float64(rng.Max):
		ret -= (total - float64(rng.Max)) * overTSPenalty
	}
	return ret
}

type Match struct {
	Series int
	// TrackStats is the focus label after rotating resolution
	TrackStats string
	Focus      model.Attribute
	// Resolved is false if Focus is the fallback for an unknown label
	Resolved bool
	Range    Range
	Score    float64
}

// RankSeries scores calc against every series except the Grand Prix pseudo
// series. The result is ordered by descending score, ties keep catalog order.
func RankSeries(
	calc model.Calculations,
	catalog []model.Series,
	rotating model.RotatingOverrides,
) []Match {
	ret := lo.FilterMap(catalog, func(s model.Series, _ int) (Match, bool) {
		if s.Series == model.GrandPrixSeries {
			return Match{}, false
		}
		return match(calc, s, rotating), true
	})
	sortByScore(ret, func(m Match) float64 { return m.Score })
	return ret
}

func match(calc model.Calculations, s model.Series, rotating model.RotatingOverrides) Match {
	label, focus, resolved := ResolveFocus(s, rotating)
	rng, _ := ParseRange(s.RecommendedTS)
	return Match{
		Series:     s.Series,
		TrackStats: label,
		Focus:      focus,
		Resolved:   resolved,
		Range:      rng,
		Score:      score(calc, rng, focus),
	}
}

type LoadoutMatch struct {
	Loadout *model.Loadout
	Match
}

// RankLoadouts scores loadouts for the series numbered series, best first.
// Ties keep the order of loadouts.
func RankLoadouts(
	series int,
	loadouts []model.Loadout,
	catalog []model.Series,
	rotating model.RotatingOverrides,
) ([]LoadoutMatch, error) {
	s, ok := lo.Find(catalog, func(item model.Series) bool { return item.Series == series })
	if !ok {
		return nil, fmt.Errorf("series %d: %w", series, model.ErrNotFound)
	}
	ret := make([]LoadoutMatch, 0, len(loadouts))
	for i := range loadouts {
		ret = append(ret, LoadoutMatch{Loadout: &loadouts[i], Match: match(loadouts[i].Calc, s, rotating)})
	}
	sortByScore(ret, func(m LoadoutMatch) float64 { return m.Score })
	return ret, nil
}

func sortByScore[T any](items []T, score func(T) float64) {
	slices.SortStableFunc(items, func(a, b T) int {
		return cmp.Compare(score(b), score(a))
	})
}
