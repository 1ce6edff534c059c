// Package grandprix checks loadouts against the series ceiling of a Grand Prix category.
package grandprix

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/samber/lo"

	"github.com/mpapenbr/clash-manager-go/pkg/model"
)

// SeriesLookup resolves the series an item was introduced in.
// An empty rarity asks for a name only match.
type SeriesLookup interface {
	DriverSeries(name string, rarity model.Rarity) (int, error)
	ComponentSeries(ct model.ComponentType, name string) (int, error)
}

type ItemKind string

const (
	KindDriver    ItemKind = "driver"
	KindComponent ItemKind = "component"
)

// Violation describes one item above the ceiling of a category.
type Violation struct {
	Kind ItemKind
	// Slot is the driver slot number (1,2) or the component type
	Slot      string
	Name      string
	Series    int
	MaxSeries int
}

func (v Violation) String() string {
	return fmt.Sprintf("%s %s (series %d)", v.Kind, v.Name, v.Series)
}

// FindCategory returns the category named name (case insensitive).
func FindCategory(categories []model.GPCategory, name string) (model.GPCategory, error) {
	c, ok := lo.Find(categories, func(c model.GPCategory) bool {
		return strings.EqualFold(c.Name, name)
	})
	if !ok {
		return model.GPCategory{}, fmt.Errorf("category %q: %w", name, model.ErrNotFound)
	}
	return c, nil
}

type Checker struct {
	lookup SeriesLookup
}

func NewChecker(lookup SeriesLookup) *Checker {
	return &Checker{lookup: lookup}
}

// slotRef is a filled slot of a loadout, in slot order
type slotRef struct {
	kind   ItemKind
	slot   string
	name   string
	series func() (int, error)
}

func (c *Checker) slots(l *model.Loadout) []slotRef {
	ret := make([]slotRef, 0, len(l.Drivers)+len(model.ComponentTypes))
	for i, d := range l.Drivers {
		if d.Empty() {
			continue
		}
		ret = append(ret, slotRef{
			kind: KindDriver,
			slot: strconv.Itoa(i + 1),
			name: d.Name,
			series: func() (int, error) {
				return c.lookup.DriverSeries(d.Name, d.Rarity)
			},
		})
	}
	for _, ct := range model.ComponentTypes {
		s, ok := l.Components[ct]
		if !ok || s.Empty() {
			continue
		}
		ret = append(ret, slotRef{
			kind: KindComponent,
			slot: string(ct),
			name: s.Name,
			series: func() (int, error) {
				return c.lookup.ComponentSeries(ct, s.Name)
			},
		})
	}
	return ret
}

// IsEligible reports whether every item of l is from a series within the
// ceiling of category. It stops at the first violation.
// A loadout without any item is eligible.
func (c *Checker) IsEligible(l *model.Loadout, category model.GPCategory) (bool, error) {
	for _, ref := range c.slots(l) {
		series, err := ref.series()
		if err != nil {
			return false, fmt.Errorf("%s %s: %w", ref.kind, ref.name, err)
		}
		if series > category.MaxSeries {
			return false, nil
		}
	}
	return true, nil
}

// Explain collects every item of l above the ceiling of category.
// Items that cannot be resolved are reported in the returned error, the
// remaining items are still checked.
func (c *Checker) Explain(l *model.Loadout, category model.GPCategory) ([]Violation, error) {
	var (
		ret  []Violation
		errs []error
	)
	for _, ref := range c.slots(l) {
		series, err := ref.series()
		if err != nil {
			errs = append(errs, fmt.Errorf("%s %s: %w", ref.kind, ref.name, err))
			continue
		}
		if series > category.MaxSeries {
			ret = append(ret, Violation{
				Kind:      ref.kind,
				Slot:      ref.slot,
				Name:      ref.name,
				Series:    series,
				MaxSeries: category.MaxSeries,
			})
		}
	}
	return ret, errors.Join(errs...)
}
