//nolint:funlen // ok for tests
package grandprix

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mpapenbr/clash-manager-go/pkg/model"
)

type mapLookup struct {
	drivers    map[string]int
	components map[model.ComponentType]map[string]int
}

func (m mapLookup) DriverSeries(name string, rarity model.Rarity) (int, error) {
	if s, ok := m.drivers[model.DriverLevelKey(name, rarity)]; ok {
		return s, nil
	}
	return 0, model.ErrNotFound
}

func (m mapLookup) ComponentSeries(ct model.ComponentType, name string) (int, error) {
	if s, ok := m.components[ct][name]; ok {
		return s, nil
	}
	return 0, model.ErrNotFound
}

func sampleLookup() mapLookup {
	return mapLookup{
		drivers: map[string]int{
			"Piastri_Rare":  7,
			"Gasly_Common":  2,
			"Hamilton_Epic": 10,
		},
		components: map[model.ComponentType]map[string]int{
			model.Brakes: {"The Clamp": 3, "The Vortex": 9},
			model.Engine: {"The Behemoth": 5},
		},
	}
}

func categories() []model.GPCategory {
	return model.MustLoadDefaults().GPCategories
}

func loadoutWith(drivers [2]model.DriverSlot, comps map[model.ComponentType]string) *model.Loadout {
	l := model.NewLoadout("gp", "gp")
	l.Drivers = drivers
	for ct, name := range comps {
		l.Components[ct] = model.ComponentSlot{Name: name, Level: 3}
	}
	return l
}

func TestChecker(t *testing.T) {
	checker := NewChecker(sampleLookup())
	challenger, err := FindCategory(categories(), "challenger")
	require.NoError(t, err)
	require.Equal(t, 6, challenger.MaxSeries)

	tests := []struct {
		name     string
		loadout  *model.Loadout
		eligible bool
		want     []Violation
	}{
		{
			name:     "empty loadout",
			loadout:  model.NewLoadout("e", "empty"),
			eligible: true,
		},
		{
			name: "driver above ceiling",
			loadout: loadoutWith(
				[2]model.DriverSlot{{Name: "Piastri", Rarity: model.RarityRare, Level: 4}, {}},
				map[model.ComponentType]string{model.Brakes: "The Clamp"}),
			eligible: false,
			want: []Violation{
				{Kind: KindDriver, Slot: "1", Name: "Piastri", Series: 7, MaxSeries: 6},
			},
		},
		{
			name: "all within ceiling",
			loadout: loadoutWith(
				[2]model.DriverSlot{{}, {Name: "Gasly", Rarity: model.RarityCommon, Level: 8}},
				map[model.ComponentType]string{model.Brakes: "The Clamp", model.Engine: "The Behemoth"}),
			eligible: true,
		},
		{
			name: "collects every violation",
			loadout: loadoutWith(
				[2]model.DriverSlot{
					{Name: "Hamilton", Rarity: model.RarityEpic, Level: 1},
					{Name: "Piastri", Rarity: model.RarityRare, Level: 4},
				},
				map[model.ComponentType]string{model.Brakes: "The Vortex", model.Engine: "The Behemoth"}),
			eligible: false,
			want: []Violation{
				{Kind: KindDriver, Slot: "1", Name: "Hamilton", Series: 10, MaxSeries: 6},
				{Kind: KindDriver, Slot: "2", Name: "Piastri", Series: 7, MaxSeries: 6},
				{Kind: KindComponent, Slot: "brakes", Name: "The Vortex", Series: 9, MaxSeries: 6},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, err := checker.IsEligible(tt.loadout, challenger)
			require.NoError(t, err)
			assert.Equal(t, tt.eligible, ok)

			got, err := checker.Explain(tt.loadout, challenger)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestChecker_violationString(t *testing.T) {
	checker := NewChecker(sampleLookup())
	l := loadoutWith([2]model.DriverSlot{{Name: "Piastri", Rarity: model.RarityRare}, {}}, nil)
	got, err := checker.Explain(l, model.GPCategory{Name: "Challenger", MaxSeries: 6})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "driver Piastri (series 7)", got[0].String())
}

func TestChecker_unknownItem(t *testing.T) {
	checker := NewChecker(sampleLookup())
	l := loadoutWith(
		[2]model.DriverSlot{{Name: "Nobody", Rarity: model.RarityRare}, {}},
		map[model.ComponentType]string{model.Brakes: "The Vortex"})
	cat := model.GPCategory{Name: "Challenger", MaxSeries: 6}

	ok, err := checker.IsEligible(l, cat)
	assert.False(t, ok)
	assert.ErrorIs(t, err, model.ErrNotFound)

	got, err := checker.Explain(l, cat)
	assert.ErrorIs(t, err, model.ErrNotFound)
	require.Len(t, got, 1, "remaining items are still checked")
	assert.Equal(t, "The Vortex", got[0].Name)
}

func TestChecker_monotonic(t *testing.T) {
	checker := NewChecker(sampleLookup())
	cats := categories()
	loadouts := []*model.Loadout{
		model.NewLoadout("e", "empty"),
		loadoutWith([2]model.DriverSlot{{Name: "Gasly", Rarity: model.RarityCommon}, {}},
			map[model.ComponentType]string{model.Brakes: "The Clamp"}),
		loadoutWith([2]model.DriverSlot{{Name: "Piastri", Rarity: model.RarityRare}, {}}, nil),
		loadoutWith([2]model.DriverSlot{{Name: "Hamilton", Rarity: model.RarityEpic}, {}}, nil),
	}
	for _, l := range loadouts {
		eligibleBefore := false
		for _, cat := range cats {
			ok, err := checker.IsEligible(l, cat)
			require.NoError(t, err)
			if eligibleBefore {
				assert.True(t, ok, "loadout %s category %s", l.ID, cat.Name)
			}
			eligibleBefore = ok
		}
		ok, err := checker.IsEligible(l, cats[len(cats)-1])
		require.NoError(t, err)
		assert.True(t, ok, "top category has no ceiling")
	}
}

func TestFindCategory(t *testing.T) {
	c, err := FindCategory(categories(), "Champion")
	require.NoError(t, err)
	assert.Equal(t, model.NoSeriesLimit, c.MaxSeries)

	_, err = FindCategory(categories(), "Rookie")
	assert.ErrorIs(t, err, model.ErrNotFound)
}
