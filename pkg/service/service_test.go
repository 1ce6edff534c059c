//nolint:funlen // ok for tests
package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mpapenbr/clash-manager-go/pkg/catalog"
	"github.com/mpapenbr/clash-manager-go/pkg/model"
	"github.com/mpapenbr/clash-manager-go/pkg/processing/grandprix"
	"github.com/mpapenbr/clash-manager-go/pkg/store"
	"github.com/mpapenbr/clash-manager-go/pkg/store/file"
	"github.com/mpapenbr/clash-manager-go/testsupport/basedata"
)

type fixture struct {
	store    store.Store
	catalog  *catalog.Provider
	loadouts *LoadoutService
}

func setup(t *testing.T) *fixture {
	t.Helper()
	s := file.New(t.TempDir())
	require.NoError(t, basedata.Populate(context.Background(), s))
	p := catalog.NewProvider(s, catalog.WithTTL(0))
	seq := 0
	return &fixture{
		store:   s,
		catalog: p,
		loadouts: InitLoadoutService(s, p, WithIDGenerator(func() model.LoadoutID {
			seq++
			return model.LoadoutID(fmt.Sprintf("l%d", seq))
		})),
	}
}

// buildLoadout creates a loadout with two drivers, brakes and engine.
func (f *fixture) buildLoadout(t *testing.T) *model.Loadout {
	t.Helper()
	ctx := context.Background()
	l, err := f.loadouts.Create(ctx, "race", "sample")
	require.NoError(t, err)
	_, err = f.loadouts.SetDriver(ctx, l.ID, 1, "Gasly", model.RarityCommon, 5)
	require.NoError(t, err)
	_, err = f.loadouts.SetDriver(ctx, l.ID, 2, "Piastri", model.RarityRare, 5)
	require.NoError(t, err)
	_, err = f.loadouts.SetComponent(ctx, l.ID, model.Brakes, "brakes basic", 7)
	require.NoError(t, err)
	l, err = f.loadouts.SetComponent(ctx, l.ID, model.Engine, "engine pro", 3)
	require.NoError(t, err)
	return l
}

func TestLoadoutService_slots(t *testing.T) {
	f := setup(t)
	l := f.buildLoadout(t)

	assert.Equal(t,
		model.DriverStats{Overtaking: 16, Defending: 15, Qualifying: 12, RaceStart: 10, TyreMgmt: 8},
		l.Drivers[0].Stats, "interpolated from level table")
	assert.Equal(t,
		model.DriverStats{Overtaking: 30, Defending: 25, Qualifying: 28, RaceStart: 22, TyreMgmt: 20},
		l.Drivers[1].Stats, "catalog stats without level table")
	assert.InDelta(t, 15.0, l.Components[model.Brakes].Stats.Speed, 1e-9)
	assert.Equal(t, model.RarityEpic, l.Components[model.Engine].Rarity)

	assert.Equal(t, 186, l.Calc.DriverStats.TotalDriverValue)
	assert.InDelta(t, 74.0, l.Calc.CarStats.TotalCarValue, 1e-9)
	assert.InDelta(t, 260.0, l.Calc.TotalValue, 1e-9)
	assert.InDelta(t, 1.3, l.Calc.CarStats.PitTime, 1e-9)

	stored, err := f.loadouts.Get(context.Background(), l.ID)
	require.NoError(t, err)
	assert.InDelta(t, 260.0, stored.Calc.TotalValue, 1e-9)

	cleared, err := f.loadouts.ClearComponent(context.Background(), l.ID, model.Engine)
	require.NoError(t, err)
	assert.InDelta(t, 216.0, cleared.Calc.TotalValue, 1e-9)
	cleared, err = f.loadouts.ClearDriver(context.Background(), l.ID, 2)
	require.NoError(t, err)
	assert.True(t, cleared.Drivers[1].Empty())
	assert.InDelta(t, 91.0, cleared.Calc.TotalValue, 1e-9)
}

func TestLoadoutService_errors(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	l, err := f.loadouts.Create(ctx, "x", "")
	require.NoError(t, err)

	tests := []struct {
		name    string
		call    func() error
		wantErr error
	}{
		{"driver slot out of range", func() error {
			_, err := f.loadouts.SetDriver(ctx, l.ID, 3, "Gasly", model.RarityCommon, 1)
			return err
		}, ErrInvalidSlot},
		{"unknown driver", func() error {
			_, err := f.loadouts.SetDriver(ctx, l.ID, 1, "Senna", model.RarityEpic, 1)
			return err
		}, model.ErrNotFound},
		{"invalid component type", func() error {
			_, err := f.loadouts.SetComponent(ctx, l.ID, "spoiler", "x", 1)
			return err
		}, ErrInvalidSlot},
		{"component of other type", func() error {
			_, err := f.loadouts.SetComponent(ctx, l.ID, model.Engine, "brakes basic", 1)
			return err
		}, model.ErrNotFound},
		{"driver level above max", func() error {
			_, err := f.loadouts.SetDriver(ctx, l.ID, 1, "Gasly", model.RarityCommon, model.MaxLevel+1)
			return err
		}, model.ErrInvalidLevel},
		{"negative component level", func() error {
			_, err := f.loadouts.SetComponent(ctx, l.ID, model.Engine, "engine pro", -1)
			return err
		}, model.ErrInvalidLevel},
		{"unknown loadout", func() error {
			_, err := f.loadouts.SetDriver(ctx, "nope", 1, "Gasly", model.RarityCommon, 1)
			return err
		}, model.ErrNotFound},
		{"delete unknown", func() error {
			return f.loadouts.Delete(ctx, "nope")
		}, model.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.call(), tt.wantErr)
		})
	}
}

func TestLoadoutService_deleteKeepsIdentifiers(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	for _, title := range []string{"a", "b", "c"} {
		_, err := f.loadouts.Create(ctx, title, "")
		require.NoError(t, err)
	}
	require.NoError(t, f.loadouts.Delete(ctx, "l1"))
	all, err := f.loadouts.List(ctx)
	require.NoError(t, err)
	ids := lo.Map(all, func(l model.Loadout, _ int) model.LoadoutID { return l.ID })
	assert.Equal(t, []model.LoadoutID{"l2", "l3"}, ids)

	l, err := f.loadouts.Create(ctx, "d", "")
	require.NoError(t, err)
	assert.Equal(t, model.LoadoutID("l4"), l.ID)
}

func TestLoadoutService_defaultIDs(t *testing.T) {
	s := file.New(t.TempDir())
	svc := InitLoadoutService(s, catalog.NewProvider(s))
	a, err := svc.Create(context.Background(), "a", "")
	require.NoError(t, err)
	b, err := svc.Create(context.Background(), "b", "")
	require.NoError(t, err)
	assert.NotEqual(t, a.ID, b.ID)
	assert.Len(t, string(a.ID), 36)
}

func TestLoadoutService_refresh(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	l := f.buildLoadout(t)

	inv := InitInventoryService(f.store, f.catalog)
	// changes to the catalog only show up after a refresh of the loadout
	doc, err := store.Get[model.DriversDocument](ctx, f.store, store.KeyDrivers)
	require.NoError(t, err)
	doc.Drivers[1].Stats.Overtaking = 99
	require.NoError(t, store.Put(ctx, f.store, store.KeyDrivers, doc))
	_, err = inv.RecomputeAll(ctx)
	require.NoError(t, err)

	got, err := f.loadouts.Refresh(ctx, l.ID)
	require.NoError(t, err)
	assert.Equal(t, 99, got.Drivers[1].Stats.Overtaking)
}

func TestInventoryService_Change(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	inv := InitInventoryService(f.store, f.catalog)

	item, err := inv.Change(ctx, store.KeyDrivers, "Gasly", model.RarityCommon, SetCards(800))
	require.NoError(t, err)
	assert.Equal(t, 9, item.HighestLevel)
	assert.Equal(t, 800+784, item.UpgradeInfo.TotalCards)

	cat, err := f.catalog.Get(ctx)
	require.NoError(t, err)
	d, err := cat.Driver("Gasly", model.RarityCommon)
	require.NoError(t, err)
	assert.Equal(t, 800, d.UpgradeInfo.CardsOwned, "catalog refreshed")

	item, err = inv.Change(ctx, store.KeyGearbox, "gearbox pro", "", SetLevel(0), SetCards(500))
	require.NoError(t, err)
	assert.Equal(t, 0, item.HighestLevel)
	assert.False(t, item.InInventory)

	_, err = inv.Change(ctx, store.KeyDrivers, "Gasly", model.RarityEpic, SetCards(1))
	assert.ErrorIs(t, err, model.ErrNotFound)
	_, err = inv.Change(ctx, store.KeySeries, "x", "", SetCards(1))
	assert.ErrorIs(t, err, ErrInvalidKind)
}

func TestInventoryService_Change_rejectsInvalidValues(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	inv := InitInventoryService(f.store, f.catalog)

	tests := []struct {
		name    string
		change  ItemChange
		wantErr error
	}{
		{"level above max", SetLevel(15), model.ErrInvalidLevel},
		{"negative level", SetLevel(-1), model.ErrInvalidLevel},
		{"negative cards", SetCards(-5), ErrInvalidCards},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := inv.Change(ctx, store.KeyDrivers, "Gasly", model.RarityCommon, tt.change)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	cat, err := f.catalog.Refresh(ctx)
	require.NoError(t, err)
	d, err := cat.Driver("Gasly", model.RarityCommon)
	require.NoError(t, err)
	assert.Equal(t, 8, d.Level, "stored driver unchanged")
}

func TestInventoryService_RecomputeAll(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	inv := InitInventoryService(f.store, f.catalog)

	n, err := inv.RecomputeAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4+2*len(model.ComponentTypes), n)

	cat, err := f.catalog.Get(ctx)
	require.NoError(t, err)
	for _, d := range cat.Drivers {
		assert.Positive(t, d.UpgradeInfo.MaxCards, d.Name)
	}
}

func TestInventoryService_RecomputeAll_emptyDataDir(t *testing.T) {
	ctx := context.Background()
	s := file.New(t.TempDir())
	inv := InitInventoryService(s, catalog.NewProvider(s, catalog.WithTTL(0)))

	n, err := inv.RecomputeAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	keys, err := s.Keys(ctx)
	require.NoError(t, err)
	assert.Empty(t, keys, "no documents created")
}

func TestSeriesService_Setups(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	svc := InitSeriesService(f.store, f.catalog, f.loadouts)

	got, err := svc.Setups(ctx, 4)
	require.NoError(t, err)
	require.Len(t, got, len(model.SetupFocuses))
	assert.Equal(t, "engine pro", got[0].Entries[0].Component)
	assert.InDelta(t, 24.0, got[0].Total, 1e-9)
	assert.InDelta(t, 10.0, got[1].Total, 1e-9)
	assert.Empty(t, got[2].Entries)

	_, err = svc.Setups(ctx, 9)
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestGrandPrixService(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	gp := InitGrandPrixService(f.store, f.catalog, f.loadouts)
	l := f.buildLoadout(t)

	violations, err := gp.CheckLoadout(ctx, l.ID, "Challenger")
	require.NoError(t, err)
	assert.Equal(t, []grandprix.Violation{
		{Kind: grandprix.KindDriver, Slot: "2", Name: "Piastri", Series: 7, MaxSeries: 6},
		{Kind: grandprix.KindComponent, Slot: "engine", Name: "engine pro", Series: 8, MaxSeries: 6},
	}, violations)

	violations, err = gp.CheckLoadout(ctx, l.ID, "Contender")
	require.NoError(t, err)
	assert.Empty(t, violations)

	_, err = gp.CheckLoadout(ctx, l.ID, "Rookie")
	assert.ErrorIs(t, err, model.ErrNotFound)

	empty, err := f.loadouts.Create(ctx, "empty", "")
	require.NoError(t, err)
	eligible, err := gp.EligibleLoadouts(ctx, "Challenger")
	require.NoError(t, err)
	assert.Equal(t, []model.LoadoutID{empty.ID},
		lo.Map(eligible, func(l model.Loadout, _ int) model.LoadoutID { return l.ID }))
}

func TestGrandPrixService_events(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	gp := InitGrandPrixService(f.store, f.catalog, f.loadouts)
	l := f.buildLoadout(t)

	events, err := gp.Events(ctx)
	require.NoError(t, err)
	require.Len(t, events, 1, "default event created")
	ev := events[0]
	assert.False(t, ev.CreatedAt.IsZero())

	require.NoError(t, gp.AssignLoadout(ctx, ev.ID, model.RaceOpening, 2, &l.ID))
	err = gp.AssignLoadout(ctx, ev.ID, model.RaceOpening, 42, &l.ID)
	assert.ErrorIs(t, err, model.ErrNotFound)
	unknown := model.LoadoutID("nope")
	err = gp.AssignLoadout(ctx, ev.ID, model.RaceOpening, 0, &unknown)
	assert.ErrorIs(t, err, model.ErrNotFound)

	reports, err := gp.ValidateEvent(ctx, ev.ID)
	require.NoError(t, err)
	require.Len(t, reports, 1)
	assert.Equal(t, model.RaceOpening, reports[0].RaceType)
	assert.Equal(t, 2, reports[0].Index)
	assert.False(t, reports[0].Eligible())
	assert.Len(t, reports[0].Violations, 2)

	created, err := gp.CreateEvent(ctx, model.GPEvent{Name: "Monaco GP", Category: "Champion"})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Len(t, created.Races, len(model.RaceTypes))
	_, err = gp.CreateEvent(ctx, model.GPEvent{Name: "x", Category: "Rookie"})
	assert.ErrorIs(t, err, model.ErrNotFound)

	events, err = gp.Events(ctx)
	require.NoError(t, err)
	assert.Len(t, events, 2)
}

func TestSeriesService(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	svc := InitSeriesService(f.store, f.catalog, f.loadouts)
	l := f.buildLoadout(t)

	top, err := svc.MatchingSeries(ctx, l.ID, 3)
	require.NoError(t, err)
	assert.Len(t, top, 3)
	assert.GreaterOrEqual(t, top[0].Score, top[1].Score)

	all, err := svc.MatchingSeries(ctx, l.ID, 0)
	require.NoError(t, err)
	assert.Len(t, all, 12)

	require.NoError(t, svc.SetRotating(ctx, 10, "Race Start"))
	cat, err := f.catalog.Get(ctx)
	require.NoError(t, err)
	label, _ := cat.Rotating.For(10)
	assert.Equal(t, "Race Start", label)

	assert.ErrorIs(t, svc.SetRotating(ctx, 3, "Speed"), ErrNotRotating)
	assert.ErrorIs(t, svc.SetRotating(ctx, 11, "Flying"), ErrInvalidLabel)
	assert.ErrorIs(t, svc.SetRotating(ctx, 42, "Speed"), model.ErrNotFound)

	best, err := svc.BestLoadouts(ctx, 3)
	require.NoError(t, err)
	require.Len(t, best, 1)
	assert.Equal(t, l.ID, best[0].Loadout.ID)
}
