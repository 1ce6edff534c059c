package service

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/google/uuid"

	"github.com/mpapenbr/clash-manager-go/log"
	"github.com/mpapenbr/clash-manager-go/pkg/catalog"
	"github.com/mpapenbr/clash-manager-go/pkg/model"
	"github.com/mpapenbr/clash-manager-go/pkg/processing/loadout"
	"github.com/mpapenbr/clash-manager-go/pkg/store"
)

var ErrInvalidSlot = errors.New("invalid slot")

type (
	LoadoutOption  func(*LoadoutService)
	LoadoutService struct {
		store   store.Store
		catalog *catalog.Provider
		newID   func() model.LoadoutID
		l       *log.Logger
	}
)

func WithIDGenerator(f func() model.LoadoutID) LoadoutOption {
	return func(s *LoadoutService) {
		s.newID = f
	}
}

func WithLoadoutLogger(l *log.Logger) LoadoutOption {
	return func(s *LoadoutService) {
		s.l = l
	}
}

func InitLoadoutService(
	s store.Store,
	p *catalog.Provider,
	opts ...LoadoutOption,
) *LoadoutService {
	ret := &LoadoutService{
		store:   s,
		catalog: p,
		newID:   func() model.LoadoutID { return model.LoadoutID(uuid.NewString()) },
		l:       log.Default().Named("service.loadout"),
	}
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}

func (s *LoadoutService) load(ctx context.Context) (*model.LoadoutsDocument, error) {
	return store.GetOr(ctx, s.store, store.KeyLoadouts,
		func() *model.LoadoutsDocument { return &model.LoadoutsDocument{} })
}

func (s *LoadoutService) save(ctx context.Context, doc *model.LoadoutsDocument) error {
	return store.Put(ctx, s.store, store.KeyLoadouts, doc)
}

func (s *LoadoutService) List(ctx context.Context) ([]model.Loadout, error) {
	doc, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	return doc.Loadouts, nil
}

func (s *LoadoutService) Get(ctx context.Context, id model.LoadoutID) (*model.Loadout, error) {
	doc, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	idx := slices.IndexFunc(doc.Loadouts, func(l model.Loadout) bool { return l.ID == id })
	if idx < 0 {
		return nil, fmt.Errorf("loadout %s: %w", id, model.ErrNotFound)
	}
	return &doc.Loadouts[idx], nil
}

// Create adds an empty loadout with a new identifier.
func (s *LoadoutService) Create(ctx context.Context, title, description string) (*model.Loadout, error) {
	doc, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	l := model.NewLoadout(s.newID(), title)
	l.Description = description
	loadout.Recalculate(l)
	doc.Loadouts = append(doc.Loadouts, *l)
	if err := s.save(ctx, doc); err != nil {
		return nil, err
	}
	s.l.Info("loadout created", log.String("id", string(l.ID)), log.String("title", title))
	return l, nil
}

// Update applies change to the loadout id, recalculates and persists it.
func (s *LoadoutService) Update(
	ctx context.Context,
	id model.LoadoutID,
	change func(l *model.Loadout) error,
) (*model.Loadout, error) {
	doc, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	idx := slices.IndexFunc(doc.Loadouts, func(l model.Loadout) bool { return l.ID == id })
	if idx < 0 {
		return nil, fmt.Errorf("loadout %s: %w", id, model.ErrNotFound)
	}
	work := &doc.Loadouts[idx]
	if work.Components == nil {
		work.Components = map[model.ComponentType]model.ComponentSlot{}
	}
	if err := change(work); err != nil {
		return nil, err
	}
	loadout.Recalculate(work)
	work.UpdatedAt = model.Now()
	if err := s.save(ctx, doc); err != nil {
		return nil, err
	}
	s.l.Debug("loadout updated",
		log.String("id", string(id)),
		log.Float64("totalValue", work.Calc.TotalValue))
	return work, nil
}

// SetDriver puts a driver into slot (1 or 2). The stats are taken from the
// raw level table if there is one, else from the driver catalog.
func (s *LoadoutService) SetDriver(
	ctx context.Context,
	id model.LoadoutID,
	slot int,
	name string,
	rarity model.Rarity,
	level int,
) (*model.Loadout, error) {
	if slot < 1 || slot > 2 {
		return nil, fmt.Errorf("driver slot %d: %w", slot, ErrInvalidSlot)
	}
	if err := model.CheckLevel(level); err != nil {
		return nil, err
	}
	cat, err := s.catalog.Get(ctx)
	if err != nil {
		return nil, err
	}
	stats, err := DriverStats(cat, name, rarity, level)
	if err != nil {
		return nil, err
	}
	return s.Update(ctx, id, func(l *model.Loadout) error {
		roles := l.Drivers[slot-1].Roles
		l.Drivers[slot-1] = model.DriverSlot{
			Name: name, Rarity: rarity, Level: level, Roles: roles, Stats: stats,
		}
		return nil
	})
}

// SetComponent puts a component into the slot of its type.
func (s *LoadoutService) SetComponent(
	ctx context.Context,
	id model.LoadoutID,
	ct model.ComponentType,
	name string,
	level int,
) (*model.Loadout, error) {
	if !ct.Valid() {
		return nil, fmt.Errorf("component type %q: %w", ct, ErrInvalidSlot)
	}
	if err := model.CheckLevel(level); err != nil {
		return nil, err
	}
	cat, err := s.catalog.Get(ctx)
	if err != nil {
		return nil, err
	}
	comp, err := cat.Component(ct, name)
	if err != nil {
		return nil, err
	}
	stats, err := ComponentStats(cat, ct, name, level)
	if err != nil {
		return nil, err
	}
	return s.Update(ctx, id, func(l *model.Loadout) error {
		l.Components[ct] = model.ComponentSlot{Name: name, Rarity: comp.Rarity, Level: level, Stats: stats}
		return nil
	})
}

func (s *LoadoutService) ClearDriver(ctx context.Context, id model.LoadoutID, slot int) (*model.Loadout, error) {
	if slot < 1 || slot > 2 {
		return nil, fmt.Errorf("driver slot %d: %w", slot, ErrInvalidSlot)
	}
	return s.Update(ctx, id, func(l *model.Loadout) error {
		l.Drivers[slot-1] = model.DriverSlot{}
		return nil
	})
}

func (s *LoadoutService) ClearComponent(
	ctx context.Context,
	id model.LoadoutID,
	ct model.ComponentType,
) (*model.Loadout, error) {
	if !ct.Valid() {
		return nil, fmt.Errorf("component type %q: %w", ct, ErrInvalidSlot)
	}
	return s.Update(ctx, id, func(l *model.Loadout) error {
		l.Components[ct] = model.ComponentSlot{}
		return nil
	})
}

// Refresh re-resolves the stats of all filled slots from the current catalog.
// Slots whose item vanished from the catalog keep their stats.
func (s *LoadoutService) Refresh(ctx context.Context, id model.LoadoutID) (*model.Loadout, error) {
	cat, err := s.catalog.Get(ctx)
	if err != nil {
		return nil, err
	}
	return s.Update(ctx, id, func(l *model.Loadout) error {
		for i := range l.Drivers {
			d := &l.Drivers[i]
			if d.Empty() {
				continue
			}
			if stats, err := DriverStats(cat, d.Name, d.Rarity, d.Level); err == nil {
				d.Stats = stats
			} else {
				s.l.Warn("keeping driver stats", log.String("driver", d.Name), log.ErrorField(err))
			}
		}
		for ct, c := range l.Components {
			if c.Empty() {
				continue
			}
			if stats, err := ComponentStats(cat, ct, c.Name, c.Level); err == nil {
				c.Stats = stats
				l.Components[ct] = c
			} else {
				s.l.Warn("keeping component stats", log.String("component", c.Name), log.ErrorField(err))
			}
		}
		return nil
	})
}

// Delete removes the loadout. Identifiers of other loadouts are not changed.
func (s *LoadoutService) Delete(ctx context.Context, id model.LoadoutID) error {
	doc, err := s.load(ctx)
	if err != nil {
		return err
	}
	n := len(doc.Loadouts)
	doc.Loadouts = slices.DeleteFunc(doc.Loadouts, func(l model.Loadout) bool { return l.ID == id })
	if len(doc.Loadouts) == n {
		return fmt.Errorf("loadout %s: %w", id, model.ErrNotFound)
	}
	if err := s.save(ctx, doc); err != nil {
		return err
	}
	s.l.Info("loadout deleted", log.String("id", string(id)))
	return nil
}

// DriverStats resolves the stats of a driver at level, interpolated from the
// raw level table if available, else the stats stored with the driver.
func DriverStats(cat *catalog.Catalog, name string, rarity model.Rarity, level int) (model.DriverStats, error) {
	stats, err := cat.DriverStatsAt(name, rarity, level)
	if err == nil {
		return stats, nil
	}
	if !errors.Is(err, model.ErrNotFound) {
		return model.DriverStats{}, err
	}
	d, err := cat.Driver(name, rarity)
	if err != nil {
		return model.DriverStats{}, err
	}
	return d.Stats, nil
}

// ComponentStats resolves the stats of a component at level, interpolated
// from the raw level table if available, else the stats stored with the
// component.
func ComponentStats(
	cat *catalog.Catalog,
	ct model.ComponentType,
	name string,
	level int,
) (model.CarStats, error) {
	stats, err := cat.ComponentStatsAt(name, level)
	if err == nil {
		return stats, nil
	}
	if !errors.Is(err, model.ErrNotFound) {
		return model.CarStats{}, err
	}
	c, err := cat.Component(ct, name)
	if err != nil {
		return model.CarStats{}, err
	}
	return c.Stats, nil
}
