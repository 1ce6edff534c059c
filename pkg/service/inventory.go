package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/mpapenbr/clash-manager-go/log"
	"github.com/mpapenbr/clash-manager-go/pkg/catalog"
	"github.com/mpapenbr/clash-manager-go/pkg/model"
	"github.com/mpapenbr/clash-manager-go/pkg/processing/upgrade"
	"github.com/mpapenbr/clash-manager-go/pkg/store"
)

var ErrInvalidKind = errors.New("invalid item kind")

// InventoryService maintains level and card figures of drivers and components.
type InventoryService struct {
	store   store.Store
	catalog *catalog.Provider
	l       *log.Logger
}

func InitInventoryService(s store.Store, p *catalog.Provider) *InventoryService {
	return &InventoryService{
		store:   s,
		catalog: p,
		l:       log.Default().Named("service.inventory"),
	}
}

// ItemChange is applied to the matching item before the upgrade figures
// are recomputed.
type ItemChange func(item *model.Item) error

var ErrInvalidCards = errors.New("invalid card count")

func SetCards(cards int) ItemChange {
	return func(item *model.Item) error {
		if cards < 0 {
			return fmt.Errorf("%w: %d", ErrInvalidCards, cards)
		}
		item.UpgradeInfo.CardsOwned = cards
		return nil
	}
}

func SetLevel(level int) ItemChange {
	return func(item *model.Item) error {
		if err := model.CheckLevel(level); err != nil {
			return err
		}
		item.Level = level
		item.InInventory = level > 0
		return nil
	}
}

// Change modifies the item identified by kind (drivers or a component type),
// name and rarity. Rarity is ignored for components.
func (s *InventoryService) Change(
	ctx context.Context,
	kind store.Key,
	name string,
	rarity model.Rarity,
	changes ...ItemChange,
) (*model.Item, error) {
	var ret *model.Item
	apply := func(item *model.Item) error {
		for _, c := range changes {
			if err := c(item); err != nil {
				return fmt.Errorf("%s: %w", item.Name, err)
			}
		}
		if err := upgrade.Update(item, item.UpgradeInfo.CardsOwned); err != nil {
			return err
		}
		ret = item
		return nil
	}
	var err error
	switch {
	case kind == store.KeyDrivers:
		err = s.changeDriver(ctx, name, rarity, apply)
	case model.ComponentType(kind).Valid():
		err = s.changeComponent(ctx, model.ComponentType(kind), name, apply)
	default:
		err = fmt.Errorf("%w: %s", ErrInvalidKind, kind)
	}
	if err != nil {
		return nil, err
	}
	if _, err := s.catalog.Refresh(ctx); err != nil {
		return nil, err
	}
	s.l.Info("item changed",
		log.String("kind", string(kind)),
		log.String("name", name),
		log.Int("level", ret.Level),
		log.Int("highestLevel", ret.HighestLevel))
	return ret, nil
}

func (s *InventoryService) changeDriver(
	ctx context.Context,
	name string,
	rarity model.Rarity,
	apply func(*model.Item) error,
) error {
	doc, err := store.GetOr(ctx, s.store, store.KeyDrivers,
		func() *model.DriversDocument { return &model.DriversDocument{} })
	if err != nil {
		return err
	}
	for i := range doc.Drivers {
		d := &doc.Drivers[i]
		if d.Name == name && d.Rarity == rarity {
			if err := apply(&d.Item); err != nil {
				return err
			}
			return store.Put(ctx, s.store, store.KeyDrivers, doc)
		}
	}
	return fmt.Errorf("driver %s (%s): %w", name, rarity, model.ErrNotFound)
}

func (s *InventoryService) changeComponent(
	ctx context.Context,
	ct model.ComponentType,
	name string,
	apply func(*model.Item) error,
) error {
	key := store.ComponentKey(ct)
	doc, err := store.GetOr(ctx, s.store, key,
		func() *model.ComponentsDocument { return &model.ComponentsDocument{} })
	if err != nil {
		return err
	}
	items := (*doc)[ct]
	for i := range items {
		if items[i].Name == name {
			if err := apply(&items[i].Item); err != nil {
				return err
			}
			return store.Put(ctx, s.store, key, doc)
		}
	}
	return fmt.Errorf("%s %s: %w", ct, name, model.ErrNotFound)
}

// RecomputeAll reruns the upgrade calculation on every stored item.
// Items with an invalid rarity are skipped and reported in the returned error.
func (s *InventoryService) RecomputeAll(ctx context.Context) (int, error) {
	var (
		count int
		errs  []error
	)
	recompute := func(item *model.Item) {
		if err := upgrade.Update(item, item.UpgradeInfo.CardsOwned); err != nil {
			s.l.Warn("skip item", log.String("name", item.Name), log.ErrorField(err))
			errs = append(errs, err)
			return
		}
		count++
	}

	drivers, err := store.Get[model.DriversDocument](ctx, s.store, store.KeyDrivers)
	switch {
	case errors.Is(err, store.ErrNotFound):
	case err != nil:
		return 0, err
	default:
		for i := range drivers.Drivers {
			recompute(&drivers.Drivers[i].Item)
		}
		if err := store.Put(ctx, s.store, store.KeyDrivers, drivers); err != nil {
			return 0, err
		}
	}

	for _, ct := range model.ComponentTypes {
		key := store.ComponentKey(ct)
		doc, err := store.Get[model.ComponentsDocument](ctx, s.store, key)
		if errors.Is(err, store.ErrNotFound) {
			continue
		}
		if err != nil {
			return count, err
		}
		items := (*doc)[ct]
		for i := range items {
			recompute(&items[i].Item)
		}
		if err := store.Put(ctx, s.store, key, doc); err != nil {
			return count, err
		}
	}
	if _, err := s.catalog.Refresh(ctx); err != nil {
		return count, err
	}
	return count, errors.Join(errs...)
}
