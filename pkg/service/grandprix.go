package service

import (
	"context"
	"fmt"
	"slices"

	"github.com/google/uuid"

	"github.com/mpapenbr/clash-manager-go/log"
	"github.com/mpapenbr/clash-manager-go/pkg/catalog"
	"github.com/mpapenbr/clash-manager-go/pkg/model"
	"github.com/mpapenbr/clash-manager-go/pkg/processing/grandprix"
	"github.com/mpapenbr/clash-manager-go/pkg/store"
)

type GrandPrixService struct {
	store    store.Store
	catalog  *catalog.Provider
	loadouts *LoadoutService
	l        *log.Logger
}

func InitGrandPrixService(
	s store.Store,
	p *catalog.Provider,
	loadouts *LoadoutService,
) *GrandPrixService {
	return &GrandPrixService{
		store:    s,
		catalog:  p,
		loadouts: loadouts,
		l:        log.Default().Named("service.gp"),
	}
}

// Events returns all events. If there is none, the default event is created.
func (s *GrandPrixService) Events(ctx context.Context) ([]model.GPEvent, error) {
	doc, err := store.GetOr(ctx, s.store, store.KeyGPEvents,
		func() *model.GPEventsDocument { return &model.GPEventsDocument{} })
	if err != nil {
		return nil, err
	}
	if len(doc.Events) == 0 {
		defaults, err := model.LoadDefaults()
		if err != nil {
			return nil, err
		}
		ev := defaults.GPEvent
		ev.CreatedAt = model.Now()
		doc.Events = append(doc.Events, ev)
		if err := store.Put(ctx, s.store, store.KeyGPEvents, doc); err != nil {
			return nil, err
		}
		s.l.Info("default event created", log.String("id", ev.ID))
	}
	return doc.Events, nil
}

func (s *GrandPrixService) Event(ctx context.Context, id string) (*model.GPEvent, error) {
	events, err := s.Events(ctx)
	if err != nil {
		return nil, err
	}
	idx := slices.IndexFunc(events, func(e model.GPEvent) bool { return e.ID == id })
	if idx < 0 {
		return nil, fmt.Errorf("event %s: %w", id, model.ErrNotFound)
	}
	return &events[idx], nil
}

// CreateEvent stores a new event. Missing race types are added empty.
func (s *GrandPrixService) CreateEvent(ctx context.Context, ev model.GPEvent) (*model.GPEvent, error) {
	cat, err := s.catalog.Get(ctx)
	if err != nil {
		return nil, err
	}
	if _, err := grandprix.FindCategory(cat.GPCategories, ev.Category); err != nil {
		return nil, err
	}
	events, err := s.Events(ctx)
	if err != nil {
		return nil, err
	}
	if ev.ID == "" {
		ev.ID = uuid.NewString()
	}
	if ev.Races == nil {
		ev.Races = map[model.RaceType][]model.GPRace{}
	}
	for _, rt := range model.RaceTypes {
		if _, ok := ev.Races[rt]; !ok {
			ev.Races[rt] = []model.GPRace{}
		}
	}
	ev.CreatedAt = model.Now()
	events = append(events, ev)
	if err := store.Put(ctx, s.store, store.KeyGPEvents, &model.GPEventsDocument{Events: events}); err != nil {
		return nil, err
	}
	return &events[len(events)-1], nil
}

// AssignLoadout sets the loadout of race idx (0 based) of race type rt.
// A nil loadoutID clears the assignment.
func (s *GrandPrixService) AssignLoadout(
	ctx context.Context,
	eventID string,
	rt model.RaceType,
	idx int,
	loadoutID *model.LoadoutID,
) error {
	if loadoutID != nil {
		if _, err := s.loadouts.Get(ctx, *loadoutID); err != nil {
			return err
		}
	}
	events, err := s.Events(ctx)
	if err != nil {
		return err
	}
	evIdx := slices.IndexFunc(events, func(e model.GPEvent) bool { return e.ID == eventID })
	if evIdx < 0 {
		return fmt.Errorf("event %s: %w", eventID, model.ErrNotFound)
	}
	races := events[evIdx].Races[rt]
	if idx < 0 || idx >= len(races) {
		return fmt.Errorf("event %s race %s #%d: %w", eventID, rt, idx+1, model.ErrNotFound)
	}
	races[idx].LoadoutID = loadoutID
	return store.Put(ctx, s.store, store.KeyGPEvents, &model.GPEventsDocument{Events: events})
}

// CheckLoadout returns the violations of loadout id for the named category.
// An empty result means the loadout is eligible.
func (s *GrandPrixService) CheckLoadout(
	ctx context.Context,
	id model.LoadoutID,
	categoryName string,
) ([]grandprix.Violation, error) {
	cat, err := s.catalog.Get(ctx)
	if err != nil {
		return nil, err
	}
	category, err := grandprix.FindCategory(cat.GPCategories, categoryName)
	if err != nil {
		return nil, err
	}
	l, err := s.loadouts.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return grandprix.NewChecker(cat).Explain(l, category)
}

// EligibleLoadouts returns all loadouts that may be used in the category.
// Loadouts with items missing in the catalog are not eligible.
func (s *GrandPrixService) EligibleLoadouts(ctx context.Context, categoryName string) ([]model.Loadout, error) {
	cat, err := s.catalog.Get(ctx)
	if err != nil {
		return nil, err
	}
	category, err := grandprix.FindCategory(cat.GPCategories, categoryName)
	if err != nil {
		return nil, err
	}
	all, err := s.loadouts.List(ctx)
	if err != nil {
		return nil, err
	}
	checker := grandprix.NewChecker(cat)
	var ret []model.Loadout
	for i := range all {
		ok, err := checker.IsEligible(&all[i], category)
		if err != nil {
			s.l.Debug("loadout not checkable", log.String("id", string(all[i].ID)), log.ErrorField(err))
			continue
		}
		if ok {
			ret = append(ret, all[i])
		}
	}
	return ret, nil
}

// RaceReport is the validation result of one race of an event.
type RaceReport struct {
	RaceType   model.RaceType
	Index      int
	Race       model.GPRace
	Violations []grandprix.Violation
	// Err is set if the assigned loadout could not be checked
	Err error
}

func (r RaceReport) Eligible() bool {
	return r.Err == nil && len(r.Violations) == 0
}

// ValidateEvent checks the assigned loadout of every race against the
// category of the event. Races without a loadout are skipped.
func (s *GrandPrixService) ValidateEvent(ctx context.Context, eventID string) ([]RaceReport, error) {
	ev, err := s.Event(ctx, eventID)
	if err != nil {
		return nil, err
	}
	cat, err := s.catalog.Get(ctx)
	if err != nil {
		return nil, err
	}
	category, err := grandprix.FindCategory(cat.GPCategories, ev.Category)
	if err != nil {
		return nil, err
	}
	checker := grandprix.NewChecker(cat)
	var ret []RaceReport
	for _, rt := range model.RaceTypes {
		for i, race := range ev.Races[rt] {
			if race.LoadoutID == nil {
				continue
			}
			report := RaceReport{RaceType: rt, Index: i, Race: race}
			l, err := s.loadouts.Get(ctx, *race.LoadoutID)
			if err != nil {
				report.Err = err
			} else {
				report.Violations, report.Err = checker.Explain(l, category)
			}
			ret = append(ret, report)
		}
	}
	return ret, nil
}
