package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/mpapenbr/clash-manager-go/log"
	"github.com/mpapenbr/clash-manager-go/pkg/catalog"
	"github.com/mpapenbr/clash-manager-go/pkg/model"
	"github.com/mpapenbr/clash-manager-go/pkg/processing/series"
	"github.com/mpapenbr/clash-manager-go/pkg/store"
)

var (
	ErrNotRotating  = errors.New("series is not rotating")
	ErrInvalidLabel = errors.New("invalid focus label")
)

type SeriesService struct {
	store    store.Store
	catalog  *catalog.Provider
	loadouts *LoadoutService
	l        *log.Logger
}

func InitSeriesService(s store.Store, p *catalog.Provider, loadouts *LoadoutService) *SeriesService {
	return &SeriesService{
		store:    s,
		catalog:  p,
		loadouts: loadouts,
		l:        log.Default().Named("service.series"),
	}
}

// SetRotating sets the current focus label of a rotating series.
func (s *SeriesService) SetRotating(ctx context.Context, seriesNum int, label string) error {
	cat, err := s.catalog.Get(ctx)
	if err != nil {
		return err
	}
	def, err := cat.SeriesByNumber(seriesNum)
	if err != nil {
		return err
	}
	if !def.IsRotating() {
		return fmt.Errorf("series %d: %w", seriesNum, ErrNotRotating)
	}
	if _, ok := model.AttributeFromLabel(label); !ok {
		return fmt.Errorf("%w: %q", ErrInvalidLabel, label)
	}
	overrides, err := store.GetOr(ctx, s.store, store.KeyRotatingOverrides,
		func() *model.RotatingOverrides { return &model.RotatingOverrides{} })
	if err != nil {
		return err
	}
	overrides.Set(seriesNum, label)
	if err := store.Put(ctx, s.store, store.KeyRotatingOverrides, overrides); err != nil {
		return err
	}
	s.l.Info("rotating series set", log.Int("series", seriesNum), log.String("label", label))
	_, err = s.catalog.Refresh(ctx)
	return err
}

// BestLoadouts ranks all loadouts for a series, best first.
func (s *SeriesService) BestLoadouts(ctx context.Context, seriesNum int) ([]series.LoadoutMatch, error) {
	cat, err := s.catalog.Get(ctx)
	if err != nil {
		return nil, err
	}
	all, err := s.loadouts.List(ctx)
	if err != nil {
		return nil, err
	}
	return series.RankLoadouts(seriesNum, all, cat.Series, cat.Rotating)
}

// Setups returns the recommended components of a series per setup focus.
func (s *SeriesService) Setups(ctx context.Context, seriesNum int) ([]series.SetupRanking, error) {
	cat, err := s.catalog.Get(ctx)
	if err != nil {
		return nil, err
	}
	setup, ok := cat.Setups.Setup(seriesNum)
	if !ok {
		return nil, fmt.Errorf("setups of series %d: %w", seriesNum, model.ErrNotFound)
	}
	return series.RankSetup(*setup), nil
}

// MatchingSeries returns the top series for a loadout. top <= 0 returns all.
func (s *SeriesService) MatchingSeries(
	ctx context.Context,
	id model.LoadoutID,
	top int,
) ([]series.Match, error) {
	cat, err := s.catalog.Get(ctx)
	if err != nil {
		return nil, err
	}
	l, err := s.loadouts.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	ret := series.RankSeries(l.Calc, cat.Series, cat.Rotating)
	if top > 0 && len(ret) > top {
		ret = ret[:top]
	}
	return ret, nil
}
