// Package importer reads the csv sheets maintained by players into the store
// and writes the catalog back out as csv.
package importer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/mpapenbr/clash-manager-go/log"
	"github.com/mpapenbr/clash-manager-go/pkg/model"
	"github.com/mpapenbr/clash-manager-go/pkg/processing/series"
	"github.com/mpapenbr/clash-manager-go/pkg/processing/upgrade"
	"github.com/mpapenbr/clash-manager-go/pkg/store"
)

//nolint:gochecknoglobals // column aliases
var (
	colDriverName    = []string{"Name", "Driver"}
	colComponentName = []string{"Name", "Component Name", "Component"}
	colType          = []string{"Type", "Component Type"}
	colRarity        = []string{"Rarity"}
	colLevel         = []string{"Level"}
	colSeries        = []string{"Series"}
	colCards         = []string{"Cards Owned", "Cards"}
	colOvertaking    = []string{"Overtaking"}
	colDefending     = []string{"Defending"}
	colQualifying    = []string{"Qualifying"}
	colRaceStart     = []string{"Race Start"}
	colTyreMgmt      = []string{"Tyre Mgmt", "Tyre Management"}
	colSpeed         = []string{"Speed"}
	colCornering     = []string{"Cornering"}
	colPowerUnit     = []string{"Power Unit"}
	colPitTime       = []string{"Pit Time", "Pit Stop Time"}
	colTrackStats    = []string{"Track Stats"}
	colRecommendedTS = []string{"Recommend TS", "Recommended TS"}
	colCoins         = []string{"Coins"}
	colFlags         = []string{"Flags to unlock", "Flags"}
	colMaxFlags      = []string{"Max Flags"}
	colBotTS         = []string{"Bot TS"}
	colTrackName     = []string{"Name", "Track"}
	colPrimary       = []string{"Primary Attribute", "Primary"}
	colFocus         = []string{"Focus"}
	colValue         = []string{"Value"}
)

type (
	Option   func(*Importer)
	Importer struct {
		store store.Store
		l     *log.Logger
	}
)

func WithLogger(l *log.Logger) Option {
	return func(i *Importer) {
		i.l = l
	}
}

func New(s store.Store, opts ...Option) *Importer {
	ret := &Importer{store: s, l: log.Default().Named("importer")}
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}

// rowLoop calls fn for each row, collecting failures as RowError.
func (i *Importer) rowLoop(t *table, fn func(r row) error) *Result {
	res := &Result{}
	for _, r := range t.rows {
		if err := fn(r); err != nil {
			i.l.Warn("row rejected", log.Int("line", r.line), log.ErrorField(err))
			res.Errors = append(res.Errors, RowError{Line: r.line, Err: err})
			continue
		}
		res.Imported++
	}
	return res
}

func readRarity(r row) (model.Rarity, error) {
	v, err := r.required(colRarity...)
	if err != nil {
		return "", err
	}
	return model.ParseRarity(v)
}

func readLevel(r row, allowZero bool) (int, error) {
	level, err := r.intValue(colLevel...)
	if err != nil {
		return 0, err
	}
	if level > model.MaxLevel || level < 0 || (level == 0 && !allowZero) {
		return 0, fmt.Errorf("%w: %d", model.ErrInvalidLevel, level)
	}
	return level, nil
}

func readDriverStats(r row) (model.DriverStats, error) {
	var (
		s    model.DriverStats
		errs []error
	)
	get := func(dst *int, aliases []string) {
		v, err := r.intValue(aliases...)
		errs = append(errs, err)
		*dst = v
	}
	get(&s.Overtaking, colOvertaking)
	get(&s.Defending, colDefending)
	get(&s.Qualifying, colQualifying)
	get(&s.RaceStart, colRaceStart)
	get(&s.TyreMgmt, colTyreMgmt)
	return s, errors.Join(errs...)
}

func readCarStats(r row) (model.CarStats, error) {
	var (
		s    model.CarStats
		errs []error
	)
	get := func(dst *float64, aliases []string) {
		v, err := r.floatValue(aliases...)
		errs = append(errs, err)
		*dst = v
	}
	get(&s.Speed, colSpeed)
	get(&s.Cornering, colCornering)
	get(&s.PowerUnit, colPowerUnit)
	get(&s.Qualifying, colQualifying)
	pit, err := r.pitTime(colPitTime...)
	s.PitTime = pit
	errs = append(errs, err)
	return s, errors.Join(errs...)
}

// readCards returns the cards column, ok is false if the sheet has none.
func readCards(t *table, r row) (cards int, ok bool, err error) {
	if !t.has(colCards...) {
		return 0, false, nil
	}
	cards, err = r.intValue(colCards...)
	return cards, err == nil, err
}

// applyItem copies the sheet columns onto item and recomputes the upgrade
// figures. Cards are kept if the sheet has no cards column.
func applyItem(item *model.Item, level, seriesNum, cards int, hasCards bool) error {
	item.Level = level
	item.Series = seriesNum
	if !hasCards {
		cards = item.UpgradeInfo.CardsOwned
	}
	return upgrade.Update(item, cards)
}

// Drivers merges a driver sheet into the drivers document.
// Drivers are identified by name and rarity.
func (i *Importer) Drivers(ctx context.Context, src io.Reader) (*Result, error) {
	t, err := readTable(src)
	if err != nil {
		return nil, err
	}
	if err := t.require(colDriverName, colRarity, colLevel, colSeries); err != nil {
		return nil, err
	}
	doc, err := store.GetOr(ctx, i.store, store.KeyDrivers,
		func() *model.DriversDocument { return &model.DriversDocument{} })
	if err != nil {
		return nil, err
	}
	res := i.rowLoop(t, func(r row) error {
		name, err := r.required(colDriverName...)
		if err != nil {
			return err
		}
		rarity, err := readRarity(r)
		if err != nil {
			return err
		}
		level, err := readLevel(r, true)
		if err != nil {
			return err
		}
		seriesNum, err := r.intValue(colSeries...)
		if err != nil {
			return err
		}
		stats, err := readDriverStats(r)
		if err != nil {
			return err
		}
		cards, hasCards, err := readCards(t, r)
		if err != nil {
			return err
		}
		d := findDriver(doc, name, rarity)
		d.Stats = stats
		return applyItem(&d.Item, level, seriesNum, cards, hasCards)
	})
	if err := store.Put(ctx, i.store, store.KeyDrivers, doc); err != nil {
		return nil, err
	}
	i.l.Info("drivers imported", log.Int("imported", res.Imported), log.Int("rejected", len(res.Errors)))
	return res, nil
}

// findDriver returns the driver entry of doc, appending a new one if needed.
func findDriver(doc *model.DriversDocument, name string, rarity model.Rarity) *model.Driver {
	for idx := range doc.Drivers {
		if doc.Drivers[idx].Name == name && doc.Drivers[idx].Rarity == rarity {
			return &doc.Drivers[idx]
		}
	}
	doc.Drivers = append(doc.Drivers, model.NewDriver(model.NewItem(name, rarity, 0, 0), model.DriverStats{}))
	return &doc.Drivers[len(doc.Drivers)-1]
}

// Components merges a component sheet into the component documents.
// Components are identified by type and name. With an empty ct the type is
// taken from the Type column of each row.
func (i *Importer) Components(ctx context.Context, ct model.ComponentType, src io.Reader) (*Result, error) {
	if ct != "" && !ct.Valid() {
		return nil, fmt.Errorf("component type %q: %w", ct, model.ErrNotFound)
	}
	t, err := readTable(src)
	if err != nil {
		return nil, err
	}
	required := [][]string{colComponentName, colRarity, colLevel, colSeries}
	if ct == "" {
		required = append(required, colType)
	}
	if err := t.require(required...); err != nil {
		return nil, err
	}
	docs := map[model.ComponentType]*model.ComponentsDocument{}
	docFor := func(ct model.ComponentType) (*model.ComponentsDocument, error) {
		if doc, ok := docs[ct]; ok {
			return doc, nil
		}
		doc, err := store.GetOr(ctx, i.store, store.ComponentKey(ct),
			func() *model.ComponentsDocument { return &model.ComponentsDocument{} })
		if err != nil {
			return nil, err
		}
		docs[ct] = doc
		return doc, nil
	}
	var storeErr error
	res := i.rowLoop(t, func(r row) error {
		rowType, err := readType(r, ct)
		if err != nil {
			return err
		}
		if rowType == "" {
			return fmt.Errorf("%w: %s", ErrEmptyValue, colType[0])
		}
		name, err := r.required(colComponentName...)
		if err != nil {
			return err
		}
		rarity, err := readRarity(r)
		if err != nil {
			return err
		}
		level, err := readLevel(r, true)
		if err != nil {
			return err
		}
		seriesNum, err := r.intValue(colSeries...)
		if err != nil {
			return err
		}
		stats, err := readCarStats(r)
		if err != nil {
			return err
		}
		cards, hasCards, err := readCards(t, r)
		if err != nil {
			return err
		}
		doc, err := docFor(rowType)
		if err != nil {
			storeErr = err
			return err
		}
		c := findComponent(doc, rowType, name)
		c.Rarity = rarity
		c.Stats = stats
		c.TotalValue = stats.Value()
		return applyItem(&c.Item, level, seriesNum, cards, hasCards)
	})
	if storeErr != nil {
		return nil, storeErr
	}
	for ct, doc := range docs {
		if err := store.Put(ctx, i.store, store.ComponentKey(ct), doc); err != nil {
			return nil, err
		}
	}
	i.l.Info("components imported",
		log.String("type", string(ct)),
		log.Int("imported", res.Imported),
		log.Int("rejected", len(res.Errors)))
	return res, nil
}

// readType returns the type column of r if present, else fallback.
func readType(r row, fallback model.ComponentType) (model.ComponentType, error) {
	v := r.value(colType...)
	if v == "" {
		return fallback, nil
	}
	return model.ParseComponentType(v)
}

func findComponent(doc *model.ComponentsDocument, ct model.ComponentType, name string) *model.Component {
	if *doc == nil {
		*doc = model.ComponentsDocument{}
	}
	items := (*doc)[ct]
	for idx := range items {
		if items[idx].Name == name {
			return &items[idx]
		}
	}
	(*doc)[ct] = append(items, model.NewComponent(model.NewItem(name, "", 0, 0), ct, model.CarStats{}))
	return &(*doc)[ct][len((*doc)[ct])-1]
}

// DriverLevels merges a raw driver sheet (one row per driver, rarity and
// level) into the driver level tables.
func (i *Importer) DriverLevels(ctx context.Context, src io.Reader) (*Result, error) {
	t, err := readTable(src)
	if err != nil {
		return nil, err
	}
	if err := t.require(colDriverName, colRarity, colLevel); err != nil {
		return nil, err
	}
	doc, err := store.GetOr(ctx, i.store, store.KeyDriverLevels,
		func() *model.DriverLevelsDocument { return &model.DriverLevelsDocument{} })
	if err != nil {
		return nil, err
	}
	res := i.rowLoop(t, func(r row) error {
		name, err := r.required(colDriverName...)
		if err != nil {
			return err
		}
		rarity, err := readRarity(r)
		if err != nil {
			return err
		}
		level, err := readLevel(r, false)
		if err != nil {
			return err
		}
		seriesNum, err := r.intValue(colSeries...)
		if err != nil {
			return err
		}
		stats, err := readDriverStats(r)
		if err != nil {
			return err
		}
		key := model.DriverLevelKey(name, rarity)
		entry, ok := (*doc)[key]
		if !ok {
			entry = model.DriverLevels{Name: name, Rarity: rarity, Levels: map[int]model.DriverLevelStats{}}
		}
		if entry.Levels == nil {
			entry.Levels = map[int]model.DriverLevelStats{}
		}
		if seriesNum > 0 {
			entry.Series = seriesNum
		}
		entry.Levels[level] = model.DriverLevelStats{Level: level, DriverStats: stats, TotalValue: stats.Total()}
		(*doc)[key] = entry
		return nil
	})
	if err := store.Put(ctx, i.store, store.KeyDriverLevels, doc); err != nil {
		return nil, err
	}
	i.l.Info("driver levels imported", log.Int("imported", res.Imported), log.Int("rejected", len(res.Errors)))
	return res, nil
}

// ComponentLevels merges a raw component sheet into the component level
// tables. ct is used for rows without a type column, it may be empty.
func (i *Importer) ComponentLevels(ctx context.Context, ct model.ComponentType, src io.Reader) (*Result, error) {
	t, err := readTable(src)
	if err != nil {
		return nil, err
	}
	if err := t.require(colComponentName, colLevel); err != nil {
		return nil, err
	}
	doc, err := store.GetOr(ctx, i.store, store.KeyComponentLevels,
		func() *model.ComponentLevelsDocument { return &model.ComponentLevelsDocument{} })
	if err != nil {
		return nil, err
	}
	res := i.rowLoop(t, func(r row) error {
		name, err := r.required(colComponentName...)
		if err != nil {
			return err
		}
		level, err := readLevel(r, false)
		if err != nil {
			return err
		}
		seriesNum, err := r.intValue(colSeries...)
		if err != nil {
			return err
		}
		stats, err := readCarStats(r)
		if err != nil {
			return err
		}
		rowType, err := readType(r, ct)
		if err != nil {
			return err
		}
		entry, ok := (*doc)[name]
		if !ok {
			entry = model.ComponentLevels{Name: name}
		}
		if entry.Levels == nil {
			entry.Levels = map[int]model.ComponentLevelStats{}
		}
		if rowType != "" && (entry.Type == "" || r.value(colType...) != "") {
			entry.Type = rowType
		}
		if v := r.value(colRarity...); v != "" {
			rarity, err := model.ParseRarity(v)
			if err != nil {
				return err
			}
			entry.Rarity = rarity
		}
		if seriesNum > 0 {
			entry.Series = seriesNum
		}
		entry.Levels[level] = model.ComponentLevelStats{
			Level:      level,
			CarStats:   stats,
			TotalValue: model.RawComponentTotal(stats),
		}
		(*doc)[name] = entry
		return nil
	})
	if err := store.Put(ctx, i.store, store.KeyComponentLevels, doc); err != nil {
		return nil, err
	}
	i.l.Info("component levels imported", log.Int("imported", res.Imported), log.Int("rejected", len(res.Errors)))
	return res, nil
}

// Series merges a series sheet into the series document. Series are
// identified by number. An empty document starts from the defaults.
func (i *Importer) Series(ctx context.Context, src io.Reader) (*Result, error) {
	t, err := readTable(src)
	if err != nil {
		return nil, err
	}
	if err := t.require(colSeries, colTrackStats, colRecommendedTS); err != nil {
		return nil, err
	}
	doc, err := store.GetOr(ctx, i.store, store.KeySeries,
		func() *model.SeriesDocument { return &model.SeriesDocument{} })
	if err != nil {
		return nil, err
	}
	if len(doc.SeriesData) == 0 {
		defaults, err := model.LoadDefaults()
		if err != nil {
			return nil, err
		}
		doc.SeriesData = defaults.Series
	}
	res := i.rowLoop(t, func(r row) error {
		num, err := r.intValue(colSeries...)
		if err != nil {
			return err
		}
		trackStats, err := r.required(colTrackStats...)
		if err != nil {
			return err
		}
		ts := r.value(colRecommendedTS...)
		if _, err := series.ParseRange(ts); err != nil {
			i.l.Warn("keeping malformed range",
				log.Int("line", r.line), log.String("recommendedTS", ts), log.ErrorField(err))
		}
		s := model.Series{Series: num, TrackStats: trackStats, RecommendedTS: ts, BotTS: r.value(colBotTS...)}
		for _, f := range []struct {
			dst     *int
			aliases []string
		}{
			{&s.Coins, colCoins},
			{&s.FlagsToUnlock, colFlags},
			{&s.MaxFlags, colMaxFlags},
		} {
			if *f.dst, err = r.intValue(f.aliases...); err != nil {
				return err
			}
		}
		replaced := false
		for idx := range doc.SeriesData {
			if doc.SeriesData[idx].Series == num {
				doc.SeriesData[idx] = s
				replaced = true
			}
		}
		if !replaced {
			doc.SeriesData = append(doc.SeriesData, s)
		}
		return nil
	})
	if err := store.Put(ctx, i.store, store.KeySeries, doc); err != nil {
		return nil, err
	}
	i.l.Info("series imported", log.Int("imported", res.Imported), log.Int("rejected", len(res.Errors)))
	return res, nil
}

// Tracks merges a track sheet into the tracks document. Existing boosts of
// a track are kept.
func (i *Importer) Tracks(ctx context.Context, src io.Reader) (*Result, error) {
	t, err := readTable(src)
	if err != nil {
		return nil, err
	}
	if err := t.require(colTrackName, colPrimary, colFocus); err != nil {
		return nil, err
	}
	doc, err := store.GetOr(ctx, i.store, store.KeyTracks,
		func() *model.TracksDocument { return &model.TracksDocument{} })
	if err != nil {
		return nil, err
	}
	res := i.rowLoop(t, func(r row) error {
		name, err := r.required(colTrackName...)
		if err != nil {
			return err
		}
		primary, err := r.required(colPrimary...)
		if err != nil {
			return err
		}
		if _, ok := model.AttributeFromLabel(primary); !ok {
			return fmt.Errorf("primary attribute %q: %w", primary, model.ErrNotFound)
		}
		focus := r.value(colFocus...)
		for idx := range doc.Tracks {
			if strings.EqualFold(doc.Tracks[idx].Name, name) {
				doc.Tracks[idx].PrimaryAttribute = primary
				doc.Tracks[idx].Focus = focus
				return nil
			}
		}
		doc.Tracks = append(doc.Tracks, model.Track{Name: name, PrimaryAttribute: primary, Focus: focus})
		return nil
	})
	if err := store.Put(ctx, i.store, store.KeyTracks, doc); err != nil {
		return nil, err
	}
	i.l.Info("tracks imported", log.Int("imported", res.Imported), log.Int("rejected", len(res.Errors)))
	return res, nil
}

// SeriesSetups merges a setup sheet (one row per series, focus and
// component) into the series setups document. A component already listed
// for the series and focus gets the new value.
func (i *Importer) SeriesSetups(ctx context.Context, src io.Reader) (*Result, error) {
	t, err := readTable(src)
	if err != nil {
		return nil, err
	}
	if err := t.require(colSeries, colFocus, colComponentName, colValue); err != nil {
		return nil, err
	}
	doc, err := store.GetOr(ctx, i.store, store.KeySeriesSetups,
		func() *model.SeriesSetupsDocument { return &model.SeriesSetupsDocument{} })
	if err != nil {
		return nil, err
	}
	res := i.rowLoop(t, func(r row) error {
		if _, err := r.required(colSeries...); err != nil {
			return err
		}
		seriesNum, err := r.intValue(colSeries...)
		if err != nil {
			return err
		}
		label, err := r.required(colFocus...)
		if err != nil {
			return err
		}
		focus, ok := model.AttributeFromLabel(label)
		if !ok || !slices.Contains(model.SetupFocuses, focus) {
			return fmt.Errorf("setup focus %q: %w", label, model.ErrNotFound)
		}
		component, err := r.required(colComponentName...)
		if err != nil {
			return err
		}
		value, err := r.floatValue(colValue...)
		if err != nil {
			return err
		}
		setup, ok := doc.Setup(seriesNum)
		if !ok {
			doc.SeriesSetups = append(doc.SeriesSetups, model.SeriesSetup{Series: seriesNum})
			setup = &doc.SeriesSetups[len(doc.SeriesSetups)-1]
		}
		if setup.Setups == nil {
			setup.Setups = map[model.Attribute][]model.SetupEntry{}
		}
		entries := setup.Setups[focus]
		for idx := range entries {
			if strings.EqualFold(entries[idx].Component, component) {
				entries[idx].Value = value
				return nil
			}
		}
		setup.Setups[focus] = append(entries, model.SetupEntry{Component: component, Value: value})
		return nil
	})
	slices.SortStableFunc(doc.SeriesSetups, func(a, b model.SeriesSetup) int {
		return a.Series - b.Series
	})
	if err := store.Put(ctx, i.store, store.KeySeriesSetups, doc); err != nil {
		return nil, err
	}
	i.l.Info("series setups imported", log.Int("imported", res.Imported), log.Int("rejected", len(res.Errors)))
	return res, nil
}
