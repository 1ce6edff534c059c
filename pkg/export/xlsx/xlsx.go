// Package xlsx writes the loadout report workbook.
package xlsx

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/mpapenbr/clash-manager-go/pkg/model"
	"github.com/mpapenbr/clash-manager-go/pkg/processing/series"
)

const (
	SheetLoadouts    = "Loadouts"
	SheetSeriesMatch = "Series Match"
	defaultTop       = 3
)

type (
	Option func(*Report)
	Report struct {
		loadouts []model.Loadout
		catalog  []model.Series
		rotating model.RotatingOverrides
		top      int
	}
)

// WithTop sets the number of series listed per loadout.
func WithTop(n int) Option {
	return func(r *Report) {
		r.top = n
	}
}

func NewReport(
	loadouts []model.Loadout,
	seriesCatalog []model.Series,
	rotating model.RotatingOverrides,
	opts ...Option,
) *Report {
	ret := &Report{
		loadouts: loadouts,
		catalog:  seriesCatalog,
		rotating: rotating,
		top:      defaultTop,
	}
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}

//nolint:gochecknoglobals // sheet layout
var (
	loadoutHeader = []any{
		"ID", "Title", "Driver 1", "Driver 2",
		"Brakes", "Gearbox", "Rear Wing", "Front Wing", "Suspension", "Engine",
		"Speed", "Cornering", "Power Unit", "Qualifying", "Pit Time",
		"Driver Value", "Car Value", "Total Value",
	}
	matchHeader = []any{
		"Loadout", "Rank", "Series", "Track Stats", "Recommended", "In Range", "Score",
	}
)

// Build creates the workbook. The caller has to close it.
func (r *Report) Build() (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", SheetLoadouts); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(SheetSeriesMatch); err != nil {
		return nil, err
	}
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return nil, err
	}
	if err := r.writeLoadouts(f, headerStyle); err != nil {
		return nil, err
	}
	if err := r.writeMatches(f, headerStyle); err != nil {
		return nil, err
	}
	return f, nil
}

// Write builds the workbook and writes it to w.
func (r *Report) Write(w io.Writer) error {
	f, err := r.Build()
	if err != nil {
		return err
	}
	defer f.Close()
	return f.Write(w)
}

func writeHeader(f *excelize.File, sheet string, header []any, style int) error {
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(len(header), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", last, style); err != nil {
		return err
	}
	return f.SetPanes(sheet, &excelize.Panes{
		Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft",
	})
}

func (r *Report) writeLoadouts(f *excelize.File, headerStyle int) error {
	if err := writeHeader(f, SheetLoadouts, loadoutHeader, headerStyle); err != nil {
		return err
	}
	for i := range r.loadouts {
		l := &r.loadouts[i]
		values := []any{string(l.ID), l.Title}
		for _, d := range l.Drivers {
			values = append(values, driverLabel(d))
		}
		for _, ct := range model.ComponentTypes {
			values = append(values, componentLabel(l.Components[ct]))
		}
		car := l.Calc.CarStats
		values = append(values,
			car.Speed, car.Cornering, car.PowerUnit, car.Qualifying, car.PitTime,
			l.Calc.DriverStats.TotalDriverValue, car.TotalCarValue, l.Calc.TotalValue)
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(SheetLoadouts, cell, &values); err != nil {
			return err
		}
	}
	if err := f.SetColWidth(SheetLoadouts, "B", "J", 18); err != nil {
		return err
	}
	return f.SetColWidth(SheetLoadouts, "A", "A", 38)
}

func (r *Report) writeMatches(f *excelize.File, headerStyle int) error {
	if err := writeHeader(f, SheetSeriesMatch, matchHeader, headerStyle); err != nil {
		return err
	}
	row := 2
	for i := range r.loadouts {
		l := &r.loadouts[i]
		matches := series.RankSeries(l.Calc, r.catalog, r.rotating)
		if r.top > 0 && len(matches) > r.top {
			matches = matches[:r.top]
		}
		for rank, m := range matches {
			values := []any{
				l.Title, rank + 1, m.Series, m.TrackStats,
				fmt.Sprintf("%d - %d", m.Range.Min, m.Range.Max),
				m.Range.Contains(l.Calc.TotalValue),
				m.Score,
			}
			cell, err := excelize.CoordinatesToCellName(1, row)
			if err != nil {
				return err
			}
			if err := f.SetSheetRow(SheetSeriesMatch, cell, &values); err != nil {
				return err
			}
			row++
		}
	}
	return f.SetColWidth(SheetSeriesMatch, "A", "A", 24)
}

func driverLabel(d model.DriverSlot) string {
	if d.Empty() {
		return ""
	}
	return fmt.Sprintf("%s (%s) L%d", d.Name, d.Rarity, d.Level)
}

func componentLabel(c model.ComponentSlot) string {
	if c.Empty() {
		return ""
	}
	return fmt.Sprintf("%s L%d", c.Name, c.Level)
}
