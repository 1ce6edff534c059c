package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/mpapenbr/clash-manager-go/pkg/model"
)

// ExportKind names a csv export.
type ExportKind string

const (
	ExportDrivers    ExportKind = "drivers"
	ExportComponents ExportKind = "components"
	ExportLoadouts   ExportKind = "loadouts"
)

//nolint:gochecknoglobals // fixed set
var ExportKinds = []ExportKind{ExportDrivers, ExportComponents, ExportLoadouts}

func formatFloat(v float64) string {
	return decimal.NewFromFloat(v).Round(3).String()
}

func writeAll(w io.Writer, header []string, rows [][]string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("writing csv: %w", err)
	}
	return nil
}

// WriteDrivers writes drivers in the layout read by Importer.Drivers.
func WriteDrivers(w io.Writer, drivers []model.Driver) error {
	header := []string{
		"Name", "Rarity", "Level", "Series",
		"Overtaking", "Defending", "Qualifying", "Race Start", "Tyre Mgmt",
		"Cards Owned", "Highest Level", "Cards Needed",
	}
	rows := make([][]string, 0, len(drivers))
	for i := range drivers {
		d := &drivers[i]
		rows = append(rows, []string{
			d.Name, string(d.Rarity), strconv.Itoa(d.Level), strconv.Itoa(d.Series),
			strconv.Itoa(d.Stats.Overtaking),
			strconv.Itoa(d.Stats.Defending),
			strconv.Itoa(d.Stats.Qualifying),
			strconv.Itoa(d.Stats.RaceStart),
			strconv.Itoa(d.Stats.TyreMgmt),
			strconv.Itoa(d.UpgradeInfo.CardsOwned),
			strconv.Itoa(d.HighestLevel),
			strconv.Itoa(d.UpgradeInfo.CardsNeeded),
		})
	}
	return writeAll(w, header, rows)
}

// WriteComponents writes all components, ordered by type. The layout is
// read by Importer.Components and Importer.ComponentLevels (via Type).
func WriteComponents(w io.Writer, components map[model.ComponentType][]model.Component) error {
	header := []string{
		"Type", "Name", "Rarity", "Level", "Series",
		"Speed", "Cornering", "Power Unit", "Qualifying", "Pit Time",
		"Cards Owned", "Highest Level", "Cards Needed",
	}
	var rows [][]string
	for _, ct := range model.ComponentTypes {
		for i := range components[ct] {
			c := &components[ct][i]
			rows = append(rows, []string{
				string(ct), c.Name, string(c.Rarity), strconv.Itoa(c.Level), strconv.Itoa(c.Series),
				formatFloat(c.Stats.Speed),
				formatFloat(c.Stats.Cornering),
				formatFloat(c.Stats.PowerUnit),
				formatFloat(c.Stats.Qualifying),
				formatFloat(c.Stats.PitTime),
				strconv.Itoa(c.UpgradeInfo.CardsOwned),
				strconv.Itoa(c.HighestLevel),
				strconv.Itoa(c.UpgradeInfo.CardsNeeded),
			})
		}
	}
	return writeAll(w, header, rows)
}

// WriteLoadouts writes one row per loadout with its slots and totals.
func WriteLoadouts(w io.Writer, loadouts []model.Loadout) error {
	header := []string{"ID", "Title", "Driver 1", "Driver 2"}
	for _, ct := range model.ComponentTypes {
		header = append(header, string(ct))
	}
	header = append(header,
		"Speed", "Cornering", "Power Unit", "Qualifying", "Pit Time",
		"Driver Value", "Car Value", "Total Value")

	rows := make([][]string, 0, len(loadouts))
	for i := range loadouts {
		l := &loadouts[i]
		rec := []string{string(l.ID), l.Title}
		for _, d := range l.Drivers {
			rec = append(rec, driverLabel(d))
		}
		for _, ct := range model.ComponentTypes {
			rec = append(rec, componentLabel(l.Components[ct]))
		}
		car := l.Calc.CarStats
		rec = append(rec,
			formatFloat(car.Speed),
			formatFloat(car.Cornering),
			formatFloat(car.PowerUnit),
			formatFloat(car.Qualifying),
			formatFloat(car.PitTime),
			strconv.Itoa(l.Calc.DriverStats.TotalDriverValue),
			formatFloat(car.TotalCarValue),
			formatFloat(l.Calc.TotalValue),
		)
		rows = append(rows, rec)
	}
	return writeAll(w, header, rows)
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
