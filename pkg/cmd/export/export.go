package export

import (
	"context"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/spf13/cobra"

	"github.com/mpapenbr/clash-manager-go/log"
	"github.com/mpapenbr/clash-manager-go/pkg/cmd/app"
	"github.com/mpapenbr/clash-manager-go/pkg/export/xlsx"
	"github.com/mpapenbr/clash-manager-go/pkg/importer"
)

func NewExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "exports the catalog and loadouts",
	}
	cmd.AddCommand(newCSVCmd(), newXLSXCmd())
	return cmd
}

func newCSVCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "csv KIND FILE",
		Short:     "writes drivers, components or loadouts as csv",
		Args:      cobra.ExactArgs(2),
		ValidArgs: []string{"drivers", "components", "loadouts"},
		RunE: func(cmd *cobra.Command, args []string) error {
			kind := importer.ExportKind(args[0])
			if !slices.Contains(importer.ExportKinds, kind) {
				return fmt.Errorf("unknown export %q", args[0])
			}
			return app.Run(cmd, func(ctx context.Context, a *app.App) error {
				return writeFile(args[1], func(w io.Writer) error {
					return writeCSV(ctx, a, kind, w)
				})
			})
		},
	}
}

func writeCSV(ctx context.Context, a *app.App, kind importer.ExportKind, w io.Writer) error {
	if kind == importer.ExportLoadouts {
		all, err := a.Loadouts.List(ctx)
		if err != nil {
			return err
		}
		return importer.WriteLoadouts(w, all)
	}
	cat, err := a.Catalog.Get(ctx)
	if err != nil {
		return err
	}
	if kind == importer.ExportDrivers {
		return importer.WriteDrivers(w, cat.Drivers)
	}
	return importer.WriteComponents(w, cat.Components)
}

func newXLSXCmd() *cobra.Command {
	var top int
	cmd := &cobra.Command{
		Use:   "xlsx FILE",
		Short: "writes the loadout report workbook",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.Run(cmd, func(ctx context.Context, a *app.App) error {
				cat, err := a.Catalog.Get(ctx)
				if err != nil {
					return err
				}
				all, err := a.Loadouts.List(ctx)
				if err != nil {
					return err
				}
				report := xlsx.NewReport(all, cat.Series, cat.Rotating, xlsx.WithTop(top))
				return writeFile(args[0], report.Write)
			})
		},
	}
	cmd.Flags().IntVar(&top, "top", 3, "number of series per loadout, 0 for all")
	return cmd
}

func writeFile(name string, write func(w io.Writer) error) error {
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	log.Info("export written", log.String("file", name))
	return nil
}
