package loadout

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mpapenbr/clash-manager-go/pkg/cmd/app"
	"github.com/mpapenbr/clash-manager-go/pkg/model"
)

func NewLoadoutCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "loadout",
		Short: "manage loadouts",
	}
	cmd.AddCommand(
		newListCmd(),
		newShowCmd(),
		newCreateCmd(),
		newSetDriverCmd(),
		newSetComponentCmd(),
		newClearCmd(),
		newRefreshCmd(),
		newDeleteCmd(),
		newSeriesCmd(),
	)
	return cmd
}

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "lists all loadouts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.Run(cmd, func(ctx context.Context, a *app.App) error {
				all, err := a.Loadouts.List(ctx)
				if err != nil {
					return err
				}
				tw := app.Table(cmd.OutOrStdout())
				fmt.Fprintln(tw, "ID\tTITLE\tDRIVER\tCAR\tTOTAL")
				for i := range all {
					l := &all[i]
					fmt.Fprintf(tw, "%s\t%s\t%d\t%.1f\t%.1f\n",
						l.ID, l.Title,
						l.Calc.DriverStats.TotalDriverValue,
						l.Calc.CarStats.TotalCarValue,
						l.Calc.TotalValue)
				}
				return tw.Flush()
			})
		},
	}
}

func newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "shows slots and totals of a loadout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.Run(cmd, func(ctx context.Context, a *app.App) error {
				l, err := a.Loadouts.Get(ctx, model.LoadoutID(args[0]))
				if err != nil {
					return err
				}
				return Print(cmd.OutOrStdout(), l)
			})
		},
	}
}

// Print writes the slots and totals of l.
func Print(w io.Writer, l *model.Loadout) error {
	fmt.Fprintf(w, "%s  %s\n", l.ID, l.Title)
	if l.Description != "" {
		fmt.Fprintln(w, l.Description)
	}
	tw := app.Table(w)
	fmt.Fprintln(tw, "SLOT\tNAME\tRARITY\tLEVEL\tVALUE")
	for i, d := range l.Drivers {
		if d.Empty() {
			fmt.Fprintf(tw, "driver %d\t-\t\t\t\n", i+1)
			continue
		}
		fmt.Fprintf(tw, "driver %d\t%s\t%s\t%d\t%d\n", i+1, d.Name, d.Rarity, d.Level, d.Stats.Total())
	}
	for _, ct := range model.ComponentTypes {
		c := l.Components[ct]
		if c.Empty() {
			fmt.Fprintf(tw, "%s\t-\t\t\t\n", ct)
			continue
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%.1f\n", ct, c.Name, c.Rarity, c.Level, c.Stats.Value())
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	car := l.Calc.CarStats
	drv := l.Calc.DriverStats
	fmt.Fprintf(w, "car:    speed %.1f cornering %.1f power unit %.1f qualifying %.1f pit time %.2f\n",
		car.Speed, car.Cornering, car.PowerUnit, car.Qualifying, car.PitTime)
	fmt.Fprintf(w, "driver: overtaking %d defending %d qualifying %d race start %d tyre mgmt %d\n",
		drv.Overtaking, drv.Defending, drv.Qualifying, drv.RaceStart, drv.TyreMgmt)
	_, err := fmt.Fprintf(w, "total:  %.1f (car %.1f, driver %d)\n",
		l.Calc.TotalValue, car.TotalCarValue, drv.TotalDriverValue)
	return err
}

func newCreateCmd() *cobra.Command {
	var description string
	cmd := &cobra.Command{
		Use:   "create TITLE",
		Short: "creates an empty loadout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.Run(cmd, func(ctx context.Context, a *app.App) error {
				l, err := a.Loadouts.Create(ctx, args[0], description)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), l.ID)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&description, "description", "", "description of the loadout")
	return cmd
}

func newSetDriverCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set-driver ID SLOT NAME RARITY LEVEL",
		Short: "puts a driver into slot 1 or 2",
		Args:  cobra.ExactArgs(5),
		RunE: func(cmd *cobra.Command, args []string) error {
			slot, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("slot: %w", err)
			}
			rarity, err := model.ParseRarity(args[3])
			if err != nil {
				return err
			}
			level, err := strconv.Atoi(args[4])
			if err != nil {
				return fmt.Errorf("level: %w", err)
			}
			return app.Run(cmd, func(ctx context.Context, a *app.App) error {
				l, err := a.Loadouts.SetDriver(ctx, model.LoadoutID(args[0]), slot, args[2], rarity, level)
				if err != nil {
					return err
				}
				return Print(cmd.OutOrStdout(), l)
			})
		},
	}
}

func newSetComponentCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set-component ID TYPE NAME LEVEL",
		Short: "puts a component into the slot of its type",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			level, err := strconv.Atoi(args[3])
			if err != nil {
				return fmt.Errorf("level: %w", err)
			}
			ct, err := model.ParseComponentType(args[1])
			if err != nil {
				return err
			}
			return app.Run(cmd, func(ctx context.Context, a *app.App) error {
				l, err := a.Loadouts.SetComponent(ctx, model.LoadoutID(args[0]), ct, args[2], level)
				if err != nil {
					return err
				}
				return Print(cmd.OutOrStdout(), l)
			})
		},
	}
}

func newClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear ID SLOT",
		Short: "empties a driver slot (1, 2) or a component slot (type)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.Run(cmd, func(ctx context.Context, a *app.App) error {
				id := model.LoadoutID(args[0])
				var (
					l   *model.Loadout
					err error
				)
				if slot, convErr := strconv.Atoi(args[1]); convErr == nil {
					l, err = a.Loadouts.ClearDriver(ctx, id, slot)
				} else {
					ct, parseErr := model.ParseComponentType(args[1])
					if parseErr != nil {
						return parseErr
					}
					l, err = a.Loadouts.ClearComponent(ctx, id, ct)
				}
				if err != nil {
					return err
				}
				return Print(cmd.OutOrStdout(), l)
			})
		},
	}
}

func newRefreshCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "refresh ID",
		Short: "re-reads the stats of all slots from the catalog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.Run(cmd, func(ctx context.Context, a *app.App) error {
				l, err := a.Loadouts.Refresh(ctx, model.LoadoutID(args[0]))
				if err != nil {
					return err
				}
				return Print(cmd.OutOrStdout(), l)
			})
		},
	}
}

func newDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "deletes a loadout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.Run(cmd, func(ctx context.Context, a *app.App) error {
				return a.Loadouts.Delete(ctx, model.LoadoutID(args[0]))
			})
		},
	}
}

func newSeriesCmd() *cobra.Command {
	var top int
	cmd := &cobra.Command{
		Use:   "series ID",
		Short: "lists the series best matching a loadout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.Run(cmd, func(ctx context.Context, a *app.App) error {
				matches, err := a.Series.MatchingSeries(ctx, model.LoadoutID(args[0]), top)
				if err != nil {
					return err
				}
				tw := app.Table(cmd.OutOrStdout())
				fmt.Fprintln(tw, "SERIES\tFOCUS\tRANGE\tSCORE")
				for _, m := range matches {
					focus := m.TrackStats
					if !m.Resolved {
						focus += " (?)"
					}
					fmt.Fprintf(tw, "%d\t%s\t%d - %d\t%.1f\n", m.Series, focus, m.Range.Min, m.Range.Max, m.Score)
				}
				return tw.Flush()
			})
		},
	}
	cmd.Flags().IntVar(&top, "top", 3, "number of series to show, 0 for all")
	return cmd
}
