package gp

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mpapenbr/clash-manager-go/pkg/cmd/app"
	"github.com/mpapenbr/clash-manager-go/pkg/model"
)

func NewGrandPrixCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gp",
		Short: "Grand Prix categories and events",
	}
	cmd.AddCommand(
		newCategoriesCmd(),
		newEventsCmd(),
		newCheckCmd(),
		newEligibleCmd(),
		newAssignCmd(),
		newValidateCmd(),
	)
	return cmd
}

func newCategoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "lists the Grand Prix categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.Run(cmd, func(ctx context.Context, a *app.App) error {
				cat, err := a.Catalog.Get(ctx)
				if err != nil {
					return err
				}
				tw := app.Table(cmd.OutOrStdout())
				fmt.Fprintln(tw, "NAME\tMAX SERIES\tDESCRIPTION")
				for _, c := range cat.GPCategories {
					limit := "-"
					if c.MaxSeries != model.NoSeriesLimit {
						limit = fmt.Sprint(c.MaxSeries)
					}
					fmt.Fprintf(tw, "%s\t%s\t%s\n", c.Name, limit, c.Description)
				}
				return tw.Flush()
			})
		},
	}
}

func newEventsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "events",
		Short: "lists the Grand Prix events",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.Run(cmd, func(ctx context.Context, a *app.App) error {
				events, err := a.GrandPrix.Events(ctx)
				if err != nil {
					return err
				}
				tw := app.Table(cmd.OutOrStdout())
				fmt.Fprintln(tw, "ID\tNAME\tCATEGORY\tDATE\tRACES")
				for i := range events {
					ev := &events[i]
					races := 0
					for _, rt := range model.RaceTypes {
						races += len(ev.Races[rt])
					}
					fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\n", ev.ID, ev.Name, ev.Category, ev.Date, races)
				}
				return tw.Flush()
			})
		},
	}
}

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check LOADOUT CATEGORY",
		Short: "checks a loadout against a category",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.Run(cmd, func(ctx context.Context, a *app.App) error {
				violations, err := a.GrandPrix.CheckLoadout(ctx, model.LoadoutID(args[0]), args[1])
				out := cmd.OutOrStdout()
				if len(violations) == 0 && err == nil {
					fmt.Fprintf(out, "loadout %s is eligible for %s\n", args[0], args[1])
					return nil
				}
				for _, v := range violations {
					fmt.Fprintf(out, "%s exceeds series %d\n", v, v.MaxSeries)
				}
				return err
			})
		},
	}
}

func newEligibleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "eligible CATEGORY",
		Short: "lists the loadouts usable in a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.Run(cmd, func(ctx context.Context, a *app.App) error {
				eligible, err := a.GrandPrix.EligibleLoadouts(ctx, args[0])
				if err != nil {
					return err
				}
				tw := app.Table(cmd.OutOrStdout())
				fmt.Fprintln(tw, "ID\tTITLE\tTOTAL")
				for i := range eligible {
					fmt.Fprintf(tw, "%s\t%s\t%.1f\n", eligible[i].ID, eligible[i].Title, eligible[i].Calc.TotalValue)
				}
				return tw.Flush()
			})
		},
	}
}

func newAssignCmd() *cobra.Command {
	var unassign bool
	cmd := &cobra.Command{
		Use:   "assign EVENT RACETYPE INDEX [LOADOUT]",
		Short: "assigns a loadout to a race (index starts at 1)",
		Args:  cobra.RangeArgs(3, 4),
		RunE: func(cmd *cobra.Command, args []string) error {
			idx, err := strconv.Atoi(args[2])
			if err != nil {
				return fmt.Errorf("index: %w", err)
			}
			rt, err := model.ParseRaceType(args[1])
			if err != nil {
				return err
			}
			var id *model.LoadoutID
			if !unassign {
				if len(args) < 4 {
					return errors.New("loadout required unless --clear is given")
				}
				v := model.LoadoutID(args[3])
				id = &v
			}
			return app.Run(cmd, func(ctx context.Context, a *app.App) error {
				return a.GrandPrix.AssignLoadout(ctx, args[0], rt, idx-1, id)
			})
		},
	}
	cmd.Flags().BoolVar(&unassign, "clear", false, "removes the assignment")
	return cmd
}

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate EVENT",
		Short: "checks the assigned loadouts of an event against its category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.Run(cmd, func(ctx context.Context, a *app.App) error {
				reports, err := a.GrandPrix.ValidateEvent(ctx, args[0])
				if err != nil {
					return err
				}
				tw := app.Table(cmd.OutOrStdout())
				fmt.Fprintln(tw, "RACE\tTRACK\tLOADOUT\tRESULT")
				for _, r := range reports {
					result := "ok"
					switch {
					case r.Err != nil:
						result = r.Err.Error()
					case len(r.Violations) > 0:
						result = fmt.Sprint(r.Violations)
					}
					fmt.Fprintf(tw, "%s #%d\t%s\t%s\t%s\n",
						r.RaceType, r.Index+1, r.Race.Track, *r.Race.LoadoutID, result)
				}
				return tw.Flush()
			})
		},
	}
}
