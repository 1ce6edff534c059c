package series

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mpapenbr/clash-manager-go/pkg/cmd/app"
	"github.com/mpapenbr/clash-manager-go/pkg/processing/series"
)

func NewSeriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "series",
		Short: "series catalog and matching",
	}
	cmd.AddCommand(newListCmd(), newBestCmd(), newSetupsCmd(), newRotateCmd())
	return cmd
}

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "lists the series with their current focus",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.Run(cmd, func(ctx context.Context, a *app.App) error {
				cat, err := a.Catalog.Get(ctx)
				if err != nil {
					return err
				}
				tw := app.Table(cmd.OutOrStdout())
				fmt.Fprintln(tw, "SERIES\tTRACK STATS\tFOCUS\tRECOMMENDED")
				for _, s := range cat.Series {
					label, attr, resolved := series.ResolveFocus(s, cat.Rotating)
					focus := string(attr)
					if !resolved {
						focus += " (fallback)"
					}
					fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", s.Series, label, focus, s.RecommendedTS)
				}
				return tw.Flush()
			})
		},
	}
}

func newBestCmd() *cobra.Command {
	var top int
	cmd := &cobra.Command{
		Use:   "best SERIES",
		Short: "ranks the loadouts for a series",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			num, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("series: %w", err)
			}
			return app.Run(cmd, func(ctx context.Context, a *app.App) error {
				ranked, err := a.Series.BestLoadouts(ctx, num)
				if err != nil {
					return err
				}
				if top > 0 && len(ranked) > top {
					ranked = ranked[:top]
				}
				tw := app.Table(cmd.OutOrStdout())
				fmt.Fprintln(tw, "ID\tTITLE\tTOTAL\tSCORE")
				for _, m := range ranked {
					fmt.Fprintf(tw, "%s\t%s\t%.1f\t%.1f\n",
						m.Loadout.ID, m.Loadout.Title, m.Loadout.Calc.TotalValue, m.Score)
				}
				return tw.Flush()
			})
		},
	}
	cmd.Flags().IntVar(&top, "top", 0, "number of loadouts to show, 0 for all")
	return cmd
}

func newSetupsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "setups SERIES",
		Short: "shows the recommended components of a series per focus",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			num, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("series: %w", err)
			}
			return app.Run(cmd, func(ctx context.Context, a *app.App) error {
				rankings, err := a.Series.Setups(ctx, num)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				for _, r := range rankings {
					if len(r.Entries) == 0 {
						continue
					}
					tw := app.Table(out)
					fmt.Fprintf(tw, "COMPONENT\tVALUE (%s)\n", r.Focus)
					for _, e := range r.Entries {
						fmt.Fprintf(tw, "%s\t%.1f\n", e.Component, e.Value)
					}
					if err := tw.Flush(); err != nil {
						return err
					}
					fmt.Fprintf(out, "total %s: %.1f\n\n", r.Focus, r.Total)
				}
				return nil
			})
		},
	}
}

func newRotateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rotate SERIES LABEL",
		Short: "sets the current focus of a rotating series",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			num, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("series: %w", err)
			}
			return app.Run(cmd, func(ctx context.Context, a *app.App) error {
				return a.Series.SetRotating(ctx, num, args[1])
			})
		},
	}
}
