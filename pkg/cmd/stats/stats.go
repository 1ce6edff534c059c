package stats

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mpapenbr/clash-manager-go/pkg/catalog"
	"github.com/mpapenbr/clash-manager-go/pkg/cmd/app"
	"github.com/mpapenbr/clash-manager-go/pkg/model"
	"github.com/mpapenbr/clash-manager-go/pkg/processing/track"
	"github.com/mpapenbr/clash-manager-go/pkg/processing/upgrade"
	"github.com/mpapenbr/clash-manager-go/pkg/service"
)

func NewStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "looks up item stats, upgrade costs and track boosts",
	}
	cmd.AddCommand(newDriverCmd(), newComponentCmd(), newUpgradeCmd(), newTrackCmd())
	return cmd
}

func newDriverCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "driver NAME RARITY LEVEL",
		Short: "shows the stats of a driver at a level",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			rarity, err := model.ParseRarity(args[1])
			if err != nil {
				return err
			}
			level, err := strconv.Atoi(args[2])
			if err != nil {
				return fmt.Errorf("level: %w", err)
			}
			return app.Run(cmd, func(ctx context.Context, a *app.App) error {
				cat, err := a.Catalog.Get(ctx)
				if err != nil {
					return err
				}
				s, err := service.DriverStats(cat, args[0], rarity, level)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(),
					"overtaking %d defending %d qualifying %d race start %d tyre mgmt %d total %d\n",
					s.Overtaking, s.Defending, s.Qualifying, s.RaceStart, s.TyreMgmt, s.Total())
				return nil
			})
		},
	}
}

func newComponentCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "component NAME LEVEL",
		Short: "shows the stats of a component at a level",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			level, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("level: %w", err)
			}
			return app.Run(cmd, func(ctx context.Context, a *app.App) error {
				cat, err := a.Catalog.Get(ctx)
				if err != nil {
					return err
				}
				s, err := componentStats(cat, args[0], level)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(),
					"speed %.2f cornering %.2f power unit %.2f qualifying %.2f pit time %.2f value %.2f\n",
					s.Speed, s.Cornering, s.PowerUnit, s.Qualifying, s.PitTime, s.Value())
				return nil
			})
		},
	}
}

// componentStats prefers the level table, else the catalog entry of any type.
func componentStats(cat *catalog.Catalog, name string, level int) (model.CarStats, error) {
	s, err := cat.ComponentStatsAt(name, level)
	if !errors.Is(err, model.ErrNotFound) {
		return s, err
	}
	for _, ct := range model.ComponentTypes {
		if c, err := cat.Component(ct, name); err == nil {
			return c.Stats, nil
		}
	}
	return model.CarStats{}, fmt.Errorf("component %s: %w", name, model.ErrNotFound)
}

func newUpgradeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "upgrade RARITY LEVEL CARDS",
		Short: "computes the reachable level for owned cards",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			rarity, err := model.ParseRarity(args[0])
			if err != nil {
				return err
			}
			level, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("level: %w", err)
			}
			cards, err := strconv.Atoi(args[2])
			if err != nil {
				return fmt.Errorf("cards: %w", err)
			}
			res, err := upgrade.Calc(rarity, level, cards)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(),
				"highest level %d, cards needed for max %d, total cards %d of %d\n",
				res.HighestLevel, res.CardsNeeded, res.TotalCards, res.MaxCards)
			return nil
		},
	}
}

func newTrackCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "track NAME",
		Short: "shows the track groups and ranked boosts of a track",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.Run(cmd, func(ctx context.Context, a *app.App) error {
				cat, err := a.Catalog.Get(ctx)
				if err != nil {
					return err
				}
				t, err := cat.Track(args[0])
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "%s: primary %s, focus %s\n", t.Name, t.PrimaryAttribute, t.Focus)
				if groups := track.TrackGroups(t.Name, cat.Boosts); len(groups) > 0 {
					fmt.Fprintf(out, "groups: %s\n", strings.Join(groups, "; "))
				}
				tw := app.Table(out)
				fmt.Fprintln(tw, "BOOST\tPRIMARY\tFOCUS")
				for _, b := range track.RankBoosts(t) {
					fmt.Fprintf(tw, "%s\t%.1f\t%.1f\n", b.Boost.Name, b.PrimaryValue, b.FocusValue)
				}
				return tw.Flush()
			})
		},
	}
}
