package inventory

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mpapenbr/clash-manager-go/log"
	"github.com/mpapenbr/clash-manager-go/pkg/cmd/app"
	"github.com/mpapenbr/clash-manager-go/pkg/model"
	"github.com/mpapenbr/clash-manager-go/pkg/service"
	"github.com/mpapenbr/clash-manager-go/pkg/store"
)

func NewInventoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inventory",
		Short: "maintains levels and cards of owned items",
	}
	cmd.AddCommand(newCardsCmd(), newLevelCmd(), newRecomputeCmd())
	return cmd
}

// parseKind maps "driver(s)" or a component type to the document key.
func parseKind(s string) (store.Key, error) {
	if s == "driver" || s == string(store.KeyDrivers) {
		return store.KeyDrivers, nil
	}
	ct, err := model.ParseComponentType(s)
	if err != nil {
		return "", err
	}
	return store.ComponentKey(ct), nil
}

// itemArgs resolves KIND NAME RARITY VALUE. Rarity is ignored for components.
func itemArgs(args []string) (kind store.Key, rarity model.Rarity, value int, err error) {
	if kind, err = parseKind(args[0]); err != nil {
		return "", "", 0, err
	}
	if kind == store.KeyDrivers {
		if rarity, err = model.ParseRarity(args[2]); err != nil {
			return "", "", 0, err
		}
	}
	if value, err = strconv.Atoi(args[3]); err != nil {
		return "", "", 0, fmt.Errorf("value: %w", err)
	}
	return kind, rarity, value, nil
}

func changeCmd(use, short string, change func(int) service.ItemChange) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, rarity, value, err := itemArgs(args)
			if err != nil {
				return err
			}
			return app.Run(cmd, func(ctx context.Context, a *app.App) error {
				item, err := a.Inventory.Change(ctx, kind, args[1], rarity, change(value))
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(),
					"%s level %d, highest reachable %d, cards %d, needed for max %d\n",
					item.Name, item.Level, item.HighestLevel,
					item.UpgradeInfo.CardsOwned, item.UpgradeInfo.CardsNeeded)
				return nil
			})
		},
	}
}

func newCardsCmd() *cobra.Command {
	return changeCmd("cards KIND NAME RARITY CARDS",
		"sets the owned cards of a driver or component (KIND is driver or a component type)",
		service.SetCards)
}

func newLevelCmd() *cobra.Command {
	return changeCmd("level KIND NAME RARITY LEVEL",
		"sets the level of a driver or component (KIND is driver or a component type)",
		service.SetLevel)
}

func newRecomputeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "recompute",
		Short: "recomputes the upgrade figures of all items",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.Run(cmd, func(ctx context.Context, a *app.App) error {
				n, err := a.Inventory.RecomputeAll(ctx)
				if err != nil {
					log.Warn("some items were skipped", log.ErrorField(err))
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%d items updated\n", n)
				return nil
			})
		},
	}
}
