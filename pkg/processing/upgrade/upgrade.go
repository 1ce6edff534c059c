// Package upgrade computes card based upgrade progress of drivers and components.
package upgrade

import (
	"fmt"

	"github.com/mpapenbr/clash-manager-go/pkg/model"
)

// costs per rarity, index 0 is the cost to reach level 2
//
//nolint:gochecknoglobals // fixed game data
var costs = map[model.Rarity]CostTable{
	model.RarityCommon:    {4, 10, 20, 50, 100, 200, 400, 800, 1000, 5000},
	model.RarityRare:      {2, 5, 10, 20, 50, 100, 200, 400, 500, 2000},
	model.RarityEpic:      {1, 2, 5, 10, 20, 50, 100, 200, 250, 800},
	model.RarityLegendary: {1, 1, 2, 5, 10, 20, 50, 100, 150, 400},
}

// CostTable maps a target level (2..11) to the cards needed to reach it
// from the level below.
type CostTable [model.MaxLevel - 1]int

// Cost returns the cards needed to reach target. Levels outside 2..11 cost nothing.
func (c CostTable) Cost(target int) int {
	if target < 2 || target > model.MaxLevel {
		return 0
	}
	return c[target-2]
}

// Sum returns the cards needed for all target levels in [from,to].
func (c CostTable) Sum(from, to int) int {
	sum := 0
	for l := max(from, 2); l <= min(to, model.MaxLevel); l++ {
		sum += c.Cost(l)
	}
	return sum
}

// CardsPerLevel returns the cost table of a rarity.
func CardsPerLevel(r model.Rarity) (CostTable, error) {
	c, ok := costs[r]
	if !ok {
		return CostTable{}, fmt.Errorf("cost table for %q: %w", r, model.ErrInvalidRarity)
	}
	return c, nil
}

type Result struct {
	HighestLevel int
	// MaxCards is the amount needed to max a fresh item
	MaxCards int
	// CardsNeeded is the amount still needed to max the item from its level
	CardsNeeded int
	// TotalCards is owned cards plus the cards already spent
	TotalCards int
}

// Calc computes the upgrade progress of an item of rarity r at level
// holding cardsOwned unspent cards.
// Unowned items (level 0) always report a highest level of 0.
func Calc(r model.Rarity, level, cardsOwned int) (Result, error) {
	table, err := CardsPerLevel(r)
	if err != nil {
		return Result{}, err
	}
	if err := model.CheckLevel(level); err != nil {
		return Result{}, err
	}
	ret := Result{
		MaxCards:    table.Sum(2, model.MaxLevel),
		CardsNeeded: table.Sum(level+1, model.MaxLevel),
		TotalCards:  cardsOwned + table.Sum(2, level),
	}
	if level > 0 {
		ret.HighestLevel = highestLevel(table, level, cardsOwned)
	}
	return ret, nil
}

func highestLevel(table CostTable, level, cards int) int {
	reached := level
	for target := level + 1; target <= model.MaxLevel; target++ {
		cost := table.Cost(target)
		if cards < cost {
			break
		}
		cards -= cost
		reached = target
	}
	return reached
}

// Update sets HighestLevel and the card figures of item.
// Stats, totals and the coins needed are left untouched.
func Update(item *model.Item, cardsOwned int) error {
	res, err := Calc(item.Rarity, item.Level, cardsOwned)
	if err != nil {
		return fmt.Errorf("%s: %w", item.Name, err)
	}
	item.HighestLevel = res.HighestLevel
	item.InInventory = item.Level > 0
	item.UpgradeInfo.CardsOwned = cardsOwned
	item.UpgradeInfo.CardsNeeded = res.CardsNeeded
	item.UpgradeInfo.MaxCards = res.MaxCards
	item.UpgradeInfo.TotalCards = res.TotalCards
	return nil
}
