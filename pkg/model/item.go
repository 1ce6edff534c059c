package model

import "fmt"

// MaxLevel is the highest level any item can reach.
const MaxLevel = 11

// CheckLevel returns ErrInvalidLevel for levels outside 0..MaxLevel.
func CheckLevel(level int) error {
	if level < 0 || level > MaxLevel {
		return fmt.Errorf("level %d: %w", level, ErrInvalidLevel)
	}
	return nil
}

// Item holds the attributes shared by drivers and components.
// Level 0 means the item is not owned.
type Item struct {
	Name         string      `json:"name"`
	Rarity       Rarity      `json:"rarity"`
	Level        int         `json:"level"`
	HighestLevel int         `json:"highestLevel"`
	Series       int         `json:"series"`
	InInventory  bool        `json:"inInventory"`
	UpgradeInfo  UpgradeInfo `json:"upgradeInfo"`
}

type UpgradeInfo struct {
	CardsOwned  int `json:"cardsOwned"`
	CardsNeeded int `json:"cardsNeeded"`
	MaxCards    int `json:"maxCards"`
	TotalCards  int `json:"totalCards"`
	CoinsNeeded int `json:"coinsNeeded"`
}

// NewItem applies the construction defaults: inventory state follows the level
// and the highest level is never below the current one.
func NewItem(name string, rarity Rarity, level, series int) Item {
	return Item{
		Name:         name,
		Rarity:       rarity,
		Level:        level,
		HighestLevel: level,
		Series:       series,
		InInventory:  level > 0,
	}
}
