package model

import (
	"fmt"
	"strings"
)

type Rarity string

const (
	RarityCommon    Rarity = "Common"
	RarityRare      Rarity = "Rare"
	RarityEpic      Rarity = "Epic"
	RarityLegendary Rarity = "Legendary"
)

//nolint:gochecknoglobals // fixed set
var Rarities = []Rarity{RarityCommon, RarityRare, RarityEpic, RarityLegendary}

func (r Rarity) Valid() bool {
	switch r {
	case RarityCommon, RarityRare, RarityEpic, RarityLegendary:
		return true
	}
	return false
}

// ParseRarity accepts any casing and surrounding blanks.
func ParseRarity(s string) (Rarity, error) {
	s = strings.TrimSpace(s)
	for _, r := range Rarities {
		if strings.EqualFold(string(r), s) {
			return r, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidRarity, s)
}
