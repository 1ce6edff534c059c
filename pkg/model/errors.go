package model

import "errors"

var (
	// ErrNotFound signals an absent item, level, series or loadout.
	ErrNotFound = errors.New("not found")
	// ErrInvalidRarity signals a rarity outside Common/Rare/Epic/Legendary.
	ErrInvalidRarity = errors.New("invalid rarity")
	// ErrMalformedRange signals a recommended_ts value that is not "min - max".
	ErrMalformedRange = errors.New("malformed range")
	// ErrInvalidLevel signals a level outside 0..MaxLevel.
	ErrInvalidLevel = errors.New("invalid level")
	// ErrAmbiguousReference signals a bare name matching several catalog entries.
	ErrAmbiguousReference = errors.New("ambiguous reference")
)
