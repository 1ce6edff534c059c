// Package store is the boundary to the persisted JSON documents.
// Every document is read and written as a whole.
package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mpapenbr/clash-manager-go/pkg/model"
)

type Key string

const (
	KeyDrivers           Key = "drivers"
	KeyBrakes            Key = Key(model.Brakes)
	KeyGearbox           Key = Key(model.Gearbox)
	KeyRearWing          Key = Key(model.RearWing)
	KeyFrontWing         Key = Key(model.FrontWing)
	KeySuspension        Key = Key(model.Suspension)
	KeyEngine            Key = Key(model.Engine)
	KeySeries            Key = "series"
	KeyRotatingOverrides Key = "rotating_overrides"
	KeyLoadouts          Key = "loadouts"
	KeyGPEvents          Key = "gp_events"
	KeyDriverLevels      Key = "driver_levels"
	KeyComponentLevels   Key = "component_levels"
	KeyTracks            Key = "tracks"
	KeyBoosts            Key = "boosts"
	KeySeriesSetups      Key = "series_setups"
)

//nolint:gochecknoglobals // fixed set
var AllKeys = []Key{
	KeyDrivers,
	KeyBrakes, KeyGearbox, KeyRearWing, KeyFrontWing, KeySuspension, KeyEngine,
	KeySeries, KeyRotatingOverrides, KeyLoadouts, KeyGPEvents,
	KeyDriverLevels, KeyComponentLevels, KeyTracks, KeyBoosts,
	KeySeriesSetups,
}

// ComponentKey returns the key of the document holding components of type ct.
func ComponentKey(ct model.ComponentType) Key {
	return Key(ct)
}

func (k Key) Valid() bool {
	for _, v := range AllKeys {
		if v == k {
			return true
		}
	}
	return false
}

// ErrNotFound is returned by Load for documents never saved.
var ErrNotFound = fmt.Errorf("document %w", model.ErrNotFound)

// ErrUnknownKey is returned for keys outside AllKeys.
var ErrUnknownKey = errors.New("unknown document key")

type Store interface {
	// Load returns the raw document. ErrNotFound if it does not exist.
	Load(ctx context.Context, key Key) ([]byte, error)
	// Save replaces the document.
	Save(ctx context.Context, key Key, data []byte) error
	// Keys lists the keys of all existing documents.
	Keys(ctx context.Context) ([]Key, error)
}

// Get loads and decodes the document stored under key.
// A document holding JSON null is treated as absent.
func Get[T any](ctx context.Context, s Store, key Key) (*T, error) {
	data, err := s.Load(ctx, key)
	if err != nil {
		return nil, err
	}
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil, fmt.Errorf("%s is null: %w", key, ErrNotFound)
	}
	var ret T
	if err := json.Unmarshal(data, &ret); err != nil {
		return nil, fmt.Errorf("decode %s: %w", key, err)
	}
	return &ret, nil
}

// GetOr is Get with a fallback for documents that do not exist yet.
func GetOr[T any](ctx context.Context, s Store, key Key, fallback func() *T) (*T, error) {
	ret, err := Get[T](ctx, s, key)
	if errors.Is(err, ErrNotFound) {
		return fallback(), nil
	}
	return ret, err
}

// Put encodes v and saves it under key.
func Put[T any](ctx context.Context, s Store, key Key, v *T) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return s.Save(ctx, key, data)
}
