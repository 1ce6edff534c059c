// Package file stores documents as JSON files in a data directory.
package file

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/mpapenbr/clash-manager-go/log"
	"github.com/mpapenbr/clash-manager-go/pkg/store"
)

// file names per key, compatible with existing data directories
//
//nolint:gochecknoglobals // fixed mapping
var fileNames = map[store.Key]string{
	store.KeyDrivers:           "drivers.json",
	store.KeyBrakes:            "components_brakes.json",
	store.KeyGearbox:           "components_gearbox.json",
	store.KeyRearWing:          "components_rearwing.json",
	store.KeyFrontWing:         "components_frontwing.json",
	store.KeySuspension:        "components_suspension.json",
	store.KeyEngine:            "components_engine.json",
	store.KeySeries:            "series_data.json",
	store.KeyRotatingOverrides: "rotating_series.json",
	store.KeyLoadouts:          "loadouts.json",
	store.KeyGPEvents:          "gp_events.json",
	store.KeyDriverLevels:      filepath.Join("raw", "driver_raw_data.json"),
	store.KeyComponentLevels:   filepath.Join("raw", "component_raw_data.json"),
	store.KeyTracks:            "track_boosts.json",
	store.KeyBoosts:            "boosts.json",
	store.KeySeriesSetups:      "series_setups.json",
}

type (
	Option    func(*FileStore)
	FileStore struct {
		dir  string
		perm os.FileMode
		l    *log.Logger
	}
)

var _ store.Store = (*FileStore)(nil)

func WithLogger(l *log.Logger) Option {
	return func(s *FileStore) {
		s.l = l
	}
}

func WithFileMode(perm os.FileMode) Option {
	return func(s *FileStore) {
		s.perm = perm
	}
}

func New(dir string, opts ...Option) *FileStore {
	ret := &FileStore{
		dir:  dir,
		perm: 0o644,
		l:    log.Default().Named("store.file"),
	}
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}

func (s *FileStore) path(key store.Key) (string, error) {
	name, ok := fileNames[key]
	if !ok {
		return "", fmt.Errorf("%w: %s", store.ErrUnknownKey, key)
	}
	return filepath.Join(s.dir, name), nil
}

func (s *FileStore) Load(ctx context.Context, key store.Key) ([]byte, error) {
	p, err := s.path(key)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(p)
	if errors.Is(err, fs.ErrNotExist) {
		s.l.Debug("document missing", log.String("key", string(key)), log.String("path", p))
		return nil, fmt.Errorf("%s: %w", key, store.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	s.l.Debug("document loaded", log.String("key", string(key)), log.Int("bytes", len(data)))
	return data, nil
}

// Save overwrites the whole file. The data is written to a temporary file
// in the same directory first and renamed afterwards.
func (s *FileStore) Save(ctx context.Context, key store.Key, data []byte) error {
	p, err := s.path(key)
	if err != nil {
		return err
	}
	if err = os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(p), filepath.Base(p)+".*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if _, err = tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	if err = os.Chmod(tmp.Name(), s.perm); err != nil {
		return err
	}
	if err = os.Rename(tmp.Name(), p); err != nil {
		return err
	}
	s.l.Debug("document saved", log.String("key", string(key)), log.Int("bytes", len(data)))
	return nil
}

func (s *FileStore) Keys(ctx context.Context) ([]store.Key, error) {
	ret := make([]store.Key, 0, len(store.AllKeys))
	for _, k := range store.AllKeys {
		p, _ := s.path(k)
		if _, err := os.Stat(p); err == nil {
			ret = append(ret, k)
		} else if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}
	return ret, nil
}
