// Package postgres stores documents as jsonb rows of the document table.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mpapenbr/clash-manager-go/log"
	"github.com/mpapenbr/clash-manager-go/pkg/store"
)

type (
	Option        func(*PostgresStore)
	PostgresStore struct {
		pool *pgxpool.Pool
		l    *log.Logger
	}
)

var _ store.Store = (*PostgresStore)(nil)

func WithLogger(l *log.Logger) Option {
	return func(s *PostgresStore) {
		s.l = l
	}
}

func New(pool *pgxpool.Pool, opts ...Option) *PostgresStore {
	ret := &PostgresStore{
		pool: pool,
		l:    log.Default().Named("store.postgres"),
	}
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}

func (s *PostgresStore) Load(ctx context.Context, key store.Key) ([]byte, error) {
	if !key.Valid() {
		return nil, fmt.Errorf("%w: %s", store.ErrUnknownKey, key)
	}
	data, updated, err := LoadByKey(ctx, s.pool, string(key))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", key, store.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	s.l.Debug("document loaded",
		log.String("key", string(key)),
		log.Time("updated", updated))
	return data, nil
}

func (s *PostgresStore) Save(ctx context.Context, key store.Key, data []byte) error {
	if !key.Valid() {
		return fmt.Errorf("%w: %s", store.ErrUnknownKey, key)
	}
	err := pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		return Upsert(ctx, tx, string(key), data)
	})
	if err != nil {
		s.l.Error("save document", log.String("key", string(key)), log.ErrorField(err))
		return err
	}
	return nil
}

func (s *PostgresStore) Keys(ctx context.Context) ([]store.Key, error) {
	keys, err := LoadKeys(ctx, s.pool)
	if err != nil {
		return nil, err
	}
	ret := make([]store.Key, 0, len(keys))
	for _, k := range keys {
		ret = append(ret, store.Key(k))
	}
	return ret, nil
}
