//nolint:funlen,errcheck //ok for this test code
package postgres

import (
	"context"
	"testing"

	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"

	"github.com/mpapenbr/clash-manager-go/pkg/model"
	"github.com/mpapenbr/clash-manager-go/pkg/store"
	"github.com/mpapenbr/clash-manager-go/testsupport/testdb"
)

func TestPostgresStore_LoadSave(t *testing.T) {
	pool := testdb.InitTestDb(t)
	ctx := context.Background()
	s := New(pool)

	_, err := s.Load(ctx, store.KeySeries)
	assert.ErrorIs(t, err, store.ErrNotFound)

	assert.NilError(t, s.Save(ctx, store.KeySeries, []byte(`{"series_data":[]}`)))
	assert.NilError(t, s.Save(ctx, store.KeySeries, []byte(`{"series_data":[{"series":3}]}`)))

	doc, err := store.Get[model.SeriesDocument](ctx, s, store.KeySeries)
	assert.NilError(t, err)
	assert.Check(t, is.Len(doc.SeriesData, 1))
	assert.Equal(t, doc.SeriesData[0].Series, 3)

	keys, err := s.Keys(ctx)
	assert.NilError(t, err)
	assert.DeepEqual(t, keys, []store.Key{store.KeySeries})
}

func TestPostgresStore_unknownKey(t *testing.T) {
	pool := testdb.InitTestDb(t)
	s := New(pool)
	err := s.Save(context.Background(), store.Key("nope"), []byte("{}"))
	assert.ErrorIs(t, err, store.ErrUnknownKey)
}

func TestDeleteByKey(t *testing.T) {
	pool := testdb.InitTestDb(t)
	ctx := context.Background()
	assert.NilError(t, Upsert(ctx, pool, "boosts", []byte(`{"boosts":[]}`)))

	n, err := DeleteByKey(ctx, pool, "boosts")
	assert.NilError(t, err)
	assert.Equal(t, n, 1)

	n, err = DeleteByKey(ctx, pool, "boosts")
	assert.NilError(t, err)
	assert.Equal(t, n, 0)
}
