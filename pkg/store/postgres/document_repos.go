//nolint:whitespace // can't make both editor and linter happy
package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
)

// Upsert stores data under key, replacing any previous document.
func Upsert(ctx context.Context, conn Querier, key string, data []byte) error {
	_, err := conn.Exec(ctx, `
	insert into document (key, data, updated_at) values ($1, $2, now())
	on conflict (key) do update set data = excluded.data, updated_at = excluded.updated_at
	`, key, data)
	return err
}

// LoadByKey returns the document and its modification time.
// pgx.ErrNoRows if there is none.
func LoadByKey(ctx context.Context, conn Querier, key string) (
	data []byte, updated time.Time, err error,
) {
	row := conn.QueryRow(ctx, "select data, updated_at from document where key=$1", key)
	if err = row.Scan(&data, &updated); err != nil {
		return nil, time.Time{}, err
	}
	return data, updated, nil
}

func LoadKeys(ctx context.Context, conn Querier) ([]string, error) {
	rows, err := conn.Query(ctx, "select key from document order by key")
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowTo[string])
}

// DeleteByKey returns the number of rows deleted.
func DeleteByKey(ctx context.Context, conn Querier, key string) (int, error) {
	cmdTag, err := conn.Exec(ctx, "delete from document where key=$1", key)
	if err != nil {
		return 0, err
	}
	return int(cmdTag.RowsAffected()), nil
}
