package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

// kvRepo stores opaque string values under string keys.
type kvRepo struct {
	db *sql.DB
}

// get returns the value stored under key. The boolean is false when the
// key has never been written.
func (r *kvRepo) get(ctx context.Context, key string) (string, bool, error) {
	query, args := builder().
		Select("value").
		From(entsql.Table(kvTable.Name)).
		Where(entsql.EQ("key", key)).
		Query()

	var value string
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

// set writes value under key, replacing any previous value.
func (r *kvRepo) set(ctx context.Context, key, value string) error {
	query, args := builder().
		Insert(kvTable.Name).
		Columns("key", "value", "updated_at").
		Values(key, value, time.Now().UTC()).
		OnConflict(
			entsql.ConflictColumns("key"),
			entsql.ResolveWithNewValues(),
		).
		Query()

	_, err := r.db.ExecContext(ctx, query, args...)
	return err
}

// remove deletes key. Removing a missing key is not an error.
func (r *kvRepo) remove(ctx context.Context, key string) error {
	query, args := builder().
		Delete(kvTable.Name).
		Where(entsql.EQ("key", key)).
		Query()

	_, err := r.db.ExecContext(ctx, query, args...)
	return err
}
