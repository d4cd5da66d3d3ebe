// Package readstore holds the read-side stores. They return query views and
// are bound to a db.Executor, so the same store serves pooled reads and reads
// inside a running transaction.
package readstore

import (
	"errors"

	"github.com/jackc/pgx/v5"
)

func isNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
