package usecase

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
)

const (
	pgUniqueViolation      = "23505"
	pgForeignKeyViolation  = "23503"
	pgSerializationFailure = "40001"
)

// isDuplicateKeyError reports a unique violation whose constraint (PostgreSQL) or
// message (SQLite, e.g. "UNIQUE constraint failed: users.email") contains key.
func isDuplicateKeyError(err error, key string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation && containsFold(pgErr.ConstraintName, key)
	}

	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return (sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey) &&
			containsFold(sqliteErr.Error(), key)
	}

	return false
}

// isForeignKeyError reports a foreign key violation naming key. SQLite does not name the
// constraint, so there only an empty key matches. SQLite raises a RESTRICT action on delete
// as a trigger constraint, so that code counts when the message names a foreign key.
func isForeignKeyError(err error, key string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgForeignKeyViolation && containsFold(pgErr.ConstraintName, key)
	}

	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.ExtendedCode {
		case sqlite3.ErrConstraintForeignKey:
		case sqlite3.ErrConstraintTrigger:
			if !containsFold(sqliteErr.Error(), "foreign key") {
				return false
			}
		default:
			return false
		}
		return containsFold(sqliteErr.Error(), key)
	}

	return false
}

// isSerializationFailure reports a transaction the store aborted because a concurrent
// one touched the same rows.
func isSerializationFailure(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgSerializationFailure
	}

	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code == sqlite3.ErrBusy || sqliteErr.Code == sqlite3.ErrLocked
	}

	return false
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
