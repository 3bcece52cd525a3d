package repo

import (
	"database/sql"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"blog/internal/apperr"
)

const pgUniqueViolation = "23505"

// translateErr maps driver errors onto the app taxonomy: no rows becomes
// NotFound for the given resource, a unique violation becomes Conflict with
// a message naming the duplicated column.
func translateErr(err error, resource string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return apperr.Newf(apperr.NotFound, "%s not found", resource)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		switch {
		case strings.Contains(pgErr.ConstraintName, "username"):
			return apperr.New(apperr.Conflict, "username is taken, choose a different one")
		case strings.Contains(pgErr.ConstraintName, "email"):
			return apperr.New(apperr.Conflict, "email is taken, choose a different one")
		}
		return apperr.Newf(apperr.Conflict, "duplicate %s", resource)
	}
	return err
}
