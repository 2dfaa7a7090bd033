package repositories

import (
	"github.com/civicwaste/swm-backend/models"

	"github.com/cockroachdb/errors"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

func IsUniqueViolationError(err error) bool {
	var pgxErr *pgconn.PgError
	return errors.As(err, &pgxErr) && pgxErr.Code == pgerrcode.UniqueViolation
}

func IsForeignKeyViolationError(err error) bool {
	var pgxErr *pgconn.PgError
	return errors.As(err, &pgxErr) && pgxErr.Code == pgerrcode.ForeignKeyViolation
}

func isInvalidInputError(err error) bool {
	var pgxErr *pgconn.PgError
	if !errors.As(err, &pgxErr) {
		return false
	}
	switch pgxErr.Code {
	case pgerrcode.UndefinedColumn,
		pgerrcode.NotNullViolation,
		pgerrcode.CheckViolation,
		pgerrcode.InvalidTextRepresentation,
		pgerrcode.DatatypeMismatch,
		pgerrcode.StringDataRightTruncationDataException:
		return true
	}
	return false
}

// translatePgError maps driver errors caused by the caller's payload onto the
// domain error sentinels so the API layer can present them with a 4xx status.
func translatePgError(err error) error {
	switch {
	case err == nil:
		return nil
	case IsUniqueViolationError(err):
		return errors.Wrap(models.ConflictError, err.Error())
	case IsForeignKeyViolationError(err), isInvalidInputError(err):
		return errors.Wrap(models.BadParameterError, err.Error())
	}
	return err
}
