package repositories

import (
	"errors"
	"fmt"

	apperrors "equipment-inventory/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"

	serialNumberConstraint = "equipment_serial_number_key"
)

// mapStoreError переводит ошибки PostgreSQL в ошибки приложения.
// Всё, что не распознано, возвращается обёрнутым как сбой хранилища.
func mapStoreError(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.ErrNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case pgErr.Code == pgUniqueViolation && pgErr.ConstraintName == serialNumberConstraint:
			return fmt.Errorf("%w: %s", apperrors.ErrSerialConflict, pgErr.Detail)
		case pgErr.Code == pgForeignKeyViolation:
			return fmt.Errorf("%w: %s", apperrors.ErrReferenceMissing, pgErr.Detail)
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}
