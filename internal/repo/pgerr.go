package repo

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"laundromat/internal/domain"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// translateConstraint maps postgres constraint violations onto the
// domain error taxonomy so callers never see SQLSTATEs.
func translateConstraint(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case pgUniqueViolation:
		field := "record"
		if strings.Contains(pgErr.ConstraintName, "username") {
			field = "username"
		} else if strings.Contains(pgErr.ConstraintName, "email") {
			field = "email"
		}
		return fmt.Errorf("%s %w", field, domain.ErrDuplicate)
	case pgForeignKeyViolation:
		return domain.ErrServiceInUse
	}
	return err
}
