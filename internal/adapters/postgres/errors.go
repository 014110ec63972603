package postgres

import (
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/samirrijal/routekit/internal/core/domain"
)

// notFound maps pgx.ErrNoRows to domain.ErrNotFound.
func notFound(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrNotFound
	}
	return err
}

// validID reports whether id can match a uuid column.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
