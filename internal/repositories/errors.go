package repositories

import (
	"database/sql"
	"errors"
)

// notFoundAs replaces sql.ErrNoRows with target and passes other errors through.
func notFoundAs(err, target error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return target
	}
	return err
}
