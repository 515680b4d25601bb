package persistence

import (
	"errors"

	"github.com/vendora/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// translateError maps GORM errors to domain errors. Unique-constraint
// violations become ErrAlreadyExists so the race between two identical
// inserts resolves to a conflict for the loser, not a 500.
func translateError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return shared.ErrAlreadyExists
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return shared.ErrNotFound
	}
	return err
}
