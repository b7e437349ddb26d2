package repositories

import (
	"errors"
	"strings"

	"gorm.io/gorm"
	domainerrors "leadflow.backend/internal/domain/errors"
	"leadflow.backend/pkg/metrics"
)

// mapStoreError translates driver errors into domain errors. Missing rows
// become ErrNotFound, constraint violations ValidationRejected and anything
// else PersistenceFailed.
func mapStoreError(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) || errors.Is(err, domainerrors.ErrNotFound) {
		return domainerrors.ErrNotFound
	}
	metrics.RecordStoreError(op)
	if isConstraintViolation(err) {
		return domainerrors.ValidationRejected(err)
	}
	return domainerrors.PersistenceFailed(err)
}

func isConstraintViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) || errors.Is(err, gorm.ErrForeignKeyViolated) {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "constraint")
}

func likeTerm(search string) string {
	return "%" + strings.ToLower(strings.TrimSpace(search)) + "%"
}
