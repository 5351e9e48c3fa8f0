package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// Sentinel errors returned by every repository so callers can tell "absent"
// apart from "write failed" with errors.Is.
var (
	// ErrNotFound means the read/update target does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicateKey means a unique constraint rejected the write.
	ErrDuplicateKey = errors.New("duplicate key")
	// ErrConstraintViolation means a foreign key or check constraint rejected the write.
	ErrConstraintViolation = errors.New("constraint violation")
	// ErrValidation means the input payload failed validation before reaching storage.
	ErrValidation = errors.New("invalid input")
)

// translate maps gorm's translated driver errors onto the repository taxonomy.
// Requires gorm.Config{TranslateError: true} on the connection.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%w: %v", ErrDuplicateKey, err)
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return fmt.Errorf("%w: %v", ErrConstraintViolation, err)
	default:
		return err
	}
}
