package repository

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/litepolis/litepolis-database-go/internal/models"
)

// CreateMigrationRecordParams is the payload for MigrationRepository.Create.
// ID is the migration file name; Hash its sha256 hex digest.
type CreateMigrationRecordParams struct {
	ID   string
	Hash string
}

// MigrationRepository tracks executed schema migrations and detects content
// drift after the fact.
type MigrationRepository interface {
	Create(ctx context.Context, params CreateMigrationRecordParams) (models.MigrationRecord, error)
	GetByID(ctx context.Context, id string) (models.MigrationRecord, error)
	Delete(ctx context.Context, id string) (bool, error)
	List(ctx context.Context, params ListParams) ([]models.MigrationRecord, error)
	GetLatest(ctx context.Context) (models.MigrationRecord, error)
	// VerifyIntegrity recomputes the content hash of fileContent and compares
	// it to the recorded one. It does not gate execution; it only reports drift.
	VerifyIntegrity(ctx context.Context, id string, fileContent []byte) (bool, error)
}

type migrationRepository struct {
	db     *gorm.DB
	logger zerolog.Logger
}

// NewMigrationRepository constructs a GORM-backed migration record repository.
func NewMigrationRepository(db *gorm.DB, logger zerolog.Logger) MigrationRepository {
	return &migrationRepository{db: db, logger: logger.With().Str("repository", "migrations").Logger()}
}

// HashMigrationContent returns the canonical content hash recorded for a
// migration file.
func HashMigrationContent(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}

func (r *migrationRepository) Create(ctx context.Context, params CreateMigrationRecordParams) (models.MigrationRecord, error) {
	if params.ID == "" || params.Hash == "" {
		return models.MigrationRecord{}, fmt.Errorf("%w: id and hash are required", ErrValidation)
	}

	record := models.MigrationRecord{ID: params.ID, Hash: params.Hash}
	if err := r.db.WithContext(ctx).Create(&record).Error; err != nil {
		err = translate(err)
		if errors.Is(err, ErrDuplicateKey) {
			r.logger.Warn().Str("migration", params.ID).Msg("migration already recorded")
		}
		return models.MigrationRecord{}, err
	}
	return record, nil
}

func (r *migrationRepository) GetByID(ctx context.Context, id string) (models.MigrationRecord, error) {
	var record models.MigrationRecord
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&record).Error; err != nil {
		return models.MigrationRecord{}, translate(err)
	}
	return record, nil
}

func (r *migrationRepository) Delete(ctx context.Context, id string) (bool, error) {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.MigrationRecord{})
	if result.Error != nil {
		return false, translate(result.Error)
	}
	return result.RowsAffected > 0, nil
}

func (r *migrationRepository) List(ctx context.Context, params ListParams) ([]models.MigrationRecord, error) {
	limit, offset := normalizePage(params.Page, params.PageSize)

	direction := strings.ToLower(params.OrderDirection)
	if direction != "asc" && direction != "desc" {
		direction = "desc"
	}

	var records []models.MigrationRecord
	if err := r.db.WithContext(ctx).
		Order("executed_at " + strings.ToUpper(direction)).
		Offset(offset).
		Limit(limit).
		Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

func (r *migrationRepository) GetLatest(ctx context.Context) (models.MigrationRecord, error) {
	var record models.MigrationRecord
	if err := r.db.WithContext(ctx).
		Order("executed_at DESC").
		First(&record).Error; err != nil {
		return models.MigrationRecord{}, translate(err)
	}
	return record, nil
}

func (r *migrationRepository) VerifyIntegrity(ctx context.Context, id string, fileContent []byte) (bool, error) {
	record, err := r.GetByID(ctx, id)
	if err != nil {
		return false, err
	}
	return record.Hash == HashMigrationContent(fileContent), nil
}
