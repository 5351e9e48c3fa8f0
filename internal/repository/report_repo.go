package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/litepolis/litepolis-database-go/internal/models"
)

var reportSortColumns = map[string]bool{
	"id":       true,
	"status":   true,
	"created":  true,
	"modified": true,
}

// CreateReportParams is the payload for ReportRepository.Create. An empty
// Status defaults to pending; anything outside the enum is rejected.
type CreateReportParams struct {
	ReporterID      *int64
	TargetCommentID *int64
	Reason          string `validate:"required"`
	Status          models.ReportStatus
}

// UpdateReportParams carries a partial update; nil fields are left untouched.
type UpdateReportParams struct {
	Reason          *string `validate:"omitempty,min=1"`
	Status          *models.ReportStatus
	ResolutionNotes *string
}

// ReportRepository provides access to moderation reports.
type ReportRepository interface {
	Create(ctx context.Context, params CreateReportParams) (models.Report, error)
	GetByID(ctx context.Context, id int64) (models.Report, error)
	ListByStatus(ctx context.Context, status models.ReportStatus, params ListParams) ([]models.Report, error)
	ListByReporterID(ctx context.Context, reporterID int64, page, pageSize int) ([]models.Report, error)
	Update(ctx context.Context, id int64, params UpdateReportParams) (models.Report, error)
	Delete(ctx context.Context, id int64) (bool, error)
	SearchByReason(ctx context.Context, query string) ([]models.Report, error)
	ListCreatedInRange(ctx context.Context, start, end time.Time) ([]models.Report, error)
	CountByStatus(ctx context.Context, status models.ReportStatus) (int64, error)
	// Resolve marks the report resolved, stamps resolved_at and stores the
	// notes. The data model does not guard re-transitioning a terminal report;
	// callers own that rule.
	Resolve(ctx context.Context, id int64, resolutionNotes string) (models.Report, error)
	// Escalate marks the report escalated; otherwise identical to Resolve.
	Escalate(ctx context.Context, id int64, resolutionNotes string) (models.Report, error)
}

type reportRepository struct {
	db       *gorm.DB
	validate *validator.Validate
	logger   zerolog.Logger
}

// NewReportRepository constructs a GORM-backed report repository.
func NewReportRepository(db *gorm.DB, validate *validator.Validate, logger zerolog.Logger) ReportRepository {
	return &reportRepository{db: db, validate: validate, logger: logger.With().Str("repository", "reports").Logger()}
}

func (r *reportRepository) Create(ctx context.Context, params CreateReportParams) (models.Report, error) {
	if err := r.validate.Struct(params); err != nil {
		return models.Report{}, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	status := params.Status
	if status == "" {
		status = models.ReportStatusPending
	}
	if !status.Valid() {
		return models.Report{}, fmt.Errorf("%w: unknown report status %q", ErrValidation, status)
	}

	report := models.Report{
		ReporterID:      params.ReporterID,
		TargetCommentID: params.TargetCommentID,
		Reason:          params.Reason,
		Status:          status,
	}
	if err := r.db.WithContext(ctx).Create(&report).Error; err != nil {
		return models.Report{}, translate(err)
	}
	return report, nil
}

func (r *reportRepository) GetByID(ctx context.Context, id int64) (models.Report, error) {
	var report models.Report
	if err := r.db.WithContext(ctx).First(&report, id).Error; err != nil {
		return models.Report{}, translate(err)
	}
	return report, nil
}

func (r *reportRepository) ListByStatus(ctx context.Context, status models.ReportStatus, params ListParams) ([]models.Report, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: unknown report status %q", ErrValidation, status)
	}
	limit, offset := normalizePage(params.Page, params.PageSize)

	var reports []models.Report
	if err := r.db.WithContext(ctx).
		Where("status = ?", status).
		Order(orderClause(params.OrderBy, params.OrderDirection, "created", "desc", reportSortColumns)).
		Offset(offset).
		Limit(limit).
		Find(&reports).Error; err != nil {
		return nil, err
	}
	return reports, nil
}

func (r *reportRepository) ListByReporterID(ctx context.Context, reporterID int64, page, pageSize int) ([]models.Report, error) {
	limit, offset := normalizePage(page, pageSize)

	var reports []models.Report
	if err := r.db.WithContext(ctx).
		Where("reporter_id = ?", reporterID).
		Order("created DESC").
		Offset(offset).
		Limit(limit).
		Find(&reports).Error; err != nil {
		return nil, err
	}
	return reports, nil
}

func (r *reportRepository) Update(ctx context.Context, id int64, params UpdateReportParams) (models.Report, error) {
	if err := r.validate.Struct(params); err != nil {
		return models.Report{}, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	updates := map[string]interface{}{"modified": time.Now().UTC()}
	if params.Reason != nil {
		updates["reason"] = *params.Reason
	}
	if params.Status != nil {
		if !params.Status.Valid() {
			return models.Report{}, fmt.Errorf("%w: unknown report status %q", ErrValidation, *params.Status)
		}
		updates["status"] = *params.Status
	}
	if params.ResolutionNotes != nil {
		updates["resolution_notes"] = *params.ResolutionNotes
	}

	result := r.db.WithContext(ctx).Model(&models.Report{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return models.Report{}, translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return models.Report{}, ErrNotFound
	}

	return r.GetByID(ctx, id)
}

func (r *reportRepository) Delete(ctx context.Context, id int64) (bool, error) {
	result := r.db.WithContext(ctx).Delete(&models.Report{}, id)
	if result.Error != nil {
		return false, translate(result.Error)
	}
	return result.RowsAffected > 0, nil
}

func (r *reportRepository) SearchByReason(ctx context.Context, query string) ([]models.Report, error) {
	var reports []models.Report
	if err := r.db.WithContext(ctx).
		Where("reason LIKE ?", "%"+query+"%").
		Find(&reports).Error; err != nil {
		return nil, err
	}
	return reports, nil
}

func (r *reportRepository) ListCreatedInRange(ctx context.Context, start, end time.Time) ([]models.Report, error) {
	var reports []models.Report
	if err := r.db.WithContext(ctx).
		Where("created >= ? AND created <= ?", start, end).
		Find(&reports).Error; err != nil {
		return nil, err
	}
	return reports, nil
}

func (r *reportRepository) CountByStatus(ctx context.Context, status models.ReportStatus) (int64, error) {
	if !status.Valid() {
		return 0, fmt.Errorf("%w: unknown report status %q", ErrValidation, status)
	}

	var total int64
	if err := r.db.WithContext(ctx).
		Model(&models.Report{}).
		Where("status = ?", status).
		Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

func (r *reportRepository) Resolve(ctx context.Context, id int64, resolutionNotes string) (models.Report, error) {
	return r.close(ctx, id, models.ReportStatusResolved, resolutionNotes)
}

func (r *reportRepository) Escalate(ctx context.Context, id int64, resolutionNotes string) (models.Report, error) {
	return r.close(ctx, id, models.ReportStatusEscalated, resolutionNotes)
}

func (r *reportRepository) close(ctx context.Context, id int64, status models.ReportStatus, resolutionNotes string) (models.Report, error) {
	now := time.Now().UTC()
	result := r.db.WithContext(ctx).Model(&models.Report{}).Where("id = ?", id).Updates(map[string]interface{}{
		"status":           status,
		"resolved_at":      now,
		"resolution_notes": resolutionNotes,
		"modified":         now,
	})
	if result.Error != nil {
		return models.Report{}, translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return models.Report{}, ErrNotFound
	}

	return r.GetByID(ctx, id)
}
