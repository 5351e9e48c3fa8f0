package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/litepolis/litepolis-database-go/internal/models"
)

var voteSortColumns = map[string]bool{
	"id":       true,
	"value":    true,
	"created":  true,
	"modified": true,
}

// CreateVoteParams is the payload for VoteRepository.Create. Value uses
// -1/0/1 semantics: disagree, pass, agree.
type CreateVoteParams struct {
	Value     int `validate:"min=-1,max=1"`
	UserID    *int64
	CommentID *int64
}

// UpdateVoteParams carries a partial update; nil fields are left untouched.
type UpdateVoteParams struct {
	Value *int `validate:"omitempty,min=-1,max=1"`
}

// VoteRepository provides access to votes. A user holds at most one vote per
// comment; "changing a vote" means updating the row found via GetByUserComment.
type VoteRepository interface {
	Create(ctx context.Context, params CreateVoteParams) (models.Vote, error)
	GetByID(ctx context.Context, id int64) (models.Vote, error)
	GetByUserComment(ctx context.Context, userID, commentID int64) (models.Vote, error)
	ListByCommentID(ctx context.Context, commentID int64, params ListParams) ([]models.Vote, error)
	ListByUserID(ctx context.Context, userID int64, page, pageSize int) ([]models.Vote, error)
	Update(ctx context.Context, id int64, params UpdateVoteParams) (models.Vote, error)
	Delete(ctx context.Context, id int64) (bool, error)
	ListCreatedInRange(ctx context.Context, start, end time.Time) ([]models.Vote, error)
	CountForComment(ctx context.Context, commentID int64) (int64, error)
	// GetValueDistributionForComment maps each distinct vote value present on
	// the comment to its count; values never cast are simply absent.
	GetValueDistributionForComment(ctx context.Context, commentID int64) (map[int]int64, error)
}

type voteRepository struct {
	db       *gorm.DB
	validate *validator.Validate
	logger   zerolog.Logger
}

// NewVoteRepository constructs a GORM-backed vote repository.
func NewVoteRepository(db *gorm.DB, validate *validator.Validate, logger zerolog.Logger) VoteRepository {
	return &voteRepository{db: db, validate: validate, logger: logger.With().Str("repository", "votes").Logger()}
}

func (r *voteRepository) Create(ctx context.Context, params CreateVoteParams) (models.Vote, error) {
	if err := r.validate.Struct(params); err != nil {
		return models.Vote{}, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	vote := models.Vote{
		Value:     params.Value,
		UserID:    params.UserID,
		CommentID: params.CommentID,
	}
	if err := r.db.WithContext(ctx).Create(&vote).Error; err != nil {
		err = translate(err)
		if errors.Is(err, ErrDuplicateKey) {
			r.logger.Warn().
				Interface("user_id", params.UserID).
				Interface("comment_id", params.CommentID).
				Msg("vote already exists for user and comment")
		}
		return models.Vote{}, err
	}
	return vote, nil
}

func (r *voteRepository) GetByID(ctx context.Context, id int64) (models.Vote, error) {
	var vote models.Vote
	if err := r.db.WithContext(ctx).First(&vote, id).Error; err != nil {
		return models.Vote{}, translate(err)
	}
	return vote, nil
}

func (r *voteRepository) GetByUserComment(ctx context.Context, userID, commentID int64) (models.Vote, error) {
	var vote models.Vote
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND comment_id = ?", userID, commentID).
		First(&vote).Error; err != nil {
		return models.Vote{}, translate(err)
	}
	return vote, nil
}

func (r *voteRepository) ListByCommentID(ctx context.Context, commentID int64, params ListParams) ([]models.Vote, error) {
	limit, offset := normalizePage(params.Page, params.PageSize)

	var votes []models.Vote
	if err := r.db.WithContext(ctx).
		Where("comment_id = ?", commentID).
		Order(orderClause(params.OrderBy, params.OrderDirection, "created", "asc", voteSortColumns)).
		Offset(offset).
		Limit(limit).
		Find(&votes).Error; err != nil {
		return nil, err
	}
	return votes, nil
}

func (r *voteRepository) ListByUserID(ctx context.Context, userID int64, page, pageSize int) ([]models.Vote, error) {
	limit, offset := normalizePage(page, pageSize)

	var votes []models.Vote
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created ASC").
		Offset(offset).
		Limit(limit).
		Find(&votes).Error; err != nil {
		return nil, err
	}
	return votes, nil
}

func (r *voteRepository) Update(ctx context.Context, id int64, params UpdateVoteParams) (models.Vote, error) {
	if err := r.validate.Struct(params); err != nil {
		return models.Vote{}, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	updates := map[string]interface{}{"modified": time.Now().UTC()}
	if params.Value != nil {
		updates["value"] = *params.Value
	}

	result := r.db.WithContext(ctx).Model(&models.Vote{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return models.Vote{}, translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return models.Vote{}, ErrNotFound
	}

	return r.GetByID(ctx, id)
}

func (r *voteRepository) Delete(ctx context.Context, id int64) (bool, error) {
	result := r.db.WithContext(ctx).Delete(&models.Vote{}, id)
	if result.Error != nil {
		return false, translate(result.Error)
	}
	return result.RowsAffected > 0, nil
}

func (r *voteRepository) ListCreatedInRange(ctx context.Context, start, end time.Time) ([]models.Vote, error) {
	var votes []models.Vote
	if err := r.db.WithContext(ctx).
		Where("created >= ? AND created <= ?", start, end).
		Find(&votes).Error; err != nil {
		return nil, err
	}
	return votes, nil
}

func (r *voteRepository) CountForComment(ctx context.Context, commentID int64) (int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).
		Model(&models.Vote{}).
		Where("comment_id = ?", commentID).
		Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

func (r *voteRepository) GetValueDistributionForComment(ctx context.Context, commentID int64) (map[int]int64, error) {
	var rows []struct {
		Value int
		Count int64
	}
	if err := r.db.WithContext(ctx).
		Model(&models.Vote{}).
		Select("value, COUNT(*) AS count").
		Where("comment_id = ?", commentID).
		Group("value").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	distribution := make(map[int]int64, len(rows))
	for _, row := range rows {
		distribution[row.Value] = row.Count
	}
	return distribution, nil
}
