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

var commentSortColumns = map[string]bool{
	"id":       true,
	"created":  true,
	"modified": true,
}

// CreateCommentParams is the payload for CommentRepository.Create.
type CreateCommentParams struct {
	Text            string `validate:"required"`
	UserID          *int64
	ConversationID  *int64
	ParentCommentID *int64
}

// UpdateCommentParams carries a partial update; nil fields are left untouched.
type UpdateCommentParams struct {
	Text            *string `validate:"omitempty,min=1"`
	ConversationID  *int64
	ParentCommentID *int64
}

// CommentRepository provides access to comments and their reply threads.
type CommentRepository interface {
	Create(ctx context.Context, params CreateCommentParams) (models.Comment, error)
	GetByID(ctx context.Context, id int64) (models.Comment, error)
	ListByConversationID(ctx context.Context, conversationID int64, params ListParams) ([]models.Comment, error)
	ListByUserID(ctx context.Context, userID int64, page, pageSize int) ([]models.Comment, error)
	// ListReplies pages the direct replies of a comment. Reply sets are never
	// expanded recursively; callers page each level explicitly.
	ListReplies(ctx context.Context, parentCommentID int64, page, pageSize int) ([]models.Comment, error)
	Update(ctx context.Context, id int64, params UpdateCommentParams) (models.Comment, error)
	Delete(ctx context.Context, id int64) (bool, error)
	Search(ctx context.Context, query string) ([]models.Comment, error)
	ListCreatedInRange(ctx context.Context, start, end time.Time) ([]models.Comment, error)
	CountInConversation(ctx context.Context, conversationID int64) (int64, error)
}

type commentRepository struct {
	db       *gorm.DB
	validate *validator.Validate
	logger   zerolog.Logger
}

// NewCommentRepository constructs a GORM-backed comment repository.
func NewCommentRepository(db *gorm.DB, validate *validator.Validate, logger zerolog.Logger) CommentRepository {
	return &commentRepository{db: db, validate: validate, logger: logger.With().Str("repository", "comments").Logger()}
}

func (r *commentRepository) Create(ctx context.Context, params CreateCommentParams) (models.Comment, error) {
	if err := r.validate.Struct(params); err != nil {
		return models.Comment{}, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	comment := models.Comment{
		Text:            params.Text,
		UserID:          params.UserID,
		ConversationID:  params.ConversationID,
		ParentCommentID: params.ParentCommentID,
	}
	if err := r.db.WithContext(ctx).Create(&comment).Error; err != nil {
		return models.Comment{}, translate(err)
	}
	return comment, nil
}

func (r *commentRepository) GetByID(ctx context.Context, id int64) (models.Comment, error) {
	var comment models.Comment
	if err := r.db.WithContext(ctx).First(&comment, id).Error; err != nil {
		return models.Comment{}, translate(err)
	}
	return comment, nil
}

func (r *commentRepository) ListByConversationID(ctx context.Context, conversationID int64, params ListParams) ([]models.Comment, error) {
	limit, offset := normalizePage(params.Page, params.PageSize)

	var comments []models.Comment
	if err := r.db.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Order(orderClause(params.OrderBy, params.OrderDirection, "created", "asc", commentSortColumns)).
		Offset(offset).
		Limit(limit).
		Find(&comments).Error; err != nil {
		return nil, err
	}
	return comments, nil
}

func (r *commentRepository) ListByUserID(ctx context.Context, userID int64, page, pageSize int) ([]models.Comment, error) {
	limit, offset := normalizePage(page, pageSize)

	var comments []models.Comment
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created ASC").
		Offset(offset).
		Limit(limit).
		Find(&comments).Error; err != nil {
		return nil, err
	}
	return comments, nil
}

func (r *commentRepository) ListReplies(ctx context.Context, parentCommentID int64, page, pageSize int) ([]models.Comment, error) {
	limit, offset := normalizePage(page, pageSize)

	var replies []models.Comment
	if err := r.db.WithContext(ctx).
		Where("parent_comment_id = ?", parentCommentID).
		Order("created ASC").
		Offset(offset).
		Limit(limit).
		Find(&replies).Error; err != nil {
		return nil, err
	}
	return replies, nil
}

func (r *commentRepository) Update(ctx context.Context, id int64, params UpdateCommentParams) (models.Comment, error) {
	if err := r.validate.Struct(params); err != nil {
		return models.Comment{}, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	updates := map[string]interface{}{"modified": time.Now().UTC()}
	if params.Text != nil {
		updates["text"] = *params.Text
	}
	if params.ConversationID != nil {
		updates["conversation_id"] = *params.ConversationID
	}
	if params.ParentCommentID != nil {
		updates["parent_comment_id"] = *params.ParentCommentID
	}

	result := r.db.WithContext(ctx).Model(&models.Comment{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return models.Comment{}, translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return models.Comment{}, ErrNotFound
	}

	return r.GetByID(ctx, id)
}

func (r *commentRepository) Delete(ctx context.Context, id int64) (bool, error) {
	result := r.db.WithContext(ctx).Delete(&models.Comment{}, id)
	if result.Error != nil {
		return false, translate(result.Error)
	}
	return result.RowsAffected > 0, nil
}

func (r *commentRepository) Search(ctx context.Context, query string) ([]models.Comment, error) {
	var comments []models.Comment
	if err := r.db.WithContext(ctx).
		Where("text LIKE ?", "%"+query+"%").
		Find(&comments).Error; err != nil {
		return nil, err
	}
	return comments, nil
}

func (r *commentRepository) ListCreatedInRange(ctx context.Context, start, end time.Time) ([]models.Comment, error) {
	var comments []models.Comment
	if err := r.db.WithContext(ctx).
		Where("created >= ? AND created <= ?", start, end).
		Find(&comments).Error; err != nil {
		return nil, err
	}
	return comments, nil
}

func (r *commentRepository) CountInConversation(ctx context.Context, conversationID int64) (int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).
		Model(&models.Comment{}).
		Where("conversation_id = ?", conversationID).
		Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}
