package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/litepolis/litepolis-database-go/internal/models"
)

var conversationSortColumns = map[string]bool{
	"id":          true,
	"title":       true,
	"created":     true,
	"modified":    true,
	"is_archived": true,
}

// CreateConversationParams is the payload for ConversationRepository.Create.
type CreateConversationParams struct {
	Title       string `validate:"required"`
	Description string
	UserID      *int64
	Metadata    map[string]interface{}
}

// UpdateConversationParams carries a partial update; nil fields are left untouched.
type UpdateConversationParams struct {
	Title       *string `validate:"omitempty,min=1"`
	Description *string
	IsArchived  *bool
	Metadata    map[string]interface{}
}

// ConversationFilter selects and orders a page of conversations. UserID
// restricts the listing to one owner when set.
type ConversationFilter struct {
	ListParams
	UserID *int64
}

// ConversationRepository provides access to conversations.
type ConversationRepository interface {
	Create(ctx context.Context, params CreateConversationParams) (models.Conversation, error)
	GetByID(ctx context.Context, id int64) (models.Conversation, error)
	List(ctx context.Context, filter ConversationFilter) ([]models.Conversation, error)
	Update(ctx context.Context, id int64, params UpdateConversationParams) (models.Conversation, error)
	Delete(ctx context.Context, id int64) (bool, error)
	Search(ctx context.Context, query string) ([]models.Conversation, error)
	ListByArchivedStatus(ctx context.Context, isArchived bool) ([]models.Conversation, error)
	ListCreatedInRange(ctx context.Context, start, end time.Time) ([]models.Conversation, error)
	Count(ctx context.Context) (int64, error)
	Archive(ctx context.Context, id int64) (models.Conversation, error)
}

type conversationRepository struct {
	db       *gorm.DB
	validate *validator.Validate
	logger   zerolog.Logger
}

// NewConversationRepository constructs a GORM-backed conversation repository.
func NewConversationRepository(db *gorm.DB, validate *validator.Validate, logger zerolog.Logger) ConversationRepository {
	return &conversationRepository{db: db, validate: validate, logger: logger.With().Str("repository", "conversations").Logger()}
}

func (r *conversationRepository) Create(ctx context.Context, params CreateConversationParams) (models.Conversation, error) {
	if err := r.validate.Struct(params); err != nil {
		return models.Conversation{}, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	conversation := models.Conversation{
		Title:       params.Title,
		Description: params.Description,
		UserID:      params.UserID,
		Metadata:    datatypes.JSONMap(params.Metadata),
	}
	if err := r.db.WithContext(ctx).Create(&conversation).Error; err != nil {
		return models.Conversation{}, translate(err)
	}
	return conversation, nil
}

func (r *conversationRepository) GetByID(ctx context.Context, id int64) (models.Conversation, error) {
	var conversation models.Conversation
	if err := r.db.WithContext(ctx).First(&conversation, id).Error; err != nil {
		return models.Conversation{}, translate(err)
	}
	return conversation, nil
}

func (r *conversationRepository) List(ctx context.Context, filter ConversationFilter) ([]models.Conversation, error) {
	limit, offset := normalizePage(filter.Page, filter.PageSize)

	query := r.db.WithContext(ctx).Model(&models.Conversation{})
	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}

	var conversations []models.Conversation
	if err := query.
		Order(orderClause(filter.OrderBy, filter.OrderDirection, "created", "desc", conversationSortColumns)).
		Offset(offset).
		Limit(limit).
		Find(&conversations).Error; err != nil {
		return nil, err
	}
	return conversations, nil
}

func (r *conversationRepository) Update(ctx context.Context, id int64, params UpdateConversationParams) (models.Conversation, error) {
	if err := r.validate.Struct(params); err != nil {
		return models.Conversation{}, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	updates := map[string]interface{}{"modified": time.Now().UTC()}
	if params.Title != nil {
		updates["title"] = *params.Title
	}
	if params.Description != nil {
		updates["description"] = *params.Description
	}
	if params.IsArchived != nil {
		updates["is_archived"] = *params.IsArchived
	}
	if params.Metadata != nil {
		updates["metadata"] = datatypes.JSONMap(params.Metadata)
	}

	result := r.db.WithContext(ctx).Model(&models.Conversation{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return models.Conversation{}, translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return models.Conversation{}, ErrNotFound
	}

	return r.GetByID(ctx, id)
}

func (r *conversationRepository) Delete(ctx context.Context, id int64) (bool, error) {
	result := r.db.WithContext(ctx).Delete(&models.Conversation{}, id)
	if result.Error != nil {
		return false, translate(result.Error)
	}
	return result.RowsAffected > 0, nil
}

func (r *conversationRepository) Search(ctx context.Context, query string) ([]models.Conversation, error) {
	like := "%" + query + "%"

	var conversations []models.Conversation
	if err := r.db.WithContext(ctx).
		Where("title LIKE ? OR description LIKE ?", like, like).
		Find(&conversations).Error; err != nil {
		return nil, err
	}
	return conversations, nil
}

func (r *conversationRepository) ListByArchivedStatus(ctx context.Context, isArchived bool) ([]models.Conversation, error) {
	var conversations []models.Conversation
	if err := r.db.WithContext(ctx).
		Where("is_archived = ?", isArchived).
		Find(&conversations).Error; err != nil {
		return nil, err
	}
	return conversations, nil
}

func (r *conversationRepository) ListCreatedInRange(ctx context.Context, start, end time.Time) ([]models.Conversation, error) {
	var conversations []models.Conversation
	if err := r.db.WithContext(ctx).
		Where("created >= ? AND created <= ?", start, end).
		Find(&conversations).Error; err != nil {
		return nil, err
	}
	return conversations, nil
}

func (r *conversationRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Conversation{}).Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

func (r *conversationRepository) Archive(ctx context.Context, id int64) (models.Conversation, error) {
	archived := true
	return r.Update(ctx, id, UpdateConversationParams{IsArchived: &archived})
}
