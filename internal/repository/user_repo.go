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

// CreateUserParams is the payload for UserRepository.Create.
type CreateUserParams struct {
	Email     string `validate:"required,email"`
	AuthToken string `validate:"required"`
	IsAdmin   bool
}

// UpdateUserParams carries a partial update; nil fields are left untouched.
type UpdateUserParams struct {
	Email     *string `validate:"omitempty,email"`
	AuthToken *string `validate:"omitempty,min=1"`
	IsAdmin   *bool
}

// UserRepository provides access to user accounts.
type UserRepository interface {
	Create(ctx context.Context, params CreateUserParams) (models.User, error)
	GetByID(ctx context.Context, id int64) (models.User, error)
	GetByEmail(ctx context.Context, email string) (models.User, error)
	List(ctx context.Context, page, pageSize int) ([]models.User, error)
	Update(ctx context.Context, id int64, params UpdateUserParams) (models.User, error)
	Delete(ctx context.Context, id int64) (bool, error)
	SearchByEmail(ctx context.Context, query string) ([]models.User, error)
	ListByAdminStatus(ctx context.Context, isAdmin bool) ([]models.User, error)
	ListCreatedInRange(ctx context.Context, start, end time.Time) ([]models.User, error)
	Count(ctx context.Context) (int64, error)
}

type userRepository struct {
	db       *gorm.DB
	validate *validator.Validate
	logger   zerolog.Logger
}

// NewUserRepository constructs a GORM-backed user repository.
func NewUserRepository(db *gorm.DB, validate *validator.Validate, logger zerolog.Logger) UserRepository {
	return &userRepository{db: db, validate: validate, logger: logger.With().Str("repository", "users").Logger()}
}

func (r *userRepository) Create(ctx context.Context, params CreateUserParams) (models.User, error) {
	if err := r.validate.Struct(params); err != nil {
		return models.User{}, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	user := models.User{
		Email:     params.Email,
		AuthToken: params.AuthToken,
		IsAdmin:   params.IsAdmin,
	}
	if err := r.db.WithContext(ctx).Create(&user).Error; err != nil {
		err = translate(err)
		if errors.Is(err, ErrDuplicateKey) {
			r.logger.Warn().Str("email", params.Email).Msg("email already registered")
		}
		return models.User{}, err
	}

	return user, nil
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return models.User{}, translate(err)
	}
	return user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return models.User{}, translate(err)
	}
	return user, nil
}

func (r *userRepository) List(ctx context.Context, page, pageSize int) ([]models.User, error) {
	limit, offset := normalizePage(page, pageSize)

	var users []models.User
	if err := r.db.WithContext(ctx).
		Order("id ASC").
		Offset(offset).
		Limit(limit).
		Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (r *userRepository) Update(ctx context.Context, id int64, params UpdateUserParams) (models.User, error) {
	if err := r.validate.Struct(params); err != nil {
		return models.User{}, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	updates := map[string]interface{}{"modified": time.Now().UTC()}
	if params.Email != nil {
		updates["email"] = *params.Email
	}
	if params.AuthToken != nil {
		updates["auth_token"] = *params.AuthToken
	}
	if params.IsAdmin != nil {
		updates["is_admin"] = *params.IsAdmin
	}

	result := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return models.User{}, translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return models.User{}, ErrNotFound
	}

	return r.GetByID(ctx, id)
}

func (r *userRepository) Delete(ctx context.Context, id int64) (bool, error) {
	result := r.db.WithContext(ctx).Delete(&models.User{}, id)
	if result.Error != nil {
		return false, translate(result.Error)
	}
	return result.RowsAffected > 0, nil
}

func (r *userRepository) SearchByEmail(ctx context.Context, query string) ([]models.User, error) {
	var users []models.User
	if err := r.db.WithContext(ctx).
		Where("email LIKE ?", "%"+query+"%").
		Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (r *userRepository) ListByAdminStatus(ctx context.Context, isAdmin bool) ([]models.User, error) {
	var users []models.User
	if err := r.db.WithContext(ctx).
		Where("is_admin = ?", isAdmin).
		Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (r *userRepository) ListCreatedInRange(ctx context.Context, start, end time.Time) ([]models.User, error) {
	var users []models.User
	if err := r.db.WithContext(ctx).
		Where("created >= ? AND created <= ?", start, end).
		Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (r *userRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.User{}).Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}
