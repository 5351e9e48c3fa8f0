package repository

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/litepolis/litepolis-database-go/internal/models"
)

const (
	codeAlphabet      = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
	codeDigits        = "0123456789"
	zinviteCodeLength = 12
	einviteCodeLength = 16
	// attempts before giving up when a generated code collides with an
	// existing one
	codeRetryAttempts = 3
)

func randomChars(n int, alphabet string) string {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		panic(fmt.Sprintf("crypto/rand unavailable: %v", err))
	}
	out := make([]byte, n)
	for i, b := range buf {
		out[i] = alphabet[int(b)%len(alphabet)]
	}
	return string(out)
}

// generateZinviteCode produces a code matching ^[0-9][0-9A-Za-z]+$; the
// frontend router requires conversation codes to start with a digit.
func generateZinviteCode() string {
	return randomChars(1, codeDigits) + randomChars(zinviteCodeLength-1, codeAlphabet)
}

func generateEinviteCode() string {
	return randomChars(einviteCodeLength, codeAlphabet)
}

// CreateZinviteParams is the payload for ZinviteRepository.Create. An empty
// Code asks the repository to generate one.
type CreateZinviteParams struct {
	ZID  int64
	Code string
}

// ZinviteRepository manages conversation invite codes.
type ZinviteRepository interface {
	Create(ctx context.Context, params CreateZinviteParams) (models.Zinvite, error)
	GetByCode(ctx context.Context, code string) (models.Zinvite, error)
	// GetByZID returns the most recently created code for a conversation.
	GetByZID(ctx context.Context, zid int64) (models.Zinvite, error)
	// GetZIDByCode resolves an invite code to its conversation id.
	GetZIDByCode(ctx context.Context, code string) (int64, error)
	GetOrCreate(ctx context.Context, zid int64) (models.Zinvite, error)
	Delete(ctx context.Context, code string) (bool, error)
	DeleteAllForZID(ctx context.Context, zid int64) (int64, error)
}

type zinviteRepository struct {
	db     *gorm.DB
	logger zerolog.Logger
}

// NewZinviteRepository constructs a GORM-backed zinvite repository.
func NewZinviteRepository(db *gorm.DB, logger zerolog.Logger) ZinviteRepository {
	return &zinviteRepository{db: db, logger: logger.With().Str("repository", "zinvites").Logger()}
}

func (r *zinviteRepository) Create(ctx context.Context, params CreateZinviteParams) (models.Zinvite, error) {
	if params.ZID == 0 {
		return models.Zinvite{}, fmt.Errorf("%w: zid is required", ErrValidation)
	}

	// a caller-supplied code gets exactly one attempt; generated codes retry
	// on the off chance of a collision
	attempts := 1
	if params.Code == "" {
		attempts = codeRetryAttempts
	}

	var lastErr error
	for i := 0; i < attempts; i++ {
		code := params.Code
		if code == "" {
			code = generateZinviteCode()
		}

		zinvite := models.Zinvite{Code: code, ZID: params.ZID}
		err := translate(r.db.WithContext(ctx).Create(&zinvite).Error)
		if err == nil {
			return zinvite, nil
		}
		lastErr = err
		if !errors.Is(err, ErrDuplicateKey) {
			return models.Zinvite{}, err
		}
		r.logger.Warn().Str("code", code).Msg("zinvite code collision, regenerating")
	}
	return models.Zinvite{}, lastErr
}

func (r *zinviteRepository) GetByCode(ctx context.Context, code string) (models.Zinvite, error) {
	var zinvite models.Zinvite
	if err := r.db.WithContext(ctx).Where("zinvite = ?", code).First(&zinvite).Error; err != nil {
		return models.Zinvite{}, translate(err)
	}
	return zinvite, nil
}

func (r *zinviteRepository) GetByZID(ctx context.Context, zid int64) (models.Zinvite, error) {
	var zinvite models.Zinvite
	if err := r.db.WithContext(ctx).
		Where("zid = ?", zid).
		Order("created DESC").
		First(&zinvite).Error; err != nil {
		return models.Zinvite{}, translate(err)
	}
	return zinvite, nil
}

func (r *zinviteRepository) GetZIDByCode(ctx context.Context, code string) (int64, error) {
	zinvite, err := r.GetByCode(ctx, code)
	if err != nil {
		return 0, err
	}
	return zinvite.ZID, nil
}

func (r *zinviteRepository) GetOrCreate(ctx context.Context, zid int64) (models.Zinvite, error) {
	zinvite, err := r.GetByZID(ctx, zid)
	if err == nil {
		return zinvite, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return models.Zinvite{}, err
	}
	return r.Create(ctx, CreateZinviteParams{ZID: zid})
}

func (r *zinviteRepository) Delete(ctx context.Context, code string) (bool, error) {
	result := r.db.WithContext(ctx).Where("zinvite = ?", code).Delete(&models.Zinvite{})
	if result.Error != nil {
		return false, translate(result.Error)
	}
	return result.RowsAffected > 0, nil
}

func (r *zinviteRepository) DeleteAllForZID(ctx context.Context, zid int64) (int64, error) {
	result := r.db.WithContext(ctx).Where("zid = ?", zid).Delete(&models.Zinvite{})
	if result.Error != nil {
		return 0, translate(result.Error)
	}
	return result.RowsAffected, nil
}

// CreateEinviteParams is the payload for EinviteRepository.Create. An empty
// Code asks the repository to generate one.
type CreateEinviteParams struct {
	Email string
	Code  string
}

// EinviteRepository manages email invite codes.
type EinviteRepository interface {
	Create(ctx context.Context, params CreateEinviteParams) (models.Einvite, error)
	GetByCode(ctx context.Context, code string) (models.Einvite, error)
	// GetByEmail returns the most recently created code for an address.
	GetByEmail(ctx context.Context, email string) (models.Einvite, error)
	Delete(ctx context.Context, code string) (bool, error)
	DeleteAllForEmail(ctx context.Context, email string) (int64, error)
	// Validate reports whether the code exists and was issued to exactly this
	// email.
	Validate(ctx context.Context, code, email string) (bool, error)
}

type einviteRepository struct {
	db     *gorm.DB
	logger zerolog.Logger
}

// NewEinviteRepository constructs a GORM-backed einvite repository.
func NewEinviteRepository(db *gorm.DB, logger zerolog.Logger) EinviteRepository {
	return &einviteRepository{db: db, logger: logger.With().Str("repository", "einvites").Logger()}
}

func (r *einviteRepository) Create(ctx context.Context, params CreateEinviteParams) (models.Einvite, error) {
	if params.Email == "" {
		return models.Einvite{}, fmt.Errorf("%w: email is required", ErrValidation)
	}

	attempts := 1
	if params.Code == "" {
		attempts = codeRetryAttempts
	}

	var lastErr error
	for i := 0; i < attempts; i++ {
		code := params.Code
		if code == "" {
			code = generateEinviteCode()
		}

		einvite := models.Einvite{Code: code, Email: params.Email}
		err := translate(r.db.WithContext(ctx).Create(&einvite).Error)
		if err == nil {
			return einvite, nil
		}
		lastErr = err
		if !errors.Is(err, ErrDuplicateKey) {
			return models.Einvite{}, err
		}
		r.logger.Warn().Str("code", code).Msg("einvite code collision, regenerating")
	}
	return models.Einvite{}, lastErr
}

func (r *einviteRepository) GetByCode(ctx context.Context, code string) (models.Einvite, error) {
	var einvite models.Einvite
	if err := r.db.WithContext(ctx).Where("einvite = ?", code).First(&einvite).Error; err != nil {
		return models.Einvite{}, translate(err)
	}
	return einvite, nil
}

func (r *einviteRepository) GetByEmail(ctx context.Context, email string) (models.Einvite, error) {
	var einvite models.Einvite
	if err := r.db.WithContext(ctx).
		Where("email = ?", email).
		Order("created DESC").
		First(&einvite).Error; err != nil {
		return models.Einvite{}, translate(err)
	}
	return einvite, nil
}

func (r *einviteRepository) Delete(ctx context.Context, code string) (bool, error) {
	result := r.db.WithContext(ctx).Where("einvite = ?", code).Delete(&models.Einvite{})
	if result.Error != nil {
		return false, translate(result.Error)
	}
	return result.RowsAffected > 0, nil
}

func (r *einviteRepository) DeleteAllForEmail(ctx context.Context, email string) (int64, error) {
	result := r.db.WithContext(ctx).Where("email = ?", email).Delete(&models.Einvite{})
	if result.Error != nil {
		return 0, translate(result.Error)
	}
	return result.RowsAffected, nil
}

func (r *einviteRepository) Validate(ctx context.Context, code, email string) (bool, error) {
	einvite, err := r.GetByCode(ctx, code)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return einvite.Email == email, nil
}
