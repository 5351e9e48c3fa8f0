package repository

import (
	"context"
	"crypto/md5"
	"encoding/binary"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/litepolis/litepolis-database-go/internal/models"
)

// CreateParticipantParams is the payload for ParticipantRepository.Create.
type CreateParticipantParams struct {
	ZID       int64 `validate:"required"`
	UID       int64 `validate:"required"`
	VoteCount int
	Mod       int
}

// UpdateParticipantParams carries a partial update; nil fields are left untouched.
type UpdateParticipantParams struct {
	VoteCount *int
	Mod       *int
}

// ParticipantRepository provides access to conversation participants. Each
// (zid, uid) pair maps to exactly one participant row.
type ParticipantRepository interface {
	Create(ctx context.Context, params CreateParticipantParams) (models.Participant, error)
	GetByPID(ctx context.Context, pid int64) (models.Participant, error)
	GetByZIDUID(ctx context.Context, zid, uid int64) (models.Participant, error)
	// GetOrCreate is the idempotent join: it returns the existing participant
	// for (zid, uid) or creates one with zeroed counters.
	GetOrCreate(ctx context.Context, zid, uid int64) (models.Participant, error)
	// GetOrCreateAnonymous maps a client token to a deterministic synthetic
	// negative uid, then joins with that uid. The same token always resolves to
	// the same participant within a conversation.
	GetOrCreateAnonymous(ctx context.Context, zid int64, token string) (models.Participant, error)
	ListByZID(ctx context.Context, zid int64, page, pageSize int) ([]models.Participant, error)
	Count(ctx context.Context, zid int64) (int64, error)
	Update(ctx context.Context, pid int64, params UpdateParticipantParams) (models.Participant, error)
	// IncrementVoteCount atomically bumps vote_count and modified.
	IncrementVoteCount(ctx context.Context, pid int64) (models.Participant, error)
	Delete(ctx context.Context, pid int64) (bool, error)
}

type participantRepository struct {
	db       *gorm.DB
	validate *validator.Validate
	logger   zerolog.Logger
}

// NewParticipantRepository constructs a GORM-backed participant repository.
func NewParticipantRepository(db *gorm.DB, validate *validator.Validate, logger zerolog.Logger) ParticipantRepository {
	return &participantRepository{db: db, validate: validate, logger: logger.With().Str("repository", "participants").Logger()}
}

// anonymousUID derives a negative uid from the first four bytes of the MD5 of
// the client token. Anonymous uids therefore never collide with positive
// authenticated uids, and a token always maps to the same uid.
func anonymousUID(token string) int64 {
	sum := md5.Sum([]byte(token))
	return -int64(binary.BigEndian.Uint32(sum[:4]))
}

func (r *participantRepository) Create(ctx context.Context, params CreateParticipantParams) (models.Participant, error) {
	if err := r.validate.Struct(params); err != nil {
		return models.Participant{}, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	participant := models.Participant{
		ZID:       params.ZID,
		UID:       params.UID,
		VoteCount: params.VoteCount,
		Mod:       params.Mod,
	}
	if err := r.db.WithContext(ctx).Create(&participant).Error; err != nil {
		err = translate(err)
		if errors.Is(err, ErrDuplicateKey) {
			r.logger.Warn().Int64("zid", params.ZID).Int64("uid", params.UID).Msg("participant already exists")
		}
		return models.Participant{}, err
	}
	return participant, nil
}

func (r *participantRepository) GetByPID(ctx context.Context, pid int64) (models.Participant, error) {
	var participant models.Participant
	if err := r.db.WithContext(ctx).First(&participant, pid).Error; err != nil {
		return models.Participant{}, translate(err)
	}
	return participant, nil
}

func (r *participantRepository) GetByZIDUID(ctx context.Context, zid, uid int64) (models.Participant, error) {
	var participant models.Participant
	if err := r.db.WithContext(ctx).
		Where("zid = ? AND uid = ?", zid, uid).
		First(&participant).Error; err != nil {
		return models.Participant{}, translate(err)
	}
	return participant, nil
}

func (r *participantRepository) GetOrCreate(ctx context.Context, zid, uid int64) (models.Participant, error) {
	participant, err := r.GetByZIDUID(ctx, zid, uid)
	if err == nil {
		return participant, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return models.Participant{}, err
	}

	participant, err = r.Create(ctx, CreateParticipantParams{ZID: zid, UID: uid})
	if errors.Is(err, ErrDuplicateKey) {
		// lost the race to a concurrent join; the row exists now
		return r.GetByZIDUID(ctx, zid, uid)
	}
	return participant, err
}

func (r *participantRepository) GetOrCreateAnonymous(ctx context.Context, zid int64, token string) (models.Participant, error) {
	if token == "" {
		return models.Participant{}, fmt.Errorf("%w: token is required", ErrValidation)
	}
	return r.GetOrCreate(ctx, zid, anonymousUID(token))
}

func (r *participantRepository) ListByZID(ctx context.Context, zid int64, page, pageSize int) ([]models.Participant, error) {
	limit, offset := normalizePage(page, pageSize)

	var participants []models.Participant
	if err := r.db.WithContext(ctx).
		Where("zid = ?", zid).
		Order("pid ASC").
		Offset(offset).
		Limit(limit).
		Find(&participants).Error; err != nil {
		return nil, err
	}
	return participants, nil
}

func (r *participantRepository) Count(ctx context.Context, zid int64) (int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).
		Model(&models.Participant{}).
		Where("zid = ?", zid).
		Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

func (r *participantRepository) Update(ctx context.Context, pid int64, params UpdateParticipantParams) (models.Participant, error) {
	updates := map[string]interface{}{"modified": time.Now().UTC()}
	if params.VoteCount != nil {
		updates["vote_count"] = *params.VoteCount
	}
	if params.Mod != nil {
		updates["mod"] = *params.Mod
	}

	result := r.db.WithContext(ctx).Model(&models.Participant{}).Where("pid = ?", pid).Updates(updates)
	if result.Error != nil {
		return models.Participant{}, translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return models.Participant{}, ErrNotFound
	}

	return r.GetByPID(ctx, pid)
}

func (r *participantRepository) IncrementVoteCount(ctx context.Context, pid int64) (models.Participant, error) {
	result := r.db.WithContext(ctx).Model(&models.Participant{}).Where("pid = ?", pid).Updates(map[string]interface{}{
		"vote_count": gorm.Expr("vote_count + 1"),
		"modified":   time.Now().UTC(),
	})
	if result.Error != nil {
		return models.Participant{}, translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return models.Participant{}, ErrNotFound
	}

	return r.GetByPID(ctx, pid)
}

func (r *participantRepository) Delete(ctx context.Context, pid int64) (bool, error) {
	result := r.db.WithContext(ctx).Delete(&models.Participant{}, pid)
	if result.Error != nil {
		return false, translate(result.Error)
	}
	return result.RowsAffected > 0, nil
}
