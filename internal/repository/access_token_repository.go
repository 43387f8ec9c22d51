package repository

import (
	"context"
	"time"

	"github.com/lshigami/quizgate/internal/model"
	"gorm.io/gorm"
)

type AccessTokenRepository interface {
	WithTx(tx *gorm.DB) AccessTokenRepository
	Create(ctx context.Context, token *model.TestAccessToken) error
	FindByToken(ctx context.Context, token string) (*model.TestAccessToken, error)
	// FindReusable returns the newest unused, unexpired token for the pair or
	// gorm.ErrRecordNotFound.
	FindReusable(ctx context.Context, candidateEmail string, testID uint, now time.Time) (*model.TestAccessToken, error)
	FindByTestID(ctx context.Context, testID uint) ([]model.TestAccessToken, error)
	// MarkUsed flips is_used only while the token is unused and unexpired.
	// It reports whether this call performed the transition.
	MarkUsed(ctx context.Context, token string, attemptID *uint, now time.Time) (bool, error)
}

type accessTokenRepository struct {
	db *gorm.DB
}

func NewAccessTokenRepository(db *gorm.DB) AccessTokenRepository {
	return &accessTokenRepository{db: db}
}

func (r *accessTokenRepository) WithTx(tx *gorm.DB) AccessTokenRepository {
	return &accessTokenRepository{db: tx}
}

func (r *accessTokenRepository) Create(ctx context.Context, token *model.TestAccessToken) error {
	return r.db.WithContext(ctx).Create(token).Error
}

func (r *accessTokenRepository) FindByToken(ctx context.Context, token string) (*model.TestAccessToken, error) {
	var t model.TestAccessToken
	if err := r.db.WithContext(ctx).Where("token = ?", token).First(&t).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *accessTokenRepository) FindReusable(ctx context.Context, candidateEmail string, testID uint, now time.Time) (*model.TestAccessToken, error) {
	var t model.TestAccessToken
	err := r.db.WithContext(ctx).
		Where("candidate_email = ? AND test_id = ? AND is_used = ? AND expiration_time > ?", candidateEmail, testID, false, now).
		Order("expiration_time DESC").
		First(&t).Error
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *accessTokenRepository) FindByTestID(ctx context.Context, testID uint) ([]model.TestAccessToken, error) {
	var tokens []model.TestAccessToken
	err := r.db.WithContext(ctx).Where("test_id = ?", testID).Order("id DESC").Find(&tokens).Error
	return tokens, err
}

func (r *accessTokenRepository) MarkUsed(ctx context.Context, token string, attemptID *uint, now time.Time) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.TestAccessToken{}).
		Where("token = ? AND is_used = ? AND expiration_time > ?", token, false, now).
		Updates(map[string]interface{}{
			"is_used":    true,
			"attempt_id": attemptID,
			"updated_at": now,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}
