package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/utkandevrim/ac/internal/model"
)

// QRTokenRepository redemption token data access.
type QRTokenRepository interface {
	Create(ctx context.Context, t *model.QRToken) error
	GetByToken(ctx context.Context, token string) (*model.QRToken, error)
	// Consume marks the token used only if it is still unused and has not
	// expired at at. It reports false when either condition fails.
	Consume(ctx context.Context, id string, at time.Time) (bool, error)
}

type qrTokenRepo struct {
	db *gorm.DB
}

// NewQRTokenRepo builds the gorm QRTokenRepository.
func NewQRTokenRepo(db *gorm.DB) QRTokenRepository {
	return &qrTokenRepo{db: db}
}

func (r *qrTokenRepo) Create(ctx context.Context, t *model.QRToken) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *qrTokenRepo) GetByToken(ctx context.Context, token string) (*model.QRToken, error) {
	var t model.QRToken
	if err := r.db.WithContext(ctx).Where("token = ?", token).First(&t).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *qrTokenRepo) Consume(ctx context.Context, id string, at time.Time) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&model.QRToken{}).
		Where("id = ? AND is_used = ? AND expires_at >= ?", id, false, at).
		Updates(map[string]interface{}{
			"is_used": true,
			"used_at": at,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}
