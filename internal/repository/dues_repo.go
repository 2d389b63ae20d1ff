package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/utkandevrim/ac/internal/model"
)

// DuesRepository dues ledger data access.
type DuesRepository interface {
	CreateBatch(ctx context.Context, records []model.Dues) error
	// EnsureBatch inserts records, skipping any (user_id, month, year) that
	// already exists. Returns the number inserted.
	EnsureBatch(ctx context.Context, records []model.Dues) (int64, error)
	GetByID(ctx context.Context, id string) (*model.Dues, error)
	ListByUser(ctx context.Context, userID string) ([]model.Dues, error)
	ListByYear(ctx context.Context, year int) ([]model.Dues, error)
	SetPaid(ctx context.Context, id string, paid bool, at *time.Time) error
	DeleteByUser(ctx context.Context, userID string) error
}

type duesRepo struct {
	db *gorm.DB
}

// NewDuesRepo builds the gorm DuesRepository.
func NewDuesRepo(db *gorm.DB) DuesRepository {
	return &duesRepo{db: db}
}

func (r *duesRepo) CreateBatch(ctx context.Context, records []model.Dues) error {
	if len(records) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&records).Error
}

func (r *duesRepo) EnsureBatch(ctx context.Context, records []model.Dues) (int64, error) {
	if len(records) == 0 {
		return 0, nil
	}
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "month"}, {Name: "year"}},
			DoNothing: true,
		}).
		Create(&records)
	return res.RowsAffected, res.Error
}

func (r *duesRepo) GetByID(ctx context.Context, id string) (*model.Dues, error) {
	if !isUUID(id) {
		return nil, gorm.ErrRecordNotFound
	}
	var d model.Dues
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&d).Error; err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *duesRepo) ListByUser(ctx context.Context, userID string) ([]model.Dues, error) {
	if !isUUID(userID) {
		return nil, nil
	}
	var records []model.Dues
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("year ASC, created_at ASC").
		Find(&records).Error
	return records, err
}

func (r *duesRepo) ListByYear(ctx context.Context, year int) ([]model.Dues, error) {
	var records []model.Dues
	err := r.db.WithContext(ctx).
		Where("year = ?", year).
		Order("user_id ASC").
		Find(&records).Error
	return records, err
}

// SetPaid toggles payment state. Returns gorm.ErrRecordNotFound when nothing matched.
func (r *duesRepo) SetPaid(ctx context.Context, id string, paid bool, at *time.Time) error {
	if !isUUID(id) {
		return gorm.ErrRecordNotFound
	}
	res := r.db.WithContext(ctx).
		Model(&model.Dues{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"is_paid":      paid,
			"payment_date": at,
			"updated_at":   gorm.Expr("NOW()"),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *duesRepo) DeleteByUser(ctx context.Context, userID string) error {
	if !isUUID(userID) {
		return nil
	}
	return r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&model.Dues{}).Error
}
