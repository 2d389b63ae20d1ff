package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/utkandevrim/ac/internal/model"
)

// CampaignRepository campaign data access.
type CampaignRepository interface {
	Create(ctx context.Context, c *model.Campaign) error
	GetByID(ctx context.Context, id string) (*model.Campaign, error)
	// GetActive returns the campaign only while is_active is set.
	GetActive(ctx context.Context, id string) (*model.Campaign, error)
	ListActive(ctx context.Context) ([]model.Campaign, error)
	Update(ctx context.Context, c *model.Campaign) error
	Deactivate(ctx context.Context, id string) error
}

type campaignRepo struct {
	db *gorm.DB
}

// NewCampaignRepo builds the gorm CampaignRepository.
func NewCampaignRepo(db *gorm.DB) CampaignRepository {
	return &campaignRepo{db: db}
}

func (r *campaignRepo) Create(ctx context.Context, c *model.Campaign) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *campaignRepo) GetByID(ctx context.Context, id string) (*model.Campaign, error) {
	if !isUUID(id) {
		return nil, gorm.ErrRecordNotFound
	}
	var c model.Campaign
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *campaignRepo) GetActive(ctx context.Context, id string) (*model.Campaign, error) {
	if !isUUID(id) {
		return nil, gorm.ErrRecordNotFound
	}
	var c model.Campaign
	err := r.db.WithContext(ctx).
		Where("id = ? AND is_active = ?", id, true).
		First(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *campaignRepo) ListActive(ctx context.Context) ([]model.Campaign, error) {
	var campaigns []model.Campaign
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("created_at DESC").
		Find(&campaigns).Error
	return campaigns, err
}

func (r *campaignRepo) Update(ctx context.Context, c *model.Campaign) error {
	return r.db.WithContext(ctx).Save(c).Error
}

// Deactivate soft-deletes the campaign. Returns gorm.ErrRecordNotFound when nothing matched.
func (r *campaignRepo) Deactivate(ctx context.Context, id string) error {
	if !isUUID(id) {
		return gorm.ErrRecordNotFound
	}
	res := r.db.WithContext(ctx).
		Model(&model.Campaign{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"is_active":  false,
			"updated_at": gorm.Expr("NOW()"),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
