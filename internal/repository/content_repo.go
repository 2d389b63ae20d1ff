package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/utkandevrim/ac/internal/model"
)

// ContentRepository singleton site content data access.
type ContentRepository interface {
	Get(ctx context.Context, key string) (*model.SiteContent, error)
	Upsert(ctx context.Context, c *model.SiteContent) error
}

type contentRepo struct {
	db *gorm.DB
}

// NewContentRepo builds the gorm ContentRepository.
func NewContentRepo(db *gorm.DB) ContentRepository {
	return &contentRepo{db: db}
}

func (r *contentRepo) Get(ctx context.Context, key string) (*model.SiteContent, error) {
	var c model.SiteContent
	if err := r.db.WithContext(ctx).Where("key = ?", key).First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

// Upsert replaces the row for c.Key, creating it on first write.
func (r *contentRepo) Upsert(ctx context.Context, c *model.SiteContent) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"hero_title", "hero_subtitle", "content", "photos", "updated_at"}),
		}).
		Create(c).Error
}
