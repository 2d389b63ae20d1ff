package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/utkandevrim/ac/internal/model"
)

// LeadershipRepository roster data access.
type LeadershipRepository interface {
	List(ctx context.Context) ([]model.Leader, error)
	GetByID(ctx context.Context, id string) (*model.Leader, error)
	Update(ctx context.Context, l *model.Leader) error
}

type leadershipRepo struct {
	db *gorm.DB
}

// NewLeadershipRepo builds the gorm LeadershipRepository.
func NewLeadershipRepo(db *gorm.DB) LeadershipRepository {
	return &leadershipRepo{db: db}
}

func (r *leadershipRepo) List(ctx context.Context) ([]model.Leader, error) {
	var leaders []model.Leader
	err := r.db.WithContext(ctx).Order("sort_order ASC, name ASC").Find(&leaders).Error
	return leaders, err
}

func (r *leadershipRepo) GetByID(ctx context.Context, id string) (*model.Leader, error) {
	if !isUUID(id) {
		return nil, gorm.ErrRecordNotFound
	}
	var l model.Leader
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&l).Error; err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *leadershipRepo) Update(ctx context.Context, l *model.Leader) error {
	return r.db.WithContext(ctx).Save(l).Error
}
