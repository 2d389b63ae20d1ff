package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/utkandevrim/ac/internal/dto"
	"github.com/utkandevrim/ac/internal/model"
	"github.com/utkandevrim/ac/internal/repository"
)

// LeadershipService the leadership roster.
type LeadershipService interface {
	List(ctx context.Context) ([]model.Leader, error)
	Update(ctx context.Context, id string, req *dto.UpdateLeaderRequest, caller Caller) (*model.Leader, error)
}

type leadershipService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewLeadershipService builds the LeadershipService.
func NewLeadershipService(repo *repository.Repository, logger *zap.Logger) LeadershipService {
	return &leadershipService{repo: repo, logger: logger}
}

func (s *leadershipService) List(ctx context.Context) ([]model.Leader, error) {
	leaders, err := s.repo.Leadership.List(ctx)
	if err != nil {
		s.logger.Error("list leadership failed", zap.Error(err))
		return nil, err
	}
	if leaders == nil {
		leaders = []model.Leader{}
	}
	return leaders, nil
}

func (s *leadershipService) Update(ctx context.Context, id string, req *dto.UpdateLeaderRequest, caller Caller) (*model.Leader, error) {
	if err := requireAdmin(caller); err != nil {
		return nil, err
	}

	l, err := s.repo.Leadership.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLeaderNotFound
		}
		s.logger.Error("get leader failed", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	if req.Name != nil {
		l.Name = strings.TrimSpace(*req.Name)
	}
	if req.Position != nil {
		l.Position = strings.TrimSpace(*req.Position)
	}
	if req.Photo != nil {
		l.Photo = *req.Photo
	}
	if req.Order != nil {
		l.SortOrder = *req.Order
	}

	if err := s.repo.Leadership.Update(ctx, l); err != nil {
		s.logger.Error("update leader failed", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	s.logger.Info("leader updated", zap.String("id", id), zap.String("by", caller.ID))
	return l, nil
}
