package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/utkandevrim/ac/internal/dto"
	"github.com/utkandevrim/ac/internal/model"
	"github.com/utkandevrim/ac/internal/repository"
)

// ContentService the about page and homepage singletons.
type ContentService interface {
	GetAbout(ctx context.Context) (*dto.AboutResponse, error)
	UpdateAbout(ctx context.Context, req *dto.UpdateAboutRequest, caller Caller) (*dto.AboutResponse, error)
	GetHomepage(ctx context.Context) (*dto.HomepageResponse, error)
	UpdateHomepage(ctx context.Context, req *dto.UpdateHomepageRequest, caller Caller) (*dto.HomepageResponse, error)
}

type contentService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewContentService builds the ContentService.
func NewContentService(repo *repository.Repository, logger *zap.Logger) ContentService {
	return &contentService{repo: repo, logger: logger}
}

func (s *contentService) GetAbout(ctx context.Context) (*dto.AboutResponse, error) {
	c, err := s.get(ctx, model.ContentAbout)
	if err != nil {
		return nil, err
	}
	return toAboutResponse(c), nil
}

func (s *contentService) UpdateAbout(ctx context.Context, req *dto.UpdateAboutRequest, caller Caller) (*dto.AboutResponse, error) {
	if err := requireAdmin(caller); err != nil {
		return nil, err
	}
	c := &model.SiteContent{
		Key:     model.ContentAbout,
		Content: req.Content,
		Photos:  nonNil(req.Photos),
	}
	if err := s.upsert(ctx, c, caller); err != nil {
		return nil, err
	}
	return toAboutResponse(c), nil
}

func (s *contentService) GetHomepage(ctx context.Context) (*dto.HomepageResponse, error) {
	c, err := s.get(ctx, model.ContentHomepage)
	if err != nil {
		return nil, err
	}
	return toHomepageResponse(c), nil
}

func (s *contentService) UpdateHomepage(ctx context.Context, req *dto.UpdateHomepageRequest, caller Caller) (*dto.HomepageResponse, error) {
	if err := requireAdmin(caller); err != nil {
		return nil, err
	}
	c := &model.SiteContent{
		Key:          model.ContentHomepage,
		HeroTitle:    req.HeroTitle,
		HeroSubtitle: req.HeroSubtitle,
		Content:      req.Content,
		Photos:       nonNil(req.Photos),
	}
	if err := s.upsert(ctx, c, caller); err != nil {
		return nil, err
	}
	return toHomepageResponse(c), nil
}

// get returns the stored singleton or an empty one when never written.
func (s *contentService) get(ctx context.Context, key string) (*model.SiteContent, error) {
	c, err := s.repo.Content.Get(ctx, key)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &model.SiteContent{Key: key, Photos: model.StringArray{}}, nil
		}
		s.logger.Error("get content failed", zap.String("key", key), zap.Error(err))
		return nil, err
	}
	return c, nil
}

func (s *contentService) upsert(ctx context.Context, c *model.SiteContent, caller Caller) error {
	if err := s.repo.Content.Upsert(ctx, c); err != nil {
		s.logger.Error("save content failed", zap.String("key", c.Key), zap.Error(err))
		return err
	}
	s.logger.Info("content updated", zap.String("key", c.Key), zap.String("by", caller.ID))
	return nil
}

func toAboutResponse(c *model.SiteContent) *dto.AboutResponse {
	resp := &dto.AboutResponse{Content: c.Content, Photos: photosOf(c)}
	if !c.UpdatedAt.IsZero() {
		t := c.UpdatedAt
		resp.LastUpdated = &t
	}
	return resp
}

func toHomepageResponse(c *model.SiteContent) *dto.HomepageResponse {
	resp := &dto.HomepageResponse{
		HeroTitle:    c.HeroTitle,
		HeroSubtitle: c.HeroSubtitle,
		Content:      c.Content,
		Photos:       photosOf(c),
	}
	if !c.UpdatedAt.IsZero() {
		t := c.UpdatedAt
		resp.LastUpdated = &t
	}
	return resp
}

func photosOf(c *model.SiteContent) []string {
	if c.Photos == nil {
		return []string{}
	}
	return []string(c.Photos)
}
