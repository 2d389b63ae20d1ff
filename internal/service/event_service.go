package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/utkandevrim/ac/config"
	"github.com/utkandevrim/ac/internal/dto"
	"github.com/utkandevrim/ac/internal/model"
	"github.com/utkandevrim/ac/internal/repository"
)

// EventService club events.
type EventService interface {
	List(ctx context.Context) ([]model.Event, error)
	Get(ctx context.Context, id string) (*model.Event, error)
	Create(ctx context.Context, req *dto.CreateEventRequest, caller Caller) (*model.Event, error)
	Update(ctx context.Context, id string, req *dto.UpdateEventRequest, caller Caller) (*model.Event, error)
	Delete(ctx context.Context, id string, caller Caller) error
	UploadPhoto(ctx context.Context, id, filename string, r io.Reader, caller Caller) (*model.Event, error)
	Calendar(ctx context.Context) (string, error)
	ImportCalendar(ctx context.Context, r io.Reader, caller Caller) ([]model.Event, error)
}

type eventService struct {
	cfg    *config.Config
	repo   *repository.Repository
	files  FileStore
	logger *zap.Logger
	now    func() time.Time
}

// NewEventService builds the EventService.
func NewEventService(cfg *config.Config, repo *repository.Repository, files FileStore, logger *zap.Logger) EventService {
	return &eventService{cfg: cfg, repo: repo, files: files, logger: logger, now: time.Now}
}

func (s *eventService) List(ctx context.Context) ([]model.Event, error) {
	events, err := s.repo.Event.List(ctx)
	if err != nil {
		s.logger.Error("list events failed", zap.Error(err))
		return nil, err
	}
	if events == nil {
		events = []model.Event{}
	}
	return events, nil
}

func (s *eventService) Get(ctx context.Context, id string) (*model.Event, error) {
	e, err := s.repo.Event.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		s.logger.Error("get event failed", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return e, nil
}

func (s *eventService) Create(ctx context.Context, req *dto.CreateEventRequest, caller Caller) (*model.Event, error) {
	if err := requireAdmin(caller); err != nil {
		return nil, err
	}

	e := &model.Event{
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		Date:        req.Date,
		Location:    req.Location,
		Photos:      nonNil(req.Photos),
	}
	if err := s.repo.Event.Create(ctx, e); err != nil {
		s.logger.Error("create event failed", zap.Error(err))
		return nil, err
	}
	s.logger.Info("event created", zap.String("id", e.ID), zap.String("by", caller.ID))
	return e, nil
}

func (s *eventService) Update(ctx context.Context, id string, req *dto.UpdateEventRequest, caller Caller) (*model.Event, error) {
	if err := requireAdmin(caller); err != nil {
		return nil, err
	}
	e, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		e.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		e.Description = *req.Description
	}
	if req.Date != nil {
		e.Date = *req.Date
	}
	if req.Location != nil {
		e.Location = *req.Location
	}
	if req.Photos != nil {
		e.Photos = nonNil(*req.Photos)
	}

	if err := s.repo.Event.Update(ctx, e); err != nil {
		s.logger.Error("update event failed", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return e, nil
}

func (s *eventService) Delete(ctx context.Context, id string, caller Caller) error {
	if err := requireAdmin(caller); err != nil {
		return err
	}
	if err := s.repo.Event.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrEventNotFound
		}
		s.logger.Error("delete event failed", zap.String("id", id), zap.Error(err))
		return err
	}
	s.logger.Info("event deleted", zap.String("id", id), zap.String("by", caller.ID))
	return nil
}

// UploadPhoto stores an image and appends its URL to the event.
func (s *eventService) UploadPhoto(ctx context.Context, id, filename string, r io.Reader, caller Caller) (*model.Event, error) {
	if err := requireAdmin(caller); err != nil {
		return nil, err
	}
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}

	url, err := s.files.Save(filename, r)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Event.AppendPhoto(ctx, id, url); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		s.logger.Error("append event photo failed", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return s.Get(ctx, id)
}

// Calendar renders every event as an iCalendar feed.
func (s *eventService) Calendar(ctx context.Context) (string, error) {
	events, err := s.repo.Event.List(ctx)
	if err != nil {
		s.logger.Error("list events failed", zap.Error(err))
		return "", err
	}
	return BuildCalendar(events, s.cfg.Server.BaseURL, s.now()), nil
}

// ImportCalendar creates one event per VEVENT in an uploaded .ics file.
func (s *eventService) ImportCalendar(ctx context.Context, r io.Reader, caller Caller) ([]model.Event, error) {
	if err := requireAdmin(caller); err != nil {
		return nil, err
	}

	parsed, err := ParseCalendar(r, s.cfg.Club.Location())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCalendar, err)
	}

	created := make([]model.Event, 0, len(parsed))
	for i := range parsed {
		e := parsed[i]
		if err := s.repo.Event.Create(ctx, &e); err != nil {
			s.logger.Error("import event failed", zap.String("title", e.Title), zap.Error(err))
			return created, err
		}
		created = append(created, e)
	}

	s.logger.Info("events imported", zap.Int("count", len(created)), zap.String("by", caller.ID))
	return created, nil
}

func nonNil(v []string) model.StringArray {
	if v == nil {
		return model.StringArray{}
	}
	return model.StringArray(v)
}
