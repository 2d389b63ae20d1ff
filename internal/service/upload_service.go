package service

import (
	"context"
	"io"

	"go.uber.org/zap"

	"github.com/utkandevrim/ac/internal/dto"
)

// UploadService admin image uploads.
type UploadService interface {
	Upload(ctx context.Context, filename string, r io.Reader, caller Caller) (*dto.UploadResponse, error)
}

type uploadService struct {
	files  FileStore
	logger *zap.Logger
}

// NewUploadService builds the UploadService.
func NewUploadService(files FileStore, logger *zap.Logger) UploadService {
	return &uploadService{files: files, logger: logger}
}

func (s *uploadService) Upload(ctx context.Context, filename string, r io.Reader, caller Caller) (*dto.UploadResponse, error) {
	if err := requireAdmin(caller); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	url, err := s.files.Save(filename, r)
	if err != nil {
		return nil, err
	}
	s.logger.Info("file uploaded", zap.String("url", url), zap.String("by", caller.ID))
	return &dto.UploadResponse{FileURL: url}, nil
}
