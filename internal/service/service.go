package service

import (
	"context"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/utkandevrim/ac/config"
	"github.com/utkandevrim/ac/internal/repository"
	"github.com/utkandevrim/ac/pkg/jwt"
)

// Mailer sends a single HTML message.
type Mailer interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}

// EventPublisher publishes a keyed JSON event.
type EventPublisher interface {
	Publish(ctx context.Context, key string, v interface{}) error
}

// FileStore persists an upload and returns its public URL.
type FileStore interface {
	Save(filename string, r io.Reader) (string, error)
}

// TokenBlacklist revokes access tokens by jti.
type TokenBlacklist interface {
	BlacklistToken(ctx context.Context, jti string, ttl time.Duration) error
	IsBlacklisted(ctx context.Context, jti string) (bool, error)
}

// Deps optional collaborators. A nil field disables the feature it backs.
type Deps struct {
	Mailer    Mailer
	Publisher EventPublisher
	Files     FileStore
	Blacklist TokenBlacklist
}

// Service aggregates every service.
type Service struct {
	Auth       AuthService
	Member     MemberService
	Dues       DuesService
	Campaign   CampaignService
	Event      EventService
	Leadership LeadershipService
	Content    ContentService
	Upload     UploadService
	Export     ExportService
}

// NewService builds the aggregate.
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	deps Deps,
	logger *zap.Logger,
) *Service {
	return &Service{
		Auth:       NewAuthService(cfg, repo, jwtMgr, deps.Blacklist, logger),
		Member:     NewMemberService(cfg, repo, logger),
		Dues:       NewDuesService(cfg, repo, deps.Mailer, logger),
		Campaign:   NewCampaignService(cfg, repo, deps.Publisher, logger),
		Event:      NewEventService(cfg, repo, deps.Files, logger),
		Leadership: NewLeadershipService(repo, logger),
		Content:    NewContentService(repo, logger),
		Upload:     NewUploadService(deps.Files, logger),
		Export:     NewExportService(cfg, repo, logger),
	}
}
