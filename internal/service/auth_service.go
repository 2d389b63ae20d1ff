package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/utkandevrim/ac/config"
	"github.com/utkandevrim/ac/internal/dto"
	"github.com/utkandevrim/ac/internal/model"
	"github.com/utkandevrim/ac/internal/repository"
	"github.com/utkandevrim/ac/pkg/jwt"
	"github.com/utkandevrim/ac/pkg/validator"
)

// Session is a resolved bearer token.
type Session struct {
	Member *model.Member
	Claims *jwt.Claims
}

// Caller the identity services authorize against.
func (s *Session) Caller() Caller {
	return Caller{ID: s.Member.ID, IsAdmin: s.Member.IsAdmin}
}

// AuthService identity and session operations.
type AuthService interface {
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error)
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.MemberResponse, error)
	Resolve(ctx context.Context, token string) (*Session, error)
	Me(ctx context.Context, memberID string) (*dto.MemberResponse, error)
	ChangePassword(ctx context.Context, memberID string, req *dto.ChangePasswordRequest) error
	Logout(ctx context.Context, claims *jwt.Claims) error
	EnsureSeedAdmins(ctx context.Context, admins []config.SeedAdmin) error
}

type authService struct {
	cfg       *config.Config
	repo      *repository.Repository
	jwtMgr    *jwt.Manager
	blacklist TokenBlacklist
	members   *memberService
	logger    *zap.Logger
}

// NewAuthService builds the AuthService. blacklist may be nil, in which case
// tokens cannot be revoked before they expire.
func NewAuthService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	blacklist TokenBlacklist,
	logger *zap.Logger,
) AuthService {
	return &authService{
		cfg:       cfg,
		repo:      repo,
		jwtMgr:    jwtMgr,
		blacklist: blacklist,
		members:   newMemberService(cfg, repo, logger),
		logger:    logger,
	}
}

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	// 1. look up by exact username
	m, err := s.repo.Member.GetByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		s.logger.Error("lookup member failed", zap.Error(err))
		return nil, err
	}

	// 2. verify password; a member without a stored hash cannot log in
	if m.PasswordHash == "" {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(m.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	// 3. approval is only revealed after the credentials match
	if !m.IsApproved {
		return nil, ErrNotApproved
	}

	token, err := s.jwtMgr.GenerateAccessToken(m.ID, m.Username, m.IsAdmin)
	if err != nil {
		s.logger.Error("sign access token failed", zap.Error(err))
		return nil, err
	}

	return &dto.LoginResponse{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresIn:   int(s.jwtMgr.AccessTokenTTL().Seconds()),
		User:        toMemberResponse(m),
	}, nil
}

// Register creates an unapproved member with its dues ledger.
func (s *authService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.MemberResponse, error) {
	m, err := s.members.create(ctx, memberInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
		Surname:  req.Surname,
		Profile:  req.MemberProfile,
	}, false)
	if err != nil {
		return nil, err
	}

	s.logger.Info("member registered", zap.String("id", m.ID), zap.String("username", m.Username))
	resp := toMemberResponse(m)
	return &resp, nil
}

func (s *authService) Resolve(ctx context.Context, token string) (*Session, error) {
	claims, err := s.jwtMgr.ParseToken(token)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}

	if s.blacklist != nil && claims.ID != "" {
		revoked, err := s.blacklist.IsBlacklisted(ctx, claims.ID)
		if err != nil {
			// fail open: the signature and expiry are already verified
			s.logger.Warn("blacklist lookup failed", zap.Error(err))
		} else if revoked {
			return nil, ErrTokenRevoked
		}
	}

	m, err := s.repo.Member.GetByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessionMemberGone
		}
		s.logger.Error("lookup session member failed", zap.Error(err))
		return nil, err
	}
	if !m.IsApproved {
		return nil, ErrNotApproved
	}

	return &Session{Member: m, Claims: claims}, nil
}

func (s *authService) Me(ctx context.Context, memberID string) (*dto.MemberResponse, error) {
	return s.members.Get(ctx, memberID)
}

func (s *authService) ChangePassword(ctx context.Context, memberID string, req *dto.ChangePasswordRequest) error {
	m, err := s.members.load(ctx, memberID)
	if err != nil {
		return err
	}

	if m.PasswordHash == "" ||
		bcrypt.CompareHashAndPassword([]byte(m.PasswordHash), []byte(req.OldPassword)) != nil {
		return ErrWrongPassword
	}
	if err := validator.ValidatePassword(req.NewPassword); err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error("hash password failed", zap.Error(err))
		return err
	}
	if err := s.repo.Member.UpdatePassword(ctx, memberID, string(hash)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrMemberNotFound
		}
		s.logger.Error("update password failed", zap.String("id", memberID), zap.Error(err))
		return err
	}

	s.logger.Info("password changed", zap.String("id", memberID))
	return nil
}

// Logout revokes the token until its natural expiry.
func (s *authService) Logout(ctx context.Context, claims *jwt.Claims) error {
	if s.blacklist == nil || claims == nil || claims.ID == "" || claims.ExpiresAt == nil {
		return nil
	}
	ttl := time.Until(claims.ExpiresAt.Time)
	if ttl <= 0 {
		return nil
	}
	if err := s.blacklist.BlacklistToken(ctx, claims.ID, ttl); err != nil {
		s.logger.Error("blacklist token failed", zap.Error(err))
		return err
	}
	return nil
}

// EnsureSeedAdmins makes sure each configured admin exists, is approved and
// holds the admin flag. Existing passwords are never overwritten.
func (s *authService) EnsureSeedAdmins(ctx context.Context, admins []config.SeedAdmin) error {
	for _, a := range admins {
		existing, err := s.repo.Member.GetByUsername(ctx, a.Username)
		if err == nil {
			if existing.IsAdmin && existing.IsApproved {
				continue
			}
			existing.IsAdmin = true
			existing.IsApproved = true
			if err := s.repo.Member.Update(ctx, existing); err != nil {
				return err
			}
			s.logger.Info("seed admin promoted", zap.String("username", a.Username))
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(a.Password), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		m := &model.Member{
			Username:     a.Username,
			Email:        normalizeEmail(a.Email),
			PasswordHash: string(hash),
			Name:         a.Name,
			Surname:      a.Surname,
			Projects:     model.StringArray{},
			IsAdmin:      true,
			IsApproved:   true,
		}
		if err := s.repo.Member.Create(ctx, m); err != nil {
			return err
		}
		s.logger.Info("seed admin created", zap.String("username", a.Username))
	}
	return nil
}
