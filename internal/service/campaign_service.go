package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/utkandevrim/ac/config"
	"github.com/utkandevrim/ac/internal/dto"
	"github.com/utkandevrim/ac/internal/model"
	"github.com/utkandevrim/ac/internal/repository"
	"github.com/utkandevrim/ac/pkg/qrcode"
)

// Verification messages and rejection reasons shown to partner terminals.
const (
	MessageValid   = "Kampanya Geçerli"
	MessageInvalid = "Kampanya Geçersiz"

	ReasonNotFound       = "not found"
	ReasonExpired        = "expired"
	ReasonAlreadyUsed    = "already used"
	ReasonMemberNotFound = "member not found"
	ReasonDuesIncomplete = "dues incomplete"
)

// RedemptionEventType tags published redemption events.
const RedemptionEventType = "qr.redeemed"

const tokenBytes = 32

// RedemptionEvent is published after a successful verification.
type RedemptionEvent struct {
	Type       string    `json:"type"`
	TokenID    string    `json:"token_id"`
	UserID     string    `json:"user_id"`
	CampaignID string    `json:"campaign_id"`
	UsedAt     time.Time `json:"used_at"`
}

// CampaignService partner campaigns and QR redemption.
type CampaignService interface {
	List(ctx context.Context) ([]model.Campaign, error)
	Get(ctx context.Context, id string) (*model.Campaign, error)
	Create(ctx context.Context, req *dto.CreateCampaignRequest, caller Caller) (*model.Campaign, error)
	Update(ctx context.Context, id string, req *dto.UpdateCampaignRequest, caller Caller) (*model.Campaign, error)
	Delete(ctx context.Context, id string, caller Caller) error
	GenerateQR(ctx context.Context, campaignID string, caller Caller) (*dto.GenerateQRResponse, error)
	VerifyQR(ctx context.Context, token string) (*dto.VerificationResult, error)
}

type campaignService struct {
	cfg       *config.Config
	repo      *repository.Repository
	publisher EventPublisher
	logger    *zap.Logger
	now       func() time.Time
}

// NewCampaignService builds the CampaignService. publisher may be nil.
func NewCampaignService(cfg *config.Config, repo *repository.Repository, publisher EventPublisher, logger *zap.Logger) CampaignService {
	return &campaignService{cfg: cfg, repo: repo, publisher: publisher, logger: logger, now: time.Now}
}

// ────────────────────── CRUD ──────────────────────

// List returns active campaigns that have not expired.
func (s *campaignService) List(ctx context.Context) ([]model.Campaign, error) {
	campaigns, err := s.repo.Campaign.ListActive(ctx)
	if err != nil {
		s.logger.Error("list campaigns failed", zap.Error(err))
		return nil, err
	}

	now := s.now()
	out := make([]model.Campaign, 0, len(campaigns))
	for i := range campaigns {
		if !campaigns[i].Expired(now) {
			out = append(out, campaigns[i])
		}
	}
	return out, nil
}

func (s *campaignService) Get(ctx context.Context, id string) (*model.Campaign, error) {
	return s.loadActive(ctx, id)
}

func (s *campaignService) Create(ctx context.Context, req *dto.CreateCampaignRequest, caller Caller) (*model.Campaign, error) {
	if err := requireAdmin(caller); err != nil {
		return nil, err
	}

	c := &model.Campaign{
		Title:           strings.TrimSpace(req.Title),
		Description:     req.Description,
		CompanyName:     strings.TrimSpace(req.CompanyName),
		DiscountDetails: req.DiscountDetails,
		TermsConditions: req.TermsConditions,
		ImageURL:        req.ImageURL,
		IsActive:        true,
		ExpiresAt:       req.ExpiresAt,
	}
	if err := s.repo.Campaign.Create(ctx, c); err != nil {
		s.logger.Error("create campaign failed", zap.Error(err))
		return nil, err
	}

	s.logger.Info("campaign created", zap.String("id", c.ID), zap.String("by", caller.ID))
	return c, nil
}

func (s *campaignService) Update(ctx context.Context, id string, req *dto.UpdateCampaignRequest, caller Caller) (*model.Campaign, error) {
	if err := requireAdmin(caller); err != nil {
		return nil, err
	}

	c, err := s.repo.Campaign.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCampaignNotFound
		}
		s.logger.Error("get campaign failed", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	if req.Title != nil {
		c.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		c.Description = *req.Description
	}
	if req.CompanyName != nil {
		c.CompanyName = strings.TrimSpace(*req.CompanyName)
	}
	if req.DiscountDetails != nil {
		c.DiscountDetails = *req.DiscountDetails
	}
	if req.TermsConditions != nil {
		c.TermsConditions = *req.TermsConditions
	}
	if req.ImageURL != nil {
		c.ImageURL = *req.ImageURL
	}
	if req.IsActive != nil {
		c.IsActive = *req.IsActive
	}
	if req.ExpiresAt != nil {
		c.ExpiresAt = req.ExpiresAt
	}

	if err := s.repo.Campaign.Update(ctx, c); err != nil {
		s.logger.Error("update campaign failed", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return c, nil
}

// Delete deactivates the campaign. Issued tokens stay verifiable.
func (s *campaignService) Delete(ctx context.Context, id string, caller Caller) error {
	if err := requireAdmin(caller); err != nil {
		return err
	}
	if err := s.repo.Campaign.Deactivate(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCampaignNotFound
		}
		s.logger.Error("deactivate campaign failed", zap.String("id", id), zap.Error(err))
		return err
	}
	s.logger.Info("campaign deactivated", zap.String("id", id), zap.String("by", caller.ID))
	return nil
}

// ────────────────────── GenerateQR ──────────────────────

func (s *campaignService) GenerateQR(ctx context.Context, campaignID string, caller Caller) (*dto.GenerateQRResponse, error) {
	c, err := s.loadActive(ctx, campaignID)
	if err != nil {
		return nil, err
	}

	records, err := s.repo.Dues.ListByUser(ctx, caller.ID)
	if err != nil {
		s.logger.Error("list dues failed", zap.String("member_id", caller.ID), zap.Error(err))
		return nil, err
	}
	now := s.now()
	if !IsDuesEligible(records, now.In(s.cfg.Club.Location())) {
		return nil, ErrDuesIncomplete
	}

	token, err := newRedemptionToken()
	if err != nil {
		s.logger.Error("generate token failed", zap.Error(err))
		return nil, err
	}

	t := &model.QRToken{
		Token:      token,
		UserID:     caller.ID,
		CampaignID: c.ID,
		CreatedAt:  now.UTC(),
		ExpiresAt:  now.Add(s.cfg.Club.QRTokenTTL).UTC(),
	}
	if err := s.repo.QRToken.Create(ctx, t); err != nil {
		s.logger.Error("store qr token failed", zap.Error(err))
		return nil, err
	}

	verifyURL := strings.TrimRight(s.cfg.Club.PublicVerifyURL, "/") + "/" + token
	resp := &dto.GenerateQRResponse{
		QRToken:       token,
		ExpiresAt:     t.ExpiresAt,
		CampaignTitle: c.Title,
		VerifyURL:     verifyURL,
	}
	if img, err := qrcode.DataURL(verifyURL); err != nil {
		s.logger.Warn("render qr image failed", zap.Error(err))
	} else {
		resp.QRImage = img
	}

	s.logger.Info("qr token issued", zap.String("token_id", t.ID), zap.String("member_id", caller.ID), zap.String("campaign_id", c.ID))
	return resp, nil
}

// ────────────────────── VerifyQR ──────────────────────

// VerifyQR checks a token and consumes it on success. Rejections other than
// expiry and prior use leave the token verifiable until it expires.
func (s *campaignService) VerifyQR(ctx context.Context, token string) (*dto.VerificationResult, error) {
	t, err := s.repo.QRToken.GetByToken(ctx, token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return rejected(ReasonNotFound), nil
		}
		s.logger.Error("lookup qr token failed", zap.Error(err))
		return nil, err
	}

	now := s.now()
	if now.After(t.ExpiresAt) {
		return rejected(ReasonExpired), nil
	}
	if t.IsUsed {
		return rejected(ReasonAlreadyUsed), nil
	}

	m, err := s.repo.Member.GetByID(ctx, t.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return rejected(ReasonMemberNotFound), nil
		}
		s.logger.Error("lookup token member failed", zap.Error(err))
		return nil, err
	}

	records, err := s.repo.Dues.ListByUser(ctx, m.ID)
	if err != nil {
		s.logger.Error("list dues failed", zap.String("member_id", m.ID), zap.Error(err))
		return nil, err
	}
	if !IsDuesEligible(records, now.In(s.cfg.Club.Location())) {
		return rejected(ReasonDuesIncomplete), nil
	}

	// the conditional update decides concurrent verifications and re-checks
	// expiry at the moment of consumption
	usedAt := s.now().UTC()
	won, err := s.repo.QRToken.Consume(ctx, t.ID, usedAt)
	if err != nil {
		s.logger.Error("consume qr token failed", zap.String("token_id", t.ID), zap.Error(err))
		return nil, err
	}
	if !won {
		if usedAt.After(t.ExpiresAt) {
			return rejected(ReasonExpired), nil
		}
		return rejected(ReasonAlreadyUsed), nil
	}

	result := &dto.VerificationResult{
		Valid:   true,
		Message: MessageValid,
		Member: &dto.VerifiedMember{
			Name:     m.Name,
			Surname:  m.Surname,
			Photo:    m.ProfilePhoto,
			Username: m.Username,
		},
	}
	// the campaign is not re-checked; a deactivated campaign still redeems
	if c, err := s.repo.Campaign.GetByID(ctx, t.CampaignID); err == nil {
		result.Campaign = &dto.VerifiedCampaign{Title: c.Title, Company: c.CompanyName}
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Warn("lookup token campaign failed", zap.Error(err))
	}

	s.publishRedemption(ctx, t, usedAt)
	s.logger.Info("qr token redeemed", zap.String("token_id", t.ID), zap.String("member_id", m.ID))
	return result, nil
}

func (s *campaignService) publishRedemption(ctx context.Context, t *model.QRToken, usedAt time.Time) {
	if s.publisher == nil {
		return
	}
	ev := RedemptionEvent{
		Type:       RedemptionEventType,
		TokenID:    t.ID,
		UserID:     t.UserID,
		CampaignID: t.CampaignID,
		UsedAt:     usedAt,
	}
	if err := s.publisher.Publish(ctx, t.CampaignID, ev); err != nil {
		s.logger.Warn("publish redemption event failed", zap.String("token_id", t.ID), zap.Error(err))
	}
}

// ── helpers ──

// loadActive returns an active, unexpired campaign or ErrCampaignNotFound.
func (s *campaignService) loadActive(ctx context.Context, id string) (*model.Campaign, error) {
	c, err := s.repo.Campaign.GetActive(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCampaignNotFound
		}
		s.logger.Error("get campaign failed", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	if c.Expired(s.now()) {
		return nil, ErrCampaignNotFound
	}
	return c, nil
}

func rejected(reason string) *dto.VerificationResult {
	return &dto.VerificationResult{Valid: false, Message: MessageInvalid, Reason: reason}
}

// newRedemptionToken returns 256 random bits, URL-safe encoded.
func newRedemptionToken() (string, error) {
	b := make([]byte, tokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
