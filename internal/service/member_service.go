package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/utkandevrim/ac/config"
	"github.com/utkandevrim/ac/internal/dto"
	"github.com/utkandevrim/ac/internal/model"
	"github.com/utkandevrim/ac/internal/repository"
	"github.com/utkandevrim/ac/pkg/validator"
)

// MemberService membership directory.
type MemberService interface {
	Create(ctx context.Context, req *dto.CreateMemberRequest, caller Caller) (*dto.MemberResponse, error)
	ListApproved(ctx context.Context) ([]dto.MemberResponse, error)
	ListPending(ctx context.Context, caller Caller) ([]dto.MemberResponse, error)
	Get(ctx context.Context, id string) (*dto.MemberResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateMemberRequest, caller Caller) (*dto.MemberResponse, error)
	Delete(ctx context.Context, id string, caller Caller) error
	Search(ctx context.Context, query string) ([]dto.MemberResponse, error)
	Approve(ctx context.Context, id string, caller Caller) (*dto.MemberResponse, error)
	SetAdmin(ctx context.Context, id string, isAdmin bool, caller Caller) (*dto.MemberResponse, error)
	BackfillUsernames(ctx context.Context) (*dto.BackfillResult, error)
}

type memberService struct {
	cfg    *config.Config
	repo   *repository.Repository
	logger *zap.Logger
	now    func() time.Time
}

// NewMemberService builds the MemberService.
func NewMemberService(cfg *config.Config, repo *repository.Repository, logger *zap.Logger) MemberService {
	return newMemberService(cfg, repo, logger)
}

func newMemberService(cfg *config.Config, repo *repository.Repository, logger *zap.Logger) *memberService {
	return &memberService{cfg: cfg, repo: repo, logger: logger, now: time.Now}
}

// memberInput is what both admin creation and self-registration provide.
type memberInput struct {
	Username string
	Email    string
	Password string
	Name     string
	Surname  string
	Profile  dto.MemberProfile
}

// ────────────────────── Create ──────────────────────

func (s *memberService) Create(ctx context.Context, req *dto.CreateMemberRequest, caller Caller) (*dto.MemberResponse, error) {
	if err := requireAdmin(caller); err != nil {
		return nil, err
	}

	m, err := s.create(ctx, memberInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
		Surname:  req.Surname,
		Profile:  req.MemberProfile,
	}, true)
	if err != nil {
		return nil, err
	}

	s.logger.Info("member created", zap.String("id", m.ID), zap.String("username", m.Username), zap.String("by", caller.ID))
	resp := toMemberResponse(m)
	return &resp, nil
}

// create validates, checks uniqueness (email before username), then stores the
// member and its ten-month ledger in one transaction.
func (s *memberService) create(ctx context.Context, in memberInput, approved bool) (*model.Member, error) {
	if err := validator.ValidateUsername(in.Username); err != nil {
		return nil, err
	}
	if err := validator.ValidatePassword(in.Password); err != nil {
		return nil, err
	}
	email := normalizeEmail(in.Email)

	if _, err := s.repo.Member.GetByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("lookup member by email failed", zap.Error(err))
		return nil, err
	}
	if _, err := s.repo.Member.GetByUsername(ctx, in.Username); err == nil {
		return nil, ErrUsernameTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("lookup member by username failed", zap.Error(err))
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error("hash password failed", zap.Error(err))
		return nil, err
	}

	m := &model.Member{
		Username:     in.Username,
		Email:        email,
		PasswordHash: string(hash),
		Name:         strings.TrimSpace(in.Name),
		Surname:      strings.TrimSpace(in.Surname),
		IsApproved:   approved,
	}
	applyProfile(m, &in.Profile)

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		s.logger.Error("begin transaction failed", zap.Error(err))
		return nil, err
	}
	defer func() {
		if r := recover(); r != nil {
			if tx != nil {
				tx.Rollback()
			}
			panic(r)
		}
	}()

	txRepo := s.repo.WithTx(tx)

	if err := txRepo.Member.Create(ctx, m); err != nil {
		if tx != nil {
			tx.Rollback()
		}
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrMemberExists
		}
		s.logger.Error("create member failed", zap.Error(err))
		return nil, err
	}

	year := s.now().In(s.cfg.Club.Location()).Year()
	ledger := buildLedger(m.ID, year, s.cfg.Club.DuesAmount, s.cfg.Club.IBAN)
	if err := txRepo.Dues.CreateBatch(ctx, ledger); err != nil {
		if tx != nil {
			tx.Rollback()
		}
		s.logger.Error("create dues ledger failed", zap.String("member_id", m.ID), zap.Error(err))
		return nil, err
	}

	if tx != nil {
		if err := tx.Commit().Error; err != nil {
			s.logger.Error("commit failed", zap.Error(err))
			return nil, err
		}
	}

	return m, nil
}

// ────────────────────── List / Get / Search ──────────────────────

func (s *memberService) ListApproved(ctx context.Context) ([]dto.MemberResponse, error) {
	members, err := s.repo.Member.ListByApproval(ctx, true)
	if err != nil {
		s.logger.Error("list approved members failed", zap.Error(err))
		return nil, err
	}
	return toMemberResponses(members), nil
}

func (s *memberService) ListPending(ctx context.Context, caller Caller) ([]dto.MemberResponse, error) {
	if err := requireAdmin(caller); err != nil {
		return nil, err
	}
	members, err := s.repo.Member.ListByApproval(ctx, false)
	if err != nil {
		s.logger.Error("list pending members failed", zap.Error(err))
		return nil, err
	}
	return toMemberResponses(members), nil
}

func (s *memberService) Get(ctx context.Context, id string) (*dto.MemberResponse, error) {
	m, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toMemberResponse(m)
	return &resp, nil
}

func (s *memberService) Search(ctx context.Context, query string) ([]dto.MemberResponse, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []dto.MemberResponse{}, nil
	}
	members, err := s.repo.Member.Search(ctx, query)
	if err != nil {
		s.logger.Error("search members failed", zap.String("query", query), zap.Error(err))
		return nil, err
	}
	return toMemberResponses(members), nil
}

// ────────────────────── Update ──────────────────────

func (s *memberService) Update(ctx context.Context, id string, req *dto.UpdateMemberRequest, caller Caller) (*dto.MemberResponse, error) {
	if caller.ID != id && !caller.IsAdmin {
		return nil, ErrForbidden
	}
	if !caller.IsAdmin && (req.IsApproved != nil || req.IsAdmin != nil || req.BoardMember != nil) {
		return nil, ErrPrivilegedFieldSet
	}

	m, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.IsAdmin != nil && *req.IsAdmin != m.IsAdmin && caller.ID == id {
		return nil, ErrSelfAdminChange
	}

	if req.Name != nil {
		m.Name = strings.TrimSpace(*req.Name)
	}
	if req.Surname != nil {
		m.Surname = strings.TrimSpace(*req.Surname)
	}
	if req.Phone != nil {
		m.Phone = *req.Phone
	}
	if req.BirthDate != nil {
		m.BirthDate = *req.BirthDate
	}
	if req.Address != nil {
		m.Address = *req.Address
	}
	if req.Workplace != nil {
		m.Workplace = *req.Workplace
	}
	if req.JobTitle != nil {
		m.JobTitle = *req.JobTitle
	}
	if req.Hobbies != nil {
		m.Hobbies = *req.Hobbies
	}
	if req.Skills != nil {
		m.Skills = *req.Skills
	}
	if req.Height != nil {
		m.Height = *req.Height
	}
	if req.Weight != nil {
		m.Weight = *req.Weight
	}
	if req.ProfilePhoto != nil {
		m.ProfilePhoto = *req.ProfilePhoto
	}
	if req.Projects != nil {
		m.Projects = model.StringArray(*req.Projects)
	}
	if req.BoardMember != nil {
		m.BoardMember = *req.BoardMember
	}
	if req.IsApproved != nil {
		m.IsApproved = *req.IsApproved
	}
	if req.IsAdmin != nil {
		m.IsAdmin = *req.IsAdmin
	}

	if err := s.repo.Member.Update(ctx, m); err != nil {
		s.logger.Error("update member failed", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	resp := toMemberResponse(m)
	return &resp, nil
}

// ────────────────────── Delete ──────────────────────

// Delete removes the member and its dues ledger together.
func (s *memberService) Delete(ctx context.Context, id string, caller Caller) error {
	if err := requireAdmin(caller); err != nil {
		return err
	}
	if id == caller.ID {
		return ErrSelfDelete
	}

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		s.logger.Error("begin transaction failed", zap.Error(err))
		return err
	}
	defer func() {
		if r := recover(); r != nil {
			if tx != nil {
				tx.Rollback()
			}
			panic(r)
		}
	}()

	txRepo := s.repo.WithTx(tx)

	if err := txRepo.Dues.DeleteByUser(ctx, id); err != nil {
		if tx != nil {
			tx.Rollback()
		}
		s.logger.Error("delete dues failed", zap.String("member_id", id), zap.Error(err))
		return err
	}
	if err := txRepo.Member.Delete(ctx, id); err != nil {
		if tx != nil {
			tx.Rollback()
		}
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrMemberNotFound
		}
		s.logger.Error("delete member failed", zap.String("id", id), zap.Error(err))
		return err
	}

	if tx != nil {
		if err := tx.Commit().Error; err != nil {
			s.logger.Error("commit failed", zap.Error(err))
			return err
		}
	}

	s.logger.Info("member deleted", zap.String("id", id), zap.String("by", caller.ID))
	return nil
}

// ────────────────────── Approve / SetAdmin ──────────────────────

func (s *memberService) Approve(ctx context.Context, id string, caller Caller) (*dto.MemberResponse, error) {
	if err := requireAdmin(caller); err != nil {
		return nil, err
	}
	m, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !m.IsApproved {
		m.IsApproved = true
		if err := s.repo.Member.Update(ctx, m); err != nil {
			s.logger.Error("approve member failed", zap.String("id", id), zap.Error(err))
			return nil, err
		}
		s.logger.Info("member approved", zap.String("id", id), zap.String("by", caller.ID))
	}
	resp := toMemberResponse(m)
	return &resp, nil
}

func (s *memberService) SetAdmin(ctx context.Context, id string, isAdmin bool, caller Caller) (*dto.MemberResponse, error) {
	if err := requireAdmin(caller); err != nil {
		return nil, err
	}
	if id == caller.ID {
		return nil, ErrSelfAdminChange
	}
	m, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if m.IsAdmin != isAdmin {
		m.IsAdmin = isAdmin
		if err := s.repo.Member.Update(ctx, m); err != nil {
			s.logger.Error("set admin failed", zap.String("id", id), zap.Error(err))
			return nil, err
		}
		s.logger.Info("admin flag changed", zap.String("id", id), zap.Bool("is_admin", isAdmin), zap.String("by", caller.ID))
	}
	resp := toMemberResponse(m)
	return &resp, nil
}

// ────────────────────── BackfillUsernames ──────────────────────

// BackfillUsernames derives name.surname for members stored without a
// username. Collisions are reported, never suffixed.
func (s *memberService) BackfillUsernames(ctx context.Context) (*dto.BackfillResult, error) {
	members, err := s.repo.Member.ListWithoutUsername(ctx)
	if err != nil {
		return nil, err
	}

	result := &dto.BackfillResult{Updated: []string{}, Collisions: []string{}, Skipped: []string{}}
	for i := range members {
		m := &members[i]
		username := validator.DeriveUsername(m.Name, m.Surname)
		if username == "" {
			result.Skipped = append(result.Skipped, m.ID)
			continue
		}

		if _, err := s.repo.Member.GetByUsername(ctx, username); err == nil {
			result.Collisions = append(result.Collisions, m.ID+" -> "+username)
			continue
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return result, err
		}

		m.Username = username
		if err := s.repo.Member.Update(ctx, m); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				result.Collisions = append(result.Collisions, m.ID+" -> "+username)
				continue
			}
			return result, err
		}
		result.Updated = append(result.Updated, m.ID+" -> "+username)
	}

	s.logger.Info("username backfill finished",
		zap.Int("updated", len(result.Updated)),
		zap.Int("collisions", len(result.Collisions)),
		zap.Int("skipped", len(result.Skipped)),
	)
	return result, nil
}

// ── helpers ──

func (s *memberService) load(ctx context.Context, id string) (*model.Member, error) {
	m, err := s.repo.Member.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMemberNotFound
		}
		s.logger.Error("get member failed", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return m, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func applyProfile(m *model.Member, p *dto.MemberProfile) {
	m.Phone = p.Phone
	m.BirthDate = p.BirthDate
	m.Address = p.Address
	m.Workplace = p.Workplace
	m.JobTitle = p.JobTitle
	m.Hobbies = p.Hobbies
	m.Skills = p.Skills
	m.Height = p.Height
	m.Weight = p.Weight
	m.ProfilePhoto = p.ProfilePhoto
	m.Projects = model.StringArray(p.Projects)
	if m.Projects == nil {
		m.Projects = model.StringArray{}
	}
	m.BoardMember = p.BoardMember
}

func toMemberResponse(m *model.Member) dto.MemberResponse {
	projects := []string(m.Projects)
	if projects == nil {
		projects = []string{}
	}
	return dto.MemberResponse{
		ID:           m.ID,
		Username:     m.Username,
		Email:        m.Email,
		Name:         m.Name,
		Surname:      m.Surname,
		Phone:        m.Phone,
		BirthDate:    m.BirthDate,
		Address:      m.Address,
		Workplace:    m.Workplace,
		JobTitle:     m.JobTitle,
		Hobbies:      m.Hobbies,
		Skills:       m.Skills,
		Height:       m.Height,
		Weight:       m.Weight,
		ProfilePhoto: m.ProfilePhoto,
		Projects:     projects,
		BoardMember:  m.BoardMember,
		IsAdmin:      m.IsAdmin,
		IsApproved:   m.IsApproved,
		CreatedAt:    m.CreatedAt,
	}
}

func toMemberResponses(members []model.Member) []dto.MemberResponse {
	out := make([]dto.MemberResponse, 0, len(members))
	for i := range members {
		out = append(out, toMemberResponse(&members[i]))
	}
	return out
}
