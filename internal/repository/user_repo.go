package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/utkandevrim/ac/internal/model"
)

// MemberRepository member data access (users table).
type MemberRepository interface {
	Create(ctx context.Context, m *model.Member) error
	GetByID(ctx context.Context, id string) (*model.Member, error)
	GetByUsername(ctx context.Context, username string) (*model.Member, error)
	GetByEmail(ctx context.Context, email string) (*model.Member, error)
	Update(ctx context.Context, m *model.Member) error
	UpdatePassword(ctx context.Context, id, hash string) error
	Delete(ctx context.Context, id string) error
	ListByApproval(ctx context.Context, approved bool) ([]model.Member, error)
	Search(ctx context.Context, query string) ([]model.Member, error)
	ListWithoutUsername(ctx context.Context) ([]model.Member, error)
	ListIDs(ctx context.Context) ([]string, error)
}

type memberRepo struct {
	db *gorm.DB
}

// NewMemberRepo builds the gorm MemberRepository.
func NewMemberRepo(db *gorm.DB) MemberRepository {
	return &memberRepo{db: db}
}

func (r *memberRepo) Create(ctx context.Context, m *model.Member) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *memberRepo) GetByID(ctx context.Context, id string) (*model.Member, error) {
	if !isUUID(id) {
		return nil, gorm.ErrRecordNotFound
	}
	var m model.Member
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *memberRepo) GetByUsername(ctx context.Context, username string) (*model.Member, error) {
	var m model.Member
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&m).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *memberRepo) GetByEmail(ctx context.Context, email string) (*model.Member, error) {
	var m model.Member
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&m).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *memberRepo) Update(ctx context.Context, m *model.Member) error {
	return r.db.WithContext(ctx).Save(m).Error
}

func (r *memberRepo) UpdatePassword(ctx context.Context, id, hash string) error {
	if !isUUID(id) {
		return gorm.ErrRecordNotFound
	}
	res := r.db.WithContext(ctx).
		Model(&model.Member{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"password_hash": hash,
			"updated_at":    gorm.Expr("NOW()"),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Delete removes the member. Returns gorm.ErrRecordNotFound when nothing matched.
func (r *memberRepo) Delete(ctx context.Context, id string) error {
	if !isUUID(id) {
		return gorm.ErrRecordNotFound
	}
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Member{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *memberRepo) ListByApproval(ctx context.Context, approved bool) ([]model.Member, error) {
	var members []model.Member
	err := r.db.WithContext(ctx).
		Where("is_approved = ?", approved).
		Order("name ASC, surname ASC").
		Find(&members).Error
	return members, err
}

// Search matches name, surname or email case-insensitively among approved members.
func (r *memberRepo) Search(ctx context.Context, query string) ([]model.Member, error) {
	pattern := "%" + escapeLike(query) + "%"
	var members []model.Member
	err := r.db.WithContext(ctx).
		Where("is_approved = ?", true).
		Where("name ILIKE ? OR surname ILIKE ? OR email ILIKE ?", pattern, pattern, pattern).
		Order("name ASC, surname ASC").
		Limit(100).
		Find(&members).Error
	return members, err
}

func (r *memberRepo) ListWithoutUsername(ctx context.Context) ([]model.Member, error) {
	var members []model.Member
	err := r.db.WithContext(ctx).
		Where("username = ''").
		Order("created_at ASC").
		Find(&members).Error
	return members, err
}

func (r *memberRepo) ListIDs(ctx context.Context) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).Model(&model.Member{}).Pluck("id", &ids).Error
	return ids, err
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
