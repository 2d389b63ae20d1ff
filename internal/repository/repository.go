package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository aggregates every repository over one connection (or transaction).
type Repository struct {
	db *gorm.DB

	Member     MemberRepository
	Dues       DuesRepository
	Campaign   CampaignRepository
	QRToken    QRTokenRepository
	Event      EventRepository
	Leadership LeadershipRepository
	Content    ContentRepository
}

// NewRepository builds the aggregate.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db:         db,
		Member:     NewMemberRepo(db),
		Dues:       NewDuesRepo(db),
		Campaign:   NewCampaignRepo(db),
		QRToken:    NewQRTokenRepo(db),
		Event:      NewEventRepo(db),
		Leadership: NewLeadershipRepo(db),
		Content:    NewContentRepo(db),
	}
}

// BeginTx starts a transaction. It returns a nil tx when the aggregate has no
// database behind it (hand-assembled mocks in tests).
func (r *Repository) BeginTx(ctx context.Context) (*gorm.DB, error) {
	if r.db == nil {
		return nil, nil
	}
	tx := r.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}
	return tx, nil
}

// WithTx returns an aggregate bound to tx. A nil tx returns r unchanged.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return NewRepository(tx)
}

// isUUID reports whether id can be compared against a uuid key column.
// Malformed ids match no row instead of failing the query.
func isUUID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
