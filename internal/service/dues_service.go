package service

import (
	"bytes"
	"context"
	"errors"
	"html/template"
	"strconv"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/utkandevrim/ac/config"
	"github.com/utkandevrim/ac/internal/dto"
	"github.com/utkandevrim/ac/internal/model"
	"github.com/utkandevrim/ac/internal/repository"
)

// DuesService the per-member fee ledger.
type DuesService interface {
	ListForMember(ctx context.Context, memberID string, caller Caller) ([]dto.DuesResponse, error)
	MarkPaid(ctx context.Context, dueID string, caller Caller) error
	MarkUnpaid(ctx context.Context, dueID string, caller Caller) error
	// SendReminders mails every approved member who owes a non-current month.
	SendReminders(ctx context.Context) (int, error)
	// RollOverLedger ensures every member holds the ten records of the current
	// academic year, September to June.
	RollOverLedger(ctx context.Context) (int64, error)
}

type duesService struct {
	cfg    *config.Config
	repo   *repository.Repository
	mailer Mailer
	logger *zap.Logger
	now    func() time.Time
}

// NewDuesService builds the DuesService. mailer may be nil.
func NewDuesService(cfg *config.Config, repo *repository.Repository, mailer Mailer, logger *zap.Logger) DuesService {
	return &duesService{cfg: cfg, repo: repo, mailer: mailer, logger: logger, now: time.Now}
}

func (s *duesService) ListForMember(ctx context.Context, memberID string, caller Caller) ([]dto.DuesResponse, error) {
	if caller.ID != memberID && !caller.IsAdmin {
		return nil, ErrForbidden
	}

	records, err := s.repo.Dues.ListByUser(ctx, memberID)
	if err != nil {
		s.logger.Error("list dues failed", zap.String("member_id", memberID), zap.Error(err))
		return nil, err
	}
	sortLedger(records)

	out := make([]dto.DuesResponse, 0, len(records))
	for i := range records {
		out = append(out, toDuesResponse(&records[i]))
	}
	return out, nil
}

func (s *duesService) MarkPaid(ctx context.Context, dueID string, caller Caller) error {
	if err := requireAdmin(caller); err != nil {
		return err
	}
	now := s.now().UTC()
	return s.setPaid(ctx, dueID, true, &now, caller)
}

func (s *duesService) MarkUnpaid(ctx context.Context, dueID string, caller Caller) error {
	if err := requireAdmin(caller); err != nil {
		return err
	}
	return s.setPaid(ctx, dueID, false, nil, caller)
}

func (s *duesService) setPaid(ctx context.Context, dueID string, paid bool, at *time.Time, caller Caller) error {
	if err := s.repo.Dues.SetPaid(ctx, dueID, paid, at); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrDuesNotFound
		}
		s.logger.Error("update dues failed", zap.String("due_id", dueID), zap.Error(err))
		return err
	}
	s.logger.Info("dues updated", zap.String("due_id", dueID), zap.Bool("is_paid", paid), zap.String("by", caller.ID))
	return nil
}

var reminderTemplate = template.Must(template.New("reminder").Parse(
	`<p>Merhaba {{.Name}},</p>
<p>Aşağıdaki aylara ait aidat ödemeleriniz görünmüyor:</p>
<ul>{{range .Months}}<li>{{.}}</li>{{end}}</ul>
<p>Aylık tutar: {{.Amount}} TL<br>IBAN: {{.IBAN}}</p>
<p>Ödemeleriniz tamamlandığında kampanyalardan yeniden yararlanabilirsiniz.</p>`))

func (s *duesService) SendReminders(ctx context.Context) (int, error) {
	if s.mailer == nil {
		s.logger.Info("dues reminders skipped, mail is not configured")
		return 0, nil
	}

	members, err := s.repo.Member.ListByApproval(ctx, true)
	if err != nil {
		return 0, err
	}

	now := s.now().In(s.cfg.Club.Location())
	sent := 0
	for i := range members {
		if err := ctx.Err(); err != nil {
			return sent, err
		}
		m := &members[i]
		if m.Email == "" {
			continue
		}

		records, err := s.repo.Dues.ListByUser(ctx, m.ID)
		if err != nil {
			s.logger.Error("list dues failed", zap.String("member_id", m.ID), zap.Error(err))
			continue
		}
		if IsDuesEligible(records, now) {
			continue
		}

		months := unpaidMonths(records, now)
		var body bytes.Buffer
		if err := reminderTemplate.Execute(&body, map[string]interface{}{
			"Name":   m.Name,
			"Months": months,
			"Amount": s.cfg.Club.DuesAmount,
			"IBAN":   s.cfg.Club.IBAN,
		}); err != nil {
			return sent, err
		}

		if err := s.mailer.Send(ctx, m.Email, "Aidat hatırlatması", body.String()); err != nil {
			s.logger.Warn("send dues reminder failed", zap.String("member_id", m.ID), zap.Error(err))
			continue
		}
		sent++
	}

	s.logger.Info("dues reminders sent", zap.Int("sent", sent), zap.Int("members", len(members)))
	return sent, nil
}

func (s *duesService) RollOverLedger(ctx context.Context) (int64, error) {
	ids, err := s.repo.Member.ListIDs(ctx)
	if err != nil {
		return 0, err
	}

	year := academicStartYear(s.now().In(s.cfg.Club.Location()))
	var created int64
	for _, id := range ids {
		n, err := s.repo.Dues.EnsureBatch(ctx, buildAcademicLedger(id, year, s.cfg.Club.DuesAmount, s.cfg.Club.IBAN))
		if err != nil {
			s.logger.Error("ensure ledger failed", zap.String("member_id", id), zap.Error(err))
			return created, err
		}
		created += n
	}

	s.logger.Info("ledger rollover finished", zap.Int("academic_year", year), zap.Int("members", len(ids)), zap.Int64("created", created))
	return created, nil
}

// unpaidMonths lists "Month Year" for every unpaid non-current record.
func unpaidMonths(records []model.Dues, now time.Time) []string {
	sorted := make([]model.Dues, len(records))
	copy(sorted, records)
	sortLedger(sorted)

	current := model.MonthName(now.Month())
	var out []string
	for _, d := range sorted {
		if d.IsPaid || (d.Month == current && d.Year == now.Year()) {
			continue
		}
		out = append(out, d.Month+" "+strconv.Itoa(d.Year))
	}
	return out
}

func toDuesResponse(d *model.Dues) dto.DuesResponse {
	return dto.DuesResponse{
		ID:          d.ID,
		UserID:      d.UserID,
		Month:       d.Month,
		Year:        d.Year,
		Amount:      d.Amount,
		IsPaid:      d.IsPaid,
		PaymentDate: d.PaymentDate,
		IBAN:        d.IBAN,
	}
}
