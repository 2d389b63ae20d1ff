package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utkandevrim/ac/internal/dto"
	"github.com/utkandevrim/ac/internal/model"
	apperrors "github.com/utkandevrim/ac/pkg/errors"
	"github.com/utkandevrim/ac/pkg/validator"
)

func setupTestMemberService() (*memberService, *testEnv) {
	env := newTestEnv()
	svc := newMemberService(env.cfg, env.repo, env.logger)
	svc.now = fixedClock
	return svc, env
}

func createReq(username, email, password string) *dto.CreateMemberRequest {
	return &dto.CreateMemberRequest{
		Username: username,
		Email:    email,
		Password: password,
		Name:     "Ayşe",
		Surname:  "Yılmaz",
	}
}

func mustCreate(t *testing.T, svc *memberService, username, email string) *dto.MemberResponse {
	t.Helper()
	resp, err := svc.Create(context.Background(), createReq(username, email, "Gecerli1!"), adminCaller)
	require.NoError(t, err)
	return resp
}

// ── Create ──

func TestMemberService_Create_Scenario(t *testing.T) {
	svc, env := setupTestMemberService()
	ctx := context.Background()

	created, err := svc.Create(ctx, createReq("ayse.yilmaz", "ayse@example.com", "Gecerli1!"), adminCaller)
	require.NoError(t, err)
	assert.Equal(t, "ayse.yilmaz", created.Username)
	assert.True(t, created.IsApproved)
	assert.False(t, created.IsAdmin)

	stored, _ := env.members.GetByID(ctx, created.ID)
	assert.NotEqual(t, "Gecerli1!", stored.PasswordHash)
	assert.NotEmpty(t, stored.PasswordHash)

	_, err = svc.Create(ctx, createReq("ayse.yilmaz", "other@example.com", "Gecerli1!"), adminCaller)
	assert.ErrorIs(t, err, ErrUsernameTaken)
	assert.Equal(t, apperrors.ErrConflict, apperrors.KindOf(err))

	_, err = svc.Create(ctx, createReq("AYSE.yilmaz", "third@example.com", "Gecerli1!"), adminCaller)
	var ve *apperrors.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, validator.RuleUsernameFormat, ve.Rule)

	_, err = svc.Create(ctx, createReq("mehmet.kaya", "fourth@example.com", "short1!"), adminCaller)
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, validator.RulePasswordLength, ve.Rule)
}

func TestMemberService_Create_EmailCheckedBeforeUsername(t *testing.T) {
	svc, _ := setupTestMemberService()
	mustCreate(t, svc, "ayse.yilmaz", "ayse@example.com")

	_, err := svc.Create(context.Background(), createReq("ayse.yilmaz", "AYSE@example.com ", "Gecerli1!"), adminCaller)
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestMemberService_Create_BuildsLedger(t *testing.T) {
	svc, env := setupTestMemberService()
	created := mustCreate(t, svc, "ayse.yilmaz", "ayse@example.com")

	records, _ := env.dues.ListByUser(context.Background(), created.ID)
	require.Len(t, records, 10)

	months := make(map[string]bool)
	for _, d := range records {
		months[d.Month] = true
		assert.Equal(t, 2025, d.Year)
		assert.False(t, d.IsPaid)
		assert.Nil(t, d.PaymentDate)
		assert.Equal(t, 1000, d.Amount)
		assert.Equal(t, "TR00 TEST", d.IBAN)
	}
	for _, m := range model.AcademicMonths {
		assert.True(t, months[m], "missing month %s", m)
	}
}

func TestMemberService_Create_NonAdminForbidden(t *testing.T) {
	svc, env := setupTestMemberService()

	_, err := svc.Create(context.Background(), createReq("ayse.yilmaz", "ayse@example.com", "Gecerli1!"), Caller{ID: "u1"})
	assert.ErrorIs(t, err, ErrForbidden)
	assert.Empty(t, env.members.members)
}

func TestMemberService_Create_LedgerFailureSurfaces(t *testing.T) {
	svc, env := setupTestMemberService()
	env.dues.failOn = "disk full"

	_, err := svc.Create(context.Background(), createReq("ayse.yilmaz", "ayse@example.com", "Gecerli1!"), adminCaller)
	assert.Error(t, err)
}

// ── List / Search ──

func TestMemberService_ListApprovedAndPending(t *testing.T) {
	svc, env := setupTestMemberService()
	ctx := context.Background()
	mustCreate(t, svc, "ayse.yilmaz", "ayse@example.com")
	_ = env.members.Create(ctx, &model.Member{Username: "ali.veli", Email: "ali@example.com", Name: "Ali", Surname: "Veli"})

	approved, err := svc.ListApproved(ctx)
	require.NoError(t, err)
	require.Len(t, approved, 1)
	assert.Equal(t, "ayse.yilmaz", approved[0].Username)

	_, err = svc.ListPending(ctx, Caller{ID: "x"})
	assert.ErrorIs(t, err, ErrForbidden)

	pending, err := svc.ListPending(ctx, adminCaller)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "ali.veli", pending[0].Username)
}

func TestMemberService_ListApproved_DoesNotRepairUsernames(t *testing.T) {
	svc, env := setupTestMemberService()
	ctx := context.Background()
	_ = env.members.Create(ctx, &model.Member{Email: "eski@example.com", Name: "Öykü", Surname: "Güneş", IsApproved: true})

	list, err := svc.ListApproved(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Empty(t, list[0].Username)
}

func TestMemberService_Search(t *testing.T) {
	svc, _ := setupTestMemberService()
	mustCreate(t, svc, "ayse.yilmaz", "ayse@example.com")

	for _, q := range []string{"Yıl", "AYŞE", "AYSE@EXAMPLE"} {
		found, err := svc.Search(context.Background(), q)
		require.NoError(t, err)
		assert.Len(t, found, 1, q)
	}

	// matching is case-insensitive, not accent-folding
	found, err := svc.Search(context.Background(), "yilmaz")
	require.NoError(t, err)
	assert.Empty(t, found)

	found, err = svc.Search(context.Background(), "   ")
	require.NoError(t, err)
	assert.Empty(t, found)
}

// ── Update ──

func TestMemberService_Update(t *testing.T) {
	svc, _ := setupTestMemberService()
	ctx := context.Background()
	m := mustCreate(t, svc, "ayse.yilmaz", "ayse@example.com")
	self := Caller{ID: m.ID}

	phone := "555 000 11 22"
	projects := []string{"Hamlet"}
	updated, err := svc.Update(ctx, m.ID, &dto.UpdateMemberRequest{Phone: &phone, Projects: &projects}, self)
	require.NoError(t, err)
	assert.Equal(t, phone, updated.Phone)
	assert.Equal(t, []string{"Hamlet"}, updated.Projects)
	assert.Equal(t, "Ayşe", updated.Name, "absent fields stay unchanged")

	_, err = svc.Update(ctx, m.ID, &dto.UpdateMemberRequest{Phone: &phone}, Caller{ID: "someone-else"})
	assert.ErrorIs(t, err, ErrForbidden)

	yes := true
	_, err = svc.Update(ctx, m.ID, &dto.UpdateMemberRequest{IsAdmin: &yes}, self)
	assert.ErrorIs(t, err, ErrPrivilegedFieldSet)

	board := "Başkan"
	updated, err = svc.Update(ctx, m.ID, &dto.UpdateMemberRequest{BoardMember: &board}, adminCaller)
	require.NoError(t, err)
	assert.Equal(t, board, updated.BoardMember)

	_, err = svc.Update(ctx, "missing", &dto.UpdateMemberRequest{Phone: &phone}, adminCaller)
	assert.ErrorIs(t, err, ErrMemberNotFound)
}

func TestMemberService_Update_AdminCannotDemoteSelf(t *testing.T) {
	svc, env := setupTestMemberService()
	ctx := context.Background()
	m := mustCreate(t, svc, "ayse.yilmaz", "ayse@example.com")
	stored, _ := env.members.GetByID(ctx, m.ID)
	stored.IsAdmin = true

	no := false
	_, err := svc.Update(ctx, m.ID, &dto.UpdateMemberRequest{IsAdmin: &no}, Caller{ID: m.ID, IsAdmin: true})
	assert.ErrorIs(t, err, ErrSelfAdminChange)
}

// ── Delete ──

func TestMemberService_Delete_CascadesDues(t *testing.T) {
	svc, env := setupTestMemberService()
	ctx := context.Background()
	m := mustCreate(t, svc, "ayse.yilmaz", "ayse@example.com")

	assert.ErrorIs(t, svc.Delete(ctx, m.ID, Caller{ID: "x"}), ErrForbidden)
	assert.ErrorIs(t, svc.Delete(ctx, adminCaller.ID, adminCaller), ErrSelfDelete)

	require.NoError(t, svc.Delete(ctx, m.ID, adminCaller))
	records, _ := env.dues.ListByUser(ctx, m.ID)
	assert.Empty(t, records)
	_, err := env.members.GetByID(ctx, m.ID)
	assert.Error(t, err)

	assert.ErrorIs(t, svc.Delete(ctx, m.ID, adminCaller), ErrMemberNotFound)
}

// ── Approve / SetAdmin ──

func TestMemberService_ApproveAndSetAdmin(t *testing.T) {
	svc, env := setupTestMemberService()
	ctx := context.Background()
	pending := &model.Member{Username: "ali.veli", Email: "ali@example.com", Name: "Ali", Surname: "Veli"}
	_ = env.members.Create(ctx, pending)

	_, err := svc.Approve(ctx, pending.ID, Caller{ID: "x"})
	assert.ErrorIs(t, err, ErrForbidden)

	resp, err := svc.Approve(ctx, pending.ID, adminCaller)
	require.NoError(t, err)
	assert.True(t, resp.IsApproved)

	resp, err = svc.SetAdmin(ctx, pending.ID, true, adminCaller)
	require.NoError(t, err)
	assert.True(t, resp.IsAdmin)

	_, err = svc.SetAdmin(ctx, adminCaller.ID, false, adminCaller)
	assert.ErrorIs(t, err, ErrSelfAdminChange)

	_, err = svc.Approve(ctx, "missing", adminCaller)
	assert.ErrorIs(t, err, ErrMemberNotFound)
}

// ── BackfillUsernames ──

func TestMemberService_BackfillUsernames(t *testing.T) {
	svc, env := setupTestMemberService()
	ctx := context.Background()
	mustCreate(t, svc, "ayse.yilmaz", "ayse@example.com")

	legacy := []*model.Member{
		{ID: "a", Email: "a@example.com", Name: "İbrahim", Surname: "Şanlı"},
		{ID: "b", Email: "b@example.com", Name: "Ayşe", Surname: "Yılmaz"},
		{ID: "c", Email: "c@example.com", Name: "123", Surname: "Eser"},
	}
	for _, m := range legacy {
		require.NoError(t, env.members.Create(ctx, m))
	}

	result, err := svc.BackfillUsernames(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a -> ibrahim.sanli"}, result.Updated)
	assert.Equal(t, []string{"b -> ayse.yilmaz"}, result.Collisions)
	assert.Equal(t, []string{"c"}, result.Skipped)

	a, _ := env.members.GetByID(ctx, "a")
	assert.Equal(t, "ibrahim.sanli", a.Username)

	again, err := svc.BackfillUsernames(ctx)
	require.NoError(t, err)
	assert.Empty(t, again.Updated)
}
