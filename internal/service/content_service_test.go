package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utkandevrim/ac/internal/dto"
	"github.com/utkandevrim/ac/internal/model"
	apperrors "github.com/utkandevrim/ac/pkg/errors"
	"github.com/utkandevrim/ac/pkg/storage"
)

// ── ContentService ──

func TestContentService_AboutDefaultsToEmpty(t *testing.T) {
	env := newTestEnv()
	svc := NewContentService(env.repo, env.logger)

	about, err := svc.GetAbout(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "", about.Content)
	assert.Equal(t, []string{}, about.Photos)
	assert.Nil(t, about.LastUpdated)
}

func TestContentService_UpdateAbout(t *testing.T) {
	env := newTestEnv()
	svc := NewContentService(env.repo, env.logger)
	ctx := context.Background()

	_, err := svc.UpdateAbout(ctx, &dto.UpdateAboutRequest{Content: "x"}, Caller{ID: "m"})
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = svc.UpdateAbout(ctx, &dto.UpdateAboutRequest{Content: "Kulübümüz 2010'da kuruldu."}, adminCaller)
	require.NoError(t, err)

	about, err := svc.GetAbout(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Kulübümüz 2010'da kuruldu.", about.Content)
	assert.Equal(t, []string{}, about.Photos)
	assert.NotNil(t, about.LastUpdated)
}

func TestContentService_Homepage(t *testing.T) {
	env := newTestEnv()
	svc := NewContentService(env.repo, env.logger)
	ctx := context.Background()

	_, err := svc.UpdateHomepage(ctx, &dto.UpdateHomepageRequest{
		HeroTitle:    "Sahne Sizin",
		HeroSubtitle: "Her hafta prova",
		Photos:       []string{"/uploads/a.jpg"},
	}, adminCaller)
	require.NoError(t, err)

	home, err := svc.GetHomepage(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Sahne Sizin", home.HeroTitle)
	assert.Equal(t, []string{"/uploads/a.jpg"}, home.Photos)

	about, err := svc.GetAbout(ctx)
	require.NoError(t, err)
	assert.Empty(t, about.Content, "singletons are independent")
}

// ── LeadershipService ──

func TestLeadershipService(t *testing.T) {
	env := newTestEnv()
	env.leaders.leaders["l1"] = &model.Leader{ID: "l1", Name: "Ayşe Yılmaz", Position: "Başkan", SortOrder: 2}
	env.leaders.leaders["l2"] = &model.Leader{ID: "l2", Name: "Ali Veli", Position: "Kurucu", SortOrder: 1}
	svc := NewLeadershipService(env.repo, env.logger)
	ctx := context.Background()

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "l2", list[0].ID)

	photo := "/uploads/ayse.jpg"
	_, err = svc.Update(ctx, "l1", &dto.UpdateLeaderRequest{Photo: &photo}, Caller{ID: "m"})
	assert.ErrorIs(t, err, ErrForbidden)

	order := 0
	updated, err := svc.Update(ctx, "l1", &dto.UpdateLeaderRequest{Photo: &photo, Order: &order}, adminCaller)
	require.NoError(t, err)
	assert.Equal(t, photo, updated.Photo)
	assert.Equal(t, "Başkan", updated.Position)

	list, _ = svc.List(ctx)
	assert.Equal(t, "l1", list[0].ID)

	_, err = svc.Update(ctx, "missing", &dto.UpdateLeaderRequest{}, adminCaller)
	assert.ErrorIs(t, err, ErrLeaderNotFound)
}

// ── UploadService ──

func TestUploadService(t *testing.T) {
	files := &fakeFileStore{}
	svc := NewUploadService(files, newTestEnv().logger)
	ctx := context.Background()

	_, err := svc.Upload(ctx, "poster.png", strings.NewReader("png"), Caller{ID: "m"})
	assert.ErrorIs(t, err, ErrForbidden)

	resp, err := svc.Upload(ctx, "poster.png", strings.NewReader("png"), adminCaller)
	require.NoError(t, err)
	assert.Equal(t, "/uploads/poster.png", resp.FileURL)

	files.err = storage.ErrTooLarge
	_, err = svc.Upload(ctx, "big.png", strings.NewReader("png"), adminCaller)
	assert.Equal(t, apperrors.ErrBadRequest, apperrors.KindOf(err))
}
