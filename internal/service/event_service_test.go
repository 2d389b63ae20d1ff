package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utkandevrim/ac/internal/dto"
	"github.com/utkandevrim/ac/pkg/storage"
)

func setupTestEventService() (*eventService, *testEnv, *fakeFileStore) {
	env := newTestEnv()
	files := &fakeFileStore{}
	svc := NewEventService(env.cfg, env.repo, files, env.logger).(*eventService)
	svc.now = fixedClock
	return svc, env, files
}

func TestEventService_CRUD(t *testing.T) {
	svc, _, _ := setupTestEventService()
	ctx := context.Background()
	date := time.Date(2025, time.November, 20, 19, 30, 0, 0, time.UTC)

	_, err := svc.Create(ctx, &dto.CreateEventRequest{Title: "Oyun", Description: "d", Date: date}, Caller{ID: "m"})
	assert.ErrorIs(t, err, ErrForbidden)

	e, err := svc.Create(ctx, &dto.CreateEventRequest{Title: " Hamlet Okuması ", Description: "Prova", Date: date}, adminCaller)
	require.NoError(t, err)
	assert.Equal(t, "Hamlet Okuması", e.Title)
	assert.NotNil(t, e.Photos)

	loc := "Kadıköy Sahnesi"
	updated, err := svc.Update(ctx, e.ID, &dto.UpdateEventRequest{Location: &loc}, adminCaller)
	require.NoError(t, err)
	assert.Equal(t, loc, updated.Location)
	assert.Equal(t, "Prova", updated.Description)

	got, err := svc.Get(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, loc, got.Location)

	require.NoError(t, svc.Delete(ctx, e.ID, adminCaller))
	_, err = svc.Get(ctx, e.ID)
	assert.ErrorIs(t, err, ErrEventNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, e.ID, adminCaller), ErrEventNotFound)
}

func TestEventService_ListNewestFirst(t *testing.T) {
	svc, _, _ := setupTestEventService()
	ctx := context.Background()

	empty, err := svc.List(ctx)
	require.NoError(t, err)
	assert.NotNil(t, empty)

	for i, title := range []string{"Eski", "Yeni"} {
		_, err := svc.Create(ctx, &dto.CreateEventRequest{
			Title: title, Description: "d", Date: time.Date(2025, time.January, 1+i, 0, 0, 0, 0, time.UTC),
		}, adminCaller)
		require.NoError(t, err)
	}

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Yeni", list[0].Title)
}

func TestEventService_UploadPhoto(t *testing.T) {
	svc, _, files := setupTestEventService()
	ctx := context.Background()
	e, err := svc.Create(ctx, &dto.CreateEventRequest{Title: "Gala", Description: "d", Date: fixedClock()}, adminCaller)
	require.NoError(t, err)

	updated, err := svc.UploadPhoto(ctx, e.ID, "gala.jpg", strings.NewReader("jpeg"), adminCaller)
	require.NoError(t, err)
	assert.Equal(t, []string{"/uploads/gala.jpg"}, []string(updated.Photos))

	_, err = svc.UploadPhoto(ctx, "missing", "gala.jpg", strings.NewReader("jpeg"), adminCaller)
	assert.ErrorIs(t, err, ErrEventNotFound)

	files.err = storage.ErrUnsupportedType
	_, err = svc.UploadPhoto(ctx, e.ID, "gala.exe", strings.NewReader("x"), adminCaller)
	assert.True(t, errors.Is(err, storage.ErrUnsupportedType))
}

func TestEventService_CalendarRoundTrip(t *testing.T) {
	svc, _, _ := setupTestEventService()
	ctx := context.Background()
	date := time.Date(2025, time.December, 5, 17, 0, 0, 0, time.UTC)
	e, err := svc.Create(ctx, &dto.CreateEventRequest{
		Title: "Yıl Sonu Gösterisi", Description: "Sahne, ışık; müzik", Date: date, Location: "Moda Sahnesi",
	}, adminCaller)
	require.NoError(t, err)

	feed, err := svc.Calendar(ctx)
	require.NoError(t, err)
	assert.Contains(t, feed, "BEGIN:VCALENDAR")
	assert.Contains(t, feed, "UID:"+e.ID+"@actor-club")
	assert.Contains(t, feed, "DTSTART:20251205T170000Z")
	assert.Contains(t, feed, "https://club.example/events/"+e.ID)

	imported, err := svc.ImportCalendar(ctx, strings.NewReader(feed), adminCaller)
	require.NoError(t, err)
	require.Len(t, imported, 1)
	assert.Equal(t, "Yıl Sonu Gösterisi", imported[0].Title)
	assert.Equal(t, "Sahne, ışık; müzik", imported[0].Description)
	assert.Equal(t, "Moda Sahnesi", imported[0].Location)
	assert.True(t, imported[0].Date.Equal(date))
}

func TestEventService_ImportCalendar(t *testing.T) {
	svc, _, _ := setupTestEventService()
	ctx := context.Background()

	ics := strings.Join([]string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:-//test//EN",
		"BEGIN:VEVENT",
		"UID:1@test",
		"DTSTART;TZID=Europe/Istanbul:20251110T200000",
		"SUMMARY:Doğaçlama Atölyesi",
		"END:VEVENT",
		"BEGIN:VEVENT",
		"UID:2@test",
		"DTSTART:20251111",
		"END:VEVENT",
		"END:VCALENDAR",
		"",
	}, "\r\n")

	_, err := svc.ImportCalendar(ctx, strings.NewReader(ics), Caller{ID: "m"})
	assert.ErrorIs(t, err, ErrForbidden)

	created, err := svc.ImportCalendar(ctx, strings.NewReader(ics), adminCaller)
	require.NoError(t, err)
	require.Len(t, created, 1, "events without a summary are skipped")
	assert.Equal(t, "Doğaçlama Atölyesi", created[0].Title)
	assert.True(t, created[0].Date.Equal(time.Date(2025, time.November, 10, 17, 0, 0, 0, time.UTC)))

	list, _ := svc.List(ctx)
	assert.Len(t, list, 1)
}
