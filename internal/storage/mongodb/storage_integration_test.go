//go:build integration

package mongodb

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcmongo "github.com/testcontainers/testcontainers-go/modules/mongodb"

	"github.com/magabrotheeeer/skyline-trips/internal/migrations"
	"github.com/magabrotheeeer/skyline-trips/internal/models"
)

// setupTestStorage поднимает MongoDB в контейнере и возвращает хранилище на чистой базе.
func setupTestStorage(t *testing.T) *Storage {
	ctx := context.Background()

	container, err := tcmongo.Run(ctx, "mongo:7")
	require.NoError(t, err, "failed to start container")
	t.Cleanup(func() {
		_ = testcontainers.TerminateContainer(container)
	})

	uri, err := container.ConnectionString(ctx)
	require.NoError(t, err)

	storage, err := New(ctx, uri, "skyline_test", 10*time.Second)
	require.NoError(t, err)
	t.Cleanup(func() { _ = storage.Close(context.Background()) })

	return storage
}

func day(offset int) time.Time {
	return models.StartOfDay(time.Now()).AddDate(0, 0, offset)
}

func createVacation(t *testing.T, s *Storage, destination string, start, end time.Time) string {
	t.Helper()
	id, err := s.CreateVacation(context.Background(), models.Vacation{
		Destination: destination,
		Description: "A lovely trip somewhere nice",
		StartDate:   start,
		EndDate:     end,
		Price:       500,
		Image:       models.Image{URL: "http://img/" + destination, Key: "vacations/" + destination},
	})
	require.NoError(t, err)
	return id
}

func TestStorage_VacationLifecycle(t *testing.T) {
	s := setupTestStorage(t)
	ctx := context.Background()

	id := createVacation(t, s, "Paris", day(1), day(6))

	view, err := s.GetVacationView(ctx, id, "u1")
	require.NoError(t, err)
	assert.Equal(t, 0, view.LikesCount)
	assert.False(t, view.LikedByMe)
	assert.Equal(t, "http://img/Paris", view.ImageURL)

	require.NoError(t, s.AddLike(ctx, id, "u1"))
	require.NoError(t, s.AddLike(ctx, id, "u1"))
	view, err = s.GetVacationView(ctx, id, "u1")
	require.NoError(t, err)
	assert.Equal(t, 1, view.LikesCount)
	assert.True(t, view.LikedByMe)

	require.NoError(t, s.RemoveLike(ctx, id, "u1"))
	require.NoError(t, s.RemoveLike(ctx, id, "u1"))
	view, err = s.GetVacationView(ctx, id, "u1")
	require.NoError(t, err)
	assert.Equal(t, 0, view.LikesCount)

	require.NoError(t, s.AddLike(ctx, id, "u2"))
	v, err := s.GetVacation(ctx, id)
	require.NoError(t, err)
	v.Destination = "Lyon"
	require.NoError(t, s.UpdateVacation(ctx, *v))
	v, err = s.GetVacation(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Lyon", v.Destination)
	assert.Equal(t, []string{"u2"}, v.LikedUserIDs)

	require.NoError(t, s.DeleteVacation(ctx, id))
	_, err = s.GetVacation(ctx, id)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, s.DeleteVacation(ctx, id), ErrNotFound)
	assert.ErrorIs(t, s.AddLike(ctx, id, "u1"), ErrNotFound)
}

func TestStorage_ListVacations(t *testing.T) {
	s := setupTestStorage(t)
	ctx := context.Background()
	now := time.Now().UTC()

	past := createVacation(t, s, "Past", day(-10), day(-5))
	active := createVacation(t, s, "Active", day(-1), day(3))
	for i := range 5 {
		createVacation(t, s, "Future", day(2+i), day(10+i))
	}
	require.NoError(t, s.AddLike(ctx, active, "u1"))
	require.NoError(t, s.AddLike(ctx, past, "u1"))

	tests := []struct {
		name      string
		filter    models.Filter
		userID    string
		wantTotal int64
	}{
		{name: "all", filter: models.FilterAll, userID: "u1", wantTotal: 7},
		{name: "liked", filter: models.FilterLiked, userID: "u1", wantTotal: 2},
		{name: "liked without user", filter: models.FilterLiked, wantTotal: 7},
		{name: "active", filter: models.FilterActive, wantTotal: 1},
		{name: "upcoming", filter: models.FilterUpcoming, wantTotal: 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var seen int64
			var prev time.Time
			for page := 1; page <= 3; page++ {
				q := models.ListQuery{Filter: tt.filter, UserID: tt.userID, Page: page, PageSize: 3, Now: now}
				items, total, err := s.ListVacations(ctx, q)
				require.NoError(t, err)
				assert.Equal(t, tt.wantTotal, total)
				for _, it := range items {
					assert.False(t, it.StartDate.Before(prev), "ordered by start date")
					prev = it.StartDate.Time
				}
				seen += int64(len(items))
			}
			assert.Equal(t, tt.wantTotal, seen)
		})
	}
}

func TestStorage_LikesReport(t *testing.T) {
	s := setupTestStorage(t)
	ctx := context.Background()

	paris := createVacation(t, s, "Paris", day(1), day(2))
	createVacation(t, s, `São "Tropez"`, day(1), day(2))
	for _, u := range []string{"u1", "u2", "u3"} {
		require.NoError(t, s.AddLike(ctx, paris, u))
	}

	rows, err := s.LikesReport(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []models.LikesReportRow{
		{Destination: "Paris", Likes: 3},
		{Destination: `São "Tropez"`, Likes: 0},
	}, rows)
}

func TestStorage_Users(t *testing.T) {
	s := setupTestStorage(t)
	ctx := context.Background()

	require.NoError(t, migrations.Run(s.Client(), "skyline_test", "../../../migrations"))

	id, err := s.CreateUser(ctx, models.User{FirstName: "Ann", LastName: "Lee", Email: "Ann@Example.com", PasswordHash: "h", Role: models.RoleUser})
	require.NoError(t, err)

	u, err := s.GetUserByEmail(ctx, "ann@example.com")
	require.NoError(t, err)
	assert.Equal(t, id, u.ID)
	assert.Equal(t, models.RoleUser, u.Role)

	_, err = s.CreateUser(ctx, models.User{Email: "ann@example.com", Role: models.RoleUser})
	assert.ErrorIs(t, err, ErrDuplicate)

	_, err = s.GetUserByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, ErrNotFound)
}
