package like

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/skyline-trips/internal/http/middlewarectx"
	"github.com/magabrotheeeer/skyline-trips/internal/lib/apperr"
	"github.com/magabrotheeeer/skyline-trips/internal/models"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) Like(ctx context.Context, caller models.Identity, id string) (*models.VacationView, error) {
	args := m.Called(ctx, caller, id)
	res, _ := args.Get(0).(*models.VacationView)
	return res, args.Error(1)
}

func (m *MockService) Unlike(ctx context.Context, caller models.Identity, id string) (*models.VacationView, error) {
	args := m.Called(ctx, caller, id)
	res, _ := args.Get(0).(*models.VacationView)
	return res, args.Error(1)
}

func newRequest(method string, caller models.Identity) *http.Request {
	req := httptest.NewRequest(method, "/api/vacations/v1/like", nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", "v1")
	ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
	return req.WithContext(middlewarectx.WithIdentity(ctx, caller))
}

var logger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))

func TestLikeHandler(t *testing.T) {
	user := models.Identity{UserID: "u1", Role: models.RoleUser}
	svc := new(MockService)
	svc.On("Like", mock.Anything, user, "v1").Return(&models.VacationView{ID: "v1", LikesCount: 1, LikedByMe: true}, nil).Once()

	rr := httptest.NewRecorder()
	New(logger, svc, Add).ServeHTTP(rr, newRequest(http.MethodPost, user))

	require.Equal(t, http.StatusOK, rr.Code)
	var view models.VacationView
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &view))
	assert.Equal(t, 1, view.LikesCount)
	assert.True(t, view.LikedByMe)
	svc.AssertExpectations(t)
}

func TestUnlikeHandler(t *testing.T) {
	user := models.Identity{UserID: "u1", Role: models.RoleUser}
	svc := new(MockService)
	svc.On("Unlike", mock.Anything, user, "v1").Return(&models.VacationView{ID: "v1"}, nil).Once()

	rr := httptest.NewRecorder()
	New(logger, svc, Remove).ServeHTTP(rr, newRequest(http.MethodDelete, user))

	assert.Equal(t, http.StatusOK, rr.Code)
	svc.AssertExpectations(t)
	svc.AssertNotCalled(t, "Like", mock.Anything, mock.Anything, mock.Anything)
}

func TestLikeHandler_AdminForbidden(t *testing.T) {
	admin := models.Identity{UserID: "a1", Role: models.RoleAdmin}
	svc := new(MockService)
	svc.On("Like", mock.Anything, admin, "v1").Return(nil, apperr.Forbidden("admin cannot like vacations")).Once()

	rr := httptest.NewRecorder()
	New(logger, svc, Add).ServeHTTP(rr, newRequest(http.MethodPost, admin))

	assert.Equal(t, http.StatusForbidden, rr.Code)
	assert.JSONEq(t, `{"status":"Error","error":"admin cannot like vacations"}`, rr.Body.String())
}
