package update

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"mime/multipart"
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

func (m *MockService) Update(ctx context.Context, caller models.Identity, id string, in models.VacationInput, img *models.ImageUpload) (*models.VacationView, error) {
	args := m.Called(ctx, caller, id, in, img)
	res, _ := args.Get(0).(*models.VacationView)
	return res, args.Error(1)
}

var admin = models.Identity{UserID: "a1", Role: models.RoleAdmin}

func newRequest(t *testing.T, id string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.WriteField("destination", "Rome"))
	require.NoError(t, mw.WriteField("description", "A week in Rome"))
	require.NoError(t, mw.WriteField("startDate", "2020-01-01"))
	require.NoError(t, mw.WriteField("endDate", "2020-01-07"))
	require.NoError(t, mw.WriteField("price", "99.5"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPatch, "/api/vacations/"+id, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", id)
	ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
	return req.WithContext(middlewarectx.WithIdentity(ctx, admin))
}

func TestUpdateHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))

	t.Run("without image", func(t *testing.T) {
		svc := new(MockService)
		svc.On("Update", mock.Anything, admin, "v1", mock.MatchedBy(func(in models.VacationInput) bool {
			return in.Destination == "Rome" && *in.Price == 99.5
		}), (*models.ImageUpload)(nil)).Return(&models.VacationView{ID: "v1", Destination: "Rome"}, nil).Once()

		rr := httptest.NewRecorder()
		New(logger, svc, 1<<20).ServeHTTP(rr, newRequest(t, "v1"))

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), `"destination":"Rome"`)
		svc.AssertExpectations(t)
	})

	t.Run("not found", func(t *testing.T) {
		svc := new(MockService)
		svc.On("Update", mock.Anything, admin, "v404", mock.Anything, mock.Anything).Return(nil, apperr.NotFound("v404")).Once()

		rr := httptest.NewRecorder()
		New(logger, svc, 1<<20).ServeHTTP(rr, newRequest(t, "v404"))

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}
