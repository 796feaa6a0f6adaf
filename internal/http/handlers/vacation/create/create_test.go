package create

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/skyline-trips/internal/lib/apperr"
	"github.com/magabrotheeeer/skyline-trips/internal/models"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) Create(ctx context.Context, in models.VacationInput, img *models.ImageUpload) (*models.VacationView, error) {
	args := m.Called(ctx, in, img)
	res, _ := args.Get(0).(*models.VacationView)
	return res, args.Error(1)
}

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func multipartRequest(t *testing.T, withImage bool) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range map[string]string{
		"destination": "Paris",
		"description": "Five nights in Paris",
		"startDate":   "2030-06-16",
		"endDate":     "2030-06-21",
		"price":       "500",
	} {
		require.NoError(t, mw.WriteField(k, v))
	}
	if withImage {
		fw, err := mw.CreateFormFile("image", "paris.png")
		require.NoError(t, err)
		_, err = fw.Write(pngHeader)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/vacations", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestCreateHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))

	t.Run("created", func(t *testing.T) {
		svc := new(MockService)
		svc.On("Create", mock.Anything, mock.MatchedBy(func(in models.VacationInput) bool {
			return in.Destination == "Paris" && in.Price != nil && *in.Price == 500
		}), mock.MatchedBy(func(img *models.ImageUpload) bool {
			return img != nil && img.ContentType == "image/png"
		})).Return(&models.VacationView{ID: "v1", Destination: "Paris", ImageURL: "http://cdn/vacations/k"}, nil).Once()

		rr := httptest.NewRecorder()
		New(logger, svc, 1<<20).ServeHTTP(rr, multipartRequest(t, true))

		assert.Equal(t, http.StatusCreated, rr.Code)
		assert.Contains(t, rr.Body.String(), `"id":"v1"`)
		assert.Contains(t, rr.Body.String(), `"likesCount":0`)
		svc.AssertExpectations(t)
	})

	t.Run("missing image is rejected by service", func(t *testing.T) {
		svc := new(MockService)
		svc.On("Create", mock.Anything, mock.Anything, (*models.ImageUpload)(nil)).
			Return(nil, apperr.Validation("field image is a required field")).Once()

		rr := httptest.NewRecorder()
		New(logger, svc, 1<<20).ServeHTTP(rr, multipartRequest(t, false))

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.JSONEq(t, `{"status":"Error","error":"field image is a required field"}`, rr.Body.String())
	})

	t.Run("not multipart", func(t *testing.T) {
		svc := new(MockService)
		req := httptest.NewRequest(http.MethodPost, "/api/vacations", bytes.NewBufferString("{}"))
		req.Header.Set("Content-Type", "application/json")

		rr := httptest.NewRecorder()
		New(logger, svc, 1<<20).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		svc.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
	})
}
