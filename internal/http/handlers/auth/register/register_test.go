package register

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/skyline-trips/internal/lib/apperr"
	"github.com/magabrotheeeer/skyline-trips/internal/models"
)

type AuthServiceMock struct {
	mock.Mock
}

func (m *AuthServiceMock) Register(ctx context.Context, in models.RegisterInput) (string, error) {
	args := m.Called(ctx, in)
	return args.String(0), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestRegisterHandler(t *testing.T) {
	valid := models.RegisterInput{FirstName: "Ann", LastName: "Lee", Email: "ann@example.com", Password: "secret"}

	tests := []struct {
		name           string
		body           string
		setupMock      func(m *AuthServiceMock)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "success",
			body: `{"firstName":"Ann","lastName":"Lee","email":"ann@example.com","password":"secret"}`,
			setupMock: func(m *AuthServiceMock) {
				m.On("Register", mock.Anything, valid).Return("header.payload.sig", nil).Once()
			},
			expectedStatus: http.StatusCreated,
			expectedBody:   `"header.payload.sig"`,
		},
		{
			name:           "invalid json",
			body:           `not json`,
			setupMock:      func(_ *AuthServiceMock) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"status":"Error","error":"invalid request body"}`,
		},
		{
			name:           "short names",
			body:           `{"firstName":"A","lastName":"Lee","email":"ann@example.com","password":"secret"}`,
			setupMock:      func(_ *AuthServiceMock) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"status":"Error","error":"field firstName must be at least 2"}`,
		},
		{
			name: "email taken",
			body: `{"firstName":"Ann","lastName":"Lee","email":"ann@example.com","password":"secret"}`,
			setupMock: func(m *AuthServiceMock) {
				m.On("Register", mock.Anything, valid).Return("", apperr.Validation("email already exists")).Once()
			},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"status":"Error","error":"email already exists"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(AuthServiceMock)
			tt.setupMock(svc)
			handler := New(newNoopLogger(), svc)

			req := httptest.NewRequest(http.MethodPost, "/api/register", bytes.NewBufferString(tt.body))
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			assert.Equal(t, tt.expectedStatus, rr.Code)
			assert.JSONEq(t, tt.expectedBody, rr.Body.String())
			svc.AssertExpectations(t)
		})
	}
}
