package login

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/skyline-trips/internal/lib/apperr"
	"github.com/magabrotheeeer/skyline-trips/internal/models"
)

type AuthServiceMock struct {
	mock.Mock
}

func (m *AuthServiceMock) Login(ctx context.Context, in models.LoginInput) (string, error) {
	args := m.Called(ctx, in)
	return args.String(0), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestLoginHandler(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		setupMock      func(m *AuthServiceMock)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "success returns bare token string",
			body: `{"email":"ann@example.com","password":"secret"}`,
			setupMock: func(m *AuthServiceMock) {
				m.On("Login", mock.Anything, models.LoginInput{Email: "ann@example.com", Password: "secret"}).
					Return("header.payload.sig", nil).Once()
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"header.payload.sig"`,
		},
		{
			name:           "invalid json",
			body:           `{"email":`,
			setupMock:      func(_ *AuthServiceMock) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"status":"Error","error":"invalid request body"}`,
		},
		{
			name:           "validation error",
			body:           `{"email":"nope","password":""}`,
			setupMock:      func(_ *AuthServiceMock) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"status":"Error","error":"field email must be a valid email, field password is a required field"}`,
		},
		{
			name: "bad credentials",
			body: `{"email":"ann@example.com","password":"wrong"}`,
			setupMock: func(m *AuthServiceMock) {
				m.On("Login", mock.Anything, mock.Anything).
					Return("", apperr.Unauthorized("incorrect email or password")).Once()
			},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `{"status":"Error","error":"incorrect email or password"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(AuthServiceMock)
			tt.setupMock(svc)
			handler := New(newNoopLogger(), svc)

			req := httptest.NewRequest(http.MethodPost, "/api/login", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")
			rr := httptest.NewRecorder()

			handler.ServeHTTP(rr, req)

			assert.Equal(t, tt.expectedStatus, rr.Code)
			assert.JSONEq(t, tt.expectedBody, rr.Body.String())
			svc.AssertExpectations(t)
		})
	}
}

func TestLoginHandler_TokenIsJSONString(t *testing.T) {
	svc := new(AuthServiceMock)
	svc.On("Login", mock.Anything, mock.Anything).Return("abc.def.ghi", nil)

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/login", bytes.NewBufferString(`{"email":"a@b.co","password":"x"}`))
	New(newNoopLogger(), svc).ServeHTTP(rr, req)

	var token string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &token))
	assert.Equal(t, "abc.def.ghi", token)
}
