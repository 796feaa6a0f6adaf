package skylinetrips

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/skyline-trips/internal/config"
	"github.com/magabrotheeeer/skyline-trips/internal/lib/jwt"
	"github.com/magabrotheeeer/skyline-trips/internal/lib/sl"
	"github.com/magabrotheeeer/skyline-trips/internal/metrics"
	"github.com/magabrotheeeer/skyline-trips/internal/models"
	authservice "github.com/magabrotheeeer/skyline-trips/internal/services/auth"
	vacationservice "github.com/magabrotheeeer/skyline-trips/internal/services/vacation"
)

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error { return f(ctx) }

const secret = "routes-test-secret"

func newRouter(t *testing.T) http.Handler {
	t.Helper()
	logger := sl.Discard()
	r := chi.NewRouter()
	RegisterRoutes(r, Deps{
		Log:          logger,
		Env:          config.EnvProd,
		Auth:         authservice.NewAuthService(nil, nil, jwt.NewJWTMaker(secret, time.Hour), logger),
		Vacations:    vacationservice.NewVacationService(nil, nil, nil, nil, nil, logger, vacationservice.Settings{}),
		DB:           pingerFunc(func(context.Context) error { return nil }),
		Metrics:      metrics.New(),
		RateLimit:    config.RateLimit{RPS: 1, Burst: 5},
		MaxImageSize: 1 << 20,
	})
	return r
}

func bearer(t *testing.T, userID string, role models.Role) string {
	t.Helper()
	token, err := jwt.NewJWTMaker(secret, time.Hour).GenerateToken(userID, role)
	require.NoError(t, err)
	return "Bearer " + token
}

func TestRoutes_Access(t *testing.T) {
	router := newRouter(t)

	tests := []struct {
		name           string
		method         string
		path           string
		auth           string
		expectedStatus int
	}{
		{"list without token", http.MethodGet, "/api/vacations", "", http.StatusUnauthorized},
		{"report as user", http.MethodGet, "/api/vacations/report/json", bearer(t, "u1", models.RoleUser), http.StatusForbidden},
		{"create as user", http.MethodPost, "/api/vacations", bearer(t, "u1", models.RoleUser), http.StatusForbidden},
		{"delete as user", http.MethodDelete, "/api/vacations/v1", bearer(t, "u1", models.RoleUser), http.StatusForbidden},
		{"like as admin", http.MethodPost, "/api/vacations/v1/like", bearer(t, "a1", models.RoleAdmin), http.StatusForbidden},
		{"unknown route", http.MethodGet, "/api/nowhere", "", http.StatusNotFound},
		{"health", http.MethodGet, "/health", "", http.StatusOK},
		{"metrics", http.MethodGet, "/metrics", "", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			if tt.auth != "" {
				req.Header.Set("Authorization", tt.auth)
			}
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, req)
			assert.Equal(t, tt.expectedStatus, rr.Code)
		})
	}
}

func TestRoutes_NotFoundBody(t *testing.T) {
	rr := httptest.NewRecorder()
	newRouter(t).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/nowhere", nil))

	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.JSONEq(t, `{"status":"Error","error":"route not found: GET /api/nowhere"}`, rr.Body.String())
}
