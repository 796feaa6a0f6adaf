// Package skylinetrips собирает HTTP-приложение: зависимости, маршруты и сервер.
package skylinetrips

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/magabrotheeeer/skyline-trips/internal/config"
	"github.com/magabrotheeeer/skyline-trips/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/skyline-trips/internal/http/handlers/auth/register"
	"github.com/magabrotheeeer/skyline-trips/internal/http/handlers/health"
	"github.com/magabrotheeeer/skyline-trips/internal/http/handlers/notfound"
	"github.com/magabrotheeeer/skyline-trips/internal/http/handlers/vacation/create"
	"github.com/magabrotheeeer/skyline-trips/internal/http/handlers/vacation/like"
	"github.com/magabrotheeeer/skyline-trips/internal/http/handlers/vacation/list"
	"github.com/magabrotheeeer/skyline-trips/internal/http/handlers/vacation/read"
	"github.com/magabrotheeeer/skyline-trips/internal/http/handlers/vacation/remove"
	"github.com/magabrotheeeer/skyline-trips/internal/http/handlers/vacation/report"
	"github.com/magabrotheeeer/skyline-trips/internal/http/handlers/vacation/update"
	"github.com/magabrotheeeer/skyline-trips/internal/http/middlewarectx"
	"github.com/magabrotheeeer/skyline-trips/internal/http/response"
	"github.com/magabrotheeeer/skyline-trips/internal/metrics"
	authservice "github.com/magabrotheeeer/skyline-trips/internal/services/auth"
	vacationservice "github.com/magabrotheeeer/skyline-trips/internal/services/vacation"
)

// Deps зависимости, нужные для регистрации маршрутов.
type Deps struct {
	Log          *slog.Logger
	Env          string
	Auth         *authservice.AuthService
	Vacations    *vacationservice.VacationService
	DB           health.Pinger
	Metrics      *metrics.Metrics
	RateLimit    config.RateLimit
	MaxImageSize int64
}

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, d Deps) {
	logger := d.Log

	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		response.HideInternalErrors(d.Env == config.EnvProd),
		middlewarectx.MetricsMiddleware(d.Metrics),
	)

	r.Route("/api", func(r chi.Router) {
		// Открытые конечные точки
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.RateLimitMiddleware(logger, d.RateLimit.RPS, d.RateLimit.Burst))
			r.Post("/register", register.New(logger, d.Auth).ServeHTTP)
			r.Post("/login", login.New(logger, d.Auth).ServeHTTP)
		})

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(d.Auth, logger))

			r.Get("/vacations", list.New(logger, d.Vacations).ServeHTTP)
			r.Get("/vacations/{id}", read.New(logger, d.Vacations).ServeHTTP)
			r.Post("/vacations/{id}/like", like.New(logger, d.Vacations, like.Add).ServeHTTP)
			r.Delete("/vacations/{id}/like", like.New(logger, d.Vacations, like.Remove).ServeHTTP)

			// Только для администратора
			r.Group(func(r chi.Router) {
				r.Use(middlewarectx.RequireAdmin(logger))
				r.Get("/vacations/report/json", report.NewJSON(logger, d.Vacations).ServeHTTP)
				r.Get("/vacations/report/csv", report.NewCSV(logger, d.Vacations).ServeHTTP)
				r.Post("/vacations", create.New(logger, d.Vacations, d.MaxImageSize).ServeHTTP)
				r.Patch("/vacations/{id}", update.New(logger, d.Vacations, d.MaxImageSize).ServeHTTP)
				r.Delete("/vacations/{id}", remove.New(logger, d.Vacations).ServeHTTP)
			})
		})
	})

	r.Get("/health", health.New(logger, d.DB).ServeHTTP)
	r.Handle("/metrics", d.Metrics.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)

	r.NotFound(notfound.New(logger))
}
