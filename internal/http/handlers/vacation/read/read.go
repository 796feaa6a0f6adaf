// Package read реализует HTTP-обработчик для получения отпуска по ID.
package read

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/skyline-trips/internal/http/middlewarectx"
	"github.com/magabrotheeeer/skyline-trips/internal/http/response"
	"github.com/magabrotheeeer/skyline-trips/internal/lib/apperr"
	"github.com/magabrotheeeer/skyline-trips/internal/models"
)

// Handler обрабатывает запросы на получение отпуска по идентификатору.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики чтения отпуска.
type Service interface {
	Get(ctx context.Context, caller models.Identity, id string) (*models.VacationView, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Получить отпуск
// @Tags Vacations
// @Produce  json
// @Security BearerAuth
// @Param id path string true "ID отпуска"
// @Success 200 {object} models.VacationView
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 404 {object} response.ErrorResponse "Отпуск не найден"
// @Router /vacations/{id} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.vacation.read"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	caller, ok := middlewarectx.IdentityFrom(r.Context())
	if !ok {
		response.Fail(w, r, log, apperr.Unauthorized("unauthorized"))
		return
	}

	id := chi.URLParam(r, "id")
	view, err := h.service.Get(r.Context(), caller, id)
	if err != nil {
		response.Fail(w, r, log, err)
		return
	}

	render.JSON(w, r, view)
}
