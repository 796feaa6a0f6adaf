// Package list реализует HTTP-обработчик постраничного списка отпусков с фильтром.
package list

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/skyline-trips/internal/http/middlewarectx"
	"github.com/magabrotheeeer/skyline-trips/internal/http/response"
	"github.com/magabrotheeeer/skyline-trips/internal/lib/apperr"
	"github.com/magabrotheeeer/skyline-trips/internal/models"
	services "github.com/magabrotheeeer/skyline-trips/internal/services/vacation"
)

// Handler обрабатывает запросы на получение страницы отпусков.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики списка отпусков.
type Service interface {
	List(ctx context.Context, caller models.Identity, p services.ListParams) (*models.VacationPage, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Список отпусков
// @Description Возвращает страницу отпусков, отсортированных по дате начала. filter: all, liked, active, upcoming.
// @Tags Vacations
// @Produce  json
// @Security BearerAuth
// @Param filter query string false "Фильтр" Enums(all, liked, active, upcoming)
// @Param page query int false "Номер страницы, с 1"
// @Param pageSize query int false "Размер страницы"
// @Success 200 {object} models.VacationPage
// @Failure 400 {object} response.ErrorResponse "Неизвестный фильтр"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /vacations [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.vacation.list"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	caller, ok := middlewarectx.IdentityFrom(r.Context())
	if !ok {
		response.Fail(w, r, log, apperr.Unauthorized("unauthorized"))
		return
	}

	q := r.URL.Query()
	page, err := h.service.List(r.Context(), caller, services.ListParams{
		Filter:   q.Get("filter"),
		Page:     q.Get("page"),
		PageSize: q.Get("pageSize"),
	})
	if err != nil {
		response.Fail(w, r, log, err)
		return
	}

	log.Debug("vacations listed", slog.Int("count", len(page.Vacations)), slog.Int64("total", page.TotalCount))
	render.JSON(w, r, page)
}
