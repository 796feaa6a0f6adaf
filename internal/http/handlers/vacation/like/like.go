// Package like реализует HTTP-обработчики лайка и снятия лайка.
//
// В ответ возвращается отпуск в том виде, в котором его видит вызывающий после изменения,
// клиент заменяет им своё оптимистичное состояние.
package like

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

// Action что сделать с лайком.
type Action int

const (
	// Add поставить лайк.
	Add Action = iota
	// Remove снять лайк.
	Remove
)

// Handler обрабатывает POST и DELETE /vacations/{id}/like.
type Handler struct {
	log     *slog.Logger
	service Service
	action  Action
}

// Service описывает интерфейс бизнес-логики лайков.
type Service interface {
	Like(ctx context.Context, caller models.Identity, id string) (*models.VacationView, error)
	Unlike(ctx context.Context, caller models.Identity, id string) (*models.VacationView, error)
}

// New создает новый Handler для действия action.
func New(log *slog.Logger, service Service, action Action) *Handler {
	return &Handler{
		log:     log,
		service: service,
		action:  action,
	}
}

// ServeHTTP godoc
// @Summary Поставить или снять лайк
// @Description POST ставит лайк, DELETE снимает. Администратору запрещено.
// @Tags Vacations
// @Produce  json
// @Security BearerAuth
// @Param id path string true "ID отпуска"
// @Success 200 {object} models.VacationView
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 403 {object} response.ErrorResponse "Администратор не может ставить лайки"
// @Failure 404 {object} response.ErrorResponse "Отпуск не найден"
// @Router /vacations/{id}/like [post]
// @Router /vacations/{id}/like [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.vacation.like"
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
	var (
		view *models.VacationView
		err  error
	)
	if h.action == Add {
		view, err = h.service.Like(r.Context(), caller, id)
	} else {
		view, err = h.service.Unlike(r.Context(), caller, id)
	}
	if err != nil {
		response.Fail(w, r, log, err)
		return
	}

	log.Info("like changed", slog.String("id", id), slog.Bool("liked", view.LikedByMe), slog.Int("likes", view.LikesCount))
	render.JSON(w, r, view)
}
