// Package update реализует HTTP-обработчик изменения отпуска администратором.
// Картинка в форме необязательна: без неё остаётся прежняя.
package update

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/skyline-trips/internal/http/handlers/vacation/form"
	"github.com/magabrotheeeer/skyline-trips/internal/http/middlewarectx"
	"github.com/magabrotheeeer/skyline-trips/internal/http/response"
	"github.com/magabrotheeeer/skyline-trips/internal/models"
)

// Handler обрабатывает запросы на изменение отпуска.
type Handler struct {
	log          *slog.Logger
	service      Service
	maxImageSize int64
}

// Service описывает интерфейс бизнес-логики изменения отпуска.
type Service interface {
	Update(ctx context.Context, caller models.Identity, id string, in models.VacationInput, img *models.ImageUpload) (*models.VacationView, error)
}

// New создает новый Handler.
func New(log *slog.Logger, service Service, maxImageSize int64) *Handler {
	return &Handler{
		log:          log,
		service:      service,
		maxImageSize: maxImageSize,
	}
}

// ServeHTTP godoc
// @Summary Изменить отпуск
// @Description Только для администратора. Перезаписывает все поля, картинку меняет только если она передана.
// @Tags Vacations
// @Accept  mpfd
// @Produce  json
// @Security BearerAuth
// @Param id path string true "ID отпуска"
// @Param destination formData string true "Направление"
// @Param description formData string true "Описание"
// @Param startDate formData string true "Дата начала, 2006-01-02"
// @Param endDate formData string true "Дата окончания, 2006-01-02"
// @Param price formData number true "Цена"
// @Param image formData file false "Новая картинка"
// @Success 200 {object} models.VacationView
// @Failure 400 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 403 {object} response.ErrorResponse "Нужна роль администратора"
// @Failure 404 {object} response.ErrorResponse "Отпуск не найден"
// @Router /vacations/{id} [patch]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.vacation.update"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	caller, _ := middlewarectx.IdentityFrom(r.Context())
	id := chi.URLParam(r, "id")

	in, img, err := form.Parse(r, h.maxImageSize)
	if err != nil {
		response.Fail(w, r, log, err)
		return
	}

	view, err := h.service.Update(r.Context(), caller, id, in, img)
	if err != nil {
		response.Fail(w, r, log, err)
		return
	}

	log.Info("vacation updated", slog.String("id", id), slog.Bool("image_replaced", img != nil))
	render.JSON(w, r, view)
}
