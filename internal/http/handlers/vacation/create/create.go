// Package create реализует HTTP-обработчик создания отпуска администратором.
//
// Handler принимает multipart-форму с полями отпуска и обязательной картинкой,
// передаёт их сервису и возвращает созданный отпуск со статусом 201.
package create

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/skyline-trips/internal/http/handlers/vacation/form"
	"github.com/magabrotheeeer/skyline-trips/internal/http/response"
	"github.com/magabrotheeeer/skyline-trips/internal/models"
)

// Handler управляет HTTP-запросами на создание отпусков.
type Handler struct {
	log          *slog.Logger // Логгер для записи информации и ошибок
	service      Service      // Сервис бизнес-логики отпусков
	maxImageSize int64        // Максимальный размер картинки в байтах
}

// Service описывает интерфейс бизнес-логики создания отпуска.
type Service interface {
	Create(ctx context.Context, in models.VacationInput, img *models.ImageUpload) (*models.VacationView, error)
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
// @Summary Создать отпуск
// @Description Только для администратора. Дата начала не может быть в прошлом, дата окончания не раньше даты начала.
// @Tags Vacations
// @Accept  mpfd
// @Produce  json
// @Security BearerAuth
// @Param destination formData string true "Направление"
// @Param description formData string true "Описание"
// @Param startDate formData string true "Дата начала, 2006-01-02"
// @Param endDate formData string true "Дата окончания, 2006-01-02"
// @Param price formData number true "Цена"
// @Param image formData file true "Картинка"
// @Success 201 {object} models.VacationView
// @Failure 400 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 403 {object} response.ErrorResponse "Нужна роль администратора"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /vacations [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.vacation.create"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	in, img, err := form.Parse(r, h.maxImageSize)
	if err != nil {
		response.Fail(w, r, log, err)
		return
	}

	view, err := h.service.Create(r.Context(), in, img)
	if err != nil {
		response.Fail(w, r, log, err)
		return
	}

	log.Info("vacation created", slog.String("id", view.ID))
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, view)
}
