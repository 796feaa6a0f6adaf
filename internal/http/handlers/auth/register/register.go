// Package register реализует HTTP-обработчик регистрации пользователя.
//
// Новый пользователь всегда получает роль User, в ответ сразу отдаётся JWT голой JSON-строкой.
package register

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/skyline-trips/internal/http/response"
	"github.com/magabrotheeeer/skyline-trips/internal/lib/apperr"
	"github.com/magabrotheeeer/skyline-trips/internal/lib/sl"
	"github.com/magabrotheeeer/skyline-trips/internal/lib/validation"
	"github.com/magabrotheeeer/skyline-trips/internal/models"
)

// Handler обрабатывает HTTP-запросы для регистрации пользователей.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики регистрации.
type Service interface {
	Register(ctx context.Context, in models.RegisterInput) (string, error)
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validation.New(),
	}
}

// ServeHTTP godoc
// @Summary Регистрация пользователя
// @Description Создает пользователя с ролью User и возвращает JWT строкой.
// @Tags Auth
// @Accept  json
// @Produce  json
// @Param request body models.RegisterInput true "Данные нового пользователя"
// @Success 201 {string} string "JWT"
// @Failure 400 {object} response.ErrorResponse "Ошибка валидации или email уже занят"
// @Failure 429 {object} response.ErrorResponse "Слишком много запросов"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /register [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.register"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.RegisterInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		response.Fail(w, r, log, apperr.Validation("invalid request body"))
		return
	}

	if err := validation.Struct(h.validate, req); err != nil {
		response.Fail(w, r, log, err)
		return
	}

	token, err := h.service.Register(r.Context(), req)
	if err != nil {
		response.Fail(w, r, log, err)
		return
	}

	log.Info("user registered")
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, token)
}
