// Package login реализует HTTP-обработчик входа пользователя.
//
// Тело запроса декодируется и валидируется, после чего вход делегируется сервису.
// При успехе в ответ уходит JWT голой JSON-строкой.
package login

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

// Handler обрабатывает HTTP-запросы для авторизации.
type Handler struct {
	log      *slog.Logger        // Логгер для записи операций и ошибок
	service  Service             // Сервис аутентификации
	validate *validator.Validate // Валидатор для проверки входных данных
}

// Service описывает интерфейс бизнес-логики аутентификации.
type Service interface {
	Login(ctx context.Context, in models.LoginInput) (string, error)
}

// New создает новый экземпляр Handler с указанными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validation.New(),
	}
}

// ServeHTTP godoc
// @Summary Авторизация пользователя
// @Description Аутентифицирует пользователя по email и паролю. Возвращает JWT строкой.
// @Tags Auth
// @Accept  json
// @Produce  json
// @Param request body models.LoginInput true "Учетные данные пользователя"
// @Success 200 {string} string "JWT"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON или ошибка валидации"
// @Failure 401 {object} response.ErrorResponse "Неверные учетные данные"
// @Failure 429 {object} response.ErrorResponse "Слишком много запросов"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /login [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.login"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.LoginInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		response.Fail(w, r, log, apperr.Validation("invalid request body"))
		return
	}

	if err := validation.Struct(h.validate, req); err != nil {
		response.Fail(w, r, log, err)
		return
	}

	token, err := h.service.Login(r.Context(), req)
	if err != nil {
		response.Fail(w, r, log, err)
		return
	}

	log.Info("login success")
	render.JSON(w, r, token)
}
