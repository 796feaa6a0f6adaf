// Package response содержит вспомогательные типы и функции для формирования
// унифицированных JSON‑ответов HTTP‑обработчиков и единый перевод ошибок
// бизнес-слоя в HTTP-статусы.
package response

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/skyline-trips/internal/lib/apperr"
	"github.com/magabrotheeeer/skyline-trips/internal/lib/sl"
	"github.com/magabrotheeeer/skyline-trips/internal/lib/validation"
)

// ErrorResponse описывает тело ответа с ошибкой.
// Используется в аннотациях @Failure как возвращаемый тип ошибки.
type ErrorResponse struct {
	Status string `json:"status" example:"Error"`
	Error  string `json:"error" example:"invalid request body"`
}

const (
	// StatusError значение статуса для ответа с ошибкой.
	StatusError = "Error"

	genericInternal = "internal server error"
)

// Error возвращает ErrorResponse с переданным сообщением.
func Error(msg string) ErrorResponse {
	return ErrorResponse{
		Status: StatusError,
		Error:  msg,
	}
}

// ValidationError формирует ErrorResponse на основе ошибок валидации.
// Нарушения объединяются через запятую.
func ValidationError(errs validator.ValidationErrors) ErrorResponse {
	return Error(validation.Message(errs))
}

type hideKey struct{}

// HideInternalErrors middleware, которое включает замену текста 5xx-ошибок
// на общее сообщение. Используется в prod.
func HideInternalErrors(hide bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := context.WithValue(r.Context(), hideKey{}, hide)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func internalHidden(r *http.Request) bool {
	hide, _ := r.Context().Value(hideKey{}).(bool)
	return hide
}

// Fail пишет ответ с ошибкой. Статус берётся из вида ошибки apperr,
// всё остальное считается внутренней ошибкой.
func Fail(w http.ResponseWriter, r *http.Request, log *slog.Logger, err error) {
	kind := apperr.KindOf(err)
	status := kind.Status()

	msg := err.Error()
	var appErr *apperr.Error
	if errors.As(err, &appErr) && kind != apperr.KindInternal {
		msg = appErr.Msg
	}

	if status >= http.StatusInternalServerError {
		log.Error("request failed", slog.Int("status", status), sl.Err(err))
		if internalHidden(r) {
			msg = genericInternal
		}
	} else {
		log.Info("request rejected", slog.Int("status", status), slog.String("reason", msg))
	}

	render.Status(r, status)
	render.JSON(w, r, Error(msg))
}
