// Package notfound отвечает на запросы к незарегистрированным маршрутам.
package notfound

import (
	"log/slog"
	"net/http"

	"github.com/magabrotheeeer/skyline-trips/internal/http/response"
	"github.com/magabrotheeeer/skyline-trips/internal/lib/apperr"
)

// New возвращает обработчик, который всегда отвечает ошибкой RouteNotFound.
func New(log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response.Fail(w, r, log, apperr.RouteNotFound(r.Method, r.URL.Path))
	}
}
