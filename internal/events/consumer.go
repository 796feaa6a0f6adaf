package events

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/magabrotheeeer/skyline-trips/internal/lib/sl"
)

// Handler обрабатывает разобранное событие.
type Handler func(ctx context.Context, ev Event) error

// Decode превращает Handler в обработчик сырых сообщений очереди.
// Сообщение, которое не удалось разобрать, логируется и подтверждается, чтобы не крутиться в очереди.
func Decode(log *slog.Logger, h Handler) func(context.Context, []byte) error {
	return func(ctx context.Context, body []byte) error {
		var ev Event
		if err := json.Unmarshal(body, &ev); err != nil || ev.Type == "" {
			log.Warn("dropping malformed event", slog.String("body", string(body)), sl.Err(err))
			return nil
		}
		return h(ctx, ev)
	}
}
