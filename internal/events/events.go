// Package events публикует доменные события отпусков в RabbitMQ и разбирает их на стороне потребителя.
package events

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/skyline-trips/internal/config"
	"github.com/magabrotheeeer/skyline-trips/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/skyline-trips/internal/lib/sl"
)

// Type тип события, он же routing key.
type Type string

const (
	VacationCreated Type = "vacation.created"
	VacationUpdated Type = "vacation.updated"
	VacationDeleted Type = "vacation.deleted"
	VacationLiked   Type = "vacation.liked"
	VacationUnliked Type = "vacation.unliked"
)

// Event тело сообщения.
type Event struct {
	Type        Type      `json:"type"`
	VacationID  string    `json:"vacationId"`
	Destination string    `json:"destination,omitempty"`
	UserID      string    `json:"userId,omitempty"`
	LikesCount  *int      `json:"likesCount,omitempty"`
	OccurredAt  time.Time `json:"occurredAt"`
}

// Publisher отправляет события.
type Publisher interface {
	Publish(ctx context.Context, ev Event) error
}

// AMQPPublisher публикует события в topic exchange.
type AMQPPublisher struct {
	mu       sync.Mutex
	ch       rabbitmq.Channel
	exchange string
}

// NewAMQPPublisher создаёт издателя поверх открытого канала.
func NewAMQPPublisher(ch rabbitmq.Channel, exchange string) *AMQPPublisher {
	return &AMQPPublisher{ch: ch, exchange: exchange}
}

// Publish отправляет событие с routing key равным его типу.
func (p *AMQPPublisher) Publish(_ context.Context, ev Event) error {
	const op = "events.Publish"
	if ev.OccurredAt.IsZero() {
		ev.OccurredAt = time.Now().UTC()
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := rabbitmq.PublishMessage(p.ch, p.exchange, string(ev.Type), ev); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Noop отбрасывает события, используется когда брокер не настроен.
type Noop struct{}

func (Noop) Publish(context.Context, Event) error { return nil }

// Connect подключается к брокеру по настройкам. Пустой URL даёт Noop.
// Возвращаемая функция закрывает канал и соединение.
func Connect(ctx context.Context, cfg config.RabbitMQ, log *slog.Logger) (Publisher, func(), error) {
	const op = "events.Connect"

	if cfg.URL == "" {
		log.Info("rabbitmq url is empty, events are disabled")
		return Noop{}, func() {}, nil
	}
	conn, err := rabbitmq.Connect(ctx, cfg.URL, cfg.Retries, cfg.RetryDelay)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}
	ch, err := rabbitmq.SetupExchange(conn, cfg.Exchange)
	if err != nil {
		_ = conn.Close()
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}
	closeFn := func() {
		if err := ch.Close(); err != nil && err != amqp.ErrClosed {
			log.Error("failed to close rabbitmq channel", sl.Err(err))
		}
		if err := conn.Close(); err != nil && err != amqp.ErrClosed {
			log.Error("failed to close rabbitmq connection", sl.Err(err))
		}
	}
	return NewAMQPPublisher(ch, cfg.Exchange), closeFn, nil
}
