// Package worker приложение, которое читает события отпусков и прогревает кэш отчёта по лайкам.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/skyline-trips/internal/cache"
	"github.com/magabrotheeeer/skyline-trips/internal/config"
	"github.com/magabrotheeeer/skyline-trips/internal/events"
	"github.com/magabrotheeeer/skyline-trips/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/skyline-trips/internal/lib/sl"
	vacationservice "github.com/magabrotheeeer/skyline-trips/internal/services/vacation"
	"github.com/magabrotheeeer/skyline-trips/internal/storage/mongodb"
)

// bindingKey все события отпусков.
const bindingKey = "vacation.#"

// App воркер прогрева кэша.
type App struct {
	conn    *amqp.Connection
	ch      *amqp.Channel
	db      *mongodb.Storage
	cache   *cache.Cache
	service *vacationservice.VacationService
	cfg     config.RabbitMQ
	logger  *slog.Logger
}

// New подключается к базе, кэшу и брокеру и объявляет очередь воркера.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	const op = "app.worker.New"

	if cfg.RabbitMQ.URL == "" {
		return nil, fmt.Errorf("%s: %w", op, errors.New("rabbitmq url is empty"))
	}

	db, err := mongodb.New(ctx, cfg.Mongo.URI, cfg.Mongo.Database, cfg.Mongo.OpTimeout)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		_ = db.Close(context.Background())
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	conn, err := rabbitmq.Connect(ctx, cfg.RabbitMQ.URL, cfg.RabbitMQ.Retries, cfg.RabbitMQ.RetryDelay)
	if err != nil {
		_ = cacheRedis.Close()
		_ = db.Close(context.Background())
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	ch, err := rabbitmq.SetupExchange(conn, cfg.RabbitMQ.Exchange)
	if err == nil {
		err = rabbitmq.BindQueue(ch, cfg.RabbitMQ.Exchange, cfg.RabbitMQ.ReportQueue, bindingKey)
	}
	if err != nil {
		_ = conn.Close()
		_ = cacheRedis.Close()
		_ = db.Close(context.Background())
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	// Воркер только пересчитывает отчёт, остальные зависимости сервиса не задействованы.
	service := vacationservice.NewVacationService(db, nil, cacheRedis, events.Noop{}, nil, logger,
		vacationservice.Settings{ReportTTL: cfg.ReportTTL})

	return &App{
		conn:    conn,
		ch:      ch,
		db:      db,
		cache:   cacheRedis,
		service: service,
		cfg:     cfg.RabbitMQ,
		logger:  logger,
	}, nil
}

// Run читает очередь до отмены ctx.
func (a *App) Run(ctx context.Context) error {
	handler := events.Decode(a.logger, a.service.WarmReport)
	err := rabbitmq.ConsumeMessages(ctx, a.ch, a.cfg.ReportQueue, a.cfg.Workers, a.logger, handler)
	if err != nil {
		a.logger.Error("failed to start report consumer", sl.Err(err))
		a.close()
		return err
	}
	a.logger.Info("report worker started", slog.String("queue", a.cfg.ReportQueue))

	<-ctx.Done()
	a.logger.Info("report worker shutting down gracefully")
	a.close()
	return nil
}

func (a *App) close() {
	if err := a.ch.Close(); err != nil {
		a.logger.Error("failed to close channel", sl.Err(err))
	}
	if err := a.conn.Close(); err != nil {
		a.logger.Error("failed to close connection", sl.Err(err))
	}
	if err := a.cache.Close(); err != nil {
		a.logger.Error("failed to close redis", sl.Err(err))
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := a.db.Close(ctx); err != nil {
		a.logger.Error("failed to disconnect mongo", sl.Err(err))
	}
}
