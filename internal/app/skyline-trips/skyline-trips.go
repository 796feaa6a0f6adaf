package skylinetrips

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"

	"github.com/magabrotheeeer/skyline-trips/internal/cache"
	"github.com/magabrotheeeer/skyline-trips/internal/config"
	"github.com/magabrotheeeer/skyline-trips/internal/events"
	"github.com/magabrotheeeer/skyline-trips/internal/imagestore"
	"github.com/magabrotheeeer/skyline-trips/internal/lib/jwt"
	"github.com/magabrotheeeer/skyline-trips/internal/lib/password"
	"github.com/magabrotheeeer/skyline-trips/internal/lib/sl"
	"github.com/magabrotheeeer/skyline-trips/internal/metrics"
	"github.com/magabrotheeeer/skyline-trips/internal/migrations"
	authservice "github.com/magabrotheeeer/skyline-trips/internal/services/auth"
	vacationservice "github.com/magabrotheeeer/skyline-trips/internal/services/vacation"
	"github.com/magabrotheeeer/skyline-trips/internal/storage/mongodb"
)

const shutdownTimeout = 15 * time.Second

// App HTTP-сервер вместе с ресурсами, которые нужно закрыть при остановке.
type App struct {
	server      *http.Server
	logger      *slog.Logger
	db          *mongodb.Storage
	cache       *cache.Cache
	closeEvents func()
}

// New подключает хранилища, применяет миграции и собирает маршруты.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	const op = "app.skylinetrips.New"

	db, err := mongodb.New(ctx, cfg.Mongo.URI, cfg.Mongo.Database, cfg.Mongo.OpTimeout)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = migrations.Run(db.Client(), cfg.Mongo.Database, cfg.MigrationsPath); err != nil {
		_ = db.Close(context.Background())
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		_ = db.Close(context.Background())
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	images, err := imagestore.New(ctx, cfg.ImageStore)
	if err != nil {
		_ = cacheRedis.Close()
		_ = db.Close(context.Background())
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	publisher, closeEvents, err := events.Connect(ctx, cfg.RabbitMQ, logger)
	if err != nil {
		_ = cacheRedis.Close()
		_ = db.Close(context.Background())
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	m := metrics.New()
	jwtMaker := jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL)
	authService := authservice.NewAuthService(db, password.NewHasher(0), jwtMaker, logger)
	vacationService := vacationservice.NewVacationService(db, images, cacheRedis, publisher, m, logger,
		vacationservice.Settings{
			ReportTTL:       cfg.ReportTTL,
			DefaultPageSize: cfg.DefaultPageSize,
			MaxPageSize:     cfg.MaxPageSize,
		})

	if err = authService.EnsureAdmin(ctx, cfg.Admin); err != nil {
		closeEvents()
		_ = cacheRedis.Close()
		_ = db.Close(context.Background())
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	router := chi.NewRouter()
	RegisterRoutes(router, Deps{
		Log:          logger,
		Env:          cfg.Env,
		Auth:         authService,
		Vacations:    vacationService,
		DB:           db,
		Metrics:      m,
		RateLimit:    cfg.RateLimit,
		MaxImageSize: cfg.ImageStore.MaxSize,
	})

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server:      srv,
		logger:      logger,
		db:          db,
		cache:       cacheRedis,
		closeEvents: closeEvents,
	}, nil
}

// Run запускает сервер и блокируется до отмены ctx или ошибки сервера.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	var err error
	select {
	case err = <-errCh:
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err = a.server.Shutdown(timeoutCtx)
	}
	a.close()
	return err
}

func (a *App) close() {
	a.closeEvents()
	if err := a.cache.Close(); err != nil {
		a.logger.Error("failed to close redis", sl.Err(err))
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := a.db.Close(ctx); err != nil {
		a.logger.Error("failed to disconnect mongo", sl.Err(err))
	}
}
