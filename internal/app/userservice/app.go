package userservice

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"

	"github.com/magabrotheeeer/user-auth-service/internal/cache"
	"github.com/magabrotheeeer/user-auth-service/internal/config"
	"github.com/magabrotheeeer/user-auth-service/internal/lib/sl"
	"github.com/magabrotheeeer/user-auth-service/internal/migrations"
	"github.com/magabrotheeeer/user-auth-service/internal/rabbitmq"
	authservice "github.com/magabrotheeeer/user-auth-service/internal/services/auth"
	profileservice "github.com/magabrotheeeer/user-auth-service/internal/services/profile"
	"github.com/magabrotheeeer/user-auth-service/internal/storage"
)

type App struct {
	server *http.Server
	logger *slog.Logger
	db     *storage.Storage
}

// New собирает приложение: дожидается базу, применяет миграции, подключает
// кеш и брокер, строит маршруты и HTTP-сервер.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := storage.Open(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = db.WaitForReady(ctx, logger); err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, "./migrations"); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	var events authservice.EventPublisher
	if cfg.AddressRabbit != "" {
		conn, err := rabbitmq.Connect(cfg.AddressRabbit, cfg.Retries, cfg.RetryDelay)
		if err != nil {
			return nil, err
		}
		ch, err := rabbitmq.SetupChannel(conn, []rabbitmq.QueueConfig{
			{QueueName: "user_events", RoutingKey: rabbitmq.RoutingKeyUserRegistered},
		})
		if err != nil {
			return nil, err
		}
		events = rabbitmq.NewPublisher(ch)
	} else {
		logger.Warn("rabbitmq address is not set, registration events are disabled")
	}

	authService := authservice.NewAuthService(db, cacheRedis, events, logger)
	profileService := profileservice.NewProfileService(db, logger)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, authService, profileService)

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
		db:     db,
	}, nil
}

// Run запускает HTTP-сервер и корректно останавливает его по отмене контекста.
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

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		if closeErr := a.db.DB.Close(); closeErr != nil {
			a.logger.Error("failed to close database", sl.Err(closeErr))
		}
		return err
	}
}
