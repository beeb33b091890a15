// Package dashboard собирает HTTP-приложение панели управления: хранилище,
// миграции, кеш, сервисы и маршруты.
package dashboard

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"

	"github.com/magabrotheeeer/review-dashboard/internal/cache"
	"github.com/magabrotheeeer/review-dashboard/internal/config"
	"github.com/magabrotheeeer/review-dashboard/internal/migrations"
	"github.com/magabrotheeeer/review-dashboard/internal/services"
	"github.com/magabrotheeeer/review-dashboard/internal/storage/repository"
)

type App struct {
	server *http.Server
	logger *slog.Logger
	db     *repository.Storage
}

func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, "./migrations"); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	companyService := services.NewCompanyService(db, cacheRedis, logger)
	planService := services.NewPlanService(db, cacheRedis, logger)
	subscriptionService := services.NewSubscriptionService(db, cacheRedis, logger)
	inquiryService := services.NewInquiryService(db, logger)
	reviewService := services.NewReviewService(db, logger)

	router := chi.NewRouter()
	RegisterRoutes(router, logger,
		companyService, planService, subscriptionService, inquiryService, reviewService)

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
		a.db.DB.Close()
		return err
	}
}
