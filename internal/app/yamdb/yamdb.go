// Package yamdb собирает HTTP-приложение сервиса отзывов: хранилище, кеш кодов,
// доставку писем, сервисы и роутер.
package yamdb

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/magabrotheeeer/yamdb/internal/cache"
	"github.com/magabrotheeeer/yamdb/internal/config"
	"github.com/magabrotheeeer/yamdb/internal/http/handlers/auth/signup"
	"github.com/magabrotheeeer/yamdb/internal/http/handlers/auth/token"
	"github.com/magabrotheeeer/yamdb/internal/http/handlers/comments"
	"github.com/magabrotheeeer/yamdb/internal/http/handlers/health"
	reviewshandler "github.com/magabrotheeeer/yamdb/internal/http/handlers/reviews"
	"github.com/magabrotheeeer/yamdb/internal/http/handlers/taxonomy"
	"github.com/magabrotheeeer/yamdb/internal/http/handlers/titles"
	usershandler "github.com/magabrotheeeer/yamdb/internal/http/handlers/users"
	"github.com/magabrotheeeer/yamdb/internal/http/middlewarectx"
	"github.com/magabrotheeeer/yamdb/internal/lib/jwt"
	"github.com/magabrotheeeer/yamdb/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/yamdb/internal/lib/sl"
	"github.com/magabrotheeeer/yamdb/internal/lib/smtp"
	"github.com/magabrotheeeer/yamdb/internal/migrations"
	"github.com/magabrotheeeer/yamdb/internal/models"
	"github.com/magabrotheeeer/yamdb/internal/services/auth"
	"github.com/magabrotheeeer/yamdb/internal/services/catalog"
	"github.com/magabrotheeeer/yamdb/internal/services/notifier"
	"github.com/magabrotheeeer/yamdb/internal/services/reviews"
	"github.com/magabrotheeeer/yamdb/internal/services/sender"
	"github.com/magabrotheeeer/yamdb/internal/services/users"
	"github.com/magabrotheeeer/yamdb/internal/storage/repository"
)

const shutdownTimeout = 15 * time.Second

type App struct {
	server *http.Server
	logger *slog.Logger
	db     *repository.Storage
	cache  *cache.Cache
	// closers закрываются при остановке после HTTP-сервера
	closers []io.Closer
}

func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	const op = "app.yamdb.New"

	db, err := repository.New(ctx, cfg.StorageConnectionString)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	codes, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	app := &App{
		logger: logger,
		db:     db,
		cache:  codes,
	}

	delivery, err := app.newNotifier(cfg)
	if err != nil {
		app.close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	jwtMaker := jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL)
	authService := auth.NewAuthService(db, codes, delivery, jwtMaker, cfg.CodeTTL)
	reviewService := reviews.New(db)

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	handlers := Handlers{
		Auth:   authService,
		SignUp: signup.New(logger, authService),
		Token:  token.New(logger, authService),
		Categories: taxonomy.New[models.Category](logger, "categories",
			catalog.NewTaxonomyService[models.Category]("categories", db.Categories())),
		Genres: taxonomy.New[models.Genre](logger, "genres",
			catalog.NewTaxonomyService[models.Genre]("genres", db.Genres())),
		Titles:   titles.New(logger, catalog.NewTitleService(db)),
		Reviews:  reviewshandler.New(logger, reviewService),
		Comments: comments.New(logger, reviewService),
		Users:    usershandler.New(logger, users.New(db)),
		Health: health.New(logger, map[string]health.Pinger{
			"postgres": db,
			"redis":    codes,
		}),
		Metrics:        middlewarectx.NewMetrics(reg),
		MetricsHandler: promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
	}

	router := chi.NewRouter()
	RegisterRoutes(router, logger, handlers, cfg.RateLimit)

	app.server = &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}
	return app, nil
}

// newNotifier выбирает доставку кода подтверждения по mail.delivery.
func (a *App) newNotifier(cfg *config.Config) (auth.Notifier, error) {
	switch cfg.Delivery {
	case config.DeliverySMTP:
		transport := smtp.NewTransport(cfg.SMTP, cfg.MailFrom, a.logger)
		return sender.NewSenderService(a.logger, transport), nil
	case config.DeliveryQueue:
		conn, err := rabbitmq.Connect(cfg.RabbitMQURL, cfg.RabbitMQMaxRetries, cfg.RabbitMQRetryDelay)
		if err != nil {
			return nil, err
		}
		ch, err := rabbitmq.SetupChannel(conn, rabbitmq.GetNotificationQueues())
		if err != nil {
			_ = conn.Close()
			return nil, err
		}
		a.closers = append(a.closers, ch, conn)
		return notifier.NewQueueNotifier(ch), nil
	default:
		return notifier.NewLogNotifier(a.logger), nil
	}
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
		a.close()
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		a.close()
		return err
	}
}

func (a *App) close() {
	for _, c := range a.closers {
		if err := c.Close(); err != nil {
			a.logger.Error("failed to close amqp resource", sl.Err(err))
		}
	}
	if err := a.cache.Close(); err != nil {
		a.logger.Error("failed to close redis", sl.Err(err))
	}
	if err := a.db.Close(); err != nil {
		a.logger.Error("failed to close database", sl.Err(err))
	}
}
