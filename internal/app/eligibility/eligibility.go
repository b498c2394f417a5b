package eligibility

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"

	"github.com/magabrotheeeer/hotjob-eligibility/internal/cache"
	"github.com/magabrotheeeer/hotjob-eligibility/internal/config"
	"github.com/magabrotheeeer/hotjob-eligibility/internal/lib/jwt"
	"github.com/magabrotheeeer/hotjob-eligibility/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/hotjob-eligibility/internal/migrations"
	applicationservice "github.com/magabrotheeeer/hotjob-eligibility/internal/services/application"
	eligibilityservice "github.com/magabrotheeeer/hotjob-eligibility/internal/services/eligibility"
	requestservice "github.com/magabrotheeeer/hotjob-eligibility/internal/services/hotjobrequest"
	planservice "github.com/magabrotheeeer/hotjob-eligibility/internal/services/plan"
	quotaservice "github.com/magabrotheeeer/hotjob-eligibility/internal/services/quota"
	walletservice "github.com/magabrotheeeer/hotjob-eligibility/internal/services/wallet"
	"github.com/magabrotheeeer/hotjob-eligibility/internal/storage/repository"
	"github.com/streadway/amqp"
)

// App инкапсулирует HTTP-сервер и его зависимости.
type App struct {
	server *http.Server
	logger *slog.Logger
	db     *repository.Storage
	conn   *amqp.Connection
	ch     *amqp.Channel
}

// New собирает приложение: хранилище, миграции, кеш, брокер и все сервисы.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	conn, err := rabbitmq.Connect(cfg.RabbitMQURL, cfg.RabbitMQMaxRetries, cfg.RabbitMQRetryDelay)
	if err != nil {
		return nil, err
	}
	ch, err := rabbitmq.SetupChannel(conn, rabbitmq.GetApplicationQueues())
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	publisher := rabbitmq.NewPublisher(ch, "applications")

	maker := jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL)

	plans := planservice.NewPlanService(db, cacheRedis, logger)
	quota := quotaservice.NewQuotaService(db, logger)
	wallet := walletservice.NewWalletService(db, publisher, logger, cfg.WalletFee, cfg.WalletSecret)
	gate := eligibilityservice.NewEligibilityService(db, db, db, plans, quota, wallet, logger)
	applications := applicationservice.NewApplicationService(gate, db, wallet, publisher, logger)
	requests := requestservice.NewRequestService(db, logger)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, db, maker, gate, applications, requests, plans, wallet)

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
		conn:   conn,
		ch:     ch,
	}, nil
}

// Run запускает HTTP-сервер и останавливает его по отмене контекста.
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
		_ = a.ch.Close()
		_ = a.conn.Close()
		_ = a.db.DB.Close()
		return err
	}
}
