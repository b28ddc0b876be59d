package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/chitledger/internal/adapter/collaborator/anchor"
	"github.com/iho/chitledger/internal/adapter/collaborator/gateway"
	"github.com/iho/chitledger/internal/adapter/collaborator/identity"
	"github.com/iho/chitledger/internal/adapter/collaborator/risk"
	httpAdapter "github.com/iho/chitledger/internal/adapter/http"
	"github.com/iho/chitledger/internal/adapter/http/handler"
	"github.com/iho/chitledger/internal/adapter/http/middleware"
	postgresRepo "github.com/iho/chitledger/internal/adapter/repository/postgres"
	redisRepo "github.com/iho/chitledger/internal/adapter/repository/redis"
	"github.com/iho/chitledger/internal/domain"
	"github.com/iho/chitledger/internal/infrastructure/auth"
	"github.com/iho/chitledger/internal/infrastructure/config"
	"github.com/iho/chitledger/internal/infrastructure/eventpublisher"
	applogger "github.com/iho/chitledger/internal/infrastructure/logger"
	"github.com/iho/chitledger/internal/infrastructure/metrics"
	"github.com/iho/chitledger/internal/infrastructure/postgres"
	"github.com/iho/chitledger/internal/infrastructure/redis"
	"github.com/iho/chitledger/internal/infrastructure/scheduler"
	"github.com/iho/chitledger/internal/usecase"
)

const (
	visitorIdleTimeout = 10 * time.Minute
	jobTimeout         = 2 * time.Minute
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger := applogger.New(applogger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal().Err(err).Msg("server exited")
	}
}

func run(ctx context.Context, cfg *config.Config, logger zerolog.Logger) error {
	pool, err := postgres.NewPoolWithConfig(ctx, postgres.PoolConfig{
		DatabaseURL:      cfg.DatabaseURL,
		MaxConns:         cfg.DatabaseMaxConns,
		MinConns:         cfg.DatabaseMinConns,
		ConnectTimeout:   cfg.DatabaseTimeout,
		StatementTimeout: cfg.DatabaseStatementTimeout,
	})
	if err != nil {
		return fmt.Errorf("connect to postgres: %w", err)
	}
	defer pool.Close()
	logger.Info().Msg("connected to postgres")

	if err := postgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath, logger); err != nil {
		return err
	}

	redisClient, err := redis.NewClientWithOptions(ctx, cfg.RedisURL, redis.Options{PoolSize: cfg.RedisPoolSize})
	if err != nil {
		return fmt.Errorf("connect to redis: %w", err)
	}
	defer redisClient.Close()
	logger.Info().Msg("connected to redis")

	m := metrics.New()
	cache := redisRepo.NewCache(redisClient)

	store := usecase.Store{
		TxManager:     postgresRepo.NewTxManager(pool),
		Retrier:       postgresRepo.NewRetrier(logger),
		Escrows:       postgresRepo.NewEscrowRepository(pool),
		Groups:        postgresRepo.NewGroupRepository(pool),
		Contributions: postgresRepo.NewContributionRepository(pool),
		Payouts:       postgresRepo.NewPayoutRepository(pool),
		Outbox:        postgresRepo.NewOutboxRepository(pool),
		Audit:         postgresRepo.NewAuditRepository(pool),
		IDGen:         postgresRepo.NewULIDGenerator(),
		Cache:         cache,
	}

	collab := buildCollaborators(cfg, cache, logger)

	anchorUC := usecase.NewAnchorUseCase(collab.ledger, store.Contributions, store.Payouts, usecase.AnchorOptions{
		Timeout:     cfg.AnchorTimeout,
		MaxAttempts: cfg.AnchorMaxAttempts,
	}, m, logger)
	escrowUC := usecase.NewEscrowUseCase(store, m, cfg.DefaultCurrency)
	freezeUC := usecase.NewFreezeUseCase(store, m, logger)
	calculatorUC := usecase.NewCalculatorUseCase(store.Groups, domain.DefaultGroupLimits())
	settlementUC := usecase.NewSettlementUseCase(store, collab.gateway, collab.identity, anchorUC, usecase.SettlementOptions{
		GatewayTimeout: cfg.GatewayTimeout,
		StaleAfter:     cfg.ContributionStaleAfter,
	}, m, logger)
	payoutUC := usecase.NewPayoutUseCase(store, collab.risk, anchorUC, usecase.PayoutOptions{
		RiskTimeout:   cfg.RiskTimeout,
		RiskThreshold: cfg.RiskThreshold,
	}, m, logger)
	reconciliationUC := usecase.NewReconciliationUseCase(store.Escrows, store.Contributions, store.Payouts)

	var limiter *middleware.RateLimiter
	if cfg.RateLimitRPS > 0 {
		limiter = middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	}

	var verifier middleware.TokenVerifier
	if cfg.AuthEnabled {
		verifier = auth.NewJWTManager(cfg.JWTSecret, cfg.JWTExpiration)
	}

	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		CalculatorHandler:     handler.NewCalculatorHandler(calculatorUC),
		EscrowHandler:         handler.NewEscrowHandler(escrowUC, freezeUC),
		ContributionHandler:   handler.NewContributionHandler(settlementUC),
		PayoutHandler:         handler.NewPayoutHandler(payoutUC),
		ReconciliationHandler: handler.NewReconciliationHandler(reconciliationUC),
		WebhookHandler:        handler.NewWebhookHandler(settlementUC, cfg.GatewayWebhookSecret, logger),
		HealthHandler:         handler.NewHealthHandler(pool, cache),
		IdempotencyStore:      redisRepo.NewIdempotencyStore(redisClient),
		IdempotencyTTL:        cfg.IdempotencyTTL,
		RateLimiter:           limiter,
		TokenVerifier:         verifier,
		Logger:                logger,
	})

	publisher, closePublisher, err := buildPublisher(cfg, logger)
	if err != nil {
		return err
	}
	defer closePublisher()

	events := eventpublisher.NewEventPublisher(eventpublisher.Config{
		OutboxRepo: store.Outbox,
		Publisher:  publisher,
		Metrics:    m,
		Logger:     logger,
		Interval:   cfg.OutboxInterval,
	})
	go func() {
		if err := events.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error().Err(err).Msg("event publisher stopped")
		}
	}()

	sched := scheduler.New(logger, jobTimeout)
	if err := registerJobs(sched, maintenanceJobs(cfg, settlementUC, anchorUC, events, limiter, logger)); err != nil {
		return err
	}
	sched.Start(ctx)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info().Str("port", cfg.HTTPPort).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	logger.Info().Msg("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	select {
	case <-sched.Stop().Done():
	case <-shutdownCtx.Done():
		logger.Warn().Msg("maintenance jobs still running at shutdown")
	}

	logger.Info().Msg("server stopped")
	return nil
}

type collaborators struct {
	gateway  usecase.PaymentGateway
	risk     usecase.RiskScorer
	ledger   usecase.AnchoringLedger
	identity usecase.IdentityVerifier
}

// buildCollaborators picks remote clients where URLs are configured and
// local fallbacks otherwise. Identity checks are skipped without KYC_URL.
func buildCollaborators(cfg *config.Config, cache usecase.Cache, logger zerolog.Logger) collaborators {
	c := collaborators{
		gateway: gateway.NewClient(gateway.Config{
			BaseURL:   cfg.GatewayURL,
			KeyID:     cfg.GatewayKeyID,
			KeySecret: cfg.GatewayKeySecret,
			Timeout:   cfg.GatewayTimeout,
		}),
	}

	var primary usecase.RiskScorer
	if cfg.RiskURL != "" {
		primary = risk.NewClient(cfg.RiskURL, cfg.RiskToken, cfg.RiskTimeout)
	}
	c.risk = risk.NewFallbackScorer(primary, risk.DefaultRules(), logger)

	if cfg.AnchorURL != "" {
		c.ledger = anchor.NewClient(cfg.AnchorURL, cfg.AnchorToken, cfg.AnchorTimeout)
	} else {
		logger.Warn().Msg("ANCHOR_URL not set, anchoring to in-process hash chain")
		c.ledger = anchor.NewHashChain()
	}

	if cfg.KYCURL != "" {
		c.identity = identity.NewClient(identity.Config{
			BaseURL:  cfg.KYCURL,
			Token:    cfg.KYCToken,
			Timeout:  cfg.KYCTimeout,
			CacheTTL: cfg.KYCCacheTTL,
		}, cache, logger)
	}

	return c
}

// buildPublisher returns the Kafka publisher when brokers are configured and
// the log publisher otherwise, with a close func for shutdown.
func buildPublisher(cfg *config.Config, logger zerolog.Logger) (eventpublisher.Publisher, func(), error) {
	if len(cfg.KafkaBrokers) == 0 {
		return eventpublisher.NewLogPublisher(logger), func() {}, nil
	}

	p, err := eventpublisher.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
	if err != nil {
		return nil, nil, err
	}
	return p, func() {
		if err := p.Close(); err != nil {
			logger.Error().Err(err).Msg("failed to close kafka writer")
		}
	}, nil
}

type jobSpec struct {
	name     string
	schedule string
	run      scheduler.JobFunc
}

func maintenanceJobs(
	cfg *config.Config,
	settlement *usecase.SettlementUseCase,
	anchors *usecase.AnchorUseCase,
	events *eventpublisher.EventPublisher,
	limiter *middleware.RateLimiter,
	logger zerolog.Logger,
) []jobSpec {
	jobs := []jobSpec{
		{
			name:     "stale-contribution-sweep",
			schedule: cfg.SweepSchedule,
			run: func(ctx context.Context) error {
				n, err := settlement.ExpireStaleContributions(ctx)
				if n > 0 {
					logger.Info().Int("expired", n).Msg("stale contributions failed")
				}
				return err
			},
		},
		{
			name:     "anchor-retry",
			schedule: cfg.AnchorRetrySchedule,
			run: func(ctx context.Context) error {
				res, err := anchors.RetryPending(ctx)
				if res.Anchored > 0 || res.Failed > 0 {
					logger.Info().Int("anchored", res.Anchored).Int("failed", res.Failed).Msg("anchor retry finished")
				}
				return err
			},
		},
		{
			name:     "outbox-purge",
			schedule: "@hourly",
			run: func(ctx context.Context) error {
				return events.PurgePublished(ctx, cfg.OutboxRetention)
			},
		},
	}

	if limiter != nil {
		jobs = append(jobs, jobSpec{
			name:     "rate-limit-cleanup",
			schedule: "@every 5m",
			run: func(context.Context) error {
				limiter.CleanupLimiters(visitorIdleTimeout)
				return nil
			},
		})
	}

	return jobs
}

func registerJobs(s *scheduler.Scheduler, jobs []jobSpec) error {
	for _, j := range jobs {
		if err := s.Add(j.name, j.schedule, j.run); err != nil {
			return err
		}
	}
	return nil
}
