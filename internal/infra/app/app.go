package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/josesojo2828/Dgo-Byke-Server/internal/core/port"
	"github.com/josesojo2828/Dgo-Byke-Server/internal/infra/config"
	"github.com/josesojo2828/Dgo-Byke-Server/internal/infra/database"
	kafkainfra "github.com/josesojo2828/Dgo-Byke-Server/internal/infra/kafka"
	"github.com/josesojo2828/Dgo-Byke-Server/internal/infra/logger"
	redisinfra "github.com/josesojo2828/Dgo-Byke-Server/internal/infra/redis"
	"github.com/josesojo2828/Dgo-Byke-Server/internal/infra/security"
	postgresrepo "github.com/josesojo2828/Dgo-Byke-Server/internal/repository/postgres"
	redisrepo "github.com/josesojo2828/Dgo-Byke-Server/internal/repository/redis"
	"github.com/josesojo2828/Dgo-Byke-Server/internal/transport/http/middleware"
	"github.com/josesojo2828/Dgo-Byke-Server/internal/transport/http/routes"
	"github.com/josesojo2828/Dgo-Byke-Server/internal/usecase"
)

// Application bundles the HTTP engine with the infrastructure it owns.
type Application struct {
	cfg      *config.AppConfig
	engine   *gin.Engine
	logger   *zap.Logger
	pool     *pgxpool.Pool
	redis    *redisinfra.Client
	producer *kafkainfra.Producer
}

// New assembles the full application: infrastructure, repositories,
// services, and the routing tree.
func New(ctx context.Context, cfg *config.AppConfig) (*Application, error) {
	log, err := logger.New(cfg.App.Env)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	pool, err := database.NewPostgresPool(ctx, cfg.Postgres, log)
	if err != nil {
		return nil, fmt.Errorf("init postgres: %w", err)
	}

	redisClient, err := redisinfra.NewClient(cfg.Redis, log)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("init redis: %w", err)
	}

	tokens, err := security.NewTokenManager(cfg.Auth.JWTSecret, cfg.App.Name, cfg.Auth.AccessTokenTTL)
	if err != nil {
		pool.Close()
		_ = redisClient.Close()
		return nil, fmt.Errorf("init token manager: %w", err)
	}
	hasher := security.NewHasher(cfg.Auth.BcryptCost)

	repos := postgresrepo.NewRepositories(pool)

	menuTTL := cfg.Redis.MenuTTL
	if menuTTL <= 0 {
		menuTTL = 5 * time.Minute
	}
	menuCache := redisrepo.NewMenuCache(redisClient.Client(), cfg.Redis.MenuPrefix, menuTTL)

	var events port.EventPublisher
	var producer *kafkainfra.Producer
	if len(cfg.Kafka.Brokers) > 0 {
		producer, err = kafkainfra.NewProducer(cfg.Kafka, log)
		if err != nil {
			log.Warn("failed to init kafka producer, using stub publisher", zap.Error(err))
			events = kafkainfra.NewStubPublisher(log)
		} else {
			events = kafkainfra.NewEventPublisher(producer, cfg.App, log)
			log.Info("kafka event publisher initialized", zap.Strings("brokers", cfg.Kafka.Brokers))
		}
	} else {
		log.Info("kafka brokers not configured, using stub publisher")
		events = kafkainfra.NewStubPublisher(log)
	}

	rateLimitWindow := cfg.RateLimit.WindowDuration
	if rateLimitWindow <= 0 {
		rateLimitWindow = time.Minute
	}
	rateLimitStore := redisrepo.NewRateLimitRepository(redisClient.Client(), redisrepo.SlidingWindowConfig{
		KeyPrefix: "byke:rate-limit",
		TTL:       rateLimitWindow * 2,
	})
	rateLimiter := middleware.NewRateLimiter(rateLimitStore, log)

	metrics, err := middleware.NewHTTPMetrics(middleware.HTTPMetricsOptions{})
	if err != nil {
		pool.Close()
		_ = redisClient.Close()
		return nil, fmt.Errorf("init http metrics: %w", err)
	}

	organizationService := usecase.NewOrganizationService(repos.Organizations, repos.Members, repos.Users)

	services := routes.ServiceSet{
		Auth:          usecase.NewAuthService(repos.Users, repos.Profiles, repos.Roles, tokens, hasher, events),
		Users:         usecase.NewUserService(repos.Users, repos.Profiles, repos.Roles, organizationService, hasher, menuCache),
		IAM:           usecase.NewIAMService(repos.Roles, repos.Permissions, repos.Users, menuCache, events),
		Organizations: organizationService,
		Tracks:        usecase.NewTrackService(repos.Tracks, repos.Checkpoints, repos.Organizations),
		Categories:    usecase.NewCategoryService(repos.Categories),
		Races:         usecase.NewRaceService(repos.Races, repos.Tracks, repos.Organizations, events),
		Participants:  usecase.NewParticipantService(repos.Participants, repos.Races, repos.Profiles),
		Payments:      usecase.NewPaymentService(repos.Payments, repos.Races, repos.Profiles, repos.Participants, events),
		Timings:       usecase.NewTimingService(repos.Timings, repos.Races, repos.Participants, repos.Checkpoints, events),
		Bicycles:      usecase.NewBicycleService(repos.Bicycles, repos.Profiles),
		Dashboard:     usecase.NewDashboardService(repos.Users, repos.Profiles, repos.Stats, menuCache),
		Audit:         usecase.NewAuditService(repos.AuditLogs, events),
	}

	engine := routes.Register(routes.Dependencies{
		Config:      cfg,
		Logger:      log,
		RateLimiter: rateLimiter,
		Metrics:     metrics,
		Services:    services,
		Database:    pool,
		Cache:       redisClient,
	})

	return &Application{
		cfg:      cfg,
		engine:   engine,
		logger:   log,
		pool:     pool,
		redis:    redisClient,
		producer: producer,
	}, nil
}

// Run serves HTTP until ctx is cancelled, then shuts down gracefully.
func (a *Application) Run(ctx context.Context) error {
	defer func() {
		_ = a.logger.Sync()
	}()
	defer func() {
		if a.pool != nil {
			a.pool.Close()
		}
	}()
	defer func() {
		if a.redis != nil {
			_ = a.redis.Close()
		}
	}()
	defer func() {
		if a.producer != nil {
			if err := a.producer.Close(); err != nil {
				a.logger.Warn("close kafka producer", zap.Error(err))
			}
		}
	}()

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", a.cfg.App.Host, a.cfg.App.Port),
		Handler:           a.engine,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	a.logger.Info("starting byke API",
		zap.String("env", a.cfg.App.Env),
		zap.String("address", srv.Addr),
	)

	serverErrCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrCh <- fmt.Errorf("run server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown server: %w", err)
		}
		return nil
	case err := <-serverErrCh:
		return err
	}
}
