package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/heartmarshall/flipflop-backend/internal/adapter/llm"
	"github.com/heartmarshall/flipflop-backend/internal/adapter/mailer"
	"github.com/heartmarshall/flipflop-backend/internal/adapter/postgres"
	"github.com/heartmarshall/flipflop-backend/internal/adapter/postgres/audit"
	integrationrepo "github.com/heartmarshall/flipflop-backend/internal/adapter/postgres/integration"
	"github.com/heartmarshall/flipflop-backend/internal/adapter/postgres/job"
	meetingrepo "github.com/heartmarshall/flipflop-backend/internal/adapter/postgres/meeting"
	memoryrepo "github.com/heartmarshall/flipflop-backend/internal/adapter/postgres/memory"
	"github.com/heartmarshall/flipflop-backend/internal/adapter/postgres/session"
	userrepo "github.com/heartmarshall/flipflop-backend/internal/adapter/postgres/user"
	"github.com/heartmarshall/flipflop-backend/internal/adapter/provider/oauth"
	authpkg "github.com/heartmarshall/flipflop-backend/internal/auth"
	"github.com/heartmarshall/flipflop-backend/internal/config"
	"github.com/heartmarshall/flipflop-backend/internal/credential"
	"github.com/heartmarshall/flipflop-backend/internal/queue"
	"github.com/heartmarshall/flipflop-backend/internal/scheduler"
	authsvc "github.com/heartmarshall/flipflop-backend/internal/service/auth"
	"github.com/heartmarshall/flipflop-backend/internal/service/email"
	integrationsvc "github.com/heartmarshall/flipflop-backend/internal/service/integration"
	meetingsvc "github.com/heartmarshall/flipflop-backend/internal/service/meeting"
	memorysvc "github.com/heartmarshall/flipflop-backend/internal/service/memory"
	"github.com/heartmarshall/flipflop-backend/internal/service/query"
	"github.com/heartmarshall/flipflop-backend/internal/service/syncer"
	"github.com/heartmarshall/flipflop-backend/internal/transport/middleware"
	"github.com/heartmarshall/flipflop-backend/internal/transport/rest"
	"github.com/heartmarshall/flipflop-backend/internal/transport/ws"
)

// syncTaskName is the scheduler tag of the recurring sync.
const syncTaskName = "sync-active-integrations"

// Run is the application entry point. It loads configuration, connects to
// the database, wires services and serves HTTP, the job workers and the
// scheduler until ctx is cancelled.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := NewLogger(cfg.Log)

	logger.Info("starting application",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
		slog.Any("providers", cfg.Providers.Enabled()),
	)

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("app: connect database: %w", err)
	}
	defer pool.Close()

	// Repositories.
	integrationRepo := integrationrepo.New(pool)
	jobRepo := job.New(pool)
	meetingRepo := meetingrepo.New(pool)
	memoryRepo := memoryrepo.New(pool)
	sessionRepo := session.New(pool)
	userRepo := userrepo.New(pool)
	txm := postgres.NewTxManager(pool)

	// Infrastructure.
	credentials, err := credential.NewStore(cfg.Credentials.EncryptionKey, credential.Mode(cfg.Credentials.Cipher))
	if err != nil {
		return fmt.Errorf("app: credential store: %w", err)
	}
	completer, err := llm.NewCompleter(cfg.LLM, logger)
	if err != nil {
		return fmt.Errorf("app: llm: %w", err)
	}
	embedder, err := llm.NewEmbedder(cfg.LLM, logger)
	if err != nil {
		return fmt.Errorf("app: embedder: %w", err)
	}
	registry := NewRegistry(cfg, logger)
	broker := queue.NewBroker(jobRepo, cfg.Queue, logger)
	hub := ws.NewHub(logger, splitCSV(cfg.CORS.AllowedOrigins))
	jwtMgr := authpkg.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, cfg.Auth.JWTAudience)

	// Services.
	authService := authsvc.NewService(logger, userRepo, sessionRepo, jwtMgr, cfg.Auth)
	memoryService := memorysvc.NewService(logger, memoryRepo, embedder, hub)
	queryService := query.NewService(logger, memoryService, completer)
	integrationService := integrationsvc.NewService(
		logger, integrationRepo, registry, oauth.NewStateCodec(cfg.Auth.StateSigningKey),
		credentials, broker, memoryService, audit.New(pool), cfg.Providers.SlackSigningSecret,
	)
	syncService := syncer.NewService(
		logger, integrationRepo, registry, credentials, memoryService,
		userRepo, broker, hub, cfg.Sync.MaxPages,
	)
	meetingService := meetingsvc.NewService(logger, meetingRepo, broker, txm, completer, memoryService)
	emailService := email.NewService(logger, mailer.New(cfg.Email, logger))

	// Job handlers.
	broker.Handle(queue.Sync, syncService.HandleJob, syncService.OnJobFailed)
	broker.Handle(queue.Email, emailService.HandleJob, nil)
	broker.Handle(queue.Meeting, meetingService.HandleJob, meetingService.OnJobFailed)

	// Scheduler.
	sched, err := scheduler.New(cfg.Scheduler.Timezone, logger)
	if err != nil {
		return err
	}
	if cfg.Scheduler.Enabled {
		err = sched.Register(scheduler.Task{
			Name:     syncTaskName,
			Schedule: cfg.Scheduler.SyncCron,
			Handler: func(ctx context.Context) error {
				_, err := syncService.EnqueueActive(ctx)
				return err
			},
		})
		if err != nil {
			return err
		}
	}

	// HTTP.
	limiter := middleware.NewRateLimiter(time.Minute)
	defer limiter.Stop()

	slackHandler := rest.NewSlackHandler(integrationService, logger)

	router := rest.NewRouter(rest.Handlers{
		Health:      rest.NewHealthHandler(pool, broker, BuildVersion()),
		Integration: rest.NewIntegrationHandler(integrationService, logger),
		Slack:       slackHandler,
		Memory:      rest.NewMemoryHandler(memoryService, logger),
		Query:       rest.NewQueryHandler(queryService, logger),
		Meeting:     rest.NewMeetingHandler(meetingService, logger),
		Session:     rest.NewSessionHandler(authService, logger),
		Admin:       rest.NewAdminHandler(broker, logger),
		Stream:      hub,
	}, rest.Limits{
		Webhook: limiter.Limit("webhook", cfg.RateLimit.Requests, cfg.RateLimit.Window, middleware.ByIP),
		Query:   limiter.Limit("query", cfg.RateLimit.QueryRequests, cfg.RateLimit.QueryWindow, middleware.ByCaller),
	})

	handler := middleware.Standard(logger, cfg.CORS, authService)(router)

	srv := &http.Server{
		Addr:         net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port)),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return broker.Run(gctx)
	})

	g.Go(func() error {
		sched.Start()
		<-gctx.Done()
		sched.Stop()
		return nil
	})

	g.Go(func() error {
		logger.Info("http server listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("app: http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(gctx), cfg.Server.ShutdownTimeout)
		defer cancel()
		shutdownErr := srv.Shutdown(shutdownCtx)
		// Acknowledged Slack events still write through the pool.
		if err := slackHandler.Wait(shutdownCtx); err != nil {
			logger.Warn("slack events still running at shutdown", slog.String("error", err.Error()))
		}
		return shutdownErr
	})

	err = g.Wait()
	// Broker and HTTP handlers have stopped, so nothing publishes anymore.
	hub.Wait()
	if err != nil {
		return err
	}
	logger.Info("shutdown complete")
	return nil
}

func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
