// Command cleanup-sessions deletes expired or revoked extension sessions and
// finished jobs older than the configured retention. It is intended to be
// invoked by an external cron job, not as an in-process goroutine.
//
// Exit codes: 0 = success, 1 = error.
package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/heartmarshall/flipflop-backend/internal/adapter/postgres"
	"github.com/heartmarshall/flipflop-backend/internal/adapter/postgres/job"
	"github.com/heartmarshall/flipflop-backend/internal/adapter/postgres/session"
	userrepo "github.com/heartmarshall/flipflop-backend/internal/adapter/postgres/user"
	"github.com/heartmarshall/flipflop-backend/internal/app"
	authpkg "github.com/heartmarshall/flipflop-backend/internal/auth"
	"github.com/heartmarshall/flipflop-backend/internal/config"
	authsvc "github.com/heartmarshall/flipflop-backend/internal/service/auth"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := app.NewLogger(cfg.Log)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		logger.Error("connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()

	jwtMgr := authpkg.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, cfg.Auth.JWTAudience)
	auth := authsvc.NewService(logger, userrepo.New(pool), session.New(pool), jwtMgr, cfg.Auth)

	sessions, err := auth.CleanupSessions(ctx)
	if err != nil {
		logger.Error("session cleanup failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	threshold := time.Now().Add(-cfg.Queue.Retention)
	jobs, err := job.New(pool).DeleteFinishedBefore(ctx, threshold)
	if err != nil {
		logger.Error("job cleanup failed",
			slog.String("error", err.Error()),
			slog.Time("threshold", threshold),
		)
		os.Exit(1)
	}

	logger.Info("cleanup completed",
		slog.Int("sessions_deleted", sessions),
		slog.Int("jobs_deleted", jobs),
		slog.Time("job_threshold", threshold),
	)
}
