// Command enqueue-sync queues a sync for one integration, or for every
// active integration when no id is given.
//
// Usage:
//
//	enqueue-sync [--integration=<uuid>]
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/flipflop-backend/internal/adapter/postgres"
	integrationrepo "github.com/heartmarshall/flipflop-backend/internal/adapter/postgres/integration"
	"github.com/heartmarshall/flipflop-backend/internal/adapter/postgres/job"
	userrepo "github.com/heartmarshall/flipflop-backend/internal/adapter/postgres/user"
	"github.com/heartmarshall/flipflop-backend/internal/app"
	"github.com/heartmarshall/flipflop-backend/internal/config"
	"github.com/heartmarshall/flipflop-backend/internal/credential"
	"github.com/heartmarshall/flipflop-backend/internal/queue"
	"github.com/heartmarshall/flipflop-backend/internal/service/syncer"
)

func main() {
	id := flag.String("integration", "", "integration id; empty queues every active integration")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := app.NewLogger(cfg.Log)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		logger.Error("connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()

	credentials, err := credential.NewStore(cfg.Credentials.EncryptionKey, credential.Mode(cfg.Credentials.Cipher))
	if err != nil {
		logger.Error("credential store", slog.String("error", err.Error()))
		os.Exit(1)
	}

	broker := queue.NewBroker(job.New(pool), cfg.Queue, logger)
	svc := syncer.NewService(
		logger, integrationrepo.New(pool), app.NewRegistry(cfg, logger), credentials,
		nil, userrepo.New(pool), broker, nil, cfg.Sync.MaxPages,
	)

	if *id == "" {
		n, err := svc.EnqueueActive(ctx)
		if err != nil {
			logger.Error("enqueue active integrations", slog.String("error", err.Error()))
			os.Exit(1)
		}
		fmt.Printf("Queued %d sync job(s).\n", n)
		return
	}

	integrationID, err := uuid.Parse(*id)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid integration id %q: %v\n", *id, err)
		os.Exit(1)
	}
	j, err := svc.EnqueueOne(ctx, integrationID)
	if err != nil {
		logger.Error("enqueue integration", slog.String("integration_id", *id), slog.String("error", err.Error()))
		os.Exit(1)
	}
	fmt.Printf("Queued sync job %s.\n", j.ID)
}
