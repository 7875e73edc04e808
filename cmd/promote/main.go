// Command promote sets a user's team role by email address. It bootstraps
// the first owner of a team and can hand admin rights out or back.
//
// Usage:
//
//	promote --email=user@example.com [--role=owner|admin|member]
//
// Reads the same configuration as the server (CONFIG_PATH / env).
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/heartmarshall/flipflop-backend/internal/adapter/postgres"
	userrepo "github.com/heartmarshall/flipflop-backend/internal/adapter/postgres/user"
	"github.com/heartmarshall/flipflop-backend/internal/app"
	"github.com/heartmarshall/flipflop-backend/internal/config"
	"github.com/heartmarshall/flipflop-backend/internal/domain"
)

func main() {
	email := flag.String("email", "", "email of the user to change")
	role := flag.String("role", string(domain.RoleOwner), "team role to grant: owner, admin or member")
	flag.Parse()

	target := domain.Role(*role)
	if *email == "" || !target.IsValid() {
		fmt.Fprintln(os.Stderr, "Usage: promote --email=user@example.com [--role=owner|admin|member]")
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	logger := app.NewLogger(cfg.Log)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		logger.Error("connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()

	users := userrepo.New(pool)
	u, err := users.GetByEmail(ctx, *email)
	if errors.Is(err, domain.ErrNotFound) {
		fmt.Printf("No user found with email %q.\n", *email)
		os.Exit(1)
	}
	if err != nil {
		logger.Error("lookup user", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if u.Role == target {
		fmt.Printf("User %q is already %s.\n", *email, target)
		return
	}

	if u.Role == domain.RoleOwner {
		owners, err := users.ListByTeamRoles(ctx, u.TeamID, domain.RoleOwner)
		if err != nil {
			logger.Error("list owners", slog.String("error", err.Error()))
			os.Exit(1)
		}
		if len(owners) <= 1 {
			fmt.Fprintf(os.Stderr, "User %q is the last owner of the team; promote another owner first.\n", *email)
			os.Exit(1)
		}
	}

	if _, err := users.SetRole(ctx, u.ID, target); err != nil {
		logger.Error("update role", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("team role changed",
		slog.String("user_id", u.ID.String()),
		slog.String("team_id", u.TeamID.String()),
		slog.String("from", u.Role.String()),
		slog.String("to", target.String()),
	)
	fmt.Printf("User %q is now %s.\n", *email, target)
}
