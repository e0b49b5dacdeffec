package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"

	"cloud.google.com/go/compute/metadata"
	"github.com/joho/godotenv"

	"github.com/officechores/duty-api/cache"
	"github.com/officechores/duty-api/config"
	"github.com/officechores/duty-api/database"
	"github.com/officechores/duty-api/handler"
	"github.com/officechores/duty-api/repository"
)

func main() {
	ctx := context.Background()

	// Local development convenience; production runs on real env vars.
	godotenv.Load()

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, nil)))

	// Secrets come from Secret Manager on GCP and from the environment
	// everywhere else.
	var secrets config.Resolver = config.EnvResolver{}
	if metadata.OnGCE() {
		secrets = config.SecretManager{}
	}

	cfg, err := config.Load(ctx, secrets)
	if err != nil {
		log.Fatalf("Load config: %v.", err)
	}

	db, err := database.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Open database: %v.", err)
	}
	defer db.Close()

	memberRepo := repository.NewMemberRepository(db)
	dutyRepo := repository.NewDutyAssignmentRepository(db)

	var recentCache handler.RecentDutyCache
	if cfg.RedisURL != "" {
		c, err := cache.New(ctx, cfg.RedisURL)
		if err != nil {
			slog.Warn("recent duty cache unavailable", "error", err)
		} else {
			recentCache = c
		}
	}

	h := handler.NewHandler(dutyRepo, memberRepo, recentCache)
	r := handler.NewRouter(h)

	log.Printf("Listening on port %s.", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, r); err != nil {
		log.Fatalf("End listen and serve: %v.", err)
	}
}
