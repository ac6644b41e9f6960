package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/atelierhq/agency-backend/config"
	"github.com/atelierhq/agency-backend/internal/bootstrap"
	"github.com/atelierhq/agency-backend/internal/files"
	"github.com/atelierhq/agency-backend/internal/invoices"
	"github.com/atelierhq/agency-backend/internal/realtime"
	"github.com/atelierhq/agency-backend/internal/storage/postgres"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	bootstrap.SetGinMode(cfg.App.Environment)

	ctx := context.Background()

	db, err := bootstrap.OpenDB(ctx, bootstrap.DBOptions{DSN: postgres.DSN(&cfg.Database)})
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	if err := postgres.Migrate(ctx, db); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	reportDB, err := postgres.NewConnection(&cfg.Database)
	if err != nil {
		log.Fatalf("report database: %v", err)
	}
	defer reportDB.Close()

	rdb, err := bootstrap.OpenRedis(ctx, &cfg.Redis)
	if err != nil {
		log.Fatalf("redis: %v", err)
	}
	defer rdb.Close()

	fileStore, err := files.NewStore(cfg.Uploads.Dir)
	if err != nil {
		log.Fatalf("uploads: %v", err)
	}

	broadcast := realtime.NewBroadcaster(rdb)
	sweeper := invoices.NewSweeper(invoices.NewRepo(db), broadcast)
	if err := sweeper.Start(); err != nil {
		log.Fatalf("invoice sweeper: %v", err)
	}
	defer sweeper.Stop()

	router := bootstrap.BuildRouter(bootstrap.RouterDeps{
		ServiceName:    "agency-backend",
		Version:        cfg.App.Version,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		DB:             db,
		ReportDB:       reportDB,
		Redis:          rdb,
		FileStore:      fileStore,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	go func() {
		log.Printf("listening on :%s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}
