package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"accountd.org/internal/account"
	"accountd.org/internal/auth"
	"accountd.org/internal/config"
	"accountd.org/internal/httpapi"
	"accountd.org/internal/obs"
)

var version = "0.3.1"

func main() {
	obs.Init()
	obs.InitBuildInfo(version, os.Getenv("ACCOUNTD_COMMIT"))

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	// Postgres when a DSN is configured, in-memory otherwise. The memory
	// store keeps local development and demos free of infrastructure.
	var (
		store account.Store
		db    *sql.DB
	)
	if cfg.DatabaseDSN != "" {
		pg, err := account.OpenPostgres(cfg.DatabaseDSN)
		if err != nil {
			log.Fatalf("open db: %v", err)
		}
		store = pg
		db = pg.DB()
	} else {
		store = account.NewMemoryStore()
	}

	directory, err := account.NewDirectory(store, account.WithHashCost(cfg.BcryptCost))
	if err != nil {
		log.Fatalf("directory: %v", err)
	}

	codec, err := auth.NewCodec(cfg.AuthSecret,
		auth.WithIssuer(cfg.TokenIssuer),
		auth.WithTokenTTL(cfg.TokenTTL),
	)
	if err != nil {
		log.Fatalf("token codec: %v", err)
	}

	api := httpapi.New(httpapi.ReadyProbe{DB: db}, version, directory, codec)

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           api.Handler(),
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	log.Printf("Starting accountd-api %s on %s", version, srv.Addr)

	// graceful shutdown
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	<-stop
	log.Println("Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	_ = srv.Shutdown(ctx)
	if db != nil {
		_ = db.Close()
	}
	log.Println("Stopped")
}
