package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"accountd.org/internal/account"
	"accountd.org/internal/config"
	"accountd.org/internal/seed"
)

func main() {
	log.SetFlags(0)
	var (
		adminEmail    = flag.String("admin-email", os.Getenv("ACCOUNTD_SEED_ADMIN_EMAIL"), "Admin account email")
		adminPassword = flag.String("admin-password", os.Getenv("ACCOUNTD_SEED_ADMIN_PASSWORD"), "Admin account password")
		samples       = flag.Int("samples", 0, "Number of sample accounts to seed")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.DatabaseDSN == "" {
		log.Fatal("missing DSN: set ACCOUNTD_PG_DSN")
	}

	pg, err := account.OpenPostgres(cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer pg.Close()

	directory, err := account.NewDirectory(pg, account.WithHashCost(cfg.BcryptCost))
	if err != nil {
		log.Fatalf("directory: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := seed.Run(ctx, directory, seed.Options{
		AdminEmail:     *adminEmail,
		AdminPassword:  *adminPassword,
		SampleAccounts: *samples,
	}); err != nil {
		log.Fatalf("seed: %v", err)
	}
}
