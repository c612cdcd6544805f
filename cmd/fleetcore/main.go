package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fleetcore/internal/auth"
	"fleetcore/internal/config"
	"fleetcore/internal/db"
	"fleetcore/internal/httpserver"
	"fleetcore/internal/logging"
	"fleetcore/internal/trailers"
	"fleetcore/internal/trips"
	"fleetcore/internal/vehicles"
)

func main() {
	ctx := context.Background()
	logger := logging.New()

	cfg := config.Load()

	defaultRole, err := auth.ParseRole(cfg.RegisterRole)
	if err != nil {
		log.Fatalf("register role: %v", err)
	}

	dbConn, err := db.Open(ctx, cfg.DBDSN)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer dbConn.Close()

	if err := db.RunMigrations(ctx, dbConn, "sql"); err != nil {
		log.Fatalf("run migrations: %v", err)
	}

	userStore := auth.NewStore(dbConn)
	if err := userStore.SeedFromFile(ctx, cfg.UsersPath); err != nil {
		log.Fatalf("seed users: %v", err)
	}

	issuer := auth.NewIssuer(cfg.AccessSecret, cfg.RefreshSecret, cfg.AccessTTL, cfg.RefreshTTL)
	revocations := auth.NewRevocationList(dbConn)
	authSvc := auth.NewService(userStore, revocations, issuer, defaultRole)

	vehicleStore := vehicles.NewStore(dbConn)
	trailerStore := trailers.NewStore(dbConn)
	tripStore := trips.NewStore(dbConn)

	handler := httpserver.NewRouter(logger, authSvc, issuer, userStore, vehicleStore, trailerStore, tripStore)
	server := httpserver.New(cfg.HTTPAddr, handler, logger)

	go func() {
		if err := server.Start(); err != nil {
			log.Fatalf("http server: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}
