package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"systemaide.org/internal/audit"
	"systemaide.org/internal/auth"
	"systemaide.org/internal/bootstrap"
	"systemaide.org/internal/books"
	"systemaide.org/internal/config"
	"systemaide.org/internal/fieldcrypt"
	"systemaide.org/internal/httpapi"
	"systemaide.org/internal/obs"
	"systemaide.org/internal/store/pg"
)

var (
	version = "0.1.0"
	commit  = "dev"
)

func main() {
	obs.Init()
	obs.SetBuildInfo(version, commit)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if err := cfg.ValidateSecrets(); err != nil {
		log.Fatalf("%v", err)
	}
	if cfg.Database.DSN == "" {
		log.Fatal("missing DSN: set SYSTEMAIDE_PG_DSN")
	}

	codec, err := fieldcrypt.NewCodec(cfg.Crypto.TINKey)
	if err != nil {
		log.Fatalf("field crypto: %v", err)
	}

	store, err := pg.Open(cfg.Database.DSN, codec)
	if err != nil {
		log.Fatalf("open store: %v", err)
	}
	defer store.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := store.Ping(ctx); err != nil {
		cancel()
		log.Fatalf("ping db: %v", err)
	}
	if err := bootstrap.Ensure(ctx, store, bootstrap.Config{
		SysadminEmail:    cfg.Bootstrap.SysadminEmail,
		SysadminPassword: cfg.Bootstrap.SysadminPassword,
	}); err != nil {
		cancel()
		log.Fatalf("bootstrap: %v", err)
	}
	cancel()

	tokens, err := auth.NewTokenIssuer(
		cfg.Auth.SessionSecret,
		cfg.Auth.ServiceSecret,
		cfg.Auth.SecurityToken,
		auth.WithIssuer(cfg.Auth.Issuer),
		auth.WithSessionTTL(time.Duration(cfg.Auth.SessionTTLHours)*time.Hour),
	)
	if err != nil {
		log.Fatalf("token issuer: %v", err)
	}
	authSvc, err := auth.NewService(store, tokens)
	if err != nil {
		log.Fatalf("auth service: %v", err)
	}
	booksSvc, err := books.NewService(store)
	if err != nil {
		log.Fatalf("books service: %v", err)
	}
	recorder, err := audit.NewRecorder(store.AuditLogs(), store.Journals(), store.Users())
	if err != nil {
		log.Fatalf("audit recorder: %v", err)
	}

	api := httpapi.New(authSvc, booksSvc, recorder, httpapi.ReadyProbe{DB: store.DB()}, httpapi.Options{
		Version:        version,
		AllowedOrigins: cfg.Server.CorsAllowedOrigins,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           api.Handler(),
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	log.Printf("starting systemaide-api %s on %s", version, srv.Addr)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	<-stop
	log.Println("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	_ = srv.Shutdown(shutdownCtx)
	log.Println("stopped")
}
