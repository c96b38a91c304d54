package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"planivo-backend/internal/audit"
	"planivo-backend/internal/auth"
	"planivo-backend/internal/cache"
	"planivo-backend/internal/config"
	"planivo-backend/internal/handlers"
	"planivo-backend/internal/natsbus"
	"planivo-backend/internal/realtime"
	"planivo-backend/internal/rpc"
	"planivo-backend/internal/services"
	"planivo-backend/internal/storage"
	"planivo-backend/internal/workers"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Config error: %v", err)
	}

	// Database connection (with retries)
	var db *sqlx.DB
	for i := 0; i < 10; i++ {
		db, err = sqlx.Connect("postgres", cfg.DSN())
		if err == nil {
			break
		}
		log.Printf("DB connection attempt %d failed: %v", i+1, err)
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	log.Println("Connected to database")

	// NATS connection
	natsClient, err := natsbus.Connect(cfg.NATSURL)
	if err != nil {
		log.Fatalf("Failed to connect to NATS: %v", err)
	}
	defer natsClient.Close()

	// Redis cache
	redisClient, err := cache.NewRedisClient(cfg.RedisURL)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()

	store := storage.NewStorage(db)

	issuer, err := auth.NewTokenIssuer(cfg.JWTSecret)
	if err != nil {
		log.Fatalf("Failed to set up token issuer: %v", err)
	}

	// Realtime credentials are optional; the endpoint answers 503 when
	// no signing key is configured.
	var rtIssuer *realtime.JWTIssuer
	if cfg.NATSSigningKeySeed != "" {
		rtIssuer, err = realtime.NewJWTIssuer(cfg.NATSSigningKeySeed, cfg.NATSAccountPublicKey)
		if err != nil {
			log.Fatalf("Failed to set up realtime issuer: %v", err)
		}
	} else {
		log.Println("WARN NATS_SIGNING_KEY_SEED unset; realtime credentials disabled")
	}

	rpcClient := rpc.NewClient(natsClient.NC())
	paymentClient := services.NewPaymentClient(cfg.PaymentAPIKey, cfg.PaymentBaseURL)
	emailService := services.NewEmailService(cfg.SendgridAPIKey, cfg.EmailFrom, cfg.AppBaseURL)
	recorder := audit.NewRecorder(natsClient.JS())
	hub := realtime.NewHub()

	// Background consumers and workers
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	auditConsumer := audit.NewConsumer(natsClient.JS(), store)
	if err := auditConsumer.Start(ctx); err != nil {
		log.Fatalf("Failed to start audit consumer: %v", err)
	}

	presenceWatcher := realtime.NewPresenceWatcher(natsClient.KV(), redisClient)
	if err := presenceWatcher.Start(ctx); err != nil {
		log.Fatalf("Failed to start presence watcher: %v", err)
	}

	availabilityResponder := rpc.NewResponder(natsClient.NC(), store)
	if err := availabilityResponder.Start(); err != nil {
		log.Fatalf("Failed to start availability responder: %v", err)
	}

	if !workers.StartPresenceKeyeventWorker(ctx, redisClient) {
		log.Println("WARN Redis keyspace notifications unavailable; using presence reconciler")
		workers.StartPresenceReconciler(ctx, redisClient)
	}
	workers.StartCleanupWorker(ctx, store)

	// HTTP
	h := handlers.New(store, redisClient, recorder, hub, natsClient.NC(),
		paymentClient, emailService, rpcClient)
	authHandler := auth.NewHandler(store, issuer)
	rtHandler := realtime.NewHandler(rtIssuer, hub)

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	h.RegisterRoutes(r, issuer, authHandler, rtHandler)

	server := &http.Server{
		Addr:    cfg.Addr,
		Handler: r,
	}

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		log.Println("Shutting down...")
		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()

		_ = auditConsumer.Stop()
		_ = presenceWatcher.Stop()
		_ = availabilityResponder.Stop()
		_ = server.Shutdown(shutdownCtx)
	}()

	log.Printf("Server starting on %s", cfg.Addr)
	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatalf("Server error: %v", err)
	}
	log.Println("Server stopped")
}
