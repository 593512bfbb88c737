package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/KirilStrezikozin/mini-chat-backend/internal/app/registry"
	"github.com/KirilStrezikozin/mini-chat-backend/internal/app/server"
	"github.com/KirilStrezikozin/mini-chat-backend/internal/config"
	"github.com/KirilStrezikozin/mini-chat-backend/internal/core/services"
	"github.com/KirilStrezikozin/mini-chat-backend/internal/platform/logger"
	"github.com/KirilStrezikozin/mini-chat-backend/internal/platform/telemetry"
	"github.com/KirilStrezikozin/mini-chat-backend/internal/plugins/postgres"
	redisPlugin "github.com/KirilStrezikozin/mini-chat-backend/internal/plugins/redis"
	"github.com/KirilStrezikozin/mini-chat-backend/internal/plugins/s3"
)

func main() {
	// Context
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Config
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("config load failed: " + err.Error() + "\n")
		os.Exit(1)
	}

	// Logger
	log := logger.NewLogger(*cfg)
	log.Info("starting application")

	otelShutdown, err := telemetry.InitTelemetry(ctx, *cfg)
	if err != nil {
		log.Error("failed to initialize telemetry", "err", err)
	}
	defer func() {
		log.Info("flushing telemetry...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := otelShutdown(shutdownCtx); err != nil {
			log.Error("telemetry shutdown failed", "err", err)
		}
	}()

	// Infra
	pdb, err := postgres.New(ctx, *cfg.Postgres)
	if err != nil {
		log.Error("postgres connection failed", "err", err)
		return
	}
	defer pdb.Close()
	if err := postgres.Migrate(ctx, pdb); err != nil {
		log.Error("postgres migration failed", "err", err)
		return
	}
	log.Info("postgres connected")

	rdb, err := redisPlugin.NewRedisClient(ctx, *cfg.Redis)
	if err != nil {
		log.Error("redis connection failed", "url", cfg.Redis.URL)
		return
	}
	defer rdb.Close()
	log.Info("redis connected")

	objectStore, err := s3.New(ctx, *cfg.S3)
	if err != nil {
		log.Error("object store setup failed", "err", err)
		return
	}
	log.Info("object store ready", "bucket", cfg.S3.Bucket)

	// Adapters
	userRepo := postgres.NewUserRepository(pdb)
	chatRepo := postgres.NewChatRepository(pdb)
	msgRepo := postgres.NewMessageRepository(pdb)
	attachmentRepo := postgres.NewAttachmentRepository(pdb)
	presStore := redisPlugin.NewRedisPresenceStore(rdb)
	ticketStore := redisPlugin.NewRedisTicketStore(rdb)
	txManager := postgres.NewTxManager(pdb)

	// Core
	hub := registry.NewRegistry(log)
	announcer := registry.NewAnnouncer(log, hub)

	tokenSvc := services.NewTokenService(*cfg.Token)
	authSvc := services.NewAuthService(log, userRepo, txManager)
	profileSvc := services.NewProfileService(log, userRepo, txManager)
	discoverySvc := services.NewDiscoveryService(log, userRepo)
	chatSvc := services.NewChatService(log, chatRepo, msgRepo, presStore, announcer, txManager)
	messageSvc := services.NewMessageService(log, msgRepo, chatRepo, announcer, txManager)
	attachmentSvc := services.NewAttachmentService(log, attachmentRepo, msgRepo, chatRepo, objectStore, announcer, txManager)

	// Server
	srv := server.NewServer(*cfg.Service, *cfg.Token, server.Deps{
		Log:           log,
		DB:            pdb,
		Redis:         rdb,
		Hub:           hub,
		TokenSvc:      tokenSvc,
		AuthSvc:       authSvc,
		ProfileSvc:    profileSvc,
		DiscoverySvc:  discoverySvc,
		ChatSvc:       chatSvc,
		MessageSvc:    messageSvc,
		AttachmentSvc: attachmentSvc,
		Tickets:       ticketStore,
		Presence:      presStore,
	})

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("server shutdown failed", "err", err)
		}
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server stopped", "err", err)
		}
	}
	log.Info("application stopped")
}
