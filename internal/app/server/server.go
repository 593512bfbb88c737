package server

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/KirilStrezikozin/mini-chat-backend/internal/app/server/handlers"
	"github.com/KirilStrezikozin/mini-chat-backend/internal/config"
	"github.com/KirilStrezikozin/mini-chat-backend/internal/core/contracts"
	"github.com/KirilStrezikozin/mini-chat-backend/internal/core/services"
	"github.com/KirilStrezikozin/mini-chat-backend/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
)

type Deps struct {
	Log           *slog.Logger
	DB            *sql.DB
	Redis         *redis.Client
	Hub           contracts.Registry
	TokenSvc      *services.TokenService
	AuthSvc       services.IAuthService
	ProfileSvc    services.IProfileService
	DiscoverySvc  services.IDiscoveryService
	ChatSvc       services.IChatService
	MessageSvc    services.IMessageService
	AttachmentSvc services.IAttachmentService
	Tickets       contracts.TicketStore
	Presence      contracts.PresenceStore
}

type Server struct {
	http *http.Server
	log  *slog.Logger
}

func NewServer(cfg config.ServiceConfig, tokenCfg config.TokenConfig, deps Deps) *Server {
	secure := tokenCfg.UseSecureCookies

	authHandler := handlers.NewAuthHandler(deps.AuthSvc, deps.TokenSvc, secure)
	userHandler := handlers.NewUserHandler(deps.ProfileSvc, deps.DiscoverySvc, deps.AuthSvc, secure)
	chatHandler := handlers.NewChatHandler(deps.ChatSvc, deps.AttachmentSvc)
	messageHandler := handlers.NewMessageHandler(deps.MessageSvc, deps.AttachmentSvc)
	attachmentHandler := handlers.NewAttachmentHandler(deps.AttachmentSvc)
	wsHandler := handlers.NewWSHandler(deps.Hub, deps.TokenSvc, deps.Tickets, deps.Presence)
	healthHandler := handlers.NewHealthHandler(deps.DB, deps.Redis)

	auth := middleware.AuthMiddleware(deps.TokenSvc, secure)

	r := chi.NewRouter()
	r.Use(middleware.RequestLogger(deps.Log))
	r.Use(middleware.TracerMiddleware(cfg.Name))

	r.Get("/health", healthHandler.Health)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
			r.Post("/logout", authHandler.Logout)
			r.With(auth).Get("/token", authHandler.Token)
			r.With(auth).Post("/ws-ticket", authHandler.WSTicket)
		})

		r.Group(func(r chi.Router) {
			r.Use(auth)

			r.Route("/user", func(r chi.Router) {
				r.Get("/", userHandler.Me)
				r.Delete("/", userHandler.Delete)
				r.Patch("/fullname", userHandler.PatchFullname)
				r.Patch("/username", userHandler.PatchUsername)
				r.Get("/chats", chatHandler.List)
			})

			r.Route("/chats", func(r chi.Router) {
				r.Post("/", chatHandler.GetOrCreate)
				r.Get("/search", userHandler.Search)
				r.Route("/{chatID}", func(r chi.Router) {
					r.Post("/leave", chatHandler.Leave)
					r.Get("/messages", chatHandler.History)
					r.Post("/send", chatHandler.SendMessage)
					r.Get("/attachments", chatHandler.ListAttachments)
				})
			})

			r.Route("/messages/{messageID}", func(r chi.Router) {
				r.Get("/", messageHandler.Get)
				r.Patch("/", messageHandler.Patch)
				r.Delete("/", messageHandler.Delete)
				r.Post("/attachments", messageHandler.AddAttachments)
			})

			r.Get("/attachments/{attachmentID}", attachmentHandler.Download)
		})
	})

	// The upgrade request authenticates with its own single-use ticket,
	// not the cookie middleware.
	r.Get("/ws", wsHandler.Handler)

	return &Server{
		http: &http.Server{
			Addr:         cfg.Addr,
			Handler:      r,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
		},
		log: deps.Log,
	}
}

func (s *Server) Start() error {
	s.log.Info("server - starting", "addr", s.http.Addr)
	return s.http.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info("server - shutting down")
	return s.http.Shutdown(ctx)
}
