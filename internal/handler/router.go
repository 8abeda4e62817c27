/*
Package handler provides the HTTP handlers and routing setup for the LiveDocs server.

This file defines the main Router, applying logging, CORS, and IP rate
limiting middleware before delegating to the API and WebSocket handlers.
*/
package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/rs/cors"
	"golang.org/x/time/rate"

	"livedocs/internal/pkg/auth/jwt"
	"livedocs/internal/pkg/limiter"
	"livedocs/internal/pkg/logx"
	"livedocs/internal/pkg/resp"
)

const (
	// ConnectRate limits how often one IP may open WebSocket connections.
	ConnectRate  = 1.0
	ConnectBurst = 5

	// TitleRate limits how often one IP may rename documents.
	TitleRate  = 0.5
	TitleBurst = 3
)

// Router sets up the main HTTP routing table for the application.
func Router(deps *AppDeps) http.Handler {
	connectLimiter := limiter.NewIPRateLimiter(rate.Limit(ConnectRate), ConnectBurst)
	titleLimiter := limiter.NewIPRateLimiter(rate.Limit(TitleRate), TitleBurst)

	r := chi.NewRouter()

	allowedOrigins := make(map[string]struct{})
	for _, origin := range deps.Config.AllowedOrigins {
		allowedOrigins[origin] = struct{}{}
	}

	wsUpgrader := websocket.Upgrader{
		ReadBufferSize:  4096,
		WriteBufferSize: 4096,
		CheckOrigin: func(r *http.Request) bool {
			if deps.Config.Environment == "development" {
				return true
			}

			origin := r.Header.Get("Origin")
			if _, ok := allowedOrigins[origin]; ok {
				return true
			}

			logx.Warn("WebSocket connection rejected: Origin not allowed.", "origin", origin)
			return false
		},
	}

	corsAllowedOrigins := []string{}
	if deps.Config.Environment == "development" {
		corsAllowedOrigins = []string{"*"}
	} else if len(deps.Config.AllowedOrigins) > 0 {
		corsAllowedOrigins = deps.Config.AllowedOrigins
	}

	c := cors.New(cors.Options{
		AllowedOrigins:   corsAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{},
		AllowCredentials: true,
		MaxAge:           300,
	})
	r.Use(c.Handler)

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logx.RequestLogger())
	r.Use(middleware.Recoverer)

	r.Get("/health", HandleHealth(deps))

	r.Route("/api", func(api chi.Router) {
		api.Use(jwt.IdentityExtractorMiddleware(deps.Config.JWTSecret))

		rateLimitedTitle := titleLimiter.Middleware(HandleUpdateTitle(deps))
		api.Post("/documents/title", http.HandlerFunc(rateLimitedTitle.ServeHTTP))

		api.Post("/file/presign-upload", HandlePresignUploadURL(deps))
		api.Get("/file/presign-download", HandlePresignDownloadURL(deps))
	})

	r.Get("/ws", HandleWebSocket(wsUpgrader, connectLimiter, deps))

	return r
}

// HandleHealth reports service liveness and document store reachability.
func HandleHealth(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		storeStatus := "connected"
		if err := deps.Gateway.Ping(r.Context()); err != nil {
			storeStatus = "disconnected"
		}

		data := map[string]string{
			"status":  "ok",
			"service": "LiveDocs Server",
			"store":   storeStatus,
		}
		resp.RespondSuccess(w, r, data)
	}
}
