/*
Package handler provides the HTTP handlers and routing setup for the LiveDocs server.

This file contains the WebSocket upgrade handler: rate limiting, identity
verification, and client lifecycle startup. Document joining happens over the
established connection via the join_document event.
*/
package handler

import (
	"net"
	"net/http"

	"github.com/gorilla/websocket"

	"livedocs/internal/app/doc"
	"livedocs/internal/app/user"
	"livedocs/internal/pkg/auth/jwt"
	"livedocs/internal/pkg/errs"
	"livedocs/internal/pkg/limiter"
	"livedocs/internal/pkg/logx"
	"livedocs/internal/pkg/resp"
)

// HandleWebSocket creates the HandlerFunc that upgrades connections for the
// realtime surface. Unauthenticated connection attempts are rejected before
// the upgrade.
func HandleWebSocket(upgrader websocket.Upgrader, rateLimiter *limiter.IPRateLimiter, deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ip, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			ip = r.RemoteAddr
		}

		if ip == "" {
			ip = "unknown_ip"
		}

		if !rateLimiter.GetLimiter(ip).Allow() {
			logx.Warn("WebSocket connection rejected: Rate limit exceeded.", "ip", ip)
			resp.RespondError(w, r, errs.NewError(errs.ErrRateLimitExceeded))
			return
		}

		tokenString := jwt.TokenFromRequest(r)
		if tokenString == "" {
			logx.Warn("WebSocket connection rejected: Missing token.")
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		payload, err := jwt.ParseToken(tokenString, deps.Config.JWTSecret)
		if err != nil {
			logx.Warn("WebSocket connection rejected: Invalid token.", "error", err)
			resp.RespondError(w, r, errs.NewError(errs.ErrTokenInvalid))
			return
		}

		currentUser := user.User{
			ID:    payload.UserID,
			Name:  payload.Name,
			Email: payload.Email,
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logx.Error(err, "Failed to upgrade connection to WebSocket")
			return
		}

		client := doc.NewClient(deps.Manager, conn, currentUser)

		go client.WritePump()

		logx.Info("WebSocket connection established", "user_id", currentUser.ID, "connection_id", client.ConnID)

		client.ReadPump()
	}
}
