package server

import (
	"context"
	"errors"
	"log/slog"
	"strconv"

	"inkwell/internal/cache"
	"inkwell/internal/featureflags"
	"inkwell/internal/middleware"
	"inkwell/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

func redisUnavailable(c *fiber.Ctx) error {
	return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
		"error": "Realtime service unavailable",
		"code":  "REDIS_UNAVAILABLE",
	})
}

// IssueWSTicket handles POST /api/ws/ticket. Browsers cannot set headers on
// a WebSocket handshake, so the stream is authorized by a single-use ticket.
// @Summary Issue a WebSocket ticket
// @Tags realtime
// @Produce json
// @Security BearerAuth
// @Success 200 {object} object{ticket=string,expiresIn=int}
// @Router /ws/ticket [post]
func (s *Server) IssueWSTicket(c *fiber.Ctx) error {
	if s.redis == nil {
		return redisUnavailable(c)
	}

	ticket := uuid.NewString()
	userID := strconv.FormatUint(uint64(principal(c).ID), 10)
	if err := s.redis.Set(c.UserContext(), cache.WSTicketKey(ticket), userID, cache.WSTicketTTL).Err(); err != nil {
		return respondError(c, models.NewInternalError(err))
	}

	return c.JSON(fiber.Map{
		"ticket":    ticket,
		"expiresIn": int(cache.WSTicketTTL.Seconds()),
	})
}

// WSTicketRequired redeems the ?ticket= query parameter and requires a
// WebSocket upgrade. The ticket is consumed even if the upgrade is missing.
func (s *Server) WSTicketRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !s.featureFlags.On(featureflags.LiveNotifications) {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"error": "Live notifications are disabled",
				"code":  "FEATURE_DISABLED",
			})
		}
		if s.redis == nil {
			return redisUnavailable(c)
		}

		ticket := c.Query("ticket")
		if ticket == "" {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("WebSocket ticket required"))
		}

		raw, err := s.redis.GetDel(c.UserContext(), cache.WSTicketKey(ticket)).Result()
		if err != nil {
			if !errors.Is(err, redis.Nil) {
				middleware.Logger.WarnContext(c.UserContext(), "ticket lookup failed", slog.String("error", err.Error()))
			}
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Invalid or expired WebSocket ticket"))
		}
		userID, err := strconv.ParseUint(raw, 10, 32)
		if err != nil || userID == 0 {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Invalid or expired WebSocket ticket"))
		}

		if !websocket.IsWebSocketUpgrade(c) {
			return fiber.ErrUpgradeRequired
		}

		c.Locals(localsUserID, uint(userID))
		c.SetUserContext(context.WithValue(c.UserContext(), middleware.UserIDKey, uint(userID)))
		return c.Next()
	}
}

// NotificationStream pushes broadcast notifications to the connected user.
// Incoming frames are ignored apart from keepalive handling.
func (s *Server) NotificationStream() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		userID, ok := conn.Locals(localsUserID).(uint)
		if !ok {
			_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"error":"unauthorized"}`))
			_ = conn.Close()
			return
		}

		client, err := s.hub.Register(userID, conn)
		if err != nil {
			middleware.Logger.Warn("notification stream rejected",
				slog.Uint64("user_id", uint64(userID)),
				slog.String("error", err.Error()),
			)
			_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"error":"`+err.Error()+`"}`))
			_ = conn.Close()
			return
		}

		go client.WritePump()
		client.ReadPump()
	})
}
