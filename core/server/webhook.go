package server

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"log/slog"

	"github.com/dvaldes/warouter/core/buildinfo"
	"github.com/dvaldes/warouter/core/logger"
	"github.com/dvaldes/warouter/core/whatsapp"
)

func (s *Server) handleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "ok",
		"version": buildinfo.Version,
	})
}

// handleVerify answers the channel's subscription handshake: echo the
// challenge when the token matches, refuse otherwise.
func (s *Server) handleVerify(c *fiber.Ctx) error {
	mode := c.Query("hub.mode")
	token := c.Query("hub.verify_token")
	challenge := c.Query("hub.challenge")

	if mode == "subscribe" && s.verifyToken != "" && token == s.verifyToken {
		return c.SendString(challenge)
	}
	logger.HTTP.Warn("verification refused",
		slog.String("event", "webhook.verify"),
		slog.String("mode", mode),
		slog.Int("http_code", fiber.StatusForbidden),
	)
	return c.SendStatus(fiber.StatusForbidden)
}

func (s *Server) handleWebhook(c *fiber.Ctx) error {
	ctx := c.UserContext()
	start := time.Now()

	var ev whatsapp.Event
	if err := c.BodyParser(&ev); err != nil {
		logger.LogEvent(ctx, logger.HTTP, slog.LevelWarn, "webhook.decode",
			slog.String("status", "fail"),
			slog.Int("http_code", fiber.StatusBadRequest),
			slog.String("err", err.Error()),
		)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "malformed payload"})
	}

	sender := whatsapp.ResolveSender(ev)
	ctx = logger.WithSenderID(ctx, sender)

	dec, err := s.engine.Route(ctx, ev)
	if err != nil {
		logger.LogEvent(ctx, logger.HTTP, slog.LevelError, "webhook.route",
			slog.String("status", "fail"),
			slog.Int("http_code", fiber.StatusInternalServerError),
			slog.String("err", err.Error()),
			slog.Duration("duration", logger.Took(start)),
		)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "session store unavailable"})
	}

	reply, err := s.dispatcher.Dispatch(ctx, sender, dec)
	if err != nil {
		logger.LogEvent(ctx, logger.HTTP, slog.LevelError, "webhook.dispatch",
			slog.String("status", "fail"),
			slog.Int("http_code", fiber.StatusInternalServerError),
			slog.String("err", err.Error()),
			slog.Duration("duration", logger.Took(start)),
		)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "dispatch failed"})
	}

	logger.LogEvent(ctx, logger.HTTP, slog.LevelInfo, "webhook.handled",
		slog.String("route", dec.RouteTarget),
		slog.Bool("show_menu", dec.ShouldShowMenu),
		slog.Duration("duration", logger.Took(start)),
	)
	return c.JSON(fiber.Map{
		"normalizedMessage": dec.NormalizedMessage,
		"routeTarget":       dec.RouteTarget,
		"shouldShowMenu":    dec.ShouldShowMenu,
		"reply":             reply,
	})
}

func (s *Server) handleSessionGet(c *fiber.Ctx) error {
	senderID := c.Params("id")
	st, err := s.store.Get(c.UserContext(), senderID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "session store unavailable"})
	}
	if st == nil {
		return c.SendStatus(fiber.StatusNotFound)
	}
	return c.JSON(st)
}

func (s *Server) handleSessionReset(c *fiber.Ctx) error {
	senderID := c.Params("id")
	if err := s.store.Reset(c.UserContext(), senderID); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "session store unavailable"})
	}
	logger.LogEvent(c.UserContext(), logger.HTTP, slog.LevelInfo, "session.reset",
		slog.String("sender_id", senderID),
	)
	return c.SendStatus(fiber.StatusNoContent)
}
