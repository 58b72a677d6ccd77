package web

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"

	"github.com/uzumaki-ak/LumaFront/pkg/glow"
	"github.com/uzumaki-ak/LumaFront/pkg/hub"
)

// handleStatus returns the current service state
func (s *Server) handleStatus(c *fiber.Ctx) error {
	return c.JSON(s.snapshotState())
}

// handleGetGlow returns the active glow configuration
func (s *Server) handleGetGlow(c *fiber.Ctx) error {
	if s.GlowConfig == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "glow config not wired",
		})
	}
	return c.JSON(s.GlowConfig())
}

// handleSetGlow validates and applies a glow configuration
func (s *Server) handleSetGlow(c *fiber.Ctx) error {
	var cfg glow.Config
	if err := c.BodyParser(&cfg); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid body: " + err.Error(),
		})
	}
	if problems := cfg.Validate(); len(problems) > 0 {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error": strings.Join(problems, "; "),
		})
	}
	if s.OnGlowConfig == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "glow config not wired",
		})
	}
	if err := s.OnGlowConfig(cfg); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(cfg)
}

// handleStatusWS streams state updates; sends the current state first
func (s *Server) handleStatusWS(c *websocket.Conn) {
	client := hub.NewClient(s.statusHub, c)
	c.WriteJSON(s.snapshotState())
	client.Run()
}

// handlePreviewWS streams overlay preview frames as binary PNG
func (s *Server) handlePreviewWS(c *websocket.Conn) {
	hub.NewClient(s.previewHub, c).Run()
}
