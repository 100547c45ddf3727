package api

import (
	"github.com/gofiber/fiber/v2"

	"github.com/netguru/ts-dns/internal/format"
)

// Zone serves the inventory as BIND zone lines.
func (s server) Zone(ctx *fiber.Ctx) error {
	s.logRequest(ctx, "Zone endpoint called")

	inv, sent, err := s.fetch(ctx)
	if sent {
		return err
	}

	ctx.Response().Header.Set(contentTypeHeader, contentTypePlaintext)
	return ctx.SendString(format.Bind(inv))
}

// Hosts serves the inventory in Pi-hole local.list form.
func (s server) Hosts(ctx *fiber.Ctx) error {
	s.logRequest(ctx, "Hosts endpoint called")

	if s.cfg.Domain == "" {
		return ctx.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "no base domain configured",
		})
	}

	inv, sent, err := s.fetch(ctx)
	if sent {
		return err
	}

	ctx.Response().Header.Set(contentTypeHeader, contentTypePlaintext)
	return ctx.SendString(format.Pihole(inv, s.cfg.Domain))
}
