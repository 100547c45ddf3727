package api

import (
	"encoding/json"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/netguru/ts-dns/internal/dnsprovider"
	"github.com/netguru/ts-dns/internal/inventory"
)

func (s server) Records(ctx *fiber.Ctx) error {
	s.logRequest(ctx, "Records endpoint called")

	inv, sent, err := s.fetch(ctx)
	if sent {
		return err
	}

	// If no records were returned, log a warning but return an empty array (not an error)
	if len(inv) == 0 {
		s.logger.Warn("No hosts with an IPv6 address in inventory")
		inv = inventory.Inventory{}
	}

	s.logger.Debug("Returning records", zap.Int("count", len(inv)))

	response, err := json.Marshal(inv)
	if err != nil {
		s.logger.Error("Failed to marshal records response", zap.Error(err))
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to marshal records response",
		})
	}

	ctx.Response().Header.Set(varyHeader, "Accept-Encoding")
	ctx.Response().Header.Set(contentTypeHeader, MediaTypeJSON)
	return ctx.Send(response)
}

// Endpoints returns the AAAA records a push would write, as external-dns endpoints.
func (s server) Endpoints(ctx *fiber.Ctx) error {
	s.logRequest(ctx, "Endpoints endpoint called")

	if s.cfg.Domain == "" {
		return ctx.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "no base domain configured",
		})
	}

	inv, sent, err := s.fetch(ctx)
	if sent {
		return err
	}

	eps := dnsprovider.Endpoints(inv, s.cfg.Domain, s.cfg.TTL, s.cfg.DomainFilter)
	response, err := json.Marshal(eps)
	if err != nil {
		s.logger.Error("Failed to marshal endpoints response", zap.Error(err))
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "Failed to marshal endpoints response",
			"details": err.Error(),
		})
	}

	ctx.Response().Header.Set(contentTypeHeader, MediaTypeJSON)
	return ctx.Send(response)
}
