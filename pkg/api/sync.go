package api

import (
	stderrors "errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/netguru/ts-dns/internal/dnsprovider"
	"github.com/netguru/ts-dns/pkg/errors"
)

func (s server) Sync(ctx *fiber.Ctx) error {
	s.logRequest(ctx, "Sync endpoint called")

	if s.syncer == nil {
		return ctx.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": errors.ErrNoProvider.Error(),
		})
	}

	inv, sent, err := s.fetch(ctx)
	if sent {
		return err
	}

	eps := dnsprovider.Endpoints(inv, s.cfg.Domain, s.cfg.TTL, s.cfg.DomainFilter)
	results, err := s.syncer.SyncAll(ctx.UserContext(), eps)
	if results == nil {
		results = []dnsprovider.Result{}
	}
	if err != nil {
		s.logger.Error("Failed to sync records",
			zap.String(logFieldError, err.Error()),
			zap.Int("completed", len(results)))
		return ctx.Status(statusFor(err)).JSON(syncResponse{
			Results: results,
			Error:   err.Error(),
		})
	}

	s.logger.Debug("Synced records", zap.Int("count", len(results)))
	return ctx.JSON(syncResponse{Results: results})
}

// statusFor maps sentinel errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case stderrors.Is(err, errors.ErrMissingAPIKey),
		stderrors.Is(err, errors.ErrMissingAPISecret):
		return fiber.StatusUnauthorized
	case stderrors.Is(err, errors.ErrDomainNotFound):
		return fiber.StatusNotFound
	case stderrors.Is(err, errors.ErrAPIRequestFailed),
		stderrors.Is(err, errors.ErrInvalidJSONFormat):
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}
