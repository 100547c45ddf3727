package api

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"go.uber.org/zap"
	"sigs.k8s.io/external-dns/endpoint"

	fiberrecover "github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/netguru/ts-dns/internal/dnsprovider"
	"github.com/netguru/ts-dns/internal/inventory"
)

type Api interface {
	Listen(port string) error
	Test(req *http.Request, msTimeout ...int) (resp *http.Response, err error)
}

type api struct {
	logger *zap.Logger
	app    *fiber.App
}

func (a api) Test(req *http.Request, msTimeout ...int) (resp *http.Response, err error) {
	return a.app.Test(req, msTimeout...)
}

func (a api) Listen(address string) error {
	go func() {
		// Parse the address to ensure proper binding
		listenAddress := address

		// If no colon, assume it's just a port number
		if !strings.Contains(address, ":") {
			listenAddress = ":" + address
		}

		a.logger.Debug("Starting server", zap.String("address", listenAddress))
		err := a.app.Listen(listenAddress)
		if err != nil {
			a.logger.Fatal("Error starting the server", zap.String("error", err.Error()))
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	sig := <-sigCh

	a.logger.Info(
		"shutting down server due to received signal",
		zap.String("signal", sig.String()),
	)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	err := a.app.ShutdownWithContext(ctx)
	if err != nil {
		a.logger.Error("error shutting down server", zap.String("error", err.Error()))
	}

	cancel()

	return err
}

// InventorySource fetches the current tailnet inventory.
type InventorySource interface {
	Fetch(ctx context.Context) (inventory.Inventory, error)
}

// RecordSyncer pushes endpoints to a DNS provider.
type RecordSyncer interface {
	SyncAll(ctx context.Context, eps []*endpoint.Endpoint) ([]dnsprovider.Result, error)
}

// Config carries the record settings shared with the command line mode.
type Config struct {
	Domain       string
	TTL          int
	DomainFilter endpoint.DomainFilter
}

type server struct {
	source InventorySource
	syncer RecordSyncer
	logger *zap.Logger
	cfg    Config
}

// New builds the HTTP server. syncer may be nil, in which case POST /sync
// answers 503.
func New(logger *zap.Logger, source InventorySource, syncer RecordSyncer, cfg Config) Api {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		JSONEncoder:           json.Marshal,
		JSONDecoder:           json.Unmarshal,
		ReadTimeout:           30 * time.Second,
		WriteTimeout:          60 * time.Second,
		IdleTimeout:           120 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			logger.Error("Unhandled error in request",
				zap.Error(err),
				zap.String("path", c.Path()),
				zap.String("method", c.Method()),
				zap.String("ip", c.IP()))

			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}

			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	// Public health endpoint
	app.Get("/healthz", Health)

	// Global middleware
	app.Use(requestid.New())
	app.Use(fiberrecover.New())
	app.Use(helmet.New())

	routes := server{
		source: source,
		syncer: syncer,
		logger: logger,
		cfg:    cfg,
	}

	app.Get("/records", routes.Records)
	app.Get("/endpoints", routes.Endpoints)
	app.Get("/zone", routes.Zone)
	app.Get("/hosts", routes.Hosts)
	app.Post("/sync", routes.Sync)

	return &api{
		logger: logger,
		app:    app,
	}
}

// Health reports liveness.
func Health(ctx *fiber.Ctx) error {
	return ctx.JSON(Message{Message: "ok"})
}

func (s server) logRequest(ctx *fiber.Ctx, msg string) {
	s.logger.Info(msg,
		zap.String("remote_ip", ctx.IP()),
		zap.String("method", ctx.Method()),
		zap.String("path", ctx.Path()),
		zap.String("user_agent", string(ctx.Request().Header.UserAgent())),
		zap.String("request_id", ctx.GetRespHeader("X-Request-ID", "-")))
}

// fetch loads the inventory. When it fails, fetch writes the error response
// itself and reports sent; the handler then returns err as is.
func (s server) fetch(ctx *fiber.Ctx) (inv inventory.Inventory, sent bool, err error) {
	inv, err = s.source.Fetch(ctx.UserContext())
	if err != nil {
		s.logger.Error("Failed to fetch inventory",
			zap.String(logFieldError, err.Error()),
			zap.String("error_type", "inventory_error"))
		return nil, true, ctx.Status(statusFor(err)).JSON(fiber.Map{
			"error":   "Failed to fetch tailnet inventory",
			"details": err.Error(),
		})
	}
	return inv, false, nil
}
