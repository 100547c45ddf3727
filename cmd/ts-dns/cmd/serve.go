package cmd

import (
	stderrors "errors"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/netguru/ts-dns/pkg/api"
	"github.com/netguru/ts-dns/pkg/errors"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the tailnet records over HTTP",
	Long: "Starts an HTTP server that fetches the tailnet inventory on every request and serves it as JSON, " +
		"external-dns endpoints, a BIND zone fragment or a Pi-hole host list. POST /sync pushes the records.",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := getLogger()
		defer func() {
			_ = logger.Sync()
		}()

		if err := runServe(logger); err != nil {
			logger.Error("ts-dns serve failed", zap.Error(err))
			return err
		}
		return nil
	},
}

func runServe(logger *zap.Logger) error {
	source, err := newInventoryClient(logger, opts)
	if err != nil {
		return err
	}

	syncer, err := serveSyncer(logger, opts)
	if err != nil {
		return err
	}

	app := api.New(
		logger.With(zap.String("component", "api")),
		source,
		syncer,
		api.Config{
			Domain:       opts.domain,
			TTL:          opts.ttl,
			DomainFilter: domainFilter(opts),
		},
	)

	logger.Info("Starting server", zap.String("address", opts.listenAddress))
	return app.Listen(opts.listenAddress)
}

// serveSyncer builds the syncer behind POST /sync. Missing provider
// credentials only disable the route; an unknown provider is an error.
func serveSyncer(logger *zap.Logger, o options) (api.RecordSyncer, error) {
	if o.domain == "" {
		logger.Warn("No base domain configured, DNS push disabled")
		return nil, nil
	}

	provider, err := buildProvider(logger, o)
	switch {
	case err == nil:
		return newSyncer(logger, provider, o), nil
	case stderrors.Is(err, errors.ErrMissingAPIKey),
		stderrors.Is(err, errors.ErrMissingAPISecret),
		stderrors.Is(err, errors.ErrMissingZone):
		logger.Warn("DNS provider not configured, DNS push disabled", zap.Error(err))
		return nil, nil
	default:
		return nil, err
	}
}

func init() {
	serveCmd.Flags().StringVar(&opts.listenAddress, "listen-address", ":8080", "The address to listen on for HTTP requests")
}
