package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/netguru/ts-dns/pkg/api"
	"github.com/netguru/ts-dns/pkg/errors"
)

// options holds every flag value; viper fills the ones left unset on the command line.
type options struct {
	configFile  string
	logLevel    string
	dryRun      bool
	ttl         int
	workers     int
	dnsProvider string
	domain      string
	filters     []string
	httpTimeout time.Duration

	tailscaleAPIKey  string
	tailscaleTailnet string
	cloudflareAPIKey string
	cloudflareZoneID string
	cloudflareEmail  string
	myraSecAPIKey    string
	myraSecAPISecret string
	myraSecNoProtect bool

	push   bool
	bind   bool
	pihole bool
	output string

	listenAddress string
}

var opts = options{}

var rootCmd = &cobra.Command{
	Use:   "ts-dns",
	Short: "Publish Tailscale device IPv6 addresses as DNS records",
	Long: "Fetches device hostnames and IPv6 addresses from the Tailscale API, pushes them as AAAA records " +
		"to a DNS provider and/or renders them as a BIND zone fragment or a Pi-hole host list",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := getLogger()
		defer func() {
			_ = logger.Sync()
		}()

		if err := runRoot(cmd.Context(), logger); err != nil {
			logger.Error("ts-dns failed", zap.Error(err))
			return err
		}
		return nil
	},
}

func runRoot(ctx context.Context, logger *zap.Logger) error {
	if (opts.push || opts.pihole) && opts.domain == "" {
		return fmt.Errorf("--push and --pihole need --domain: %w", errors.ErrMissingDomain)
	}

	source, err := newInventoryClient(logger, opts)
	if err != nil {
		return err
	}

	var syncer api.RecordSyncer
	if opts.push {
		provider, err := buildProvider(logger, opts)
		if err != nil {
			return err
		}
		syncer = newSyncer(logger, provider, opts)
	}

	return run(ctx, logger, opts, source, syncer, os.Stdout)
}

// Execute executes the root command
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&opts.configFile, "config", "", "Config file (yaml, json or toml)")
	pf.StringVar(&opts.logLevel, "log-level", "info", "The log level to use (debug, info, warn, error)")
	pf.BoolVar(&opts.dryRun, "dry-run", false, "If true, only log the changes that would be made")
	pf.IntVar(&opts.ttl, "ttl", 0, "TTL of pushed records; 0 uses the provider default")
	pf.IntVar(&opts.workers, "workers", 1, "Number of records pushed concurrently")
	pf.StringVar(&opts.dnsProvider, "dns-provider", providerCloudflare, "DNS provider to push to (cloudflare, myrasec)")
	pf.StringVar(&opts.domain, "domain", "", "Base domain appended to every hostname")
	pf.StringSliceVar(&opts.filters, "domain-filter", []string{}, "Only push records under these domains")
	pf.DurationVar(&opts.httpTimeout, "http-timeout", 30*time.Second, "Timeout for requests to remote APIs")

	pf.StringVar(&opts.tailscaleAPIKey, "tailscale-api-key", "", "Tailscale API key")
	pf.StringVar(&opts.tailscaleTailnet, "tailscale-tailnet", "", "Tailscale tailnet name")
	pf.StringVar(&opts.cloudflareAPIKey, "cloudflare-api-key", "", "Cloudflare API token, or the global API key when --cloudflare-email is set")
	pf.StringVar(&opts.cloudflareZoneID, "cloudflare-zone-id", "", "Cloudflare zone ID")
	pf.StringVar(&opts.cloudflareEmail, "cloudflare-email", "", "Cloudflare account email for global API key authentication")
	pf.StringVar(&opts.myraSecAPIKey, "myrasec-api-key", "", "The MyraSec API key to use for authentication")
	pf.StringVar(&opts.myraSecAPISecret, "myrasec-api-secret", "", "The MyraSec API secret to use for authentication")
	pf.BoolVar(&opts.myraSecNoProtect, "myrasec-disable-protection", false, "Create MyraSec records with protection disabled")

	f := rootCmd.Flags()
	f.BoolVarP(&opts.push, "push", "c", false, "Push records to the DNS provider")
	f.BoolVarP(&opts.bind, "bind", "b", false, "Output a BIND zone fragment")
	f.BoolVarP(&opts.pihole, "pihole", "p", false, "Output a Pi-hole local.list")
	f.StringVarP(&opts.output, "output", "o", "", "Write the output to this file instead of stdout")
	rootCmd.MarkFlagsMutuallyExclusive("bind", "pihole")

	rootCmd.AddCommand(serveCmd)
}
