package cmd

import (
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"
	"sigs.k8s.io/external-dns/endpoint"

	"github.com/netguru/ts-dns/internal/cloudflareprovider"
	"github.com/netguru/ts-dns/internal/dnsprovider"
	"github.com/netguru/ts-dns/internal/inventory"
	"github.com/netguru/ts-dns/internal/myrasecprovider"
	"github.com/netguru/ts-dns/pkg/errors"
)

const (
	providerCloudflare = "cloudflare"
	providerMyraSec    = "myrasec"
)

func newInventoryClient(logger *zap.Logger, o options) (*inventory.Client, error) {
	return inventory.NewClient(
		logger.With(zap.String("component", "tailscale")),
		inventory.Config{
			APIKey:     o.tailscaleAPIKey,
			Tailnet:    o.tailscaleTailnet,
			HTTPClient: &http.Client{Timeout: o.httpTimeout},
		},
	)
}

// buildProvider initializes the DNS backend selected by --dns-provider.
func buildProvider(logger *zap.Logger, o options) (dnsprovider.Provider, error) {
	name := strings.ToLower(strings.TrimSpace(o.dnsProvider))
	switch name {
	case "", providerCloudflare:
		return cloudflareprovider.NewCloudflareDNSProvider(
			logger.With(zap.String("component", "cloudflareprovider")),
			cloudflareprovider.Config{
				APIToken:   o.cloudflareAPIKey,
				Email:      o.cloudflareEmail,
				ZoneID:     o.cloudflareZoneID,
				TTL:        o.ttl,
				HTTPClient: &http.Client{Timeout: o.httpTimeout},
			},
		)
	case providerMyraSec:
		return myrasecprovider.NewMyraSecDNSProvider(
			logger.With(zap.String("component", "myrasecprovider")),
			myrasecprovider.Config{
				APIKey:            o.myraSecAPIKey,
				APISecret:         o.myraSecAPISecret,
				Domain:            o.domain,
				TTL:               o.ttl,
				DisableProtection: o.myraSecNoProtect,
			},
		)
	default:
		return nil, fmt.Errorf("%w: %q", errors.ErrUnknownProvider, o.dnsProvider)
	}
}

func newSyncer(logger *zap.Logger, provider dnsprovider.Provider, o options) *dnsprovider.Syncer {
	return dnsprovider.NewSyncer(
		logger.With(zap.String("component", "syncer")),
		provider,
		o.workers,
		o.dryRun,
	)
}

// domainFilter lowercases the filters and trims their trailing dots.
func domainFilter(o options) endpoint.DomainFilter {
	return endpoint.NewDomainFilter(o.filters)
}
