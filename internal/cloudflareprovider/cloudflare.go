package cloudflareprovider

import (
	"context"
	"fmt"

	"github.com/cloudflare/cloudflare-go"
	"go.uber.org/zap"

	"github.com/netguru/ts-dns/pkg/errors"
)

// defaultTTL of 1 tells Cloudflare to pick the TTL automatically.
const defaultTTL = 1

// CloudflareAPIClient defines the subset of the Cloudflare API used by the provider
type CloudflareAPIClient interface {
	ListDNSRecords(ctx context.Context, rc *cloudflare.ResourceContainer, params cloudflare.ListDNSRecordsParams) ([]cloudflare.DNSRecord, *cloudflare.ResultInfo, error)
	CreateDNSRecord(ctx context.Context, rc *cloudflare.ResourceContainer, params cloudflare.CreateDNSRecordParams) (cloudflare.DNSRecord, error)
	UpdateDNSRecord(ctx context.Context, rc *cloudflare.ResourceContainer, params cloudflare.UpdateDNSRecordParams) (cloudflare.DNSRecord, error)
}

// CloudflareDNSProvider writes tailnet records into a single Cloudflare zone.
type CloudflareDNSProvider struct {
	apiClient CloudflareAPIClient
	logger    *zap.Logger
	zoneID    string
	ttl       int
	proxied   bool
}

// NewCloudflareDNSProvider initializes a new Cloudflare DNS provider.
func NewCloudflareDNSProvider(logger *zap.Logger, providerConfig Config) (*CloudflareDNSProvider, error) {
	if providerConfig.APIToken == "" {
		return nil, fmt.Errorf("cloudflare: %w", errors.ErrMissingAPIKey)
	}

	if providerConfig.ZoneID == "" {
		return nil, fmt.Errorf("cloudflare: %w", errors.ErrMissingZone)
	}

	var opts []cloudflare.Option
	if providerConfig.BaseURL != "" {
		opts = append(opts, cloudflare.BaseURL(providerConfig.BaseURL))
	}
	if providerConfig.HTTPClient != nil {
		opts = append(opts, cloudflare.HTTPClient(providerConfig.HTTPClient))
	}

	var (
		api *cloudflare.API
		err error
	)
	if providerConfig.Email != "" {
		logger.Debug("Using legacy API key authentication", zap.String("email", providerConfig.Email))
		api, err = cloudflare.New(providerConfig.APIToken, providerConfig.Email, opts...)
	} else {
		api, err = cloudflare.NewWithAPIToken(providerConfig.APIToken, opts...)
	}
	if err != nil {
		logger.Error("Failed to create Cloudflare API client", zap.Error(err))
		return nil, fmt.Errorf("failed to create Cloudflare API client: %w", err)
	}

	ttl := providerConfig.TTL
	if ttl <= 0 {
		ttl = defaultTTL
	}

	return &CloudflareDNSProvider{
		apiClient: api,
		logger:    logger,
		zoneID:    providerConfig.ZoneID,
		ttl:       ttl,
		proxied:   providerConfig.Proxied,
	}, nil
}

func (p *CloudflareDNSProvider) zone() *cloudflare.ResourceContainer {
	return cloudflare.ZoneIdentifier(p.zoneID)
}
