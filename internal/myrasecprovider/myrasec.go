package myrasecprovider

import (
	"fmt"
	"strings"
	"sync"

	myrasec "github.com/Myra-Security-GmbH/myrasec-go/v2"
	"go.uber.org/zap"
)

const defaultTTL = 300

// MyraSecAPIClient defines the interface for interacting with the MyraSec API
type MyraSecAPIClient interface {
	ListDomains(params map[string]string) ([]myrasec.Domain, error)
	ListDNSRecords(domainId int, params map[string]string) ([]myrasec.DNSRecord, error)
	CreateDNSRecord(record *myrasec.DNSRecord, domainId int) (*myrasec.DNSRecord, error)
	UpdateDNSRecord(record *myrasec.DNSRecord, domainId int) (*myrasec.DNSRecord, error)
}

// MyraSecDNSProvider is the implementation of the MyraSec DNS provider
type MyraSecDNSProvider struct {
	apiClient         MyraSecAPIClient
	logger            *zap.Logger
	baseDomain        string
	ttl               int
	disableProtection bool

	mu             sync.Mutex
	selectedDomain *myrasec.Domain
}

// NewMyraSecDNSProvider initializes a new MyraSec DNS provider.
func NewMyraSecDNSProvider(logger *zap.Logger, providerConfig Config) (*MyraSecDNSProvider, error) {
	if providerConfig.APIKey == "" {
		return nil, fmt.Errorf("myrasec: %w", ErrMissingAPIKey)
	}

	if providerConfig.APISecret == "" {
		return nil, ErrMissingAPISecret
	}

	if providerConfig.Domain == "" {
		return nil, fmt.Errorf("myrasec: %w", ErrMissingDomain)
	}

	// Initialize the MyraSec API client
	api, err := myrasec.New(
		providerConfig.APIKey,
		providerConfig.APISecret,
	)
	if err != nil {
		logger.Error("Failed to create MyraSec API client", zap.Error(err))
		return nil, fmt.Errorf("failed to create MyraSec API client: %w", err)
	}

	// Set the API language to English to ensure consistent responses
	api.Language = "en"

	ttl := providerConfig.TTL
	if ttl <= 1 {
		ttl = defaultTTL
	}

	return &MyraSecDNSProvider{
		apiClient:         api,
		logger:            logger,
		baseDomain:        stripTrailingDot(providerConfig.Domain),
		ttl:               ttl,
		disableProtection: providerConfig.DisableProtection,
	}, nil
}

// SelectDomain picks the MyraSec domain that holds the base domain: an exact
// name match, otherwise the longest domain the base domain is a subdomain of.
// The choice is cached for the lifetime of the provider.
func (p *MyraSecDNSProvider) SelectDomain() (*myrasec.Domain, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.selectedDomain != nil {
		return p.selectedDomain, nil
	}

	p.logger.Debug("Retrieving domains from MyraSec API")
	domains, err := p.apiClient.ListDomains(nil)
	if err != nil {
		p.logger.Error("Failed to list domains", zap.Error(err))
		return nil, fmt.Errorf("failed to list domains: %w", err)
	}

	p.logger.Debug("Domains retrieved", zap.Int("count", len(domains)))

	var selected *myrasec.Domain
	for i := range domains {
		name := stripTrailingDot(domains[i].Name)
		if strings.EqualFold(name, p.baseDomain) {
			selected = &domains[i]
			break
		}
		if strings.HasSuffix(strings.ToLower(p.baseDomain), "."+strings.ToLower(name)) &&
			(selected == nil || len(name) > len(stripTrailingDot(selected.Name))) {
			selected = &domains[i]
		}
	}

	if selected == nil {
		p.logger.Error("No MyraSec domain matches the base domain",
			zap.String("domain", p.baseDomain),
			zap.Int("available_domains", len(domains)))
		return nil, fmt.Errorf("%s: %w", p.baseDomain, ErrDomainNotFound)
	}

	p.logger.Debug("Selected domain",
		zap.String("domain_name", selected.Name),
		zap.Int("domain_id", selected.ID))

	p.selectedDomain = selected
	return selected, nil
}
