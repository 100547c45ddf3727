package cloudflareprovider

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/cloudflare/cloudflare-go"
	"go.uber.org/zap"
	"sigs.k8s.io/external-dns/endpoint"

	"github.com/netguru/ts-dns/internal/dnsprovider"
)

var _ dnsprovider.Provider = (*CloudflareDNSProvider)(nil)

// FindRecord queries the zone for records matching name and recordType and returns the first one.
func (p *CloudflareDNSProvider) FindRecord(ctx context.Context, name, recordType string) (*dnsprovider.Record, error) {
	p.logger.Debug("Looking up DNS record",
		zap.String("name", name),
		zap.String("type", recordType))

	records, _, err := p.apiClient.ListDNSRecords(ctx, p.zone(), cloudflare.ListDNSRecordsParams{
		Type: recordType,
		Name: name,
	})
	if err != nil {
		return nil, fmt.Errorf("cloudflare: list records: %w", err)
	}

	p.logger.Debug("DNS records retrieved", zap.String("name", name), zap.Int("count", len(records)))
	if len(records) == 0 {
		return nil, nil
	}

	r := records[0]
	return &dnsprovider.Record{
		ID:      r.ID,
		Name:    r.Name,
		Type:    r.Type,
		Content: r.Content,
		TTL:     r.TTL,
		Raw:     r,
	}, nil
}

// CreateRecord creates a new record for ep and returns the API response.
func (p *CloudflareDNSProvider) CreateRecord(ctx context.Context, ep *endpoint.Endpoint) (json.RawMessage, error) {
	content := firstTarget(ep)
	created, err := p.apiClient.CreateDNSRecord(ctx, p.zone(), cloudflare.CreateDNSRecordParams{
		Type:    ep.RecordType,
		Name:    ep.DNSName,
		Content: content,
		TTL:     p.ttlFor(ep),
		Proxied: cloudflare.BoolPtr(p.proxied),
	})
	if err != nil {
		return nil, fmt.Errorf("cloudflare: create record: %w", err)
	}

	p.logger.Info("Created DNS record",
		zap.String("id", created.ID),
		zap.String("name", ep.DNSName),
		zap.String("type", ep.RecordType),
		zap.String("content", content))
	return json.Marshal(created)
}

// UpdateRecord overwrites the content of existing with ep's target and returns the updated record.
func (p *CloudflareDNSProvider) UpdateRecord(ctx context.Context, existing *dnsprovider.Record, ep *endpoint.Endpoint) (json.RawMessage, error) {
	content := firstTarget(ep)
	updated, err := p.apiClient.UpdateDNSRecord(ctx, p.zone(), cloudflare.UpdateDNSRecordParams{
		ID:      existing.ID,
		Type:    ep.RecordType,
		Name:    ep.DNSName,
		Content: content,
		TTL:     p.ttlFor(ep),
		Proxied: cloudflare.BoolPtr(p.proxied),
	})
	if err != nil {
		return nil, fmt.Errorf("cloudflare: update record %s: %w", existing.ID, err)
	}

	p.logger.Info("Updated DNS record",
		zap.String("id", existing.ID),
		zap.String("name", ep.DNSName),
		zap.String("old", existing.Content),
		zap.String("new", content))
	return json.Marshal(updated)
}

func (p *CloudflareDNSProvider) ttlFor(ep *endpoint.Endpoint) int {
	if ep.RecordTTL > 0 {
		return int(ep.RecordTTL)
	}
	return p.ttl
}

func firstTarget(ep *endpoint.Endpoint) string {
	if len(ep.Targets) == 0 {
		return ""
	}
	return ep.Targets[0]
}
