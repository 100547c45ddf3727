package myrasecprovider

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	myrasec "github.com/Myra-Security-GmbH/myrasec-go/v2"
	"go.uber.org/zap"
	"sigs.k8s.io/external-dns/endpoint"

	"github.com/netguru/ts-dns/internal/dnsprovider"
)

var _ dnsprovider.Provider = (*MyraSecDNSProvider)(nil)

// FindRecord returns the first record of the selected domain named name with type recordType.
func (p *MyraSecDNSProvider) FindRecord(ctx context.Context, name, recordType string) (*dnsprovider.Record, error) {
	domain, err := p.SelectDomain()
	if err != nil {
		return nil, err
	}

	records, err := p.apiClient.ListDNSRecords(domain.ID, nil)
	if err != nil {
		p.logger.Error("Failed to list DNS records",
			zap.String("domain", domain.Name),
			zap.Error(err))
		return nil, fmt.Errorf("failed listing records: %w", err)
	}

	matching := findMatchingRecords(records, name, recordType)
	p.logger.Debug("DNS records retrieved",
		zap.String("name", name),
		zap.Int("total", len(records)),
		zap.Int("matching", len(matching)))
	if len(matching) == 0 {
		return nil, nil
	}

	rec := matching[0]
	return &dnsprovider.Record{
		ID:      strconv.Itoa(rec.ID),
		Name:    rec.Name,
		Type:    rec.RecordType,
		Content: rec.Value,
		TTL:     rec.TTL,
		Raw:     rec,
	}, nil
}

// CreateRecord creates a record for ep in the selected domain.
func (p *MyraSecDNSProvider) CreateRecord(ctx context.Context, ep *endpoint.Endpoint) (json.RawMessage, error) {
	domain, err := p.SelectDomain()
	if err != nil {
		return nil, err
	}

	record := &myrasec.DNSRecord{
		Name:       stripTrailingDot(ep.DNSName),
		Value:      firstTarget(ep),
		RecordType: ep.RecordType,
		Active:     !p.disableProtection,
		Enabled:    true,
		TTL:        p.ttlFor(ep),
	}

	created, err := p.apiClient.CreateDNSRecord(record, domain.ID)
	if err != nil {
		// Duplicate record
		if strings.Contains(err.Error(), "This value is already used") {
			p.logger.Warn("Record already exists, skipping creation",
				zap.String("name", record.Name),
				zap.String("type", record.RecordType),
				zap.String("value", record.Value))
			return json.Marshal(record)
		}

		p.logger.Error("Failed to create DNS record",
			zap.Error(err),
			zap.String("name", record.Name),
			zap.String("type", record.RecordType),
			zap.String("value", record.Value))
		return nil, fmt.Errorf("myrasec: create record: %w", err)
	}

	p.logger.Info("Created DNS record",
		zap.String("name", record.Name),
		zap.String("type", record.RecordType),
		zap.String("value", record.Value),
		zap.Int("ttl", record.TTL))
	return json.Marshal(created)
}

// UpdateRecord sends the existing record back with ep's target as its value.
func (p *MyraSecDNSProvider) UpdateRecord(ctx context.Context, existing *dnsprovider.Record, ep *endpoint.Endpoint) (json.RawMessage, error) {
	rec, ok := existing.Raw.(myrasec.DNSRecord)
	if !ok {
		return nil, fmt.Errorf("myrasec: record %s was not read from MyraSec", existing.Name)
	}

	domain, err := p.SelectDomain()
	if err != nil {
		return nil, err
	}

	rec.Value = firstTarget(ep)
	rec.TTL = p.ttlFor(ep)
	rec.Active = !p.disableProtection

	updated, err := p.apiClient.UpdateDNSRecord(&rec, domain.ID)
	if err != nil {
		p.logger.Error("Failed to update record",
			zap.String("dnsName", rec.Name),
			zap.String("value", rec.Value),
			zap.Error(err))
		return nil, fmt.Errorf("myrasec: update record: %w", err)
	}

	p.logger.Info("Updated record",
		zap.String("id", existing.ID),
		zap.String("dnsName", rec.Name),
		zap.String("old", existing.Content),
		zap.String("value", rec.Value),
		zap.Int("ttl", rec.TTL),
		zap.Bool("active", rec.Active))
	return json.Marshal(updated)
}

// findMatchingRecords returns all records matching the given dnsName + recordType.
func findMatchingRecords(records []myrasec.DNSRecord, dnsName, recordType string) []myrasec.DNSRecord {
	var matching []myrasec.DNSRecord
	for _, rec := range records {
		if strings.EqualFold(stripTrailingDot(rec.Name), stripTrailingDot(dnsName)) && rec.RecordType == recordType {
			matching = append(matching, rec)
		}
	}
	return matching
}

func (p *MyraSecDNSProvider) ttlFor(ep *endpoint.Endpoint) int {
	// Cloudflare's "automatic" TTL of 1 has no MyraSec equivalent.
	if ep.RecordTTL > 1 {
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

// stripTrailingDot removes any final dot in a DNS name.
func stripTrailingDot(name string) string {
	return strings.TrimSuffix(name, ".")
}
