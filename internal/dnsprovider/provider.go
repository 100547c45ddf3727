package dnsprovider

import (
	"context"
	"encoding/json"

	"sigs.k8s.io/external-dns/endpoint"
)

const (
	CREATE = "CREATE"
	UPDATE = "UPDATE"
)

// HostnameLabelKey carries the tailnet hostname an endpoint was built from.
const HostnameLabelKey = "ts-dns/hostname"

// Record is an existing record as reported by a DNS provider.
type Record struct {
	ID      string
	Name    string
	Type    string
	Content string
	TTL     int
	// Raw holds the provider SDK's own record value, for backends that
	// update by sending the full record back.
	Raw any
}

// Provider is the interface a DNS backend implements to receive tailnet records.
type Provider interface {
	// FindRecord returns the first record of recordType named name, or nil when none exists.
	FindRecord(ctx context.Context, name, recordType string) (*Record, error)
	CreateRecord(ctx context.Context, ep *endpoint.Endpoint) (json.RawMessage, error)
	UpdateRecord(ctx context.Context, existing *Record, ep *endpoint.Endpoint) (json.RawMessage, error)
}

// Result reports what happened to one endpoint.
type Result struct {
	Hostname string          `json:"hostname"`
	Name     string          `json:"name"`
	Address  string          `json:"address"`
	Action   string          `json:"action"`
	DryRun   bool            `json:"dryRun,omitempty"`
	Response json.RawMessage `json:"response,omitempty"`
}
