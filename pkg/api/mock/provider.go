package mock

import (
	"context"

	"sigs.k8s.io/external-dns/endpoint"

	"github.com/netguru/ts-dns/internal/dnsprovider"
	"github.com/netguru/ts-dns/internal/inventory"
)

// MockSource is a mock implementation of api.InventorySource for testing
type MockSource struct {
	FetchFn func(ctx context.Context) (inventory.Inventory, error)
}

// Fetch calls the FetchFn or returns an empty inventory if not set
func (m *MockSource) Fetch(ctx context.Context) (inventory.Inventory, error) {
	if m.FetchFn != nil {
		return m.FetchFn(ctx)
	}
	return inventory.Inventory{}, nil
}

// MockSyncer is a mock implementation of api.RecordSyncer for testing
type MockSyncer struct {
	SyncAllFn func(ctx context.Context, eps []*endpoint.Endpoint) ([]dnsprovider.Result, error)
}

// SyncAll calls the SyncAllFn or returns no results if not set
func (m *MockSyncer) SyncAll(ctx context.Context, eps []*endpoint.Endpoint) ([]dnsprovider.Result, error) {
	if m.SyncAllFn != nil {
		return m.SyncAllFn(ctx, eps)
	}
	return nil, nil
}
