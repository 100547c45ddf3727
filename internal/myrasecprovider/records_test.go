package myrasecprovider

import (
	"context"
	"errors"
	"testing"

	myrasec "github.com/Myra-Security-GmbH/myrasec-go/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"sigs.k8s.io/external-dns/endpoint"

	"github.com/netguru/ts-dns/internal/dnsprovider"
)

// MockMyraSecClient is a mock implementation of the MyraSecAPIClient interface
type MockMyraSecClient struct {
	mock.Mock
}

// ListDomains mocks the ListDomains method
func (m *MockMyraSecClient) ListDomains(params map[string]string) ([]myrasec.Domain, error) {
	args := m.Called(params)
	return args.Get(0).([]myrasec.Domain), args.Error(1)
}

// ListDNSRecords mocks the ListDNSRecords method
func (m *MockMyraSecClient) ListDNSRecords(domainId int, params map[string]string) ([]myrasec.DNSRecord, error) {
	args := m.Called(domainId, params)
	return args.Get(0).([]myrasec.DNSRecord), args.Error(1)
}

// CreateDNSRecord mocks the CreateDNSRecord method
func (m *MockMyraSecClient) CreateDNSRecord(record *myrasec.DNSRecord, domainId int) (*myrasec.DNSRecord, error) {
	args := m.Called(record, domainId)
	return args.Get(0).(*myrasec.DNSRecord), args.Error(1)
}

// UpdateDNSRecord mocks the UpdateDNSRecord method
func (m *MockMyraSecClient) UpdateDNSRecord(record *myrasec.DNSRecord, domainId int) (*myrasec.DNSRecord, error) {
	args := m.Called(record, domainId)
	return args.Get(0).(*myrasec.DNSRecord), args.Error(1)
}

func newTestProvider(client MyraSecAPIClient, baseDomain string) *MyraSecDNSProvider {
	return &MyraSecDNSProvider{
		apiClient:  client,
		logger:     zap.NewNop(),
		baseDomain: baseDomain,
		ttl:        defaultTTL,
	}
}

var testDomains = []myrasec.Domain{
	{ID: 100, Name: "example.org"},
	{ID: 123, Name: "example.com"},
	{ID: 456, Name: "ts.example.com"},
}

func TestSelectDomainExactMatch(t *testing.T) {
	client := new(MockMyraSecClient)
	client.On("ListDomains", mock.Anything).Return(testDomains, nil).Once()

	p := newTestProvider(client, "example.com")
	d, err := p.SelectDomain()
	require.NoError(t, err)
	assert.Equal(t, 123, d.ID)

	// cached
	d, err = p.SelectDomain()
	require.NoError(t, err)
	assert.Equal(t, 123, d.ID)
	client.AssertNumberOfCalls(t, "ListDomains", 1)
}

func TestSelectDomainLongestSuffix(t *testing.T) {
	client := new(MockMyraSecClient)
	client.On("ListDomains", mock.Anything).Return(testDomains, nil)

	d, err := newTestProvider(client, "lab.ts.example.com").SelectDomain()
	require.NoError(t, err)
	assert.Equal(t, 456, d.ID)
}

func TestSelectDomainNotFound(t *testing.T) {
	client := new(MockMyraSecClient)
	client.On("ListDomains", mock.Anything).Return(testDomains, nil)

	_, err := newTestProvider(client, "example.net").SelectDomain()
	assert.ErrorIs(t, err, ErrDomainNotFound)
}

func TestSelectDomainError(t *testing.T) {
	client := new(MockMyraSecClient)
	client.On("ListDomains", mock.Anything).Return([]myrasec.Domain{}, errors.New("API error"))

	_, err := newTestProvider(client, "example.com").SelectDomain()
	assert.Error(t, err)
	client.AssertCalled(t, "ListDomains", mock.Anything)
}

func TestFindRecord(t *testing.T) {
	client := new(MockMyraSecClient)
	client.On("ListDomains", mock.Anything).Return(testDomains, nil)
	client.On("ListDNSRecords", 123, mock.Anything).Return([]myrasec.DNSRecord{
		{Name: "host-a.example.com", RecordType: "A", Value: "192.0.2.1"},
		{ID: 42, Name: "host-a.example.com.", RecordType: "AAAA", Value: "fd00::9", TTL: 300},
	}, nil)

	p := newTestProvider(client, "example.com")
	rec, err := p.FindRecord(context.Background(), "host-a.example.com", "AAAA")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, "42", rec.ID)
	assert.Equal(t, "fd00::9", rec.Content)

	rec, err = p.FindRecord(context.Background(), "host-b.example.com", "AAAA")
	require.NoError(t, err)
	assert.Nil(t, rec)
}

func TestSyncUpdatesExistingRecord(t *testing.T) {
	client := new(MockMyraSecClient)
	client.On("ListDomains", mock.Anything).Return(testDomains, nil)
	client.On("ListDNSRecords", 123, mock.Anything).Return([]myrasec.DNSRecord{
		{Name: "host-a.example.com", RecordType: "AAAA", Value: "fd00::9", TTL: 300, Enabled: true},
	}, nil)
	client.On("UpdateDNSRecord", mock.MatchedBy(func(r *myrasec.DNSRecord) bool {
		return r.Value == "fd00::1" && r.Name == "host-a.example.com" && r.Active
	}), 123).Return(&myrasec.DNSRecord{Name: "host-a.example.com", Value: "fd00::1"}, nil)

	s := dnsprovider.NewSyncer(zap.NewNop(), newTestProvider(client, "example.com"), 1, false)
	res, err := s.SyncRecord(context.Background(), endpoint.NewEndpoint("host-a.example.com", "AAAA", "fd00::1"))
	require.NoError(t, err)
	assert.Equal(t, dnsprovider.UPDATE, res.Action)
	client.AssertNotCalled(t, "CreateDNSRecord", mock.Anything, mock.Anything)
	client.AssertExpectations(t)
}

func TestSyncCreatesMissingRecord(t *testing.T) {
	client := new(MockMyraSecClient)
	client.On("ListDomains", mock.Anything).Return(testDomains, nil)
	client.On("ListDNSRecords", 123, mock.Anything).Return([]myrasec.DNSRecord{}, nil)
	client.On("CreateDNSRecord", mock.MatchedBy(func(r *myrasec.DNSRecord) bool {
		return r.Value == "fd00::2" && r.RecordType == "AAAA" && r.TTL == defaultTTL && r.Enabled
	}), 123).Return(&myrasec.DNSRecord{Name: "host-b.example.com", Value: "fd00::2"}, nil)

	s := dnsprovider.NewSyncer(zap.NewNop(), newTestProvider(client, "example.com"), 1, false)
	res, err := s.SyncRecord(context.Background(), endpoint.NewEndpointWithTTL("host-b.example.com", "AAAA", 1, "fd00::2"))
	require.NoError(t, err)
	assert.Equal(t, dnsprovider.CREATE, res.Action)
	assert.Contains(t, string(res.Response), "fd00::2")
	client.AssertNotCalled(t, "UpdateDNSRecord", mock.Anything, mock.Anything)
}

func TestCreateRecordDuplicateIsNotAnError(t *testing.T) {
	client := new(MockMyraSecClient)
	client.On("ListDomains", mock.Anything).Return(testDomains, nil)
	client.On("CreateDNSRecord", mock.Anything, 123).Return((*myrasec.DNSRecord)(nil), errors.New("This value is already used"))

	_, err := newTestProvider(client, "example.com").CreateRecord(context.Background(),
		endpoint.NewEndpoint("host-a.example.com", "AAAA", "fd00::1"))
	assert.NoError(t, err)
}

func TestUpdateRecordRequiresMyraSecRecord(t *testing.T) {
	p := newTestProvider(new(MockMyraSecClient), "example.com")
	_, err := p.UpdateRecord(context.Background(), &dnsprovider.Record{Name: "x"},
		endpoint.NewEndpoint("x.example.com", "AAAA", "fd00::1"))
	assert.Error(t, err)
}

func TestNewMyraSecDNSProviderValidation(t *testing.T) {
	_, err := NewMyraSecDNSProvider(zap.NewNop(), Config{APISecret: "s", Domain: "example.com"})
	assert.ErrorIs(t, err, ErrMissingAPIKey)

	_, err = NewMyraSecDNSProvider(zap.NewNop(), Config{APIKey: "k", Domain: "example.com"})
	assert.ErrorIs(t, err, ErrMissingAPISecret)

	_, err = NewMyraSecDNSProvider(zap.NewNop(), Config{APIKey: "k", APISecret: "s"})
	assert.ErrorIs(t, err, ErrMissingDomain)
}
