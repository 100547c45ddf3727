package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"sigs.k8s.io/external-dns/endpoint"

	"github.com/netguru/ts-dns/internal/cloudflareprovider"
	"github.com/netguru/ts-dns/internal/dnsprovider"
	"github.com/netguru/ts-dns/internal/inventory"
	"github.com/netguru/ts-dns/internal/myrasecprovider"
	"github.com/netguru/ts-dns/pkg/api/mock"
	"github.com/netguru/ts-dns/pkg/errors"
)

func testSource() *mock.MockSource {
	return &mock.MockSource{
		FetchFn: func(ctx context.Context) (inventory.Inventory, error) {
			return inventory.Inventory{
				{Hostname: "host-a", Address: "fd00::1"},
				{Hostname: "host-b", Address: "fd00::2"},
			}, nil
		},
	}
}

func TestRunBindToStdout(t *testing.T) {
	var out bytes.Buffer
	err := run(context.Background(), zap.NewNop(), options{bind: true}, testSource(), nil, &out)

	require.NoError(t, err)
	assert.Equal(t, "host-a. IN AAAA fd00::1\nhost-b. IN AAAA fd00::2\n", out.String())
}

func TestRunPiholeToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "local.list")
	var out bytes.Buffer

	err := run(context.Background(), zap.NewNop(),
		options{pihole: true, domain: "example.com", output: path}, testSource(), nil, &out)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "fd00::1 host-a.example.com\nfd00::2 host-b.example.com", string(data))
	assert.Empty(t, out.String())
}

func TestRunNoFormatPrintsEmptyLine(t *testing.T) {
	var out bytes.Buffer
	err := run(context.Background(), zap.NewNop(), options{}, testSource(), nil, &out)

	require.NoError(t, err)
	assert.Equal(t, "\n", out.String())
}

func TestRunPushPrintsResults(t *testing.T) {
	var names []string
	syncer := &mock.MockSyncer{
		SyncAllFn: func(ctx context.Context, eps []*endpoint.Endpoint) ([]dnsprovider.Result, error) {
			results := make([]dnsprovider.Result, 0, len(eps))
			for _, ep := range eps {
				names = append(names, ep.DNSName)
				results = append(results, dnsprovider.Result{
					Hostname: ep.Labels[dnsprovider.HostnameLabelKey],
					Name:     ep.DNSName,
					Action:   dnsprovider.CREATE,
					Response: json.RawMessage(`{"id":"1"}`),
				})
			}
			return results, nil
		},
	}

	var out bytes.Buffer
	err := run(context.Background(), zap.NewNop(),
		options{push: true, bind: true, domain: "example.com"}, testSource(), syncer, &out)

	require.NoError(t, err)
	assert.Equal(t, []string{"host-a.example.com", "host-b.example.com"}, names)
	assert.Equal(t,
		"Updated host-a: {\"id\":\"1\"}\nUpdated host-b: {\"id\":\"1\"}\n"+
			"host-a. IN AAAA fd00::1\nhost-b. IN AAAA fd00::2\n",
		out.String())
}

func TestRunPushErrorStopsBeforeOutput(t *testing.T) {
	syncer := &mock.MockSyncer{
		SyncAllFn: func(ctx context.Context, eps []*endpoint.Endpoint) ([]dnsprovider.Result, error) {
			return []dnsprovider.Result{{Hostname: "host-a", Response: json.RawMessage(`{}`)}},
				fmt.Errorf("%w: status 403", errors.ErrAPIRequestFailed)
		},
	}

	var out bytes.Buffer
	err := run(context.Background(), zap.NewNop(),
		options{push: true, bind: true, domain: "example.com"}, testSource(), syncer, &out)

	require.ErrorIs(t, err, errors.ErrAPIRequestFailed)
	assert.Equal(t, "Updated host-a: {}\n", out.String())
}

func TestRunFetchError(t *testing.T) {
	source := &mock.MockSource{
		FetchFn: func(ctx context.Context) (inventory.Inventory, error) {
			return nil, errors.ErrInvalidJSONFormat
		},
	}

	var out bytes.Buffer
	err := run(context.Background(), zap.NewNop(), options{bind: true}, source, nil, &out)

	require.ErrorIs(t, err, errors.ErrInvalidJSONFormat)
	assert.Empty(t, out.String())
}

func TestPrintResultsDryRun(t *testing.T) {
	var out bytes.Buffer
	printResults(&out, []dnsprovider.Result{
		{Hostname: "host-a", Name: "host-a.example.com", Action: dnsprovider.UPDATE, DryRun: true},
	})
	assert.Equal(t, "Would UPDATE host-a: host-a.example.com (dry-run)\n", out.String())
}

func TestDomainFilterIsNormalized(t *testing.T) {
	f := domainFilter(options{filters: []string{"Example.com.", " .Internal.Example.org "}})
	assert.Equal(t, []string{"example.com", ".internal.example.org"}, f.Filters)
	assert.True(t, f.Match("host-a.example.com"))
	assert.True(t, f.Match("host-b.internal.example.org"))
	assert.False(t, f.Match("host-c.example.net"))

	assert.False(t, domainFilter(options{}).IsConfigured())
}

func TestRunPushAppliesDomainFilter(t *testing.T) {
	var names []string
	syncer := &mock.MockSyncer{
		SyncAllFn: func(ctx context.Context, eps []*endpoint.Endpoint) ([]dnsprovider.Result, error) {
			for _, ep := range eps {
				names = append(names, ep.DNSName)
			}
			return nil, nil
		},
	}

	var out bytes.Buffer
	err := run(context.Background(), zap.NewNop(),
		options{push: true, domain: "example.com", filters: []string{"EXAMPLE.com."}}, testSource(), syncer, &out)

	require.NoError(t, err)
	assert.Equal(t, []string{"host-a.example.com", "host-b.example.com"}, names)
}

func TestBuildProvider(t *testing.T) {
	logger := zap.NewNop()

	p, err := buildProvider(logger, options{cloudflareAPIKey: "token", cloudflareZoneID: "zone"})
	require.NoError(t, err)
	assert.IsType(t, &cloudflareprovider.CloudflareDNSProvider{}, p)

	p, err = buildProvider(logger, options{
		dnsProvider:      "MyraSec",
		myraSecAPIKey:    "key",
		myraSecAPISecret: "secret",
		domain:           "example.com",
	})
	require.NoError(t, err)
	assert.IsType(t, &myrasecprovider.MyraSecDNSProvider{}, p)

	_, err = buildProvider(logger, options{dnsProvider: "route53"})
	assert.ErrorIs(t, err, errors.ErrUnknownProvider)

	_, err = buildProvider(logger, options{cloudflareZoneID: "zone"})
	assert.ErrorIs(t, err, errors.ErrMissingAPIKey)
}

func TestServeSyncer(t *testing.T) {
	logger := zap.NewNop()

	s, err := serveSyncer(logger, options{})
	require.NoError(t, err)
	assert.Nil(t, s)

	s, err = serveSyncer(logger, options{domain: "example.com"})
	require.NoError(t, err)
	assert.Nil(t, s)

	s, err = serveSyncer(logger, options{domain: "example.com", cloudflareAPIKey: "token", cloudflareZoneID: "zone"})
	require.NoError(t, err)
	assert.NotNil(t, s)

	_, err = serveSyncer(logger, options{domain: "example.com", dnsProvider: "route53"})
	assert.ErrorIs(t, err, errors.ErrUnknownProvider)
}

func TestApplyViper(t *testing.T) {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	var o options
	fs.StringVar(&o.tailscaleAPIKey, "tailscale-api-key", "", "")
	fs.StringVar(&o.domain, "domain", "", "")
	fs.IntVar(&o.ttl, "ttl", 0, "")
	fs.StringSliceVar(&o.filters, "domain-filter", []string{}, "")
	require.NoError(t, fs.Parse([]string{"--ttl=60"}))

	t.Setenv("TAILSCALE_API_KEY", "from-env")
	t.Setenv("DNS_DOMAIN", "example.com")
	t.Setenv("TTL", "300")

	v := viper.New()
	configureEnv(v)
	v.Set("domain-filter", []any{"a.example.com", "b.example.com"})
	applyViper(v, fs)

	assert.Equal(t, "from-env", o.tailscaleAPIKey)
	assert.Equal(t, "example.com", o.domain)
	assert.Equal(t, 60, o.ttl, "flags set on the command line win")
	assert.Equal(t, []string{"a.example.com", "b.example.com"}, o.filters)
}

func TestBindAndPiholeAreExclusive(t *testing.T) {
	rootCmd.SetArgs([]string{"-b", "-p"})
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		opts.bind, opts.pihole = false, false
	})
	rootCmd.SetOut(&bytes.Buffer{})
	rootCmd.SetErr(&bytes.Buffer{})

	err := rootCmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bind")
	assert.Contains(t, err.Error(), "pihole")
}

func TestGetZapLogLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, getZapLogLevel("DEBUG"))
	assert.Equal(t, zapcore.WarnLevel, getZapLogLevel("warn"))
	assert.Equal(t, zapcore.ErrorLevel, getZapLogLevel("error"))
	assert.Equal(t, zapcore.InfoLevel, getZapLogLevel("verbose"))
}
