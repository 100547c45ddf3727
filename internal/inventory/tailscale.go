package inventory

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/netguru/ts-dns/pkg/errors"
)

const defaultBaseURL = "https://api.tailscale.com/api/v2"

// Config is used to configure the creation of the Tailscale Client.
type Config struct {
	APIKey     string
	Tailnet    string
	BaseURL    string
	HTTPClient *http.Client
}

// Client reads the device inventory of a tailnet.
type Client struct {
	apiKey  string
	tailnet string
	baseURL string
	client  *http.Client
	logger  *zap.Logger
}

// device is the subset of a Tailscale device object used here.
type device struct {
	Hostname  string   `json:"hostname"`
	Addresses []string `json:"addresses"`
}

type devicesResponse struct {
	Devices *[]device `json:"devices"`
}

// NewClient initializes a Tailscale inventory client.
func NewClient(logger *zap.Logger, cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("tailscale: %w", errors.ErrMissingAPIKey)
	}
	if cfg.Tailnet == "" {
		return nil, errors.ErrMissingTailnet
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}

	return &Client{
		apiKey:  cfg.APIKey,
		tailnet: cfg.Tailnet,
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  httpClient,
		logger:  logger,
	}, nil
}

// Fetch lists the tailnet's devices and maps each hostname to its first IPv6 address.
// Devices without an IPv6 address are left out.
func (c *Client) Fetch(ctx context.Context) (Inventory, error) {
	endpoint := fmt.Sprintf("%s/tailnet/%s/devices", c.baseURL, url.PathEscape(c.tailnet))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("tailscale: build request: %w", err)
	}
	req.SetBasicAuth(c.apiKey, "")
	req.Header.Set("Content-Type", "application/json")

	c.logger.Debug("Retrieving devices from Tailscale API", zap.String("tailnet", c.tailnet))
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tailscale: GET devices: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		c.logger.Error("Tailscale API returned an error",
			zap.Int("status", resp.StatusCode),
			zap.String("body", string(body)))
		return nil, fmt.Errorf("tailscale: devices returned status %d: %s: %w",
			resp.StatusCode, strings.TrimSpace(string(body)), errors.ErrAPIRequestFailed)
	}

	var dr devicesResponse
	if err := json.NewDecoder(resp.Body).Decode(&dr); err != nil {
		return nil, fmt.Errorf("tailscale: decode devices response: %v: %w", err, errors.ErrInvalidJSONFormat)
	}
	if dr.Devices == nil {
		return nil, fmt.Errorf("tailscale: response has no devices field: %w", errors.ErrInvalidJSONFormat)
	}

	inv := fromDevices(*dr.Devices)
	c.logger.Info("Fetched tailnet inventory",
		zap.Int("devices", len(*dr.Devices)),
		zap.Int("hosts", len(inv)))
	return inv, nil
}
