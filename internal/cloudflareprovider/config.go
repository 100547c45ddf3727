package cloudflareprovider

import (
	"net/http"
)

// Config is used to configure the creation of the CloudflareDNSProvider.
type Config struct {
	APIToken string
	// Email switches authentication to the legacy global API key when set.
	Email      string
	ZoneID     string
	BaseURL    string
	TTL        int
	Proxied    bool
	HTTPClient *http.Client
}
