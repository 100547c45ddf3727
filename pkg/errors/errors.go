package errors

import "errors"

var (
	// ErrMissingAPIKey is returned when an API key for Tailscale or the DNS provider is not provided
	ErrMissingAPIKey = errors.New("API key is required")

	// ErrMissingTailnet is returned when the Tailscale tailnet name is not provided
	ErrMissingTailnet = errors.New("tailscale tailnet is required")

	// ErrMissingZone is returned when the DNS provider zone is not provided
	ErrMissingZone = errors.New("DNS zone is required")

	// ErrMissingDomain is returned when the base domain for records is not provided
	ErrMissingDomain = errors.New("base domain is required")

	// ErrMissingAPISecret is returned when MyraSec API secret is not provided
	ErrMissingAPISecret = errors.New("myrasec API secret is required")

	// ErrDomainNotFound is returned when the specified domain is not found
	ErrDomainNotFound = errors.New("domain not found")

	// ErrAPIRequestFailed is returned when a request to a remote API fails
	ErrAPIRequestFailed = errors.New("API request failed")

	// ErrInvalidJSONFormat is returned when the JSON payload cannot be parsed
	ErrInvalidJSONFormat = errors.New("invalid JSON format")

	// ErrUnknownProvider is returned when the configured DNS provider name is not supported
	ErrUnknownProvider = errors.New("unknown DNS provider")

	// ErrNoProvider is returned when a push is requested but no DNS provider is configured
	ErrNoProvider = errors.New("no DNS provider configured")
)
