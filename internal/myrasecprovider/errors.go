package myrasecprovider

import (
	"github.com/netguru/ts-dns/pkg/errors"
)

var (
	// ErrMissingAPIKey is returned when MyraSec API key is not provided
	ErrMissingAPIKey = errors.ErrMissingAPIKey

	// ErrMissingAPISecret is returned when MyraSec API secret is not provided
	ErrMissingAPISecret = errors.ErrMissingAPISecret

	// ErrMissingDomain is returned when no base domain is configured
	ErrMissingDomain = errors.ErrMissingDomain

	// ErrDomainNotFound is returned when the specified domain is not found
	ErrDomainNotFound = errors.ErrDomainNotFound
)
