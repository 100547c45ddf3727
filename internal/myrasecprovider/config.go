package myrasecprovider

// Config is used to configure the creation of the MyraSecDNSProvider.
type Config struct {
	APIKey    string
	APISecret string
	// Domain is the base domain records are created under; it selects the MyraSec domain.
	Domain            string
	TTL               int
	DisableProtection bool
}
