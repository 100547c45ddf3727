package dnsprovider

import (
	"sigs.k8s.io/external-dns/endpoint"

	"github.com/netguru/ts-dns/internal/inventory"
)

// Endpoints builds one AAAA endpoint per host, named "<hostname>.<domain>".
// Names rejected by a configured filter are skipped.
func Endpoints(inv inventory.Inventory, domain string, ttl int, filter endpoint.DomainFilter) []*endpoint.Endpoint {
	eps := make([]*endpoint.Endpoint, 0, len(inv))
	for _, h := range inv {
		dnsName := h.Hostname + "." + domain
		if filter.IsConfigured() && !filter.Match(dnsName) {
			continue
		}
		ep := endpoint.NewEndpointWithTTL(dnsName, endpoint.RecordTypeAAAA, endpoint.TTL(ttl), h.Address)
		if ep.Labels == nil {
			ep.Labels = endpoint.NewLabels()
		}
		ep.Labels[HostnameLabelKey] = h.Hostname
		eps = append(eps, ep)
	}
	return eps
}

func hostnameOf(ep *endpoint.Endpoint) string {
	if h, ok := ep.Labels[HostnameLabelKey]; ok {
		return h
	}
	return ep.DNSName
}

func targetOf(ep *endpoint.Endpoint) string {
	if len(ep.Targets) == 0 {
		return ""
	}
	return ep.Targets[0]
}
