// Package format renders an inventory as static DNS configuration text.
package format

import (
	"fmt"
	"strings"

	"github.com/netguru/ts-dns/internal/inventory"
)

// Bind renders one BIND zone line per host: "<hostname>. IN AAAA <address>".
func Bind(inv inventory.Inventory) string {
	lines := make([]string, 0, len(inv))
	for _, h := range inv {
		lines = append(lines, fmt.Sprintf("%s. IN AAAA %s", h.Hostname, h.Address))
	}
	return strings.Join(lines, "\n")
}

// Pihole renders one local.list line per host: "<address> <hostname>.<domain>".
func Pihole(inv inventory.Inventory, domain string) string {
	lines := make([]string, 0, len(inv))
	for _, h := range inv {
		lines = append(lines, fmt.Sprintf("%s %s.%s", h.Address, h.Hostname, domain))
	}
	return strings.Join(lines, "\n")
}
