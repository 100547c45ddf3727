package inventory

import "strings"

// Host is a tailnet device name paired with the IPv6 address published for it.
type Host struct {
	Hostname string `json:"hostname"`
	Address  string `json:"address"`
}

// Inventory is the ordered set of hosts returned by a fetch.
// Hostnames are unique; order follows the device listing.
type Inventory []Host

// Hostnames returns the hostnames in inventory order.
func (inv Inventory) Hostnames() []string {
	names := make([]string, 0, len(inv))
	for _, h := range inv {
		names = append(names, h.Hostname)
	}
	return names
}

// Lookup returns the address stored for hostname.
func (inv Inventory) Lookup(hostname string) (string, bool) {
	for _, h := range inv {
		if h.Hostname == hostname {
			return h.Address, true
		}
	}
	return "", false
}

// SelectIPv6 returns the first address containing a colon.
func SelectIPv6(addresses []string) (string, bool) {
	for _, addr := range addresses {
		if strings.Contains(addr, ":") {
			return addr, true
		}
	}
	return "", false
}

// fromDevices builds an Inventory from the raw device list.
//
// A hostname seen twice keeps the position of its first occurrence and the
// selection of its last one, so a later device without an IPv6 address
// removes the hostname altogether.
func fromDevices(devices []device) Inventory {
	type slot struct {
		addr string
		ok   bool
	}
	order := make([]string, 0, len(devices))
	selected := make(map[string]slot, len(devices))

	for _, d := range devices {
		if _, seen := selected[d.Hostname]; !seen {
			order = append(order, d.Hostname)
		}
		addr, ok := SelectIPv6(d.Addresses)
		selected[d.Hostname] = slot{addr: addr, ok: ok}
	}

	inv := make(Inventory, 0, len(order))
	for _, name := range order {
		if s := selected[name]; s.ok {
			inv = append(inv, Host{Hostname: name, Address: s.addr})
		}
	}
	return inv
}
