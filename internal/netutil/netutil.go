package netutil

import (
	"fmt"
	"net"
)

// ResolveGroup validates a multicast group address and returns it as an
// IPv4 address.
func ResolveGroup(group string) (net.IP, error) {
	ip := net.ParseIP(group)
	if ip == nil {
		return nil, fmt.Errorf("invalid IP address: %q", group)
	}

	ip4 := ip.To4()
	if ip4 == nil {
		return nil, fmt.Errorf("not a valid IPv4 address: %q", group)
	}
	if !ip4.IsMulticast() {
		return nil, fmt.Errorf("%s is not a multicast address (expected 224.0.0.0/4)", ip4)
	}
	return ip4, nil
}

// ValidatePort rejects port 0; everything else in uint16 range is fine.
func ValidatePort(port int) error {
	if port <= 0 || port > 65535 {
		return fmt.Errorf("invalid port: %d", port)
	}
	return nil
}

// ResolveInterface maps an interface selector to a network interface.
// The selector is either an interface name ("eth0") or an IPv4 address
// assigned to a non-loopback interface. An empty selector means "let
// the kernel choose" and returns nil.
func ResolveInterface(sel string) (*net.Interface, error) {
	if sel == "" {
		return nil, nil
	}

	if ifi, err := net.InterfaceByName(sel); err == nil {
		return ifi, nil
	}

	ip := net.ParseIP(sel)
	if ip == nil {
		return nil, fmt.Errorf("no interface named %q and not an IP address", sel)
	}

	ifaces, err := net.Interfaces()
	if err != nil {
		return nil, fmt.Errorf("failed to get network interfaces: %w", err)
	}

	for _, iface := range ifaces {
		if iface.Flags&net.FlagLoopback != 0 {
			continue
		}

		addrs, err := iface.Addrs()
		if err != nil {
			continue
		}

		for _, addr := range addrs {
			var ifaceIP net.IP
			switch v := addr.(type) {
			case *net.IPNet:
				ifaceIP = v.IP
			case *net.IPAddr:
				ifaceIP = v.IP
			}

			if ifaceIP != nil && ifaceIP.Equal(ip) {
				found := iface
				return &found, nil
			}
		}
	}

	return nil, fmt.Errorf("IP %s not found on any non-loopback interface", ip)
}
