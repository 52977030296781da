package netutil

import "testing"

func TestResolveGroup(t *testing.T) {
	tests := []struct {
		group string
		ok    bool
	}{
		{"239.0.0.1", true},
		{"224.0.0.1", true},
		{"239.255.255.255", true},
		{"10.0.0.1", false},       // unicast
		{"223.255.255.255", false}, // just below the multicast range
		{"240.0.0.1", false},       // just above
		{"ff02::1", false},         // IPv6 multicast, probe is IPv4 only
		{"not-an-ip", false},
		{"", false},
	}

	for _, tt := range tests {
		ip, err := ResolveGroup(tt.group)
		if tt.ok && err != nil {
			t.Errorf("ResolveGroup(%q): unexpected error %v", tt.group, err)
		}
		if !tt.ok && err == nil {
			t.Errorf("ResolveGroup(%q) = %v, want error", tt.group, ip)
		}
		if tt.ok && ip.To4() == nil {
			t.Errorf("ResolveGroup(%q) did not return an IPv4 address", tt.group)
		}
	}
}

func TestValidatePort(t *testing.T) {
	for _, p := range []int{1, 9999, 65535} {
		if err := ValidatePort(p); err != nil {
			t.Errorf("ValidatePort(%d): unexpected error %v", p, err)
		}
	}
	for _, p := range []int{0, -1, 65536} {
		if err := ValidatePort(p); err == nil {
			t.Errorf("ValidatePort(%d) succeeded, want error", p)
		}
	}
}

func TestResolveInterface(t *testing.T) {
	ifi, err := ResolveInterface("")
	if err != nil || ifi != nil {
		t.Errorf("ResolveInterface(\"\") = (%v, %v), want (nil, nil)", ifi, err)
	}

	if _, err := ResolveInterface("no-such-interface-xyz"); err == nil {
		t.Error("ResolveInterface of a bogus name succeeded, want error")
	}

	// an IP no interface holds
	if _, err := ResolveInterface("192.0.2.1"); err == nil {
		t.Error("ResolveInterface of an unassigned IP succeeded, want error")
	}
}
