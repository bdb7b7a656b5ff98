package acl_test

import (
	"errors"
	"net/netip"
	"testing"

	"github.com/sipio/sipproxy/acl"
	"github.com/sipio/sipproxy/directory"
)

func TestParseRule(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in      string
		want    string
		wantErr error
	}{
		{"10.0.0.0/8", "10.0.0.0/8", nil},
		{"10.1.2.3/8", "10.0.0.0/8", nil},
		{"192.168.1.0/255.255.255.0", "192.168.1.0/24", nil},
		{"192.168.1.10", "192.168.1.10/32", nil},
		{"::1", "::1/128", nil},
		{"2001:db8::/32", "2001:db8::/32", nil},
		{"192.168.1.0/255.0.255.0", "", acl.ErrInvalidRule},
		{"192.168.1.0/33", "", acl.ErrInvalidRule},
		{"example.com", "", acl.ErrInvalidRule},
	}
	for _, c := range cases {
		got, err := acl.ParseRule(c.in)
		if !errors.Is(err, c.wantErr) {
			t.Errorf("acl.ParseRule(%q) error = %v, want %v", c.in, err, c.wantErr)
			continue
		}
		if err == nil && got.String() != c.want {
			t.Errorf("acl.ParseRule(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestParseList_ReportsAll(t *testing.T) {
	t.Parallel()

	_, err := acl.ParseList([]string{"bad-1", "10.0.0.0/8"}, []string{"bad-2"})
	if !errors.Is(err, acl.ErrInvalidRule) {
		t.Fatalf("acl.ParseList() error = %v, want %v", err, acl.ErrInvalidRule)
	}
}

func TestEvaluator_IsIPAllowed(t *testing.T) {
	t.Parallel()

	general, err := acl.ParseList(nil, []string{"203.0.113.0/24"})
	if err != nil {
		t.Fatalf("acl.ParseList() error = %v, want nil", err)
	}
	ev, err := acl.NewEvaluator(general, nil)
	if err != nil {
		t.Fatalf("acl.NewEvaluator() error = %v, want nil", err)
	}

	dom := &directory.Domain{
		URI: "sip.local",
		ACL: directory.ACL{
			Allow: []string{"192.168.1.0/255.255.255.0", "203.0.113.7"},
			Deny:  []string{"0.0.0.0/1", "not-a-rule"},
		},
	}
	open := &directory.Domain{URI: "open.local"}

	cases := []struct {
		name   string
		domain *directory.Domain
		ip     string
		want   bool
	}{
		{"domain allow wins over domain deny", dom, "192.168.1.20", true},
		{"domain allow wins over general deny", dom, "203.0.113.7", true},
		{"domain deny", dom, "10.0.0.1", false},
		{"general deny", dom, "203.0.113.8", false},
		{"no match", dom, "198.51.100.1", true},
		{"open domain general deny", open, "203.0.113.8", false},
		{"open domain", open, "10.0.0.1", true},
		{"nil domain", nil, "10.0.0.1", true},
		{"mapped ipv4", dom, "::ffff:10.0.0.1", false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()

			ip := netip.MustParseAddr(c.ip)
			if got := ev.IsIPAllowed(c.domain, ip); got != c.want {
				t.Errorf("ev.IsIPAllowed(%v, %v) = %v, want %v", c.domain, ip, got, c.want)
			}
		})
	}
}
