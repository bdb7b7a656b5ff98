package uri

import (
	"net/netip"

	"github.com/sipio/sipproxy/internal/types"
)

// Addr represents a network address consisting of a host and optional port.
type Addr = types.Addr

// Host creates an Addr from a hostname without a port.
func Host(host string) Addr { return types.Host(host) }

// HostPort creates an Addr from a hostname and port.
func HostPort(host string, port uint16) Addr { return types.HostPort(host, port) }

// ParseAddr parses a "host[:port]" network address.
func ParseAddr(s string) (Addr, error) { return types.ParseAddr(s) }

// AddrFromAddrPort converts an IP and port pair into an Addr.
func AddrFromAddrPort(ap netip.AddrPort) Addr { return types.AddrFromAddrPort(ap) }

// Values represents URI parameters or headers as a multi-value map.
type Values = types.Values

// RenderOptions contains options for rendering URIs and headers.
type RenderOptions = types.RenderOptions

// URI represents generic URI (SIP, SIPS, Tel).
type URI interface {
	types.Cloneable[URI]
	types.ValidFlag
	types.Equalable
	Scheme() string
	Render(opts *RenderOptions) string
	String() string
}

// User returns the user part of a SIP URI or the number of a Tel URI.
func User(u URI) (string, bool) {
	switch u := u.(type) {
	case *SIP:
		if u == nil || u.User == "" {
			return "", false
		}
		return u.User, true
	case *Tel:
		if u == nil || u.Number == "" {
			return "", false
		}
		return u.Number, true
	default:
		return "", false
	}
}

// HostOf returns the host and port part of a SIP URI.
func HostOf(u URI) (Addr, bool) {
	if su, ok := u.(*SIP); ok && su != nil {
		return su.Addr, true
	}
	return Addr{}, false
}
