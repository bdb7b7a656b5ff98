package types

import (
	"fmt"
	"net"
	"net/netip"
	"strconv"
	"strings"

	"braces.dev/errtrace"

	"github.com/sipio/sipproxy/internal/errorutil"
	"github.com/sipio/sipproxy/internal/util"
)

// Addr is a container for host and optional port.
type Addr struct {
	host    string
	ip      netip.Addr
	port    uint16
	hasPort bool
}

// Host returns an [Addr] containing the provided host and no port.
func Host(host string) Addr {
	host = strings.Trim(host, "[]")
	ip, _ := netip.ParseAddr(host)
	return Addr{host: host, ip: ip.Unmap()}
}

// HostPort returns an [Addr] containing the provided host and port.
func HostPort(host string, port uint16) Addr {
	addr := Host(host)
	addr.port = port
	addr.hasPort = true
	return addr
}

// ParseAddr parses a "host[:port]" string into an [Addr].
// IPv6 literals with a port must be enclosed in brackets.
func ParseAddr(s string) (Addr, error) {
	s = util.TrimSP(s)
	if s == "" {
		return Addr{}, errtrace.Wrap(errorutil.NewInvalidArgumentError("empty address"))
	}

	host, portStr, withPort := s, "", false
	switch {
	case strings.HasPrefix(s, "["):
		end := strings.IndexByte(s, ']')
		if end < 0 {
			return Addr{}, errtrace.Wrap(errorutil.NewInvalidArgumentError("address %q: missing ']'", s))
		}
		host = s[1:end]
		if rest := s[end+1:]; rest != "" {
			if rest[0] != ':' {
				return Addr{}, errtrace.Wrap(errorutil.NewInvalidArgumentError("address %q: unexpected %q", s, rest))
			}
			portStr, withPort = rest[1:], true
		}
	case strings.Count(s, ":") == 1:
		host, portStr, withPort = strings.Cut(s, ":")
	}

	if host == "" || strings.ContainsAny(host, " \t;,") {
		return Addr{}, errtrace.Wrap(errorutil.NewInvalidArgumentError("address %q: invalid host", s))
	}
	if !withPort {
		return Host(host), nil
	}

	port, err := strconv.ParseUint(portStr, 10, 16)
	if err != nil || port == 0 {
		return Addr{}, errtrace.Wrap(errorutil.NewInvalidArgumentError("address %q: invalid port", s))
	}
	return HostPort(host, uint16(port)), nil
}

// AddrFromAddrPort converts a [netip.AddrPort] into an [Addr].
func AddrFromAddrPort(ap netip.AddrPort) Addr {
	return Addr{host: ap.Addr().Unmap().String(), ip: ap.Addr().Unmap(), port: ap.Port(), hasPort: true}
}

// Host returns the hostname portion of the address as provided during construction or parsing.
func (addr Addr) Host() string { return addr.host }

// IP returns the parsed IP when the host is an IP literal, otherwise an invalid [netip.Addr].
func (addr Addr) IP() netip.Addr { return addr.ip }

// Port returns the port, in case it is set, and bool flag indicating whether it is set.
func (addr Addr) Port() (uint16, bool) { return addr.port, addr.hasPort }

// WithPort returns a copy of the address with the port replaced.
func (addr Addr) WithPort(port uint16) Addr {
	addr.port = port
	addr.hasPort = true
	return addr
}

// IsZero reports whether the address is empty.
func (addr Addr) IsZero() bool { return addr.host == "" }

// IsValid reports whether the address has a host.
func (addr Addr) IsValid() bool { return addr.host != "" }

// String formats the address as host[:port], adding brackets for IPv6 literals when required.
func (addr Addr) String() string {
	host := addr.host
	if addr.ip.IsValid() {
		host = addr.ip.String()
	}
	if !addr.hasPort {
		if strings.Contains(host, ":") {
			host = "[" + host + "]"
		}
		return host
	}
	return net.JoinHostPort(host, strconv.Itoa(int(addr.port)))
}

// Format implements fmt.Formatter to support custom formatting verbs for Addr values.
func (addr Addr) Format(f fmt.State, verb rune) {
	switch verb {
	case 'q':
		fmt.Fprint(f, strconv.Quote(addr.String()))
	default:
		fmt.Fprint(f, addr.String())
	}
}

// Equal reports whether the address equals the provided value, accepting Addr and *Addr.
// IP hosts are compared by value, names case-insensitively.
func (addr Addr) Equal(val any) bool {
	var other Addr
	switch v := val.(type) {
	case Addr:
		other = v
	case *Addr:
		if v == nil {
			return false
		}
		other = *v
	default:
		return false
	}
	return addr.SameHost(other) && addr.port == other.port && addr.hasPort == other.hasPort
}

// SameHost reports whether both addresses point to the same host ignoring ports.
func (addr Addr) SameHost(other Addr) bool {
	switch {
	case addr.ip.IsValid() && other.ip.IsValid():
		return addr.ip == other.ip
	case !addr.ip.IsValid() && !other.ip.IsValid():
		return util.EqFold(addr.host, other.host)
	default:
		return false
	}
}
