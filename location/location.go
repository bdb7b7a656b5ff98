// Package location resolves addresses of record to next-hop routes.
//
// A [Locator] returns a [ResolvedLocation] for registered endpoints and builds
// egress routes through gateways. [Memory] is an in-memory registry fed by the
// registrar and by the directory of gateways.
package location

//go:generate go tool errtrace -w .

import (
	"context"
	"log/slog"
	"net/netip"

	"github.com/sipio/sipproxy/internal/util"
	"github.com/sipio/sipproxy/lookup"
	"github.com/sipio/sipproxy/uri"
)

// Route is a resolved next hop.
type Route struct {
	// ContactURI is the target of the forwarded request.
	ContactURI uri.URI
	// NATBehind reports whether the endpoint registered from behind a NAT.
	NATBehind bool
	// SentByAddress and SentByPort come from the Via of the registration.
	SentByAddress string
	SentByPort    uint16
	// Received and RPort are the observed source of the registration.
	Received string
	RPort    uint16

	// ThruGateway marks routes that leave through a trunk gateway.
	// The gateway fields are set only for such routes.
	ThruGateway     bool
	GatewayRef      string
	GatewayHost     string
	GatewayUsername string
	DID             string
}

// Clone returns a deep copy of the route.
func (r Route) Clone() Route {
	if r.ContactURI != nil {
		r.ContactURI = r.ContactURI.Clone()
	}
	return r
}

// SentByIP returns the sent-by address when it is an IP literal.
func (r Route) SentByIP() (netip.Addr, bool) {
	ip, err := netip.ParseAddr(r.SentByAddress)
	if err != nil {
		return netip.Addr{}, false
	}
	return ip.Unmap(), true
}

// LogValue implements [slog.LogValuer] for structured logging.
func (r Route) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, 8)
	if r.ContactURI != nil {
		attrs = append(attrs, slog.String("contact", r.ContactURI.String()))
	}
	attrs = append(attrs,
		slog.Bool("nat", r.NATBehind),
		slog.String("sent_by", r.SentByAddress),
		slog.Int("sent_by_port", int(r.SentByPort)),
		slog.String("received", r.Received),
		slog.Int("rport", int(r.RPort)),
	)
	if r.ThruGateway {
		attrs = append(attrs, slog.Group("gateway",
			slog.String("ref", r.GatewayRef),
			slog.String("host", r.GatewayHost),
			slog.String("username", r.GatewayUsername),
			slog.String("did", r.DID),
		))
	}
	return slog.GroupValue(attrs...)
}

// ResolvedLocation is either a single route or an ordered set of routes.
// The zero value is neither and must be treated as a resolution miss.
type ResolvedLocation struct {
	single *Route
	multi  []Route
}

// Single creates a location with exactly one route.
func Single(r Route) ResolvedLocation { return ResolvedLocation{single: &r} }

// Multiple creates a location with routes in the given order.
// The slice is copied.
func Multiple(rs []Route) ResolvedLocation {
	return ResolvedLocation{multi: append(make([]Route, 0, len(rs)), rs...)}
}

// IsSingle reports whether the location holds a single route.
func (l ResolvedLocation) IsSingle() bool { return l.single != nil }

// IsMultiple reports whether the location holds a route set, possibly empty.
func (l ResolvedLocation) IsMultiple() bool { return l.single == nil && l.multi != nil }

// IsZero reports whether the location is the zero value.
func (l ResolvedLocation) IsZero() bool { return l.single == nil && l.multi == nil }

// Routes returns the routes in order. It returns nil for the zero value.
func (l ResolvedLocation) Routes() []Route {
	switch {
	case l.single != nil:
		return []Route{*l.single}
	case l.multi != nil:
		return append([]Route(nil), l.multi...)
	default:
		return nil
	}
}

// Len returns the number of routes.
func (l ResolvedLocation) Len() int {
	if l.single != nil {
		return 1
	}
	return len(l.multi)
}

// Locator resolves addresses of record.
type Locator interface {
	// FindEndpoint returns the routes registered for the address of record.
	FindEndpoint(ctx context.Context, aor uri.URI) lookup.Result[ResolvedLocation]
	// EgressRoute returns the route to the address of record through the referenced gateway.
	EgressRoute(ctx context.Context, aor uri.URI, gatewayRef string) lookup.Result[Route]
}

// TrustedRegistry knows the addresses of trusted ingress elements.
type TrustedRegistry interface {
	HasIP(ctx context.Context, ip netip.Addr) bool
}

// AORKey returns the registry key of the address of record:
// "sip:user@host" for SIP URIs (params dropped, host lowercased) and "tel:digits" for Tel URIs.
func AORKey(aor uri.URI) string {
	switch u := aor.(type) {
	case *uri.SIP:
		if u == nil {
			return ""
		}
		key := "sip:"
		if u.User != "" {
			key += u.User + "@"
		}
		return key + util.LCase(u.Addr.Host())
	case *uri.Tel:
		if u == nil {
			return ""
		}
		return "tel:" + u.Digits()
	default:
		return ""
	}
}
