package proxy

import (
	"braces.dev/errtrace"

	"github.com/sipio/sipproxy/header"
	"github.com/sipio/sipproxy/internal/errorutil"
	"github.com/sipio/sipproxy/internal/util"
	"github.com/sipio/sipproxy/location"
	"github.com/sipio/sipproxy/sip"
	"github.com/sipio/sipproxy/uri"
)

// Non-standard headers added to requests leaving through a gateway.
const (
	GatewayRefHeader     header.Name = "GwRef"
	RemotePartyIDHeader  header.Name = "Remote-Party-ID"
	proxyAuthorizationHN header.Name = "Proxy-Authorization"
)

// Transformer rewrites working copies of inbound requests for a next hop.
type Transformer struct {
	recordRoute bool
	resolver    *AddressResolver
}

// NewTransformer creates a transformer that advertises the addresses computed by the resolver.
func NewTransformer(cfg Config, resolver *AddressResolver) *Transformer {
	return &Transformer{recordRoute: cfg.RecordRoute, resolver: resolver}
}

// Transform rewrites out, a working copy of in, to be forwarded along the route:
// the request URI is retargeted, the Route hop pointing at the proxy is stripped,
// Record-Route and Via are added, gateway identities are applied and
// Proxy-Authorization is removed.
func (t *Transformer) Transform(in *sip.InboundRequest, out *sip.OutboundRequest, route *location.Route) error {
	if route == nil || route.ContactURI == nil {
		return errtrace.Wrap(errorutil.NewInvalidArgumentError("route without contact"))
	}

	proto := legTransport(in, route)
	local, err := t.resolver.LocalAddr(proto)
	if err != nil {
		return errtrace.Wrap(err)
	}
	adv, err := t.resolver.Advertised(route, proto)
	if err != nil {
		return errtrace.Wrap(err)
	}

	out.SetURI(route.ContactURI.Clone())
	stripSelfRoute(in, out, uri.AddrFromAddrPort(local), adv)

	if t.recordRoute {
		out.PrependHeader(header.RecordRoute{{
			URI: &uri.SIP{Addr: adv, Params: make(uri.Values).Set("lr", "")},
		}})
	}

	out.PrependHeader(header.Via{{
		Proto:     sip.ProtoSIP20,
		Transport: proto,
		Addr:      adv,
		Params:    make(header.Values).Set("branch", sip.GenerateBranch()).Set("rport", ""),
	}})

	if route.ThruGateway {
		applyGateway(in, out, route)
	}

	out.RemoveHeader(proxyAuthorizationHN)
	return nil
}

// legTransport is the transport of the contact URI, or the inbound one when the contact does not set it.
func legTransport(in *sip.InboundRequest, route *location.Route) sip.TransportProto {
	if u, ok := route.ContactURI.(*uri.SIP); ok && u != nil {
		if v, ok := u.Params.Last("transport"); ok && v != "" {
			return sip.TransportProto(util.UCase(v))
		}
		if u.Secured {
			return sip.TransportProtoTLS
		}
	}
	return in.Transport()
}

// stripSelfRoute removes the topmost Route hop when it points at the proxy itself.
// The hop is removed at most once.
func stripSelfRoute(in *sip.InboundRequest, out *sip.OutboundRequest, local, adv uri.Addr) {
	hops := in.Route()
	if len(hops) == 0 || !(pointsAt(hops[0], local) || pointsAt(hops[0], adv)) {
		return
	}

	first, ok := out.RemoveFirst("Route")
	if !ok {
		return
	}
	if rest, ok := first.(header.Route); ok && len(rest) > 1 {
		out.PrependHeader(rest[1:])
	}
}

func pointsAt(hop header.RouteHop, addr uri.Addr) bool {
	u, ok := hop.URI.(*uri.SIP)
	if !ok || u == nil || !addr.IsValid() {
		return false
	}
	port, ok := addr.Port()
	if !ok {
		port = 5060
	}
	return u.Addr.SameHost(addr) && u.Port() == port
}

func applyGateway(in *sip.InboundRequest, out *sip.OutboundRequest, route *location.Route) {
	gwAddr, err := uri.ParseAddr(route.GatewayHost)
	if err != nil {
		gwAddr = uri.Host(route.GatewayHost)
	}

	if from, ok := in.From(); ok {
		from.URI = &uri.SIP{User: route.GatewayUsername, Addr: gwAddr}
		out.SetHeader(from)
	}
	if to, ok := in.To(); ok {
		user, _ := uri.User(to.URI)
		to.URI = &uri.SIP{User: user, Addr: gwAddr}
		out.SetHeader(to)
	}

	out.AppendHeader(&header.Any{Name: GatewayRefHeader, Value: route.GatewayRef})
	out.AppendHeader(&header.Any{
		Name:  RemotePartyIDHeader,
		Value: "<sip:" + route.DID + "@" + gwAddr.String() + ">;party=calling;screen=yes",
	})
}
