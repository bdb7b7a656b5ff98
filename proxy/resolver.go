package proxy

import (
	"context"
	"log/slog"
	"net/netip"

	"braces.dev/errtrace"

	"github.com/sipio/sipproxy/directory"
	"github.com/sipio/sipproxy/header"
	"github.com/sipio/sipproxy/internal/errorutil"
	"github.com/sipio/sipproxy/internal/util"
	"github.com/sipio/sipproxy/location"
	"github.com/sipio/sipproxy/lookup"
	"github.com/sipio/sipproxy/sip"
	"github.com/sipio/sipproxy/uri"
)

// AddressResolver computes addresses of record, next hops and the addresses the proxy advertises.
type AddressResolver struct {
	cfg    Config
	extern uri.Addr
	loc    location.Locator
	dids   directory.DIDs
	stack  Stack
	log    *slog.Logger
}

// NewAddressResolver creates an address resolver.
func NewAddressResolver(
	cfg Config,
	loc location.Locator,
	dids directory.DIDs,
	stack Stack,
	opts *Options,
) (*AddressResolver, error) {
	if loc == nil || dids == nil || stack == nil {
		return nil, errtrace.Wrap(errorutil.NewInvalidArgumentError("missing locator, DIDs or stack"))
	}
	if err := cfg.Validate(); err != nil {
		return nil, errtrace.Wrap(err)
	}

	r := &AddressResolver{
		cfg:   cfg.clone(),
		loc:   loc,
		dids:  dids,
		stack: stack,
		log:   opts.log(),
	}
	if r.cfg.ExternAddr != "" {
		r.extern, _ = parseExternAddr(r.cfg.ExternAddr)
	}
	return r, nil
}

// ResolveEndpoint locates the registered endpoints of the address of record.
func (r *AddressResolver) ResolveEndpoint(ctx context.Context, aor uri.URI) lookup.Result[location.ResolvedLocation] {
	return r.loc.FindEndpoint(ctx, aor)
}

// ResolvePeerEgress resolves the gateway route of a call placed by a peer.
// The dialed number is taken from the DID header or, when absent, from the From user.
func (r *AddressResolver) ResolvePeerEgress(
	ctx context.Context,
	req *sip.InboundRequest,
	aor uri.URI,
) lookup.Result[location.Route] {
	num, ok := req.HeaderValue(header.Name(r.cfg.DIDHeader))
	if !ok || util.TrimSP(num) == "" {
		if from, ok := req.From(); ok {
			num, _ = uri.User(from.URI)
		}
	}
	tel := uri.ParseTel(num)
	if !tel.IsValid() {
		return lookup.NotFound[location.Route]()
	}

	dres := r.dids.DIDByTelURL(ctx, tel)
	did, ok := dres.Get()
	if !ok {
		return lookup.Result[location.Route]{Status: dres.Status, Err: dres.Err}
	}

	res := r.loc.EgressRoute(ctx, aor, did.GatewayRef)
	return lookup.Map(res, func(route location.Route) location.Route {
		route.DID = did.Tel().Number
		return route
	})
}

// AddressOfRecord returns the address the request is routed to.
// It is the To URI unless one of the configured address info headers is present,
// then the value of the first present one is taken as a telephone number.
func (r *AddressResolver) AddressOfRecord(req *sip.InboundRequest) uri.URI {
	for _, name := range r.cfg.AddressInfo {
		if v, ok := req.HeaderValue(header.Name(name)); ok && util.TrimSP(v) != "" {
			return uri.ParseTel(v)
		}
	}
	if to, ok := req.To(); ok {
		return to.URI
	}
	return nil
}

// LocalAddr returns the local address bound for the transport.
func (r *AddressResolver) LocalAddr(proto sip.TransportProto) (netip.AddrPort, error) {
	lp, ok := r.stack.ListeningPoint(proto)
	if !ok {
		return netip.AddrPort{}, errtrace.Wrap(errorutil.NewWrapperError(ErrNoListeningPoint, "transport %s", proto))
	}
	return lp, nil
}

// Advertised returns the address the proxy puts into Via and Record-Route for the route.
// The external address is used when configured and the route's sent-by address is not local,
// its port defaults to the local listening port.
func (r *AddressResolver) Advertised(route *location.Route, proto sip.TransportProto) (uri.Addr, error) {
	lp, err := r.LocalAddr(proto)
	if err != nil {
		return uri.Addr{}, errtrace.Wrap(err)
	}
	if r.extern.IsValid() && !r.IsLocal(route) {
		if _, ok := r.extern.Port(); ok {
			return r.extern, nil
		}
		return r.extern.WithPort(lp.Port()), nil
	}
	return uri.AddrFromAddrPort(lp), nil
}

// IsLocal reports whether the route's sent-by address is on a local network.
// Host names and empty addresses are never local.
func (r *AddressResolver) IsLocal(route *location.Route) bool {
	if route == nil {
		return false
	}
	ip, ok := route.SentByIP()
	if !ok {
		return false
	}
	if len(r.cfg.LocalNets) == 0 {
		return ip.IsPrivate() || ip.IsLoopback() || ip.IsLinkLocalUnicast()
	}
	for _, p := range r.cfg.LocalNets {
		if p.Contains(ip) {
			return true
		}
	}
	return false
}
