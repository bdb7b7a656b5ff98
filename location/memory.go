package location

import (
	"context"
	"log/slog"
	"net/netip"
	"slices"
	"sync"

	"github.com/sipio/sipproxy/directory"
	"github.com/sipio/sipproxy/internal/log"
	"github.com/sipio/sipproxy/lookup"
	"github.com/sipio/sipproxy/uri"
)

// MemoryOptions configures the [Memory] registry.
type MemoryOptions struct {
	// Gateways resolves gateway references of egress routes.
	// Egress routes are not available without it.
	Gateways directory.Gateways
	// DIDs maps dialed numbers to the address they are linked to.
	DIDs directory.DIDs
	// Domains tells served domains apart from foreign ones.
	// Addresses in foreign domains resolve to themselves.
	Domains directory.Domains
	// Log is the registry logger.
	// Default is [log.Noop].
	Log *slog.Logger
}

func (o *MemoryOptions) log() *slog.Logger {
	if o == nil || o.Log == nil {
		return log.Noop
	}
	return o.Log
}

// Memory is an in-memory location registry implementing [Locator] and [TrustedRegistry].
// It is safe for concurrent use.
type Memory struct {
	mu       sync.RWMutex
	bindings map[string][]Route
	trusted  []netip.Prefix

	gws  directory.Gateways
	dids directory.DIDs
	doms directory.Domains
	log  *slog.Logger
}

// NewMemory creates an empty registry.
func NewMemory(opts *MemoryOptions) *Memory {
	m := &Memory{
		bindings: make(map[string][]Route),
		log:      opts.log(),
	}
	if opts != nil {
		m.gws = opts.Gateways
		m.dids = opts.DIDs
		m.doms = opts.Domains
	}
	return m
}

// AddRoute binds the route to the address of record.
// A binding with the same contact URI is replaced in place, new ones are appended.
// Routes without contact are ignored.
func (m *Memory) AddRoute(aor uri.URI, r Route) {
	if r.ContactURI == nil {
		return
	}
	key := AORKey(aor)
	r = r.Clone()

	m.mu.Lock()
	defer m.mu.Unlock()
	rs := m.bindings[key]
	if i := slices.IndexFunc(rs, func(b Route) bool { return b.ContactURI.Equal(r.ContactURI) }); i >= 0 {
		rs[i] = r
		return
	}
	m.bindings[key] = append(rs, r)
}

// RemoveRoutes drops all bindings of the address of record.
func (m *Memory) RemoveRoutes(aor uri.URI) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.bindings, AORKey(aor))
}

// Trust marks addresses in the prefix as trusted ingress sources.
func (m *Memory) Trust(p netip.Prefix) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.trusted = append(m.trusted, p.Masked())
}

// HasIP reports whether ip belongs to a trusted prefix.
func (m *Memory) HasIP(_ context.Context, ip netip.Addr) bool {
	ip = ip.Unmap()

	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.ContainsFunc(m.trusted, func(p netip.Prefix) bool { return p.Contains(ip) })
}

// FindEndpoint returns the routes bound to the address of record in binding order.
// Addresses with no bindings whose user part is a DID are resolved through the address the DID is linked to.
// SIP addresses in domains not served by the proxy resolve to themselves.
func (m *Memory) FindEndpoint(ctx context.Context, aor uri.URI) lookup.Result[ResolvedLocation] {
	if rs := m.routes(AORKey(aor)); len(rs) > 0 {
		return lookup.OK(toLocation(rs))
	}

	switch u := aor.(type) {
	case *uri.Tel:
		if res, ok := m.findByDID(ctx, u); ok {
			return res
		}
	case *uri.SIP:
		if u == nil {
			break
		}
		if u.User != "" {
			if res, ok := m.findByDID(ctx, uri.ParseTel(u.User)); ok {
				return res
			}
		}
		if m.doms == nil {
			break
		}
		res := m.doms.Domain(ctx, u.Addr.Host())
		switch res.Status {
		case lookup.StatusNotFound:
			return lookup.OK(Single(Route{
				ContactURI:    u.Clone(),
				SentByAddress: u.Addr.Host(),
				SentByPort:    u.Port(),
			}))
		case lookup.StatusError:
			return lookup.Error[ResolvedLocation](res.Err)
		}
	}
	return lookup.NotFound[ResolvedLocation]()
}

// findByDID resolves the number through its DID link.
// It reports false when the number is not a provisioned DID.
func (m *Memory) findByDID(ctx context.Context, tel *uri.Tel) (lookup.Result[ResolvedLocation], bool) {
	if m.dids == nil || !tel.IsValid() {
		return lookup.Result[ResolvedLocation]{}, false
	}

	res := m.dids.DIDByTelURL(ctx, tel)
	switch res.Status {
	case lookup.StatusNotFound:
		return lookup.Result[ResolvedLocation]{}, false
	case lookup.StatusError:
		return lookup.Error[ResolvedLocation](res.Err), true
	}

	link, err := uri.ParseSIP(res.Value.AORLink)
	if err != nil {
		m.log.WarnContext(ctx, "skip did with invalid aor link",
			slog.String("did", res.Value.TelURL),
			slog.Any("error", err),
		)
		return lookup.NotFound[ResolvedLocation](), true
	}
	if rs := m.routes(AORKey(link)); len(rs) > 0 {
		return lookup.OK(toLocation(rs)), true
	}
	return lookup.NotFound[ResolvedLocation](), true
}

// EgressRoute returns the route to the address of record through the referenced gateway.
// The contact keeps the dialed user and targets the gateway host.
func (m *Memory) EgressRoute(ctx context.Context, aor uri.URI, gatewayRef string) lookup.Result[Route] {
	if m.gws == nil {
		return lookup.NotFound[Route]()
	}

	res := m.gws.Gateway(ctx, gatewayRef)
	if !res.IsOK() {
		return lookup.Map(res, func(*directory.Gateway) Route { return Route{} })
	}
	gw := res.Value

	user, _ := uri.User(aor)
	addr, err := uri.ParseAddr(gw.Host)
	if err != nil {
		m.log.WarnContext(ctx, "skip gateway with invalid host",
			slog.String("gateway", gw.Ref),
			slog.Any("error", err),
		)
		return lookup.NotFound[Route]()
	}
	contact := &uri.SIP{User: user, Addr: addr}
	if gw.Transport != "" {
		contact.Params = uri.Values{}.Set("transport", gw.Transport)
	}

	return lookup.OK(Route{
		ContactURI:      contact,
		SentByAddress:   addr.Host(),
		SentByPort:      contact.Port(),
		ThruGateway:     true,
		GatewayRef:      gw.Ref,
		GatewayHost:     gw.Host,
		GatewayUsername: gw.Credentials.Username,
	})
}

func (m *Memory) routes(key string) []Route {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rs := m.bindings[key]
	if len(rs) == 0 {
		return nil
	}
	out := make([]Route, len(rs))
	for i := range rs {
		out[i] = rs[i].Clone()
	}
	return out
}

func toLocation(rs []Route) ResolvedLocation {
	if len(rs) == 1 {
		return Single(rs[0])
	}
	return Multiple(rs)
}
