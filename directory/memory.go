package directory

import (
	"context"
	"sync"

	"braces.dev/errtrace"

	"github.com/sipio/sipproxy/internal/errorutil"
	"github.com/sipio/sipproxy/internal/util"
	"github.com/sipio/sipproxy/lookup"
	"github.com/sipio/sipproxy/uri"
)

// Memory is an in-memory [Directory]. It is safe for concurrent use.
type Memory struct {
	mu       sync.RWMutex
	domains  map[string]*Domain
	agents   map[string]*Agent
	peers    map[string]*Peer
	gateways map[string]*Gateway
	dids     map[string]*DID
}

// NewMemory creates an empty directory.
func NewMemory() *Memory {
	return &Memory{
		domains:  make(map[string]*Domain),
		agents:   make(map[string]*Agent),
		peers:    make(map[string]*Peer),
		gateways: make(map[string]*Gateway),
		dids:     make(map[string]*DID),
	}
}

func agentKey(domain, username string) string {
	return util.LCase(domain) + "\x00" + username
}

// AddDomain adds the domain.
func (m *Memory) AddDomain(d *Domain) error {
	if d == nil || d.URI == "" {
		return errtrace.Wrap(errorutil.NewWrapperError(ErrInvalidResource, "domain without uri"))
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	key := util.LCase(d.URI)
	if _, ok := m.domains[key]; ok {
		return errtrace.Wrap(errorutil.NewWrapperError(ErrDuplicate, "domain %q", d.URI))
	}
	m.domains[key] = d
	return nil
}

// AddAgent adds the agent to each of its domains.
func (m *Memory) AddAgent(a *Agent) error {
	if a == nil || a.Credentials.Username == "" || len(a.Domains) == 0 {
		return errtrace.Wrap(errorutil.NewWrapperError(ErrInvalidResource, "agent without username or domains"))
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for _, d := range a.Domains {
		if _, ok := m.agents[agentKey(d, a.Credentials.Username)]; ok {
			return errtrace.Wrap(errorutil.NewWrapperError(ErrDuplicate, "agent %q in domain %q", a.Credentials.Username, d))
		}
	}
	for _, d := range a.Domains {
		m.agents[agentKey(d, a.Credentials.Username)] = a
	}
	return nil
}

// AddPeer adds the peer.
func (m *Memory) AddPeer(p *Peer) error {
	if p == nil || p.Credentials.Username == "" {
		return errtrace.Wrap(errorutil.NewWrapperError(ErrInvalidResource, "peer without username"))
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.peers[p.Credentials.Username]; ok {
		return errtrace.Wrap(errorutil.NewWrapperError(ErrDuplicate, "peer %q", p.Credentials.Username))
	}
	m.peers[p.Credentials.Username] = p
	return nil
}

// AddGateway adds the gateway.
func (m *Memory) AddGateway(gw *Gateway) error {
	if gw == nil || gw.Ref == "" || gw.Host == "" {
		return errtrace.Wrap(errorutil.NewWrapperError(ErrInvalidResource, "gateway without ref or host"))
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.gateways[gw.Ref]; ok {
		return errtrace.Wrap(errorutil.NewWrapperError(ErrDuplicate, "gateway %q", gw.Ref))
	}
	m.gateways[gw.Ref] = gw
	return nil
}

// AddDID adds the DID.
func (m *Memory) AddDID(did *DID) error {
	if did == nil || !did.Tel().IsValid() {
		return errtrace.Wrap(errorutil.NewWrapperError(ErrInvalidResource, "did without number"))
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	key := did.Tel().Digits()
	if _, ok := m.dids[key]; ok {
		return errtrace.Wrap(errorutil.NewWrapperError(ErrDuplicate, "did %q", did.TelURL))
	}
	m.dids[key] = did
	return nil
}

// Domain returns the domain with the given host.
func (m *Memory) Domain(_ context.Context, host string) lookup.Result[*Domain] {
	m.mu.RLock()
	defer m.mu.RUnlock()
	d, ok := m.domains[util.LCase(host)]
	return lookup.From(d, ok, nil)
}

// Agent returns the agent with the given username in the domain.
func (m *Memory) Agent(_ context.Context, domain, username string) lookup.Result[*Agent] {
	m.mu.RLock()
	defer m.mu.RUnlock()
	a, ok := m.agents[agentKey(domain, username)]
	return lookup.From(a, ok, nil)
}

// Peer returns the peer with the given username.
func (m *Memory) Peer(_ context.Context, username string) lookup.Result[*Peer] {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.peers[username]
	return lookup.From(p, ok, nil)
}

// Gateway returns the gateway with the given reference.
func (m *Memory) Gateway(_ context.Context, ref string) lookup.Result[*Gateway] {
	m.mu.RLock()
	defer m.mu.RUnlock()
	gw, ok := m.gateways[ref]
	return lookup.From(gw, ok, nil)
}

// DIDByTelURL returns the DID with the given number. Visual separators are ignored.
func (m *Memory) DIDByTelURL(_ context.Context, tel *uri.Tel) lookup.Result[*DID] {
	if tel == nil {
		return lookup.NotFound[*DID]()
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	did, ok := m.dids[tel.Digits()]
	return lookup.From(did, ok, nil)
}

// Domains returns all domains.
func (m *Memory) Domains() []*Domain {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ds := make([]*Domain, 0, len(m.domains))
	for _, d := range m.domains {
		ds = append(ds, d)
	}
	return ds
}

// Validate checks references between resources: agent domains and DID gateways must exist.
func (m *Memory) Validate() error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var errs []error
	for _, a := range m.agents {
		for _, d := range a.Domains {
			if _, ok := m.domains[util.LCase(d)]; !ok {
				errs = append(errs, errorutil.NewWrapperError(ErrInvalidResource, "agent %q references unknown domain %q", a.Credentials.Username, d))
			}
		}
	}
	for _, did := range m.dids {
		if _, ok := m.gateways[did.GatewayRef]; !ok {
			errs = append(errs, errorutil.NewWrapperError(ErrInvalidResource, "did %q references unknown gateway %q", did.TelURL, did.GatewayRef))
		}
	}
	return errtrace.Wrap(errorutil.Join(errs...))
}

// Counts is the number of resources per kind.
type Counts struct {
	Domains  int
	Agents   int
	Peers    int
	Gateways int
	DIDs     int
}

// Counts returns the number of stored resources per kind.
func (m *Memory) Counts() Counts {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return Counts{
		Domains:  len(m.domains),
		Agents:   len(m.agents),
		Peers:    len(m.peers),
		Gateways: len(m.gateways),
		DIDs:     len(m.dids),
	}
}
