// Package directory holds the provisioned resources the proxy routes between:
// domains, agents, peers, gateways and DIDs.
//
// Lookups return [lookup.Result] so that "not provisioned" is distinguishable from a
// failing backend. [Memory] is a concurrent-safe in-memory implementation that can be
// filled from a resources file with [LoadFile].
package directory

//go:generate go tool errtrace -w .

import (
	"context"
	"log/slog"

	"github.com/sipio/sipproxy/internal/errorutil"
	"github.com/sipio/sipproxy/lookup"
	"github.com/sipio/sipproxy/uri"
)

// Directory errors.
const (
	ErrInvalidResource errorutil.Error = "invalid resource"
	ErrDuplicate       errorutil.Error = "duplicate resource"
)

// Credentials is a username and shared secret pair.
type Credentials struct {
	Username string `yaml:"username"`
	Secret   string `yaml:"secret"`
}

// ACL is a list of allow and deny rules in CIDR, dotted mask or single IP form.
type ACL struct {
	Allow []string `yaml:"allow"`
	Deny  []string `yaml:"deny"`
}

// IsZero reports whether the list has no rules.
func (acl ACL) IsZero() bool { return len(acl.Allow) == 0 && len(acl.Deny) == 0 }

// Domain is a SIP domain served by the proxy.
type Domain struct {
	Name string
	// URI is the domain host, e.g. "sip.local".
	URI string
	ACL ACL
	// EgressRule is a regular expression matched against dialed numbers leaving the domain.
	EgressRule string
	// EgressDIDRef references the DID used for egress calls.
	EgressDIDRef string
}

// LogValue implements [slog.LogValuer] for structured logging.
func (d *Domain) LogValue() slog.Value {
	if d == nil {
		return slog.Value{}
	}
	return slog.GroupValue(slog.String("name", d.Name), slog.String("uri", d.URI))
}

// Identity is an authenticating party.
type Identity interface {
	// Kind returns the resource kind of the identity.
	Kind() string
	// Creds returns the identity credentials.
	Creds() Credentials
}

// Agent is a user registered within one or more domains.
type Agent struct {
	Name        string
	Credentials Credentials
	Domains     []string
}

func (*Agent) Kind() string { return "Agent" }

func (a *Agent) Creds() Credentials { return a.Credentials }

// Peer is a trusted SIP element such as a media server or a PBX.
type Peer struct {
	Name        string
	Credentials Credentials
	// Host is the peer signaling address, may be empty.
	Host string
}

func (*Peer) Kind() string { return "Peer" }

func (p *Peer) Creds() Credentials { return p.Credentials }

// Gateway is a trunk provider reachable for PSTN termination.
type Gateway struct {
	Ref         string
	Name        string
	Host        string
	Transport   string
	Credentials Credentials
}

// DID is a phone number provided by a gateway.
type DID struct {
	Ref        string
	GatewayRef string
	// TelURL is the number in "tel:" form.
	TelURL string
	// AORLink is the address the number is bound to.
	AORLink string
}

// Tel returns the DID number as a Tel URI.
func (d *DID) Tel() *uri.Tel { return uri.ParseTel(d.TelURL) }

// Domains looks up domains by host.
type Domains interface {
	Domain(ctx context.Context, host string) lookup.Result[*Domain]
}

// Agents looks up agents by domain and username.
type Agents interface {
	Agent(ctx context.Context, domain, username string) lookup.Result[*Agent]
}

// Peers looks up peers by username.
type Peers interface {
	Peer(ctx context.Context, username string) lookup.Result[*Peer]
}

// Gateways looks up gateways by reference.
type Gateways interface {
	Gateway(ctx context.Context, ref string) lookup.Result[*Gateway]
}

// DIDs looks up DIDs by number.
type DIDs interface {
	DIDByTelURL(ctx context.Context, tel *uri.Tel) lookup.Result[*DID]
}

// Directory groups all lookups.
type Directory interface {
	Domains
	Agents
	Peers
	Gateways
	DIDs
}
