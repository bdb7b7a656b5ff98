package routing

import (
	"context"
	"log/slog"

	"github.com/sipio/sipproxy/directory"
	"github.com/sipio/sipproxy/internal/log"
	"github.com/sipio/sipproxy/internal/util"
	"github.com/sipio/sipproxy/sip"
	"github.com/sipio/sipproxy/uri"
)

// EntityKind is the kind of a call party as known to the directory.
type EntityKind int

// Entity kinds.
const (
	ThirdParty EntityKind = iota
	Agent
	Peer
	DID
)

var kindNames = [...]string{
	ThirdParty: "THIRD_PARTY",
	Agent:      "AGENT",
	Peer:       "PEER",
	DID:        "DID",
}

func (k EntityKind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "UNKNOWN"
	}
	return kindNames[k]
}

// Entity is a resolved call party.
type Entity struct {
	Kind EntityKind
	// Domain is the host part of the party address.
	Domain string
}

// DirectoryOptions configures the [DirectoryClassifier].
type DirectoryOptions struct {
	// Log is the logger.
	// Default is [log.Noop].
	Log *slog.Logger
}

func (o *DirectoryOptions) log() *slog.Logger {
	if o == nil || o.Log == nil {
		return log.Noop
	}
	return o.Log
}

// DirectoryClassifier derives the routing type from the kinds of the caller (From)
// and the callee (request URI) as provisioned in the directory.
//
//	caller \ callee | AGENT                  | PEER  | DID            | THIRD_PARTY
//	AGENT           | INTRA or INTER_DOMAIN  | INTRA | INTRA          | DOMAIN_EGRESS
//	PEER            | INTRA                  | INTRA | DOMAIN_INGRESS | PEER_EGRESS
//	THIRD_PARTY     | INTRA                  | INTRA | DOMAIN_INGRESS | INTRA
//
// Lookup errors make the party a third party.
type DirectoryClassifier struct {
	dir directory.Directory
	log *slog.Logger
}

// NewDirectoryClassifier creates a classifier backed by the directory.
func NewDirectoryClassifier(dir directory.Directory, opts *DirectoryOptions) *DirectoryClassifier {
	return &DirectoryClassifier{dir: dir, log: opts.log()}
}

// Classify implements [Classifier].
func (c *DirectoryClassifier) Classify(ctx context.Context, req *sip.InboundRequest) Type {
	var caller, callee Entity
	if from, ok := req.From(); ok {
		caller = c.Caller(ctx, from.URI)
	}
	callee = c.Callee(ctx, req.URI())

	switch {
	case caller.Kind == Agent && callee.Kind == Agent:
		if util.EqFold(caller.Domain, callee.Domain) {
			return IntraDomain
		}
		return InterDomain
	case caller.Kind == Agent && callee.Kind == ThirdParty:
		return DomainEgress
	case caller.Kind == Peer && callee.Kind == ThirdParty:
		return PeerEgress
	case caller.Kind != Agent && callee.Kind == DID:
		return DomainIngress
	default:
		return IntraDomain
	}
}

// Caller resolves the calling party. Agents take precedence over peers.
func (c *DirectoryClassifier) Caller(ctx context.Context, u uri.URI) Entity {
	user, host := parts(u)
	if user == "" {
		return Entity{Kind: ThirdParty, Domain: host}
	}
	if host != "" && c.isAgent(ctx, host, user) {
		return Entity{Kind: Agent, Domain: host}
	}
	if c.isPeer(ctx, user) {
		return Entity{Kind: Peer, Domain: host}
	}
	return Entity{Kind: ThirdParty, Domain: host}
}

// Callee resolves the called party. DIDs take precedence over agents and peers.
func (c *DirectoryClassifier) Callee(ctx context.Context, u uri.URI) Entity {
	user, host := parts(u)
	if user == "" {
		return Entity{Kind: ThirdParty, Domain: host}
	}
	if c.isDID(ctx, user) {
		return Entity{Kind: DID, Domain: host}
	}
	if host != "" && c.isAgent(ctx, host, user) {
		return Entity{Kind: Agent, Domain: host}
	}
	if c.isPeer(ctx, user) {
		return Entity{Kind: Peer, Domain: host}
	}
	return Entity{Kind: ThirdParty, Domain: host}
}

func (c *DirectoryClassifier) isAgent(ctx context.Context, domain, user string) bool {
	res := c.dir.Agent(ctx, domain, user)
	if res.IsError() {
		c.log.LogAttrs(ctx, slog.LevelWarn, "agent lookup failed",
			slog.String("domain", domain),
			slog.String("user", user),
			slog.Any("error", res.Err),
		)
	}
	return res.IsOK()
}

func (c *DirectoryClassifier) isPeer(ctx context.Context, user string) bool {
	res := c.dir.Peer(ctx, user)
	if res.IsError() {
		c.log.LogAttrs(ctx, slog.LevelWarn, "peer lookup failed", slog.String("user", user), slog.Any("error", res.Err))
	}
	return res.IsOK()
}

func (c *DirectoryClassifier) isDID(ctx context.Context, user string) bool {
	tel := uri.ParseTel(user)
	if !tel.IsValid() {
		return false
	}
	res := c.dir.DIDByTelURL(ctx, tel)
	if res.IsError() {
		c.log.LogAttrs(ctx, slog.LevelWarn, "DID lookup failed", slog.String("number", user), slog.Any("error", res.Err))
	}
	return res.IsOK()
}

func parts(u uri.URI) (user, host string) {
	user, _ = uri.User(u)
	if addr, ok := uri.HostOf(u); ok {
		host = addr.Host()
	}
	return user, host
}
