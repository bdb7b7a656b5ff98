// Package routing classifies inbound requests by the topological relationship
// between the caller and the callee.
package routing

//go:generate go tool mockgen -destination=../internal/testutil/proxymock/routing.go -package=proxymock . Classifier

import (
	"context"
	"log/slog"

	"github.com/sipio/sipproxy/sip"
)

// Type is the routing type of a request.
type Type int

// Routing types.
const (
	// InterDomain is a call between agents of different domains. Not supported by the proxy.
	InterDomain Type = iota + 1
	// IntraDomain is a call within a single domain.
	IntraDomain
	// DomainIngress is a call from a trunk or a third party towards a DID.
	DomainIngress
	// DomainEgress is a call from an agent towards a third party.
	DomainEgress
	// PeerEgress is a call from a peer towards the PSTN through a gateway.
	PeerEgress
)

var typeNames = [...]string{
	InterDomain:   "INTER_DOMAIN",
	IntraDomain:   "INTRA_DOMAIN",
	DomainIngress: "DOMAIN_INGRESS",
	DomainEgress:  "DOMAIN_EGRESS",
	PeerEgress:    "PEER_EGRESS",
}

// String returns the routing type name.
func (t Type) String() string {
	if t <= 0 || int(t) >= len(typeNames) {
		return "UNKNOWN"
	}
	return typeNames[t]
}

// IsValid checks whether the routing type is known.
func (t Type) IsValid() bool { return t > 0 && int(t) < len(typeNames) }

// LogValue implements [slog.LogValuer].
func (t Type) LogValue() slog.Value { return slog.StringValue(t.String()) }

// Classifier determines the routing type of an inbound request.
type Classifier interface {
	Classify(ctx context.Context, req *sip.InboundRequest) Type
}

// ClassifierFunc is an adapter to use ordinary functions as [Classifier].
type ClassifierFunc func(ctx context.Context, req *sip.InboundRequest) Type

// Classify calls f(ctx, req).
func (f ClassifierFunc) Classify(ctx context.Context, req *sip.InboundRequest) Type {
	return f(ctx, req)
}
