// Package proxy implements the request-routing core of the SIP proxy.
//
// A [Processor] takes every inbound request that is not handled by the registrar
// or the CANCEL handler through the same pipeline: the request is classified,
// authorized, resolved to one or more next hops, rewritten for each hop and
// forwarded. Every terminal decision is answered with a final response on the
// inbound server transaction, so a request is either forwarded or answered, never both.
package proxy

//go:generate go tool errtrace -w .
//go:generate go tool mockgen -destination=../internal/testutil/proxymock/proxy.go -package=proxymock . Stack,RegisterHandler,CancelHandler

import (
	"context"
	"log/slog"
	"net/netip"

	"braces.dev/errtrace"

	"github.com/sipio/sipproxy/directory"
	"github.com/sipio/sipproxy/header"
	"github.com/sipio/sipproxy/internal/errorutil"
	"github.com/sipio/sipproxy/internal/log"
	"github.com/sipio/sipproxy/metrics"
	"github.com/sipio/sipproxy/sip"
	"github.com/sipio/sipproxy/uri"
)

// Proxy errors.
const (
	ErrInvalidArgument  = errorutil.ErrInvalidArgument
	ErrNoListeningPoint errorutil.Error = "no listening point"
)

// DefaultDIDHeader is the header carrying the dialed DID on peer egress calls.
const DefaultDIDHeader = "DIDRef"

// Stack is the SIP stack the proxy runs on.
type Stack interface {
	// NewServerTransaction opens a server transaction for the inbound request.
	NewServerTransaction(ctx context.Context, req *sip.InboundRequest) (sip.ServerTransaction, error)
	// NewClientTransaction opens a client transaction for the outbound request.
	NewClientTransaction(ctx context.Context, req *sip.Request) (sip.ClientTransaction, error)
	// SendRequest sends the request statelessly.
	SendRequest(ctx context.Context, req *sip.Request) error
	// ListeningPoint returns the local address bound for the transport.
	ListeningPoint(proto sip.TransportProto) (netip.AddrPort, bool)
}

// RegisterHandler processes REGISTER requests.
type RegisterHandler interface {
	Register(ctx context.Context, req *sip.InboundRequest, tx sip.ServerTransaction) error
}

// CancelHandler processes CANCEL requests.
type CancelHandler interface {
	Cancel(ctx context.Context, req *sip.InboundRequest, tx sip.ServerTransaction) error
}

// Authenticator issues digest challenges and verifies digest credentials.
// It is implemented by [digest.Authenticator].
type Authenticator interface {
	Challenge() *header.ProxyAuthenticate
	Verify(method sip.RequestMethod, crd *header.DigestCredentials, secret string) bool
}

// IPAllower evaluates access control lists.
// It is implemented by [acl.Evaluator].
type IPAllower interface {
	IsIPAllowed(domain *directory.Domain, ip netip.Addr) bool
}

// RequestEvent is an inbound request delivered by the stack.
type RequestEvent struct {
	Request *sip.InboundRequest
	// ServerTransaction is the transaction the stack already opened for the request, if any.
	ServerTransaction sip.ServerTransaction
}

// Config is the routing configuration. It is copied on construction and never changes afterwards.
type Config struct {
	// ExternAddr is the public address in "host[:port]" form advertised to non-local routes.
	ExternAddr string
	// LocalNets are the networks considered local.
	// When empty, private, loopback and link-local addresses are local.
	LocalNets []netip.Prefix
	// RecordRoute makes the proxy stay on the path of the dialogs it forwards.
	RecordRoute bool
	// AddressInfo is the list of headers overriding the address of record, first present wins.
	AddressInfo []string
	// DIDHeader is the header carrying the dialed DID.
	// Default is [DefaultDIDHeader].
	DIDHeader string
	// ForkConcurrency limits the number of legs dispatched at once, 0 means no limit.
	ForkConcurrency int
}

// Validate checks the configuration.
func (c Config) Validate() error {
	var errs []error
	if c.ExternAddr != "" {
		if _, err := parseExternAddr(c.ExternAddr); err != nil {
			errs = append(errs, err)
		}
	}
	for _, p := range c.LocalNets {
		if !p.IsValid() {
			errs = append(errs, errorutil.NewInvalidArgumentError("invalid local network"))
		}
	}
	if c.ForkConcurrency < 0 {
		errs = append(errs, errorutil.NewInvalidArgumentError("negative fork concurrency"))
	}
	return errtrace.Wrap(errorutil.Join(errs...))
}

func (c Config) clone() Config {
	c.LocalNets = append([]netip.Prefix(nil), c.LocalNets...)
	c.AddressInfo = append([]string(nil), c.AddressInfo...)
	if c.DIDHeader == "" {
		c.DIDHeader = DefaultDIDHeader
	}
	return c
}

func parseExternAddr(s string) (uri.Addr, error) {
	addr, err := uri.ParseAddr(s)
	if err != nil {
		return uri.Addr{}, errtrace.Wrap(errorutil.NewInvalidArgumentError(err))
	}
	return addr, nil
}

// Options are the optional proxy components.
type Options struct {
	// Log is the logger.
	// Default is [log.Noop].
	Log *slog.Logger
	// Metrics records pipeline counters, may be nil.
	Metrics *metrics.Metrics
}

func (o *Options) log() *slog.Logger {
	if o == nil || o.Log == nil {
		return log.Noop
	}
	return o.Log
}

func (o *Options) metrics() *metrics.Metrics {
	if o == nil {
		return nil
	}
	return o.Metrics
}
