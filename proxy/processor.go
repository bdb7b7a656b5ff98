package proxy

import (
	"context"
	"errors"
	"log/slog"

	"braces.dev/errtrace"

	"github.com/sipio/sipproxy/directory"
	"github.com/sipio/sipproxy/internal/errorutil"
	"github.com/sipio/sipproxy/location"
	"github.com/sipio/sipproxy/metrics"
	"github.com/sipio/sipproxy/routing"
	"github.com/sipio/sipproxy/sip"
	"github.com/sipio/sipproxy/txctx"
	"github.com/sipio/sipproxy/uri"
)

// Dependencies are the collaborators of the [Processor].
type Dependencies struct {
	Stack      Stack
	Classifier routing.Classifier
	// Auth verifies digest credentials, typically a [digest.Authenticator].
	Auth Authenticator
	// ACL evaluates domain access control lists, typically an [acl.Evaluator].
	ACL       IPAllower
	Trusted   location.TrustedRegistry
	Locator   location.Locator
	Directory directory.Directory
	Contexts  txctx.Store
	Register  RegisterHandler
	Cancel    CancelHandler
}

func (d *Dependencies) validate() error {
	var missing []string
	for _, dep := range []struct {
		name string
		ok   bool
	}{
		{"stack", d.Stack != nil},
		{"classifier", d.Classifier != nil},
		{"authenticator", d.Auth != nil},
		{"acl", d.ACL != nil},
		{"trusted registry", d.Trusted != nil},
		{"locator", d.Locator != nil},
		{"directory", d.Directory != nil},
		{"context store", d.Contexts != nil},
		{"register handler", d.Register != nil},
		{"cancel handler", d.Cancel != nil},
	} {
		if !dep.ok {
			missing = append(missing, dep.name)
		}
	}
	if len(missing) > 0 {
		return errtrace.Wrap(errorutil.NewInvalidArgumentError("missing dependencies %v", missing))
	}
	return nil
}

// Processor drives the routing pipeline of inbound requests.
// It is safe for concurrent use, each request is processed independently.
type Processor struct {
	stack       Stack
	classifier  routing.Classifier
	access      *AccessController
	acl         IPAllower
	trusted     location.TrustedRegistry
	domains     directory.Domains
	resolver    *AddressResolver
	transformer *Transformer
	dispatcher  *Dispatcher
	register    RegisterHandler
	cancel      CancelHandler
	log         *slog.Logger
	metrics     *metrics.Metrics
}

// NewProcessor creates a request processor.
func NewProcessor(cfg Config, deps Dependencies, opts *Options) (*Processor, error) {
	if err := deps.validate(); err != nil {
		return nil, errtrace.Wrap(err)
	}

	access, err := NewAccessController(deps.Directory, deps.Directory, deps.Auth, opts)
	if err != nil {
		return nil, errtrace.Wrap(err)
	}
	resolver, err := NewAddressResolver(cfg, deps.Locator, deps.Directory, deps.Stack, opts)
	if err != nil {
		return nil, errtrace.Wrap(err)
	}
	dispatcher, err := NewDispatcher(cfg, deps.Stack, deps.Contexts, opts)
	if err != nil {
		return nil, errtrace.Wrap(err)
	}

	return &Processor{
		stack:       deps.Stack,
		classifier:  deps.Classifier,
		access:      access,
		acl:         deps.ACL,
		trusted:     deps.Trusted,
		domains:     deps.Directory,
		resolver:    resolver,
		transformer: NewTransformer(cfg, resolver),
		dispatcher:  dispatcher,
		register:    deps.Register,
		cancel:      deps.Cancel,
		log:         opts.log(),
		metrics:     opts.metrics(),
	}, nil
}

// Process handles the inbound request.
// REGISTER and CANCEL are handed to their handlers, all other requests are routed.
// Policy and resolution failures are answered on the server transaction and are not
// returned as errors. The returned error means the request could not be answered or
// handed over at all.
func (p *Processor) Process(ctx context.Context, ev *RequestEvent) error {
	if ev == nil || ev.Request == nil {
		return errtrace.Wrap(errorutil.NewInvalidArgumentError("invalid request event"))
	}
	req := ev.Request
	method := req.Method()

	var tx sip.ServerTransaction
	if !method.Equal(sip.RequestMethodAck) {
		tx = ev.ServerTransaction
		if tx == nil {
			var err error
			if tx, err = p.stack.NewServerTransaction(ctx, req); err != nil {
				return errtrace.Wrap(err)
			}
		}
	}

	out := sip.NewOutboundRequest(req)

	switch {
	case method.Equal(sip.RequestMethodRegister):
		return errtrace.Wrap(p.register.Register(ctx, req, tx))
	case method.Equal(sip.RequestMethodCancel):
		return errtrace.Wrap(p.cancel.Cancel(ctx, req, tx))
	}

	defer p.metrics.Begin()()
	return errtrace.Wrap(p.route(ctx, req, tx, out))
}

func (p *Processor) route(ctx context.Context, req *sip.InboundRequest, tx sip.ServerTransaction, out *sip.OutboundRequest) error {
	method := req.Method()
	rmtIP := req.RemoteAddr().Addr().Unmap()

	typ := p.classifier.Classify(ctx, req)
	p.metrics.Request(string(method), typ.String())
	p.log.LogAttrs(ctx, slog.LevelDebug, "request classified", slog.Any("routing", typ), slog.Any("request", req))

	if typ == routing.InterDomain {
		return errtrace.Wrap(p.reject(ctx, req, tx, sip.ResponseStatusForbidden, "unsupported routing type"))
	}

	if typ != routing.DomainIngress {
		if !method.Equal(sip.RequestMethodAck) && !method.Equal(sip.RequestMethodBye) {
			res, err := p.access.Authorize(ctx, req, tx)
			if err != nil {
				return errtrace.Wrap(err)
			}
			switch res {
			case AuthGranted:
			case AuthChallenged:
				p.log.LogAttrs(ctx, slog.LevelInfo, "request challenged", slog.Any("request", req))
				return nil
			default:
				return errtrace.Wrap(p.reject(ctx, req, tx, sip.ResponseStatusUnauthorized, "authentication failed"))
			}
		}
	} else if !p.trusted.HasIP(ctx, rmtIP) {
		return errtrace.Wrap(p.reject(ctx, req, tx, sip.ResponseStatusUnauthorized, "untrusted ingress address"))
	}

	aor := p.resolver.AddressOfRecord(req)
	if typ == routing.IntraDomain {
		host, ok := domainHost(req, aor)
		if !ok {
			return errtrace.Wrap(p.reject(ctx, req, tx, sip.ResponseStatusUnauthorized, "no domain to check access against"))
		}
		dres := p.domains.Domain(ctx, host.Host())
		switch {
		case dres.IsOK():
			if !p.acl.IsIPAllowed(dres.Value, rmtIP) {
				return errtrace.Wrap(p.reject(ctx, req, tx, sip.ResponseStatusUnauthorized, "denied by domain access control list"))
			}
		case dres.IsError():
			p.log.LogAttrs(ctx, slog.LevelError, "domain lookup failed", slog.String("host", host.Host()), slog.Any("error", dres.Err))
			return errtrace.Wrap(p.reject(ctx, req, tx, sip.ResponseStatusServerInternalError, "domain lookup failed"))
		}
	}

	if _, err := out.DecrementMaxForwards(); err != nil {
		if errors.Is(err, sip.ErrTooManyHops) {
			return errtrace.Wrap(p.reject(ctx, req, tx, sip.ResponseStatusTooManyHops, "max-forwards exhausted"))
		}
		return errtrace.Wrap(err)
	}

	var routes []location.Route
	if typ == routing.PeerEgress {
		res := p.resolver.ResolvePeerEgress(ctx, req, aor)
		switch {
		case res.IsError():
			p.log.LogAttrs(ctx, slog.LevelError, "peer egress lookup failed", slog.Any("aor", aor), slog.Any("error", res.Err))
			return errtrace.Wrap(p.reject(ctx, req, tx, sip.ResponseStatusServerInternalError, "peer egress lookup failed"))
		case !res.IsOK():
			return errtrace.Wrap(p.reject(ctx, req, tx, sip.ResponseStatusTemporarilyUnavailable, "no egress route"))
		}
		routes = []location.Route{res.Value}
	} else {
		res := p.resolver.ResolveEndpoint(ctx, aor)
		switch {
		case res.IsError():
			p.log.LogAttrs(ctx, slog.LevelError, "endpoint lookup failed", slog.Any("aor", aor), slog.Any("error", res.Err))
			return errtrace.Wrap(p.reject(ctx, req, tx, sip.ResponseStatusServerInternalError, "endpoint lookup failed"))
		case !res.IsOK() || res.Value.Len() == 0:
			return errtrace.Wrap(p.reject(ctx, req, tx, sip.ResponseStatusTemporarilyUnavailable, "endpoint not found"))
		}
		routes = res.Value.Routes()
	}

	return errtrace.Wrap(p.forward(ctx, req, tx, out, routes))
}

// domainHost is the host of the address of record, or of the To URI
// when the address of record is not a SIP URI.
func domainHost(req *sip.InboundRequest, aor uri.URI) (uri.Addr, bool) {
	if host, ok := uri.HostOf(aor); ok && host.IsValid() {
		return host, true
	}
	if to, ok := req.To(); ok {
		if host, ok := uri.HostOf(to.URI); ok && host.IsValid() {
			return host, true
		}
	}
	return uri.Addr{}, false
}

func (p *Processor) forward(
	ctx context.Context,
	req *sip.InboundRequest,
	tx sip.ServerTransaction,
	out *sip.OutboundRequest,
	routes []location.Route,
) error {
	legs := make([]Leg, 0, len(routes))
	for _, route := range routes {
		leg := Leg{Route: route, Request: out.Clone()}
		if err := p.transformer.Transform(req, leg.Request, &leg.Route); err != nil {
			p.metrics.Leg(DispatchOther.outcome())
			p.log.LogAttrs(ctx, slog.LevelWarn, "failed to prepare request leg", slog.Any("route", route), slog.Any("error", err))
			continue
		}
		legs = append(legs, leg)
	}

	sent := 0
	for _, res := range p.dispatcher.Dispatch(ctx, req, tx, legs) {
		if res.OK() {
			sent++
		}
	}
	if sent > 0 || req.Method().Equal(sip.RequestMethodAck) {
		return nil
	}
	return errtrace.Wrap(p.reject(ctx, req, tx, sip.ResponseStatusServiceUnavailable, "all request legs failed"))
}

// reject answers the request with a final response. Requests without a server transaction
// (ACK) are dropped.
func (p *Processor) reject(
	ctx context.Context,
	req *sip.InboundRequest,
	tx sip.ServerTransaction,
	sts sip.ResponseStatus,
	cause string,
) error {
	p.log.LogAttrs(ctx, slog.LevelWarn, "request rejected",
		slog.Int("status", int(sts)),
		slog.String("cause", cause),
		slog.Any("request", req),
	)
	if tx == nil {
		return nil
	}

	res, err := req.NewResponse(sts, nil)
	if err != nil {
		return errtrace.Wrap(err)
	}
	if err := tx.Respond(ctx, res); err != nil {
		return errtrace.Wrap(err)
	}
	p.metrics.Response(int(sts))
	return nil
}
